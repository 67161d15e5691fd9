package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fsdevblog/linkboard/internal/controllers/middlewares"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// currentUserID идентификатор пользователя из контекста запроса.
// nil — анонимный запрос.
func currentUserID(c *gin.Context) *uint {
	value, exists := c.Get(middlewares.CurrentUserIDKey)
	if !exists {
		return nil
	}
	userID, ok := value.(uint)
	if !ok {
		return nil
	}
	return &userID
}

// visitorUUID идентификатор посетителя из куки.
func visitorUUID(c *gin.Context) string {
	value, exists := c.Get(middlewares.VisitorUUIDKey)
	if !exists {
		return ""
	}
	uuidStr, _ := value.(string) //nolint:errcheck
	return uuidStr
}

// paramUint числовой параметр пути.
func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(parsed), true
}

// pagination собирает параметры страницы из query.
func pagination(c *gin.Context) repositories.Pagination {
	page, _ := strconv.Atoi(c.Query("page"))       //nolint:errcheck
	perPage, _ := strconv.Atoi(c.Query("perPage")) //nolint:errcheck
	return repositories.Pagination{Page: page, PerPage: perPage}
}

// conflictField достает имя поля из обернутой ошибки дубликата.
// Сервисный слой оборачивает ErrDuplicateKey именем поля.
func conflictField(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ":"); idx > 0 {
		return strings.TrimSpace(msg[:idx])
	}
	return ""
}

// respondServiceError единая трансляция ошибок сервисного слоя в HTTP.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrRecordNotFound.Error()})
	case errors.Is(err, services.ErrDuplicateKey):
		c.JSON(http.StatusConflict, gin.H{
			"field":   conflictField(err),
			"message": "already exists",
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrGenerationExhausted):
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": ErrInternal.Error()})
	}
}
