package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fsdevblog/linkboard/internal/tokens"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CurrentUserIDKey ключ контекста с идентификатором пользователя.
	CurrentUserIDKey = "currentUserID"
	// VisitorUUIDKey ключ контекста с UUID посетителя.
	VisitorUUIDKey = "visitorUUID"

	VisitorCookieName        = "visitor"
	VisitorJWTExpireDuration = 24 * time.Hour

	bearerPrefix = "Bearer "
)

// UserAuthMiddleware достает личность пользователя из Bearer токена.
// Токены выпускает внешний сервис аутентификации, мы им доверяем после
// проверки подписи. Отсутствие или невалидность токена не ошибка:
// запрос продолжается анонимным.
func UserAuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		token, err := tokens.ValidateUserJWT(strings.TrimPrefix(header, bearerPrefix), jwtSecret)
		if err != nil {
			_ = c.Error(fmt.Errorf("user auth middleware: %w", err))
			c.Next()
			return
		}

		if claims, ok := token.Claims.(*tokens.UserClaims); ok && token.Valid {
			c.Set(CurrentUserIDKey, claims.UserID)
		}
		c.Next()
	}
}

// RequireUser пропускает только аутентифицированные запросы.
// Вешается после UserAuthMiddleware.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentUserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// VisitorCookieMiddleware присваивает посетителю UUID в подписанной куке.
// Анонимные ссылки привязываются к этому UUID.
func VisitorCookieMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorAuthCookie, err := c.Request.Cookie(VisitorCookieName)

		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			// куки не работают. Нам тут делать нечего, отправляем ошибку выше и едем дальше.
			_ = c.Error(fmt.Errorf("visitor cookie middleware: %w", err))
			c.Next()
			return
		}

		var visitorUUID string
		needGenerateJWT := true

		if visitorAuthCookie != nil {
			// Проверяем токен
			token, validateErr := tokens.ValidateVisitorJWT(visitorAuthCookie.Value, jwtSecret)
			if validateErr != nil {
				// отправляем ошибку и будем выставлять новый токен.
				_ = c.Error(fmt.Errorf("visitor cookie middleware: %w", validateErr))
			} else if token.Valid {
				needGenerateJWT = false

				// Безопасная операция, т.к. проверка типа происходит в tokens.ValidateVisitorJWT.
				visitorUUID = token.Claims.(*tokens.VisitorClaims).UUID //nolint:errcheck
			}
		}

		if needGenerateJWT {
			var uErr error
			visitorUUID, uErr = generateUUID()
			if uErr != nil {
				_ = c.Error(fmt.Errorf("visitor cookie middleware: %w", uErr))
				c.Next()
				return
			}
			tokenString, tokenErr := tokens.GenerateVisitorJWT(visitorUUID, VisitorJWTExpireDuration, jwtSecret)
			if tokenErr != nil {
				_ = c.Error(fmt.Errorf("visitor cookie middleware: %w", tokenErr))
				c.Next()
				return
			}
			c.SetCookie(
				VisitorCookieName,
				tokenString,
				int(VisitorJWTExpireDuration.Seconds()),
				"/",
				"",
				false,
				true,
			)
		}

		// Устанавливаем UUID посетителя в контекст gin.
		c.Set(VisitorUUIDKey, visitorUUID)
		c.Next()
	}
}

func generateUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid error: %w", err)
	}
	return u.String(), nil
}
