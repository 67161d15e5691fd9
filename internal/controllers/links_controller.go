package controllers

import (
	"net/http"

	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/gin-gonic/gin"
)

// LinksController CRUD коротких ссылок.
type LinksController struct {
	links   LinkManager
	domains DomainManager
	clicks  ClickTracker
}

func NewLinksController(links LinkManager, domains DomainManager, clicks ClickTracker) *LinksController {
	return &LinksController{
		links:   links,
		domains: domains,
		clicks:  clicks,
	}
}

type createLinkRequest struct {
	URI        string `json:"uri" binding:"required"`
	SLink      string `json:"sLink"`
	LinkDomain string `json:"linkDomain"`
}

// Create создает ссылку. Доступно и анонимам: в таком случае владельцем
// выступает UUID посетителя из куки.
func (l *LinksController) Create(c *gin.Context) {
	var req createLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := services.CreateLinkParams{
		CreatorID:   currentUserID(c),
		VisitorUUID: visitorUUID(c),
		URL:         req.URI,
		CustomToken: req.SLink,
	}
	if req.LinkDomain != "" {
		domain, domainErr := l.domains.GetByHost(c.Request.Context(), req.LinkDomain)
		if domainErr != nil {
			respondServiceError(c, domainErr)
			return
		}
		params.DomainID = domain.ID
	}

	link, createErr := l.links.Create(c.Request.Context(), params)
	if createErr != nil {
		respondServiceError(c, createErr)
		return
	}
	c.JSON(http.StatusCreated, link)
}

type updateLinkRequest struct {
	LinkID uint    `json:"linkId" binding:"required"`
	URI    *string `json:"uri"`
	SLink  *string `json:"sLink"`
	Domain *string `json:"domain"`
}

func (l *LinksController) Update(c *gin.Context) {
	var req updateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := services.UpdateLinkParams{
		LinkID:     req.LinkID,
		URL:        req.URI,
		ShortToken: req.SLink,
	}
	if req.Domain != nil {
		domain, domainErr := l.domains.GetByHost(c.Request.Context(), *req.Domain)
		if domainErr != nil {
			respondServiceError(c, domainErr)
			return
		}
		params.DomainID = &domain.ID
	}

	link, updErr := l.links.Update(c.Request.Context(), params)
	if updErr != nil {
		respondServiceError(c, updErr)
		return
	}
	c.JSON(http.StatusOK, link)
}

type checkTokenRequest struct {
	SLink      string `json:"sLink" binding:"required"`
	LinkDomain string `json:"linkDomain"`
}

// CheckToken отвечает, свободен ли пользовательский токен. Проверка
// идет в рамках одного домена: та же строка под другим доменом занята
// не считается.
func (l *LinksController) CheckToken(c *gin.Context) {
	var req checkTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	host := req.LinkDomain
	if host == "" {
		host = c.Request.Host
	}
	domain, domainErr := l.domains.GetByHost(c.Request.Context(), host)
	if domainErr != nil {
		respondServiceError(c, domainErr)
		return
	}

	available, checkErr := l.links.CheckTokenAvailable(c.Request.Context(), domain.ID, req.SLink)
	if checkErr != nil {
		respondServiceError(c, checkErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}

type archiveLinkRequest struct {
	LinkID uint `json:"linkId" binding:"required"`
}

func (l *LinksController) Archive(c *gin.Context) {
	var req archiveLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	link, err := l.links.Archive(c.Request.Context(), req.LinkID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Get информация о ссылке без редиректа.
func (l *LinksController) Get(c *gin.Context) {
	linkID, ok := paramUint(c, "linkID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	link, err := l.links.GetByID(c.Request.Context(), linkID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// Delete жесткое удаление ссылки с каскадом по просмотрам.
// Возвращает количество удаленных записей.
func (l *LinksController) Delete(c *gin.Context) {
	linkID, ok := paramUint(c, "linkID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	result, err := l.links.Delete(c.Request.Context(), linkID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// List показывает ссылки текущей личности (пользователя либо посетителя),
// свежие первыми.
func (l *LinksController) List(c *gin.Context) {
	filter := repositories.LinksFilter{
		URL:        c.Query("url"),
		Type:       c.Query("type"),
		ShortToken: c.Query("shortToken"),
	}
	if userID := currentUserID(c); userID != nil {
		filter.CreatorID = userID
	} else {
		filter.VisitorUUID = visitorUUID(c)
	}

	links, err := l.links.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// ClickCount количество просмотров ссылки.
func (l *LinksController) ClickCount(c *gin.Context) {
	linkID, ok := paramUint(c, "linkID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid link id"})
		return
	}

	// Ссылка должна существовать: счетчик несуществующей ссылки это 404,
	// а не честный ноль.
	if _, err := l.links.GetByID(c.Request.Context(), linkID); err != nil {
		respondServiceError(c, err)
		return
	}

	count, err := l.clicks.Count(c.Request.Context(), linkID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}
