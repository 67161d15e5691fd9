package controllers

import (
	"net/http"

	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
	"github.com/gin-gonic/gin"
)

// DomainsController управление пользовательскими доменами.
type DomainsController struct {
	domains DomainManager
	dnsKey  string
}

func NewDomainsController(domains DomainManager, dnsKey string) *DomainsController {
	return &DomainsController{
		domains: domains,
		dnsKey:  dnsKey,
	}
}

type createDomainRequest struct {
	URI        string `json:"uri" binding:"required"`
	DomainType string `json:"domainType"`
}

func (d *DomainsController) Create(c *gin.Context) {
	var req createDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain, err := d.domains.Create(c.Request.Context(), services.CreateDomainParams{
		CreatorID:  currentUserID(c),
		URI:        req.URI,
		DomainType: req.DomainType,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, domain)
}

type updateDomainRequest struct {
	DomainID   uint    `json:"domainId" binding:"required"`
	URI        *string `json:"uri"`
	DomainType *string `json:"domainType"`
	Validated  *bool   `json:"validated"`
}

func (d *DomainsController) Update(c *gin.Context) {
	var req updateDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain, err := d.domains.Update(c.Request.Context(), services.UpdateDomainParams{
		DomainID:   req.DomainID,
		URI:        req.URI,
		DomainType: req.DomainType,
		Validated:  req.Validated,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain)
}

type checkURIRequest struct {
	URI string `json:"uri" binding:"required"`
}

// CheckURI проверка занятости URI до отправки формы.
func (d *DomainsController) CheckURI(c *gin.Context) {
	var req checkURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	duplicate, err := d.domains.CheckDuplicateURI(c.Request.Context(), req.URI)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkDup": duplicate})
}

// CheckDNS внешняя проверка DNS. Запрос приходит на сам проверяемый хост
// и обязан предъявить общий ключ в Authorization. Неаутентифицированный
// запрос неотличим от несуществующего домена.
func (d *DomainsController) CheckDNS(c *gin.Context) {
	if d.dnsKey == "" || c.GetHeader("Authorization") != d.dnsKey {
		c.JSON(http.StatusNotFound, gin.H{"error": "Domain cannot be found"})
		return
	}

	domain, err := d.domains.VerifyDNS(c.Request.Context(), c.Request.Host)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain)
}

type archiveDomainRequest struct {
	DomainID uint `json:"domainId" binding:"required"`
}

func (d *DomainsController) Archive(c *gin.Context) {
	var req archiveDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	domain, err := d.domains.Archive(c.Request.Context(), req.DomainID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain)
}

func (d *DomainsController) Get(c *gin.Context) {
	domainID, ok := paramUint(c, "domainID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain id"})
		return
	}

	domain, err := d.domains.GetByID(c.Request.Context(), domainID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain)
}

// Delete удаляет домен вместе с его ссылками и их просмотрами.
func (d *DomainsController) Delete(c *gin.Context) {
	domainID, ok := paramUint(c, "domainID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid domain id"})
		return
	}

	if err := d.domains.Delete(c.Request.Context(), domainID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List домены текущего пользователя с агрегатами по кликам.
func (d *DomainsController) List(c *gin.Context) {
	filter := repositories.DomainsFilter{
		CreatorID:  currentUserID(c),
		DomainType: c.Query("domainType"),
	}

	domains, err := d.domains.List(c.Request.Context(), filter, pagination(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, domains)
}
