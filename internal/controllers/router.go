package controllers

import (
	"net/http"

	"github.com/fsdevblog/linkboard/internal/config"
	"github.com/fsdevblog/linkboard/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouterParams зависимости роутера.
type RouterParams struct {
	LinkService     LinkManager
	DomainService   DomainManager
	PageViewService ClickTracker
	AppConf         config.Config
	Logger          *logrus.Logger
}

func SetupRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(p.Logger))

	jwtSecret := []byte(p.AppConf.JWTSecret)
	r.Use(middlewares.UserAuthMiddleware(jwtSecret))
	r.Use(middlewares.VisitorCookieMiddleware(jwtSecret))

	redirectController := NewRedirectController(
		p.LinkService, p.PageViewService, p.AppConf.NotFoundRedirectURL)
	linksController := NewLinksController(p.LinkService, p.DomainService, p.PageViewService)
	domainsController := NewDomainsController(p.DomainService, p.AppConf.DNSKey)
	dashboardController := NewDashboardController(p.LinkService, p.PageViewService)

	r.GET("/status", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.GET("/:token", redirectController.Redirect)

	api := r.Group("/api/v1")
	{
		// Создание доступно анонимам, остальное только владельцам.
		api.POST("/link", linksController.Create)
		api.GET("/link/:linkID", middlewares.RequireUser(), linksController.Get)
		api.PUT("/link", middlewares.RequireUser(), linksController.Update)
		api.POST("/link/slink", middlewares.RequireUser(), linksController.CheckToken)
		api.POST("/link/archive", middlewares.RequireUser(), linksController.Archive)
		api.DELETE("/link/:linkID", middlewares.RequireUser(), linksController.Delete)
		api.GET("/links", linksController.List)

		api.GET("/pageviews/:linkID/count", middlewares.RequireUser(), linksController.ClickCount)
		api.GET("/dashboard/:linkID", middlewares.RequireUser(), dashboardController.LinkInfo)

		// Проверка DNS аутентифицируется общим ключом, не пользователем.
		api.GET("/domain/check", domainsController.CheckDNS)
		api.POST("/domain", middlewares.RequireUser(), domainsController.Create)
		api.GET("/domain/:domainID", middlewares.RequireUser(), domainsController.Get)
		api.PUT("/domain", middlewares.RequireUser(), domainsController.Update)
		api.POST("/domain/uniq", middlewares.RequireUser(), domainsController.CheckURI)
		api.POST("/domain/archive", middlewares.RequireUser(), domainsController.Archive)
		api.DELETE("/domain/:domainID", middlewares.RequireUser(), domainsController.Delete)
		api.GET("/domains", middlewares.RequireUser(), domainsController.List)
	}

	return r
}
