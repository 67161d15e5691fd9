package services

import (
	"net/http"

	"github.com/fsdevblog/linkboard/internal/cache"
	"github.com/fsdevblog/linkboard/internal/geoip"
	"github.com/fsdevblog/linkboard/internal/repositories/sql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services сервисный слой приложения целиком.
type Services struct {
	LinkService     *LinkService
	DomainService   *DomainService
	PageViewService *PageViewService
}

// FactoryParams зависимости сервисного слоя. Кеш и гео-база опциональны.
type FactoryParams struct {
	DB            *gorm.DB
	LinkCache     *cache.LinkCache
	Geo           *geoip.Resolver
	DefaultDomain string
	Logger        *logrus.Logger
}

// Factory собирает сервисный слой поверх sql репозиториев.
func Factory(params FactoryParams) *Services {
	linkRepo := sql.NewLinkRepo(params.DB, params.Logger)
	domainRepo := sql.NewDomainRepo(params.DB, params.Logger)
	pageViewRepo := sql.NewPageViewRepo(params.DB, params.Logger)

	titles := NewHTTPTitleFetcher(&http.Client{Timeout: titleFetchTimeout})

	var geo GeoResolver
	if params.Geo != nil {
		geo = params.Geo
	}

	return &Services{
		LinkService: NewLinkService(
			linkRepo,
			domainRepo,
			titles,
			params.LinkCache,
			params.DefaultDomain,
			params.Logger,
		),
		DomainService:   NewDomainService(domainRepo, pageViewRepo, params.Logger),
		PageViewService: NewPageViewService(pageViewRepo, geo, params.Logger),
	}
}
