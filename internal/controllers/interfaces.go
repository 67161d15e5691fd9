package controllers

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/services"
)

// LinkManager операции над ссылками, нужные контроллерам.
type LinkManager interface {
	Create(ctx context.Context, params services.CreateLinkParams) (*models.Link, error)
	Resolve(ctx context.Context, host, token string) (*services.RedirectTarget, error)
	GetByID(ctx context.Context, id uint) (*models.Link, error)
	CheckTokenAvailable(ctx context.Context, domainID uint, token string) (bool, error)
	Update(ctx context.Context, params services.UpdateLinkParams) (*models.Link, error)
	Archive(ctx context.Context, id uint, actorID *uint) (*models.Link, error)
	Delete(ctx context.Context, id uint) (*repositories.DeleteLinkResult, error)
	List(
		ctx context.Context,
		filter repositories.LinksFilter,
		page repositories.Pagination,
	) ([]models.Link, error)
}

// DomainManager операции над доменами.
type DomainManager interface {
	Create(ctx context.Context, params services.CreateDomainParams) (*models.Domain, error)
	GetByID(ctx context.Context, id uint) (*models.Domain, error)
	GetByHost(ctx context.Context, host string) (*models.Domain, error)
	CheckDuplicateURI(ctx context.Context, uri string) (bool, error)
	Update(ctx context.Context, params services.UpdateDomainParams) (*models.Domain, error)
	VerifyDNS(ctx context.Context, host string) (*models.Domain, error)
	Archive(ctx context.Context, id uint, actorID *uint) (*models.Domain, error)
	Delete(ctx context.Context, id uint) error
	List(
		ctx context.Context,
		filter repositories.DomainsFilter,
		page repositories.Pagination,
	) ([]services.DomainSummary, error)
}

// ClickTracker асинхронная запись просмотров после редиректа.
type ClickTracker interface {
	Track(visit services.Visit)
	Count(ctx context.Context, linkID uint) (int64, error)
	Summarize(ctx context.Context, linkID uint) (*services.LinkSummary, error)
}
