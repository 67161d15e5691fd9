package services

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
)

// LinkRepository описывает репозиторий ссылок.
type LinkRepository interface {
	// Create создает запись. Коллизия по (domain_id, short_token)
	// возвращается как repositories.ErrDuplicateKey.
	Create(ctx context.Context, link *models.Link) error
	GetByID(ctx context.Context, id uint) (*models.Link, error)
	// GetByToken находит запись по токену в рамках домена.
	GetByToken(ctx context.Context, domainID uint, token string) (*models.Link, error)
	// GetDuplicate находит ссылку того же владельца на тот же адрес.
	GetDuplicate(
		ctx context.Context,
		creatorID *uint,
		visitorUUID string,
		rawURL string,
		domainID uint,
	) (*models.Link, error)
	Update(ctx context.Context, link *models.Link) error
	Archive(ctx context.Context, id uint, actorID *uint) (*models.Link, error)
	Delete(ctx context.Context, id uint) (*repositories.DeleteLinkResult, error)
	List(
		ctx context.Context,
		filter repositories.LinksFilter,
		page repositories.Pagination,
	) ([]models.Link, error)
}

// DomainRepository описывает репозиторий доменов.
type DomainRepository interface {
	Create(ctx context.Context, domain *models.Domain) error
	GetByID(ctx context.Context, id uint) (*models.Domain, error)
	GetByURI(ctx context.Context, uri string) (*models.Domain, error)
	Update(ctx context.Context, domain *models.Domain) error
	MarkVerified(ctx context.Context, id uint) (*models.Domain, error)
	Archive(ctx context.Context, id uint, actorID *uint) (*models.Domain, error)
	Delete(ctx context.Context, id uint) error
	List(
		ctx context.Context,
		filter repositories.DomainsFilter,
		page repositories.Pagination,
	) ([]models.Domain, error)
}

// PageViewRepository описывает репозиторий просмотров.
type PageViewRepository interface {
	Create(ctx context.Context, view *models.PageView) error
	GetByID(ctx context.Context, id uint) (*models.PageView, error)
	UpdateLocation(ctx context.Context, id uint, loc models.Location) error
	CountByLink(ctx context.Context, linkID uint) (int64, error)
	CountByDomain(ctx context.Context, domainID uint) (int64, error)
	LastByLink(ctx context.Context, linkID uint) (*models.PageView, error)
	LastByDomain(ctx context.Context, domainID uint) (*models.PageView, error)
	GroupCount(
		ctx context.Context,
		linkID uint,
		dim repositories.Dimension,
	) ([]repositories.DimensionCount, error)
}

// GeoResolver разрешает IP в гео-данные. Сбой не критичен.
type GeoResolver interface {
	Lookup(ip string) (*models.Location, error)
}

// TitleFetcher достает заголовок целевой страницы. Сбой не критичен.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, rawURL string) (string, error)
}
