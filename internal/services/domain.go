package services

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CreateDomainParams параметры создания домена.
type CreateDomainParams struct {
	CreatorID  *uint
	URI        string
	DomainType string
}

// UpdateDomainParams частичное обновление домена.
type UpdateDomainParams struct {
	DomainID   uint
	URI        *string
	DomainType *string
	Validated  *bool
}

// DomainSummary домен с агрегатами по кликам для списка в кабинете.
type DomainSummary struct {
	models.Domain
	NumClicks int64      `json:"numClicks"`
	LastClick *time.Time `json:"lastClick"`
}

// DomainService бизнес-логика доменов.
type DomainService struct {
	domainRepo   DomainRepository
	pageViewRepo PageViewRepository
	logger       *logrus.Entry
}

func NewDomainService(
	domainRepo DomainRepository,
	pageViewRepo PageViewRepository,
	logger *logrus.Logger,
) *DomainService {
	return &DomainService{
		domainRepo:   domainRepo,
		pageViewRepo: pageViewRepo,
		logger:       logger.WithField("module", "service/domain"),
	}
}

// Create создает домен. URI глобально уникален.
func (s *DomainService) Create(ctx context.Context, params CreateDomainParams) (*models.Domain, error) {
	uri, uriErr := normalizeDomainURI(params.URI)
	if uriErr != nil {
		return nil, uriErr
	}

	domainType := params.DomainType
	if domainType == "" {
		domainType = models.DomainTypeDomain
	}
	if domainType != models.DomainTypeDomain && domainType != models.DomainTypeSubdomain {
		return nil, errors.Wrap(ErrValidation, "domain_type")
	}

	domain := models.Domain{
		CreatorID:  params.CreatorID,
		URI:        uri,
		DomainType: domainType,
		Status:     models.DomainStatusPending,
	}
	if err := s.domainRepo.Create(ctx, &domain); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, errors.Wrap(ErrDuplicateKey, "uri")
		}
		return nil, ErrUnknown
	}
	return &domain, nil
}

func (s *DomainService) GetByID(ctx context.Context, id uint) (*models.Domain, error) {
	domain, err := s.domainRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "domain %d not found", id)
		}
		return nil, ErrUnknown
	}
	return domain, nil
}

// GetByHost находит домен по хосту входящего запроса (порт откусывается).
func (s *DomainService) GetByHost(ctx context.Context, host string) (*models.Domain, error) {
	domain, err := s.domainRepo.GetByURI(ctx, StripPort(host))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "domain %s not found", host)
		}
		return nil, ErrUnknown
	}
	return domain, nil
}

// CheckDuplicateURI true если URI уже занят.
func (s *DomainService) CheckDuplicateURI(ctx context.Context, uri string) (bool, error) {
	normalized, normErr := normalizeDomainURI(uri)
	if normErr != nil {
		return false, normErr
	}
	_, err := s.domainRepo.GetByURI(ctx, normalized)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	return false, ErrUnknown
}

// Update меняет URI, тип и/или флаг валидации.
func (s *DomainService) Update(ctx context.Context, params UpdateDomainParams) (*models.Domain, error) {
	domain, getErr := s.GetByID(ctx, params.DomainID)
	if getErr != nil {
		return nil, getErr
	}

	if params.URI != nil {
		normalized, normErr := normalizeDomainURI(*params.URI)
		if normErr != nil {
			return nil, normErr
		}
		domain.URI = normalized
	}
	if params.DomainType != nil {
		domain.DomainType = *params.DomainType
	}
	if params.Validated != nil {
		domain.Validated = *params.Validated
	}

	if err := s.domainRepo.Update(ctx, domain); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, errors.Wrap(ErrDuplicateKey, "uri")
		}
		return nil, ErrUnknown
	}
	return domain, nil
}

// VerifyDNS помечает домен проверенным. Статус движется только вперед:
// повторная проверка уже подтвержденного домена ничего не меняет.
func (s *DomainService) VerifyDNS(ctx context.Context, host string) (*models.Domain, error) {
	domain, getErr := s.GetByHost(ctx, host)
	if getErr != nil {
		return nil, getErr
	}
	if domain.Status != models.DomainStatusPending {
		return domain, nil
	}

	verified, err := s.domainRepo.MarkVerified(ctx, domain.ID)
	if err != nil {
		return nil, ErrUnknown
	}
	return verified, nil
}

// Archive переключает архивный флаг с записью события.
func (s *DomainService) Archive(ctx context.Context, id uint, actorID *uint) (*models.Domain, error) {
	domain, err := s.domainRepo.Archive(ctx, id, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "domain %d not found", id)
		}
		return nil, ErrUnknown
	}
	return domain, nil
}

// Delete удаляет домен вместе со всеми его ссылками.
func (s *DomainService) Delete(ctx context.Context, id uint) error {
	if err := s.domainRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return errors.Wrapf(ErrRecordNotFound, "domain %d not found", id)
		}
		return ErrUnknown
	}
	return nil
}

// List возвращает домены с числом кликов и временем последнего клика.
func (s *DomainService) List(
	ctx context.Context,
	filter repositories.DomainsFilter,
	page repositories.Pagination,
) ([]DomainSummary, error) {
	domains, err := s.domainRepo.List(ctx, filter, page)
	if err != nil {
		return nil, ErrUnknown
	}

	summaries := make([]DomainSummary, 0, len(domains))
	for _, domain := range domains {
		summary := DomainSummary{Domain: domain}

		count, countErr := s.pageViewRepo.CountByDomain(ctx, domain.ID)
		if countErr != nil {
			return nil, ErrUnknown
		}
		summary.NumClicks = count

		last, lastErr := s.pageViewRepo.LastByDomain(ctx, domain.ID)
		switch {
		case lastErr == nil:
			createdAt := last.CreatedAt
			summary.LastClick = &createdAt
		case errors.Is(lastErr, repositories.ErrNotFound):
			// кликов еще не было
		default:
			return nil, ErrUnknown
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// normalizeDomainURI приводит URI домена к каноничному виду хоста.
func normalizeDomainURI(uri string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(uri))
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" || strings.ContainsAny(trimmed, "/ ") {
		return "", errors.Wrap(ErrValidation, "uri")
	}
	return trimmed, nil
}

// StripPort убирает порт из значения Host входящего запроса.
func StripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
