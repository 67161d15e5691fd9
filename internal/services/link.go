package services

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/fsdevblog/linkboard/internal/cache"
	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// customTokenRegex допустимый пользовательский токен.
var customTokenRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

const titleFetchTimeout = 3 * time.Second

// RedirectTarget результат разрешения короткой ссылки на горячем пути.
type RedirectTarget struct {
	LinkID uint
	URL    string
}

// CreateLinkParams параметры создания ссылки. CustomToken пустой —
// токен генерируется. DomainID нулевой — ссылка живет под доменом
// сервиса по умолчанию.
type CreateLinkParams struct {
	CreatorID   *uint
	VisitorUUID string
	URL         string
	CustomToken string
	DomainID    uint
}

// UpdateLinkParams частичное обновление: nil поля не трогаются.
type UpdateLinkParams struct {
	LinkID     uint
	URL        *string
	ShortToken *string
	DomainID   *uint
}

// LinkService бизнес-логика коротких ссылок.
type LinkService struct {
	linkRepo      LinkRepository
	domainRepo    DomainRepository
	titles        TitleFetcher
	linkCache     *cache.LinkCache
	defaultDomain string
	logger        *logrus.Entry
}

func NewLinkService(
	linkRepo LinkRepository,
	domainRepo DomainRepository,
	titles TitleFetcher,
	linkCache *cache.LinkCache,
	defaultDomain string,
	logger *logrus.Logger,
) *LinkService {
	return &LinkService{
		linkRepo:      linkRepo,
		domainRepo:    domainRepo,
		titles:        titles,
		linkCache:     linkCache,
		defaultDomain: defaultDomain,
		logger:        logger.WithField("module", "service/link"),
	}
}

// Create создает ссылку. Порядок проверок: валидация адреса, защита от
// повторной отправки, затем вставка. Уникальность токена окончательно
// решает уникальный индекс: при автогенерации коллизия уходит в ретрай,
// пользовательский токен при коллизии отклоняется конфликтом.
func (s *LinkService) Create(ctx context.Context, params CreateLinkParams) (*models.Link, error) {
	normalized, normErr := NormalizeURL(params.URL)
	if normErr != nil {
		return nil, normErr
	}

	domainID := params.DomainID
	if domainID == 0 {
		domain, domainErr := s.domainRepo.GetByURI(ctx, s.defaultDomain)
		if domainErr != nil {
			return nil, errors.Wrap(ErrUnknown, "default domain is missing")
		}
		domainID = domain.ID
	}

	if _, dupErr := s.linkRepo.GetDuplicate(
		ctx, params.CreatorID, params.VisitorUUID, normalized, domainID,
	); dupErr == nil {
		return nil, errors.Wrap(ErrDuplicateKey, "url")
	}

	link := models.Link{
		CreatorID:   params.CreatorID,
		VisitorUUID: params.VisitorUUID,
		URL:         normalized,
		Type:        models.LinkTypeWebsite,
		DomainID:    domainID,
		PageTitle:   s.fetchTitle(ctx, normalized),
	}

	if params.CustomToken != "" {
		if !customTokenRegex.MatchString(params.CustomToken) {
			return nil, errors.Wrap(ErrValidation, "short_token")
		}
		link.ShortToken = params.CustomToken
		if createErr := s.linkRepo.Create(ctx, &link); createErr != nil {
			if errors.Is(createErr, repositories.ErrDuplicateKey) {
				// Токен занят только в рамках этого домена; под другим
				// доменом та же строка была бы валидна.
				return nil, errors.Wrap(ErrDuplicateKey, "short_token")
			}
			return nil, ErrUnknown
		}
		return &link, nil
	}

	for attempt := 1; ; attempt++ {
		if attempt > maxGenerationAttempts {
			s.logger.Errorf("short token generation exhausted after %d attempts (domain %d)",
				maxGenerationAttempts, domainID)
			return nil, ErrGenerationExhausted
		}
		token, tokenErr := generateShortToken(ShortTokenLength)
		if tokenErr != nil {
			return nil, ErrUnknown
		}
		link.ShortToken = token
		createErr := s.linkRepo.Create(ctx, &link)
		if createErr == nil {
			return &link, nil
		}
		if errors.Is(createErr, repositories.ErrDuplicateKey) {
			continue
		}
		return nil, ErrUnknown
	}
}

// Resolve горячий путь редиректа: кеш, затем домен по хосту и ссылка по
// токену. Заархивированная ссылка равносильна отсутствующей.
func (s *LinkService) Resolve(ctx context.Context, host, token string) (*RedirectTarget, error) {
	if entry, ok := s.linkCache.Get(ctx, host, token); ok {
		return &RedirectTarget{LinkID: entry.LinkID, URL: entry.URL}, nil
	}

	domain, domainErr := s.domainRepo.GetByURI(ctx, host)
	if domainErr != nil {
		if errors.Is(domainErr, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "domain %s not found", host)
		}
		return nil, ErrUnknown
	}

	link, linkErr := s.linkRepo.GetByToken(ctx, domain.ID, token)
	if linkErr != nil {
		if errors.Is(linkErr, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "token %s not found", token)
		}
		return nil, ErrUnknown
	}
	if link.Archived {
		return nil, errors.Wrapf(ErrRecordNotFound, "token %s is archived", token)
	}

	s.linkCache.Set(ctx, host, token, cache.LinkEntry{LinkID: link.ID, URL: link.URL})
	return &RedirectTarget{LinkID: link.ID, URL: link.URL}, nil
}

func (s *LinkService) GetByID(ctx context.Context, id uint) (*models.Link, error) {
	link, err := s.linkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "link %d not found", id)
		}
		return nil, ErrUnknown
	}
	return link, nil
}

// GetByToken находит ссылку по токену в рамках домена.
func (s *LinkService) GetByToken(ctx context.Context, domainID uint, token string) (*models.Link, error) {
	link, err := s.linkRepo.GetByToken(ctx, domainID, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "token %s not found", token)
		}
		return nil, ErrUnknown
	}
	return link, nil
}

// CheckTokenAvailable проверяет свободен ли токен в рамках домена.
func (s *LinkService) CheckTokenAvailable(ctx context.Context, domainID uint, token string) (bool, error) {
	_, err := s.linkRepo.GetByToken(ctx, domainID, token)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return true, nil
	}
	return false, ErrUnknown
}

// Update меняет адрес, токен и/или домен. Уникальность новой пары
// (домен, токен) перепроверяется вставкой — индекс вернет конфликт.
func (s *LinkService) Update(ctx context.Context, params UpdateLinkParams) (*models.Link, error) {
	link, getErr := s.GetByID(ctx, params.LinkID)
	if getErr != nil {
		return nil, getErr
	}
	oldToken := link.ShortToken
	oldDomainID := link.DomainID

	if params.URL != nil {
		normalized, normErr := NormalizeURL(*params.URL)
		if normErr != nil {
			return nil, normErr
		}
		link.URL = normalized
	}
	if params.ShortToken != nil {
		if !customTokenRegex.MatchString(*params.ShortToken) {
			return nil, errors.Wrap(ErrValidation, "short_token")
		}
		link.ShortToken = *params.ShortToken
	}
	if params.DomainID != nil {
		link.DomainID = *params.DomainID
	}

	if updErr := s.linkRepo.Update(ctx, link); updErr != nil {
		if errors.Is(updErr, repositories.ErrDuplicateKey) {
			return nil, errors.Wrap(ErrDuplicateKey, "short_token")
		}
		return nil, ErrUnknown
	}

	s.invalidateCache(ctx, oldDomainID, oldToken)
	return link, nil
}

// Archive переключает архивный флаг. Повторный вызов возвращает ссылку
// в исходное состояние, история событий при этом удлиняется.
func (s *LinkService) Archive(ctx context.Context, id uint, actorID *uint) (*models.Link, error) {
	link, err := s.linkRepo.Archive(ctx, id, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "link %d not found", id)
		}
		return nil, ErrUnknown
	}
	s.invalidateCache(ctx, link.DomainID, link.ShortToken)
	return link, nil
}

// Delete жесткое удаление с каскадом по просмотрам.
func (s *LinkService) Delete(ctx context.Context, id uint) (*repositories.DeleteLinkResult, error) {
	link, getErr := s.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}

	result, delErr := s.linkRepo.Delete(ctx, id)
	if delErr != nil {
		if errors.Is(delErr, repositories.ErrNotFound) {
			return nil, errors.Wrapf(ErrRecordNotFound, "link %d not found", id)
		}
		return nil, ErrUnknown
	}

	s.invalidateCache(ctx, link.DomainID, link.ShortToken)
	return result, nil
}

func (s *LinkService) List(
	ctx context.Context,
	filter repositories.LinksFilter,
	page repositories.Pagination,
) ([]models.Link, error) {
	links, err := s.linkRepo.List(ctx, filter, page)
	if err != nil {
		return nil, ErrUnknown
	}
	return links, nil
}

// fetchTitle тянет заголовок страницы с коротким таймаутом. Любая ошибка
// деградирует до пустого заголовка, создание ссылки не блокируется.
func (s *LinkService) fetchTitle(ctx context.Context, rawURL string) string {
	if s.titles == nil {
		return ""
	}
	tctx, cancel := context.WithTimeout(ctx, titleFetchTimeout)
	defer cancel()

	title, err := s.titles.FetchTitle(tctx, rawURL)
	if err != nil {
		s.logger.WithError(err).Debugf("failed to fetch title for %s", rawURL)
		return ""
	}
	return title
}

func (s *LinkService) invalidateCache(ctx context.Context, domainID uint, token string) {
	if s.linkCache == nil {
		return
	}
	domain, err := s.domainRepo.GetByID(ctx, domainID)
	if err != nil {
		s.logger.WithError(err).Warnf("cache invalidation skipped for domain %d", domainID)
		return
	}
	s.linkCache.Invalidate(ctx, domain.URI, token)
}

// NormalizeURL валидирует целевой адрес. Схема дописывается если не
// указана, результат всегда абсолютный http(s) URL.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.Wrap(ErrValidation, "url is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.ParseRequestURI(trimmed)
	if err != nil {
		return "", errors.Wrap(ErrValidation, "invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Wrap(ErrValidation, "URL must have http or https scheme")
	}
	if parsed.Host == "" {
		return "", errors.Wrap(ErrValidation, "URL must have a host")
	}
	return parsed.String(), nil
}
