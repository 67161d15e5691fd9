package services

import (
	"context"
	"time"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/fsdevblog/linkboard/internal/uaparse"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const trackTimeout = 15 * time.Second

// Visit синхронный контекст редиректа, из которого строится просмотр.
type Visit struct {
	LinkID    uint
	IP        string
	UserAgent string
	Referrer  string
}

// LinkSummary сводка кликов по ссылке для дашборда.
type LinkSummary struct {
	TotalClicks     int64                         `json:"totalClicks"`
	MostRecentClick *time.Time                    `json:"mostRecentClick"`
	Countries       []repositories.DimensionCount `json:"countries"`
	States          []repositories.DimensionCount `json:"states"`
	JustUSA         bool                          `json:"justUSA"`
	Referrers       []repositories.DimensionCount `json:"referrers"`
	Devices         []repositories.DimensionCount `json:"devices"`
	Platforms       []repositories.DimensionCount `json:"platforms"`
	Browsers        []repositories.DimensionCount `json:"browsers"`
}

// PageViewService запись просмотров и сводная статистика.
type PageViewService struct {
	pageViewRepo PageViewRepository
	geo          GeoResolver
	logger       *logrus.Entry
}

func NewPageViewService(
	pageViewRepo PageViewRepository,
	geo GeoResolver,
	logger *logrus.Logger,
) *PageViewService {
	return &PageViewService{
		pageViewRepo: pageViewRepo,
		geo:          geo,
		logger:       logger.WithField("module", "service/pageview"),
	}
}

// Track полный конвейер записи просмотра: вставка с unknown гео-полями,
// затем гео-поиск и обновление уже вставленной записи. Вызывается после
// отправки редиректа на собственном контексте — обрыв клиентского
// соединения не отменяет запись. Ошибки логируются и глотаются: ответ
// клиенту уже ушел, влиять на него поздно.
func (s *PageViewService) Track(visit Visit) {
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()

	view := models.NewPageView(visit.LinkID, visit.IP)
	view.Referrer = visit.Referrer
	uaparse.Parse(visit.UserAgent).Apply(view)

	if err := s.pageViewRepo.Create(ctx, view); err != nil {
		s.logger.WithError(err).Errorf("failed to persist pageview for link %d", visit.LinkID)
		return
	}

	s.backfillLocation(ctx, view.ID, visit.IP)
}

// Record вставляет просмотр как есть. Гео-поля должны быть уже
// проставлены (хотя бы сентинелами).
func (s *PageViewService) Record(ctx context.Context, view *models.PageView) error {
	if err := s.pageViewRepo.Create(ctx, view); err != nil {
		return ErrUnknown
	}
	return nil
}

// backfillLocation дописывает гео-данные в уже существующий просмотр.
// Неудачный поиск оставляет сентинелы и не трогает саму запись.
func (s *PageViewService) backfillLocation(ctx context.Context, viewID uint, ip string) {
	if s.geo == nil {
		return
	}
	loc, lookupErr := s.geo.Lookup(ip)
	if lookupErr != nil {
		s.logger.WithError(lookupErr).Debugf("geo lookup failed for pageview %d", viewID)
		return
	}
	if err := s.pageViewRepo.UpdateLocation(ctx, viewID, *loc); err != nil {
		s.logger.WithError(err).Errorf("failed to backfill location for pageview %d", viewID)
	}
}

// Count количество просмотров ссылки.
func (s *PageViewService) Count(ctx context.Context, linkID uint) (int64, error) {
	count, err := s.pageViewRepo.CountByLink(ctx, linkID)
	if err != nil {
		return 0, ErrUnknown
	}
	return count, nil
}

// Summarize собирает сводку по ссылке: независимые группировки по каждому
// измерению. Разбивка по штатам считается только когда среди стран есть
// опорная (models.ReferenceCountry) — субрегионы отслеживаются только
// для нее. Ноль просмотров дает пустые разбивки, а не ошибку.
func (s *PageViewService) Summarize(ctx context.Context, linkID uint) (*LinkSummary, error) {
	summary := LinkSummary{
		Countries: []repositories.DimensionCount{},
		States:    []repositories.DimensionCount{},
		Referrers: []repositories.DimensionCount{},
		Devices:   []repositories.DimensionCount{},
		Platforms: []repositories.DimensionCount{},
		Browsers:  []repositories.DimensionCount{},
	}

	total, totalErr := s.pageViewRepo.CountByLink(ctx, linkID)
	if totalErr != nil {
		return nil, ErrUnknown
	}
	summary.TotalClicks = total

	last, lastErr := s.pageViewRepo.LastByLink(ctx, linkID)
	switch {
	case lastErr == nil:
		createdAt := last.CreatedAt
		summary.MostRecentClick = &createdAt
	case errors.Is(lastErr, repositories.ErrNotFound):
		// просмотров еще не было
	default:
		return nil, ErrUnknown
	}

	countries, countriesErr := s.pageViewRepo.GroupCount(ctx, linkID, repositories.DimensionCountry)
	if countriesErr != nil {
		return nil, ErrUnknown
	}
	if countries != nil {
		summary.Countries = countries
	}

	hasReference := false
	for _, row := range countries {
		if row.Key == models.ReferenceCountry {
			hasReference = true
			break
		}
	}
	if hasReference {
		summary.JustUSA = len(countries) == 1
		states, statesErr := s.pageViewRepo.GroupCount(ctx, linkID, repositories.DimensionStateRegion)
		if statesErr != nil {
			return nil, ErrUnknown
		}
		if states != nil {
			summary.States = states
		}
	}

	dims := []struct {
		dim  repositories.Dimension
		dest *[]repositories.DimensionCount
	}{
		{repositories.DimensionReferrer, &summary.Referrers},
		{repositories.DimensionDevice, &summary.Devices},
		{repositories.DimensionPlatform, &summary.Platforms},
		{repositories.DimensionBrowser, &summary.Browsers},
	}
	for _, d := range dims {
		rows, err := s.pageViewRepo.GroupCount(ctx, linkID, d.dim)
		if err != nil {
			return nil, ErrUnknown
		}
		if rows != nil {
			*d.dest = rows
		}
	}

	return &summary, nil
}
