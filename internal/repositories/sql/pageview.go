package sql

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// dimensionColumn возвращает имя колонки для измерения. Белый список:
// значение попадает в SELECT/GROUP BY как есть.
func dimensionColumn(d repositories.Dimension) (string, bool) {
	switch d {
	case repositories.DimensionCountry, repositories.DimensionStateRegion,
		repositories.DimensionReferrer, repositories.DimensionDevice,
		repositories.DimensionPlatform, repositories.DimensionBrowser:
		return string(d), true
	default:
		return "", false
	}
}

type PageViewRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewPageViewRepo(db *gorm.DB, logger *logrus.Logger) *PageViewRepo {
	return &PageViewRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/pageview"),
	}
}

func (p *PageViewRepo) Create(ctx context.Context, view *models.PageView) error {
	if err := p.db.WithContext(ctx).Create(view).Error; err != nil {
		p.logger.WithError(err).Errorf("failed to create pageview for link %d", view.LinkID)
		return ConvertErrorType(err)
	}
	return nil
}

func (p *PageViewRepo) GetByID(ctx context.Context, id uint) (*models.PageView, error) {
	var view models.PageView
	if err := p.db.WithContext(ctx).First(&view, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		p.logger.WithError(err).Errorf("failed to get pageview by id %d", id)
		return nil, repositories.ErrUnknown
	}
	return &view, nil
}

// UpdateLocation дописывает гео-данные в уже существующую запись.
// Единственная мутация просмотра за весь его жизненный цикл.
func (p *PageViewRepo) UpdateLocation(ctx context.Context, id uint, loc models.Location) error {
	err := p.db.WithContext(ctx).Model(&models.PageView{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"city":         loc.City,
			"state_region": loc.StateRegion,
			"country":      loc.Country,
			"postal":       loc.Postal,
			"timezone":     loc.Timezone,
		}).Error
	if err != nil {
		p.logger.WithError(err).Errorf("failed to update location for pageview %d", id)
		return repositories.ErrUnknown
	}
	return nil
}

func (p *PageViewRepo) CountByLink(ctx context.Context, linkID uint) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.PageView{}).
		Where("link_id = ?", linkID).
		Count(&count).Error
	if err != nil {
		p.logger.WithError(err).Errorf("failed to count pageviews for link %d", linkID)
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// CountByDomain считает просмотры всех ссылок домена.
func (p *PageViewRepo) CountByDomain(ctx context.Context, domainID uint) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.PageView{}).
		Joins("JOIN links ON links.id = page_views.link_id").
		Where("links.domain_id = ?", domainID).
		Count(&count).Error
	if err != nil {
		p.logger.WithError(err).Errorf("failed to count pageviews for domain %d", domainID)
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// LastByLink возвращает самый свежий просмотр ссылки.
func (p *PageViewRepo) LastByLink(ctx context.Context, linkID uint) (*models.PageView, error) {
	var view models.PageView
	err := p.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("created_at DESC").
		First(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		p.logger.WithError(err).Errorf("failed to get last pageview for link %d", linkID)
		return nil, repositories.ErrUnknown
	}
	return &view, nil
}

// LastByDomain возвращает самый свежий просмотр среди ссылок домена.
func (p *PageViewRepo) LastByDomain(ctx context.Context, domainID uint) (*models.PageView, error) {
	var view models.PageView
	err := p.db.WithContext(ctx).
		Joins("JOIN links ON links.id = page_views.link_id").
		Where("links.domain_id = ?", domainID).
		Order("page_views.created_at DESC").
		First(&view).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		p.logger.WithError(err).Errorf("failed to get last pageview for domain %d", domainID)
		return nil, repositories.ErrUnknown
	}
	return &view, nil
}

// GroupCount независимая группировка просмотров ссылки по одному измерению.
// Сортировка: счетчик по убыванию, при равенстве — ключ по алфавиту
// (детерминированный tie-break вместо порядка прихода).
func (p *PageViewRepo) GroupCount(
	ctx context.Context,
	linkID uint,
	dim repositories.Dimension,
) ([]repositories.DimensionCount, error) {
	col, ok := dimensionColumn(dim)
	if !ok {
		return nil, errors.Wrapf(repositories.ErrUnknown, "unknown dimension %q", dim)
	}

	query := p.db.WithContext(ctx).Model(&models.PageView{}).
		Select(col+" AS key, COUNT(*) AS count").
		Where("link_id = ?", linkID)
	if dim == repositories.DimensionStateRegion {
		// Регионы считаем только по опорной стране, см. сервис сводки.
		query = query.Where("country = ?", models.ReferenceCountry)
	}

	var rows []repositories.DimensionCount
	err := query.Group(col).
		Order("count DESC, key ASC").
		Scan(&rows).Error
	if err != nil {
		p.logger.WithError(err).Errorf("failed to group pageviews for link %d by %s", linkID, dim)
		return nil, repositories.ErrUnknown
	}
	return rows, nil
}
