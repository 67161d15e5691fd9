package sql

import (
	"context"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LinkRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewLinkRepo(db *gorm.DB, logger *logrus.Logger) *LinkRepo {
	return &LinkRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/link"),
	}
}

// Create вставляет запись. Коллизия по уникальному индексу
// (domain_id, short_token) возвращается как ErrDuplicateKey — проверка
// "сначала поискал, потом вставил" в сервисном слое не атомарна, индекс
// здесь последняя линия обороны.
func (l *LinkRepo) Create(ctx context.Context, link *models.Link) error {
	if err := l.db.WithContext(ctx).Create(link).Error; err != nil {
		convErr := ConvertErrorType(err)
		if !errors.Is(convErr, repositories.ErrDuplicateKey) {
			l.logger.WithError(err).Errorf("failed to create link %+v", *link)
		}
		return convErr
	}
	return nil
}

func (l *LinkRepo) GetByID(ctx context.Context, id uint) (*models.Link, error) {
	var link models.Link
	err := l.db.WithContext(ctx).
		Preload("ArchiveEvents").
		First(&link, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		l.logger.WithError(err).Errorf("failed to get link by id %d", id)
		return nil, repositories.ErrUnknown
	}
	return &link, nil
}

// GetByToken находит ссылку по токену в рамках домена.
func (l *LinkRepo) GetByToken(ctx context.Context, domainID uint, token string) (*models.Link, error) {
	var link models.Link
	err := l.db.WithContext(ctx).
		Where("domain_id = ? AND short_token = ?", domainID, token).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		l.logger.WithError(err).Errorf("failed to get link by token %s (domain %d)", token, domainID)
		return nil, repositories.ErrUnknown
	}
	return &link, nil
}

// GetDuplicate ищет уже существующую ссылку того же создателя на тот же
// адрес под тем же доменом (защита от повторной отправки формы).
func (l *LinkRepo) GetDuplicate(
	ctx context.Context,
	creatorID *uint,
	visitorUUID string,
	rawURL string,
	domainID uint,
) (*models.Link, error) {
	query := l.db.WithContext(ctx).Where("url = ? AND domain_id = ?", rawURL, domainID)
	switch {
	case creatorID != nil:
		query = query.Where("creator_id = ?", *creatorID)
	case visitorUUID != "":
		query = query.Where("visitor_uuid = ?", visitorUUID)
	default:
		// Аноним без идентификатора — дубликат определить не по чему.
		return nil, repositories.ErrNotFound
	}

	var link models.Link
	if err := query.First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		l.logger.WithError(err).Errorf("failed to get duplicate for url %s", rawURL)
		return nil, repositories.ErrUnknown
	}
	return &link, nil
}

// Update сохраняет измененные поля. Нарушение уникальности нового
// (domain_id, short_token) приходит как ErrDuplicateKey.
func (l *LinkRepo) Update(ctx context.Context, link *models.Link) error {
	if err := l.db.WithContext(ctx).Save(link).Error; err != nil {
		convErr := ConvertErrorType(err)
		if !errors.Is(convErr, repositories.ErrDuplicateKey) {
			l.logger.WithError(err).Errorf("failed to update link %d", link.ID)
		}
		return convErr
	}
	return nil
}

// Archive переключает флаг архивации и добавляет событие в историю.
// Повторный вызов возвращает флаг обратно, история при этом только растет.
func (l *LinkRepo) Archive(ctx context.Context, id uint, actorID *uint) (*models.Link, error) {
	var link models.Link
	txErr := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&link, id).Error; err != nil {
			return err
		}
		link.Archived = !link.Archived
		event := models.ArchiveEvent{
			OwnerID:   link.ID,
			OwnerType: "links",
			Archived:  link.Archived,
			ActorID:   actorID,
		}
		if err := tx.Model(&link).Select("Archived").Updates(&link).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		l.logger.WithError(txErr).Errorf("failed to archive link %d", id)
		return nil, repositories.ErrUnknown
	}
	return l.GetByID(ctx, id)
}

// Delete жестко удаляет ссылку вместе со всеми её просмотрами и историей
// архивации. Возвращает количество удаленных записей обоих видов.
func (l *LinkRepo) Delete(ctx context.Context, id uint) (*repositories.DeleteLinkResult, error) {
	var result repositories.DeleteLinkResult
	txErr := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.Link
		if err := tx.First(&link, id).Error; err != nil {
			return err
		}

		pvRes := tx.Where("link_id = ?", id).Delete(&models.PageView{})
		if pvRes.Error != nil {
			return pvRes.Error
		}
		result.PageViewsRemoved = pvRes.RowsAffected

		err := tx.Where("owner_id = ? AND owner_type = ?", id, "links").
			Delete(&models.ArchiveEvent{}).Error
		if err != nil {
			return err
		}

		linkRes := tx.Delete(&models.Link{}, id)
		if linkRes.Error != nil {
			return linkRes.Error
		}
		result.LinksRemoved = linkRes.RowsAffected
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		l.logger.WithError(txErr).Errorf("failed to delete link %d", id)
		return nil, repositories.ErrUnknown
	}
	return &result, nil
}

// List выборка с фильтром, свежие записи первыми.
func (l *LinkRepo) List(
	ctx context.Context,
	filter repositories.LinksFilter,
	page repositories.Pagination,
) ([]models.Link, error) {
	page.Normalize()

	query := l.db.WithContext(ctx).Model(&models.Link{})
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.VisitorUUID != "" {
		query = query.Where("visitor_uuid = ?", filter.VisitorUUID)
	}
	if filter.URL != "" {
		query = query.Where("url = ?", filter.URL)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.ShortToken != "" {
		query = query.Where("short_token = ?", filter.ShortToken)
	}
	if filter.DomainID != nil {
		query = query.Where("domain_id = ?", *filter.DomainID)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	var links []models.Link
	err := query.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&links).Error
	if err != nil {
		l.logger.WithError(err).Error("failed to list links")
		return nil, repositories.ErrUnknown
	}
	return links, nil
}
