package sql

import (
	"context"
	"time"

	"github.com/fsdevblog/linkboard/internal/models"
	"github.com/fsdevblog/linkboard/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DomainRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewDomainRepo(db *gorm.DB, logger *logrus.Logger) *DomainRepo {
	return &DomainRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/domain"),
	}
}

// Create вставляет домен. URI глобально уникален, коллизия возвращается
// как ErrDuplicateKey.
func (d *DomainRepo) Create(ctx context.Context, domain *models.Domain) error {
	if err := d.db.WithContext(ctx).Create(domain).Error; err != nil {
		convErr := ConvertErrorType(err)
		if !errors.Is(convErr, repositories.ErrDuplicateKey) {
			d.logger.WithError(err).Errorf("failed to create domain %+v", *domain)
		}
		return convErr
	}
	return nil
}

func (d *DomainRepo) GetByID(ctx context.Context, id uint) (*models.Domain, error) {
	var domain models.Domain
	err := d.db.WithContext(ctx).
		Preload("ArchiveEvents").
		First(&domain, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		d.logger.WithError(err).Errorf("failed to get domain by id %d", id)
		return nil, repositories.ErrUnknown
	}
	return &domain, nil
}

// GetByURI находит домен по хосту входящего запроса.
func (d *DomainRepo) GetByURI(ctx context.Context, uri string) (*models.Domain, error) {
	var domain models.Domain
	err := d.db.WithContext(ctx).Where("uri = ?", uri).First(&domain).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		d.logger.WithError(err).Errorf("failed to get domain by uri %s", uri)
		return nil, repositories.ErrUnknown
	}
	return &domain, nil
}

func (d *DomainRepo) Update(ctx context.Context, domain *models.Domain) error {
	if err := d.db.WithContext(ctx).Save(domain).Error; err != nil {
		convErr := ConvertErrorType(err)
		if !errors.Is(convErr, repositories.ErrDuplicateKey) {
			d.logger.WithError(err).Errorf("failed to update domain %d", domain.ID)
		}
		return convErr
	}
	return nil
}

// MarkVerified переводит статус pending -> verified. Обратного перехода нет.
func (d *DomainRepo) MarkVerified(ctx context.Context, id uint) (*models.Domain, error) {
	now := time.Now()
	err := d.db.WithContext(ctx).Model(&models.Domain{}).
		Where("id = ? AND status = ?", id, models.DomainStatusPending).
		Updates(map[string]any{
			"status":         models.DomainStatusVerified,
			"validated":      true,
			"date_validated": now,
		}).Error
	if err != nil {
		d.logger.WithError(err).Errorf("failed to mark domain %d verified", id)
		return nil, repositories.ErrUnknown
	}
	return d.GetByID(ctx, id)
}

// Archive переключает флаг архивации и пишет событие, как у ссылок.
func (d *DomainRepo) Archive(ctx context.Context, id uint, actorID *uint) (*models.Domain, error) {
	var domain models.Domain
	txErr := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&domain, id).Error; err != nil {
			return err
		}
		domain.Archived = !domain.Archived
		event := models.ArchiveEvent{
			OwnerID:   domain.ID,
			OwnerType: "domains",
			Archived:  domain.Archived,
			ActorID:   actorID,
		}
		if err := tx.Model(&domain).Select("Archived").Updates(&domain).Error; err != nil {
			return err
		}
		return tx.Create(&event).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		d.logger.WithError(txErr).Errorf("failed to archive domain %d", id)
		return nil, repositories.ErrUnknown
	}
	return d.GetByID(ctx, id)
}

// Delete удаляет домен вместе с его ссылками (и их просмотрами).
func (d *DomainRepo) Delete(ctx context.Context, id uint) error {
	txErr := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var domain models.Domain
		if err := tx.First(&domain, id).Error; err != nil {
			return err
		}

		var linkIDs []uint
		err := tx.Model(&models.Link{}).Where("domain_id = ?", id).
			Pluck("id", &linkIDs).Error
		if err != nil {
			return err
		}
		if len(linkIDs) > 0 {
			if err = tx.Where("link_id IN ?", linkIDs).Delete(&models.PageView{}).Error; err != nil {
				return err
			}
			err = tx.Where("owner_id IN ? AND owner_type = ?", linkIDs, "links").
				Delete(&models.ArchiveEvent{}).Error
			if err != nil {
				return err
			}
			if err = tx.Delete(&models.Link{}, linkIDs).Error; err != nil {
				return err
			}
		}

		err = tx.Where("owner_id = ? AND owner_type = ?", id, "domains").
			Delete(&models.ArchiveEvent{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&models.Domain{}, id).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		d.logger.WithError(txErr).Errorf("failed to delete domain %d", id)
		return repositories.ErrUnknown
	}
	return nil
}

// List выборка с фильтром, свежие записи первыми.
func (d *DomainRepo) List(
	ctx context.Context,
	filter repositories.DomainsFilter,
	page repositories.Pagination,
) ([]models.Domain, error) {
	page.Normalize()

	query := d.db.WithContext(ctx).Model(&models.Domain{})
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.URI != "" {
		query = query.Where("uri = ?", filter.URI)
	}
	if filter.DomainType != "" {
		query = query.Where("domain_type = ?", filter.DomainType)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Validated != nil {
		query = query.Where("validated = ?", *filter.Validated)
	}
	if filter.Archived != nil {
		query = query.Where("archived = ?", *filter.Archived)
	}

	var domains []models.Domain
	err := query.Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&domains).Error
	if err != nil {
		d.logger.WithError(err).Error("failed to list domains")
		return nil, repositories.ErrUnknown
	}
	return domains, nil
}
