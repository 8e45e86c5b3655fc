package repository

import (
	"context"
	"errors"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/utils"
	"gorm.io/gorm"
)

// PromoterRepositoryImpl implements PromoterRepository
type PromoterRepositoryImpl struct {
	*BaseRepository[models.Promoter, models.PromoterFilter]
}

// NewPromoterRepository creates a new promoter repository
func NewPromoterRepository(db *gorm.DB) PromoterRepository {
	return &PromoterRepositoryImpl{BaseRepository: NewBaseRepository[models.Promoter, models.PromoterFilter](db)}
}

// ByUUID finds a promoter by UUID
func (r *PromoterRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Promoter, error) {
	db := r.getDB(ctx)
	var promoter models.Promoter
	err := db.Where("uuid = ?", uuid).Last(&promoter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promoter, nil
}

// UpdateComplianceStatus writes the KYC status flag on a promoter profile
func (r *PromoterRepositoryImpl) UpdateComplianceStatus(ctx context.Context, promoterID uint, status models.ComplianceStatus) error {
	db := r.getDB(ctx)
	return db.Model(&models.Promoter{}).
		Where("id = ?", promoterID).
		Updates(map[string]any{
			"compliance_status": status,
			"updated_at":        utils.UTCNow(),
		}).Error
}

func (r *PromoterRepositoryImpl) applyFilter(db *gorm.DB, f models.PromoterFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.ComplianceStatus != nil {
		db = db.Where("compliance_status = ?", *f.ComplianceStatus)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves promoters matching the filter
func (r *PromoterRepositoryImpl) ByFilter(ctx context.Context, filter models.PromoterFilter, orderBy string, limit, offset int) ([]*models.Promoter, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Promoter{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Promoter
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of promoters matching the filter
func (r *PromoterRepositoryImpl) Count(ctx context.Context, filter models.PromoterFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Promoter{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any promoter matching the filter exists
func (r *PromoterRepositoryImpl) Exists(ctx context.Context, filter models.PromoterFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
