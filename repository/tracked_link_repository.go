package repository

import (
	"context"
	"errors"

	"github.com/promolane/promolane/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackedLinkRepositoryImpl implements TrackedLinkRepository
type TrackedLinkRepositoryImpl struct {
	*BaseRepository[models.TrackedLink, models.TrackedLinkFilter]
}

// NewTrackedLinkRepository creates a new tracked link repository
func NewTrackedLinkRepository(db *gorm.DB) TrackedLinkRepository {
	return &TrackedLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.TrackedLink, models.TrackedLinkFilter](db)}
}

// ByUID finds a tracked link by its public token
func (r *TrackedLinkRepositoryImpl) ByUID(ctx context.Context, uid string) (*models.TrackedLink, error) {
	db := r.getDB(ctx)
	var row models.TrackedLink
	if err := db.Where("uid = ?", uid).Last(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// LockByUID reads the link row FOR UPDATE within the ambient transaction
func (r *TrackedLinkRepositoryImpl) LockByUID(ctx context.Context, uid string) (*models.TrackedLink, error) {
	db := r.getDB(ctx)
	var row models.TrackedLink
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "uid = ?", uid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// IncrementClickCount bumps click_count via an atomic update
func (r *TrackedLinkRepositoryImpl) IncrementClickCount(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.TrackedLink{}).
		Where("id = ?", id).
		Update("click_count", gorm.Expr("click_count + 1")).Error
}

// MarkBonusPaid flips bonus_paid exactly once; the guard in the WHERE
// clause makes later attempts no-ops.
func (r *TrackedLinkRepositoryImpl) MarkBonusPaid(ctx context.Context, id uint) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.TrackedLink{}).
		Where("id = ? AND bonus_paid = ?", id, false).
		Update("bonus_paid", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *TrackedLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.TrackedLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UID != nil {
		db = db.Where("uid = ?", *f.UID)
	}
	if f.PromoterID != nil {
		db = db.Where("promoter_id = ?", *f.PromoterID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves tracked links matching the filter
func (r *TrackedLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.TrackedLinkFilter, orderBy string, limit, offset int) ([]*models.TrackedLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TrackedLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.TrackedLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tracked links matching the filter
func (r *TrackedLinkRepositoryImpl) Count(ctx context.Context, filter models.TrackedLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.TrackedLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any tracked link matching the filter exists
func (r *TrackedLinkRepositoryImpl) Exists(ctx context.Context, filter models.TrackedLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
