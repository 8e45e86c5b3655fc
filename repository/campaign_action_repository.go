package repository

import (
	"context"
	"time"

	"github.com/promolane/promolane/models"
	"gorm.io/gorm"
)

// CampaignActionRepositoryImpl implements CampaignActionRepository
type CampaignActionRepositoryImpl struct {
	*BaseRepository[models.CampaignAction, models.CampaignActionFilter]
}

// NewCampaignActionRepository creates a new campaign action repository
func NewCampaignActionRepository(db *gorm.DB) CampaignActionRepository {
	return &CampaignActionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CampaignAction, models.CampaignActionFilter](db),
	}
}

// CountSince counts accepted posts for (promoter, campaign) since an instant
func (r *CampaignActionRepositoryImpl) CountSince(ctx context.Context, promoterID, campaignID uint, since time.Time) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.CampaignAction{}).
		Where("promoter_id = ? AND campaign_id = ? AND created_at >= ?", promoterID, campaignID, since).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CampaignActionRepositoryImpl) applyFilter(db *gorm.DB, f models.CampaignActionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.PromoterID != nil {
		db = db.Where("promoter_id = ?", *f.PromoterID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.Language != nil {
		db = db.Where("language = ?", *f.Language)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves action records matching the filter
func (r *CampaignActionRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignActionFilter, orderBy string, limit, offset int) ([]*models.CampaignAction, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CampaignAction{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.CampaignAction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of action records matching the filter
func (r *CampaignActionRepositoryImpl) Count(ctx context.Context, filter models.CampaignActionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.CampaignAction{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any action record matching the filter exists
func (r *CampaignActionRepositoryImpl) Exists(ctx context.Context, filter models.CampaignActionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
