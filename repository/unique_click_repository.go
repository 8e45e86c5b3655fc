package repository

import (
	"context"

	"github.com/promolane/promolane/models"
	"gorm.io/gorm"
)

// UniqueClickRepositoryImpl implements UniqueClickRepository
type UniqueClickRepositoryImpl struct {
	*BaseRepository[models.UniqueClick, any]
}

// NewUniqueClickRepository creates a new unique click repository
func NewUniqueClickRepository(db *gorm.DB) UniqueClickRepository {
	return &UniqueClickRepositoryImpl{BaseRepository: NewBaseRepository[models.UniqueClick, any](db)}
}

// Exists reports whether a dedup record already exists for the pair.
// Run inside the click transaction with the link row locked, this check
// plus the unique index on (tracked_link_id, fingerprint) guarantees the
// record is created at most once.
func (r *UniqueClickRepositoryImpl) Exists(ctx context.Context, trackedLinkID uint, fingerprint string) (bool, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.UniqueClick{}).
		Where("tracked_link_id = ? AND fingerprint = ?", trackedLinkID, fingerprint).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByLink counts dedup records for a link
func (r *UniqueClickRepositoryImpl) CountByLink(ctx context.Context, trackedLinkID uint) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	err := db.Model(&models.UniqueClick{}).
		Where("tracked_link_id = ?", trackedLinkID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListByLink lists dedup records for a link, newest first
func (r *UniqueClickRepositoryImpl) ListByLink(ctx context.Context, trackedLinkID uint, limit, offset int) ([]*models.UniqueClick, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.UniqueClick{}).
		Where("tracked_link_id = ?", trackedLinkID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UniqueClick
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ UniqueClickRepository = (*UniqueClickRepositoryImpl)(nil)
