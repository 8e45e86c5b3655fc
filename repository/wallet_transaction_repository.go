package repository

import (
	"context"
	"database/sql"

	"github.com/promolane/promolane/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletTransactionRepositoryImpl implements WalletTransactionRepository
type WalletTransactionRepositoryImpl struct {
	*BaseRepository[models.WalletTransaction, models.WalletTransactionFilter]
}

// NewWalletTransactionRepository creates a new wallet transaction repository
func NewWalletTransactionRepository(db *gorm.DB) WalletTransactionRepository {
	return &WalletTransactionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.WalletTransaction, models.WalletTransactionFilter](db),
	}
}

// SumPositiveByPromoter sums all credit amounts for a promoter. Used by the
// ledger-equation audit: the result must equal the wallet's total_earned.
func (r *WalletTransactionRepositoryImpl) SumPositiveByPromoter(ctx context.Context, promoterID uint) (decimal.Decimal, error) {
	db := r.getDB(ctx)
	var total sql.NullString
	err := db.Model(&models.WalletTransaction{}).
		Select("ROUND(SUM(amount), 6)").
		Where("promoter_id = ? AND amount > 0", promoterID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid || total.String == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(total.String)
}

func (r *WalletTransactionRepositoryImpl) applyFilter(db *gorm.DB, f models.WalletTransactionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *f.CorrelationID)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.WalletID != nil {
		db = db.Where("wallet_id = ?", *f.WalletID)
	}
	if f.PromoterID != nil {
		db = db.Where("promoter_id = ?", *f.PromoterID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.TrackedLinkID != nil {
		db = db.Where("tracked_link_id = ?", *f.TrackedLinkID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves ledger entries matching the filter
func (r *WalletTransactionRepositoryImpl) ByFilter(ctx context.Context, filter models.WalletTransactionFilter, orderBy string, limit, offset int) ([]*models.WalletTransaction, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WalletTransaction{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.WalletTransaction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of ledger entries matching the filter
func (r *WalletTransactionRepositoryImpl) Count(ctx context.Context, filter models.WalletTransactionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.WalletTransaction{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any ledger entry matching the filter exists
func (r *WalletTransactionRepositoryImpl) Exists(ctx context.Context, filter models.WalletTransactionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
