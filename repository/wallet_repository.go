package repository

import (
	"context"
	"errors"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepositoryImpl implements WalletRepository interface
type WalletRepositoryImpl struct {
	*BaseRepository[models.Wallet, models.WalletFilter]
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &WalletRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Wallet, models.WalletFilter](db),
	}
}

// ByPromoterID finds a wallet by promoter ID
func (r *WalletRepositoryImpl) ByPromoterID(ctx context.Context, promoterID uint) (*models.Wallet, error) {
	db := r.getDB(ctx)
	var wallet models.Wallet
	err := db.Where("promoter_id = ?", promoterID).Last(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &wallet, nil
}

// EnsureByPromoterID returns the promoter's wallet, creating an empty one
// when absent. The insert tolerates the unique index on promoter_id, so two
// transactions racing on a promoter's first credit both land on the same
// row instead of one failing. Transactions stay usable afterwards; no
// statement here can error on the conflict.
func (r *WalletRepositoryImpl) EnsureByPromoterID(ctx context.Context, promoterID uint) (*models.Wallet, error) {
	db := r.getDB(ctx)
	wallet := &models.Wallet{
		PromoterID:  promoterID,
		Balance:     decimal.Zero,
		TotalEarned: decimal.Zero,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "promoter_id"}},
		DoNothing: true,
	}).Create(wallet).Error
	if err != nil {
		return nil, err
	}
	return r.ByPromoterID(ctx, promoterID)
}

// Credit increments balance and total_earned atomically. Never performed
// as read-modify-write: the increments are evaluated by the store. The
// result is rounded to the column scale so stores that evaluate the sum in
// floating point still land on the exact amount.
func (r *WalletRepositoryImpl) Credit(ctx context.Context, walletID uint, amount decimal.Decimal) error {
	db := r.getDB(ctx)
	return db.Model(&models.Wallet{}).
		Where("id = ?", walletID).
		Updates(map[string]any{
			"balance":      gorm.Expr("ROUND(balance + ?, 6)", amount),
			"total_earned": gorm.Expr("ROUND(total_earned + ?, 6)", amount),
			"updated_at":   utils.UTCNow(),
		}).Error
}

// Withdraw decrements balance with a non-negative guard. TotalEarned is
// lifetime earnings and is never reduced.
func (r *WalletRepositoryImpl) Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal) (bool, error) {
	db := r.getDB(ctx)
	res := db.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		Updates(map[string]any{
			"balance":    gorm.Expr("ROUND(balance - ?, 6)", amount),
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WalletRepositoryImpl) applyFilter(db *gorm.DB, f models.WalletFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.PromoterID != nil {
		db = db.Where("promoter_id = ?", *f.PromoterID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves wallets matching the filter
func (r *WalletRepositoryImpl) ByFilter(ctx context.Context, filter models.WalletFilter, orderBy string, limit, offset int) ([]*models.Wallet, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Wallet{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Wallet
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of wallets matching the filter
func (r *WalletRepositoryImpl) Count(ctx context.Context, filter models.WalletFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Wallet{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any wallet matching the filter exists
func (r *WalletRepositoryImpl) Exists(ctx context.Context, filter models.WalletFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
