// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/promolane/promolane/models"
	"github.com/shopspring/decimal"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PromoterRepository defines operations for promoter profiles
type PromoterRepository interface {
	Repository[models.Promoter, models.PromoterFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Promoter, error)
	UpdateComplianceStatus(ctx context.Context, promoterID uint, status models.ComplianceStatus) error
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	// LockByID reads the campaign row under a FOR UPDATE lock so that
	// concurrent quota/budget checks against the same campaign serialize.
	// Must run inside a transaction.
	LockByID(ctx context.Context, id uint) (*models.Campaign, error)
	// DebitBudget atomically subtracts amount from budget_remaining,
	// refusing the debit when it would drive the budget negative.
	// Returns false when the guard rejected the debit.
	DebitBudget(ctx context.Context, id uint, amount decimal.Decimal) (bool, error)
	CreditBudget(ctx context.Context, id uint, amount decimal.Decimal) error
}

// TrackedLinkRepository defines operations for tracked links
type TrackedLinkRepository interface {
	Repository[models.TrackedLink, models.TrackedLinkFilter]
	ByUID(ctx context.Context, uid string) (*models.TrackedLink, error)
	// LockByUID reads the link row under a FOR UPDATE lock. Must run
	// inside a transaction; it serializes concurrent clicks on one link.
	LockByUID(ctx context.Context, uid string) (*models.TrackedLink, error)
	IncrementClickCount(ctx context.Context, id uint) error
	// MarkBonusPaid flips bonus_paid to true exactly once. Returns false
	// when the flag was already set.
	MarkBonusPaid(ctx context.Context, id uint) (bool, error)
}

// UniqueClickRepository defines operations for click dedup records
type UniqueClickRepository interface {
	Save(ctx context.Context, click *models.UniqueClick) error
	Exists(ctx context.Context, trackedLinkID uint, fingerprint string) (bool, error)
	CountByLink(ctx context.Context, trackedLinkID uint) (int64, error)
	ListByLink(ctx context.Context, trackedLinkID uint, limit, offset int) ([]*models.UniqueClick, error)
}

// WalletRepository defines operations for wallets
type WalletRepository interface {
	Repository[models.Wallet, models.WalletFilter]
	ByPromoterID(ctx context.Context, promoterID uint) (*models.Wallet, error)
	// EnsureByPromoterID returns the promoter's wallet, creating it when
	// absent. Safe against concurrent first credits: the insert is
	// conflict-tolerant on the promoter_id unique index.
	EnsureByPromoterID(ctx context.Context, promoterID uint) (*models.Wallet, error)
	// Credit atomically increments balance and total_earned by amount.
	Credit(ctx context.Context, walletID uint, amount decimal.Decimal) error
	// Withdraw atomically decrements balance, refusing when it would go
	// negative. TotalEarned is untouched. Returns false on refusal.
	Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal) (bool, error)
}

// WalletTransactionRepository defines operations for the append-only ledger
type WalletTransactionRepository interface {
	Repository[models.WalletTransaction, models.WalletTransactionFilter]
	SumPositiveByPromoter(ctx context.Context, promoterID uint) (decimal.Decimal, error)
}

// CampaignActionRepository defines operations for accepted post records
type CampaignActionRepository interface {
	Repository[models.CampaignAction, models.CampaignActionFilter]
	// CountSince counts a promoter's accepted posts for one campaign
	// created at or after the given instant. Called inside the budget
	// guard transaction for the daily quota check.
	CountSince(ctx context.Context, promoterID, campaignID uint, since time.Time) (int64, error)
}
