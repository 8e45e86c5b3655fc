package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds a promoter's withdrawable balance and lifetime earnings.
// Both counters are mutated only through atomic increment statements inside
// ledger transactions, never by read-modify-write. TotalEarned is monotonic:
// payouts never decrement it, only withdrawals reduce Balance.
type Wallet struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_wallets_uuid;not null" json:"uuid"`
	PromoterID uint      `gorm:"not null;uniqueIndex:uk_wallets_promoter_id" json:"promoter_id"`

	Balance     decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0" json:"balance"`
	TotalEarned decimal.Decimal `gorm:"type:numeric(18,6);not null;default:0" json:"total_earned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Promoter     *Promoter           `gorm:"foreignKey:PromoterID" json:"promoter,omitempty"`
	Transactions []WalletTransaction `gorm:"foreignKey:WalletID" json:"transactions,omitempty"`
}

// TableName returns the table name for Wallet
func (Wallet) TableName() string { return "wallets" }

// BeforeCreate ensures UUID is set
func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.UUID == uuid.Nil {
		w.UUID = uuid.New()
	}
	return nil
}

// WalletFilter represents filter criteria for wallet queries
type WalletFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	PromoterID    *uint      `json:"promoter_id,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
