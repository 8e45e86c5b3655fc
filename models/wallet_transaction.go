package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JSONDocument holds a raw JSON column value. Unlike a bare
// json.RawMessage it implements Scan/Value itself, so it round-trips
// through drivers that hand jsonb columns back as strings.
type JSONDocument json.RawMessage

// Value implements the driver.Valuer interface for JSONDocument
func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}

// Scan implements the sql.Scanner interface for JSONDocument
func (d *JSONDocument) Scan(value any) error {
	if value == nil {
		*d = JSONDocument("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = JSONDocument(append([]byte(nil), v...))
	case string:
		*d = JSONDocument(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONDocument", value)
	}
	return nil
}

// MarshalJSON renders the stored document as-is
func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return d, nil
}

// UnmarshalJSON stores the document as-is
func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = JSONDocument(append([]byte(nil), data...))
	return nil
}

// WalletTransactionType represents the type of a ledger entry
type WalletTransactionType string

const (
	// TransactionTypeCampaignReward is a post-action reward from the
	// campaign budget guard.
	TransactionTypeCampaignReward WalletTransactionType = "CAMPAIGN_REWARD"

	// TransactionTypeCampaignClickReward is a per-click revenue share
	// payout under the legacy model.
	TransactionTypeCampaignClickReward WalletTransactionType = "CAMPAIGN_CLICK_REWARD"

	// TransactionTypeCampaignBonusPerformance is the one-time threshold
	// bonus under the fixed-plus-bonus model.
	TransactionTypeCampaignBonusPerformance WalletTransactionType = "CAMPAIGN_BONUS_PERFORMANCE"

	// TransactionTypeCampaignBonusTraffic is reserved for traffic-volume
	// bonuses credited by the settlement batch.
	TransactionTypeCampaignBonusTraffic WalletTransactionType = "CAMPAIGN_BONUS_TRAFFIC"

	// TransactionTypeWithdrawal is a balance withdrawal processed by the
	// out-of-scope payout service. Amounts are negative.
	TransactionTypeWithdrawal WalletTransactionType = "WITHDRAWAL"
)

// WalletTransaction is an immutable ledger entry. Rows are append-only:
// nothing in this codebase updates or deletes them after creation. For any
// promoter the sum of positive amounts must equal the wallet's TotalEarned.
type WalletTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_wallet_transactions_uuid;not null" json:"uuid"`
	CorrelationID uuid.UUID `gorm:"type:uuid;index:idx_wallet_transactions_correlation_id;not null" json:"correlation_id"`

	Type     WalletTransactionType `gorm:"type:varchar(40);not null;index:idx_wallet_transactions_type" json:"type"`
	Amount   decimal.Decimal       `gorm:"type:numeric(18,6);not null" json:"amount"`
	Currency string                `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`

	WalletID   uint `gorm:"not null;index:idx_wallet_transactions_wallet_id" json:"wallet_id"`
	PromoterID uint `gorm:"not null;index:idx_wallet_transactions_promoter_id" json:"promoter_id"`

	CampaignID    *uint `gorm:"index:idx_wallet_transactions_campaign_id" json:"campaign_id,omitempty"`
	TrackedLinkID *uint `gorm:"index:idx_wallet_transactions_tracked_link_id" json:"tracked_link_id,omitempty"`

	Description string       `gorm:"type:text" json:"description"`
	Metadata    JSONDocument `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_wallet_transactions_created_at" json:"created_at"`
}

// TableName returns the table name for WalletTransaction
func (WalletTransaction) TableName() string { return "wallet_transactions" }

// BeforeCreate ensures UUID and CorrelationID are set
func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	if t.CorrelationID == uuid.Nil {
		t.CorrelationID = uuid.New()
	}
	return nil
}

// IsCredit reports whether the entry increases the wallet balance
func (t *WalletTransaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// WalletTransactionFilter represents filter criteria for ledger queries
type WalletTransactionFilter struct {
	ID            *uint                  `json:"id,omitempty"`
	UUID          *uuid.UUID             `json:"uuid,omitempty"`
	CorrelationID *uuid.UUID             `json:"correlation_id,omitempty"`
	Type          *WalletTransactionType `json:"type,omitempty"`
	WalletID      *uint                  `json:"wallet_id,omitempty"`
	PromoterID    *uint                  `json:"promoter_id,omitempty"`
	CampaignID    *uint                  `json:"campaign_id,omitempty"`
	TrackedLinkID *uint                  `json:"tracked_link_id,omitempty"`
	CreatedAfter  *time.Time             `json:"created_after,omitempty"`
	CreatedBefore *time.Time             `json:"created_before,omitempty"`
}
