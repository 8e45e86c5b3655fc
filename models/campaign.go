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

// CampaignStatus represents the status of a campaign
type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "active"
	CampaignStatusGrayMode CampaignStatus = "gray_mode"
	CampaignStatusPaused   CampaignStatus = "paused"
	CampaignStatusEnded    CampaignStatus = "ended"
)

// String returns the string representation of the status
func (s CampaignStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignStatusActive, CampaignStatusGrayMode,
		CampaignStatusPaused, CampaignStatusEnded:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for CampaignStatus
func (s *CampaignStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = CampaignStatus(v)
	case []byte:
		*s = CampaignStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for CampaignStatus
func (s CampaignStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid CampaignStatus: %s", s)
	}
	return string(s), nil
}

// PaymentModel selects how a tracked link pays its promoter.
// Links copy the model from their campaign at creation time, so a later
// campaign edit never changes the economics of an already minted link.
type PaymentModel string

const (
	// PaymentModelRevShare pays a percentage of the campaign's per-click
	// rate on every unique click.
	PaymentModelRevShare PaymentModel = "legacy_rev_share"

	// PaymentModelFixedBonus pays a single flat bonus once the link's
	// unique click count reaches a threshold.
	PaymentModelFixedBonus PaymentModel = "fixed_plus_bonus"
)

// Valid checks if the payment model is valid
func (m PaymentModel) Valid() bool {
	return m == PaymentModelRevShare || m == PaymentModelFixedBonus
}

// Scan implements the sql.Scanner interface for PaymentModel
func (m *PaymentModel) Scan(value any) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentModel(v)
	case []byte:
		*m = PaymentModel(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PaymentModel", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for PaymentModel
func (m PaymentModel) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid PaymentModel: %s", m)
	}
	return string(m), nil
}

// LanguageURLMap maps a language code to a language-specific destination URL
type LanguageURLMap map[string]string

// Value implements the driver.Valuer interface for LanguageURLMap
func (l LanguageURLMap) Value() (driver.Value, error) {
	if l == nil {
		return "{}", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for LanguageURLMap
func (l *LanguageURLMap) Scan(value any) error {
	if value == nil {
		*l = LanguageURLMap{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into LanguageURLMap", value)
	}
	return json.Unmarshal(bytes, l)
}

// Campaign represents an advertiser campaign with a finite spend budget.
// The ledger core only mutates BudgetRemaining; everything else is owned by
// campaign management.
type Campaign struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UUID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	AdvertiserName string    `gorm:"size:255;not null" json:"advertiser_name"`
	Title          string    `gorm:"size:255;not null" json:"title"`

	Status CampaignStatus `gorm:"type:varchar(20);not null;default:'active';index:idx_campaigns_status" json:"status"`

	// Budget and pricing. Nil pricing fields mean "use the platform
	// default"; the defaults are applied once, in the flows.
	BudgetRemaining decimal.Decimal  `gorm:"type:numeric(18,6);not null;default:0" json:"budget_remaining"`
	CostPerAction   *decimal.Decimal `gorm:"type:numeric(18,6)" json:"cost_per_action,omitempty"`
	RewardPerAction *decimal.Decimal `gorm:"type:numeric(18,6)" json:"reward_per_action,omitempty"`
	RatePerClick    *decimal.Decimal `gorm:"type:numeric(18,6)" json:"rate_per_click,omitempty"`

	PaymentModel PaymentModel `gorm:"type:varchar(32);not null;default:'legacy_rev_share'" json:"payment_model"`

	// Targeting
	TargetLanguages []string `gorm:"serializer:json" json:"target_languages,omitempty"`
	TargetLocations []string `gorm:"serializer:json" json:"target_locations,omitempty"`

	// Destinations. DestinationURL is the generic landing page;
	// DestinationURLs holds per-language overrides keyed by language code.
	DestinationURL  string         `gorm:"type:text" json:"destination_url"`
	DestinationURLs LanguageURLMap `gorm:"type:jsonb;default:'{}'" json:"destination_urls,omitempty"`

	// Link preview metadata
	PreviewImageURL    *string `gorm:"type:text" json:"preview_image_url,omitempty"`
	PreviewTitle       *string `gorm:"size:255" json:"preview_title,omitempty"`
	PreviewDescription *string `gorm:"type:text" json:"preview_description,omitempty"`

	CreatedAt time.Time  `gorm:"index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relationships
	TrackedLinks []TrackedLink    `gorm:"foreignKey:CampaignID" json:"tracked_links,omitempty"`
	Actions      []CampaignAction `gorm:"foreignKey:CampaignID" json:"actions,omitempty"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string { return "campaigns" }

// BeforeCreate ensures UUID is set
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	return nil
}

// IsPayable reports whether the campaign accepts new paid events
func (c *Campaign) IsPayable() bool {
	return c.Status == CampaignStatusActive || c.Status == CampaignStatusGrayMode
}

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID            *uint           `json:"id,omitempty"`
	UUID          *uuid.UUID      `json:"uuid,omitempty"`
	Status        *CampaignStatus `json:"status,omitempty"`
	PaymentModel  *PaymentModel   `json:"payment_model,omitempty"`
	CreatedAfter  *time.Time      `json:"created_after,omitempty"`
	CreatedBefore *time.Time      `json:"created_before,omitempty"`
}
