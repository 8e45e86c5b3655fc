package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignAction records one accepted promoter post against a campaign.
// The count of rows for (promoter, campaign, day) is the denominator of the
// daily quota check, so rows are only ever inserted inside the same
// transaction that debits the campaign budget.
type CampaignAction struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PromoterID uint   `gorm:"not null;index:idx_campaign_actions_promoter_campaign,priority:1" json:"promoter_id"`
	CampaignID uint   `gorm:"not null;index:idx_campaign_actions_promoter_campaign,priority:2" json:"campaign_id"`
	Language   string `gorm:"size:8" json:"language"`

	// Reward actually credited for this post, after defaults were applied.
	Reward decimal.Decimal `gorm:"type:numeric(18,6);not null" json:"reward"`

	CreatedAt time.Time `gorm:"index:idx_campaign_actions_created_at" json:"created_at"`
}

// TableName returns the table name for CampaignAction
func (CampaignAction) TableName() string { return "campaign_actions" }

// CampaignActionFilter provides filter fields for repository queries
type CampaignActionFilter struct {
	ID            *uint
	PromoterID    *uint
	CampaignID    *uint
	Language      *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
