package models

import "time"

// TrackedLink represents a promoter-owned tracking token mapping to a
// destination URL. UID is the public token embedded in distributed links.
// PaymentModel is copied from the campaign when the link is minted and
// never updated afterwards. CampaignID is optional: a link without a
// campaign still counts clicks but never pays.
type TrackedLink struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UID        string `gorm:"size:64;not null;uniqueIndex:uk_tracked_links_uid" json:"uid"`
	PromoterID uint   `gorm:"not null;index:idx_tracked_links_promoter_id" json:"promoter_id"`
	CampaignID *uint  `gorm:"index:idx_tracked_links_campaign_id" json:"campaign_id,omitempty"`

	DestinationURL string `gorm:"type:text;not null" json:"destination_url"`

	// ClickCount increments at most once per unique visitor fingerprint.
	ClickCount   int64        `gorm:"not null;default:0" json:"click_count"`
	PaymentModel PaymentModel `gorm:"type:varchar(32);not null" json:"payment_model"`

	// BonusPaid is write-once true under the fixed-plus-bonus model.
	BonusPaid bool `gorm:"not null;default:false" json:"bonus_paid"`

	// Preview overrides; campaign preview metadata fills the gaps.
	SelectedImageURL *string `gorm:"type:text" json:"selected_image_url,omitempty"`
	Title            *string `gorm:"size:255" json:"title,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_tracked_links_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for TrackedLink
func (TrackedLink) TableName() string { return "tracked_links" }

// TrackedLinkFilter provides filter fields for repository queries
type TrackedLinkFilter struct {
	ID            *uint
	UID           *string
	PromoterID    *uint
	CampaignID    *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
