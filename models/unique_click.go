package models

import "time"

// UniqueClick is the dedup record for one visitor on one tracked link.
// Existence of the (tracked_link_id, fingerprint) pair is the whole signal:
// the row is created at most once, and its creation is the linearization
// point for "this visit is new". Fingerprint is a one-way hash of the
// client IP; the raw address is never stored.
type UniqueClick struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	TrackedLinkID uint    `gorm:"not null;uniqueIndex:uk_unique_clicks_link_fingerprint;index:idx_unique_clicks_link_id" json:"tracked_link_id"`
	Fingerprint   string  `gorm:"size:64;not null;uniqueIndex:uk_unique_clicks_link_fingerprint" json:"fingerprint"`
	UserAgent     *string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_unique_clicks_created_at" json:"created_at"`
}

// TableName returns the table name for UniqueClick
func (UniqueClick) TableName() string { return "unique_clicks" }
