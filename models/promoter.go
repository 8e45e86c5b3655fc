package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ComplianceStatus represents the KYC state of a promoter profile
type ComplianceStatus string

const (
	ComplianceStatusNone     ComplianceStatus = "none"
	ComplianceStatusRequired ComplianceStatus = "verification_required"
	ComplianceStatusVerified ComplianceStatus = "verified"
)

// String returns the string representation of the status
func (s ComplianceStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s ComplianceStatus) Valid() bool {
	switch s {
	case ComplianceStatusNone, ComplianceStatusRequired, ComplianceStatusVerified:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for ComplianceStatus
func (s *ComplianceStatus) Scan(value any) error {
	if value == nil {
		*s = ComplianceStatusNone
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ComplianceStatus(v)
	case []byte:
		*s = ComplianceStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into ComplianceStatus", value)
	}
	return nil
}

// Value implements the driver.Valuer interface for ComplianceStatus
func (s ComplianceStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid ComplianceStatus: %s", s)
	}
	return string(s), nil
}

// Promoter is the ledger-facing slice of a promoter profile. Account
// creation and identity live in the identity service; this core only reads
// the id and writes the compliance status.
type Promoter struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_promoters_uuid;not null" json:"uuid"`
	DisplayName string    `gorm:"size:255" json:"display_name"`

	ComplianceStatus ComplianceStatus `gorm:"type:varchar(32);not null;default:'none';index:idx_promoters_compliance_status" json:"compliance_status"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relationships
	Wallet       *Wallet       `gorm:"foreignKey:PromoterID" json:"wallet,omitempty"`
	TrackedLinks []TrackedLink `gorm:"foreignKey:PromoterID" json:"tracked_links,omitempty"`
}

// TableName returns the table name for Promoter
func (Promoter) TableName() string { return "promoters" }

// BeforeCreate ensures UUID is set
func (p *Promoter) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// PromoterFilter represents filter criteria for promoter queries
type PromoterFilter struct {
	ID               *uint             `json:"id,omitempty"`
	UUID             *uuid.UUID        `json:"uuid,omitempty"`
	ComplianceStatus *ComplianceStatus `json:"compliance_status,omitempty"`
	CreatedAfter     *time.Time        `json:"created_after,omitempty"`
	CreatedBefore    *time.Time        `json:"created_before,omitempty"`
}
