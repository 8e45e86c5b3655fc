// Package models defines the persisted entities of the attribution ledger.
package models

import "gorm.io/gorm"

// AutoMigrate creates or updates the ledger schema. Production deployments
// run versioned SQL migrations instead; this is used by tests and local
// development against a fresh store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Promoter{},
		&Campaign{},
		&TrackedLink{},
		&UniqueClick{},
		&Wallet{},
		&WalletTransaction{},
		&CampaignAction{},
	)
}
