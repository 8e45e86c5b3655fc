// Package testing provides test utilities and database setup for testing the ledger
package testing

import (
	"fmt"
	"math/rand"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestPromoter creates a promoter with a clean compliance status
func (tf *TestFixtures) CreateTestPromoter() (*models.Promoter, error) {
	promoter := &models.Promoter{
		DisplayName:      fmt.Sprintf("promoter-%06d", rand.Intn(1000000)),
		ComplianceStatus: models.ComplianceStatusNone,
		CreatedAt:        utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(promoter).Error; err != nil {
		return nil, fmt.Errorf("failed to create test promoter: %w", err)
	}
	return promoter, nil
}

// CampaignOption mutates a campaign fixture before it is persisted
type CampaignOption func(*models.Campaign)

// WithBudget sets the remaining budget
func WithBudget(budget string) CampaignOption {
	return func(c *models.Campaign) {
		c.BudgetRemaining = decimal.RequireFromString(budget)
	}
}

// WithPaymentModel sets the payout model
func WithPaymentModel(model models.PaymentModel) CampaignOption {
	return func(c *models.Campaign) {
		c.PaymentModel = model
	}
}

// WithRatePerClick sets an explicit per-click rate
func WithRatePerClick(rate string) CampaignOption {
	return func(c *models.Campaign) {
		d := decimal.RequireFromString(rate)
		c.RatePerClick = &d
	}
}

// WithCostPerAction sets an explicit advertiser-side cost
func WithCostPerAction(cost string) CampaignOption {
	return func(c *models.Campaign) {
		d := decimal.RequireFromString(cost)
		c.CostPerAction = &d
	}
}

// WithRewardPerAction sets an explicit promoter-side reward
func WithRewardPerAction(reward string) CampaignOption {
	return func(c *models.Campaign) {
		d := decimal.RequireFromString(reward)
		c.RewardPerAction = &d
	}
}

// WithStatus sets the campaign status
func WithStatus(status models.CampaignStatus) CampaignOption {
	return func(c *models.Campaign) {
		c.Status = status
	}
}

// CreateTestCampaign creates an active campaign with a generous budget
// unless options say otherwise
func (tf *TestFixtures) CreateTestCampaign(opts ...CampaignOption) (*models.Campaign, error) {
	campaign := &models.Campaign{
		AdvertiserName:  "Acme Ads",
		Title:           fmt.Sprintf("campaign-%06d", rand.Intn(1000000)),
		Status:          models.CampaignStatusActive,
		BudgetRemaining: decimal.RequireFromString("100"),
		PaymentModel:    models.PaymentModelRevShare,
		DestinationURL:  "https://example.com/landing",
		CreatedAt:       utils.UTCNow(),
	}
	for _, opt := range opts {
		opt(campaign)
	}
	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}
	return campaign, nil
}

// CreateTestLink mints a tracked link owned by the promoter. A nil campaign
// produces an unmonetized link.
func (tf *TestFixtures) CreateTestLink(promoter *models.Promoter, campaign *models.Campaign) (*models.TrackedLink, error) {
	link := &models.TrackedLink{
		UID:            fmt.Sprintf("uid%06d", rand.Intn(1000000)),
		PromoterID:     promoter.ID,
		DestinationURL: "https://example.com/landing",
		PaymentModel:   models.PaymentModelRevShare,
		CreatedAt:      utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}
	if campaign != nil {
		link.CampaignID = &campaign.ID
		link.PaymentModel = campaign.PaymentModel
		link.DestinationURL = campaign.DestinationURL
	}
	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test link: %w", err)
	}
	return link, nil
}

// CreateTestWallet creates a wallet with preset counters
func (tf *TestFixtures) CreateTestWallet(promoter *models.Promoter, balance, totalEarned string) (*models.Wallet, error) {
	wallet := &models.Wallet{
		PromoterID:  promoter.ID,
		Balance:     decimal.RequireFromString(balance),
		TotalEarned: decimal.RequireFromString(totalEarned),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := tf.DB.DB.Create(wallet).Error; err != nil {
		return nil, fmt.Errorf("failed to create test wallet: %w", err)
	}
	return wallet, nil
}
