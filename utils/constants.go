package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Ledger defaults. A campaign document that leaves a pricing field unset is
// priced with these values; they are applied in exactly one place (the flow
// reading the campaign), never re-defaulted downstream.
var (
	// DefaultCostPerAction is the advertiser-side debit per accepted post
	// when the campaign does not set cost_per_action.
	DefaultCostPerAction = decimal.RequireFromString("0.50")

	// DefaultRewardPerAction is the promoter-side credit per accepted post
	// when the campaign does not set reward_per_action.
	DefaultRewardPerAction = decimal.RequireFromString("0.30")

	// DefaultRatePerClick is the per-click rate under the legacy revenue
	// share model when the campaign does not set rate_per_click.
	DefaultRatePerClick = decimal.RequireFromString("0.05")

	// PromoterShareRate is the promoter's cut of the per-click rate under
	// the legacy revenue share model. The remainder is retained by the
	// platform.
	PromoterShareRate = decimal.RequireFromString("0.60")

	// FixedClickBonus is the one-time bonus paid under the fixed-plus-bonus
	// model when a link reaches BonusClickThreshold unique clicks.
	FixedClickBonus = decimal.RequireFromString("0.10")

	// ComplianceEarningsCeiling is the lifetime-earnings threshold above
	// which a promoter requires verification.
	ComplianceEarningsCeiling = decimal.RequireFromString("2000")
)

const (
	// DailyActionQuota caps accepted posts per promoter per campaign per day.
	DailyActionQuota = 10

	// BonusClickThreshold is the unique-click count that triggers the
	// fixed-plus-bonus payout.
	BonusClickThreshold = 5

	// DefaultCurrency is the platform unit of account.
	DefaultCurrency = "USD"

	// DefaultRedirectURL is where visitors land when a tracking token
	// cannot be resolved. The visitor is never shown an error page.
	DefaultRedirectURL = "https://promolane.io"
)

// ContextKey is the type for request-scoped context values
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserAgentKey ContextKey = "user_agent"
	IPAddressKey ContextKey = "ip_address"
	EndpointKey  ContextKey = "endpoint"
	TimeoutKey   ContextKey = "timeout"
)
