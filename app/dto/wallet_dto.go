package dto

import "encoding/json"

// WalletSummaryResponse represents the promoter's wallet counters
type WalletSummaryResponse struct {
	Balance     string `json:"balance"`      // Withdrawable balance
	TotalEarned string `json:"total_earned"` // Lifetime earnings, never decremented by payouts
	Currency    string `json:"currency"`     // Wallet currency
}

// WalletTransactionDTO represents a single ledger entry
type WalletTransactionDTO struct {
	UUID          string          `json:"uuid"`                      // Transaction UUID
	Type          string          `json:"type"`                      // Transaction type
	Amount        string          `json:"amount"`                    // Signed amount
	Currency      string          `json:"currency"`                  // Transaction currency
	CampaignID    *uint           `json:"campaign_id,omitempty"`     // Campaign the credit came from, if any
	TrackedLinkID *uint           `json:"tracked_link_id,omitempty"` // Link the credit came from, if any
	Description   string          `json:"description"`               // Human-readable description
	Metadata      json.RawMessage `json:"metadata,omitempty"`        // Model-specific details (rate, platform share)
	CreatedAt     string          `json:"created_at"`                // When the entry was appended (RFC3339)
}

// ListWalletTransactionsResponse represents a page of the promoter's ledger
type ListWalletTransactionsResponse struct {
	Items    []WalletTransactionDTO `json:"items"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}
