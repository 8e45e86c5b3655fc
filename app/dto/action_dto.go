package dto

// RecordActionRequest represents a promoter post submitted against a campaign
type RecordActionRequest struct {
	PromoterID   uint   `json:"promoter_id" validate:"required"`        // Promoter ID (from authenticated context)
	CampaignUUID string `json:"campaign_id" validate:"required,uuid4"`  // Campaign UUID
	Language     string `json:"language" validate:"omitempty,bcp47_language_tag"` // Language the post was published in
}

// RecordActionResponse represents the outcome of an accepted post
type RecordActionResponse struct {
	Reward     string `json:"reward"`      // Amount credited to the promoter
	Currency   string `json:"currency"`    // Reward currency
	RecordedAt string `json:"recorded_at"` // When the action was accepted (RFC3339)
}
