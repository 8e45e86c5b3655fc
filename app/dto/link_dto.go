package dto

// CreateLinkRequest represents the request to mint a new tracked link
type CreateLinkRequest struct {
	PromoterID       uint   `json:"promoter_id" validate:"required"`              // Promoter ID (from authenticated context)
	CampaignUUID     string `json:"campaign_id,omitempty" validate:"omitempty,uuid4"` // Optional campaign the link promotes
	DestinationURL   string `json:"destination_url,omitempty" validate:"omitempty,url"` // Explicit destination; required when no campaign is given
	SelectedImageURL string `json:"selected_image_url,omitempty" validate:"omitempty,url"` // Preview image override
	Title            string `json:"title,omitempty" validate:"omitempty,max=255"` // Preview title override
}

// TrackedLinkDTO represents one tracked link in API responses
type TrackedLinkDTO struct {
	UID            string `json:"uid"`                   // Public tracking token
	CampaignID     *uint  `json:"campaign_id,omitempty"` // Campaign the link promotes, if any
	DestinationURL string `json:"destination_url"`       // Where visitors are redirected
	PaymentModel   string `json:"payment_model"`         // Payout model copied at mint time
	ClickCount     int64  `json:"click_count"`           // Unique clicks counted so far
	UniqueClicks   int64  `json:"unique_clicks"`         // Dedup records for this link
	BonusPaid      bool   `json:"bonus_paid"`            // Whether the one-time bonus fired
	CreatedAt      string `json:"created_at"`            // When the link was minted (RFC3339)
}

// ListTrackedLinksResponse represents a page of the promoter's links
type ListTrackedLinksResponse struct {
	Items    []TrackedLinkDTO `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ResolveResponse represents a resolved tracking identifier
type ResolveResponse struct {
	DestinationURL     string `json:"destination_url"`               // Resolved redirect target, never empty
	PreviewImageURL    string `json:"preview_image_url,omitempty"`   // Image for link-preview tags
	PreviewTitle       string `json:"preview_title,omitempty"`       // Title for link-preview tags
	PreviewDescription string `json:"preview_description,omitempty"` // Description for link-preview tags
}
