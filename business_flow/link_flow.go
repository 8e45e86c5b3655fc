package businessflow

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/promolane/promolane/app/dto"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"gorm.io/gorm"
)

const (
	linkUIDBytes       = 6
	maxUIDMintAttempts = 5
)

// TrackedLinkFlow mints and lists tracked links. The payment model is
// copied from the campaign at mint time so later campaign edits never
// change the economics of an already distributed link.
type TrackedLinkFlow interface {
	CreateLink(ctx context.Context, req *dto.CreateLinkRequest, metadata *ClientMetadata) (*dto.TrackedLinkDTO, error)
	ListLinks(ctx context.Context, promoterID uint, page, pageSize int) (*dto.ListTrackedLinksResponse, error)
}

type TrackedLinkFlowImpl struct {
	linkRepo     repository.TrackedLinkRepository
	campaignRepo repository.CampaignRepository
	clickRepo    repository.UniqueClickRepository
	db           *gorm.DB
}

// NewTrackedLinkFlow creates a new tracked link flow instance
func NewTrackedLinkFlow(
	linkRepo repository.TrackedLinkRepository,
	campaignRepo repository.CampaignRepository,
	clickRepo repository.UniqueClickRepository,
	db *gorm.DB,
) TrackedLinkFlow {
	return &TrackedLinkFlowImpl{
		linkRepo:     linkRepo,
		campaignRepo: campaignRepo,
		clickRepo:    clickRepo,
		db:           db,
	}
}

// CreateLink mints a new tracked link for the promoter. Without a campaign
// the link still needs an explicit destination; with one, the campaign's
// generic destination fills the gap and the payment model is copied over.
func (f *TrackedLinkFlowImpl) CreateLink(ctx context.Context, req *dto.CreateLinkRequest, metadata *ClientMetadata) (*dto.TrackedLinkDTO, error) {
	if req == nil || req.PromoterID == 0 {
		return nil, NewBusinessError("LINK_VALIDATION_FAILED", "promoter is required", ErrLinkNotFound)
	}

	destination := req.DestinationURL
	paymentModel := models.PaymentModelRevShare
	var campaignID *uint

	if req.CampaignUUID != "" {
		campaign, err := f.campaignRepo.ByUUID(ctx, req.CampaignUUID)
		if err != nil {
			return nil, err
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
		campaignID = &campaign.ID
		paymentModel = campaign.PaymentModel
		if destination == "" {
			destination = campaign.DestinationURL
		}
	}

	if destination == "" || !utils.HasURLScheme(destination) {
		return nil, ErrInvalidDestinationURL
	}

	link := &models.TrackedLink{
		PromoterID:     req.PromoterID,
		CampaignID:     campaignID,
		DestinationURL: destination,
		PaymentModel:   paymentModel,
		CreatedAt:      utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}
	if req.SelectedImageURL != "" {
		link.SelectedImageURL = &req.SelectedImageURL
	}
	if req.Title != "" {
		link.Title = &req.Title
	}

	// Random UIDs collide so rarely that retrying the insert is cheaper
	// than checking first.
	var err error
	for attempt := 0; attempt < maxUIDMintAttempts; attempt++ {
		link.UID, err = mintLinkUID()
		if err != nil {
			return nil, err
		}
		err = f.linkRepo.Save(ctx, link)
		if err == nil {
			return trackedLinkToDTO(link, 0), nil
		}
		if !repository.IsUniqueViolation(err) {
			return nil, err
		}
		link.ID = 0
	}
	return nil, NewBusinessError("LINK_UID_COLLISION", "could not mint a unique link id", ErrLinkUIDCollision)
}

// ListLinks returns the promoter's links, newest first, with their unique
// click totals.
func (f *TrackedLinkFlowImpl) ListLinks(ctx context.Context, promoterID uint, page, pageSize int) (*dto.ListTrackedLinksResponse, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, ErrInvalidPageSize
	}

	filter := models.TrackedLinkFilter{PromoterID: &promoterID}
	total, err := f.linkRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	links, err := f.linkRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TrackedLinkDTO, 0, len(links))
	for _, link := range links {
		uniques, err := f.clickRepo.CountByLink(ctx, link.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, *trackedLinkToDTO(link, uniques))
	}

	return &dto.ListTrackedLinksResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func trackedLinkToDTO(link *models.TrackedLink, uniqueClicks int64) *dto.TrackedLinkDTO {
	d := &dto.TrackedLinkDTO{
		UID:            link.UID,
		DestinationURL: link.DestinationURL,
		PaymentModel:   string(link.PaymentModel),
		ClickCount:     link.ClickCount,
		UniqueClicks:   uniqueClicks,
		BonusPaid:      link.BonusPaid,
		CreatedAt:      link.CreatedAt.Format(time.RFC3339),
	}
	if link.CampaignID != nil {
		d.CampaignID = link.CampaignID
	}
	return d
}

// mintLinkUID returns a short URL-safe random token.
func mintLinkUID() (string, error) {
	buf := make([]byte, linkUIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link uid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
