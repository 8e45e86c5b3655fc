package businessflow

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/promolane/promolane/app/dto"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"github.com/redis/go-redis/v9"
)

const (
	previewCachePrefix = "promolane:preview:"
	previewCacheTTL    = 5 * time.Minute
)

// ResolveFlow maps an inbound tracking identifier to a destination URL and
// link-preview metadata. Pure read path: nothing here counts a click or
// pays anyone, so it is safe to call before, after, or concurrently with
// click accounting.
type ResolveFlow interface {
	Resolve(ctx context.Context, trackingID, fallbackURL string) (*dto.ResolveResponse, error)
}

type ResolveFlowImpl struct {
	linkRepo     repository.TrackedLinkRepository
	campaignRepo repository.CampaignRepository
	redisClient  *redis.Client
}

// NewResolveFlow creates a new resolver instance. redisClient may be nil;
// the preview cache is then skipped.
func NewResolveFlow(
	linkRepo repository.TrackedLinkRepository,
	campaignRepo repository.CampaignRepository,
	redisClient *redis.Client,
) ResolveFlow {
	return &ResolveFlowImpl{
		linkRepo:     linkRepo,
		campaignRepo: campaignRepo,
		redisClient:  redisClient,
	}
}

// Resolve tries, in order: the tracking id as a link UID, the tracking id
// as a campaign UUID with an optional _LANG suffix, the caller-supplied
// fallback URL, and finally the hard default. It never returns an empty
// destination.
func (f *ResolveFlowImpl) Resolve(ctx context.Context, trackingID, fallbackURL string) (*dto.ResolveResponse, error) {
	if trackingID != "" {
		if cached := f.cacheGet(ctx, trackingID); cached != nil {
			return cached, nil
		}

		resp, err := f.resolveLink(ctx, trackingID)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			resp, err = f.resolveCampaign(ctx, trackingID)
			if err != nil {
				return nil, err
			}
		}
		if resp != nil {
			f.cacheSet(ctx, trackingID, resp)
			return resp, nil
		}
	}

	if fallbackURL != "" && utils.HasURLScheme(fallbackURL) {
		return &dto.ResolveResponse{DestinationURL: fallbackURL}, nil
	}
	return &dto.ResolveResponse{DestinationURL: utils.DefaultRedirectURL}, nil
}

// resolveLink treats trackingID as a tracked-link UID and joins the parent
// campaign for preview metadata. Link-level overrides win over the
// campaign's values. Returns nil when no link matches.
func (f *ResolveFlowImpl) resolveLink(ctx context.Context, trackingID string) (*dto.ResolveResponse, error) {
	link, err := f.linkRepo.ByUID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}

	resp := &dto.ResolveResponse{DestinationURL: link.DestinationURL}
	if link.CampaignID != nil {
		campaign, err := f.campaignRepo.ByID(ctx, *link.CampaignID)
		if err != nil {
			return nil, err
		}
		if campaign != nil {
			applyCampaignPreview(resp, campaign)
		}
	}
	if link.SelectedImageURL != nil && *link.SelectedImageURL != "" {
		resp.PreviewImageURL = *link.SelectedImageURL
	}
	if link.Title != nil && *link.Title != "" {
		resp.PreviewTitle = *link.Title
	}
	return resp, nil
}

// resolveCampaign treats trackingID as a campaign UUID, optionally suffixed
// with a language code (uuid_LANG). The language-specific destination wins
// when present. Returns nil when no campaign matches.
func (f *ResolveFlowImpl) resolveCampaign(ctx context.Context, trackingID string) (*dto.ResolveResponse, error) {
	id := trackingID
	lang := ""
	if idx := strings.LastIndex(trackingID, "_"); idx > 0 {
		if _, err := uuid.Parse(trackingID[:idx]); err == nil {
			id = trackingID[:idx]
			lang = trackingID[idx+1:]
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	campaign, err := f.campaignRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, nil
	}

	destination := campaign.DestinationURL
	if lang != "" {
		if u, ok := campaign.DestinationURLs[lang]; ok && u != "" {
			destination = u
		}
	}
	if destination == "" {
		destination = utils.DefaultRedirectURL
	}

	resp := &dto.ResolveResponse{DestinationURL: destination}
	applyCampaignPreview(resp, campaign)
	return resp, nil
}

func applyCampaignPreview(resp *dto.ResolveResponse, campaign *models.Campaign) {
	if campaign.PreviewImageURL != nil {
		resp.PreviewImageURL = *campaign.PreviewImageURL
	}
	if campaign.PreviewTitle != nil {
		resp.PreviewTitle = *campaign.PreviewTitle
	} else if campaign.Title != "" {
		resp.PreviewTitle = campaign.Title
	}
	if campaign.PreviewDescription != nil {
		resp.PreviewDescription = *campaign.PreviewDescription
	}
}

// Cache helpers are best-effort: any Redis failure falls through to the
// store read.

func (f *ResolveFlowImpl) cacheGet(ctx context.Context, trackingID string) *dto.ResolveResponse {
	if f.redisClient == nil {
		return nil
	}
	raw, err := f.redisClient.Get(ctx, previewCachePrefix+trackingID).Result()
	if err != nil {
		return nil
	}
	var resp dto.ResolveResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil
	}
	return &resp
}

func (f *ResolveFlowImpl) cacheSet(ctx context.Context, trackingID string, resp *dto.ResolveResponse) {
	if f.redisClient == nil {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	f.redisClient.Set(ctx, previewCachePrefix+trackingID, b, previewCacheTTL)
}
