package businessflow

import (
	"context"
	"fmt"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClickFlow attributes incoming clicks on tracked links. A click is unique
// per (link, visitor fingerprint); only unique clicks count and pay out.
// The flow returns the redirect destination in every case, including
// unknown links and accounting failures, so the visitor is never blocked.
type ClickFlow interface {
	HandleClick(ctx context.Context, uid, fingerprint, userAgent string) (string, error)
}

type ClickFlowImpl struct {
	linkRepo     repository.TrackedLinkRepository
	clickRepo    repository.UniqueClickRepository
	campaignRepo repository.CampaignRepository
	walletRepo   repository.WalletRepository
	txRepo       repository.WalletTransactionRepository
	promoterRepo repository.PromoterRepository
	db           *gorm.DB
}

// NewClickFlow creates a new click flow instance
func NewClickFlow(
	linkRepo repository.TrackedLinkRepository,
	clickRepo repository.UniqueClickRepository,
	campaignRepo repository.CampaignRepository,
	walletRepo repository.WalletRepository,
	txRepo repository.WalletTransactionRepository,
	promoterRepo repository.PromoterRepository,
	db *gorm.DB,
) ClickFlow {
	return &ClickFlowImpl{
		linkRepo:     linkRepo,
		clickRepo:    clickRepo,
		campaignRepo: campaignRepo,
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		promoterRepo: promoterRepo,
		db:           db,
	}
}

// HandleClick records one click against the link identified by uid and
// returns where to send the visitor. The dedup check, the click insert, the
// counter bump, and any payout share one transaction; the link row is
// locked first so concurrent clicks with the same fingerprint serialize and
// exactly one of them is counted.
func (f *ClickFlowImpl) HandleClick(ctx context.Context, uid, fingerprint, userAgent string) (string, error) {
	destination := utils.DefaultRedirectURL

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		link, err := f.linkRepo.LockByUID(txCtx, uid)
		if err != nil {
			return err
		}
		if link == nil {
			// Unknown uid still redirects somewhere sane.
			return nil
		}
		destination = link.DestinationURL

		seen, err := f.clickRepo.Exists(txCtx, link.ID, fingerprint)
		if err != nil {
			return err
		}
		if seen {
			clicksDeduplicated.Inc()
			return nil
		}

		click := &models.UniqueClick{
			TrackedLinkID: link.ID,
			Fingerprint:   fingerprint,
			CreatedAt:     utils.UTCNow(),
		}
		if userAgent != "" {
			click.UserAgent = &userAgent
		}
		if err := f.clickRepo.Save(txCtx, click); err != nil {
			return err
		}
		if err := f.linkRepo.IncrementClickCount(txCtx, link.ID); err != nil {
			return err
		}
		newCount := link.ClickCount + 1
		clicksAttributed.Inc()

		switch link.PaymentModel {
		case models.PaymentModelFixedBonus:
			return f.payFixedBonus(txCtx, link, newCount)
		default:
			return f.payRevenueShare(txCtx, link)
		}
	})
	if err != nil {
		clickAccountingFailures.Inc()
		return destination, err
	}
	return destination, nil
}

// payFixedBonus credits the one-time traffic bonus when the link crosses
// the click threshold. The guarded bonus_paid flip makes the payout
// idempotent even if two transactions race past the threshold read.
func (f *ClickFlowImpl) payFixedBonus(ctx context.Context, link *models.TrackedLink, newCount int64) error {
	if newCount != utils.BonusClickThreshold {
		return nil
	}
	paid, err := f.linkRepo.MarkBonusPaid(ctx, link.ID)
	if err != nil {
		return err
	}
	if !paid {
		return nil
	}
	return creditWallet(ctx, f.walletRepo, f.txRepo, f.promoterRepo, walletCredit{
		PromoterID:    link.PromoterID,
		Amount:        utils.FixedClickBonus,
		Type:          models.TransactionTypeCampaignBonusPerformance,
		CampaignID:    link.CampaignID,
		TrackedLinkID: &link.ID,
		Description:   fmt.Sprintf("Traffic bonus for link %s", link.UID),
		Metadata: map[string]any{
			"source":          "click",
			"operation":       "fixed_bonus",
			"click_threshold": utils.BonusClickThreshold,
		},
	})
}

// payRevenueShare credits the promoter's cut of the campaign's per-click
// rate. Links without a resolvable campaign still redirect but pay nothing.
func (f *ClickFlowImpl) payRevenueShare(ctx context.Context, link *models.TrackedLink) error {
	if link.CampaignID == nil {
		return nil
	}
	campaign, err := f.campaignRepo.ByID(ctx, *link.CampaignID)
	if err != nil {
		return err
	}
	if campaign == nil {
		return nil
	}

	rate := utils.DefaultRatePerClick
	if campaign.RatePerClick != nil {
		rate = *campaign.RatePerClick
	}
	if rate.Cmp(decimal.Zero) <= 0 {
		return nil
	}

	promoterShare := rate.Mul(utils.PromoterShareRate)
	platformShare := rate.Sub(promoterShare)

	return creditWallet(ctx, f.walletRepo, f.txRepo, f.promoterRepo, walletCredit{
		PromoterID:    link.PromoterID,
		Amount:        promoterShare,
		Type:          models.TransactionTypeCampaignClickReward,
		CampaignID:    link.CampaignID,
		TrackedLinkID: &link.ID,
		Description:   fmt.Sprintf("Click reward for link %s", link.UID),
		Metadata: map[string]any{
			"source":         "click",
			"operation":      "revenue_share",
			"rate_per_click": rate.String(),
			"platform_share": platformShare.String(),
		},
	})
}
