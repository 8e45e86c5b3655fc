package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/promolane/promolane/app/dto"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CampaignActionFlow is the budget guard: it validates the daily quota and
// the remaining campaign budget, then debits the campaign and credits the
// promoter wallet in one unit of work. Any rejection happens before the
// first write.
type CampaignActionFlow interface {
	RecordAction(ctx context.Context, req *dto.RecordActionRequest, metadata *ClientMetadata) (*dto.RecordActionResponse, error)
}

type CampaignActionFlowImpl struct {
	campaignRepo repository.CampaignRepository
	actionRepo   repository.CampaignActionRepository
	walletRepo   repository.WalletRepository
	txRepo       repository.WalletTransactionRepository
	promoterRepo repository.PromoterRepository
	db           *gorm.DB
}

// NewCampaignActionFlow creates a new campaign action flow instance
func NewCampaignActionFlow(
	campaignRepo repository.CampaignRepository,
	actionRepo repository.CampaignActionRepository,
	walletRepo repository.WalletRepository,
	txRepo repository.WalletTransactionRepository,
	promoterRepo repository.PromoterRepository,
	db *gorm.DB,
) CampaignActionFlow {
	return &CampaignActionFlowImpl{
		campaignRepo: campaignRepo,
		actionRepo:   actionRepo,
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		promoterRepo: promoterRepo,
		db:           db,
	}
}

// RecordAction validates and records one promoter post against a campaign.
// The quota count, the budget check, and all writes share one transaction;
// the campaign row is locked first so concurrent posts against the same
// campaign serialize instead of double-passing the checks.
func (f *CampaignActionFlowImpl) RecordAction(ctx context.Context, req *dto.RecordActionRequest, metadata *ClientMetadata) (*dto.RecordActionResponse, error) {
	if req == nil || req.PromoterID == 0 || req.CampaignUUID == "" {
		return nil, NewBusinessError("ACTION_VALIDATION_FAILED", "promoter and campaign are required", ErrCampaignNotFound)
	}

	var reward decimal.Decimal

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		campaign, err := f.campaignRepo.ByUUID(txCtx, req.CampaignUUID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}

		// Serialize concurrent actions on this campaign.
		campaign, err = f.campaignRepo.LockByID(txCtx, campaign.ID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}
		if !campaign.IsPayable() {
			return ErrCampaignNotActive
		}

		count, err := f.actionRepo.CountSince(txCtx, req.PromoterID, campaign.ID, utils.StartOfUTCDay(utils.UTCNow()))
		if err != nil {
			return err
		}
		if count >= utils.DailyActionQuota {
			actionsRejected.WithLabelValues("quota").Inc()
			return ErrDailyQuotaExceeded
		}

		cost := utils.DefaultCostPerAction
		if campaign.CostPerAction != nil {
			cost = *campaign.CostPerAction
		}
		reward = utils.DefaultRewardPerAction
		if campaign.RewardPerAction != nil {
			reward = *campaign.RewardPerAction
		}

		if campaign.BudgetRemaining.Cmp(cost) < 0 {
			actionsRejected.WithLabelValues("budget").Inc()
			return ErrBudgetExhausted
		}

		// Locked read passed; the guarded update is the backstop.
		ok, err := f.campaignRepo.DebitBudget(txCtx, campaign.ID, cost)
		if err != nil {
			return err
		}
		if !ok {
			actionsRejected.WithLabelValues("budget").Inc()
			return ErrBudgetExhausted
		}

		action := &models.CampaignAction{
			PromoterID: req.PromoterID,
			CampaignID: campaign.ID,
			Language:   req.Language,
			Reward:     reward,
			CreatedAt:  utils.UTCNow(),
		}
		if err := f.actionRepo.Save(txCtx, action); err != nil {
			return err
		}

		// The advertiser-side cost never reaches the promoter; only the
		// reward is exposed in the ledger entry.
		return creditWallet(txCtx, f.walletRepo, f.txRepo, f.promoterRepo, walletCredit{
			PromoterID:  req.PromoterID,
			Amount:      reward,
			Type:        models.TransactionTypeCampaignReward,
			CampaignID:  &campaign.ID,
			Description: fmt.Sprintf("Reward for campaign post (%s)", req.CampaignUUID),
			Metadata: map[string]any{
				"source":    "campaign_action",
				"operation": "record_action",
				"language":  req.Language,
			},
		})
	})

	if err != nil {
		return nil, err
	}

	return &dto.RecordActionResponse{
		Reward:     reward.String(),
		Currency:   utils.DefaultCurrency,
		RecordedAt: utils.UTCNow().Format(time.RFC3339),
	}, nil
}
