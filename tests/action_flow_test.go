// Package tests contains integration tests for the campaign budget guard
package tests

import (
	"context"
	"sync"
	"testing"

	"github.com/promolane/promolane/app/dto"
	businessflow "github.com/promolane/promolane/business_flow"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	testingutil "github.com/promolane/promolane/testing"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActionFlow(testDB *testingutil.TestDB) businessflow.CampaignActionFlow {
	return businessflow.NewCampaignActionFlow(
		repository.NewCampaignRepository(testDB.DB),
		repository.NewCampaignActionRepository(testDB.DB),
		repository.NewWalletRepository(testDB.DB),
		repository.NewWalletTransactionRepository(testDB.DB),
		repository.NewPromoterRepository(testDB.DB),
		testDB.DB,
	)
}

func TestRecordAction(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		actionFlow := newActionFlow(testDB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		walletRepo := repository.NewWalletRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		t.Run("SuccessfulActionDebitsBudgetAndCreditsWallet", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("10"))
			require.NoError(t, err)

			resp, err := actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
				Language:     "en",
			}, metadata)
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, utils.DefaultRewardPerAction.String(), resp.Reward)
			assert.Equal(t, utils.DefaultCurrency, resp.Currency)
			assert.NotEmpty(t, resp.RecordedAt)

			// Budget lost the advertiser-side cost, not the reward.
			updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
			require.NoError(t, err)
			assert.True(t, updated.BudgetRemaining.Equal(
				decimal.RequireFromString("10").Sub(utils.DefaultCostPerAction)))

			wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			require.NotNil(t, wallet)
			assert.True(t, wallet.Balance.Equal(utils.DefaultRewardPerAction))
			assert.True(t, wallet.TotalEarned.Equal(utils.DefaultRewardPerAction))
		})

		t.Run("ExplicitPricingOverridesDefaults", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(
				testingutil.WithBudget("5"),
				testingutil.WithCostPerAction("2.00"),
				testingutil.WithRewardPerAction("1.25"),
			)
			require.NoError(t, err)

			resp, err := actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, "1.25", resp.Reward)

			updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
			require.NoError(t, err)
			assert.True(t, updated.BudgetRemaining.Equal(decimal.RequireFromString("3")))
		})

		t.Run("UnknownCampaignRejected", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)

			_, err = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: "3f0f3f7e-0000-4000-8000-000000000000",
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCampaignNotFound(err))
		})

		t.Run("PausedCampaignRejected", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(
				testingutil.WithStatus(models.CampaignStatusPaused),
			)
			require.NoError(t, err)

			_, err = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsCampaignNotActive(err))
		})

		t.Run("GrayModeCampaignStillPays", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(
				testingutil.WithStatus(models.CampaignStatusGrayMode),
			)
			require.NoError(t, err)

			resp, err := actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
			}, metadata)
			require.NoError(t, err)
			assert.Equal(t, utils.DefaultRewardPerAction.String(), resp.Reward)
		})

		t.Run("ExhaustedBudgetRejected", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("0.25"))
			require.NoError(t, err)

			_, err = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
			}, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsBudgetExhausted(err))

			// Nothing was written: budget intact, no wallet, no actions.
			updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
			require.NoError(t, err)
			assert.True(t, updated.BudgetRemaining.Equal(decimal.RequireFromString("0.25")))

			wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.Nil(t, wallet)
		})

		t.Run("DailyQuotaEnforced", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("100"))
			require.NoError(t, err)

			req := &dto.RecordActionRequest{
				PromoterID:   promoter.ID,
				CampaignUUID: campaign.UUID.String(),
			}
			for i := 0; i < utils.DailyActionQuota; i++ {
				_, err := actionFlow.RecordAction(context.Background(), req, metadata)
				require.NoError(t, err, "action %d within quota", i+1)
			}

			_, err = actionFlow.RecordAction(context.Background(), req, metadata)
			require.Error(t, err)
			assert.True(t, businessflow.IsDailyQuotaExceeded(err))

			// The quota is per promoter; a second promoter still posts.
			other, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			_, err = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
				PromoterID:   other.ID,
				CampaignUUID: campaign.UUID.String(),
			}, metadata)
			require.NoError(t, err)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestRecordActionConcurrentBudget(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		actionFlow := newActionFlow(testDB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		// Budget covers exactly 4 actions at the default cost. 12 callers
		// race across 3 promoters so the per-promoter quota never binds.
		campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("2.00"))
		require.NoError(t, err)

		promoters := make([]*models.Promoter, 3)
		for i := range promoters {
			promoters[i], err = fixtures.CreateTestPromoter()
			require.NoError(t, err)
		}

		const callers = 12
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
					PromoterID:   promoters[i%len(promoters)].ID,
					CampaignUUID: campaign.UUID.String(),
				}, metadata)
			}(i)
		}
		wg.Wait()

		accepted := 0
		for _, err := range errs {
			if err == nil {
				accepted++
			} else {
				require.True(t, businessflow.IsBudgetExhausted(err), "unexpected error: %v", err)
			}
		}
		assert.Equal(t, 4, accepted)

		updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.True(t, updated.BudgetRemaining.Equal(decimal.Zero),
			"budget remaining %s, want 0", updated.BudgetRemaining)
		assert.False(t, updated.BudgetRemaining.IsNegative())

		var actions int64
		require.NoError(t, testDB.DB.Model(&models.CampaignAction{}).
			Where("campaign_id = ?", campaign.ID).Count(&actions).Error)
		assert.Equal(t, int64(4), actions)

		return nil
	})
	require.NoError(t, err)
}

func TestRecordActionConcurrentQuota(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		actionFlow := newActionFlow(testDB)
		metadata := businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("1000"))
		require.NoError(t, err)

		const callers = 50
		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = actionFlow.RecordAction(context.Background(), &dto.RecordActionRequest{
					PromoterID:   promoter.ID,
					CampaignUUID: campaign.UUID.String(),
				}, metadata)
			}(i)
		}
		wg.Wait()

		accepted := 0
		for _, err := range errs {
			if err == nil {
				accepted++
			} else {
				require.True(t, businessflow.IsDailyQuotaExceeded(err), "unexpected error: %v", err)
			}
		}
		assert.Equal(t, utils.DailyActionQuota, accepted)

		var actions int64
		require.NoError(t, testDB.DB.Model(&models.CampaignAction{}).
			Where("promoter_id = ? AND campaign_id = ?", promoter.ID, campaign.ID).
			Count(&actions).Error)
		assert.Equal(t, int64(utils.DailyActionQuota), actions)

		return nil
	})
	require.NoError(t, err)
}
