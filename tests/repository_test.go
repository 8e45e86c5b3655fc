// Package tests contains test cases for models and repository packages to
// avoid circular imports
package tests

import (
	"context"
	"testing"
	"time"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	testingutil "github.com/promolane/promolane/testing"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		campaignRepo := repository.NewCampaignRepository(testDB.DB)

		t.Run("ByUUIDRoundTrip", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign()
			require.NoError(t, err)

			found, err := campaignRepo.ByUUID(context.Background(), campaign.UUID.String())
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, campaign.ID, found.ID)
			assert.Equal(t, campaign.Title, found.Title)

			missing, err := campaignRepo.ByUUID(context.Background(), "3f0f3f7e-0000-4000-8000-000000000000")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})

		t.Run("DebitBudgetRefusesOverdraft", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("1.00"))
			require.NoError(t, err)

			ok, err := campaignRepo.DebitBudget(context.Background(), campaign.ID, decimal.RequireFromString("0.60"))
			require.NoError(t, err)
			assert.True(t, ok)

			// Second debit would overdraw; the guard refuses and the
			// budget is untouched.
			ok, err = campaignRepo.DebitBudget(context.Background(), campaign.ID, decimal.RequireFromString("0.60"))
			require.NoError(t, err)
			assert.False(t, ok)

			updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
			require.NoError(t, err)
			assert.True(t, updated.BudgetRemaining.Equal(decimal.RequireFromString("0.40")))

			// Draining to exactly zero is allowed.
			ok, err = campaignRepo.DebitBudget(context.Background(), campaign.ID, decimal.RequireFromString("0.40"))
			require.NoError(t, err)
			assert.True(t, ok)
		})

		t.Run("CreditBudgetTopsUp", func(t *testing.T) {
			campaign, err := fixtures.CreateTestCampaign(testingutil.WithBudget("1"))
			require.NoError(t, err)

			require.NoError(t, campaignRepo.CreditBudget(context.Background(), campaign.ID, decimal.RequireFromString("2.50")))

			updated, err := campaignRepo.ByID(context.Background(), campaign.ID)
			require.NoError(t, err)
			assert.True(t, updated.BudgetRemaining.Equal(decimal.RequireFromString("3.50")))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestTrackedLinkRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		linkRepo := repository.NewTrackedLinkRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)

		t.Run("MarkBonusPaidFlipsOnce", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(promoter, nil)
			require.NoError(t, err)

			ok, err := linkRepo.MarkBonusPaid(context.Background(), link.ID)
			require.NoError(t, err)
			assert.True(t, ok)

			// The flag is write-once; a second attempt reports failure.
			ok, err = linkRepo.MarkBonusPaid(context.Background(), link.ID)
			require.NoError(t, err)
			assert.False(t, ok)

			updated, err := linkRepo.ByUID(context.Background(), link.UID)
			require.NoError(t, err)
			assert.True(t, updated.BonusPaid)
		})

		t.Run("IncrementClickCount", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(promoter, nil)
			require.NoError(t, err)

			for i := 0; i < 3; i++ {
				require.NoError(t, linkRepo.IncrementClickCount(context.Background(), link.ID))
			}

			updated, err := linkRepo.ByUID(context.Background(), link.UID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), updated.ClickCount)
		})

		t.Run("DuplicateUIDRejected", func(t *testing.T) {
			link, err := fixtures.CreateTestLink(promoter, nil)
			require.NoError(t, err)

			dup := &models.TrackedLink{
				UID:            link.UID,
				PromoterID:     promoter.ID,
				DestinationURL: "https://example.com/other",
				PaymentModel:   models.PaymentModelRevShare,
				CreatedAt:      utils.UTCNow(),
				UpdatedAt:      utils.UTCNow(),
			}
			err = linkRepo.Save(context.Background(), dup)
			require.Error(t, err)
			assert.True(t, repository.IsUniqueViolation(err))
		})

		t.Run("ByFilterScopesToPromoter", func(t *testing.T) {
			other, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			_, err = fixtures.CreateTestLink(other, nil)
			require.NoError(t, err)

			links, err := linkRepo.ByFilter(context.Background(),
				models.TrackedLinkFilter{PromoterID: &other.ID}, "created_at DESC", 10, 0)
			require.NoError(t, err)
			require.Len(t, links, 1)
			assert.Equal(t, other.ID, links[0].PromoterID)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWalletRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		walletRepo := repository.NewWalletRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		wallet, err := fixtures.CreateTestWallet(promoter, "10", "10")
		require.NoError(t, err)

		t.Run("CreditIncrementsBothCounters", func(t *testing.T) {
			require.NoError(t, walletRepo.Credit(context.Background(), wallet.ID, decimal.RequireFromString("2.50")))

			updated, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.True(t, updated.Balance.Equal(decimal.RequireFromString("12.50")))
			assert.True(t, updated.TotalEarned.Equal(decimal.RequireFromString("12.50")))
		})

		t.Run("WithdrawDecrementsBalanceOnly", func(t *testing.T) {
			ok, err := walletRepo.Withdraw(context.Background(), wallet.ID, decimal.RequireFromString("5"))
			require.NoError(t, err)
			assert.True(t, ok)

			updated, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.True(t, updated.Balance.Equal(decimal.RequireFromString("7.50")))
			// Withdrawals never touch lifetime earnings.
			assert.True(t, updated.TotalEarned.Equal(decimal.RequireFromString("12.50")))
		})

		t.Run("WithdrawRefusesOverdraft", func(t *testing.T) {
			ok, err := walletRepo.Withdraw(context.Background(), wallet.ID, decimal.RequireFromString("100"))
			require.NoError(t, err)
			assert.False(t, ok)

			updated, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.True(t, updated.Balance.Equal(decimal.RequireFromString("7.50")))
		})

		t.Run("EnsureCreatesMissingWallet", func(t *testing.T) {
			fresh, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)

			created, err := walletRepo.EnsureByPromoterID(context.Background(), fresh.ID)
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, fresh.ID, created.PromoterID)
			assert.True(t, created.Balance.IsZero())
			assert.True(t, created.TotalEarned.IsZero())
		})

		t.Run("EnsureToleratesExistingWallet", func(t *testing.T) {
			// The insert always runs and must come back empty-handed
			// without erroring when the row already exists.
			same, err := walletRepo.EnsureByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			require.NotNil(t, same)
			assert.Equal(t, wallet.ID, same.ID)
			assert.True(t, same.Balance.Equal(decimal.RequireFromString("7.50")))
			assert.True(t, same.TotalEarned.Equal(decimal.RequireFromString("12.50")))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestWalletTransactionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		txRepo := repository.NewWalletTransactionRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		wallet, err := fixtures.CreateTestWallet(promoter, "0", "0")
		require.NoError(t, err)

		save := func(amount string, txType models.WalletTransactionType) {
			entry := &models.WalletTransaction{
				Type:       txType,
				Amount:     decimal.RequireFromString(amount),
				Currency:   utils.DefaultCurrency,
				WalletID:   wallet.ID,
				PromoterID: promoter.ID,
				CreatedAt:  utils.UTCNow(),
			}
			require.NoError(t, txRepo.Save(context.Background(), entry))
			assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", entry.UUID.String())
		}

		save("0.30", models.TransactionTypeCampaignReward)
		save("0.06", models.TransactionTypeCampaignClickReward)
		save("0.10", models.TransactionTypeCampaignBonusPerformance)
		save("-0.20", models.TransactionTypeWithdrawal)

		// Withdrawals are excluded from the earnings sum.
		sum, err := txRepo.SumPositiveByPromoter(context.Background(), promoter.ID)
		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("0.46")))

		count, err := txRepo.Count(context.Background(), models.WalletTransactionFilter{PromoterID: &promoter.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)

		txType := models.TransactionTypeWithdrawal
		rows, err := txRepo.ByFilter(context.Background(), models.WalletTransactionFilter{
			PromoterID: &promoter.ID,
			Type:       &txType,
		}, "id ASC", 10, 0)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].IsCredit())

		return nil
	})
	require.NoError(t, err)
}

func TestCampaignActionRepository(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		actionRepo := repository.NewCampaignActionRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign()
		require.NoError(t, err)

		now := utils.UTCNow()
		yesterday := now.Add(-26 * time.Hour)

		for i := 0; i < 3; i++ {
			require.NoError(t, actionRepo.Save(context.Background(), &models.CampaignAction{
				PromoterID: promoter.ID,
				CampaignID: campaign.ID,
				Reward:     decimal.RequireFromString("0.30"),
				CreatedAt:  now,
			}))
		}
		// One action from yesterday must not count against today's quota.
		require.NoError(t, actionRepo.Save(context.Background(), &models.CampaignAction{
			PromoterID: promoter.ID,
			CampaignID: campaign.ID,
			Reward:     decimal.RequireFromString("0.30"),
			CreatedAt:  yesterday,
		}))

		count, err := actionRepo.CountSince(context.Background(), promoter.ID, campaign.ID, utils.StartOfUTCDay(now))
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)

		total, err := actionRepo.Count(context.Background(), models.CampaignActionFilter{
			PromoterID: &promoter.ID,
			CampaignID: &campaign.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		return nil
	})
	require.NoError(t, err)
}
