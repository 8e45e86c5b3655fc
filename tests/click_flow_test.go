// Package tests contains integration tests for click attribution flows
package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"

	businessflow "github.com/promolane/promolane/business_flow"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	testingutil "github.com/promolane/promolane/testing"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newClickFlow(testDB *testingutil.TestDB) businessflow.ClickFlow {
	return businessflow.NewClickFlow(
		repository.NewTrackedLinkRepository(testDB.DB),
		repository.NewUniqueClickRepository(testDB.DB),
		repository.NewCampaignRepository(testDB.DB),
		repository.NewWalletRepository(testDB.DB),
		repository.NewWalletTransactionRepository(testDB.DB),
		repository.NewPromoterRepository(testDB.DB),
		testDB.DB,
	)
}

func TestClickFlow(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		clickFlow := newClickFlow(testDB)
		txRepo := repository.NewWalletTransactionRepository(testDB.DB)
		walletRepo := repository.NewWalletRepository(testDB.DB)
		linkRepo := repository.NewTrackedLinkRepository(testDB.DB)

		t.Run("UnknownUIDRedirectsToDefault", func(t *testing.T) {
			dest, err := clickFlow.HandleClick(context.Background(), "no-such-uid", utils.Fingerprint("1.2.3.4"), "Test Agent")
			require.NoError(t, err)
			assert.Equal(t, utils.DefaultRedirectURL, dest)
		})

		t.Run("FirstClickCountsAndPaysRevShare", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign(
				testingutil.WithRatePerClick("0.10"),
			)
			require.NoError(t, err)
			link, err := fixtures.CreateTestLink(promoter, campaign)
			require.NoError(t, err)

			dest, err := clickFlow.HandleClick(context.Background(), link.UID, utils.Fingerprint("203.0.113.7"), "Test Agent")
			require.NoError(t, err)
			assert.Equal(t, campaign.DestinationURL, dest)

			// Counter bumped once
			updated, err := linkRepo.ByUID(context.Background(), link.UID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), updated.ClickCount)

			// Promoter got 60% of the 0.10 rate
			wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			require.NotNil(t, wallet)
			assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("0.06")),
				"expected balance 0.06, got %s", wallet.Balance)

			txType := models.TransactionTypeCampaignClickReward
			rows, err := txRepo.ByFilter(context.Background(), models.WalletTransactionFilter{
				PromoterID: &promoter.ID,
				Type:       &txType,
			}, "id ASC", 10, 0)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.True(t, rows[0].IsCredit())
			assert.Contains(t, string(rows[0].Metadata), "platform_share")
		})

		t.Run("RepeatFingerprintIsDeduplicated", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			campaign, err := fixtures.CreateTestCampaign()
			require.NoError(t, err)
			link, err := fixtures.CreateTestLink(promoter, campaign)
			require.NoError(t, err)

			fp := utils.Fingerprint("198.51.100.9")
			for i := 0; i < 3; i++ {
				dest, err := clickFlow.HandleClick(context.Background(), link.UID, fp, "Test Agent")
				require.NoError(t, err)
				assert.Equal(t, campaign.DestinationURL, dest)
			}

			updated, err := linkRepo.ByUID(context.Background(), link.UID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), updated.ClickCount)

			count, err := txRepo.Count(context.Background(), models.WalletTransactionFilter{PromoterID: &promoter.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("LinkWithoutCampaignCountsButNeverPays", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			link, err := fixtures.CreateTestLink(promoter, nil)
			require.NoError(t, err)

			dest, err := clickFlow.HandleClick(context.Background(), link.UID, utils.Fingerprint("192.0.2.44"), "Test Agent")
			require.NoError(t, err)
			assert.Equal(t, link.DestinationURL, dest)

			updated, err := linkRepo.ByUID(context.Background(), link.UID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), updated.ClickCount)

			wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.Nil(t, wallet)
		})

		t.Run("MissingCampaignUnderRevShareStillRedirects", func(t *testing.T) {
			promoter, err := fixtures.CreateTestPromoter()
			require.NoError(t, err)
			link, err := fixtures.CreateTestLink(promoter, nil)
			require.NoError(t, err)
			// Point the link at a campaign id that does not exist.
			ghost := uint(999999)
			require.NoError(t, testDB.DB.Model(&models.TrackedLink{}).
				Where("id = ?", link.ID).Update("campaign_id", ghost).Error)

			dest, err := clickFlow.HandleClick(context.Background(), link.UID, utils.Fingerprint("192.0.2.45"), "Test Agent")
			require.NoError(t, err)
			assert.Equal(t, link.DestinationURL, dest)

			count, err := txRepo.Count(context.Background(), models.WalletTransactionFilter{PromoterID: &promoter.ID})
			require.NoError(t, err)
			assert.Equal(t, int64(0), count)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestClickFlowFixedBonus(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		clickFlow := newClickFlow(testDB)
		txRepo := repository.NewWalletTransactionRepository(testDB.DB)
		walletRepo := repository.NewWalletRepository(testDB.DB)
		linkRepo := repository.NewTrackedLinkRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign(
			testingutil.WithPaymentModel(models.PaymentModelFixedBonus),
		)
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(promoter, campaign)
		require.NoError(t, err)

		// Clicks one through four pay nothing.
		for i := 1; i < utils.BonusClickThreshold; i++ {
			_, err := clickFlow.HandleClick(context.Background(), link.UID,
				utils.Fingerprint(fmt.Sprintf("10.0.0.%d", i)), "Test Agent")
			require.NoError(t, err)

			wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
			require.NoError(t, err)
			assert.Nil(t, wallet, "no payout expected before the threshold")
		}

		// The fifth unique click pays the bonus exactly once.
		_, err = clickFlow.HandleClick(context.Background(), link.UID,
			utils.Fingerprint("10.0.0.5"), "Test Agent")
		require.NoError(t, err)

		wallet, err := walletRepo.ByPromoterID(context.Background(), promoter.ID)
		require.NoError(t, err)
		require.NotNil(t, wallet)
		assert.True(t, wallet.Balance.Equal(utils.FixedClickBonus))

		updated, err := linkRepo.ByUID(context.Background(), link.UID)
		require.NoError(t, err)
		assert.True(t, updated.BonusPaid)

		// Further unique clicks count but never re-trigger the bonus.
		for i := 6; i <= 9; i++ {
			_, err := clickFlow.HandleClick(context.Background(), link.UID,
				utils.Fingerprint(fmt.Sprintf("10.0.0.%d", i)), "Test Agent")
			require.NoError(t, err)
		}

		wallet, err = walletRepo.ByPromoterID(context.Background(), promoter.ID)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(utils.FixedClickBonus))

		txType := models.TransactionTypeCampaignBonusPerformance
		count, err := txRepo.Count(context.Background(), models.WalletTransactionFilter{
			PromoterID: &promoter.ID,
			Type:       &txType,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		updated, err = linkRepo.ByUID(context.Background(), link.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(9), updated.ClickCount)

		return nil
	})
	require.NoError(t, err)
}

func TestClickFlowConcurrentSameFingerprint(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		clickFlow := newClickFlow(testDB)
		txRepo := repository.NewWalletTransactionRepository(testDB.DB)
		linkRepo := repository.NewTrackedLinkRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		campaign, err := fixtures.CreateTestCampaign()
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(promoter, campaign)
		require.NoError(t, err)

		const callers = 20
		fp := utils.Fingerprint("172.16.0.1")

		var wg sync.WaitGroup
		errs := make([]error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = clickFlow.HandleClick(context.Background(), link.UID, fp, "Test Agent")
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			require.NoError(t, err, "caller %d", i)
		}

		// Exactly one click counted and exactly one payout, no matter how
		// the callers interleaved.
		updated, err := linkRepo.ByUID(context.Background(), link.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated.ClickCount)

		count, err := txRepo.Count(context.Background(), models.WalletTransactionFilter{PromoterID: &promoter.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		var clicks int64
		require.NoError(t, testDB.DB.Model(&models.UniqueClick{}).
			Where("tracked_link_id = ?", link.ID).Count(&clicks).Error)
		assert.Equal(t, int64(1), clicks)

		return nil
	})
	require.NoError(t, err)
}

func TestClickFlowUserAgentStored(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		clickFlow := newClickFlow(testDB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(promoter, nil)
		require.NoError(t, err)

		fp := utils.Fingerprint("203.0.113.200")
		_, err = clickFlow.HandleClick(context.Background(), link.UID, fp, "Mozilla/5.0")
		require.NoError(t, err)

		var click models.UniqueClick
		require.NoError(t, testDB.DB.Where("tracked_link_id = ? AND fingerprint = ?", link.ID, fp).
			First(&click).Error)
		require.NotNil(t, click.UserAgent)
		assert.Equal(t, "Mozilla/5.0", *click.UserAgent)

		// The raw IP never lands in the row; only the hash does.
		assert.NotEqual(t, "203.0.113.200", click.Fingerprint)
		assert.Len(t, click.Fingerprint, 64)

		return nil
	})
	require.NoError(t, err)
}

// Guard against accidental use of gorm soft-delete on the ledger tables.
func TestUniqueClickHardConstraint(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		link, err := fixtures.CreateTestLink(promoter, nil)
		require.NoError(t, err)

		fp := utils.Fingerprint("10.1.1.1")
		first := &models.UniqueClick{TrackedLinkID: link.ID, Fingerprint: fp, CreatedAt: utils.UTCNow()}
		require.NoError(t, testDB.DB.Create(first).Error)

		dup := &models.UniqueClick{TrackedLinkID: link.ID, Fingerprint: fp, CreatedAt: utils.UTCNow()}
		err = testDB.DB.Create(dup).Error
		require.Error(t, err)
		assert.True(t, repository.IsUniqueViolation(err) || err == gorm.ErrDuplicatedKey)

		return nil
	})
	require.NoError(t, err)
}
