// Package tests contains test cases for models and repository packages to
// avoid circular imports
package tests

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	testingutil "github.com/promolane/promolane/testing"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrations verifies that a fresh store migrates every table. The
// model tags must stay portable across the production and test drivers.
func TestMigrations(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		migrator := testDB.DB.Migrator()

		assert.True(t, migrator.HasTable(&models.Promoter{}))
		assert.True(t, migrator.HasTable(&models.Campaign{}))
		assert.True(t, migrator.HasTable(&models.TrackedLink{}))
		assert.True(t, migrator.HasTable(&models.UniqueClick{}))
		assert.True(t, migrator.HasTable(&models.CampaignAction{}))
		assert.True(t, migrator.HasTable(&models.Wallet{}))
		assert.True(t, migrator.HasTable(&models.WalletTransaction{}))

		return nil
	})
	require.NoError(t, err)
}

func TestWalletTransactionMetadata(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		txRepo := repository.NewWalletTransactionRepository(testDB.DB)

		promoter, err := fixtures.CreateTestPromoter()
		require.NoError(t, err)
		wallet, err := fixtures.CreateTestWallet(promoter, "0", "0")
		require.NoError(t, err)

		t.Run("DocumentRoundTrips", func(t *testing.T) {
			entry := &models.WalletTransaction{
				Type:       models.TransactionTypeCampaignClickReward,
				Amount:     decimal.RequireFromString("0.06"),
				Currency:   utils.DefaultCurrency,
				WalletID:   wallet.ID,
				PromoterID: promoter.ID,
				Metadata:   models.JSONDocument(`{"platform_share":"0.04","rate_per_click":"0.10"}`),
				CreatedAt:  utils.UTCNow(),
			}
			require.NoError(t, txRepo.Save(context.Background(), entry))

			found, err := txRepo.ByID(context.Background(), entry.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.JSONEq(t, `{"platform_share":"0.04","rate_per_click":"0.10"}`, string(found.Metadata))
		})

		t.Run("AbsentDocumentReadsAsEmptyObject", func(t *testing.T) {
			entry := &models.WalletTransaction{
				Type:       models.TransactionTypeCampaignReward,
				Amount:     decimal.RequireFromString("0.30"),
				Currency:   utils.DefaultCurrency,
				WalletID:   wallet.ID,
				PromoterID: promoter.ID,
				CreatedAt:  utils.UTCNow(),
			}
			require.NoError(t, txRepo.Save(context.Background(), entry))

			found, err := txRepo.ByID(context.Background(), entry.ID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.JSONEq(t, `{}`, string(found.Metadata))
		})

		t.Run("EmptyDocumentMarshalsAsEmptyObject", func(t *testing.T) {
			var doc models.JSONDocument
			out, err := json.Marshal(doc)
			require.NoError(t, err)
			assert.Equal(t, "{}", string(out))
		})

		return nil
	})
	require.NoError(t, err)
}
