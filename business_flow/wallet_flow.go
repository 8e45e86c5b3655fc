package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promolane/promolane/app/dto"
	"github.com/promolane/promolane/models"
	"github.com/promolane/promolane/repository"
	"github.com/promolane/promolane/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletFlow exposes the promoter-facing read side of the ledger.
// All mutations happen through creditWallet inside the budget-guard and
// click transactions; nothing here writes.
type WalletFlow interface {
	Summary(ctx context.Context, promoterID uint) (*dto.WalletSummaryResponse, error)
	ListTransactions(ctx context.Context, promoterID uint, page, pageSize int) (*dto.ListWalletTransactionsResponse, error)
}

type WalletFlowImpl struct {
	walletRepo   repository.WalletRepository
	txRepo       repository.WalletTransactionRepository
	promoterRepo repository.PromoterRepository
	db           *gorm.DB
}

// NewWalletFlow creates a new wallet flow instance
func NewWalletFlow(
	walletRepo repository.WalletRepository,
	txRepo repository.WalletTransactionRepository,
	promoterRepo repository.PromoterRepository,
	db *gorm.DB,
) WalletFlow {
	return &WalletFlowImpl{
		walletRepo:   walletRepo,
		txRepo:       txRepo,
		promoterRepo: promoterRepo,
		db:           db,
	}
}

func (f *WalletFlowImpl) Summary(ctx context.Context, promoterID uint) (*dto.WalletSummaryResponse, error) {
	wallet, err := f.walletRepo.ByPromoterID(ctx, promoterID)
	if err != nil {
		return nil, NewBusinessError("WALLET_LOOKUP_FAILED", "Failed to lookup wallet", err)
	}
	if wallet == nil {
		// Wallets are created lazily on first credit; an absent wallet
		// reads as zero, not as an error.
		return &dto.WalletSummaryResponse{
			Balance:     decimal.Zero.String(),
			TotalEarned: decimal.Zero.String(),
			Currency:    utils.DefaultCurrency,
		}, nil
	}
	return &dto.WalletSummaryResponse{
		Balance:     wallet.Balance.String(),
		TotalEarned: wallet.TotalEarned.String(),
		Currency:    utils.DefaultCurrency,
	}, nil
}

func (f *WalletFlowImpl) ListTransactions(ctx context.Context, promoterID uint, page, pageSize int) (*dto.ListWalletTransactionsResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "page must be at least 1", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "page size must be between 1 and 100", ErrInvalidPageSize)
	}

	filter := models.WalletTransactionFilter{PromoterID: &promoterID}
	total, err := f.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("TRANSACTION_LIST_FAILED", "Failed to count transactions", err)
	}

	rows, err := f.txRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("TRANSACTION_LIST_FAILED", "Failed to list transactions", err)
	}

	items := make([]dto.WalletTransactionDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.WalletTransactionDTO{
			UUID:          row.UUID.String(),
			Type:          string(row.Type),
			Amount:        row.Amount.String(),
			Currency:      row.Currency,
			CampaignID:    row.CampaignID,
			TrackedLinkID: row.TrackedLinkID,
			Description:   row.Description,
			Metadata:      json.RawMessage(row.Metadata),
			CreatedAt:     row.CreatedAt.Format(time.RFC3339),
		})
	}

	return &dto.ListWalletTransactionsResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// walletCredit describes one ledger credit to apply inside an ambient
// transaction: the atomic wallet increments, the paired append-only entry,
// and the post-credit compliance hook.
type walletCredit struct {
	PromoterID    uint
	Amount        decimal.Decimal
	Type          models.WalletTransactionType
	CampaignID    *uint
	TrackedLinkID *uint
	Description   string
	Metadata      map[string]any
}

// creditWallet applies a credit. Must be called with a transaction in ctx:
// the wallet increment, the ledger entry, and the compliance flag commit or
// roll back together. The wallet is created lazily on first credit.
func creditWallet(
	ctx context.Context,
	walletRepo repository.WalletRepository,
	txRepo repository.WalletTransactionRepository,
	promoterRepo repository.PromoterRepository,
	credit walletCredit,
) error {
	wallet, err := walletRepo.EnsureByPromoterID(ctx, credit.PromoterID)
	if err != nil {
		return err
	}
	if wallet == nil {
		return ErrWalletNotFound
	}

	if err := walletRepo.Credit(ctx, wallet.ID, credit.Amount); err != nil {
		return err
	}

	metaDoc := models.JSONDocument(`{}`)
	if credit.Metadata != nil {
		b, err := json.Marshal(credit.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal transaction metadata: %w", err)
		}
		metaDoc = models.JSONDocument(b)
	}

	entry := &models.WalletTransaction{
		Type:          credit.Type,
		Amount:        credit.Amount,
		Currency:      utils.DefaultCurrency,
		WalletID:      wallet.ID,
		PromoterID:    credit.PromoterID,
		CampaignID:    credit.CampaignID,
		TrackedLinkID: credit.TrackedLinkID,
		Description:   credit.Description,
		Metadata:      metaDoc,
		CreatedAt:     utils.UTCNow(),
	}
	if err := txRepo.Save(ctx, entry); err != nil {
		return err
	}

	// Re-read the updated counters; the increment happened store-side.
	updated, err := walletRepo.ByID(ctx, wallet.ID)
	if err != nil {
		return err
	}
	if updated == nil {
		return ErrWalletNotFound
	}

	if err := enforceEarningsCeiling(ctx, promoterRepo, credit.PromoterID, updated.TotalEarned); err != nil {
		return err
	}

	payoutsCredited.WithLabelValues(string(credit.Type)).Inc()
	return nil
}
