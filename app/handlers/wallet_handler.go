package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/promolane/promolane/app/dto"
	businessflow "github.com/promolane/promolane/business_flow"
	"github.com/promolane/promolane/utils"
)

// WalletHandlerInterface defines the contract for wallet handlers
type WalletHandlerInterface interface {
	GetWallet(c fiber.Ctx) error
	GetTransactions(c fiber.Ctx) error
}

// WalletHandler handles wallet HTTP requests
type WalletHandler struct {
	walletFlow businessflow.WalletFlow
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletFlow businessflow.WalletFlow) *WalletHandler {
	return &WalletHandler{
		walletFlow: walletFlow,
	}
}

func (h *WalletHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *WalletHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetWallet returns the authenticated promoter's wallet counters
// @Summary Get Wallet
// @Description Retrieve the authenticated promoter's balance and lifetime earnings
// @Tags Wallet
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.WalletSummaryResponse} "Wallet retrieved successfully"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/wallet [get]
func (h *WalletHandler) GetWallet(c fiber.Ctx) error {
	promoterID, ok := c.Locals("promoter_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Promoter ID not found in context", "MISSING_PROMOTER_ID", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/wallet")
	defer cancel()

	result, err := h.walletFlow.Summary(ctx, promoterID)
	if err != nil {
		log.Println("Wallet retrieval failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Wallet retrieval failed", "WALLET_RETRIEVAL_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Wallet retrieved successfully", result)
}

// GetTransactions returns a page of the authenticated promoter's ledger entries
// @Summary Get Wallet Transactions
// @Description Retrieve paginated wallet transaction history for the authenticated promoter
// @Tags Wallet
// @Produce json
// @Param page query int false "Page number (default: 1)" minimum(1)
// @Param page_size query int false "Number of items per page (default: 20, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ListWalletTransactionsResponse} "Transactions retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/wallet/transactions [get]
func (h *WalletHandler) GetTransactions(c fiber.Ctx) error {
	promoterID, ok := c.Locals("promoter_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Promoter ID not found in context", "MISSING_PROMOTER_ID", nil)
	}

	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", 20)

	ctx, cancel := h.createRequestContext(c, "/api/v1/wallet/transactions")
	defer cancel()

	result, err := h.walletFlow.ListTransactions(ctx, promoterID, page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Transaction listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Transaction listing failed", "TRANSACTION_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Transactions retrieved successfully", result)
}

// createRequestContext creates a context with request-scoped values for
// observability and timeout. The caller must defer the cancel func.
func (h *WalletHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *WalletHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	return ctx, cancel
}
