package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/promolane/promolane/app/dto"
	businessflow "github.com/promolane/promolane/business_flow"
	"github.com/promolane/promolane/utils"
)

// ActionHandlerInterface defines the contract for campaign action handlers
type ActionHandlerInterface interface {
	RecordAction(c fiber.Ctx) error
}

// ActionHandler handles campaign action HTTP requests
type ActionHandler struct {
	actionFlow businessflow.CampaignActionFlow
	validator  *validator.Validate
}

// NewActionHandler creates a new action handler
func NewActionHandler(actionFlow businessflow.CampaignActionFlow) *ActionHandler {
	return &ActionHandler{
		actionFlow: actionFlow,
		validator:  validator.New(),
	}
}

func (h *ActionHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ActionHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RecordAction handles a promoter post against a campaign
// @Summary Record Campaign Action
// @Description Record a promoter post against a campaign, debiting the campaign budget and crediting the promoter wallet
// @Tags Actions
// @Accept json
// @Produce json
// @Param request body dto.RecordActionRequest true "Action data"
// @Success 200 {object} dto.APIResponse{data=dto.RecordActionResponse} "Action recorded successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 409 {object} dto.APIResponse "Quota exceeded or budget exhausted"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/actions [post]
func (h *ActionHandler) RecordAction(c fiber.Ctx) error {
	var req dto.RecordActionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Get authenticated promoter ID from context
	promoterID, ok := c.Locals("promoter_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Promoter ID not found in context", "MISSING_PROMOTER_ID", nil)
	}
	req.PromoterID = promoterID

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	// Get client information
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/actions")
	defer cancel()

	result, err := h.actionFlow.RecordAction(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignNotActive(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Campaign is not accepting actions", "CAMPAIGN_NOT_ACTIVE", nil)
		}
		if businessflow.IsDailyQuotaExceeded(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Daily action quota exceeded for this campaign", "QUOTA_EXCEEDED", nil)
		}
		if businessflow.IsBudgetExhausted(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Campaign budget exhausted", "BUDGET_EXHAUSTED", nil)
		}

		log.Println("Action recording failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Action recording failed", "ACTION_RECORDING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Action recorded successfully", result)
}

// createRequestContext creates a context with request-scoped values for
// observability and timeout. The caller must defer the cancel func.
func (h *ActionHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *ActionHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	return ctx, cancel
}
