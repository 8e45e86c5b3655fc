package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/promolane/promolane/app/dto"
	businessflow "github.com/promolane/promolane/business_flow"
	"github.com/promolane/promolane/utils"
)

// LinkHandlerInterface defines the contract for tracked link handlers
type LinkHandlerInterface interface {
	CreateLink(c fiber.Ctx) error
	ListLinks(c fiber.Ctx) error
}

// LinkHandler handles tracked link HTTP requests
type LinkHandler struct {
	linkFlow  businessflow.TrackedLinkFlow
	validator *validator.Validate
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linkFlow businessflow.TrackedLinkFlow) *LinkHandler {
	return &LinkHandler{
		linkFlow:  linkFlow,
		validator: validator.New(),
	}
}

func (h *LinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateLink mints a new tracked link for the authenticated promoter
// @Summary Create Tracked Link
// @Description Mint a new tracked link, copying the payment model from the campaign when one is given
// @Tags Links
// @Accept json
// @Produce json
// @Param request body dto.CreateLinkRequest true "Link data"
// @Success 201 {object} dto.APIResponse{data=dto.TrackedLinkDTO} "Link created successfully"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links [post]
func (h *LinkHandler) CreateLink(c fiber.Ctx) error {
	var req dto.CreateLinkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	promoterID, ok := c.Locals("promoter_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Promoter ID not found in context", "MISSING_PROMOTER_ID", nil)
	}
	req.PromoterID = promoterID

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := h.createRequestContext(c, "/api/v1/links")
	defer cancel()

	result, err := h.linkFlow.CreateLink(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidDestinationURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Destination URL must use http or https", "INVALID_DESTINATION_URL", nil)
		}
		if businessflow.IsLinkUIDCollision(err) {
			return h.ErrorResponse(c, fiber.StatusInternalServerError, "Could not allocate a link token", "LINK_UID_COLLISION", nil)
		}

		log.Println("Link creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link creation failed", "LINK_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Link created successfully", result)
}

// ListLinks returns the authenticated promoter's tracked links
// @Summary List Tracked Links
// @Description Retrieve a page of the authenticated promoter's tracked links with click totals
// @Tags Links
// @Produce json
// @Param page query int false "Page number (default: 1)" minimum(1)
// @Param page_size query int false "Number of items per page (default: 20, max: 100)" minimum(1) maximum(100)
// @Success 200 {object} dto.APIResponse{data=dto.ListTrackedLinksResponse} "Links retrieved successfully"
// @Failure 400 {object} dto.APIResponse "Invalid pagination"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links [get]
func (h *LinkHandler) ListLinks(c fiber.Ctx) error {
	promoterID, ok := c.Locals("promoter_id").(uint)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Promoter ID not found in context", "MISSING_PROMOTER_ID", nil)
	}

	page := parseQueryInt(c, "page", 1)
	pageSize := parseQueryInt(c, "page_size", 20)

	ctx, cancel := h.createRequestContext(c, "/api/v1/links")
	defer cancel()

	result, err := h.linkFlow.ListLinks(ctx, promoterID, page, pageSize)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid pagination parameters", "INVALID_PAGINATION", nil)
		}

		log.Println("Link listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Link listing failed", "LINK_LISTING_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Links retrieved successfully", result)
}

func parseQueryInt(c fiber.Ctx, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// createRequestContext creates a context with request-scoped values for
// observability and timeout. The caller must defer the cancel func.
func (h *LinkHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *LinkHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	return ctx, cancel
}
