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

// ClickHandlerInterface defines the contract for click and preview handlers
type ClickHandlerInterface interface {
	Redirect(c fiber.Ctx) error
	Preview(c fiber.Ctx) error
}

// ClickHandler serves the public redirect and link-preview endpoints.
// These are visitor-facing: no authentication, and the redirect must
// succeed even when accounting fails.
type ClickHandler struct {
	clickFlow   businessflow.ClickFlow
	resolveFlow businessflow.ResolveFlow
}

// NewClickHandler creates a new click handler
func NewClickHandler(clickFlow businessflow.ClickFlow, resolveFlow businessflow.ResolveFlow) *ClickHandler {
	return &ClickHandler{
		clickFlow:   clickFlow,
		resolveFlow: resolveFlow,
	}
}

func (h *ClickHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClickHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Redirect resolves a tracking uid, counts the click if the visitor is new,
// and redirects to the destination
// @Summary Redirect Tracked Link
// @Description Resolve a tracking uid, attribute the click, and redirect the visitor to the destination URL
// @Tags Clicks
// @Produce html
// @Param uid path string true "Tracking uid"
// @Success 302 {string} string "Redirect to the destination URL"
// @Router /r/{uid} [get]
func (h *ClickHandler) Redirect(c fiber.Ctx) error {
	uid := c.Params("uid")

	// The fingerprint is a one-way hash of the client address; the raw IP
	// is never persisted. Behind a proxy the first forwarded entry is the
	// client.
	clientIP := utils.FirstForwardedIP(c.Get("X-Forwarded-For"))
	if clientIP == "" {
		clientIP = c.IP()
	}
	fingerprint := utils.Fingerprint(clientIP)
	userAgent := c.Get("User-Agent")

	ctx, cancel := h.createRequestContext(c, "/r/:uid")
	defer cancel()

	destination, err := h.clickFlow.HandleClick(ctx, uid, fingerprint, userAgent)
	if err != nil {
		// Accounting failures must not block the visitor.
		log.Println("Click accounting failed", err)
	}

	return c.Redirect().Status(fiber.StatusFound).To(destination)
}

// Preview returns destination and preview metadata for a tracking id
// without counting a click
// @Summary Link Preview Metadata
// @Description Resolve a tracking id to its destination URL and preview metadata; performs no click accounting
// @Tags Clicks
// @Produce json
// @Param uid path string true "Tracking id"
// @Param fallback query string false "Fallback destination URL"
// @Success 200 {object} dto.APIResponse{data=dto.ResolveResponse} "Resolved successfully"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links/{uid}/preview [get]
func (h *ClickHandler) Preview(c fiber.Ctx) error {
	uid := c.Params("uid")
	fallback := c.Query("fallback")

	ctx, cancel := h.createRequestContext(c, "/api/v1/links/:uid/preview")
	defer cancel()

	result, err := h.resolveFlow.Resolve(ctx, uid, fallback)
	if err != nil {
		log.Println("Preview resolution failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Preview resolution failed", "PREVIEW_RESOLUTION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Link resolved successfully", result)
}

// createRequestContext creates a context with request-scoped values for
// observability and timeout. The caller must defer the cancel func so the
// timer is released as soon as the request finishes.
func (h *ClickHandler) createRequestContext(c fiber.Ctx, endpoint string) (context.Context, context.CancelFunc) {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

// createRequestContextWithTimeout creates a context with custom timeout and request-scoped values
func (h *ClickHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)

	return ctx, cancel
}
