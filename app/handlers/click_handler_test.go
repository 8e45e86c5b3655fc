package handlers

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/promolane/promolane/app/dto"
	"github.com/promolane/promolane/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingClickFlow struct {
	mu          sync.Mutex
	ctx         context.Context
	destination string
}

func (f *capturingClickFlow) HandleClick(ctx context.Context, uid, fingerprint, userAgent string) (string, error) {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
	return f.destination, nil
}

func (f *capturingClickFlow) captured() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctx
}

type capturingResolveFlow struct {
	mu  sync.Mutex
	ctx context.Context
}

func (f *capturingResolveFlow) Resolve(ctx context.Context, trackingID, fallbackURL string) (*dto.ResolveResponse, error) {
	f.mu.Lock()
	f.ctx = ctx
	f.mu.Unlock()
	return &dto.ResolveResponse{DestinationURL: utils.DefaultRedirectURL}, nil
}

func (f *capturingResolveFlow) captured() context.Context {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ctx
}

// TestClickHandlerReleasesRequestContext verifies the redirect path cancels
// its request context as soon as the response is written. Every request
// arms a timeout; leaking the timer until expiry on the hot path wastes a
// goroutine per click.
func TestClickHandlerReleasesRequestContext(t *testing.T) {
	clickFlow := &capturingClickFlow{destination: "https://example.com/landing"}
	resolveFlow := &capturingResolveFlow{}
	handler := NewClickHandler(clickFlow, resolveFlow)

	app := fiber.New()
	app.Get("/r/:uid", handler.Redirect)
	app.Get("/api/v1/links/:uid/preview", handler.Preview)

	t.Run("RedirectCancelsContextAfterResponse", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/r/abc12345", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/landing", resp.Header.Get("Location"))

		ctx := clickFlow.captured()
		require.NotNil(t, ctx)
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("RedirectContextCarriesRequestScope", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/r/abc12345", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		ctx := clickFlow.captured()
		require.NotNil(t, ctx)
		assert.Equal(t, "/r/:uid", ctx.Value(utils.EndpointKey))
	})

	t.Run("PreviewCancelsContextAfterResponse", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/links/abc12345/preview", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		ctx := resolveFlow.captured()
		require.NotNil(t, ctx)
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})
}
