package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"granabox/internal/api/handlers"
	"granabox/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newRouter() *fiber.App {
	logger := zap.NewNop()
	cfg := &config.ServerConfig{
		Port:             "8080",
		ReadTimeout:      time.Second,
		WriteTimeout:     time.Second,
		CORSAllowOrigins: "*",
	}
	return SetupRouter(cfg, Handlers{
		Category:    handlers.NewCategoryHandler(nil, logger),
		Transaction: handlers.NewTransactionHandler(nil, logger),
		Recurrence:  handlers.NewRecurrenceHandler(nil, logger),
		Health:      handlers.NewHealthHandler(okPinger{}, logger),
	}, logger)
}

func TestRouter_RootRedirectsToDocs(t *testing.T) {
	resp, err := newRouter().Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/swagger/index.html", resp.Header.Get(fiber.HeaderLocation))
}

func TestRouter_ServesDocs(t *testing.T) {
	resp, err := newRouter().Test(httptest.NewRequest(fiber.MethodGet, "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	resp, err := newRouter().Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestRouter_UnknownRouteUsesErrorEnvelope(t *testing.T) {
	resp, err := newRouter().Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/budgets", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get(fiber.HeaderContentType))
}

func TestRouter_RejectsBadIDBeforeService(t *testing.T) {
	resp, err := newRouter().Test(httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_StatusRouteRejectsBadIDBeforeService(t *testing.T) {
	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/transactions/abc/status", strings.NewReader(`{"paid":true}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := newRouter().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RejectsUnknownTimeZoneBeforeService(t *testing.T) {
	req := httptest.NewRequest(fiber.MethodGet, "/api/v1/transactions/1", nil)
	req.Header.Set(handlers.HeaderTimeZone, "Mars/Olympus_Mons")
	resp, err := newRouter().Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
