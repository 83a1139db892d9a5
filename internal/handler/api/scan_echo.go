package api

import (
	"context"
	"time"

	"StockScan/internal/domain/models"
	"StockScan/internal/domain/repository"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	xhttp "StockScan/pkg/http"
	xlogger "StockScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScanEchoHandler exposes the scan pipeline and cache operations over HTTP.
type ScanEchoHandler struct {
	logger   *xlogger.Logger
	scans    *usecase.ScanService
	store    cache.Store
	barStore repository.BarStore
}

func NewScanEchoHandler(logger *xlogger.Logger, scans *usecase.ScanService,
	store cache.Store, barStore repository.BarStore) *ScanEchoHandler {
	return &ScanEchoHandler{logger: logger, scans: scans, store: store, barStore: barStore}
}

func (h *ScanEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/scan", h.Scan)
	g.GET("/scan/stream", h.ScanStream)
	g.GET("/cache/stats", h.CacheStats)
	g.POST("/cache/cleanup", h.CacheCleanup)
	g.GET("/health", h.Health)
}

func (h *ScanEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.scans.RunScan(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *ScanEchoHandler) CacheStats(c echo.Context) error {
	stats := h.store.Stats(c.Request().Context())
	return xhttp.SuccessResponse(c, stats)
}

func (h *ScanEchoHandler) CacheCleanup(c echo.Context) error {
	req := &models.CacheCleanupRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	maxAge, err := time.ParseDuration(req.MaxAge)
	if err != nil || maxAge <= 0 {
		return xhttp.BadRequestResponse(c, "max_age must be a positive duration")
	}

	ctx := c.Request().Context()
	expired := h.store.ClearExpired(ctx)
	aged := h.store.CleanupOlderThan(ctx, maxAge)
	h.logger.Info("cache cleanup",
		xlogger.Int("expired_removed", expired),
		xlogger.Int("aged_removed", aged))
	return xhttp.SuccessResponse(c, map[string]int{
		"expired_removed": expired,
		"aged_removed":    aged,
	})
}

func (h *ScanEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "bars": "ok"}
	if h.barStore != nil {
		if err := h.barStore.Health(ctx); err != nil {
			status["bars"] = "degraded"
			h.logger.Warn("bar store health check failed", xlogger.Error(err))
		}
	} else {
		status["bars"] = "disabled"
	}
	return xhttp.SuccessResponse(c, status)
}
