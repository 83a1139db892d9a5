package api

import (
	"net/http"
	"strings"
	"sync"

	"StockScan/internal/domain/models"
	xhttp "StockScan/pkg/http"
	xlogger "StockScan/pkg/logger"
	"StockScan/pkg/util"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ScanStream runs a scan and streams batch progress events over a
// WebSocket, finishing with the full report. Query parameters:
// tickers (comma-separated, required), max_workers, batch_size.
func (h *ScanEchoHandler) ScanStream(c echo.Context) error {
	tickers := util.NormalizeTickers(strings.Split(c.QueryParam("tickers"), ","))
	if len(tickers) == 0 {
		return xhttp.BadRequestResponse(c, "tickers query parameter is required")
	}
	req := models.ScanRequest{
		Tickers:    tickers,
		MaxWorkers: util.ParseIntDefault(c.QueryParam("max_workers"), 10),
		BatchSize:  util.ParseIntDefault(c.QueryParam("batch_size"), 20),
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Progress callbacks arrive from the scan goroutine; the gorilla
	// conn allows one concurrent writer, so serialize writes.
	var mu sync.Mutex
	writeJSON := func(ev models.ScanProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		if err := conn.WriteJSON(ev); err != nil {
			h.logger.Warn("progress write failed", xlogger.Error(err))
		}
	}

	report, err := h.scans.RunScanWithProgress(c.Request().Context(), req,
		func(batchIndex, totalBatches int) {
			writeJSON(models.ScanProgressEvent{
				Type:         "progress",
				BatchIndex:   batchIndex,
				TotalBatches: totalBatches,
			})
		})
	if err != nil {
		h.logger.Error("streamed scan failed", xlogger.Error(err))
		writeJSON(models.ScanProgressEvent{Type: "error"})
		return nil
	}

	writeJSON(models.ScanProgressEvent{Type: "report", Report: report})
	mu.Lock()
	defer mu.Unlock()
	return conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "scan complete"))
}
