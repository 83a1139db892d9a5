package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockScan/internal/domain/repository"
	"StockScan/pkg/cache"
	pkgch "StockScan/pkg/clickhouse"
	"StockScan/pkg/config"
	xhttp "StockScan/pkg/http"
	applogger "StockScan/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	store       cache.Store
	chClient    *pkgch.Client
	publisher   repository.ReportPublisher
	httpHandler xhttp.Handler
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	store cache.Store,
	chClient *pkgch.Client,
	publisher repository.ReportPublisher,
	httpHandler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		store:       store,
		chClient:    chClient,
		publisher:   publisher,
		httpHandler: httpHandler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	go a.housekeeping(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache_backend", a.cfg.Cache.Backend),
		applogger.String("providers_mode", a.cfg.Providers.Mode))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// housekeeping periodically clears expired and over-age cache entries.
func (a *App) housekeeping(ctx context.Context) {
	interval := a.cfg.Cache.Housekeeping.Interval
	maxAge := a.cfg.Cache.Housekeeping.MaxAge
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			expired := a.store.ClearExpired(sweepCtx)
			aged := a.store.CleanupOlderThan(sweepCtx, maxAge)
			cancel()
			if expired > 0 || aged > 0 {
				a.log.Info("cache housekeeping",
					applogger.Int("expired_removed", expired),
					applogger.Int("aged_removed", aged))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("cache store close error", applogger.Error(err))
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
