package di

import (
	"context"
	"fmt"
	"time"

	"StockScan/internal/domain/repository"
	domsvc "StockScan/internal/domain/service"
	"StockScan/internal/handler/api"
	internalrepo "StockScan/internal/repository"
	"StockScan/internal/service/ratelimit"
	"StockScan/internal/services/stages"
	"StockScan/internal/usecase"
	"StockScan/pkg/cache"
	pkgch "StockScan/pkg/clickhouse"
	"StockScan/pkg/config"
	xhttp "StockScan/pkg/http"
	pkgkafka "StockScan/pkg/kafka"
	applogger "StockScan/pkg/logger"
	"StockScan/pkg/metrics"
	"StockScan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheStore selects the cache backend from config.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend == "redis" {
		store, err := cache.NewRedisStore(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
			cache.WithRedisPrefix(cfg.Cache.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache store: %w", err)
		}
		return store, nil
	}
	return cache.NewMemoryStore(
		cache.WithMemoryCleanup(cfg.Cache.Housekeeping.Interval),
	), nil
}

// ProvideTTLPolicy builds per-stage TTLs from config.
func ProvideTTLPolicy(cfg *config.Config) cache.TTLPolicy {
	return cache.NewTTLPolicy(map[string]time.Duration{
		cache.StageTechnical:    cfg.Cache.TTL.Technical,
		cache.StageSentiment:    cfg.Cache.TTL.Sentiment,
		cache.StageFinancial:    cfg.Cache.TTL.Financial,
		cache.StageFullAnalysis: cfg.Cache.TTL.FullAnalysis,
	}, cfg.Cache.TTL.Default)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.BarSchema(cfg.ClickHouse.BarsTable)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideBarStore creates the ClickHouse bar store, or nil when ClickHouse
// is disabled (stub mode serves its own bars).
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) repository.BarStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewClickHouseBarStore(chClient.DB(), cfg.ClickHouse.BarsTable)
}

// ProvideReportPublisher creates the Kafka publisher, or a noop when
// publishing is disabled.
func ProvideReportPublisher(cfg *config.Config, log *applogger.Logger) (repository.ReportPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopPublisher{}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaReportPublisher(producer, cfg.Kafka.ReportTopic, cfg.Kafka.SignalTopic, log), nil
}

// ProvideRateLimiter creates the shared outbound limiter.
func ProvideRateLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideOrchestrator assembles the per-ticker pipeline with either HTTP
// or stub stage implementations, selected by providers.mode.
func ProvideOrchestrator(cfg *config.Config, barStore repository.BarStore,
	limiter *ratelimit.Limiter, m repository.Metrics, log *applogger.Logger) *usecase.Orchestrator {

	var (
		loader    = stagesDataLoader(cfg, barStore)
		technical = stagesTechnical(cfg)
		sentiment = stagesSentiment(cfg, limiter)
		advanced  = stagesAdvanced(cfg)
		financial = stagesFinancial(cfg, limiter)
		engine    = stagesEngine(cfg)
	)
	return usecase.NewOrchestrator(loader, technical, sentiment, advanced, financial, engine, m, log,
		usecase.WithTickerTimeout(cfg.Scan.TickerTimeout),
		usecase.WithLookback(cfg.Scan.LookbackDays),
	)
}

// ProvideCachedOrchestrator wraps the pipeline with result caching.
func ProvideCachedOrchestrator(orch *usecase.Orchestrator, store cache.Store,
	ttl cache.TTLPolicy, m repository.Metrics, log *applogger.Logger) usecase.OutcomeAnalyzer {
	return usecase.NewCachedOrchestrator(orch, store, ttl, m, log)
}

// ProvideScanner creates the concurrent scan coordinator.
func ProvideScanner(analyzer usecase.OutcomeAnalyzer, log *applogger.Logger) *usecase.Scanner {
	return usecase.NewScanner(analyzer, log)
}

// ProvideAggregator creates the report aggregator with the default scorer.
func ProvideAggregator() *usecase.Aggregator {
	return usecase.NewAggregator(usecase.NewHeuristicScorer())
}

// ProvideScanService glues scanner, aggregator, metrics, and publishing.
func ProvideScanService(scanner *usecase.Scanner, agg *usecase.Aggregator,
	publisher repository.ReportPublisher, m repository.Metrics, log *applogger.Logger) *usecase.ScanService {
	return usecase.NewScanService(scanner, agg, publisher, m, log)
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(log *applogger.Logger, scans *usecase.ScanService,
	store cache.Store, barStore repository.BarStore) xhttp.Handler {
	return api.NewScanEchoHandler(log, scans, store, barStore)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, log *applogger.Logger, store cache.Store,
	chClient *pkgch.Client, publisher repository.ReportPublisher, handler xhttp.Handler) *server.App {
	return server.New(cfg, log, store, chClient, publisher, handler)
}

func stagesDataLoader(cfg *config.Config, barStore repository.BarStore) domsvc.DataLoader {
	if cfg.Providers.Mode == "http" && barStore != nil {
		return stages.NewBarStoreDataLoader(barStore)
	}
	return stages.NewStubDataLoader()
}

func stagesTechnical(cfg *config.Config) domsvc.TechnicalAnalyzer {
	if cfg.Providers.Mode == "http" {
		return stages.NewHTTPTechnicalAnalyzer(cfg)
	}
	return stages.NewStubTechnicalAnalyzer()
}

func stagesSentiment(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.SentimentProvider {
	if cfg.Providers.Mode == "http" {
		return stages.NewHTTPSentimentProvider(cfg, limiter)
	}
	return stages.NewStubSentimentProvider()
}

func stagesAdvanced(cfg *config.Config) domsvc.AdvancedAnalyzer {
	if cfg.Providers.Mode == "http" {
		return stages.NewHTTPAdvancedAnalyzer(cfg)
	}
	return stages.NewStubAdvancedAnalyzer()
}

func stagesFinancial(cfg *config.Config, limiter *ratelimit.Limiter) domsvc.FinancialProvider {
	if cfg.Providers.Mode == "http" {
		return stages.NewHTTPFinancialProvider(cfg, limiter)
	}
	return stages.NewStubFinancialProvider()
}

func stagesEngine(cfg *config.Config) domsvc.RecommendationEngine {
	if cfg.Providers.Mode == "http" {
		return stages.NewHTTPRecommendationEngine(cfg)
	}
	return stages.NewStubRecommendationEngine()
}
