package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"StockScan/internal/domain/models"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Scan struct {
		MaxWorkers    int           `yaml:"max_workers"`
		BatchSize     int           `yaml:"batch_size"`
		TickerTimeout time.Duration `yaml:"ticker_timeout"`
		LookbackDays  int           `yaml:"lookback_days"`
		Params        models.StageParams `yaml:"params"`
	} `yaml:"scan"`
	Cache struct {
		Backend string `yaml:"backend"` // memory or redis
		Prefix  string `yaml:"prefix"`
		Redis   struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			PoolTimeout  time.Duration `yaml:"pool_timeout"`
		} `yaml:"redis"`
		TTL struct {
			Technical    time.Duration `yaml:"technical"`
			Sentiment    time.Duration `yaml:"sentiment"`
			Financial    time.Duration `yaml:"financial"`
			FullAnalysis time.Duration `yaml:"full_analysis"`
			Default      time.Duration `yaml:"default"`
		} `yaml:"ttl"`
		Housekeeping struct {
			Interval time.Duration `yaml:"interval"`
			MaxAge   time.Duration `yaml:"max_age"`
		} `yaml:"housekeeping"`
	} `yaml:"cache"`
	Providers struct {
		Mode    string        `yaml:"mode"` // http or stub
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
		Rate    struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate"`
	} `yaml:"providers"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		BarsTable        string        `yaml:"bars_table"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		ReportTopic  string        `yaml:"report_topic"`
		SignalTopic  string        `yaml:"signal_topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PROVIDERS_BASE_URL"); v != "" {
		c.Providers.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Scan.MaxWorkers == 0 {
		c.Scan.MaxWorkers = 10
	}
	if c.Scan.BatchSize == 0 {
		c.Scan.BatchSize = 20
	}
	if c.Scan.TickerTimeout <= 0 {
		c.Scan.TickerTimeout = 30 * time.Second
	}
	if c.Scan.LookbackDays <= 0 {
		c.Scan.LookbackDays = 365
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "stockscan"
	}
	if c.Cache.TTL.Technical <= 0 {
		c.Cache.TTL.Technical = 30 * time.Minute
	}
	if c.Cache.TTL.Sentiment <= 0 {
		c.Cache.TTL.Sentiment = 2 * time.Hour
	}
	if c.Cache.TTL.Financial <= 0 {
		c.Cache.TTL.Financial = 24 * time.Hour
	}
	if c.Cache.TTL.FullAnalysis <= 0 {
		c.Cache.TTL.FullAnalysis = time.Hour
	}
	if c.Cache.TTL.Default <= 0 {
		c.Cache.TTL.Default = time.Hour
	}
	if c.Cache.Housekeeping.Interval <= 0 {
		c.Cache.Housekeeping.Interval = 10 * time.Minute
	}
	if c.Cache.Housekeeping.MaxAge <= 0 {
		c.Cache.Housekeeping.MaxAge = 7 * 24 * time.Hour
	}
	if c.Providers.Mode == "" {
		c.Providers.Mode = "stub"
	}
	if c.Providers.Timeout <= 0 {
		c.Providers.Timeout = 10 * time.Second
	}
	if c.Providers.Rate.Capacity <= 0 {
		c.Providers.Rate.Capacity = 10
	}
	if c.Providers.Rate.RefillPerSec <= 0 {
		c.Providers.Rate.RefillPerSec = 5
	}
	if c.ClickHouse.BarsTable == "" {
		c.ClickHouse.BarsTable = "daily_bars"
	}
	if c.Kafka.Compression == "" {
		c.Kafka.Compression = "gzip"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Scan.MaxWorkers <= 0 {
		return fmt.Errorf("scan.max_workers must be positive")
	}
	if c.Scan.BatchSize <= 0 {
		return fmt.Errorf("scan.batch_size must be positive")
	}
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Host == "" {
		return fmt.Errorf("cache.redis.host is required for the redis backend")
	}
	if c.Providers.Mode != "http" && c.Providers.Mode != "stub" {
		return fmt.Errorf("providers.mode must be 'http' or 'stub', got '%s'", c.Providers.Mode)
	}
	if c.Providers.Mode == "http" && c.Providers.BaseURL == "" {
		return fmt.Errorf("providers.base_url is required in http mode")
	}
	if c.Providers.Mode == "http" && !c.ClickHouse.Enabled {
		return fmt.Errorf("clickhouse must be enabled in http mode (bar data source)")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when enabled")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when enabled")
		}
		if c.Kafka.ReportTopic == "" {
			return fmt.Errorf("kafka.report_topic is required when enabled")
		}
	}
	if err := c.Scan.Params.Normalize(); err != nil {
		return fmt.Errorf("scan.params: %w", err)
	}
	return nil
}
