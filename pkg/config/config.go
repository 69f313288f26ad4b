package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"TargetCast/internal/services/lstm"
	"TargetCast/pkg/logger"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            *bool         `yaml:"cors"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Log      logger.Config `yaml:"log"`
	Provider struct {
		CoinGecko struct {
			BaseURL      string        `yaml:"base_url"`
			APIKey       string        `yaml:"api_key"`
			VsCurrency   string        `yaml:"vs_currency"`
			LookbackDays int           `yaml:"lookback_days"`
			Timeout      time.Duration `yaml:"timeout"`
		} `yaml:"coingecko"`
	} `yaml:"provider"`
	Cache struct {
		Type  string        `yaml:"type"` // none, memory, redis
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Model    lstm.Config `yaml:"model"`
	Forecast struct {
		MinHistory int `yaml:"min_history"`
	} `yaml:"forecast"`
	Sink struct {
		Type  string `yaml:"type"` // none, kafka, clickhouse
		Kafka struct {
			Brokers      []string      `yaml:"brokers"`
			Topic        string        `yaml:"topic"`
			RequiredAcks int           `yaml:"required_acks"`
			Compression  string        `yaml:"compression"`
			MaxAttempts  int           `yaml:"max_attempts"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host         string        `yaml:"host"`
			Port         int           `yaml:"port"`
			Database     string        `yaml:"database"`
			User         string        `yaml:"user"`
			Password     string        `yaml:"password"`
			UseHTTP      bool          `yaml:"use_http"`
			AsyncInsert  bool          `yaml:"async_insert"`
			WaitForAsync bool          `yaml:"wait_for_async_insert"`
			DialTimeout  time.Duration `yaml:"dial_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
		} `yaml:"clickhouse"`
	} `yaml:"sink"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, fills defaults and validates.
func Parse(b []byte) (*Config, error) {
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
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from getenv and re-validates.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("COINGECKO_API_KEY"); v != "" {
		c.Provider.CoinGecko.APIKey = v
	}
	if v := getenv("COINGECKO_BASE_URL"); v != "" {
		c.Provider.CoinGecko.BaseURL = v
	}
	if v := getenv("CACHE_TYPE"); v != "" {
		c.Cache.Type = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := getenv("SINK_TYPE"); v != "" {
		c.Sink.Type = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Sink.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Sink.Kafka.Topic = v
	}
	if v := getenv("MODEL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MODEL_SEED: %w", err)
		}
		c.Model.Seed = seed
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	cg := &c.Provider.CoinGecko
	if cg.BaseURL == "" {
		cg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cg.VsCurrency == "" {
		cg.VsCurrency = "usd"
	}
	if cg.LookbackDays == 0 {
		cg.LookbackDays = 60
	}
	if cg.Timeout == 0 {
		cg.Timeout = 15 * time.Second
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "none"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Sink.Type == "" {
		c.Sink.Type = "none"
	}
	if c.Sink.Kafka.Topic == "" {
		c.Sink.Kafka.Topic = "forecasts"
	}
	if c.Forecast.MinHistory == 0 {
		c.Forecast.MinHistory = 60
	}
	// Dropout is left alone: zero is a legal setting.
	c.Model = c.Model.WithDefaults()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	switch c.Cache.Type {
	case "none", "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required when cache.type is 'redis'")
		}
	default:
		return fmt.Errorf("cache.type must be 'none', 'memory' or 'redis', got '%s'", c.Cache.Type)
	}
	switch c.Sink.Type {
	case "none":
	case "kafka":
		if len(c.Sink.Kafka.Brokers) == 0 {
			return fmt.Errorf("sink.kafka.brokers cannot be empty")
		}
	case "clickhouse":
		if c.Sink.ClickHouse.Host == "" {
			return fmt.Errorf("sink.clickhouse.host is required")
		}
	default:
		return fmt.Errorf("sink.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Sink.Type)
	}
	if c.Provider.CoinGecko.LookbackDays < c.Forecast.MinHistory {
		return fmt.Errorf("provider.coingecko.lookback_days (%d) must cover forecast.min_history (%d)",
			c.Provider.CoinGecko.LookbackDays, c.Forecast.MinHistory)
	}
	if c.Forecast.MinHistory <= c.Model.SequenceLength {
		return fmt.Errorf("forecast.min_history (%d) must exceed model.sequence_length (%d)",
			c.Forecast.MinHistory, c.Model.SequenceLength)
	}
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	return nil
}

// CORSEnabled reports whether cross-origin requests are allowed. Defaults to true.
func (c *Config) CORSEnabled() bool {
	return c.Server.CORS == nil || *c.Server.CORS
}
