package config

import (
	"fmt"
	"os"
	"time"

	"FinSignal/pkg/util"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"json" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		DisableCORS     bool          `yaml:"disable_cors"`
		BatchRateLimit  int           `yaml:"batch_rate_limit" default:"30" validate:"min=0"`
	} `yaml:"server"`
	Metrics struct {
		Path string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Indicators struct {
		CacheTTL time.Duration `yaml:"cache_ttl" default:"10m"`
	} `yaml:"indicators"`
	Pipeline struct {
		BatchWorkers int           `yaml:"batch_workers" default:"4" validate:"min=1,max=64"`
		Timeframe    string        `yaml:"timeframe" default:"1d"`
		Interval     string        `yaml:"interval" default:"1d" validate:"oneof=1h 1d 1wk"`
		FetchTimeout time.Duration `yaml:"fetch_timeout" default:"15s"`
	} `yaml:"pipeline"`
	MarketData struct {
		Source   string        `yaml:"source" default:"yahoo" validate:"oneof=yahoo clickhouse"`
		BaseURL  string        `yaml:"base_url" default:"https://query1.finance.yahoo.com" validate:"omitempty,url"`
		Timeout  time.Duration `yaml:"timeout" default:"15s"`
		CacheTTL time.Duration `yaml:"cache_ttl" default:"5m"`
		Archive  bool          `yaml:"archive"`
	} `yaml:"marketdata"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"finsignal"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"finsignal"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"finsignal.signals"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"50ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"producer"`
		Consumer struct {
			Enabled    bool          `yaml:"enabled"`
			Topic      string        `yaml:"topic" default:"finsignal.scan-requests"`
			GroupID    string        `yaml:"group_id" default:"finsignal"`
			Workers    int           `yaml:"workers" default:"2"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Scanner struct {
		Enabled bool     `yaml:"enabled"`
		Cron    string   `yaml:"cron" default:"0 */15 * * * *"`
		Symbols []string `yaml:"symbols"`
		Period  string   `yaml:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
	} `yaml:"scanner"`
}

var validate = validator.New()

// Load reads a YAML file, fills defaults and validates. An empty path yields pure defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides it with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv(os.Getenv)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("MARKETDATA_SOURCE"); v != "" {
		c.MarketData.Source = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitList(v)
		c.Kafka.Enabled = true
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := getenv("WATCHLIST"); v != "" {
		c.Scanner.Symbols = util.SplitList(v)
	}
	if v := getenv("HTTP_PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
}

// Validate checks tag rules and cross-field requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.MarketData.Source == "clickhouse" && !c.ClickHouse.Enabled {
		return fmt.Errorf("marketdata.source=clickhouse requires clickhouse.enabled")
	}
	if c.MarketData.Archive && !c.ClickHouse.Enabled {
		return fmt.Errorf("marketdata.archive requires clickhouse.enabled")
	}
	return nil
}
