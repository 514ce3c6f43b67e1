// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Ingest    IngestConfig    `yaml:"ingest" mapstructure:"ingest"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Products  ProductsConfig  `yaml:"products" mapstructure:"products"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// IngestConfig configures the sales feed input.
type IngestConfig struct {
	Input string `yaml:"input" mapstructure:"input"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ProductsConfig configures the product metadata lookup client.
type ProductsConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	BackoffMs   int     `yaml:"backoff_ms" mapstructure:"backoff_ms"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// AnalyticsConfig configures the secondary analytics cuts.
type AnalyticsConfig struct {
	TopN         int `yaml:"top_n" mapstructure:"top_n"`
	LowThreshold int `yaml:"low_threshold" mapstructure:"low_threshold"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the read-only report server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ingest.input", "data/sales_data.txt")
	v.SetDefault("report.path", "reports/report.json")
	v.SetDefault("products.base_url", "https://dummyjson.com/products")
	v.SetDefault("products.timeout_secs", 10)
	v.SetDefault("products.max_retries", 2)
	v.SetDefault("products.backoff_ms", 500)
	v.SetDefault("products.rate_per_sec", 10.0)
	v.SetDefault("products.concurrency", 4)
	v.SetDefault("analytics.top_n", 5)
	v.SetDefault("analytics.low_threshold", 10)
	v.SetDefault("store.path", "sales-cli.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
