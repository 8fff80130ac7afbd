// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration. It is assembled once at
// startup and never mutated during a run.
type Config struct {
	Categories  []string          `yaml:"categories" mapstructure:"categories"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	ScrapeGraph ScrapeGraphConfig `yaml:"scrapegraph" mapstructure:"scrapegraph"`
	Firecrawl   FirecrawlConfig   `yaml:"firecrawl" mapstructure:"firecrawl"`
	Anthropic   AnthropicConfig   `yaml:"anthropic" mapstructure:"anthropic"`
	Proxy       ProxyConfig       `yaml:"proxy" mapstructure:"proxy"`
	Session     SessionConfig     `yaml:"session" mapstructure:"session"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// OutputConfig configures artifact output.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// ScrapeConfig configures the retry policy and batch throttling.
type ScrapeConfig struct {
	MaxAttempts       int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialDelaySecs  int     `yaml:"initial_delay_secs" mapstructure:"initial_delay_secs"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier" mapstructure:"backoff_multiplier"`
	// MaxDelaySecs caps backoff waits. Zero keeps growth uncapped.
	MaxDelaySecs  int `yaml:"max_delay_secs" mapstructure:"max_delay_secs"`
	ItemDelaySecs int `yaml:"item_delay_secs" mapstructure:"item_delay_secs"`
}

// ScrapeGraphConfig holds ScrapeGraphAI API settings (primary engine).
type ScrapeGraphConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// FirecrawlConfig holds Firecrawl API settings (fallback engine fetch).
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings (fallback engine extraction).
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ProxyConfig holds proxy settings forwarded to the primary engine.
type ProxyConfig struct {
	Server   string `yaml:"server" mapstructure:"server"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// SessionConfig holds session cookies for the protected target.
type SessionConfig struct {
	ID        string `yaml:"id" mapstructure:"id"`
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
}

// StoreConfig configures the optional run-history backend. An empty driver
// disables history: the run stays stateless beyond the output artifacts.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Local .env, if present, feeds the environment before viper reads it.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("categories", []string{"Cell Phones", "Tablets", "Computers"})
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.prefix", "mobilesentrix")
	v.SetDefault("scrape.max_attempts", 3)
	v.SetDefault("scrape.initial_delay_secs", 5)
	v.SetDefault("scrape.backoff_multiplier", 2.0)
	v.SetDefault("scrape.max_delay_secs", 0)
	v.SetDefault("scrape.item_delay_secs", 5)
	v.SetDefault("scrapegraph.base_url", "https://api.scrapegraphai.com/v1")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")

	// Credentials usually arrive through the environment. Registering the
	// keys lets AutomaticEnv surface them during Unmarshal.
	v.SetDefault("scrapegraph.key", "")
	v.SetDefault("firecrawl.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("proxy.server", "")
	v.SetDefault("proxy.username", "")
	v.SetDefault("proxy.password", "")
	v.SetDefault("session.id", "")
	v.SetDefault("session.auth_token", "")
	v.SetDefault("store.database_url", "")

	v.SetDefault("store.driver", "")
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

// Validate checks that at least one engine is fully configured before the
// batch starts. Engine credentials are the only configuration whose absence
// is unrecoverable mid-run.
func (c *Config) Validate() error {
	if c.ScrapeGraph.Key != "" {
		return nil
	}
	if c.Firecrawl.Key != "" && c.Anthropic.Key != "" {
		return nil
	}
	return eris.New("config: no engine configured: set scrapegraph.key, or both firecrawl.key and anthropic.key")
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
