// Package config loads and validates the service configuration from a YAML
// file, environment variables, or both. Environment variables use the
// TALENTRANK_ prefix with underscores for nesting, e.g.
// TALENTRANK_PROVIDER_API_KEY.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "TALENTRANK"

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Provider ProviderConfig `mapstructure:"provider"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=0"`
}

// ProviderConfig selects and configures the LLM backend.
type ProviderConfig struct {
	// Type is the provider registry key: openai, anthropic, or google.
	Type    string        `mapstructure:"type" validate:"required,oneof=openai anthropic google"`
	APIKey  string        `mapstructure:"api_key" validate:"required"`
	Model   string        `mapstructure:"model"`
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`

	// RateLimit caps requests per second through the client middleware.
	// Zero disables client-side rate limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"min=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"min=0"`
}

// ScoringConfig tunes the scoring pipeline.
type ScoringConfig struct {
	BatchSize     int           `mapstructure:"batch_size" validate:"min=1,max=100"`
	MaxConcurrent int           `mapstructure:"max_concurrent" validate:"min=1,max=20"`
	WavePause     time.Duration `mapstructure:"wave_pause" validate:"min=0"`
	MaxAttempts   int           `mapstructure:"max_attempts" validate:"min=1,max=10"`
}

// StoreConfig locates the candidate dataset.
type StoreConfig struct {
	Path string        `mapstructure:"path" validate:"required"`
	TTL  time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("provider.type", "openai")
	// Empty defaults register the keys so AutomaticEnv can fill them.
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.timeout", 60*time.Second)
	v.SetDefault("provider.rate_limit", 0)
	v.SetDefault("provider.rate_burst", 1)

	v.SetDefault("scoring.batch_size", 10)
	v.SetDefault("scoring.max_concurrent", 3)
	v.SetDefault("scoring.wave_pause", time.Second)
	v.SetDefault("scoring.max_attempts", 4)

	v.SetDefault("store.path", "candidates.json")
	v.SetDefault("store.ttl", 5*time.Minute)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads the configuration from path (optional when empty) and the
// environment, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
