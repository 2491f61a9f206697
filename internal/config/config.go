package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Everything a
// service needs is passed into its constructor from here; business
// logic never reads the environment on its own.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Advisor AdvisorConfig
	Auth    AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds Pokemon TCG API configuration
type CatalogConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	CacheSize int    `mapstructure:"cache_size"`
}

// AdvisorConfig holds chat-completion API configuration
type AdvisorConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	Model             string  `mapstructure:"model"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// AuthConfig holds the access gate configuration
type AuthConfig struct {
	Passphrase string        `mapstructure:"passphrase"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Load loads configuration from environment variables and an optional
// config file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CARDLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional - env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.base_url", "https://api.pokemontcg.io/v2")
	v.SetDefault("catalog.cache_size", 256)

	v.SetDefault("advisor.api_key", "")
	v.SetDefault("advisor.base_url", "https://api.openai.com/v1")
	v.SetDefault("advisor.model", "gpt-3.5-turbo")
	v.SetDefault("advisor.max_tokens", 50)
	v.SetDefault("advisor.requests_per_second", 2.0)

	// Registered so AutomaticEnv can populate it; validate rejects the
	// empty value
	v.SetDefault("auth.passphrase", "")
	v.SetDefault("auth.session_ttl", 12*time.Hour)
}

func validate(config *Config) error {
	if config.Auth.Passphrase == "" {
		return fmt.Errorf("auth.passphrase is required (set CARDLEDGER_AUTH_PASSPHRASE)")
	}
	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must not be empty")
	}
	if config.Catalog.CacheSize <= 0 {
		return fmt.Errorf("catalog.cache_size must be positive")
	}
	if config.Advisor.MaxTokens <= 0 {
		return fmt.Errorf("advisor.max_tokens must be positive")
	}
	if config.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.session_ttl must be positive")
	}
	return nil
}
