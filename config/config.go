package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds chat-completion provider configuration
type LLMConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Debug             bool          `mapstructure:"debug"`
}

// Enabled reports whether a remote extractor can be built
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// CatalogConfig holds catalog snapshot store configuration
type CatalogConfig struct {
	Store           string        `mapstructure:"store"` // "memory" or "redis"
	RedisURL        string        `mapstructure:"redis_url"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text", "json" or empty
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from .env, environment variables and config
// files. An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hinote/")
	}

	// HINOTE_LLM_API_KEY -> llm.api_key
	v.SetEnvPrefix("HINOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional when searching; an explicit one must exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
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

// loadEnvFile loads ./.env without overriding variables already set
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "capacitor://localhost"})

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("llm.model", "llama-3.1-8b-instant")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "8s")
	v.SetDefault("llm.max_retries", 0)
	v.SetDefault("llm.requests_per_minute", 30)
	v.SetDefault("llm.debug", false)

	// Catalog defaults
	v.SetDefault("catalog.store", "memory")
	v.SetDefault("catalog.redis_url", "")
	v.SetDefault("catalog.ttl", "24h")
	v.SetDefault("catalog.cleanup_interval", "10m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	switch config.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	if config.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got: %d", config.LLM.MaxTokens)
	}

	if config.LLM.Temperature < 0 || config.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature must be within [0, 2], got: %g", config.LLM.Temperature)
	}

	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got: %s", config.LLM.Timeout)
	}

	if config.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries must not be negative, got: %d", config.LLM.MaxRetries)
	}

	if config.Catalog.Store != "memory" && config.Catalog.Store != "redis" {
		return fmt.Errorf("catalog store must be 'memory' or 'redis', got: %s", config.Catalog.Store)
	}

	if config.Catalog.Store == "redis" && config.Catalog.RedisURL == "" {
		return fmt.Errorf("redis URL is required when catalog store is 'redis'")
	}

	if config.Catalog.TTL <= 0 {
		return fmt.Errorf("catalog ttl must be positive, got: %s", config.Catalog.TTL)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
