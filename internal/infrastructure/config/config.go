package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Provider  ProviderConfig  `mapstructure:"provider"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// ProviderConfig holds settings for the external recipe provider.
type ProviderConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	ImageHost string        `mapstructure:"image_host"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds recipe cache settings. Individual recipe payloads and the
// random suggestion batch age out independently.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"` // memory | redis
	RedisAddr  string        `mapstructure:"redis_addr"`
	MaxEntries int           `mapstructure:"max_entries"`
	RecipeTTL  time.Duration `mapstructure:"recipe_ttl"`
	RandomTTL  time.Duration `mapstructure:"random_ttl"`
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	Duration   time.Duration `mapstructure:"duration"`
}

// RateLimitConfig holds rate limiting settings.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig loads and validates the configuration.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// A missing .env is fine; the environment may carry everything.
		if !strings.Contains(err.Error(), "no such file") {
			return nil, err
		}
	}

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("provider.api_key", "SPOONACULAR_API_KEY")
	viper.BindEnv("provider.base_url", "PROVIDER_BASE_URL")
	viper.BindEnv("cache.backend", "CACHE_BACKEND")
	viper.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("session.cookie_name", "SESSION_COOKIE_NAME")
	viper.BindEnv("session.duration", "SESSION_DURATION")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// MaskAPIKey masks an API key, keeping four characters on each end.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "recipe-hub")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("provider.base_url", "https://api.spoonacular.com/recipes")
	viper.SetDefault("provider.image_host", "img.spoonacular.com")
	viper.SetDefault("provider.timeout", "5s")

	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.max_entries", 500)
	viper.SetDefault("cache.recipe_ttl", "10m")
	viper.SetDefault("cache.random_ttl", "5m")

	viper.SetDefault("database.path", "recipehub.db")

	viper.SetDefault("session.cookie_name", "session")
	viper.SetDefault("session.duration", "24h")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("dedup_window", "1s")

	viper.SetDefault("log_level", "info")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Provider.BaseURL == "" {
		return fmt.Errorf("provider base url is required")
	}
	if config.Provider.Timeout <= 0 {
		return fmt.Errorf("invalid provider timeout")
	}

	switch config.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
	}
	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("invalid cache max entries")
	}
	if config.Cache.RecipeTTL <= 0 || config.Cache.RandomTTL <= 0 {
		return fmt.Errorf("invalid cache ttl")
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if config.Session.Duration <= 0 {
		return fmt.Errorf("invalid session duration")
	}

	return nil
}
