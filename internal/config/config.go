package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	AppEnv           string        `mapstructure:"APP_ENV"`
	ServerPort       string        `mapstructure:"SERVER_PORT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	DatabaseDriver   string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	JWTExpiryHours   int           `mapstructure:"JWT_EXPIRY_HOURS"`
	LobbyMinPlayers  int           `mapstructure:"LOBBY_MIN_PLAYERS"`
	PrivateKeyLength int           `mapstructure:"PRIVATE_KEY_LENGTH"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	RateLimitMax     int           `mapstructure:"RATE_LIMIT_MAX"`
	RateLimitWindow  time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
}

var defaults = map[string]any{
	"APP_ENV":            "development",
	"SERVER_PORT":        "8080",
	"LOG_LEVEL":          "info",
	"DATABASE_DRIVER":    "postgres",
	"DATABASE_URL":       "",
	"JWT_SECRET":         "",
	"JWT_EXPIRY_HOURS":   168,
	"LOBBY_MIN_PLAYERS":  3,
	"PRIVATE_KEY_LENGTH": 8,
	"REDIS_ADDR":         "",
	"REDIS_PASSWORD":     "",
	"REDIS_DB":           0,
	"CACHE_TTL":          "5m",
	"RATE_LIMIT_MAX":     20,
	"RATE_LIMIT_WINDOW":  "1m",
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// JWTExpiry is the lifetime of issued tokens.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

// LoadConfig loads the configuration from a .env file in dir and environment variables.
// Environment variables win over the file.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		logrus.Warn(".env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.DatabaseDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be set for the postgres driver")
		}
	case "sqlite":
		if c.DatabaseURL == "" {
			c.DatabaseURL = "lobbies.db"
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.LobbyMinPlayers < 1 {
		return fmt.Errorf("LOBBY_MIN_PLAYERS must be positive, got %d", c.LobbyMinPlayers)
	}
	if c.RateLimitMax < 0 || c.RateLimitWindow < 0 {
		return errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", c.LogLevel)
		c.LogLevel = "info"
	}
	return nil
}
