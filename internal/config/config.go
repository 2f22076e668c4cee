// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/kanadp40-ctrl/NotifyHealth/internal/store"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`

	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin@nh.com"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`

	Mongo MongoConfig

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	StaticDir      string   `env:"STATIC_DIR"`
	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers decide the client IP. Empty trusts none.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	RateLimit RateLimitConfig
}

type MongoConfig struct {
	URI                    string        `env:"MONGODB_URI"`
	Database               string        `env:"MONGODB_DATABASE" envDefault:"NotifyHealthDB"`
	ConnectTimeout         time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	ServerSelectionTimeout time.Duration `env:"MONGODB_SERVER_SELECTION_TIMEOUT" envDefault:"5s"`
	SeedSampleData         bool          `env:"SEED_SAMPLE_DATA" envDefault:"true"`
}

// RateLimitConfig throttles the login endpoints. It is disabled when
// RedisAddr is empty.
type RateLimitConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	Limit         int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	Window        time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`
}

// Load reads .env (if present) and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, relying on environment variables.")
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether the service runs in local development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// StoreConfig converts the Mongo settings for the store package.
func (m MongoConfig) StoreConfig() store.MongoConfig {
	return store.MongoConfig{
		URI:                    m.URI,
		Database:               m.Database,
		ConnectTimeout:         m.ConnectTimeout,
		ServerSelectionTimeout: m.ServerSelectionTimeout,
		SeedSampleData:         m.SeedSampleData,
	}
}
