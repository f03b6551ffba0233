package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	DevBypass DevBypassConfig
	RateLimit RateLimitConfig
	Dashboard DashboardConfig
	Security  SecurityConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxRetries int
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Broker string
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// DevBypassConfig describes the literal demo token. It is honoured only in
// development, see Config.DevBypassEnabled.
type DevBypassConfig struct {
	Token string
	Email string
}

type RateLimitConfig struct {
	Window  time.Duration
	Max     int
	AuthMax int
}

type DashboardConfig struct {
	CacheTTL time.Duration
}

type SecurityConfig struct {
	BcryptCost int
}

// Load reads .env (when present) and the process environment. The result
// is fixed for the lifetime of the process.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "5000")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fleet")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_RETRIES", 5)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("JWT_EXPIRES_IN", "7d")
	v.SetDefault("AUTH_DEV_BYPASS_EMAIL", "admin@demo.com")
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")
	v.SetDefault("RATE_LIMIT_MAX", 200)
	v.SetDefault("AUTH_RATE_LIMIT_MAX", 20)
	v.SetDefault("DASHBOARD_CACHE_TTL", "30s")
	v.SetDefault("BCRYPT_COST", 12)

	secret := strings.TrimSpace(v.GetString("JWT_SECRET"))
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	expiresIn, err := ParseDuration(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRES_IN: %w", err)
	}

	requestTimeout, err := ParseDuration(v.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}

	window, err := ParseDuration(v.GetString("RATE_LIMIT_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW: %w", err)
	}

	cacheTTL, err := ParseDuration(v.GetString("DASHBOARD_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("DASHBOARD_CACHE_TTL: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Env:            strings.ToLower(v.GetString("APP_ENV")),
			RequestTimeout: requestTimeout,
		},
		Database: DatabaseConfig{
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			MaxRetries: v.GetInt("DB_MAX_RETRIES"),
		},
		Redis: RedisConfig{Addr: v.GetString("REDIS_ADDR")},
		Kafka: KafkaConfig{Broker: v.GetString("KAFKA_BROKER")},
		JWT: JWTConfig{
			Secret:    secret,
			ExpiresIn: expiresIn,
		},
		DevBypass: DevBypassConfig{
			Token: strings.TrimSpace(v.GetString("AUTH_DEV_BYPASS_TOKEN")),
			Email: strings.ToLower(v.GetString("AUTH_DEV_BYPASS_EMAIL")),
		},
		RateLimit: RateLimitConfig{
			Window:  window,
			Max:     v.GetInt("RATE_LIMIT_MAX"),
			AuthMax: v.GetInt("AUTH_RATE_LIMIT_MAX"),
		},
		Dashboard: DashboardConfig{CacheTTL: cacheTTL},
		Security:  SecurityConfig{BcryptCost: v.GetInt("BCRYPT_COST")},
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// DevBypassEnabled is true only for development builds that configured a
// bypass token.
func (c *Config) DevBypassEnabled() bool {
	return c.Server.Env == EnvDevelopment && c.DevBypass.Token != ""
}

// ParseDuration accepts time.ParseDuration syntax plus a whole-day suffix
// such as "7d".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}
