package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Worker       WorkerConfig
	IDs          IDConfig
	Client       ClientConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `env:"APP_NAME" envDefault:"it-manager"`
	Env                   string `env:"APP_ENV" envDefault:"development"`
	Host                  string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port                  string `env:"APP_PORT" envDefault:"3333"`
	Version               string `env:"APP_VERSION" envDefault:"dev"`
	RequestTimeoutSeconds int    `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `env:"POSTGRES_DSN"`
	MaxConns       int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MinConns       int32  `env:"POSTGRES_MIN_CONNS" envDefault:"2"`
	RunMigrations  bool   `env:"POSTGRES_RUN_MIGRATIONS" envDefault:"true"`
	MigrationsDir  string `env:"POSTGRES_MIGRATIONS_DIR" envDefault:"migrations"`
	ConnMaxIdleSec int32  `env:"POSTGRES_CONN_MAX_IDLE_SECONDS" envDefault:"30"`
	ConnMaxLifeSec int32  `env:"POSTGRES_CONN_MAX_LIFE_SECONDS" envDefault:"300"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled                bool   `env:"REDIS_ENABLED" envDefault:"true"`
	Addr                   string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	Password               string `env:"REDIS_PASSWORD"`
	DB                     int    `env:"REDIS_DB" envDefault:"0"`
	PrinterCacheTTLSeconds int    `env:"REDIS_PRINTER_CACHE_TTL_SECONDS" envDefault:"60"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Development bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
	Console     bool   `env:"LOG_CONSOLE" envDefault:"false"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	Required              bool   `env:"AUTH_REQUIRED" envDefault:"false"`
	JWTSecret             string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
	AccessTokenTTLMinutes int    `env:"AUTH_ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	BcryptCost            int    `env:"AUTH_BCRYPT_COST" envDefault:"12"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `env:"NOTIFY_EMAIL_FROM" envDefault:"noreply@example.com"`
	WebhookURL string `env:"NOTIFY_WEBHOOK_URL"`
}

// WorkerConfig tunes background jobs.
type WorkerConfig struct {
	LicenseScanIntervalMinutes int `env:"LICENSE_SCAN_INTERVAL_MINUTES" envDefault:"60"`
	LicenseExpiryWarningDays   int `env:"LICENSE_EXPIRY_WARNING_DAYS" envDefault:"30"`
}

// IDConfig configures id generators.
type IDConfig struct {
	SnowflakeNode int64 `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

// ClientConfig configures the ink stock API client used by inkctl.
type ClientConfig struct {
	APIURL         string `env:"INK_API_URL" envDefault:"http://localhost:3333"`
	TimeoutSeconds int    `env:"INK_API_TIMEOUT_SECONDS" envDefault:"10"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PrinterCacheTTL returns how long the printer list stays cached.
func (r RedisConfig) PrinterCacheTTL() time.Duration {
	if r.PrinterCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.PrinterCacheTTLSeconds) * time.Second
}

// LicenseScanInterval returns the license watcher tick.
func (w WorkerConfig) LicenseScanInterval() time.Duration {
	if w.LicenseScanIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(w.LicenseScanIntervalMinutes) * time.Minute
}

// LicenseExpiryWindow returns how far ahead the watcher looks.
func (w WorkerConfig) LicenseExpiryWindow() time.Duration {
	return time.Duration(w.LicenseExpiryWarningDays) * 24 * time.Hour
}

// Timeout returns the client request timeout.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
