package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	App      AppConfig
	Eflow    EflowConfig
	Database DatabaseConfig
	OrderDB  OrderDBConfig
	Cache    CacheConfig
	Ingest   IngestConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"3000s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"affiliate-order-sync"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// EflowConfig holds reporting API settings. The API key is a secret supplied
// externally; it has no default and its absence is a fatal configuration error.
type EflowConfig struct {
	BaseURL        string        `envconfig:"EFLOW_BASE_URL" default:"https://api.eflow.team/v1/networks/reporting/conversions"`
	APIKey         string        `envconfig:"EFLOW_API_KEY" default:""`
	PageSize       int           `envconfig:"EFLOW_PAGE_SIZE" default:"2000"`
	TimezoneID     int           `envconfig:"EFLOW_TIMEZONE_ID" default:"90"`
	CurrencyID     string        `envconfig:"EFLOW_CURRENCY_ID" default:"USD"`
	WindowDays     int           `envconfig:"EFLOW_WINDOW_DAYS" default:"7"`
	RequestTimeout time.Duration `envconfig:"EFLOW_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds MySQL connection settings for the order tables.
// DB_NAME has no default: without it there is no connection string, and that
// is reported as a fatal configuration error before any network call.
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"3306"`
	Name     string `envconfig:"DB_NAME" default:""`
	User     string `envconfig:"DB_USER" default:"root"`
	Password string `envconfig:"DB_PASS" default:""`
}

// OrderDBConfig selects the destination store backend.
type OrderDBConfig struct {
	Type string `envconfig:"ORDER_DB_TYPE" default:"mysql"` // mysql or sqlite
	Path string `envconfig:"ORDER_DB_PATH" default:"./data/orders.db"`
}

// CacheConfig holds run-status cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"24h"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// IngestConfig holds ingestion loop settings.
type IngestConfig struct {
	// Schedule is a cron expression; empty disables scheduled runs.
	Schedule string `envconfig:"INGEST_SCHEDULE" default:""`
	// MaxPages caps the pagination loop against an inconsistent total_count.
	MaxPages int `envconfig:"INGEST_MAX_PAGES" default:"1000"`
	// TriggerKey protects the trigger endpoints when set.
	TriggerKey string        `envconfig:"INGEST_TRIGGER_KEY" default:""`
	RunTimeout time.Duration `envconfig:"INGEST_RUN_TIMEOUT" default:"30m"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
