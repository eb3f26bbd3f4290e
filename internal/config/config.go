package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// CollegeFootballData API (schedule, scores, PPA)
	CFBDAPIKey  string        `envconfig:"CFBD_API_KEY" required:"true"`
	CFBDBaseURL string        `envconfig:"CFBD_BASE_URL" default:"https://api.collegefootballdata.com"`
	CFBDTimeout time.Duration `envconfig:"CFBD_TIMEOUT" default:"30s"`

	// The Odds API (market lines)
	OddsAPIKey       string        `envconfig:"ODDS_API_KEY" required:"true"`
	OddsAPIBaseURL   string        `envconfig:"ODDS_API_BASE_URL" default:"https://api.the-odds-api.com/v4"`
	OddsAPITimeout   time.Duration `envconfig:"ODDS_API_TIMEOUT" default:"30s"`
	OddsAPIRateLimit float64       `envconfig:"ODDS_API_RATE_LIMIT" default:"2"`
	OddsBookmakers   string        `envconfig:"ODDS_BOOKMAKERS" default:"draftkings,fanduel,pinnacle"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"cfb_edge"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"cfb_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP API
	APIPort  int    `envconfig:"API_PORT" default:"8080"`
	APIToken string `envconfig:"API_TOKEN" default:""`

	// Model parameters
	EloKFactor      float64 `envconfig:"ELO_K_FACTOR" default:"20"`
	HomeFieldBonus  float64 `envconfig:"HOME_FIELD_BONUS" default:"55"`
	MinEdgePoints   float64 `envconfig:"MIN_EDGE_POINTS" default:"2"`
	DefaultPrice    int     `envconfig:"DEFAULT_PRICE" default:"-110"`
	ModelVersion    string  `envconfig:"MODEL_VERSION" default:"elo-ppa-v1"`
	CurrentSeason   int     `envconfig:"CURRENT_SEASON" default:"2025"`
	BacktestSeasons int     `envconfig:"BACKTEST_SEASONS" default:"3"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialSyncEnabled bool   `envconfig:"INITIAL_SYNC_ENABLED" default:"true"`
	NightlyRefreshCron string `envconfig:"NIGHTLY_REFRESH_CRON" default:"0 2 * * *"`
	LinePollCron       string `envconfig:"LINE_POLL_CRON" default:"*/30 * * * *"`
	GradePollInterval  int    `envconfig:"GRADE_POLL_INTERVAL" default:"300"`

	// Caching TTL (in seconds)
	CacheTTLTeams       int `envconfig:"CACHE_TTL_TEAMS" default:"86400"`     // 24 hours
	CacheTTLEdges       int `envconfig:"CACHE_TTL_EDGES" default:"300"`       // 5 minutes
	CacheTTLRatings     int `envconfig:"CACHE_TTL_RATINGS" default:"3600"`    // 1 hour
	CacheTTLProjections int `envconfig:"CACHE_TTL_PROJECTIONS" default:"600"` // 10 minutes

	// Feature Flags
	EnableLineMovementTracking bool `envconfig:"ENABLE_LINE_MOVEMENT_TRACKING" default:"true"`
	EnableCLVTracking          bool `envconfig:"ENABLE_CLV_TRACKING" default:"true"`
	EnableTotalsModel          bool `envconfig:"ENABLE_TOTALS_MODEL" default:"false"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.CFBDAPIKey == "" {
		return fmt.Errorf("CFBD_API_KEY is required")
	}

	if c.OddsAPIKey == "" {
		return fmt.Errorf("ODDS_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.EloKFactor <= 0 {
		return fmt.Errorf("ELO_K_FACTOR must be positive")
	}

	if c.MinEdgePoints < 0 {
		return fmt.Errorf("MIN_EDGE_POINTS must not be negative")
	}

	if c.APIToken == "" && c.AppEnv == "production" {
		return fmt.Errorf("API_TOKEN is required in production")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
