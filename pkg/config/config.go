package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the scheduler's runtime configuration, loaded once at
// process start from the environment (plus an optional .env file).
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Encryption for the local OAuth token cache.
	EncryptionKey  string
	TokenCachePath string

	// Calendar provider: "caldav" or "google".
	CalendarProvider string
	CalendarID       string

	// CalDAV
	CalDAVBaseURL  string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVPath     string

	// OAuth (Google)
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthRedirectURL  string
	OAuthScopes       string

	// Solver
	SolverSearchBudget time.Duration
	SolverSoftMargins  bool

	// Horizon
	MaxHorizonDays int
}

// Load loads configuration from environment variables, falling back to a
// .env file in the working directory if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("SCHEDULER_USER_ID", "00000000-0000-0000-0000-000000000001"),

		EncryptionKey:  getEnv("SCHEDULER_ENCRYPTION_KEY", ""),
		TokenCachePath: getEnv("SCHEDULER_TOKEN_CACHE_PATH", getDefaultTokenCachePath()),

		CalendarProvider: getEnv("CALENDAR_PROVIDER", "caldav"),
		CalendarID:       getEnv("CALENDAR_ID", "primary"),

		CalDAVBaseURL:  getEnv("CALDAV_BASE_URL", ""),
		CalDAVUsername: getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword: getEnv("CALDAV_PASSWORD", ""),
		CalDAVPath:     getEnv("CALDAV_CALENDAR_PATH", ""),

		OAuthClientID:     getEnv("OAUTH_CLIENT_ID", ""),
		OAuthClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
		OAuthAuthURL:      getEnv("OAUTH_AUTH_URL", ""),
		OAuthTokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
		OAuthRedirectURL:  getEnv("OAUTH_REDIRECT_URL", ""),
		OAuthScopes:       getEnv("OAUTH_SCOPES", ""),

		SolverSearchBudget: getDurationEnv("SOLVER_SEARCH_BUDGET", 10*time.Second),
		SolverSoftMargins:  getBoolEnv("SOLVER_SOFT_MARGINS", true),

		MaxHorizonDays: getIntEnv("SCHEDULER_MAX_HORIZON_DAYS", 90),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDefaultTokenCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".scheduler/token.json"
	}
	return home + "/.scheduler/token.json"
}
