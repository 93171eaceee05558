package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvVars() {
	envVars := []string{
		"APP_ENV", "LOG_LEVEL", "SCHEDULER_USER_ID", "SCHEDULER_ENCRYPTION_KEY",
		"SCHEDULER_TOKEN_CACHE_PATH", "CALENDAR_PROVIDER", "CALENDAR_ID",
		"CALDAV_BASE_URL", "CALDAV_USERNAME", "CALDAV_PASSWORD", "CALDAV_CALENDAR_PATH",
		"OAUTH_CLIENT_ID", "OAUTH_CLIENT_SECRET", "OAUTH_AUTH_URL", "OAUTH_TOKEN_URL",
		"OAUTH_REDIRECT_URL", "OAUTH_SCOPES",
		"SOLVER_SEARCH_BUDGET", "SOLVER_SOFT_MARGINS", "SCHEDULER_MAX_HORIZON_DAYS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", cfg.UserID)
	assert.Equal(t, "", cfg.EncryptionKey)

	assert.Equal(t, "caldav", cfg.CalendarProvider)
	assert.Equal(t, "primary", cfg.CalendarID)

	assert.Equal(t, 10*time.Second, cfg.SolverSearchBudget)
	assert.True(t, cfg.SolverSoftMargins)
	assert.Equal(t, 90, cfg.MaxHorizonDays)
}

func TestLoad_WithCustomEnvVars(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SCHEDULER_USER_ID", "test-user-id")
	os.Setenv("SCHEDULER_ENCRYPTION_KEY", "my-secret-key")
	os.Setenv("CALENDAR_PROVIDER", "google")
	os.Setenv("CALENDAR_ID", "work@example.com")
	os.Setenv("SOLVER_SEARCH_BUDGET", "30s")
	os.Setenv("SOLVER_SOFT_MARGINS", "false")
	os.Setenv("SCHEDULER_MAX_HORIZON_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "test-user-id", cfg.UserID)
	assert.Equal(t, "my-secret-key", cfg.EncryptionKey)
	assert.Equal(t, "google", cfg.CalendarProvider)
	assert.Equal(t, "work@example.com", cfg.CalendarID)
	assert.Equal(t, 30*time.Second, cfg.SolverSearchBudget)
	assert.False(t, cfg.SolverSoftMargins)
	assert.Equal(t, 30, cfg.MaxHorizonDays)
}

func TestLoad_CalDAVConfig(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("CALDAV_BASE_URL", "https://caldav.example.com")
	os.Setenv("CALDAV_USERNAME", "alice")
	os.Setenv("CALDAV_PASSWORD", "hunter2")
	os.Setenv("CALDAV_CALENDAR_PATH", "/calendars/alice/work/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://caldav.example.com", cfg.CalDAVBaseURL)
	assert.Equal(t, "alice", cfg.CalDAVUsername)
	assert.Equal(t, "hunter2", cfg.CalDAVPassword)
	assert.Equal(t, "/calendars/alice/work/", cfg.CalDAVPath)
}

func TestLoad_OAuthConfig(t *testing.T) {
	clearEnvVars()
	defer clearEnvVars()

	os.Setenv("OAUTH_CLIENT_ID", "client-id")
	os.Setenv("OAUTH_CLIENT_SECRET", "client-secret")
	os.Setenv("OAUTH_AUTH_URL", "https://auth.example.com")
	os.Setenv("OAUTH_TOKEN_URL", "https://token.example.com")
	os.Setenv("OAUTH_REDIRECT_URL", "http://localhost:8080/callback")
	os.Setenv("OAUTH_SCOPES", "email profile")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "client-id", cfg.OAuthClientID)
	assert.Equal(t, "client-secret", cfg.OAuthClientSecret)
	assert.Equal(t, "https://auth.example.com", cfg.OAuthAuthURL)
	assert.Equal(t, "https://token.example.com", cfg.OAuthTokenURL)
	assert.Equal(t, "http://localhost:8080/callback", cfg.OAuthRedirectURL)
	assert.Equal(t, "email profile", cfg.OAuthScopes)
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", true},
		{"production", false},
		{"staging", false},
		{"test", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsDevelopment())
		})
	}
}

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		appEnv   string
		expected bool
	}{
		{"development", false},
		{"production", true},
		{"staging", false},
		{"test", false},
	}

	for _, tt := range tests {
		t.Run(tt.appEnv, func(t *testing.T) {
			cfg := &Config{AppEnv: tt.appEnv}
			assert.Equal(t, tt.expected, cfg.IsProduction())
		})
	}
}

func TestGetEnv(t *testing.T) {
	value := getEnv("NON_EXISTENT_VAR", "default")
	assert.Equal(t, "default", value)

	os.Setenv("TEST_VAR", "custom")
	defer os.Unsetenv("TEST_VAR")
	value = getEnv("TEST_VAR", "default")
	assert.Equal(t, "custom", value)

	os.Setenv("TEST_EMPTY", "")
	defer os.Unsetenv("TEST_EMPTY")
	value = getEnv("TEST_EMPTY", "default")
	assert.Equal(t, "default", value)
}

func TestGetIntEnv(t *testing.T) {
	value := getIntEnv("NON_EXISTENT_INT", 42)
	assert.Equal(t, 42, value)

	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")
	value = getIntEnv("TEST_INT", 42)
	assert.Equal(t, 100, value)

	os.Setenv("TEST_INVALID_INT", "not-a-number")
	defer os.Unsetenv("TEST_INVALID_INT")
	value = getIntEnv("TEST_INVALID_INT", 42)
	assert.Equal(t, 42, value)
}

func TestGetDurationEnv(t *testing.T) {
	value := getDurationEnv("NON_EXISTENT_DUR", 5*time.Second)
	assert.Equal(t, 5*time.Second, value)

	os.Setenv("TEST_DUR", "10m")
	defer os.Unsetenv("TEST_DUR")
	value = getDurationEnv("TEST_DUR", 5*time.Second)
	assert.Equal(t, 10*time.Minute, value)

	os.Setenv("TEST_INVALID_DUR", "not-a-duration")
	defer os.Unsetenv("TEST_INVALID_DUR")
	value = getDurationEnv("TEST_INVALID_DUR", 5*time.Second)
	assert.Equal(t, 5*time.Second, value)
}

func TestGetBoolEnv(t *testing.T) {
	value := getBoolEnv("NON_EXISTENT_BOOL", true)
	assert.True(t, value)

	trueValues := []string{"true", "1", "True", "TRUE"}
	for _, tv := range trueValues {
		os.Setenv("TEST_BOOL", tv)
		value = getBoolEnv("TEST_BOOL", false)
		assert.True(t, value, "expected true for value: %s", tv)
	}

	falseValues := []string{"false", "0", "False", "FALSE"}
	for _, fv := range falseValues {
		os.Setenv("TEST_BOOL", fv)
		value = getBoolEnv("TEST_BOOL", true)
		assert.False(t, value, "expected false for value: %s", fv)
	}
	os.Unsetenv("TEST_BOOL")

	os.Setenv("TEST_INVALID_BOOL", "not-a-bool")
	defer os.Unsetenv("TEST_INVALID_BOOL")
	value = getBoolEnv("TEST_INVALID_BOOL", true)
	assert.True(t, value)
}

func TestGetDefaultTokenCachePath(t *testing.T) {
	path := getDefaultTokenCachePath()
	assert.Contains(t, path, ".scheduler/token.json")
}
