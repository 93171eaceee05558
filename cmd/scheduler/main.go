// Command scheduler is the single entry point for the scheduling pipeline:
// one invocation reads pending tasks and work-window templates, solves an
// assignment, places each task at a concrete time, and writes the result to
// the configured calendar.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/kestrelsoft/scheduler/adapter/cli"
	"github.com/kestrelsoft/scheduler/adapter/cli/erase"
	"github.com/kestrelsoft/scheduler/adapter/cli/health"
	"github.com/kestrelsoft/scheduler/adapter/cli/schedule"
	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/calendar/caldav"
	"github.com/kestrelsoft/scheduler/internal/calendar/google"
	"github.com/kestrelsoft/scheduler/internal/calendar/tokencache"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/scheduling/solver"
	"github.com/kestrelsoft/scheduler/internal/scheduling/windowstore"
	"github.com/kestrelsoft/scheduler/internal/shared/infrastructure/crypto"
	"github.com/kestrelsoft/scheduler/internal/task/jsonstore"
	"github.com/kestrelsoft/scheduler/pkg/config"
	"github.com/kestrelsoft/scheduler/pkg/observability"
)

// buildMetrics selects the pipeline's metrics sink: an in-memory collector in
// development (so a developer can inspect `scheduler.*` gauges/counters
// after a run without standing up a real metrics backend) and a no-op
// collector otherwise, since no metrics exporter is in scope for this
// system.
func buildMetrics(cfg *config.Config) observability.Metrics {
	if cfg.IsDevelopment() {
		return observability.NewInMemoryMetrics()
	}
	return observability.NoopMetrics{}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	logger := observability.LoggerFromEnv()
	cli.SetLogger(logger)
	cli.SetUserID(cfg.UserID)

	timezone := time.Local
	if tzName := os.Getenv("SCHEDULER_TIMEZONE"); tzName != "" {
		if loc, err := time.LoadLocation(tzName); err == nil {
			timezone = loc
		} else {
			logger.Warn("invalid SCHEDULER_TIMEZONE, falling back to local", "value", tzName, "error", err)
		}
	}

	calendarClient, err := buildCalendarClient(cfg, logger)
	if err != nil {
		logger.Error("failed to build calendar client", "error", err)
		os.Exit(1)
	}

	cli.SetApp(&cli.App{
		Tasks:     jsonstore.New(tasksPath()),
		Templates: windowstore.New(windowsPath()),
		Calendar:  calendarClient,
		Logger:    logger,
		Timezone:  timezone,
		SolverOptions: solver.Options{
			SoftMarginsEnabled: cfg.SolverSoftMargins,
			SearchBudget:       cfg.SolverSearchBudget,
		},
		MaxHorizonDays: cfg.MaxHorizonDays,
		Metrics:        buildMetrics(cfg),
	})

	cli.AddCommand(schedule.Cmd)
	cli.AddCommand(erase.Cmd)
	cli.AddCommand(health.Cmd)
	cli.Execute()
}

func tasksPath() string {
	if p := os.Getenv("SCHEDULER_TASKS_PATH"); p != "" {
		return p
	}
	return "tasks.json"
}

func windowsPath() string {
	if p := os.Getenv("SCHEDULER_WINDOWS_PATH"); p != "" {
		return p
	}
	return "windows.json"
}

// buildCalendarClient selects and constructs the configured calendar
// provider. CalDAV needs only a base URL and credentials; Google needs a
// cached OAuth token refreshed through an encrypted token cache next to the
// binary, per §6's persisted-state contract.
func buildCalendarClient(cfg *config.Config, logger *slog.Logger) (calendar.Client, error) {
	switch cfg.CalendarProvider {
	case "google":
		return buildGoogleClient(cfg, logger)
	case "caldav":
		return buildCaldavClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider %q", cfg.CalendarProvider)
	}
}

func buildCaldavClient(cfg *config.Config, logger *slog.Logger) calendar.Client {
	client := caldav.New(cfg.CalDAVBaseURL, cfg.CalDAVUsername, cfg.CalDAVPassword, logger)
	if cfg.CalDAVPath != "" {
		client.WithCalendarPath(cfg.CalDAVPath)
	}
	return client
}

func buildGoogleClient(cfg *config.Config, logger *slog.Logger) (calendar.Client, error) {
	if cfg.EncryptionKey == "" {
		return nil, fmt.Errorf("SCHEDULER_ENCRYPTION_KEY is required for the google calendar provider")
	}
	encrypter, err := crypto.NewAESGCMFromBase64Key(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("token cache encrypter: %w", err)
	}
	cache, err := tokencache.New(cfg.TokenCachePath, encrypter)
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  cfg.OAuthAuthURL,
			TokenURL: cfg.OAuthTokenURL,
		},
		RedirectURL: cfg.OAuthRedirectURL,
	}
	source, err := cache.TokenSource(oauthCfg)
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}

	client := google.New(source, logger).WithCalendarID(cfg.CalendarID)
	return client, nil
}
