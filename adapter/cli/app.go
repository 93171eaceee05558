package cli

import (
	"log/slog"
	"time"

	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/scheduling/pipeline"
	"github.com/kestrelsoft/scheduler/internal/scheduling/solver"
	"github.com/kestrelsoft/scheduler/internal/task"
	"github.com/kestrelsoft/scheduler/pkg/observability"
)

// App holds the CLI application's dependencies: the pending-task and
// window-template stores, the calendar client, and the pipeline options
// read from configuration.
type App struct {
	Tasks     task.Store
	Templates domain.Store
	Calendar  calendar.Client
	Logger    *slog.Logger
	Timezone  *time.Location

	SolverOptions  solver.Options
	MaxHorizonDays int
	Metrics        observability.Metrics
}

// Pipeline builds the Pipeline that the run command executes.
func (a *App) Pipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Tasks:          a.Tasks,
		Templates:      a.Templates,
		Calendar:       a.Calendar,
		Logger:         a.Logger,
		Timezone:       a.Timezone,
		SolverOptions:  a.SolverOptions,
		MaxHorizonDays: a.MaxHorizonDays,
		Metrics:        a.Metrics,
	}
}

// app is the global CLI application instance, set once in main and read by
// each command's RunE.
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
