// Package pipeline wires the Feasibility Estimator, Free-Interval Generator,
// Assignment Solver, Placement Organiser, and Calendar Writer into the
// single batch run that is this application's sole entry point.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/scheduling/feasibility"
	"github.com/kestrelsoft/scheduler/internal/scheduling/freeinterval"
	"github.com/kestrelsoft/scheduler/internal/scheduling/placement"
	"github.com/kestrelsoft/scheduler/internal/scheduling/solver"
	"github.com/kestrelsoft/scheduler/internal/task"
	"github.com/kestrelsoft/scheduler/pkg/observability"
)

// DefaultMaxHorizonDays caps the solver-retry loop when Pipeline.MaxHorizonDays
// is left at zero: if no feasible assignment is found even after enlarging
// the horizon this many days beyond the feasibility estimate, the run aborts
// with domain.ErrInfeasible.
const DefaultMaxHorizonDays = 90

// Pipeline bundles the external collaborators a single run needs: the task
// and window-template stores, the calendar service, and the local clock.
type Pipeline struct {
	Tasks     task.Store
	Templates domain.Store
	Calendar  calendar.Client
	Logger    *slog.Logger
	Timezone  *time.Location
	Now       func() time.Time

	SolverOptions solver.Options
	// MaxHorizonDays caps how far the solver-retry loop may enlarge the
	// horizon beyond the feasibility estimate. Zero selects DefaultMaxHorizonDays.
	MaxHorizonDays int
	// Metrics records per-stage counters and timings. Nil selects
	// observability.NoopMetrics.
	Metrics observability.Metrics
}

func (p *Pipeline) metrics() observability.Metrics {
	if p.Metrics != nil {
		return p.Metrics
	}
	return observability.NoopMetrics{}
}

func (p *Pipeline) maxHorizonDays() int {
	if p.MaxHorizonDays > 0 {
		return p.MaxHorizonDays
	}
	return DefaultMaxHorizonDays
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Run executes Feasibility -> Free-Interval -> Assignment -> Placement ->
// Calendar Writer once, enlarging the horizon and retrying the solver up to
// MaxHorizonDays beyond the feasibility estimate before giving up with
// domain.ErrInfeasible.
func (p *Pipeline) Run(ctx context.Context) error {
	operation := observability.OperationFromContext(ctx)
	if operation == "" {
		operation = "pipeline.run"
	}
	log := observability.LogOperation(p.logger(), operation, "correlation_id", observability.CorrelationIDFromContext(ctx))

	span, ctx := observability.StartSpan(ctx, operation)
	defer func() {
		log.Info("operation completed", "operation", span.Operation(), "duration_ms", span.End().Milliseconds(), "attributes", span.Attributes())
	}()

	tasks, err := p.Tasks.PendingTasks()
	if err != nil {
		return err
	}
	templates, err := p.Templates.WorkTemplates()
	if err != nil {
		return err
	}
	span.SetAttribute("tasks", len(tasks))
	span.SetAttribute("templates", len(templates))

	metrics := p.metrics()

	var horizon int
	err = observability.TimeOperation(ctx, log, metrics, "feasibility.estimate", func() error {
		h, err := feasibility.Estimate(tasks, templates)
		horizon = h
		return err
	})
	if err != nil {
		return err
	}
	metrics.Gauge(observability.MetricFeasibilityHorizonDays, float64(horizon))

	now := p.now()
	maxHorizon := horizon + p.maxHorizonDays()

	var assignments []domain.Assignment
	var slots []domain.DaySlot
	expansions := 0
	for {
		events, err := p.readFixedEvents(ctx, now, horizon)
		if err != nil {
			return err
		}

		start := time.Now()
		slots = freeinterval.Generate(templates, horizon, now, events)
		observability.LogDuration(log, "freeinterval.generate", start)
		metrics.Gauge(observability.MetricSlotsGenerated, float64(len(slots)))

		assignments, err = solver.Solve(tasks, slots, p.SolverOptions)
		if err == nil {
			break
		}
		log.Warn("solver found no feasible assignment, enlarging horizon", "horizon", horizon)

		if horizon >= maxHorizon {
			return domain.ErrInfeasible{Horizon: horizon}
		}
		horizon++
		expansions++
	}
	metrics.Counter(observability.MetricSolverHorizonExpansions, int64(expansions))
	metrics.Gauge(observability.MetricSolverTasksAssigned, float64(len(tasks)))
	metrics.Gauge(observability.MetricSolverPenaltyMinutes, overflowMinutes(assignments))

	var taskEvents []domain.TaskEvent
	placeStart := time.Now()
	for _, a := range assignments {
		taskEvents = append(taskEvents, placement.Place(a)...)
	}
	observability.LogDuration(log, "placement.place", placeStart)
	metrics.Gauge(observability.MetricPlacementsEmitted, float64(len(taskEvents)))
	log.Info("scheduling run complete", "utilization", utilization(slots, taskEvents))

	if err := calendar.Write(ctx, p.Calendar, taskEvents, p.Timezone); err != nil {
		metrics.Counter(observability.MetricCalendarWriteFailures, 1)
		return err
	}
	metrics.Counter(observability.MetricCalendarEventsWritten, int64(len(taskEvents)))
	return nil
}

// overflowMinutes sums, across all assignments, how many minutes of assigned
// task duration spilled past each slot's soft length bound.
func overflowMinutes(assignments []domain.Assignment) float64 {
	var total float64
	for _, a := range assignments {
		overflow := a.TotalDuration() - int(a.Slot.SoftLength().Minutes())
		if overflow > 0 {
			total += float64(overflow)
		}
	}
	return total
}

// utilization reports what fraction of the generated slots' soft capacity
// ended up occupied by placed task events, a diagnostic logged once per run.
func utilization(slots []domain.DaySlot, events []domain.TaskEvent) float64 {
	var capacity, used time.Duration
	for _, s := range slots {
		capacity += s.SoftLength()
	}
	for _, e := range events {
		used += e.Duration()
	}
	if capacity == 0 {
		return 0
	}
	return float64(used) / float64(capacity)
}

// readFixedEvents lists upcoming calendar events across the current horizon
// plus a one-day buffer, per the Free-Interval Generator's input contract.
func (p *Pipeline) readFixedEvents(ctx context.Context, now time.Time, horizon int) ([]domain.FixedEvent, error) {
	end := now.AddDate(0, 0, horizon+1)
	events, err := p.Calendar.ListUpcoming(ctx, now, end)
	if err != nil {
		return nil, domain.ErrCalendarUnreachable{Cause: err}
	}
	return calendar.ToFixedEvents(events), nil
}
