package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/kestrelsoft/scheduler/internal/calendar"
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/scheduling/pipeline"
	"github.com/kestrelsoft/scheduler/internal/task"
	"github.com/kestrelsoft/scheduler/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTaskStore struct{ tasks []task.Task }

func (s fakeTaskStore) PendingTasks() ([]task.Task, error) { return s.tasks, nil }

type fakeTemplateStore struct{ templates []domain.WindowTemplate }

func (s fakeTemplateStore) WorkTemplates() ([]domain.WindowTemplate, error) { return s.templates, nil }

type fakeCalendarClient struct {
	inserted []calendar.Event
}

func (c *fakeCalendarClient) ListUpcoming(_ context.Context, _, _ time.Time) ([]calendar.Event, error) {
	return nil, nil
}

func (c *fakeCalendarClient) Insert(_ context.Context, e calendar.Event) (string, error) {
	c.inserted = append(c.inserted, e)
	return uuid.NewString(), nil
}

func (c *fakeCalendarClient) Delete(_ context.Context, _ string) error { return nil }

func TestPipeline_Run_TrivialFit(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	tk, err := task.New(uuid.New(), "Write report", 3, 60*time.Minute, nil, task.StatusPending)
	require.NoError(t, err)
	tmpl, err := domain.NewWindowTemplate("work", domain.WindowKindWork, 9*time.Hour, 17*time.Hour)
	require.NoError(t, err)

	cal := &fakeCalendarClient{}
	p := &pipeline.Pipeline{
		Tasks:     fakeTaskStore{tasks: []task.Task{tk}},
		Templates: fakeTemplateStore{templates: []domain.WindowTemplate{tmpl}},
		Calendar:  cal,
		Timezone:  time.UTC,
		Now:       func() time.Time { return now },
	}

	err = p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, cal.inserted, 1)
	assert.Equal(t, "Write report", cal.inserted[0].Summary)
	assert.Equal(t, domain.ApplicationTag, cal.inserted[0].Tag)
}

func TestPipeline_Run_RecordsMetrics(t *testing.T) {
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	tk, err := task.New(uuid.New(), "Write report", 3, 60*time.Minute, nil, task.StatusPending)
	require.NoError(t, err)
	tmpl, err := domain.NewWindowTemplate("work", domain.WindowKindWork, 9*time.Hour, 17*time.Hour)
	require.NoError(t, err)

	metrics := observability.NewInMemoryMetrics()
	p := &pipeline.Pipeline{
		Tasks:     fakeTaskStore{tasks: []task.Task{tk}},
		Templates: fakeTemplateStore{templates: []domain.WindowTemplate{tmpl}},
		Calendar:  &fakeCalendarClient{},
		Timezone:  time.UTC,
		Now:       func() time.Time { return now },
		Metrics:   metrics,
	}

	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, float64(1), metrics.GetGauge(observability.MetricFeasibilityHorizonDays))
	assert.Equal(t, float64(1), metrics.GetGauge(observability.MetricSolverTasksAssigned))
	assert.Equal(t, float64(1), metrics.GetGauge(observability.MetricPlacementsEmitted))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCalendarEventsWritten))
}

func TestPipeline_Run_NoCapacityFailsWithPendingTasks(t *testing.T) {
	tk, err := task.New(uuid.New(), "Orphan", 3, 60*time.Minute, nil, task.StatusPending)
	require.NoError(t, err)

	p := &pipeline.Pipeline{
		Tasks:     fakeTaskStore{tasks: []task.Task{tk}},
		Templates: fakeTemplateStore{},
		Calendar:  &fakeCalendarClient{},
	}

	err = p.Run(context.Background())
	assert.ErrorAs(t, err, &domain.ErrNoCapacity{})
}
