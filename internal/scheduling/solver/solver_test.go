package solver_test

import (
	"testing"
	"time"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/scheduling/solver"
	"github.com/kestrelsoft/scheduler/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTask(t *testing.T, minutes int, priority task.Priority) task.Task {
	t.Helper()
	tk, err := task.New(uuid.New(), "t", priority, time.Duration(minutes)*time.Minute, nil, task.StatusPending)
	require.NoError(t, err)
	return tk
}

func daySlot(day int, start, end time.Time) domain.DaySlot {
	tmpl, _ := domain.NewWindowTemplate("w", domain.WindowKindWork, 0, time.Hour)
	return domain.DaySlot{
		DayIndex:      day,
		Template:      tmpl,
		ConcreteStart: start,
		ConcreteEnd:   end,
		HardStart:     start,
		HardEnd:       end,
	}
}

func TestSolve_TrivialFit(t *testing.T) {
	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{mustTask(t, 60, 3)}
	slots := []domain.DaySlot{daySlot(0, base, base.Add(8*time.Hour))}

	assignments, err := solver.Solve(tasks, slots, solver.Options{})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].Tasks, 1)
	assert.Equal(t, 60, assignments[0].TotalDuration())
}

func TestSolve_PriorityZeroTakesDayZero(t *testing.T) {
	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	urgent := mustTask(t, 30, task.PriorityMustToday)
	routine := mustTask(t, 30, 1)
	tasks := []task.Task{urgent, routine}

	slots := []domain.DaySlot{daySlot(0, base, base.Add(time.Hour))}

	assignments, err := solver.Solve(tasks, slots, solver.Options{})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].Tasks, 2)
	assert.Equal(t, 60, assignments[0].TotalDuration())
}

func TestSolve_EveryTaskAssignedExactlyOnce(t *testing.T) {
	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		mustTask(t, 30, 2),
		mustTask(t, 45, 4),
		mustTask(t, 20, 1),
	}
	slots := []domain.DaySlot{
		daySlot(0, base, base.Add(time.Hour)),
		daySlot(1, base.AddDate(0, 0, 1), base.AddDate(0, 0, 1).Add(time.Hour)),
	}

	assignments, err := solver.Solve(tasks, slots, solver.Options{})
	require.NoError(t, err)

	seen := map[string]int{}
	for _, a := range assignments {
		assert.LessOrEqual(t, a.TotalDuration(), int(a.Slot.HardLength().Minutes()))
		for _, tk := range a.Tasks {
			seen[tk.ID().String()]++
		}
	}
	assert.Len(t, seen, len(tasks))
	for _, count := range seen {
		assert.Equal(t, 1, count)
	}
}

func TestSolve_NoTasksReturnsEmptyAssignments(t *testing.T) {
	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	slots := []domain.DaySlot{daySlot(0, base, base.Add(time.Hour))}

	assignments, err := solver.Solve(nil, slots, solver.Options{})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Empty(t, assignments[0].Tasks)
}

func TestSolve_NoSlotsWithTasksIsInfeasible(t *testing.T) {
	tasks := []task.Task{mustTask(t, 30, 2)}

	_, err := solver.Solve(tasks, nil, solver.Options{})
	assert.ErrorIs(t, err, solver.ErrNoSolution)
}

func TestSolve_OverflowUsesPenaltyUnderSoftMargins(t *testing.T) {
	base := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	tasks := []task.Task{mustTask(t, 90, 2)}
	slot := domain.DaySlot{
		DayIndex:      0,
		ConcreteStart: base,
		ConcreteEnd:   base.Add(time.Hour),
		HardStart:     base.Add(-time.Hour),
		HardEnd:       base.Add(2 * time.Hour),
	}

	assignments, err := solver.Solve(tasks, []domain.DaySlot{slot}, solver.Options{SoftMarginsEnabled: true})
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].Tasks, 1)
	assert.LessOrEqual(t, assignments[0].TotalDuration(), int(slot.HardLength().Minutes()))
}
