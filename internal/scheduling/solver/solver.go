// Package solver assigns tasks to day slots with a CP/MILP model, maximising
// a priority-weighted earliness value and penalising soft-bound overflow.
package solver

import (
	"errors"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/task"
)

// ErrNoSolution is returned when the underlying solver reaches neither
// OPTIMAL nor FEASIBLE status within the search budget.
var ErrNoSolution = errors.New("solver: no feasible assignment found")

// Options configures a single Solve call.
type Options struct {
	// SoftMarginsEnabled selects the strict/penalty overflow model. When
	// false, tasks assigned to a slot must fit its soft length exactly, with
	// no recourse to the hard margin.
	SoftMarginsEnabled bool
	// SearchBudget bounds the solver's internal search time. Zero selects a
	// conservative default.
	SearchBudget time.Duration
}

// Solve assigns every task to exactly one slot, respecting each slot's hard
// length bound and, when enabled, trading off its soft length bound against
// an overflow penalty. Assigned tasks are listed per-slot in their input
// order. It returns ErrNoSolution if no feasible assignment exists for the
// given slots; the caller is responsible for enlarging the horizon and
// retrying.
func Solve(tasks []task.Task, slots []domain.DaySlot, opts Options) ([]domain.Assignment, error) {
	assignments := make([]domain.Assignment, len(slots))
	for i, s := range slots {
		assignments[i] = domain.Assignment{Slot: s}
	}
	if len(tasks) == 0 {
		return assignments, nil
	}
	if len(slots) == 0 {
		return nil, ErrNoSolution
	}

	m := mip.NewModel()
	m.Objective().SetMaximize()

	var totalDemand float64
	for _, t := range tasks {
		totalDemand += float64(t.DurationMinutes())
	}
	bigM := totalDemand + 1

	x := make([][]mip.Bool, len(slots))
	for s := range slots {
		x[s] = make([]mip.Bool, len(tasks))
		for t := range tasks {
			x[s][t] = m.NewBool()
		}
	}

	var strict []mip.Bool
	var penalty []mip.Float
	if opts.SoftMarginsEnabled {
		strict = make([]mip.Bool, len(slots))
		penalty = make([]mip.Float, len(slots))
		for s := range slots {
			strict[s] = m.NewBool()
			penalty[s] = m.NewFloat(0, totalDemand)
		}
	}

	for t := range tasks {
		uniqueness := m.NewConstraint(mip.Equal, 1.0)
		for s := range slots {
			uniqueness.NewTerm(1.0, x[s][t])
		}
	}

	for s, slot := range slots {
		hardMinutes := slot.HardLength().Minutes()
		hard := m.NewConstraint(mip.LessThanOrEqual, hardMinutes)
		for t, tk := range tasks {
			hard.NewTerm(float64(tk.DurationMinutes()), x[s][t])
		}

		softMinutes := slot.SoftLength().Minutes()
		if opts.SoftMarginsEnabled {
			// strict[s] = 1 forces the assigned load at or below softMinutes;
			// strict[s] = 0 relaxes that bound by bigM.
			relaxedUpper := m.NewConstraint(mip.LessThanOrEqual, softMinutes+bigM)
			for t, tk := range tasks {
				relaxedUpper.NewTerm(float64(tk.DurationMinutes()), x[s][t])
			}
			relaxedUpper.NewTerm(bigM, strict[s])

			// penalty[s] tracks the overflow above softMinutes once strict[s] = 0.
			overflow := m.NewConstraint(mip.GreaterThanOrEqual, -softMinutes)
			for t, tk := range tasks {
				overflow.NewTerm(-float64(tk.DurationMinutes()), x[s][t])
			}
			overflow.NewTerm(bigM, strict[s])
			overflow.NewTerm(1.0, penalty[s])

			// penalty[s] collapses to zero whenever strict[s] = 1.
			zeroWhenStrict := m.NewConstraint(mip.LessThanOrEqual, bigM)
			zeroWhenStrict.NewTerm(1.0, penalty[s])
			zeroWhenStrict.NewTerm(bigM, strict[s])
		} else {
			soft := m.NewConstraint(mip.LessThanOrEqual, softMinutes)
			for t, tk := range tasks {
				soft.NewTerm(float64(tk.DurationMinutes()), x[s][t])
			}
		}

		for t, tk := range tasks {
			m.Objective().NewTerm(Value(tk.Priority, slot.DayIndex), x[s][t])
		}
		if opts.SoftMarginsEnabled {
			m.Objective().NewTerm(-1.0, penalty[s])
		}
	}

	mipSolver, err := mip.NewSolver(mip.Highs, m)
	if err != nil {
		return nil, err
	}

	budget := opts.SearchBudget
	if budget <= 0 {
		budget = 10 * time.Second
	}
	solveOptions := mip.NewSolveOptions()
	if err := solveOptions.SetMaximumDuration(budget); err != nil {
		return nil, err
	}

	solution, err := mipSolver.Solve(solveOptions)
	if err != nil {
		return nil, err
	}
	if solution == nil || !(solution.IsOptimal() || solution.IsSubOptimal()) {
		return nil, ErrNoSolution
	}

	for s, slot := range slots {
		assigned := domain.Assignment{Slot: slot}
		for t, tk := range tasks {
			if solution.Value(x[s][t]) > 0.5 {
				assigned.Tasks = append(assigned.Tasks, tk)
			}
		}
		assignments[s] = assigned
	}
	return assignments, nil
}
