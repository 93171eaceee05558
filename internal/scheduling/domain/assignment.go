package domain

import "github.com/kestrelsoft/scheduler/internal/task"

// Assignment is the solver's choice of which tasks go into a given DaySlot.
// Tasks are listed in their input order, as required by the solver's
// determinism contract.
type Assignment struct {
	Slot  DaySlot
	Tasks []task.Task
}

// TotalDuration sums the duration of the assigned tasks.
func (a Assignment) TotalDuration() (total int) {
	for _, t := range a.Tasks {
		total += t.DurationMinutes()
	}
	return total
}
