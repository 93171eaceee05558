// Package feasibility estimates the minimum scheduling horizon needed to
// absorb a set of pending tasks into a recurring daily work template.
package feasibility

import (
	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
	"github.com/kestrelsoft/scheduler/internal/task"
)

// Estimate returns the least D such that D times the template's total daily
// duration covers the tasks' total duration. Tasks and templates are both
// measured in minutes.
//
// Estimate fails with domain.ErrNoCapacity when templates is empty but tasks
// is not: there is no D for which the inequality can ever hold.
func Estimate(tasks []task.Task, templates []domain.WindowTemplate) (int, error) {
	var demand int
	for _, t := range tasks {
		demand += t.DurationMinutes()
	}
	if demand == 0 {
		return 1, nil
	}

	var dailyCapacity int
	for _, w := range templates {
		dailyCapacity += int(w.Duration().Minutes())
	}
	if dailyCapacity == 0 {
		return 0, domain.ErrNoCapacity{}
	}

	d := demand / dailyCapacity
	if demand%dailyCapacity != 0 {
		d++
	}
	if d < 1 {
		d = 1
	}
	return d, nil
}
