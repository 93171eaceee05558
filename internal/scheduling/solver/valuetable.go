package solver

import "github.com/kestrelsoft/scheduler/internal/task"

// valueTable is the per-priority, per-day coefficient the objective
// maximises. It is a design parameter, not a derived quantity: isolating it
// behind Value keeps a future per-user learned table a local change.
var valueTable = [7][3]float64{
	0: {100000, 0, 0},
	1: {100, 50, 10},
	2: {50, 25, 5},
	3: {40, 20, 3},
	4: {30, 15, 2},
	5: {20, 10, 1},
	6: {10, 5, 0.5},
}

// Value returns the objective coefficient for placing a task of the given
// priority on the given day index. Day indices beyond 2 reuse the day-2
// (flat tail) column.
func Value(priority task.Priority, day int) float64 {
	if day > 2 {
		day = 2
	}
	if priority < 0 || int(priority) >= len(valueTable) {
		return 0
	}
	return valueTable[priority][day]
}
