package domain

import (
	"time"

	"github.com/kestrelsoft/scheduler/internal/task"
)

// TaskEvent is a task with a concrete [start, end] timestamp, ready to write
// to the calendar. TaskEvents are the final pipeline artefact: they are
// written and then discarded, never persisted by the core.
type TaskEvent struct {
	Task  task.Task
	Start time.Time
	End   time.Time
}

// Duration returns End - Start, which must equal Task.Duration.
func (e TaskEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
