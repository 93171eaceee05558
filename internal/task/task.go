// Package task defines the Task entity read from the external task store.
package task

import (
	"errors"
	"time"

	sharedDomain "github.com/kestrelsoft/scheduler/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	// ErrNonPositiveDuration is a BadInput violation: a task's duration must be positive.
	ErrNonPositiveDuration = errors.New("task duration must be positive")
	// ErrInvalidPriority is a BadInput violation: priority must be in 0..6.
	ErrInvalidPriority = errors.New("task priority must be between 0 and 6")
)

// Priority is the urgency class of a task, 0 (most urgent) through 6 (least).
// Priority 0 means the task must be scheduled on day 0.
type Priority int

const (
	PriorityMustToday Priority = 0
	PriorityLowest    Priority = 6
)

// Valid reports whether p is within the admissible range.
func (p Priority) Valid() bool {
	return p >= PriorityMustToday && p <= PriorityLowest
}

// Status is the lifecycle state of a task in the upstream store.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusArchived
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	case StatusArchived:
		return "archived"
	default:
		return "unknown"
	}
}

// Task is a unit of work with a fixed duration and a priority class, as read
// from the upstream task store. The scheduling pipeline treats it as an
// immutable input.
type Task struct {
	sharedDomain.BaseEntity
	Name     string
	Priority Priority
	Duration time.Duration
	DueDate  *time.Time
	Status   Status
}

// New validates and constructs a Task. Durations are supplied in minutes by
// the upstream store; callers convert to time.Duration before calling New.
func New(id uuid.UUID, name string, priority Priority, duration time.Duration, dueDate *time.Time, status Status) (Task, error) {
	if duration <= 0 {
		return Task{}, ErrNonPositiveDuration
	}
	if !priority.Valid() {
		return Task{}, ErrInvalidPriority
	}
	return Task{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, time.Now().UTC(), time.Now().UTC()),
		Name:       name,
		Priority:   priority,
		Duration:   duration,
		DueDate:    dueDate,
		Status:     status,
	}, nil
}

// DurationMinutes returns the task's duration in whole minutes, the unit the
// upstream store and the solver both operate in.
func (t Task) DurationMinutes() int {
	return int(t.Duration / time.Minute)
}

// Store is the read-only interface onto the external task store.
// Out of scope: persistence of tasks is owned entirely by the upstream store.
type Store interface {
	PendingTasks() ([]Task, error)
}
