// Package jsonstore is a minimal, file-based task.Store: it reads a flat
// JSON array of pending tasks from disk. It exists to make the scheduler
// binary runnable without a full task-management backend; the interface it
// satisfies (task.Store) is the only contract the pipeline depends on, so
// swapping in a real upstream store is a one-line change at the wiring site.
package jsonstore

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelsoft/scheduler/internal/shared/infrastructure/security"
	"github.com/kestrelsoft/scheduler/internal/task"
)

// record is the on-disk shape of a single task row.
type record struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Priority     int        `json:"priority"`
	DurationMins int        `json:"duration_minutes"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Status       string     `json:"status"`
}

func (r record) status() task.Status {
	switch r.Status {
	case "in_progress":
		return task.StatusInProgress
	case "completed":
		return task.StatusCompleted
	case "archived":
		return task.StatusArchived
	default:
		return task.StatusPending
	}
}

// Store reads pending tasks from a JSON file at Path.
type Store struct {
	Path string
}

// New returns a Store reading from path.
func New(path string) Store {
	return Store{Path: path}
}

// PendingTasks reads and parses the file, returning only rows whose status
// is "pending", empty, or any value other than "in_progress", "completed"
// and "archived".
func (s Store) PendingTasks() ([]task.Task, error) {
	data, err := security.SafeReadFile(s.Path)
	if err != nil {
		return nil, err
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	tasks := make([]task.Task, 0, len(records))
	for _, r := range records {
		if r.status() != task.StatusPending {
			continue
		}
		id, err := uuid.Parse(r.ID)
		if err != nil {
			id = uuid.New()
		}
		t, err := task.New(id, r.Name, task.Priority(r.Priority), time.Duration(r.DurationMins)*time.Minute, r.DueDate, r.status())
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
