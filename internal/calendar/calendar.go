// Package calendar defines the read/write contract onto the external
// calendar service that the scheduling pipeline consumes.
package calendar

import (
	"context"
	"errors"
	"time"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
)

// Event is an external calendar event as listed by the calendar service.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Tag         domain.Tag
}

// Client reads and writes events on the external calendar service. An
// implementation adapts one concrete provider (Google, CalDAV); the
// pipeline depends only on this interface.
type Client interface {
	// ListUpcoming returns events intersecting [start, end].
	ListUpcoming(ctx context.Context, start, end time.Time) ([]Event, error)
	// Insert creates a new event and returns its assigned id.
	Insert(ctx context.Context, e Event) (id string, err error)
	// Delete removes the event with the given id.
	Delete(ctx context.Context, id string) error
}

// ToFixedEvents adapts a Client's upcoming events into the domain's
// FixedEvent shape consumed by the free-interval generator.
func ToFixedEvents(events []Event) []domain.FixedEvent {
	out := make([]domain.FixedEvent, 0, len(events))
	for _, e := range events {
		fe, err := domain.NewFixedEvent(e.Start, e.End, e.Tag)
		if err != nil {
			continue
		}
		out = append(out, fe)
	}
	return out
}

// Write inserts one calendar event per TaskEvent, tagging each as
// application-owned. It keeps writing after an individual insert failure,
// collecting all failures instead of aborting the batch, and returns them
// joined, per the partial-failure contract: any event whose insert succeeded
// is persisted.
func Write(ctx context.Context, client Client, events []domain.TaskEvent, timezone *time.Location) error {
	var failures []error
	for _, te := range events {
		start := te.Start
		if timezone != nil {
			start = start.In(timezone)
		}
		end := te.End
		if timezone != nil {
			end = end.In(timezone)
		}
		_, err := client.Insert(ctx, Event{
			Summary:     te.Task.Name,
			Description: describeTask(te),
			Start:       start,
			End:         end,
			Tag:         domain.ApplicationTag,
		})
		if err != nil {
			failures = append(failures, domain.ErrCalendarWriteFailed{TaskName: te.Task.Name, Cause: err})
		}
	}
	return errors.Join(failures...)
}

func describeTask(te domain.TaskEvent) string {
	return "estimated duration: " + te.Duration().String()
}

// Erase lists upcoming events in [start, end] and deletes every one whose
// tag is application-owned, leaving the user's own events untouched.
func Erase(ctx context.Context, client Client, start, end time.Time) (int, error) {
	events, err := client.ListUpcoming(ctx, start, end)
	if err != nil {
		return 0, domain.ErrCalendarUnreachable{Cause: err}
	}

	var deleted int
	for _, e := range events {
		if !domain.IsApplicationOwned(e.Tag) {
			continue
		}
		if err := client.Delete(ctx, e.ID); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
