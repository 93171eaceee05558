package domain

import (
	"errors"
	"time"
)

// ErrInvalidFixedEvent is a BadInput violation: a fixed event's end must be
// after its start.
var ErrInvalidFixedEvent = errors.New("fixed event end must be after start")

// FixedEvent is an external calendar event that constrains scheduling.
// Events tagged as application-owned are discarded before subtraction;
// only user-owned events shape the free intervals the solver sees.
type FixedEvent struct {
	Start time.Time
	End   time.Time
	Tag   Tag
}

// NewFixedEvent validates and constructs a FixedEvent.
func NewFixedEvent(start, end time.Time, tag Tag) (FixedEvent, error) {
	if !end.After(start) {
		return FixedEvent{}, ErrInvalidFixedEvent
	}
	return FixedEvent{Start: start, End: end, Tag: tag}, nil
}

// IsUserOwned reports whether this event was created by the user (not the
// application) and therefore constrains scheduling.
func (e FixedEvent) IsUserOwned() bool {
	return !IsApplicationOwned(e.Tag)
}

// Overlaps reports whether e intersects [start, end).
func (e FixedEvent) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && start.Before(e.End)
}

// FixedEventReader is the read interface onto the external calendar service used to
// source fixed events for the Free-Interval Generator.
type FixedEventReader interface {
	// ListEvents returns events intersecting [start, end].
	ListEvents(start, end time.Time) ([]FixedEvent, error)
}
