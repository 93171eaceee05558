// Package freeinterval subtracts fixed calendar events from a recurring
// daily work template to produce the concrete per-day slots the solver
// operates on.
package freeinterval

import (
	"sort"
	"time"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
)

// dayStartEnd returns 00:00 and 23:59:00 of the calendar day containing t.
func dayStartEnd(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.Add(23*time.Hour + 59*time.Minute)
	return start, end
}

// interval is a bare [start, end) span, used internally while subtracting
// fixed events before the hard margins are computed.
type interval struct {
	start time.Time
	end   time.Time
}

// subtract removes e from i, returning 0, 1, or 2 resulting sub-intervals.
func subtract(i interval, e domain.FixedEvent) []interval {
	if !e.Overlaps(i.start, i.end) {
		return []interval{i}
	}
	if !e.Start.After(i.start) && !e.End.Before(i.end) {
		return nil
	}
	if !e.Start.After(i.start) && e.End.Before(i.end) {
		return []interval{{start: e.End, end: i.end}}
	}
	if e.Start.After(i.start) && !e.End.Before(i.end) {
		return []interval{{start: i.start, end: e.Start}}
	}
	return []interval{
		{start: i.start, end: e.Start},
		{start: e.End, end: i.end},
	}
}

// subtractAll applies every user-owned fixed event to a single interval,
// accumulating the resulting free sub-intervals.
func subtractAll(i interval, events []domain.FixedEvent) []interval {
	remaining := []interval{i}
	for _, e := range events {
		if !e.IsUserOwned() {
			continue
		}
		var next []interval
		for _, r := range remaining {
			next = append(next, subtract(r, e)...)
		}
		remaining = next
	}
	return remaining
}

// Generate builds the ordered sequence of DaySlots covering days 0..horizon-1
// for the given Work templates, clipped against now for day 0 and subtracted
// against userEvents. events should intersect [now, now + horizon days plus
// a buffer]; events not owned by the user (application-owned) are ignored.
func Generate(templates []domain.WindowTemplate, horizon int, now time.Time, events []domain.FixedEvent) []domain.DaySlot {
	var work []domain.WindowTemplate
	for _, w := range templates {
		if w.Kind == domain.WindowKindWork {
			work = append(work, w)
		}
	}

	var userEvents []domain.FixedEvent
	for _, e := range events {
		if e.IsUserOwned() {
			userEvents = append(userEvents, e)
		}
	}
	sort.Slice(userEvents, func(i, j int) bool {
		return userEvents[i].Start.Before(userEvents[j].Start)
	})

	var slots []domain.DaySlot
	for d := 0; d < horizon; d++ {
		date := now.AddDate(0, 0, d)
		for _, tmpl := range work {
			start, end := tmpl.OnDay(date)
			if d == 0 {
				if !end.After(now) {
					continue
				}
				if start.Before(now) {
					start = now
				}
			}
			if !end.After(start) {
				continue
			}

			dayEvents := eventsOnDay(userEvents, date)
			for _, free := range subtractAll(interval{start: start, end: end}, dayEvents) {
				if !free.end.After(free.start) {
					continue
				}
				slot := buildSlot(d, tmpl, free, dayEvents)
				// On day 0 the hard interval never reaches back before now.
				if d == 0 && slot.HardStart.Before(now) {
					slot.HardStart = now
				}
				slots = append(slots, slot)
			}
		}
	}
	return slots
}

// eventsOnDay returns the user events that could conceivably border a window
// on the calendar day containing date, loosely bounded so cross-midnight
// margin computation still sees the relevant neighbours.
func eventsOnDay(events []domain.FixedEvent, date time.Time) []domain.FixedEvent {
	dayStart, dayEnd := dayStartEnd(date)
	var out []domain.FixedEvent
	for _, e := range events {
		if e.End.Before(dayStart) || e.Start.After(dayEnd) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// buildSlot computes a free sub-interval's hard margins by locating the
// nearest bordering user events, per the conservative stance of re-deriving
// margins from the (possibly now-clipped) interval rather than the original
// template bounds.
func buildSlot(day int, tmpl domain.WindowTemplate, free interval, dayEvents []domain.FixedEvent) domain.DaySlot {
	dayStart, dayEnd := dayStartEnd(free.start)

	marginLowFloor := dayStart
	marginHighCeil := dayEnd

	for _, e := range dayEvents {
		if !e.End.After(free.start) && e.End.After(marginLowFloor) {
			marginLowFloor = e.End
		}
		if !e.Start.Before(free.end) && e.Start.Before(marginHighCeil) {
			marginHighCeil = e.Start
		}
	}

	return domain.DaySlot{
		DayIndex:      day,
		Template:      tmpl,
		ConcreteStart: free.start,
		ConcreteEnd:   free.end,
		HardStart:     marginLowFloor,
		HardEnd:       marginHighCeil,
	}
}
