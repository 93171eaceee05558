// Package placement chooses a concrete clock time for an assignment's
// concatenated block of tasks inside its slot, using the soft interval when
// the block fits and expanding into the hard margin otherwise.
package placement

import (
	"time"

	"github.com/kestrelsoft/scheduler/internal/scheduling/domain"
)

// Place walks a's assigned tasks in their declared order and returns one
// TaskEvent per task, packed contiguously starting from the block's chosen
// start time.
func Place(a domain.Assignment) []domain.TaskEvent {
	if len(a.Tasks) == 0 {
		return nil
	}

	total := time.Duration(a.TotalDuration()) * time.Minute
	start := blockStart(a.Slot, total)

	events := make([]domain.TaskEvent, 0, len(a.Tasks))
	cursor := start
	for _, t := range a.Tasks {
		end := cursor.Add(t.Duration)
		events = append(events, domain.TaskEvent{Task: t, Start: cursor, End: end})
		cursor = end
	}
	return events
}

// blockStart picks where the block of duration total begins within slot.
func blockStart(slot domain.DaySlot, total time.Duration) time.Time {
	softLen := slot.SoftLength()
	if total <= softLen {
		return noonHeuristic(slot, total)
	}
	return hardMarginFit(slot, total)
}

// noonHeuristic compares the two extreme placements within the soft
// interval and keeps whichever one centres the block closer to noon.
func noonHeuristic(slot domain.DaySlot, total time.Duration) time.Time {
	candidateStart := slot.ConcreteStart
	candidateEnd := slot.ConcreteEnd.Add(-total)

	noon := noonOf(slot.ConcreteStart)
	if distanceToNoon(candidateEnd, total, noon) < distanceToNoon(candidateStart, total, noon) {
		return candidateEnd
	}
	return candidateStart
}

func noonOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

func distanceToNoon(start time.Time, total time.Duration, noon time.Time) time.Duration {
	midpoint := start.Add(total / 2)
	d := midpoint.Sub(noon)
	if d < 0 {
		return -d
	}
	return d
}

// hardMarginFit finds the position of a length-total segment within
// [slot.HardStart, slot.HardEnd] that maximises overlap with
// [slot.ConcreteStart, slot.ConcreteEnd].
func hardMarginFit(slot domain.DaySlot, total time.Duration) time.Time {
	hardStart, hardEnd := slot.HardStart, slot.HardEnd

	overlapStart := slot.ConcreteStart
	if hardStart.After(overlapStart) {
		overlapStart = hardStart
	}
	overlapEnd := slot.ConcreteEnd
	if hardEnd.Before(overlapEnd) {
		overlapEnd = hardEnd
	}
	overlap := overlapEnd.Sub(overlapStart)

	clamp := func(t time.Time) time.Time {
		if t.Before(hardStart) {
			return hardStart
		}
		if last := hardEnd.Add(-total); t.After(last) {
			return last
		}
		return t
	}

	if overlap <= 0 {
		mid := hardStart.Add(hardEnd.Sub(hardStart) / 2)
		return clamp(mid.Add(-total / 2))
	}
	if overlap >= total {
		innerMid := overlapStart.Add(overlap / 2)
		return clamp(innerMid.Add(-total / 2))
	}
	return clamp(slot.ConcreteEnd.Add(-overlap))
}
