package domain

import "time"

// DaySlot is a concrete, date-bound, event-subtracted instance of a
// WindowTemplate. ConcreteStart/ConcreteEnd is the soft sub-interval
// left after subtracting user fixed events; HardStart/HardEnd extends that
// sub-interval out to the neighbouring user events (or day boundaries),
// bounding how far a task block may overflow the soft interval.
type DaySlot struct {
	DayIndex      int
	Template      WindowTemplate
	ConcreteStart time.Time
	ConcreteEnd   time.Time
	HardStart     time.Time
	HardEnd       time.Time
}

// SoftLength is the duration of the concrete (non-hard) sub-interval.
func (s DaySlot) SoftLength() time.Duration {
	return s.ConcreteEnd.Sub(s.ConcreteStart)
}

// HardLength is the duration of the hard interval, the inviolable bound
// that defines feasibility.
func (s DaySlot) HardLength() time.Duration {
	return s.HardEnd.Sub(s.HardStart)
}

// MarginLow is the gap between the hard start and the concrete start.
func (s DaySlot) MarginLow() time.Duration {
	return s.ConcreteStart.Sub(s.HardStart)
}

// MarginHigh is the gap between the concrete end and the hard end.
func (s DaySlot) MarginHigh() time.Duration {
	return s.HardEnd.Sub(s.ConcreteEnd)
}
