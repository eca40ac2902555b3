package plant

import "time"

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Today returns the calendar day of clock's current time.
func Today(clock Clock) Date {
	return DateOf(clock.Now())
}
