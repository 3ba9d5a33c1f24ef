package utils

import "time"

// Clock supplies "now" to code that stamps generated reports and records.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns At. Tests move it with Set.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

func (c *FixedClock) Set(now time.Time) {
	c.At = now
}

// MonthToDate returns the first day of the current month and today, both at midnight in loc.
func MonthToDate(c Clock, loc *time.Location) (time.Time, time.Time) {
	now := c.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return today.AddDate(0, 0, 1-today.Day()), today
}
