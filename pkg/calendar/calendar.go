package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the canonical form of a calendar date.
const DateLayout = "2006-01-02"

var ErrInvalidRange = errors.New("start date is after end date")

type DayType string

const (
	Working DayType = "working"
	Weekend DayType = "weekend"
	Holiday DayType = "holiday"
)

// Day is a single classified date of a reporting window. Date is always local midnight.
type Day struct {
	Date time.Time
	Type DayType
}

func (d Day) Key() string {
	return FormatDate(d.Date)
}

// Expand returns one Day per calendar date from start to end inclusive, in ascending order.
// Both bounds are truncated to midnight in the location of start before they are compared.
func Expand(start time.Time, end time.Time, holidays HolidaySet) ([]Day, error) {
	loc := start.Location()
	from := Midnight(start, loc)
	to := Midnight(end, loc)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, FormatDate(from), FormatDate(to))
	}

	// days are counted, not stepped: where DST starts at midnight the transition day begins at 01:00
	n := daysBetween(from, to)
	year, month, day := from.Date()
	days := make([]Day, 0, n+1)
	for i := 0; i <= n; i++ {
		date := time.Date(year, month, day+i, 0, 0, 0, 0, loc)
		days = append(days, Day{Date: date, Type: Classify(date, holidays)})
	}
	return days, nil
}

// Classify checks the holiday set first, then the weekday.
func Classify(date time.Time, holidays HolidaySet) DayType {
	if holidays.Contains(date) {
		return Holiday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	}
	return Working
}

// WorkingDays counts the days classified as Working.
func WorkingDays(days []Day) int {
	count := 0
	for _, d := range days {
		if d.Type == Working {
			count++
		}
	}
	return count
}

// Midnight returns the start of the date t falls on, as seen in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as local midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return date, nil
}

func daysBetween(from, to time.Time) int {
	// Calendar arithmetic in UTC so DST transitions do not shorten a day.
	y1, m1, d1 := from.Date()
	y2, m2, d2 := to.Date()
	a := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	b := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
