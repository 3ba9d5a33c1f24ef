package calendar

import (
	"sort"
	"time"
)

// HolidaySet holds holiday dates keyed by their YYYY-MM-DD form. A nil set contains nothing.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

func (s HolidaySet) Add(date string) {
	s[date] = struct{}{}
}

// Merge adds every date of other to s.
func (s HolidaySet) Merge(other HolidaySet) {
	for d := range other {
		s[d] = struct{}{}
	}
}

// Contains matches on the calendar date of t in its own location.
func (s HolidaySet) Contains(t time.Time) bool {
	return s.ContainsKey(FormatDate(t))
}

func (s HolidaySet) ContainsKey(date string) bool {
	_, ok := s[date]
	return ok
}

// Dates returns the holidays in ascending order.
func (s HolidaySet) Dates() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
