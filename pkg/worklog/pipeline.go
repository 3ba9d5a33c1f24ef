package worklog

import (
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
)

// Params carries every input of a report run. Nothing else is consulted.
type Params struct {
	Start            time.Time
	End              time.Time
	Holidays         calendar.HolidaySet
	Developers       []string
	Items            []WorkItem
	DailyTargetHours float64
}

type Result struct {
	Days        []calendar.Day
	WorkingDays int
	Summaries   []DeveloperSummary
}

// Run expands the calendar, aggregates the items and reduces them to per-developer summaries.
// A non-positive DailyTargetHours falls back to DefaultDailyTargetHours.
func Run(p Params) (Result, error) {
	days, err := calendar.Expand(p.Start, p.End, p.Holidays)
	if err != nil {
		return Result{}, err
	}
	target := p.DailyTargetHours
	if target <= 0 {
		target = DefaultDailyTargetHours
	}
	agg := Aggregate(p.Items, days, p.Developers)
	return Result{
		Days:        days,
		WorkingDays: calendar.WorkingDays(days),
		Summaries:   Reduce(agg, days, target),
	}, nil
}
