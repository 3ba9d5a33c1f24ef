package worklog

import (
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
)

// DefaultDailyTargetHours is the expected output of one developer per working day.
const DefaultDailyTargetHours = 6.0

// WorkItem is a completed ticket credited to a single developer.
type WorkItem struct {
	ID        string
	Project   string
	Title     string
	Developer string
	Hours     float64
	// CompletedAt decides the bucket date. Items without it are never aggregated.
	CompletedAt *time.Time
	Online      bool
}

// DayBucket accumulates the work of one developer on one date.
type DayBucket struct {
	Hours float64
	Items []WorkItem
}

type DailyEntry struct {
	Date      string
	DayType   calendar.DayType
	Hours     float64
	MetTarget bool
	Items     []WorkItem
}

type DeveloperSummary struct {
	Developer         string
	DaysWorked        int
	TicketsCompleted  int
	TotalHours        float64
	TargetHours       float64
	EfficiencyPercent float64
	AvgHoursPerDay    float64
	Online            bool
	DailyBreakdown    []DailyEntry
}
