package dailylog

import (
	"errors"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/worklog"
	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("daily worklog not found")

type DevStatus string

const (
	NotComplete DevStatus = "notcomplete"
	Completed   DevStatus = "completed"
)

func ParseDevStatus(s string) (DevStatus, bool) {
	switch DevStatus(s) {
	case NotComplete, Completed:
		return DevStatus(s), true
	}
	return "", false
}

const (
	StatusMet    = "Yes"
	StatusNotMet = "No"
)

type TicketEntry struct {
	TicketNo string  `json:"ticketNo"`
	Project  string  `json:"project"`
	Title    string  `json:"title"`
	Hours    float64 `json:"hours"`
}

// Record is one day of one developer's report, as kept by the worklog store.
type Record struct {
	Id          uuid.UUID
	Developer   string
	Date        time.Time
	HoursWorked float64
	DailyTarget float64
	Status      string
	IsOnline    bool
	Tickets     []TicketEntry
	DayType     calendar.DayType
	PeriodStart time.Time
	PeriodEnd   time.Time
	Hidden      bool
	DevStatus   DevStatus
	GeneratedAt time.Time
}

func statusFor(hours, target float64) string {
	if hours >= target {
		return StatusMet
	}
	return StatusNotMet
}

// FromSummaries flattens every daily breakdown entry of every summary into a record.
func FromSummaries(summaries []worklog.DeveloperSummary, start, end time.Time, dailyTarget float64, generatedAt time.Time) []Record {
	loc := start.Location()
	records := make([]Record, 0)
	for _, summary := range summaries {
		for _, entry := range summary.DailyBreakdown {
			date, err := calendar.ParseDate(entry.Date, loc)
			if err != nil {
				continue
			}
			tickets := make([]TicketEntry, 0, len(entry.Items))
			for _, item := range entry.Items {
				tickets = append(tickets, TicketEntry{
					TicketNo: item.ID,
					Project:  item.Project,
					Title:    item.Title,
					Hours:    item.Hours,
				})
			}
			status := StatusNotMet
			if entry.MetTarget {
				status = StatusMet
			}
			records = append(records, Record{
				Id:          uuid.New(),
				Developer:   summary.Developer,
				Date:        date,
				HoursWorked: entry.Hours,
				DailyTarget: dailyTarget,
				Status:      status,
				IsOnline:    summary.Online,
				Tickets:     tickets,
				DayType:     entry.DayType,
				PeriodStart: start,
				PeriodEnd:   end,
				DevStatus:   NotComplete,
				GeneratedAt: generatedAt,
			})
		}
	}
	return records
}

// Filter selects stored records. Zero values do not filter.
type Filter struct {
	// Developers matches any of the identities, case-insensitively.
	Developers    []string
	Project       string
	From          *time.Time
	To            *time.Time
	DayType       calendar.DayType
	DevStatus     DevStatus
	IncludeHidden bool
	SortBy        string
	Descending    bool
	Limit         int
	Offset        int
}

type Page struct {
	Records []Record
	Total   int
}

// Edit replaces the tickets of a stored day. Nil HoursWorked means the ticket sum.
type Edit struct {
	HoursWorked *float64
	Tickets     []TicketEntry
}
