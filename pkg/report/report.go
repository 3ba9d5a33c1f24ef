package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/worklog"
)

var (
	ErrEmptySelection = errors.New("no developers selected")
	ErrNoPublisher    = errors.New("no worklog store configured")
)

type Request struct {
	Start      time.Time
	End        time.Time
	Developers []string
	// ExtraHolidays are YYYY-MM-DD dates treated as holidays for this report only.
	ExtraHolidays         []string
	IncludeStoredHolidays bool
	// DailyTargetHours overrides the configured target when positive.
	DailyTargetHours float64
}

// Report is one generated worklog report.
type Report struct {
	Start            time.Time
	End              time.Time
	DailyTargetHours float64
	WorkingDays      int
	Days             []calendar.Day
	Summaries        []worklog.DeveloperSummary
	GeneratedAt      time.Time
}

// FileName is the download name of the report in the given format.
func (r Report) FileName(extension string) string {
	return fmt.Sprintf("Worklog_Report_%s_to_%s.%s", calendar.FormatDate(r.Start), calendar.FormatDate(r.End), extension)
}
