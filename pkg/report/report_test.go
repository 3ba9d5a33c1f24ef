package report

import (
	"context"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/anywhereworks/worklogs/pkg/worklog"
	"github.com/stretchr/testify/assert"
)

var (
	location, _ = time.LoadLocation("Asia/Kolkata")
	adminCtx    = user.WithUser(context.Background(), user.User{Email: "anu@anywhereworks.in", Name: "Anu", Role: user.Admin})
	employeeCtx = user.WithUser(context.Background(), user.User{Email: "binu@anywhereworks.in", Name: "Binu", Role: user.Employee})
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, location)
}

// sampleReport covers Monday and Tuesday for one online developer with a single 5h ticket on Monday.
func sampleReport() Report {
	completed := time.Date(2024, 3, 4, 13, 30, 0, 0, location)
	item := worklog.WorkItem{ID: "T-1", Project: "Payroll", Title: "Fix payslip", Developer: "anu", Hours: 5, CompletedAt: &completed, Online: true}
	return Report{
		Start:            day(2024, 3, 4),
		End:              day(2024, 3, 5),
		DailyTargetHours: 6,
		WorkingDays:      2,
		Days: []calendar.Day{
			{Date: day(2024, 3, 4), Type: calendar.Working},
			{Date: day(2024, 3, 5), Type: calendar.Working},
		},
		Summaries: []worklog.DeveloperSummary{{
			Developer:         "anu",
			DaysWorked:        1,
			TicketsCompleted:  1,
			TotalHours:        5,
			TargetHours:       12,
			EfficiencyPercent: 41.7,
			AvgHoursPerDay:    5,
			Online:            true,
			DailyBreakdown: []worklog.DailyEntry{
				{Date: "2024-03-04", DayType: calendar.Working, Hours: 5, Items: []worklog.WorkItem{item}},
				{Date: "2024-03-05", DayType: calendar.Working, Items: []worklog.WorkItem{}},
			},
		}},
		GeneratedAt: time.Date(2024, 3, 6, 10, 0, 0, 0, location),
	}
}

func TestReport_FileName(t *testing.T) {
	assert.Equal(t, "Worklog_Report_2024-03-04_to_2024-03-05.xlsx", sampleReport().FileName("xlsx"))
}
