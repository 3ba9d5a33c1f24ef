package report

import (
	"fmt"
	"strconv"

	"github.com/anywhereworks/worklogs/pkg/worklog"
)

// Renderer turns a report into a downloadable document.
type Renderer interface {
	Render(rep Report) ([]byte, error)
	ContentType() string
	Extension() string
}

var (
	summaryHeader = []string{"Developer", "Status", "Completed Tickets", "Days Worked", "Total Hours",
		"Monthly Target", "Avg Hours/Day", "Efficiency"}
	dailyHeader = []string{"Developer", "Date", "Hours Worked", "Daily Target", "Status", "Day Type",
		"Tickets Completed"}
)

func summaryRow(s worklog.DeveloperSummary) []string {
	return []string{
		s.Developer,
		onlineLabel(s.Online),
		strconv.Itoa(s.TicketsCompleted),
		strconv.Itoa(s.DaysWorked),
		hours(s.TotalHours),
		hours(s.TargetHours),
		hours(s.AvgHoursPerDay),
		fmt.Sprintf("%.1f%%", s.EfficiencyPercent),
	}
}

func dailyRow(developer string, target float64, e worklog.DailyEntry) []string {
	return []string{
		developer,
		e.Date,
		hours(e.Hours),
		hours(target),
		achieved(e.MetTarget),
		string(e.DayType),
		strconv.Itoa(len(e.Items)),
	}
}

func onlineLabel(online bool) string {
	if online {
		return "Online"
	}
	return "Offline"
}

func achieved(met bool) string {
	if met {
		return "Yes"
	}
	return "No"
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
