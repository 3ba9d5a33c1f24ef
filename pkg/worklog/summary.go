package worklog

import (
	"math"

	"github.com/anywhereworks/worklogs/pkg/calendar"
)

// Reduce turns the aggregated buckets into one summary per developer, in aggregation order.
//
// The target is the number of working days in the calendar times dailyTargetHours and is the same for every developer.
// DaysWorked and MetTarget do not look at the day type, so work logged on weekends and holidays counts towards both.
func Reduce(agg *Aggregation, days []calendar.Day, dailyTargetHours float64) []DeveloperSummary {
	workingDays := calendar.WorkingDays(days)
	targetHours := float64(workingDays) * dailyTargetHours

	summaries := make([]DeveloperSummary, 0, len(agg.Developers()))
	for _, developer := range agg.Developers() {
		summaries = append(summaries, reduceDeveloper(developer, agg.Buckets(developer), days, dailyTargetHours, targetHours))
	}
	return summaries
}

func reduceDeveloper(
	developer string,
	buckets map[string]*DayBucket,
	days []calendar.Day,
	dailyTargetHours float64,
	targetHours float64,
) DeveloperSummary {
	summary := DeveloperSummary{
		Developer:      developer,
		TargetHours:    targetHours,
		DailyBreakdown: make([]DailyEntry, 0, len(days)),
	}

	// sums follow calendar order, never map order
	tickets := make(map[string]struct{})
	for _, day := range days {
		entry := DailyEntry{
			Date:    day.Key(),
			DayType: day.Type,
			Items:   []WorkItem{},
		}
		if bucket, ok := buckets[entry.Date]; ok {
			entry.Hours = bucket.Hours
			entry.Items = bucket.Items
			summary.TotalHours += bucket.Hours
			if bucket.Hours > 0 {
				summary.DaysWorked++
			}
			for _, item := range bucket.Items {
				tickets[item.ID] = struct{}{}
				if item.Online {
					summary.Online = true
				}
			}
		}
		entry.MetTarget = entry.Hours >= dailyTargetHours
		summary.DailyBreakdown = append(summary.DailyBreakdown, entry)
	}
	summary.TicketsCompleted = len(tickets)

	if targetHours > 0 {
		summary.EfficiencyPercent = round1(summary.TotalHours / targetHours * 100)
	}
	if summary.DaysWorked > 0 {
		summary.AvgHoursPerDay = round1(summary.TotalHours / float64(summary.DaysWorked))
	}
	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
