package worklog

import (
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

// Aggregation maps developer -> date key -> bucket and remembers the order developers were selected in.
type Aggregation struct {
	developers []string
	buckets    map[string]map[string]*DayBucket
}

func newAggregation(selected []string) *Aggregation {
	agg := &Aggregation{
		developers: make([]string, 0, len(selected)),
		buckets:    make(map[string]map[string]*DayBucket, len(selected)),
	}
	for _, developer := range selected {
		if _, seen := agg.buckets[developer]; seen {
			continue
		}
		agg.developers = append(agg.developers, developer)
		agg.buckets[developer] = make(map[string]*DayBucket)
	}
	return agg
}

// Developers returns the selected developers in selection order, without duplicates.
func (a *Aggregation) Developers() []string {
	return a.developers
}

// Buckets returns the date-keyed buckets of a developer, or nil when the developer was not selected.
func (a *Aggregation) Buckets(developer string) map[string]*DayBucket {
	return a.buckets[developer]
}

// Bucket returns the bucket of a developer on a date (YYYY-MM-DD), if any work landed there.
func (a *Aggregation) Bucket(developer string, date string) (*DayBucket, bool) {
	bucket, ok := a.buckets[developer][date]
	return bucket, ok
}

func (a *Aggregation) add(developer string, date string, item WorkItem) {
	byDate := a.buckets[developer]
	bucket, ok := byDate[date]
	if !ok {
		bucket = &DayBucket{}
		byDate[date] = bucket
	}
	bucket.Items = append(bucket.Items, item)
	bucket.Hours += item.Hours
}

// Aggregate buckets every item of a selected developer into the calendar day it was completed on.
// Items without a completion time, or completed outside the calendar, are skipped.
// Every selected developer is present in the result even without any matching item.
func Aggregate(items []WorkItem, days []calendar.Day, selected []string) *Aggregation {
	agg := newAggregation(selected)
	if len(days) == 0 || len(agg.developers) == 0 {
		return agg
	}

	loc := days[0].Date.Location()
	inRange := make(map[string]struct{}, len(days))
	for _, d := range days {
		inRange[d.Key()] = struct{}{}
	}

	bucketed, skipped := 0, 0
	for _, item := range items {
		if _, ok := agg.buckets[item.Developer]; !ok {
			continue
		}
		if item.CompletedAt == nil {
			skipped++
			continue
		}
		date := localDate(*item.CompletedAt, loc)
		if _, ok := inRange[date]; !ok {
			skipped++
			continue
		}
		agg.add(item.Developer, date, item)
		bucketed++
	}
	log.Debugf("aggregated %d items for %d developers, skipped %d", bucketed, len(agg.developers), skipped)
	return agg
}

func localDate(t time.Time, loc *time.Location) string {
	return calendar.FormatDate(t.In(loc))
}
