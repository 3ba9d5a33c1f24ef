package worklog

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomItems(r *rand.Rand, developers []string, from time.Time, spanDays int, n int) []WorkItem {
	items := make([]WorkItem, 0, n)
	for i := 0; i < n; i++ {
		item := WorkItem{
			ID:        fmt.Sprintf("T-%d", r.Intn(n)),
			Project:   "Project",
			Title:     "Ticket",
			Developer: developers[r.Intn(len(developers))],
			Hours:     float64(r.Intn(13)) / 2,
		}
		if r.Intn(10) > 0 {
			completed := from.AddDate(0, 0, r.Intn(spanDays+4)-2).Add(time.Duration(r.Intn(24*60)) * time.Minute)
			item.CompletedAt = &completed
		}
		items = append(items, item)
	}
	return items
}

func TestRun_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	developers := []string{"anu@anywhereworks.in", "binu@anywhereworks.in", "chitra@anywhereworks.in"}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, location)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, location)

	for run := 0; run < 20; run++ {
		t.Run(fmt.Sprintf("run %d", run), func(t *testing.T) {
			// given
			params := Params{
				Start:            start,
				End:              end,
				Holidays:         calendar.NewHolidaySet("2024-05-01", "2024-05-23"),
				Developers:       developers[:1+r.Intn(len(developers))],
				Items:            randomItems(r, developers, start, 31, 200),
				DailyTargetHours: DefaultDailyTargetHours,
			}

			// when
			result, err := Run(params)

			// then
			require.NoError(t, err)
			require.Len(t, result.Days, 31)
			assert.Equal(t, 21, result.WorkingDays)
			require.Len(t, result.Summaries, len(params.Developers))
			for i, s := range result.Summaries {
				assert.Equal(t, params.Developers[i], s.Developer)
				assert.Len(t, s.DailyBreakdown, len(result.Days))
				sum := 0.0
				for _, entry := range s.DailyBreakdown {
					sum += entry.Hours
				}
				assert.InDelta(t, s.TotalHours, sum, 1e-9)
				assert.Equal(t, float64(result.WorkingDays)*DefaultDailyTargetHours, s.TargetHours)
			}

			again, err := Run(params)
			require.NoError(t, err)
			assert.Equal(t, result, again)
		})
	}
}

func TestRun(t *testing.T) {
	t.Run("should fail on inverted range", func(t *testing.T) {
		_, err := Run(Params{
			Start:      time.Date(2024, 6, 9, 0, 0, 0, 0, location),
			End:        time.Date(2024, 6, 3, 0, 0, 0, 0, location),
			Developers: []string{"A"},
		})

		assert.ErrorIs(t, err, calendar.ErrInvalidRange)
	})

	t.Run("should fall back to the default daily target", func(t *testing.T) {
		result, err := Run(Params{
			Start:      time.Date(2024, 6, 3, 0, 0, 0, 0, location),
			End:        time.Date(2024, 6, 9, 0, 0, 0, 0, location),
			Developers: []string{"A"},
			Items:      []WorkItem{{ID: "T-1", Developer: "A", Hours: 6, CompletedAt: at(2024, 6, 4, 16)}},
		})

		require.NoError(t, err)
		assert.Equal(t, 30.0, result.Summaries[0].TargetHours)
		assert.True(t, result.Summaries[0].DailyBreakdown[1].MetTarget)
	})

	t.Run("should return no summaries for an empty selection", func(t *testing.T) {
		result, err := Run(Params{
			Start: time.Date(2024, 6, 3, 0, 0, 0, 0, location),
			End:   time.Date(2024, 6, 9, 0, 0, 0, 0, location),
		})

		require.NoError(t, err)
		assert.Empty(t, result.Summaries)
		assert.Len(t, result.Days, 7)
	})
}
