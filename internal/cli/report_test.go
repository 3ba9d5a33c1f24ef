package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anywhereworks/worklogs/internal/utils"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyReport() report.Report {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	return report.Report{
		Start:            time.Date(2024, 3, 4, 0, 0, 0, 0, loc),
		End:              time.Date(2024, 3, 8, 0, 0, 0, 0, loc),
		DailyTargetHours: 6,
		Days:             []calendar.Day{},
	}
}

func TestRender(t *testing.T) {
	t.Run("should pick the renderer by format", func(t *testing.T) {
		for format, extension := range map[string]string{"csv": "csv", "XLSX": "xlsx", "pdf": "pdf", "json": "json"} {
			body, ext, err := render(emptyReport(), format)

			require.NoError(t, err, format)
			assert.Equal(t, extension, ext)
			assert.NotEmpty(t, body)
		}
	})

	t.Run("should reject unknown formats", func(t *testing.T) {
		_, _, err := render(emptyReport(), "docx")

		assert.ErrorContains(t, err, "docx")
	})
}

func TestWrite(t *testing.T) {
	t.Run("should default to the report file name", func(t *testing.T) {
		assert.Equal(t, "Worklog_Report_2024-03-04_to_2024-03-08.pdf", outPath("", emptyReport(), "pdf"))
		assert.Equal(t, "out.csv", outPath("out.csv", emptyReport(), "csv"))
	})

	t.Run("should write to stdout", func(t *testing.T) {
		var stdout bytes.Buffer

		require.NoError(t, write([]byte("a,b\n"), "-", &stdout))

		assert.Equal(t, "a,b\n", stdout.String())
	})

	t.Run("should write to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")

		require.NoError(t, write([]byte("a,b\n"), path, nil))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a,b\n", string(content))
	})
}

func TestReportOptions_Window(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	clock := &utils.FixedClock{At: time.Date(2024, 6, 12, 15, 0, 0, 0, loc)}

	t.Run("should default to month to date", func(t *testing.T) {
		start, end, holidays, err := (&reportOptions{}).window(clock, loc)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), start)
		assert.Equal(t, time.Date(2024, 6, 12, 0, 0, 0, 0, loc), end)
		assert.Empty(t, holidays)
	})

	t.Run("should accept well formed holidays", func(t *testing.T) {
		opts := &reportOptions{from: "2024-06-03", to: "2024-06-09", holidays: []string{"2024-06-05", " 2024-06-07"}}

		start, end, holidays, err := opts.window(clock, loc)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, loc), start)
		assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, loc), end)
		assert.Equal(t, []string{"2024-06-05", "2024-06-07"}, holidays)
	})

	t.Run("should reject a malformed holiday", func(t *testing.T) {
		opts := &reportOptions{holidays: []string{"2024-06-05", "2024/06/07"}}

		_, _, _, err := opts.window(clock, loc)

		assert.ErrorContains(t, err, "--holiday")
		assert.ErrorContains(t, err, "2024/06/07")
	})

	t.Run("should reject a malformed range", func(t *testing.T) {
		_, _, _, err := (&reportOptions{from: "June 3"}).window(clock, loc)

		assert.ErrorContains(t, err, "--from")
	})
}
