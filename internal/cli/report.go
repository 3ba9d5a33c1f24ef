package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/anywhereworks/worklogs/internal/app"
	"github.com/anywhereworks/worklogs/internal/config"
	"github.com/anywhereworks/worklogs/internal/database"
	"github.com/anywhereworks/worklogs/internal/utils"
	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/anywhereworks/worklogs/pkg/report"
	"github.com/anywhereworks/worklogs/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	from          string
	to            string
	developers    []string
	holidays      []string
	format        string
	out           string
	target        float64
	publish       bool
	storedHoliday bool
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a worklog report from the command line",
		Long: `Generates the report for the given window. Without --developer every developer with
completed tickets is included. The range defaults to the current month up to today.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVarP(&opts.developers, "developer", "d", nil, "developer to include, repeatable")
	cmd.Flags().StringSliceVar(&opts.holidays, "holiday", nil, "extra holiday (YYYY-MM-DD), repeatable")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "output format: csv, xlsx, pdf or json")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file, defaults to the report file name ('-' for stdout)")
	cmd.Flags().Float64Var(&opts.target, "target", 0, "daily target hours, overrides the configuration")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "store the daily breakdown in the worklog store")
	cmd.Flags().BoolVar(&opts.storedHoliday, "stored-holidays", false, "read holidays from the database")
	return cmd
}

func runReport(ctx context.Context, cfg config.Application, opts *reportOptions, stdout io.Writer) error {
	start, end, holidays, err := opts.window(utils.SystemClock{}, cfg.Report.Location())
	if err != nil {
		return err
	}

	var db *pgxpool.Pool
	if opts.storedHoliday || (opts.publish && cfg.WorklogStore.Mode != "remote") {
		if err := database.Migrate(cfg.Database); err != nil {
			return err
		}
		if db, err = database.Open(ctx, cfg.Database); err != nil {
			return err
		}
		defer db.Close()
	}

	// the CLI never serves HTTP and acts as the local admin
	cfg.Auth.Disabled = true
	deps, err := app.BuildDependencies(ctx, db, cfg)
	if err != nil {
		return err
	}
	ctx = user.WithUser(ctx, app.LocalAdmin)

	developers := opts.developers
	if len(developers) == 0 {
		if developers, err = deps.ReportService.Developers(ctx); err != nil {
			return err
		}
		log.Infof("no developer selected, using all %d with completed tickets", len(developers))
	}

	rep, err := deps.ReportService.Generate(ctx, report.Request{
		Start:                 start,
		End:                   end,
		Developers:            developers,
		ExtraHolidays:         holidays,
		IncludeStoredHolidays: opts.storedHoliday,
		DailyTargetHours:      opts.target,
	})
	if err != nil {
		return err
	}

	body, extension, err := render(rep, opts.format)
	if err != nil {
		return err
	}
	if err := write(body, outPath(opts.out, rep, extension), stdout); err != nil {
		return err
	}

	if opts.publish {
		stored, err := deps.ReportService.Publish(ctx, rep)
		if err != nil {
			return err
		}
		log.Infof("published %d daily worklogs", stored)
	}
	return nil
}

// window resolves the report range and checks the extra holidays. The range defaults to month-to-date.
func (o *reportOptions) window(clock utils.Clock, loc *time.Location) (time.Time, time.Time, []string, error) {
	start, end := utils.MonthToDate(clock, loc)
	var err error
	if o.from != "" {
		if start, err = calendar.ParseDate(o.from, loc); err != nil {
			return time.Time{}, time.Time{}, nil, fmt.Errorf("--from: %w", err)
		}
	}
	if o.to != "" {
		if end, err = calendar.ParseDate(o.to, loc); err != nil {
			return time.Time{}, time.Time{}, nil, fmt.Errorf("--to: %w", err)
		}
	}
	holidays := make([]string, 0, len(o.holidays))
	for _, value := range o.holidays {
		date, err := calendar.ParseDate(strings.TrimSpace(value), loc)
		if err != nil {
			return time.Time{}, time.Time{}, nil, fmt.Errorf("--holiday: %w", err)
		}
		holidays = append(holidays, calendar.FormatDate(date))
	}
	return start, end, holidays, nil
}

func render(rep report.Report, format string) ([]byte, string, error) {
	var renderer report.Renderer
	switch strings.ToLower(format) {
	case "json":
		body, err := json.MarshalIndent(report.ToDTO(rep), "", "  ")
		return body, "json", err
	case "csv":
		renderer = report.NewCsvRenderer()
	case "xlsx":
		renderer = report.NewXlsxRenderer()
	case "pdf":
		renderer = report.NewPdfRenderer()
	default:
		return nil, "", fmt.Errorf("unsupported format %q", format)
	}
	body, err := renderer.Render(rep)
	return body, renderer.Extension(), err
}

func outPath(out string, rep report.Report, extension string) string {
	if out == "" {
		return rep.FileName(extension)
	}
	return out
}

func write(body []byte, path string, stdout io.Writer) error {
	if path == "-" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	log.Infof("wrote %s", path)
	return nil
}
