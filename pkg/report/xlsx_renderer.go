package report

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dailySheet   = "Daily Breakdown"
)

// XlsxRenderer builds a workbook with a Summary and a Daily Breakdown sheet.
type XlsxRenderer struct{}

func NewXlsxRenderer() *XlsxRenderer {
	return &XlsxRenderer{}
}

func (r *XlsxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (r *XlsxRenderer) Extension() string { return "xlsx" }

func (r *XlsxRenderer) Render(rep Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	summary := [][]any{toCells(summaryHeader)}
	for _, s := range rep.Summaries {
		summary = append(summary, []any{
			s.Developer,
			onlineLabel(s.Online),
			s.TicketsCompleted,
			s.DaysWorked,
			s.TotalHours,
			s.TargetHours,
			s.AvgHoursPerDay,
			fmt.Sprintf("%.1f%%", s.EfficiencyPercent),
		})
	}

	daily := [][]any{toCells(dailyHeader)}
	for _, s := range rep.Summaries {
		for _, e := range s.DailyBreakdown {
			daily = append(daily, []any{
				s.Developer,
				e.Date,
				e.Hours,
				rep.DailyTargetHours,
				achieved(e.MetTarget),
				string(e.DayType),
				len(e.Items),
			})
		}
	}

	if err := writeSheet(f, summarySheet, summary, len(summaryHeader), headerStyle); err != nil {
		return nil, err
	}
	if err := writeSheet(f, dailySheet, daily, len(dailyHeader), headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Errorf("Error writing xlsx: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, columns int, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	lastColumn, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastColumn+"1", headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastColumn, 18)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
