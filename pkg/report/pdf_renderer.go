package report

import (
	"bytes"
	"fmt"

	"github.com/anywhereworks/worklogs/pkg/calendar"
	"github.com/go-pdf/fpdf"
	log "github.com/sirupsen/logrus"
)

var (
	summaryWidths = []float64{70, 22, 32, 26, 26, 30, 30, 26}
	dailyWidths   = []float64{70, 30, 30, 30, 22, 30, 34}
)

// PdfRenderer prints the summary table followed by the daily breakdown, landscape A4.
// Text is set in the cp1252 core fonts; runes outside cp1252 print as '.'.
type PdfRenderer struct {
	compress bool
}

func NewPdfRenderer() *PdfRenderer {
	return &PdfRenderer{compress: true}
}

func (r *PdfRenderer) ContentType() string { return "application/pdf" }

func (r *PdfRenderer) Extension() string { return "pdf" }

func (r *PdfRenderer) Render(rep Report) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Worklog Report %s to %s", calendar.FormatDate(rep.Start), calendar.FormatDate(rep.End)), true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Completed Worklog Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s to %s    Working days: %d    Daily target: %s h",
		calendar.FormatDate(rep.Start), calendar.FormatDate(rep.End), rep.WorkingDays, hours(rep.DailyTargetHours)),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	table(pdf, tr, summaryHeader, summaryWidths, func(row func([]string)) {
		for _, s := range rep.Summaries {
			row(summaryRow(s))
		}
	})

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Daily Breakdown", "", 1, "L", false, 0, "")
	table(pdf, tr, dailyHeader, dailyWidths, func(row func([]string)) {
		for _, s := range rep.Summaries {
			for _, e := range s.DailyBreakdown {
				row(dailyRow(s.Developer, rep.DailyTargetHours, e))
			}
		}
	})

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Errorf("Error writing pdf: %v", err)
		return nil, err
	}
	return buf.Bytes(), nil
}

func table(pdf *fpdf.Fpdf, tr func(string) string, header []string, widths []float64, rows func(row func([]string))) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(221, 235, 247)
	for i, title := range header {
		pdf.CellFormat(widths[i], 7, title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	rows(func(values []string) {
		for i, value := range values {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, tr(value), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	})
}
