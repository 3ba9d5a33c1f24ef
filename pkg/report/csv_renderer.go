package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

// CsvRenderer writes the summary table, an empty line and the daily breakdown table.
type CsvRenderer struct{}

func NewCsvRenderer() *CsvRenderer {
	return &CsvRenderer{}
}

func (r *CsvRenderer) ContentType() string { return "text/csv; charset=utf-8" }

func (r *CsvRenderer) Extension() string { return "csv" }

func (r *CsvRenderer) Render(rep Report) ([]byte, error) {
	data := make([][]string, 0, 3+len(rep.Summaries)*(1+len(rep.Days)))
	data = append(data, summaryHeader)
	for _, s := range rep.Summaries {
		data = append(data, summaryRow(s))
	}
	data = append(data, []string{}, dailyHeader)
	for _, s := range rep.Summaries {
		for _, entry := range s.DailyBreakdown {
			data = append(data, dailyRow(s.Developer, rep.DailyTargetHours, entry))
		}
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.WriteAll(data); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return nil, err
	}
	return b.Bytes(), nil
}
