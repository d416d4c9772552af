package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const noData = "No data"

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename is the attachment name offered to the client.
func (f ExportFormat) Filename(t ReportType, generated time.Time) string {
	return fmt.Sprintf("timesheet-report-%s-%s.%s", t, generated.Format("2006-01-02"), f)
}

var (
	summaryHeader   = []string{"Metric", "Value"}
	byProjectHeader = []string{"Project", "Total Hours", "Billable Hours", "Non-Billable Hours", "Billable %", "Entries", "Users"}
	byUserHeader    = []string{"User", "Total Hours", "Billable Hours", "Non-Billable Hours", "Billable %", "Entries", "Projects"}
	trendsHeader    = []string{"Period Start", "Total Hours", "Billable Hours", "Non-Billable Hours", "Entries"}
)

// Table flattens a report payload into a header and rows. ok is false when
// the type is unknown or data is not that type's shape.
func Table(data any, t ReportType) (header []string, rows [][]string, ok bool) {
	switch t {
	case TypeSummary:
		s, ok := data.(Summary)
		if !ok {
			return nil, nil, false
		}
		return summaryHeader, [][]string{
			{"Total Hours", s.TotalHours},
			{"Billable Hours", s.BillableHours},
			{"Non-Billable Hours", s.NonBillableHours},
			{"Billable Percentage", formatPercent(s.BillablePercentage)},
			{"Total Entries", strconv.Itoa(s.TotalEntries)},
			{"Unique Users", strconv.Itoa(s.UniqueUsers)},
			{"Unique Projects", strconv.Itoa(s.UniqueProjects)},
			{"Average Hours Per User", s.AvgHoursPerUser},
			{"This Week Hours", s.ThisWeekHours},
			{"This Month Hours", s.ThisMonthHours},
		}, true
	case TypeByProject:
		groups, ok := data.([]ProjectBreakdown)
		if !ok {
			return nil, nil, false
		}
		for _, g := range groups {
			rows = append(rows, []string{g.ProjectName, g.TotalHours, g.BillableHours, g.NonBillableHours,
				formatPercent(g.BillablePercentage), strconv.Itoa(g.EntryCount), strconv.Itoa(g.UserCount)})
		}
		return byProjectHeader, rows, true
	case TypeByUser:
		groups, ok := data.([]UserBreakdown)
		if !ok {
			return nil, nil, false
		}
		for _, g := range groups {
			rows = append(rows, []string{g.UserName, g.TotalHours, g.BillableHours, g.NonBillableHours,
				formatPercent(g.BillablePercentage), strconv.Itoa(g.EntryCount), strconv.Itoa(g.ProjectCount)})
		}
		return byUserHeader, rows, true
	case TypeTrends:
		points, ok := data.([]TrendPoint)
		if !ok {
			return nil, nil, false
		}
		for _, p := range points {
			rows = append(rows, []string{p.PeriodStart, p.TotalHours, p.BillableHours, p.NonBillableHours, strconv.Itoa(p.EntryCount)})
		}
		return trendsHeader, rows, true
	}
	return nil, nil, false
}

// RenderCSV serialises an already-built report payload. Unknown types render
// a single "No data" line.
func RenderCSV(data any, t ReportType) string {
	header, rows, ok := Table(data, t)
	if !ok {
		return noData + "\n"
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	return buf.String()
}

// RenderXLSX writes the same table as RenderCSV into a single-sheet workbook
// named after the report type.
func RenderXLSX(data any, t ReportType) ([]byte, error) {
	header, rows, ok := Table(data, t)
	if !ok {
		header, rows = []string{noData}, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := string(t)
	if !ok || sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for r, record := range append([][]string{header}, rows...) {
		for c, value := range record {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
