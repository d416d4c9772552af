package utils

import (
	"encoding/csv"
	"fmt"
	"io"
)

func ParseCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ParseCSVRecords reads a CSV with a header row and returns one map per data
// row keyed by column name.
func ParseCSVRecords(r io.Reader) ([]map[string]string, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := rows[0]
	records := make([]map[string]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+1, len(header), len(row))
		}
		rec := make(map[string]string, len(header))
		for j, col := range header {
			rec[col] = row[j]
		}
		records = append(records, rec)
	}
	return records, nil
}
