package extraction

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxTableRows caps how many rows of a sheet are rendered for the model
const maxTableRows = 2000

var errEmptyTable = errors.New("spreadsheet has no rows")

// renderWorkbook renders every non-empty sheet of an xlsx workbook as a pipe-delimited table
func renderWorkbook(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("failed to read sheet %q: %w", sheet, err)
		}
		if countNonEmpty(rows) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "Sheet: %s\n", sheet)
		writeTable(&sb, rows)
	}

	if sb.Len() == 0 {
		return "", errEmptyTable
	}
	return sb.String(), nil
}

// renderCSV renders comma-separated data as a pipe-delimited table
func renderCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	var rows [][]string
	for len(rows) < maxTableRows {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, rec)
	}

	if countNonEmpty(rows) == 0 {
		return "", errEmptyTable
	}

	var sb strings.Builder
	writeTable(&sb, rows)
	return sb.String(), nil
}

func writeTable(sb *strings.Builder, rows [][]string) {
	written := 0
	for _, row := range rows {
		if written == maxTableRows {
			sb.WriteString("... (rows truncated)\n")
			return
		}
		cells := make([]string, len(row))
		empty := true
		for i, cell := range row {
			cells[i] = strings.Join(strings.Fields(cell), " ")
			if cells[i] != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		sb.WriteString(strings.Join(cells, " | "))
		sb.WriteString("\n")
		written++
	}
}

func countNonEmpty(rows [][]string) int {
	n := 0
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				n++
				break
			}
		}
	}
	return n
}
