package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// maxSheetRecords is the number of data rows a worksheet holds below its
// header row.
const maxSheetRecords = excelize.TotalRows - 1

// WorkbookWriter writes tables as sheets of one XLSX workbook.
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer. A nil logger uses the default.
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves one sheet per table to path. Tables too long for a worksheet
// are left out and their names returned.
func (w *WorkbookWriter) Write(path string, tables ...Table) (skipped []string, err error) {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for _, t := range tables {
		if t.Len > maxSheetRecords {
			w.logger.Warn("Table exceeds worksheet capacity, omitted from workbook",
				slog.String("table", t.Name),
				slog.Int("records", t.Len),
				slog.Int("limit", maxSheetRecords))
			skipped = append(skipped, t.Name)
			continue
		}

		if first {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return nil, fmt.Errorf("failed to name sheet %s: %w", t.Name, err)
			}
			first = false
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %s: %w", t.Name, err)
		}

		if err := writeSheet(f, t); err != nil {
			return nil, err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save workbook: %w", err)
	}
	return skipped, nil
}

func writeSheet(f *excelize.File, t Table) error {
	sw, err := f.NewStreamWriter(t.Name)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", t.Name, err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", t.Name, err)
	}

	buf := make([]string, 0, len(t.Columns))
	cells := make([]interface{}, len(t.Columns))
	for i := 0; i < t.Len; i++ {
		buf = t.Record(i, buf)
		for j, c := range t.Columns {
			cells[j] = cellValue(c.Kind, buf[j])
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", t.Name, i, err)
		}
	}
	return sw.Flush()
}

// cellValue converts a rendered field back to a typed cell so numeric columns
// stay numeric in the workbook. Missing values become empty cells.
func cellValue(k Kind, s string) interface{} {
	if s == "" {
		return nil
	}
	switch k {
	case KindInteger:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case KindReal:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	}
	return s
}
