package ingest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "retailfx/internal/errors"
)

// headerScanDepth bounds how many leading rows of each sheet are searched
// for the header row.
const headerScanDepth = 10

type xlsxSource struct {
	file   *excelize.File
	rows   *excelize.Rows
	header []string
	line   int
}

// openXLSX opens the first sheet whose leading rows contain the input header.
// Cells are read raw so date cells arrive as Excel serial numbers.
func openXLSX(path string) (*xlsxSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open workbook", err).WithContext("path", path)
	}

	for _, sheet := range f.GetSheetList() {
		rows, err := f.Rows(sheet)
		if err != nil {
			continue
		}
		line := 0
		for line < headerScanDepth && rows.Next() {
			line++
			cols, err := rows.Columns(excelize.Options{RawCellValue: true})
			if err != nil {
				break
			}
			if isHeader(cols) {
				return &xlsxSource{file: f, rows: rows, header: cols, line: line}, nil
			}
		}
		rows.Close()
	}

	f.Close()
	return nil, apperrors.NewParsingError(
		fmt.Sprintf("no sheet contains the columns %s", strings.Join(Columns, ", ")), nil).
		WithContext("path", path)
}

func isHeader(cols []string) bool {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[strings.TrimSpace(c)] = true
	}
	for _, c := range Columns {
		if !have[c] {
			return false
		}
	}
	return true
}

func (s *xlsxSource) Header() []string { return s.header }

func (s *xlsxSource) Next() ([]string, int, bool, error) {
	if !s.rows.Next() {
		return nil, s.line, false, s.rows.Error()
	}
	s.line++
	cols, err := s.rows.Columns(excelize.Options{RawCellValue: true})
	return cols, s.line, err == nil, err
}

func (s *xlsxSource) Close() error {
	if err := s.rows.Close(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
