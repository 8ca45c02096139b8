package ingest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// timestampLayouts are tried in order. Slash layouts are month-first.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/06 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an invoice timestamp. Layouts without an offset are
// read as UTC; an explicit offset is kept so calendar and hour features use
// the wall clock of the source. When excelSerial is set a plain number is read
// as an Excel 1900-system serial date.
func ParseTimestamp(s string, excelSerial bool) (time.Time, error) {
	if excelSerial {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			t, err := excelize.ExcelDateToTime(v, false)
			if err != nil {
				return time.Time{}, err
			}
			return t.UTC().Round(time.Second), nil
		}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
