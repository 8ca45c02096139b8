package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	apperrors "retailfx/internal/errors"
	"retailfx/pkg/contracts/domain"
)

// Columns lists the source columns every input file must carry.
var Columns = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// Options tunes a read.
type Options struct {
	// MaxRows caps the number of data rows; zero disables the cap.
	MaxRows int
	Logger  *slog.Logger
}

// Format identifies the physical layout of an input file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the reader from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// source yields raw records after the header has been located.
type source interface {
	Header() []string
	// Next returns the next record and its 1-based line in the file, or
	// ok=false at the end of input.
	Next() (record []string, line int, ok bool, err error)
	Close() error
}

// ReadFile loads every transaction line from path.
func ReadFile(ctx context.Context, path string, opts Options) ([]domain.TransactionRow, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataNotFoundError(path, err)
		}
		return nil, apperrors.NewStorageError("stat input", err).WithContext("path", path)
	}

	format := DetectFormat(path)
	var (
		src source
		err error
	)
	switch format {
	case FormatXLSX:
		src, err = openXLSX(path)
	default:
		src, err = openCSV(path)
	}
	if err != nil {
		return nil, err
	}
	defer src.Close()

	logger.Info("reading input",
		slog.String("path", path),
		slog.String("format", string(format)))

	rows, err := readAll(ctx, src, format == FormatXLSX, opts.MaxRows, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("input loaded",
		slog.String("path", path),
		slog.Int("rows", len(rows)))
	return rows, nil
}

func readAll(ctx context.Context, src source, excelDates bool, maxRows int, logger *slog.Logger) ([]domain.TransactionRow, error) {
	cols, err := mapColumns(src.Header())
	if err != nil {
		return nil, err
	}

	validate := validator.New()
	progress := rate.Sometimes{Interval: 2 * time.Second}

	var rows []domain.TransactionRow
	for {
		record, line, ok, err := src.Next()
		if err != nil {
			return nil, apperrors.NewParsingError("read record", err).WithContext("line", line)
		}
		if !ok {
			break
		}
		if blank(record) {
			continue
		}

		if len(rows)%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("input exceeds max_rows %d", maxRows)).WithContext("max_rows", maxRows)
		}

		row, err := cols.parse(record, line, excelDates)
		if err != nil {
			return nil, err
		}
		if err := validate.Struct(row); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("line %d: invalid row", line), err).
				WithContext("line", line)
		}
		rows = append(rows, row)

		progress.Do(func() {
			logger.Debug("ingest progress", slog.Int("rows", len(rows)), slog.Int("line", line))
		})
	}

	if len(rows) == 0 {
		return nil, apperrors.NewDataQualityError("input has no transaction rows")
	}
	return rows, nil
}

// columnIndex maps each required column to its position in the header.
type columnIndex map[string]int

func mapColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(Columns))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := idx[h]; !seen {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("missing", missing)
	}
	return idx, nil
}

func (c columnIndex) cell(record []string, name string) string {
	i := c[name]
	if i >= len(record) {
		return ""
	}
	return record[i]
}

func (c columnIndex) parse(record []string, line int, excelDates bool) (domain.TransactionRow, error) {
	fail := func(column, value string, err error) error {
		return apperrors.NewParsingError(fmt.Sprintf("line %d: column %s: cannot parse %q", line, column, value), err).
			WithContext("line", line).
			WithContext("column", column)
	}

	qtyText := strings.TrimSpace(c.cell(record, "Quantity"))
	qty, err := parseQuantity(qtyText)
	if err != nil {
		return domain.TransactionRow{}, fail("Quantity", qtyText, err)
	}

	priceText := strings.TrimSpace(c.cell(record, "UnitPrice"))
	price, err := parseNumber(priceText)
	if err != nil {
		return domain.TransactionRow{}, fail("UnitPrice", priceText, err)
	}

	dateText := strings.TrimSpace(c.cell(record, "InvoiceDate"))
	at, err := ParseTimestamp(dateText, excelDates)
	if err != nil {
		return domain.TransactionRow{}, fail("InvoiceDate", dateText, err)
	}

	return domain.TransactionRow{
		InvoiceNo:   normalizeID(c.cell(record, "InvoiceNo")),
		StockCode:   strings.TrimSpace(c.cell(record, "StockCode")),
		Description: optional(c.cell(record, "Description")),
		Quantity:    qty,
		InvoiceDate: at,
		UnitPrice:   price,
		CustomerID:  normalizeID(optional(c.cell(record, "CustomerID"))),
		Country:     strings.TrimSpace(c.cell(record, "Country")),
		Line:        line,
	}, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value")
	}
	return v, nil
}

// parseQuantity accepts integers and integral floats such as "6.0".
func parseQuantity(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	v, err := parseNumber(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("fractional quantity")
	}
	return int64(v), nil
}

// optional maps the textual forms of a missing value to the empty string.
func optional(s string) string {
	switch strings.TrimSpace(s) {
	case "", "nan", "NaN", "NULL", "null", "None":
		return ""
	}
	return s
}

// normalizeID trims and drops a float suffix such as "17850.0" left by
// spreadsheet exports.
func normalizeID(s string) string {
	s = strings.TrimSpace(s)
	if head, ok := strings.CutSuffix(s, ".0"); ok && head != "" {
		if _, err := strconv.ParseUint(head, 10, 64); err == nil {
			return head
		}
	}
	return s
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
