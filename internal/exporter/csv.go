package exporter

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter writes tables as comma-separated files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer. A nil logger uses the default.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to filePath, replacing any existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	sw, err := w.CreateStreamWriter(filePath, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}
	for i, record := range options.Records {
		if err := sw.WriteRecord(record); err != nil {
			sw.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return sw.Close()
}

// WriteTable streams every record of t to filePath without a BOM.
func (w *CSVWriter) WriteTable(filePath string, t Table) error {
	w.logger.Info("Writing CSV table",
		slog.String("table", t.Name),
		slog.String("file_path", filePath),
		slog.Int("record_count", t.Len))

	sw, err := w.CreateStreamWriter(filePath, t.Header(), false)
	if err != nil {
		return err
	}
	buf := make([]string, 0, len(t.Columns))
	for i := 0; i < t.Len; i++ {
		buf = t.Record(i, buf)
		if err := sw.WriteRecord(buf); err != nil {
			sw.Close()
			return fmt.Errorf("failed to write %s record %d: %w", t.Name, i, err)
		}
	}
	return sw.Close()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	buf    *bufio.Writer
	writer *csv.Writer
}

// CreateStreamWriter creates filePath and writes the header row.
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	buf := bufio.NewWriterSize(file, 1<<20)
	if bom {
		if _, err := buf.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(buf)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, buf: buf, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	if err := s.buf.Flush(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
