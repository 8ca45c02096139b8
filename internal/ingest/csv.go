package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"os"

	apperrors "retailfx/internal/errors"
)

type csvSource struct {
	file   *os.File
	reader *csv.Reader
	header []string
}

func openCSV(path string) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("open input", err).WithContext("path", path)
	}

	buf := bufio.NewReaderSize(file, 1<<20)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	reader := csv.NewReader(buf)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		file.Close()
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewParsingError("input is empty", err).WithContext("path", path)
		}
		return nil, apperrors.NewParsingError("read header", err).WithContext("path", path)
	}

	return &csvSource{file: file, reader: reader, header: header}, nil
}

func (s *csvSource) Header() []string { return s.header }

func (s *csvSource) Next() ([]string, int, bool, error) {
	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, false, nil
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, perr.StartLine, false, err
		}
		return nil, 0, false, err
	}
	line, _ := s.reader.FieldPos(0)
	return record, line, true, nil
}

func (s *csvSource) Close() error { return s.file.Close() }
