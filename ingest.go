package subgraph

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// SchemaInput is one schema read from an input file, ready for the pipeline
type SchemaInput struct {
	Label string
	Raw   string
}

// Mode decides how input files turn into schemas. It is picked once per run; SingleMode and
// BulkMode are the only implementations.
type Mode interface {
	// Banner is printed before the schemas of a file are reported
	Banner(path string) string
	// Each reads path and hands every schema in it to fn, in file order. Any failure to read
	// the file is an *IngestionError; errors returned by fn are passed through.
	Each(path string, fn func(SchemaInput) error) error

	isMode()
}

// NewMode returns BulkMode when bulk is set and SingleMode otherwise
func NewMode(bulk bool) (Mode, error) {
	if !bulk {
		return SingleMode{}, nil
	}
	return NewBulkMode()
}

// SingleMode reads every file as the text of one schema, labelled with the file path
type SingleMode struct{}

func (SingleMode) isMode() {}

// Banner is printed before the schema of a file is reported
func (SingleMode) Banner(path string) string {
	return "Validating schema from " + path
}

// Each hands the whole file to fn
func (SingleMode) Each(path string, fn func(SchemaInput) error) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return &IngestionError{Path: path, Err: err}
	}
	return fn(SchemaInput{Label: path, Raw: string(raw)})
}

// BulkMode reads files with one JSON record per line, as produced by exporting the
// subgraph manifest table. A line that can't be decoded stops the whole run.
type BulkMode struct {
	decoder *RecordDecoder
}

// NewBulkMode prepares the record decoder
func NewBulkMode() (*BulkMode, error) {
	decoder, err := NewRecordDecoder()
	if err != nil {
		return nil, err
	}
	return &BulkMode{decoder: decoder}, nil
}

func (*BulkMode) isMode() {}

// Banner is printed before the schemas of a file are reported
func (*BulkMode) Banner(path string) string {
	return "Validating schemas from " + path
}

// Each hands every record of the file to fn in line order
func (m *BulkMode) Each(path string, fn func(SchemaInput) error) error {
	file, err := os.Open(path)
	if err != nil {
		return &IngestionError{Path: path, Err: err}
	}
	defer file.Close()

	return m.each(path, file, fn)
}

func (m *BulkMode) each(path string, r io.Reader, fn func(SchemaInput) error) error {
	reader := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return &IngestionError{Path: path, Line: lineNo, Err: errors.Wrap(readErr, "invalid line")}
		}
		// a trailing newline does not start another record
		if readErr == io.EOF && line == "" {
			return nil
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")

		record, err := m.decoder.Decode(UnescapeLine(line))
		if err != nil {
			return &IngestionError{Path: path, Line: lineNo, Err: err}
		}
		if err := fn(SchemaInput{Label: record.Label(), Raw: record.Schema}); err != nil {
			return err
		}

		if readErr == io.EOF {
			return nil
		}
	}
}
