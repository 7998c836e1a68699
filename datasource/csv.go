package datasource

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// CSV loads a headed CSV file. Integer and float looking cells are parsed,
// empty cells are nil and everything else stays a string.
type CSV struct {
	Base
	path string
}

// NewCSV returns a source reading path.
func NewCSV(id, path string, keys []string, opts ...Option) (*CSV, error) {
	base, err := NewBase(id, keys, opts...)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errors.NewConfigurationError(id, "csv path must not be empty")
	}
	return &CSV{Base: base, path: path}, nil
}

// Path returns the file the source reads.
func (c *CSV) Path() string { return c.path }

// Load implements DataSource.
func (c *CSV) Load(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header, records, err := readCSV(c.path)
	if err != nil {
		return nil, errors.NewLoadError(c.ID(), err)
	}
	f, err := recordsToFrame(header, records)
	if err != nil {
		return nil, errors.NewLoadError(c.ID(), err)
	}
	return f, nil
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer file.Close() //nolint:errcheck
	return parseCSV(file, path)
}

func parseCSV(r io.Reader, name string) ([]string, [][]string, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "parse %s", name)
	}
	if len(records) == 0 {
		return nil, nil, errors.Newf("%s is empty (no header row)", name)
	}
	return records[0], records[1:], nil
}

func recordsToFrame(header []string, records [][]string) (*frame.Frame, error) {
	cols := make([]frame.Column, len(header))
	for j, name := range header {
		cols[j] = frame.Column{Name: name, Values: make([]any, len(records))}
	}
	for i, rec := range records {
		for j := range header {
			cols[j].Values[i] = frame.ParseCell(rec[j])
		}
	}
	return frame.New(cols...)
}
