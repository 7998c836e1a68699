package frame

import (
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Series is a named column aligned to an index.
type Series struct {
	name   string
	values []any
	index  []int
}

// NewSeries builds a Series. A nil index means 0..n-1.
func NewSeries(name string, values []any, index []int) (*Series, error) {
	if index == nil {
		index = rangeIndex(len(values))
	}
	if len(index) != len(values) {
		return nil, errors.NewDimensionError("frame.NewSeries("+name+")", len(values), len(index), 0)
	}
	normalized := make([]any, len(values))
	for i, v := range values {
		nv, err := Normalize(v)
		if err != nil {
			return nil, errors.Wrapf(err, "series %s row %d", name, i)
		}
		normalized[i] = nv
	}
	return newSeriesTrusted(name, normalized, append([]int(nil), index...)), nil
}

// SeriesFromFloat64s builds a float Series; index must have len(values)
// entries or be nil.
func SeriesFromFloat64s(name string, values []float64, index []int) (*Series, error) {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return NewSeries(name, cells, index)
}

func newSeriesTrusted(name string, values []any, index []int) *Series {
	return &Series{name: name, values: values, index: index}
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Len returns the number of values.
func (s *Series) Len() int { return len(s.values) }

// Values returns a copy of the values.
func (s *Series) Values() []any { return append([]any(nil), s.values...) }

// Index returns a copy of the index labels.
func (s *Series) Index() []int { return append([]int(nil), s.index...) }

// At returns the value at position i.
func (s *Series) At(i int) any { return s.values[i] }

// Rename returns the same data under another name.
func (s *Series) Rename(name string) *Series {
	return newSeriesTrusted(name, s.values, s.index)
}

// Take returns the values at the given positions, keeping their labels.
func (s *Series) Take(positions []int) (*Series, error) {
	values := make([]any, len(positions))
	index := make([]int, len(positions))
	for i, p := range positions {
		if p < 0 || p >= len(s.values) {
			return nil, errors.NewValidationError("position", "row position out of range", p)
		}
		values[i] = s.values[p]
		index[i] = s.index[p]
	}
	return newSeriesTrusted(s.name, values, index), nil
}

// Float64s converts every value to float64; nil becomes NaN.
func (s *Series) Float64s() ([]float64, error) {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		f, ok := ToFloat(v)
		if !ok {
			return nil, errors.NewValueError("Series.Float64s",
				"series "+s.name+" holds a non-numeric value")
		}
		out[i] = f
	}
	return out, nil
}

// Equal reports whether both series have the same name, index and values.
func (s *Series) Equal(other *Series) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.name == other.name && equalInts(s.index, other.index) && equalCells(s.values, other.values)
}

// Frame returns a one-column frame holding the series.
func (s *Series) Frame() *Frame {
	return newTrusted([]string{s.name}, map[string][]any{s.name: s.values}, s.Index())
}
