package frame

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// NumericColumns returns, in order, the columns whose non-nil cells are all
// numeric. A column of only nils is not numeric.
func (f *Frame) NumericColumns() []string {
	var out []string
	for _, n := range f.names {
		seen := false
		numeric := true
		for _, v := range f.cols[n] {
			if v == nil {
				continue
			}
			seen = true
			if !IsNumeric(v) {
				numeric = false
				break
			}
		}
		if seen && numeric {
			out = append(out, n)
		}
	}
	return out
}

// Matrix copies the named columns into a row-major dense matrix. nil cells
// become NaN. With no names every column is used.
func (f *Frame) Matrix(columns ...string) (*mat.Dense, error) {
	if len(columns) == 0 {
		columns = f.names
	}
	if f.Len() == 0 || len(columns) == 0 {
		return nil, errors.NewValueError("Frame.Matrix", "cannot build a matrix from an empty frame")
	}
	if missing := f.Missing(columns...); len(missing) > 0 {
		return nil, errors.NewValidationError("columns", "no such columns", missing)
	}
	m := mat.NewDense(f.Len(), len(columns), nil)
	for j, n := range columns {
		for i, v := range f.cols[n] {
			x, ok := ToFloat(v)
			if !ok {
				return nil, errors.NewValueError("Frame.Matrix",
					"column "+n+" holds a non-numeric value")
			}
			m.Set(i, j, x)
		}
	}
	return m, nil
}
