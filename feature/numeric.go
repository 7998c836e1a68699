package feature

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Difference returns a builder writing out = a - b. A nil operand gives nil.
func Difference(id string, req Requires, a, b, out string) (*Func, error) {
	return columnFunc(id, req, []string{a, b}, out, func(args []any) (any, error) {
		if args[0] == nil || args[1] == nil {
			return nil, nil
		}
		x, okx := frame.ToFloat(args[0])
		y, oky := frame.ToFloat(args[1])
		if !okx || !oky {
			return nil, errors.NewValueError("Difference", "operands must be numeric")
		}
		if ai, ok := args[0].(int64); ok {
			if bi, ok := args[1].(int64); ok {
				return ai - bi, nil
			}
		}
		return x - y, nil
	})
}

// Sign returns a builder writing out = sign(in) as -1, 0 or 1. nil and NaN
// give nil.
func Sign(id string, req Requires, in, out string) (*Func, error) {
	return columnFunc(id, req, []string{in}, out, func(args []any) (any, error) {
		if args[0] == nil {
			return nil, nil
		}
		x, ok := frame.ToFloat(args[0])
		if !ok {
			return nil, errors.NewValueError("Sign", "operand must be numeric")
		}
		switch {
		case math.IsNaN(x):
			return nil, nil
		case x > 0:
			return int64(1), nil
		case x < 0:
			return int64(-1), nil
		}
		return int64(0), nil
	})
}

// ZScore returns a builder adding "{col}_z" for each column, standardised
// with the column's mean and sample standard deviation. nil cells stay nil;
// a constant column scores 0.
func ZScore(id string, req Requires, cols ...string) (*Func, error) {
	if len(cols) == 0 {
		return nil, errors.NewConfigurationError(id, "z-score needs at least one column")
	}
	return NewFunc(id, req, func(in *frame.Frame) (*frame.Frame, error) {
		out := in
		for _, c := range cols {
			raw, ok := in.Values(c)
			if !ok {
				return nil, errors.NewValidationError("columns",
					"feature builder '"+id+"' is missing input columns", []string{c})
			}
			var present []float64
			for _, v := range raw {
				x, ok := frame.ToFloat(v)
				if !ok {
					return nil, errors.NewValueError("ZScore", "column "+c+" holds a non-numeric value")
				}
				if !math.IsNaN(x) {
					present = append(present, x)
				}
			}
			mean, std := math.NaN(), 0.0
			if len(present) > 0 {
				mean = stat.Mean(present, nil)
			}
			if len(present) > 1 {
				std = stat.StdDev(present, nil)
			}
			z := make([]any, len(raw))
			for i, v := range raw {
				x, _ := frame.ToFloat(v)
				switch {
				case math.IsNaN(x):
					z[i] = nil
				case std == 0:
					z[i] = 0.0
				default:
					z[i] = (x - mean) / std
				}
			}
			var err error
			out, err = appendColumn(id, out, c+"_z", z)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	})
}
