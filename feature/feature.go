// Package feature defines engineered feature builders: table transforms that
// declare which data sources and which other builders they depend on.
package feature

import (
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Builder adds derived columns to the training table.
//
// Transform must return a table with the same rows, in the same order and
// with the same index, as its input.
type Builder interface {
	ID() string
	RequiredSources() []string
	RequiredFeatures() []string
	Transform(*frame.Frame) (*frame.Frame, error)
}

// TransformFunc is the transform body of a Func builder.
type TransformFunc func(*frame.Frame) (*frame.Frame, error)

// Func is a Builder assembled from its parts.
type Func struct {
	id       string
	sources  []string
	features []string
	fn       TransformFunc
}

// Requires lists dependencies for NewFunc.
type Requires struct {
	Sources  []string
	Features []string
}

// NewFunc returns a Builder that runs fn.
func NewFunc(id string, req Requires, fn TransformFunc) (*Func, error) {
	if id == "" {
		return nil, errors.NewConfigurationError("feature", "builder id must not be empty")
	}
	if fn == nil {
		return nil, errors.NewConfigurationError(id, "transform function must not be nil")
	}
	return &Func{
		id:       id,
		sources:  append([]string(nil), req.Sources...),
		features: append([]string(nil), req.Features...),
		fn:       fn,
	}, nil
}

func (f *Func) ID() string                 { return f.id }
func (f *Func) RequiredSources() []string  { return append([]string(nil), f.sources...) }
func (f *Func) RequiredFeatures() []string { return append([]string(nil), f.features...) }

// Transform runs the wrapped function.
func (f *Func) Transform(in *frame.Frame) (*frame.Frame, error) {
	return f.fn(in)
}

// columnFunc builds a Func that computes one output column from a row-wise
// function of the input columns.
func columnFunc(id string, req Requires, inputs []string, out string, row func([]any) (any, error)) (*Func, error) {
	if out == "" {
		return nil, errors.NewConfigurationError(id, "output column must not be empty")
	}
	return NewFunc(id, req, func(in *frame.Frame) (*frame.Frame, error) {
		if missing := in.Missing(inputs...); len(missing) > 0 {
			return nil, errors.NewValidationError("columns",
				"feature builder '"+id+"' is missing input columns", missing)
		}
		values := make([]any, in.Len())
		args := make([]any, len(inputs))
		for i := range values {
			for k, c := range inputs {
				args[k] = in.At(i, c)
			}
			v, err := row(args)
			if err != nil {
				return nil, errors.Wrapf(err, "feature builder '%s' row %d", id, i)
			}
			values[i] = v
		}
		return appendColumn(id, in, out, values)
	})
}

// appendColumn adds a derived column. Builders only append, so an output name
// that is already a column (the outcome label, say) is rejected.
func appendColumn(id string, in *frame.Frame, name string, values []any) (*frame.Frame, error) {
	if in.Has(name) {
		return nil, errors.NewValidationError("column",
			"feature builder '"+id+"' output column already exists", name)
	}
	return in.WithColumn(name, values)
}
