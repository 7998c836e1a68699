// Package estimator adapts matrix-level estimators to the table-level model
// contract used by a pipeline run.
package estimator

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
	"github.com/YuminosukeSato/ufcpredictor/pkg/log"
)

// PredictionColumn names the series returned by Pipeline.Predict.
const PredictionColumn = "prediction"

// Model is fitted on a feature table and a target series and predicts one
// value per row.
type Model interface {
	Fit(X *frame.Frame, y *frame.Series) error
	Predict(X *frame.Frame) (*frame.Series, error)
}

// Pipeline runs preprocessing steps and a final estimator over the numeric
// columns of a table.
type Pipeline struct {
	steps   []model.Transformer
	final   model.Estimator
	columns []string
	logger  log.Logger

	fitted    []string
	intLabels bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSteps adds transformers applied in order before the final estimator.
func WithSteps(steps ...model.Transformer) Option {
	return func(p *Pipeline) { p.steps = append(p.steps, steps...) }
}

// WithColumns fixes the feature columns. Without it every numeric column is
// used.
func WithColumns(columns ...string) Option {
	return func(p *Pipeline) { p.columns = append([]string(nil), columns...) }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// NewPipeline wraps final.
func NewPipeline(final model.Estimator, opts ...Option) *Pipeline {
	p := &Pipeline{final: final, logger: log.GetLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name describes the pipeline as "Step1 -> Step2 -> Final".
func (p *Pipeline) Name() string {
	parts := make([]string, 0, len(p.steps)+1)
	for _, s := range p.steps {
		parts = append(parts, nameOf(s))
	}
	parts = append(parts, nameOf(p.final))
	return strings.Join(parts, " -> ")
}

// Final returns the wrapped estimator.
func (p *Pipeline) Final() model.Estimator { return p.final }

// Columns returns the feature columns chosen by the last Fit.
func (p *Pipeline) Columns() []string { return append([]string(nil), p.fitted...) }

// Fit selects the feature columns, fits each step on the output of the
// previous one and fits the final estimator on the result.
func (p *Pipeline) Fit(X *frame.Frame, y *frame.Series) error {
	if X.Len() != y.Len() {
		return errors.NewDimensionError("Pipeline.Fit", X.Len(), y.Len(), 0)
	}
	cols, err := p.selectColumns(X)
	if err != nil {
		return err
	}
	m, err := X.Matrix(cols...)
	if err != nil {
		return err
	}
	target, intLabels, err := targetVector(y)
	if err != nil {
		return err
	}

	var data mat.Matrix = m
	for _, s := range p.steps {
		if data, err = s.FitTransform(data); err != nil {
			return err
		}
	}
	if err := p.final.Fit(data, target); err != nil {
		return err
	}
	p.fitted = cols
	p.intLabels = intLabels
	p.logger.Debug("pipeline fitted",
		log.ModelNameKey, p.Name(),
		log.OperationKey, log.OperationFit,
		log.SamplesKey, X.Len(),
		log.FeaturesKey, len(cols),
	)
	return nil
}

// Predict returns one prediction per row of X, indexed like X. An empty X
// gives an empty series without calling the estimator.
func (p *Pipeline) Predict(X *frame.Frame) (*frame.Series, error) {
	if p.fitted == nil {
		return nil, errors.NewNotFittedError(p.Name(), "Predict")
	}
	if X.Len() == 0 {
		return frame.NewSeries(PredictionColumn, []any{}, []int{})
	}
	if missing := X.Missing(p.fitted...); len(missing) > 0 {
		return nil, errors.NewValidationError("columns", "feature columns seen by Fit are missing", missing)
	}
	m, err := X.Matrix(p.fitted...)
	if err != nil {
		return nil, err
	}
	var data mat.Matrix = m
	for _, s := range p.steps {
		if data, err = s.Transform(data); err != nil {
			return nil, err
		}
	}
	out, err := p.final.Predict(data)
	if err != nil {
		return nil, err
	}
	rows, _ := out.Dims()
	if rows != X.Len() {
		return nil, errors.NewDimensionError("Pipeline.Predict", X.Len(), rows, 0)
	}
	values := make([]any, rows)
	for i := range values {
		v := out.At(i, 0)
		if p.intLabels {
			values[i] = int64(v)
		} else {
			values[i] = v
		}
	}
	return frame.NewSeries(PredictionColumn, values, X.Index())
}

func (p *Pipeline) selectColumns(X *frame.Frame) ([]string, error) {
	if len(p.columns) > 0 {
		if missing := X.Missing(p.columns...); len(missing) > 0 {
			return nil, errors.NewValidationError("columns", "configured feature columns are missing", missing)
		}
		return append([]string(nil), p.columns...), nil
	}
	cols := X.NumericColumns()
	numeric := make(map[string]bool, len(cols))
	for _, c := range cols {
		numeric[c] = true
	}
	var skipped []string
	for _, c := range X.Columns() {
		if !numeric[c] {
			skipped = append(skipped, c)
		}
	}
	if len(skipped) > 0 {
		errors.Warn(errors.NewDataConversionWarning("frame", "matrix",
			fmt.Sprintf("non-numeric columns skipped: %s", strings.Join(skipped, ", "))))
	}
	if len(cols) == 0 {
		return nil, errors.NewValueError("Pipeline.Fit", "no numeric feature columns")
	}
	return cols, nil
}

// targetVector converts y to a column vector and reports whether every label
// was an integer.
func targetVector(y *frame.Series) (*mat.Dense, bool, error) {
	values, err := y.Float64s()
	if err != nil {
		return nil, false, err
	}
	intLabels := true
	for _, v := range y.Values() {
		if _, ok := v.(int64); !ok {
			intLabels = false
			break
		}
	}
	if len(values) == 0 {
		return nil, false, errors.NewModelError("Pipeline.Fit", "empty data", errors.ErrEmptyData)
	}
	return mat.NewDense(len(values), 1, values), intLabels, nil
}

func nameOf(v any) string {
	if n, ok := v.(model.Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", v)
}
