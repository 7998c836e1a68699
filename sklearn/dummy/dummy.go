// Package dummy は特徴量を無視するベースライン分類器を提供します。
package dummy

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Strategies understood by DummyClassifier.
const (
	MostFrequent = "most_frequent"
	Prior        = "prior"
	Constant     = "constant"
)

// DummyClassifier predicts without looking at the features. It is the
// baseline every real model should beat.
type DummyClassifier struct {
	state *model.StateManager

	strategy string
	constant int

	classes_ []int
	prior_   []float64
}

// Option configures a DummyClassifier.
type Option func(*DummyClassifier)

// WithStrategy selects most_frequent, prior or constant.
func WithStrategy(strategy string) Option {
	return func(d *DummyClassifier) { d.strategy = strategy }
}

// WithConstant sets the label predicted by the constant strategy.
func WithConstant(label int) Option {
	return func(d *DummyClassifier) { d.constant = label }
}

// NewDummyClassifier returns a most_frequent classifier unless configured
// otherwise.
func NewDummyClassifier(opts ...Option) *DummyClassifier {
	d := &DummyClassifier{state: model.NewStateManager(), strategy: MostFrequent}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name implements model.Named.
func (d *DummyClassifier) Name() string { return "DummyClassifier" }

// Fit records the class distribution of y.
func (d *DummyClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return errors.NewModelError("DummyClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("DummyClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewDimensionError("DummyClassifier.Fit", 1, yCols, 1)
	}
	switch d.strategy {
	case MostFrequent, Prior, Constant:
	default:
		return errors.NewValidationError("strategy", "must be most_frequent, prior or constant", d.strategy)
	}

	counts := make(map[int]int)
	for i := 0; i < yRows; i++ {
		counts[int(y.At(i, 0))]++
	}
	d.classes_ = d.classes_[:0]
	for c := range counts {
		d.classes_ = append(d.classes_, c)
	}
	slices.Sort(d.classes_)
	if d.strategy == Constant && !slices.Contains(d.classes_, d.constant) {
		return errors.NewValidationError("constant", "label not present in the training target", d.constant)
	}
	d.prior_ = make([]float64, len(d.classes_))
	for k, c := range d.classes_ {
		d.prior_[k] = float64(counts[c]) / float64(yRows)
	}

	d.state.SetDimensions(nFeatures, nSamples)
	d.state.SetFitted()
	return nil
}

// Predict returns the same label for every row. Ties between equally
// frequent classes go to the smallest label.
func (d *DummyClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := d.state.RequireFitted(d.Name(), "Predict"); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	label := d.constant
	if d.strategy != Constant {
		best := 0
		for k := range d.prior_ {
			if d.prior_[k] > d.prior_[best] {
				best = k
			}
		}
		label = d.classes_[best]
	}
	out := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		out.Set(i, 0, float64(label))
	}
	return out, nil
}

// PredictProba returns the training class distribution for every row. The
// constant strategy puts all mass on its label.
func (d *DummyClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := d.state.RequireFitted(d.Name(), "PredictProba"); err != nil {
		return nil, err
	}
	nSamples, _ := X.Dims()
	row := slices.Clone(d.prior_)
	switch d.strategy {
	case Constant:
		clear(row)
		row[slices.Index(d.classes_, d.constant)] = 1
	case MostFrequent:
		best := 0
		for k := range row {
			if row[k] > row[best] {
				best = k
			}
		}
		clear(row)
		row[best] = 1
	}
	out := mat.NewDense(nSamples, len(row), nil)
	for i := 0; i < nSamples; i++ {
		out.SetRow(i, row)
	}
	return out, nil
}

// Classes returns the sorted labels seen by Fit.
func (d *DummyClassifier) Classes() []int { return slices.Clone(d.classes_) }

// GetParams returns the hyperparameters.
func (d *DummyClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{"strategy": d.strategy, "constant": d.constant}
}
