package pipeline

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/estimator"
	"github.com/YuminosukeSato/ufcpredictor/frame"
	"github.com/YuminosukeSato/ufcpredictor/metrics"
)

// TrainingResult is what a successful run returns. Frames and series are
// immutable, so the accessors hand out the run's own values.
type TrainingResult struct {
	runID      string
	model      estimator.Model
	table      *frame.Frame
	xTrain     *frame.Frame
	xTest      *frame.Frame
	yTrain     *frame.Series
	yTest      *frame.Series
	testOutput *frame.Frame
}

// RunID identifies the run in logs and metrics.
func (r *TrainingResult) RunID() string { return r.runID }

// Model returns the fitted model.
func (r *TrainingResult) Model() estimator.Model { return r.model }

// Table returns the assembled table, outcome column included.
func (r *TrainingResult) Table() *frame.Frame { return r.table }

func (r *TrainingResult) XTrain() *frame.Frame  { return r.xTrain }
func (r *TrainingResult) XTest() *frame.Frame   { return r.xTest }
func (r *TrainingResult) YTrain() *frame.Series { return r.yTrain }
func (r *TrainingResult) YTest() *frame.Series  { return r.yTest }

// TestOutput has columns prediction and actual, indexed like YTest.
func (r *TrainingResult) TestOutput() *frame.Frame { return r.testOutput }

// Accuracy is the share of test rows predicted correctly. ok is false when
// the test set is empty or either column is not numeric.
func (r *TrainingResult) Accuracy() (acc float64, ok bool) {
	pred, actual, ok := r.OutputVectors()
	if !ok {
		return 0, false
	}
	acc, err := metrics.Accuracy(actual, pred)
	if err != nil {
		return 0, false
	}
	return acc, true
}

// OutputVectors returns the prediction and actual columns as gonum vectors.
// ok is false when the test set is empty or either column is not numeric.
func (r *TrainingResult) OutputVectors() (pred, actual *mat.VecDense, ok bool) {
	if r.testOutput == nil || r.testOutput.Len() == 0 {
		return nil, nil, false
	}
	p, err := r.testOutput.Series(ColPrediction)
	if err != nil {
		return nil, nil, false
	}
	a, err := r.testOutput.Series(ColActual)
	if err != nil {
		return nil, nil, false
	}
	pf, err := p.Float64s()
	if err != nil {
		return nil, nil, false
	}
	af, err := a.Float64s()
	if err != nil {
		return nil, nil, false
	}
	return mat.NewVecDense(len(pf), pf), mat.NewVecDense(len(af), af), true
}
