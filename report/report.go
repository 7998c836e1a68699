// Package report summarises the test output of a run.
package report

import (
	"io"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/metrics"
	"github.com/YuminosukeSato/ufcpredictor/pipeline"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// Summary is the evaluation of one run on its test partition.
type Summary struct {
	RunID        string               `yaml:"run_id"`
	Model        string               `yaml:"model,omitempty"`
	TrainSamples int                  `yaml:"train_samples"`
	TestSamples  int                  `yaml:"test_samples"`
	Features     []string             `yaml:"features"`
	Accuracy     float64              `yaml:"accuracy"`
	MacroF1      float64              `yaml:"macro_f1"`
	Labels       []string             `yaml:"labels"`
	Confusion    [][]int              `yaml:"confusion"`
	Classes      []metrics.ClassScore `yaml:"classes"`
	Predicted    map[string]int       `yaml:"predicted"`
	Actual       map[string]int       `yaml:"actual"`
	Drift        *metrics.DriftReport `yaml:"drift,omitempty"`
}

// DriftMinSamples is the test size from which Summarize runs drift detection
// over the predictions in table order.
const DriftMinSamples = 30

// Summarize evaluates res over every outcome code. A run with an empty test
// partition gets zero scores.
func Summarize(res *pipeline.TrainingResult) (*Summary, error) {
	if res == nil {
		return nil, errors.NewValidationError("result", "training result must not be nil", nil)
	}
	s := &Summary{
		RunID:        res.RunID(),
		TrainSamples: res.XTrain().Len(),
		TestSamples:  res.XTest().Len(),
		Features:     res.XTrain().Columns(),
		Predicted:    map[string]int{},
		Actual:       map[string]int{},
	}
	if n, ok := res.Model().(model.Named); ok {
		s.Model = n.Name()
	}
	labels := make([]int, len(pipeline.Outcomes))
	for i, o := range pipeline.Outcomes {
		labels[i] = int(o)
		s.Labels = append(s.Labels, o.String())
	}
	if res.TestOutput().Len() == 0 {
		return s, nil
	}
	pred, actual, ok := res.OutputVectors()
	if !ok {
		return nil, errors.NewValueError("Summarize", "test output is not numeric")
	}

	acc, err := metrics.Accuracy(actual, pred)
	if err != nil {
		return nil, err
	}
	s.Accuracy = acc
	cm, _, err := metrics.ConfusionMatrix(actual, pred, labels)
	if err != nil {
		return nil, err
	}
	s.Confusion = toInts(cm)
	if s.Classes, err = metrics.PrecisionRecallF1(actual, pred, labels); err != nil {
		return nil, err
	}
	s.MacroF1 = metrics.MacroF1(s.Classes)
	countOutcomes(s.Predicted, pred)
	countOutcomes(s.Actual, actual)
	if actual.Len() >= DriftMinSamples {
		drift, err := metrics.DetectDrift(actual, pred, metrics.WithDDMMinInstances(DriftMinSamples))
		if err != nil {
			return nil, err
		}
		s.Drift = &drift
	}
	return s, nil
}

// WriteYAML renders s as YAML.
func WriteYAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "encode summary")
	}
	return enc.Close()
}

func toInts(m *mat.Dense) [][]int {
	r, c := m.Dims()
	out := make([][]int, r)
	for i := range out {
		out[i] = make([]int, c)
		for j := range out[i] {
			out[i][j] = int(m.At(i, j))
		}
	}
	return out
}

func countOutcomes(dst map[string]int, v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		dst[pipeline.Outcome(int64(v.AtVec(i))).String()]++
	}
}
