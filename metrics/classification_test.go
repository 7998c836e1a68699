package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

func vecs(yTrue, yPred []float64) (*mat.VecDense, *mat.VecDense) {
	var t, p *mat.VecDense
	if len(yTrue) > 0 {
		t = mat.NewVecDense(len(yTrue), yTrue)
	}
	if len(yPred) > 0 {
		p = mat.NewVecDense(len(yPred), yPred)
	}
	return t, p
}

func TestClassificationError(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classification",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  0.0,
		},
		{
			name:  "One error",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.2,
		},
		{
			name:  "All wrong",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  1.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue, yPred := vecs(tt.yTrue, tt.yPred)
			got, err := ClassificationError(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("ClassificationError() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ClassificationError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yTrue, yPred := vecs(tt.yTrue, tt.yPred)
			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue, yPred := vecs([]float64{0, 1, 2, 1, 0}, []float64{0, 1, 1, 1, 2})
	cm, labels, err := ConfusionMatrix(yTrue, yPred, nil)
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}
	if len(labels) != 3 || labels[0] != 0 || labels[2] != 2 {
		t.Fatalf("labels = %v", labels)
	}
	want := mat.NewDense(3, 3, []float64{
		1, 0, 1,
		0, 2, 0,
		0, 1, 0,
	})
	if !mat.Equal(cm, want) {
		t.Errorf("ConfusionMatrix() =\n%v\nwant\n%v", mat.Formatted(cm), mat.Formatted(want))
	}

	fixed, _, err := ConfusionMatrix(yTrue, yPred, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := fixed.Dims(); r != 4 {
		t.Errorf("fixed label set should give 4 rows, got %d", r)
	}
}

func TestPrecisionRecallF1(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	yTrue, yPred := vecs([]float64{0, 0, 1, 1}, []float64{0, 1, 1, 1})
	scores, err := PrecisionRecallF1(yTrue, yPred, []int{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		label                 int
		precision, recall, f1 float64
		support               int
	}{
		{0, 1, 0.5, 2.0 / 3, 2},
		{1, 2.0 / 3, 1, 0.8, 2},
		{2, 0, 0, 0, 0},
	}
	for i, tt := range tests {
		s := scores[i]
		if s.Label != tt.label || s.Support != tt.support ||
			math.Abs(s.Precision-tt.precision) > 1e-9 ||
			math.Abs(s.Recall-tt.recall) > 1e-9 ||
			math.Abs(s.F1-tt.f1) > 1e-9 {
			t.Errorf("class %d: got %+v", tt.label, s)
		}
	}
	if len(warnings) != 2 {
		t.Errorf("expected 2 undefined metric warnings for the empty class, got %d", len(warnings))
	}
	if got := MacroF1(scores); math.Abs(got-(2.0/3+0.8)/3) > 1e-9 {
		t.Errorf("MacroF1() = %v", got)
	}
}
