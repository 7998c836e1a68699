package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// DDM はGamaらのDrift Detection Methodで、予測の正誤列から誤り率の上昇を検出する。
// J. Gama, P. Medas, G. Castillo, P. Rodrigues (2004) "Learning with Drift Detection"
//
// 単一のゴルーチンから使うこと。
type DDM struct {
	minInstances int
	warningLevel float64
	driftLevel   float64

	n      int
	errors int

	minRate float64
	minStd  float64
}

// DriftState is the detector state after one observation.
type DriftState struct {
	Warning   bool
	Drift     bool
	ErrorRate float64
}

// DDMOption configures a DDM.
type DDMOption func(*DDM)

// WithDDMMinInstances sets how many observations are needed before any
// warning or drift is reported.
func WithDDMMinInstances(n int) DDMOption {
	return func(d *DDM) {
		if n > 0 {
			d.minInstances = n
		}
	}
}

// WithDDMLevels sets the warning and drift thresholds in standard deviations.
func WithDDMLevels(warning, drift float64) DDMOption {
	return func(d *DDM) {
		d.warningLevel = warning
		d.driftLevel = drift
	}
}

// NewDDM creates a detector with thresholds at 2σ (warning) and 3σ (drift).
func NewDDM(opts ...DDMOption) *DDM {
	d := &DDM{minInstances: 30, warningLevel: 2, driftLevel: 3}
	for _, opt := range opts {
		opt(d)
	}
	d.Reset()
	return d
}

// Update adds one prediction outcome. After a drift the detector starts over.
func (d *DDM) Update(correct bool) DriftState {
	d.n++
	if !correct {
		d.errors++
	}
	if d.n < d.minInstances {
		return DriftState{}
	}

	p := float64(d.errors) / float64(d.n)
	s := math.Sqrt(p * (1 - p) / float64(d.n))
	state := DriftState{ErrorRate: p}

	// 最小の p+s を基準として保持
	if p+s < d.minRate+d.minStd {
		d.minRate, d.minStd = p, s
	}
	if p+s > d.minRate+d.warningLevel*d.minStd {
		state.Warning = true
	}
	if p+s > d.minRate+d.driftLevel*d.minStd {
		state.Drift = true
		d.Reset()
	}
	return state
}

// Reset clears all statistics.
func (d *DDM) Reset() {
	d.n, d.errors = 0, 0
	d.minRate, d.minStd = math.Inf(1), math.Inf(1)
}

// DriftReport summarises a DDM pass over a sequence of predictions.
type DriftReport struct {
	// FirstWarning and FirstDrift are positions in the sequence, -1 when
	// never reached.
	FirstWarning int `yaml:"first_warning"`
	FirstDrift   int `yaml:"first_drift"`
	Drifts       int `yaml:"drifts"`
}

// DetectDrift runs a DDM over the predictions in order, treating each
// position as correct when yPred equals yTrue.
func DetectDrift(yTrue, yPred *mat.VecDense, opts ...DDMOption) (DriftReport, error) {
	n, err := checkPair("DetectDrift", yTrue, yPred)
	if err != nil {
		return DriftReport{}, err
	}
	d := NewDDM(opts...)
	r := DriftReport{FirstWarning: -1, FirstDrift: -1}
	for i := 0; i < n; i++ {
		st := d.Update(yTrue.AtVec(i) == yPred.AtVec(i))
		if st.Warning && r.FirstWarning < 0 {
			r.FirstWarning = i
		}
		if st.Drift {
			r.Drifts++
			if r.FirstDrift < 0 {
				r.FirstDrift = i
			}
		}
	}
	return r, nil
}
