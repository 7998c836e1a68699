package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// SimpleImputer はNaNを訓練データの列平均で置き換える。
// 左結合で対応行がなかった特徴量セルはNaNとして届く。
type SimpleImputer struct {
	state *model.StateManager

	// Statistics は各特徴量の置換値
	Statistics []float64
}

// NewSimpleImputer は平均値で補完するSimpleImputerを作成する
func NewSimpleImputer() *SimpleImputer {
	return &SimpleImputer{state: model.NewStateManager()}
}

// Name implements model.Named.
func (s *SimpleImputer) Name() string { return "SimpleImputer" }

// Fit は各列のNaN以外の値の平均を計算する。全てNaNの列は0で補完する。
func (s *SimpleImputer) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("SimpleImputer.Fit", "empty data", errors.ErrEmptyData)
	}
	stats := make([]float64, c)
	present := make([]float64, 0, r)
	for j := 0; j < c; j++ {
		present = present[:0]
		for i := 0; i < r; i++ {
			if v := X.At(i, j); !math.IsNaN(v) {
				if math.IsInf(v, 0) {
					return errors.NewValueError("SimpleImputer.Fit", "input contains Inf")
				}
				present = append(present, v)
			}
		}
		if len(present) > 0 {
			stats[j] = stat.Mean(present, nil)
		}
	}
	s.Statistics = stats
	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform はNaNを学習済みの平均で置き換える
func (s *SimpleImputer) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted(s.Name(), "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := s.state.RequireFeatures("SimpleImputer.Transform", c); err != nil {
		return nil, err
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		if math.IsNaN(v) {
			return s.Statistics[j]
		}
		return v
	}, X)
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *SimpleImputer) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}
