// Package preprocessing は特徴量行列のスケーリングを提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/ufcpredictor/core/model"
	"github.com/YuminosukeSato/ufcpredictor/core/parallel"
	"github.com/YuminosukeSato/ufcpredictor/pkg/errors"
)

// 列数がこの値を超えると列ごとの統計量を並列に計算する
const parallelColumnThreshold = 64

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// WithMean は平均を引くかどうか (デフォルト: true)
	WithMean bool

	// WithStd は標準偏差で割るかどうか (デフォルト: true)
	WithStd bool
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler(true, true)
//	XScaled, err := scaler.FitTransform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Name implements model.Named.
func (s *StandardScaler) Name() string { return "StandardScaler" }

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool { return s.state.IsFitted() }

// Fit は訓練データから統計情報（平均、母標準偏差）を計算する。
// NaN を含むデータはエラーになる。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix("StandardScaler.Fit", X, r, c); err != nil {
		return err
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	parallel.ParallelizeWithThreshold(c, parallelColumnThreshold, func(start, end int) {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			m, sd := stat.PopMeanStdDev(col, nil)
			if !s.WithMean {
				m = 0
			}
			mean[j] = m
			scale[j] = 1
			// 標準偏差が0に近い場合は1のまま（ゼロ除算を避ける）
			if s.WithStd && math.Abs(sd) >= 1e-8 {
				scale[j] = sd
			}
		}
	})

	s.Mean, s.Scale = mean, scale
	s.state.SetDimensions(c, r)
	s.state.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted(s.Name(), "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := s.state.RequireFeatures("StandardScaler.Transform", c); err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted(s.Name(), "InverseTransform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := s.state.RequireFeatures("StandardScaler.InverseTransform", c); err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return result, nil
}

// GetParams はスケーラーのパラメータを取得する
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"with_mean": s.WithMean,
		"with_std":  s.WithStd,
	}
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t)", s.WithMean, s.WithStd)
	}
	nFeatures, _ := s.state.GetDimensions()
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)", s.WithMean, s.WithStd, nFeatures)
}

// MinMaxScaler はscikit-learn互換のMin-Maxスケーラー
// データを指定した範囲（デフォルト[0,1]）にスケーリングする
type MinMaxScaler struct {
	state *model.StateManager

	// DataMin, DataMax は訓練データの各特徴量の最小値・最大値
	DataMin []float64
	DataMax []float64

	// FeatureRange はスケーリング後の範囲 [min, max]
	FeatureRange [2]float64
}

// NewMinMaxScaler は新しいMinMaxScalerを作成する
func NewMinMaxScaler(featureRange [2]float64) *MinMaxScaler {
	return &MinMaxScaler{state: model.NewStateManager(), FeatureRange: featureRange}
}

// NewMinMaxScalerDefault はデフォルト設定([0,1]範囲)でMinMaxScalerを作成する
func NewMinMaxScalerDefault() *MinMaxScaler {
	return NewMinMaxScaler([2]float64{0, 1})
}

// Name implements model.Named.
func (m *MinMaxScaler) Name() string { return "MinMaxScaler" }

// Fit は訓練データから最小値・最大値を計算する
func (m *MinMaxScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("MinMaxScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if m.FeatureRange[0] >= m.FeatureRange[1] {
		return errors.NewValidationError("feature_range", "minimum must be below maximum", m.FeatureRange)
	}
	if err := errors.CheckMatrix("MinMaxScaler.Fit", X, r, c); err != nil {
		return err
	}
	lo := make([]float64, c)
	hi := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		lo[j], hi[j] = col[0], col[0]
		for _, v := range col[1:] {
			lo[j] = math.Min(lo[j], v)
			hi[j] = math.Max(hi[j], v)
		}
	}
	m.DataMin, m.DataMax = lo, hi
	m.state.SetDimensions(c, r)
	m.state.SetFitted()
	return nil
}

// Transform は学習済みの統計情報を使ってデータをスケーリングする。
// 定数列は範囲の下限に写る。
func (m *MinMaxScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.state.RequireFitted(m.Name(), "Transform"); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	if err := m.state.RequireFeatures("MinMaxScaler.Transform", c); err != nil {
		return nil, err
	}
	lo, hi := m.FeatureRange[0], m.FeatureRange[1]
	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		span := m.DataMax[j] - m.DataMin[j]
		if span == 0 {
			return lo
		}
		return lo + (v-m.DataMin[j])/span*(hi-lo)
	}, X)
	return result, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (m *MinMaxScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := m.Fit(X); err != nil {
		return nil, err
	}
	return m.Transform(X)
}

// GetParams はスケーラーのパラメータを取得する
func (m *MinMaxScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{"feature_range": m.FeatureRange}
}
