// Package model はgonum行列レベルの推定器インターフェースと学習状態の管理を提供します。
//
// frame レベルのモデル契約は estimator パッケージが担い、
// ここで定義するインターフェースを満たす推定器をラップします。
package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is a supervised model: a Fitter that can also predict.
type Estimator interface {
	Fitter
	Predictor
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator

	// PredictProba returns probability estimates for each class, one column
	// per entry of Classes.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the sorted class labels seen during fitting.
	Classes() []int
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	// GetParams returns the model's hyperparameters.
	GetParams() map[string]interface{}
}

// Named is implemented by estimators that report a display name for logs
// and errors.
type Named interface {
	Name() string
}
