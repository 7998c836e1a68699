// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// データセット組み立てパイプラインの各段階（結合、特徴量生成、分割、学習）で
// 発生する失敗を、構造化されたエラー型として表現します。
package errors

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("ufcpredictor-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// DataConversionWarning はデータの型が暗黙的に変換された、または列が除外された場合の警告です。
type DataConversionWarning struct {
	FromType string
	ToType   string
	Reason   string
}

func (w *DataConversionWarning) Error() string {
	return fmt.Sprintf("data converted from %s to %s. Reason: %s", w.FromType, w.ToType, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DataConversionWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("from_type", w.FromType).
		Str("to_type", w.ToType).
		Str("reason", w.Reason).
		Str("type", "DataConversionWarning")
}

// NewDataConversionWarning は新しいDataConversionWarningを作成します。
func NewDataConversionWarning(from, to, reason string) *DataConversionWarning {
	return &DataConversionWarning{FromType: from, ToType: to, Reason: reason}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
// 例えば、適合率を計算する際に、あるクラスの予測が一つもなかった場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	パイプライン構成・結合のエラー型
//
// ===========================================================================

// ConfigurationError はコンポーネントの構成が不正な場合のエラーです。
// 結合キーのないデータソースや、シード入力が空の実行などが該当します。
type ConfigurationError struct {
	Component string
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ufcpredictor: configuration error in %s: %s", e.Component, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("component", e.Component).
		Str("reason", e.Reason).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(component, reason string) error {
	return errors.WithStack(&ConfigurationError{Component: component, Reason: reason})
}

// Join key sides reported by MissingJoinKeyError and CardinalityError.
const (
	SideBase     = "base"
	SideFeatures = "features"
)

// MissingJoinKeyError はデータソースが宣言した結合キーがテーブルに存在しない場合のエラーです。
type MissingJoinKeyError struct {
	Source string
	Side   string // SideBase or SideFeatures
	Keys   []string
}

func (e *MissingJoinKeyError) Error() string {
	return fmt.Sprintf("ufcpredictor: %s table missing join keys required by %s: [%s]",
		e.Side, e.Source, strings.Join(e.Keys, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingJoinKeyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("side", e.Side).
		Strs("keys", e.Keys).
		Str("type", "MissingJoinKeyError")
}

// NewMissingJoinKeyError は新しいMissingJoinKeyErrorを作成し、スタックトレースを付与します。
func NewMissingJoinKeyError(source, side string, keys []string) error {
	return errors.WithStack(&MissingJoinKeyError{Source: source, Side: side, Keys: append([]string(nil), keys...)})
}

// CardinalityError は一対一結合の前提が崩れた場合のエラーです。
// 同じ結合キーの組が片側に複数存在する、または strict 結合で対応行がない場合に発生します。
type CardinalityError struct {
	Source string
	Side   string
	Key    string // 問題となった結合キーの値（表示用）
	Reason string
}

func (e *CardinalityError) Error() string {
	return fmt.Sprintf("ufcpredictor: merge of %s is not one-to-one: %s on %s side for key %s",
		e.Source, e.Reason, e.Side, e.Key)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *CardinalityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).
		Str("side", e.Side).
		Str("key", e.Key).
		Str("reason", e.Reason).
		Str("type", "CardinalityError")
}

// NewCardinalityError は新しいCardinalityErrorを作成し、スタックトレースを付与します。
func NewCardinalityError(source, side, key, reason string) error {
	return errors.WithStack(&CardinalityError{Source: source, Side: side, Key: key, Reason: reason})
}

// DependencyError は特徴量ビルダーの依存関係が実行時点で満たされていない場合のエラーです。
type DependencyError struct {
	Builder         string
	MissingSources  []string
	MissingFeatures []string
}

func (e *DependencyError) Error() string {
	if len(e.MissingSources) > 0 {
		return fmt.Sprintf("ufcpredictor: feature builder '%s' requires missing data sources: %s",
			e.Builder, strings.Join(e.MissingSources, ", "))
	}
	return fmt.Sprintf("ufcpredictor: feature builder '%s' depends on features that have not been created yet: %s",
		e.Builder, strings.Join(e.MissingFeatures, ", "))
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DependencyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("builder", e.Builder).
		Strs("missing_sources", e.MissingSources).
		Strs("missing_features", e.MissingFeatures).
		Str("type", "DependencyError")
}

// NewMissingSourcesError は不足データソースのDependencyErrorを作成します。識別子はソートされます。
func NewMissingSourcesError(builder string, missing []string) error {
	return errors.WithStack(&DependencyError{Builder: builder, MissingSources: sorted(missing)})
}

// NewMissingFeaturesError は未生成特徴量のDependencyErrorを作成します。識別子はソートされます。
func NewMissingFeaturesError(builder string, missing []string) error {
	return errors.WithStack(&DependencyError{Builder: builder, MissingFeatures: sorted(missing)})
}

// MissingOutcomeColumnError は組み立て後のテーブルに目的変数列が存在しない場合のエラーです。
type MissingOutcomeColumnError struct {
	Column string
}

func (e *MissingOutcomeColumnError) Error() string {
	return fmt.Sprintf("ufcpredictor: the consolidated feature table must contain an '%s' column", e.Column)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *MissingOutcomeColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("column", e.Column).Str("type", "MissingOutcomeColumnError")
}

// NewMissingOutcomeColumnError は新しいMissingOutcomeColumnErrorを作成します。
func NewMissingOutcomeColumnError(column string) error {
	return errors.WithStack(&MissingOutcomeColumnError{Column: column})
}

// LoadError はデータソースの読み込みに失敗した場合のエラーです。
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("ufcpredictor: load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("source", e.Source).AnErr("cause", e.Err).Str("type", "LoadError")
}

// NewLoadError は新しいLoadErrorを作成し、スタックトレースを付与します。
func NewLoadError(source string, err error) error {
	return errors.WithStack(&LoadError{Source: source, Err: err})
}

// ===========================================================================
//
//	構造化されたエラー型（推定器）
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("ufcpredictor: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("ufcpredictor: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName(e.Axis), e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName(e.Axis)).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func axisName(axis int) string {
	if axis == 0 {
		return "rows"
	}
	return "features"
}

// ValidationError は入力パラメータや中間結果の検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ufcpredictor: validation failed for '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、勝敗コードに解釈できない値を渡した場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("ufcpredictor: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError は機械学習モデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ufcpredictor: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("ufcpredictor: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	種別判定ヘルパー
//
// ===========================================================================

// IsConfiguration はエラーがConfigurationErrorを含むかどうかを返します。
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsMissingJoinKey はエラーがMissingJoinKeyErrorを含むかどうかを返します。
func IsMissingJoinKey(err error) bool {
	var target *MissingJoinKeyError
	return errors.As(err, &target)
}

// IsCardinality はエラーがCardinalityErrorを含むかどうかを返します。
func IsCardinality(err error) bool {
	var target *CardinalityError
	return errors.As(err, &target)
}

// IsDependency はエラーがDependencyErrorを含むかどうかを返します。
func IsDependency(err error) bool {
	var target *DependencyError
	return errors.As(err, &target)
}

// IsMissingOutcomeColumn はエラーがMissingOutcomeColumnErrorを含むかどうかを返します。
func IsMissingOutcomeColumn(err error) bool {
	var target *MissingOutcomeColumnError
	return errors.As(err, &target)
}

// IsLoad はエラーがLoadErrorを含むかどうかを返します。
func IsLoad(err error) bool {
	var target *LoadError
	return errors.As(err, &target)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は機能が未実装の場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)
