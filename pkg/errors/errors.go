// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 各エラー型は cockroachdb/errors によりスタックトレースを付与して生成され、
// 呼び出し側は As で種類を判定できます。
package errors

import (
	"fmt"
	"log"
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
		log.Printf("gdlinear-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを差し替えます。
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

// ConstantColumnWarning は正規化時に値域が0の列が見つかった場合の警告です。
// 該当列はNaNになるため、呼び出し側で行または列を削除する必要があります。
type ConstantColumnWarning struct {
	Columns []string
}

func (w *ConstantColumnWarning) Error() string {
	return fmt.Sprintf("columns %v have zero range and were normalized to NaN; drop them or the rows containing NaN before training", w.Columns)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConstantColumnWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Strs("columns", w.Columns).
		Str("type", "ConstantColumnWarning")
}

// NewConstantColumnWarning は新しいConstantColumnWarningを作成します。
func NewConstantColumnWarning(columns []string) *ConstantColumnWarning {
	return &ConstantColumnWarning{Columns: columns}
}

// FrozenDatasetWarning は分割済みのデータセットに対する変更操作が無視された場合の警告です。
type FrozenDatasetWarning struct {
	Op string
}

func (w *FrozenDatasetWarning) Error() string {
	return fmt.Sprintf("%s ignored: dataset has already been split", w.Op)
}

func (w *FrozenDatasetWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Str("type", "FrozenDatasetWarning")
}

// NewFrozenDatasetWarning は新しいFrozenDatasetWarningを作成します。
func NewFrozenDatasetWarning(op string) *FrozenDatasetWarning {
	return &FrozenDatasetWarning{Op: op}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// ConfigurationError は列名やデータセット構成が不正な場合のエラーです。
// 例えば、存在しない目的変数列を指定した場合など。
type ConfigurationError struct {
	Op     string
	Column string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("gdlinear: %s: column %q: %s", e.Op, e.Column, e.Reason)
	}
	return fmt.Sprintf("gdlinear: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "ConfigurationError")
}

// NewConfigurationError は新しいConfigurationErrorを作成し、スタックトレースを付与します。
func NewConfigurationError(op, column, reason string) error {
	return errors.WithStack(&ConfigurationError{Op: op, Column: column, Reason: reason})
}

// NotReadyError は学習・評価に必要な訓練/テスト分割がまだ作られていない場合のエラーです。
type NotReadyError struct {
	ModelName string
	Method    string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("gdlinear: %s: training and test partitions are missing. Call Split() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotReadyError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotReadyError")
}

// NewNotReadyError は新しいNotReadyErrorを作成し、スタックトレースを付与します。
func NewNotReadyError(modelName, method string) error {
	return errors.WithStack(&NotReadyError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("gdlinear: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// DivisionByZeroError は分母が0になり指標が定義できない場合のエラーです。
// 例えば、全ての目的変数が同じ値で決定係数の全変動が0の場合など。
type DivisionByZeroError struct {
	Op       string
	Quantity string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("gdlinear: %s: division by zero (%s is zero)", e.Op, e.Quantity)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DivisionByZeroError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("quantity", e.Quantity).
		Str("type", "DivisionByZeroError")
}

// NewDivisionByZeroError は新しいDivisionByZeroErrorを作成し、スタックトレースを付与します。
func NewDivisionByZeroError(op, quantity string) error {
	return errors.WithStack(&DivisionByZeroError{Op: op, Quantity: quantity})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gdlinear: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
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

// ValueError は引数の値が不適切な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
	Err     error
}

func (e *ValueError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gdlinear: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("gdlinear: %s: %s", e.Op, e.Message)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NewValueErrorWithCause は原因となるエラーを保持したValueErrorを作成します。
func NewValueErrorWithCause(op, message string, cause error) error {
	return errors.WithStack(&ValueError{Op: op, Message: message, Err: cause})
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// 学習率が大きすぎて重みが発散した場合などに検出されます。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
	Iteration int
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("gdlinear: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Int("iteration", e.Iteration).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	return errors.WithStack(&NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	})
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

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = errors.New("empty data")
)
