// Package errors はプロジェクト全体のエラーハンドリングを提供します。
// 推論時の入力不正、スケーラーの退化、アーティファクト読み込み失敗を
// 型付きエラーとして表現し、cockroachdb/errors のマーカーで判定可能にします。
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrShapeMismatch は入力の特徴量数が期待と異なる場合のマーカーです。
	ErrShapeMismatch = New("shape mismatch")

	// ErrDegenerateScaler はスケール係数が0または非有限の場合のマーカーです。
	ErrDegenerateScaler = New("degenerate scaler")

	// ErrModelLoad は起動時のアーティファクト読み込みに失敗した場合のマーカーです。
	ErrModelLoad = New("model load failure")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")
)

// ===========================================================================
//
//	推論エラー型
//
// ===========================================================================

// ShapeMismatchError は特徴量ベクトルの長さが期待値と異なる場合のエラーです。
type ShapeMismatchError struct {
	Op       string
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("biketrip: %s: expected %d features, got %d", e.Op, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError はShapeMismatchErrorを作成し、ErrShapeMismatchでマークします。
func NewShapeMismatchError(op string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Expected: expected, Got: got}
	return errors.Mark(errors.WithStack(err), ErrShapeMismatch)
}

// DegenerateScalerError はスケール係数で割れない特徴量がある場合のエラーです。
type DegenerateScalerError struct {
	Feature string
	Index   int
	Scale   float64
}

func (e *DegenerateScalerError) Error() string {
	name := e.Feature
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("biketrip: degenerate scaler: feature %s has scale %v", name, e.Scale)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateScalerError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("feature", e.Feature).
		Int("index", e.Index).
		Float64("scale", e.Scale).
		Str("type", "DegenerateScalerError")
}

// NewDegenerateScalerError はDegenerateScalerErrorを作成し、ErrDegenerateScalerでマークします。
func NewDegenerateScalerError(feature string, index int, scale float64) error {
	err := &DegenerateScalerError{Feature: feature, Index: index, Scale: scale}
	return errors.Mark(errors.WithStack(err), ErrDegenerateScaler)
}

// ModelLoadError はスケーラーまたはモデルのアーティファクトを読み込めない場合のエラーです。
// プロセスはこのエラーで起動を中止します。
type ModelLoadError struct {
	Artifact string // "scaler" or "model"
	Path     string
	Err      error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("biketrip: failed to load %s artifact %q: %v", e.Artifact, e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModelLoadError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("artifact", e.Artifact).
		Str("path", e.Path).
		Str("type", "ModelLoadError")
}

// NewModelLoadError はModelLoadErrorを作成し、ErrModelLoadでマークします。
func NewModelLoadError(artifact, path string, err error) error {
	loadErr := &ModelLoadError{Artifact: artifact, Path: path, Err: err}
	return errors.Mark(errors.WithStack(loadErr), ErrModelLoad)
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("biketrip: %s: parameters are not set. Fit or load the artifact before calling %s()", e.ModelName, e.Method)
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は行列やレイヤーの次元が期待値と異なる場合のエラーです。
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
	return fmt.Sprintf("biketrip: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValueError は引数の値が不適切な場合のエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("biketrip: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// NumericalInstabilityError は計算結果にNaNやInfが現れた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
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
	return fmt.Sprintf("biketrip: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラー（またはそのマーク）かどうかを判定します。
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

// CombineErrors は2つのエラーを1つにまとめます。どちらかがnilなら他方を返します。
func CombineErrors(err, other error) error {
	return errors.CombineErrors(err, other)
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

// StackTrace はエラーに付与されたスタックトレースを文字列で返します。
// スタックがない場合は空文字列です。
func StackTrace(err error) string {
	for c := err; c != nil; c = errors.UnwrapOnce(c) {
		if details := errors.GetSafeDetails(c).SafeDetails; len(details) > 0 {
			return details[0]
		}
	}
	return ""
}
