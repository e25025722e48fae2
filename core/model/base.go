package model

// EstimatorState はパラメータが揃っているかどうかを表す
type EstimatorState int

const (
	// NotFitted はパラメータ未設定の状態
	NotFitted EstimatorState = iota
	// Fitted はFitまたはアーティファクト読み込みでパラメータが揃った状態
	Fitted
)

// BaseEstimator はスケーラーとネットワークに埋め込む共通の状態
//
// 推論時は読み込み後に一度だけSetFittedされ、以後は変更されない。
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted はパラメータが揃っているかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted はパラメータが揃った状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset は未設定状態に戻す
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}
