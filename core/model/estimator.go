package model

import "gonum.org/v1/gonum/mat"

// Predictor はバッチ予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力行列 (n_samples × n_features) に対する予測を返す
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

// Artifact はディスクに保存されるパラメータ群のインターフェース
type Artifact interface {
	// Validate は読み込んだパラメータの整合性を検証する
	Validate() error
}
