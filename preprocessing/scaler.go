package preprocessing

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/biketrip/core/model"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// StandardScaler はscikit-learn互換の標準化スケーラー
// データを平均0、標準偏差1に変換する
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差
	Scale []float64

	// NFeatures は特徴量の数
	NFeatures int

	// FeatureNames は学習時の列名（オプション）
	FeatureNames []string

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
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
func NewStandardScaler(withMean, withStd bool) *StandardScaler {
	return &StandardScaler{
		WithMean: withMean,
		WithStd:  withStd,
	}
}

// NewStandardScalerDefault はデフォルト設定でStandardScalerを作成する
func NewStandardScalerDefault() *StandardScaler {
	return NewStandardScaler(true, true)
}

// Fit は訓練データから統計情報（平均、標準偏差）を計算する
//
// 標準偏差が0に近い特徴量はscikit-learnと同様にスケール1とする。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	s.Reset()
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.Wrap(errors.ErrEmptyData, "StandardScaler.Fit")
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)

	for j := 0; j < c; j++ {
		col := mat.Col(nil, j, X)

		if s.WithMean {
			sum := 0.0
			for _, v := range col {
				sum += v
			}
			s.Mean[j] = sum / float64(r)
		}

		s.Scale[j] = 1.0
		if s.WithStd {
			sumSquares := 0.0
			for _, v := range col {
				diff := v - s.Mean[j]
				sumSquares += diff * diff
			}
			std := math.Sqrt(sumSquares / float64(r))
			if std >= 1e-8 {
				s.Scale[j] = std
			}
		}
	}

	s.SetFitted()
	return nil
}

// Validate はスケール係数が全て有限かつ非ゼロであることを確認する
//
// 戻り値:
//   - error: 退化した特徴量があればDegenerateScalerError、
//     長さが揃っていなければDimensionError
func (s *StandardScaler) Validate() error {
	if len(s.Mean) != s.NFeatures {
		return errors.NewDimensionError("StandardScaler.Validate", s.NFeatures, len(s.Mean), 1)
	}
	if len(s.Scale) != s.NFeatures {
		return errors.NewDimensionError("StandardScaler.Validate", s.NFeatures, len(s.Scale), 1)
	}
	for j, sc := range s.Scale {
		if sc == 0 || !errors.IsFinite(sc) {
			return errors.NewDegenerateScalerError(s.featureName(j), j, sc)
		}
	}
	for j, m := range s.Mean {
		if !errors.IsFinite(m) {
			return errors.NewNumericalInstabilityError(fmt.Sprintf("StandardScaler.Mean[%s]", s.featureName(j)), []float64{m})
		}
	}
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)

	return result, nil
}

// TransformVec は1行分の特徴量を標準化する
//
// 推論のホットパス用。dstがnilまたは長さ不足なら新たに確保する。
func (s *StandardScaler) TransformVec(dst, x []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "TransformVec")
	}
	if len(x) != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.TransformVec", s.NFeatures, len(x), 1)
	}
	if cap(dst) < len(x) {
		dst = make([]float64, len(x))
	}
	dst = dst[:len(x)]
	for j, v := range x {
		dst[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return dst, nil
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
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
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
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, n_features=%d)",
		s.WithMean, s.WithStd, s.NFeatures)
}

func (s *StandardScaler) featureName(j int) string {
	if j < len(s.FeatureNames) {
		return s.FeatureNames[j]
	}
	return ""
}
