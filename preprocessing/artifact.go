package preprocessing

import (
	"github.com/YuminosukeSato/biketrip/core/model"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

// ScalerModelType はアーティファクトのmodel_typeに入る値
const ScalerModelType = "StandardScaler"

var (
	_ model.Transformer = (*StandardScaler)(nil)
	_ model.Artifact    = (*ScalerParams)(nil)
)

// ScalerParams はStandardScalerのシリアライズ形式
//
// scikit-learnのmean_とscale_をそのまま書き出したもの。
type ScalerParams struct {
	ModelType    string    `json:"model_type"`
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

// Validate はパラメータの整合性を検証する
func (p *ScalerParams) Validate() error {
	if p.ModelType != ScalerModelType {
		return errors.NewValueError("ScalerParams.Validate", "model_type must be "+ScalerModelType+", got "+p.ModelType)
	}
	if len(p.Mean) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "ScalerParams.Validate: mean")
	}
	if len(p.Scale) != len(p.Mean) {
		return errors.NewDimensionError("ScalerParams.Validate", len(p.Mean), len(p.Scale), 1)
	}
	if len(p.FeatureNames) > 0 && len(p.FeatureNames) != len(p.Mean) {
		return errors.NewDimensionError("ScalerParams.Validate", len(p.Mean), len(p.FeatureNames), 1)
	}
	return nil
}

// Params は学習済みスケーラーをシリアライズ形式に変換する
func (s *StandardScaler) Params() ScalerParams {
	return ScalerParams{
		ModelType:    ScalerModelType,
		Version:      "1.0",
		FeatureNames: append([]string(nil), s.FeatureNames...),
		Mean:         append([]float64(nil), s.Mean...),
		Scale:        append([]float64(nil), s.Scale...),
	}
}

// NewStandardScalerFromParams はパラメータから学習済みスケーラーを復元する
//
// スケール係数の退化チェックもここで行うため、返されたスケーラーは
// ゼロ除算を起こさない。
func NewStandardScalerFromParams(p ScalerParams) (*StandardScaler, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := NewStandardScalerDefault()
	s.NFeatures = len(p.Mean)
	s.Mean = append([]float64(nil), p.Mean...)
	s.Scale = append([]float64(nil), p.Scale...)
	s.FeatureNames = append([]string(nil), p.FeatureNames...)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.SetFitted()
	return s, nil
}

// LoadStandardScaler はファイルからスケーラーを読み込む
func LoadStandardScaler(path string) (*StandardScaler, error) {
	var p ScalerParams
	if err := model.Load(path, &p); err != nil {
		return nil, err
	}
	return NewStandardScalerFromParams(p)
}

// Save はスケーラーをファイルに保存する
func (s *StandardScaler) Save(path string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", "Save")
	}
	return model.Save(path, s.Params())
}
