// Package inference turns a trip's ten raw features into a predicted
// duration in whole minutes.
//
// A Predictor owns one standard scaler and one regression network, both
// loaded once and never mutated. Predict standardizes the features,
// evaluates the network and truncates the single output toward zero.
package inference

import (
	"context"
	"math"
	"time"

	"github.com/YuminosukeSato/biketrip/neural"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/YuminosukeSato/biketrip/preprocessing"
	"github.com/YuminosukeSato/biketrip/trip"
)

// Predictor is the immutable inference context. It is safe for
// concurrent use without locking.
type Predictor struct {
	scaler *preprocessing.StandardScaler
	net    *neural.MLP
	logger log.Logger
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithLogger sets the logger used for per-prediction debug output.
func WithLogger(l log.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPredictor checks that scaler and net fit the ten-feature contract.
//
// The scaler must have NumFeatures finite, non-zero scales and, when it
// records column names, the same names in the same order as
// trip.FeatureNames. The network must accept NumFeatures inputs and
// produce exactly one output.
func NewPredictor(scaler *preprocessing.StandardScaler, net *neural.MLP, opts ...Option) (*Predictor, error) {
	if scaler == nil || !scaler.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "NewPredictor")
	}
	if net == nil || !net.IsFitted() {
		return nil, errors.NewNotFittedError("MLP", "NewPredictor")
	}
	if scaler.NFeatures != trip.NumFeatures {
		return nil, errors.NewDimensionError("NewPredictor: scaler", trip.NumFeatures, scaler.NFeatures, 1)
	}
	if err := scaler.Validate(); err != nil {
		return nil, err
	}
	for i, name := range scaler.FeatureNames {
		if name != trip.FeatureNames[i] {
			return nil, errors.NewValueError("NewPredictor",
				"scaler column "+name+" does not match expected feature "+trip.FeatureNames[i])
		}
	}
	if net.InputDim() != trip.NumFeatures {
		return nil, errors.NewDimensionError("NewPredictor: network input", trip.NumFeatures, net.InputDim(), 1)
	}
	if net.OutputDim() != 1 {
		return nil, errors.NewDimensionError("NewPredictor: network output", 1, net.OutputDim(), 1)
	}

	p := &Predictor{scaler: scaler, net: net, logger: log.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Load reads the scaler and network artifacts and builds a Predictor.
// Every failure is a ModelLoadError marked with errors.ErrModelLoad.
func Load(scalerPath, modelPath string, opts ...Option) (*Predictor, error) {
	start := time.Now()

	scaler, err := preprocessing.LoadStandardScaler(scalerPath)
	if err != nil {
		return nil, errors.NewModelLoadError("scaler", scalerPath, err)
	}
	net, err := neural.LoadMLP(modelPath)
	if err != nil {
		return nil, errors.NewModelLoadError("model", modelPath, err)
	}
	p, err := NewPredictor(scaler, net, opts...)
	if err != nil {
		return nil, errors.NewModelLoadError("model", modelPath, err)
	}

	p.logger.Info("artifacts loaded",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseStartup,
		log.FeaturesKey, trip.NumFeatures,
		log.LayersKey, net.NumLayers(),
		log.ModelNameKey, net.String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return p, nil
}

// Standardize applies (x - mean) / scale to every feature.
func (p *Predictor) Standardize(f trip.Features) [trip.NumFeatures]float64 {
	raw := f.Values()
	var out [trip.NumFeatures]float64
	// Arity and scale validity were checked in NewPredictor.
	_, _ = p.scaler.TransformVec(out[:], raw[:])
	return out
}

// Raw returns the untruncated network output for f.
func (p *Predictor) Raw(f trip.Features) (float64, error) {
	z := p.Standardize(f)
	if p.logger.Enabled(context.Background(), log.LevelDebug) {
		p.logger.Debug("standardized features",
			log.OperationKey, log.OperationTransform,
			log.StandardizedKey, z[:],
		)
	}

	out, err := p.net.Forward(z[:])
	if err != nil {
		return 0, err
	}
	if err := errors.CheckScalar("Predictor.Raw", out[0]); err != nil {
		return 0, err
	}
	return out[0], nil
}

// Predict returns the predicted trip duration in minutes, truncated
// toward zero. Feature ranges are not checked.
func (p *Predictor) Predict(f trip.Features) (int, error) {
	raw, err := p.Raw(f)
	if err != nil {
		return 0, err
	}
	minutes, err := Truncate(raw)
	if err != nil {
		return 0, err
	}
	p.logger.Debug("prediction",
		log.OperationKey, log.OperationPredict,
		log.RawOutputKey, raw,
		log.PredictionKey, minutes,
	)
	return minutes, nil
}

// PredictValues is Predict for a loosely typed slice. Any length other
// than trip.NumFeatures fails with a ShapeMismatchError.
func (p *Predictor) PredictValues(values []float64) (int, error) {
	f, err := trip.FromValues(values)
	if err != nil {
		return 0, err
	}
	return p.Predict(f)
}

// Truncate converts a model output to whole minutes, discarding the
// fractional part (12.9 → 12, -3.7 → -3).
func Truncate(v float64) (int, error) {
	if err := errors.CheckScalar("Truncate", v); err != nil {
		return 0, err
	}
	t := math.Trunc(v)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, errors.NewNumericalInstabilityError("Truncate", []float64{v})
	}
	return int(t), nil
}
