// Package evaluation scores a trip duration predictor against labelled
// trips read from the Seoul bike trip CSV export.
package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/biketrip/core/parallel"
	"github.com/YuminosukeSato/biketrip/metrics"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/trip"
	"gonum.org/v1/gonum/mat"
)

// TargetColumn is the header of the observed duration in minutes.
const TargetColumn = "Duration"

// Sample is one labelled trip.
type Sample struct {
	Features trip.Features
	Duration float64
}

// parallelThreshold is the sample count above which Evaluate predicts
// on all cores.
const parallelThreshold = 256

// Predictor is the part of inference.Predictor that evaluation needs.
// It must be safe for concurrent use.
type Predictor interface {
	Predict(f trip.Features) (int, error)
}

// Report summarizes prediction error over a set of samples.
type Report struct {
	Samples int     `json:"samples"`
	MSE     float64 `json:"mse"`
	RMSE    float64 `json:"rmse"`
	MAE     float64 `json:"mae"`
	R2      float64 `json:"r2"`
}

// ReadCSV reads labelled trips. Columns are located by header name, so
// column order does not matter and extra columns are ignored. The header
// must contain Duration and every name in trip.FeatureNames.
func ReadCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.Wrap(errors.ErrEmptyData, "evaluation.ReadCSV: no header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "evaluation.ReadCSV: header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(strings.TrimSpace(name), "\ufeff")
		cols[name] = i
	}
	target, ok := cols[TargetColumn]
	if !ok {
		return nil, errors.NewValueError("evaluation.ReadCSV", "missing column "+TargetColumn)
	}
	var idx [trip.NumFeatures]int
	for j, name := range trip.FeatureNames {
		i, ok := cols[name]
		if !ok {
			return nil, errors.NewValueError("evaluation.ReadCSV", "missing column "+name)
		}
		idx[j] = i
	}

	var samples []Sample
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "evaluation.ReadCSV: line %d", line)
		}

		var values [trip.NumFeatures]float64
		for j, i := range idx {
			if values[j], err = parseField(rec[i]); err != nil {
				return nil, errors.Wrapf(err, "evaluation.ReadCSV: line %d column %s", line, trip.FeatureNames[j])
			}
		}
		duration, err := parseField(rec[target])
		if err != nil {
			return nil, errors.Wrapf(err, "evaluation.ReadCSV: line %d column %s", line, TargetColumn)
		}
		samples = append(samples, Sample{Features: trip.FromArray(values), Duration: duration})
	}

	if len(samples) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "evaluation.ReadCSV: no rows")
	}
	return samples, nil
}

func parseField(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.NewValueError("parseField", fmt.Sprintf("%q is not a number", s))
	}
	return v, nil
}

// Evaluate predicts every sample and compares the whole-minute output
// with the observed duration.
func Evaluate(p Predictor, samples []Sample) (Report, error) {
	n := len(samples)
	if n == 0 {
		return Report{}, errors.Wrap(errors.ErrEmptyData, "evaluation.Evaluate")
	}

	yTrue := mat.NewVecDense(n, nil)
	yPred := mat.NewVecDense(n, nil)
	err := parallel.Chunks(n, parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			minutes, err := p.Predict(samples[i].Features)
			if err != nil {
				return errors.Wrapf(err, "evaluation.Evaluate: sample %d", i)
			}
			// Distinct indices, so concurrent SetVec calls do not overlap.
			yTrue.SetVec(i, samples[i].Duration)
			yPred.SetVec(i, float64(minutes))
		}
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	r := Report{Samples: n}
	if r.MSE, err = metrics.MSE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if r.RMSE, err = metrics.RMSE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if r.MAE, err = metrics.MAE(yTrue, yPred); err != nil {
		return Report{}, err
	}
	if r.R2, err = metrics.R2Score(yTrue, yPred); err != nil {
		return Report{}, err
	}
	return r, nil
}
