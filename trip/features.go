// Package trip defines the ten-feature record the duration model consumes.
package trip

import (
	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

// NumFeatures is the arity of the model input.
const NumFeatures = 10

// FeatureNames are the training-set column names, in model input order.
var FeatureNames = [NumFeatures]string{
	"Distance", "Haversine", "Phour", "Pmin", "Dhour",
	"Dmin", "Temp", "Humid", "Solar", "Dust",
}

// Features is one trip to predict. Field order matches FeatureNames.
type Features struct {
	Distance      float64 `json:"distance"`  // metres travelled
	Haversine     float64 `json:"haversine"` // straight-line km between docks
	PickupHour    float64 `json:"pickup_hour"`
	PickupMinute  float64 `json:"pickup_minute"`
	DropoffHour   float64 `json:"dropoff_hour"`
	DropoffMinute float64 `json:"dropoff_minute"`
	Temperature   float64 `json:"temperature"` // °C
	Humidity      float64 `json:"humidity"`    // %
	Solar         float64 `json:"solar"`       // MJ/m2
	Dust          float64 `json:"dust"`        // µg/m3
}

// Default returns the values the form is prefilled with.
func Default() Features {
	return Features{
		Distance:      8490,
		Haversine:     3.400058,
		PickupHour:    19,
		PickupMinute:  14,
		DropoffHour:   20,
		DropoffMinute: 12,
		Temperature:   8.8,
		Humidity:      49.0,
		Solar:         0.05,
		Dust:          27.0,
	}
}

// Values returns the features in model input order.
func (f Features) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		f.Distance, f.Haversine,
		f.PickupHour, f.PickupMinute,
		f.DropoffHour, f.DropoffMinute,
		f.Temperature, f.Humidity, f.Solar, f.Dust,
	}
}

// FromArray is the inverse of Values.
func FromArray(v [NumFeatures]float64) Features {
	return Features{
		Distance:      v[0],
		Haversine:     v[1],
		PickupHour:    v[2],
		PickupMinute:  v[3],
		DropoffHour:   v[4],
		DropoffMinute: v[5],
		Temperature:   v[6],
		Humidity:      v[7],
		Solar:         v[8],
		Dust:          v[9],
	}
}

// FromValues builds Features from a loosely typed slice.
// Any length other than NumFeatures is a shape mismatch.
func FromValues(values []float64) (Features, error) {
	if len(values) != NumFeatures {
		return Features{}, errors.NewShapeMismatchError("trip.FromValues", NumFeatures, len(values))
	}
	var arr [NumFeatures]float64
	copy(arr[:], values)
	return FromArray(arr), nil
}

// Index returns the input position of a column name, or -1.
func Index(name string) int {
	for i, n := range FeatureNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Get returns the value of the named column.
func (f Features) Get(name string) (float64, error) {
	i := Index(name)
	if i < 0 {
		return 0, errors.NewValueError("trip.Get", "unknown feature "+name)
	}
	return f.Values()[i], nil
}

// With returns a copy of f with the named column set to v.
func (f Features) With(name string, v float64) (Features, error) {
	i := Index(name)
	if i < 0 {
		return f, errors.NewValueError("trip.With", "unknown feature "+name)
	}
	arr := f.Values()
	arr[i] = v
	return FromArray(arr), nil
}
