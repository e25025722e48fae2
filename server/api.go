package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/sensitivity"
	"github.com/YuminosukeSato/biketrip/trip"
	"github.com/gin-gonic/gin"
)

// PredictRequest is a named feature record. Every field is required;
// values are not range checked.
type PredictRequest struct {
	Distance      *float64 `json:"distance" binding:"required"`
	Haversine     *float64 `json:"haversine" binding:"required"`
	PickupHour    *float64 `json:"pickup_hour" binding:"required"`
	PickupMinute  *float64 `json:"pickup_minute" binding:"required"`
	DropoffHour   *float64 `json:"dropoff_hour" binding:"required"`
	DropoffMinute *float64 `json:"dropoff_minute" binding:"required"`
	Temperature   *float64 `json:"temperature" binding:"required"`
	Humidity      *float64 `json:"humidity" binding:"required"`
	Solar         *float64 `json:"solar" binding:"required"`
	Dust          *float64 `json:"dust" binding:"required"`
}

func (r *PredictRequest) features() trip.Features {
	return trip.Features{
		Distance:      *r.Distance,
		Haversine:     *r.Haversine,
		PickupHour:    *r.PickupHour,
		PickupMinute:  *r.PickupMinute,
		DropoffHour:   *r.DropoffHour,
		DropoffMinute: *r.DropoffMinute,
		Temperature:   *r.Temperature,
		Humidity:      *r.Humidity,
		Solar:         *r.Solar,
		Dust:          *r.Dust,
	}
}

// VectorRequest carries raw values in trip.FeatureNames order.
type VectorRequest struct {
	Values []float64 `json:"values" binding:"required"`
}

type PredictResponse struct {
	DurationMinutes int `json:"duration_minutes"`
}

func (s *Server) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.NewValueError("predict", err.Error()))
		return
	}

	minutes, err := s.predictor.Predict(req.features())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PredictResponse{DurationMinutes: minutes})
}

func (s *Server) predictVector(c *gin.Context) {
	var req VectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, errors.NewValueError("predict/vector", err.Error()))
		return
	}

	minutes, err := s.predictor.PredictValues(req.Values)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, PredictResponse{DurationMinutes: minutes})
}

type featureInfo struct {
	Name    string      `json:"name"`
	Label   string      `json:"label"`
	Default float64     `json:"default"`
	Range   *trip.Range `json:"range,omitempty"`
}

func (s *Server) features(c *gin.Context) {
	defaults := trip.Default().Values()
	out := make([]featureInfo, trip.NumFeatures)
	for i, name := range trip.FeatureNames {
		out[i] = featureInfo{Name: name, Label: fieldLabels[name], Default: defaults[i]}
		if r, ok := trip.Ranges[name]; ok {
			out[i].Range = &r
		}
	}
	c.JSON(http.StatusOK, gin.H{"features": out})
}

// sweep renders a sensitivity chart around trip.Default. Query
// parameters: feature (required), from, to, steps.
func (s *Server) sweep(c *gin.Context) {
	feature := c.Query("feature")
	base := trip.Default()
	lo, hi, err := sensitivity.DefaultInterval(base, feature)
	if err != nil {
		s.fail(c, err)
		return
	}

	from, err1 := queryFloat(c, "from", lo)
	to, err2 := queryFloat(c, "to", hi)
	steps, err3 := strconv.Atoi(c.DefaultQuery("steps", "50"))
	if err := errors.CombineErrors(errors.CombineErrors(err1, err2), err3); err != nil {
		s.fail(c, errors.NewValueError("sweep", err.Error()))
		return
	}

	points, err := sensitivity.Sweep(s.predictor, base, feature, from, to, steps)
	if err != nil {
		s.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := sensitivity.Render(&buf, points, feature, sensitivity.DefaultSize, sensitivity.DefaultSize*2/3); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func queryFloat(c *gin.Context, key string, def float64) (float64, error) {
	s, ok := c.GetQuery(key)
	if !ok {
		return def, nil
	}
	return strconv.ParseFloat(s, 64)
}
