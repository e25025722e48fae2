package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/pkg/log"
	"github.com/YuminosukeSato/biketrip/trip"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// tripForm mirrors the HTML form. Field names match the input names so
// validation messages can quote them directly.
type tripForm struct {
	Distance  *float64 `form:"Distance" binding:"required"`
	Haversine *float64 `form:"Haversine" binding:"required"`
	Phour     *float64 `form:"Phour" binding:"required,min=0,max=23"`
	Pmin      *float64 `form:"Pmin" binding:"required,min=0,max=59"`
	Dhour     *float64 `form:"Dhour" binding:"required,min=0,max=23"`
	Dmin      *float64 `form:"Dmin" binding:"required,min=0,max=59"`
	Temp      *float64 `form:"Temp" binding:"required"`
	Humid     *float64 `form:"Humid" binding:"required"`
	Solar     *float64 `form:"Solar" binding:"required"`
	Dust      *float64 `form:"Dust" binding:"required"`
}

func (f *tripForm) features() trip.Features {
	return trip.FromArray([trip.NumFeatures]float64{
		*f.Distance, *f.Haversine, *f.Phour, *f.Pmin, *f.Dhour,
		*f.Dmin, *f.Temp, *f.Humid, *f.Solar, *f.Dust,
	})
}

var fieldLabels = map[string]string{
	"Distance":  "Distance",
	"Haversine": "Haversine",
	"Phour":     "Pickup Hour",
	"Pmin":      "Pickup Minute",
	"Dhour":     "Dropoff Hour",
	"Dmin":      "Dropoff Minute",
	"Temp":      "Temp",
	"Humid":     "Humid",
	"Solar":     "Solar",
	"Dust":      "Dust",
}

type fieldView struct {
	Name     string
	Label    string
	Value    string
	Ranged   bool
	Min, Max float64
}

type pageData struct {
	Fields    []fieldView
	Errors    []string
	Predicted bool
	Minutes   int
}

// newPage builds the form with values taken from submitted, falling back
// to trip.Default for fields the user left out.
func newPage(submitted map[string]string) pageData {
	defaults := trip.Default().Values()
	page := pageData{Fields: make([]fieldView, 0, trip.NumFeatures)}
	for i, name := range trip.FeatureNames {
		v := strconv.FormatFloat(defaults[i], 'f', -1, 64)
		if s, ok := submitted[name]; ok {
			v = s
		}
		r, ranged := trip.Ranges[name]
		page.Fields = append(page.Fields, fieldView{
			Name:   name,
			Label:  fieldLabels[name],
			Value:  v,
			Ranged: ranged,
			Min:    r.Min,
			Max:    r.Max,
		})
	}
	return page
}

func (s *Server) showForm(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", newPage(nil))
}

func (s *Server) submitForm(c *gin.Context) {
	submitted := make(map[string]string, trip.NumFeatures)
	for _, name := range trip.FeatureNames {
		if v, ok := c.GetPostForm(name); ok {
			submitted[name] = v
		}
	}
	page := newPage(submitted)

	var form tripForm
	if err := c.ShouldBind(&form); err != nil {
		page.Errors = bindingMessages(err)
		c.HTML(http.StatusBadRequest, "index.html", page)
		return
	}

	minutes, err := s.predictor.Predict(form.features())
	if err != nil {
		status, _ := errorStatus(err)
		s.logger.Warn("form prediction failed", log.ErrAttrKey, err)
		page.Errors = []string{err.Error()}
		c.HTML(status, "index.html", page)
		return
	}

	page.Predicted = true
	page.Minutes = minutes
	c.HTML(http.StatusOK, "index.html", page)
}

// bindingMessages turns a binding error into one line per field.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"invalid input: " + err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, label+" is required")
		case "min", "max":
			r := trip.Ranges[fe.Field()]
			msgs = append(msgs, fmt.Sprintf("%s must be between %g and %g", label, r.Min, r.Max))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", label, fe.Tag()))
		}
	}
	return msgs
}
