// Package sensitivity shows how the predicted duration responds to one
// feature while the others stay fixed.
package sensitivity

import (
	"fmt"
	"io"
	"math"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"github.com/YuminosukeSato/biketrip/trip"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// MaxSteps bounds the number of evaluations in one sweep.
const MaxSteps = 1000

// Model returns the untruncated prediction for a trip.
type Model interface {
	Raw(f trip.Features) (float64, error)
}

// Point is one evaluation of a sweep.
type Point struct {
	Value float64 `json:"value"`
	Raw   float64 `json:"raw"`
}

// Sweep evaluates m at steps evenly spaced values of feature in
// [from, to], starting from base.
func Sweep(m Model, base trip.Features, feature string, from, to float64, steps int) ([]Point, error) {
	if trip.Index(feature) < 0 {
		return nil, errors.NewValueError("sensitivity.Sweep", "unknown feature "+feature)
	}
	if steps < 2 || steps > MaxSteps {
		return nil, errors.NewValueError("sensitivity.Sweep", fmt.Sprintf("steps must be in [2, %d], got %d", MaxSteps, steps))
	}
	if err := errors.CheckNumericalStability("sensitivity.Sweep", []float64{from, to}); err != nil {
		return nil, err
	}
	if from >= to {
		return nil, errors.NewValueError("sensitivity.Sweep", fmt.Sprintf("empty interval [%v, %v]", from, to))
	}

	values := floats.Span(make([]float64, steps), from, to)
	points := make([]Point, steps)
	for i, v := range values {
		f, err := base.With(feature, v)
		if err != nil {
			return nil, err
		}
		raw, err := m.Raw(f)
		if err != nil {
			return nil, errors.Wrapf(err, "sensitivity.Sweep: %s=%v", feature, v)
		}
		points[i] = Point{Value: v, Raw: raw}
	}
	return points, nil
}

// Render draws points as a PNG line chart of the given size. A panic in
// the drawing backend is returned as a PanicError.
func Render(w io.Writer, points []Point, feature string, width, height vg.Length) error {
	if len(points) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "sensitivity.Render")
	}

	p := plot.New()
	p.Title.Text = "Predicted duration vs " + feature
	p.X.Label.Text = feature
	p.Y.Label.Text = "Duration (min)"
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Value
		xys[i].Y = pt.Raw
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return errors.Wrap(err, "sensitivity.Render")
	}
	p.Add(line)

	return errors.SafeExecute("sensitivity.Render", func() error {
		wt, err := p.WriterTo(width, height, "png")
		if err != nil {
			return errors.Wrap(err, "sensitivity.Render")
		}
		if _, err := wt.WriteTo(w); err != nil {
			return errors.Wrap(err, "sensitivity.Render")
		}
		return nil
	})
}

// DefaultSize is the chart size used by the server and the CLI.
const DefaultSize = 6 * vg.Inch

// DefaultInterval picks a sweep interval for feature around base: the
// slider bounds for time components, otherwise [v-|v|-1, v+|v|+1].
func DefaultInterval(base trip.Features, feature string) (from, to float64, err error) {
	if r, ok := trip.Ranges[feature]; ok {
		return r.Min, r.Max, nil
	}
	v, err := base.Get(feature)
	if err != nil {
		return 0, 0, err
	}
	return v - math.Abs(v) - 1, v + math.Abs(v) + 1, nil
}
