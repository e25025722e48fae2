package trip

// Range is an inclusive bound used by the form sliders.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds the slider bounds of the time-component fields. Other
// features are unbounded. Predict does not consult these.
var Ranges = map[string]Range{
	"Phour": {Min: 0, Max: 23},
	"Pmin":  {Min: 0, Max: 59},
	"Dhour": {Min: 0, Max: 23},
	"Dmin":  {Min: 0, Max: 59},
}

// OutOfRange lists the columns of f that fall outside Ranges.
func (f Features) OutOfRange() []string {
	values := f.Values()
	var names []string
	for i, name := range FeatureNames {
		if r, ok := Ranges[name]; ok && !r.Contains(values[i]) {
			names = append(names, name)
		}
	}
	return names
}
