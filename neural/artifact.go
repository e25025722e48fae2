package neural

import (
	"fmt"

	"github.com/YuminosukeSato/biketrip/core/model"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ModelType is the model_type value of an exported network.
const ModelType = "MLPRegressor"

// LayerSpec is the serialized form of a Dense layer.
type LayerSpec struct {
	Name       string      `json:"name,omitempty"`
	Activation string      `json:"activation"`
	Kernel     [][]float64 `json:"kernel"`
	Bias       []float64   `json:"bias"`
}

// Architecture is the serialized form of an MLP.
type Architecture struct {
	ModelType string      `json:"model_type"`
	Version   string      `json:"version"`
	InputDim  int         `json:"input_dim"`
	Layers    []LayerSpec `json:"layers"`
}

// Validate checks the header fields. Layer shapes are checked by Build.
func (a *Architecture) Validate() error {
	if a.ModelType != ModelType {
		return errors.NewValueError("Architecture.Validate", "model_type must be "+ModelType+", got "+a.ModelType)
	}
	if len(a.Layers) == 0 {
		return errors.Wrap(errors.ErrEmptyData, "Architecture.Validate: layers")
	}
	return nil
}

// Build converts the architecture into a runnable network.
func (a *Architecture) Build() (*MLP, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	layers := make([]Dense, len(a.Layers))
	for i, spec := range a.Layers {
		layer, err := spec.build()
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d (%s)", i, spec.Name)
		}
		layers[i] = layer
	}

	m, err := NewMLP(layers...)
	if err != nil {
		return nil, err
	}
	if a.InputDim != 0 && a.InputDim != m.InputDim() {
		return nil, errors.NewDimensionError("Architecture.Build", a.InputDim, m.InputDim(), 1)
	}
	return m, nil
}

func (s LayerSpec) build() (Dense, error) {
	act, err := ParseActivation(s.Activation)
	if err != nil {
		return Dense{}, err
	}
	rows := len(s.Kernel)
	if rows == 0 || len(s.Kernel[0]) == 0 {
		return Dense{}, errors.Wrap(errors.ErrEmptyData, "kernel")
	}
	cols := len(s.Kernel[0])

	data := make([]float64, 0, rows*cols)
	for r, row := range s.Kernel {
		if len(row) != cols {
			return Dense{}, errors.NewDimensionError(fmt.Sprintf("kernel row %d", r), cols, len(row), 1)
		}
		data = append(data, row...)
	}
	if err := errors.CheckNumericalStability("kernel", data); err != nil {
		return Dense{}, err
	}
	if err := errors.CheckNumericalStability("bias", s.Bias); err != nil {
		return Dense{}, err
	}
	if len(s.Bias) != cols {
		return Dense{}, errors.NewDimensionError("bias", cols, len(s.Bias), 1)
	}

	return Dense{
		Name:       s.Name,
		Kernel:     mat.NewDense(rows, cols, data),
		Bias:       mat.NewVecDense(cols, append([]float64(nil), s.Bias...)),
		Activation: act,
	}, nil
}

// Architecture returns the serializable form of m.
func (m *MLP) Architecture() Architecture {
	arch := Architecture{
		ModelType: ModelType,
		Version:   "1.0",
		InputDim:  m.InputDim(),
		Layers:    make([]LayerSpec, len(m.layers)),
	}
	for i, l := range m.layers {
		kernel := make([][]float64, l.InputDim())
		for r := range kernel {
			kernel[r] = mat.Row(nil, r, l.Kernel)
		}
		arch.Layers[i] = LayerSpec{
			Name:       l.Name,
			Activation: string(l.Activation),
			Kernel:     kernel,
			Bias:       mat.Col(nil, 0, l.Bias),
		}
	}
	return arch
}

// LoadMLP reads an exported network from path (.json or .gob).
func LoadMLP(path string) (*MLP, error) {
	var arch Architecture
	if err := model.Load(path, &arch); err != nil {
		return nil, err
	}
	return arch.Build()
}

// Save writes m to path (.json or .gob).
func (m *MLP) Save(path string) error {
	return model.Save(path, m.Architecture())
}
