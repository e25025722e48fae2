// Package neural implements inference for feed-forward regression networks.
//
// Only the forward pass exists. Weights come from an exported artifact and
// are never updated, so an MLP is safe for concurrent use after loading.
package neural

import (
	"fmt"

	"github.com/YuminosukeSato/biketrip/core/model"
	"github.com/YuminosukeSato/biketrip/core/parallel"
	"github.com/YuminosukeSato/biketrip/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Dense is a fully connected layer computing act(kernelᵀ·x + bias).
//
// Kernel is stored in Keras orientation: inputs × units.
type Dense struct {
	Name       string
	Kernel     *mat.Dense
	Bias       *mat.VecDense
	Activation Activation
}

// InputDim returns the number of inputs the layer accepts.
func (d *Dense) InputDim() int {
	r, _ := d.Kernel.Dims()
	return r
}

// Units returns the number of outputs of the layer.
func (d *Dense) Units() int {
	_, c := d.Kernel.Dims()
	return c
}

// forward writes the layer output for x into dst.
func (d *Dense) forward(dst, x *mat.VecDense) {
	dst.MulVec(d.Kernel.T(), x)
	dst.AddVec(dst, d.Bias)
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, d.Activation.Apply(dst.AtVec(i)))
	}
}

var (
	_ model.Predictor = (*MLP)(nil)
	_ model.Artifact  = (*Architecture)(nil)
)

// MLP is a stack of Dense layers.
type MLP struct {
	model.BaseEstimator

	layers []Dense
}

// NewMLP checks that consecutive layers chain and returns a ready network.
func NewMLP(layers ...Dense) (*MLP, error) {
	if len(layers) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "NewMLP: no layers")
	}
	layers = append([]Dense(nil), layers...)
	for i := range layers {
		l := &layers[i]
		if l.Kernel == nil || l.Bias == nil {
			return nil, errors.NewValueError("NewMLP", fmt.Sprintf("layer %d has no kernel or bias", i))
		}
		if l.Bias.Len() != l.Units() {
			return nil, errors.NewDimensionError(fmt.Sprintf("NewMLP: layer %d bias", i), l.Units(), l.Bias.Len(), 1)
		}
		if i > 0 && l.InputDim() != layers[i-1].Units() {
			return nil, errors.NewDimensionError(fmt.Sprintf("NewMLP: layer %d input", i), layers[i-1].Units(), l.InputDim(), 1)
		}
		if l.Activation == "" {
			l.Activation = Linear
		}
	}

	m := &MLP{layers: layers}
	m.SetFitted()
	return m, nil
}

// InputDim returns the width of the network input.
func (m *MLP) InputDim() int {
	return m.layers[0].InputDim()
}

// OutputDim returns the width of the network output.
func (m *MLP) OutputDim() int {
	return m.layers[len(m.layers)-1].Units()
}

// NumLayers returns the number of Dense layers.
func (m *MLP) NumLayers() int {
	return len(m.layers)
}

// Forward evaluates the network on a single input row.
func (m *MLP) Forward(x []float64) (out []float64, err error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MLP", "Forward")
	}
	if len(x) != m.InputDim() {
		return nil, errors.NewDimensionError("MLP.Forward", m.InputDim(), len(x), 1)
	}
	defer errors.Recover(&err, "MLP.Forward")

	in := mat.NewVecDense(len(x), append([]float64(nil), x...))
	for i := range m.layers {
		next := mat.NewVecDense(m.layers[i].Units(), nil)
		m.layers[i].forward(next, in)
		in = next
	}
	return mat.Col(nil, 0, in), nil
}

// batchThreshold is the row count above which Predict uses all cores.
const batchThreshold = 512

// Predict evaluates the network on every row of X and returns an
// n_samples × OutputDim matrix.
func (m *MLP) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !m.IsFitted() {
		return nil, errors.NewNotFittedError("MLP", "Predict")
	}
	r, c := X.Dims()
	if c != m.InputDim() {
		return nil, errors.NewDimensionError("MLP.Predict", m.InputDim(), c, 1)
	}

	out := mat.NewDense(r, m.OutputDim(), nil)
	err := parallel.Chunks(r, batchThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			row, err := m.Forward(mat.Row(nil, i, X))
			if err != nil {
				return errors.Wrapf(err, "row %d", i)
			}
			out.SetRow(i, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// String returns a one-line summary such as "MLP(10-8-4-1)".
func (m *MLP) String() string {
	s := fmt.Sprintf("MLP(%d", m.InputDim())
	for _, l := range m.layers {
		s += fmt.Sprintf("-%d", l.Units())
	}
	return s + ")"
}
