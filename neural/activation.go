package neural

import (
	"math"

	"github.com/YuminosukeSato/biketrip/pkg/errors"
)

// Activation names an element-wise layer nonlinearity. Values match the
// Keras activation identifiers so exported models load unchanged.
type Activation string

const (
	Linear   Activation = "linear"
	ReLU     Activation = "relu"
	Sigmoid  Activation = "sigmoid"
	Tanh     Activation = "tanh"
	ELU      Activation = "elu"
	Softplus Activation = "softplus"
)

// ParseActivation validates a name read from an artifact. Empty means linear.
func ParseActivation(name string) (Activation, error) {
	switch a := Activation(name); a {
	case "":
		return Linear, nil
	case Linear, ReLU, Sigmoid, Tanh, ELU, Softplus:
		return a, nil
	default:
		return "", errors.NewValueError("neural.ParseActivation", "unsupported activation "+name)
	}
}

// Apply evaluates the activation at v.
func (a Activation) Apply(v float64) float64 {
	switch a {
	case ReLU:
		return math.Max(0, v)
	case Sigmoid:
		return 1 / (1 + math.Exp(-v))
	case Tanh:
		return math.Tanh(v)
	case ELU:
		if v > 0 {
			return v
		}
		return math.Expm1(v)
	case Softplus:
		// log(1+e^v), stable for large |v|
		if v > 30 {
			return v
		}
		return math.Log1p(math.Exp(v))
	default:
		return v
	}
}
