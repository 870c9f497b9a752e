package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

// ActivationType names an activation function as it appears in a
// training document
type ActivationType string

const (
	ActReLU      ActivationType = "relu"
	ActLeakyReLU ActivationType = "leaky_relu"
	ActTanh      ActivationType = "tanh"
	ActSigmoid   ActivationType = "sigmoid"
	ActLinear    ActivationType = "linear"
)

// LeakyReLUSlope is the slope of the leaky ReLU for negative inputs
const LeakyReLUSlope = 0.01

// ActivationNames returns the names of all legal activation functions
func ActivationNames() []string {
	return []string{
		string(ActReLU),
		string(ActLeakyReLU),
		string(ActTanh),
		string(ActSigmoid),
		string(ActLinear),
	}
}

// Valid returns whether t names a known activation function
func (t ActivationType) Valid() bool {
	_, err := t.Activation()
	return err == nil
}

// Activation returns the *Activation named by t
func (t ActivationType) Activation() (*Activation, error) {
	switch t {
	case ActReLU:
		return ReLU(), nil
	case ActLeakyReLU:
		return LeakyReLU(), nil
	case ActTanh:
		return TanH(), nil
	case ActSigmoid:
		return Sigmoid(), nil
	case ActLinear:
		return Identity(), nil
	}
	return nil, fmt.Errorf("activation: unknown activation %q", string(t))
}

// Activation represents an activation function type
type Activation struct {
	activationType ActivationType
	f              func(x *G.Node) (*G.Node, error)
}

// Fwd performs the forward pass of an Activation
func (a *Activation) Fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// Type returns the name of the Activation
func (a *Activation) Type() ActivationType {
	return a.activationType
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == ActLinear
}

// GobEncode implements the GobEncoder interface
func (a *Activation) GobEncode() ([]byte, error) {
	return []byte(a.activationType), nil
}

// GobDecode implements the GobDecoder interface
func (a *Activation) GobDecode(encoded []byte) error {
	decoded, err := ActivationType(encoded).Activation()
	if err != nil {
		return fmt.Errorf("gobdecode: illegal Activation type: %v", err)
	}
	*a = *decoded
	return nil
}

// Identity returns an identity *Activation
func Identity() *Activation {
	return &Activation{
		activationType: ActLinear,
		f: func(x *G.Node) (*G.Node, error) {
			return x, nil
		},
	}
}

// ReLU returns a ReLU *Activation
func ReLU() *Activation {
	return &Activation{
		activationType: ActReLU,
		f:              G.Rectify,
	}
}

// LeakyReLU returns a leaky ReLU *Activation with slope LeakyReLUSlope
func LeakyReLU() *Activation {
	return &Activation{
		activationType: ActLeakyReLU,
		f: func(x *G.Node) (*G.Node, error) {
			return G.LeakyRelu(x, LeakyReLUSlope)
		},
	}
}

// TanH returns a tanh *Activation
func TanH() *Activation {
	return &Activation{
		activationType: ActTanh,
		f:              G.Tanh,
	}
}

// Sigmoid returns a sigmoid *Activation
func Sigmoid() *Activation {
	return &Activation{
		activationType: ActSigmoid,
		f:              G.Sigmoid,
	}
}
