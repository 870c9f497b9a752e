package network

import (
	"fmt"
	"strings"

	"gorgonia.org/tensor"
)

// Layer is a hidden layer of a network
type Layer struct {
	Units      int
	Activation ActivationType
}

// Head is an output layer of a network. Heads have no activation.
type Head struct {
	Name  string
	Units int
}

// Layout describes the layers of a value network: the input, the
// hidden layers in order, and one or more output heads each fed by the
// last hidden layer.
type Layout struct {
	Type         Type
	Input        int
	Hidden       []Layer
	Heads        []Head
	DropoutRatio float64
}

// Shapes returns the shapes of the weight matrices of the network,
// first for the hidden layers in order, then for each head. Each weight
// matrix has shape (fan in, fan out).
func (l Layout) Shapes() []tensor.Shape {
	shapes := make([]tensor.Shape, 0, len(l.Hidden)+len(l.Heads))

	in := l.Input
	for _, layer := range l.Hidden {
		shapes = append(shapes, tensor.Shape{in, layer.Units})
		in = layer.Units
	}
	for _, head := range l.Heads {
		shapes = append(shapes, tensor.Shape{in, head.Units})
	}

	return shapes
}

// NumParams returns the number of weights and biases in the network
func (l Layout) NumParams() int {
	params := 0
	for _, shape := range l.Shapes() {
		params += shape.TotalSize() + shape[1]
	}
	return params
}

// Activations returns the activation function of each hidden layer
func (l Layout) Activations() ([]*Activation, error) {
	acts := make([]*Activation, len(l.Hidden))
	for i, layer := range l.Hidden {
		act, err := layer.Activation.Activation()
		if err != nil {
			return nil, fmt.Errorf("activations: layer %v: %v", i, err)
		}
		acts[i] = act
	}
	return acts, nil
}

// String implements the fmt.Stringer interface
func (l Layout) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v: %v", l.Type, l.Input)
	for _, layer := range l.Hidden {
		fmt.Fprintf(&b, " -> %v(%v)", layer.Units, layer.Activation)
	}

	heads := make([]string, len(l.Heads))
	for i, head := range l.Heads {
		heads[i] = fmt.Sprintf("%v(%v)", head.Name, head.Units)
	}
	fmt.Fprintf(&b, " -> [%v]", strings.Join(heads, ", "))

	return b.String()
}
