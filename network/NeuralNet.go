// Package network implements the net builder variants that can be
// selected in a training document, and describes the layer layout of
// the value networks they build.
//
// No computational graph is built by this package. A Layout is handed
// to the training harness, which builds and owns the network.
package network

import (
	"fmt"

	"github.com/samuelfneumann/rlconf/spec"
)

// Type is the name of a net builder variant
type Type string

const (
	FullyConnected Type = "FullyConnected"
	Dueling        Type = "Dueling"
	Categorical    Type = "Categorical"
	Quantile       Type = "Quantile"
)

// Builder is a selected net builder variant. The concrete type of a
// Builder is one of FullyConnectedConfig, DuelingConfig,
// CategoricalConfig or QuantileConfig.
type Builder interface {
	// Type returns the variant name of the Builder
	Type() Type

	// Hidden returns the hidden layers of the network
	Hidden() MLP

	// Layout returns the layout of the network the Builder describes
	// for an environment with the given observation dimension and
	// number of actions. The numAtoms argument is ignored by builders
	// that do not output distributions.
	Layout(stateDim, numActions, numAtoms int) (Layout, error)

	// Validate returns the range violations of the Builder, if any
	Validate() error

	// Clone returns a deep copy of the Builder
	Clone() Builder

	builder()
}

// MLP describes the hidden layers of a value network
type MLP struct {
	Sizes        []int            `yaml:"sizes,flow" json:"sizes"`
	Activations  []ActivationType `yaml:"activations,flow" json:"activations"`
	DropoutRatio float64          `yaml:"dropout_ratio" json:"dropout_ratio"`
}

// Hidden returns the hidden layers of the network
func (m MLP) Hidden() MLP {
	return m
}

func (m MLP) clone() MLP {
	m.Sizes = append([]int(nil), m.Sizes...)
	m.Activations = append([]ActivationType(nil), m.Activations...)
	return m
}

// Validate checks that the MLP has one known activation per hidden
// layer and positive layer sizes
func (m MLP) Validate() error {
	var vs spec.Violations

	if len(m.Sizes) == 0 {
		vs = append(vs, spec.Violate("sizes", "must have at least one "+
			"hidden layer"))
	}
	for i, size := range m.Sizes {
		if size <= 0 {
			vs = append(vs, &spec.Violation{
				Field:      spec.Path{"sizes"}.Index(i),
				Constraint: fmt.Sprintf("must be > 0, have %v", size),
			})
		}
	}

	if len(m.Activations) != len(m.Sizes) {
		vs = append(vs, spec.Violate("activations", "invalid number of "+
			"activations, want(%v) have(%v): one per hidden layer size",
			len(m.Sizes), len(m.Activations)).On("sizes"))
	}
	for i, act := range m.Activations {
		if !act.Valid() {
			vs = append(vs, &spec.Violation{
				Field: spec.Path{"activations"}.Index(i),
				Constraint: fmt.Sprintf("unknown activation %q, want one "+
					"of %v", string(act), ActivationNames()),
			})
		}
	}

	if m.DropoutRatio < 0 || m.DropoutRatio >= 1 {
		vs = append(vs, spec.Violate("dropout_ratio", "must be in [0, 1), "+
			"have %v", m.DropoutRatio))
	}

	return vs.Err()
}

// layout returns a Layout with the MLP's hidden layers and the given
// output heads
func (m MLP) layout(t Type, stateDim int, heads ...Head) (Layout, error) {
	if err := m.Validate(); err != nil {
		return Layout{}, fmt.Errorf("layout: invalid %v builder: %v", t, err)
	}
	if stateDim <= 0 {
		return Layout{}, fmt.Errorf("layout: state dimension must be > 0, "+
			"have %v", stateDim)
	}
	for _, h := range heads {
		if h.Units <= 0 {
			return Layout{}, fmt.Errorf("layout: head %v must have > 0 "+
				"units, have %v", h.Name, h.Units)
		}
	}

	hidden := make([]Layer, len(m.Sizes))
	for i := range m.Sizes {
		hidden[i] = Layer{Units: m.Sizes[i], Activation: m.Activations[i]}
	}

	return Layout{
		Type:         t,
		Input:        stateDim,
		Hidden:       hidden,
		Heads:        heads,
		DropoutRatio: m.DropoutRatio,
	}, nil
}

func decodeMLP(m *spec.Mapping) MLP {
	names := m.RequireStrings("activations")
	acts := make([]ActivationType, len(names))
	for i, name := range names {
		acts[i] = ActivationType(name)
	}

	return MLP{
		Sizes:        m.RequireInts("sizes"),
		Activations:  acts,
		DropoutRatio: m.Float("dropout_ratio", 0.0),
	}
}

// Decode decodes the net builder variant selected at key in m. Only
// the variants in allowed may be selected. If the variant cannot be
// decoded, the violations are recorded in d and nil is returned.
func Decode(d *spec.Decoder, m *spec.Mapping, key string,
	allowed ...Type) Builder {
	names := make([]string, len(allowed))
	for i, t := range allowed {
		names[i] = string(t)
	}

	name, body, p, ok := m.Variant(key, names)
	if !ok {
		return nil
	}

	fields := d.Mapping(body, p)
	hidden := decodeMLP(fields)
	fields.Done()

	var b Builder
	switch Type(name) {
	case FullyConnected:
		b = FullyConnectedConfig{hidden}
	case Dueling:
		b = DuelingConfig{hidden}
	case Categorical:
		b = CategoricalConfig{hidden}
	case Quantile:
		b = QuantileConfig{hidden}
	default:
		panic(fmt.Sprintf("decode: no such net builder %v", name))
	}

	d.Check(p, b.Validate())
	return b
}

func tagged(t Type, body interface{}) map[string]interface{} {
	return map[string]interface{}{string(t): body}
}
