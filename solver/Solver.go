// Package solver implements the optimizer variants that can be selected
// in a training document and wraps the Gorgonia Solvers they describe.
//
// An optimizer is selected in a document as a single-key mapping, for
// example:
//
//	optimizer:
//	  Adam:
//	    lr: 0.001
//	    amsgrad: true
package solver

import (
	"encoding/json"

	"github.com/samuelfneumann/rlconf/spec"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	SGD     Type = "SGD"
	RMSprop Type = "RMSprop"
)

// Optimizer is a selected optimizer variant. The concrete type of an
// Optimizer is one of AdamConfig, SGDConfig or RMSpropConfig, so that
// callers can dispatch on it with a type switch.
type Optimizer interface {
	// Type returns the variant name of the Optimizer
	Type() Type

	// Create returns a new Gorgonia Solver as described by the
	// Optimizer, averaging gradients over batches of batchSize
	Create(batchSize int) G.Solver

	// Unsupported returns the names of the options that are set but
	// that Gorgonia cannot honour. These options are ignored by Create.
	Unsupported() []string

	// Validate returns the range violations of the Optimizer, if any
	Validate() error

	// Clone returns a deep copy of the Optimizer
	Clone() Optimizer

	optimizer()
}

// decoders holds the function used to decode the body of each variant
var decoders = map[Type]func(m *spec.Mapping) Optimizer{
	Adam:    decodeAdam,
	SGD:     decodeSGD,
	RMSprop: decodeRMSprop,
}

// Names returns the names of all optimizer variants
func Names() []string {
	return []string{string(Adam), string(SGD), string(RMSprop)}
}

// Decode decodes the optimizer variant selected at key in m. If the
// variant cannot be decoded, the violations are recorded in d and nil
// is returned.
func Decode(d *spec.Decoder, m *spec.Mapping, key string) Optimizer {
	name, body, p, ok := m.Variant(key, Names())
	if !ok {
		return nil
	}

	fields := d.Mapping(body, p)
	opt := decoders[Type(name)](fields)
	fields.Done()
	d.Check(p, opt.Validate())

	return opt
}

// tagged marshals body as the single-key mapping {t: body}
func tagged(t Type, body interface{}) map[string]interface{} {
	return map[string]interface{}{string(t): body}
}

func taggedJSON(t Type, body interface{}) ([]byte, error) {
	return json.Marshal(tagged(t, body))
}
