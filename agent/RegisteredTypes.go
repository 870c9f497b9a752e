package agent

import (
	"encoding/json"
	"fmt"

	"github.com/samuelfneumann/rlconf/spec"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Type represents a specific type of a Model. For example, if a Model
// has Type DiscreteC51DQN, then the Model configures a categorical
// distributional DQN agent with discrete actions.
type Type string

const (
	DiscreteC51DQN Type = "DiscreteC51DQN"
	DiscreteDQN    Type = "DiscreteDQN"
	DiscreteQRDQN  Type = "DiscreteQRDQN"
)

// DecodeFunc decodes the body of a model variant. Violations are
// recorded in d.
type DecodeFunc func(d *spec.Decoder, body *spec.Mapping) Model

// Registered types with the package. Once a Type has been registered
// with this map, a Model with that type can be decoded.
//
// Each model variant registers its Type with the package separately
// upon initialization.
var registeredTypes = make(map[Type]DecodeFunc)

// Register registers a model Type with the function that decodes its
// body, so that documents selecting modelType can be decoded.
func Register(modelType Type, decode DecodeFunc) {
	if _, ok := registeredTypes[modelType]; ok {
		panic(fmt.Sprintf("register: model type %v already registered",
			modelType))
	}
	registeredTypes[modelType] = decode
}

// Names returns the sorted names of all registered model variants
func Names() []string {
	types := maps.Keys(registeredTypes)
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	slices.Sort(names)
	return names
}

// Decode decodes the model variant selected at key in m. If the variant
// cannot be decoded, the violations are recorded in d and nil is
// returned.
func Decode(d *spec.Decoder, m *spec.Mapping, key string) Model {
	name, body, p, ok := m.Variant(key, Names())
	if !ok {
		return nil
	}

	fields := d.Mapping(body, p)
	model := registeredTypes[Type(name)](d, fields)
	fields.Done()

	return model
}

// tagged marshals body as the single-key mapping {t: body}
func tagged(t Type, body interface{}) map[string]interface{} {
	return map[string]interface{}{string(t): body}
}

func taggedJSON(t Type, body interface{}) ([]byte, error) {
	return json.Marshal(tagged(t, body))
}
