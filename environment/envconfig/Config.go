// Package envconfig provides the environment variants that can be
// selected in a training document. Environment configurations in this
// package are YAML and JSON serializable.
//
// An environment is selected as a single-key mapping, for example:
//
//	env:
//	  Gym:
//	    env_name: CartPole-v0
package envconfig

import (
	"encoding/json"
	"fmt"
	"strings"

	env "github.com/samuelfneumann/rlconf/environment"
	"github.com/samuelfneumann/rlconf/spec"
)

// Type stores the name of the environment variants that can be
// configured with this package
type Type string

const (
	Gym Type = "Gym"
)

// Names returns the names of all environment variants
func Names() []string {
	return []string{string(Gym)}
}

// Env is a selected environment variant. The concrete type of an Env
// is GymConfig.
type Env interface {
	// Type returns the variant name of the Env
	Type() Type

	// Name returns the name the environment is registered under
	Name() string

	// Resolve returns the Descriptor of the environment in r
	Resolve(r *env.Registry) (env.Descriptor, error)

	// Validate returns the range violations of the Env, if any
	Validate() error

	envVariant()
}

// GymConfig selects an OpenAI Gym environment by name
type GymConfig struct {
	EnvName string `yaml:"env_name" json:"env_name"`
}

func (GymConfig) envVariant() {}

// Type returns the variant name of the configuration
func (g GymConfig) Type() Type {
	return Gym
}

// Name returns the Gym name of the environment
func (g GymConfig) Name() string {
	return g.EnvName
}

// Validate checks that the configuration names an environment. Whether
// the name is registered is not checked until the environment is
// resolved.
func (g GymConfig) Validate() error {
	if strings.TrimSpace(g.EnvName) == "" {
		return spec.Violate("env_name", "must be a non-empty environment name")
	}
	return nil
}

// Resolve returns the Descriptor of the Gym environment in r
func (g GymConfig) Resolve(r *env.Registry) (env.Descriptor, error) {
	d, err := r.Lookup(g.EnvName)
	if err != nil {
		return env.Descriptor{}, fmt.Errorf("resolve: gym environment: %v "+
			"(known: %v)", err, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// MarshalYAML implements the yaml.Marshaler interface
func (g GymConfig) MarshalYAML() (interface{}, error) {
	type body GymConfig
	return map[string]interface{}{string(Gym): body(g)}, nil
}

// MarshalJSON implements the json.Marshaler interface
func (g GymConfig) MarshalJSON() ([]byte, error) {
	type body GymConfig
	return json.Marshal(map[string]interface{}{string(Gym): body(g)})
}

// Decode decodes the environment variant selected at key in m. If the
// variant cannot be decoded, the violations are recorded in d and nil
// is returned.
func Decode(d *spec.Decoder, m *spec.Mapping, key string) Env {
	name, body, p, ok := m.Variant(key, Names())
	if !ok {
		return nil
	}

	fields := d.Mapping(body, p)

	var e Env
	switch Type(name) {
	case Gym:
		e = GymConfig{EnvName: fields.RequireString("env_name")}
	default:
		panic(fmt.Sprintf("decode: no such environment variant %v", name))
	}
	fields.Done()

	d.Check(p, e.Validate())
	return e
}
