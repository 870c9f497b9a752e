// Package config loads training documents into typed, validated
// configurations.
//
// A training document selects an environment and a model, and sets the
// outer training loop's parameters:
//
//	env:
//	  Gym:
//	    env_name: CartPole-v0
//	model:
//	  DiscreteC51DQN: ...
//	replay_memory_size: 20000
//	train_every_ts: 1
//	...
//
// Documents are YAML or JSON. Loading is all or nothing: either a valid
// Config is returned or an error reporting every violation found.
package config

import (
	"github.com/samuelfneumann/rlconf/agent"
	"github.com/samuelfneumann/rlconf/environment/envconfig"
	"github.com/samuelfneumann/rlconf/spec"
)

// Error classes returned by Parse
type (
	ParseError      = spec.ParseError
	ValidationError = spec.ValidationError
	SchemaError     = spec.SchemaError
)

// Config is a training document
type Config struct {
	Env   envconfig.Env `yaml:"env" json:"env"`
	Model agent.Model   `yaml:"model" json:"model"`

	ReplayMemorySize int     `yaml:"replay_memory_size" json:"replay_memory_size"`
	TrainEveryTS     int     `yaml:"train_every_ts" json:"train_every_ts"`
	TrainAfterTS     int     `yaml:"train_after_ts" json:"train_after_ts"`
	NumTrainEpisodes int     `yaml:"num_train_episodes" json:"num_train_episodes"`
	NumEvalEpisodes  int     `yaml:"num_eval_episodes" json:"num_eval_episodes"`
	PassingScoreBar  float64 `yaml:"passing_score_bar" json:"passing_score_bar"`
	UseGPU           bool    `yaml:"use_gpu" json:"use_gpu"`
	MinibatchSize    int     `yaml:"minibatch_size" json:"minibatch_size"`

	// Per-episode step cap, nil to use the environment's own cap
	MaxSteps *int `yaml:"max_steps,omitempty" json:"max_steps,omitempty"`

	// Random seed, nil for a seed chosen by the harness
	Seed *int `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// validate checks the ranges of the top-level training loop parameters
func (c Config) validate() error {
	var vs spec.Violations

	positive := []struct {
		field string
		value int
	}{
		{"replay_memory_size", c.ReplayMemorySize},
		{"train_every_ts", c.TrainEveryTS},
		{"num_eval_episodes", c.NumEvalEpisodes},
		{"minibatch_size", c.MinibatchSize},
	}
	for _, f := range positive {
		if f.value < 1 {
			vs = append(vs, spec.Violate(f.field, "must be > 0, have %v",
				f.value))
		}
	}

	if c.TrainAfterTS < 0 {
		vs = append(vs, spec.Violate("train_after_ts", "must be >= 0, "+
			"have %v", c.TrainAfterTS))
	}
	if c.NumTrainEpisodes < 0 {
		vs = append(vs, spec.Violate("num_train_episodes", "must be >= 0, "+
			"have %v", c.NumTrainEpisodes))
	}
	if c.MaxSteps != nil && *c.MaxSteps < 1 {
		vs = append(vs, spec.Violate("max_steps", "must be > 0, have %v",
			*c.MaxSteps))
	}
	if c.Seed != nil && *c.Seed < 0 {
		vs = append(vs, spec.Violate("seed", "must be >= 0, have %v",
			*c.Seed))
	}

	return vs.Err()
}

// Validate checks a Config built in code against the schema, returning
// the same errors Parse would return for the equivalent document.
func (c Config) Validate() error {
	_, err := c.Normalize()
	return err
}

// Normalize returns the Config that Parse returns for the document c
// marshals to. Variants held by pointer in c are held by value in the
// returned Config.
func (c Config) Normalize() (Config, error) {
	data, err := Marshal(c, YAML)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Clone returns a deep copy of the Config
func (c Config) Clone() Config {
	if c.Model != nil {
		c.Model = c.Model.Clone()
	}
	if c.MaxSteps != nil {
		steps := *c.MaxSteps
		c.MaxSteps = &steps
	}
	if c.Seed != nil {
		seed := *c.Seed
		c.Seed = &seed
	}
	return c
}
