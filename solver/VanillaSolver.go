package solver

import (
	"github.com/samuelfneumann/rlconf/spec"
	G "gorgonia.org/gorgonia"
)

// SGDConfig describes a configuration of the stochastic gradient
// descent solver, with optional momentum.
type SGDConfig struct {
	LR          float64 `yaml:"lr" json:"lr"`
	Momentum    float64 `yaml:"momentum" json:"momentum"`
	WeightDecay float64 `yaml:"weight_decay" json:"weight_decay"`
	Nesterov    bool    `yaml:"nesterov" json:"nesterov"`
}

func decodeSGD(m *spec.Mapping) Optimizer {
	return SGDConfig{
		LR:          m.Float("lr", 0.001),
		Momentum:    m.Float("momentum", 0.0),
		WeightDecay: m.Float("weight_decay", 0.0),
		Nesterov:    m.Bool("nesterov", false),
	}
}

func (SGDConfig) optimizer() {}

// Clone returns a copy of the configuration
func (s SGDConfig) Clone() Optimizer { return s }

// Type returns the variant name of the configuration
func (s SGDConfig) Type() Type {
	return SGD
}

// Validate checks that all hyperparameters are in their legal ranges
func (s SGDConfig) Validate() error {
	var vs spec.Violations
	if s.LR <= 0 {
		vs = append(vs, spec.Violate("lr", "must be > 0, have %v", s.LR))
	}
	if s.Momentum < 0 {
		vs = append(vs, spec.Violate("momentum", "must be >= 0, have %v",
			s.Momentum))
	}
	if s.WeightDecay < 0 {
		vs = append(vs, spec.Violate("weight_decay", "must be >= 0, have %v",
			s.WeightDecay))
	}
	if s.Nesterov && s.Momentum == 0 {
		vs = append(vs, spec.Violate("nesterov", "nesterov momentum "+
			"requires momentum > 0").On("momentum"))
	}
	return vs.Err()
}

// Unsupported returns the options of the configuration that Gorgonia's
// solvers cannot honour
func (s SGDConfig) Unsupported() []string {
	if s.Nesterov {
		return []string{"nesterov"}
	}
	return nil
}

// Create returns a Gorgonia Vanilla Solver, or a Momentum Solver if
// momentum is used, as described by the SGDConfig
func (s SGDConfig) Create(batchSize int) G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(s.LR),
		G.WithBatchSize(float64(batchSize)),
	}
	if s.WeightDecay > 0 {
		opts = append(opts, G.WithL2Reg(s.WeightDecay))
	}

	if s.Momentum > 0 {
		opts = append(opts, G.WithMomentum(s.Momentum))
		return G.NewMomentum(opts...)
	}
	return G.NewVanillaSolver(opts...)
}

// MarshalYAML implements the yaml.Marshaler interface
func (s SGDConfig) MarshalYAML() (interface{}, error) {
	type body SGDConfig
	return tagged(SGD, body(s)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (s SGDConfig) MarshalJSON() ([]byte, error) {
	type body SGDConfig
	return taggedJSON(SGD, body(s))
}
