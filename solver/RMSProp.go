package solver

import (
	"github.com/samuelfneumann/rlconf/spec"
	G "gorgonia.org/gorgonia"
)

// RMSpropConfig implements a specific configuration of the RMSProp
// solver
type RMSpropConfig struct {
	LR          float64 `yaml:"lr" json:"lr"`
	Alpha       float64 `yaml:"alpha" json:"alpha"` // Gorgonia's ρ
	Eps         float64 `yaml:"eps" json:"eps"`
	Momentum    float64 `yaml:"momentum" json:"momentum"`
	WeightDecay float64 `yaml:"weight_decay" json:"weight_decay"`
	Centered    bool    `yaml:"centered" json:"centered"`
}

func decodeRMSprop(m *spec.Mapping) Optimizer {
	return RMSpropConfig{
		LR:          m.Float("lr", 0.01),
		Alpha:       m.Float("alpha", 0.99),
		Eps:         m.Float("eps", 1e-8),
		Momentum:    m.Float("momentum", 0.0),
		WeightDecay: m.Float("weight_decay", 0.0),
		Centered:    m.Bool("centered", false),
	}
}

func (RMSpropConfig) optimizer() {}

// Clone returns a copy of the configuration
func (r RMSpropConfig) Clone() Optimizer { return r }

// Type returns the variant name of the configuration
func (r RMSpropConfig) Type() Type {
	return RMSprop
}

// Validate checks that all hyperparameters are in their legal ranges
func (r RMSpropConfig) Validate() error {
	var vs spec.Violations
	if r.LR <= 0 {
		vs = append(vs, spec.Violate("lr", "must be > 0, have %v", r.LR))
	}
	if r.Alpha <= 0 || r.Alpha >= 1 {
		vs = append(vs, spec.Violate("alpha", "must be in (0, 1), have %v",
			r.Alpha))
	}
	if r.Eps <= 0 {
		vs = append(vs, spec.Violate("eps", "must be > 0, have %v", r.Eps))
	}
	if r.Momentum < 0 {
		vs = append(vs, spec.Violate("momentum", "must be >= 0, have %v",
			r.Momentum))
	}
	if r.WeightDecay < 0 {
		vs = append(vs, spec.Violate("weight_decay", "must be >= 0, have %v",
			r.WeightDecay))
	}
	return vs.Err()
}

// Unsupported returns the options of the configuration that Gorgonia's
// RMSProp solver cannot honour
func (r RMSpropConfig) Unsupported() []string {
	var opts []string
	if r.Momentum > 0 {
		opts = append(opts, "momentum")
	}
	if r.Centered {
		opts = append(opts, "centered")
	}
	return opts
}

// Create returns a new Gorgonia RMSProp Solver as described by the
// RMSpropConfig
func (r RMSpropConfig) Create(batchSize int) G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(r.LR),
		G.WithEps(r.Eps),
		G.WithRho(r.Alpha),
		G.WithBatchSize(float64(batchSize)),
	}
	if r.WeightDecay > 0 {
		opts = append(opts, G.WithL2Reg(r.WeightDecay))
	}

	return G.NewRMSPropSolver(opts...)
}

// MarshalYAML implements the yaml.Marshaler interface
func (r RMSpropConfig) MarshalYAML() (interface{}, error) {
	type body RMSpropConfig
	return tagged(RMSprop, body(r)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (r RMSpropConfig) MarshalJSON() ([]byte, error) {
	type body RMSpropConfig
	return taggedJSON(RMSprop, body(r))
}
