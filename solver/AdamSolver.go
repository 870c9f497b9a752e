package solver

import (
	"github.com/samuelfneumann/rlconf/spec"
	G "gorgonia.org/gorgonia"
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	LR          float64   `yaml:"lr" json:"lr"`
	Betas       []float64 `yaml:"betas,flow" json:"betas"`
	Eps         float64   `yaml:"eps" json:"eps"` // Smoothing factor
	WeightDecay float64   `yaml:"weight_decay" json:"weight_decay"`
	AMSGrad     bool      `yaml:"amsgrad" json:"amsgrad"`
}

// NewDefaultAdam returns a new Adam configuration with default
// hyperparameters
func NewDefaultAdam(lr float64) AdamConfig {
	return AdamConfig{
		LR:    lr,
		Betas: []float64{0.9, 0.999},
		Eps:   1e-8,
	}
}

func decodeAdam(m *spec.Mapping) Optimizer {
	def := NewDefaultAdam(0.001)
	return AdamConfig{
		LR:          m.Float("lr", def.LR),
		Betas:       m.Floats("betas", def.Betas),
		Eps:         m.Float("eps", def.Eps),
		WeightDecay: m.Float("weight_decay", def.WeightDecay),
		AMSGrad:     m.Bool("amsgrad", def.AMSGrad),
	}
}

func (AdamConfig) optimizer() {}

// Type returns the variant name of the configuration
func (a AdamConfig) Type() Type {
	return Adam
}

// Validate checks that all hyperparameters are in their legal ranges
func (a AdamConfig) Validate() error {
	var vs spec.Violations
	if a.LR <= 0 {
		vs = append(vs, spec.Violate("lr", "must be > 0, have %v", a.LR))
	}
	if len(a.Betas) != 2 {
		vs = append(vs, spec.Violate("betas", "must have exactly 2 "+
			"values, have %v", len(a.Betas)))
	} else {
		for i, b := range a.Betas {
			if b < 0 || b >= 1 {
				vs = append(vs, spec.Violate("betas", "betas[%v] must be "+
					"in [0, 1), have %v", i, b))
			}
		}
	}
	if a.Eps <= 0 {
		vs = append(vs, spec.Violate("eps", "must be > 0, have %v", a.Eps))
	}
	if a.WeightDecay < 0 {
		vs = append(vs, spec.Violate("weight_decay", "must be >= 0, have %v",
			a.WeightDecay))
	}
	return vs.Err()
}

// Clone returns a deep copy of the configuration
func (a AdamConfig) Clone() Optimizer {
	a.Betas = append([]float64(nil), a.Betas...)
	return a
}

// Unsupported returns the options of the configuration that Gorgonia's
// Adam solver cannot honour
func (a AdamConfig) Unsupported() []string {
	if a.AMSGrad {
		return []string{"amsgrad"}
	}
	return nil
}

// Create returns a new Gorgonia Adam Solver as described by the
// AdamConfig. Weight decay is implemented as L2 regularization. The
// AdamConfig must be valid.
func (a AdamConfig) Create(batchSize int) G.Solver {
	opts := []G.SolverOpt{
		G.WithLearnRate(a.LR),
		G.WithEps(a.Eps),
		G.WithBeta1(a.Betas[0]),
		G.WithBeta2(a.Betas[1]),
		G.WithBatchSize(float64(batchSize)),
	}
	if a.WeightDecay > 0 {
		opts = append(opts, G.WithL2Reg(a.WeightDecay))
	}

	return G.NewAdamSolver(opts...)
}

// MarshalYAML implements the yaml.Marshaler interface
func (a AdamConfig) MarshalYAML() (interface{}, error) {
	type body AdamConfig
	return tagged(Adam, body(a)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (a AdamConfig) MarshalJSON() ([]byte, error) {
	type body AdamConfig
	return taggedJSON(Adam, body(a))
}
