package agent

import (
	"fmt"

	"github.com/samuelfneumann/rlconf/solver"
	"github.com/samuelfneumann/rlconf/spec"
)

// Loss is the loss used to fit the Q-network of non-distributional
// models
type Loss string

const (
	MSE   Loss = "mse"
	Huber Loss = "huber"
)

// RLParameters are the reinforcement learning hyperparameters shared
// by all models
type RLParameters struct {
	Gamma            float64 `yaml:"gamma" json:"gamma"`                           // Discount factor
	TargetUpdateRate float64 `yaml:"target_update_rate" json:"target_update_rate"` // Polyak averaging constant
	MaxQLearning     bool    `yaml:"maxq_learning" json:"maxq_learning"`           // Off-policy if true, else SARSA targets
	Temperature      float64 `yaml:"temperature" json:"temperature"`
	SoftmaxPolicy    bool    `yaml:"softmax_policy" json:"softmax_policy"`
	QNetworkLoss     Loss    `yaml:"q_network_loss" json:"q_network_loss"`

	// Number of steps of multi-step returns, nil for one-step returns
	MultiSteps *int `yaml:"multi_steps,omitempty" json:"multi_steps,omitempty"`
}

// DefaultRLParameters returns the RLParameters used for fields absent
// from a document
func DefaultRLParameters() RLParameters {
	return RLParameters{
		Gamma:            0.9,
		TargetUpdateRate: 0.001,
		MaxQLearning:     true,
		Temperature:      0.01,
		SoftmaxPolicy:    false,
		QNetworkLoss:     MSE,
	}
}

// Validate checks that all hyperparameters are in their legal ranges
func (r RLParameters) Validate() error {
	var vs spec.Violations
	if r.Gamma <= 0 || r.Gamma >= 1 {
		vs = append(vs, spec.Violate("gamma", "must be in (0, 1), have %v",
			r.Gamma))
	}
	if r.TargetUpdateRate <= 0 || r.TargetUpdateRate > 1 {
		vs = append(vs, spec.Violate("target_update_rate", "must be in "+
			"(0, 1], have %v", r.TargetUpdateRate))
	}
	if r.Temperature <= 0 {
		vs = append(vs, spec.Violate("temperature", "must be > 0, have %v",
			r.Temperature))
	}
	if r.QNetworkLoss != MSE && r.QNetworkLoss != Huber {
		vs = append(vs, spec.Violate("q_network_loss", "must be one of "+
			"[%v %v], have %q", MSE, Huber, string(r.QNetworkLoss)))
	}
	if r.MultiSteps != nil && *r.MultiSteps < 1 {
		vs = append(vs, spec.Violate("multi_steps", "must be > 0, have %v",
			*r.MultiSteps))
	}
	return vs.Err()
}

func decodeRL(m *spec.Mapping) RLParameters {
	def := DefaultRLParameters()
	return RLParameters{
		Gamma:            m.Float("gamma", def.Gamma),
		TargetUpdateRate: m.Float("target_update_rate", def.TargetUpdateRate),
		MaxQLearning:     m.Bool("maxq_learning", def.MaxQLearning),
		Temperature:      m.Float("temperature", def.Temperature),
		SoftmaxPolicy:    m.Bool("softmax_policy", def.SoftmaxPolicy),
		QNetworkLoss:     Loss(m.String("q_network_loss", string(def.QNetworkLoss))),
		MultiSteps:       m.OptionalInt("multi_steps"),
	}
}

// TrainerParameters are the trainer hyperparameters shared by all
// models
type TrainerParameters struct {
	Actions            []int            `yaml:"actions,flow" json:"actions"`
	RL                 RLParameters     `yaml:"rl" json:"rl"`
	DoubleQLearning    bool             `yaml:"double_q_learning" json:"double_q_learning"`
	MinibatchesPerStep int              `yaml:"minibatches_per_step" json:"minibatches_per_step"`
	Optimizer          solver.Optimizer `yaml:"optimizer" json:"optimizer"`
}

// Validate checks that the actions are distinct non-negative indices
// and that all hyperparameters are in their legal ranges. Whether the
// actions match an environment's action space is checked only when the
// model is bound to an environment.
func (t TrainerParameters) Validate() error {
	var vs spec.Violations

	if len(t.Actions) == 0 {
		vs = append(vs, spec.Violate("actions", "must list at least one "+
			"action"))
	}
	seen := make(map[int]bool, len(t.Actions))
	for i, a := range t.Actions {
		field := spec.Path{"actions"}.Index(i)
		if a < 0 {
			vs = append(vs, &spec.Violation{
				Field:      field,
				Constraint: fmt.Sprintf("must be >= 0, have %v", a),
			})
		}
		if seen[a] {
			vs = append(vs, &spec.Violation{
				Field:      field,
				Constraint: fmt.Sprintf("duplicate action %v", a),
			})
		}
		seen[a] = true
	}

	vs = append(vs, spec.Nest("rl", t.RL.Validate())...)

	if t.MinibatchesPerStep < 1 {
		vs = append(vs, spec.Violate("minibatches_per_step", "must be > 0, "+
			"have %v", t.MinibatchesPerStep))
	}

	return vs.Err()
}

func (t TrainerParameters) clone() TrainerParameters {
	t.Actions = append([]int(nil), t.Actions...)
	if t.RL.MultiSteps != nil {
		steps := *t.RL.MultiSteps
		t.RL.MultiSteps = &steps
	}
	if t.Optimizer != nil {
		t.Optimizer = t.Optimizer.Clone()
	}
	return t
}

// decodeTrainer decodes the trainer hyperparameters common to all
// models from m, together with the already decoded optimizer
func decodeTrainer(m *spec.Mapping, opt solver.Optimizer) TrainerParameters {
	rl := m.Map("rl")
	params := decodeRL(rl)
	rl.Done()

	return TrainerParameters{
		Actions:            m.RequireInts("actions"),
		RL:                 params,
		DoubleQLearning:    m.Bool("double_q_learning", true),
		MinibatchesPerStep: m.Int("minibatches_per_step", 1),
		Optimizer:          opt,
	}
}

// EvaluationParameters configures the evaluation performed during
// training
type EvaluationParameters struct {
	// Whether counterfactual policy evaluation is computed in training
	CalcCPEInTraining bool `yaml:"calc_cpe_in_training" json:"calc_cpe_in_training"`
}

func decodeEvaluation(m *spec.Mapping) EvaluationParameters {
	eval := m.Map("eval_parameters")
	params := EvaluationParameters{
		CalcCPEInTraining: eval.Bool("calc_cpe_in_training", true),
	}
	eval.Done()
	return params
}
