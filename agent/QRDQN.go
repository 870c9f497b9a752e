package agent

import (
	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/solver"
	"github.com/samuelfneumann/rlconf/spec"
)

func init() {
	Register(DiscreteQRDQN, decodeQRDQN)
}

// QRDQNTrainerParameters are the trainer hyperparameters of a
// quantile regression DQN agent
type QRDQNTrainerParameters struct {
	TrainerParameters `yaml:",inline"`

	NumAtoms int     `yaml:"num_atoms" json:"num_atoms"` // Number of quantiles
	CQLAlpha float64 `yaml:"cql_alpha" json:"cql_alpha"` // Conservative Q-learning weight, 0 to disable
}

// Validate checks the common trainer hyperparameters and the quantile
// hyperparameters
func (q QRDQNTrainerParameters) Validate() error {
	vs := spec.Collect(q.TrainerParameters.Validate())

	if q.NumAtoms < 1 {
		vs = append(vs, spec.Violate("num_atoms", "must be > 0, have %v",
			q.NumAtoms))
	}
	if q.CQLAlpha < 0 {
		vs = append(vs, spec.Violate("cql_alpha", "must be >= 0, have %v",
			q.CQLAlpha))
	}

	return vs.Err()
}

// Quantiles returns the quantile fractions estimated by the agent
func (q QRDQNTrainerParameters) Quantiles() []float64 {
	return QuantileMidpoints(q.NumAtoms)
}

// QuantileMidpoints returns the midpoints of n equal-width quantile
// bins of [0, 1]: (2i + 1) / 2n for i = 0, 1, ..., n-1
func QuantileMidpoints(n int) []float64 {
	taus := make([]float64, n)
	for i := range taus {
		taus[i] = float64(2*i+1) / float64(2*n)
	}
	return taus
}

// DiscreteQRDQNConfig configures a quantile regression DQN agent with
// discrete actions
type DiscreteQRDQNConfig struct {
	TrainerParam   QRDQNTrainerParameters `yaml:"trainer_param" json:"trainer_param"`
	NetBuilder     network.Builder        `yaml:"net_builder" json:"net_builder"`
	EvalParameters EvaluationParameters   `yaml:"eval_parameters" json:"eval_parameters"`
}

func (DiscreteQRDQNConfig) model() {}

// Type returns the type of the configuration
func (c DiscreteQRDQNConfig) Type() Type {
	return DiscreteQRDQN
}

// Trainer returns the common trainer hyperparameters
func (c DiscreteQRDQNConfig) Trainer() TrainerParameters {
	return c.TrainerParam.TrainerParameters
}

// Net returns the value network builder
func (c DiscreteQRDQNConfig) Net() network.Builder {
	return c.NetBuilder
}

// Evaluation returns the evaluation settings
func (c DiscreteQRDQNConfig) Evaluation() EvaluationParameters {
	return c.EvalParameters
}

// NumAtoms returns the number of quantiles
func (c DiscreteQRDQNConfig) NumAtoms() int {
	return c.TrainerParam.NumAtoms
}

// Validate checks the trainer hyperparameters
func (c DiscreteQRDQNConfig) Validate() error {
	return spec.Nest("trainer_param", c.TrainerParam.Validate()).Err()
}

// Clone returns a deep copy of the configuration
func (c DiscreteQRDQNConfig) Clone() Model {
	c.TrainerParam.TrainerParameters = c.TrainerParam.TrainerParameters.clone()
	c.NetBuilder = cloneNet(c.NetBuilder)
	return c
}

// MarshalYAML implements the yaml.Marshaler interface
func (c DiscreteQRDQNConfig) MarshalYAML() (interface{}, error) {
	type body DiscreteQRDQNConfig
	return tagged(DiscreteQRDQN, body(c)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (c DiscreteQRDQNConfig) MarshalJSON() ([]byte, error) {
	type body DiscreteQRDQNConfig
	return taggedJSON(DiscreteQRDQN, body(c))
}

func decodeQRDQN(d *spec.Decoder, body *spec.Mapping) Model {
	tp := body.Map("trainer_param")
	opt := solver.Decode(d, tp, "optimizer")

	trainer := QRDQNTrainerParameters{
		TrainerParameters: decodeTrainer(tp, opt),
		NumAtoms:          tp.Int("num_atoms", 51),
		CQLAlpha:          tp.Float("cql_alpha", 0.0),
	}
	tp.Done()
	d.Check(tp.Path(), trainer.Validate())

	return DiscreteQRDQNConfig{
		TrainerParam:   trainer,
		NetBuilder:     network.Decode(d, body, "net_builder", network.Quantile),
		EvalParameters: decodeEvaluation(body),
	}
}
