package agent

import (
	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/solver"
	"github.com/samuelfneumann/rlconf/spec"
	"gonum.org/v1/gonum/floats"
)

func init() {
	Register(DiscreteC51DQN, decodeC51)
}

// C51TrainerParameters are the trainer hyperparameters of a C51 agent
type C51TrainerParameters struct {
	TrainerParameters `yaml:",inline"`

	NumAtoms int     `yaml:"num_atoms" json:"num_atoms"` // Support size
	QMin     float64 `yaml:"qmin" json:"qmin"`           // Support lower bound
	QMax     float64 `yaml:"qmax" json:"qmax"`           // Support upper bound
}

// Validate checks the common trainer hyperparameters and that the
// support of the value distribution is well defined
func (c C51TrainerParameters) Validate() error {
	vs := spec.Collect(c.TrainerParameters.Validate())

	if c.NumAtoms < 2 {
		vs = append(vs, spec.Violate("num_atoms", "must be > 1, have %v",
			c.NumAtoms))
	}
	if c.QMin >= c.QMax {
		vs = append(vs, spec.Violate("qmin", "must be < qmax, have "+
			"qmin(%v) qmax(%v)", c.QMin, c.QMax).On("qmax"))
	}

	return vs.Err()
}

// Support returns the fixed support of the value distribution:
// NumAtoms evenly spaced returns from QMin to QMax inclusive. The
// parameters must be valid.
func (c C51TrainerParameters) Support() []float64 {
	return Support(c.QMin, c.QMax, c.NumAtoms)
}

// Support returns numAtoms evenly spaced values from qmin to qmax
// inclusive. It panics if numAtoms < 2.
func Support(qmin, qmax float64, numAtoms int) []float64 {
	return floats.Span(make([]float64, numAtoms), qmin, qmax)
}

// DiscreteC51DQNConfig configures a Categorical (C51) distributional DQN
// agent with discrete actions
type DiscreteC51DQNConfig struct {
	TrainerParam   C51TrainerParameters `yaml:"trainer_param" json:"trainer_param"`
	NetBuilder     network.Builder      `yaml:"net_builder" json:"net_builder"`
	EvalParameters EvaluationParameters `yaml:"eval_parameters" json:"eval_parameters"`
}

func (DiscreteC51DQNConfig) model() {}

// Type returns the type of the configuration
func (c DiscreteC51DQNConfig) Type() Type {
	return DiscreteC51DQN
}

// Trainer returns the common trainer hyperparameters
func (c DiscreteC51DQNConfig) Trainer() TrainerParameters {
	return c.TrainerParam.TrainerParameters
}

// Net returns the value network builder
func (c DiscreteC51DQNConfig) Net() network.Builder {
	return c.NetBuilder
}

// Evaluation returns the evaluation settings
func (c DiscreteC51DQNConfig) Evaluation() EvaluationParameters {
	return c.EvalParameters
}

// NumAtoms returns the size of the value distribution's support
func (c DiscreteC51DQNConfig) NumAtoms() int {
	return c.TrainerParam.NumAtoms
}

// Validate checks the trainer hyperparameters
func (c DiscreteC51DQNConfig) Validate() error {
	return spec.Nest("trainer_param", c.TrainerParam.Validate()).Err()
}

// Clone returns a deep copy of the configuration
func (c DiscreteC51DQNConfig) Clone() Model {
	c.TrainerParam.TrainerParameters = c.TrainerParam.TrainerParameters.clone()
	c.NetBuilder = cloneNet(c.NetBuilder)
	return c
}

// MarshalYAML implements the yaml.Marshaler interface
func (c DiscreteC51DQNConfig) MarshalYAML() (interface{}, error) {
	type body DiscreteC51DQNConfig
	return tagged(DiscreteC51DQN, body(c)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (c DiscreteC51DQNConfig) MarshalJSON() ([]byte, error) {
	type body DiscreteC51DQNConfig
	return taggedJSON(DiscreteC51DQN, body(c))
}

func decodeC51(d *spec.Decoder, body *spec.Mapping) Model {
	tp := body.Map("trainer_param")
	opt := solver.Decode(d, tp, "optimizer")

	trainer := C51TrainerParameters{
		TrainerParameters: decodeTrainer(tp, opt),
		NumAtoms:          tp.Int("num_atoms", 51),
		QMin:              tp.Float("qmin", -100.0),
		QMax:              tp.Float("qmax", 200.0),
	}
	tp.Done()
	d.Check(tp.Path(), trainer.Validate())

	return DiscreteC51DQNConfig{
		TrainerParam:   trainer,
		NetBuilder:     network.Decode(d, body, "net_builder", network.Categorical),
		EvalParameters: decodeEvaluation(body),
	}
}
