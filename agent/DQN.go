package agent

import (
	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/solver"
	"github.com/samuelfneumann/rlconf/spec"
)

func init() {
	Register(DiscreteDQN, decodeDQN)
}

// DiscreteDQNConfig configures a DQN agent with discrete actions,
// whose value network is either fully connected or dueling
type DiscreteDQNConfig struct {
	TrainerParam   TrainerParameters    `yaml:"trainer_param" json:"trainer_param"`
	NetBuilder     network.Builder      `yaml:"net_builder" json:"net_builder"`
	EvalParameters EvaluationParameters `yaml:"eval_parameters" json:"eval_parameters"`
}

func (DiscreteDQNConfig) model() {}

// Type returns the type of the configuration
func (c DiscreteDQNConfig) Type() Type {
	return DiscreteDQN
}

// Trainer returns the trainer hyperparameters
func (c DiscreteDQNConfig) Trainer() TrainerParameters {
	return c.TrainerParam
}

// Net returns the value network builder
func (c DiscreteDQNConfig) Net() network.Builder {
	return c.NetBuilder
}

// Evaluation returns the evaluation settings
func (c DiscreteDQNConfig) Evaluation() EvaluationParameters {
	return c.EvalParameters
}

// NumAtoms returns 1, a DQN estimates only the expected return
func (c DiscreteDQNConfig) NumAtoms() int {
	return 1
}

// Validate checks the trainer hyperparameters
func (c DiscreteDQNConfig) Validate() error {
	return spec.Nest("trainer_param", c.TrainerParam.Validate()).Err()
}

// Clone returns a deep copy of the configuration
func (c DiscreteDQNConfig) Clone() Model {
	c.TrainerParam = c.TrainerParam.clone()
	c.NetBuilder = cloneNet(c.NetBuilder)
	return c
}

// MarshalYAML implements the yaml.Marshaler interface
func (c DiscreteDQNConfig) MarshalYAML() (interface{}, error) {
	type body DiscreteDQNConfig
	return tagged(DiscreteDQN, body(c)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (c DiscreteDQNConfig) MarshalJSON() ([]byte, error) {
	type body DiscreteDQNConfig
	return taggedJSON(DiscreteDQN, body(c))
}

func decodeDQN(d *spec.Decoder, body *spec.Mapping) Model {
	tp := body.Map("trainer_param")
	opt := solver.Decode(d, tp, "optimizer")

	trainer := decodeTrainer(tp, opt)
	tp.Done()
	d.Check(tp.Path(), trainer.Validate())

	return DiscreteDQNConfig{
		TrainerParam: trainer,
		NetBuilder: network.Decode(d, body, "net_builder",
			network.FullyConnected, network.Dueling),
		EvalParameters: decodeEvaluation(body),
	}
}
