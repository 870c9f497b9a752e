// Package agent implements the model variants that can be selected in
// a training document: the agent algorithm together with its trainer
// hyperparameters, its value network builder and its evaluation
// settings.
//
// A model is selected as a single-key mapping whose key names the
// algorithm, for example:
//
//	model:
//	  DiscreteC51DQN:
//	    trainer_param: ...
//	    net_builder: ...
//	    eval_parameters: ...
//
// Models are a closed set: the concrete type of a Model is always one of
// DiscreteC51DQNConfig, DiscreteDQNConfig or DiscreteQRDQNConfig, so the
// training harness can dispatch on a Model with a type switch.
package agent

import (
	"github.com/samuelfneumann/rlconf/network"
)

// Model is a selected model variant
type Model interface {
	// Type returns the variant name of the Model
	Type() Type

	// Trainer returns the trainer hyperparameters common to all
	// discrete-action Models
	Trainer() TrainerParameters

	// Net returns the builder of the Model's value network
	Net() network.Builder

	// Evaluation returns the Model's evaluation settings
	Evaluation() EvaluationParameters

	// NumAtoms returns the number of outputs per action of the value
	// network: the number of atoms or quantiles of a distributional
	// Model, or 1 otherwise.
	NumAtoms() int

	// Validate returns the range violations of the Model's trainer
	// hyperparameters, if any. The Model's optimizer and net builder
	// are validated by their own Validate methods.
	Validate() error

	// Clone returns a deep copy of the Model
	Clone() Model

	model()
}

func cloneNet(b network.Builder) network.Builder {
	if b == nil {
		return nil
	}
	return b.Clone()
}
