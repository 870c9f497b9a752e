package network

import (
	"encoding/json"
)

// CategoricalConfig builds the value network of a C51 agent. The
// network outputs, for each action, the logits of a categorical
// distribution over a fixed support of numAtoms returns.
type CategoricalConfig struct {
	MLP `yaml:",inline"`
}

func (CategoricalConfig) builder() {}

// Clone returns a deep copy of the configuration
func (c CategoricalConfig) Clone() Builder {
	return CategoricalConfig{c.MLP.clone()}
}

// Type returns the variant name of the builder
func (c CategoricalConfig) Type() Type {
	return Categorical
}

// Layout returns the layout of the network
func (c CategoricalConfig) Layout(stateDim, numActions,
	numAtoms int) (Layout, error) {
	return c.layout(Categorical, stateDim, Head{"logits", numActions * numAtoms})
}

// MarshalYAML implements the yaml.Marshaler interface
func (c CategoricalConfig) MarshalYAML() (interface{}, error) {
	type body CategoricalConfig
	return tagged(Categorical, body(c)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (c CategoricalConfig) MarshalJSON() ([]byte, error) {
	type body CategoricalConfig
	return marshalTaggedJSON(Categorical, body(c))
}

// QuantileConfig builds the value network of a QR-DQN agent. The
// network outputs numAtoms quantiles of the return for each action.
type QuantileConfig struct {
	MLP `yaml:",inline"`
}

func (QuantileConfig) builder() {}

// Clone returns a deep copy of the configuration
func (q QuantileConfig) Clone() Builder {
	return QuantileConfig{q.MLP.clone()}
}

// Type returns the variant name of the builder
func (q QuantileConfig) Type() Type {
	return Quantile
}

// Layout returns the layout of the network
func (q QuantileConfig) Layout(stateDim, numActions,
	numAtoms int) (Layout, error) {
	return q.layout(Quantile, stateDim, Head{"quantiles", numActions * numAtoms})
}

// MarshalYAML implements the yaml.Marshaler interface
func (q QuantileConfig) MarshalYAML() (interface{}, error) {
	type body QuantileConfig
	return tagged(Quantile, body(q)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (q QuantileConfig) MarshalJSON() ([]byte, error) {
	type body QuantileConfig
	return marshalTaggedJSON(Quantile, body(q))
}

func marshalTaggedJSON(t Type, body interface{}) ([]byte, error) {
	return json.Marshal(tagged(t, body))
}
