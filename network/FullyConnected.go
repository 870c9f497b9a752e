package network

// FullyConnectedConfig builds a fully connected network with a single
// head outputting one Q-value per action
type FullyConnectedConfig struct {
	MLP `yaml:",inline"`
}

func (FullyConnectedConfig) builder() {}

// Clone returns a deep copy of the configuration
func (f FullyConnectedConfig) Clone() Builder {
	return FullyConnectedConfig{f.MLP.clone()}
}

// Type returns the variant name of the builder
func (f FullyConnectedConfig) Type() Type {
	return FullyConnected
}

// Layout returns the layout of the network
func (f FullyConnectedConfig) Layout(stateDim, numActions,
	_ int) (Layout, error) {
	return f.layout(FullyConnected, stateDim, Head{"q", numActions})
}

// MarshalYAML implements the yaml.Marshaler interface
func (f FullyConnectedConfig) MarshalYAML() (interface{}, error) {
	type body FullyConnectedConfig
	return tagged(FullyConnected, body(f)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (f FullyConnectedConfig) MarshalJSON() ([]byte, error) {
	type body FullyConnectedConfig
	return marshalTaggedJSON(FullyConnected, body(f))
}
