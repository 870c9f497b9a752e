package network

// DuelingConfig builds a dueling network: a shared fully connected
// trunk followed by a state-value head and an advantage head, combined
// by the harness as Q(s, a) = V(s) + A(s, a) - mean_a A(s, a).
type DuelingConfig struct {
	MLP `yaml:",inline"`
}

func (DuelingConfig) builder() {}

// Clone returns a deep copy of the configuration
func (d DuelingConfig) Clone() Builder {
	return DuelingConfig{d.MLP.clone()}
}

// Type returns the variant name of the builder
func (d DuelingConfig) Type() Type {
	return Dueling
}

// Layout returns the layout of the network
func (d DuelingConfig) Layout(stateDim, numActions, _ int) (Layout, error) {
	return d.layout(Dueling, stateDim,
		Head{"value", 1},
		Head{"advantage", numActions},
	)
}

// MarshalYAML implements the yaml.Marshaler interface
func (d DuelingConfig) MarshalYAML() (interface{}, error) {
	type body DuelingConfig
	return tagged(Dueling, body(d)), nil
}

// MarshalJSON implements the json.Marshaler interface
func (d DuelingConfig) MarshalJSON() ([]byte, error) {
	type body DuelingConfig
	return marshalTaggedJSON(Dueling, body(d))
}
