package agent

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/solver"
	"github.com/samuelfneumann/rlconf/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, doc string) (Model, error) {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &n))

	d := spec.NewDecoder()
	m := d.Mapping(&n, spec.Root)
	model := Decode(d, m, "model")
	m.Done()
	return model, d.Err()
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		string(DiscreteC51DQN),
		string(DiscreteDQN),
		string(DiscreteQRDQN),
	}, Names())

	assert.Panics(t, func() { Register(DiscreteDQN, decodeDQN) })
}

func TestSupport(t *testing.T) {
	support := Support(0, 40, 21)
	require.Len(t, support, 21)
	for i, z := range support {
		assert.InDelta(t, 2*float64(i), z, 1e-12)
	}

	assert.Equal(t, []float64{-100, 50, 200}, Support(-100, 200, 3))
	assert.Panics(t, func() { Support(0, 1, 1) })
}

func TestQuantileMidpoints(t *testing.T) {
	assert.Equal(t, []float64{0.5}, QuantileMidpoints(1))
	assert.Equal(t, []float64{0.125, 0.375, 0.625, 0.875},
		QuantileMidpoints(4))
	assert.Empty(t, QuantileMidpoints(0))
}

func TestDecodeDefaults(t *testing.T) {
	m, err := decode(t, `
model:
  DiscreteC51DQN:
    trainer_param:
      actions: [0, 1]
      optimizer: {SGD: {}}
    net_builder:
      Categorical: {sizes: [8], activations: [relu]}
`)
	require.NoError(t, err)

	c51, ok := m.(DiscreteC51DQNConfig)
	require.True(t, ok)
	assert.Equal(t, DefaultRLParameters(), c51.TrainerParam.RL)
	assert.True(t, c51.TrainerParam.DoubleQLearning)
	assert.Equal(t, 1, c51.TrainerParam.MinibatchesPerStep)
	assert.Equal(t, 51, c51.NumAtoms())
	assert.Equal(t, -100.0, c51.TrainerParam.QMin)
	assert.Equal(t, 200.0, c51.TrainerParam.QMax)
	assert.True(t, c51.Evaluation().CalcCPEInTraining)
	assert.Equal(t, solver.SGDConfig{LR: 0.001}, c51.Trainer().Optimizer)

	m, err = decode(t, `
model:
  DiscreteQRDQN:
    trainer_param:
      actions: [0, 1]
      optimizer: {Adam: {}}
    net_builder:
      Quantile: {sizes: [8], activations: [relu]}
`)
	require.NoError(t, err)
	qr := m.(DiscreteQRDQNConfig)
	assert.Equal(t, 51, qr.NumAtoms())
	assert.Equal(t, 0.0, qr.TrainerParam.CQLAlpha)
	assert.Equal(t, network.Quantile, qr.Net().Type())

	m, err = decode(t, `
model:
  DiscreteDQN:
    trainer_param:
      actions: [0, 1, 2]
      optimizer: {RMSprop: {}}
    net_builder:
      FullyConnected: {sizes: [8], activations: [relu]}
`)
	require.NoError(t, err)
	assert.Equal(t, 1, m.NumAtoms())
	assert.Equal(t, DiscreteDQN, m.Type())
}

func TestDecodeViolations(t *testing.T) {
	prefix := "model.DiscreteC51DQN.trainer_param."
	tests := map[string]struct {
		trainer string
		path    string
	}{
		"Support":    {"qmin: 10, qmax: 10", prefix + "qmin"},
		"NumAtoms":   {"num_atoms: 1", prefix + "num_atoms"},
		"Gamma":      {"rl: {gamma: 1}", prefix + "rl.gamma"},
		"Loss":       {"rl: {q_network_loss: l1}", prefix + "rl.q_network_loss"},
		"MultiSteps": {"rl: {multi_steps: 0}", prefix + "rl.multi_steps"},
		"Unknown":    {"rl: {lambda: 0.9}", prefix + "rl.lambda"},
		"WrongType":  {"double_q_learning: 1", prefix + "double_q_learning"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, `
model:
  DiscreteC51DQN:
    trainer_param: {actions: [0, 1], optimizer: {SGD: {}}, `+test.trainer+`}
    net_builder:
      Categorical: {sizes: [8], activations: [relu]}
`)
			require.Error(t, err)

			var ve *spec.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, test.path, ve.Path.String())
		})
	}
}

func TestDecodeActions(t *testing.T) {
	for trainer, path := range map[string]string{
		"{actions: [], optimizer: {SGD: {}}}":       "actions",
		"{actions: [0, -1], optimizer: {SGD: {}}}":  "actions[1]",
		"{actions: [1, 1], optimizer: {SGD: {}}}":   "actions[1]",
		"{actions: [0, 1.5], optimizer: {SGD: {}}}": "actions[1]",
		"{optimizer: {SGD: {}}}":                    "actions",
	} {
		_, err := decode(t, `
model:
  DiscreteDQN:
    trainer_param: `+trainer+`
    net_builder:
      FullyConnected: {sizes: [8], activations: [relu]}
`)
		require.Error(t, err, trainer)
		assert.Contains(t, err.Error(), "model.DiscreteDQN.trainer_param."+
			path+":", trainer)
	}
}

func TestDecodeWrongBuilder(t *testing.T) {
	_, err := decode(t, `
model:
  DiscreteQRDQN:
    trainer_param: {actions: [0, 1], optimizer: {SGD: {}}}
    net_builder:
      Categorical: {sizes: [8], activations: [relu]}
`)
	require.Error(t, err)

	var se *spec.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "model.DiscreteQRDQN.net_builder", se.Path.String())
	assert.Equal(t, []string{string(network.Quantile)}, se.Allowed)
}

func TestQRDQNViolations(t *testing.T) {
	q := QRDQNTrainerParameters{
		TrainerParameters: TrainerParameters{
			Actions:            []int{0},
			RL:                 DefaultRLParameters(),
			MinibatchesPerStep: 1,
		},
		NumAtoms: 0,
		CQLAlpha: -1,
	}

	vs := spec.Collect(q.Validate())
	require.Len(t, vs, 2)
	assert.Equal(t, "num_atoms", vs[0].Field.String())
	assert.Equal(t, "cql_alpha", vs[1].Field.String())

	q.NumAtoms, q.CQLAlpha = 4, 0.5
	assert.NoError(t, q.Validate())
	assert.Equal(t, QuantileMidpoints(4), q.Quantiles())
}

func TestClone(t *testing.T) {
	steps := 3
	m := DiscreteDQNConfig{
		TrainerParam: TrainerParameters{
			Actions:   []int{0, 1},
			RL:        RLParameters{MultiSteps: &steps},
			Optimizer: solver.NewDefaultAdam(0.1),
		},
		NetBuilder: network.FullyConnectedConfig{MLP: network.MLP{
			Sizes: []int{4},
		}},
	}

	clone := m.Clone().(DiscreteDQNConfig)
	require.Equal(t, m, clone)

	clone.TrainerParam.Actions[0] = 5
	*clone.TrainerParam.RL.MultiSteps = 9
	clone.TrainerParam.Optimizer.(solver.AdamConfig).Betas[0] = 0
	clone.NetBuilder.Hidden().Sizes[0] = 2

	assert.Equal(t, []int{0, 1}, m.TrainerParam.Actions)
	assert.Equal(t, 3, *m.TrainerParam.RL.MultiSteps)
	assert.Equal(t, 0.9, m.TrainerParam.Optimizer.(solver.AdamConfig).Betas[0])
	assert.Equal(t, []int{4}, m.NetBuilder.Hidden().Sizes)
}
