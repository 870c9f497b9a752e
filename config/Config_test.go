package config_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/rlconf/agent"
	"github.com/samuelfneumann/rlconf/config"
	"github.com/samuelfneumann/rlconf/environment/envconfig"
	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

// errorsOf returns the errors joined in err
func errorsOf(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

func requireValidation(t *testing.T, err error, path string) {
	t.Helper()
	require.Error(t, err)
	for _, e := range errorsOf(err) {
		var ve *config.ValidationError
		if errors.As(e, &ve) && ve.Path.String() == path {
			return
		}
	}
	t.Fatalf("no validation error at %v in:\n%v", path, err)
}

func requireSchema(t *testing.T, err error, path string) *config.SchemaError {
	t.Helper()
	require.Error(t, err)
	for _, e := range errorsOf(err) {
		var se *config.SchemaError
		if errors.As(e, &se) && se.Path.String() == path {
			return se
		}
	}
	t.Fatalf("no schema error at %v in:\n%v", path, err)
	return nil
}

func TestParseShippedDocument(t *testing.T) {
	c, err := config.LoadFile(filepath.Join("testdata", "c51_cartpole.yaml"))
	require.NoError(t, err)

	assert.Equal(t, envconfig.GymConfig{EnvName: "CartPole-v0"}, c.Env)
	require.IsType(t, agent.DiscreteC51DQNConfig{}, c.Model)
	m := c.Model.(agent.DiscreteC51DQNConfig)

	tp := m.TrainerParam
	assert.Equal(t, []int{0, 1}, tp.Actions)
	assert.Equal(t, 0.9, tp.RL.Gamma)
	assert.Equal(t, 0.1, tp.RL.TargetUpdateRate)
	assert.True(t, tp.RL.MaxQLearning)
	assert.Equal(t, 1.0, tp.RL.Temperature)
	assert.Equal(t, agent.MSE, tp.RL.QNetworkLoss)
	assert.Nil(t, tp.RL.MultiSteps)
	assert.True(t, tp.DoubleQLearning)
	assert.Equal(t, 1, tp.MinibatchesPerStep)
	assert.Equal(t, 21, tp.NumAtoms)
	assert.Equal(t, 0.0, tp.QMin)
	assert.Equal(t, 40.0, tp.QMax)

	adam := solver.NewDefaultAdam(0.001)
	adam.AMSGrad = true
	assert.Equal(t, adam, tp.Optimizer)

	assert.Equal(t, network.CategoricalConfig{MLP: network.MLP{
		Sizes:       []int{128, 64},
		Activations: []network.ActivationType{network.ActReLU, network.ActReLU},
	}}, m.NetBuilder)
	assert.False(t, m.EvalParameters.CalcCPEInTraining)

	assert.Equal(t, 20000, c.ReplayMemorySize)
	assert.Equal(t, 1, c.TrainEveryTS)
	assert.Equal(t, 5000, c.TrainAfterTS)
	assert.Equal(t, 30, c.NumTrainEpisodes)
	assert.Equal(t, 20, c.NumEvalEpisodes)
	assert.Equal(t, 100.0, c.PassingScoreBar)
	assert.False(t, c.UseGPU)
	assert.Equal(t, 512, c.MinibatchSize)
	assert.Nil(t, c.MaxSteps)
	assert.Nil(t, c.Seed)
}

func TestParseFixtures(t *testing.T) {
	dqn, err := config.LoadFile(filepath.Join("testdata", "dqn_cartpole.json"))
	require.NoError(t, err)
	require.IsType(t, agent.DiscreteDQNConfig{}, dqn.Model)
	assert.Equal(t, 1, dqn.Model.NumAtoms())
	assert.Equal(t, network.Dueling, dqn.Model.Net().Type())
	assert.Equal(t, agent.Huber, dqn.Model.Trainer().RL.QNetworkLoss)
	assert.True(t, dqn.Model.Evaluation().CalcCPEInTraining)
	assert.Equal(t, solver.SGDConfig{LR: 0.01, Momentum: 0.9, Nesterov: true},
		dqn.Model.Trainer().Optimizer)
	require.NotNil(t, dqn.MaxSteps)
	assert.Equal(t, 500, *dqn.MaxSteps)
	require.NotNil(t, dqn.Seed)
	assert.Equal(t, 42, *dqn.Seed)

	qr, err := config.LoadFile(filepath.Join("testdata", "qrdqn_acrobot.yaml"))
	require.NoError(t, err)
	require.IsType(t, agent.DiscreteQRDQNConfig{}, qr.Model)
	m := qr.Model.(agent.DiscreteQRDQNConfig)
	assert.Equal(t, 11, m.NumAtoms())
	assert.Equal(t, 0.5, m.TrainerParam.CQLAlpha)
	require.NotNil(t, m.TrainerParam.RL.MultiSteps)
	assert.Equal(t, 3, *m.TrainerParam.RL.MultiSteps)
	assert.Equal(t, 0.1, m.NetBuilder.Hidden().DropoutRatio)
	assert.True(t, qr.UseGPU)

	fc, err := config.LoadFile(filepath.Join("testdata", "dqn_mountaincar.yaml"))
	require.NoError(t, err)
	assert.Equal(t, network.FullyConnected, fc.Model.Net().Type())
	assert.Equal(t, solver.RMSpropConfig{LR: 0.001, Alpha: 0.99, Eps: 1e-8,
		Momentum: 0.5, WeightDecay: 0.0001, Centered: true},
		fc.Model.Trainer().Optimizer)
	assert.False(t, fc.Model.Trainer().DoubleQLearning)
	require.NotNil(t, fc.Seed)
	assert.Equal(t, 0, *fc.Seed)
}

func TestRoundTrip(t *testing.T) {
	fixtures := []string{
		"c51_cartpole.yaml",
		"dqn_cartpole.json",
		"qrdqn_acrobot.yaml",
		"dqn_mountaincar.yaml",
	}

	for _, fixture := range fixtures {
		for _, format := range []config.Format{config.YAML, config.JSON} {
			name := fixture + "/" + string(format)
			t.Run(name, func(t *testing.T) {
				c, err := config.Parse([]byte(readFixture(t, fixture)))
				require.NoError(t, err)

				data, err := config.Marshal(c, format)
				require.NoError(t, err)

				again, err := config.Parse(data)
				require.NoError(t, err, string(data))
				assert.Equal(t, c, again)
			})
		}
	}
}

func TestMarshalUnknownFormat(t *testing.T) {
	c, err := config.Parse([]byte(readFixture(t, "c51_cartpole.yaml")))
	require.NoError(t, err)

	_, err = config.Marshal(c, config.Format("toml"))
	assert.Error(t, err)
}

func TestSupportBounds(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")

	for _, qmax := range []string{"0", "-10"} {
		bad := strings.Replace(doc, "qmax: 40", "qmax: "+qmax, 1)
		_, err := config.Parse([]byte(bad))
		requireValidation(t, err, "model.DiscreteC51DQN.trainer_param.qmin")
	}
}

// withModel returns doc with the value of its model key replaced by block
func withModel(t *testing.T, doc, block string) string {
	t.Helper()
	start := strings.Index(doc, "model:")
	end := strings.Index(doc, "replay_memory_size:")
	require.True(t, start >= 0 && end > start)
	return doc[:start] + "model:" + block + "\n" + doc[end:]
}

// modelBlock returns the value of the model key of doc
func modelBlock(t *testing.T, doc string) string {
	t.Helper()
	start := strings.Index(doc, "model:")
	end := strings.Index(doc, "replay_memory_size:")
	require.True(t, start >= 0 && end > start)
	return strings.TrimSuffix(doc[start+len("model:"):end], "\n")
}

func TestModelSelection(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	c51 := modelBlock(t, doc)

	tests := map[string]struct {
		block  string
		reason string
	}{
		"Missing":  {"", "missing required variant selection"},
		"Empty":    {" {}", "no variant selected"},
		"Scalar":   {" DiscreteC51DQN", "must be a mapping"},
		"Unknown":  {"\n  DiscreteSAC: {}", "unknown variant"},
		"Multiple": {c51 + "\n  DiscreteDQN: {}", "ambiguous variant selection"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(withModel(t, doc, test.block)))
			se := requireSchema(t, err, "model")
			assert.Contains(t, se.Reason, test.reason)
			assert.ElementsMatch(t, agent.Names(), se.Allowed)
		})
	}
}

func TestModelBodyNotAMapping(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")

	_, err := config.Parse([]byte(withModel(t, doc, " {DiscreteC51DQN: 5}")))
	requireValidation(t, err, "model.DiscreteC51DQN")
	require.Len(t, errorsOf(err), 1)
	assert.Contains(t, err.Error(), "expected a mapping")
}

func TestMissingOptimizer(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	bad := strings.Replace(doc, `      optimizer:
        Adam:
          lr: 0.001
          amsgrad: true
`, "", 1)
	require.NotEqual(t, doc, bad)

	_, err := config.Parse([]byte(bad))
	path := "model.DiscreteC51DQN.trainer_param.optimizer"
	requireSchema(t, err, path)
	assert.Contains(t, err.Error(), "missing required variant selection at")
	assert.Contains(t, err.Error(), "trainer_param.optimizer")
}

func TestNetBuilderNotAcceptedByModel(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	bad := strings.Replace(doc, "Categorical:", "FullyConnected:", 1)

	_, err := config.Parse([]byte(bad))
	se := requireSchema(t, err, "model.DiscreteC51DQN.net_builder")
	assert.Equal(t, []string{string(network.Categorical)}, se.Allowed)
}

func TestActivationsMismatch(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")

	tests := map[string]string{
		"TooFew": strings.Replace(doc, `        - relu
        - relu
`, "        - relu\n", 1),
		"TooMany": strings.Replace(doc, `        - relu
        - relu
`, "        - relu\n        - relu\n        - tanh\n", 1),
	}

	for name, bad := range tests {
		t.Run(name, func(t *testing.T) {
			require.NotEqual(t, doc, bad)
			_, err := config.Parse([]byte(bad))
			requireValidation(t, err,
				"model.DiscreteC51DQN.net_builder.Categorical.activations")
		})
	}
}

func TestActionsLoadWithoutEnvironmentCheck(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	single := strings.Replace(doc, `      actions:
      - 0
      - 1
`, "      actions: [0]\n", 1)
	require.NotEqual(t, doc, single)

	c, err := config.Parse([]byte(single))
	require.NoError(t, err)
	assert.Equal(t, []int{0}, c.Model.Trainer().Actions)
}

func TestValidationErrors(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	prefix := "model.DiscreteC51DQN.trainer_param."

	tests := map[string]struct {
		old, new string
		path     string
	}{
		"Gamma":          {"gamma: 0.9", "gamma: 1.5", prefix + "rl.gamma"},
		"TargetUpdate":   {"target_update_rate: 0.1", "target_update_rate: 0", prefix + "rl.target_update_rate"},
		"Temperature":    {"temperature: 1.0", "temperature: -1.0", prefix + "rl.temperature"},
		"NumAtoms":       {"num_atoms: 21", "num_atoms: 1", prefix + "num_atoms"},
		"Minibatches":    {"minibatches_per_step: 1", "minibatches_per_step: 0", prefix + "minibatches_per_step"},
		"LearningRate":   {"lr: 0.001", "lr: 0", prefix + "optimizer.Adam.lr"},
		"TypeMismatch":   {"replay_memory_size: 20000", "replay_memory_size: lots", "replay_memory_size"},
		"FloatForInt":    {"train_every_ts: 1", "train_every_ts: 1.5", "train_every_ts"},
		"StringForBool":  {"use_gpu: false", "use_gpu: nope", "use_gpu"},
		"MissingField":   {"minibatch_size: 512", "", "minibatch_size"},
		"Range":          {"replay_memory_size: 20000", "replay_memory_size: 0", "replay_memory_size"},
		"UnknownField":   {"use_gpu: false", "use_gpu: false\nuse_tpu: true", "use_tpu"},
		"UnknownNested":  {"gamma: 0.9", "gamma: 0.9\n        lambda: 0.5", prefix + "rl.lambda"},
		"EnvName":        {"env_name: CartPole-v0", "env_name: ''", "env.Gym.env_name"},
		"HiddenSize":     {"- 128", "- 0", "model.DiscreteC51DQN.net_builder.Categorical.sizes[0]"},
		"Activation":     {"- relu", "- gelu", "model.DiscreteC51DQN.net_builder.Categorical.activations[0]"},
		"NotAMapping":    {"eval_parameters:\n      calc_cpe_in_training: false", "eval_parameters: [false]", "model.DiscreteC51DQN.eval_parameters"},
		"NonFiniteFloat": {"passing_score_bar: 100.0", "passing_score_bar: .inf", "passing_score_bar"},
		"DuplicateKey":   {"use_gpu: false", "use_gpu: false\nuse_gpu: true", "use_gpu"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			bad := strings.Replace(doc, test.old, test.new, 1)
			require.NotEqual(t, doc, bad)

			_, err := config.Parse([]byte(bad))
			requireValidation(t, err, test.path)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		doc  string
		line int
	}{
		"Empty":     {"", 0},
		"Comment":   {"# nothing here\n", 0},
		"Null":      {"---\n", 0},
		"Syntax":    {"env:\n  Gym: [\n", 3},
		"BadIndent": {"env:\n  Gym:\n    env_name: a\n   bad: b\n", 4},
		"TwoDocs":   {"a: 1\n---\nb: 2\n", 3},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(test.doc))
			require.Error(t, err)

			var pe *config.ParseError
			require.True(t, errors.As(err, &pe), err)
			if test.line > 0 {
				assert.Greater(t, pe.Line, 0)
			}
		})
	}
}

func TestReportsAllViolations(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")
	r := strings.NewReplacer(
		"gamma: 0.9", "gamma: 2",
		"qmax: 40", "qmax: -1",
		"        - 64\n", "",
		"minibatch_size: 512", "minibatch_size: 512\nextra: 1",
		"Adam:", "Adagrad:",
	)

	_, err := config.Parse([]byte(r.Replace(doc)))
	require.Error(t, err)

	prefix := "model.DiscreteC51DQN."
	requireSchema(t, err, prefix+"trainer_param.optimizer")
	requireValidation(t, err, prefix+"net_builder.Categorical.activations")
	requireValidation(t, err, "extra")
	requireValidation(t, err, prefix+"trainer_param.rl.gamma")
	requireValidation(t, err, prefix+"trainer_param.qmin")
	assert.Len(t, errorsOf(err), 5)
}

func TestRangeChecksSkipOnlyUndecodedFields(t *testing.T) {
	doc := readFixture(t, "c51_cartpole.yaml")

	r := strings.NewReplacer("gamma: 0.9", "gamma: oops", "qmax: 40",
		"qmax: -5")
	_, err := config.Parse([]byte(r.Replace(doc)))
	prefix := "model.DiscreteC51DQN.trainer_param."
	requireValidation(t, err, prefix+"rl.gamma")
	requireValidation(t, err, prefix+"qmin")
	assert.Len(t, errorsOf(err), 2)

	// qmin < qmax is not checked against a qmax that failed to decode
	r = strings.NewReplacer("qmin: 0", "qmin: 500", "qmax: 40", "qmax: [40]")
	_, err = config.Parse([]byte(r.Replace(doc)))
	requireValidation(t, err, prefix+"qmax")
	assert.Len(t, errorsOf(err), 1)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join("testdata", "no_such_file.yaml"))
	require.Error(t, err)

	var pe *config.ParseError
	var ve *config.ValidationError
	var se *config.SchemaError
	assert.False(t, errors.As(err, &pe))
	assert.False(t, errors.As(err, &ve))
	assert.False(t, errors.As(err, &se))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestClone(t *testing.T) {
	c, err := config.Parse([]byte(readFixture(t, "dqn_cartpole.json")))
	require.NoError(t, err)

	clone := c.Clone()
	require.Equal(t, c, clone)

	*clone.MaxSteps = 1
	clone.Model.Trainer().Actions[0] = 7
	clone.Model.Net().Hidden().Sizes[0] = 3

	assert.Equal(t, 500, *c.MaxSteps)
	assert.Equal(t, []int{0, 1}, c.Model.Trainer().Actions)
	assert.Equal(t, []int{64, 64}, c.Model.Net().Hidden().Sizes)
}

func TestValidate(t *testing.T) {
	c, err := config.Parse([]byte(readFixture(t, "c51_cartpole.yaml")))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	m := c.Clone().Model.(agent.DiscreteC51DQNConfig)
	m.TrainerParam.QMin = 50
	bad := c.Clone()
	bad.Model = m
	requireValidation(t, bad.Validate(), "model.DiscreteC51DQN.trainer_param.qmin")

	assert.Equal(t, 0.0, c.Model.(agent.DiscreteC51DQNConfig).TrainerParam.QMin)

	requireSchema(t, config.Config{}.Validate(), "model")
}
