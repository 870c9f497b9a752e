// Package experiment binds a loaded training document to the
// environment it names, producing the Plan a training harness runs.
//
// Binding is the first point at which a document is checked against an
// environment: a document whose actions do not match the environment's
// action space loads without error but fails to bind.
package experiment

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/rlconf/agent"
	"github.com/samuelfneumann/rlconf/config"
	"github.com/samuelfneumann/rlconf/device"
	env "github.com/samuelfneumann/rlconf/environment"
	"github.com/samuelfneumann/rlconf/expreplay"
	"github.com/samuelfneumann/rlconf/network"
	"github.com/samuelfneumann/rlconf/spec"
	"github.com/sirupsen/logrus"
	G "gorgonia.org/gorgonia"
)

// BindError is returned when a valid document cannot be bound to its
// environment
type BindError struct {
	Path   spec.Path
	Reason string
}

// Error implements the error interface
func (e *BindError) Error() string {
	return fmt.Sprintf("bind error: %v: %v", e.Path, e.Reason)
}

func bindError(p spec.Path, format string, args ...interface{}) *BindError {
	return &BindError{Path: p, Reason: fmt.Sprintf(format, args...)}
}

// Plan is everything a training harness needs to run a training
// document
type Plan struct {
	Config config.Config
	Env    env.Descriptor

	Solver      G.Solver
	Unsupported []string // Optimizer options ignored by Solver

	Network  network.Layout
	Replay   expreplay.Config
	Schedule Schedule

	Support   []float64 // Atoms of a categorical model, nil otherwise
	Quantiles []float64 // Quantile fractions of a quantile model, nil otherwise

	Device device.Device
}

// String implements the fmt.Stringer interface
func (p *Plan) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "env:       %v (%v observations, %v actions)\n",
		p.Env.Name, p.Env.Observation.Dims(), p.Env.NumActions)
	fmt.Fprintf(&b, "model:     %v\n", p.Config.Model.Type())
	fmt.Fprintf(&b, "optimizer: %v", p.Config.Model.Trainer().Optimizer.Type())
	if len(p.Unsupported) > 0 {
		fmt.Fprintf(&b, " (ignoring %v)", strings.Join(p.Unsupported, ", "))
	}
	fmt.Fprintf(&b, "\nnetwork:   %v, %v parameters\n", p.Network,
		p.Network.NumParams())
	if p.Support != nil {
		fmt.Fprintf(&b, "support:   %v atoms in [%v, %v]\n", len(p.Support),
			p.Support[0], p.Support[len(p.Support)-1])
	}
	if p.Quantiles != nil {
		fmt.Fprintf(&b, "quantiles: %v\n", len(p.Quantiles))
	}
	fmt.Fprintf(&b, "replay:    %v\n", p.Replay)
	fmt.Fprintf(&b, "schedule:  %v\n", p.Schedule)
	fmt.Fprintf(&b, "device:    %v\n", p.Device)
	return b.String()
}

// Bind resolves the environment named by c in r, checks c against it,
// and returns the Plan for c. The Plan holds the normalized copy of c. Warnings
// about options that cannot be honoured are logged to log.
func Bind(c config.Config, r *env.Registry, log logrus.FieldLogger) (*Plan,
	error) {
	c, err := c.Normalize()
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}
	modelPath := spec.Path{"model", string(c.Model.Type())}
	trainerPath := modelPath.Key("trainer_param")

	e, err := c.Env.Resolve(r)
	if err != nil {
		return nil, bindError(spec.Path{"env", string(c.Env.Type()),
			"env_name"}, "%v", err)
	}

	trainer := c.Model.Trainer()
	if err := checkActions(trainer.Actions, e.NumActions); err != nil {
		return nil, bindError(trainerPath.Key("actions"), "%v for %v", err,
			e.Name)
	}

	layout, err := c.Model.Net().Layout(e.Observation.Dims(), e.NumActions,
		c.Model.NumAtoms())
	if err != nil {
		return nil, bindError(modelPath.Key("net_builder"), "%v", err)
	}

	replay := expreplay.New(c.ReplayMemorySize, c.TrainAfterTS,
		c.MinibatchSize)
	if err := replay.Validate(); err != nil {
		return nil, bindError(spec.Path{"minibatch_size"}, "%v", err)
	}

	plan := &Plan{
		Config:      c,
		Env:         e,
		Solver:      trainer.Optimizer.Create(c.MinibatchSize),
		Unsupported: trainer.Optimizer.Unsupported(),
		Network:     layout,
		Replay:      replay,
		Schedule:    NewSchedule(c, e),
		Device:      device.Select(c.UseGPU, log),
	}

	switch m := c.Model.(type) {
	case agent.DiscreteC51DQNConfig:
		plan.Support = m.TrainerParam.Support()
	case agent.DiscreteQRDQNConfig:
		plan.Quantiles = m.TrainerParam.Quantiles()
	case agent.DiscreteDQNConfig:
	default:
		return nil, bindError(modelPath, "unsupported model type %T", m)
	}

	fields := logrus.Fields{
		"env":   e.Name,
		"model": c.Model.Type(),
	}
	for _, opt := range plan.Unsupported {
		log.WithFields(fields).WithField("option", opt).Warnf("bind: "+
			"%v option %v is not supported and will be ignored",
			trainer.Optimizer.Type(), opt)
	}
	if c.MaxSteps != nil && e.MaxEpisodeSteps > 0 &&
		*c.MaxSteps > e.MaxEpisodeSteps {
		log.WithFields(fields).Warnf("bind: max_steps (%v) exceeds the "+
			"episode cap of %v (%v)", *c.MaxSteps, e.Name, e.MaxEpisodeSteps)
	}
	log.WithFields(fields).WithField("params", layout.NumParams()).Info(
		"bind: bound training document")

	return plan, nil
}

// checkActions checks that actions enumerate the discrete actions
// 0, 1, ..., numActions-1 of an environment
func checkActions(actions []int, numActions int) error {
	if len(actions) != numActions {
		return fmt.Errorf("have %v actions, want %v", len(actions),
			numActions)
	}

	seen := make([]bool, numActions)
	for _, a := range actions {
		if a < 0 || a >= numActions {
			return fmt.Errorf("action %v out of range [0, %v)", a, numActions)
		}
		if seen[a] {
			return fmt.Errorf("duplicate action %v", a)
		}
		seen[a] = true
	}
	return nil
}
