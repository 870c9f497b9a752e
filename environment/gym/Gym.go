// Package gym describes the OpenAI Gym environments with discrete
// actions that a training document can name through its env.Gym
// variant.
//
// Observation bounds, action counts, episode cutoffs and reward
// thresholds follow the environments' registrations in Gym. Unbounded
// observation dimensions have infinite bounds.
package gym

import (
	"fmt"
	"math"

	env "github.com/samuelfneumann/rlconf/environment"
)

var inf = math.Inf(1)

// entry is a registration of a Gym environment
type entry struct {
	name            string
	upper           []float64 // Observation bounds are symmetric
	numActions      int
	maxEpisodeSteps int
	rewardThreshold float64
}

var entries = []entry{
	// Classic Control
	{"CartPole-v0", []float64{4.8, inf, 0.41887902047863906, inf}, 2, 200, 195.0},
	{"CartPole-v1", []float64{4.8, inf, 0.41887902047863906, inf}, 2, 500, 475.0},
	{"Acrobot-v1", []float64{1, 1, 1, 1, 4 * math.Pi, 9 * math.Pi}, 3, 500, -100.0},

	// Box2D
	{"LunarLander-v2", []float64{inf, inf, inf, inf, inf, inf, inf, inf}, 4, 1000, 200.0},
}

// register adds the Gym environments to r
func register(r *env.Registry) error {
	for _, e := range entries {
		lower := make([]float64, len(e.upper))
		for i := range e.upper {
			lower[i] = -e.upper[i]
		}

		d, err := env.NewDiscreteDescriptor(e.name, lower, e.upper,
			e.numActions, e.maxEpisodeSteps, e.rewardThreshold)
		if err != nil {
			return err
		}
		if err := r.Register(d); err != nil {
			return err
		}
	}

	// MountainCar has asymmetric position bounds
	mountainCar, err := env.NewDiscreteDescriptor(
		"MountainCar-v0",
		[]float64{-1.2, -0.07},
		[]float64{0.6, 0.07},
		3, 200, -110.0,
	)
	if err != nil {
		return err
	}
	return r.Register(mountainCar)
}

// NewRegistry returns a new environment.Registry holding all Gym
// environments described by this package
func NewRegistry() *env.Registry {
	r := env.NewRegistry()
	if err := register(r); err != nil {
		panic(fmt.Sprintf("newRegistry: %v", err))
	}
	return r
}
