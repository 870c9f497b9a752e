// Package environment describes the simulated control tasks that a
// training document can name. Environments themselves are simulated by
// the training harness: this package only records what the harness
// needs to know to bind a document to an environment, namely its
// observation and action specifications.
package environment

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/mat"
)

// Descriptor describes an environment with discrete actions
type Descriptor struct {
	Name            string
	Observation     Spec
	Action          Spec
	NumActions      int     // Legal actions are 0, 1, ..., NumActions-1
	MaxEpisodeSteps int     // Episode cutoff, 0 if none
	RewardThreshold float64 // Average return at which the task is solved
}

// NewDiscreteDescriptor returns a new Descriptor for an environment with
// the given observation bounds and numActions discrete actions
func NewDiscreteDescriptor(name string, lower, upper []float64,
	numActions, maxEpisodeSteps int, rewardThreshold float64) (Descriptor,
	error) {
	if len(lower) == 0 || len(lower) != len(upper) {
		return Descriptor{}, fmt.Errorf("newDiscreteDescriptor: %v: "+
			"observation bounds must be non-empty and of equal length, "+
			"have (%v, %v)", name, len(lower), len(upper))
	}
	if numActions < 1 {
		return Descriptor{}, fmt.Errorf("newDiscreteDescriptor: %v: must "+
			"have at least one action, have %v", name, numActions)
	}

	obs := NewSpec(
		mat.NewVecDense(len(lower), nil),
		Observation,
		mat.NewVecDense(len(lower), append([]float64(nil), lower...)),
		mat.NewVecDense(len(upper), append([]float64(nil), upper...)),
		Continuous,
	)
	action := NewSpec(
		mat.NewVecDense(1, nil),
		Action,
		mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(1, []float64{float64(numActions - 1)}),
		Discrete,
	)

	return Descriptor{
		Name:            name,
		Observation:     obs,
		Action:          action,
		NumActions:      numActions,
		MaxEpisodeSteps: maxEpisodeSteps,
		RewardThreshold: rewardThreshold,
	}, nil
}

// Registry maps environment names to Descriptors. A Registry is safe
// for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	envs map[string]Descriptor
}

// NewRegistry returns a new empty Registry
func NewRegistry() *Registry {
	return &Registry{envs: make(map[string]Descriptor)}
}

// Register adds d to the registry. Names may only be registered once.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register: environment name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.envs[d.Name]; ok {
		return fmt.Errorf("register: environment %v already registered",
			d.Name)
	}
	r.envs[d.Name] = d
	return nil
}

// Lookup returns the Descriptor registered under name
func (r *Registry) Lookup(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.envs[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("lookup: no such environment %q", name)
	}
	return d, nil
}

// Names returns the sorted names of all registered environments
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := maps.Keys(r.envs)
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}
