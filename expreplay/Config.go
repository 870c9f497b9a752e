// Package expreplay describes the experience replay buffer a training
// harness should build for a training document. The buffer itself is
// owned by the harness.
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/rlconf/utils/intutils"
)

// SelectorType determines how data is sampled or removed from an
// experience replay buffer
type SelectorType string

const (
	Uniform SelectorType = "Uniform"
	Fifo    SelectorType = "Fifo"
)

// Config describes an experience replay buffer
type Config struct {
	RemoveMethod      SelectorType
	SampleMethod      SelectorType
	RemoveSize        int
	SampleSize        int
	MaxReplayCapacity int
	MinReplayCapacity int
}

// New returns the Config of a buffer that holds at most capacity
// transitions, removes the oldest transition first, and samples
// minibatches of sampleSize transitions uniformly once warmup
// transitions have been added.
//
// The buffer cannot be sampled until it holds a full minibatch, so the
// minimum capacity is never less than sampleSize.
func New(capacity, warmup, sampleSize int) Config {
	minCapacity := intutils.Clamp(warmup, sampleSize, capacity)

	return Config{
		RemoveMethod:      Fifo,
		SampleMethod:      Uniform,
		RemoveSize:        1,
		SampleSize:        sampleSize,
		MaxReplayCapacity: capacity,
		MinReplayCapacity: minCapacity,
	}
}

// Validate checks that a buffer can be built with the Config
func (c Config) Validate() error {
	if c.MaxReplayCapacity < 1 {
		return fmt.Errorf("validate: maximum capacity must be > 0, have %v",
			c.MaxReplayCapacity)
	}
	if c.MinReplayCapacity < 1 {
		return fmt.Errorf("validate: minimum capacity must be > 0, have %v",
			c.MinReplayCapacity)
	}
	if c.MinReplayCapacity > c.MaxReplayCapacity {
		return fmt.Errorf("validate: minimum capacity (%v) must be <= "+
			"maximum capacity (%v)", c.MinReplayCapacity, c.MaxReplayCapacity)
	}
	if c.SampleSize < 1 {
		return fmt.Errorf("validate: sample size must be > 0, have %v",
			c.SampleSize)
	}
	if c.SampleSize > c.MaxReplayCapacity {
		return fmt.Errorf("validate: cannot sample %v transitions from a "+
			"buffer of capacity %v", c.SampleSize, c.MaxReplayCapacity)
	}
	if c.RemoveSize < 1 {
		return fmt.Errorf("validate: remove size must be > 0, have %v",
			c.RemoveSize)
	}
	for _, s := range []SelectorType{c.RemoveMethod, c.SampleMethod} {
		if s != Uniform && s != Fifo {
			return fmt.Errorf("validate: unknown selector %q", string(s))
		}
	}
	return nil
}

// Online returns whether the buffer holds a single transition, in which
// case experience replay reduces to online learning
func (c Config) Online() bool {
	return c.MaxReplayCapacity == 1 && c.SampleSize == 1
}

// String implements the fmt.Stringer interface
func (c Config) String() string {
	return fmt.Sprintf("replay(capacity=%v, warmup=%v, sample=%v %v, "+
		"remove=%v %v)", c.MaxReplayCapacity, c.MinReplayCapacity,
		c.SampleSize, c.SampleMethod, c.RemoveSize, c.RemoveMethod)
}
