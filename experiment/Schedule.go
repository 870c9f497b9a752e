package experiment

import (
	"fmt"

	"github.com/samuelfneumann/rlconf/config"
	env "github.com/samuelfneumann/rlconf/environment"
	"gonum.org/v1/gonum/stat"
)

// Schedule determines when an agent is trained and when training has
// succeeded
type Schedule struct {
	TrainEvery         int // Train every TrainEvery timesteps
	TrainAfter         int // Number of timesteps before training starts
	MinibatchesPerStep int

	NumTrainEpisodes int
	NumEvalEpisodes  int
	MaxSteps         int // Per-episode step cap

	PassingScoreBar float64
}

// NewSchedule returns the Schedule of c on environment e. If c sets no
// step cap, the environment's own cap is used.
func NewSchedule(c config.Config, e env.Descriptor) Schedule {
	maxSteps := e.MaxEpisodeSteps
	if c.MaxSteps != nil {
		maxSteps = *c.MaxSteps
	}

	minibatches := 1
	if c.Model != nil {
		minibatches = c.Model.Trainer().MinibatchesPerStep
	}

	return Schedule{
		TrainEvery:         c.TrainEveryTS,
		TrainAfter:         c.TrainAfterTS,
		MinibatchesPerStep: minibatches,
		NumTrainEpisodes:   c.NumTrainEpisodes,
		NumEvalEpisodes:    c.NumEvalEpisodes,
		MaxSteps:           maxSteps,
		PassingScoreBar:    c.PassingScoreBar,
	}
}

// ShouldTrain returns whether the agent should be trained after the
// global timestep step, counted from 1
func (s Schedule) ShouldTrain(step int) bool {
	return step >= s.TrainAfter && step%s.TrainEvery == 0
}

// Updates returns the number of minibatch updates to perform after the
// global timestep step
func (s Schedule) Updates(step int) int {
	if !s.ShouldTrain(step) {
		return 0
	}
	return s.MinibatchesPerStep
}

// Truncated returns whether an episode is cut off after step steps
func (s Schedule) Truncated(step int) bool {
	return s.MaxSteps > 0 && step >= s.MaxSteps
}

// Passed returns whether the mean of the evaluation returns reaches the
// passing score bar. No returns never pass.
func (s Schedule) Passed(returns []float64) bool {
	if len(returns) == 0 {
		return false
	}
	return stat.Mean(returns, nil) >= s.PassingScoreBar
}

// String implements the fmt.Stringer interface
func (s Schedule) String() string {
	return fmt.Sprintf("train %v episodes every %v steps after %v steps "+
		"(%v updates), evaluate %v episodes, cap %v steps, pass at %v",
		s.NumTrainEpisodes, s.TrainEvery, s.TrainAfter, s.MinibatchesPerStep,
		s.NumEvalEpisodes, s.MaxSteps, s.PassingScoreBar)
}
