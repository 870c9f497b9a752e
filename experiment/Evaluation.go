package experiment

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Evaluation accumulates the returns of the evaluation episodes of a
// training run and reports whether the run passed its Schedule.
//
// Rewards are tracked one timestep at a time. An episode's return is
// recorded only once its last timestep is tracked.
type Evaluation struct {
	schedule       Schedule
	currentReturn  float64
	episodeReturns []float64
}

// NewEvaluation returns a new Evaluation for s
func NewEvaluation(s Schedule) *Evaluation {
	return &Evaluation{
		schedule:       s,
		episodeReturns: make([]float64, 0, s.NumEvalEpisodes),
	}
}

// Track tracks the reward of a timestep. If last is set, the timestep
// ends the episode. Track returns an error if all evaluation episodes
// have already been tracked.
func (e *Evaluation) Track(reward float64, last bool) error {
	if e.Done() {
		return fmt.Errorf("track: all %v evaluation episodes tracked",
			e.schedule.NumEvalEpisodes)
	}

	e.currentReturn += reward
	if last {
		e.episodeReturns = append(e.episodeReturns, e.currentReturn)
		e.currentReturn = 0.0
	}
	return nil
}

// Done returns whether all evaluation episodes have been tracked
func (e *Evaluation) Done() bool {
	return len(e.episodeReturns) >= e.schedule.NumEvalEpisodes
}

// Returns returns the returns of the finished evaluation episodes
func (e *Evaluation) Returns() []float64 {
	return append([]float64(nil), e.episodeReturns...)
}

// Mean returns the mean return of the finished evaluation episodes
func (e *Evaluation) Mean() float64 {
	if len(e.episodeReturns) == 0 {
		return 0
	}
	return stat.Mean(e.episodeReturns, nil)
}

// Passed returns whether all evaluation episodes have finished and
// their mean return reaches the passing score bar
func (e *Evaluation) Passed() bool {
	return e.Done() && e.schedule.Passed(e.episodeReturns)
}
