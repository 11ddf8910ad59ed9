package search

import (
	"math"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"go.uber.org/zap"
)

type RandomGreedyParameters struct {
	Start float64 // Probability of a random insertion for the first activity
	Alpha float64 // Decay rate of the probability as activities get placed
	// MaxOverflow is compared with the seats missing in the hall (Schedule.CapacityOverflow), not with the
	// capacity penalty of the slot: that penalty is a 0/1 flag, so a threshold on it would never reject a slot
	MaxOverflow int
	MaxAttempts int // Sampled slots before a random insertion falls back to the greedy one
}

var DefaultRandomGreedyParameters = RandomGreedyParameters{
	Start:       0.7,
	Alpha:       0.064,
	MaxOverflow: 5,
	MaxAttempts: 1000,
}

type randomGreedy struct {
	*greedy
	parameters RandomGreedyParameters
}

// NewRandomGreedy behaves like the greedy constructor, but places early activities in random slots with a probability
// that decays exponentially as the schedule fills up
func NewRandomGreedy(empty *model.Schedule, shuffle bool, parameters RandomGreedyParameters, dependencies Dependencies) Constructor {
	return &randomGreedy{
		greedy:     newGreedy("randomgreedy", empty, shuffle, dependencies),
		parameters: parameters,
	}
}

func (r *randomGreedy) Run() (*model.Schedule, error) {
	if err := r.reset(); err != nil {
		return nil, err
	}

	currentPenalty := r.schedule.TotalPenalty()
	randomInsertions := 0
	for i, activity := range r.activities {
		if r.dependencies.Rng.Float64() < r.randomChance(i) {
			penalty, inserted, err := r.insertRandomly(activity)
			if err != nil {
				return nil, err
			} else if inserted {
				currentPenalty = penalty
				randomInsertions++
				continue
			}
		}

		var err error
		if currentPenalty, err = r.insertGreedily(activity, currentPenalty); err != nil {
			return nil, err
		}
	}

	r.dependencies.Logger.Info("constructive run finished",
		zap.String("algorithm", r.name),
		zap.Int("activities", len(r.activities)),
		zap.Int("random_insertions", randomInsertions),
		zap.Int("penalty", currentPenalty),
	)
	return r.schedule, nil
}

// randomChance is the probability of a random insertion once i activities have been placed
func (r *randomGreedy) randomChance(i int) float64 {
	return r.parameters.Start * math.Exp(-r.parameters.Alpha*float64(i))
}

// insertRandomly samples empty slots until one fits the activity closely enough.
// It returns false, leaving the schedule untouched, when no acceptable slot is found within the attempts
func (r *randomGreedy) insertRandomly(activity model.Activity) (penalty int, inserted bool, err error) {
	for range r.parameters.MaxAttempts {
		var index int
		if index, err = r.schedule.RandomIndex(r.dependencies.Rng, true); err != nil {
			return 0, false, err
		}
		if r.capacityOverflow(index, activity) {
			continue
		}

		r.schedule.AddActivity(index, activity)
		penalty = r.schedule.TotalPenalty()
		r.removeEmptySlot(index)
		r.dependencies.Observer.Placed(r.name, activity, index, penalty)
		r.dependencies.Logger.Debug("activity placed randomly",
			zap.String("algorithm", r.name),
			zap.Stringer("activity", activity),
			zap.Int("slot", index),
			zap.Int("penalty", penalty),
		)
		return penalty, true, nil
	}

	r.dependencies.Logger.Debug("no slot fits the activity, falling back to greedy insertion",
		zap.Stringer("activity", activity),
		zap.Int("attempts", r.parameters.MaxAttempts),
	)
	return 0, false, nil
}

func (r *randomGreedy) capacityOverflow(index int, activity model.Activity) bool {
	return r.schedule.CapacityOverflow(index, activity) > r.parameters.MaxOverflow
}
