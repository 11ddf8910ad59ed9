package search

import (
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"go.uber.org/zap"
)

type random struct {
	*greedy
}

// NewRandom places every activity in a uniformly sampled empty slot, regardless of the penalty.
// It's the baseline the other constructors are measured against
func NewRandom(empty *model.Schedule, dependencies Dependencies) Constructor {
	return &random{greedy: newGreedy("random", empty, false, dependencies)}
}

func (r *random) Run() (*model.Schedule, error) {
	if err := r.reset(); err != nil {
		return nil, err
	}

	penalty := r.schedule.TotalPenalty()
	for _, activity := range r.activities {
		index, err := r.schedule.RandomIndex(r.dependencies.Rng, true)
		if err != nil {
			return nil, err
		}
		r.schedule.AddActivity(index, activity)
		r.removeEmptySlot(index)
		penalty = r.schedule.TotalPenalty()

		r.dependencies.Observer.Placed(r.name, activity, index, penalty)
		r.dependencies.Logger.Debug("activity placed randomly",
			zap.String("algorithm", r.name),
			zap.Stringer("activity", activity),
			zap.Int("slot", index),
			zap.Int("penalty", penalty),
		)
	}

	r.dependencies.Logger.Info("constructive run finished",
		zap.String("algorithm", r.name),
		zap.Int("activities", len(r.activities)),
		zap.Int("penalty", penalty),
	)
	return r.schedule, nil
}
