package search

import (
	"fmt"
	"math"
	"slices"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"go.uber.org/zap"
)

type greedy struct {
	name         string
	empty        *model.Schedule
	shuffle      bool
	dependencies Dependencies

	// State of the current run
	schedule   *model.Schedule
	activities []model.Activity
	emptySlots []int
}

// NewGreedy places activities one by one in the slot that increases the penalty the least.
// Activities follow the catalog order unless shuffle is set
func NewGreedy(empty *model.Schedule, shuffle bool, dependencies Dependencies) Constructor {
	return newGreedy("greedy", empty, shuffle, dependencies)
}

func newGreedy(name string, empty *model.Schedule, shuffle bool, dependencies Dependencies) *greedy {
	return &greedy{
		name:         name,
		empty:        empty,
		shuffle:      shuffle,
		dependencies: dependencies.withDefaults(),
	}
}

func (g *greedy) Name() string {
	return g.name
}

func (g *greedy) Run() (*model.Schedule, error) {
	if err := g.reset(); err != nil {
		return nil, err
	}

	currentPenalty := g.schedule.TotalPenalty()
	for _, activity := range g.activities {
		var err error
		if currentPenalty, err = g.insertGreedily(activity, currentPenalty); err != nil {
			return nil, err
		}
	}

	g.dependencies.Logger.Info("constructive run finished",
		zap.String("algorithm", g.name),
		zap.Int("activities", len(g.activities)),
		zap.Int("penalty", currentPenalty),
	)
	return g.schedule, nil
}

func (g *greedy) reset() error {
	g.schedule = g.empty.Copy()
	g.activities = g.schedule.UnplacedActivities()
	g.emptySlots = g.schedule.EmptySlots()

	if len(g.activities) > len(g.emptySlots) {
		return fmt.Errorf("%w: %d activities to place in %d slots", model.ErrNoEmptySlot, len(g.activities), len(g.emptySlots))
	}

	if g.shuffle {
		g.dependencies.Rng.Shuffle(len(g.activities), func(i, j int) {
			g.activities[i], g.activities[j] = g.activities[j], g.activities[i]
		})
	}
	return nil
}

// optimalIndex tries the activity in every empty slot and returns the slot with the lowest resulting penalty.
// The first slot that leaves the penalty unchanged is taken right away
func (g *greedy) optimalIndex(activity model.Activity, currentPenalty int) (optimalIndex, lowestPenalty int, err error) {
	if len(g.emptySlots) == 0 {
		return 0, 0, model.ErrNoEmptySlot
	}

	optimalIndex, lowestPenalty = -1, math.MaxInt
	for _, index := range g.emptySlots {
		if !g.schedule.AddActivity(index, activity) {
			return 0, 0, fmt.Errorf("cannot place %v at slot %d", activity, index)
		}
		newPenalty := g.schedule.TotalPenalty()
		g.schedule.RemoveIndex(index)

		if newPenalty == currentPenalty {
			return index, currentPenalty, nil
		} else if newPenalty < lowestPenalty {
			optimalIndex, lowestPenalty = index, newPenalty
		}
	}

	return optimalIndex, lowestPenalty, nil
}

// insertGreedily commits the activity to its optimal slot and returns the penalty after insertion
func (g *greedy) insertGreedily(activity model.Activity, currentPenalty int) (int, error) {
	index, penalty, err := g.optimalIndex(activity, currentPenalty)
	if err != nil {
		return 0, err
	}
	g.commit(index, activity, penalty)
	return penalty, nil
}

func (g *greedy) commit(index int, activity model.Activity, penalty int) {
	g.schedule.AddActivity(index, activity)
	g.removeEmptySlot(index)

	g.dependencies.Observer.Placed(g.name, activity, index, penalty)
	g.dependencies.Logger.Debug("activity placed",
		zap.String("algorithm", g.name),
		zap.Stringer("activity", activity),
		zap.Int("slot", index),
		zap.Int("penalty", penalty),
	)
}

func (g *greedy) removeEmptySlot(index int) {
	if i := slices.Index(g.emptySlots, index); i >= 0 {
		g.emptySlots = slices.Delete(g.emptySlots, i, i+1)
	}
}
