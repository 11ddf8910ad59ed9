package search

import (
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStart(t *testing.T, seed int64) *model.Schedule {
	t.Helper()
	input := courseLoadInput(t)
	empty := newEmptySchedule(t, input, model.DefaultLayout)
	schedule, err := NewRandomGreedy(empty, true, RandomGreedyParameters{Start: 1, MaxOverflow: 1000, MaxAttempts: 10}, Dependencies{
		Rng: rand.New(rand.NewSource(seed)),
	}).Run()
	require.NoError(t, err)
	return schedule
}

func TestHillClimberNeverWorsens(t *testing.T) {
	// Arrange
	start := buildStart(t, 1)
	startPenalty := start.TotalPenalty()
	startSolution := start.Solution()
	observer := &recordingObserver{}
	improver := NewHillClimber(Parameters{Iterations: 300, Runs: 1}, Dependencies{
		Rng:      rand.New(rand.NewSource(2)),
		Observer: observer,
	})

	// Act
	result, err := improver.Run(start)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "hillclimber", improver.Name())
	assert.LessOrEqual(t, result.Penalty, startPenalty)
	assert.Equal(t, result.Schedule.TotalPenalty(), result.Penalty)
	assert.Equal(t, result.Penalty, result.Breakdown.Total)
	assert.True(t, result.Schedule.IsSolution())
	assert.Equal(t, startSolution, start.Solution(), "the starting schedule is left untouched")
	assert.Len(t, observer.iterations, 300)

	previous := startPenalty
	accepted := 0
	for _, iteration := range observer.iterations {
		assert.LessOrEqual(t, iteration.penalty, previous)
		previous = iteration.penalty
		if iteration.accepted {
			accepted++
		}
	}
	assert.Equal(t, accepted, result.Accepted)
}

func TestSimulatedAnnealingRun(t *testing.T) {
	start := buildStart(t, 3)
	improver := NewSimulatedAnnealing(1, Parameters{Iterations: 300, Runs: 2}, Dependencies{Rng: rand.New(rand.NewSource(4))})

	result, err := improver.Run(start)

	require.NoError(t, err)
	assert.Equal(t, "annealing", improver.Name())
	assert.Len(t, result.Runs, 2)
	assert.Equal(t, slices.Min(result.Runs), result.Penalty)
	assert.Equal(t, result.Schedule.TotalPenalty(), result.Penalty)
	assert.True(t, result.Schedule.IsSolution())
}

func TestRunFreshBuildsEveryRun(t *testing.T) {
	// Arrange
	input := courseLoadInput(t)
	empty := newEmptySchedule(t, input, model.DefaultLayout)
	rng := rand.New(rand.NewSource(9))
	constructor := NewGreedy(empty, true, Dependencies{Rng: rng})
	improver := NewHillClimber(Parameters{Iterations: 50, Runs: 3}, Dependencies{Rng: rng})

	// Act
	result, err := improver.RunFresh(constructor)

	// Assert
	require.NoError(t, err)
	assert.Len(t, result.Runs, 3)
	assert.Equal(t, slices.Min(result.Runs), result.Penalty)
	assert.True(t, result.Schedule.IsSolution())
	assert.Len(t, empty.EmptySlots(), empty.Slots())
	require.Len(t, result.Starts, 3)
	for i, start := range result.Starts {
		assert.LessOrEqual(t, result.Runs[i], start)
	}
}

func TestImproverRejectsIncompleteSchedule(t *testing.T) {
	input := courseLoadInput(t)
	empty := newEmptySchedule(t, input, model.DefaultLayout)

	_, err := NewHillClimber(DefaultParameters, Dependencies{}).Run(empty)

	assert.True(t, errors.Is(err, ErrIncompleteSchedule))
}

func TestNeighborSwapsTwoSlots(t *testing.T) {
	start := buildStart(t, 5)
	search := NewHillClimber(DefaultParameters, Dependencies{Rng: rand.New(rand.NewSource(6))}).(*localSearch)

	for range 100 {
		neighbor, err := search.neighbor(start)
		require.NoError(t, err)

		differences := 0
		for index, activity := range neighbor.Solution() {
			if activity != start.Activity(index) {
				differences++
			}
		}
		assert.Contains(t, []int{0, 2}, differences)
		assert.True(t, neighbor.IsSolution())
	}
}

func TestZeroIterationsKeepsStart(t *testing.T) {
	start := buildStart(t, 7)

	result, err := NewSimulatedAnnealing(1, Parameters{Iterations: 0, Runs: 1}, Dependencies{}).Run(start)

	require.NoError(t, err)
	assert.Equal(t, start.Solution(), result.Schedule.Solution())
	assert.Equal(t, start.TotalPenalty(), result.Penalty)
}
