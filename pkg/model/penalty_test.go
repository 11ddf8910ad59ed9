package model

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapacityPenaltyIsAFlag(t *testing.T) {
	schedule := newTestSchedule(t)

	// 200 students in a hall of 20 is charged a single point
	require.True(t, schedule.AddActivity(2, algorithmsLecture1))
	require.True(t, schedule.AddActivity(3, algorithmsTutorial))

	assert.Equal(t, 1, schedule.CapacityPenalty())
	assert.Equal(t, 180, schedule.CapacityOverflow(2, algorithmsLecture1))
	assert.Equal(t, 0, schedule.CapacityOverflow(3, algorithmsTutorial))
	assert.Equal(t, 1, schedule.TotalPenalty())
}

func TestEveningPenalty(t *testing.T) {
	schedule := newTestSchedule(t)
	evening := schedule.SlotIndex(2, DefaultLayout.EveningTimeslot(), DefaultLayout.EveningHall)

	require.True(t, schedule.AddActivity(evening, databasesLecture))

	assert.Equal(t, 5, schedule.EveningPenalty())
	assert.Equal(t, 0, schedule.CapacityPenalty())
	assert.Equal(t, 5, schedule.TotalPenalty())
}

func TestConflictPenalty(t *testing.T) {
	schedule := newTestSchedule(t)

	// Same day and timeslot in three different halls
	require.True(t, schedule.AddActivity(schedule.SlotIndex(0, 0, 0), heuristicsLecture))
	require.True(t, schedule.AddActivity(schedule.SlotIndex(0, 0, 1), databasesLecture))
	require.True(t, schedule.AddActivity(schedule.SlotIndex(0, 0, 3), heuristicsTutorial))
	// Another timeslot does not collide
	require.True(t, schedule.AddActivity(schedule.SlotIndex(0, 1, 3), heuristicsPractice))

	// Act
	breakdown := schedule.Breakdown()

	// Assert
	assert.Equal(t, 3, schedule.ConflictPenalty())
	assert.Equal(t, 3, breakdown.Conflict)
	assert.Equal(t, StudentPenalty{Points: 2, Slots: []int{1, 3}}, breakdown.Students[1])
	assert.Equal(t, StudentPenalty{Points: 1, Slots: []int{3}}, breakdown.Students[2])
	assert.NotContains(t, breakdown.Students, uint64(3))
	assert.Equal(t, 3, schedule.TotalPenalty())
}

func TestBreakdownMatchesTotal(t *testing.T) {
	schedule := newTestSchedule(t)
	require.True(t, schedule.AddActivity(28, algorithmsLecture1))
	require.True(t, schedule.AddActivity(2, algorithmsLecture2))
	require.True(t, schedule.AddActivity(3, databasesLecture))

	breakdown := schedule.Breakdown()

	assert.Equal(t, 2, breakdown.Capacity)
	assert.Equal(t, 5, breakdown.Evening)
	assert.Equal(t, 0, breakdown.Conflict)
	assert.Equal(t, 0, breakdown.Gap)
	assert.False(t, breakdown.GapEvaluated)
	assert.Equal(t, schedule.TotalPenalty(), breakdown.Total)
	assert.Equal(t, 6, breakdown.Slots[28])
	assert.Equal(t, 1, breakdown.Slots[2])
	assert.Equal(t, 0, breakdown.Slots[3])

	assert.Equal(t, []SlotPenalty{
		{Slot: 28, Activity: algorithmsLecture1, Penalty: 6},
		{Slot: 2, Activity: algorithmsLecture2, Penalty: 1},
	}, schedule.HighestPenalties(2))
	assert.Len(t, schedule.HighestPenalties(10), 3)
	assert.Empty(t, schedule.HighestPenalties(0))
	assert.Empty(t, schedule.HighestPenalties(-1))
}

func TestTotalPenaltyHasNoSideEffects(t *testing.T) {
	schedule := newTestSchedule(t)
	require.True(t, schedule.AddActivity(0, heuristicsLecture))
	require.True(t, schedule.AddActivity(1, heuristicsTutorial))

	first := schedule.TotalPenalty()
	second := schedule.TotalPenalty()

	assert.Equal(t, first, second)
	assert.Equal(t, first, schedule.Breakdown().Total)
}

func TestPenaltiesAreNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for range 50 {
		schedule := newTestSchedule(t)
		for _, activity := range schedule.Activities() {
			index, err := schedule.RandomIndex(rng, true)
			require.NoError(t, err)
			require.True(t, schedule.AddActivity(index, activity))
		}

		breakdown := schedule.Breakdown()
		assert.GreaterOrEqual(t, breakdown.Capacity, 0)
		assert.GreaterOrEqual(t, breakdown.Evening, 0)
		assert.GreaterOrEqual(t, breakdown.Conflict, 0)
		assert.Equal(t, 0, breakdown.Gap)
		assert.GreaterOrEqual(t, schedule.TotalPenalty(), 0)
		assert.True(t, schedule.IsSolution())
	}
}

func TestCapacityLowerBound(t *testing.T) {
	schedule := newTestSchedule(t)

	bound, err := schedule.CapacityLowerBound()

	// Both lectures of 200 students exceed every hall
	assert.NoError(t, err)
	assert.Equal(t, 2, bound)
}
