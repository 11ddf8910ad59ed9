package search

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomRun(t *testing.T) {
	// Arrange
	input := courseLoadInput(t)
	empty := newEmptySchedule(t, input, model.DefaultLayout)
	observer := &recordingObserver{}
	constructor := NewRandom(empty, Dependencies{Rng: rand.New(rand.NewSource(13)), Observer: observer})

	for range 20 {
		// Act
		schedule, err := constructor.Run()

		// Assert
		require.NoError(t, err)
		assert.True(t, schedule.IsSolution())
		capacity, evening, conflict := referencePenalty(schedule)
		assert.Equal(t, capacity+evening+conflict, schedule.TotalPenalty())
		assert.Empty(t, schedule.UnplacedActivities())
	}

	assert.Equal(t, "random", constructor.Name())
	assert.Equal(t, 20*len(input.Activities()), observer.placements)
	assert.Len(t, empty.EmptySlots(), empty.Slots(), "the empty schedule is left untouched")
}

func TestRandomIgnoresCapacity(t *testing.T) {
	// Halls of 20 seats only, so the oversized activity can't fit anywhere and is placed anyway
	halls := testHalls()
	for i := range halls {
		halls[i].Capacity = 20
	}
	input := threeActivityInput(t, halls)

	schedule, err := NewRandom(newEmptySchedule(t, input, model.DefaultLayout), Dependencies{Rng: rand.New(rand.NewSource(2))}).Run()

	require.NoError(t, err)
	assert.True(t, schedule.IsSolution())
	assert.Equal(t, 1, schedule.CapacityPenalty())
}

func TestRandomNotEnoughSlots(t *testing.T) {
	input := threeActivityInput(t, testHalls())

	_, err := NewRandom(newEmptySchedule(t, input, model.Layout{Days: 1, Timeslots: 1, Halls: 1, EveningHall: 0}), Dependencies{}).Run()

	assert.True(t, errors.Is(err, model.ErrNoEmptySlot))
}
