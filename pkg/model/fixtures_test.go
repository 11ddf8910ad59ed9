package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	heuristicsLecture  = Activity{Course: "Heuristieken 1", Category: "lecture 1"}
	heuristicsTutorial = Activity{Course: "Heuristieken 1", Category: "tutorial 1"}
	heuristicsPractice = Activity{Course: "Heuristieken 1", Category: "practical 1"}
	algorithmsLecture1 = Activity{Course: "Algoritmen en complexiteit", Category: "lecture 1"}
	algorithmsLecture2 = Activity{Course: "Algoritmen en complexiteit", Category: "lecture 2"}
	algorithmsTutorial = Activity{Course: "Algoritmen en complexiteit", Category: "tutorial 1"}
	databasesLecture   = Activity{Course: "Databases 2", Category: "lecture 1"}
)

func testRawInput() RawModelInput {
	return RawModelInput{
		Courses: []RawCourse{
			{Name: "Heuristieken 1", Lectures: 1, Tutorials: 1, TutorialCapacity: 25, Practicals: 1, PracticalCapacity: 25},
			{Name: "Algoritmen en complexiteit", Lectures: 2, Tutorials: 1, TutorialCapacity: 20, Expected: 200},
			{Name: "Databases 2", Lectures: 1, Expected: 10},
		},
		Students: []Student{
			{Id: 1, Name: "Yanick Abbing", Courses: []string{"Heuristieken 1", "Databases 2"}},
			{Id: 2, Name: "Rutger Ahmed", Courses: []string{"Heuristieken 1", "Algoritmen en complexiteit"}},
			{Id: 3, Name: "Lisa Appelman", Courses: []string{"Algoritmen en complexiteit"}},
		},
		Halls: []Hall{
			{Id: 0, Name: "A1.04", Capacity: 41},
			{Id: 1, Name: "A1.06", Capacity: 22},
			{Id: 2, Name: "A1.08", Capacity: 20},
			{Id: 3, Name: "A1.10", Capacity: 56},
			{Id: 4, Name: "B0.201", Capacity: 48},
			{Id: 5, Name: "C0.110", Capacity: 117},
			{Id: 6, Name: "C1.112", Capacity: 60},
		},
	}
}

func newTestSchedule(t *testing.T) *Schedule {
	t.Helper()
	input, err := ProcessRawInput(testRawInput())
	require.NoError(t, err)

	schedule, err := NewSchedule(&input, DefaultLayout)
	require.NoError(t, err)
	return schedule
}
