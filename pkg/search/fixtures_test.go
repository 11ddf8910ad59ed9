package search

import (
	"math/rand"
	"testing"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/stretchr/testify/require"
)

var (
	oversized = model.Activity{Course: "Collegezaal", Category: "lecture 1"}
	smallB    = model.Activity{Course: "Werkgroep B", Category: "lecture 1"}
	smallC    = model.Activity{Course: "Werkgroep C", Category: "lecture 1"}
)

func testHalls() []model.Hall {
	return []model.Hall{
		{Id: 0, Name: "A1.04", Capacity: 41},
		{Id: 1, Name: "A1.06", Capacity: 22},
		{Id: 2, Name: "A1.08", Capacity: 20},
		{Id: 3, Name: "A1.10", Capacity: 56},
		{Id: 4, Name: "B0.201", Capacity: 48},
		{Id: 5, Name: "C0.110", Capacity: 117},
		{Id: 6, Name: "C1.112", Capacity: 60},
	}
}

// threeActivityInput defines an activity that exceeds every hall and two that fit anywhere, followed by disjoint students
func threeActivityInput(t *testing.T, halls []model.Hall) *model.ModelInput {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawModelInput{
		Courses: []model.RawCourse{
			{Name: "Collegezaal", Lectures: 1, Expected: 500},
			{Name: "Werkgroep B", Lectures: 1, Expected: 10},
			{Name: "Werkgroep C", Lectures: 1, Expected: 10},
		},
		Students: []model.Student{
			{Id: 1, Courses: []string{"Collegezaal"}},
			{Id: 2, Courses: []string{"Werkgroep B"}},
			{Id: 3, Courses: []string{"Werkgroep C"}},
		},
		Halls: halls,
	})
	require.NoError(t, err)
	return &input
}

// courseLoadInput defines a catalog where students share several courses, so conflicts matter
func courseLoadInput(t *testing.T) *model.ModelInput {
	t.Helper()
	courses := []model.RawCourse{
		{Name: "Advanced Heuristics", Lectures: 1, Practicals: 1, PracticalCapacity: 10},
		{Name: "Algoritmen en complexiteit", Lectures: 2, Tutorials: 1, TutorialCapacity: 25},
		{Name: "Analysemethoden en -technieken", Lectures: 1, Tutorials: 1, TutorialCapacity: 40},
		{Name: "Architectuur en computerorganisatie", Lectures: 2},
		{Name: "Autonomous Agents 2", Lectures: 2, Tutorials: 1, TutorialCapacity: 15, Practicals: 1, PracticalCapacity: 15},
		{Name: "Bioinformatica", Lectures: 3, Tutorials: 1, TutorialCapacity: 20, Practicals: 1, PracticalCapacity: 20},
		{Name: "Calculus 2", Lectures: 1, Tutorials: 1, TutorialCapacity: 40},
		{Name: "Collectieve Intelligentie", Lectures: 2, Tutorials: 1, TutorialCapacity: 20, Practicals: 1, PracticalCapacity: 20, Expected: 160},
	}
	names := make([]string, len(courses))
	for i, course := range courses {
		names[i] = course.Name
	}

	rng := rand.New(rand.NewSource(11))
	students := make([]model.Student, 0, 60)
	for id := range 60 {
		taken := rng.Perm(len(names))[:3]
		student := model.Student{Id: uint64(id)}
		for _, course := range taken {
			student.Courses = append(student.Courses, names[course])
		}
		students = append(students, student)
	}

	input, err := model.ProcessRawInput(model.RawModelInput{Courses: courses, Students: students, Halls: testHalls()})
	require.NoError(t, err)
	return &input
}

func newEmptySchedule(t *testing.T, input *model.ModelInput, layout model.Layout) *model.Schedule {
	t.Helper()
	schedule, err := model.NewSchedule(input, layout)
	require.NoError(t, err)
	return schedule
}

// referencePenalty scores a schedule straight from the catalog, without going through the schedule's penalty code
func referencePenalty(schedule *model.Schedule) (capacity, evening, conflict int) {
	input, layout := schedule.Input(), schedule.Layout()
	perDay := layout.Timeslots*layout.Halls + 1

	type attendance struct {
		student       uint64
		day, timeslot int
	}
	seen := make(map[attendance]bool)

	for index, activity := range schedule.Solution() {
		if activity.IsEmpty() {
			continue
		}

		day, offset := index/perDay, index%perDay
		timeslot, hall := offset/layout.Halls, offset%layout.Halls
		if offset == layout.Timeslots*layout.Halls {
			timeslot, hall = layout.Timeslots, layout.EveningHall
			evening += 5
		}

		course := input.Courses[activity.Course]
		for _, definition := range course.Activities {
			if definition.Category == activity.Category && definition.Capacity > input.Halls[hall].Capacity {
				capacity++
			}
		}

		for _, student := range course.Students {
			key := attendance{student, day, timeslot}
			if seen[key] {
				conflict++
			}
			seen[key] = true
		}
	}
	return capacity, evening, conflict
}

type recordedIteration struct {
	algorithm string
	accepted  bool
	penalty   int
}

type recordingObserver struct {
	placements int
	iterations []recordedIteration
}

func (observer *recordingObserver) Placed(string, model.Activity, int, int) {
	observer.placements++
}

func (observer *recordingObserver) Iteration(algorithm string, accepted bool, penalty int) {
	observer.iterations = append(observer.iterations, recordedIteration{algorithm, accepted, penalty})
}
