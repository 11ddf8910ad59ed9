package model

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"math/rand"
	"slices"

	"github.com/samber/lo"
)

var (
	ErrNoEmptySlot       = errors.New("no empty slot available")
	ErrActivityNotPlaced = errors.New("activity is not placed in the schedule")
)

// duplicatedActivityError is returned when an activity that must occupy a single slot is found in several
type duplicatedActivityError struct {
	activity Activity
	slots    []int
}

func (err duplicatedActivityError) Error() string {
	return fmt.Sprintf("activity %v occupies more than one slot: %v", err.activity, err.slots)
}

func IsDuplicatedActivity(err error) bool {
	var duplicated duplicatedActivityError
	return errors.As(err, &duplicated)
}

// Schedule assigns activities to slots and students to activities.
// The catalog is shared between copies, while the slot assignment and the participants are owned by each schedule
type Schedule struct {
	input        *ModelInput
	layout       Layout
	indexer      indexer
	solution     []Activity
	participants map[Activity]map[uint64]bool
	activities   []Activity // Every activity of the catalog in a stable order
}

// NewSchedule creates an empty schedule and enrolls every student into each activity of their courses
func NewSchedule(input *ModelInput, layout Layout) (*Schedule, error) {
	if layout.Days <= 0 || layout.Timeslots <= 0 || layout.Halls <= 0 {
		return nil, fmt.Errorf("layout dimensions must be positive: %+v", layout)
	} else if layout.EveningHall < 0 || layout.EveningHall >= layout.Halls {
		return nil, fmt.Errorf("evening hall %d is not part of the layout: %+v", layout.EveningHall, layout)
	} else if len(input.Halls) < layout.Halls {
		return nil, fmt.Errorf("layout requires %d halls but the catalog defines %d", layout.Halls, len(input.Halls))
	}

	schedule := &Schedule{
		input:        input,
		layout:       layout,
		indexer:      newIndexer(layout),
		solution:     make([]Activity, layout.Slots()),
		participants: make(map[Activity]map[uint64]bool),
		activities:   input.Activities(),
	}

	for _, activity := range schedule.activities {
		schedule.participants[activity] = make(map[uint64]bool)
		for _, student := range input.Courses[activity.Course].Students {
			schedule.AddStudent(student, activity)
		}
	}

	return schedule, nil
}

func (s *Schedule) Input() *ModelInput {
	return s.input
}

func (s *Schedule) Layout() Layout {
	return s.layout
}

func (s *Schedule) Slots() int {
	return len(s.solution)
}

// Activities returns every activity of the catalog, placed or not
func (s *Schedule) Activities() []Activity {
	return slices.Clone(s.activities)
}

// Solution returns a copy of the slot assignment, indexed by slot
func (s *Schedule) Solution() []Activity {
	return slices.Clone(s.solution)
}

// TranslateIndex returns the day, timeslot and hall a slot stands for
func (s *Schedule) TranslateIndex(index int) (day, timeslot, hall int) {
	s.checkIndex(index)
	return s.indexer.Attributes(index)
}

// SlotIndex is the inverse of TranslateIndex
func (s *Schedule) SlotIndex(day, timeslot, hall int) int {
	return s.indexer.Index(day, timeslot, hall)
}

func (s *Schedule) IsEmpty(index int) bool {
	s.checkIndex(index)
	return s.solution[index].IsEmpty()
}

func (s *Schedule) Activity(index int) Activity {
	s.checkIndex(index)
	return s.solution[index]
}

// EmptySlots returns the unoccupied slots in ascending order
func (s *Schedule) EmptySlots() []int {
	empty := make([]int, 0, len(s.solution))
	for index, activity := range s.solution {
		if activity.IsEmpty() {
			empty = append(empty, index)
		}
	}
	return empty
}

// UnplacedActivities returns the activities of the catalog that do not occupy any slot
func (s *Schedule) UnplacedActivities() []Activity {
	placed := lo.SliceToMap(s.solution, func(activity Activity) (Activity, bool) { return activity, true })
	return lo.Filter(s.activities, func(activity Activity, _ int) bool { return !placed[activity] })
}

// AddActivity places the activity at the slot if the slot is empty and the activity isn't placed elsewhere,
// otherwise it leaves the schedule untouched and returns false
func (s *Schedule) AddActivity(index int, activity Activity) bool {
	s.checkIndex(index)
	if activity.IsEmpty() || !s.solution[index].IsEmpty() || slices.Contains(s.solution, activity) {
		return false
	}
	s.solution[index] = activity
	return true
}

// RemoveActivity clears the slot holding the activity. It returns false if the activity is not placed exactly once
func (s *Schedule) RemoveActivity(activity Activity) bool {
	index, err := s.Index(activity)
	if err != nil {
		return false
	}
	s.solution[index] = Empty
	return true
}

// RemoveActivityAt clears the slot only if it stores the given activity
func (s *Schedule) RemoveActivityAt(activity Activity, index int) bool {
	s.checkIndex(index)
	if activity.IsEmpty() || s.solution[index] != activity {
		return false
	}
	s.solution[index] = Empty
	return true
}

// RemoveIndex clears the slot unconditionally
func (s *Schedule) RemoveIndex(index int) bool {
	s.checkIndex(index)
	s.solution[index] = Empty
	return true
}

// SwapActivities exchanges the content of two slots, whether they're occupied or not
func (s *Schedule) SwapActivities(index1, index2 int) {
	s.checkIndex(index1)
	s.checkIndex(index2)
	s.solution[index1], s.solution[index2] = s.solution[index2], s.solution[index1]
}

// RandomIndex samples a slot uniformly. If emptyOnly is set, occupied slots are rejected and resampled
func (s *Schedule) RandomIndex(rng *rand.Rand, emptyOnly bool) (int, error) {
	if !emptyOnly {
		return rng.Intn(len(s.solution)), nil
	}

	if !lo.ContainsBy(s.solution, Activity.IsEmpty) {
		return 0, ErrNoEmptySlot
	}
	for {
		index := rng.Intn(len(s.solution))
		if s.solution[index].IsEmpty() {
			return index, nil
		}
	}
}

// Index returns the slot holding the activity
func (s *Schedule) Index(activity Activity) (int, error) {
	slots := make([]int, 0, 1)
	for index, stored := range s.solution {
		if !activity.IsEmpty() && stored == activity {
			slots = append(slots, index)
		}
	}

	switch len(slots) {
	case 0:
		return 0, fmt.Errorf("%w: %v", ErrActivityNotPlaced, activity)
	case 1:
		return slots[0], nil
	default:
		return 0, duplicatedActivityError{activity: activity, slots: slots}
	}
}

func (s *Schedule) HallCapacity(index int) int {
	_, _, hall := s.TranslateIndex(index)
	return s.input.Halls[hall].Capacity
}

func (s *Schedule) HallName(index int) string {
	_, _, hall := s.TranslateIndex(index)
	return s.input.Halls[hall].Name
}

// ActivityCapacity returns the declared capacity of the activity, zero for the empty sentinel or an unknown activity
func (s *Schedule) ActivityCapacity(activity Activity) int {
	if activity.IsEmpty() {
		return 0
	}
	definition, ok := s.input.definition(activity)
	if !ok {
		return 0
	}
	return definition.Capacity
}

// CapacityOverflow returns how many students of the activity would not fit in the hall of the slot
func (s *Schedule) CapacityOverflow(index int, activity Activity) int {
	return max(0, s.ActivityCapacity(activity)-s.HallCapacity(index))
}

// Participants returns the students enrolled in the activity in ascending order
func (s *Schedule) Participants(activity Activity) []uint64 {
	students := slices.Collect(maps.Keys(s.participants[activity]))
	slices.Sort(students)
	return students
}

// AddStudent enrolls a student into an activity, provided they follow the course and aren't already enrolled
func (s *Schedule) AddStudent(student uint64, activity Activity) bool {
	members, ok := s.participants[activity]
	if !ok || members[student] || !s.input.enrolled(student, activity.Course) {
		return false
	}
	members[student] = true
	return true
}

func (s *Schedule) RemoveStudent(student uint64, activity Activity) bool {
	members, ok := s.participants[activity]
	if !ok || !members[student] {
		return false
	}
	delete(members, student)
	return true
}

// StudentActivities returns the placed activities the student takes part in, keyed by slot
func (s *Schedule) StudentActivities(student uint64) map[int]Activity {
	activities := make(map[int]Activity)
	for index, activity := range s.solution {
		if !activity.IsEmpty() && s.participants[activity][student] {
			activities[index] = activity
		}
	}
	return activities
}

// IsSolution checks that no activity occupies more than one slot and that every activity of the catalog has been placed
func (s *Schedule) IsSolution() bool {
	// Every student's activities must map to distinct slots
	for student := range s.input.Students {
		activities := lo.Values(s.StudentActivities(student))
		if len(lo.Uniq(activities)) != len(activities) {
			return false
		}
	}

	placed := lo.Uniq(lo.Reject(s.solution, func(activity Activity, _ int) bool { return activity.IsEmpty() }))
	if len(placed) != lo.CountBy(s.solution, func(activity Activity) bool { return !activity.IsEmpty() }) {
		return false
	}
	return len(placed) >= len(s.activities)
}

// Copy returns a schedule sharing the catalog but owning its slot assignment and participant sets
func (s *Schedule) Copy() *Schedule {
	participants := make(map[Activity]map[uint64]bool, len(s.participants))
	for activity, members := range s.participants {
		participants[activity] = maps.Clone(members)
	}

	return &Schedule{
		input:        s.input,
		layout:       s.layout,
		indexer:      s.indexer,
		solution:     slices.Clone(s.solution),
		participants: participants,
		activities:   s.activities,
	}
}

func (s *Schedule) checkIndex(index int) {
	if index < 0 || index >= len(s.solution) {
		log.Panicf("slot %d is out of range [0, %d)", index, len(s.solution))
	}
}
