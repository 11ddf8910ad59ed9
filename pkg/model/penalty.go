package model

import (
	"slices"
)

const (
	CapacityPenaltyPoints = 1 // Charged once per slot whose hall is too small, regardless of the excess
	EveningPenaltyPoints  = 5
	ConflictPenaltyPoints = 1
)

// Breakdown decomposes the penalty of a schedule. It's computed on demand and never cached by the schedule
type Breakdown struct {
	Capacity int
	Evening  int
	Conflict int
	Gap      int
	Total    int

	// GapEvaluated is false while gap penalties are not computed, so a zero Gap must not be read as "no gaps"
	GapEvaluated bool

	Slots    map[int]int               // Capacity and evening points charged to each slot
	Students map[uint64]StudentPenalty // Conflict points charged to each student
}

type StudentPenalty struct {
	Points int
	Slots  []int // Slots whose activity collides with an earlier activity of the student
}

type SlotPenalty struct {
	Slot     int
	Activity Activity
	Penalty  int
}

// TotalPenalty scores the schedule from scratch. It has no side effects
func (s *Schedule) TotalPenalty() int {
	return s.CapacityPenalty() + s.EveningPenalty() + s.ConflictPenalty() + s.GapPenalty()
}

// CapacityPenalty counts the occupied slots whose hall cannot hold the activity's capacity
func (s *Schedule) CapacityPenalty() int {
	points := 0
	for index, activity := range s.solution {
		points += s.SlotCapacityPenalty(index, activity)
	}
	return points
}

// SlotCapacityPenalty is a flag rather than a per-student count: an activity exceeding the hall is charged a single point
func (s *Schedule) SlotCapacityPenalty(index int, activity Activity) int {
	if activity.IsEmpty() {
		return 0
	}
	if s.ActivityCapacity(activity) > s.HallCapacity(index) {
		return CapacityPenaltyPoints
	}
	return 0
}

// EveningPenalty charges every activity placed in the evening timeslot
func (s *Schedule) EveningPenalty() int {
	points := 0
	for index, activity := range s.solution {
		points += s.slotEveningPenalty(index, activity)
	}
	return points
}

func (s *Schedule) slotEveningPenalty(index int, activity Activity) int {
	if activity.IsEmpty() {
		return 0
	}
	if _, timeslot, _ := s.indexer.Attributes(index); timeslot == s.layout.EveningTimeslot() {
		return EveningPenaltyPoints
	}
	return 0
}

// ConflictPenalty charges a student once for every activity scheduled on a day and timeslot they already attend
func (s *Schedule) ConflictPenalty() int {
	return s.walkConflicts(nil)
}

// GapPenalty is a placeholder for idle time between a student's activities and always returns zero
func (s *Schedule) GapPenalty() int {
	return 0
}

// walkConflicts visits the slots in ascending order and reports every student whose day-timeslot pair is already used
func (s *Schedule) walkConflicts(visit func(student uint64, index int)) int {
	periods := (s.layout.Timeslots + 1) * s.layout.Days
	used := make(map[uint64][]bool)

	points := 0
	for index, activity := range s.solution {
		if activity.IsEmpty() {
			continue
		}
		day, timeslot, _ := s.indexer.Attributes(index)
		period := timeslot*s.layout.Days + day

		for student := range s.participants[activity] {
			studentUsed, ok := used[student]
			if !ok {
				studentUsed = make([]bool, periods)
				used[student] = studentUsed
			}

			if studentUsed[period] {
				points += ConflictPenaltyPoints
				if visit != nil {
					visit(student, index)
				}
				continue
			}
			studentUsed[period] = true
		}
	}

	return points
}

// Breakdown computes every penalty component together with the per-slot and per-student projections
func (s *Schedule) Breakdown() Breakdown {
	breakdown := Breakdown{
		Slots:    make(map[int]int),
		Students: make(map[uint64]StudentPenalty),
	}

	for index, activity := range s.solution {
		capacity, evening := s.SlotCapacityPenalty(index, activity), s.slotEveningPenalty(index, activity)
		breakdown.Capacity += capacity
		breakdown.Evening += evening
		breakdown.Slots[index] = capacity + evening
	}

	breakdown.Conflict = s.walkConflicts(func(student uint64, index int) {
		penalty := breakdown.Students[student]
		penalty.Points += ConflictPenaltyPoints
		penalty.Slots = append(penalty.Slots, index)
		breakdown.Students[student] = penalty
	})

	breakdown.Gap = s.GapPenalty()
	breakdown.Total = breakdown.Capacity + breakdown.Evening + breakdown.Conflict + breakdown.Gap
	return breakdown
}

// HighestPenalties returns the n occupied slots charged with the most capacity and evening points, highest first
func (s *Schedule) HighestPenalties(n int) []SlotPenalty {
	if n <= 0 {
		return []SlotPenalty{}
	}
	breakdown := s.Breakdown()

	penalties := make([]SlotPenalty, 0, len(breakdown.Slots))
	for index, penalty := range breakdown.Slots {
		if s.solution[index].IsEmpty() {
			continue
		}
		penalties = append(penalties, SlotPenalty{Slot: index, Activity: s.solution[index], Penalty: penalty})
	}

	slices.SortFunc(penalties, func(a, b SlotPenalty) int {
		if a.Penalty != b.Penalty {
			return b.Penalty - a.Penalty
		}
		return a.Slot - b.Slot
	})

	return penalties[:min(n, len(penalties))]
}
