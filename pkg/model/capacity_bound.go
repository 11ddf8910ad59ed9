package model

import (
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// CapacityLowerBound returns the minimum capacity penalty any complete schedule of the catalog must pay.
// Activities are matched to slots whose hall can hold them; every activity left out of a maximum matching
// has to be placed in a hall that is too small
func (s *Schedule) CapacityLowerBound() (int, error) {
	activities := s.activities
	slots := lo.Range(len(s.solution))

	// Build neighbors predicate based on capacities
	neighbors := func(activityAny any, slotAny any) (bool, error) {
		activity := activityAny.(Activity)
		slot := slotAny.(int)

		return s.ActivityCapacity(activity) <= s.HallCapacity(slot), nil
	}

	// Transform activities and slots to slices of any
	activitiesAny, slotsAny := lo.Map(activities, func(activity Activity, _ int) any { return activity }), lo.Map(slots, func(slot int, _ int) any { return slot })

	graph, err := bipartitegraph.NewBipartiteGraph(activitiesAny, slotsAny, neighbors)
	if err != nil {
		return 0, err
	}

	matching := graph.LargestMatching()
	return (len(activities) - len(matching)) * CapacityPenaltyPoints, nil
}
