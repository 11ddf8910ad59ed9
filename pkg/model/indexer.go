package model

import "log"

// Layout describes the weekly grid. Every day has Timeslots*Halls regular slots plus a single evening slot,
// which is the only member of timeslot Timeslots and always takes place in EveningHall
type Layout struct {
	Days        int
	Timeslots   int
	Halls       int
	EveningHall int
}

// DefaultLayout yields 5 * (4*7 + 1) = 145 slots
var DefaultLayout = Layout{
	Days:        5,
	Timeslots:   4,
	Halls:       7,
	EveningHall: 5,
}

func (layout Layout) SlotsPerDay() int {
	return layout.Timeslots*layout.Halls + 1
}

func (layout Layout) Slots() int {
	return layout.Days * layout.SlotsPerDay()
}

// EveningTimeslot is the index of the timeslot holding the evening slot
func (layout Layout) EveningTimeslot() int {
	return layout.Timeslots
}

// indexer gives a unique index to a (day, timeslot, hall) combination and vice versa
type indexer interface {
	// Returns the unique index of a day-timeslot-hall combination
	Index(day, timeslot, hall int) int
	// Returns the day-timeslot-hall combination of a unique index
	Attributes(index int) (day, timeslot, hall int)
}

func newIndexer(layout Layout) indexer {
	return &indexerImplementation{layout: layout}
}

type indexerImplementation struct {
	layout Layout
}

func (indexer *indexerImplementation) Index(day, timeslot, hall int) int {
	layout := indexer.layout
	if day < 0 || day >= layout.Days || hall < 0 || hall >= layout.Halls {
		log.Panicf("day %d and hall %d must be inside the layout %+v", day, hall, layout)
	}

	if timeslot == layout.EveningTimeslot() {
		if hall != layout.EveningHall {
			log.Panicf("evening timeslot is only available in hall %d, not in hall %d", layout.EveningHall, hall)
		}
		return day*layout.SlotsPerDay() + layout.Timeslots*layout.Halls
	} else if timeslot < 0 || timeslot > layout.EveningTimeslot() {
		log.Panicf("timeslot %d must be inside the layout %+v", timeslot, layout)
	}

	return day*layout.SlotsPerDay() + timeslot*layout.Halls + hall
}

func (indexer *indexerImplementation) Attributes(index int) (day, timeslot, hall int) {
	layout := indexer.layout
	day = index / layout.SlotsPerDay()
	offset := index % layout.SlotsPerDay()

	// Evening slot exception
	if offset == layout.Timeslots*layout.Halls {
		return day, layout.EveningTimeslot(), layout.EveningHall
	}

	return day, offset / layout.Halls, offset % layout.Halls
}
