package search

import (
	"math"
	"math/rand"
)

// minimumTemperature keeps the Metropolis exponent finite once linear cooling reaches zero
const minimumTemperature = 1e-9

// Acceptance decides whether a neighbor replaces the current schedule
type Acceptance interface {
	// Prepares the policy for a run of the given number of iterations
	Reset(iterations int)
	// Returns whether a neighbor scoring newValue replaces a current schedule scoring oldValue
	Accept(newValue, oldValue int) bool
}

type hillClimbingAcceptance struct{}

// NewHillClimbingAcceptance accepts every neighbor that is not worse than the current schedule
func NewHillClimbingAcceptance() Acceptance {
	return hillClimbingAcceptance{}
}

func (hillClimbingAcceptance) Reset(int) {}

func (hillClimbingAcceptance) Accept(newValue, oldValue int) bool {
	return newValue <= oldValue
}

type annealingAcceptance struct {
	rng                *rand.Rand
	initialTemperature float64
	temperature        float64
	iterations         int
}

// NewAnnealingAcceptance accepts a neighbor with probability e^(-delta/T) and cools T linearly after every decision,
// reaching zero at the end of the run. Temperatures are never below minimumTemperature
func NewAnnealingAcceptance(temperature float64, rng *rand.Rand) Acceptance {
	temperature = max(temperature, minimumTemperature)
	return &annealingAcceptance{
		rng:                rng,
		initialTemperature: temperature,
		temperature:        temperature,
	}
}

func (a *annealingAcceptance) Reset(iterations int) {
	a.temperature = max(a.initialTemperature, minimumTemperature)
	a.iterations = iterations
}

func (a *annealingAcceptance) Accept(newValue, oldValue int) bool {
	delta := float64(newValue - oldValue)
	probability := math.Exp(-delta / a.temperature)

	accepted := a.rng.Float64() < probability
	a.updateTemperature()
	return accepted
}

// updateTemperature implements a linear cooling scheme
func (a *annealingAcceptance) updateTemperature() {
	if a.iterations > 0 {
		a.temperature -= a.initialTemperature / float64(a.iterations)
	}
	a.temperature = max(a.temperature, minimumTemperature)
}

func (a *annealingAcceptance) Temperature() float64 {
	return a.temperature
}
