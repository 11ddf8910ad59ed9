package search

import (
	"math"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"go.uber.org/zap"
)

type Parameters struct {
	Iterations int  // Neighbors evaluated in every run
	Runs       int  // Independent runs, the best one is kept
	Verbose    bool // Log the penalty decomposition of every accepted neighbor
}

var DefaultParameters = Parameters{
	Iterations: 10000,
	Runs:       1,
}

type localSearch struct {
	name         string
	acceptance   Acceptance
	parameters   Parameters
	dependencies Dependencies
}

// NewLocalSearch drives the search with an arbitrary acceptance policy.
// Every iteration swaps the content of two random slots in a copy of the current schedule
func NewLocalSearch(name string, acceptance Acceptance, parameters Parameters, dependencies Dependencies) Improver {
	return &localSearch{
		name:         name,
		acceptance:   acceptance,
		parameters:   parameters,
		dependencies: dependencies.withDefaults(),
	}
}

// NewHillClimber keeps every neighbor that is not worse than the current schedule
func NewHillClimber(parameters Parameters, dependencies Dependencies) Improver {
	return NewLocalSearch("hillclimber", NewHillClimbingAcceptance(), parameters, dependencies)
}

// NewSimulatedAnnealing also keeps worse neighbors, with a probability that shrinks as the temperature cools down
func NewSimulatedAnnealing(temperature float64, parameters Parameters, dependencies Dependencies) Improver {
	dependencies = dependencies.withDefaults()
	return NewLocalSearch("annealing", NewAnnealingAcceptance(temperature, dependencies.Rng), parameters, dependencies)
}

func (search *localSearch) Name() string {
	return search.name
}

func (search *localSearch) Run(schedule *model.Schedule) (Result, error) {
	return search.improve(func() (*model.Schedule, error) {
		return schedule, nil
	})
}

func (search *localSearch) RunFresh(constructor Constructor) (Result, error) {
	return search.improve(constructor.Run)
}

func (search *localSearch) improve(start func() (*model.Schedule, error)) (Result, error) {
	runs := max(search.parameters.Runs, 1)
	result := Result{
		Penalty: math.MaxInt,
		Starts:  make([]int, 0, runs),
		Runs:    make([]int, 0, runs),
	}

	for run := range runs {
		schedule, err := start()
		if err != nil {
			return Result{}, err
		} else if !schedule.IsSolution() {
			return Result{}, ErrIncompleteSchedule
		}

		result.Starts = append(result.Starts, schedule.TotalPenalty())
		current, penalty, accepted := search.run(run, schedule.Copy())
		result.Runs = append(result.Runs, penalty)
		result.Accepted += accepted

		if penalty < result.Penalty {
			result.Schedule, result.Penalty = current, penalty
		}
	}

	result.Breakdown = result.Schedule.Breakdown()
	search.dependencies.Logger.Info("improvement finished",
		zap.String("algorithm", search.name),
		zap.Int("runs", runs),
		zap.Int("penalty", result.Penalty),
		zap.Ints("run_penalties", result.Runs),
	)
	return result, nil
}

func (search *localSearch) run(run int, current *model.Schedule) (*model.Schedule, int, int) {
	logger := search.dependencies.Logger.With(zap.String("algorithm", search.name), zap.Int("run", run))
	penalty := current.TotalPenalty()
	logger.Info("run started", zap.Int("penalty", penalty), zap.Int("iterations", search.parameters.Iterations))

	search.acceptance.Reset(search.parameters.Iterations)
	accepted := 0
	for range search.parameters.Iterations {
		neighbor, err := search.neighbor(current)
		if err != nil {
			logger.Warn("cannot generate neighbor", zap.Error(err))
			break
		}

		value := neighbor.TotalPenalty()
		if search.acceptance.Accept(value, penalty) {
			current, penalty = neighbor, value
			accepted++

			if search.parameters.Verbose {
				logger.Debug("neighbor accepted",
					zap.Int("penalty", penalty),
					zap.Int("capacity", current.CapacityPenalty()),
					zap.Int("evening", current.EveningPenalty()),
					zap.Int("conflict", current.ConflictPenalty()),
				)
			}
			search.dependencies.Observer.Iteration(search.name, true, penalty)
		} else {
			search.dependencies.Observer.Iteration(search.name, false, penalty)
		}
	}

	logger.Info("run finished", zap.Int("penalty", penalty), zap.Int("accepted", accepted))
	return current, penalty, accepted
}

// neighbor swaps the content of two distinct random slots in a copy of the schedule
func (search *localSearch) neighbor(schedule *model.Schedule) (*model.Schedule, error) {
	index1, err := schedule.RandomIndex(search.dependencies.Rng, false)
	if err != nil {
		return nil, err
	}
	index2, err := schedule.RandomIndex(search.dependencies.Rng, false)
	if err != nil {
		return nil, err
	}
	for index2 == index1 && schedule.Slots() > 1 {
		if index2, err = schedule.RandomIndex(search.dependencies.Rng, false); err != nil {
			return nil, err
		}
	}

	neighbor := schedule.Copy()
	neighbor.SwapActivities(index1, index2)
	return neighbor, nil
}
