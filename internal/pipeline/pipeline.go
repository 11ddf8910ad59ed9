package pipeline

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/limaJavier/heuristic-timetabling/internal/config"
	"github.com/limaJavier/heuristic-timetabling/internal/csvio"
	"github.com/limaJavier/heuristic-timetabling/internal/runlog"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/limaJavier/heuristic-timetabling/pkg/search"
	"go.uber.org/zap"
)

const NoImprovement = "none"

// Outcome is the schedule produced by a constructive algorithm followed by an optional improvement
type Outcome struct {
	Constructive        string
	Improvement         string
	Seed                int64
	ConstructivePenalty int // Best starting penalty when every improvement run builds a fresh start
	Result              search.Result
	Duration            time.Duration
}

func LoadInput(cfg config.DataConfig) (model.ModelInput, error) {
	switch cfg.Format {
	case "json":
		return model.InputFromJson(cfg.Json)
	case "csv":
		return csvio.LoadCatalog(csvio.Paths{Courses: cfg.Courses, Students: cfg.Students, Halls: cfg.Halls})
	default:
		return model.ModelInput{}, fmt.Errorf("unknown data format \"%v\"", cfg.Format)
	}
}

func Layout(cfg config.LayoutConfig) model.Layout {
	return model.Layout{
		Days:        cfg.Days,
		Timeslots:   cfg.Timeslots,
		Halls:       cfg.Halls,
		EveningHall: cfg.EveningHall,
	}
}

// Seed returns the configured seed, or a clock based one when it's zero
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func NewConstructor(cfg config.ConstructiveConfig, empty *model.Schedule, dependencies search.Dependencies) (search.Constructor, error) {
	switch cfg.Algorithm {
	case "random":
		return search.NewRandom(empty, dependencies), nil
	case "greedy":
		return search.NewGreedy(empty, cfg.Shuffle, dependencies), nil
	case "randomgreedy":
		return search.NewRandomGreedy(empty, cfg.Shuffle, search.RandomGreedyParameters{
			Start:       cfg.Start,
			Alpha:       cfg.Alpha,
			MaxOverflow: cfg.MaxOverflow,
			MaxAttempts: cfg.MaxAttempts,
		}, dependencies), nil
	default:
		return nil, fmt.Errorf("unknown constructive algorithm \"%v\"", cfg.Algorithm)
	}
}

// NewImprover returns nil when no improvement is configured
func NewImprover(cfg config.ImprovementConfig, dependencies search.Dependencies) (search.Improver, error) {
	parameters := search.Parameters{Iterations: cfg.Iterations, Runs: cfg.Runs, Verbose: cfg.Verbose}

	switch cfg.Algorithm {
	case NoImprovement:
		return nil, nil
	case "hillclimber":
		return search.NewHillClimber(parameters, dependencies), nil
	case "annealing":
		return search.NewSimulatedAnnealing(cfg.Temperature, parameters, dependencies), nil
	default:
		return nil, fmt.Errorf("unknown improvement algorithm \"%v\"", cfg.Algorithm)
	}
}

// Execute builds a schedule for the catalog and improves it as configured
func Execute(cfg *config.Config, input *model.ModelInput, seed int64, logger *zap.Logger, observer search.Observer) (Outcome, error) {
	empty, err := model.NewSchedule(input, Layout(cfg.Layout))
	if err != nil {
		return Outcome{}, err
	}

	dependencies := search.Dependencies{
		Rng:      rand.New(rand.NewSource(seed)),
		Logger:   logger,
		Observer: observer,
	}

	constructor, err := NewConstructor(cfg.Constructive, empty, dependencies)
	if err != nil {
		return Outcome{}, err
	}
	improver, err := NewImprover(cfg.Improvement, dependencies)
	if err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{
		Constructive: constructor.Name(),
		Improvement:  NoImprovement,
		Seed:         seed,
	}

	start := time.Now()
	if improver != nil && cfg.Improvement.Fresh {
		// Every run builds its own start, so no schedule is constructed up front
		outcome.Improvement = improver.Name()
		if outcome.Result, err = improver.RunFresh(constructor); err != nil {
			return Outcome{}, fmt.Errorf("%v failed: %w", improver.Name(), err)
		}
		outcome.ConstructivePenalty = slices.Min(outcome.Result.Starts)
		outcome.Duration = time.Since(start)
		return outcome, nil
	}

	schedule, err := constructor.Run()
	if err != nil {
		return Outcome{}, fmt.Errorf("%v failed: %w", constructor.Name(), err)
	}
	outcome.ConstructivePenalty = schedule.TotalPenalty()

	if improver == nil {
		outcome.Result = search.Result{
			Schedule:  schedule,
			Penalty:   outcome.ConstructivePenalty,
			Breakdown: schedule.Breakdown(),
			Starts:    []int{outcome.ConstructivePenalty},
			Runs:      []int{outcome.ConstructivePenalty},
		}
	} else {
		outcome.Improvement = improver.Name()
		if outcome.Result, err = improver.Run(schedule); err != nil {
			return Outcome{}, fmt.Errorf("%v failed: %w", improver.Name(), err)
		}
	}
	outcome.Duration = time.Since(start)

	return outcome, nil
}

// Run converts the outcome into a run log entry
func (outcome Outcome) Run(cfg *config.Config) *runlog.Run {
	iterations := 0
	if outcome.Improvement != NoImprovement {
		iterations = cfg.Improvement.Iterations
	}

	return &runlog.Run{
		Constructive: outcome.Constructive,
		Improvement:  outcome.Improvement,
		Seed:         outcome.Seed,
		Penalty:      outcome.Result.Penalty,
		Capacity:     outcome.Result.Breakdown.Capacity,
		Evening:      outcome.Result.Breakdown.Evening,
		Conflict:     outcome.Result.Breakdown.Conflict,
		Iterations:   iterations,
		Runs:         len(outcome.Result.Runs),
		DurationMs:   outcome.Duration.Milliseconds(),
	}
}
