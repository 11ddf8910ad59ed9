package search

import (
	"errors"
	"math/rand"
	"time"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"go.uber.org/zap"
)

var ErrIncompleteSchedule = errors.New("schedule must have every activity placed exactly once")

// Observer is notified of every placement made by a constructor and of every move evaluated by an improver
type Observer interface {
	Placed(algorithm string, activity model.Activity, slot, penalty int)
	Iteration(algorithm string, accepted bool, penalty int)
}

// Dependencies are shared by every algorithm. Zero values are replaced by a time-seeded generator, a no-op logger and a no-op observer
type Dependencies struct {
	Rng      *rand.Rand
	Logger   *zap.Logger
	Observer Observer
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Rng == nil {
		dependencies.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Observer == nil {
		dependencies.Observer = noopObserver{}
	}
	return dependencies
}

type noopObserver struct{}

func (noopObserver) Placed(string, model.Activity, int, int) {}

func (noopObserver) Iteration(string, bool, int) {}

// Constructor builds a complete schedule from an empty one. Every call to Run starts over from the empty schedule
type Constructor interface {
	Name() string
	Run() (*model.Schedule, error)
}

// Improver perturbs a complete schedule to reduce its penalty
type Improver interface {
	Name() string
	// Run repeats the search from the given schedule and keeps the best result across runs
	Run(schedule *model.Schedule) (Result, error)
	// RunFresh builds a new starting schedule with the constructor before every run
	RunFresh(constructor Constructor) (Result, error)
}

type Result struct {
	Schedule  *model.Schedule
	Penalty   int
	Breakdown model.Breakdown
	Starts    []int // Penalty of the schedule every run started from
	Runs      []int // Final penalty of every run
	Accepted  int   // Accepted moves across every run
}
