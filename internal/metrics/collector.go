package metrics

import (
	"net/http"
	"strings"

	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records the progress of the search algorithms. It satisfies search.Observer
type Collector struct {
	registry   *prometheus.Registry
	handler    http.Handler
	placements *prometheus.CounterVec
	iterations *prometheus.CounterVec
	penalty    *prometheus.GaugeVec
	best       *prometheus.GaugeVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_placements_total",
		Help: "Activities placed by constructive algorithms",
	}, []string{"algorithm", "category"})

	iterations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_iterations_total",
		Help: "Neighbors evaluated by improvement algorithms",
	}, []string{"algorithm", "outcome"})

	penalty := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timetable_penalty",
		Help: "Penalty of the schedule currently held by each algorithm",
	}, []string{"algorithm"})

	best := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "timetable_best_penalty",
		Help: "Lowest penalty reached by each algorithm",
	}, []string{"algorithm"})

	registry.MustRegister(placements, iterations, penalty, best)

	return &Collector{
		registry:   registry,
		handler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		placements: placements,
		iterations: iterations,
		penalty:    penalty,
		best:       best,
	}
}

func (c *Collector) Handler() http.Handler {
	return c.handler
}

func (c *Collector) Placed(algorithm string, activity model.Activity, _, penalty int) {
	c.placements.WithLabelValues(algorithm, category(activity)).Inc()
	c.penalty.WithLabelValues(algorithm).Set(float64(penalty))
}

func (c *Collector) Iteration(algorithm string, accepted bool, penalty int) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	c.iterations.WithLabelValues(algorithm, outcome).Inc()
	c.penalty.WithLabelValues(algorithm).Set(float64(penalty))
}

// Best publishes the final penalty of a finished algorithm
func (c *Collector) Best(algorithm string, penalty int) {
	c.best.WithLabelValues(algorithm).Set(float64(penalty))
}

// category drops the ordinal of the activity label, "tutorial 2" is counted as "tutorial"
func category(activity model.Activity) string {
	for _, known := range []string{model.LectureCategory, model.TutorialCategory, model.PracticalCategory} {
		if strings.HasPrefix(activity.Category, known) {
			return known
		}
	}
	return "other"
}
