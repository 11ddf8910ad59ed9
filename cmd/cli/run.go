package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/limaJavier/heuristic-timetabling/internal/csvio"
	"github.com/limaJavier/heuristic-timetabling/internal/metrics"
	"github.com/limaJavier/heuristic-timetabling/internal/pipeline"
	"github.com/limaJavier/heuristic-timetabling/internal/runlog"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/limaJavier/heuristic-timetabling/pkg/search"
	"go.uber.org/zap"
)

type RunCmd struct {
	Constructive string  `help:"Constructive algorithm: random, greedy or randomgreedy."`
	Improvement  string  `help:"Improvement algorithm: none, hillclimber or annealing."`
	Shuffle      bool    `help:"Place activities in random order."`
	Iterations   int     `help:"Neighbors evaluated in every improvement run."`
	Runs         int     `help:"Improvement runs, the best one is kept."`
	Temperature  float64 `help:"Initial annealing temperature."`
	Output       string  `help:"Write the schedule as CSV to this file." type:"path" short:"o"`
	Print        bool    `help:"Print the schedule grouped by day."`
	Worst        int     `help:"Print the slots with the highest penalties."`
	Verbose      bool    `help:"Log every accepted improvement."`
}

func (cmd *RunCmd) overrides(overrides map[string]any) {
	if cmd.Constructive != "" {
		overrides["constructive.algorithm"] = cmd.Constructive
	}
	if cmd.Improvement != "" {
		overrides["improvement.algorithm"] = cmd.Improvement
	}
	if cmd.Shuffle {
		overrides["constructive.shuffle"] = true
	}
	if cmd.Iterations != 0 {
		overrides["improvement.iterations"] = cmd.Iterations
	}
	if cmd.Runs != 0 {
		overrides["improvement.runs"] = cmd.Runs
	}
	if cmd.Temperature != 0 {
		overrides["improvement.temperature"] = cmd.Temperature
	}
	if cmd.Output != "" {
		overrides["data.output"] = cmd.Output
	}
	if cmd.Verbose {
		overrides["improvement.verbose"] = true
		overrides["log.level"] = "debug"
	}
}

func (cmd *RunCmd) Run(ctx *Context) error {
	cfg, log := ctx.Config, ctx.Logger

	input, err := pipeline.LoadInput(cfg.Data)
	if err != nil {
		return fmt.Errorf("cannot load catalog: %w", err)
	}

	var observer search.Observer
	var collector *metrics.Collector
	if cfg.Metrics.Addr != "" {
		collector = metrics.NewCollector()
		observer = collector

		server := serveMetrics(cfg.Metrics.Addr, collector, log)
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdown)
		}()
	}

	seed := pipeline.Seed(cfg.Seed)
	outcome, err := pipeline.Execute(cfg, &input, seed, log, observer)
	if err != nil {
		return err
	}

	result := outcome.Result
	if collector != nil {
		collector.Best(outcome.Constructive, outcome.ConstructivePenalty)
		if outcome.Improvement != pipeline.NoImprovement {
			collector.Best(outcome.Improvement, result.Penalty)
		}
	}

	log.Info("timetable built",
		zap.String("constructive", outcome.Constructive),
		zap.String("improvement", outcome.Improvement),
		zap.Int64("seed", seed),
		zap.Int("constructive_penalty", outcome.ConstructivePenalty),
		zap.Int("penalty", result.Penalty),
		zap.Duration("duration", outcome.Duration),
	)

	if cfg.Runlog.Path != "" {
		if err := record(cfg.Runlog.Path, outcome.Run(cfg)); err != nil {
			return err
		}
	}

	if cfg.Data.Output != "" {
		if err := csvio.ExportScheduleFile(result.Schedule, cfg.Data.Output); err != nil {
			return err
		}
	}

	if cmd.Print {
		printSchedule(result.Schedule)
	}
	printBreakdown(result.Breakdown)
	if cmd.Worst > 0 {
		printHighestPenalties(result.Schedule, cmd.Worst)
	}
	return nil
}

func serveMetrics(addr string, collector *metrics.Collector, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return server
}

func record(path string, run *runlog.Run) error {
	store, err := runlog.Open(context.Background(), path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Record(context.Background(), run)
}

func printSchedule(schedule *model.Schedule) {
	layout := schedule.Layout()
	for day := range layout.Days {
		fmt.Println(Days[day])
		for index := day * layout.SlotsPerDay(); index < (day+1)*layout.SlotsPerDay(); index++ {
			activity := schedule.Activity(index)
			if activity.IsEmpty() {
				continue
			}
			_, timeslot, _ := schedule.TranslateIndex(index)
			fmt.Printf("  %d  %-8v  %v (%d students)\n", timeslot, schedule.HallName(index), activity, len(schedule.Participants(activity)))
		}
	}
}

func printBreakdown(breakdown model.Breakdown) {
	fmt.Printf("Penalty: %d (capacity %d, evening %d, conflict %d)\n", breakdown.Total, breakdown.Capacity, breakdown.Evening, breakdown.Conflict)
	if !breakdown.GapEvaluated {
		fmt.Println("Gap penalties are not evaluated")
	}
}

func printHighestPenalties(schedule *model.Schedule, n int) {
	for _, penalty := range schedule.HighestPenalties(n) {
		fmt.Printf("  slot %3d  %-8v  %v: %d\n", penalty.Slot, schedule.HallName(penalty.Slot), penalty.Activity, penalty.Penalty)
	}
}
