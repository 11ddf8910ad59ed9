package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/alecthomas/kong"
	"github.com/gocarina/gocsv"
	"github.com/limaJavier/heuristic-timetabling/internal/config"
	"github.com/limaJavier/heuristic-timetabling/internal/logger"
	"github.com/limaJavier/heuristic-timetabling/internal/pipeline"
	"github.com/limaJavier/heuristic-timetabling/internal/runlog"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var (
	constructives = []string{"random", "greedy", "randomgreedy"}
	improvements  = []string{pipeline.NoImprovement, "hillclimber", "annealing"}
)

type Combination struct {
	Constructive string
	Improvement  string
}

type BenchmarkResult struct {
	Constructive        string  `csv:"constructive"`
	Improvement         string  `csv:"improvement"`
	Repetition          int     `csv:"repetition"`
	Seed                int64   `csv:"seed"`
	ConstructivePenalty int     `csv:"constructive_penalty"`
	Penalty             int     `csv:"penalty"`
	Capacity            int     `csv:"capacity"`
	Evening             int     `csv:"evening"`
	Conflict            int     `csv:"conflict"`
	Accepted            int     `csv:"accepted"`
	Duration            float64 `csv:"duration_ms"`
}

type Summary struct {
	Combination
	Best  int
	Worst int
	Mean  float64
	Std   float64
}

type Options struct {
	Config      string `help:"Configuration file, the algorithm sections are overridden by every combination." type:"path" short:"c"`
	Data        string `help:"JSON catalog." type:"path"`
	Repetitions int    `help:"Runs of every combination." default:"10"`
	Iterations  int    `help:"Neighbors evaluated by every improvement run, taken from the configuration when unset."`
	Out         string `help:"CSV file with one row per run." default:"benchmark_results.csv" type:"path"`
	Runlog      string `help:"Also record every run in this SQLite run log."`
}

var CLI Options

// overrides collects the flags that were set explicitly, so the configuration file keeps the rest
func (options Options) overrides() map[string]any {
	overrides := make(map[string]any)
	if options.Iterations != 0 {
		overrides["improvement.iterations"] = options.Iterations
	}
	if options.Data != "" {
		overrides["data.format"] = "json"
		overrides["data.json"] = options.Data
	}
	return overrides
}

func main() {
	ctx := kong.Parse(&CLI, kong.Name("benchmark"), kong.UsageOnError())

	cfg, err := config.Load(CLI.Config, CLI.overrides())
	ctx.FatalIfErrorf(err)

	log, err := logger.New(cfg.Log)
	ctx.FatalIfErrorf(err)
	defer log.Sync()

	input, err := pipeline.LoadInput(cfg.Data)
	ctx.FatalIfErrorf(err)

	var store runlog.Store
	if CLI.Runlog != "" {
		sqlStore, err := runlog.Open(context.Background(), CLI.Runlog)
		ctx.FatalIfErrorf(err)
		defer sqlStore.Close()
		store = sqlStore
	}

	results := make([]BenchmarkResult, 0, len(constructives)*len(improvements)*CLI.Repetitions)
	for _, combination := range combinations() {
		for repetition := range CLI.Repetitions {
			log.Info("benchmarking",
				zap.String("constructive", combination.Constructive),
				zap.String("improvement", combination.Improvement),
				zap.Int("repetition", repetition),
			)

			result, run, err := measure(cfg, &input, combination, repetition, log)
			ctx.FatalIfErrorf(err)
			results = append(results, result)

			if store != nil {
				ctx.FatalIfErrorf(store.Record(context.Background(), run))
			}
		}
	}

	ctx.FatalIfErrorf(toCsv(results, CLI.Out))
	for _, summary := range summarize(results) {
		fmt.Printf("%-12v %-11v best %4d  worst %4d  mean %8.2f  std %7.2f\n",
			summary.Constructive, summary.Improvement, summary.Best, summary.Worst, summary.Mean, summary.Std)
	}
}

func combinations() []Combination {
	return lo.FlatMap(constructives, func(constructive string, _ int) []Combination {
		return lo.Map(improvements, func(improvement string, _ int) Combination {
			return Combination{Constructive: constructive, Improvement: improvement}
		})
	})
}

// measure runs a single repetition of the combination. Repetitions are seeded by their position so they can be replayed
func measure(base *config.Config, input *model.ModelInput, combination Combination, repetition int, log *zap.Logger) (BenchmarkResult, *runlog.Run, error) {
	cfg := *base
	cfg.Constructive.Algorithm = combination.Constructive
	cfg.Constructive.Shuffle = true
	cfg.Improvement.Algorithm = combination.Improvement

	seed := pipeline.Seed(base.Seed) + int64(repetition)
	outcome, err := pipeline.Execute(&cfg, input, seed, log, nil)
	if err != nil {
		return BenchmarkResult{}, nil, err
	}

	result := outcome.Result
	return BenchmarkResult{
		Constructive:        combination.Constructive,
		Improvement:         combination.Improvement,
		Repetition:          repetition,
		Seed:                seed,
		ConstructivePenalty: outcome.ConstructivePenalty,
		Penalty:             result.Penalty,
		Capacity:            result.Breakdown.Capacity,
		Evening:             result.Breakdown.Evening,
		Conflict:            result.Breakdown.Conflict,
		Accepted:            result.Accepted,
		Duration:            float64(outcome.Duration.Microseconds()) / 1000,
	}, outcome.Run(&cfg), nil
}

// summarize aggregates the penalties of every combination, keeping the order in which combinations first appear
func summarize(results []BenchmarkResult) []Summary {
	penalties := make(map[Combination][]int)
	order := make([]Combination, 0)
	for _, result := range results {
		combination := Combination{Constructive: result.Constructive, Improvement: result.Improvement}
		if _, ok := penalties[combination]; !ok {
			order = append(order, combination)
		}
		penalties[combination] = append(penalties[combination], result.Penalty)
	}

	return lo.Map(order, func(combination Combination, _ int) Summary {
		values := penalties[combination]
		mean := float64(lo.Sum(values)) / float64(len(values))
		variance := lo.SumBy(values, func(value int) float64 {
			return (float64(value) - mean) * (float64(value) - mean)
		}) / float64(len(values))

		return Summary{
			Combination: combination,
			Best:        slices.Min(values),
			Worst:       slices.Max(values),
			Mean:        mean,
			Std:         math.Sqrt(variance),
		}
	})
}

func toCsv(results []BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create CSV file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&results, file); err != nil {
		return fmt.Errorf("cannot write CSV file: %w", err)
	}
	return nil
}
