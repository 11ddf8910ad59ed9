package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/limaJavier/heuristic-timetabling/internal/config"
	"github.com/limaJavier/heuristic-timetabling/internal/logger"
	"go.uber.org/zap"
)

var Days = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

// Context is shared by every command
type Context struct {
	Config *config.Config
	Logger *zap.Logger
}

type CLI struct {
	Config string `help:"Configuration file (yaml, json or toml)." type:"path" short:"c"`

	Data   string `help:"JSON catalog, switches the data format to json." type:"path"`
	Seed   int64  `help:"Random seed, zero seeds from the clock."`
	Runlog string `help:"SQLite run log."`

	Run     RunCmd     `cmd:"" help:"Build and improve a timetable." default:"withargs"`
	History HistoryCmd `cmd:"" help:"Show recorded runs."`
	Bound   BoundCmd   `cmd:"" help:"Print the capacity penalty lower bound of the catalog."`
}

// overrides collects the global flags that were set explicitly
func (cli *CLI) overrides() map[string]any {
	overrides := make(map[string]any)
	if cli.Data != "" {
		overrides["data.format"] = "json"
		overrides["data.json"] = cli.Data
	}
	if cli.Seed != 0 {
		overrides["seed"] = cli.Seed
	}
	if cli.Runlog != "" {
		overrides["runlog.path"] = cli.Runlog
	}
	return overrides
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("timetable"),
		kong.Description("Heuristic university timetabling"),
		kong.UsageOnError(),
	)

	overrides := cli.overrides()
	if strings.HasPrefix(ctx.Command(), "run") {
		cli.Run.overrides(overrides)
	}

	cfg, err := config.Load(cli.Config, overrides)
	ctx.FatalIfErrorf(err)

	log, err := logger.New(cfg.Log)
	ctx.FatalIfErrorf(err)
	defer log.Sync()

	if err := ctx.Run(&Context{Config: cfg, Logger: log}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
