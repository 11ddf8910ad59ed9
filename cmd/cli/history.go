package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/limaJavier/heuristic-timetabling/internal/runlog"
	"github.com/samber/lo"
)

type HistoryCmd struct {
	Limit int `help:"Number of recent runs to show." default:"10"`
}

func (cmd *HistoryCmd) Run(ctx *Context) error {
	if ctx.Config.Runlog.Path == "" {
		return errors.New("no run log configured, set runlog.path or --runlog")
	}

	store, err := runlog.Open(context.Background(), ctx.Config.Runlog.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return showHistory(context.Background(), store, cmd.Limit)
}

func showHistory(ctx context.Context, store runlog.Store, limit int) error {
	summaries, err := store.Summaries(ctx)
	if err != nil {
		return err
	}
	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CONSTRUCTIVE\tIMPROVEMENT\tRUNS\tBEST\tMEAN")
	for _, summary := range summaries {
		fmt.Fprintf(writer, "%v\t%v\t%d\t%d\t%.1f\n", summary.Constructive, summary.Improvement, summary.Runs, summary.Best, summary.Mean)
	}
	fmt.Fprintln(writer)

	fmt.Fprintln(writer, "ID\tCREATED\tCONSTRUCTIVE\tIMPROVEMENT\tSEED\tPENALTY\tDURATION(ms)")
	for _, run := range runs {
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\t%d\t%d\t%d\n", lo.Substring(run.ID, 0, 8), run.CreatedAt.Format("2006-01-02 15:04"), run.Constructive, run.Improvement, run.Seed, run.Penalty, run.DurationMs)
	}
	return writer.Flush()
}
