package main

import (
	"fmt"

	"github.com/limaJavier/heuristic-timetabling/internal/pipeline"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
)

type BoundCmd struct{}

func (cmd *BoundCmd) Run(ctx *Context) error {
	input, err := pipeline.LoadInput(ctx.Config.Data)
	if err != nil {
		return fmt.Errorf("cannot load catalog: %w", err)
	}
	schedule, err := model.NewSchedule(&input, pipeline.Layout(ctx.Config.Layout))
	if err != nil {
		return err
	}

	bound, err := schedule.CapacityLowerBound()
	if err != nil {
		return err
	}
	fmt.Printf("Activities: %d, slots: %d\n", len(schedule.Activities()), schedule.Slots())
	fmt.Printf("Capacity penalty lower bound: %d\n", bound)
	return nil
}
