package csvio

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
)

type ScheduleRow struct {
	Slot         int    `csv:"slot"`
	Day          int    `csv:"day"`
	Timeslot     int    `csv:"timeslot"`
	Hall         int    `csv:"hall"`
	HallName     string `csv:"hall_name"`
	Course       string `csv:"course"`
	Activity     string `csv:"activity"`
	Capacity     int    `csv:"capacity"`
	HallCapacity int    `csv:"hall_capacity"`
	Participants int    `csv:"participants"`
	Penalty      int    `csv:"penalty"`
}

// ScheduleRows lists the occupied slots of the schedule in slot order
func ScheduleRows(schedule *model.Schedule) []*ScheduleRow {
	breakdown := schedule.Breakdown()

	rows := make([]*ScheduleRow, 0)
	for index, activity := range schedule.Solution() {
		if activity.IsEmpty() {
			continue
		}
		day, timeslot, hall := schedule.TranslateIndex(index)
		rows = append(rows, &ScheduleRow{
			Slot:         index,
			Day:          day,
			Timeslot:     timeslot,
			Hall:         hall,
			HallName:     schedule.HallName(index),
			Course:       activity.Course,
			Activity:     activity.Category,
			Capacity:     schedule.ActivityCapacity(activity),
			HallCapacity: schedule.HallCapacity(index),
			Participants: len(schedule.Participants(activity)),
			Penalty:      breakdown.Slots[index],
		})
	}
	return rows
}

func ExportSchedule(schedule *model.Schedule, out io.Writer) error {
	rows := ScheduleRows(schedule)
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("cannot write schedule: %w", err)
	}
	return nil
}

// ExportScheduleFile writes the schedule to path, replacing any previous content
func ExportScheduleFile(schedule *model.Schedule, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create schedule file: %w", err)
	}
	defer out.Close()

	return ExportSchedule(schedule, out)
}
