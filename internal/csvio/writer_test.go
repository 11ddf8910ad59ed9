package csvio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchedule(t *testing.T) *model.Schedule {
	t.Helper()
	input := readTestCatalog(t)
	schedule, err := model.NewSchedule(&input, model.DefaultLayout)
	require.NoError(t, err)

	// Slot 2 is A1.08 (20 seats) on Monday morning, slot 28 is Monday evening in C0.110
	require.True(t, schedule.AddActivity(2, model.Activity{Course: "Advanced Heuristics", Category: "lecture 1"}))
	require.True(t, schedule.AddActivity(28, model.Activity{Course: "Bioinformatica", Category: "tutorial 1"}))
	return schedule
}

func TestExportSchedule(t *testing.T) {
	// Arrange
	schedule := testSchedule(t)
	var out bytes.Buffer

	// Act
	err := ExportSchedule(schedule, &out)

	// Assert
	require.NoError(t, err)
	header, _, _ := strings.Cut(out.String(), "\n")
	assert.Equal(t, "slot,day,timeslot,hall,hall_name,course,activity,capacity,hall_capacity,participants,penalty", header)

	var rows []*ScheduleRow
	require.NoError(t, gocsv.UnmarshalString(out.String(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, ScheduleRow{
		Slot: 2, Day: 0, Timeslot: 0, Hall: 2, HallName: "A1.08",
		Course: "Advanced Heuristics", Activity: "lecture 1",
		Capacity: 22, HallCapacity: 20, Participants: 1, Penalty: model.CapacityPenaltyPoints,
	}, *rows[0])
	assert.Equal(t, ScheduleRow{
		Slot: 28, Day: 0, Timeslot: 4, Hall: 5, HallName: "C0.110",
		Course: "Bioinformatica", Activity: "tutorial 1",
		Capacity: 20, HallCapacity: 117, Participants: 2, Penalty: model.EveningPenaltyPoints,
	}, *rows[1])
}

func TestExportScheduleFile(t *testing.T) {
	schedule := testSchedule(t)
	path := filepath.Join(t.TempDir(), "schedule.csv")

	require.NoError(t, ExportScheduleFile(schedule, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(content), "\n"))
}
