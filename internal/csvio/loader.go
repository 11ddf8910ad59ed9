package csvio

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/heuristic-timetabling/pkg/model"
	"github.com/samber/lo"
)

type courseRow struct {
	Course            string `csv:"course"`
	Lectures          uint64 `csv:"lectures"`
	Tutorials         uint64 `csv:"tutorials"`
	TutorialCapacity  int    `csv:"tutorial_capacity"`
	Practicals        uint64 `csv:"practicals"`
	PracticalCapacity int    `csv:"practical_capacity"`
	Expected          int    `csv:"expected"`
}

type studentRow struct {
	Id      uint64 `csv:"student_id"`
	Name    string `csv:"name"`
	Course1 string `csv:"course1"`
	Course2 string `csv:"course2"`
	Course3 string `csv:"course3"`
	Course4 string `csv:"course4"`
	Course5 string `csv:"course5"`
}

// Halls are identified by their position in the file
type hallRow struct {
	Hall     string `csv:"hall"`
	Capacity int    `csv:"capacity"`
}

// Paths locates the three files of a CSV catalog
type Paths struct {
	Courses  string
	Students string
	Halls    string
}

// LoadCatalog reads the course, student and hall files and validates them as a whole
func LoadCatalog(paths Paths) (model.ModelInput, error) {
	files := make([]*os.File, 0, 3)
	defer func() {
		for _, file := range files {
			file.Close()
		}
	}()

	for _, path := range []string{paths.Courses, paths.Students, paths.Halls} {
		file, err := os.Open(path)
		if err != nil {
			return model.ModelInput{}, fmt.Errorf("cannot open catalog file: %w", err)
		}
		files = append(files, file)
	}

	return ReadCatalog(files[0], files[1], files[2])
}

func ReadCatalog(courses, students, halls io.Reader) (model.ModelInput, error) {
	var courseRows []courseRow
	if err := gocsv.Unmarshal(courses, &courseRows); err != nil {
		return model.ModelInput{}, fmt.Errorf("cannot parse courses: %w", err)
	}
	var studentRows []studentRow
	if err := gocsv.Unmarshal(students, &studentRows); err != nil {
		return model.ModelInput{}, fmt.Errorf("cannot parse students: %w", err)
	}
	var hallRows []hallRow
	if err := gocsv.Unmarshal(halls, &hallRows); err != nil {
		return model.ModelInput{}, fmt.Errorf("cannot parse halls: %w", err)
	}

	rawInput := model.RawModelInput{
		Courses: lo.Map(courseRows, func(row courseRow, _ int) model.RawCourse {
			return model.RawCourse{
				Name:              row.Course,
				Lectures:          row.Lectures,
				Tutorials:         row.Tutorials,
				TutorialCapacity:  row.TutorialCapacity,
				Practicals:        row.Practicals,
				PracticalCapacity: row.PracticalCapacity,
				Expected:          row.Expected,
			}
		}),
		Students: lo.Map(studentRows, func(row studentRow, _ int) model.Student {
			return model.Student{
				Id:      row.Id,
				Name:    row.Name,
				Courses: lo.Compact([]string{row.Course1, row.Course2, row.Course3, row.Course4, row.Course5}),
			}
		}),
		Halls: lo.Map(hallRows, func(row hallRow, i int) model.Hall {
			return model.Hall{Id: uint64(i), Name: row.Hall, Capacity: row.Capacity}
		}),
	}

	return model.ProcessRawInput(rawInput)
}
