package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const (
	LectureCategory   = "lecture"
	TutorialCategory  = "tutorial"
	PracticalCategory = "practical"
)

type RawCourse struct {
	Name              string
	Lectures          uint64
	Tutorials         uint64
	TutorialCapacity  int
	Practicals        uint64
	PracticalCapacity int
	Expected          int // Expected number of students, used as lecture capacity (falls back to the enrolled count when zero)
}

type RawModelInput struct {
	Courses  []RawCourse
	Students []Student
	Halls    []Hall
}

type ActivityDefinition struct {
	Category string
	Capacity int
}

type Course struct {
	Id         uint64
	Name       string
	Activities []ActivityDefinition
	Students   []uint64
}

type Student struct {
	Id      uint64
	Name    string
	Courses []string
}

type Hall struct {
	Id       uint64
	Name     string
	Capacity int
}

// ModelInput is the read-only catalog shared by every schedule built from it
type ModelInput struct {
	Courses  map[string]Course
	Students map[uint64]Student
	Halls    []Hall // Halls[i].Id == i
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var rawInput RawModelInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input file: %w", err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	input := ModelInput{
		Courses:  make(map[string]Course, len(rawInput.Courses)),
		Students: make(map[uint64]Student, len(rawInput.Students)),
		Halls:    make([]Hall, 0, len(rawInput.Halls)),
	}

	//** Manage halls
	for i, hall := range rawInput.Halls {
		if hall.Id != uint64(i) {
			return ModelInput{}, fmt.Errorf("hall \"%v\" has id %d but is at position %d", hall.Name, hall.Id, i)
		}
		if hall.Capacity < 0 {
			return ModelInput{}, fmt.Errorf("hall \"%v\" has a negative capacity", hall.Name)
		}
		input.Halls = append(input.Halls, hall)
	}

	//** Manage students
	enrolled := make(map[string][]uint64)
	for _, student := range rawInput.Students {
		if _, ok := input.Students[student.Id]; ok {
			return ModelInput{}, fmt.Errorf("duplicate student %d", student.Id)
		}
		student.Courses = lo.Uniq(lo.Compact(student.Courses))
		for _, course := range student.Courses {
			enrolled[course] = append(enrolled[course], student.Id)
		}
		input.Students[student.Id] = student
	}

	//** Manage courses
	for i, rawCourse := range rawInput.Courses {
		if _, ok := input.Courses[rawCourse.Name]; ok {
			return ModelInput{}, fmt.Errorf("duplicate course \"%v\"", rawCourse.Name)
		}

		students := enrolled[rawCourse.Name]
		slices.Sort(students)

		lectureCapacity := rawCourse.Expected
		if lectureCapacity == 0 {
			lectureCapacity = len(students)
		}

		activities := make([]ActivityDefinition, 0, rawCourse.Lectures+rawCourse.Tutorials+rawCourse.Practicals)
		activities = appendDefinitions(activities, LectureCategory, rawCourse.Lectures, lectureCapacity)
		activities = appendDefinitions(activities, TutorialCategory, rawCourse.Tutorials, rawCourse.TutorialCapacity)
		activities = appendDefinitions(activities, PracticalCategory, rawCourse.Practicals, rawCourse.PracticalCapacity)

		input.Courses[rawCourse.Name] = Course{
			Id:         uint64(i),
			Name:       rawCourse.Name,
			Activities: activities,
			Students:   students,
		}
	}

	// Make sure every enrollment refers to a known course
	for course, students := range enrolled {
		if _, ok := input.Courses[course]; !ok {
			return ModelInput{}, fmt.Errorf("student %d is enrolled in unknown course \"%v\"", students[0], course)
		}
	}

	return input, nil
}

func appendDefinitions(activities []ActivityDefinition, category string, count uint64, capacity int) []ActivityDefinition {
	for i := range count {
		activities = append(activities, ActivityDefinition{
			Category: fmt.Sprintf("%v %d", category, i+1),
			Capacity: capacity,
		})
	}
	return activities
}

// Activities returns every activity defined by the catalog, ordered by course id and then by declaration order
func (input *ModelInput) Activities() []Activity {
	courses := lo.Values(input.Courses)
	slices.SortFunc(courses, func(a, b Course) int {
		if a.Id < b.Id {
			return -1
		} else if a.Id > b.Id {
			return 1
		}
		return 0
	})

	return lo.FlatMap(courses, func(course Course, _ int) []Activity {
		return lo.Map(course.Activities, func(definition ActivityDefinition, _ int) Activity {
			return Activity{Course: course.Name, Category: definition.Category}
		})
	})
}

func (input *ModelInput) definition(activity Activity) (ActivityDefinition, bool) {
	course, ok := input.Courses[activity.Course]
	if !ok {
		return ActivityDefinition{}, false
	}
	return lo.Find(course.Activities, func(definition ActivityDefinition) bool {
		return definition.Category == activity.Category
	})
}

func (input *ModelInput) enrolled(student uint64, course string) bool {
	c, ok := input.Courses[course]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(c.Students, student)
	return found
}
