package model

import "fmt"

// Activity identifies one teachable session by its course and category (e.g. "lecture 1").
// It's a value type, so it can be compared and used as a map key directly
type Activity struct {
	Course   string
	Category string
}

// Empty is the sentinel stored in unassigned slots
var Empty = Activity{}

func (activity Activity) IsEmpty() bool {
	return activity == Empty
}

func (activity Activity) String() string {
	if activity.IsEmpty() {
		return "-"
	}
	return fmt.Sprintf("%v~%v", activity.Course, activity.Category)
}
