package models

import "time"

// Course is an imported course-catalog row. Courses are global, not owned by
// any user; they are refreshed by the admin import command.
type Course struct {
	ID       int64      `json:"id"`
	CourseID int        `json:"courseId"`
	Subject  string     `json:"subject"`
	Number   string     `json:"courseNumber"`
	Title    string     `json:"title"`
	ExamType string     `json:"examType"`
	ExamTime *time.Time `json:"examTime,omitempty"`
}
