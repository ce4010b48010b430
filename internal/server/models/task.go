package models

import "time"

// NoTagID is the reserved tag reference meaning "no tag". It is stored as a
// real value, distinct from NULL, so that repointing after a tag delete never
// produces dangling references.
const NoTagID int64 = -1

// Task is a unit of work with a time window. A task with ParentTaskID set is
// a subtask of that task. Order is unique per user; Deleted marks a soft
// delete.
type Task struct {
	ID           int64     `json:"task_id"`
	UserID       string    `json:"user_id"`
	Content      string    `json:"content"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	TagID        int64     `json:"tag_id"`
	ParentTaskID *int64    `json:"parent_task"`
	Order        int       `json:"_order"`
	Completed    bool      `json:"completed"`
	InFocus      bool      `json:"in_focus"`
	Deleted      bool      `json:"deleted"`
	TimeCreated  time.Time `json:"time_created"`
	TimeModified time.Time `json:"time_modified"`
}
