package models

import "time"

// Tag is a user-defined label used to group tasks. A tag may represent a
// class, in which case ClassID points at the parent class tag. Order is
// unique per user; Deleted marks a soft delete.
type Tag struct {
	ID           int64     `json:"tag_id"`
	UserID       string    `json:"user_id"`
	ClassID      *int64    `json:"class_id,omitempty"`
	Name         string    `json:"tag_name"`
	Color        string    `json:"color"`
	Order        int       `json:"_order"`
	Deleted      bool      `json:"deleted"`
	TimeCreated  time.Time `json:"time_created"`
	TimeModified time.Time `json:"time_modified"`
}
