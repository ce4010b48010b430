package models

import (
	"encoding/json"
	"time"
)

// ActionType enumerates the recorded user actions.
type ActionType string

const (
	ActionCheck   ActionType = "check"
	ActionUncheck ActionType = "uncheck"
	ActionAdd     ActionType = "add"
	ActionDelete  ActionType = "delete"
)

// Action is an analytics event recorded alongside task mutations.
// ExtraData carries action-specific context (e.g. the task id) as JSON.
type Action struct {
	ID        int64
	UserID    string
	Type      ActionType
	ExtraData json.RawMessage
	Time      time.Time
}

// Point is a derived analytics record: one point awarded per action during
// a summarization run.
type Point struct {
	ID       int64
	ActionID int64
	UserID   string
	Value    int
	Time     time.Time
}
