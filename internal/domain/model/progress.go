package model

import "time"

// ProgressState holds named milestone completion flags for a single order.
// Milestone names are an open set; the tracker never interprets them.
type ProgressState struct {
	OrderID    int64
	Milestones map[string]bool
	UpdatedAt  time.Time
}
