package dto

import "time"

// MilestoneRequest toggles a single milestone flag.
type MilestoneRequest struct {
	Milestone string `json:"milestone" binding:"required"`
	Completed bool   `json:"completed"`
}

// ProgressResponse represents an order's milestone map.
type ProgressResponse struct {
	OrderID    int64           `json:"order_id"`
	Milestones map[string]bool `json:"milestones"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// SweepResponse reports the outcome of one sweep pass.
type SweepResponse struct {
	OrdersExpired int `json:"orders_expired"`
}
