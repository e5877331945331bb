package model

import "time"

// EventKind classifies notification events.
type EventKind string

const (
	EventOrderCreated    EventKind = "order.created"
	EventOrderAccepted   EventKind = "order.accepted"
	EventOrderRejected   EventKind = "order.rejected"
	EventOrderCompleted  EventKind = "order.completed"
	EventOrderExpired    EventKind = "order.expired"
	EventProgressUpdated EventKind = "progress.updated"
)

// Event is an immutable record describing a committed state change.
// Status fields are set for lifecycle events, milestone fields for progress events.
type Event struct {
	ID             string      `json:"id"`
	Kind           EventKind   `json:"kind"`
	OrderID        int64       `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
	NewStatus      OrderStatus `json:"new_status,omitempty"`
	Milestone      string      `json:"milestone,omitempty"`
	Completed      *bool       `json:"completed,omitempty"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
