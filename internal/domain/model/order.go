package model

import "time"

// OrderStatus describes commission lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAccepted  OrderStatus = "ACCEPTED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// Terminal reports whether no transition is defined out of the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRejected || s == OrderStatusCompleted
}

// TransitionAction names a lifecycle transition request.
type TransitionAction string

const (
	ActionAccept   TransitionAction = "ACCEPT"
	ActionReject   TransitionAction = "REJECT"
	ActionComplete TransitionAction = "COMPLETE"
	ActionExpire   TransitionAction = "EXPIRE"
)

// Order describes a made-to-order commission between a customer and a producer.
type Order struct {
	ID                 int64
	Number             string
	CustomerID         int64
	ProducerID         int64
	Price              float64
	Description        string
	PaymentRef         *string
	Attributes         map[string]string
	Status             OrderStatus
	IsAccepted         bool
	AcceptanceDeadline time.Time
	AcceptedAt         *time.Time
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProducerSummary aggregates order counts and completed revenue for a producer.
type ProducerSummary struct {
	TotalOrders     int64
	PendingOrders   int64
	CompletedOrders int64
	TotalRevenue    float64
}
