package dto

import "time"

// CreateOrderRequest is the payload for placing a commission. The customer
// identity comes from the bearer token, not the body.
type CreateOrderRequest struct {
	ProducerID  int64             `json:"producer_id" binding:"required"`
	Price       float64           `json:"price"`
	Description string            `json:"description"`
	PaymentRef  *string           `json:"payment_ref,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// TransitionRequest asks for a lifecycle action. When Version is omitted the
// server reloads the order and retries a bounded number of times on version
// conflicts; a pinned version is applied exactly once.
type TransitionRequest struct {
	Action  string `json:"action" binding:"required"`
	Version *int64 `json:"version,omitempty"`
}

// OrderResponse represents an order on the wire.
type OrderResponse struct {
	ID                 int64             `json:"id"`
	Number             string            `json:"number"`
	CustomerID         int64             `json:"customer_id"`
	ProducerID         int64             `json:"producer_id"`
	Price              float64           `json:"price"`
	Description        string            `json:"description,omitempty"`
	PaymentRef         *string           `json:"payment_ref,omitempty"`
	Attributes         map[string]string `json:"attributes,omitempty"`
	Status             string            `json:"status"`
	IsAccepted         bool              `json:"is_accepted"`
	AcceptanceDeadline time.Time         `json:"acceptance_deadline"`
	AcceptedAt         *time.Time        `json:"accepted_at,omitempty"`
	Version            int64             `json:"version"`
	CreatedAt          time.Time         `json:"created_at"`
}

// OrderListResponse carries one page of orders with a continuation cursor.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor *int64          `json:"next_cursor,omitempty"`
}

// ProducerSummaryResponse aggregates producer dashboard figures.
type ProducerSummaryResponse struct {
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// ErrorResponse carries a machine-readable failure code so clients can tell
// causes apart instead of collapsing everything into one generic failure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
