package repository

import (
	"context"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// StatusChange carries the field set applied by a conditional lifecycle write.
// AcceptedAt is only non-nil on the transition into ACCEPTED.
type StatusChange struct {
	Status     model.OrderStatus
	IsAccepted bool
	AcceptedAt *time.Time
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error)
	ListByProducer(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error)
	ListPendingAcceptance(ctx context.Context, producerID int64, now time.Time, limit int, cursor int64) ([]model.Order, error)
	SelectExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error)
	ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error)
	// UpdateStatusCAS applies change only if the stored version still equals
	// expectedVersion, bumping the version on success. A version mismatch on an
	// existing order yields ErrConcurrentModification.
	UpdateStatusCAS(ctx context.Context, orderID, expectedVersion int64, change StatusChange) (*model.Order, error)
}
