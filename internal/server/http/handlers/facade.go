package handlers

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/usecase"
)

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, params usecase.CreateOrderParams) (*model.Order, error)
	Order(ctx context.Context, orderID int64) (*model.Order, error)
	CustomerOrders(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error)
	ProducerOrders(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error)
	PendingAcceptance(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error)
	ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error)
	Transition(ctx context.Context, orderID, version int64, action model.TransitionAction) (*model.Order, error)
	TransitionLatest(ctx context.Context, orderID int64, action model.TransitionAction) (*model.Order, error)
}

// ProgressFacade provides milestone tracking operations.
type ProgressFacade interface {
	SetMilestone(ctx context.Context, orderID int64, name string, completed bool) (*model.ProgressState, error)
	Progress(ctx context.Context, orderID int64) (*model.ProgressState, error)
}

// CommissionFacade aggregates the full set of operations used across handlers.
type CommissionFacade interface {
	OrderFacade
	ProgressFacade
}
