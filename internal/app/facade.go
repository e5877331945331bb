package app

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/usecase"
)

// CommissionFacade aggregates the application use cases behind one surface
// consumed by the HTTP binding and the sweeper.
type CommissionFacade struct {
	orders   *usecase.OrderUseCase
	progress *usecase.ProgressUseCase
	retries  int
}

// NewCommissionFacade constructs CommissionFacade.
func NewCommissionFacade(orders *usecase.OrderUseCase, progress *usecase.ProgressUseCase, retries int) *CommissionFacade {
	if retries <= 0 {
		retries = 1
	}
	return &CommissionFacade{orders: orders, progress: progress, retries: retries}
}

func (f *CommissionFacade) CreateOrder(ctx context.Context, params usecase.CreateOrderParams) (*model.Order, error) {
	return f.orders.Create(ctx, params)
}

func (f *CommissionFacade) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	return f.orders.GetByID(ctx, orderID)
}

func (f *CommissionFacade) CustomerOrders(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error) {
	return f.orders.ListByCustomer(ctx, customerID, limit, cursor)
}

func (f *CommissionFacade) ProducerOrders(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	return f.orders.ListByProducer(ctx, producerID, limit, cursor)
}

func (f *CommissionFacade) PendingAcceptance(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	return f.orders.ListPendingAcceptance(ctx, producerID, limit, cursor)
}

func (f *CommissionFacade) ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error) {
	return f.orders.ProducerSummary(ctx, producerID)
}

// Transition applies the action against a caller-pinned version.
func (f *CommissionFacade) Transition(ctx context.Context, orderID, version int64, action model.TransitionAction) (*model.Order, error) {
	return f.orders.Transition(ctx, orderID, version, action)
}

// TransitionLatest reloads the current version and applies the action,
// retrying a bounded number of times when a concurrent writer wins the
// conditional update first.
func (f *CommissionFacade) TransitionLatest(ctx context.Context, orderID int64, action model.TransitionAction) (*model.Order, error) {
	var lastErr error
	for attempt := 0; attempt < f.retries; attempt++ {
		order, err := f.orders.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		updated, err := f.orders.Transition(ctx, orderID, order.Version, action)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, domainErrors.ErrInvalidTransition) {
			// A concurrent writer may have already produced the outcome this
			// action asks for. A reject losing to an expiry sweep lands here:
			// the order is terminal in the requested state, so treat the call
			// as settled instead of surfacing the race to the caller.
			if current, gerr := f.orders.GetByID(ctx, orderID); gerr == nil && transitionSettled(current, action) {
				return current, nil
			}
			return nil, err
		}
		if !errors.Is(err, domainErrors.ErrConcurrentModification) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// transitionSettled reports whether the order already sits in the terminal
// status the action would have produced.
func transitionSettled(order *model.Order, action model.TransitionAction) bool {
	if !order.Status.Terminal() {
		return false
	}
	switch action {
	case model.ActionReject, model.ActionExpire:
		return order.Status == model.OrderStatusRejected
	case model.ActionComplete:
		return order.Status == model.OrderStatusCompleted
	}
	return false
}

func (f *CommissionFacade) SetMilestone(ctx context.Context, orderID int64, name string, completed bool) (*model.ProgressState, error) {
	return f.progress.SetMilestone(ctx, orderID, name, completed)
}

func (f *CommissionFacade) Progress(ctx context.Context, orderID int64) (*model.ProgressState, error) {
	return f.progress.Get(ctx, orderID)
}

// ExpiredOrders and ExpireOrder serve the sweeper.

func (f *CommissionFacade) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return f.orders.ExpiredOrders(ctx, limit)
}

func (f *CommissionFacade) ExpireOrder(ctx context.Context, orderID, version int64) error {
	_, err := f.orders.Transition(ctx, orderID, version, model.ActionExpire)
	return err
}
