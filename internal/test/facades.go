package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/usecase"
)

// CommissionFacadeStub provides controllable behaviour for HTTP layer tests.
type CommissionFacadeStub struct {
	CreateFn            func(context.Context, usecase.CreateOrderParams) (*model.Order, error)
	OrderFn             func(context.Context, int64) (*model.Order, error)
	CustomerOrdersFn    func(context.Context, int64, int, int64) ([]model.Order, error)
	ProducerOrdersFn    func(context.Context, int64, int, int64) ([]model.Order, error)
	PendingAcceptanceFn func(context.Context, int64, int, int64) ([]model.Order, error)
	SummaryFn           func(context.Context, int64) (*model.ProducerSummary, error)
	TransitionFn        func(context.Context, int64, int64, model.TransitionAction) (*model.Order, error)
	TransitionLatestFn  func(context.Context, int64, model.TransitionAction) (*model.Order, error)
	SetMilestoneFn      func(context.Context, int64, string, bool) (*model.ProgressState, error)
	ProgressFn          func(context.Context, int64) (*model.ProgressState, error)
}

func defaultOrder(orderID int64) *model.Order {
	return &model.Order{
		ID:                 orderID,
		Number:             "ORD-20240101-TEST",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusPending,
		AcceptanceDeadline: time.Now().Add(48 * time.Hour),
		Version:            1,
	}
}

func (s CommissionFacadeStub) CreateOrder(ctx context.Context, params usecase.CreateOrderParams) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, params)
	}
	order := defaultOrder(1)
	order.CustomerID = params.CustomerID
	order.ProducerID = params.ProducerID
	order.Price = params.Price
	return order, nil
}

func (s CommissionFacadeStub) Order(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID)
	}
	return defaultOrder(orderID), nil
}

func (s CommissionFacadeStub) CustomerOrders(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error) {
	if s.CustomerOrdersFn != nil {
		return s.CustomerOrdersFn(ctx, customerID, limit, cursor)
	}
	return []model.Order{*defaultOrder(1)}, nil
}

func (s CommissionFacadeStub) ProducerOrders(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	if s.ProducerOrdersFn != nil {
		return s.ProducerOrdersFn(ctx, producerID, limit, cursor)
	}
	return []model.Order{*defaultOrder(1)}, nil
}

func (s CommissionFacadeStub) PendingAcceptance(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	if s.PendingAcceptanceFn != nil {
		return s.PendingAcceptanceFn(ctx, producerID, limit, cursor)
	}
	return []model.Order{*defaultOrder(1)}, nil
}

func (s CommissionFacadeStub) ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error) {
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, producerID)
	}
	return &model.ProducerSummary{}, nil
}

func (s CommissionFacadeStub) Transition(ctx context.Context, orderID, version int64, action model.TransitionAction) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, orderID, version, action)
	}
	order := defaultOrder(orderID)
	order.Status = model.OrderStatusAccepted
	order.IsAccepted = true
	return order, nil
}

func (s CommissionFacadeStub) TransitionLatest(ctx context.Context, orderID int64, action model.TransitionAction) (*model.Order, error) {
	if s.TransitionLatestFn != nil {
		return s.TransitionLatestFn(ctx, orderID, action)
	}
	return s.Transition(ctx, orderID, 1, action)
}

func (s CommissionFacadeStub) SetMilestone(ctx context.Context, orderID int64, name string, completed bool) (*model.ProgressState, error) {
	if s.SetMilestoneFn != nil {
		return s.SetMilestoneFn(ctx, orderID, name, completed)
	}
	return &model.ProgressState{OrderID: orderID, Milestones: map[string]bool{name: completed}, UpdatedAt: time.Now()}, nil
}

func (s CommissionFacadeStub) Progress(ctx context.Context, orderID int64) (*model.ProgressState, error) {
	if s.ProgressFn != nil {
		return s.ProgressFn(ctx, orderID)
	}
	return &model.ProgressState{OrderID: orderID, Milestones: map[string]bool{}}, nil
}

// ExpireCall records one sweep-driven expiry attempt.
type ExpireCall struct {
	OrderID int64
	Version int64
}

// SweepFacadeStub feeds the sweeper successive batches and records expiries.
type SweepFacadeStub struct {
	sync.Mutex

	Batches  [][]model.Order
	ExpireFn func(context.Context, int64, int64) error
	Expired  []ExpireCall

	calls int
}

// ExpiredOrders returns the next configured batch, then empty batches.
func (s *SweepFacadeStub) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	if s.calls >= len(s.Batches) {
		return nil, nil
	}
	batch := s.Batches[s.calls]
	s.calls++
	return batch, nil
}

// ExpireOrder records the attempt and applies the override when provided.
func (s *SweepFacadeStub) ExpireOrder(ctx context.Context, orderID, version int64) error {
	if s.ExpireFn != nil {
		if err := s.ExpireFn(ctx, orderID, version); err != nil {
			return err
		}
	}
	s.Lock()
	s.Expired = append(s.Expired, ExpireCall{OrderID: orderID, Version: version})
	s.Unlock()
	return nil
}

// SweepRunnerStub returns a fixed count for sweep endpoint tests.
type SweepRunnerStub struct {
	Count int
	Err   error
}

// Sweep reports the configured outcome.
func (s SweepRunnerStub) Sweep(ctx context.Context) (int, error) {
	return s.Count, s.Err
}
