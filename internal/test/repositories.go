package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// OrderRepositoryMem is an in-memory OrderRepository with real
// compare-and-set semantics, so concurrency behaviour can be exercised
// without a database.
type OrderRepositoryMem struct {
	mu     sync.Mutex
	orders map[int64]*model.Order
	next   int64

	Err error
}

// NewOrderRepositoryMem constructs an empty in-memory repository.
func NewOrderRepositoryMem() *OrderRepositoryMem {
	return &OrderRepositoryMem{orders: make(map[int64]*model.Order), next: 1}
}

// Seed inserts an order as-is, assigning id and version when unset.
func (s *OrderRepositoryMem) Seed(order model.Order) *model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		order.ID = s.next
		s.next++
	} else if order.ID >= s.next {
		s.next = order.ID + 1
	}
	if order.Version == 0 {
		order.Version = 1
	}
	stored := order
	s.orders[stored.ID] = &stored
	return copyOrder(&stored)
}

// Create persists a new order.
func (s *OrderRepositoryMem) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *order
	stored.ID = s.next
	s.next++
	stored.Version = 1
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.orders[stored.ID] = &stored
	return copyOrder(&stored), nil
}

// GetByID returns a copy of the stored order.
func (s *OrderRepositoryMem) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return copyOrder(order), nil
}

// GetByNumber returns a copy of the order with the given number.
func (s *OrderRepositoryMem) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.Number == number {
			return copyOrder(order), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders placed by the customer.
func (s *OrderRepositoryMem) ListByCustomer(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error) {
	return s.filter(limit, cursor, func(o *model.Order) bool { return o.CustomerID == customerID })
}

// ListByProducer returns orders addressed to the producer.
func (s *OrderRepositoryMem) ListByProducer(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	return s.filter(limit, cursor, func(o *model.Order) bool { return o.ProducerID == producerID })
}

// ListPendingAcceptance returns PENDING unaccepted orders still inside their window.
func (s *OrderRepositoryMem) ListPendingAcceptance(ctx context.Context, producerID int64, now time.Time, limit int, cursor int64) ([]model.Order, error) {
	return s.filter(limit, cursor, func(o *model.Order) bool {
		return o.ProducerID == producerID && o.Status == model.OrderStatusPending && !o.IsAccepted && o.AcceptanceDeadline.After(now)
	})
}

// SelectExpired returns PENDING unaccepted orders past their deadline.
func (s *OrderRepositoryMem) SelectExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.filter(limit, 0, func(o *model.Order) bool {
		return o.Status == model.OrderStatusPending && !o.IsAccepted && now.After(o.AcceptanceDeadline)
	})
}

// ProducerSummary aggregates over stored orders.
func (s *OrderRepositoryMem) ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var summary model.ProducerSummary
	for _, o := range s.orders {
		if o.ProducerID != producerID {
			continue
		}
		summary.TotalOrders++
		switch o.Status {
		case model.OrderStatusPending:
			summary.PendingOrders++
		case model.OrderStatusCompleted:
			summary.CompletedOrders++
			summary.TotalRevenue += o.Price
		}
	}
	return &summary, nil
}

// UpdateStatusCAS applies the change only when the stored version matches.
func (s *OrderRepositoryMem) UpdateStatusCAS(ctx context.Context, orderID, expectedVersion int64, change repository.StatusChange) (*model.Order, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Version != expectedVersion {
		return nil, domainErrors.ErrConcurrentModification
	}
	order.Status = change.Status
	order.IsAccepted = change.IsAccepted
	if change.AcceptedAt != nil {
		order.AcceptedAt = change.AcceptedAt
	}
	order.Version++
	order.UpdatedAt = time.Now()
	return copyOrder(order), nil
}

func (s *OrderRepositoryMem) filter(limit int, cursor int64, match func(*model.Order) bool) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for id := s.next - 1; id >= 1; id-- {
		order, ok := s.orders[id]
		if !ok || !match(order) {
			continue
		}
		if cursor > 0 && order.ID >= cursor {
			continue
		}
		result = append(result, *copyOrder(order))
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func copyOrder(order *model.Order) *model.Order {
	clone := *order
	if order.Attributes != nil {
		clone.Attributes = make(map[string]string, len(order.Attributes))
		for k, v := range order.Attributes {
			clone.Attributes[k] = v
		}
	}
	if order.AcceptedAt != nil {
		acceptedAt := *order.AcceptedAt
		clone.AcceptedAt = &acceptedAt
	}
	return &clone
}

// ProgressRepositoryMem is an in-memory ProgressRepository. Writes carry the
// same status gate as the real store: the owning order must be ACCEPTED at
// write time.
type ProgressRepositoryMem struct {
	mu     sync.Mutex
	orders *OrderRepositoryMem
	states map[int64]map[string]bool

	Err error
}

// NewProgressRepositoryMem constructs an empty in-memory progress repository
// gated on the given order repository.
func NewProgressRepositoryMem(orders *OrderRepositoryMem) *ProgressRepositoryMem {
	return &ProgressRepositoryMem{orders: orders, states: make(map[int64]map[string]bool)}
}

// Upsert merges the milestone flag into the order's map, creating it on first
// write. The order lock is held across the write so the status check and the
// mutation are atomic relative to UpdateStatusCAS.
func (s *ProgressRepositoryMem) Upsert(ctx context.Context, orderID int64, milestone string, completed bool) (*model.ProgressState, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.orders.mu.Lock()
	defer s.orders.mu.Unlock()
	order, ok := s.orders.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if order.Status != model.OrderStatusAccepted {
		return nil, domainErrors.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[orderID]
	if !ok {
		state = make(map[string]bool)
		s.states[orderID] = state
	}
	state[milestone] = completed
	return &model.ProgressState{OrderID: orderID, Milestones: cloneMilestones(state), UpdatedAt: time.Now()}, nil
}

// Get returns the order's milestone map or not found.
func (s *ProgressRepositoryMem) Get(ctx context.Context, orderID int64) (*model.ProgressState, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &model.ProgressState{OrderID: orderID, Milestones: cloneMilestones(state), UpdatedAt: time.Now()}, nil
}

func cloneMilestones(m map[string]bool) map[string]bool {
	clone := make(map[string]bool, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}
