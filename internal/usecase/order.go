package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/atelier/internal/adapter/identity"
	"github.com/polkiloo/atelier/internal/adapter/notify"
	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
	"github.com/polkiloo/atelier/internal/pkg/clock"
)

// CreateOrderParams carries a commission placement request.
type CreateOrderParams struct {
	CustomerID  int64
	ProducerID  int64
	Price       float64
	Description string
	PaymentRef  *string
	Attributes  map[string]string
}

// OrderUseCase owns the order lifecycle state machine. All status mutations
// go through Transition; human-driven and sweep-driven transitions share the
// same conditional write path so they can never diverge.
type OrderUseCase struct {
	orders           repository.OrderRepository
	identities       identity.Resolver
	emitter          notify.Emitter
	clock            clock.Clock
	acceptanceWindow time.Duration
	logger           *slog.Logger
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	identities identity.Resolver,
	emitter notify.Emitter,
	clk clock.Clock,
	acceptanceWindow time.Duration,
	logger *slog.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:           orders,
		identities:       identities,
		emitter:          emitter,
		clock:            clk,
		acceptanceWindow: acceptanceWindow,
		logger:           logger,
	}
}

// Create validates and persists a new PENDING order with a computed
// acceptance deadline.
func (u *OrderUseCase) Create(ctx context.Context, params CreateOrderParams) (*model.Order, error) {
	if params.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", domainErrors.ErrInvalidInput)
	}
	if params.CustomerID <= 0 || params.ProducerID <= 0 {
		return nil, fmt.Errorf("%w: customer and producer must be set", domainErrors.ErrInvalidInput)
	}

	if err := u.resolveActor(ctx, params.CustomerID, "customer"); err != nil {
		return nil, err
	}
	if err := u.resolveActor(ctx, params.ProducerID, "producer"); err != nil {
		return nil, err
	}

	now := u.clock.Now()
	order := &model.Order{
		Number:             newOrderNumber(now),
		CustomerID:         params.CustomerID,
		ProducerID:         params.ProducerID,
		Price:              params.Price,
		Description:        params.Description,
		PaymentRef:         params.PaymentRef,
		Attributes:         params.Attributes,
		Status:             model.OrderStatusPending,
		IsAccepted:         false,
		AcceptanceDeadline: now.Add(u.acceptanceWindow),
	}

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	u.emit(ctx, model.Event{
		ID:          uuid.NewString(),
		Kind:        model.EventOrderCreated,
		OrderID:     created.ID,
		OrderNumber: created.Number,
		NewStatus:   created.Status,
		OccurredAt:  now,
	})

	return created, nil
}

// GetByID loads a single order.
func (u *OrderUseCase) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, orderID)
}

// ListByCustomer returns orders placed by the customer, newest first.
func (u *OrderUseCase) ListByCustomer(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error) {
	return u.orders.ListByCustomer(ctx, customerID, limit, cursor)
}

// ListByProducer returns orders addressed to the producer, newest first.
func (u *OrderUseCase) ListByProducer(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	return u.orders.ListByProducer(ctx, producerID, limit, cursor)
}

// ListPendingAcceptance returns PENDING orders whose window has not lapsed.
func (u *OrderUseCase) ListPendingAcceptance(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	return u.orders.ListPendingAcceptance(ctx, producerID, u.clock.Now(), limit, cursor)
}

// ProducerSummary aggregates order counts and revenue for the producer.
func (u *OrderUseCase) ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error) {
	return u.orders.ProducerSummary(ctx, producerID)
}

// ExpiredOrders returns PENDING unaccepted orders past their deadline.
func (u *OrderUseCase) ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectExpired(ctx, u.clock.Now(), limit)
}

// Transition applies a lifecycle action against the expected version. On a
// version mismatch the caller receives ErrConcurrentModification and must
// reload before retrying; exactly one of any set of concurrent attempts
// against the same version commits.
func (u *OrderUseCase) Transition(ctx context.Context, orderID, expectedVersion int64, action model.TransitionAction) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := u.clock.Now()
	change, kind, err := u.validate(order, action, now)
	if err != nil {
		return nil, err
	}

	updated, err := u.orders.UpdateStatusCAS(ctx, orderID, expectedVersion, change)
	if err != nil {
		return nil, err
	}

	u.emit(ctx, model.Event{
		ID:             uuid.NewString(),
		Kind:           kind,
		OrderID:        updated.ID,
		OrderNumber:    updated.Number,
		PreviousStatus: order.Status,
		NewStatus:      updated.Status,
		OccurredAt:     now,
	})

	return updated, nil
}

// validate checks the action against the current status and deadline and
// computes the resulting field set.
func (u *OrderUseCase) validate(order *model.Order, action model.TransitionAction, now time.Time) (repository.StatusChange, model.EventKind, error) {
	var change repository.StatusChange
	var kind model.EventKind

	switch action {
	case model.ActionAccept:
		if order.Status != model.OrderStatusPending {
			return change, kind, transitionError(order.Status, action)
		}
		if now.After(order.AcceptanceDeadline) {
			return change, kind, domainErrors.ErrDeadlineExpired
		}
		acceptedAt := now
		change = repository.StatusChange{Status: model.OrderStatusAccepted, IsAccepted: true, AcceptedAt: &acceptedAt}
		kind = model.EventOrderAccepted

	case model.ActionReject:
		if order.Status != model.OrderStatusPending {
			return change, kind, transitionError(order.Status, action)
		}
		if now.After(order.AcceptanceDeadline) {
			return change, kind, domainErrors.ErrDeadlineExpired
		}
		change = repository.StatusChange{Status: model.OrderStatusRejected}
		kind = model.EventOrderRejected

	case model.ActionComplete:
		if order.Status != model.OrderStatusAccepted {
			return change, kind, transitionError(order.Status, action)
		}
		change = repository.StatusChange{Status: model.OrderStatusCompleted, IsAccepted: true}
		kind = model.EventOrderCompleted

	case model.ActionExpire:
		if order.Status != model.OrderStatusPending || order.IsAccepted || !now.After(order.AcceptanceDeadline) {
			return change, kind, transitionError(order.Status, action)
		}
		change = repository.StatusChange{Status: model.OrderStatusRejected}
		kind = model.EventOrderExpired

	default:
		return change, kind, fmt.Errorf("%w: unknown action %q", domainErrors.ErrInvalidInput, action)
	}

	return change, kind, nil
}

func transitionError(status model.OrderStatus, action model.TransitionAction) error {
	return fmt.Errorf("%w: %s not allowed from %s", domainErrors.ErrInvalidTransition, action, status)
}

func (u *OrderUseCase) resolveActor(ctx context.Context, actorID int64, party string) error {
	if err := u.identities.Resolve(ctx, actorID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return fmt.Errorf("%w: unknown %s %d", domainErrors.ErrInvalidInput, party, actorID)
		}
		return err
	}
	return nil
}

func (u *OrderUseCase) emit(ctx context.Context, event model.Event) {
	if err := u.emitter.Emit(ctx, event); err != nil {
		u.logger.Error("emit event failed",
			slog.String("kind", string(event.Kind)),
			slog.Int64("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newOrderNumber produces a human-facing number like ORD-20260901-4F7Q.
func newOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			suffix[i] = orderNumberAlphabet[0]
			continue
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
