package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/polkiloo/atelier/internal/adapter/notify"
	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
	"github.com/polkiloo/atelier/internal/pkg/clock"
)

// ProgressUseCase maintains per-order milestone flags, gated by lifecycle
// state: writes require the owning order to be ACCEPTED, reads work in any
// status so terminal orders stay inspectable.
type ProgressUseCase struct {
	orders   repository.OrderRepository
	progress repository.ProgressRepository
	emitter  notify.Emitter
	clock    clock.Clock
	logger   *slog.Logger
}

// NewProgressUseCase constructs ProgressUseCase.
func NewProgressUseCase(
	orders repository.OrderRepository,
	progress repository.ProgressRepository,
	emitter notify.Emitter,
	clk clock.Clock,
	logger *slog.Logger,
) *ProgressUseCase {
	return &ProgressUseCase{
		orders:   orders,
		progress: progress,
		emitter:  emitter,
		clock:    clk,
		logger:   logger,
	}
}

// SetMilestone upserts a milestone flag on the order's progress state.
func (u *ProgressUseCase) SetMilestone(ctx context.Context, orderID int64, name string, completed bool) (*model.ProgressState, error) {
	if !ValidateMilestoneName(name) {
		return nil, domainErrors.ErrInvalidInput
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderStatusAccepted {
		return nil, domainErrors.ErrInvalidState
	}

	state, err := u.progress.Upsert(ctx, orderID, name, completed)
	if err != nil {
		return nil, err
	}

	flag := completed
	event := model.Event{
		ID:          uuid.NewString(),
		Kind:        model.EventProgressUpdated,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Milestone:   name,
		Completed:   &flag,
		OccurredAt:  u.clock.Now(),
	}
	if err := u.emitter.Emit(ctx, event); err != nil {
		u.logger.Error("emit event failed",
			slog.String("kind", string(event.Kind)),
			slog.Int64("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
	}

	return state, nil
}

// Get returns the order's progress state, empty when nothing was recorded yet.
func (u *ProgressUseCase) Get(ctx context.Context, orderID int64) (*model.ProgressState, error) {
	if _, err := u.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	state, err := u.progress.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return &model.ProgressState{OrderID: orderID, Milestones: map[string]bool{}}, nil
		}
		return nil, err
	}
	return state, nil
}
