package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
	testhelpers "github.com/polkiloo/atelier/internal/test"
	"github.com/polkiloo/atelier/internal/usecase"
)

var facadeBase = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// conflictingOrderRepo fails the conditional update a scripted number of
// times before delegating to the in-memory repository.
type conflictingOrderRepo struct {
	*testhelpers.OrderRepositoryMem
	conflicts int
	casCalls  int
}

func (r *conflictingOrderRepo) UpdateStatusCAS(ctx context.Context, orderID, expectedVersion int64, change repository.StatusChange) (*model.Order, error) {
	r.casCalls++
	if r.casCalls <= r.conflicts {
		return nil, domainErrors.ErrConcurrentModification
	}
	return r.OrderRepositoryMem.UpdateStatusCAS(ctx, orderID, expectedVersion, change)
}

func newFacadeFixture(t *testing.T, repo repository.OrderRepository, mem *testhelpers.OrderRepositoryMem, retries int) *CommissionFacade {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	clk := testhelpers.NewFakeClock(facadeBase)
	orders := usecase.NewOrderUseCase(repo, testhelpers.ResolverStub{}, &testhelpers.EmitterRecorder{}, clk, 48*time.Hour, logger)
	progress := usecase.NewProgressUseCase(repo, testhelpers.NewProgressRepositoryMem(mem), &testhelpers.EmitterRecorder{}, clk, logger)
	return NewCommissionFacade(orders, progress, retries)
}

func seedPendingOrder(t *testing.T, mem *testhelpers.OrderRepositoryMem) *model.Order {
	t.Helper()
	return mem.Seed(model.Order{
		Number:             "ORD-20240301-FCDE",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusPending,
		AcceptanceDeadline: facadeBase.Add(48 * time.Hour),
	})
}

func TestTransitionLatestRetriesPastConflicts(t *testing.T) {
	repo := &conflictingOrderRepo{OrderRepositoryMem: testhelpers.NewOrderRepositoryMem(), conflicts: 2}
	facade := newFacadeFixture(t, repo, repo.OrderRepositoryMem, 3)
	order := seedPendingOrder(t, repo.OrderRepositoryMem)

	updated, err := facade.TransitionLatest(context.Background(), order.ID, model.ActionAccept)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.OrderStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", updated.Status)
	}
	if repo.casCalls != 3 {
		t.Fatalf("expected 3 conditional updates, got %d", repo.casCalls)
	}
}

func TestTransitionLatestExhaustsRetries(t *testing.T) {
	repo := &conflictingOrderRepo{OrderRepositoryMem: testhelpers.NewOrderRepositoryMem(), conflicts: 10}
	facade := newFacadeFixture(t, repo, repo.OrderRepositoryMem, 3)
	order := seedPendingOrder(t, repo.OrderRepositoryMem)

	_, err := facade.TransitionLatest(context.Background(), order.ID, model.ActionAccept)
	if !errors.Is(err, domainErrors.ErrConcurrentModification) {
		t.Fatalf("expected conflict after exhausted retries, got %v", err)
	}
	if repo.casCalls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", repo.casCalls)
	}
}

func TestTransitionLatestDoesNotRetryDomainFailures(t *testing.T) {
	repo := &conflictingOrderRepo{OrderRepositoryMem: testhelpers.NewOrderRepositoryMem()}
	facade := newFacadeFixture(t, repo, repo.OrderRepositoryMem, 3)
	mem := repo.OrderRepositoryMem
	order := mem.Seed(model.Order{
		Number:             "ORD-20240301-TERM",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusCompleted,
		AcceptanceDeadline: facadeBase.Add(48 * time.Hour),
	})

	_, err := facade.TransitionLatest(context.Background(), order.ID, model.ActionAccept)
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if repo.casCalls != 0 {
		t.Fatalf("validation failures must not reach the store, got %d calls", repo.casCalls)
	}
}

func TestTransitionPinsCallerVersion(t *testing.T) {
	mem := testhelpers.NewOrderRepositoryMem()
	facade := newFacadeFixture(t, mem, mem, 3)
	order := seedPendingOrder(t, mem)

	if _, err := facade.Transition(context.Background(), order.ID, order.Version+1, model.ActionAccept); !errors.Is(err, domainErrors.ErrConcurrentModification) {
		t.Fatalf("expected pinned-version conflict, got %v", err)
	}

	updated, err := facade.Transition(context.Background(), order.ID, order.Version, model.ActionAccept)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.OrderStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", updated.Status)
	}
}

func TestExpireOrderUsesTransitionPath(t *testing.T) {
	mem := testhelpers.NewOrderRepositoryMem()
	facade := newFacadeFixture(t, mem, mem, 3)
	order := mem.Seed(model.Order{
		Number:             "ORD-20240301-LATE",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusPending,
		AcceptanceDeadline: facadeBase.Add(-time.Hour),
	})

	orders, err := facade.ExpiredOrders(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected one lapsed order, got %d", len(orders))
	}

	if err := facade.ExpireOrder(context.Background(), order.ID, order.Version); err != nil {
		t.Fatalf("expire failed: %v", err)
	}

	stored, _ := mem.GetByID(context.Background(), order.ID)
	if stored.Status != model.OrderStatusRejected {
		t.Fatalf("expected REJECTED, got %s", stored.Status)
	}

	if err := facade.ExpireOrder(context.Background(), order.ID, order.Version); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("second expire must lose cleanly, got %v", err)
	}
}

func TestTransitionLatestSettlesWhenExpiryWinsReject(t *testing.T) {
	mem := testhelpers.NewOrderRepositoryMem()
	facade := newFacadeFixture(t, mem, mem, 3)
	order := mem.Seed(model.Order{
		Number:             "ORD-20240301-RACE",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusPending,
		AcceptanceDeadline: facadeBase.Add(-time.Hour),
	})

	// The sweep commits first; the producer's reject arrives on a stale view.
	if err := facade.ExpireOrder(context.Background(), order.ID, order.Version); err != nil {
		t.Fatalf("expire failed: %v", err)
	}

	settled, err := facade.TransitionLatest(context.Background(), order.ID, model.ActionReject)
	if err != nil {
		t.Fatalf("reject after a lost expiry race must settle, got %v", err)
	}
	if settled.Status != model.OrderStatusRejected {
		t.Fatalf("expected REJECTED, got %s", settled.Status)
	}
	if settled.Version != order.Version+1 {
		t.Fatalf("settled call must not write again, got version %d", settled.Version)
	}
}

func TestTransitionLatestDoesNotSettleMismatchedOutcome(t *testing.T) {
	mem := testhelpers.NewOrderRepositoryMem()
	facade := newFacadeFixture(t, mem, mem, 3)
	order := mem.Seed(model.Order{
		Number:             "ORD-20240301-MISM",
		CustomerID:         1,
		ProducerID:         2,
		Status:             model.OrderStatusRejected,
		AcceptanceDeadline: facadeBase.Add(48 * time.Hour),
	})

	if _, err := facade.TransitionLatest(context.Background(), order.ID, model.ActionComplete); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("complete on a rejected order must fail, got %v", err)
	}
}
