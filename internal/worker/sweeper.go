package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
)

// LifecycleFacade exposes the subset of application functionality required by the sweeper.
type LifecycleFacade interface {
	ExpiredOrders(ctx context.Context, limit int) ([]model.Order, error)
	ExpireOrder(ctx context.Context, orderID, version int64) error
}

// SweepRunner lets an external scheduler trigger a synchronous pass.
type SweepRunner interface {
	Sweep(ctx context.Context) (int, error)
}

// Sweeper drives PENDING orders whose acceptance window lapsed to REJECTED.
// It uses the same conditional transition path as interactive actors, so a
// pass racing a human decision loses cleanly and moves on.
type Sweeper struct {
	facade    LifecycleFacade
	interval  time.Duration
	batchSize int
	workers   int
	logger    *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the deadline sweeper.
func NewSweeper(facade LifecycleFacade, interval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:    facade,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

// Start launches the periodic sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(runCtx)
}

// Stop waits for the loop and any in-flight pass to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Error("sweep pass failed", slog.String("error", err.Error()))
				continue
			}
			if expired > 0 {
				s.logger.Info("sweep pass finished", slog.Int("orders_expired", expired))
			}
		}
	}
}

// Sweep runs one pass: fetch lapsed PENDING orders and expire each through
// the conditional transition path. The pass holds no state between invocations;
// a repeated call simply finds fewer or no matching orders, which makes it
// idempotent and safe to invoke concurrently with itself.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	orders, err := s.facade.ExpiredOrders(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}
	if len(orders) == 0 {
		return 0, nil
	}

	var expired int64
	jobs := make(chan model.Order)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for order := range jobs {
				if s.expire(ctx, order) {
					atomic.AddInt64(&expired, 1)
				}
			}
		}()
	}

	for _, order := range orders {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return int(atomic.LoadInt64(&expired)), ctx.Err()
		case jobs <- order:
		}
	}
	close(jobs)
	wg.Wait()

	return int(atomic.LoadInt64(&expired)), nil
}

// expire attempts the EXPIRE transition. Race losses are a normal outcome:
// the order was decided by a concurrent actor and the next pass will no
// longer see it.
func (s *Sweeper) expire(ctx context.Context, order model.Order) bool {
	err := s.facade.ExpireOrder(ctx, order.ID, order.Version)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, domainErrors.ErrConcurrentModification), errors.Is(err, domainErrors.ErrInvalidTransition):
		s.logger.Warn("sweep lost race", slog.String("order", order.Number), slog.String("error", err.Error()))
	default:
		s.logger.Error("expire order failed", slog.String("order", order.Number), slog.String("error", err.Error()))
	}
	return false
}
