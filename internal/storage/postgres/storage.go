package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	"github.com/polkiloo/atelier/internal/domain/repository"
)

// pool is the subset of pgxpool.Pool the storage uses; tests substitute a mock.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// newPgxPool is swapped in tests to avoid a live database.
var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type progressRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pgPool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pgPool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pgPool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

var _ repository.Factory = (*Storage)(nil)

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Progress() repository.ProgressRepository {
	return &progressRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            number TEXT UNIQUE NOT NULL,
            customer_id BIGINT NOT NULL,
            producer_id BIGINT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            payment_ref TEXT,
            attributes JSONB NOT NULL DEFAULT '{}',
            status TEXT NOT NULL,
            is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
            acceptance_deadline TIMESTAMPTZ NOT NULL,
            accepted_at TIMESTAMPTZ,
            version BIGINT NOT NULL DEFAULT 1,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS progress_states (
            order_id BIGINT PRIMARY KEY REFERENCES orders(id),
            milestones JSONB NOT NULL DEFAULT '{}',
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_producer ON orders(producer_id, id DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending_deadline ON orders(acceptance_deadline)
            WHERE status = 'PENDING' AND is_accepted = FALSE`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

const orderColumns = `id, number, customer_id, producer_id, price, description, payment_ref, attributes,
       status, is_accepted, acceptance_deadline, accepted_at, version, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(row scanner) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerID, &o.ProducerID, &o.Price, &o.Description, &o.PaymentRef,
		&o.Attributes, &o.Status, &o.IsAccepted, &o.AcceptanceDeadline, &o.AcceptedAt,
		&o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// storeErr marks infrastructure failures so callers can distinguish them from
// domain outcomes and retry safely.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domainErrors.ErrStoreUnavailable, err)
}

// --- OrderRepository implementation ---

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const query = `INSERT INTO orders
                   (number, customer_id, producer_id, price, description, payment_ref, attributes, status, acceptance_deadline)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                   RETURNING id, version, created_at, updated_at`
	created := *order
	err := r.storage.pool.QueryRow(ctx, query,
		order.Number, order.CustomerID, order.ProducerID, order.Price, order.Description,
		order.PaymentRef, order.Attributes, order.Status, order.AcceptanceDeadline,
	).Scan(&created.ID, &created.Version, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, storeErr("insert order", err)
	}
	return &created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storeErr("get order", err)
	}
	return order, nil
}

func (r *orderRepository) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storeErr("get order by number", err)
	}
	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64, limit int, cursor int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE customer_id=$1 AND ($2::bigint = 0 OR id < $2)
              ORDER BY id DESC LIMIT $3`
	return r.list(ctx, query, customerID, cursor, limit)
}

func (r *orderRepository) ListByProducer(ctx context.Context, producerID int64, limit int, cursor int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE producer_id=$1 AND ($2::bigint = 0 OR id < $2)
              ORDER BY id DESC LIMIT $3`
	return r.list(ctx, query, producerID, cursor, limit)
}

func (r *orderRepository) ListPendingAcceptance(ctx context.Context, producerID int64, now time.Time, limit int, cursor int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE producer_id=$1 AND status='PENDING' AND is_accepted=FALSE AND acceptance_deadline > $2
                AND ($3::bigint = 0 OR id < $3)
              ORDER BY id DESC LIMIT $4`
	return r.list(ctx, query, producerID, now, cursor, limit)
}

func (r *orderRepository) SelectExpired(ctx context.Context, now time.Time, limit int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status='PENDING' AND is_accepted=FALSE AND acceptance_deadline < $1
              ORDER BY acceptance_deadline LIMIT $2`
	return r.list(ctx, query, now, limit)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list orders", err)
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, storeErr("scan order", err)
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list orders", err)
	}
	return result, nil
}

func (r *orderRepository) ProducerSummary(ctx context.Context, producerID int64) (*model.ProducerSummary, error) {
	const query = `SELECT COUNT(*),
                          COUNT(*) FILTER (WHERE status='PENDING'),
                          COUNT(*) FILTER (WHERE status='COMPLETED'),
                          COALESCE(SUM(price) FILTER (WHERE status='COMPLETED'), 0)
                   FROM orders WHERE producer_id=$1`
	var summary model.ProducerSummary
	err := r.storage.pool.QueryRow(ctx, query, producerID).Scan(
		&summary.TotalOrders, &summary.PendingOrders, &summary.CompletedOrders, &summary.TotalRevenue,
	)
	if err != nil {
		return nil, storeErr("producer summary", err)
	}
	return &summary, nil
}

func (r *orderRepository) UpdateStatusCAS(ctx context.Context, orderID, expectedVersion int64, change repository.StatusChange) (*model.Order, error) {
	query := `UPDATE orders
              SET status=$1, is_accepted=$2, accepted_at=COALESCE($3, accepted_at), version=version+1, updated_at=NOW()
              WHERE id=$4 AND version=$5
              RETURNING ` + orderColumns
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query,
		change.Status, change.IsAccepted, change.AcceptedAt, orderID, expectedVersion,
	))
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, storeErr("update order status", err)
	}

	// No row matched: either the order is gone or the version moved on.
	if _, err := r.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return nil, domainErrors.ErrConcurrentModification
}

// --- ProgressRepository implementation ---

func (r *progressRepository) Upsert(ctx context.Context, orderID int64, milestone string, completed bool) (*model.ProgressState, error) {
	// The write carries its own status gate so a transition committing after
	// the caller's status check cannot land a milestone on a terminal order.
	const query = `INSERT INTO progress_states (order_id, milestones, updated_at)
                   SELECT o.id, jsonb_build_object($2::text, $3::boolean), NOW()
                   FROM orders o
                   WHERE o.id=$1 AND o.status=$4
                   ON CONFLICT (order_id) DO UPDATE
                   SET milestones = progress_states.milestones || EXCLUDED.milestones, updated_at = NOW()
                   RETURNING milestones, updated_at`
	state := model.ProgressState{OrderID: orderID}
	err := r.storage.pool.QueryRow(ctx, query, orderID, milestone, completed, model.OrderStatusAccepted).Scan(&state.Milestones, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrInvalidState
		}
		return nil, storeErr("upsert progress", err)
	}
	return &state, nil
}

func (r *progressRepository) Get(ctx context.Context, orderID int64) (*model.ProgressState, error) {
	const query = `SELECT milestones, updated_at FROM progress_states WHERE order_id=$1`
	state := model.ProgressState{OrderID: orderID}
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&state.Milestones, &state.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, storeErr("get progress", err)
	}
	return &state, nil
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}
