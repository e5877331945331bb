package repository

import (
	"context"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// ProgressRepository describes persistence operations with progress states.
type ProgressRepository interface {
	// Upsert creates the progress state on first write and merges the
	// milestone flag into the existing map afterwards. The write itself is
	// conditional on the owning order being ACCEPTED at commit time and
	// returns ErrInvalidState otherwise.
	Upsert(ctx context.Context, orderID int64, milestone string, completed bool) (*model.ProgressState, error)
	Get(ctx context.Context, orderID int64) (*model.ProgressState, error)
}
