package test

import (
	"context"
	"sync"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
	"github.com/polkiloo/atelier/internal/domain/model"
	pkgAuth "github.com/polkiloo/atelier/internal/pkg/auth"
)

// TokenStrategyStub returns fixed claims or a configured error.
type TokenStrategyStub struct {
	ID   int64
	Role pkgAuth.Role
	Err  error
}

// IssueToken returns a placeholder token.
func (s TokenStrategyStub) IssueToken(actorID int64, role pkgAuth.Role) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return "stub-token", nil
}

// ParseToken reports the configured claims.
func (s TokenStrategyStub) ParseToken(token string) (*pkgAuth.Claims, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	role := s.Role
	if role == "" {
		role = pkgAuth.RoleCustomer
	}
	return &pkgAuth.Claims{ActorID: s.ID, Role: role}, nil
}

// Name identifies the stub strategy.
func (s TokenStrategyStub) Name() string { return "stub" }

// ResolverStub simulates the identity collaborator. With no Known map every
// actor resolves; otherwise only listed ids exist.
type ResolverStub struct {
	Known map[int64]bool
	Err   error
}

// Resolve reports actor existence.
func (s ResolverStub) Resolve(ctx context.Context, actorID int64) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Known == nil {
		return nil
	}
	if !s.Known[actorID] {
		return domainErrors.ErrNotFound
	}
	return nil
}

// EmitterRecorder captures emitted events for assertions.
type EmitterRecorder struct {
	mu     sync.Mutex
	events []model.Event

	Err error
}

// Emit records the event and returns the configured error.
func (e *EmitterRecorder) Emit(ctx context.Context, event model.Event) error {
	e.mu.Lock()
	e.events = append(e.events, event)
	e.mu.Unlock()
	return e.Err
}

// Events returns a snapshot of recorded events.
func (e *EmitterRecorder) Events() []model.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	snapshot := make([]model.Event, len(e.events))
	copy(snapshot, e.events)
	return snapshot
}
