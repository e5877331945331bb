package notify

import (
	"context"
	"log/slog"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// Emitter delivers event records to an external notification collaborator.
// Delivery is fire-and-forget relative to the state transition that produced
// the event: callers log failures and never roll anything back.
type Emitter interface {
	Emit(ctx context.Context, event model.Event) error
}

// LogEmitter records events to the application log. Used when no sink is
// configured.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter constructs LogEmitter.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

// Emit writes the event as a structured log record.
func (e *LogEmitter) Emit(ctx context.Context, event model.Event) error {
	e.logger.Info("event",
		slog.String("id", event.ID),
		slog.String("kind", string(event.Kind)),
		slog.Int64("order_id", event.OrderID),
		slog.String("order_number", event.OrderNumber),
	)
	return nil
}
