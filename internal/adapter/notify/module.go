package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/config"
)

// Module exposes notification emitter implementation to fx graph.
var Module = fx.Provide(newEmitter)

type emitterParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newEmitter(p emitterParams) (Emitter, error) {
	if p.Config.NotifyAddress == "" {
		return NewLogEmitter(p.Logger), nil
	}
	return NewWebhookEmitter(p.Config.NotifyAddress, p.Logger)
}
