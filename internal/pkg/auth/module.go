package auth

import (
	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/config"
)

// Module wires token strategy for dependency injection.
var Module = fx.Provide(newStrategy)

func newStrategy(cfg *config.Config) TokenStrategy {
	return NewJWTStrategy(cfg.AuthSecret, Options{})
}
