package identity

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/config"
)

// Module exposes identity resolver implementation to fx graph.
var Module = fx.Provide(newResolver)

type resolverParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newResolver(p resolverParams) (Resolver, error) {
	return NewHTTPClient(p.Config.IdentityAddress, p.Logger)
}
