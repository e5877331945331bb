package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/adapter/identity"
	"github.com/polkiloo/atelier/internal/adapter/notify"
	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/domain/repository"
	"github.com/polkiloo/atelier/internal/pkg/clock"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newOrderUseCase,
	NewProgressUseCase,
)

type orderParams struct {
	fx.In

	Orders     repository.OrderRepository
	Identities identity.Resolver
	Emitter    notify.Emitter
	Clock      clock.Clock
	Config     *config.Config
	Logger     *slog.Logger
}

func newOrderUseCase(p orderParams) *OrderUseCase {
	return NewOrderUseCase(p.Orders, p.Identities, p.Emitter, p.Clock, p.Config.AcceptanceWindow, p.Logger)
}
