package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/adapter/identity"
	"github.com/polkiloo/atelier/internal/adapter/notify"
	"github.com/polkiloo/atelier/internal/app"
	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/logger"
	"github.com/polkiloo/atelier/internal/pkg/auth"
	"github.com/polkiloo/atelier/internal/pkg/clock"
	"github.com/polkiloo/atelier/internal/server/http/handlers"
	"github.com/polkiloo/atelier/internal/server/http/router"
	"github.com/polkiloo/atelier/internal/storage/postgres"
	"github.com/polkiloo/atelier/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		clock.Module,
		auth.Module,
		postgres.Module,
		identity.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(f *app.CommissionFacade) handlers.CommissionFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
