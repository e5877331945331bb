package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/polkiloo/atelier/internal/adapter/identity"
	"github.com/polkiloo/atelier/internal/adapter/notify"
	"github.com/polkiloo/atelier/internal/app"
	"github.com/polkiloo/atelier/internal/config"
	"github.com/polkiloo/atelier/internal/domain/repository"
	"github.com/polkiloo/atelier/internal/storage/postgres"
	"github.com/polkiloo/atelier/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:        ":0",
		DatabaseURI:       "postgres://stub",
		IdentityAddress:   "http://localhost",
		AuthSecret:        "secret",
		AcceptanceWindow:  48 * time.Hour,
		SweepInterval:     time.Millisecond,
		SweepBatchSize:    1,
		SweepWorkers:      1,
		TransitionRetries: 1,
		ShutdownTimeout:   time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := test.NewOrderRepositoryMem()
	progressRepo := test.NewProgressRepositoryMem(orderRepo)

	var facade *app.CommissionFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.ProgressRepository(progressRepo)),
			fx.Replace(identity.Resolver(test.ResolverStub{})),
			fx.Replace(notify.Emitter(&test.EmitterRecorder{})),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected commission facade instance")
	}
}
