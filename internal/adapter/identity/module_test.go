package identity

import (
	"io"
	"log/slog"
	"testing"

	"github.com/polkiloo/atelier/internal/config"
)

func TestNewResolverUsesConfig(t *testing.T) {
	cfg := &config.Config{IdentityAddress: "http://identity:8081"}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	resolver, err := newResolver(resolverParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolver == nil {
		t.Fatal("expected resolver instance")
	}
}
