package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/atelier/internal/domain/model"
)

// WebhookEmitter implements Emitter by POSTing events to a notification sink.
type WebhookEmitter struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewWebhookEmitter creates HTTP webhook emitter with default timeout.
func NewWebhookEmitter(baseURL string, logger *slog.Logger) (*WebhookEmitter, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notify url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("notify url must be absolute")
	}
	return &WebhookEmitter{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Emit posts the event record to the sink.
func (e *WebhookEmitter) Emit(ctx context.Context, event model.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	endpoint := *e.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/events")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		e.logger.Error("notify request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("notify error: %s", resp.Status)
	}
	return nil
}
