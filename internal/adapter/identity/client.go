package identity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/atelier/internal/domain/errors"
)

// Resolver checks that a customer or producer identity exists. Identities are
// owned by an external service; the core only needs existence.
type Resolver interface {
	Resolve(ctx context.Context, actorID int64) error
}

// HTTPClient implements Resolver via the identity service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates HTTP identity client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse identity url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("identity url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Resolve queries identity service for actor existence.
func (c *HTTPClient) Resolve(ctx context.Context, actorID int64) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/users/", strconv.FormatInt(actorID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return domainErrors.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("identity request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return fmt.Errorf("identity error: %s", resp.Status)
	}
}
