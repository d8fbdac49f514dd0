package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// Client talks to the external classification engine over HTTP. Mutating
// calls are never retried automatically; a failed call surfaces as an error
// and the caller decides whether to re-invoke.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a new engine client. ratePerSecond caps the request rate
// towards the engine; zero disables the cap.
func New(baseURL string, timeout time.Duration, ratePerSecond float64) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}
}

// ApplyTemplate pushes a full routing configuration to the engine. The
// engine treats the call as atomic; a non-2xx response means nothing was
// applied.
func (c *Client) ApplyTemplate(ctx context.Context, templateID string, cfg models.RoutingConfig) error {
	body := map[string]interface{}{
		"templateId": templateID,
		"config":     cfg,
	}
	return c.do(ctx, http.MethodPost, "/intent-manager/apply-template", body, nil)
}

// PutProviders replaces the engine's full ordered provider list. The engine
// may return a canonical array; when it does, that array is returned so the
// caller can adopt it as the known-good state.
func (c *Client) PutProviders(ctx context.Context, entries []models.ProviderEntry) ([]models.ProviderEntry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/settings/providers", entries, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// The engine returns the canonical list either bare or wrapped in a
	// providers envelope.
	var bare []models.ProviderEntry
	if err := json.Unmarshal(raw, &bare); err == nil {
		return bare, nil
	}
	var wrapped struct {
		Providers []models.ProviderEntry `json:"providers"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode provider list: %w", err)
	}
	return wrapped.Providers, nil
}

// PatchProvider flips a single provider's enabled flag.
func (c *Client) PatchProvider(ctx context.Context, id string, enabled bool) error {
	body := map[string]bool{"enabled": enabled}
	path := "/settings/providers/" + url.PathEscape(id)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// FetchPending returns one page of uncertain predictions plus the
// server-reported full pending count.
func (c *Client) FetchPending(ctx context.Context, limit int) (*models.PendingPage, error) {
	var page models.PendingPage
	path := fmt.Sprintf("/intent/predictions/pending?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchValidated returns recently validated predictions (history view).
func (c *Client) FetchValidated(ctx context.Context, limit int) ([]models.ValidationRecord, error) {
	var result struct {
		Predictions []models.ValidationRecord `json:"predictions"`
	}
	path := fmt.Sprintf("/intent/predictions/validated?limit=%d", limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Predictions, nil
}

// ValidatePrediction records a human verdict for a single prediction.
// Setting actualIntent equal to the predicted intent confirms it.
func (c *Client) ValidatePrediction(ctx context.Context, id, actualIntent string) error {
	var result struct {
		Success bool `json:"success"`
	}
	body := map[string]string{"actualIntent": actualIntent}
	path := "/intent/predictions/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPatch, path, body, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("engine did not accept validation for prediction %s", id)
	}
	return nil
}

// BulkValidate applies one verdict to many predictions. actualIntent is
// ignored by the engine when wasCorrect is true.
func (c *Client) BulkValidate(ctx context.Context, ids []string, wasCorrect bool, actualIntent string) error {
	var result struct {
		Success bool `json:"success"`
	}
	body := map[string]interface{}{
		"ids":        ids,
		"wasCorrect": wasCorrect,
	}
	if !wasCorrect {
		body["actualIntent"] = actualIntent
	}
	if err := c.do(ctx, http.MethodPost, "/intent/predictions/bulk-validate", body, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("engine did not accept bulk validation of %d predictions", len(ids))
	}
	return nil
}

// ListIntents fetches the intent catalog used for correction dropdowns.
func (c *Client) ListIntents(ctx context.Context) ([]models.Intent, error) {
	var intents []models.Intent
	if err := c.do(ctx, http.MethodGet, "/intents", nil, &intents); err != nil {
		return nil, err
	}
	return intents, nil
}

// Ping checks engine reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/intents", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("engine request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read engine response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode engine response: %w", err)
		}
	}

	return nil
}
