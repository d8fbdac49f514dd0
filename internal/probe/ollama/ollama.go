package ollama

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Prober checks a local Ollama backend by listing installed models.
type Prober struct {
	id      string
	baseURL string
	client  *http.Client
}

// New creates a new Ollama prober
func New(id, baseURL string) *Prober {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &Prober{
		id:      id,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ID returns the provider id
func (p *Prober) ID() string {
	return p.id
}

// Probe lists installed models
func (p *Prober) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama probe failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ollama probe returned status %d", resp.StatusCode)
	}
	return nil
}
