package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Prober checks an OpenAI or OpenAI-compatible backend by listing models,
// the cheapest authenticated call the API offers.
type Prober struct {
	id     string
	client openai.Client
}

// New creates a new OpenAI prober. baseURL overrides the default endpoint
// for OpenAI-compatible backends.
func New(id, apiKey, baseURL string) *Prober {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Prober{
		id:     id,
		client: openai.NewClient(opts...),
	}
}

// ID returns the provider id
func (p *Prober) ID() string {
	return p.id
}

// Probe lists models to verify reachability and credentials
func (p *Prober) Probe(ctx context.Context) error {
	if _, err := p.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai probe failed: %w", err)
	}
	return nil
}
