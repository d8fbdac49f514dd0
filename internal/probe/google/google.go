package google

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Prober checks a Google Gemini backend with a minimal generation request.
type Prober struct {
	id     string
	apiKey string
	model  string
}

// New creates a new Google prober
func New(id, apiKey, model string) *Prober {
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &Prober{
		id:     id,
		apiKey: apiKey,
		model:  model,
	}
}

// ID returns the provider id
func (p *Prober) ID() string {
	return p.id
}

// Probe sends a minimal generation request
func (p *Prober) Probe(ctx context.Context) error {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("failed to create genai client: %w", err)
	}

	if _, err := client.Models.GenerateContent(ctx, p.model, genai.Text("ping"), nil); err != nil {
		return fmt.Errorf("google probe failed: %w", err)
	}
	return nil
}
