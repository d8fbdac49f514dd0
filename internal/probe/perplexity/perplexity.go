package perplexity

import (
	"context"
	"fmt"

	pplx "github.com/sgaunet/perplexity-go/v2"
)

// Prober checks a Perplexity backend with a minimal completion request.
type Prober struct {
	id     string
	client *pplx.Client
}

// New creates a new Perplexity prober
func New(id, apiKey string) *Prober {
	return &Prober{
		id:     id,
		client: pplx.NewClient(apiKey),
	}
}

// ID returns the provider id
func (p *Prober) ID() string {
	return p.id
}

// Probe sends a minimal completion request. The context deadline bounds the
// call; the client itself has no per-request context hook.
func (p *Prober) Probe(ctx context.Context) error {
	req := pplx.NewCompletionRequest(
		pplx.WithMessages([]pplx.Message{
			{Role: "user", Content: "ping"},
		}),
	)

	done := make(chan error, 1)
	go func() {
		_, err := p.client.SendCompletionRequest(req)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("perplexity probe failed: %w", err)
		}
		return nil
	}
}
