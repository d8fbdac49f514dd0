package probe

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// Prober checks one LLM provider backend with the cheapest call its API
// offers. Latency is measured by the runner around the whole call.
type Prober interface {
	ID() string
	Probe(ctx context.Context) error
}

// Registry holds the configured probers in registration order.
type Registry struct {
	mu      sync.RWMutex
	probers map[string]Prober
	order   []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		probers: make(map[string]Prober),
	}
}

// Register adds a prober; re-registering an id replaces it in place.
func (r *Registry) Register(p Prober) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.probers[p.ID()]; !exists {
		r.order = append(r.order, p.ID())
	}
	r.probers[p.ID()] = p
}

// Get returns the prober for an id
func (r *Registry) Get(id string) (Prober, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.probers[id]
	return p, ok
}

// All returns the probers in registration order
func (r *Registry) All() []Prober {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Prober, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.probers[id])
	}
	return out
}

// Runner probes every registered provider and records the outcomes.
type Runner struct {
	registry *Registry
	db       db.NoSQLDatabase
}

// NewRunner creates a probe runner
func NewRunner(registry *Registry, database db.NoSQLDatabase) *Runner {
	return &Runner{registry: registry, db: database}
}

// RunAll probes every provider sequentially and persists each result.
// A failed probe is a result, not an error; only the history write can fail.
func (r *Runner) RunAll(ctx context.Context) []models.ProbeResult {
	var results []models.ProbeResult

	for _, p := range r.registry.All() {
		result := r.runOne(ctx, p)
		results = append(results, result)

		if err := r.db.CreateProbeResult(ctx, &result); err != nil {
			logger.Warning("Failed to store probe result for %s: %v", p.ID(), err)
		}
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, p Prober) models.ProbeResult {
	start := time.Now()
	err := p.Probe(ctx)
	latency := time.Since(start).Milliseconds()

	result := models.ProbeResult{
		ID:         uuid.New().String(),
		ProviderID: p.ID(),
		LatencyMs:  latency,
		OK:         err == nil,
		ProbedAt:   time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
		logger.Warning("Probe failed for provider %s: %v", p.ID(), err)
	} else {
		logger.Debug("Probe for provider %s: %dms", p.ID(), latency)
	}
	return result
}
