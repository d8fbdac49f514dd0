package routing

import (
	"context"
	"fmt"
	"sync"

	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/templates"
)

// EngineClient is the slice of the engine API the applier needs.
type EngineClient interface {
	ApplyTemplate(ctx context.Context, templateID string, cfg models.RoutingConfig) error
}

// ProviderChain is the slice of the provider chain the applier needs when a
// template application overwrites the fallback chain.
type ProviderChain interface {
	Entries() []models.ProviderEntry
	ApplyProviderSet(ctx context.Context, set []models.TemplateProvider) ([]models.ProviderEntry, error)
}

// ConfigStore persists the last applied config so the indicator survives
// restarts. The engine remains the source of truth; this copy is a cache.
type ConfigStore interface {
	SaveRoutingConfig(ctx context.Context, cfg models.RoutingConfig, templateID string) error
	GetRoutingConfig(ctx context.Context) (*models.RoutingConfig, string, error)
}

// Applier validates and atomically applies templates or hand-edited configs
// to the live routing configuration. The live config is mutated only here:
// all fields commit together on engine acceptance, and any failure leaves
// the previous config untouched. Failed applies are never retried
// automatically; the operator re-invokes explicitly.
type Applier struct {
	engine    EngineClient
	store     ConfigStore
	templates *templates.Store
	chain     ProviderChain
	notifier  *Notifier

	mu       sync.Mutex
	live     models.RoutingConfig
	activeID string
}

// NewApplier creates a new config applier
func NewApplier(engine EngineClient, store ConfigStore, templateStore *templates.Store, chain ProviderChain, notifier *Notifier) *Applier {
	return &Applier{
		engine:    engine,
		store:     store,
		templates: templateStore,
		chain:     chain,
		notifier:  notifier,
	}
}

// LoadPersisted warms the live config from the local cache after a restart.
// Missing state is not an error; the config stays zero until the first apply.
func (a *Applier) LoadPersisted(ctx context.Context) error {
	cfg, templateID, err := a.store.GetRoutingConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted routing config: %w", err)
	}
	if cfg == nil {
		return nil
	}

	a.mu.Lock()
	a.live = cfg.Clone()
	a.activeID = templateID
	a.mu.Unlock()
	return nil
}

// Live returns a copy of the currently effective configuration.
func (a *Applier) Live() models.RoutingConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live.Clone()
}

// ActiveTemplateID returns the id of the template the live config matches,
// or "" when the config is custom.
func (a *Applier) ActiveTemplateID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID
}

// ApplyTemplate applies a catalog template: config push to the engine, then
// the template's provider set overwrite. The engine error body is surfaced
// verbatim on rejection.
func (a *Applier) ApplyTemplate(ctx context.Context, templateID string) (*models.ApplyResult, error) {
	template, err := a.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	cfg := templates.ToRoutingConfig(*template)
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if err := a.engine.ApplyTemplate(ctx, templateID, cfg); err != nil {
		return nil, err
	}

	a.commit(ctx, cfg)

	if _, err := a.chain.ApplyProviderSet(ctx, template.Providers); err != nil {
		// The chain rolled itself back; the config is already committed
		// engine-side. The indicator recomputes to Custom, which is what
		// the operator will see until the providers are reapplied.
		a.refreshActive(ctx)
		return nil, fmt.Errorf("configuration applied but provider chain update failed: %w", err)
	}

	a.refreshActive(ctx)

	a.mu.Lock()
	result := &models.ApplyResult{
		TemplateID:       templateID,
		ActiveTemplateID: a.activeID,
		Config:           a.live.Clone(),
	}
	a.mu.Unlock()

	logger.Info("Applied template %s (active: %s)", templateID, result.ActiveTemplateID)
	return result, nil
}

// ApplyCustomConfig applies a hand-edited configuration. Providers are left
// as they are; any divergence from a catalog template demotes the active
// indicator to Custom.
func (a *Applier) ApplyCustomConfig(ctx context.Context, cfg models.RoutingConfig) (*models.ApplyResult, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if err := a.engine.ApplyTemplate(ctx, "custom", cfg); err != nil {
		return nil, err
	}

	a.commit(ctx, cfg)
	a.refreshActive(ctx)

	a.mu.Lock()
	result := &models.ApplyResult{
		ActiveTemplateID: a.activeID,
		Config:           a.live.Clone(),
	}
	a.mu.Unlock()

	logger.Info("Applied custom configuration (active: %s)", displayActive(result.ActiveTemplateID))
	return result, nil
}

// commit replaces the live config after engine acceptance and emits the
// config-changed signal.
func (a *Applier) commit(ctx context.Context, cfg models.RoutingConfig) {
	a.mu.Lock()
	a.live = cfg.Clone()
	a.mu.Unlock()

	a.notifier.Notify(cfg)
}

// refreshActive recomputes the active-template indicator from the committed
// config and the current provider chain, then persists the cache copy.
// Cache persistence failures are logged, not fatal: the engine already
// holds the new config.
func (a *Applier) refreshActive(ctx context.Context) {
	catalog, err := a.templates.ListTemplates(ctx)
	if err != nil {
		logger.Warning("Failed to list templates for active detection: %v", err)
		catalog = nil
	}

	a.mu.Lock()
	a.activeID = templates.DetectActiveTemplate(a.live, a.chain.Entries(), catalog)
	active := a.activeID
	live := a.live.Clone()
	a.mu.Unlock()

	if err := a.store.SaveRoutingConfig(ctx, live, active); err != nil {
		logger.Warning("Failed to persist routing config cache: %v", err)
	}
}

func displayActive(id string) string {
	if id == "" {
		return "custom"
	}
	return id
}
