package providers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// EngineClient is the slice of the engine API the chain needs.
type EngineClient interface {
	PutProviders(ctx context.Context, entries []models.ProviderEntry) ([]models.ProviderEntry, error)
	PatchProvider(ctx context.Context, id string, enabled bool) error
}

// Store persists the last known-good provider list locally so the chain
// warms up after a restart.
type Store interface {
	SaveProviders(ctx context.Context, entries []models.ProviderEntry) error
	ListProviders(ctx context.Context) ([]models.ProviderEntry, error)
}

// Chain manages the ordered LLM provider fallback list. Every mutating
// operation updates the in-memory list first, pushes the full ordered list
// to the engine, and on failure reverts to the last known-good server state
// before surfacing the error (optimistic update with rollback).
type Chain struct {
	engine EngineClient
	store  Store

	mu       sync.Mutex
	entries  []models.ProviderEntry
	lastGood []models.ProviderEntry
}

// NewChain creates a provider chain seeded with the given entries.
func NewChain(engine EngineClient, store Store, seed []models.ProviderEntry) *Chain {
	entries := renumber(cloneEntries(seed))
	return &Chain{
		engine:   engine,
		store:    store,
		entries:  entries,
		lastGood: cloneEntries(entries),
	}
}

// LoadPersisted replaces the seed with the locally persisted list, if any.
func (c *Chain) LoadPersisted(ctx context.Context) error {
	saved, err := c.store.ListProviders(ctx)
	if err != nil {
		return fmt.Errorf("failed to load persisted providers: %w", err)
	}
	if len(saved) == 0 {
		return nil
	}

	c.mu.Lock()
	c.entries = renumber(cloneEntries(saved))
	c.lastGood = cloneEntries(c.entries)
	c.mu.Unlock()
	return nil
}

// Entries returns a copy of the current list sorted by priority ascending.
func (c *Chain) Entries() []models.ProviderEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneEntries(c.entries)
}

// Reorder removes the dragged entry and reinserts it at the target's
// original position, then renumbers priorities densely from 0. Dragging an
// entry onto itself is a no-op and triggers no persistence call.
func (c *Chain) Reorder(ctx context.Context, draggedID, targetID string) ([]models.ProviderEntry, error) {
	if draggedID == targetID {
		return c.Entries(), nil
	}

	c.mu.Lock()
	next := cloneEntries(c.entries)
	draggedIdx := indexOf(next, draggedID)
	targetIdx := indexOf(next, targetID)
	if draggedIdx < 0 || targetIdx < 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("provider not found")
	}

	dragged := next[draggedIdx]
	next = append(next[:draggedIdx], next[draggedIdx+1:]...)
	if targetIdx > len(next) {
		targetIdx = len(next)
	}
	next = append(next[:targetIdx], append([]models.ProviderEntry{dragged}, next[targetIdx:]...)...)
	next = renumber(next)
	c.entries = next
	c.mu.Unlock()

	return c.persist(ctx)
}

// SetDefault promotes the entry to priority 0 and renumbers the rest
// preserving their relative order.
func (c *Chain) SetDefault(ctx context.Context, id string) ([]models.ProviderEntry, error) {
	c.mu.Lock()
	next := cloneEntries(c.entries)
	idx := indexOf(next, id)
	if idx < 0 {
		c.mu.Unlock()
		return nil, fmt.Errorf("provider not found")
	}

	promoted := next[idx]
	next = append(next[:idx], next[idx+1:]...)
	next = append([]models.ProviderEntry{promoted}, next...)
	next = renumber(next)
	c.entries = next
	c.mu.Unlock()

	return c.persist(ctx)
}

// ToggleEnabled flips the enabled flag without renumbering: a disabled
// entry keeps its priority slot so re-enabling restores its relative
// position. Rollback restores the previous flag on engine failure.
func (c *Chain) ToggleEnabled(ctx context.Context, id string, enabled bool) error {
	c.mu.Lock()
	idx := indexOf(c.entries, id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("provider not found")
	}
	c.entries[idx].Enabled = enabled
	c.entries[idx].UpdatedAt = time.Now()
	c.mu.Unlock()

	if err := c.engine.PatchProvider(ctx, id, enabled); err != nil {
		c.rollback()
		return err
	}

	c.markGood(ctx)
	return nil
}

// ApplyProviderSet overwrites enabled/priority for every live provider that
// appears in the template's list; live providers absent from the list are
// force-disabled with their priority left unchanged. The result is sorted
// by priority ascending.
func (c *Chain) ApplyProviderSet(ctx context.Context, set []models.TemplateProvider) ([]models.ProviderEntry, error) {
	byID := make(map[string]models.TemplateProvider, len(set))
	for _, tp := range set {
		byID[tp.ID] = tp
	}

	c.mu.Lock()
	next := cloneEntries(c.entries)
	for i := range next {
		if tp, ok := byID[next[i].ID]; ok {
			next[i].Enabled = tp.Enabled
			next[i].Priority = tp.Priority
		} else {
			next[i].Enabled = false
		}
		next[i].UpdatedAt = time.Now()
	}
	sortByPriority(next)
	c.entries = next
	c.mu.Unlock()

	return c.persist(ctx)
}

// persist pushes the full ordered list to the engine. On success the new
// list becomes the known-good state (the engine's canonical array wins when
// it returns one); on failure the in-memory list reverts.
func (c *Chain) persist(ctx context.Context) ([]models.ProviderEntry, error) {
	c.mu.Lock()
	attempt := cloneEntries(c.entries)
	c.mu.Unlock()

	canonical, err := c.engine.PutProviders(ctx, attempt)
	if err != nil {
		c.rollback()
		return nil, err
	}

	if len(canonical) > 0 {
		c.mu.Lock()
		c.entries = renumber(cloneEntries(canonical))
		c.mu.Unlock()
	}

	c.markGood(ctx)
	return c.Entries(), nil
}

func (c *Chain) rollback() {
	c.mu.Lock()
	c.entries = cloneEntries(c.lastGood)
	c.mu.Unlock()
}

func (c *Chain) markGood(ctx context.Context) {
	c.mu.Lock()
	c.lastGood = cloneEntries(c.entries)
	good := cloneEntries(c.entries)
	c.mu.Unlock()

	if err := c.store.SaveProviders(ctx, good); err != nil {
		logger.Warning("Failed to persist provider list: %v", err)
	}
}

func cloneEntries(entries []models.ProviderEntry) []models.ProviderEntry {
	out := make([]models.ProviderEntry, len(entries))
	copy(out, entries)
	return out
}

func indexOf(entries []models.ProviderEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// sortByPriority sorts ascending, stable so that duplicate priorities from
// an external data anomaly keep their original array order.
func sortByPriority(entries []models.ProviderEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
}

// renumber assigns dense 0..N-1 priorities in current array order.
func renumber(entries []models.ProviderEntry) []models.ProviderEntry {
	for i := range entries {
		entries[i].Priority = i
	}
	return entries
}
