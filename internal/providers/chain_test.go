package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

type fakeEngine struct {
	putErr    error
	patchErr  error
	canonical []models.ProviderEntry
	putCalls  int
	patches   []string
}

func (f *fakeEngine) PutProviders(ctx context.Context, entries []models.ProviderEntry) ([]models.ProviderEntry, error) {
	f.putCalls++
	if f.putErr != nil {
		return nil, f.putErr
	}
	return f.canonical, nil
}

func (f *fakeEngine) PatchProvider(ctx context.Context, id string, enabled bool) error {
	if f.patchErr != nil {
		return f.patchErr
	}
	f.patches = append(f.patches, id)
	return nil
}

type fakeStore struct {
	saved []models.ProviderEntry
}

func (f *fakeStore) SaveProviders(ctx context.Context, entries []models.ProviderEntry) error {
	f.saved = entries
	return nil
}

func (f *fakeStore) ListProviders(ctx context.Context) ([]models.ProviderEntry, error) {
	return f.saved, nil
}

func seed(ids ...string) []models.ProviderEntry {
	entries := make([]models.ProviderEntry, len(ids))
	for i, id := range ids {
		entries[i] = models.ProviderEntry{ID: id, Name: id, Enabled: true, Priority: i}
	}
	return entries
}

func ids(entries []models.ProviderEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func assertOrder(t *testing.T, entries []models.ProviderEntry, want ...string) {
	t.Helper()
	got := ids(entries)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	for i, e := range entries {
		if e.Priority != i {
			t.Fatalf("entry %s has priority %d, want dense %d", e.ID, e.Priority, i)
		}
	}
}

func TestReorderInsertsAtTargetPosition(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("a", "b", "c"))

	got, err := chain.Reorder(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, got, "b", "c", "a")
}

func TestReorderInverseRestoresOriginalOrder(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("a", "b", "c"))

	got, err := chain.Reorder(context.Background(), "a", "c")
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, got, "b", "c", "a")

	got, err = chain.Reorder(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("inverse Reorder: %v", err)
	}
	assertOrder(t, got, "a", "b", "c")
}

func TestReorderTowardsFront(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("a", "b", "c"))

	got, err := chain.Reorder(context.Background(), "c", "a")
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, got, "c", "a", "b")
}

func TestReorderSameIDIsNoOp(t *testing.T) {
	eng := &fakeEngine{}
	chain := NewChain(eng, &fakeStore{}, seed("a", "b", "c"))

	got, err := chain.Reorder(context.Background(), "b", "b")
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}
	assertOrder(t, got, "a", "b", "c")
	if eng.putCalls != 0 {
		t.Error("no-op reorder must not call the engine")
	}
}

func TestReorderUnknownID(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("a", "b"))
	if _, err := chain.Reorder(context.Background(), "a", "zzz"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestReorderRollsBackOnEngineFailure(t *testing.T) {
	eng := &fakeEngine{putErr: errors.New("engine down")}
	chain := NewChain(eng, &fakeStore{}, seed("a", "b", "c"))

	if _, err := chain.Reorder(context.Background(), "a", "c"); err == nil {
		t.Fatal("expected engine failure to surface")
	}
	assertOrder(t, chain.Entries(), "a", "b", "c")
}

func TestSetDefaultPromotesAndRenumbers(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("a", "b", "c", "d"))

	got, err := chain.SetDefault(context.Background(), "c")
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	assertOrder(t, got, "c", "a", "b", "d")
}

func TestToggleEnabledKeepsPrioritySlot(t *testing.T) {
	store := &fakeStore{}
	chain := NewChain(&fakeEngine{}, store, seed("a", "b", "c"))

	if err := chain.ToggleEnabled(context.Background(), "b", false); err != nil {
		t.Fatalf("ToggleEnabled: %v", err)
	}

	entries := chain.Entries()
	assertOrder(t, entries, "a", "b", "c")
	if entries[1].Enabled {
		t.Error("b still enabled")
	}

	// Re-enabling restores the same relative position.
	if err := chain.ToggleEnabled(context.Background(), "b", true); err != nil {
		t.Fatalf("ToggleEnabled: %v", err)
	}
	entries = chain.Entries()
	assertOrder(t, entries, "a", "b", "c")
	if !entries[1].Enabled {
		t.Error("b not re-enabled")
	}
	if len(store.saved) == 0 {
		t.Error("known-good state not persisted")
	}
}

func TestToggleEnabledRollsBackOnEngineFailure(t *testing.T) {
	eng := &fakeEngine{patchErr: errors.New("engine down")}
	chain := NewChain(eng, &fakeStore{}, seed("a", "b"))

	if err := chain.ToggleEnabled(context.Background(), "a", false); err == nil {
		t.Fatal("expected engine failure to surface")
	}
	if !chain.Entries()[0].Enabled {
		t.Error("a must stay enabled after rollback")
	}
}

func TestApplyProviderSetForceDisablesAbsent(t *testing.T) {
	chain := NewChain(&fakeEngine{}, &fakeStore{}, seed("x", "y", "z"))

	got, err := chain.ApplyProviderSet(context.Background(), []models.TemplateProvider{
		{ID: "z", Enabled: true, Priority: 0},
		{ID: "x", Enabled: true, Priority: 1},
	})
	if err != nil {
		t.Fatalf("ApplyProviderSet: %v", err)
	}

	// y is absent from the template's set: force-disabled, priority kept.
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	byID := make(map[string]models.ProviderEntry)
	for _, e := range got {
		byID[e.ID] = e
	}
	if byID["y"].Enabled {
		t.Error("y must be force-disabled")
	}
	if byID["y"].Priority != 1 {
		t.Errorf("y priority = %d, want original 1", byID["y"].Priority)
	}
	if byID["z"].Priority != 0 || byID["x"].Priority != 1 {
		t.Errorf("template priorities not applied: z=%d x=%d", byID["z"].Priority, byID["x"].Priority)
	}
	// Sorted ascending; the x/y tie at priority 1 keeps array order, x after
	// z, y after x.
	if got[0].ID != "z" {
		t.Errorf("first entry = %s, want z", got[0].ID)
	}
}

func TestPersistAdoptsCanonicalList(t *testing.T) {
	eng := &fakeEngine{canonical: []models.ProviderEntry{
		{ID: "b", Name: "b", Enabled: true, Priority: 4},
		{ID: "a", Name: "a", Enabled: true, Priority: 9},
	}}
	chain := NewChain(eng, &fakeStore{}, seed("a", "b"))

	got, err := chain.SetDefault(context.Background(), "b")
	if err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	// The engine's array wins and gets renumbered densely.
	assertOrder(t, got, "b", "a")
}

func TestLoadPersistedReplacesSeed(t *testing.T) {
	store := &fakeStore{saved: seed("c", "a", "b")}
	chain := NewChain(&fakeEngine{}, store, seed("a", "b", "c"))

	if err := chain.LoadPersisted(context.Background()); err != nil {
		t.Fatalf("LoadPersisted: %v", err)
	}
	assertOrder(t, chain.Entries(), "c", "a", "b")
}
