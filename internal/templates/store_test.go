package templates

import (
	"context"
	"errors"
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// fakeSQLDB is an in-memory stand-in for the SQLite store.
type fakeSQLDB struct {
	templates []*models.ClassificationTemplate
}

func (f *fakeSQLDB) Connect(ctx context.Context) error    { return nil }
func (f *fakeSQLDB) Disconnect(ctx context.Context) error { return nil }
func (f *fakeSQLDB) Ping(ctx context.Context) error       { return nil }

func (f *fakeSQLDB) CreateCustomTemplate(ctx context.Context, template *models.ClassificationTemplate) error {
	f.templates = append(f.templates, template)
	return nil
}

func (f *fakeSQLDB) GetCustomTemplate(ctx context.Context, id string) (*models.ClassificationTemplate, error) {
	for _, t := range f.templates {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeSQLDB) ListCustomTemplates(ctx context.Context) ([]*models.ClassificationTemplate, error) {
	return f.templates, nil
}

func (f *fakeSQLDB) DeleteCustomTemplate(ctx context.Context, id string) error {
	for i, t := range f.templates {
		if t.ID == id {
			f.templates = append(f.templates[:i], f.templates[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeSQLDB) SaveRoutingConfig(ctx context.Context, cfg models.RoutingConfig, templateID string) error {
	return nil
}

func (f *fakeSQLDB) GetRoutingConfig(ctx context.Context) (*models.RoutingConfig, string, error) {
	return nil, "", nil
}

func (f *fakeSQLDB) SaveProviders(ctx context.Context, entries []models.ProviderEntry) error {
	return nil
}

func (f *fakeSQLDB) ListProviders(ctx context.Context) ([]models.ProviderEntry, error) {
	return nil, nil
}

func TestListTemplatesBuiltinsFirst(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&fakeSQLDB{})

	snapshot := ToRoutingConfig(builtinCatalog()[0])
	id, err := store.SaveCustomTemplate(ctx, "My Setup", snapshot)
	if err != nil {
		t.Fatalf("SaveCustomTemplate: %v", err)
	}

	list, err := store.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}

	if len(list) != 6 {
		t.Fatalf("got %d templates, want 6", len(list))
	}
	for i, tmpl := range list[:5] {
		if tmpl.Custom {
			t.Errorf("position %d: built-in expected, got custom %s", i, tmpl.ID)
		}
	}
	last := list[5]
	if last.ID != id || !last.Custom {
		t.Errorf("last template = %s (custom=%v), want %s after built-ins", last.ID, last.Custom, id)
	}
}

func TestSaveCustomTemplateGeneratesMonotonicIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&fakeSQLDB{})
	snapshot := ToRoutingConfig(builtinCatalog()[0])

	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 10; i++ {
		id, err := store.SaveCustomTemplate(ctx, "snap", snapshot)
		if err != nil {
			t.Fatalf("SaveCustomTemplate: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate custom id %s", id)
		}
		seen[id] = true
		if prev != "" && id <= prev {
			t.Fatalf("id %s not after %s", id, prev)
		}
		prev = id
	}
}

func TestSaveCustomTemplateRequiresName(t *testing.T) {
	store := NewStore(&fakeSQLDB{})
	if _, err := store.SaveCustomTemplate(context.Background(), "", models.RoutingConfig{}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestSaveCustomTemplateSnapshotsTiersOnly(t *testing.T) {
	ctx := context.Background()
	fake := &fakeSQLDB{}
	store := NewStore(fake)

	snapshot := ToRoutingConfig(builtinCatalog()[2])
	id, err := store.SaveCustomTemplate(ctx, "snap", snapshot)
	if err != nil {
		t.Fatalf("SaveCustomTemplate: %v", err)
	}

	saved, err := store.GetTemplate(ctx, id)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if !saved.Custom {
		t.Error("saved template not marked custom")
	}
	if saved.LLM.MaxTokens != 0 || len(saved.Providers) != 0 {
		t.Error("custom template must not capture LLM settings or providers")
	}
	if len(saved.Tiers) != len(snapshot.Tiers) {
		t.Errorf("saved %d tiers, want %d", len(saved.Tiers), len(snapshot.Tiers))
	}

	// The snapshot must be detached from the live config.
	tier := snapshot.Tiers[models.TierSemantic]
	*tier.Threshold = 0.99
	if *saved.Tiers[models.TierSemantic].Threshold == 0.99 {
		t.Error("saved template shares threshold pointer with live config")
	}
}

func TestGetTemplate(t *testing.T) {
	ctx := context.Background()
	store := NewStore(&fakeSQLDB{})

	tmpl, err := store.GetTemplate(ctx, "t2-fuzzy-heavy")
	if err != nil {
		t.Fatalf("GetTemplate builtin: %v", err)
	}
	if tmpl.Name != "Fuzzy Heavy" {
		t.Errorf("got %q", tmpl.Name)
	}

	if _, err := store.GetTemplate(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteCustomTemplateRejectsBuiltins(t *testing.T) {
	store := NewStore(&fakeSQLDB{})
	if err := store.DeleteCustomTemplate(context.Background(), "t1-emergency-first"); err == nil {
		t.Fatal("expected error deleting built-in")
	}
}
