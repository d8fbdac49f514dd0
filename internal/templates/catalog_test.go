package templates

import (
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

func TestBalancedTemplateKeepsThresholdSplit(t *testing.T) {
	var balanced *models.ClassificationTemplate
	for _, tmpl := range builtinCatalog() {
		if tmpl.ID == "t3-balanced" {
			b := tmpl
			balanced = &b
			break
		}
	}
	if balanced == nil {
		t.Fatal("t3-balanced not in catalog")
	}

	// The tier threshold and the llm.thresholds alias for the same tier are
	// tuned independently and must not be reconciled.
	tier := balanced.Tiers[models.TierSemantic]
	if tier.Threshold == nil || *tier.Threshold != 0.67 {
		t.Errorf("tier3 threshold = %v, want 0.67", tier.Threshold)
	}
	if got := balanced.LLM.Thresholds["semantic"]; got != 0.70 {
		t.Errorf("llm.thresholds.semantic = %v, want 0.70", got)
	}
}

func TestCatalogOrderAndIDs(t *testing.T) {
	want := []string{
		"t1-emergency-first",
		"t2-fuzzy-heavy",
		"t3-balanced",
		"t4-semantic-precise",
		"t5-tiered-hybrid",
	}

	catalog := builtinCatalog()
	if len(catalog) != len(want) {
		t.Fatalf("catalog has %d templates, want %d", len(catalog), len(want))
	}
	for i, id := range want {
		if catalog[i].ID != id {
			t.Errorf("catalog[%d].ID = %q, want %q", i, catalog[i].ID, id)
		}
		if catalog[i].Custom {
			t.Errorf("built-in %s marked custom", id)
		}
	}
}

func TestCatalogTemplatesAreValidFixtures(t *testing.T) {
	for _, tmpl := range builtinCatalog() {
		for _, name := range models.TierNames {
			if _, ok := tmpl.Tiers[name]; !ok {
				t.Errorf("%s: missing tier %s", tmpl.ID, name)
			}
		}
		if len(tmpl.Providers) == 0 {
			t.Errorf("%s: no providers", tmpl.ID)
		}
		for i, p := range tmpl.Providers {
			if p.Priority != i {
				t.Errorf("%s: provider %s priority %d, want dense %d", tmpl.ID, p.ID, p.Priority, i)
			}
		}
	}
}

func TestToRoutingConfigDeepCopies(t *testing.T) {
	tmpl := builtinCatalog()[2]
	cfg := ToRoutingConfig(tmpl)

	tier := cfg.Tiers[models.TierSemantic]
	*tier.Threshold = 0.99
	cfg.LLM.Thresholds["semantic"] = 0.99

	if *tmpl.Tiers[models.TierSemantic].Threshold != 0.67 {
		t.Error("mutating applied config leaked into the template tier threshold")
	}
	if tmpl.LLM.Thresholds["semantic"] != 0.70 {
		t.Error("mutating applied config leaked into the template llm thresholds")
	}
}
