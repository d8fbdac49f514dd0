package templates

import (
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// entriesFromTemplate builds a live provider chain that mirrors a template's
// provider set.
func entriesFromTemplate(t models.ClassificationTemplate) []models.ProviderEntry {
	entries := make([]models.ProviderEntry, 0, len(t.Providers))
	for _, tp := range t.Providers {
		entries = append(entries, models.ProviderEntry{
			ID:       tp.ID,
			Name:     tp.ID,
			Enabled:  tp.Enabled,
			Priority: tp.Priority,
		})
	}
	return entries
}

func TestDetectActiveTemplateRoundTrip(t *testing.T) {
	catalog := builtinCatalog()

	for _, tmpl := range catalog {
		cfg := ToRoutingConfig(tmpl)
		got := DetectActiveTemplate(cfg, entriesFromTemplate(tmpl), catalog)
		if got != tmpl.ID {
			t.Errorf("applying %s: detected %q, want %q", tmpl.ID, got, tmpl.ID)
		}
	}
}

func TestDetectActiveTemplateTemperatureTolerance(t *testing.T) {
	catalog := builtinCatalog()
	tmpl := catalog[2] // t3-balanced
	entries := entriesFromTemplate(tmpl)

	tests := []struct {
		name  string
		drift float64
		want  string
	}{
		{"exact", 0, tmpl.ID},
		{"within tolerance", 0.009, tmpl.ID},
		{"at tolerance", 0.01, tmpl.ID},
		{"beyond tolerance", 0.02, ""},
		{"negative within", -0.009, tmpl.ID},
		{"negative beyond", -0.02, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ToRoutingConfig(tmpl)
			cfg.LLM.Temperature += tt.drift
			if got := DetectActiveTemplate(cfg, entries, catalog); got != tt.want {
				t.Errorf("drift %v: detected %q, want %q", tt.drift, got, tt.want)
			}
		})
	}
}

func TestDetectActiveTemplateDemotesToCustom(t *testing.T) {
	catalog := builtinCatalog()
	tmpl := catalog[2]

	tests := []struct {
		name   string
		mutate func(*models.RoutingConfig, []models.ProviderEntry) []models.ProviderEntry
	}{
		{
			"max tokens changed",
			func(cfg *models.RoutingConfig, e []models.ProviderEntry) []models.ProviderEntry {
				cfg.LLM.MaxTokens++
				return e
			},
		},
		{
			"rate limit changed",
			func(cfg *models.RoutingConfig, e []models.ProviderEntry) []models.ProviderEntry {
				cfg.LLM.RateLimitPerMinute = 45
				return e
			},
		},
		{
			"provider disabled",
			func(cfg *models.RoutingConfig, e []models.ProviderEntry) []models.ProviderEntry {
				e[1].Enabled = false
				return e
			},
		},
		{
			"provider order swapped",
			func(cfg *models.RoutingConfig, e []models.ProviderEntry) []models.ProviderEntry {
				e[0].Priority, e[1].Priority = e[1].Priority, e[0].Priority
				return e
			},
		},
		{
			"extra enabled provider",
			func(cfg *models.RoutingConfig, e []models.ProviderEntry) []models.ProviderEntry {
				return append(e, models.ProviderEntry{ID: "ollama", Enabled: true, Priority: 2})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ToRoutingConfig(tmpl)
			live := tt.mutate(&cfg, entriesFromTemplate(tmpl))
			if got := DetectActiveTemplate(cfg, live, catalog); got != "" {
				t.Errorf("detected %q, want custom", got)
			}
		})
	}
}

func TestDetectActiveTemplateIgnoresOutsideProjection(t *testing.T) {
	catalog := builtinCatalog()
	tmpl := catalog[3] // t4-semantic-precise
	entries := entriesFromTemplate(tmpl)

	cfg := ToRoutingConfig(tmpl)
	// Fields outside the projection must not demote the indicator.
	tier := cfg.Tiers[models.TierFuzzy]
	tier.ContextMessages = 9
	cfg.Tiers[models.TierFuzzy] = tier
	cfg.ConversationState.MaxHistoryMessages = 99

	if got := DetectActiveTemplate(cfg, entries, catalog); got != tmpl.ID {
		t.Errorf("detected %q, want %q", got, tmpl.ID)
	}
}

func TestDetectActiveTemplateFirstMatchWins(t *testing.T) {
	base := builtinCatalog()[0]
	clone := base
	clone.ID = "t-shadow"

	catalog := []models.ClassificationTemplate{base, clone}
	cfg := ToRoutingConfig(base)

	if got := DetectActiveTemplate(cfg, entriesFromTemplate(base), catalog); got != base.ID {
		t.Errorf("detected %q, want first match %q", got, base.ID)
	}
}

func TestDetectActiveTemplateSkipsCustomTemplates(t *testing.T) {
	// A custom template snapshots only tiers; a zeroed live config must not
	// accidentally match it.
	custom := models.ClassificationTemplate{ID: "t-custom-1", Custom: true}
	cfg := models.RoutingConfig{}

	if got := DetectActiveTemplate(cfg, nil, []models.ClassificationTemplate{custom}); got != "" {
		t.Errorf("detected %q, want custom", got)
	}
}
