package templates

import (
	"math"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// temperatureTolerance absorbs float drift between a template's temperature
// and the value echoed back through the engine and UI.
const temperatureTolerance = 0.01

// projection is the comparable subset of a configuration used for template
// matching. Fields outside the projection (descriptions, tier context
// windows, conversation state) do not participate.
type projection struct {
	MaxTokens          int
	Temperature        float64
	RateLimitPerMinute int
	Providers          map[string]int // enabled provider id -> priority
}

func projectConfig(cfg models.RoutingConfig, providers []models.ProviderEntry) projection {
	p := projection{
		MaxTokens:          cfg.LLM.MaxTokens,
		Temperature:        cfg.LLM.Temperature,
		RateLimitPerMinute: cfg.LLM.RateLimitPerMinute,
		Providers:          make(map[string]int),
	}
	for _, entry := range providers {
		if entry.Enabled {
			p.Providers[entry.ID] = entry.Priority
		}
	}
	return p
}

func projectTemplate(t models.ClassificationTemplate) projection {
	p := projection{
		MaxTokens:          t.LLM.MaxTokens,
		Temperature:        t.LLM.Temperature,
		RateLimitPerMinute: t.LLM.RateLimitPerMinute,
		Providers:          make(map[string]int),
	}
	for _, tp := range t.Providers {
		if tp.Enabled {
			p.Providers[tp.ID] = tp.Priority
		}
	}
	return p
}

func (p projection) equals(other projection) bool {
	if p.MaxTokens != other.MaxTokens {
		return false
	}
	if p.RateLimitPerMinute != other.RateLimitPerMinute {
		return false
	}
	// The epsilon keeps drift of exactly the tolerance inside the match
	// despite float64 rounding.
	if math.Abs(p.Temperature-other.Temperature) > temperatureTolerance+1e-9 {
		return false
	}
	if len(p.Providers) != other.providerCount() {
		return false
	}
	for id, priority := range other.Providers {
		got, ok := p.Providers[id]
		if !ok || got != priority {
			return false
		}
	}
	return true
}

func (p projection) providerCount() int {
	return len(p.Providers)
}

// DetectActiveTemplate returns the id of the first catalog template whose
// settings projection structurally matches the live configuration, or ""
// when no template matches exactly (the UI shows "Custom"). Catalog order
// breaks ties: the first match wins.
func DetectActiveTemplate(liveCfg models.RoutingConfig, liveProviders []models.ProviderEntry, catalog []models.ClassificationTemplate) string {
	live := projectConfig(liveCfg, liveProviders)

	for _, t := range catalog {
		// Custom templates snapshot tiers only; they have no projection to
		// match against.
		if t.Custom {
			continue
		}
		tp := projectTemplate(t)
		// Cheap pre-filter: a template with a different enabled-provider
		// count can never match.
		if tp.providerCount() != live.providerCount() {
			continue
		}
		if live.equals(tp) {
			return t.ID
		}
	}
	return ""
}
