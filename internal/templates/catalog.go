package templates

import (
	"github.com/pelangilabs/rainbowd/internal/models"
)

// Built-in template catalog. Order is fixed and significant: the match
// detector returns the first template whose projection equals the live
// config, so catalog order breaks ties.
//
// Several fixtures carry different threshold values in the tiers block and
// the llm.thresholds block for the same tier (t3-balanced, t5-tiered-hybrid).
// Both values are kept independently; the engine decides which one applies
// at each stage. Do not reconcile them.

func fp(v float64) *float64 { return &v }

func builtinCatalog() []models.ClassificationTemplate {
	return []models.ClassificationTemplate{
		{
			ID:          "t1-emergency-first",
			Name:        "Emergency First",
			Description: "Regex emergencies only, everything else goes straight to the LLM",
			Tiers: map[string]models.TierSettings{
				models.TierEmergency: {Enabled: true, ContextMessages: 0},
				models.TierFuzzy:     {Enabled: false, ContextMessages: 0, Threshold: fp(0.85)},
				models.TierSemantic:  {Enabled: false, ContextMessages: 0, Threshold: fp(0.75)},
				models.TierLLM:       {Enabled: true, ContextMessages: 5},
			},
			ConversationState: models.ConversationState{
				TrackLastIntent:    false,
				TrackSlots:         false,
				MaxHistoryMessages: 5,
				ContextTTLMinutes:  30,
			},
			LLM: models.LLMSettings{
				DefaultProviderID:  "openai",
				Thresholds:         map[string]float64{"fuzzy": 0.85, "semantic": 0.75},
				MaxTokens:          300,
				Temperature:        0.3,
				RateLimitPerMinute: 60,
			},
			Providers: []models.TemplateProvider{
				{ID: "openai", Enabled: true, Priority: 0},
			},
		},
		{
			ID:          "t2-fuzzy-heavy",
			Name:        "Fuzzy Heavy",
			Description: "Aggressive fuzzy matching against the static reply catalog, low LLM usage",
			Tiers: map[string]models.TierSettings{
				models.TierEmergency: {Enabled: true, ContextMessages: 0},
				models.TierFuzzy:     {Enabled: true, ContextMessages: 2, Threshold: fp(0.72)},
				models.TierSemantic:  {Enabled: false, ContextMessages: 0, Threshold: fp(0.75)},
				models.TierLLM:       {Enabled: true, ContextMessages: 3},
			},
			ConversationState: models.ConversationState{
				TrackLastIntent:    true,
				TrackSlots:         false,
				MaxHistoryMessages: 10,
				ContextTTLMinutes:  60,
			},
			LLM: models.LLMSettings{
				DefaultProviderID:  "openai",
				Thresholds:         map[string]float64{"fuzzy": 0.72, "semantic": 0.75},
				MaxTokens:          256,
				Temperature:        0.2,
				RateLimitPerMinute: 30,
			},
			Providers: []models.TemplateProvider{
				{ID: "openai", Enabled: true, Priority: 0},
				{ID: "ollama", Enabled: true, Priority: 1},
			},
		},
		{
			// The tiers block and the llm.thresholds block deliberately
			// disagree on the semantic threshold (0.67 vs 0.70); this is
			// tuning data inherited from production, keep the split.
			ID:          "t3-balanced",
			Name:        "Balanced",
			Description: "All four tiers enabled with mid-range thresholds",
			Tiers: map[string]models.TierSettings{
				models.TierEmergency: {Enabled: true, ContextMessages: 0},
				models.TierFuzzy:     {Enabled: true, ContextMessages: 3, Threshold: fp(0.80)},
				models.TierSemantic:  {Enabled: true, ContextMessages: 5, Threshold: fp(0.67)},
				models.TierLLM:       {Enabled: true, ContextMessages: 8},
			},
			ConversationState: models.ConversationState{
				TrackLastIntent:    true,
				TrackSlots:         true,
				MaxHistoryMessages: 15,
				ContextTTLMinutes:  120,
			},
			LLM: models.LLMSettings{
				DefaultProviderID:  "openai",
				Thresholds:         map[string]float64{"fuzzy": 0.80, "semantic": 0.70},
				MaxTokens:          512,
				Temperature:        0.5,
				RateLimitPerMinute: 60,
			},
			Providers: []models.TemplateProvider{
				{ID: "openai", Enabled: true, Priority: 0},
				{ID: "anthropic", Enabled: true, Priority: 1},
			},
		},
		{
			ID:          "t4-semantic-precise",
			Name:        "Semantic Precise",
			Description: "High semantic threshold, most uncertain traffic reaches the LLM",
			Tiers: map[string]models.TierSettings{
				models.TierEmergency: {Enabled: true, ContextMessages: 0},
				models.TierFuzzy:     {Enabled: true, ContextMessages: 2, Threshold: fp(0.88)},
				models.TierSemantic:  {Enabled: true, ContextMessages: 6, Threshold: fp(0.86)},
				models.TierLLM:       {Enabled: true, ContextMessages: 10},
			},
			ConversationState: models.ConversationState{
				TrackLastIntent:    true,
				TrackSlots:         true,
				MaxHistoryMessages: 20,
				ContextTTLMinutes:  180,
			},
			LLM: models.LLMSettings{
				DefaultProviderID:  "anthropic",
				Thresholds:         map[string]float64{"fuzzy": 0.88, "semantic": 0.86},
				MaxTokens:          768,
				Temperature:        0.4,
				RateLimitPerMinute: 90,
			},
			Providers: []models.TemplateProvider{
				{ID: "anthropic", Enabled: true, Priority: 0},
				{ID: "openai", Enabled: true, Priority: 1},
				{ID: "google", Enabled: true, Priority: 2},
			},
		},
		{
			// Same threshold split as t3-balanced, see note above.
			ID:          "t5-tiered-hybrid",
			Name:        "Tiered Hybrid",
			Description: "Full pipeline with a deep provider fallback chain",
			Tiers: map[string]models.TierSettings{
				models.TierEmergency: {Enabled: true, ContextMessages: 0},
				models.TierFuzzy:     {Enabled: true, ContextMessages: 3, Threshold: fp(0.82)},
				models.TierSemantic:  {Enabled: true, ContextMessages: 5, Threshold: fp(0.74)},
				models.TierLLM:       {Enabled: true, ContextMessages: 12},
			},
			ConversationState: models.ConversationState{
				TrackLastIntent:    true,
				TrackSlots:         true,
				MaxHistoryMessages: 25,
				ContextTTLMinutes:  240,
			},
			LLM: models.LLMSettings{
				DefaultProviderID:  "openai",
				Thresholds:         map[string]float64{"fuzzy": 0.85, "semantic": 0.78},
				MaxTokens:          1024,
				Temperature:        0.7,
				RateLimitPerMinute: 120,
			},
			Providers: []models.TemplateProvider{
				{ID: "openai", Enabled: true, Priority: 0},
				{ID: "anthropic", Enabled: true, Priority: 1},
				{ID: "google", Enabled: true, Priority: 2},
				{ID: "perplexity", Enabled: true, Priority: 3},
			},
		},
	}
}

// ToRoutingConfig copies a template's settings into a fresh routing config.
// The template itself is never mutated by application.
func ToRoutingConfig(t models.ClassificationTemplate) models.RoutingConfig {
	cfg := models.RoutingConfig{
		Tiers:             make(map[string]models.TierSettings, len(t.Tiers)),
		ConversationState: t.ConversationState,
		LLM:               t.LLM,
	}
	for name, tier := range t.Tiers {
		if tier.Threshold != nil {
			v := *tier.Threshold
			tier.Threshold = &v
		}
		cfg.Tiers[name] = tier
	}
	cfg.LLM.Thresholds = make(map[string]float64, len(t.LLM.Thresholds))
	for alias, v := range t.LLM.Thresholds {
		cfg.LLM.Thresholds[alias] = v
	}
	return cfg
}
