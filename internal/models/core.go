package models

import (
	"time"
)

// Core domain models

// Tier names used by the external classification engine.
const (
	TierEmergency = "tier1_emergency"
	TierFuzzy     = "tier2_fuzzy"
	TierSemantic  = "tier3_semantic"
	TierLLM       = "tier4_llm"
)

// TierNames lists all tiers in pipeline order.
var TierNames = []string{TierEmergency, TierFuzzy, TierSemantic, TierLLM}

// TierSettings configures one stage of the classification pipeline.
// Threshold is nil for tiers that do not score by similarity
// (tier1_emergency and tier4_llm).
type TierSettings struct {
	Enabled         bool     `json:"enabled"`
	ContextMessages int      `json:"context_messages"`
	Threshold       *float64 `json:"threshold,omitempty"`
}

// ConversationState configures how much dialogue context the engine keeps
// per guest conversation.
type ConversationState struct {
	TrackLastIntent    bool `json:"track_last_intent"`
	TrackSlots         bool `json:"track_slots"`
	MaxHistoryMessages int  `json:"max_history_messages"`
	ContextTTLMinutes  int  `json:"context_ttl_minutes"`
}

// LLMSettings configures the LLM fallback tier. Thresholds is keyed by tier
// alias (fuzzy, semantic) and is tuned independently from the per-tier
// thresholds; both values are kept as-is, the engine decides which applies.
type LLMSettings struct {
	DefaultProviderID  string             `json:"default_provider_id"`
	Thresholds         map[string]float64 `json:"thresholds"`
	MaxTokens          int                `json:"max_tokens"`
	Temperature        float64            `json:"temperature"`
	RateLimitPerMinute int                `json:"rate_limit_per_minute"`
}

// TemplateProvider is a provider slot inside a template's fallback chain.
type TemplateProvider struct {
	ID       string `json:"id"`
	Enabled  bool   `json:"enabled"`
	Priority int    `json:"priority"`
}

// ClassificationTemplate is a named bundle of tier, context and LLM settings
// applied atomically to the live routing configuration. Templates are never
// mutated by application; applying one copies its fields into RoutingConfig.
type ClassificationTemplate struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description"`
	Tiers             map[string]TierSettings `json:"tiers"`
	ConversationState ConversationState       `json:"conversation_state"`
	LLM               LLMSettings             `json:"llm"`
	Providers         []TemplateProvider      `json:"providers"`
	Custom            bool                    `json:"custom"`
	CreatedAt         time.Time               `json:"created_at,omitempty"`
}

// RoutingConfig is the live configuration consumed by the engine. Singleton
// per deployment; mutated only through the config applier.
type RoutingConfig struct {
	Tiers             map[string]TierSettings `json:"tiers"`
	ConversationState ConversationState       `json:"conversation_state"`
	LLM               LLMSettings             `json:"llm"`
}

// Clone returns a deep copy, used for pre-apply snapshots.
func (c RoutingConfig) Clone() RoutingConfig {
	out := c
	out.Tiers = make(map[string]TierSettings, len(c.Tiers))
	for name, tier := range c.Tiers {
		if tier.Threshold != nil {
			v := *tier.Threshold
			tier.Threshold = &v
		}
		out.Tiers[name] = tier
	}
	out.LLM.Thresholds = make(map[string]float64, len(c.LLM.Thresholds))
	for alias, v := range c.LLM.Thresholds {
		out.LLM.Thresholds[alias] = v
	}
	return out
}

// ProviderEntry is one LLM backend in the fallback chain. Priority values
// form a dense 0..N-1 ordering, lower tried first. Available reflects the
// engine's credential/health check and is never user-settable.
type ProviderEntry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Enabled   bool      `json:"enabled"`
	Priority  int       `json:"priority"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// PendingPrediction is a classifier output whose confidence fell in the
// uncertain band and awaits human validation.
type PendingPrediction struct {
	ID              string    `json:"id"`
	MessageText     string    `json:"message_text"`
	PredictedIntent string    `json:"predicted_intent"`
	Confidence      float64   `json:"confidence"`
	Tier            string    `json:"tier"`
	CreatedAt       time.Time `json:"created_at"`
}

// ValidationRecord is the terminal state of a reviewed prediction, kept in
// history so accuracy stats survive engine-side cleanup.
type ValidationRecord struct {
	ID              string    `json:"id" bson:"_id"`
	PredictionID    string    `json:"prediction_id" bson:"prediction_id"`
	MessageText     string    `json:"message_text" bson:"message_text"`
	PredictedIntent string    `json:"predicted_intent" bson:"predicted_intent"`
	ActualIntent    string    `json:"actual_intent" bson:"actual_intent"`
	WasCorrect      bool      `json:"was_correct" bson:"was_correct"`
	Confidence      float64   `json:"confidence" bson:"confidence"`
	Tier            string    `json:"tier" bson:"tier"`
	ValidatedAt     time.Time `json:"validated_at" bson:"validated_at"`
}

// Intent is a catalog entry used to populate correction dropdowns.
type Intent struct {
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProbeResult is one latency measurement against a provider backend.
type ProbeResult struct {
	ID         string    `json:"id" bson:"_id"`
	ProviderID string    `json:"provider_id" bson:"provider_id"`
	LatencyMs  int64     `json:"latency_ms" bson:"latency_ms"`
	OK         bool      `json:"ok" bson:"ok"`
	Error      string    `json:"error,omitempty" bson:"error,omitempty"`
	ProbedAt   time.Time `json:"probed_at" bson:"probed_at"`
}
