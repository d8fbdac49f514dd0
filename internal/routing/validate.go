package routing

import (
	"fmt"
	"strings"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// ValidationError reports every offending field of a rejected configuration
// so the operator can fix them in one pass. It is raised before any network
// call; a config that fails validation never reaches the engine.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Fields, ", ")
}

// Validate checks a routing config against the data model ranges. Threshold
// ordering across tiers is not enforced; production templates tune tier3
// above tier2.
func Validate(cfg models.RoutingConfig) error {
	var fields []string

	for _, name := range models.TierNames {
		tier, ok := cfg.Tiers[name]
		if !ok {
			fields = append(fields, fmt.Sprintf("tiers.%s: missing", name))
			continue
		}
		if tier.ContextMessages < 0 {
			fields = append(fields, fmt.Sprintf("tiers.%s.context_messages: must be >= 0", name))
		}
		if tier.Threshold != nil && (*tier.Threshold < 0 || *tier.Threshold > 1) {
			fields = append(fields, fmt.Sprintf("tiers.%s.threshold: must be in [0,1]", name))
		}
	}

	if cfg.ConversationState.MaxHistoryMessages <= 0 {
		fields = append(fields, "conversation_state.max_history_messages: must be > 0")
	}
	if cfg.ConversationState.ContextTTLMinutes <= 0 {
		fields = append(fields, "conversation_state.context_ttl_minutes: must be > 0")
	}

	if cfg.LLM.MaxTokens <= 0 {
		fields = append(fields, "llm.max_tokens: must be > 0")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		fields = append(fields, "llm.temperature: must be in [0,2]")
	}
	if cfg.LLM.RateLimitPerMinute < 0 {
		fields = append(fields, "llm.rate_limit_per_minute: must be >= 0")
	}
	for alias, v := range cfg.LLM.Thresholds {
		if v < 0 || v > 1 {
			fields = append(fields, fmt.Sprintf("llm.thresholds.%s: must be in [0,1]", alias))
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
