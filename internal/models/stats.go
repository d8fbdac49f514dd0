package models

import (
	"time"
)

// Statistics models

// TimeSeriesPoint represents a point in time-series data
type TimeSeriesPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`
}

// TierAccuracy represents validation accuracy for one classification tier
type TierAccuracy struct {
	Tier       string  `json:"tier"`
	Total      int     `json:"total"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
	AvgLatency float64 `json:"avg_latency,omitempty"`
}

// IntentCorrection represents how often a predicted intent was corrected
// to a given actual intent
type IntentCorrection struct {
	ActualIntent string  `json:"actual_intent"`
	Total        int     `json:"total"`
	Corrected    int     `json:"corrected"`
	AvgConfident float64 `json:"avg_confidence"`
}

// ReviewStats represents aggregated statistics over validated predictions
type ReviewStats struct {
	TotalValidated   int                `json:"total_validated"`
	TotalCorrect     int                `json:"total_correct"`
	Accuracy         float64            `json:"accuracy"`
	PendingTotal     int                `json:"pending_total"`
	ByTier           []TierAccuracy     `json:"by_tier"`
	TopCorrections   []IntentCorrection `json:"top_corrections"`
	ValidationTrends []TimeSeriesPoint  `json:"validation_trends,omitempty"`
	LastUpdated      time.Time          `json:"last_updated"`
}

// ProviderLatency represents the most recent probe outcome for a provider
type ProviderLatency struct {
	ProviderID string    `json:"provider_id"`
	LatencyMs  int64     `json:"latency_ms"`
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	ProbedAt   time.Time `json:"probed_at"`
}

// DailyReport is the summary produced by the 9 AM report job
type DailyReport struct {
	Date             string         `json:"date"`
	PendingTotal     int            `json:"pending_total"`
	ValidatedLastDay int            `json:"validated_last_day"`
	CorrectLastDay   int            `json:"correct_last_day"`
	Accuracy         float64        `json:"accuracy"`
	ByTier           []TierAccuracy `json:"by_tier"`
	ActiveTemplateID string         `json:"active_template_id"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
