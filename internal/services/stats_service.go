package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// StatsService provides business logic for review statistics
type StatsService struct {
	db db.NoSQLDatabase
}

// NewStatsService creates a new stats service
func NewStatsService(database db.NoSQLDatabase) *StatsService {
	return &StatsService{db: database}
}

// GetReviewStats aggregates validation history into one dashboard payload.
// pendingTotal comes from the caller's review session so the number matches
// what the operator currently sees.
func (s *StatsService) GetReviewStats(ctx context.Context, pendingTotal int, startTime, endTime *time.Time) (*models.ReviewStats, error) {
	total, correct, err := s.db.GetReviewTotals(ctx, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get review totals: %w", err)
	}

	byTier, err := s.db.GetTierAccuracy(ctx, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier accuracy: %w", err)
	}

	corrections, err := s.db.GetIntentCorrections(ctx, 10, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to get intent corrections: %w", err)
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	stats := &models.ReviewStats{
		TotalValidated: total,
		TotalCorrect:   correct,
		Accuracy:       accuracy,
		PendingTotal:   pendingTotal,
		ByTier:         byTier,
		TopCorrections: corrections,
		LastUpdated:    time.Now(),
	}

	if startTime != nil && endTime != nil {
		trends, err := s.db.GetValidationTrends(ctx, *startTime, *endTime)
		if err != nil {
			return nil, fmt.Errorf("failed to get validation trends: %w", err)
		}
		stats.ValidationTrends = trends
	}

	return stats, nil
}

// ListValidations returns validation history for the history view
func (s *StatsService) ListValidations(ctx context.Context, filter shared.ValidationFilter) ([]*models.ValidationRecord, error) {
	return s.db.ListValidations(ctx, filter)
}

// GetProviderLatencies returns the most recent probe outcome per provider
func (s *StatsService) GetProviderLatencies(ctx context.Context) ([]models.ProviderLatency, error) {
	return s.db.LatestProbes(ctx)
}
