package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// PendingCounter reports the current pending review total.
type PendingCounter interface {
	PendingTotal() int
}

// ActiveTemplateSource reports the currently active template id.
type ActiveTemplateSource interface {
	ActiveTemplateID() string
}

// ReportService builds the daily operations summary for the review queue.
type ReportService struct {
	db      db.NoSQLDatabase
	pending PendingCounter
	active  ActiveTemplateSource
}

// NewReportService creates a new report service
func NewReportService(database db.NoSQLDatabase, pending PendingCounter, active ActiveTemplateSource) *ReportService {
	return &ReportService{db: database, pending: pending, active: active}
}

// BuildDailyReport summarizes the last 24 hours of review activity.
func (s *ReportService) BuildDailyReport(ctx context.Context) (*models.DailyReport, error) {
	now := time.Now()
	start := now.Add(-24 * time.Hour)

	total, correct, err := s.db.GetReviewTotals(ctx, &start, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to get review totals: %w", err)
	}

	byTier, err := s.db.GetTierAccuracy(ctx, &start, &now)
	if err != nil {
		return nil, fmt.Errorf("failed to get tier accuracy: %w", err)
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	return &models.DailyReport{
		Date:             now.Format("2006-01-02"),
		PendingTotal:     s.pending.PendingTotal(),
		ValidatedLastDay: total,
		CorrectLastDay:   correct,
		Accuracy:         accuracy,
		ByTier:           byTier,
		ActiveTemplateID: s.active.ActiveTemplateID(),
		GeneratedAt:      now,
	}, nil
}

// FormatReport renders a report as plain text for logs and CLI output.
func FormatReport(report *models.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily review report for %s\n", report.Date)
	fmt.Fprintf(&b, "  Pending predictions: %d\n", report.PendingTotal)
	fmt.Fprintf(&b, "  Validated last 24h:  %d (%d correct, %.1f%% accuracy)\n",
		report.ValidatedLastDay, report.CorrectLastDay, report.Accuracy*100)

	active := report.ActiveTemplateID
	if active == "" {
		active = "custom"
	}
	fmt.Fprintf(&b, "  Active template:     %s\n", active)

	if len(report.ByTier) > 0 {
		fmt.Fprintf(&b, "  By tier:\n")
		for _, tier := range report.ByTier {
			fmt.Fprintf(&b, "    %-16s %d validated, %.1f%% accuracy\n",
				tier.Tier, tier.Total, tier.Accuracy*100)
		}
	}

	return b.String()
}
