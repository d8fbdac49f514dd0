package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

type stubHistory struct {
	total   int
	correct int
	byTier  []models.TierAccuracy
}

func (s *stubHistory) Connect(ctx context.Context) error    { return nil }
func (s *stubHistory) Disconnect(ctx context.Context) error { return nil }
func (s *stubHistory) Ping(ctx context.Context) error       { return nil }

func (s *stubHistory) CreateValidation(ctx context.Context, record *models.ValidationRecord) error {
	return nil
}

func (s *stubHistory) ListValidations(ctx context.Context, filter shared.ValidationFilter) ([]*models.ValidationRecord, error) {
	return nil, nil
}

func (s *stubHistory) CreateProbeResult(ctx context.Context, result *models.ProbeResult) error {
	return nil
}

func (s *stubHistory) ListProbeResults(ctx context.Context, filter shared.ProbeFilter) ([]*models.ProbeResult, error) {
	return nil, nil
}

func (s *stubHistory) LatestProbes(ctx context.Context) ([]models.ProviderLatency, error) {
	return nil, nil
}

func (s *stubHistory) GetReviewTotals(ctx context.Context, startTime, endTime *time.Time) (int, int, error) {
	return s.total, s.correct, nil
}

func (s *stubHistory) GetTierAccuracy(ctx context.Context, startTime, endTime *time.Time) ([]models.TierAccuracy, error) {
	return s.byTier, nil
}

func (s *stubHistory) GetIntentCorrections(ctx context.Context, limit int, startTime, endTime *time.Time) ([]models.IntentCorrection, error) {
	return nil, nil
}

func (s *stubHistory) GetValidationTrends(ctx context.Context, startTime, endTime time.Time) ([]models.TimeSeriesPoint, error) {
	return []models.TimeSeriesPoint{{Count: 4}}, nil
}

type stubPending int

func (s stubPending) PendingTotal() int { return int(s) }

type stubActive string

func (s stubActive) ActiveTemplateID() string { return string(s) }

func TestBuildDailyReport(t *testing.T) {
	history := &stubHistory{
		total:   40,
		correct: 30,
		byTier: []models.TierAccuracy{
			{Tier: models.TierSemantic, Total: 25, Correct: 20, Accuracy: 0.8},
		},
	}
	svc := NewReportService(history, stubPending(7), stubActive("t3-balanced"))

	report, err := svc.BuildDailyReport(context.Background())
	if err != nil {
		t.Fatalf("BuildDailyReport: %v", err)
	}

	if report.PendingTotal != 7 {
		t.Errorf("pending = %d", report.PendingTotal)
	}
	if report.ValidatedLastDay != 40 || report.CorrectLastDay != 30 {
		t.Errorf("totals = %d/%d", report.ValidatedLastDay, report.CorrectLastDay)
	}
	if report.Accuracy != 0.75 {
		t.Errorf("accuracy = %v, want 0.75", report.Accuracy)
	}
	if report.ActiveTemplateID != "t3-balanced" {
		t.Errorf("active = %q", report.ActiveTemplateID)
	}
}

func TestBuildDailyReportZeroActivity(t *testing.T) {
	svc := NewReportService(&stubHistory{}, stubPending(0), stubActive(""))

	report, err := svc.BuildDailyReport(context.Background())
	if err != nil {
		t.Fatalf("BuildDailyReport: %v", err)
	}
	if report.Accuracy != 0 {
		t.Errorf("accuracy = %v, want 0 without division", report.Accuracy)
	}
}

func TestFormatReport(t *testing.T) {
	report := &models.DailyReport{
		Date:             "2026-08-30",
		PendingTotal:     7,
		ValidatedLastDay: 40,
		CorrectLastDay:   30,
		Accuracy:         0.75,
		ByTier: []models.TierAccuracy{
			{Tier: models.TierSemantic, Total: 25, Accuracy: 0.8},
		},
	}

	text := FormatReport(report)
	for _, want := range []string{"2026-08-30", "Pending predictions: 7", "75.0% accuracy", "custom", models.TierSemantic} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestGetReviewStatsIncludesTrendsOnlyWithRange(t *testing.T) {
	svc := NewStatsService(&stubHistory{total: 10, correct: 5})
	ctx := context.Background()

	stats, err := svc.GetReviewStats(ctx, 3, nil, nil)
	if err != nil {
		t.Fatalf("GetReviewStats: %v", err)
	}
	if stats.Accuracy != 0.5 || stats.PendingTotal != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ValidationTrends != nil {
		t.Error("trends must be omitted without a time range")
	}

	start := time.Now().Add(-24 * time.Hour)
	end := time.Now()
	stats, err = svc.GetReviewStats(ctx, 3, &start, &end)
	if err != nil {
		t.Fatalf("GetReviewStats with range: %v", err)
	}
	if len(stats.ValidationTrends) != 1 {
		t.Errorf("trends = %+v", stats.ValidationTrends)
	}
}
