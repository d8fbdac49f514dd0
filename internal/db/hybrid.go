package db

import (
	"context"
	"fmt"
	"time"

	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// Hybrid routes SQL entities to the SQL backend and history documents to
// the NoSQL backend behind the combined Database interface.
type Hybrid struct {
	sql   SQLDatabase
	nosql NoSQLDatabase
}

// NewHybrid combines a SQL and a NoSQL backend.
func NewHybrid(sql SQLDatabase, nosql NoSQLDatabase) *Hybrid {
	return &Hybrid{sql: sql, nosql: nosql}
}

// Connect connects both backends; a failure on either aborts.
func (h *Hybrid) Connect(ctx context.Context) error {
	if err := h.sql.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect SQL database: %w", err)
	}
	if err := h.nosql.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect NoSQL database: %w", err)
	}
	return nil
}

// Disconnect closes both backends, returning the first error.
func (h *Hybrid) Disconnect(ctx context.Context) error {
	sqlErr := h.sql.Disconnect(ctx)
	nosqlErr := h.nosql.Disconnect(ctx)
	if sqlErr != nil {
		return sqlErr
	}
	return nosqlErr
}

// Ping checks both backends.
func (h *Hybrid) Ping(ctx context.Context) error {
	if err := h.sql.Ping(ctx); err != nil {
		return fmt.Errorf("SQL database ping failed: %w", err)
	}
	if err := h.nosql.Ping(ctx); err != nil {
		return fmt.Errorf("NoSQL database ping failed: %w", err)
	}
	return nil
}

func (h *Hybrid) CreateCustomTemplate(ctx context.Context, template *models.ClassificationTemplate) error {
	return h.sql.CreateCustomTemplate(ctx, template)
}

func (h *Hybrid) GetCustomTemplate(ctx context.Context, id string) (*models.ClassificationTemplate, error) {
	return h.sql.GetCustomTemplate(ctx, id)
}

func (h *Hybrid) ListCustomTemplates(ctx context.Context) ([]*models.ClassificationTemplate, error) {
	return h.sql.ListCustomTemplates(ctx)
}

func (h *Hybrid) DeleteCustomTemplate(ctx context.Context, id string) error {
	return h.sql.DeleteCustomTemplate(ctx, id)
}

func (h *Hybrid) SaveRoutingConfig(ctx context.Context, cfg models.RoutingConfig, templateID string) error {
	return h.sql.SaveRoutingConfig(ctx, cfg, templateID)
}

func (h *Hybrid) GetRoutingConfig(ctx context.Context) (*models.RoutingConfig, string, error) {
	return h.sql.GetRoutingConfig(ctx)
}

func (h *Hybrid) SaveProviders(ctx context.Context, entries []models.ProviderEntry) error {
	return h.sql.SaveProviders(ctx, entries)
}

func (h *Hybrid) ListProviders(ctx context.Context) ([]models.ProviderEntry, error) {
	return h.sql.ListProviders(ctx)
}

func (h *Hybrid) CreateValidation(ctx context.Context, record *models.ValidationRecord) error {
	return h.nosql.CreateValidation(ctx, record)
}

func (h *Hybrid) ListValidations(ctx context.Context, filter shared.ValidationFilter) ([]*models.ValidationRecord, error) {
	return h.nosql.ListValidations(ctx, filter)
}

func (h *Hybrid) CreateProbeResult(ctx context.Context, result *models.ProbeResult) error {
	return h.nosql.CreateProbeResult(ctx, result)
}

func (h *Hybrid) ListProbeResults(ctx context.Context, filter shared.ProbeFilter) ([]*models.ProbeResult, error) {
	return h.nosql.ListProbeResults(ctx, filter)
}

func (h *Hybrid) LatestProbes(ctx context.Context) ([]models.ProviderLatency, error) {
	return h.nosql.LatestProbes(ctx)
}

func (h *Hybrid) GetReviewTotals(ctx context.Context, startTime, endTime *time.Time) (int, int, error) {
	return h.nosql.GetReviewTotals(ctx, startTime, endTime)
}

func (h *Hybrid) GetTierAccuracy(ctx context.Context, startTime, endTime *time.Time) ([]models.TierAccuracy, error) {
	return h.nosql.GetTierAccuracy(ctx, startTime, endTime)
}

func (h *Hybrid) GetIntentCorrections(ctx context.Context, limit int, startTime, endTime *time.Time) ([]models.IntentCorrection, error) {
	return h.nosql.GetIntentCorrections(ctx, limit, startTime, endTime)
}

func (h *Hybrid) GetValidationTrends(ctx context.Context, startTime, endTime time.Time) ([]models.TimeSeriesPoint, error) {
	return h.nosql.GetValidationTrends(ctx, startTime, endTime)
}
