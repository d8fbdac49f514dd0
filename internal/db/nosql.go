package db

import (
	"context"
	"time"

	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// NoSQLDatabase defines the interface for NoSQL database operations
// (validation history and probe results)
type NoSQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Validation history operations
	CreateValidation(ctx context.Context, record *models.ValidationRecord) error
	ListValidations(ctx context.Context, filter shared.ValidationFilter) ([]*models.ValidationRecord, error)

	// Probe history operations
	CreateProbeResult(ctx context.Context, result *models.ProbeResult) error
	ListProbeResults(ctx context.Context, filter shared.ProbeFilter) ([]*models.ProbeResult, error)
	LatestProbes(ctx context.Context) ([]models.ProviderLatency, error)

	// Statistics operations (aggregated on demand)
	GetReviewTotals(ctx context.Context, startTime, endTime *time.Time) (total int, correct int, err error)
	GetTierAccuracy(ctx context.Context, startTime, endTime *time.Time) ([]models.TierAccuracy, error)
	GetIntentCorrections(ctx context.Context, limit int, startTime, endTime *time.Time) ([]models.IntentCorrection, error)
	GetValidationTrends(ctx context.Context, startTime, endTime time.Time) ([]models.TimeSeriesPoint, error)
}
