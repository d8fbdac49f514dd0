package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// MongoDB implements the NoSQLDatabase interface for MongoDB
type MongoDB struct {
	client   *mongo.Client
	database *mongo.Database
	config   *models.Config
}

const (
	collValidations = "validations"
	collProbes      = "probes"
)

// New creates a new MongoDB database instance
func New(config *models.Config) (*MongoDB, error) {
	return &MongoDB{
		config: config,
	}, nil
}

// Connect establishes connection to MongoDB
func (m *MongoDB) Connect(ctx context.Context) error {
	clientOptions := options.Client().ApplyURI(m.config.URI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m.client = client
	m.database = client.Database(m.config.Database)

	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}
	return nil
}

// Ping checks the database connection
func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("not connected to database")
	}
	return m.client.Ping(ctx, nil)
}

// GetDatabase exposes the underlying database handle
func (m *MongoDB) GetDatabase() *mongo.Database {
	return m.database
}

func (m *MongoDB) createIndexes(ctx context.Context) error {
	validationIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "validated_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "tier", Value: 1},
				{Key: "validated_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "actual_intent", Value: 1},
			},
		},
	}

	probeIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "provider_id", Value: 1},
				{Key: "probed_at", Value: -1},
			},
		},
	}

	if _, err := m.database.Collection(collValidations).Indexes().CreateMany(ctx, validationIndexes); err != nil {
		return fmt.Errorf("failed to create validation indexes: %w", err)
	}
	if _, err := m.database.Collection(collProbes).Indexes().CreateMany(ctx, probeIndexes); err != nil {
		return fmt.Errorf("failed to create probe indexes: %w", err)
	}
	return nil
}

// Validation history operations

// CreateValidation inserts a validation record
func (m *MongoDB) CreateValidation(ctx context.Context, record *models.ValidationRecord) error {
	if _, err := m.database.Collection(collValidations).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert validation record: %w", err)
	}
	return nil
}

// ListValidations returns validation records matching the filter, newest first
func (m *MongoDB) ListValidations(ctx context.Context, filter shared.ValidationFilter) ([]*models.ValidationRecord, error) {
	query := bson.M{}
	if filter.Tier != "" {
		query["tier"] = filter.Tier
	}
	if filter.ActualIntent != "" {
		query["actual_intent"] = filter.ActualIntent
	}
	if filter.WasCorrect != nil {
		query["was_correct"] = *filter.WasCorrect
	}
	if timeRange := timeRangeQuery(filter.StartTime, filter.EndTime); timeRange != nil {
		query["validated_at"] = timeRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "validated_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		opts.SetSkip(int64(filter.Offset))
	}

	cursor, err := m.database.Collection(collValidations).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list validations: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*models.ValidationRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode validations: %w", err)
	}
	return records, nil
}

// Probe history operations

// CreateProbeResult inserts a probe result
func (m *MongoDB) CreateProbeResult(ctx context.Context, result *models.ProbeResult) error {
	if _, err := m.database.Collection(collProbes).InsertOne(ctx, result); err != nil {
		return fmt.Errorf("failed to insert probe result: %w", err)
	}
	return nil
}

// ListProbeResults returns probe results matching the filter, newest first
func (m *MongoDB) ListProbeResults(ctx context.Context, filter shared.ProbeFilter) ([]*models.ProbeResult, error) {
	query := bson.M{}
	if filter.ProviderID != "" {
		query["provider_id"] = filter.ProviderID
	}
	if timeRange := timeRangeQuery(filter.StartTime, filter.EndTime); timeRange != nil {
		query["probed_at"] = timeRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "probed_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := m.database.Collection(collProbes).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list probe results: %w", err)
	}
	defer cursor.Close(ctx)

	var results []*models.ProbeResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode probe results: %w", err)
	}
	return results, nil
}

// LatestProbes returns the most recent probe outcome per provider
func (m *MongoDB) LatestProbes(ctx context.Context) ([]models.ProviderLatency, error) {
	pipeline := []bson.M{
		{
			"$sort": bson.M{"probed_at": -1},
		},
		{
			"$group": bson.M{
				"_id":        "$provider_id",
				"latency_ms": bson.M{"$first": "$latency_ms"},
				"ok":         bson.M{"$first": "$ok"},
				"error":      bson.M{"$first": "$error"},
				"probed_at":  bson.M{"$first": "$probed_at"},
			},
		},
		{
			"$sort": bson.M{"_id": 1},
		},
	}

	cursor, err := m.database.Collection(collProbes).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate latest probes: %w", err)
	}
	defer cursor.Close(ctx)

	var latencies []models.ProviderLatency
	for cursor.Next(ctx) {
		var row struct {
			ProviderID string    `bson:"_id"`
			LatencyMs  int64     `bson:"latency_ms"`
			OK         bool      `bson:"ok"`
			Error      string    `bson:"error"`
			ProbedAt   time.Time `bson:"probed_at"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode probe row: %w", err)
		}
		latencies = append(latencies, models.ProviderLatency{
			ProviderID: row.ProviderID,
			LatencyMs:  row.LatencyMs,
			OK:         row.OK,
			Error:      row.Error,
			ProbedAt:   row.ProbedAt,
		})
	}
	return latencies, cursor.Err()
}

// Statistics operations

// GetReviewTotals returns the total and correct validation counts in a range
func (m *MongoDB) GetReviewTotals(ctx context.Context, startTime, endTime *time.Time) (int, int, error) {
	match := bson.M{}
	if timeRange := timeRangeQuery(startTime, endTime); timeRange != nil {
		match["validated_at"] = timeRange
	}

	pipeline := []bson.M{
		{"$match": match},
		{
			"$group": bson.M{
				"_id":   nil,
				"total": bson.M{"$sum": 1},
				"correct": bson.M{
					"$sum": bson.M{"$cond": bson.A{"$was_correct", 1, 0}},
				},
			},
		},
	}

	cursor, err := m.database.Collection(collValidations).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate review totals: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total   int `bson:"total"`
		Correct int `bson:"correct"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, fmt.Errorf("failed to decode review totals: %w", err)
		}
	}
	return result.Total, result.Correct, nil
}

// GetTierAccuracy returns validation accuracy grouped by tier
func (m *MongoDB) GetTierAccuracy(ctx context.Context, startTime, endTime *time.Time) ([]models.TierAccuracy, error) {
	match := bson.M{}
	if timeRange := timeRangeQuery(startTime, endTime); timeRange != nil {
		match["validated_at"] = timeRange
	}

	pipeline := []bson.M{
		{"$match": match},
		{
			"$group": bson.M{
				"_id":   "$tier",
				"total": bson.M{"$sum": 1},
				"correct": bson.M{
					"$sum": bson.M{"$cond": bson.A{"$was_correct", 1, 0}},
				},
			},
		},
		{
			"$sort": bson.M{"_id": 1},
		},
	}

	cursor, err := m.database.Collection(collValidations).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tier accuracy: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.TierAccuracy
	for cursor.Next(ctx) {
		var row struct {
			Tier    string `bson:"_id"`
			Total   int    `bson:"total"`
			Correct int    `bson:"correct"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode tier accuracy row: %w", err)
		}
		accuracy := 0.0
		if row.Total > 0 {
			accuracy = float64(row.Correct) / float64(row.Total)
		}
		out = append(out, models.TierAccuracy{
			Tier:     row.Tier,
			Total:    row.Total,
			Correct:  row.Correct,
			Accuracy: accuracy,
		})
	}
	return out, cursor.Err()
}

// GetIntentCorrections returns per-intent validation counts, most corrected first
func (m *MongoDB) GetIntentCorrections(ctx context.Context, limit int, startTime, endTime *time.Time) ([]models.IntentCorrection, error) {
	match := bson.M{}
	if timeRange := timeRangeQuery(startTime, endTime); timeRange != nil {
		match["validated_at"] = timeRange
	}

	pipeline := []bson.M{
		{"$match": match},
		{
			"$group": bson.M{
				"_id":   "$actual_intent",
				"total": bson.M{"$sum": 1},
				"corrected": bson.M{
					"$sum": bson.M{"$cond": bson.A{"$was_correct", 0, 1}},
				},
				"avg_confidence": bson.M{"$avg": "$confidence"},
			},
		},
		{
			"$sort": bson.M{"corrected": -1, "total": -1},
		},
		{
			"$limit": limit,
		},
	}

	cursor, err := m.database.Collection(collValidations).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate intent corrections: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.IntentCorrection
	for cursor.Next(ctx) {
		var row struct {
			ActualIntent  string  `bson:"_id"`
			Total         int     `bson:"total"`
			Corrected     int     `bson:"corrected"`
			AvgConfidence float64 `bson:"avg_confidence"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode intent correction row: %w", err)
		}
		out = append(out, models.IntentCorrection{
			ActualIntent: row.ActualIntent,
			Total:        row.Total,
			Corrected:    row.Corrected,
			AvgConfident: row.AvgConfidence,
		})
	}
	return out, cursor.Err()
}

// GetValidationTrends returns daily validation counts in a range
func (m *MongoDB) GetValidationTrends(ctx context.Context, startTime, endTime time.Time) ([]models.TimeSeriesPoint, error) {
	pipeline := []bson.M{
		{
			"$match": bson.M{
				"validated_at": bson.M{"$gte": startTime, "$lte": endTime},
			},
		},
		{
			"$group": bson.M{
				"_id": bson.M{
					"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$validated_at"},
				},
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$sort": bson.M{"_id": 1},
		},
	}

	cursor, err := m.database.Collection(collValidations).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate validation trends: %w", err)
	}
	defer cursor.Close(ctx)

	var points []models.TimeSeriesPoint
	for cursor.Next(ctx) {
		var row struct {
			Day   string `bson:"_id"`
			Count int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode trend row: %w", err)
		}
		day, err := time.Parse("2006-01-02", row.Day)
		if err != nil {
			continue
		}
		points = append(points, models.TimeSeriesPoint{Timestamp: day, Count: row.Count})
	}
	return points, cursor.Err()
}

func timeRangeQuery(startTime, endTime *time.Time) bson.M {
	if startTime == nil && endTime == nil {
		return nil
	}
	timeRange := bson.M{}
	if startTime != nil {
		timeRange["$gte"] = *startTime
	}
	if endTime != nil {
		timeRange["$lte"] = *endTime
	}
	return timeRange
}
