package db

import (
	"context"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// SQLDatabase defines the interface for SQL database operations (custom
// templates, provider list, routing config cache)
type SQLDatabase interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// Custom template operations
	CreateCustomTemplate(ctx context.Context, template *models.ClassificationTemplate) error
	GetCustomTemplate(ctx context.Context, id string) (*models.ClassificationTemplate, error)
	ListCustomTemplates(ctx context.Context) ([]*models.ClassificationTemplate, error)
	DeleteCustomTemplate(ctx context.Context, id string) error

	// Routing config cache (last applied config; the engine stays the
	// source of truth)
	SaveRoutingConfig(ctx context.Context, cfg models.RoutingConfig, templateID string) error
	GetRoutingConfig(ctx context.Context) (*models.RoutingConfig, string, error)

	// Provider list snapshot
	SaveProviders(ctx context.Context, entries []models.ProviderEntry) error
	ListProviders(ctx context.Context) ([]models.ProviderEntry, error)
}
