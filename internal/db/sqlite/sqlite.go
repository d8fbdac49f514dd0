package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// SQLite implements the SQLDatabase interface for SQLite
type SQLite struct {
	db     *sql.DB
	config *models.Config
}

// New creates a new SQLite database instance
func New(config *models.Config) (*SQLite, error) {
	return &SQLite{
		config: config,
	}, nil
}

// Connect establishes connection to SQLite
func (s *SQLite) Connect(ctx context.Context) error {
	// Expand the URI path (handle ~ and relative paths)
	dbPath := s.config.URI
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	} else if !filepath.IsAbs(dbPath) {
		absPath, err := filepath.Abs(dbPath)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		dbPath = absPath
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", dbPath, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", dbPath, err)
	}

	s.db = db

	if err := s.createTables(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("not connected to database")
	}
	return s.db.PingContext(ctx)
}

// DB exposes the underlying handle for migrations.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// createTables creates necessary tables
func (s *SQLite) createTables(ctx context.Context) error {
	createTemplatesTable := `
	CREATE TABLE IF NOT EXISTS custom_templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		template TEXT NOT NULL, -- JSON document
		created_at DATETIME NOT NULL
	);`

	createRoutingConfigTable := `
	CREATE TABLE IF NOT EXISTS routing_config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		config TEXT NOT NULL, -- JSON document
		template_id TEXT,
		updated_at DATETIME NOT NULL
	);`

	createProvidersTable := `
	CREATE TABLE IF NOT EXISTS providers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT 1,
		priority INTEGER NOT NULL,
		available BOOLEAN NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_custom_templates_created_at ON custom_templates(created_at);",
		"CREATE INDEX IF NOT EXISTS idx_providers_priority ON providers(priority);",
		"CREATE INDEX IF NOT EXISTS idx_providers_enabled ON providers(enabled);",
	}

	queries := []string{createTemplatesTable, createRoutingConfigTable, createProvidersTable}
	queries = append(queries, createIndexes...)

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Custom template operations

// CreateCustomTemplate persists a custom template
func (s *SQLite) CreateCustomTemplate(ctx context.Context, template *models.ClassificationTemplate) error {
	doc, err := json.Marshal(template)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	query := `INSERT INTO custom_templates (id, name, description, template, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, template.ID, template.Name, template.Description, string(doc), template.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert custom template: %w", err)
	}
	return nil
}

// GetCustomTemplate returns a custom template by id, or nil when absent
func (s *SQLite) GetCustomTemplate(ctx context.Context, id string) (*models.ClassificationTemplate, error) {
	query := `SELECT template FROM custom_templates WHERE id = ?`

	var doc string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get custom template: %w", err)
	}

	var template models.ClassificationTemplate
	if err := json.Unmarshal([]byte(doc), &template); err != nil {
		return nil, fmt.Errorf("failed to unmarshal template: %w", err)
	}
	return &template, nil
}

// ListCustomTemplates returns custom templates in insertion order
func (s *SQLite) ListCustomTemplates(ctx context.Context) ([]*models.ClassificationTemplate, error) {
	query := `SELECT template FROM custom_templates ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.ClassificationTemplate
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		var template models.ClassificationTemplate
		if err := json.Unmarshal([]byte(doc), &template); err != nil {
			return nil, fmt.Errorf("failed to unmarshal template: %w", err)
		}
		templates = append(templates, &template)
	}
	return templates, rows.Err()
}

// DeleteCustomTemplate removes a custom template
func (s *SQLite) DeleteCustomTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM custom_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete custom template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("custom template %s not found", id)
	}
	return nil
}

// Routing config cache

// SaveRoutingConfig upserts the singleton live config row
func (s *SQLite) SaveRoutingConfig(ctx context.Context, cfg models.RoutingConfig, templateID string) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal routing config: %w", err)
	}

	query := `
	INSERT INTO routing_config (id, config, template_id, updated_at) VALUES (1, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET config = excluded.config, template_id = excluded.template_id, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, string(doc), templateID, time.Now()); err != nil {
		return fmt.Errorf("failed to save routing config: %w", err)
	}
	return nil
}

// GetRoutingConfig returns the cached live config, or nil when never saved
func (s *SQLite) GetRoutingConfig(ctx context.Context) (*models.RoutingConfig, string, error) {
	var doc, templateID string
	err := s.db.QueryRowContext(ctx, `SELECT config, COALESCE(template_id, '') FROM routing_config WHERE id = 1`).Scan(&doc, &templateID)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get routing config: %w", err)
	}

	var cfg models.RoutingConfig
	if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal routing config: %w", err)
	}
	return &cfg, templateID, nil
}

// Provider list snapshot

// SaveProviders replaces the persisted provider list
func (s *SQLite) SaveProviders(ctx context.Context, entries []models.ProviderEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM providers`); err != nil {
		return fmt.Errorf("failed to clear providers: %w", err)
	}

	query := `INSERT INTO providers (id, name, enabled, priority, available, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	for _, entry := range entries {
		updatedAt := entry.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		if _, err := tx.ExecContext(ctx, query, entry.ID, entry.Name, entry.Enabled, entry.Priority, entry.Available, updatedAt); err != nil {
			return fmt.Errorf("failed to insert provider %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit providers: %w", err)
	}
	return nil
}

// ListProviders returns the persisted provider list sorted by priority
func (s *SQLite) ListProviders(ctx context.Context) ([]models.ProviderEntry, error) {
	query := `SELECT id, name, enabled, priority, available, updated_at FROM providers ORDER BY priority ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	defer rows.Close()

	var entries []models.ProviderEntry
	for rows.Next() {
		var entry models.ProviderEntry
		if err := rows.Scan(&entry.ID, &entry.Name, &entry.Enabled, &entry.Priority, &entry.Available, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan provider row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
