package templates

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// ErrNotFound is returned when a template id matches neither the built-in
// catalog nor any saved custom template.
var ErrNotFound = errors.New("template not found")

// Store serves the template catalog: built-ins in fixed order followed by
// user-saved custom templates in insertion order. Custom templates persist
// in the SQL database; built-ins are compiled in.
type Store struct {
	db db.SQLDatabase

	mu           sync.Mutex
	lastCustomMs int64
}

// NewStore creates a new template store
func NewStore(database db.SQLDatabase) *Store {
	return &Store{db: database}
}

// ListTemplates returns the full catalog, built-ins first.
func (s *Store) ListTemplates(ctx context.Context) ([]models.ClassificationTemplate, error) {
	customs, err := s.db.ListCustomTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list custom templates: %w", err)
	}

	catalog := builtinCatalog()
	out := make([]models.ClassificationTemplate, 0, len(catalog)+len(customs))
	out = append(out, catalog...)
	for _, t := range customs {
		out = append(out, *t)
	}
	return out, nil
}

// GetTemplate returns the template with the given id or ErrNotFound.
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.ClassificationTemplate, error) {
	for _, t := range builtinCatalog() {
		if t.ID == id {
			return &t, nil
		}
	}

	custom, err := s.db.GetCustomTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if custom == nil {
		return nil, ErrNotFound
	}
	return custom, nil
}

// SaveCustomTemplate captures the live config's tier and conversation
// settings (not the LLM generation fields) under a generated id and
// persists it. Returns the new template id.
func (s *Store) SaveCustomTemplate(ctx context.Context, name string, snapshot models.RoutingConfig) (string, error) {
	if name == "" {
		return "", fmt.Errorf("template name is required")
	}

	template := &models.ClassificationTemplate{
		ID:                s.nextCustomID(),
		Name:              name,
		Description:       "Saved from live configuration",
		Tiers:             snapshot.Clone().Tiers,
		ConversationState: snapshot.ConversationState,
		Custom:            true,
		CreatedAt:         time.Now(),
	}

	if err := s.db.CreateCustomTemplate(ctx, template); err != nil {
		return "", fmt.Errorf("failed to save custom template: %w", err)
	}

	return template.ID, nil
}

// DeleteCustomTemplate removes a saved custom template. Built-ins cannot be
// deleted.
func (s *Store) DeleteCustomTemplate(ctx context.Context, id string) error {
	for _, t := range builtinCatalog() {
		if t.ID == id {
			return fmt.Errorf("cannot delete built-in template %s", id)
		}
	}
	return s.db.DeleteCustomTemplate(ctx, id)
}

// nextCustomID generates a monotonic, collision-free custom template id.
// Two saves within the same millisecond bump the counter forward.
func (s *Store) nextCustomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := time.Now().UnixMilli()
	if ms <= s.lastCustomMs {
		ms = s.lastCustomMs + 1
	}
	s.lastCustomMs = ms
	return fmt.Sprintf("t-custom-%d", ms)
}
