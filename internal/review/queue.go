package review

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pelangilabs/rainbowd/internal/logger"
	"github.com/pelangilabs/rainbowd/internal/models"
)

// EngineClient is the slice of the engine API the queue needs.
type EngineClient interface {
	FetchPending(ctx context.Context, limit int) (*models.PendingPage, error)
	ValidatePrediction(ctx context.Context, id, actualIntent string) error
	BulkValidate(ctx context.Context, ids []string, wasCorrect bool, actualIntent string) error
}

// History records validated predictions locally for stats and reporting.
type History interface {
	CreateValidation(ctx context.Context, record *models.ValidationRecord) error
}

// Queue is the session working set of predictions awaiting human review.
// The pending count is decremented optimistically on submit and restored on
// failure; a row removed by validation never reappears in this session even
// if a background refresh races the removal.
type Queue struct {
	engine  EngineClient
	history History

	mu          sync.Mutex
	working     []models.PendingPrediction
	removed     map[string]bool
	total       int
	needsResync bool
}

// NewQueue creates an empty review queue for one operator session.
func NewQueue(engine EngineClient, history History) *Queue {
	return &Queue{
		engine:  engine,
		history: history,
		removed: make(map[string]bool),
	}
}

// FetchPending loads one page from the engine and reconciles it with the
// session's optimistic removals: rows validated locally are dropped from
// the page and from the total, whatever the server still reports.
func (q *Queue) FetchPending(ctx context.Context, limit int) (*models.PendingPage, error) {
	if limit <= 0 {
		limit = 50
	}

	page, err := q.engine.FetchPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	kept := make([]models.PendingPrediction, 0, len(page.Predictions))
	staleTotal := page.Total
	for _, p := range page.Predictions {
		if q.removed[p.ID] {
			// The server has not processed our validation yet; keep the
			// total consistent with what this session already did.
			staleTotal--
			continue
		}
		kept = append(kept, p)
	}
	if staleTotal < 0 {
		staleTotal = 0
	}

	q.working = kept
	q.total = staleTotal
	q.needsResync = false

	return &models.PendingPage{Predictions: kept, Total: staleTotal}, nil
}

// Working returns a copy of the currently loaded page minus validated rows.
func (q *Queue) Working() []models.PendingPrediction {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.PendingPrediction, len(q.working))
	copy(out, q.working)
	return out
}

// PendingTotal returns the session's view of the full pending count.
func (q *Queue) PendingTotal() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.total
}

// NeedsResync reports whether a failed bulk action left the server state
// indeterminate; the next FetchPending clears it.
func (q *Queue) NeedsResync() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.needsResync
}

// MarkCorrect confirms a prediction: equivalent to correcting it to its own
// predicted intent.
func (q *Queue) MarkCorrect(ctx context.Context, id string) error {
	q.mu.Lock()
	p, ok := q.find(id)
	q.mu.Unlock()
	if !ok {
		return fmt.Errorf("prediction %s not in working set", id)
	}
	return q.Correct(ctx, id, p.PredictedIntent)
}

// Correct validates a prediction with the reviewer's actual intent. The row
// is removed and the count decremented before the engine call; on failure
// both are restored and the error surfaces to the operator.
func (q *Queue) Correct(ctx context.Context, id, actualIntent string) error {
	if actualIntent == "" {
		return &MissingIntentError{PredictionID: id}
	}

	q.mu.Lock()
	p, ok := q.find(id)
	if !ok {
		q.mu.Unlock()
		return fmt.Errorf("prediction %s not in working set", id)
	}
	q.removeLocked(id)
	q.total--
	if q.total < 0 {
		q.total = 0
	}
	q.mu.Unlock()

	if err := q.engine.ValidatePrediction(ctx, id, actualIntent); err != nil {
		q.restore(p)
		return err
	}

	q.record(ctx, p, actualIntent)
	return nil
}

// BulkValidate applies one verdict to a batch. actualIntent is required for
// rejections and ignored for confirmations, where each row's own predicted
// intent becomes its actual intent. On failure the whole batch is restored
// and the session is flagged for a full resync: the client cannot know
// which subset the server processed.
func (q *Queue) BulkValidate(ctx context.Context, ids []string, wasCorrect bool, actualIntent string) error {
	if len(ids) == 0 {
		return fmt.Errorf("no predictions selected")
	}
	if !wasCorrect && actualIntent == "" {
		return &MissingIntentError{}
	}

	q.mu.Lock()
	batch := make([]models.PendingPrediction, 0, len(ids))
	for _, id := range ids {
		p, ok := q.find(id)
		if !ok {
			q.mu.Unlock()
			return fmt.Errorf("prediction %s not in working set", id)
		}
		batch = append(batch, p)
	}
	for _, id := range ids {
		q.removeLocked(id)
	}
	q.total -= len(ids)
	if q.total < 0 {
		q.total = 0
	}
	q.mu.Unlock()

	if err := q.engine.BulkValidate(ctx, ids, wasCorrect, actualIntent); err != nil {
		q.restoreBatch(batch)
		return err
	}

	for _, p := range batch {
		intent := actualIntent
		if wasCorrect {
			intent = p.PredictedIntent
		}
		q.record(ctx, p, intent)
	}
	return nil
}

// record writes the validation to local history. The engine already
// committed the verdict, so a history failure is logged, not rolled back.
func (q *Queue) record(ctx context.Context, p models.PendingPrediction, actualIntent string) {
	rec := &models.ValidationRecord{
		ID:              uuid.New().String(),
		PredictionID:    p.ID,
		MessageText:     p.MessageText,
		PredictedIntent: p.PredictedIntent,
		ActualIntent:    actualIntent,
		WasCorrect:      actualIntent == p.PredictedIntent,
		Confidence:      p.Confidence,
		Tier:            p.Tier,
		ValidatedAt:     time.Now(),
	}
	if err := q.history.CreateValidation(ctx, rec); err != nil {
		logger.Warning("Failed to record validation for prediction %s: %v", p.ID, err)
	}
}

func (q *Queue) restore(p models.PendingPrediction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.removed, p.ID)
	q.working = append(q.working, p)
	q.total++
}

func (q *Queue) restoreBatch(batch []models.PendingPrediction) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, p := range batch {
		delete(q.removed, p.ID)
		q.working = append(q.working, p)
	}
	q.total += len(batch)
	q.needsResync = true
}

// find looks up a prediction in the working set. Callers hold q.mu.
func (q *Queue) find(id string) (models.PendingPrediction, bool) {
	for _, p := range q.working {
		if p.ID == id {
			return p, true
		}
	}
	return models.PendingPrediction{}, false
}

// removeLocked drops a row from the working set and marks it removed so a
// racing refresh cannot bring it back. Callers hold q.mu.
func (q *Queue) removeLocked(id string) {
	for i, p := range q.working {
		if p.ID == id {
			q.working = append(q.working[:i], q.working[i+1:]...)
			break
		}
	}
	q.removed[id] = true
}

// MissingIntentError rejects a correction submitted without an intent.
type MissingIntentError struct {
	PredictionID string
}

func (e *MissingIntentError) Error() string {
	if e.PredictionID != "" {
		return fmt.Sprintf("correction for prediction %s requires an intent", e.PredictionID)
	}
	return "correction requires an intent"
}
