package review

import (
	"context"
	"errors"
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

type fakeEngine struct {
	page        *models.PendingPage
	fetchErr    error
	validateErr error
	bulkErr     error

	validated [][2]string // id, actualIntent
	bulks     [][]string
}

func (f *fakeEngine) FetchPending(ctx context.Context, limit int) (*models.PendingPage, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	preds := make([]models.PendingPrediction, len(f.page.Predictions))
	copy(preds, f.page.Predictions)
	return &models.PendingPage{Predictions: preds, Total: f.page.Total}, nil
}

func (f *fakeEngine) ValidatePrediction(ctx context.Context, id, actualIntent string) error {
	if f.validateErr != nil {
		return f.validateErr
	}
	f.validated = append(f.validated, [2]string{id, actualIntent})
	return nil
}

func (f *fakeEngine) BulkValidate(ctx context.Context, ids []string, wasCorrect bool, actualIntent string) error {
	if f.bulkErr != nil {
		return f.bulkErr
	}
	f.bulks = append(f.bulks, ids)
	return nil
}

type fakeHistory struct {
	records []*models.ValidationRecord
	err     error
}

func (f *fakeHistory) CreateValidation(ctx context.Context, record *models.ValidationRecord) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, record)
	return nil
}

func testPage() *models.PendingPage {
	return &models.PendingPage{
		Total: 12,
		Predictions: []models.PendingPrediction{
			{ID: "p1", MessageText: "wifi password?", PredictedIntent: "wifi_info", Confidence: 0.9, Tier: models.TierSemantic},
			{ID: "p2", MessageText: "asdf", PredictedIntent: "greeting", Confidence: 0.5, Tier: models.TierLLM},
			{ID: "p3", MessageText: "checkout time", PredictedIntent: "checkout_info", Confidence: 0.81, Tier: models.TierSemantic},
			{ID: "p4", MessageText: "???", PredictedIntent: "unknown", Confidence: 0.3, Tier: models.TierLLM},
			{ID: "p5", MessageText: "late checkin", PredictedIntent: "checkin_info", Confidence: 0.79, Tier: models.TierFuzzy},
		},
	}
}

func newTestQueue(t *testing.T, eng *fakeEngine) (*Queue, *fakeHistory) {
	t.Helper()
	history := &fakeHistory{}
	q := NewQueue(eng, history)
	if _, err := q.FetchPending(context.Background(), 50); err != nil {
		t.Fatalf("FetchPending: %v", err)
	}
	return q, history
}

func TestFetchPendingLoadsPage(t *testing.T) {
	q, _ := newTestQueue(t, &fakeEngine{page: testPage()})

	if got := q.PendingTotal(); got != 12 {
		t.Errorf("total = %d, want 12", got)
	}
	if got := len(q.Working()); got != 5 {
		t.Errorf("working set = %d, want 5", got)
	}
}

func TestCorrectDecrementsOptimistically(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, history := newTestQueue(t, eng)

	if err := q.Correct(context.Background(), "p2", "booking_inquiry"); err != nil {
		t.Fatalf("Correct: %v", err)
	}

	if got := q.PendingTotal(); got != 11 {
		t.Errorf("total = %d, want 11", got)
	}
	if got := len(q.Working()); got != 4 {
		t.Errorf("working set = %d, want 4", got)
	}
	if len(eng.validated) != 1 || eng.validated[0] != [2]string{"p2", "booking_inquiry"} {
		t.Errorf("engine got %v", eng.validated)
	}
	if len(history.records) != 1 {
		t.Fatalf("history got %d records", len(history.records))
	}
	rec := history.records[0]
	if rec.WasCorrect {
		t.Error("correction to a different intent must record was_correct=false")
	}
	if rec.ActualIntent != "booking_inquiry" || rec.PredictedIntent != "greeting" {
		t.Errorf("record intents: actual=%s predicted=%s", rec.ActualIntent, rec.PredictedIntent)
	}
}

func TestCorrectRestoresOnEngineFailure(t *testing.T) {
	eng := &fakeEngine{page: testPage(), validateErr: errors.New("engine down")}
	q, history := newTestQueue(t, eng)

	if err := q.Correct(context.Background(), "p1", "wifi_info"); err == nil {
		t.Fatal("expected engine failure to surface")
	}

	if got := q.PendingTotal(); got != 12 {
		t.Errorf("total = %d, want restored 12", got)
	}
	if got := len(q.Working()); got != 5 {
		t.Errorf("working set = %d, want restored 5", got)
	}
	if len(history.records) != 0 {
		t.Error("failed validation must not be recorded")
	}
	if q.NeedsResync() {
		t.Error("single-row failure must not force a resync")
	}
}

func TestCorrectRequiresIntent(t *testing.T) {
	q, _ := newTestQueue(t, &fakeEngine{page: testPage()})

	err := q.Correct(context.Background(), "p1", "")
	var missing *MissingIntentError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingIntentError", err)
	}
}

func TestMarkCorrectUsesPredictedIntent(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, history := newTestQueue(t, eng)

	if err := q.MarkCorrect(context.Background(), "p1"); err != nil {
		t.Fatalf("MarkCorrect: %v", err)
	}

	if len(eng.validated) != 1 || eng.validated[0] != [2]string{"p1", "wifi_info"} {
		t.Errorf("engine got %v, want predicted intent echoed", eng.validated)
	}
	if !history.records[0].WasCorrect {
		t.Error("confirmation must record was_correct=true")
	}
}

func TestBulkValidateRejectBatch(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, history := newTestQueue(t, eng)

	page := q.Working()
	selected := SelectBelow(page, 0.80)
	if len(selected) != 3 {
		t.Fatalf("selected %d rows, want 3", len(selected))
	}

	if err := q.BulkValidate(context.Background(), selected, false, "other"); err != nil {
		t.Fatalf("BulkValidate: %v", err)
	}

	if got := q.PendingTotal(); got != 9 {
		t.Errorf("total = %d, want 9", got)
	}
	if got := len(q.Working()); got != 2 {
		t.Errorf("working set = %d, want 2", got)
	}
	if len(history.records) != 3 {
		t.Fatalf("history got %d records, want 3", len(history.records))
	}
	for _, rec := range history.records {
		if rec.ActualIntent != "other" || rec.WasCorrect {
			t.Errorf("rejection record: actual=%s was_correct=%v", rec.ActualIntent, rec.WasCorrect)
		}
	}
}

func TestBulkValidateConfirmUsesEachPredictedIntent(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, history := newTestQueue(t, eng)

	if err := q.BulkValidate(context.Background(), []string{"p1", "p3"}, true, ""); err != nil {
		t.Fatalf("BulkValidate: %v", err)
	}

	if len(history.records) != 2 {
		t.Fatalf("history got %d records", len(history.records))
	}
	for _, rec := range history.records {
		if rec.ActualIntent != rec.PredictedIntent || !rec.WasCorrect {
			t.Errorf("confirmation record: actual=%s predicted=%s", rec.ActualIntent, rec.PredictedIntent)
		}
	}
}

func TestBulkValidateRejectRequiresIntent(t *testing.T) {
	q, _ := newTestQueue(t, &fakeEngine{page: testPage()})

	err := q.BulkValidate(context.Background(), []string{"p1"}, false, "")
	var missing *MissingIntentError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want MissingIntentError", err)
	}
}

func TestBulkValidateFailureRestoresAndFlagsResync(t *testing.T) {
	eng := &fakeEngine{page: testPage(), bulkErr: errors.New("engine down")}
	q, _ := newTestQueue(t, eng)

	if err := q.BulkValidate(context.Background(), []string{"p1", "p2"}, true, ""); err == nil {
		t.Fatal("expected bulk failure to surface")
	}

	if got := q.PendingTotal(); got != 12 {
		t.Errorf("total = %d, want restored 12", got)
	}
	if got := len(q.Working()); got != 5 {
		t.Errorf("working set = %d, want restored 5", got)
	}
	if !q.NeedsResync() {
		t.Error("bulk failure must flag the session for resync")
	}

	// The resync itself clears the flag.
	eng.bulkErr = nil
	if _, err := q.FetchPending(context.Background(), 50); err != nil {
		t.Fatalf("FetchPending: %v", err)
	}
	if q.NeedsResync() {
		t.Error("resync flag must clear after a fresh fetch")
	}
}

func TestValidatedRowsNeverReappear(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, _ := newTestQueue(t, eng)

	if err := q.MarkCorrect(context.Background(), "p1"); err != nil {
		t.Fatalf("MarkCorrect: %v", err)
	}

	// The engine still returns the validated row; the session must keep it
	// out of the working set and subtract it from the stale total.
	page, err := q.FetchPending(context.Background(), 50)
	if err != nil {
		t.Fatalf("FetchPending: %v", err)
	}

	for _, p := range page.Predictions {
		if p.ID == "p1" {
			t.Fatal("validated row reappeared in the working set")
		}
	}
	if page.Total != 11 {
		t.Errorf("reconciled total = %d, want 11", page.Total)
	}
}

func TestBulkValidateUnknownID(t *testing.T) {
	eng := &fakeEngine{page: testPage()}
	q, _ := newTestQueue(t, eng)

	if err := q.BulkValidate(context.Background(), []string{"p1", "ghost"}, true, ""); err == nil {
		t.Fatal("expected error for unknown id")
	}
	// Nothing was sent or removed.
	if len(eng.bulks) != 0 {
		t.Error("engine must not be called for an invalid batch")
	}
	if got := len(q.Working()); got != 5 {
		t.Errorf("working set = %d, want intact 5", got)
	}
}
