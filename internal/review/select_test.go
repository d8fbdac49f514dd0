package review

import (
	"testing"

	"github.com/pelangilabs/rainbowd/internal/models"
)

func selectionPage() []models.PendingPrediction {
	return []models.PendingPrediction{
		{ID: "p1", PredictedIntent: "wifi_info", Confidence: 0.9},
		{ID: "p2", PredictedIntent: "greeting", Confidence: 0.5},
		{ID: "p3", PredictedIntent: "checkout_info", Confidence: 0.81},
		{ID: "p4", PredictedIntent: "greeting", Confidence: 0.3},
		{ID: "p5", PredictedIntent: "checkin_info", Confidence: 0.79},
	}
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSelectAll(t *testing.T) {
	assertIDs(t, SelectAll(selectionPage()), []string{"p1", "p2", "p3", "p4", "p5"})
}

func TestSelectAtOrAbove(t *testing.T) {
	// The boundary is inclusive: 0.81 stays in on a 0.81 cutoff.
	assertIDs(t, SelectAtOrAbove(selectionPage(), 0.81), []string{"p1", "p3"})
	assertIDs(t, SelectAtOrAbove(selectionPage(), 0.91), []string{})
}

func TestSelectBelow(t *testing.T) {
	// Reject-below-0.80 over this page picks exactly the three uncertain
	// rows; 0.81 survives the cutoff.
	assertIDs(t, SelectBelow(selectionPage(), 0.80), []string{"p2", "p4", "p5"})
	assertIDs(t, SelectBelow(selectionPage(), 0.3), []string{})
}

func TestSelectByIntent(t *testing.T) {
	assertIDs(t, SelectByIntent(selectionPage(), "greeting"), []string{"p2", "p4"})
	assertIDs(t, SelectByIntent(selectionPage(), "nope"), []string{})
}

func TestSelectionsOnEmptyPage(t *testing.T) {
	if got := SelectAll(nil); len(got) != 0 {
		t.Errorf("SelectAll(nil) = %v", got)
	}
	if got := SelectBelow(nil, 0.8); len(got) != 0 {
		t.Errorf("SelectBelow(nil) = %v", got)
	}
}
