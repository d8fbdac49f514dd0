package review

import (
	"github.com/pelangilabs/rainbowd/internal/models"
)

// Bulk selection helpers. These are pure functions over the currently
// loaded page; they never touch the server.

// SelectAll returns the ids of every visible prediction.
func SelectAll(page []models.PendingPrediction) []string {
	ids := make([]string, 0, len(page))
	for _, p := range page {
		ids = append(ids, p.ID)
	}
	return ids
}

// SelectAtOrAbove returns ids with confidence >= threshold; used for the
// bulk-approve path.
func SelectAtOrAbove(page []models.PendingPrediction, threshold float64) []string {
	var ids []string
	for _, p := range page {
		if p.Confidence >= threshold {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// SelectBelow returns ids with confidence < threshold; used for the
// bulk-reject path.
func SelectBelow(page []models.PendingPrediction, threshold float64) []string {
	var ids []string
	for _, p := range page {
		if p.Confidence < threshold {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// SelectByIntent returns ids whose predicted intent matches name exactly.
func SelectByIntent(page []models.PendingPrediction, name string) []string {
	var ids []string
	for _, p := range page {
		if p.PredictedIntent == name {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
