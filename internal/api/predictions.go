package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pelangilabs/rainbowd/internal/review"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// listPending handles GET /api/v1/predictions/pending. Each call refetches
// the working page from the engine and reconciles it against local state.
func (s *Server) listPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	page, err := s.queue.FetchPending(c.Request.Context(), limit)
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, gin.H{
		"predictions":  page.Predictions,
		"total":        page.Total,
		"needs_resync": s.queue.NeedsResync(),
	})
}

// listValidated handles GET /api/v1/predictions/validated
func (s *Server) listValidated(c *gin.Context) {
	page, limit := s.parsePagination(c)

	filter := shared.ValidationFilter{
		Tier:         c.Query("tier"),
		ActualIntent: c.Query("intent"),
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}
	if v := c.Query("was_correct"); v != "" {
		correct := v == "true"
		filter.WasCorrect = &correct
	}
	if v := c.Query("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartTime = &t
		}
	}
	if v := c.Query("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndTime = &t
		}
	}

	records, err := s.statsService.ListValidations(c.Request.Context(), filter)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, records)
}

// selectPredictions handles GET /api/v1/predictions/selection. It computes
// a selection over the current working page without validating anything.
func (s *Server) selectPredictions(c *gin.Context) {
	page := s.queue.Working()

	var ids []string
	mode := c.DefaultQuery("mode", "all")
	switch mode {
	case "all":
		ids = review.SelectAll(page)
	case "at_or_above", "below":
		threshold, err := strconv.ParseFloat(c.Query("threshold"), 64)
		if err != nil {
			s.errorResponse(c, http.StatusBadRequest, "threshold is required for mode "+mode)
			return
		}
		if mode == "at_or_above" {
			ids = review.SelectAtOrAbove(page, threshold)
		} else {
			ids = review.SelectBelow(page, threshold)
		}
	case "intent":
		name := c.Query("intent")
		if name == "" {
			s.errorResponse(c, http.StatusBadRequest, "intent is required for mode intent")
			return
		}
		ids = review.SelectByIntent(page, name)
	default:
		s.errorResponse(c, http.StatusBadRequest, "unknown selection mode: "+mode)
		return
	}

	s.successResponse(c, gin.H{"ids": ids, "count": len(ids)})
}

// confirmPrediction handles POST /api/v1/predictions/:id/confirm
func (s *Server) confirmPrediction(c *gin.Context) {
	if err := s.queue.MarkCorrect(c.Request.Context(), c.Param("id")); err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, gin.H{"pending_total": s.queue.PendingTotal()})
}

type correctRequest struct {
	ActualIntent string `json:"actual_intent" binding:"required"`
}

// correctPrediction handles PATCH /api/v1/predictions/:id
func (s *Server) correctPrediction(c *gin.Context) {
	var req correctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "actual_intent is required")
		return
	}

	if err := s.queue.Correct(c.Request.Context(), c.Param("id"), req.ActualIntent); err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, gin.H{"pending_total": s.queue.PendingTotal()})
}

type bulkValidateRequest struct {
	IDs          []string `json:"ids" binding:"required"`
	WasCorrect   bool     `json:"was_correct"`
	ActualIntent string   `json:"actual_intent"`
}

// bulkValidate handles POST /api/v1/predictions/bulk-validate
func (s *Server) bulkValidate(c *gin.Context) {
	var req bulkValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		s.errorResponse(c, http.StatusBadRequest, "ids are required")
		return
	}

	if err := s.queue.BulkValidate(c.Request.Context(), req.IDs, req.WasCorrect, req.ActualIntent); err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, gin.H{
		"validated":     len(req.IDs),
		"pending_total": s.queue.PendingTotal(),
	})
}

// listIntents handles GET /api/v1/intents
func (s *Server) listIntents(c *gin.Context) {
	intents, err := s.engine.ListIntents(c.Request.Context())
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, intents)
}
