package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pelangilabs/rainbowd/internal/models"
	"github.com/pelangilabs/rainbowd/internal/shared"
)

// listProviders handles GET /api/v1/providers
func (s *Server) listProviders(c *gin.Context) {
	entries := s.chain.Entries()

	if enabled := shared.ParseEnabledFilter(c); enabled != nil {
		filtered := make([]models.ProviderEntry, 0, len(entries))
		for _, e := range entries {
			if e.Enabled == *enabled {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	s.successResponse(c, entries)
}

type reorderRequest struct {
	DraggedID string `json:"dragged_id" binding:"required"`
	TargetID  string `json:"target_id" binding:"required"`
}

// reorderProviders handles POST /api/v1/providers/reorder
func (s *Server) reorderProviders(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "dragged_id and target_id are required")
		return
	}

	entries, err := s.chain.Reorder(c.Request.Context(), req.DraggedID, req.TargetID)
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, entries)
}

// setDefaultProvider handles POST /api/v1/providers/:id/default
func (s *Server) setDefaultProvider(c *gin.Context) {
	entries, err := s.chain.SetDefault(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, entries)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// toggleProvider handles PATCH /api/v1/providers/:id
func (s *Server) toggleProvider(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		s.errorResponse(c, http.StatusBadRequest, "enabled is required")
		return
	}

	if err := s.chain.ToggleEnabled(c.Request.Context(), c.Param("id"), *req.Enabled); err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, s.chain.Entries())
}

// providerLatency handles GET /api/v1/providers/latency
func (s *Server) providerLatency(c *gin.Context) {
	latencies, err := s.statsService.GetProviderLatencies(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, latencies)
}
