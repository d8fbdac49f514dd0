package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pelangilabs/rainbowd/internal/models"
)

// getRouting handles GET /api/v1/routing
func (s *Server) getRouting(c *gin.Context) {
	s.successResponse(c, gin.H{
		"config":    s.applier.Live(),
		"active_id": s.applier.ActiveTemplateID(),
	})
}

// applyRouting handles PUT /api/v1/routing. The body is a full routing
// configuration, applied as a one-off custom config.
func (s *Server) applyRouting(c *gin.Context) {
	var cfg models.RoutingConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "invalid routing config: "+err.Error())
		return
	}

	result, err := s.applier.ApplyCustomConfig(c.Request.Context(), cfg)
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, result)
}
