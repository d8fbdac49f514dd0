package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listTemplates handles GET /api/v1/templates
func (s *Server) listTemplates(c *gin.Context) {
	list, err := s.templates.ListTemplates(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, gin.H{
		"templates": list,
		"active_id": s.applier.ActiveTemplateID(),
	})
}

// getTemplate handles GET /api/v1/templates/:id
func (s *Server) getTemplate(c *gin.Context) {
	tmpl, err := s.templates.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, tmpl)
}

type createTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// createTemplate handles POST /api/v1/templates. It snapshots the live
// routing configuration under a generated custom template id.
func (s *Server) createTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.errorResponse(c, http.StatusBadRequest, "name is required")
		return
	}

	id, err := s.templates.SaveCustomTemplate(c.Request.Context(), req.Name, s.applier.Live())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, gin.H{"id": id, "name": req.Name})
}

// deleteTemplate handles DELETE /api/v1/templates/:id
func (s *Server) deleteTemplate(c *gin.Context) {
	if err := s.templates.DeleteCustomTemplate(c.Request.Context(), c.Param("id")); err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, gin.H{"deleted": c.Param("id")})
}

// applyTemplate handles POST /api/v1/templates/:id/apply
func (s *Server) applyTemplate(c *gin.Context) {
	result, err := s.applier.ApplyTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.operationError(c, err)
		return
	}
	s.successResponse(c, result)
}
