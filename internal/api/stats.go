package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getStats handles GET /api/v1/stats
func (s *Server) getStats(c *gin.Context) {
	var start, end *time.Time
	if v := c.Query("start"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			start = &t
		}
	}
	if v := c.Query("end"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			end = &t
		}
	}

	stats, err := s.statsService.GetReviewStats(c.Request.Context(), s.queue.PendingTotal(), start, end)
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, stats)
}

// getReport handles GET /api/v1/report
func (s *Server) getReport(c *gin.Context) {
	report, err := s.reports.BuildDailyReport(c.Request.Context())
	if err != nil {
		s.errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.successResponse(c, report)
}
