package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/engine"
	"github.com/pelangilabs/rainbowd/internal/providers"
	"github.com/pelangilabs/rainbowd/internal/review"
	"github.com/pelangilabs/rainbowd/internal/routing"
	"github.com/pelangilabs/rainbowd/internal/services"
	"github.com/pelangilabs/rainbowd/internal/templates"
)

// APIResponse is the standard response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server hosts the admin console REST API
type Server struct {
	router       *gin.Engine
	database     db.Database
	engine       *engine.Client
	templates    *templates.Store
	applier      *routing.Applier
	chain        *providers.Chain
	queue        *review.Queue
	statsService *services.StatsService
	reports      *services.ReportService
}

// NewServer creates the API server and registers all routes
func NewServer(database db.Database, engineClient *engine.Client, templateStore *templates.Store, applier *routing.Applier, chain *providers.Chain, queue *review.Queue, statsService *services.StatsService, reports *services.ReportService, corsOrigin string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		router:       router,
		database:     database,
		engine:       engineClient,
		templates:    templateStore,
		applier:      applier,
		chain:        chain,
		queue:        queue,
		statsService: statsService,
		reports:      reports,
	}

	router.Use(corsMiddleware(corsOrigin))
	s.setupRoutes()
	return s
}

// Run starts the HTTP server
func (s *Server) Run(address string) error {
	return s.router.Run(address)
}

// Router exposes the underlying router for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	v1 := s.router.Group("/api/v1")

	v1.GET("/health", s.health)

	v1.GET("/templates", s.listTemplates)
	v1.GET("/templates/:id", s.getTemplate)
	v1.POST("/templates", s.createTemplate)
	v1.DELETE("/templates/:id", s.deleteTemplate)
	v1.POST("/templates/:id/apply", s.applyTemplate)

	v1.GET("/routing", s.getRouting)
	v1.PUT("/routing", s.applyRouting)

	v1.GET("/providers", s.listProviders)
	v1.POST("/providers/reorder", s.reorderProviders)
	v1.POST("/providers/:id/default", s.setDefaultProvider)
	v1.PATCH("/providers/:id", s.toggleProvider)
	v1.GET("/providers/latency", s.providerLatency)

	v1.GET("/predictions/pending", s.listPending)
	v1.GET("/predictions/validated", s.listValidated)
	v1.GET("/predictions/selection", s.selectPredictions)
	v1.POST("/predictions/:id/confirm", s.confirmPrediction)
	v1.PATCH("/predictions/:id", s.correctPrediction)
	v1.POST("/predictions/bulk-validate", s.bulkValidate)

	v1.GET("/intents", s.listIntents)

	v1.GET("/stats", s.getStats)
	v1.GET("/report", s.getReport)
}

func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// Response helpers

func (s *Server) successResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

func (s *Server) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// operationError maps domain errors onto HTTP statuses. Engine rejections
// and transport failures both come back as 502 with the engine's message
// passed through verbatim when there is one.
func (s *Server) operationError(c *gin.Context, err error) {
	var validationErr *routing.ValidationError
	var missingIntent *review.MissingIntentError

	switch {
	case errors.Is(err, templates.ErrNotFound):
		s.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &validationErr), errors.As(err, &missingIntent):
		s.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		s.errorResponse(c, http.StatusBadGateway, err.Error())
	}
}

func (s *Server) parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}
	return page, limit
}

// health handles GET /api/v1/health
func (s *Server) health(c *gin.Context) {
	status := gin.H{"status": "ok"}

	if err := s.database.Ping(c.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
	}
	if err := s.engine.Ping(c.Request.Context()); err != nil {
		status["status"] = "degraded"
		status["engine"] = err.Error()
	}

	if status["status"] == "ok" {
		s.successResponse(c, status)
		return
	}
	c.JSON(http.StatusServiceUnavailable, APIResponse{Success: false, Data: status})
}
