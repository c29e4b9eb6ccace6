package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fleet-cost/core/engine"
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
	"fleet-cost/internal/logging"
)

// Server is the HTTP API server
type Server struct {
	engine  *engine.Engine
	version string
	router  *gin.Engine
}

// NewServer creates an API server over a cost engine
func NewServer(eng *engine.Engine, version string) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		engine:  eng,
		version: version,
		router:  router,
	}
	s.registerRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until the server fails
func (s *Server) Run(addr string) error {
	logging.Info("api server listening", zap.String("addr", addr))
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/version", s.handleVersion)

	v1 := s.router.Group("/api/v1")
	v1.POST("/costs", s.handleCosts)
	v1.GET("/costs/summary", s.handleSummary)
	v1.GET("/costs/breakdown", s.handleBreakdown)
	v1.GET("/costs/attribution", s.handleAttribution)
	v1.GET("/dimensions/:key", s.handleDimensionValues)
	v1.GET("/tags/:key", s.handleTagValues)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version":   s.version,
		"reference": s.engine.Reference().Format(types.DateLayout),
	})
}

func (s *Server) handleCosts(c *gin.Context) {
	start := time.Now()

	var req CostQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.Wrap(errors.TypeInput, "invalid request body", err))
		return
	}
	q, err := req.toQuery()
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := s.engine.GetCostAndUsage(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"periods": result.Periods,
		"meta":    responseMeta{DurationMs: time.Since(start).Milliseconds()},
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	q, err := queryFromParams(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.engine.Summary(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBreakdown(c *gin.Context) {
	q, err := queryFromParams(c)
	if err != nil {
		writeError(c, err)
		return
	}
	q.GroupBy = c.QueryArray("groupBy")
	result, err := s.engine.Breakdown(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAttribution(c *gin.Context) {
	q, err := queryFromParams(c)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := s.engine.Attribution(c.Request.Context(), q, c.Query("tagKey"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDimensionValues(c *gin.Context) {
	values, err := s.engine.GetDimensionValues(c.Request.Context(),
		strings.ToUpper(c.Param("key")), c.Query("start"), c.Query("end"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

func (s *Server) handleTagValues(c *gin.Context) {
	values, err := s.engine.GetTagValues(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"values": values})
}

// queryFromParams builds the common query fields from URL parameters
func queryFromParams(c *gin.Context) (engine.Query, error) {
	req := CostQueryRequest{
		Start:         c.Query("start"),
		End:           c.Query("end"),
		Granularity:   c.DefaultQuery("granularity", string(types.GranularityDaily)),
		Metric:        c.DefaultQuery("metric", string(types.MetricUnblendedCost)),
		IncludeFuture: c.Query("includeFuture") == "true",
	}
	if req.Start == "" || req.End == "" {
		return engine.Query{}, errors.Input("start and end are required")
	}
	return req.toQuery()
}

// writeError maps domain error types onto HTTP statuses
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errType := string(errors.TypeInternal)

	if e, ok := err.(*errors.Error); ok {
		errType = string(e.Type)
		switch e.Type {
		case errors.TypeInput, errors.TypeFilter:
			status = http.StatusBadRequest
		case errors.TypeNotFound:
			status = http.StatusNotFound
		case errors.TypeNotSupported:
			status = http.StatusUnprocessableEntity
		case errors.TypeInventory, errors.TypeNetwork:
			status = http.StatusBadGateway
		}
	}

	if status >= http.StatusInternalServerError {
		logging.Error("request failed", zap.Error(err))
	}
	c.JSON(status, errorEnvelope{Error: errorBody{Type: errType, Message: err.Error()}})
}
