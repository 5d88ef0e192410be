package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-voter-search/config"
	"github.com/gcbaptista/go-voter-search/internal/engine"
)

// API holds dependencies for API handlers, primarily the search engine.
type API struct {
	engine   *engine.Engine
	messages config.Messages
	logger   *zap.Logger
}

// Options configures the routes installed by SetupRoutes.
type Options struct {
	Messages config.Messages
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer // when set, /metrics is served from it
}

// NewAPI creates a new API handler structure.
func NewAPI(eng *engine.Engine, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		engine:   eng,
		messages: opts.Messages,
		logger:   logger,
	}
}

// SetupRoutes defines all the API routes for the voter search service.
func SetupRoutes(router *gin.Engine, eng *engine.Engine, opts Options) {
	apiHandler := NewAPI(eng, opts)

	router.GET("/health", apiHandler.HealthCheckHandler)
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	partitionRoutes := router.Group("/partitions")
	{
		partitionRoutes.GET("", apiHandler.ListPartitionsHandler)           // Labels sorted by code, with status
		partitionRoutes.POST("/_select", apiHandler.SelectPartitionHandler) // Load a partition and summarize it
	}

	router.POST("/_search", apiHandler.SearchHandler)
}

// NewRouter creates a gin engine with the standard middleware stack and all routes.
func NewRouter(eng *engine.Engine, settings config.ServerSettings, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	if opts.Logger != nil {
		router.Use(LoggerMiddleware(opts.Logger))
	}
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(settings.MaxBodyBytes))

	SetupRoutes(router, eng, opts)
	return router
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-voter-search",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}
