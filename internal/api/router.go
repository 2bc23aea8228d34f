// Package api wires the HTTP surface of the simulator.
package api

import (
	"net/http"

	"solar-roi/internal/api/handlers"
	"solar-roi/internal/api/middleware"
	"solar-roi/internal/backtest"
	"solar-roi/internal/logger"
	"solar-roi/internal/metrics"
	"solar-roi/internal/results"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived collaborators shared by all requests.
type Deps struct {
	Engine      *backtest.Engine
	Cache       *results.Cache
	Metrics     *metrics.Recorder
	Log         logger.Logger
	ProviderDir string
	CORSOrigins []string
	// MetricsHandler serves /metrics; nil means promhttp.Handler().
	MetricsHandler http.Handler
}

func NewRouter(d Deps) *gin.Engine {
	log := logger.OrNop(d.Log)
	if d.Engine == nil {
		d.Engine = backtest.New(log)
	}
	if d.MetricsHandler == nil {
		d.MetricsHandler = promhttp.Handler()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(log))

	simulateHandler := handlers.NewSimulateHandler(d.Engine, d.Cache, d.ProviderDir, d.Metrics, log)
	sizingHandler := handlers.NewSizingHandler(d.Metrics)
	providerHandler := handlers.NewProviderHandler(d.ProviderDir, log)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.MetricsHandler))

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/simulate", simulateHandler.RunSimulation)
		v1.POST("/simulate/day", simulateHandler.RunDay)
		v1.GET("/simulate/:id", simulateHandler.GetSimulation)

		v1.POST("/sizing", sizingHandler.Recommend)
		v1.GET("/providers", providerHandler.ListProviders)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": handlers.CodeNotFound, "message": "Not found"}})
	})
	return router
}
