package handlers

import (
	"fmt"
	"net/http"
	"time"

	"solar-roi/internal/api/models"
	"solar-roi/internal/backtest"
	"solar-roi/internal/config"
	"solar-roi/internal/logger"
	"solar-roi/internal/metrics"
	"solar-roi/internal/model"
	"solar-roi/internal/results"

	"github.com/gin-gonic/gin"
)

const statusCompleted = "completed"

// SimulateHandler handles simulation requests
type SimulateHandler struct {
	engine      *backtest.Engine
	cache       *results.Cache
	providerDir string
	metrics     *metrics.Recorder
	log         logger.Logger
}

// NewSimulateHandler creates a new simulate handler. rec may be nil.
func NewSimulateHandler(engine *backtest.Engine, cache *results.Cache, providerDir string, rec *metrics.Recorder, log logger.Logger) *SimulateHandler {
	return &SimulateHandler{
		engine:      engine,
		cache:       cache,
		providerDir: providerDir,
		metrics:     rec,
		log:         logger.OrNop(log),
	}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	cfg := req.Config
	if err := h.resolve(&cfg); err != nil {
		respondErr(c, err)
		return
	}
	cfg.Analysis.SetDefaults()
	in, err := cfg.ToInput()
	if err != nil {
		respondErr(c, err)
		return
	}

	start := time.Now()
	res, err := h.engine.Run(c.Request.Context(), in)
	h.metrics.Observe(metrics.KindSimulate, time.Since(start), err)
	if err != nil {
		h.log.Warnf("simulation failed: %v", err)
		respondErr(c, err)
		return
	}

	run := h.cache.Put(res)
	h.metrics.SetCached(h.cache.Len())
	c.JSON(http.StatusOK, buildSimulateResponse(run, req.IncludeRaw))
}

// GetSimulation handles GET /api/v1/simulate/:id
func (h *SimulateHandler) GetSimulation(c *gin.Context) {
	run, ok := h.cache.Get(c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, CodeNotFound, "simulation not found or expired")
		return
	}
	c.JSON(http.StatusOK, buildSimulateResponse(run, c.Query("include_raw") == "true"))
}

// resolve pins preset lookups to the server's provider dir and refuses any
// other file reference.
func (h *SimulateHandler) resolve(cfg *config.Config) error {
	if cfg.BatteryFile != "" || cfg.HistoricalFile != "" || cfg.ProviderDir != "" {
		return fmt.Errorf("%w: battery_file, historical_file and provider_dir are not accepted over HTTP", model.ErrInvalidConfiguration)
	}
	for _, ref := range cfg.ProviderFiles {
		if err := checkPresetRef(ref); err != nil {
			return err
		}
	}
	for _, p := range cfg.Providers {
		if p.ProviderFile == "" {
			continue
		}
		if err := checkPresetRef(p.ProviderFile); err != nil {
			return err
		}
	}
	return cfg.ResolvePinned(h.providerDir)
}

func buildSimulateResponse(run results.Run, includeRaw bool) models.SimulateResponse {
	resp := models.SimulateResponse{
		ID:         run.ID,
		Status:     statusCompleted,
		CreatedAt:  run.CreatedAt,
		Financials: run.Result.Financials,
		Ranking:    run.Result.Ranking,
	}
	if includeRaw {
		resp.RawYear1 = run.Result.RawYear1
	}
	return resp
}
