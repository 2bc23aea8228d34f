package handlers

import (
	"fmt"
	"net/http"
	"time"

	"solar-roi/internal/api/models"
	"solar-roi/internal/config"
	"solar-roi/internal/metrics"
	"solar-roi/internal/model"
	"solar-roi/internal/profile"
	"solar-roi/internal/sizing"

	"github.com/gin-gonic/gin"
)

// SizingHandler handles sizing recommendation requests
type SizingHandler struct {
	metrics *metrics.Recorder
}

func NewSizingHandler(rec *metrics.Recorder) *SizingHandler {
	return &SizingHandler{metrics: rec}
}

// Recommend handles POST /api/v1/sizing
func (h *SizingHandler) Recommend(c *gin.Context) {
	var req models.SizingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	start := time.Now()
	resp, err := recommend(req)
	h.metrics.Observe(metrics.KindSizing, time.Since(start), err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func recommend(req models.SizingRequest) (models.SizingResponse, error) {
	switch {
	case req.Historical != nil:
		days, err := req.Historical.Records()
		if err != nil {
			return models.SizingResponse{}, err
		}
		peak, _ := profile.DefaultWindows()
		if req.PeakHours != "" {
			if peak, err = model.ParseHours(req.PeakHours); err != nil {
				return models.SizingResponse{}, err
			}
		}
		rec, err := sizing.FromHistory(days, peak, sizing.Options{Percentile: req.Percentile})
		if err != nil {
			return models.SizingResponse{}, err
		}
		return models.SizingResponse{Status: statusCompleted, Source: "historical", Recommendation: *rec}, nil

	case len(req.Seasonal) > 0:
		avgs, err := config.SeasonalDays(req.Seasonal)
		if err != nil {
			return models.SizingResponse{}, err
		}
		var yields map[model.Season]float64
		if len(req.YieldPerKW) > 0 {
			yields = make(map[model.Season]float64, len(req.YieldPerKW))
			for name, y := range req.YieldPerKW {
				s, err := model.ParseSeason(name)
				if err != nil {
					return models.SizingResponse{}, err
				}
				yields[s] = y
			}
		}
		coverage := req.TargetCoveragePct
		if coverage == 0 {
			coverage = 100
		}
		rec := sizing.FromSeasonal(avgs, coverage, yields)
		return models.SizingResponse{Status: statusCompleted, Source: "seasonal", Recommendation: rec}, nil
	}
	return models.SizingResponse{}, fmt.Errorf("%w: historical or seasonal data is required", model.ErrMissingData)
}
