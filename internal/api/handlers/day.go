package handlers

import (
	"fmt"
	"net/http"
	"time"

	"solar-roi/internal/api/models"
	"solar-roi/internal/backtest"
	"solar-roi/internal/conditions"
	"solar-roi/internal/config"
	"solar-roi/internal/metrics"
	"solar-roi/internal/model"

	"github.com/gin-gonic/gin"
)

// RunDay handles POST /api/v1/simulate/day
func (h *SimulateHandler) RunDay(c *gin.Context) {
	var req models.DayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	in, err := h.dayInput(req)
	if err != nil {
		respondErr(c, err)
		return
	}

	start := time.Now()
	out, err := backtest.SimulateDay(in)
	h.metrics.Observe(metrics.KindDay, time.Since(start), err)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DayResponse{Status: statusCompleted, DayOutcome: out})
}

func (h *SimulateHandler) dayInput(req models.DayRequest) (backtest.DayInput, error) {
	pc := req.Provider
	if pc.ProviderFile != "" {
		if err := checkPresetRef(pc.ProviderFile); err != nil {
			return backtest.DayInput{}, err
		}
		var err error
		if pc, err = config.ResolvePinnedProvider(h.providerDir, pc); err != nil {
			return backtest.DayInput{}, err
		}
	}
	p, err := pc.ToModel()
	if err != nil {
		return backtest.DayInput{}, err
	}

	analysis := req.Analysis
	analysis.SetDefaults()
	in := backtest.DayInput{
		Provider: p,
		Analysis: analysis.ToModel(),
		Year:     req.Year,
	}
	if req.Battery != nil {
		n := req.Battery.ToModel()
		in.Battery = &n
	}
	if req.Date != "" {
		if in.Date, err = conditions.ParseDate(req.Date); err != nil {
			return backtest.DayInput{}, err
		}
	}

	switch {
	case req.Seasonal != nil:
		season, err := model.ParseSeason(req.Season)
		if err != nil {
			return backtest.DayInput{}, err
		}
		d := model.SeasonalDay{
			PeakKWh:     req.Seasonal.PeakKWh,
			ShoulderKWh: req.Seasonal.ShoulderKWh,
			OffPeakKWh:  req.Seasonal.OffPeakKWh,
			SolarKWh:    req.Seasonal.SolarKWh,
		}
		in.UseSeasonal(d, season, model.Hemisphere(req.Hemisphere), backtest.ProfileWindows(req.ProfileWindows))
	case len(req.Consumption) > 0:
		if in.Consumption, err = model.NewHourlyProfile(req.Consumption); err != nil {
			return backtest.DayInput{}, fmt.Errorf("consumption: %w", err)
		}
		if len(req.Solar) > 0 {
			if in.Solar, err = model.NewHourlyProfile(req.Solar); err != nil {
				return backtest.DayInput{}, fmt.Errorf("solar: %w", err)
			}
		}
	default:
		return backtest.DayInput{}, fmt.Errorf("%w: consumption or seasonal data is required", model.ErrMissingData)
	}
	return in, nil
}
