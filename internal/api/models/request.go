package models

import (
	"solar-roi/internal/config"
	"solar-roi/internal/data"
)

// SimulateRequest is a full scenario plus response options. File references
// other than provider_file presets are not accepted over HTTP.
type SimulateRequest struct {
	config.Config
	IncludeRaw bool `json:"include_raw,omitempty"`
}

// DayRequest simulates one day. Give either 24-value consumption and solar
// arrays, or a seasonal average together with its season.
type DayRequest struct {
	Provider config.ProviderConfig `json:"provider"`
	Battery  *config.BatteryConfig `json:"battery,omitempty"`

	Consumption []float64 `json:"consumption,omitempty"`
	Solar       []float64 `json:"solar,omitempty"`

	Seasonal       *config.SeasonalConfig `json:"seasonal,omitempty"`
	Season         string                 `json:"season,omitempty"`
	ProfileWindows string                 `json:"profile_windows,omitempty"` // "fixed" (default) or "provider"
	Hemisphere     string                 `json:"hemisphere,omitempty"`

	Date     string                `json:"date,omitempty"` // YYYY-MM-DD; drives month-scoped conditions
	Year     int                   `json:"year,omitempty"`
	Analysis config.AnalysisConfig `json:"analysis,omitempty"`
}

// SizingRequest asks for a recommendation from history or seasonal averages.
type SizingRequest struct {
	Historical *data.HistoryFile `json:"historical,omitempty"`
	PeakHours  string            `json:"peak_hours,omitempty"` // default "15:00-21:00"
	Percentile float64           `json:"percentile,omitempty"`

	Seasonal          map[string]config.SeasonalConfig `json:"seasonal,omitempty"`
	TargetCoveragePct float64                          `json:"target_coverage_pct,omitempty"` // default 100
	YieldPerKW        map[string]float64               `json:"yield_per_kw,omitempty"`
}
