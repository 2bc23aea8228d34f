package models

import (
	"time"

	"solar-roi/internal/backtest"
	"solar-roi/internal/config"
	"solar-roi/internal/sizing"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID         string                        `json:"id,omitempty"`
	Status     string                        `json:"status"`
	CreatedAt  time.Time                     `json:"created_at"`
	Financials []backtest.ProviderFinancials `json:"financials"`
	Ranking    []backtest.Ranked             `json:"ranking"`
	RawYear1   []backtest.PeriodResult       `json:"raw_year1,omitempty"`
}

// DayResponse is one simulated and priced day
type DayResponse struct {
	Status string `json:"status"`
	*backtest.DayOutcome
}

type SizingResponse struct {
	Status string `json:"status"`
	Source string `json:"source"` // "historical" or "seasonal"
	sizing.Recommendation
}

// ProviderInfo represents information about a provider preset
type ProviderInfo struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	DailySupplyCharge float64             `json:"daily_supply_charge"`
	ImportRules       []config.RuleConfig `json:"import_rules"`
	ExportRules       []config.RuleConfig `json:"export_rules,omitempty"`
	GridCharge        bool                `json:"grid_charge"`
	SpecialConditions int                 `json:"special_conditions"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
