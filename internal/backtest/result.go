package backtest

import (
	"time"

	"solar-roi/internal/model"
)

// YearResult is one analysis year for one provider.
type YearResult struct {
	Year int `json:"year"`

	SolarFactor      float64 `json:"solar_factor"`
	BatteryFactor    float64 `json:"battery_factor"`
	EscalationFactor float64 `json:"escalation_factor"`

	BaselineCost float64 `json:"baseline_cost"`
	SystemCost   float64 `json:"system_cost"`
	Savings      float64 `json:"savings"`

	LoanRepayment      float64 `json:"loan_repayment"`
	NetCashFlow        float64 `json:"net_cash_flow"`
	CumulativeSavings  float64 `json:"cumulative_savings"`
	DiscountedCashFlow float64 `json:"discounted_cash_flow"`
}

// ProviderFinancials is the multi-year projection for one provider.
type ProviderFinancials struct {
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`

	Years []YearResult `json:"years"`

	TotalSavings float64 `json:"total_savings"`
	// PaybackYear is the first year cumulative savings reach the net system
	// cost; nil when that never happens within the horizon.
	PaybackYear *int    `json:"payback_year"`
	NPV         float64 `json:"npv"`
	// IRR is nil when it is undefined or did not converge.
	IRR *float64 `json:"irr"`
}

// PeriodResult is one simulated representative day, kept for year 1 only.
type PeriodResult struct {
	Scenario string    `json:"scenario"` // "baseline" or a provider id
	Label    string    `json:"label"`
	Date     time.Time `json:"date"`
	Days     float64   `json:"days"`

	Breakdown model.DailyBreakdown `json:"breakdown"`

	SupplyCharge float64 `json:"supply_charge"`
	ImportCost   float64 `json:"import_cost"`
	ExportCredit float64 `json:"export_credit"`
	DailyCost    float64 `json:"daily_cost"` // after special conditions

	SOCStart float64 `json:"soc_start_kwh"`
	SOCEnd   float64 `json:"soc_end_kwh"`
}

type Result struct {
	Financials []ProviderFinancials `json:"financials"`
	RawYear1   []PeriodResult       `json:"raw_year1,omitempty"`
	Ranking    []Ranked             `json:"ranking"`
}

// BaselineScenario labels the no-system rows of RawYear1.
const BaselineScenario = "baseline"
