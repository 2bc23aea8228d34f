package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// ConservationTolerance bounds the drift allowed between categorized totals
// and the hourly arrays they were built from.
const ConservationTolerance = 1e-9

// DailyBreakdown is the rated-ready result of simulating one day.
type DailyBreakdown struct {
	// Grid import, TOU-categorized.
	PeakKWh     float64 `json:"peak_kwh"`
	ShoulderKWh float64 `json:"shoulder_kwh"`
	OffPeakKWh  float64 `json:"off_peak_kwh"`

	Tier1ExportKWh float64 `json:"tier1_export_kwh"`
	Tier2ExportKWh float64 `json:"tier2_export_kwh"`

	GridChargeKWh  float64 `json:"grid_charge_kwh"`
	GridChargeCost float64 `json:"grid_charge_cost"`

	HourlyImport HourlyProfile `json:"hourly_import"`
	HourlyExport HourlyProfile `json:"hourly_export"`
}

// TotalImport is the day's grid import in kWh.
func (b DailyBreakdown) TotalImport() float64 { return b.HourlyImport.Total() }

// TotalExport is the day's grid export in kWh.
func (b DailyBreakdown) TotalExport() float64 { return b.HourlyExport.Total() }

// Check verifies the breakdown's conservation identities.
func (b DailyBreakdown) Check() error {
	if err := b.HourlyImport.Validate(); err != nil {
		return fmt.Errorf("hourly import: %w", err)
	}
	if err := b.HourlyExport.Validate(); err != nil {
		return fmt.Errorf("hourly export: %w", err)
	}
	imp := b.PeakKWh + b.ShoulderKWh + b.OffPeakKWh
	if !scalar.EqualWithinAbs(imp, b.TotalImport(), ConservationTolerance) {
		return fmt.Errorf("%w: TOU import %.12f != hourly import %.12f", ErrContractViolation, imp, b.TotalImport())
	}
	exp := b.Tier1ExportKWh + b.Tier2ExportKWh
	if !scalar.EqualWithinAbs(exp, b.TotalExport(), ConservationTolerance) {
		return fmt.Errorf("%w: tiered export %.12f != hourly export %.12f", ErrContractViolation, exp, b.TotalExport())
	}
	if math.IsNaN(b.GridChargeCost) || math.IsInf(b.GridChargeCost, 0) {
		return fmt.Errorf("%w: grid charge cost is not finite", ErrContractViolation)
	}
	return nil
}

// HourFlow is one row of the day ledger: where every kWh went in an hour.
// SOC values are kWh.
type HourFlow struct {
	Hour         int     `json:"hour"`
	Consumption  float64 `json:"consumption_kwh"`
	Solar        float64 `json:"solar_kwh"`
	SelfConsumed float64 `json:"self_consumed_kwh"`
	SolarCharge  float64 `json:"solar_charge_kwh"`
	Discharge    float64 `json:"discharge_kwh"`
	GridCharge   float64 `json:"grid_charge_kwh"`
	Import       float64 `json:"import_kwh"`
	Export       float64 `json:"export_kwh"`
	SOCStart     float64 `json:"soc_start_kwh"`
	SOCEnd       float64 `json:"soc_end_kwh"`
	Action       Action  `json:"action"`
}
