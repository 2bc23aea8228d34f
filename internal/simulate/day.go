// Package simulate routes one day of consumption and solar through
// self-consumption, an optional battery and the grid.
package simulate

import (
	"fmt"
	"math"

	"solar-roi/internal/model"
)

// DayResult is the outcome of one simulated day.
type DayResult struct {
	Breakdown model.DailyBreakdown `json:"breakdown"`
	EndingSOC float64             `json:"ending_soc_kwh"`
	Hours     [24]model.HourFlow  `json:"hours"`
}

// Day simulates hours 0..23 in order. battery may be nil for the no-system
// baseline; startingSOC is in kWh and is clamped to the battery's capacity.
//
// Per hour: solar covers load first, surplus charges the battery and the rest
// is exported; the battery then covers remaining load and the rest is
// imported; finally, inside the grid-charge window and below the trigger SOC,
// the battery is topped up from the grid towards the target SOC. Solar charge,
// discharge and grid charge share one inverter budget per hour.
func Day(consumption, solar model.HourlyProfile, provider model.ProviderConfig, battery *model.BatteryConfig, startingSOC float64) (*DayResult, error) {
	if err := consumption.Validate(); err != nil {
		return nil, fmt.Errorf("consumption: %w", err)
	}
	if err := solar.Validate(); err != nil {
		return nil, fmt.Errorf("solar: %w", err)
	}
	if math.IsNaN(startingSOC) || math.IsInf(startingSOC, 0) {
		return nil, fmt.Errorf("%w: starting SOC is not finite", model.ErrContractViolation)
	}

	active := battery.Active()
	soc := 0.0
	var window model.HourSet
	if active {
		soc = battery.ClampSOC(startingSOC)
		window = provider.GridCharge.Window()
	}

	res := &DayResult{}
	var b model.DailyBreakdown

	for h := 0; h < 24; h++ {
		c, s := consumption[h], solar[h]
		self := math.Min(c, s)
		load := c - self
		excess := s - self

		flow := model.HourFlow{
			Hour:         h,
			Consumption:  c,
			Solar:        s,
			SelfConsumed: self,
			SOCStart:     soc,
		}

		if active {
			headroom := battery.InverterKW

			charge := clampFlow(excess, battery.CapacityKWh-soc, headroom)
			soc = battery.ClampSOC(soc + charge)
			headroom -= charge
			excess -= charge

			discharge := clampFlow(load, soc, headroom)
			soc = battery.ClampSOC(soc - discharge)
			headroom -= discharge
			load -= discharge

			grid := 0.0
			if window[h] && soc < battery.TriggerKWh() {
				grid = clampFlow(battery.TargetKWh()-soc, battery.CapacityKWh-soc, headroom)
				soc = battery.ClampSOC(soc + grid)
			}

			flow.SolarCharge = charge
			flow.Discharge = discharge
			flow.GridCharge = grid
			b.GridChargeKWh += grid
			b.GridChargeCost += grid * model.RateForHour(provider.ImportRules, h)
			load += grid
		}

		flow.Import = load
		flow.Export = excess
		flow.SOCEnd = soc
		flow.Action = model.ActionFromFlows(flow.SolarCharge, flow.Discharge, flow.GridCharge)

		b.HourlyImport[h] = load
		b.HourlyExport[h] = excess
		res.Hours[h] = flow
	}

	categorize(&b, provider)

	if err := b.Check(); err != nil {
		return nil, fmt.Errorf("day breakdown: %w", err)
	}
	res.Breakdown = b
	res.EndingSOC = soc
	return res, nil
}

// categorize fills the TOU import bands and the export tier split.
func categorize(b *model.DailyBreakdown, provider model.ProviderConfig) {
	peak, shoulder := model.ClassifyHours(provider.ImportRules)
	for h, imp := range b.HourlyImport {
		switch {
		case peak[h]:
			b.PeakKWh += imp
		case shoulder[h]:
			b.ShoulderKWh += imp
		default:
			b.OffPeakKWh += imp
		}
	}

	total := b.TotalExport()
	b.Tier1ExportKWh = total
	if len(provider.ExportRules) == 0 {
		return
	}
	if tier, ok := provider.ExportRules[0].(model.Tiered); ok {
		b.Tier1ExportKWh = math.Min(total, tier.Limit)
		b.Tier2ExportKWh = total - b.Tier1ExportKWh
	}
}

// clampFlow returns want bounded by every limit, never below zero.
func clampFlow(want float64, limits ...float64) float64 {
	for _, l := range limits {
		want = math.Min(want, l)
	}
	return math.Max(0, want)
}
