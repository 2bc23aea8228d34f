// Package sizing suggests solar, battery and inverter sizes from consumption
// and generation data.
package sizing

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"solar-roi/internal/model"
)

// BatteryMenu lists the standard battery capacities in kWh.
var BatteryMenu = []float64{5, 10, 13.5, 16, 20, 24, 32, 40, 48}

// DefaultYields are typical generation per installed kW per day, by season.
var DefaultYields = map[model.Season]float64{
	model.SeasonSummer: 5.5,
	model.SeasonAutumn: 3.8,
	model.SeasonWinter: 2.6,
	model.SeasonSpring: 4.5,
	model.SeasonManual: 4.0,
}

// seasonOrder fixes the summation order over a seasonal map.
var seasonOrder = append([]model.Season{model.SeasonManual}, model.Seasons...)

type Options struct {
	// Percentile in (0, 1]; zero means 0.9.
	Percentile float64
	// Menu of battery sizes, ascending; nil means BatteryMenu.
	Menu []float64
}

func (o Options) withDefaults() Options {
	if o.Percentile <= 0 || o.Percentile > 1 {
		o.Percentile = 0.9
	}
	if len(o.Menu) == 0 {
		o.Menu = BatteryMenu
	}
	return o
}

type Recommendation struct {
	SolarKW     float64 `json:"solar_kw,omitempty"`
	BatteryKWh  float64 `json:"battery_kwh"`
	InverterKW  float64 `json:"inverter_kw,omitempty"`
	PeakNeedKWh float64 `json:"peak_need_kwh"`
	MaxHourKWh  float64 `json:"max_hour_kwh,omitempty"`
	DaysCovered int     `json:"days_covered,omitempty"`
	DaysTotal   int     `json:"days_total,omitempty"`
}

// FromHistory sizes a battery to cover the percentile day's net deficit over
// peakHours, and an inverter for its largest single hour.
func FromHistory(days []model.DayRecord, peakHours model.HourSet, opts Options) (*Recommendation, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no days to size from", model.ErrMissingData)
	}
	opts = opts.withDefaults()

	peakNeed := make([]float64, len(days))
	maxHour := make([]float64, len(days))
	for i, d := range days {
		for h := 0; h < 24; h++ {
			deficit := math.Max(0, d.Consumption[h]-d.Solar[h])
			if peakHours[h] {
				peakNeed[i] += deficit
			}
			maxHour[i] = math.Max(maxHour[i], deficit)
		}
	}

	pPeak := quantile(opts.Percentile, peakNeed)
	pHour := quantile(opts.Percentile, maxHour)

	rec := &Recommendation{
		BatteryKWh:  menuCeil(pPeak, opts.Menu),
		InverterKW:  math.Ceil(pHour*2) / 2,
		PeakNeedKWh: pPeak,
		MaxHourKWh:  pHour,
		DaysTotal:   len(days),
	}
	for i := range days {
		if peakNeed[i] <= rec.BatteryKWh && maxHour[i] <= rec.InverterKW {
			rec.DaysCovered++
		}
	}
	return rec, nil
}

// FromSeasonal is the quick estimate when only seasonal averages are known.
// targetCoveragePct is the share of consumption the system should cover.
// A nil yieldPerKW uses DefaultYields.
func FromSeasonal(avgs map[model.Season]model.SeasonalDay, targetCoveragePct float64, yieldPerKW map[model.Season]float64) Recommendation {
	if yieldPerKW == nil {
		yieldPerKW = DefaultYields
	}
	coverage := targetCoveragePct / 100

	var daily, peak, yield float64
	n := 0
	for _, season := range seasonOrder {
		d, ok := avgs[season]
		if !ok {
			continue
		}
		y, ok := yieldPerKW[season]
		if !ok {
			y = DefaultYields[season]
		}
		daily += d.ConsumptionKWh()
		peak += d.PeakKWh
		yield += y
		n++
	}
	if n == 0 {
		return Recommendation{}
	}
	daily /= float64(n)
	peak /= float64(n)
	yield /= float64(n)

	rec := Recommendation{PeakNeedKWh: peak * coverage}
	if yield > 0 {
		rec.SolarKW = math.Round(daily*coverage/yield*2) / 2
	}
	rec.BatteryKWh = menuNearest(rec.PeakNeedKWh, BatteryMenu)
	return rec
}

// quantile returns the empirical p-quantile. stat.Quantile needs sorted input.
func quantile(p float64, xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// menuCeil is the smallest entry >= need, or the largest entry.
func menuCeil(need float64, menu []float64) float64 {
	for _, m := range menu {
		if m >= need {
			return m
		}
	}
	return menu[len(menu)-1]
}

// menuNearest snaps to the closest entry; ties go to the larger size.
func menuNearest(x float64, menu []float64) float64 {
	best := menu[0]
	for _, m := range menu[1:] {
		if math.Abs(m-x) <= math.Abs(best-x) {
			best = m
		}
	}
	return best
}
