// Package profile expands daily kWh totals into 24 hourly values.
package profile

import (
	"math"

	"solar-roi/internal/model"
)

// DefaultWindows returns the fixed TOU windows used when a provider's own
// rules are not used to shape consumption: peak 15:00-21:00, shoulder
// 07:00-15:00 and 21:00-22:00, off-peak the rest.
func DefaultWindows() (peak, shoulder model.HourSet) {
	peak = model.HourRange(15, 21)
	shoulder = model.HourRange(7, 15).Union(model.HourRange(21, 22))
	return peak, shoulder
}

// ProviderWindows derives the peak and shoulder windows from a provider's
// import TOU rules.
func ProviderWindows(p model.ProviderConfig) (peak, shoulder model.HourSet) {
	return model.ClassifyHours(p.ImportRules)
}

// ExpandConsumption spreads each band total evenly over the band's hours.
// Hours in neither set are off-peak; hours in both count as peak. A band
// with no hours contributes nothing.
func ExpandConsumption(peakKWh, shoulderKWh, offPeakKWh float64, peakHours, shoulderHours model.HourSet) model.HourlyProfile {
	shoulderHours = shoulderHours.Minus(peakHours)
	offHours := model.AllHours().Minus(peakHours).Minus(shoulderHours)

	var out model.HourlyProfile
	spread(&out, nonNegative(peakKWh), peakHours)
	spread(&out, nonNegative(shoulderKWh), shoulderHours)
	spread(&out, nonNegative(offPeakKWh), offHours)
	return out
}

// ExpandSolar distributes a day's generation along the season's curve.
func ExpandSolar(totalKWh float64, season model.Season) model.HourlyProfile {
	var out model.HourlyProfile
	totalKWh = nonNegative(totalKWh)
	if totalKWh == 0 {
		return out
	}
	curve := Curve(season)
	for h := range out {
		out[h] = totalKWh * curve[h]
	}
	return out
}

// FromSeasonal builds the consumption and solar profiles for an average day.
func FromSeasonal(d model.SeasonalDay, season model.Season, peakHours, shoulderHours model.HourSet) (consumption, solar model.HourlyProfile) {
	consumption = ExpandConsumption(d.PeakKWh, d.ShoulderKWh, d.OffPeakKWh, peakHours, shoulderHours)
	solar = ExpandSolar(d.SolarKWh, season)
	return consumption, solar
}

func spread(out *model.HourlyProfile, total float64, hours model.HourSet) {
	n := hours.Count()
	if n == 0 || total == 0 {
		return
	}
	per := total / float64(n)
	for h := range out {
		if hours[h] {
			out[h] += per
		}
	}
}

func nonNegative(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}
