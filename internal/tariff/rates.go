package tariff

import "math"

// Escalation grows import rates year on year.
type Escalation struct {
	Rate float64 // e.g. 0.03 for 3%/year
	Year int     // analysis year, 1-based
}

// EscalatedRate applies compound growth: rate * (1+r)^(year-1).
func EscalatedRate(rate float64, esc Escalation) float64 {
	year := esc.Year
	if year < 1 {
		year = 1
	}
	return rate * math.Pow(1+esc.Rate, float64(year-1))
}

// Factor is the escalation multiplier for the year.
func (e Escalation) Factor() float64 {
	return EscalatedRate(1, e)
}

// FitDegradation steps a feed-in rate down linearly between two analysis years.
type FitDegradation struct {
	Enabled   bool
	StartYear float64
	EndYear   float64
	MinRate   float64
}

// DegradedFitRate holds base up to StartYear, interpolates linearly down to
// MinRate by EndYear, and holds MinRate after. A window with StartYear >=
// EndYear degrades immediately to MinRate. Rates already at or below MinRate
// are left alone.
func DegradedFitRate(base, year float64, fit FitDegradation) float64 {
	if !fit.Enabled || base <= fit.MinRate {
		return base
	}
	if fit.StartYear >= fit.EndYear {
		return fit.MinRate
	}
	switch {
	case year <= fit.StartYear:
		return base
	case year >= fit.EndYear:
		return fit.MinRate
	}
	frac := (year - fit.StartYear) / (fit.EndYear - fit.StartYear)
	return base - frac*(base-fit.MinRate)
}
