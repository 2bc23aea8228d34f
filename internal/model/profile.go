package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// HourlyProfile is one day of hourly energy in kWh, indexed by hour of day.
type HourlyProfile [24]float64

// NewHourlyProfile converts a wire slice into a profile. It fails loudly on
// anything other than 24 finite, non-negative values.
func NewHourlyProfile(vals []float64) (HourlyProfile, error) {
	var p HourlyProfile
	if len(vals) != len(p) {
		return p, fmt.Errorf("%w: hourly profile has %d values, want 24", ErrContractViolation, len(vals))
	}
	copy(p[:], vals)
	if err := p.Validate(); err != nil {
		return HourlyProfile{}, err
	}
	return p, nil
}

// Validate checks every hour is finite and non-negative.
func (p HourlyProfile) Validate() error {
	for h, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: hour %d is not finite", ErrContractViolation, h)
		}
		if v < 0 {
			return fmt.Errorf("%w: hour %d is negative (%g)", ErrContractViolation, h, v)
		}
	}
	return nil
}

// Total returns the day's energy.
func (p HourlyProfile) Total() float64 {
	return floats.Sum(p[:])
}

// Scale returns a copy with every hour multiplied by f.
func (p HourlyProfile) Scale(f float64) HourlyProfile {
	out := p
	floats.Scale(f, out[:])
	return out
}

// Slice returns the profile as a fresh slice, for JSON and CSV output.
func (p HourlyProfile) Slice() []float64 {
	out := make([]float64, len(p))
	copy(out, p[:])
	return out
}

// SumOver returns the energy in the hours of s.
func (p HourlyProfile) SumOver(s HourSet) float64 {
	sum := 0.0
	for h, v := range p {
		if s[h] {
			sum += v
		}
	}
	return sum
}
