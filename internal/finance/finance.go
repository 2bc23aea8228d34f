// Package finance holds the cash-flow arithmetic behind payback, NPV and IRR.
package finance

import "math"

const (
	irrMaxIterations = 100
	irrTolerance     = 1e-6
	irrGuess         = 0.1
)

// Discount returns the present value of amount received at the end of year.
func Discount(amount, rate float64, year int) float64 {
	return amount / math.Pow(1+rate, float64(year))
}

// NPV discounts flows[t] at (1+rate)^t; flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	sum := 0.0
	for t, cf := range flows {
		sum += Discount(cf, rate, t)
	}
	return sum
}

// IRR solves NPV(r, flows) = 0 by Newton-Raphson from a 10% guess.
// It returns nil when no flow is positive, on non-convergence within 100
// iterations, and whenever an iterate leaves the domain r > -1.
func IRR(flows []float64) *float64 {
	if !hasPositive(flows) {
		return nil
	}
	r := irrGuess
	for i := 0; i < irrMaxIterations; i++ {
		f, df := npvAndDerivative(r, flows)
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			return nil
		}
		next := r - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return nil
		}
		if math.Abs(next-r) < irrTolerance {
			return &next
		}
		r = next
	}
	return nil
}

func npvAndDerivative(r float64, flows []float64) (f, df float64) {
	base := 1 + r
	for t, cf := range flows {
		ft := float64(t)
		f += cf / math.Pow(base, ft)
		df -= ft * cf / math.Pow(base, ft+1)
	}
	return f, df
}

// PaybackYear returns the first 1-based year whose cumulative value reaches
// target, or nil if none does.
func PaybackYear(cumulative []float64, target float64) *int {
	for i, c := range cumulative {
		if c >= target {
			year := i + 1
			return &year
		}
	}
	return nil
}

func hasPositive(flows []float64) bool {
	for _, cf := range flows {
		if cf > 0 {
			return true
		}
	}
	return false
}
