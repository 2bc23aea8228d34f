// Package tariff rates a day's grid import and export against a provider's
// ordered rule lists.
package tariff

import (
	"fmt"
	"math"

	"solar-roi/internal/model"

	"gonum.org/v1/gonum/floats"
)

// settled is the remaining energy below which a rule list stops consuming.
const settled = 1e-12

// ImportCost prices the day's hourly import. Each rule's rate is escalated
// for the analysis year before it is applied.
func ImportCost(rules []model.Rule, b model.DailyBreakdown, esc Escalation) (float64, error) {
	cost, err := consume(rules, b.HourlyImport, func(r model.Rule) float64 {
		return EscalatedRate(r.BaseRate(), esc)
	})
	if err != nil {
		return 0, fmt.Errorf("import rules: %w", err)
	}
	return cost, nil
}

// ExportCredit values the day's hourly export. Each rule's rate passes
// through FIT degradation for the analysis year.
func ExportCredit(rules []model.Rule, b model.DailyBreakdown, year float64, fit FitDegradation) (float64, error) {
	credit, err := consume(rules, b.HourlyExport, func(r model.Rule) float64 {
		return DegradedFitRate(r.BaseRate(), year, fit)
	})
	if err != nil {
		return 0, fmt.Errorf("export rules: %w", err)
	}
	return credit, nil
}

// consume walks rules in order; each claims part of the remaining hourly
// energy at its rate and zeroes what it claimed:
//   - TimeOfUse claims the energy in its hours.
//   - Tiered claims up to Limit kWh, time-agnostic, and scales every remaining
//     hour down by the same proportion so later TOU rules see a consistent array.
//   - Flat claims everything left.
func consume(rules []model.Rule, hourly model.HourlyProfile, rate func(model.Rule) float64) (float64, error) {
	remaining := hourly
	left := remaining.Total()
	total := 0.0

	for i, r := range rules {
		if left <= settled {
			break
		}
		claimed := 0.0
		switch rule := r.(type) {
		case model.TimeOfUse:
			for h := range remaining {
				if rule.Hours[h] {
					claimed += remaining[h]
					remaining[h] = 0
				}
			}
		case model.Tiered:
			claimed = math.Max(0, math.Min(rule.Limit, left))
			floats.Scale((left-claimed)/left, remaining[:])
		case model.Flat:
			claimed = left
			remaining = model.HourlyProfile{}
		case nil:
			return 0, fmt.Errorf("%w: rule %d is nil", model.ErrInvalidConfiguration, i)
		default:
			return 0, fmt.Errorf("%w: rule %d has unsupported type %T", model.ErrInvalidConfiguration, i, r)
		}
		total += claimed * rate(r)
		left = remaining.Total()
	}
	return total, nil
}
