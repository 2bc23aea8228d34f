// Package conditions applies a provider's conditional daily credits and charges.
package conditions

import (
	"fmt"
	"strings"
	"time"

	"solar-roi/internal/model"
)

// Apply evaluates conds in order against the day's breakdown and returns the
// adjusted daily cost. Every matching condition applies; there is no early exit.
func Apply(cost float64, b model.DailyBreakdown, conds []model.SpecialCondition, date time.Time) (float64, error) {
	month := int(date.Month())
	for _, c := range conds {
		if !c.AppliesIn(month) {
			continue
		}
		value, err := Metric(c, b)
		if err != nil {
			return 0, err
		}
		ok, err := compare(value, c.Operator, c.Threshold)
		if err != nil {
			return 0, fmt.Errorf("condition %q: %w", c.Name, err)
		}
		if !ok {
			continue
		}
		switch c.Action {
		case model.ActionFlatCharge:
			cost += c.Amount
		case model.ActionFlatCredit:
			cost -= c.Amount
		default:
			return 0, fmt.Errorf("%w: condition %q has unknown action %q", model.ErrInvalidConfiguration, c.Name, c.Action)
		}
	}
	return cost, nil
}

// Metric computes the quantity a condition tests.
func Metric(c model.SpecialCondition, b model.DailyBreakdown) (float64, error) {
	switch c.Metric {
	case model.MetricPeakImport:
		return b.PeakKWh, nil
	case model.MetricNetGridUsage:
		return b.TotalImport() - b.TotalExport(), nil
	case model.MetricImportInWindow:
		return b.HourlyImport.SumOver(c.Window), nil
	}
	return 0, fmt.Errorf("%w: condition %q has unknown metric %q", model.ErrInvalidConfiguration, c.Name, c.Metric)
}

func compare(v float64, op model.Operator, threshold float64) (bool, error) {
	switch op {
	case model.OpLess:
		return v < threshold, nil
	case model.OpLessEqual:
		return v <= threshold, nil
	case model.OpGreater:
		return v > threshold, nil
	case model.OpGreaterEqual:
		return v >= threshold, nil
	}
	return false, fmt.Errorf("%w: unknown operator %q", model.ErrInvalidConfiguration, op)
}

// ParseOperator normalizes the wire spelling of a comparison.
func ParseOperator(s string) (model.Operator, error) {
	switch strings.TrimSpace(s) {
	case "<", "lt":
		return model.OpLess, nil
	case "<=", "≤", "lte":
		return model.OpLessEqual, nil
	case ">", "gt":
		return model.OpGreater, nil
	case ">=", "≥", "gte":
		return model.OpGreaterEqual, nil
	}
	return "", fmt.Errorf("%w: unknown operator %q", model.ErrInvalidConfiguration, s)
}

// ParseDate accepts YYYYMMDD, YYYY-MM-DD or RFC3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"20060102", time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", model.ErrContractViolation, s)
}
