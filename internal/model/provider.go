package model

import (
	"fmt"
	"slices"
)

// GridChargeConfig governs topping the battery up from the grid.
type GridChargeConfig struct {
	Enabled           bool
	StartHour         int // inclusive
	EndHour           int // exclusive; may be < StartHour to wrap past midnight
	TriggerSOCPercent float64
	TargetSOCPercent  float64
}

// Window returns the hours in which grid charging may run.
func (g GridChargeConfig) Window() HourSet {
	if !g.Enabled {
		return HourSet{}
	}
	return HourRange(g.StartHour, g.EndHour)
}

func (g GridChargeConfig) Validate() error {
	if !g.Enabled {
		return nil
	}
	if g.StartHour < 0 || g.StartHour > 23 || g.EndHour < 0 || g.EndHour > 23 {
		return fmt.Errorf("%w: grid charge hours must be within 0-23", ErrInvalidConfiguration)
	}
	if !isPercent(g.TriggerSOCPercent) || !isPercent(g.TargetSOCPercent) {
		return fmt.Errorf("%w: grid charge SOC thresholds must be within 0-100", ErrInvalidConfiguration)
	}
	return nil
}

// Metric names the breakdown quantity a special condition tests.
type Metric string

const (
	MetricPeakImport     Metric = "peak_import"
	MetricNetGridUsage   Metric = "net_grid_usage"
	MetricImportInWindow Metric = "import_in_window"
)

type Operator string

const (
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// ConditionAction is what happens to the daily cost when a condition holds.
type ConditionAction string

const (
	ActionFlatCredit ConditionAction = "flat_credit"
	ActionFlatCharge ConditionAction = "flat_charge"
)

// SpecialCondition is a conditional daily bonus or penalty.
type SpecialCondition struct {
	Name      string
	Months    []int // 1-12; empty means all year
	Metric    Metric
	Window    HourSet // only for MetricImportInWindow
	Operator  Operator
	Threshold float64
	Action    ConditionAction
	Amount    float64
}

// AppliesIn reports whether the condition is active in month m.
func (c SpecialCondition) AppliesIn(m int) bool {
	return len(c.Months) == 0 || slices.Contains(c.Months, m)
}

func (c SpecialCondition) Validate() error {
	for _, m := range c.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: condition %q has month %d", ErrInvalidConfiguration, c.Name, m)
		}
	}
	switch c.Metric {
	case MetricPeakImport, MetricNetGridUsage, MetricImportInWindow:
	default:
		return fmt.Errorf("%w: condition %q has unknown metric %q", ErrInvalidConfiguration, c.Name, c.Metric)
	}
	switch c.Operator {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
	default:
		return fmt.Errorf("%w: condition %q has unknown operator %q", ErrInvalidConfiguration, c.Name, c.Operator)
	}
	switch c.Action {
	case ActionFlatCredit, ActionFlatCharge:
	default:
		return fmt.Errorf("%w: condition %q has unknown action %q", ErrInvalidConfiguration, c.Name, c.Action)
	}
	if !isFinite(c.Threshold) || !isFinite(c.Amount) {
		return fmt.Errorf("%w: condition %q has a non-finite threshold or amount", ErrInvalidConfiguration, c.Name)
	}
	return nil
}

// ProviderConfig is a fully-resolved retail plan. The core treats it as an
// immutable value.
type ProviderConfig struct {
	ID                string
	Name              string
	DailySupplyCharge float64 // currency/day
	MonthlyFee        float64 // currency/month
	Rebate            float64 // currency/year credited by the retailer
	ImportRules       []Rule
	ExportRules       []Rule
	GridCharge        GridChargeConfig
	SpecialConditions []SpecialCondition
}

func (p ProviderConfig) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: provider id is required", ErrInvalidConfiguration)
	}
	if len(p.ImportRules) == 0 {
		return fmt.Errorf("%w: provider %q has no import rules", ErrInvalidConfiguration, p.ID)
	}
	for _, v := range []float64{p.DailySupplyCharge, p.MonthlyFee, p.Rebate} {
		if !isFinite(v) || v < 0 {
			return fmt.Errorf("%w: provider %q charges and rebate must be finite and >= 0", ErrInvalidConfiguration, p.ID)
		}
	}
	if err := ValidateRules(p.ImportRules); err != nil {
		return fmt.Errorf("provider %q import rules: %w", p.ID, err)
	}
	if err := ValidateRules(p.ExportRules); err != nil {
		return fmt.Errorf("provider %q export rules: %w", p.ID, err)
	}
	if err := p.GridCharge.Validate(); err != nil {
		return fmt.Errorf("provider %q: %w", p.ID, err)
	}
	for _, c := range p.SpecialConditions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("provider %q: %w", p.ID, err)
		}
	}
	return nil
}

func isPercent(x float64) bool {
	return isFinite(x) && x >= 0 && x <= 100
}
