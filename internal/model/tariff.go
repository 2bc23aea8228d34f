package model

import (
	"fmt"
	"math"
	"strings"
)

// RuleKind is the wire discriminator for a tariff rule.
type RuleKind string

const (
	RuleTimeOfUse RuleKind = "tou"
	RuleTiered    RuleKind = "tiered"
	RuleFlat      RuleKind = "flat"
)

// Rule is one entry of a provider's ordered import or export rule list.
// It is implemented only by TimeOfUse, Tiered and Flat.
type Rule interface {
	Kind() RuleKind
	RuleName() string
	BaseRate() float64
	isRule()
}

// TimeOfUse claims exactly the energy in its hours.
type TimeOfUse struct {
	Name  string
	Rate  float64 // currency/kWh
	Hours HourSet
}

// Tiered claims up to Limit kWh per day, regardless of hour.
type Tiered struct {
	Name  string
	Rate  float64
	Limit float64 // kWh/day
}

// Flat claims everything that is left.
type Flat struct {
	Name string
	Rate float64
}

func (r TimeOfUse) Kind() RuleKind    { return RuleTimeOfUse }
func (r TimeOfUse) RuleName() string  { return r.Name }
func (r TimeOfUse) BaseRate() float64 { return r.Rate }
func (TimeOfUse) isRule()             {}

func (r Tiered) Kind() RuleKind    { return RuleTiered }
func (r Tiered) RuleName() string  { return r.Name }
func (r Tiered) BaseRate() float64 { return r.Rate }
func (Tiered) isRule()             {}

func (r Flat) Kind() RuleKind    { return RuleFlat }
func (r Flat) RuleName() string  { return r.Name }
func (r Flat) BaseRate() float64 { return r.Rate }
func (Flat) isRule()             {}

// ValidateRules checks every rule in an ordered list.
func ValidateRules(rules []Rule) error {
	for i, r := range rules {
		if r == nil {
			return fmt.Errorf("%w: rule %d is nil", ErrInvalidConfiguration, i)
		}
		if !isFinite(r.BaseRate()) || r.BaseRate() < 0 {
			return fmt.Errorf("%w: rule %d (%s) rate must be a finite value >= 0", ErrInvalidConfiguration, i, r.RuleName())
		}
		switch rule := r.(type) {
		case TimeOfUse:
		case Tiered:
			if !isFinite(rule.Limit) || rule.Limit <= 0 {
				return fmt.Errorf("%w: rule %d (%s) tier limit must be > 0", ErrInvalidConfiguration, i, rule.Name)
			}
		case Flat:
		default:
			return fmt.Errorf("%w: rule %d has unsupported type %T", ErrInvalidConfiguration, i, r)
		}
	}
	return nil
}

// ClassifyHours derives the peak and shoulder hour sets from a provider's
// import TOU rules. A rule is peak when its name mentions "peak" but not
// "off"; shoulder when it mentions "shoulder". Peak wins over shoulder.
func ClassifyHours(rules []Rule) (peak, shoulder HourSet) {
	for _, r := range rules {
		tou, ok := r.(TimeOfUse)
		if !ok {
			continue
		}
		name := strings.ToLower(tou.Name)
		switch {
		case strings.Contains(name, "peak") && !strings.Contains(name, "off"):
			peak = peak.Union(tou.Hours)
		case strings.Contains(name, "shoulder"):
			shoulder = shoulder.Union(tou.Hours)
		}
	}
	return peak, shoulder.Minus(peak)
}

// RateForHour returns the unescalated rate of the import rule governing h:
// the first TOU rule covering it, else the first Flat rule, else the first
// Tiered rule, else 0.
func RateForHour(rules []Rule, h int) float64 {
	for _, r := range rules {
		if tou, ok := r.(TimeOfUse); ok && tou.Hours.Contains(h) {
			return tou.Rate
		}
	}
	for _, r := range rules {
		if f, ok := r.(Flat); ok {
			return f.Rate
		}
	}
	for _, r := range rules {
		if t, ok := r.(Tiered); ok {
			return t.Rate
		}
	}
	return 0
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
