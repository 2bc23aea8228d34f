package backtest

import (
	"fmt"
	"math"

	"solar-roi/internal/model"
	"solar-roi/internal/tariff"
)

// AnalysisConfig holds the year-dependent and financial settings of a run.
type AnalysisConfig struct {
	Years int

	SolarDegradationRate   float64 // fraction lost per year
	BatteryDegradationRate float64
	TariffEscalationRate   float64
	DiscountRate           float64

	LoanTermYears       int
	AnnualLoanRepayment float64

	InitialSystemCost float64
	SystemRebate      float64

	Fit tariff.FitDegradation

	// StartingSOCPercent reseeds the battery at the start of every year.
	StartingSOCPercent float64
	// StartYear is the calendar year of analysis year 1; it dates seasonal periods.
	StartYear int
}

// NetSystemCost is the capital outlay after rebate.
func (a AnalysisConfig) NetSystemCost() float64 {
	return a.InitialSystemCost - a.SystemRebate
}

func (a AnalysisConfig) Validate() error {
	if a.Years < 1 {
		return fmt.Errorf("%w: analysis years must be >= 1", model.ErrInvalidConfiguration)
	}
	rates := map[string]float64{
		"solar degradation rate":   a.SolarDegradationRate,
		"battery degradation rate": a.BatteryDegradationRate,
	}
	for name, r := range rates {
		if !finite(r) || r < 0 || r >= 1 {
			return fmt.Errorf("%w: %s must be within [0, 1)", model.ErrInvalidConfiguration, name)
		}
	}
	if !finite(a.TariffEscalationRate) || a.TariffEscalationRate <= -1 {
		return fmt.Errorf("%w: tariff escalation rate must be > -1", model.ErrInvalidConfiguration)
	}
	if !finite(a.DiscountRate) || a.DiscountRate <= -1 {
		return fmt.Errorf("%w: discount rate must be > -1", model.ErrInvalidConfiguration)
	}
	if a.LoanTermYears < 0 || !finite(a.AnnualLoanRepayment) || a.AnnualLoanRepayment < 0 {
		return fmt.Errorf("%w: loan term and repayment must be >= 0", model.ErrInvalidConfiguration)
	}
	if !finite(a.InitialSystemCost) || !finite(a.SystemRebate) || a.InitialSystemCost < 0 || a.SystemRebate < 0 {
		return fmt.Errorf("%w: system cost and rebate must be >= 0", model.ErrInvalidConfiguration)
	}
	if !finite(a.Fit.MinRate) || a.Fit.MinRate < 0 || !finite(a.Fit.StartYear) || !finite(a.Fit.EndYear) {
		return fmt.Errorf("%w: FIT degradation must be finite with min rate >= 0", model.ErrInvalidConfiguration)
	}
	if !finite(a.StartingSOCPercent) || a.StartingSOCPercent < 0 || a.StartingSOCPercent > 100 {
		return fmt.Errorf("%w: starting SOC percent must be within 0-100", model.ErrInvalidConfiguration)
	}
	return nil
}

// ProfileWindows selects how seasonal TOU totals are spread over hours.
type ProfileWindows string

const (
	WindowsFixed    ProfileWindows = "fixed"
	WindowsProvider ProfileWindows = "provider"
)

// Input is everything one run needs. Exactly one of Seasonal or Historical
// must be set. Seasonal holds either the four calendar seasons or a single
// manual entry standing for every month.
type Input struct {
	Analysis AnalysisConfig

	Providers []model.ProviderConfig
	// BaselineProviderID is the plan the household is on today; empty means
	// the first provider.
	BaselineProviderID string

	// Battery is nil for a solar-only system.
	Battery *model.BatteryNameplate

	Seasonal   map[model.Season]model.SeasonalDay
	Historical []model.DayRecord

	Hemisphere     model.Hemisphere
	ProfileWindows ProfileWindows
}

func (in Input) Validate() error {
	if err := in.Analysis.Validate(); err != nil {
		return err
	}
	if len(in.Providers) == 0 {
		return fmt.Errorf("%w: at least one provider is required", model.ErrInvalidConfiguration)
	}
	seen := make(map[string]bool, len(in.Providers))
	for _, p := range in.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate provider id %q", model.ErrInvalidConfiguration, p.ID)
		}
		seen[p.ID] = true
	}
	if in.BaselineProviderID != "" && !seen[in.BaselineProviderID] {
		return fmt.Errorf("%w: baseline provider %q not found", model.ErrInvalidConfiguration, in.BaselineProviderID)
	}
	if in.Battery != nil {
		if err := in.Battery.Validate(); err != nil {
			return fmt.Errorf("%w: battery: %v", model.ErrInvalidConfiguration, err)
		}
	}
	switch in.Hemisphere {
	case "", model.HemisphereSouth, model.HemisphereNorth:
	default:
		return fmt.Errorf("%w: unknown hemisphere %q", model.ErrInvalidConfiguration, in.Hemisphere)
	}
	switch in.ProfileWindows {
	case "", WindowsFixed, WindowsProvider:
	default:
		return fmt.Errorf("%w: unknown profile windows %q", model.ErrInvalidConfiguration, in.ProfileWindows)
	}
	if len(in.Seasonal) > 0 && len(in.Historical) > 0 {
		return fmt.Errorf("%w: provide seasonal or historical data, not both", model.ErrInvalidConfiguration)
	}
	if len(in.Seasonal) == 0 && len(in.Historical) == 0 {
		return fmt.Errorf("%w: no seasonal or historical data", model.ErrMissingData)
	}
	return nil
}

// baseline returns the provider the no-system scenario is rated under.
func (in Input) baseline() model.ProviderConfig {
	for _, p := range in.Providers {
		if p.ID == in.BaselineProviderID {
			return p
		}
	}
	return in.Providers[0]
}

func (in Input) hemisphere() model.Hemisphere {
	if in.Hemisphere == "" {
		return model.HemisphereSouth
	}
	return in.Hemisphere
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
