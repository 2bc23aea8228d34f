package backtest

import (
	"fmt"
	"time"

	"solar-roi/internal/model"
	"solar-roi/internal/profile"
	"solar-roi/internal/simulate"
)

// DayInput is a single priced day outside a multi-year run.
type DayInput struct {
	Consumption model.HourlyProfile
	Solar       model.HourlyProfile
	Provider    model.ProviderConfig
	Battery     *model.BatteryNameplate

	// Analysis supplies degradation, escalation, FIT and starting SOC.
	// Year defaults to 1.
	Analysis AnalysisConfig
	Year     int
	Date     time.Time
}

// DayOutcome is the simulated day and what it costs.
type DayOutcome struct {
	*simulate.DayResult
	Year         int     `json:"year"`
	SupplyCharge float64 `json:"supply_charge"`
	ImportCost   float64 `json:"import_cost"`
	ExportCredit float64 `json:"export_credit"`
	DailyCost    float64 `json:"daily_cost"`
}

// UseSeasonal fills the profiles from a seasonal average, spread over the
// fixed or provider windows. A zero Date becomes the 15th of the season's
// middle month.
func (in *DayInput) UseSeasonal(d model.SeasonalDay, season model.Season, hemi model.Hemisphere, windows ProfileWindows) {
	peak, shoulder := profile.DefaultWindows()
	if windows == WindowsProvider {
		peak, shoulder = profile.ProviderWindows(in.Provider)
	}
	in.Consumption, in.Solar = profile.FromSeasonal(d, season, peak, shoulder)
	if !in.Date.IsZero() {
		return
	}
	year := in.Analysis.StartYear
	if year == 0 {
		year = 2025
	}
	if hemi == "" {
		hemi = model.HemisphereSouth
	}
	in.Date = time.Date(year, season.RepresentativeMonth(hemi), 15, 0, 0, 0, 0, time.UTC)
}

// SimulateDay runs and prices one day for a provider. Solar and battery are
// degraded for in.Year the same way a multi-year run would.
func SimulateDay(in DayInput) (*DayOutcome, error) {
	if err := in.Provider.Validate(); err != nil {
		return nil, err
	}
	if in.Battery != nil {
		if err := in.Battery.Validate(); err != nil {
			return nil, fmt.Errorf("%w: battery: %v", model.ErrInvalidConfiguration, err)
		}
	}
	year := in.Year
	if year < 1 {
		year = 1
	}
	f := yearFactors(in.Analysis, year)

	var batt *model.BatteryConfig
	soc := 0.0
	if in.Battery != nil {
		b := model.DeriveBattery(*in.Battery, f.battery, in.Provider.GridCharge)
		batt = &b
		soc = b.CapacityKWh * in.Analysis.StartingSOCPercent / 100
	}

	day, err := simulate.Day(in.Consumption, in.Solar.Scale(f.solar), in.Provider, batt, soc)
	if err != nil {
		return nil, err
	}
	cost, err := priceDay(in.Provider, day.Breakdown, f, in.Analysis.Fit, in.Date)
	if err != nil {
		return nil, err
	}
	return &DayOutcome{
		DayResult:    day,
		Year:         year,
		SupplyCharge: cost.supply,
		ImportCost:   cost.imp,
		ExportCredit: cost.exp,
		DailyCost:    cost.daily,
	}, nil
}
