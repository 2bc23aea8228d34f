package backtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"solar-roi/internal/conditions"
	"solar-roi/internal/finance"
	"solar-roi/internal/logger"
	"solar-roi/internal/model"
	"solar-roi/internal/simulate"
	"solar-roi/internal/tariff"
)

type Engine struct {
	log logger.Logger
}

// New returns an Engine. A nil logger discards output.
func New(log logger.Logger) *Engine { return &Engine{log: logger.OrNop(log)} }

// scenario is one rated configuration: the baseline (no system) or a
// provider with the proposed solar and battery.
type scenario struct {
	id         string
	provider   model.ProviderConfig
	withSystem bool
}

// factors are the year-dependent multipliers, computed once per year.
type factors struct {
	year       int
	solar      float64
	battery    float64
	escalation tariff.Escalation
}

func yearFactors(a AnalysisConfig, year int) factors {
	n := float64(year - 1)
	return factors{
		year:       year,
		solar:      math.Pow(1-a.SolarDegradationRate, n),
		battery:    math.Pow(1-a.BatteryDegradationRate, n),
		escalation: tariff.Escalation{Rate: a.TariffEscalationRate, Year: year},
	}
}

// Run projects every provider over the analysis horizon against the
// no-system baseline. It holds no state between calls.
func (e *Engine) Run(ctx context.Context, in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	periods, err := buildPeriods(in)
	if err != nil {
		return nil, err
	}
	a := in.Analysis
	base := in.baseline()
	e.log.Infof("simulating %d providers over %d years, %d periods/year, baseline %q",
		len(in.Providers), a.Years, len(periods), base.ID)

	baseline := scenario{id: BaselineScenario, provider: base}
	systems := make([]scenario, 0, len(in.Providers))
	for _, p := range in.Providers {
		systems = append(systems, scenario{id: p.ID, provider: p, withSystem: true})
	}

	financials := make([]ProviderFinancials, len(systems))
	for i, sc := range systems {
		financials[i] = ProviderFinancials{ProviderID: sc.provider.ID, ProviderName: sc.provider.Name}
	}

	var raw []PeriodResult
	cumulative := make([]float64, len(systems))
	npvSum := make([]float64, len(systems))
	netCost := a.NetSystemCost()

	for year := 1; year <= a.Years; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f := yearFactors(a, year)

		baseCost, baseRaw, err := e.runYear(baseline, periods, f, in)
		if err != nil {
			return nil, err
		}
		if year == 1 {
			raw = append(raw, baseRaw...)
		}

		for i, sc := range systems {
			cost, scRaw, err := e.runYear(sc, periods, f, in)
			if err != nil {
				return nil, err
			}
			if year == 1 {
				raw = append(raw, scRaw...)
			}

			yr := YearResult{
				Year:             year,
				SolarFactor:      f.solar,
				BatteryFactor:    f.battery,
				EscalationFactor: f.escalation.Factor(),
				BaselineCost:     baseCost,
				SystemCost:       cost,
				Savings:          baseCost - cost,
			}
			if year <= a.LoanTermYears {
				yr.LoanRepayment = a.AnnualLoanRepayment
			}
			yr.NetCashFlow = yr.Savings - yr.LoanRepayment
			cumulative[i] += yr.NetCashFlow
			yr.CumulativeSavings = cumulative[i]
			yr.DiscountedCashFlow = finance.Discount(yr.NetCashFlow, a.DiscountRate, year)
			npvSum[i] += yr.DiscountedCashFlow

			fin := &financials[i]
			fin.Years = append(fin.Years, yr)
			fin.TotalSavings += yr.Savings

			e.log.Debugw("year simulated", map[string]any{
				"provider":      sc.id,
				"year":          year,
				"baseline_cost": baseCost,
				"system_cost":   cost,
				"savings":       yr.Savings,
			})
		}
	}

	for i := range financials {
		fin := &financials[i]
		fin.NPV = npvSum[i] - netCost
		flows := make([]float64, 0, len(fin.Years)+1)
		flows = append(flows, -netCost)
		cum := make([]float64, 0, len(fin.Years))
		for _, yr := range fin.Years {
			flows = append(flows, yr.Savings)
			cum = append(cum, yr.CumulativeSavings)
		}
		fin.IRR = finance.IRR(flows)
		fin.PaybackYear = finance.PaybackYear(cum, netCost)
	}

	res := &Result{Financials: financials, RawYear1: raw, Ranking: Rank(financials)}
	if err := checkFinite(res); err != nil {
		e.log.Errorf("simulation produced a non-finite result: %v", err)
		return nil, err
	}
	return res, nil
}

// runYear simulates every period of one year for a scenario and returns the
// annual cost. SOC starts fresh and carries across the year's periods only.
// Any period failure fails the whole year.
func (e *Engine) runYear(sc scenario, periods []period, f factors, in Input) (float64, []PeriodResult, error) {
	a := in.Analysis
	p := sc.provider
	escFactor := f.escalation.Factor()

	var batt *model.BatteryConfig
	soc := 0.0
	if sc.withSystem && in.Battery != nil {
		b := model.DeriveBattery(*in.Battery, f.battery, p.GridCharge)
		batt = &b
		soc = b.CapacityKWh * a.StartingSOCPercent / 100
	}

	var raw []PeriodResult
	if f.year == 1 {
		raw = make([]PeriodResult, 0, len(periods))
	}

	annual := 0.0
	for idx, per := range periods {
		var solar model.HourlyProfile
		if sc.withSystem {
			solar = per.solar.Scale(f.solar)
		}
		date := per.date.AddDate(f.year-1, 0, 0)

		day, err := simulate.Day(per.consumption, solar, p, batt, soc)
		if err != nil {
			return 0, nil, fmt.Errorf("scenario %q year %d period %d (%s): %w", sc.id, f.year, idx, per.label, err)
		}
		cost, err := priceDay(p, day.Breakdown, f, a.Fit, date)
		if err != nil {
			return 0, nil, fmt.Errorf("scenario %q year %d period %d: %w", sc.id, f.year, idx, err)
		}
		annual += cost.daily * per.days

		if raw != nil {
			raw = append(raw, PeriodResult{
				Scenario:     sc.id,
				Label:        per.label,
				Date:         date,
				Days:         per.days,
				Breakdown:    day.Breakdown,
				SupplyCharge: cost.supply,
				ImportCost:   cost.imp,
				ExportCredit: cost.exp,
				DailyCost:    cost.daily,
				SOCStart:     soc,
				SOCEnd:       day.EndingSOC,
			})
		}
		soc = day.EndingSOC
	}

	annual += p.MonthlyFee*12*escFactor - p.Rebate
	return annual, raw, nil
}

type dayCost struct {
	supply, imp, exp, daily float64
}

// priceDay turns a simulated day into money: escalated supply charge plus
// import cost less export credit, then special conditions for date's month.
func priceDay(p model.ProviderConfig, b model.DailyBreakdown, f factors, fit tariff.FitDegradation, date time.Time) (dayCost, error) {
	var c dayCost
	var err error
	if c.imp, err = tariff.ImportCost(p.ImportRules, b, f.escalation); err != nil {
		return dayCost{}, err
	}
	if c.exp, err = tariff.ExportCredit(p.ExportRules, b, float64(f.year), fit); err != nil {
		return dayCost{}, err
	}
	c.supply = p.DailySupplyCharge * f.escalation.Factor()
	if c.daily, err = conditions.Apply(c.supply+c.imp-c.exp, b, p.SpecialConditions, date); err != nil {
		return dayCost{}, err
	}
	return c, nil
}

func checkFinite(res *Result) error {
	for _, fin := range res.Financials {
		vals := []float64{fin.NPV, fin.TotalSavings}
		if fin.IRR != nil {
			vals = append(vals, *fin.IRR)
		}
		for _, yr := range fin.Years {
			vals = append(vals, yr.BaselineCost, yr.SystemCost, yr.Savings, yr.NetCashFlow, yr.CumulativeSavings, yr.DiscountedCashFlow)
		}
		for _, v := range vals {
			if !finite(v) {
				return fmt.Errorf("%w: provider %q", model.ErrNumeric, fin.ProviderID)
			}
		}
	}
	return nil
}
