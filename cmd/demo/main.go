package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"solar-roi/internal/backtest"
	"solar-roi/internal/config"
	"solar-roi/internal/logger"
)

// Demo:
// - Build a seasonal scenario in code (no files needed)
// - Compare a flat plan against a time-of-use plan with grid charging
// - Print the ranking and the winner's year-by-year cash flow
func main() {
	years := flag.Int("years", 10, "Analysis horizon in years")
	capacity := flag.Float64("battery", 13.5, "Battery capacity in kWh (0 for solar only)")
	cost := flag.Float64("cost", 14000, "Installed system cost")
	flag.Parse()

	log := logger.New("demo")

	cfg := config.Config{
		Analysis: config.AnalysisConfig{
			Years:                  *years,
			SolarDegradationRate:   0.005,
			BatteryDegradationRate: 0.02,
			TariffEscalationRate:   0.03,
			DiscountRate:           0.05,
			InitialSystemCost:      *cost,
		},
		Providers: []config.ProviderConfig{
			{
				ID:                "flat",
				Name:              "Flat Saver",
				DailySupplyCharge: 1.10,
				ImportRules:       []config.RuleConfig{{Type: "flat", Name: "Anytime", Rate: 0.32}},
				ExportRules:       []config.RuleConfig{{Type: "flat", Name: "FIT", Rate: 0.05}},
			},
			{
				ID:                "tou",
				Name:              "Time of Use",
				DailySupplyCharge: 1.25,
				ImportRules: []config.RuleConfig{
					{Type: "tou", Name: "Peak", Rate: 0.48, Hours: "15:00-21:00"},
					{Type: "tou", Name: "Shoulder", Rate: 0.30, Hours: "07:00-15:00, 21:00-22:00"},
					{Type: "flat", Name: "Off-Peak", Rate: 0.18},
				},
				ExportRules: []config.RuleConfig{
					{Type: "tiered", Name: "Premium FIT", Rate: 0.10, Limit: 10},
					{Type: "flat", Name: "FIT", Rate: 0.03},
				},
				GridCharge: config.GridChargeConfig{
					Enabled:           true,
					StartHour:         1,
					EndHour:           5,
					TriggerSOCPercent: 30,
					TargetSOCPercent:  80,
				},
			},
		},
		BaselineProvider: "flat",
		Seasonal: map[string]config.SeasonalConfig{
			"summer": {PeakKWh: 8, ShoulderKWh: 7, OffPeakKWh: 6, SolarKWh: 32},
			"autumn": {PeakKWh: 7, ShoulderKWh: 6, OffPeakKWh: 6, SolarKWh: 22},
			"winter": {PeakKWh: 10, ShoulderKWh: 7, OffPeakKWh: 8, SolarKWh: 14},
			"spring": {PeakKWh: 7, ShoulderKWh: 6, OffPeakKWh: 5, SolarKWh: 26},
		},
	}
	if *capacity > 0 {
		cfg.Battery = &config.BatteryConfig{Name: "demo", CapacityKWh: *capacity, InverterKW: 5}
	}
	cfg.Analysis.SetDefaults()

	in, err := cfg.ToInput()
	if err != nil {
		log.Errorf("invalid demo scenario: %v", err)
		os.Exit(1)
	}
	res, err := backtest.New(log).Run(context.Background(), in)
	if err != nil {
		log.Errorf("simulation failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("%-4s %-14s %-12s %-14s %-8s\n", "rank", "provider", "npv", "total savings", "payback")
	for _, r := range res.Ranking {
		payback := "-"
		if r.PaybackYear != nil {
			payback = fmt.Sprint(*r.PaybackYear)
		}
		fmt.Printf("%-4d %-14s %-12.2f %-14.2f %-8s\n", r.Rank, r.ProviderName, r.NPV, r.TotalSavings, payback)
	}

	best := res.Ranking[0].ProviderID
	for _, f := range res.Financials {
		if f.ProviderID != best {
			continue
		}
		fmt.Printf("\n%s by year:\n", f.ProviderName)
		fmt.Printf("%-5s %-10s %-10s %-10s %-12s\n", "year", "baseline", "system", "savings", "cumulative")
		for _, y := range f.Years {
			fmt.Printf("%-5d %-10.2f %-10.2f %-10.2f %-12.2f\n", y.Year, y.BaselineCost, y.SystemCost, y.Savings, y.CumulativeSavings)
		}
	}
}
