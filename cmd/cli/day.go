package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"solar-roi/internal/backtest"
	"solar-roi/internal/conditions"
	"solar-roi/internal/model"
	"solar-roi/internal/report"
)

var (
	dayProvider string
	daySeason   string
	dayDate     string
	dayYear     int
	dayOut      string
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Simulate one day hour by hour and write the ledger",
	RunE:  runDay,
}

func init() {
	dayCmd.Flags().StringVar(&dayProvider, "provider", "", "provider id (default: first provider)")
	dayCmd.Flags().StringVar(&daySeason, "season", "", "season to expand from the seasonal section")
	dayCmd.Flags().StringVar(&dayDate, "date", "", "YYYY-MM-DD; picks the historical day or dates the seasonal one")
	dayCmd.Flags().IntVar(&dayYear, "year", 1, "analysis year for degradation and escalation")
	dayCmd.Flags().StringVarP(&dayOut, "out", "o", "results/ledger.csv", "ledger CSV path")
	rootCmd.AddCommand(dayCmd)
}

func runDay(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	in, err := cfg.ToInput()
	if err != nil {
		return err
	}

	day := backtest.DayInput{
		Battery:  in.Battery,
		Analysis: in.Analysis,
		Year:     dayYear,
	}
	if day.Provider, err = pickProvider(in.Providers, dayProvider); err != nil {
		return err
	}
	if dayDate != "" {
		if day.Date, err = conditions.ParseDate(dayDate); err != nil {
			return err
		}
	}

	if len(in.Historical) > 0 {
		rec, err := pickHistorical(in.Historical, day.Date)
		if err != nil {
			return err
		}
		day.Consumption, day.Solar, day.Date = rec.Consumption, rec.Solar, rec.Date
	} else {
		season, avg, err := pickSeason(in.Seasonal, daySeason)
		if err != nil {
			return err
		}
		day.UseSeasonal(avg, season, in.Hemisphere, in.ProfileWindows)
	}

	out, err := backtest.SimulateDay(day)
	if err != nil {
		return err
	}
	if err := report.WriteLedgerCSV(dayOut, out.Hours); err != nil {
		return fmt.Errorf("write %s: %w", dayOut, err)
	}

	b := out.Breakdown
	fmt.Fprintf(cmd.OutOrStdout(), "%s on %s (year %d)\n", day.Provider.Name, day.Date.Format(time.DateOnly), out.Year)
	fmt.Fprintf(cmd.OutOrStdout(), "import peak/shoulder/off-peak: %.2f / %.2f / %.2f kWh\n", b.PeakKWh, b.ShoulderKWh, b.OffPeakKWh)
	fmt.Fprintf(cmd.OutOrStdout(), "export tier1/tier2: %.2f / %.2f kWh, grid charge %.2f kWh\n", b.Tier1ExportKWh, b.Tier2ExportKWh, b.GridChargeKWh)
	fmt.Fprintf(cmd.OutOrStdout(), "supply %.2f + import %.2f - export %.2f = %.2f\n", out.SupplyCharge, out.ImportCost, out.ExportCredit, out.DailyCost)
	fmt.Fprintf(cmd.OutOrStdout(), "ending SOC %.2f kWh; ledger written to %s\n", out.EndingSOC, dayOut)
	return nil
}

func pickProvider(providers []model.ProviderConfig, id string) (model.ProviderConfig, error) {
	if id == "" {
		return providers[0], nil
	}
	for _, p := range providers {
		if p.ID == id {
			return p, nil
		}
	}
	return model.ProviderConfig{}, fmt.Errorf("%w: provider %q not in scenario", model.ErrInvalidConfiguration, id)
}

func pickHistorical(days []model.DayRecord, date time.Time) (model.DayRecord, error) {
	if date.IsZero() {
		return days[0], nil
	}
	want := date.Format(time.DateOnly)
	for _, d := range days {
		if d.Date.Format(time.DateOnly) == want {
			return d, nil
		}
	}
	return model.DayRecord{}, fmt.Errorf("%w: no historical day %s", model.ErrMissingData, want)
}

// pickSeason defaults to the only season, manual, or the first in calendar order.
func pickSeason(avgs map[model.Season]model.SeasonalDay, name string) (model.Season, model.SeasonalDay, error) {
	if name != "" {
		s, err := model.ParseSeason(name)
		if err != nil {
			return "", model.SeasonalDay{}, err
		}
		d, ok := avgs[s]
		if !ok {
			return "", model.SeasonalDay{}, fmt.Errorf("%w: season %s not in scenario", model.ErrMissingData, s)
		}
		return s, d, nil
	}
	if d, ok := avgs[model.SeasonManual]; ok {
		return model.SeasonManual, d, nil
	}
	for _, s := range model.Seasons {
		if d, ok := avgs[s]; ok {
			return s, d, nil
		}
	}
	keys := make([]string, 0, len(avgs))
	for s := range avgs {
		keys = append(keys, string(s))
	}
	sort.Strings(keys)
	return "", model.SeasonalDay{}, fmt.Errorf("%w: no usable season in %v", model.ErrMissingData, keys)
}
