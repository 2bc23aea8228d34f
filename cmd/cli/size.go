package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solar-roi/internal/data"
	"solar-roi/internal/model"
	"solar-roi/internal/profile"
	"solar-roi/internal/sizing"
)

var (
	sizeCoverage   float64
	sizePercentile float64
	sizePeakHours  string
	sizeHistorical string
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Recommend solar, battery and inverter sizes",
	Long: "Sizes from a historical JSON file when --historical is given or the scenario has one; " +
		"otherwise from the scenario's seasonal averages.",
	RunE: runSize,
}

func init() {
	sizeCmd.Flags().Float64Var(&sizeCoverage, "coverage", 100, "target share of consumption to cover, in percent")
	sizeCmd.Flags().Float64Var(&sizePercentile, "percentile", 0.9, "day percentile the battery should cover")
	sizeCmd.Flags().StringVar(&sizePeakHours, "peak-hours", "", "hours the battery should carry (default 15:00-21:00)")
	sizeCmd.Flags().StringVar(&sizeHistorical, "historical", "", "historical JSON file; skips the scenario")
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	var (
		days     []model.DayRecord
		seasonal map[model.Season]model.SeasonalDay
	)
	if sizeHistorical != "" {
		var err error
		if days, err = data.LoadHistoricalJSON(sizeHistorical); err != nil {
			return err
		}
	} else {
		cfg, err := loadScenario()
		if err != nil {
			return err
		}
		in, err := cfg.ToInput()
		if err != nil {
			return err
		}
		days, seasonal = in.Historical, in.Seasonal
	}

	w := cmd.OutOrStdout()
	if len(days) > 0 {
		peak, _ := profile.DefaultWindows()
		if sizePeakHours != "" {
			var err error
			if peak, err = model.ParseHours(sizePeakHours); err != nil {
				return err
			}
		}
		rec, err := sizing.FromHistory(days, peak, sizing.Options{Percentile: sizePercentile})
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "battery:  %.1f kWh (p%.0f peak deficit %.2f kWh)\n", rec.BatteryKWh, sizePercentile*100, rec.PeakNeedKWh)
		fmt.Fprintf(w, "inverter: %.1f kW (p%.0f largest hour %.2f kWh)\n", rec.InverterKW, sizePercentile*100, rec.MaxHourKWh)
		fmt.Fprintf(w, "covers %d of %d days\n", rec.DaysCovered, rec.DaysTotal)
		return nil
	}

	rec := sizing.FromSeasonal(seasonal, sizeCoverage, nil)
	fmt.Fprintf(w, "solar:   %.1f kW\n", rec.SolarKW)
	fmt.Fprintf(w, "battery: %.1f kWh (peak need %.2f kWh at %.0f%% coverage)\n", rec.BatteryKWh, rec.PeakNeedKWh, sizeCoverage)
	return nil
}
