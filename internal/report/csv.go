// Package report writes simulation results as CSV.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"solar-roi/internal/backtest"
	"solar-roi/internal/model"
)

// WriteAnnualCSV writes one row per provider per year to path.
func WriteAnnualCSV(path string, fins []backtest.ProviderFinancials) error {
	return writeFile(path, func(w io.Writer) error { return WriteAnnual(w, fins) })
}

func WriteAnnual(out io.Writer, fins []backtest.ProviderFinancials) error {
	w := csv.NewWriter(out)

	header := []string{
		"provider_id",
		"year",
		"solar_factor",
		"battery_factor",
		"escalation_factor",
		"baseline_cost",
		"system_cost",
		"savings",
		"loan_repayment",
		"net_cash_flow",
		"cumulative_savings",
		"discounted_cash_flow",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range fins {
		for _, y := range f.Years {
			row := []string{
				f.ProviderID,
				strconv.Itoa(y.Year),
				fmtFloat(y.SolarFactor),
				fmtFloat(y.BatteryFactor),
				fmtFloat(y.EscalationFactor),
				fmtFloat(y.BaselineCost),
				fmtFloat(y.SystemCost),
				fmtFloat(y.Savings),
				fmtFloat(y.LoanRepayment),
				fmtFloat(y.NetCashFlow),
				fmtFloat(y.CumulativeSavings),
				fmtFloat(y.DiscountedCashFlow),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteLedgerCSV writes the hourly flows of one simulated day to path.
func WriteLedgerCSV(path string, hours [24]model.HourFlow) error {
	return writeFile(path, func(w io.Writer) error { return WriteLedger(w, hours) })
}

func WriteLedger(out io.Writer, hours [24]model.HourFlow) error {
	w := csv.NewWriter(out)

	header := []string{
		"hour",
		"consumption_kwh",
		"solar_kwh",
		"self_consumed_kwh",
		"solar_charge_kwh",
		"discharge_kwh",
		"grid_charge_kwh",
		"import_kwh",
		"export_kwh",
		"soc_start",
		"soc_end",
		"action",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range hours {
		row := []string{
			strconv.Itoa(r.Hour),
			fmtFloat(r.Consumption),
			fmtFloat(r.Solar),
			fmtFloat(r.SelfConsumed),
			fmtFloat(r.SolarCharge),
			fmtFloat(r.Discharge),
			fmtFloat(r.GridCharge),
			fmtFloat(r.Import),
			fmtFloat(r.Export),
			fmtFloat(r.SOCStart),
			fmtFloat(r.SOCEnd),
			string(r.Action),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
