package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solar-roi/internal/backtest"
	"solar-roi/internal/logger"
	"solar-roi/internal/report"
)

var (
	simulateOut  string
	simulateJSON bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Project every provider in the scenario over the analysis horizon",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateOut, "out", "o", "", "write per-year results as CSV")
	simulateCmd.Flags().BoolVar(&simulateJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadScenario()
	if err != nil {
		return err
	}
	in, err := cfg.ToInput()
	if err != nil {
		return err
	}

	res, err := backtest.New(logger.New("simulate")).Run(ctx, in)
	if err != nil {
		return err
	}

	if simulateOut != "" {
		if err := report.WriteAnnualCSV(simulateOut, res.Financials); err != nil {
			return fmt.Errorf("write %s: %w", simulateOut, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d providers to %s\n", len(res.Financials), simulateOut)
	}

	if simulateJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printRanking(cmd, res)
	return nil
}

func printRanking(cmd *cobra.Command, res *backtest.Result) {
	irr := make(map[string]*float64, len(res.Financials))
	for _, f := range res.Financials {
		irr[f.ProviderID] = f.IRR
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tprovider\tnpv\ttotal savings\tpayback\tirr")
	for _, r := range res.Ranking {
		payback := "-"
		if r.PaybackYear != nil {
			payback = fmt.Sprintf("year %d", *r.PaybackYear)
		}
		rate := "-"
		if v := irr[r.ProviderID]; v != nil {
			rate = fmt.Sprintf("%.1f%%", *v*100)
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%s\t%s\n", r.Rank, r.ProviderName, r.NPV, r.TotalSavings, payback, rate)
	}
	w.Flush()
}
