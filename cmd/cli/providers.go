package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solar-roi/internal/config"
)

var providersDir string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List provider presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := config.ListPresets(providersDir)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "id\tname\tsupply/day\timport rules\texport rules\tgrid charge")
		for _, p := range presets {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%d\t%t\n", p.ID, p.Name, p.DailySupplyCharge, len(p.ImportRules), len(p.ExportRules), p.GridCharge.Enabled)
		}
		return w.Flush()
	},
}

func init() {
	providersCmd.Flags().StringVar(&providersDir, "dir", "examples/providers", "preset directory")
	rootCmd.AddCommand(providersCmd)
}
