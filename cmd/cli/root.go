package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solar-roi/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "solar-roi",
	Short:         "Household solar and battery return-on-investment simulator",
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "examples/scenario.yaml", "scenario file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadScenario() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
