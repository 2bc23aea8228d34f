package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"solar-roi/internal/backtest"
	"solar-roi/internal/data"
	"solar-roi/internal/model"
	"solar-roi/internal/tariff"
)

// Config is the on-disk scenario shape (YAML).
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`

	// Optional: load battery parameters from a separate YAML (e.g. examples/batteries/*.yaml).
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string         `yaml:"battery_file,omitempty" json:"battery_file,omitempty"`
	Battery     *BatteryConfig `yaml:"battery,omitempty" json:"battery,omitempty"`

	// ProviderDir holds presets referenced by ProviderFiles and provider_file.
	ProviderDir   string           `yaml:"provider_dir,omitempty" json:"provider_dir,omitempty"`
	ProviderFiles []string         `yaml:"provider_files,omitempty" json:"provider_files,omitempty"`
	Providers     []ProviderConfig `yaml:"providers,omitempty" json:"providers,omitempty"`

	BaselineProvider string `yaml:"baseline_provider,omitempty" json:"baseline_provider,omitempty"`
	Hemisphere       string `yaml:"hemisphere,omitempty" json:"hemisphere,omitempty"`
	ProfileWindows   string `yaml:"profile_windows,omitempty" json:"profile_windows,omitempty"`

	Seasonal       map[string]SeasonalConfig `yaml:"seasonal,omitempty" json:"seasonal,omitempty"`
	HistoricalFile string                    `yaml:"historical_file,omitempty" json:"historical_file,omitempty"`
	Historical     *data.HistoryFile         `yaml:"-" json:"historical,omitempty"`
}

type AnalysisConfig struct {
	Years                  int      `yaml:"years" json:"years"`
	SolarDegradationRate   float64  `yaml:"solar_degradation_rate" json:"solar_degradation_rate"`
	BatteryDegradationRate float64  `yaml:"battery_degradation_rate" json:"battery_degradation_rate"`
	TariffEscalationRate   float64  `yaml:"tariff_escalation_rate" json:"tariff_escalation_rate"`
	DiscountRate           float64  `yaml:"discount_rate" json:"discount_rate"`
	LoanTermYears          int      `yaml:"loan_term_years,omitempty" json:"loan_term_years,omitempty"`
	AnnualLoanRepayment    float64  `yaml:"annual_loan_repayment,omitempty" json:"annual_loan_repayment,omitempty"`
	InitialSystemCost      float64  `yaml:"initial_system_cost" json:"initial_system_cost"`
	SystemRebate           float64  `yaml:"system_rebate,omitempty" json:"system_rebate,omitempty"`
	// StartingSOCPercent is nil when unset; an explicit 0 starts empty.
	StartingSOCPercent     *float64 `yaml:"starting_soc_percent,omitempty" json:"starting_soc_percent,omitempty"`
	StartYear              int      `yaml:"start_year,omitempty" json:"start_year,omitempty"`

	FitDegradation FitDegradationConfig `yaml:"fit_degradation,omitempty" json:"fit_degradation,omitempty"`
}

type FitDegradationConfig struct {
	Enabled   bool    `yaml:"enabled" json:"enabled"`
	StartYear float64 `yaml:"start_year" json:"start_year"`
	EndYear   float64 `yaml:"end_year" json:"end_year"`
	MinRate   float64 `yaml:"min_rate" json:"min_rate"`
}

// SetDefaults fills fields whose zero value is not a usable setting.
func (a *AnalysisConfig) SetDefaults() {
	if a.Years == 0 {
		a.Years = 20
	}
	if a.StartingSOCPercent == nil {
		soc := 50.0
		a.StartingSOCPercent = &soc
	}
	if a.StartYear == 0 {
		a.StartYear = 2025
	}
}

func (a AnalysisConfig) ToModel() backtest.AnalysisConfig {
	soc := 0.0
	if a.StartingSOCPercent != nil {
		soc = *a.StartingSOCPercent
	}
	return backtest.AnalysisConfig{
		Years:                  a.Years,
		SolarDegradationRate:   a.SolarDegradationRate,
		BatteryDegradationRate: a.BatteryDegradationRate,
		TariffEscalationRate:   a.TariffEscalationRate,
		DiscountRate:           a.DiscountRate,
		LoanTermYears:          a.LoanTermYears,
		AnnualLoanRepayment:    a.AnnualLoanRepayment,
		InitialSystemCost:      a.InitialSystemCost,
		SystemRebate:           a.SystemRebate,
		StartingSOCPercent:     soc,
		StartYear:              a.StartYear,
		Fit: tariff.FitDegradation{
			Enabled:   a.FitDegradation.Enabled,
			StartYear: a.FitDegradation.StartYear,
			EndYear:   a.FitDegradation.EndYear,
			MinRate:   a.FitDegradation.MinRate,
		},
	}
}

type SeasonalConfig struct {
	PeakKWh     float64 `yaml:"peak_kwh" json:"peak_kwh"`
	ShoulderKWh float64 `yaml:"shoulder_kwh" json:"shoulder_kwh"`
	OffPeakKWh  float64 `yaml:"off_peak_kwh" json:"off_peak_kwh"`
	SolarKWh    float64 `yaml:"solar_kwh" json:"solar_kwh"`
}

// SeasonalDays converts the seasonal section keyed by season name.
func SeasonalDays(in map[string]SeasonalConfig) (map[model.Season]model.SeasonalDay, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[model.Season]model.SeasonalDay, len(in))
	for name, s := range in {
		season, err := model.ParseSeason(name)
		if err != nil {
			return nil, err
		}
		out[season] = model.SeasonalDay{
			PeakKWh:     s.PeakKWh,
			ShoulderKWh: s.ShoulderKWh,
			OffPeakKWh:  s.OffPeakKWh,
			SolarKWh:    s.SolarKWh,
		}
	}
	return out, nil
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.Analysis.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if err := c.Resolve(filepath.Dir(path)); err != nil {
		return nil, err
	}
	return &c, nil
}

// Resolve loads every file the config refers to. Relative paths are taken
// against baseDir first and then the working directory.
func (c *Config) Resolve(baseDir string) error {
	return c.resolve(baseDir, false)
}

// ResolvePinned resolves presets from providerDir only. Only presets are
// resolved; other file references must be rejected by the caller.
func (c *Config) ResolvePinned(providerDir string) error {
	c.ProviderDir = providerDir
	return c.resolve("", true)
}

func (c *Config) resolve(baseDir string, pinned bool) error {
	lookup := ResolveProvider
	if pinned {
		lookup = ResolvePinnedProvider
	}
	if c.ProviderDir != "" {
		c.ProviderDir = resolvePath(baseDir, c.ProviderDir)
	} else {
		c.ProviderDir = baseDir
	}

	if c.BatteryFile != "" {
		loaded, err := loadBatteryFile(resolvePath(baseDir, c.BatteryFile))
		if err != nil {
			return err
		}
		override := BatteryConfig{}
		if c.Battery != nil {
			override = *c.Battery
		}
		merged := MergeBattery(loaded, override)
		c.Battery = &merged
		c.BatteryFile = ""
	}

	providers := make([]ProviderConfig, 0, len(c.ProviderFiles)+len(c.Providers))
	for _, ref := range c.ProviderFiles {
		p, err := lookup(c.ProviderDir, ProviderConfig{ProviderFile: ref})
		if err != nil {
			return err
		}
		providers = append(providers, p)
	}
	for _, p := range c.Providers {
		p, err := lookup(c.ProviderDir, p)
		if err != nil {
			return err
		}
		providers = append(providers, p)
	}
	c.Providers = providers
	c.ProviderFiles = nil

	if c.HistoricalFile != "" {
		h, err := data.LoadHistoryFile(resolvePath(baseDir, c.HistoricalFile))
		if err != nil {
			return err
		}
		c.Historical = h
		c.HistoricalFile = ""
	}
	return nil
}

func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) || baseDir == "" {
		return p
	}
	// Prefer interpreting relative paths as relative to the config file directory,
	// but fall back to the provided path (relative to cwd) if that doesn't exist.
	cand := filepath.Join(baseDir, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	_, err := c.ToInput()
	return err
}

// ToInput converts the resolved config into an engine input, validating it.
func (c *Config) ToInput() (backtest.Input, error) {
	in := backtest.Input{
		Analysis:           c.Analysis.ToModel(),
		BaselineProviderID: c.BaselineProvider,
		Hemisphere:         model.Hemisphere(c.Hemisphere),
		ProfileWindows:     backtest.ProfileWindows(c.ProfileWindows),
	}
	for _, p := range c.Providers {
		mp, err := p.ToModel()
		if err != nil {
			return backtest.Input{}, err
		}
		in.Providers = append(in.Providers, mp)
	}
	if c.Battery != nil {
		n := c.Battery.ToModel()
		in.Battery = &n
	}

	var err error
	if in.Seasonal, err = SeasonalDays(c.Seasonal); err != nil {
		return backtest.Input{}, err
	}
	if c.Historical != nil {
		if in.Historical, err = c.Historical.Records(); err != nil {
			return backtest.Input{}, err
		}
	}
	if err := in.Validate(); err != nil {
		return backtest.Input{}, err
	}
	return in, nil
}
