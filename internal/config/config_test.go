package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-roi/internal/model"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const presetTOU = `
provider:
  id: tou-plan
  name: TOU Plan
  daily_supply_charge: 1.10
  import_rules:
    - {type: tou, name: Peak, rate: 0.45, hours: "15:00-21:00"}
    - {type: flat, name: Anytime, rate: 0.25}
  export_rules:
    - {type: tiered, name: First 10, rate: 0.10, limit: 10}
    - {type: flat, name: Remainder, rate: 0.02}
  grid_charge:
    enabled: true
    start_hour: 23
    end_hour: 5
    trigger_soc_percent: 20
    target_soc_percent: 80
  special_conditions:
    - name: Low peak bonus
      months: [6, 7, 8]
      metric: peak_import
      operator: "≤"
      threshold: 1
      action: flat_credit
      amount: 0.5
`

const scenario = `
analysis:
  years: 10
  tariff_escalation_rate: 0.03
  initial_system_cost: 12000
  system_rebate: 2000
battery_file: batteries/home.yaml
battery:
  inverter_kw: 7
provider_dir: providers
provider_files: [tou-plan]
providers:
  - id: flat-plan
    daily_supply_charge: 0.9
    import_rules:
      - {type: flat, name: Anytime, rate: 0.30}
  - provider_file: tou-plan
    id: tou-plan-discount
    daily_supply_charge: 0.8
baseline_provider: flat-plan
seasonal:
  summer: {peak_kwh: 6, shoulder_kwh: 8, off_peak_kwh: 6, solar_kwh: 30}
  autumn: {peak_kwh: 6, shoulder_kwh: 8, off_peak_kwh: 6, solar_kwh: 20}
  winter: {peak_kwh: 8, shoulder_kwh: 9, off_peak_kwh: 8, solar_kwh: 12}
  spring: {peak_kwh: 6, shoulder_kwh: 8, off_peak_kwh: 6, solar_kwh: 22}
`

func scenarioDir(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, dir, "providers/tou-plan.yaml", presetTOU)
	writeFile(t, dir, "batteries/home.yaml", "battery:\n  name: Home 13.5\n  capacity_kwh: 13.5\n  inverter_kw: 5\n")
	writeFile(t, dir, "scenario.yaml", scenario)
	return dir
}

func TestLoadScenario(t *testing.T) {
	dir := scenarioDir(t)
	c, err := Load(filepath.Join(dir, "scenario.yaml"))
	require.NoError(t, err)

	require.NotNil(t, c.Battery)
	assert.Equal(t, 13.5, c.Battery.CapacityKWh)
	assert.Equal(t, 7.0, c.Battery.InverterKW)
	assert.Equal(t, "Home 13.5", c.Battery.Name)

	require.Len(t, c.Providers, 3)
	assert.Equal(t, "tou-plan", c.Providers[0].ID)
	assert.Equal(t, "flat-plan", c.Providers[1].ID)
	discount := c.Providers[2]
	assert.Equal(t, "tou-plan-discount", discount.ID)
	assert.Equal(t, 0.8, discount.DailySupplyCharge)
	assert.Len(t, discount.ImportRules, 2, "rules come from the preset")

	// Defaults.
	require.NotNil(t, c.Analysis.StartingSOCPercent)
	assert.Equal(t, 50.0, *c.Analysis.StartingSOCPercent)
	assert.Equal(t, 2025, c.Analysis.StartYear)

	in, err := c.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "flat-plan", in.BaselineProviderID)
	assert.Len(t, in.Seasonal, 4)
	assert.InDelta(t, 10000, in.Analysis.NetSystemCost(), 1e-9)

	tou := in.Providers[0]
	require.IsType(t, model.TimeOfUse{}, tou.ImportRules[0])
	assert.Equal(t, []int{15, 16, 17, 18, 19, 20}, tou.ImportRules[0].(model.TimeOfUse).Hours.Hours())
	assert.Equal(t, model.OpLessEqual, tou.SpecialConditions[0].Operator)
	assert.True(t, tou.GridCharge.Enabled)
}

func TestLoadHistoricalFile(t *testing.T) {
	dir := scenarioDir(t)
	hours := `[1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1,1]`
	writeFile(t, dir, "history.json", `{"days":[{"date":"2025-01-01","consumption":`+hours+`,"solar":`+hours+`}]}`)
	writeFile(t, dir, "hist.yaml", `
analysis: {years: 5}
providers:
  - id: flat
    import_rules: [{type: flat, name: a, rate: 0.3}]
historical_file: history.json
`)
	c, err := Load(filepath.Join(dir, "hist.yaml"))
	require.NoError(t, err)
	in, err := c.ToInput()
	require.NoError(t, err)
	require.Len(t, in.Historical, 1)
	assert.Equal(t, 24.0, in.Historical[0].Solar.Total())
	assert.Nil(t, in.Battery)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown rule type", body: `
providers: [{id: a, import_rules: [{type: block, name: x, rate: 0.3}]}]
seasonal: {manual: {peak_kwh: 1}}`},
		{name: "no providers", body: `seasonal: {manual: {peak_kwh: 1}}`},
		{name: "bad hours", body: `
providers: [{id: a, import_rules: [{type: tou, name: x, rate: 0.3, hours: "3pm-9pm"}]}]
seasonal: {manual: {peak_kwh: 1}}`},
		{name: "tier without limit", body: `
providers: [{id: a, import_rules: [{type: tiered, name: x, rate: 0.3}]}]
seasonal: {manual: {peak_kwh: 1}}`},
		{name: "unknown season", body: `
providers: [{id: a, import_rules: [{type: flat, name: x, rate: 0.3}]}]
seasonal: {monsoon: {peak_kwh: 1}}`},
		{name: "duplicate ids", body: `
providers:
  - {id: a, import_rules: [{type: flat, name: x, rate: 0.3}]}
  - {id: a, import_rules: [{type: flat, name: x, rate: 0.3}]}
seasonal: {manual: {peak_kwh: 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "c.yaml", tt.body)
			_, err := Load(path)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
		})
	}
}

func TestMissingPreset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "provider_files: [nope]\n")
	_, err := LoadUnchecked(path)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestMergeProvider(t *testing.T) {
	base := ProviderConfig{
		ID:                "p",
		Name:              "Plan",
		DailySupplyCharge: 1,
		ImportRules:       []RuleConfig{{Type: "flat", Rate: 0.3}},
		GridCharge:        GridChargeConfig{Enabled: true, StartHour: 1, EndHour: 4},
	}
	out := MergeProvider(base, ProviderConfig{ProviderFile: "p", Name: "Override", MonthlyFee: 5})
	assert.Equal(t, "p", out.ID)
	assert.Equal(t, "Override", out.Name)
	assert.Equal(t, 1.0, out.DailySupplyCharge)
	assert.Equal(t, 5.0, out.MonthlyFee)
	assert.Empty(t, out.ProviderFile)
	assert.True(t, out.GridCharge.Enabled)
}

func TestRuleRoundTrip(t *testing.T) {
	rc := RuleConfig{Type: "TOU", Name: "Peak", Rate: 0.5, Hours: "15-21"}
	r, err := rc.ToModel()
	require.NoError(t, err)
	back := RuleFromModel(r)
	assert.Equal(t, "tou", back.Type)
	assert.Equal(t, "15:00-21:00", back.Hours)
}

func TestListPresets(t *testing.T) {
	dir := scenarioDir(t)
	writeFile(t, dir, "providers/a-flat.yml", "provider:\n  name: A\n  import_rules: [{type: flat, name: x, rate: 0.2}]\n")
	writeFile(t, dir, "providers/README.md", "ignored")

	ps, err := ListPresets(filepath.Join(dir, "providers"))
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "a-flat", ps[0].ID, "id defaults to the file name")
	assert.Equal(t, "tou-plan", ps[1].ID)
}

func TestLoadServer(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("API_CACHE_TTL", "15m")

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.Production())
}

func TestLoadServerFileThenEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "server.yaml", "port: \"7000\"\nenv: production\nprovider_dir: /srv/providers\n")
	t.Setenv("API_PORT", "7001")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "7001", cfg.Port)
	assert.Equal(t, "/srv/providers", cfg.ProviderDir)
	assert.True(t, cfg.Production())
	assert.Equal(t, time.Hour, cfg.CacheTTL)
}

func TestLoadServerBadFormat(t *testing.T) {
	_, err := LoadServer("server.toml")
	assert.Error(t, err)
}

func TestLoadBundledExamples(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "scenario.yaml"))
	require.NoError(t, err)
	require.Len(t, cfg.Providers, 4)
	assert.Equal(t, "flat-saver-discounted", cfg.Providers[3].ID)
	assert.Equal(t, 0.99, cfg.Providers[3].DailySupplyCharge)
	require.NotNil(t, cfg.Battery)
	assert.Equal(t, 13.5, cfg.Battery.CapacityKWh)

	hist, err := Load(filepath.Join("..", "..", "examples", "scenario-historical.yaml"))
	require.NoError(t, err)
	in, err := hist.ToInput()
	require.NoError(t, err)
	assert.Len(t, in.Historical, 4)
}

func TestStartingSOCZeroIsKept(t *testing.T) {
	var unset AnalysisConfig
	unset.SetDefaults()
	assert.Equal(t, 50.0, unset.ToModel().StartingSOCPercent)

	zero := 0.0
	a := AnalysisConfig{StartingSOCPercent: &zero}
	a.SetDefaults()
	assert.Equal(t, 0.0, a.ToModel().StartingSOCPercent)

	dir := t.TempDir()
	path := writeFile(t, dir, "scenario.yaml", `
analysis:
  years: 1
  starting_soc_percent: 0
providers:
  - id: p
    import_rules: [{type: flat, name: Anytime, rate: 0.3}]
seasonal:
  manual: {peak_kwh: 1, shoulder_kwh: 1, off_peak_kwh: 1, solar_kwh: 2}
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Analysis.StartingSOCPercent)
	assert.Zero(t, *c.Analysis.StartingSOCPercent)
}

func TestResolvePinnedProviderStaysInDir(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, cwd, "stray.yaml", presetTOU)
	presets := filepath.Join(cwd, "presets")
	require.NoError(t, os.MkdirAll(presets, 0o755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(cwd))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	loose, err := ResolveProvider(presets, ProviderConfig{ProviderFile: "stray"})
	require.NoError(t, err)
	assert.Equal(t, "tou-plan", loose.ID)

	_, err = ResolvePinnedProvider(presets, ProviderConfig{ProviderFile: "stray"})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
	_, err = ResolvePinnedProvider(presets, ProviderConfig{ProviderFile: "../stray"})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
	_, err = ResolvePinnedProvider(presets, ProviderConfig{ProviderFile: filepath.Join(cwd, "stray.yaml")})
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	c := Config{ProviderFiles: []string{"stray"}}
	assert.ErrorIs(t, c.ResolvePinned(presets), model.ErrInvalidConfiguration)
}
