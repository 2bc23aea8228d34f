package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"solar-roi/internal/conditions"
	"solar-roi/internal/model"
)

// RuleConfig is the wire form of a tariff rule.
type RuleConfig struct {
	Type  string  `yaml:"type" json:"type"`
	Name  string  `yaml:"name" json:"name"`
	Rate  float64 `yaml:"rate" json:"rate"`
	Hours string  `yaml:"hours,omitempty" json:"hours,omitempty"` // tou only, e.g. "15:00-21:00"
	Limit float64 `yaml:"limit,omitempty" json:"limit,omitempty"` // tiered only, kWh/day
}

func (r RuleConfig) ToModel() (model.Rule, error) {
	switch model.RuleKind(strings.ToLower(strings.TrimSpace(r.Type))) {
	case model.RuleTimeOfUse:
		hours, err := model.ParseHours(r.Hours)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		return model.TimeOfUse{Name: r.Name, Rate: r.Rate, Hours: hours}, nil
	case model.RuleTiered:
		return model.Tiered{Name: r.Name, Rate: r.Rate, Limit: r.Limit}, nil
	case model.RuleFlat:
		return model.Flat{Name: r.Name, Rate: r.Rate}, nil
	}
	return nil, fmt.Errorf("%w: rule %q has unknown type %q", model.ErrInvalidConfiguration, r.Name, r.Type)
}

// RuleFromModel renders a rule back to its wire form.
func RuleFromModel(r model.Rule) RuleConfig {
	out := RuleConfig{Type: string(r.Kind()), Name: r.RuleName(), Rate: r.BaseRate()}
	switch v := r.(type) {
	case model.TimeOfUse:
		out.Hours = v.Hours.String()
	case model.Tiered:
		out.Limit = v.Limit
	}
	return out
}

type GridChargeConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	StartHour         int     `yaml:"start_hour" json:"start_hour"`
	EndHour           int     `yaml:"end_hour" json:"end_hour"`
	TriggerSOCPercent float64 `yaml:"trigger_soc_percent" json:"trigger_soc_percent"`
	TargetSOCPercent  float64 `yaml:"target_soc_percent" json:"target_soc_percent"`
}

type ConditionConfig struct {
	Name      string  `yaml:"name" json:"name"`
	Months    []int   `yaml:"months,omitempty" json:"months,omitempty"`
	Metric    string  `yaml:"metric" json:"metric"`
	Window    string  `yaml:"window,omitempty" json:"window,omitempty"`
	Operator  string  `yaml:"operator" json:"operator"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	Action    string  `yaml:"action" json:"action"`
	Amount    float64 `yaml:"amount" json:"amount"`
}

func (c ConditionConfig) ToModel() (model.SpecialCondition, error) {
	op, err := conditions.ParseOperator(c.Operator)
	if err != nil {
		return model.SpecialCondition{}, fmt.Errorf("condition %q: %w", c.Name, err)
	}
	window, err := model.ParseHours(c.Window)
	if err != nil {
		return model.SpecialCondition{}, fmt.Errorf("condition %q: %w", c.Name, err)
	}
	return model.SpecialCondition{
		Name:      c.Name,
		Months:    c.Months,
		Metric:    model.Metric(c.Metric),
		Window:    window,
		Operator:  op,
		Threshold: c.Threshold,
		Action:    model.ConditionAction(c.Action),
		Amount:    c.Amount,
	}, nil
}

// ProviderConfig is a retail plan on disk or on the wire. ProviderFile names
// a preset whose fields the inline ones override.
type ProviderConfig struct {
	ProviderFile string `yaml:"provider_file,omitempty" json:"provider_file,omitempty"`

	ID                string            `yaml:"id" json:"id"`
	Name              string            `yaml:"name" json:"name"`
	DailySupplyCharge float64           `yaml:"daily_supply_charge" json:"daily_supply_charge"`
	MonthlyFee        float64           `yaml:"monthly_fee,omitempty" json:"monthly_fee,omitempty"`
	Rebate            float64           `yaml:"rebate,omitempty" json:"rebate,omitempty"`
	ImportRules       []RuleConfig      `yaml:"import_rules" json:"import_rules"`
	ExportRules       []RuleConfig      `yaml:"export_rules,omitempty" json:"export_rules,omitempty"`
	GridCharge        GridChargeConfig  `yaml:"grid_charge,omitempty" json:"grid_charge,omitempty"`
	SpecialConditions []ConditionConfig `yaml:"special_conditions,omitempty" json:"special_conditions,omitempty"`
}

// ToModel converts and validates the plan.
func (p ProviderConfig) ToModel() (model.ProviderConfig, error) {
	out := model.ProviderConfig{
		ID:                p.ID,
		Name:              p.Name,
		DailySupplyCharge: p.DailySupplyCharge,
		MonthlyFee:        p.MonthlyFee,
		Rebate:            p.Rebate,
		GridCharge: model.GridChargeConfig{
			Enabled:           p.GridCharge.Enabled,
			StartHour:         p.GridCharge.StartHour,
			EndHour:           p.GridCharge.EndHour,
			TriggerSOCPercent: p.GridCharge.TriggerSOCPercent,
			TargetSOCPercent:  p.GridCharge.TargetSOCPercent,
		},
	}
	if out.Name == "" {
		out.Name = out.ID
	}
	var err error
	if out.ImportRules, err = toRules(p.ImportRules); err != nil {
		return model.ProviderConfig{}, fmt.Errorf("provider %q import rules: %w", p.ID, err)
	}
	if out.ExportRules, err = toRules(p.ExportRules); err != nil {
		return model.ProviderConfig{}, fmt.Errorf("provider %q export rules: %w", p.ID, err)
	}
	for _, c := range p.SpecialConditions {
		sc, err := c.ToModel()
		if err != nil {
			return model.ProviderConfig{}, fmt.Errorf("provider %q: %w", p.ID, err)
		}
		out.SpecialConditions = append(out.SpecialConditions, sc)
	}
	if err := out.Validate(); err != nil {
		return model.ProviderConfig{}, err
	}
	return out, nil
}

func toRules(in []RuleConfig) ([]model.Rule, error) {
	out := make([]model.Rule, 0, len(in))
	for _, r := range in {
		m, err := r.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MergeProvider overlays non-zero fields from override onto base.
// Rule and condition lists replace the preset's lists wholesale.
func MergeProvider(base, override ProviderConfig) ProviderConfig {
	out := base
	out.ProviderFile = ""
	if override.ID != "" {
		out.ID = override.ID
	}
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.DailySupplyCharge != 0 {
		out.DailySupplyCharge = override.DailySupplyCharge
	}
	if override.MonthlyFee != 0 {
		out.MonthlyFee = override.MonthlyFee
	}
	if override.Rebate != 0 {
		out.Rebate = override.Rebate
	}
	if len(override.ImportRules) > 0 {
		out.ImportRules = override.ImportRules
	}
	if len(override.ExportRules) > 0 {
		out.ExportRules = override.ExportRules
	}
	if override.GridCharge != (GridChargeConfig{}) {
		out.GridCharge = override.GridCharge
	}
	if len(override.SpecialConditions) > 0 {
		out.SpecialConditions = override.SpecialConditions
	}
	return out
}

type providerFileWrapper struct {
	Provider ProviderConfig `yaml:"provider"`
}

// LoadProviderFile reads a preset. The file holds a single top-level
// "provider" key.
func LoadProviderFile(path string) (ProviderConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProviderConfig{}, err
	}
	var w providerFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ProviderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if w.Provider.ID == "" {
		w.Provider.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return w.Provider, nil
}

// ResolveProvider loads p.ProviderFile (if set) from dir and overlays p.
// ref may be a preset id ("agl-tou"), a file name or a path; relative refs
// are looked up in dir first and then the working directory.
func ResolveProvider(dir string, p ProviderConfig) (ProviderConfig, error) {
	return resolveProvider(dir, p, false)
}

// ResolvePinnedProvider is ResolveProvider restricted to files inside dir.
func ResolvePinnedProvider(dir string, p ProviderConfig) (ProviderConfig, error) {
	return resolveProvider(dir, p, true)
}

func resolveProvider(dir string, p ProviderConfig, pinned bool) (ProviderConfig, error) {
	if p.ProviderFile == "" {
		return p, nil
	}
	path, err := presetPath(dir, p.ProviderFile, pinned)
	if err != nil {
		return ProviderConfig{}, err
	}
	base, err := LoadProviderFile(path)
	if err != nil {
		return ProviderConfig{}, err
	}
	return MergeProvider(base, p), nil
}

func presetPath(dir, ref string, pinned bool) (string, error) {
	if filepath.IsAbs(ref) && !pinned {
		return ref, nil
	}
	cands := []string{ref}
	if filepath.Ext(ref) == "" {
		cands = []string{ref + ".yaml", ref + ".yml", ref}
	}
	for _, c := range cands {
		p := filepath.Join(dir, c)
		if pinned && !withinDir(dir, p) {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	if !pinned {
		if _, err := os.Stat(ref); err == nil {
			return ref, nil
		}
	}
	return "", fmt.Errorf("%w: provider preset %q not found in %s", model.ErrInvalidConfiguration, ref, dir)
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ListPresets loads every *.yaml and *.yml preset in dir, ordered by id.
func ListPresets(dir string) ([]ProviderConfig, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider dir: %w", err)
	}
	var out []ProviderConfig
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
		default:
			continue
		}
		p, err := LoadProviderFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
