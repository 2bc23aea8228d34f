package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"solar-roi/internal/model"
)

type BatteryConfig struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	CapacityKWh float64 `yaml:"capacity_kwh" json:"capacity_kwh"`
	InverterKW  float64 `yaml:"inverter_kw" json:"inverter_kw"`
}

func (b BatteryConfig) ToModel() model.BatteryNameplate {
	return model.BatteryNameplate{CapacityKWh: b.CapacityKWh, InverterKW: b.InverterKW}
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
// This is used when loading a battery file and then applying overrides from the scenario.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.CapacityKWh != 0 {
		out.CapacityKWh = override.CapacityKWh
	}
	if override.InverterKW != 0 {
		out.InverterKW = override.InverterKW
	}
	return out
}
