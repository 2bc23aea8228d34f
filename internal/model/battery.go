package model

import (
	"errors"
	"math"
)

// BatteryNameplate is the installed battery as sold.
// Units:
// - CapacityKWh: usable kWh when new
// - InverterKW: kW, also the per-hour kWh throughput limit
type BatteryNameplate struct {
	CapacityKWh float64
	InverterKW  float64
}

func (n BatteryNameplate) Validate() error {
	if !isFinite(n.CapacityKWh) || n.CapacityKWh < 0 {
		return errors.New("CapacityKWh must be >= 0")
	}
	if !isFinite(n.InverterKW) || n.InverterKW < 0 {
		return errors.New("InverterKW must be >= 0")
	}
	return nil
}

// BatteryConfig is the battery for one analysis year, after degradation.
// It is recomputed from the nameplate every year rather than mutated.
type BatteryConfig struct {
	CapacityKWh float64
	InverterKW  float64
	// Grid-charge thresholds as a percent of CapacityKWh.
	GridChargeTargetPercent  float64
	GridChargeTriggerPercent float64
}

// DeriveBattery scales the nameplate capacity by degradationFactor and copies
// the provider's grid-charge thresholds.
func DeriveBattery(n BatteryNameplate, degradationFactor float64, gc GridChargeConfig) BatteryConfig {
	if !isFinite(degradationFactor) || degradationFactor < 0 {
		degradationFactor = 0
	}
	return BatteryConfig{
		CapacityKWh:              n.CapacityKWh * degradationFactor,
		InverterKW:               n.InverterKW,
		GridChargeTargetPercent:  gc.TargetSOCPercent,
		GridChargeTriggerPercent: gc.TriggerSOCPercent,
	}
}

// Active reports whether the battery can move any energy at all. A zero
// capacity or zero inverter disables it.
func (b *BatteryConfig) Active() bool {
	return b != nil && b.CapacityKWh > 0 && b.InverterKW > 0
}

// ClampSOC bounds soc (kWh) to [0, CapacityKWh].
func (b BatteryConfig) ClampSOC(soc float64) float64 {
	return math.Max(0, math.Min(soc, b.CapacityKWh))
}

// TriggerKWh is the SOC below which grid charging starts.
func (b BatteryConfig) TriggerKWh() float64 {
	return b.CapacityKWh * clamp01(b.GridChargeTriggerPercent/100)
}

// TargetKWh is the SOC grid charging tops up to.
func (b BatteryConfig) TargetKWh() float64 {
	return b.CapacityKWh * clamp01(b.GridChargeTargetPercent/100)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
