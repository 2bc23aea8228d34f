package simulate

import (
	"math"
	"testing"

	"solar-roi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touProvider() model.ProviderConfig {
	peak := model.HourRange(15, 21)
	shoulder := model.HourRange(7, 15).Union(model.HourRange(21, 22))
	off := model.HourRange(22, 7)
	return model.ProviderConfig{
		ID: "tou",
		ImportRules: []model.Rule{
			model.TimeOfUse{Name: "Peak", Rate: 0.45, Hours: peak},
			model.TimeOfUse{Name: "Shoulder", Rate: 0.25, Hours: shoulder},
			model.TimeOfUse{Name: "Off-Peak", Rate: 0.12, Hours: off},
		},
		ExportRules: []model.Rule{
			model.Tiered{Name: "bonus", Rate: 0.12, Limit: 10},
			model.Flat{Name: "standard", Rate: 0.05},
		},
	}
}

// A day with a morning and evening load and a midday solar bump.
func sampleDay() (model.HourlyProfile, model.HourlyProfile) {
	var c, s model.HourlyProfile
	for h := range c {
		c[h] = 0.4 + 0.1*float64(h%5)
	}
	c[7], c[8] = 1.5, 1.2
	c[18], c[19], c[20] = 2.5, 3.0, 2.2
	for h := 6; h <= 18; h++ {
		d := float64(h) - 12
		s[h] = math.Max(0, 3.5-0.1*d*d)
	}
	return c, s
}

func TestDayWithoutBatteryIsNetMetering(t *testing.T) {
	c, s := sampleDay()
	res, err := Day(c, s, touProvider(), nil, 0)
	require.NoError(t, err)

	for h := 0; h < 24; h++ {
		assert.Equal(t, math.Max(0, c[h]-s[h]), res.Breakdown.HourlyImport[h], "import hour %d", h)
		assert.Equal(t, math.Max(0, s[h]-c[h]), res.Breakdown.HourlyExport[h], "export hour %d", h)
	}
	assert.Zero(t, res.EndingSOC)
	assert.Zero(t, res.Breakdown.GridChargeKWh)
}

func TestDayZeroInverterDisablesBattery(t *testing.T) {
	c, s := sampleDay()
	base, err := Day(c, s, touProvider(), nil, 0)
	require.NoError(t, err)

	batt := &model.BatteryConfig{CapacityKWh: 10, InverterKW: 0}
	got, err := Day(c, s, touProvider(), batt, 5)
	require.NoError(t, err)
	assert.Equal(t, base.Breakdown, got.Breakdown)
}

func TestDayConservation(t *testing.T) {
	c, s := sampleDay()
	p := touProvider()
	p.GridCharge = model.GridChargeConfig{Enabled: true, StartHour: 22, EndHour: 5, TriggerSOCPercent: 40, TargetSOCPercent: 90}
	batteries := []*model.BatteryConfig{
		nil,
		{CapacityKWh: 5, InverterKW: 2.5},
		{CapacityKWh: 13.5, InverterKW: 5, GridChargeTriggerPercent: 40, GridChargeTargetPercent: 90},
	}
	for _, batt := range batteries {
		res, err := Day(c, s, p, batt, 2)
		require.NoError(t, err)
		b := res.Breakdown
		assert.InDelta(t, b.HourlyImport.Total(), b.PeakKWh+b.ShoulderKWh+b.OffPeakKWh, 1e-9)
		assert.InDelta(t, b.HourlyExport.Total(), b.Tier1ExportKWh+b.Tier2ExportKWh, 1e-9)

		// Every kWh of consumption plus export is matched by solar, import
		// (minus grid charge) or a battery drawdown.
		soc0 := 0.0
		if batt.Active() {
			soc0 = batt.ClampSOC(2)
		}
		in := s.Total() + b.HourlyImport.Total() + soc0
		out := c.Total() + b.HourlyExport.Total() + res.EndingSOC
		assert.InDelta(t, in, out, 1e-9)
	}
}

func TestDaySOCBounds(t *testing.T) {
	c, s := sampleDay()
	s = s.Scale(2)
	p := touProvider()
	p.GridCharge = model.GridChargeConfig{Enabled: true, StartHour: 22, EndHour: 5, TriggerSOCPercent: 50, TargetSOCPercent: 100}
	batt := &model.BatteryConfig{CapacityKWh: 10, InverterKW: 3, GridChargeTriggerPercent: 50, GridChargeTargetPercent: 100}

	res, err := Day(c, s, p, batt, 20)
	require.NoError(t, err)
	for _, f := range res.Hours {
		assert.GreaterOrEqual(t, f.SOCEnd, 0.0)
		assert.LessOrEqual(t, f.SOCEnd, batt.CapacityKWh)
		assert.LessOrEqual(t, math.Abs(f.SOCEnd-f.SOCStart), batt.InverterKW+1e-12, "hour %d", f.Hour)
	}
	assert.Equal(t, batt.CapacityKWh, res.Hours[0].SOCStart, "starting SOC is clamped")
}

func TestDaySolarChargesBeforeExport(t *testing.T) {
	var c, s model.HourlyProfile
	s[12] = 10
	batt := &model.BatteryConfig{CapacityKWh: 5, InverterKW: 3}
	res, err := Day(c, s, touProvider(), batt, 0)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, res.Hours[12].SolarCharge, 1e-12)
	assert.InDelta(t, 7.0, res.Breakdown.HourlyExport[12], 1e-12)
	assert.Equal(t, model.ActionCharging, res.Hours[12].Action)
	assert.InDelta(t, 3.0, res.EndingSOC, 1e-12)
}

func TestDayDischargeCoversLoad(t *testing.T) {
	var c, s model.HourlyProfile
	c[19] = 4
	batt := &model.BatteryConfig{CapacityKWh: 10, InverterKW: 2.5}
	res, err := Day(c, s, touProvider(), batt, 6)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, res.Hours[19].Discharge, 1e-12)
	assert.InDelta(t, 1.5, res.Breakdown.HourlyImport[19], 1e-12)
	assert.InDelta(t, 1.5, res.Breakdown.PeakKWh, 1e-12)
	assert.InDelta(t, 3.5, res.EndingSOC, 1e-12)
	assert.Equal(t, model.ActionDischarging, res.Hours[19].Action)
}

func TestDayGridChargeWindow(t *testing.T) {
	var c, s model.HourlyProfile
	p := model.ProviderConfig{
		ID:          "flat",
		ImportRules: []model.Rule{model.Flat{Name: "anytime", Rate: 0.10}},
		GridCharge:  model.GridChargeConfig{Enabled: true, StartHour: 22, EndHour: 5, TriggerSOCPercent: 60, TargetSOCPercent: 80},
	}
	batt := model.DeriveBattery(model.BatteryNameplate{CapacityKWh: 10, InverterKW: 5}, 1, p.GridCharge)

	res, err := Day(c, s, p, &batt, 0)
	require.NoError(t, err)

	// Hour 0 tops up 5 kWh (inverter bound), hour 1 the remaining 3 kWh to
	// reach the 80% target, then SOC sits above the 60% trigger.
	assert.InDelta(t, 5.0, res.Breakdown.HourlyImport[0], 1e-12)
	assert.InDelta(t, 3.0, res.Breakdown.HourlyImport[1], 1e-12)
	assert.Zero(t, res.Breakdown.HourlyImport[2])
	assert.InDelta(t, 8.0, res.Breakdown.GridChargeKWh, 1e-12)
	assert.InDelta(t, 0.8, res.Breakdown.GridChargeCost, 1e-12)
	assert.InDelta(t, 8.0, res.EndingSOC, 1e-12)
	assert.Equal(t, model.ActionGridCharging, res.Hours[0].Action)
	for h := 5; h < 22; h++ {
		assert.Zero(t, res.Hours[h].GridCharge, "hour %d outside window", h)
	}
}

func TestDayGridChargeDisabled(t *testing.T) {
	var c, s model.HourlyProfile
	p := touProvider()
	p.GridCharge = model.GridChargeConfig{Enabled: false, StartHour: 22, EndHour: 5, TriggerSOCPercent: 60, TargetSOCPercent: 80}
	batt := model.DeriveBattery(model.BatteryNameplate{CapacityKWh: 10, InverterKW: 5}, 1, p.GridCharge)
	res, err := Day(c, s, p, &batt, 0)
	require.NoError(t, err)
	assert.Zero(t, res.Breakdown.GridChargeKWh)
}

func TestDayTieredExportSplit(t *testing.T) {
	var c, s model.HourlyProfile
	s[11], s[12], s[13] = 5, 5, 5
	res, err := Day(c, s, touProvider(), nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Breakdown.Tier1ExportKWh, 1e-12)
	assert.InDelta(t, 5.0, res.Breakdown.Tier2ExportKWh, 1e-12)

	p := touProvider()
	p.ExportRules = []model.Rule{model.Flat{Name: "fit", Rate: 0.05}}
	res, err = Day(c, s, p, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, res.Breakdown.Tier1ExportKWh, 1e-12)
	assert.Zero(t, res.Breakdown.Tier2ExportKWh)
}

func TestDayCategorizesImport(t *testing.T) {
	var c, s model.HourlyProfile
	c[3], c[10], c[18] = 1, 2, 4
	res, err := Day(c, s, touProvider(), nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, res.Breakdown.PeakKWh, 1e-12)
	assert.InDelta(t, 2.0, res.Breakdown.ShoulderKWh, 1e-12)
	assert.InDelta(t, 1.0, res.Breakdown.OffPeakKWh, 1e-12)
}

func TestDayRejectsMalformedInput(t *testing.T) {
	var c, s model.HourlyProfile
	c[4] = math.NaN()
	_, err := Day(c, s, touProvider(), nil, 0)
	assert.ErrorIs(t, err, model.ErrContractViolation)

	c[4] = 0
	s[4] = -1
	_, err = Day(c, s, touProvider(), nil, 0)
	assert.ErrorIs(t, err, model.ErrContractViolation)

	s[4] = 0
	_, err = Day(c, s, touProvider(), &model.BatteryConfig{CapacityKWh: 1, InverterKW: 1}, math.Inf(1))
	assert.ErrorIs(t, err, model.ErrContractViolation)
}
