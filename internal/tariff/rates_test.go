package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDegradedFitRate(t *testing.T) {
	fit := FitDegradation{Enabled: true, StartYear: 1, EndYear: 10, MinRate: 0.02}
	tests := []struct {
		name string
		year float64
		want float64
	}{
		{name: "start year", year: 1, want: 0.10},
		{name: "before start", year: 0, want: 0.10},
		{name: "midpoint", year: 5.5, want: 0.06},
		{name: "end year", year: 10, want: 0.02},
		{name: "after end", year: 25, want: 0.02},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DegradedFitRate(0.10, tt.year, fit), 1e-12)
		})
	}
}

func TestDegradedFitRateDegenerateWindow(t *testing.T) {
	fit := FitDegradation{Enabled: true, StartYear: 5, EndYear: 5, MinRate: 0.03}
	assert.Equal(t, 0.03, DegradedFitRate(0.10, 1, fit))

	fit.EndYear = 2
	assert.Equal(t, 0.03, DegradedFitRate(0.10, 8, fit))
}

func TestDegradedFitRateDisabledOrBelowMin(t *testing.T) {
	assert.Equal(t, 0.10, DegradedFitRate(0.10, 7, FitDegradation{StartYear: 1, EndYear: 10, MinRate: 0.02}))
	fit := FitDegradation{Enabled: true, StartYear: 1, EndYear: 10, MinRate: 0.05}
	assert.Equal(t, 0.04, DegradedFitRate(0.04, 7, fit))
}

func TestEscalatedRate(t *testing.T) {
	assert.Equal(t, 0.30, EscalatedRate(0.30, Escalation{Rate: 0.05, Year: 1}))
	assert.InDelta(t, 0.30*1.05*1.05, EscalatedRate(0.30, Escalation{Rate: 0.05, Year: 3}), 1e-12)
	assert.Equal(t, 0.30, EscalatedRate(0.30, Escalation{Rate: 0.05, Year: 0}))
	assert.InDelta(t, 1.1025, Escalation{Rate: 0.05, Year: 3}.Factor(), 1e-12)
}
