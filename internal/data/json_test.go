package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-roi/internal/model"
)

func hours(v float64) []float64 {
	out := make([]float64, 24)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestLoadHistoricalJSONDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	raw := `{"days":[
		{"date":"2025-02-01","consumption":` + jsonHours(2) + `,"solar":` + jsonHours(0) + `},
		{"date":"20250101","consumption":` + jsonHours(1) + `,"solar":` + jsonHours(0.5) + `}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	days, err := LoadHistoricalJSON(path)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, time.January, days[0].Date.Month())
	assert.Equal(t, 12.0, days[0].Solar.Total())
	assert.Equal(t, 48.0, days[1].Consumption.Total())
	assert.Zero(t, days[1].Solar.Total())
}

func jsonHours(v float64) string {
	b, _ := json.Marshal(hours(v))
	return string(b)
}

func TestAlignDays(t *testing.T) {
	cons := []SeriesJSON{
		{Date: "2025-01-03", Values: hours(1)},
		{Date: "2025-01-01", Values: hours(1)},
		{Date: "2025-01-02", Values: hours(1)},
	}
	solar := []SeriesJSON{
		{Date: "2025-01-02", Values: hours(0.25)},
		{Date: "2025-01-03", Values: hours(0.5)},
		{Date: "2025-01-09", Values: hours(0.5)},
	}
	days, err := AlignDays(cons, solar)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 2, days[0].Date.Day())
	assert.Equal(t, 6.0, days[0].Solar.Total())
	assert.Equal(t, 3, days[1].Date.Day())
}

func TestAlignDaysNoOverlap(t *testing.T) {
	_, err := AlignDays(
		[]SeriesJSON{{Date: "2025-01-01", Values: hours(1)}},
		[]SeriesJSON{{Date: "2025-06-01", Values: hours(1)}},
	)
	assert.ErrorIs(t, err, model.ErrMissingData)
}

func TestDaysFromJSONRejectsShortDay(t *testing.T) {
	_, err := DaysFromJSON([]DayJSON{{Date: "2025-01-01", Consumption: make([]float64, 23)}})
	assert.ErrorIs(t, err, model.ErrContractViolation)

	_, err = DaysFromJSON([]DayJSON{{Date: "first of jan", Consumption: hours(1)}})
	assert.ErrorIs(t, err, model.ErrContractViolation)

	_, err = DaysFromJSON(nil)
	assert.ErrorIs(t, err, model.ErrMissingData)
}

func TestDaysFromJSONRequiresSolar(t *testing.T) {
	_, err := DaysFromJSON([]DayJSON{{Date: "2025-01-15", Consumption: hours(1)}})
	assert.ErrorIs(t, err, model.ErrMissingData)
	assert.Contains(t, err.Error(), "2025-01-15")

	var f HistoryFile
	require.NoError(t, json.Unmarshal([]byte(`{"days":[{"date":"2025-01-15","consumption":`+jsonHours(1)+`}]}`), &f))
	_, err = f.Records()
	assert.ErrorIs(t, err, model.ErrMissingData)

	days, err := DaysFromJSON([]DayJSON{{Date: "2025-01-15", Consumption: hours(1), Solar: hours(0)}})
	require.NoError(t, err)
	assert.Zero(t, days[0].Solar.Total())
}

func TestLoadHistoricalJSONMissingFile(t *testing.T) {
	_, err := LoadHistoricalJSON(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
