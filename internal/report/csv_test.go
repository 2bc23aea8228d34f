package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-roi/internal/backtest"
	"solar-roi/internal/model"
)

func TestWriteAnnual(t *testing.T) {
	fins := []backtest.ProviderFinancials{
		{ProviderID: "a", Years: []backtest.YearResult{{Year: 1, Savings: 250.5}, {Year: 2, Savings: 240}}},
		{ProviderID: "b", Years: []backtest.YearResult{{Year: 1, Savings: -3}}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteAnnual(&buf, fins))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "provider_id", rows[0][0])
	assert.Equal(t, []string{"a", "1"}, rows[1][:2])
	assert.Equal(t, "250.500000", rows[1][7])
	assert.Equal(t, "-3.000000", rows[3][7])
}

func TestWriteLedgerCSV(t *testing.T) {
	var hours [24]model.HourFlow
	for h := range hours {
		hours[h] = model.HourFlow{Hour: h, Consumption: 1, Import: 1, Action: model.ActionIdle}
	}
	hours[12].Action = model.ActionCharging

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, hours))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 25)
	assert.Equal(t, "12", rows[13][0])
	assert.Equal(t, "CHARGING", rows[13][11])
	assert.Equal(t, "1.000000", rows[1][1])
}

func TestWriteAnnualCSVCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "annual.csv")
	require.NoError(t, WriteAnnualCSV(path, nil))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteAnnualCSVBadPath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	err := WriteAnnualCSV(filepath.Join(blocker, "x.csv"), nil)
	assert.Error(t, err)
}
