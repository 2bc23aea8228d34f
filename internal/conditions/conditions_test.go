package conditions

import (
	"testing"
	"time"

	"solar-roi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakdown() model.DailyBreakdown {
	var b model.DailyBreakdown
	b.HourlyImport[2] = 1
	b.HourlyImport[18] = 3
	b.HourlyExport[12] = 6
	b.PeakKWh = 3
	b.OffPeakKWh = 1
	b.Tier1ExportKWh = 6
	return b
}

var jan = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

func TestApplyCumulative(t *testing.T) {
	conds := []model.SpecialCondition{
		{Name: "low peak bonus", Metric: model.MetricPeakImport, Operator: model.OpLess, Threshold: 5, Action: model.ActionFlatCredit, Amount: 1.0},
		{Name: "net exporter", Metric: model.MetricNetGridUsage, Operator: model.OpLessEqual, Threshold: 0, Action: model.ActionFlatCredit, Amount: 0.5},
		{Name: "evening penalty", Metric: model.MetricImportInWindow, Window: model.HourRange(17, 20), Operator: model.OpGreaterEqual, Threshold: 3, Action: model.ActionFlatCharge, Amount: 2.0},
	}
	got, err := Apply(10, breakdown(), conds, jan)
	require.NoError(t, err)
	// -1 (peak 3 < 5), -0.5 (net -2 <= 0), +2 (window import 3 >= 3).
	assert.InDelta(t, 10.5, got, 1e-12)
}

func TestApplySkipsOtherMonths(t *testing.T) {
	conds := []model.SpecialCondition{
		{Name: "winter only", Months: []int{6, 7, 8}, Metric: model.MetricPeakImport, Operator: model.OpGreater, Threshold: 0, Action: model.ActionFlatCharge, Amount: 5},
	}
	got, err := Apply(10, breakdown(), conds, jan)
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	got, err = Apply(10, breakdown(), conds, jan.AddDate(0, 6, 0))
	require.NoError(t, err)
	assert.Equal(t, 15.0, got)
}

func TestApplyNoMatch(t *testing.T) {
	conds := []model.SpecialCondition{
		{Name: "big import", Metric: model.MetricNetGridUsage, Operator: model.OpGreater, Threshold: 100, Action: model.ActionFlatCharge, Amount: 5},
	}
	got, err := Apply(3, breakdown(), conds, jan)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestApplyRejectsUnknownMetric(t *testing.T) {
	conds := []model.SpecialCondition{{Name: "bad", Metric: "weather", Operator: model.OpLess, Action: model.ActionFlatCharge}}
	_, err := Apply(0, breakdown(), conds, jan)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestParseOperator(t *testing.T) {
	for in, want := range map[string]model.Operator{"<": model.OpLess, "≤": model.OpLessEqual, "gte": model.OpGreaterEqual, " > ": model.OpGreater} {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseOperator("==")
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"20250115", "2025-01-15", "2025-01-15T00:00:00Z"} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, time.January, got.Month())
		assert.Equal(t, 15, got.Day())
	}
	_, err := ParseDate("15/01/2025")
	assert.ErrorIs(t, err, model.ErrContractViolation)
}
