package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRRRoundTrip(t *testing.T) {
	flows := []float64{-10000, 3000, 3000, 3000, 3000, 3000}
	irr := IRR(flows)
	require.NotNil(t, irr)
	assert.InDelta(t, 0.1524, *irr, 1e-4)
	assert.InDelta(t, 0, NPV(*irr, flows), 1e-4)
}

func TestIRRNoPositiveFlows(t *testing.T) {
	assert.Nil(t, IRR([]float64{-1000, -10, 0}))
	assert.Nil(t, IRR(nil))
}

func TestIRRNonConvergence(t *testing.T) {
	// All-positive flows have no root: NPV > 0 for every r > -1.
	assert.Nil(t, IRR([]float64{100, 100, 100}))
}

func TestIRRBreakEven(t *testing.T) {
	irr := IRR([]float64{-1000, 1000})
	require.NotNil(t, irr)
	assert.InDelta(t, 0, *irr, 1e-9)
}

func TestNPV(t *testing.T) {
	assert.InDelta(t, -1000+1100/1.1, NPV(0.1, []float64{-1000, 1100}), 1e-9)
	assert.Equal(t, 50.0, NPV(0.07, []float64{50}))
	assert.InDelta(t, 90.909090909, Discount(100, 0.1, 1), 1e-6)
}

func TestPaybackYear(t *testing.T) {
	y := PaybackYear([]float64{1000, 2500, 4000, 5500}, 4000)
	require.NotNil(t, y)
	assert.Equal(t, 3, *y)
	assert.Nil(t, PaybackYear([]float64{1, 2}, 10))
}
