package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeCost(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	cost, err := ComputeCost(t0, t0.Add(90*time.Minute), 40.0)
	require.NoError(t, err)
	assert.Equal(t, 60.00, cost)

	cost, err = ComputeCost(t0, t0.Add(2*time.Hour), 50.0)
	require.NoError(t, err)
	assert.Equal(t, 100.00, cost)
}

func TestComputeCostZeroDuration(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	cost, err := ComputeCost(t0, t0, 40.0)
	require.NoError(t, err)
	assert.Equal(t, 0.00, cost)
}

func TestComputeCostRoundsHalfAwayFromZero(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// 15 minutes at 0.50/hr is exactly 0.125, which must round up to 0.13.
	cost, err := ComputeCost(t0, t0.Add(15*time.Minute), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.13, cost)
}

func TestComputeCostRejectsEndBeforeStart(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := ComputeCost(t0, t0.Add(-time.Minute), 40.0)
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.13, Round2(1.125))
	assert.Equal(t, -1.13, Round2(-1.125))
	assert.Equal(t, 100.00, Round2(100.004))
}
