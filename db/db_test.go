package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neil-Crago/curvature/internal/belief"
	"github.com/Neil-Crago/curvature/internal/curvature"
	"github.com/Neil-Crago/curvature/internal/path"
	"github.com/Neil-Crago/curvature/internal/pipeline"
)

func testStore(t *testing.T) *DB {
	t.Helper()
	store, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult(cycle int, hotspots []int) *pipeline.CycleResult {
	return &pipeline.CycleResult{
		Cycle: cycle,
		Reconstruction: &curvature.Reconstruction{
			Signal:     curvature.DenseSignal{0.1, 0.9, 0.2},
			Confidence: []float64{1, 0.5, 1},
			Dominant: []curvature.FrequencyEstimate{
				{Frequency: 0.5, Power: 0.97},
			},
			ResidualVariance: 0.01,
		},
		Threshold: 0.8,
		Hotspots:  hotspots,
		Metrics: path.Metrics{
			CurvaturePathLength: 2.4,
			ManhattanLength:     2,
			ZBiasContribution:   0.4,
		},
		Belief: belief.State{ThresholdMean: 0.75, ThresholdVariance: 0.2},
	}
}

func TestRecordAndReadCycles(t *testing.T) {
	store := testStore(t)

	runID := NewRunID()
	require.NoError(t, store.RecordCycle(runID, testResult(1, []int{1})))
	require.NoError(t, store.RecordCycle(runID, testResult(2, nil)))
	// A second run must not leak into the first.
	require.NoError(t, store.RecordCycle(NewRunID(), testResult(1, []int{0, 2})))

	rows, err := store.Cycles(runID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, 1, first.Cycle)
	assert.Equal(t, 0.8, first.Threshold)
	assert.Equal(t, []int{1}, first.Hotspots)
	assert.Equal(t, 0.5, first.DominantFrequency)
	assert.Equal(t, 0.75, first.ThresholdMean)
	assert.Equal(t, 0.2, first.ThresholdVariance)
	assert.Equal(t, 2.4, first.CurvaturePathLength)

	assert.Equal(t, 2, rows[1].Cycle)
	assert.Empty(t, rows[1].Hotspots)
}

func TestRecordCycle_DuplicateCycleRejected(t *testing.T) {
	store := testStore(t)

	runID := NewRunID()
	require.NoError(t, store.RecordCycle(runID, testResult(1, nil)))
	assert.Error(t, store.RecordCycle(runID, testResult(1, nil)))
}

func TestCycles_UnknownRunEmpty(t *testing.T) {
	store := testStore(t)

	rows, err := store.Cycles("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, rows)
}
