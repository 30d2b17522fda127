// Package db persists pipeline cycle results to SQLite. It sits outside the
// core: the pipeline returns in-memory values and callers opt in to
// persistence.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Neil-Crago/curvature/internal/pipeline"
)

type DB struct {
	*sql.DB
}

// NewDB opens (creating if needed) the cycle store at path. Use ":memory:"
// for an ephemeral store.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cycles (
			run_id TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			threshold DOUBLE NOT NULL,
			threshold_mean DOUBLE NOT NULL,
			threshold_variance DOUBLE NOT NULL,
			curvature_path_length DOUBLE NOT NULL,
			manhattan_length DOUBLE NOT NULL,
			z_bias_contribution DOUBLE NOT NULL,
			hotspots TEXT NOT NULL,
			dominant_frequency DOUBLE,
			residual_variance DOUBLE,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, cycle)
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// NewRunID returns a fresh identifier for one pipeline run.
func NewRunID() string {
	return uuid.NewString()
}

// RecordCycle inserts one cycle result under the given run id.
func (db *DB) RecordCycle(runID string, res *pipeline.CycleResult) error {
	hotspots, err := json.Marshal(res.Hotspots)
	if err != nil {
		return fmt.Errorf("failed to encode hotspots: %w", err)
	}

	var dominant sql.NullFloat64
	if len(res.Reconstruction.Dominant) > 0 {
		dominant = sql.NullFloat64{Float64: res.Reconstruction.Dominant[0].Frequency, Valid: true}
	}

	_, err = db.Exec(`
		INSERT INTO cycles (
			run_id, cycle, threshold, threshold_mean, threshold_variance,
			curvature_path_length, manhattan_length, z_bias_contribution,
			hotspots, dominant_frequency, residual_variance
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.Cycle, res.Threshold,
		res.Belief.ThresholdMean, res.Belief.ThresholdVariance,
		res.Metrics.CurvaturePathLength, res.Metrics.ManhattanLength, res.Metrics.ZBiasContribution,
		string(hotspots), dominant, res.Reconstruction.ResidualVariance,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cycle: %w", err)
	}
	return nil
}

// CycleRow is one persisted cycle result.
type CycleRow struct {
	RunID               string
	Cycle               int
	Threshold           float64
	ThresholdMean       float64
	ThresholdVariance   float64
	CurvaturePathLength float64
	ManhattanLength     float64
	ZBiasContribution   float64
	Hotspots            []int
	DominantFrequency   float64
	ResidualVariance    float64
}

func (r *CycleRow) String() string {
	return fmt.Sprintf("Cycle: %d, Threshold: %f, Hotspots: %d, PathLength: %f",
		r.Cycle, r.Threshold, len(r.Hotspots), r.CurvaturePathLength)
}

// Cycles returns the persisted results for a run in cycle order.
func (db *DB) Cycles(runID string) ([]CycleRow, error) {
	rows, err := db.Query(`
		SELECT run_id, cycle, threshold, threshold_mean, threshold_variance,
			curvature_path_length, manhattan_length, z_bias_contribution,
			hotspots, dominant_frequency, residual_variance
		FROM cycles WHERE run_id = ? ORDER BY cycle`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleRow
	for rows.Next() {
		var row CycleRow
		var hotspots string
		var dominant sql.NullFloat64
		if err := rows.Scan(
			&row.RunID, &row.Cycle, &row.Threshold,
			&row.ThresholdMean, &row.ThresholdVariance,
			&row.CurvaturePathLength, &row.ManhattanLength, &row.ZBiasContribution,
			&hotspots, &dominant, &row.ResidualVariance,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(hotspots), &row.Hotspots); err != nil {
			return nil, fmt.Errorf("failed to decode hotspots: %w", err)
		}
		row.DominantFrequency = dominant.Float64
		out = append(out, row)
	}
	return out, rows.Err()
}
