// Command curves demonstrates the curvature pipeline end to end: it
// simulates sparse curvature samples, runs successive reconstruction cycles
// with optional prior constraints, prints the resulting metrics and can
// persist cycle results to SQLite and render PNG/HTML diagnostics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/Neil-Crago/curvature/db"
	"github.com/Neil-Crago/curvature/internal/belief"
	"github.com/Neil-Crago/curvature/internal/config"
	"github.com/Neil-Crago/curvature/internal/monitor"
	"github.com/Neil-Crago/curvature/internal/pipeline"
	"github.com/Neil-Crago/curvature/internal/simulate"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to tuning JSON (defaults applied when empty)")
		cycles     = flag.Int("cycles", 5, "number of reconstruction cycles to run")
		samples    = flag.Int("samples", 24, "sparse samples per cycle")
		seed       = flag.Int64("seed", 42, "simulation RNG seed")
		frequency  = flag.Float64("frequency", 0.5, "true curvature frequency (cycles per domain unit)")
		noise      = flag.Float64("noise", 0.1, "simulation noise sigma")
		priorsCSV  = flag.String("priors", "", "prior constraints as lower:upper:weight, comma separated")
		dbPath     = flag.String("db", "", "optional SQLite path to persist cycle results")
		plotDir    = flag.String("plots", "", "optional directory for per-cycle PNG plots")
		reportPath = flag.String("report", "", "optional path for the HTML run report")
	)
	flag.Parse()

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	priors, err := parsePriors(*priorsCSV)
	if err != nil {
		log.Fatalf("failed to parse priors: %v", err)
	}

	runner, err := pipeline.NewRunner(pipeline.ConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	var store *db.DB
	var runID string
	if *dbPath != "" {
		store, err = db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open db: %v", err)
		}
		defer store.Close()
		runID = db.NewRunID()
		log.Printf("persisting cycles to %s (run %s)", *dbPath, runID)
	}

	simCfg := simulate.DefaultConfig()
	simCfg.Samples = *samples
	simCfg.Frequency = *frequency
	simCfg.Noise = *noise

	var results []*pipeline.CycleResult
	for i := 0; i < *cycles; i++ {
		// Each cycle surveys the same field with a fresh sampling pattern.
		simCfg.Seed = *seed + int64(i)
		batch, err := simulate.Batch(simCfg)
		if err != nil {
			log.Fatalf("failed to simulate samples: %v", err)
		}

		res, err := runner.RunCycle(batch, priors)
		if err != nil {
			log.Printf("cycle %d failed: %v", i+1, err)
			continue
		}
		results = append(results, res)

		dominant := 0.0
		if len(res.Reconstruction.Dominant) > 0 {
			dominant = res.Reconstruction.Dominant[0].Frequency
		}
		fmt.Printf("cycle %d: freq=%.4f threshold=%.4f hotspots=%d path=%.3f manhattan=%.1f zbias=%.3f belief=(%.4f ± %.4g)\n",
			res.Cycle, dominant, res.Threshold, len(res.Hotspots),
			res.Metrics.CurvaturePathLength, res.Metrics.ManhattanLength, res.Metrics.ZBiasContribution,
			res.Belief.ThresholdMean, res.Belief.ThresholdVariance)

		if store != nil {
			if err := store.RecordCycle(runID, res); err != nil {
				log.Printf("failed to persist cycle %d: %v", res.Cycle, err)
			}
		}
		if *plotDir != "" {
			if err := monitor.SaveCyclePlots(res, *plotDir); err != nil {
				log.Printf("failed to plot cycle %d: %v", res.Cycle, err)
			}
		}
	}

	if len(results) == 0 {
		log.Fatal("no cycle completed")
	}

	lo, hi := runner.Tensor().CredibleInterval(0.95)
	fmt.Printf("final belief: threshold %.4f (95%% CI [%.4f, %.4f]), confidence entropy %.3f bits\n",
		runner.Belief().ThresholdMean, lo, hi, runner.Tensor().ConfidenceEntropy())

	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			log.Fatalf("failed to create report: %v", err)
		}
		defer f.Close()
		if err := monitor.WriteRunReport(f, results); err != nil {
			log.Fatalf("failed to render report: %v", err)
		}
		log.Printf("report written to %s", *reportPath)
	}
}

// parsePriors parses a comma-separated list of lower:upper:weight triples.
// Returns nil, nil for empty input strings.
func parsePriors(s string) ([]belief.PriorConstraint, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]belief.PriorConstraint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fields := strings.Split(p, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid prior '%s': want lower:upper:weight", p)
		}
		var vals [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid float '%s': %w", f, err)
			}
			vals[i] = v
		}
		c := belief.PriorConstraint{Lower: vals[0], Upper: vals[1], Weight: vals[2]}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
