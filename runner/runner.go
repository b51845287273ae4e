package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carmsdata/carms-etl/config"
	"github.com/carmsdata/carms-etl/database"
	"github.com/carmsdata/carms-etl/load"
)

// Options configure a pipeline run.
type Options struct {
	ConfigPath string
	DataDir    string // overrides the configured data directory when set
}

// Result summarizes one successful run.
type Result struct {
	RunID   uuid.UUID
	Counts  load.Counts
	Elapsed time.Duration
}

func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	return cfg, nil
}

// Plan returns the topological execution order of the pipeline without
// reading any source or touching the database.
func Plan(opts Options) ([]string, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	g, err := BuildGraph(cfg, nil)
	if err != nil {
		return nil, err
	}
	return g.Order()
}

// Run executes the full pipeline: extract, transform, load, and record the
// outcome in the run-tracking table. Extractor and loader failures abort the
// run; the loader's transaction guarantees the store is untouched by a
// failed run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	pool, err := database.GetPool()
	if err != nil {
		return nil, err
	}
	if err := load.EnsureSchema(ctx, pool); err != nil {
		return nil, err
	}

	g, err := BuildGraph(cfg, pool)
	if err != nil {
		return nil, err
	}

	runID := uuid.New()
	start := time.Now()

	outputs, err := g.Execute(ctx)
	if err != nil {
		if recErr := load.RecordRun(context.WithoutCancel(ctx), pool, runID, "failed", nil); recErr != nil {
			fmt.Printf("⚠️  Could not record failed run: %v\n", recErr)
		}
		return nil, err
	}

	counts := outputs[AssetLoad].(load.Counts)
	if err := load.RecordRun(ctx, pool, runID, "success", &counts); err != nil {
		fmt.Printf("⚠️  Could not record run: %v\n", err)
	}

	return &Result{RunID: runID, Counts: counts, Elapsed: time.Since(start)}, nil
}
