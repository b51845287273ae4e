package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carmsdata/carms-etl/config"
	"github.com/carmsdata/carms-etl/extract"
	"github.com/carmsdata/carms-etl/frame"
	"github.com/carmsdata/carms-etl/graph"
	"github.com/carmsdata/carms-etl/load"
	"github.com/carmsdata/carms-etl/schema"
	"github.com/carmsdata/carms-etl/transform"
)

// Asset names, one per data product of the pipeline.
const (
	AssetRawDisciplines = "raw_disciplines"
	AssetRawPrograms    = "raw_programs"
	AssetDisciplines    = "disciplines"
	AssetSchools        = "schools"
	AssetPrograms       = "programs"
	AssetDescriptions   = "program_descriptions"
	AssetLoad           = "load"
)

// BuildGraph wires the concrete pipeline assets: two xlsx extractors, three
// frame transformers, the description parser, and the terminal loader. The
// pool may be nil when the graph is only ordered, never executed.
func BuildGraph(cfg *config.Config, pool *pgxpool.Pool) (*graph.Graph, error) {
	g := graph.New()

	assets := []graph.Asset{
		{
			Name: AssetRawDisciplines,
			Build: func(_ context.Context, _ map[string]any) (any, error) {
				f, err := extract.ReadWorkbook(filepath.Join(cfg.DataDir, cfg.Files.Disciplines))
				return f, err
			},
		},
		{
			Name: AssetRawPrograms,
			Build: func(_ context.Context, _ map[string]any) (any, error) {
				f, err := extract.ReadWorkbook(filepath.Join(cfg.DataDir, cfg.Files.Programs))
				return f, err
			},
		},
		{
			Name:   AssetDisciplines,
			Inputs: []string{AssetRawDisciplines},
			Build: func(_ context.Context, in map[string]any) (any, error) {
				f, err := transform.Disciplines(in[AssetRawDisciplines].(*frame.Frame))
				return f, err
			},
		},
		{
			Name:   AssetSchools,
			Inputs: []string{AssetRawPrograms},
			Build: func(_ context.Context, in map[string]any) (any, error) {
				f, err := transform.Schools(in[AssetRawPrograms].(*frame.Frame))
				return f, err
			},
		},
		{
			Name:   AssetPrograms,
			Inputs: []string{AssetRawPrograms},
			Build: func(_ context.Context, in map[string]any) (any, error) {
				f, err := transform.Programs(in[AssetRawPrograms].(*frame.Frame))
				return f, err
			},
		},
		{
			// The description export is optional: a run without it loads
			// zero sections but is still a successful run.
			Name: AssetDescriptions,
			Build: func(_ context.Context, _ map[string]any) (any, error) {
				src, ok := extract.DetectSource(cfg.DataDir, cfg.Files.Descriptions)
				if !ok {
					fmt.Println("⚠️  No description export found, loading zero sections")
					return []schema.Section(nil), nil
				}
				sections, err := extract.ParseDescriptions(src)
				if err != nil {
					fmt.Printf("⚠️  Description export unreadable (%v), loading zero sections\n", err)
					return []schema.Section(nil), nil
				}
				return sections, nil
			},
		},
		{
			Name:   AssetLoad,
			Inputs: []string{AssetDisciplines, AssetSchools, AssetPrograms, AssetDescriptions},
			Build: func(ctx context.Context, in map[string]any) (any, error) {
				counts, err := load.Load(ctx, pool,
					in[AssetDisciplines].(*frame.Frame),
					in[AssetSchools].(*frame.Frame),
					in[AssetPrograms].(*frame.Frame),
					in[AssetDescriptions].([]schema.Section),
				)
				return counts, err
			},
		},
	}

	for _, a := range assets {
		if err := g.Add(a); err != nil {
			return nil, err
		}
	}
	return g, nil
}
