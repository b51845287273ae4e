package graph

import (
	"context"
	"fmt"
)

// Asset is one named step of the pipeline. Its Inputs name other assets whose
// outputs are passed to Build, keyed by asset name.
type Asset struct {
	Name   string
	Inputs []string
	Build  func(ctx context.Context, in map[string]any) (any, error)
}

// Graph is a directed acyclic graph of assets keyed by name. Assets run in
// dependency order, each at most once per Execute call.
type Graph struct {
	assets []Asset
	byName map[string]int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{byName: map[string]int{}}
}

// Add registers an asset. Names must be unique.
func (g *Graph) Add(a Asset) error {
	if a.Name == "" {
		return fmt.Errorf("asset has no name")
	}
	if _, exists := g.byName[a.Name]; exists {
		return fmt.Errorf("duplicate asset %q", a.Name)
	}
	g.byName[a.Name] = len(g.assets)
	g.assets = append(g.assets, a)
	return nil
}

// Asset returns the named asset.
func (g *Graph) Asset(name string) (Asset, bool) {
	i, ok := g.byName[name]
	if !ok {
		return Asset{}, false
	}
	return g.assets[i], true
}

// Order returns a topological ordering of all asset names. The order is
// deterministic: among assets whose dependencies are all satisfied, the one
// registered first runs first. Returns an error on an unknown input or a
// dependency cycle.
func (g *Graph) Order() ([]string, error) {
	indegree := make([]int, len(g.assets))
	dependents := make([][]int, len(g.assets))
	for i, a := range g.assets {
		for _, in := range a.Inputs {
			j, ok := g.byName[in]
			if !ok {
				return nil, fmt.Errorf("asset %q depends on unknown asset %q", a.Name, in)
			}
			indegree[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	order := make([]string, 0, len(g.assets))
	done := make([]bool, len(g.assets))
	for len(order) < len(g.assets) {
		progressed := false
		for i, a := range g.assets {
			if done[i] || indegree[i] > 0 {
				continue
			}
			done[i] = true
			order = append(order, a.Name)
			for _, d := range dependents[i] {
				indegree[d]--
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("dependency cycle among assets")
		}
	}
	return order, nil
}

// Execute runs every asset once in dependency order, passing each asset the
// outputs of its declared inputs. The first asset error aborts the run; no
// dependent of a failed asset runs.
func (g *Graph) Execute(ctx context.Context) (map[string]any, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	outputs := make(map[string]any, len(order))
	for _, name := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, _ := g.Asset(name)
		in := make(map[string]any, len(a.Inputs))
		for _, dep := range a.Inputs {
			in[dep] = outputs[dep]
		}
		out, err := a.Build(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("asset %q: %w", name, err)
		}
		outputs[name] = out
	}
	return outputs, nil
}
