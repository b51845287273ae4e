package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func constAsset(name string, inputs []string, out any) Asset {
	return Asset{
		Name:   name,
		Inputs: inputs,
		Build: func(_ context.Context, _ map[string]any) (any, error) {
			return out, nil
		},
	}
}

func TestOrderRespectsDependencies(t *testing.T) {
	g := New()
	// Registered out of dependency order on purpose.
	require.NoError(t, g.Add(constAsset("load", []string{"disciplines", "programs"}, nil)))
	require.NoError(t, g.Add(constAsset("programs", []string{"raw_programs"}, nil)))
	require.NoError(t, g.Add(constAsset("disciplines", []string{"raw_disciplines"}, nil)))
	require.NoError(t, g.Add(constAsset("raw_programs", nil, nil)))
	require.NoError(t, g.Add(constAsset("raw_disciplines", nil, nil)))

	order, err := g.Order()
	require.NoError(t, err)
	require.Len(t, order, 5)

	pos := map[string]int{}
	for i, n := range order {
		pos[n] = i
	}
	require.Less(t, pos["raw_programs"], pos["programs"])
	require.Less(t, pos["raw_disciplines"], pos["disciplines"])
	require.Less(t, pos["programs"], pos["load"])
	require.Less(t, pos["disciplines"], pos["load"])
}

func TestOrderDeterministic(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(constAsset("b", nil, nil)))
	require.NoError(t, g.Add(constAsset("a", nil, nil)))

	for i := 0; i < 10; i++ {
		order, err := g.Order()
		require.NoError(t, err)
		require.Equal(t, []string{"b", "a"}, order, "registration order breaks ties")
	}
}

func TestExecutePassesInputsAndRunsOnce(t *testing.T) {
	g := New()
	calls := map[string]int{}

	require.NoError(t, g.Add(Asset{
		Name: "base",
		Build: func(_ context.Context, _ map[string]any) (any, error) {
			calls["base"]++
			return 21, nil
		},
	}))
	for _, name := range []string{"left", "right"} {
		name := name
		require.NoError(t, g.Add(Asset{
			Name:   name,
			Inputs: []string{"base"},
			Build: func(_ context.Context, in map[string]any) (any, error) {
				calls[name]++
				return in["base"].(int) * 2, nil
			},
		}))
	}

	outputs, err := g.Execute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, outputs["left"])
	require.Equal(t, 42, outputs["right"])
	require.Equal(t, 1, calls["base"], "shared dependency runs exactly once")
}

func TestExecuteStopsOnFailure(t *testing.T) {
	g := New()
	boom := errors.New("file missing")
	dependentRan := false

	require.NoError(t, g.Add(Asset{
		Name: "extract",
		Build: func(_ context.Context, _ map[string]any) (any, error) {
			return nil, boom
		},
	}))
	require.NoError(t, g.Add(Asset{
		Name:   "transform",
		Inputs: []string{"extract"},
		Build: func(_ context.Context, _ map[string]any) (any, error) {
			dependentRan = true
			return nil, nil
		},
	}))

	_, err := g.Execute(context.Background())
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), `asset "extract"`)
	require.False(t, dependentRan)
}

func TestUnknownInput(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(constAsset("a", []string{"ghost"}, nil)))
	_, err := g.Order()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}

func TestCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(constAsset("a", []string{"b"}, nil)))
	require.NoError(t, g.Add(constAsset("b", []string{"a"}, nil)))
	_, err := g.Order()
	require.Error(t, err)
	require.Contains(t, err.Error(), "cycle")
}

func TestDuplicateAsset(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(constAsset("a", nil, nil)))
	require.Error(t, g.Add(constAsset("a", nil, nil)))
}

func TestExecuteHonoursCancellation(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(constAsset("a", nil, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Execute(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
