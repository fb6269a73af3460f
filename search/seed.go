package search

import (
	"math/rand"

	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/metrics"
)

// Lambdas returns steps evenly spaced scalarization weights across 0..1.
func Lambdas(steps int) []float64 {
	if steps < 2 {
		return []float64{0, 1}
	}
	out := make([]float64, steps)
	for i := range out {
		out[i] = float64(i) / float64(steps-1)
	}
	return out
}

// scalarWeight is the convex combination λ·time_norm + (1−λ)·emissions_norm
// used for scalarized shortest paths.
func scalarWeight(eval *metrics.Evaluator, cfg *Config, lam float64) graph.EdgeWeight {
	return func(e *graph.Edge) float64 {
		return lam*(e.Time/cfg.TimeNormS) + (1-lam)*(eval.EdgeEmissionsG(e)/cfg.EmissionNormG)
	}
}

// noisyWeight jitters the scalarized weight so repeated shortest-path
// queries yield varied seed paths.
func noisyWeight(eval *metrics.Evaluator, cfg *Config, lam float64, rng *rand.Rand) graph.EdgeWeight {
	base := scalarWeight(eval, cfg, lam)
	return func(e *graph.Edge) float64 {
		return base(e) * (0.5 + rng.Float64())
	}
}

// seedPaths builds the initial population: one shortest path per λ of the
// sweep, padded with randomized paths up to the population size. Seeds
// are deduplicated by exact node sequence; the [origin, dest] stub fills
// whatever randomization cannot.
func (e *Engine) seedPaths(rng *rand.Rand) [][]string {
	var paths [][]string
	seen := make(map[string]struct{})
	add := func(p []string) bool {
		if len(p) == 0 {
			return false
		}
		key := pathKey(p)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		paths = append(paths, p)
		return true
	}

	for _, lam := range e.cfg.Lambdas {
		sp, _, err := e.g.ShortestPath(e.origin, e.dest, scalarWeight(e.eval, &e.cfg, lam))
		if err != nil {
			continue
		}
		add(sp)
	}

	for attempts := 0; len(paths) < e.cfg.PopSize && attempts < e.cfg.PopSize*10; attempts++ {
		add(e.randomPath(rng))
	}
	for len(paths) < e.cfg.PopSize {
		paths = append(paths, []string{e.origin, e.dest})
	}
	return paths
}

// randomPath produces a fresh randomized candidate: either a
// noisy-weighted shortest path or a random walk bounded by the step
// budget. Returns nil when the attempt fails to reach the destination.
func (e *Engine) randomPath(rng *rand.Rand) []string {
	if rng.Intn(2) == 0 {
		sp, _, err := e.g.ShortestPath(e.origin, e.dest, noisyWeight(e.eval, &e.cfg, rng.Float64(), rng))
		if err != nil {
			return nil
		}
		return sp
	}
	walk, ok := e.g.RandomWalk(rng, e.origin, e.dest, e.cfg.RandomWalkSteps)
	if !ok {
		return nil
	}
	return walk
}
