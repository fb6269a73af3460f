package search

import (
	"github.com/urban-transit-lab/pareto-planner/metrics"
)

// BaselineSolution is one scalarized shortest-path result from the λ
// sweep, kept for comparison against the evolutionary front.
type BaselineSolution struct {
	Lambda      float64        `json:"lambda"`
	Path        []string       `json:"path"`
	Record      metrics.Record `json:"metrics"`
	WeightValue float64        `json:"weight_value"`
	Extreme     string         `json:"extreme,omitempty"`
}

// RunBaseline sweeps the configured λ values, running one scalarized
// shortest path per weight. Duplicate node sequences are dropped and so
// are paths that evaluate to the penalty sentinel.
func (e *Engine) RunBaseline() []BaselineSolution {
	var out []BaselineSolution
	seen := make(map[string]struct{})
	for _, lam := range e.cfg.Lambdas {
		path, weight, err := e.g.ShortestPath(e.origin, e.dest, scalarWeight(e.eval, &e.cfg, lam))
		if err != nil {
			log.Debugf("baseline lambda=%.2f: no path (%v)", lam, err)
			continue
		}
		key := pathKey(path)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		rec := e.eval.Evaluate(path)
		if rec.IsInfeasible() {
			continue
		}
		out = append(out, BaselineSolution{
			Lambda:      lam,
			Path:        path,
			Record:      rec,
			WeightValue: weight,
		})
	}
	log.Infof("baseline sweep produced %d distinct solutions", len(out))
	return out
}

// ParetoFilter2D keeps the baseline solutions non-dominated in total
// time and emissions, tagging the extremes of each axis. A solution
// best on both axes gets the combined tag.
func ParetoFilter2D(sols []BaselineSolution) []BaselineSolution {
	var front []BaselineSolution
	for i, s := range sols {
		dominated := false
		for j, t := range sols {
			if i == j {
				continue
			}
			if t.Record.TimeTotalS <= s.Record.TimeTotalS &&
				t.Record.EmissionsG <= s.Record.EmissionsG &&
				(t.Record.TimeTotalS < s.Record.TimeTotalS || t.Record.EmissionsG < s.Record.EmissionsG) {
				dominated = true
				break
			}
		}
		if !dominated {
			front = append(front, s)
		}
	}
	if len(front) == 0 {
		return front
	}
	minTime, minEm := 0, 0
	for i := range front {
		if front[i].Record.TimeTotalS < front[minTime].Record.TimeTotalS {
			minTime = i
		}
		if front[i].Record.EmissionsG < front[minEm].Record.EmissionsG {
			minEm = i
		}
	}
	if minTime == minEm {
		front[minTime].Extreme = "min_time_and_emissions"
	} else {
		front[minTime].Extreme = "min_time"
		front[minEm].Extreme = "min_emissions"
	}
	return front
}
