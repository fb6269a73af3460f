package search

import (
	"math"
	"sort"

	"github.com/urban-transit-lab/pareto-planner/metrics"
)

// Individual is one candidate solution: a path, its metrics record and
// the objective vector derived from it.
type Individual struct {
	Path      []string
	Objective Objective
	Record    metrics.Record
}

// Feasible reports whether the individual escaped the penalty sentinel.
func (ind *Individual) Feasible() bool { return ind.Objective.Feasible() }

// nonDominatedFronts partitions the population indices into successive
// non-dominated fronts (fast non-dominated sort).
func nonDominatedFronts(pop []Individual) [][]int {
	n := len(pop)
	dominatedBy := make([][]int, n) // i -> indices i dominates
	domCount := make([]int, n)      // number of individuals dominating i

	var fronts [][]int
	var first []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if pop[i].Objective.Dominates(pop[j].Objective) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if pop[j].Objective.Dominates(pop[i].Objective) {
				domCount[i]++
			}
		}
		if domCount[i] == 0 {
			first = append(first, i)
		}
	}
	fronts = append(fronts, first)

	for len(fronts[len(fronts)-1]) > 0 {
		var next []int
		for _, i := range fronts[len(fronts)-1] {
			for _, j := range dominatedBy[i] {
				domCount[j]--
				if domCount[j] == 0 {
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			break
		}
		fronts = append(fronts, next)
	}
	return fronts
}

// crowdingDistances estimates the solution density around each member of
// a front; boundary solutions get infinite distance so diversity at the
// extremes is always preserved.
func crowdingDistances(pop []Individual, front []int) map[int]float64 {
	dist := make(map[int]float64, len(front))
	for _, i := range front {
		dist[i] = 0
	}
	if len(front) == 0 {
		return dist
	}
	dims := len(pop[front[0]].Objective)
	for m := 0; m < dims; m++ {
		ordered := make([]int, len(front))
		copy(ordered, front)
		sort.SliceStable(ordered, func(a, b int) bool {
			return pop[ordered[a]].Objective[m] < pop[ordered[b]].Objective[m]
		})
		lo := pop[ordered[0]].Objective[m]
		hi := pop[ordered[len(ordered)-1]].Objective[m]
		dist[ordered[0]] = math.Inf(1)
		dist[ordered[len(ordered)-1]] = math.Inf(1)
		if hi == lo {
			continue
		}
		for k := 1; k < len(ordered)-1; k++ {
			gap := pop[ordered[k+1]].Objective[m] - pop[ordered[k-1]].Objective[m]
			dist[ordered[k]] += gap / (hi - lo)
		}
	}
	return dist
}

// selectNSGA2 picks k survivors: whole fronts in rank order, with the
// partially-fitting front thinned by descending crowding distance.
// Ties resolve by original index so a fixed seed reproduces selections.
func selectNSGA2(pop []Individual, k int) []Individual {
	if k >= len(pop) {
		out := make([]Individual, len(pop))
		copy(out, pop)
		return out
	}
	selected := make([]Individual, 0, k)
	for _, front := range nonDominatedFronts(pop) {
		if len(selected)+len(front) <= k {
			for _, i := range front {
				selected = append(selected, pop[i])
			}
			if len(selected) == k {
				break
			}
			continue
		}
		dist := crowdingDistances(pop, front)
		ordered := make([]int, len(front))
		copy(ordered, front)
		sort.SliceStable(ordered, func(a, b int) bool {
			return dist[ordered[a]] > dist[ordered[b]]
		})
		for _, i := range ordered[:k-len(selected)] {
			selected = append(selected, pop[i])
		}
		break
	}
	return selected
}

// ParetoFront returns the feasible non-dominated subset of a population,
// deduplicated by exact node sequence.
func ParetoFront(pop []Individual) []Individual {
	feasible := make([]Individual, 0, len(pop))
	seen := make(map[string]struct{})
	for _, ind := range pop {
		if !ind.Feasible() {
			continue
		}
		key := pathKey(ind.Path)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		feasible = append(feasible, ind)
	}
	if len(feasible) == 0 {
		return nil
	}
	var front []Individual
	for _, i := range nonDominatedFronts(feasible)[0] {
		front = append(front, feasible[i])
	}
	return front
}
