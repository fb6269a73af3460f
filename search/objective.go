package search

import (
	"github.com/urban-transit-lab/pareto-planner/metrics"
)

// WalkPolicy decides the sign of the walking objective.
type WalkPolicy string

const (
	// WalkMinimize treats walked meters as a cost.
	WalkMinimize WalkPolicy = "minimize"
	// WalkMaximize rewards walking (health-oriented planning); the
	// engine still minimizes, so the objective is the negated distance.
	WalkMaximize WalkPolicy = "maximize"
)

// Objective is a fitness vector, always minimized. It is partially
// ordered by dominance and deliberately has no total order.
type Objective []float64

// Dominates reports whether a is no worse than b in every component and
// strictly better in at least one.
func (a Objective) Dominates(b Objective) bool {
	if len(a) != len(b) {
		return false
	}
	strict := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			strict = true
		}
	}
	return strict
}

// Feasible reports whether the objective is below the penalty sentinel.
func (a Objective) Feasible() bool {
	return len(a) > 0 && a[0] < metrics.Penalty
}

func penaltyObjective(dims int) Objective {
	obj := make(Objective, dims)
	for i := range obj {
		obj[i] = metrics.Penalty
	}
	return obj
}

// objectiveOf gates a record through the walk-time and transfer caps and
// extracts the 3- or 4-dimensional objective vector. Cap violations get
// the penalty vector so dominance removes them without special-casing.
func (c *Config) objectiveOf(rec *metrics.Record) Objective {
	dims := 3
	if c.IncludeFare {
		dims = 4
	}
	if rec.IsInfeasible() {
		return penaltyObjective(dims)
	}
	if c.WalkTimeCapS > 0 && rec.WalkTimeS() > c.WalkTimeCapS {
		return penaltyObjective(dims)
	}
	if c.MaxTransfers >= 0 && rec.Transfers > c.MaxTransfers {
		return penaltyObjective(dims)
	}
	walkCost := rec.WalkM
	if c.WalkPolicy == WalkMaximize {
		walkCost = -rec.WalkM
	}
	obj := Objective{rec.TimeTotalS, rec.EmissionsG, walkCost}
	if c.IncludeFare {
		obj = append(obj, rec.FareCost)
	}
	return obj
}
