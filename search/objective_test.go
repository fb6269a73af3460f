package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/urban-transit-lab/pareto-planner/metrics"
)

func TestObjectiveDominates(t *testing.T) {
	a := Objective{1, 1, 1}
	b := Objective{2, 2, 2}
	c := Objective{1, 3, 1}

	assert.True(t, b.Dominates(Objective{3, 3, 3}))
	assert.True(t, a.Dominates(b))
	assert.False(t, b.Dominates(a))

	// irreflexive: nothing dominates itself
	assert.False(t, a.Dominates(a))

	// incomparable pair: neither dominates
	assert.False(t, b.Dominates(c))
	assert.False(t, c.Dominates(b))

	// transitive: a < b and b < {3,3,3} imply a < {3,3,3}
	assert.True(t, a.Dominates(Objective{3, 3, 3}))

	// mismatched dimensions never dominate
	assert.False(t, a.Dominates(Objective{2, 2}))
}

func feasibleRecord() metrics.Record {
	return metrics.Record{
		TimeTotalS:  600,
		EmissionsG:  10,
		WalkM:       200,
		FareCost:    1.6,
		Transfers:   1,
		Segments:    []metrics.Segment{{From: "a", To: "b", Mode: "walk", TimeS: 100}},
		ZonesPassed: []string{"Z1"},
	}
}

func TestObjectiveOf(t *testing.T) {
	cfg := Config{WalkPolicy: WalkMinimize, MaxTransfers: -1}

	rec := feasibleRecord()
	obj := cfg.objectiveOf(&rec)
	assert.Equal(t, Objective{600, 10, 200}, obj)
	assert.True(t, obj.Feasible())

	// maximize walking negates the walk component
	cfg.WalkPolicy = WalkMaximize
	obj = cfg.objectiveOf(&rec)
	assert.Equal(t, Objective{600, 10, -200}, obj)

	// fare adds a fourth dimension
	cfg.IncludeFare = true
	obj = cfg.objectiveOf(&rec)
	assert.Equal(t, Objective{600, 10, -200, 1.6}, obj)
}

func TestObjectiveOfGates(t *testing.T) {
	cfg := Config{WalkPolicy: WalkMinimize, MaxTransfers: -1}

	inf := metrics.Infeasible()
	assert.False(t, cfg.objectiveOf(&inf).Feasible())

	// walking-time cap
	capped := Config{WalkPolicy: WalkMinimize, MaxTransfers: -1, WalkTimeCapS: 50}
	rec := feasibleRecord()
	assert.False(t, capped.objectiveOf(&rec).Feasible())
	capped.WalkTimeCapS = 500
	assert.True(t, capped.objectiveOf(&rec).Feasible())

	// transfer cap; negative means unlimited
	limited := Config{WalkPolicy: WalkMinimize, MaxTransfers: 0}
	assert.False(t, limited.objectiveOf(&rec).Feasible())
	limited.MaxTransfers = 1
	assert.True(t, limited.objectiveOf(&rec).Feasible())
}
