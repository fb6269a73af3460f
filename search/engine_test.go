package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/gtfs"
	"github.com/urban-transit-lab/pareto-planner/metrics"
)

// testNetwork is a rail line A-B-C (~200 m between stops) plus a parallel
// bus line on nearby stops, interconnected by walking edges.
func testNetwork(t *testing.T) (*graph.Graph, *metrics.Evaluator) {
	t.Helper()
	rail := &gtfs.Feed{
		Prefix: "RAIL",
		Mode:   gtfs.ModeRail,
		Stops: []gtfs.Stop{
			{ID: "A", Name: "Alpha", Lat: 45.0, Lon: 9.0},
			{ID: "B", Name: "Beta", Lat: 45.0018, Lon: 9.0},
			{ID: "C", Name: "Gamma", Lat: 45.0036, Lon: 9.0},
		},
		Trips: []gtfs.Trip{{ID: "T1", RouteID: "R1"}},
		StopTimes: []gtfs.StopTime{
			{TripID: "T1", Arrival: "08:00:00", Departure: "08:00:00", StopID: "A", Seq: 1},
			{TripID: "T1", Arrival: "08:01:00", Departure: "08:01:00", StopID: "B", Seq: 2},
			{TripID: "T1", Arrival: "08:02:00", Departure: "08:02:00", StopID: "C", Seq: 3},
		},
	}
	bus := &gtfs.Feed{
		Prefix: "BUS",
		Mode:   gtfs.ModeBus,
		Stops: []gtfs.Stop{
			{ID: "A", Name: "Alpha Bus", Lat: 45.0001, Lon: 9.0},
			{ID: "C", Name: "Gamma Bus", Lat: 45.0037, Lon: 9.0},
		},
		Trips: []gtfs.Trip{{ID: "U1", RouteID: "B1"}},
		StopTimes: []gtfs.StopTime{
			{TripID: "U1", Arrival: "08:00:00", Departure: "08:00:00", StopID: "A", Seq: 1},
			{TripID: "U1", Arrival: "08:05:00", Departure: "08:05:00", StopID: "C", Seq: 2},
		},
	}
	g, err := graph.Build([]*gtfs.Feed{rail, bus}, graph.Options{
		WalkRadiusM: 250,
		WalkSpeedMS: 1.4,
		CruiseSpeedKMH: map[gtfs.Mode]float64{
			gtfs.ModeRail: 40,
			gtfs.ModeBus:  30,
		},
	})
	require.NoError(t, err)
	return g, metrics.NewEvaluator(g, nil)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 52, Config{PopSize: 50}.withDefaults().PopSize, "population rounds up to a multiple of 4")
	assert.Equal(t, 48, Config{PopSize: 48}.withDefaults().PopSize)
	assert.Equal(t, 52, cfg.PopSize)
	assert.Equal(t, 30, cfg.Generations)
	assert.Equal(t, WalkMaximize, cfg.WalkPolicy)
	assert.Equal(t, 3600.0, cfg.TimeNormS)
	assert.Equal(t, 1000.0, cfg.EmissionNormG)
	assert.Len(t, cfg.Lambdas, 21)
	assert.Positive(t, cfg.Workers)
}

func TestEngineRun(t *testing.T) {
	g, eval := testNetwork(t)
	engine := NewEngine(g, eval, Config{
		PopSize:     8,
		Generations: 3,
		WalkPolicy:  WalkMinimize,
		Workers:     2,
	}, "RAIL_A", "RAIL_C")

	pop := engine.Run(rand.New(rand.NewSource(42)))
	assert.Len(t, pop, 8)

	front := ParetoFront(pop)
	require.NotEmpty(t, front)
	for _, ind := range front {
		assert.True(t, ind.Feasible())
		assert.False(t, ind.Record.IsInfeasible())
		require.NotEmpty(t, ind.Record.Path)
		assert.Equal(t, "RAIL_A", ind.Record.Path[0])
		assert.Equal(t, "RAIL_C", ind.Record.Path[len(ind.Record.Path)-1])
	}
}

func TestEngineRunReproducible(t *testing.T) {
	g, eval := testNetwork(t)
	cfg := Config{PopSize: 8, Generations: 2, WalkPolicy: WalkMinimize, Workers: 2}

	run := func(seed int64) []Objective {
		engine := NewEngine(g, eval, cfg, "RAIL_A", "RAIL_C")
		pop := engine.Run(rand.New(rand.NewSource(seed)))
		objs := make([]Objective, len(pop))
		for i, ind := range pop {
			objs[i] = ind.Objective
		}
		return objs
	}

	assert.Equal(t, run(7), run(7), "identical seeds must reproduce the population")
}

func TestSeedPaths(t *testing.T) {
	g, eval := testNetwork(t)
	engine := NewEngine(g, eval, Config{PopSize: 8, WalkPolicy: WalkMinimize}, "RAIL_A", "RAIL_C")

	paths := engine.seedPaths(rand.New(rand.NewSource(3)))
	assert.Len(t, paths, 8)
	for _, p := range paths {
		require.NotEmpty(t, p)
		assert.Equal(t, "RAIL_A", p[0])
		assert.Equal(t, "RAIL_C", p[len(p)-1])
	}
}
