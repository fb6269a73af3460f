package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

func TestNearestStops(t *testing.T) {
	g := lineGraph(t)

	near := g.NearestStops(45.0001, 9.0, 600, 2)
	require.Len(t, near, 2)
	assert.Equal(t, "RAIL_A", near[0].ID)
	assert.Equal(t, "RAIL_B", near[1].ID)
	assert.Less(t, near[0].Distance, near[1].Distance)

	// a radius catching nothing falls back to the whole network
	far := g.NearestStops(46.0, 10.0, 500, 1)
	require.Len(t, far, 1)
}

func TestAddVirtualPoint(t *testing.T) {
	g := lineGraph(t)

	id, err := g.AddVirtualPoint("origin_VIRT", 45.0001, 9.0, 600, 2)
	require.NoError(t, err)
	assert.Equal(t, "origin_VIRT", id)
	assert.True(t, g.IsVirtual(id))

	// reciprocal walking edges to the connected stops
	ev, ok := g.Edge(id, "RAIL_A")
	require.True(t, ok)
	assert.Equal(t, EdgeWalk, ev.Kind)
	_, ok = g.Edge("RAIL_A", id)
	assert.True(t, ok)

	// a second injection under the same base id gets a fresh id
	id2, err := g.AddVirtualPoint("origin_VIRT", 45.0002, 9.0, 600, 2)
	require.NoError(t, err)
	assert.Equal(t, "origin_VIRT_1", id2)
}

func TestAddVirtualPointAllCrossingsBlocked(t *testing.T) {
	feed := &gtfs.Feed{
		Prefix: "RAIL",
		Mode:   gtfs.ModeRail,
		Stops: []gtfs.Stop{
			{ID: "N", Name: "North Bank", Lat: 45.001, Lon: 9.0},
		},
	}
	opts := defaultOptions(250)
	opts.Barrier = riverBarrier(map[string]bool{"bridge": false})
	g, err := Build([]*gtfs.Feed{feed}, opts)
	require.NoError(t, err)

	// the point sits south of the divide; its only neighbor is north of
	// it and the bridge is walk-forbidden
	before := g.NodeCount()
	_, err = g.AddVirtualPoint("origin_VIRT", 44.999, 9.0, 600, 4)
	require.ErrorIs(t, err, ErrNoNeighborStops)
	assert.Equal(t, before, g.NodeCount(), "failed injection must not leave a node behind")
}

func TestAddDirectWalkEdge(t *testing.T) {
	g := lineGraph(t)

	// ~400 m apart: a 100 s cap rejects the edge
	assert.False(t, g.AddDirectWalkEdge("RAIL_A", "RAIL_C", 100))
	_, ok := g.Edge("RAIL_A", "RAIL_C")
	assert.False(t, ok)

	// cap 0 disables the limit
	assert.True(t, g.AddDirectWalkEdge("RAIL_A", "RAIL_C", 0))
	ac, ok := g.Edge("RAIL_A", "RAIL_C")
	require.True(t, ok)
	ca, ok := g.Edge("RAIL_C", "RAIL_A")
	require.True(t, ok)
	assert.Equal(t, ac.Time, ca.Time)

	assert.False(t, g.AddDirectWalkEdge("RAIL_A", "nope", 0))
}

func TestResolveStop(t *testing.T) {
	g := lineGraph(t)

	id, err := g.ResolveStop("RAIL_A")
	require.NoError(t, err)
	assert.Equal(t, "RAIL_A", id)

	id, err = g.ResolveStop("A")
	require.NoError(t, err)
	assert.Equal(t, "RAIL_A", id)

	_, err = g.ResolveStop("missing")
	assert.ErrorIs(t, err, ErrStopNotFound)
}
