package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

func fareGraph(t *testing.T, attrs []gtfs.FareAttribute, rules []gtfs.FareRule) *graph.Graph {
	t.Helper()
	feed := &gtfs.Feed{
		Prefix:         "RAIL",
		Mode:           gtfs.ModeRail,
		Stops:          []gtfs.Stop{{ID: "A", Lat: 45.0, Lon: 9.0, ZoneID: "Z1"}},
		FareAttributes: attrs,
		FareRules:      rules,
	}
	g, err := graph.Build([]*gtfs.Feed{feed}, buildOpts(400))
	require.NoError(t, err)
	return g
}

func TestEstimateFarePicksCheapestMatchingRule(t *testing.T) {
	g := fareGraph(t,
		[]gtfs.FareAttribute{
			{FareID: "F1", Price: 1.60, Currency: "EUR"},
			{FareID: "F2", Price: 2.40, Currency: "EUR"},
			{FareID: "F3", Price: 0.90, Currency: "EUR"},
		},
		[]gtfs.FareRule{
			{FareID: "F1", RouteID: "R1"},
			{FareID: "F2", RouteID: "R1"},
			{FareID: "F3", RouteID: "R9"},
		},
	)
	ev := NewEvaluator(g, nil)

	price, sel := ev.estimateFare([]string{"Z1"}, "Z1", "Z1", map[string]struct{}{"R1": {}})
	require.NotNil(t, sel)
	assert.Equal(t, 1.60, price)
	assert.Equal(t, "F1", sel.FareID)
	assert.Equal(t, "gtfs", sel.Source)
	assert.Equal(t, "EUR", sel.Currency)
}

func TestEstimateFareZoneConstraints(t *testing.T) {
	g := fareGraph(t,
		[]gtfs.FareAttribute{
			{FareID: "F1", Price: 1.60},
			{FareID: "F2", Price: 2.40},
		},
		[]gtfs.FareRule{
			{FareID: "F1", OriginID: "Z1", DestinationID: "Z1"},
			{FareID: "F2", OriginID: "Z1", DestinationID: "Z2"},
		},
	)
	ev := NewEvaluator(g, nil)

	price, sel := ev.estimateFare([]string{"Z1", "Z2"}, "Z1", "Z2", nil)
	require.NotNil(t, sel)
	assert.Equal(t, 2.40, price)
	assert.Equal(t, "F2", sel.FareID)
	// a missing currency defaults to EUR
	assert.Equal(t, "EUR", sel.Currency)
}

func TestEstimateFareFallsBackToZoneEncodedIDs(t *testing.T) {
	// the only matching rule names a fare product with no attribute row,
	// so the estimator falls back to zone-count-encoded products
	g := fareGraph(t,
		[]gtfs.FareAttribute{
			{FareID: "zones_2", Price: 1.60},
			{FareID: "zones_3", Price: 2.00},
		},
		[]gtfs.FareRule{
			{FareID: "ghost", RouteID: "R1"},
		},
	)
	ev := NewEvaluator(g, nil)

	price, sel := ev.estimateFare([]string{"Z1", "Z2", "Z3"}, "Z1", "Z3", map[string]struct{}{"R1": {}})
	require.NotNil(t, sel)
	assert.Equal(t, 2.00, price)
	assert.Equal(t, "fallback", sel.Source)
}

func TestFallbackFare(t *testing.T) {
	g := fareGraph(t,
		[]gtfs.FareAttribute{
			{FareID: "zones_2", Price: 1.60},
			{FareID: "zones_3", Price: 2.00},
			{FareID: "day_pass", Price: 5.00},
		},
		nil,
	)
	ev := NewEvaluator(g, nil)

	// one zone: the cheapest product covering at least one zone
	price, sel := ev.fallbackFare(1)
	require.NotNil(t, sel)
	assert.Equal(t, 1.60, price)

	price, sel = ev.fallbackFare(3)
	require.NotNil(t, sel)
	assert.Equal(t, 2.00, price)

	// nothing covers four zones
	price, sel = ev.fallbackFare(4)
	assert.Nil(t, sel)
	assert.Zero(t, price)
}

func TestEstimateFareNoProducts(t *testing.T) {
	g := fareGraph(t, nil, nil)
	ev := NewEvaluator(g, nil)

	price, sel := ev.estimateFare([]string{"Z1"}, "Z1", "Z1", nil)
	assert.Zero(t, price)
	assert.Nil(t, sel)
}
