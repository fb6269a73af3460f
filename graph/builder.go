package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/samber/lo"

	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

// Options tunes graph construction.
type Options struct {
	WalkRadiusM    float64
	WalkSpeedMS    float64
	CruiseSpeedKMH map[gtfs.Mode]float64
	Barrier        *Barrier
}

// NodeID returns the deterministic graph id of an operator's stop.
func NodeID(prefix, stopID string) string {
	return prefix + "_" + stopID
}

// Build converts the operators' schedule tables into a directed
// multimodal graph, derives per-route headways and concatenates the fare
// tables.
func Build(feeds []*gtfs.Feed, opts Options) (*Graph, error) {
	if opts.WalkRadiusM <= 0 {
		return nil, fmt.Errorf("walk radius must be positive, got %v", opts.WalkRadiusM)
	}
	if opts.WalkSpeedMS <= 0 {
		return nil, fmt.Errorf("walk speed must be positive, got %v", opts.WalkSpeedMS)
	}
	g := newGraph(opts.WalkSpeedMS, opts.Barrier)
	for _, feed := range feeds {
		g.prefixes = append(g.prefixes, feed.Prefix)
		g.buildNodes(feed)
	}
	for _, feed := range feeds {
		g.buildTransitEdges(feed, opts)
		g.buildTransferEdges(feed)
	}
	g.buildWalkingEdges(opts)
	for _, feed := range feeds {
		g.computeHeadways(feed)
		g.collectFares(feed)
	}
	log.Infof("built multimodal graph: %d nodes, %d edges, %d blocked crossings",
		len(g.nodes), g.edgeCountLocked(), g.BlockedCrossings)
	return g, nil
}

func (g *Graph) edgeCountLocked() int {
	n := 0
	for _, next := range g.out {
		n += len(next)
	}
	return n
}

func (g *Graph) buildNodes(feed *gtfs.Feed) {
	for _, s := range feed.Stops {
		g.addNode(&Node{
			ID:       NodeID(feed.Prefix, s.ID),
			Point:    orb.Point{s.Lon, s.Lat},
			Mode:     feed.Mode,
			Operator: feed.Prefix,
			StopID:   s.ID,
			ZoneID:   s.ZoneID,
			Name:     s.Name,
		})
	}
}

// edgeTime computes a transit edge's traversal time: arrival minus
// departure of the consecutive stop-time rows when computable and
// positive, else a cruise-speed fallback with a one second floor.
func edgeTime(prev, cur gtfs.StopTime, distM float64, mode gtfs.Mode, opts Options) float64 {
	arr, errA := gtfs.ParseTime(cur.Arrival)
	dep, errD := gtfs.ParseTime(prev.Departure)
	if errA == nil && errD == nil && arr-dep > 0 {
		return float64(arr - dep)
	}
	kmh, ok := opts.CruiseSpeedKMH[mode]
	if !ok || kmh <= 0 {
		kmh = 30.0
	}
	return math.Max(distM/(kmh*1000/3600), 1.0)
}

func (g *Graph) buildTransitEdges(feed *gtfs.Feed, opts Options) {
	routeOf := make(map[string]string, len(feed.Trips))
	for _, t := range feed.Trips {
		routeOf[t.ID] = t.RouteID
	}
	// StopTimes come ordered by (trip, sequence) from the loader.
	for i := 1; i < len(feed.StopTimes); i++ {
		prev, cur := feed.StopTimes[i-1], feed.StopTimes[i]
		if prev.TripID != cur.TripID {
			continue
		}
		u, okU := g.nodes[NodeID(feed.Prefix, prev.StopID)]
		v, okV := g.nodes[NodeID(feed.Prefix, cur.StopID)]
		if !okU || !okV || u.ID == v.ID {
			continue
		}
		dist := Distance(u.Point, v.Point)
		g.setEdge(u.ID, v.ID, &Edge{
			Kind:     EdgeTransit,
			Time:     edgeTime(prev, cur, dist, feed.Mode, opts),
			Distance: dist,
			Mode:     feed.Mode,
			Operator: feed.Prefix,
			RouteID:  routeOf[cur.TripID],
			TripID:   cur.TripID,
		})
	}
}

func (g *Graph) buildTransferEdges(feed *gtfs.Feed) {
	for _, tr := range feed.Transfers {
		if tr.Type == gtfs.TransferForbidden {
			continue
		}
		from, okF := g.nodes[NodeID(feed.Prefix, tr.FromStopID)]
		to, okT := g.nodes[NodeID(feed.Prefix, tr.ToStopID)]
		if !okF || !okT {
			continue
		}
		g.setEdge(from.ID, to.ID, &Edge{
			Kind: EdgeTransfer,
			Time: tr.MinTransferTime,
		})
	}
}

// buildWalkingEdges connects every pair of stops within the walk radius.
// Stops are bucketed into a uniform grid sized to the radius in local
// degrees so only same and adjacent cells are compared.
func (g *Graph) buildWalkingEdges(opts Options) {
	type gridStop struct {
		id string
		p  orb.Point
	}
	stops := make([]gridStop, 0, len(g.nodes))
	refLat := 0.0
	for _, n := range g.nodes {
		stops = append(stops, gridStop{id: n.ID, p: n.Point})
		refLat += n.Point[1]
	}
	if len(stops) == 0 {
		return
	}
	refLat /= float64(len(stops))
	sort.Slice(stops, func(i, j int) bool { return stops[i].id < stops[j].id })

	cellLat := opts.WalkRadiusM / metersPerDegLat
	cellLon := opts.WalkRadiusM / metersPerDegLon(refLat)

	type cell struct{ x, y int }
	grid := make(map[cell][]gridStop)
	for _, s := range stops {
		c := cell{
			x: int(math.Floor(s.p[0] / cellLon)),
			y: int(math.Floor(s.p[1] / cellLat)),
		}
		grid[c] = append(grid[c], s)
	}

	type pair struct{ a, b string }
	seen := make(map[pair]struct{})
	for c, items := range grid {
		for _, s := range items {
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					for _, other := range grid[cell{x: c.x + dx, y: c.y + dy}] {
						if other.id == s.id {
							continue
						}
						pr := pair{a: s.id, b: other.id}
						if pr.a > pr.b {
							pr.a, pr.b = pr.b, pr.a
						}
						if _, done := seen[pr]; done {
							continue
						}
						seen[pr] = struct{}{}
						g.tryWalkEdgePair(pr.a, pr.b, opts.WalkRadiusM)
					}
				}
			}
		}
	}
}

// tryWalkEdgePair adds a reciprocal walking edge between two stops when
// they are within radius and the barrier rule permits, without displacing
// an existing transit edge in either direction.
func (g *Graph) tryWalkEdgePair(u, v string, radiusM float64) {
	nu, nv := g.nodes[u], g.nodes[v]
	d := Distance(nu.Point, nv.Point)
	if d > radiusM {
		return
	}
	crossingID, allowed := g.barrier.Permits(nu.Point, nv.Point)
	if !allowed {
		g.BlockedCrossings++
		return
	}
	walk := &Edge{
		Kind:       EdgeWalk,
		Time:       d / g.walkSpeed,
		Distance:   d,
		CrossingID: crossingID,
	}
	if e, ok := g.out[u][v]; !ok || !e.Transit() {
		g.setEdge(u, v, walk)
	}
	if e, ok := g.out[v][u]; !ok || !e.Transit() {
		g.setEdge(v, u, walk)
	}
}

func (g *Graph) computeHeadways(feed *gtfs.Feed) {
	routeOf := make(map[string]string, len(feed.Trips))
	for _, t := range feed.Trips {
		routeOf[t.ID] = t.RouteID
	}

	result := make(map[string]float64)

	// Explicit frequency rules take precedence: mean headway per route.
	freqSum := make(map[string]float64)
	freqN := make(map[string]int)
	for _, f := range feed.Frequencies {
		route := routeOf[f.TripID]
		if route == "" || f.HeadwaySecs < 0 {
			continue
		}
		freqSum[route] += f.HeadwaySecs
		freqN[route]++
	}
	for route, sum := range freqSum {
		result[route] = sum / float64(freqN[route])
	}

	// Fallback: empirical spread of first-stop departures per route.
	firstSeq := make(map[string]gtfs.StopTime)
	for _, st := range feed.StopTimes {
		if cur, ok := firstSeq[st.TripID]; !ok || st.Seq < cur.Seq {
			firstSeq[st.TripID] = st
		}
	}
	departures := make(map[string][]float64)
	for tripID, st := range firstSeq {
		route := routeOf[tripID]
		if route == "" {
			continue
		}
		dep, err := gtfs.ParseTime(st.Departure)
		if err != nil {
			continue
		}
		departures[route] = append(departures[route], float64(dep))
	}
	for route, deps := range departures {
		if _, ok := result[route]; ok {
			continue
		}
		if len(deps) < 2 {
			continue
		}
		sort.Float64s(deps)
		gaps := 0.0
		for i := 1; i < len(deps); i++ {
			gaps += deps[i] - deps[i-1]
		}
		result[route] = gaps / float64(len(deps)-1)
	}

	for _, route := range lo.Keys(result) {
		h := result[route]
		g.headways[operatorRoute{Operator: feed.Prefix, RouteID: route}] = h
		if _, ok := g.headwayByRoute[route]; !ok {
			g.headwayByRoute[route] = h
		}
	}
}

func (g *Graph) collectFares(feed *gtfs.Feed) {
	for _, fa := range feed.FareAttributes {
		g.fareAttributes = append(g.fareAttributes, FareAttribute{FareAttribute: fa, Operator: feed.Prefix})
	}
	for _, fr := range feed.FareRules {
		g.fareRules = append(g.fareRules, FareRule{FareRule: fr, Operator: feed.Prefix})
	}
}
