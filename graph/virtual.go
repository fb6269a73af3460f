package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

var (
	// ErrNoNeighborStops is returned when a virtual point cannot be
	// connected to any stop by a permitted walking edge.
	ErrNoNeighborStops = errors.New("no neighbor stop to connect virtual point")
	// ErrStopNotFound is returned when an endpoint id resolves to no
	// graph node.
	ErrStopNotFound = errors.New("stop not found in graph")
)

// NearStop is a stop candidate returned by NearestStops.
type NearStop struct {
	ID       string
	Distance float64
}

// NearestStops returns up to k stop nodes within radiusM of the point,
// nearest first. When the radius yields nothing the search falls back to
// the whole network so callers always get candidates on a non-empty
// graph.
func (g *Graph) NearestStops(lat, lon float64, radiusM float64, k int) []NearStop {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	return g.nearestStopsLocked(lat, lon, radiusM, k)
}

func (g *Graph) nearestStopsLocked(lat, lon float64, radiusM float64, k int) []NearStop {
	p := orb.Point{lon, lat}
	collect := func(maxDist float64) []NearStop {
		var out []NearStop
		for id, n := range g.nodes {
			if n.Mode == gtfs.ModeVirtual {
				continue
			}
			d := Distance(p, n.Point)
			if maxDist > 0 && d > maxDist {
				continue
			}
			out = append(out, NearStop{ID: id, Distance: d})
		}
		return out
	}
	candidates := collect(radiusM)
	if len(candidates) == 0 && radiusM > 0 {
		candidates = collect(0)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].ID < candidates[j].ID
	})
	if k > 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// AddVirtualPoint injects a node for arbitrary coordinates and connects
// it to its k nearest stops within radiusM by reciprocal walking edges,
// applying the barrier-crossing rule per candidate. The returned id is
// unique even when baseID is already taken. Fails when no permitted
// walking connection exists.
func (g *Graph) AddVirtualPoint(baseID string, lat, lon float64, radiusM float64, k int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := baseID
	for i := 1; ; i++ {
		if _, taken := g.nodes[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s_%d", baseID, i)
	}

	neighbors := g.nearestStopsLocked(lat, lon, radiusM, k)
	if len(neighbors) == 0 {
		return "", fmt.Errorf("virtual point %s (%.5f, %.5f): %w", baseID, lat, lon, ErrNoNeighborStops)
	}

	p := orb.Point{lon, lat}
	g.addNode(&Node{
		ID:       id,
		Point:    p,
		Mode:     gtfs.ModeVirtual,
		Operator: "virtual",
		StopID:   id,
	})
	g.virtual[id] = struct{}{}

	connected := 0
	for _, nb := range neighbors {
		n := g.nodes[nb.ID]
		crossingID, allowed := g.barrier.Permits(p, n.Point)
		if !allowed {
			g.BlockedCrossings++
			continue
		}
		walk := &Edge{
			Kind:       EdgeWalk,
			Time:       nb.Distance / g.walkSpeed,
			Distance:   nb.Distance,
			CrossingID: crossingID,
		}
		g.setEdge(id, nb.ID, walk)
		g.setEdge(nb.ID, id, walk)
		connected++
	}
	if connected == 0 {
		// Every candidate was behind a blocked crossing; an unconnected
		// virtual node would silently poison path queries.
		delete(g.virtual, id)
		delete(g.nodes, id)
		delete(g.out, id)
		return "", fmt.Errorf("virtual point %s (%.5f, %.5f): %w", baseID, lat, lon, ErrNoNeighborStops)
	}
	log.Debugf("virtual point %s connected to %d stops", id, connected)
	return id, nil
}

// AddDirectWalkEdge connects origin and destination by a reciprocal
// walking edge, honoring the walk-time cap (0 disables it) and the
// barrier-crossing rule. It reports whether the edge was added.
func (g *Graph) AddDirectWalkEdge(originID, destID string, walkTimeCapS float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	o, okO := g.nodes[originID]
	d, okD := g.nodes[destID]
	if !okO || !okD {
		return false
	}
	dist := Distance(o.Point, d.Point)
	walkTime := dist / g.walkSpeed
	if walkTimeCapS > 0 && walkTime > walkTimeCapS {
		return false
	}
	crossingID, allowed := g.barrier.Permits(o.Point, d.Point)
	if !allowed {
		g.BlockedCrossings++
		return false
	}
	walk := &Edge{
		Kind:       EdgeWalk,
		Time:       walkTime,
		Distance:   dist,
		CrossingID: crossingID,
	}
	if e, ok := g.out[originID][destID]; !ok || !e.Transit() {
		g.setEdge(originID, destID, walk)
	}
	if e, ok := g.out[destID][originID]; !ok || !e.Transit() {
		g.setEdge(destID, originID, walk)
	}
	return true
}

// ResolveStop maps a user-supplied stop id onto a graph node id, trying
// the raw id and every operator-prefixed variant.
func (g *Graph) ResolveStop(stopID string) (string, error) {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)

	candidates := []string{stopID}
	for _, prefix := range g.prefixes {
		candidates = append(candidates, NodeID(prefix, stopID))
	}
	for _, c := range candidates {
		if _, ok := g.nodes[c]; ok {
			return c, nil
		}
	}
	return "", fmt.Errorf("%q (tried %v): %w", stopID, candidates, ErrStopNotFound)
}
