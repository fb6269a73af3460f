// Package metrics reduces candidate paths on the multimodal graph to full
// metrics records: travel and waiting time, emissions, walking distance,
// transfers and estimated fare. The evaluator is both the fitness
// function of the search engine and the post-hoc reporting function.
package metrics

import (
	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

// DefaultEmissionFactors are grams of CO2 per passenger-kilometer.
// Rail is near zero in operation; the bus figure assumes ~820 g per
// vehicle-km spread over ~40 passengers.
var DefaultEmissionFactors = map[gtfs.Mode]float64{
	gtfs.ModeRail: 1.0,
	gtfs.ModeBus:  20.0,
}

// Evaluator scores paths against a built graph.
type Evaluator struct {
	g       *graph.Graph
	factors map[gtfs.Mode]float64
}

// NewEvaluator returns an evaluator using the given per-mode emission
// factors, falling back to DefaultEmissionFactors when nil.
func NewEvaluator(g *graph.Graph, factors map[gtfs.Mode]float64) *Evaluator {
	if factors == nil {
		factors = DefaultEmissionFactors
	}
	return &Evaluator{g: g, factors: factors}
}

// EdgeEmissionsG returns the CO2 grams emitted traversing e. Only transit
// edges emit.
func (ev *Evaluator) EdgeEmissionsG(e *graph.Edge) float64 {
	if !e.Transit() {
		return 0
	}
	return (e.Distance / 1000.0) * ev.factors[e.Mode]
}

// RemoveCycles collapses loops out of a path: when a node reappears,
// everything between its first occurrence and the repeat is discarded and
// the walk continues from the repeat point. Applied once, left to right.
// A path without repeated nodes comes back unchanged.
func RemoveCycles(path []string) []string {
	result := make([]string, 0, len(path))
	firstIndex := make(map[string]int, len(path))
	for _, node := range path {
		if idx, seen := firstIndex[node]; seen {
			for _, removed := range result[idx+1:] {
				delete(firstIndex, removed)
			}
			result = result[:idx+1]
			continue
		}
		firstIndex[node] = len(result)
		result = append(result, node)
	}
	return result
}

// serviceBlock identifies one continuous vehicle run.
type serviceBlock struct {
	mode    string
	routeID string
	tripID  string
}

// Evaluate maps a candidate path to its metrics record. Missing nodes or
// edges yield the infeasible sentinel rather than an error.
func (ev *Evaluator) Evaluate(path []string) Record {
	nodes := RemoveCycles(path)
	if len(nodes) == 0 {
		return Infeasible()
	}
	for _, id := range nodes {
		if !ev.g.HasNode(id) {
			return Infeasible()
		}
	}

	var (
		travelTime   float64
		waitingTime  float64
		emissions    float64
		walkDistance float64
		transfers    int

		segments     []Segment
		zonesPassed  []string
		waitsByRoute = make(map[string]float64)
		distKmByMode = make(map[string]float64)
		routesUsed   = make(map[string]struct{})

		prevBlock        *serviceBlock
		prevTransitRoute string
		hasPrevRoute     bool
		lastWasTransfer  bool
	)

	pushZone := func(zone string) {
		if zone == "" {
			return
		}
		if len(zonesPassed) > 0 && zonesPassed[len(zonesPassed)-1] == zone {
			return
		}
		zonesPassed = append(zonesPassed, zone)
	}

	originZone, destZone := ev.zoneOf(nodes[0]), ev.zoneOf(nodes[len(nodes)-1])

	for i := 0; i+1 < len(nodes); i++ {
		u, v := nodes[i], nodes[i+1]
		e, ok := ev.g.Edge(u, v)
		if !ok {
			return Infeasible()
		}

		mode := e.Kind.String()
		if e.Transit() {
			mode = string(e.Mode)
			block := serviceBlock{mode: mode, routeID: e.RouteID, tripID: e.TripID}
			if prevBlock == nil || *prevBlock != block {
				if headway, known := ev.g.Headway(e.Operator, e.RouteID); known && headway > 0 {
					wait := 0.5 * headway
					waitsByRoute[e.RouteID] += wait
					waitingTime += wait
					segments = append(segments, Segment{
						From:    u,
						To:      u,
						Mode:    "wait",
						RouteID: e.RouteID,
						TimeS:   wait,
					})
				}
				routeKey := mode + "/" + e.RouteID
				if !lastWasTransfer && hasPrevRoute && routeKey != prevTransitRoute {
					transfers++
				}
				prevBlock = &block
				lastWasTransfer = false
			}
		}

		travelTime += e.Time
		segments = append(segments, Segment{
			From:    u,
			To:      v,
			Mode:    mode,
			RouteID: e.RouteID,
			TimeS:   e.Time,
			DistM:   e.Distance,
			Transit: e.Transit(),
		})

		switch e.Kind {
		case graph.EdgeTransit:
			if e.RouteID != "" {
				routesUsed[e.RouteID] = struct{}{}
			}
			emissions += ev.EdgeEmissionsG(e)
			distKmByMode[mode] += e.Distance / 1000.0
			prevTransitRoute = mode + "/" + e.RouteID
			hasPrevRoute = true
			pushZone(ev.zoneOf(u))
			pushZone(ev.zoneOf(v))
		case graph.EdgeWalk:
			walkDistance += e.Distance
			distKmByMode[mode] += e.Distance / 1000.0
			prevBlock = nil
		case graph.EdgeTransfer:
			transfers++
			lastWasTransfer = true
			prevBlock = nil
		}
	}

	rec := Record{
		TravelTimeS:      travelTime,
		WaitingTimeS:     waitingTime,
		TimeTotalS:       travelTime + waitingTime,
		EmissionsG:       emissions,
		WalkM:            walkDistance,
		Transfers:        transfers,
		ZonesPassed:      zonesPassed,
		Segments:         segments,
		WaitsByRoute:     waitsByRoute,
		DistanceKmByMode: distKmByMode,
		Path:             nodes,
	}

	if !rec.HasTransit() {
		// A pure walk/transfer trip pays no transit fare and crosses no
		// fare zones.
		rec.FareCost = 0
		rec.FareSelected = nil
		rec.ZonesPassed = []string{}
		return rec
	}
	rec.FareCost, rec.FareSelected = ev.estimateFare(zonesPassed, originZone, destZone, routesUsed)
	return rec
}

func (ev *Evaluator) zoneOf(id string) string {
	n, ok := ev.g.Node(id)
	if !ok {
		return ""
	}
	return n.ZoneID
}
