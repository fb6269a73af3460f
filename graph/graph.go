package graph

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"

	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

var log = logrus.WithField("module", "graph")

// EdgeKind tags the payload variant an Edge carries.
type EdgeKind int

const (
	EdgeTransit EdgeKind = iota
	EdgeTransfer
	EdgeWalk
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeTransit:
		return "transit"
	case EdgeTransfer:
		return "transfer"
	default:
		return "walk"
	}
}

// Edge is a directed connection between two nodes. Only the fields
// relevant to its kind are set: transit edges carry the operator's mode,
// route and trip; walk edges may carry the id of the barrier crossing
// they pass over; transfer edges carry neither.
type Edge struct {
	Kind     EdgeKind
	Time     float64 // traversal seconds
	Distance float64 // meters

	// transit payload
	Mode     gtfs.Mode
	Operator string
	RouteID  string
	TripID   string

	// walk payload
	CrossingID string
}

// Transit reports whether the edge is an in-vehicle transit segment.
func (e *Edge) Transit() bool { return e.Kind == EdgeTransit }

// Node is a stop of one operator, or a virtual point injected for an
// ad-hoc origin or destination.
type Node struct {
	ID       string
	Point    orb.Point // lon, lat
	Mode     gtfs.Mode
	Operator string
	StopID   string
	ZoneID   string
	Name     string
}

type operatorRoute struct {
	Operator string
	RouteID  string
}

// FareAttribute is an operator-tagged fare record.
type FareAttribute struct {
	gtfs.FareAttribute
	Operator string
}

// FareRule is an operator-tagged fare rule.
type FareRule struct {
	gtfs.FareRule
	Operator string
}

// Graph is the routable multimodal graph plus the auxiliary headway and
// fare structures derived during construction.
type Graph struct {
	mu *xsync.RBMutex

	nodes map[string]*Node
	out   map[string]map[string]*Edge

	headwayByRoute map[string]float64
	headways       map[operatorRoute]float64

	fareAttributes []FareAttribute
	fareRules      []FareRule

	virtual   map[string]struct{}
	prefixes  []string
	barrier   *Barrier
	walkSpeed float64

	// BlockedCrossings counts walking edges rejected by the
	// barrier-crossing rule.
	BlockedCrossings int
}

func newGraph(walkSpeed float64, barrier *Barrier) *Graph {
	return &Graph{
		mu:             xsync.NewRBMutex(),
		nodes:          make(map[string]*Node),
		out:            make(map[string]map[string]*Edge),
		headwayByRoute: make(map[string]float64),
		headways:       make(map[operatorRoute]float64),
		virtual:        make(map[string]struct{}),
		barrier:        barrier,
		walkSpeed:      walkSpeed,
	}
}

func (g *Graph) addNode(n *Node) {
	g.nodes[n.ID] = n
	if _, ok := g.out[n.ID]; !ok {
		g.out[n.ID] = make(map[string]*Edge)
	}
}

// setEdge stores e under the ordered node pair (from, to), replacing any
// edge already there. Keeping one edge per pair means the most recently
// processed trip wins on shared corridors.
func (g *Graph) setEdge(from, to string, e *Edge) {
	g.out[from][to] = e
}

// HasNode reports whether id names a node in the graph.
func (g *Graph) HasNode(id string) bool {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the directed edge from u to v.
func (g *Graph) Edge(u, v string) (*Edge, bool) {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	e, ok := g.out[u][v]
	return e, ok
}

// Successors returns the ids reachable from u by one edge, sorted so that
// seeded random walks reproduce.
func (g *Graph) Successors(u string) []string {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	return g.successorsLocked(u)
}

func (g *Graph) successorsLocked(u string) []string {
	next := g.out[u]
	if len(next) == 0 {
		return nil
	}
	ids := make([]string, 0, len(next))
	for id := range next {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	return len(g.nodes)
}

// EdgeCount returns the number of directed edges.
func (g *Graph) EdgeCount() int {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	n := 0
	for _, next := range g.out {
		n += len(next)
	}
	return n
}

// Headway returns the mean headway in seconds for a route, preferring the
// flat route lookup and falling back to the operator-scoped table.
func (g *Graph) Headway(operator, routeID string) (float64, bool) {
	if routeID == "" {
		return 0, false
	}
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	if h, ok := g.headwayByRoute[routeID]; ok {
		return h, true
	}
	h, ok := g.headways[operatorRoute{Operator: operator, RouteID: routeID}]
	return h, ok
}

// FareAttributes returns the concatenated operator fare records.
func (g *Graph) FareAttributes() []FareAttribute { return g.fareAttributes }

// FareRules returns the concatenated operator fare rules.
func (g *Graph) FareRules() []FareRule { return g.fareRules }

// IsVirtual reports whether id names an injected virtual node.
func (g *Graph) IsVirtual(id string) bool {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)
	_, ok := g.virtual[id]
	return ok
}

// WalkSpeed returns the walking speed in m/s the graph was built with.
func (g *Graph) WalkSpeed() float64 { return g.walkSpeed }
