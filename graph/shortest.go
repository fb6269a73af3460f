package graph

import (
	"container/heap"
	"errors"
	"math"
	"math/rand"

	"github.com/samber/lo"
)

var (
	// ErrUnknownNode is returned when a query names a node that does not
	// exist in the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrNoPath is returned when no path connects origin and destination.
	ErrNoPath = errors.New("no path between nodes")
)

// EdgeWeight maps an edge to a non-negative cost for shortest-path
// queries.
type EdgeWeight func(*Edge) float64

// TimeWeight is the plain travel-time weight.
func TimeWeight(e *Edge) float64 { return e.Time }

// Item is an entry of the search frontier.
type Item struct {
	Value    string
	Priority float64
	Index    int
}

// PriorityQueue is a min-heap of frontier items keyed by priority.
type PriorityQueue []*Item

func (pq PriorityQueue) Len() int            { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool  { return pq[i].Priority < pq[j].Priority }
func (pq *PriorityQueue) Push(x interface{}) {
	item := x.(*Item)
	item.Index = len(*pq)
	*pq = append(*pq, item)
}
func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from start to end under the given edge
// weight and returns the node sequence and accumulated cost. Successors
// are expanded in sorted order so equal-cost ties resolve the same way on
// every run.
func (g *Graph) ShortestPath(start, end string, w EdgeWeight) ([]string, float64, error) {
	t := g.mu.RLock()
	defer g.mu.RUnlock(t)

	if _, ok := g.nodes[start]; !ok {
		return nil, 0, ErrUnknownNode
	}
	if _, ok := g.nodes[end]; !ok {
		return nil, 0, ErrUnknownNode
	}
	if start == end {
		return []string{start}, 0, nil
	}

	dist := map[string]float64{start: 0}
	cameFrom := make(map[string]string)
	inQueue := make(map[string]*Item)

	pq := make(PriorityQueue, 1)
	pq[0] = &Item{Value: start, Priority: 0, Index: 0}
	inQueue[start] = pq[0]
	heap.Init(&pq)

	for pq.Len() > 0 {
		cur := heap.Pop(&pq).(*Item).Value
		delete(inQueue, cur)
		if cur == end {
			return g.reconstruct(cameFrom, cur), dist[cur], nil
		}
		for _, next := range g.successorsLocked(cur) {
			e := g.out[cur][next]
			tentative := dist[cur] + w(e)
			best, seen := dist[next]
			if !seen {
				best = math.Inf(1)
			}
			if tentative < best {
				dist[next] = tentative
				cameFrom[next] = cur
				if item, ok := inQueue[next]; ok {
					item.Priority = tentative
					heap.Fix(&pq, item.Index)
				} else {
					item := &Item{Value: next, Priority: tentative}
					heap.Push(&pq, item)
					inQueue[next] = item
				}
			}
		}
	}
	return nil, math.Inf(1), ErrNoPath
}

func (g *Graph) reconstruct(cameFrom map[string]string, cur string) []string {
	reversed := []string{cur}
	for {
		from, ok := cameFrom[cur]
		if !ok {
			break
		}
		cur = from
		reversed = append(reversed, cur)
	}
	return lo.Reverse(reversed)
}

// RandomWalk walks random successors from start until it reaches end or
// exhausts the step budget. The boolean result reports whether the walk
// reached the destination.
func (g *Graph) RandomWalk(rng *rand.Rand, start, end string, maxSteps int) ([]string, bool) {
	path := []string{start}
	cur := start
	for i := 0; i < maxSteps && cur != end; i++ {
		next := g.Successors(cur)
		if len(next) == 0 {
			break
		}
		cur = next[rng.Intn(len(next))]
		path = append(path, cur)
	}
	if cur != end {
		return nil, false
	}
	return path, true
}
