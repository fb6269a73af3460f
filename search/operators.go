package search

import (
	"math/rand"
	"strings"

	"github.com/samber/lo"
)

func pathKey(path []string) string { return strings.Join(path, "\x1f") }

func clonePath(path []string) []string {
	out := make([]string, len(path))
	copy(out, path)
	return out
}

func samePath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Crossover splices the first parent's prefix up to a random common node
// with the second parent's suffix from that node onward, then drops
// repeated nodes keeping first occurrences so the child is a simple
// path. Without common nodes the first parent is reproduced unchanged.
func Crossover(rng *rand.Rand, p1, p2 []string) []string {
	in2 := make(map[string]struct{}, len(p2))
	for _, n := range p2 {
		in2[n] = struct{}{}
	}
	var commons []string
	for _, n := range p1 {
		if _, ok := in2[n]; ok {
			commons = append(commons, n)
		}
	}
	if len(commons) == 0 {
		return clonePath(p1)
	}
	cut := commons[rng.Intn(len(commons))]
	i1 := lo.IndexOf(p1, cut)
	i2 := lo.IndexOf(p2, cut)
	child := make([]string, 0, i1+len(p2)-i2)
	child = append(child, p1[:i1]...)
	child = append(child, p2[i2:]...)
	return lo.Uniq(child)
}

// mutatePath replaces a random sub-window of 2 to 6 nodes with a
// shortest path between the window's endpoints under a randomly mixed
// time/emissions weight. An unchanged result is retried once; failures
// return the path unmutated.
func (e *Engine) mutatePath(rng *rand.Rand, path []string) []string {
	if len(path) < 4 {
		return clonePath(path)
	}
	for attempt := 0; attempt < 2; attempt++ {
		a := rng.Intn(len(path) - 2)
		hi := len(path)
		if a+6 < hi {
			hi = a + 6
		}
		b := a + 2 + rng.Intn(hi-(a+2))

		lam := rng.Float64()
		sub, _, err := e.g.ShortestPath(path[a], path[b], scalarWeight(e.eval, &e.cfg, lam))
		if err != nil {
			return clonePath(path)
		}
		mutated := make([]string, 0, a+len(sub)+len(path)-b-1)
		mutated = append(mutated, path[:a]...)
		mutated = append(mutated, sub...)
		mutated = append(mutated, path[b+1:]...)
		mutated = lo.Uniq(mutated)
		if !samePath(mutated, path) {
			return mutated
		}
	}
	return clonePath(path)
}
