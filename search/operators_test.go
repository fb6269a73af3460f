package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathHelpers(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := clonePath(a)
	assert.Equal(t, a, b)
	b[0] = "w"
	assert.Equal(t, "x", a[0], "clone must not alias")

	assert.True(t, samePath(a, []string{"x", "y", "z"}))
	assert.False(t, samePath(a, []string{"x", "y"}))
	assert.False(t, samePath(a, []string{"x", "y", "w"}))

	assert.Equal(t, pathKey([]string{"x", "y"}), pathKey([]string{"x", "y"}))
	assert.NotEqual(t, pathKey([]string{"x", "y"}), pathKey([]string{"xy"}))
}

func TestCrossoverNoCommonNodes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p1 := []string{"a", "b", "c"}
	p2 := []string{"x", "y", "z"}

	child := Crossover(rng, p1, p2)
	assert.Equal(t, p1, child)
	child[0] = "mut"
	assert.Equal(t, "a", p1[0], "child must not alias the parent")
}

func TestCrossoverSplicesAtCommonNode(t *testing.T) {
	p1 := []string{"s", "a", "m", "b", "e"}
	p2 := []string{"s", "c", "m", "d", "e"}

	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		child := Crossover(rng, p1, p2)

		require.NotEmpty(t, child)
		assert.Equal(t, "s", child[0])
		assert.Equal(t, "e", child[len(child)-1])

		// no repeated nodes
		seen := make(map[string]struct{})
		for _, n := range child {
			_, dup := seen[n]
			assert.False(t, dup, "duplicate node %q in child %v", n, child)
			seen[n] = struct{}{}
		}
	}
}

func TestLambdas(t *testing.T) {
	l := Lambdas(21)
	require.Len(t, l, 21)
	assert.Equal(t, 0.0, l[0])
	assert.Equal(t, 1.0, l[20])
	assert.InDelta(t, 0.05, l[1]-l[0], 1e-9)

	// degenerate step counts still cover both extremes
	assert.Equal(t, []float64{0, 1}, Lambdas(1))
	assert.Equal(t, []float64{0, 1}, Lambdas(0))
}
