package graph

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/urban-transit-lab/pareto-planner/gtfs"
)

// StopMatch is a stop-name search hit.
type StopMatch struct {
	NodeID string
	Name   string
	Mode   gtfs.Mode
	Degree int

	matchRank int
	modeRank  int
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeName lowercases a stop name and strips diacritics so that
// "São Bento" matches "sao bento".
func normalizeName(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// SearchStopsByName finds stops whose display name matches the query,
// exact matches first, then substring matches, ranked by mode priority
// (rail before bus) and connectivity. max <= 0 returns all hits.
func (g *Graph) SearchStopsByName(query string, max int) []StopMatch {
	q := normalizeName(query)
	if q == "" {
		return nil
	}

	t := g.mu.RLock()
	var hits []StopMatch
	for id, n := range g.nodes {
		if n.Name == "" {
			continue
		}
		name := normalizeName(n.Name)
		var rank int
		switch {
		case name == q:
			rank = 0
		case strings.Contains(name, q):
			rank = 1
		default:
			continue
		}
		modeRank := 2
		switch n.Mode {
		case gtfs.ModeRail:
			modeRank = 0
		case gtfs.ModeBus:
			modeRank = 1
		}
		hits = append(hits, StopMatch{
			NodeID:    id,
			Name:      n.Name,
			Mode:      n.Mode,
			Degree:    len(g.out[id]),
			matchRank: rank,
			modeRank:  modeRank,
		})
	}
	g.mu.RUnlock(t)

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.matchRank != b.matchRank {
			return a.matchRank < b.matchRank
		}
		if a.modeRank != b.modeRank {
			return a.modeRank < b.modeRank
		}
		if a.Degree != b.Degree {
			return a.Degree > b.Degree
		}
		return a.Name < b.Name
	})
	if max > 0 && len(hits) > max {
		hits = hits[:max]
	}
	return hits
}
