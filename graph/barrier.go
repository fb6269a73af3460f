package graph

import "github.com/paulmach/orb"

// Crossing is a registered physical crossing over a barrier, e.g. a
// bridge: a midpoint plus the radius within which a walking edge snaps
// to it.
type Crossing struct {
	ID          string
	Point       orb.Point // lon, lat of the crossing midpoint
	SnapRadiusM float64
}

// Barrier describes a geographic obstacle that walking edges may not
// cross freely: an approximate bounding region, a dividing latitude
// separating the two banks, the registered crossings, and a rule table
// deciding per crossing whether walking over it is permitted.
//
// The rule is direction-agnostic: if A→B is blocked, so is B→A.
type Barrier struct {
	Name      string
	Bound     orb.Bound
	DivideLat float64
	Crossings []Crossing
	Rules     map[string]bool // crossing id -> walk permitted
}

// Crosses reports whether the segment p1→p2 crosses the barrier: both
// endpoints inside the bounding region but on opposite sides of the
// dividing latitude. Points outside the region never count as crossing.
func (b *Barrier) Crosses(p1, p2 orb.Point) bool {
	if !b.Bound.Contains(p1) || !b.Bound.Contains(p2) {
		return false
	}
	return (p1[1] >= b.DivideLat) != (p2[1] >= b.DivideLat)
}

// NearestCrossing returns the registered crossing closest to the midpoint
// of p1→p2, provided the midpoint lies within that crossing's snap
// radius.
func (b *Barrier) NearestCrossing(p1, p2 orb.Point) (Crossing, bool) {
	mid := midpoint(p1, p2)
	var best Crossing
	bestDist := -1.0
	for _, c := range b.Crossings {
		if c.ID == "" || c.SnapRadiusM <= 0 {
			continue
		}
		d := Distance(mid, c.Point)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist < 0 || bestDist > best.SnapRadiusM {
		return Crossing{}, false
	}
	return best, true
}

// Permits decides whether a walking edge between p1 and p2 is allowed.
// Non-crossing segments are always allowed; crossing segments are allowed
// only when the nearest in-range crossing is walk-permitted by the rule
// table. The returned id is the crossing used, empty for non-crossing
// edges.
func (b *Barrier) Permits(p1, p2 orb.Point) (crossingID string, allowed bool) {
	if b == nil || !b.Crosses(p1, p2) {
		return "", true
	}
	c, ok := b.NearestCrossing(p1, p2)
	if !ok {
		return "", false
	}
	if !b.Rules[c.ID] {
		return "", false
	}
	return c.ID, true
}
