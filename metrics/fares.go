package metrics

import (
	"regexp"
	"strconv"

	"github.com/urban-transit-lab/pareto-planner/graph"
)

var fareZoneCountRe = regexp.MustCompile(`(\d+)`)

// estimateFare picks the cheapest fare consistent with the used routes,
// the origin and destination zones and the zones traversed. When no rule
// matches, it falls back to fare products whose id encodes a zone count
// covering the trip; when that fails too, the fare is zero with no
// selection.
func (ev *Evaluator) estimateFare(zonesPassed []string, originZone, destZone string, routesUsed map[string]struct{}) (float64, *FareSelection) {
	attrs := ev.g.FareAttributes()
	if len(attrs) == 0 {
		return 0, nil
	}

	zones := make(map[string]struct{}, len(zonesPassed))
	for _, z := range zonesPassed {
		zones[z] = struct{}{}
	}

	candidates := make(map[string]struct{})
	for _, rule := range ev.g.FareRules() {
		if rule.FareID == "" {
			continue
		}
		if rule.RouteID != "" && len(routesUsed) > 0 {
			if _, ok := routesUsed[rule.RouteID]; !ok {
				continue
			}
		}
		if rule.OriginID != "" && originZone != "" && originZone != rule.OriginID {
			continue
		}
		if rule.DestinationID != "" && destZone != "" && destZone != rule.DestinationID {
			continue
		}
		if rule.ContainsID != "" {
			if _, ok := zones[rule.ContainsID]; !ok {
				continue
			}
		}
		candidates[rule.FareID] = struct{}{}
	}
	if len(candidates) == 0 {
		for _, fa := range attrs {
			candidates[fa.FareID] = struct{}{}
		}
	}

	var best *graph.FareAttribute
	for i := range attrs {
		if _, ok := candidates[attrs[i].FareID]; !ok {
			continue
		}
		if best == nil || attrs[i].Price < best.Price {
			best = &attrs[i]
		}
	}
	if best == nil {
		return ev.fallbackFare(len(zones))
	}

	currency := best.Currency
	if currency == "" {
		currency = "EUR"
	}
	return best.Price, &FareSelection{
		FareID:   best.FareID,
		Price:    best.Price,
		Currency: currency,
		Source:   "gtfs",
	}
}

// fallbackFare selects, among fare products whose id encodes a
// "covers N zones" number at least the traversed zone count, the
// cheapest.
func (ev *Evaluator) fallbackFare(zoneCount int) (float64, *FareSelection) {
	if zoneCount < 1 {
		zoneCount = 1
	}
	bestPrice := -1.0
	for _, fa := range ev.g.FareAttributes() {
		m := fareZoneCountRe.FindString(fa.FareID)
		if m == "" {
			continue
		}
		covered, err := strconv.Atoi(m)
		if err != nil || covered < zoneCount {
			continue
		}
		if bestPrice < 0 || fa.Price < bestPrice {
			bestPrice = fa.Price
		}
	}
	if bestPrice < 0 {
		return 0, nil
	}
	return bestPrice, &FareSelection{
		Price:    bestPrice,
		Currency: "EUR",
		Source:   "fallback",
	}
}
