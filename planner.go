package paretoplanner

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/urban-transit-lab/pareto-planner/config"
	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/gtfs"
	"github.com/urban-transit-lab/pareto-planner/metrics"
	"github.com/urban-transit-lab/pareto-planner/search"
)

var log = logrus.WithField("module", "planner")

// Planner owns the built graph and evaluator and runs trip searches
// against them. One Planner serves any number of Plan calls; virtual
// endpoint injection is the only operation that mutates the graph.
type Planner struct {
	cfg  config.AppConfig
	g    *graph.Graph
	eval *metrics.Evaluator
}

// New loads every configured feed, builds the multimodal graph and
// prepares the metrics evaluator.
func New(cfg config.AppConfig) (*Planner, error) {
	feeds := make([]*gtfs.Feed, 0, len(cfg.Feeds))
	for _, fc := range cfg.Feeds {
		feed, err := gtfs.LoadFeed(fc.Path, fc.Prefix, gtfs.Mode(fc.Mode))
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", fc.Name, err)
		}
		log.Infof("loaded feed %s: %d stops, %d trips", fc.Name, len(feed.Stops), len(feed.Trips))
		feeds = append(feeds, feed)
	}
	g, err := graph.Build(feeds, graph.Options{
		WalkRadiusM:    cfg.Graph.WalkRadiusM,
		WalkSpeedMS:    cfg.Graph.WalkSpeedMS,
		CruiseSpeedKMH: perMode(cfg.Graph.CruiseSpeedKMH),
		Barrier:        barrierFromConfig(cfg.Barrier),
	})
	if err != nil {
		return nil, err
	}
	return &Planner{
		cfg:  cfg,
		g:    g,
		eval: metrics.NewEvaluator(g, perMode(cfg.Graph.EmissionFactors)),
	}, nil
}

// Graph exposes the built graph for stop lookup and inspection.
func (p *Planner) Graph() *graph.Graph { return p.g }

// Evaluator exposes the metrics evaluator for scoring external paths.
func (p *Planner) Evaluator() *metrics.Evaluator { return p.eval }

func perMode(m map[string]float64) map[gtfs.Mode]float64 {
	if m == nil {
		return nil
	}
	out := make(map[gtfs.Mode]float64, len(m))
	for k, v := range m {
		out[gtfs.Mode(k)] = v
	}
	return out
}

func barrierFromConfig(bc *config.BarrierConfig) *graph.Barrier {
	if bc == nil {
		return nil
	}
	crossings := make([]graph.Crossing, 0, len(bc.Crossings))
	for _, c := range bc.Crossings {
		crossings = append(crossings, graph.Crossing{
			ID:          c.ID,
			Point:       orb.Point{c.Lon, c.Lat},
			SnapRadiusM: c.SnapRadiusM,
		})
	}
	return &graph.Barrier{
		Name: bc.Name,
		Bound: orb.Bound{
			Min: orb.Point{bc.BBox[0], bc.BBox[1]},
			Max: orb.Point{bc.BBox[2], bc.BBox[3]},
		},
		DivideLat: bc.DivideLat,
		Crossings: crossings,
		Rules:     bc.Rules,
	}
}

// ResolveEndpoint maps a user-supplied endpoint onto a graph node. A
// "lat,lon" coordinate pair becomes a virtual point connected to its
// nearest stops; anything else is treated as a stop id, tried raw and
// with every operator prefix.
func (p *Planner) ResolveEndpoint(label, spec string) (string, error) {
	if lat, lon, ok := parseLatLon(spec); ok {
		id, err := p.g.AddVirtualPoint(label+"_VIRT", lat, lon, p.cfg.Graph.NearestRadiusM, p.cfg.Graph.NearestK)
		if err != nil {
			return "", fmt.Errorf("%s: %w", label, err)
		}
		return id, nil
	}
	id, err := p.g.ResolveStop(spec)
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return id, nil
}

// parseLatLon accepts "lat,lon" with both parts parsing as floats in
// valid WGS84 ranges.
func parseLatLon(s string) (lat, lon float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// Solution is one Pareto-optimal trip in the plan output.
type Solution struct {
	Path    []string       `json:"path"`
	Metrics metrics.Record `json:"metrics"`
	HasWalk bool           `json:"has_walk"`
}

// PlanResult bundles the evolved front with the scalarized baseline.
type PlanResult struct {
	Origin      string                    `json:"origin"`
	Destination string                    `json:"destination"`
	Solutions   []Solution                `json:"solutions"`
	Baseline    []search.BaselineSolution `json:"baseline,omitempty"`
}

func (p *Planner) searchConfig() search.Config {
	sc := p.cfg.Search
	maxTransfers := -1
	if sc.MaxTransfers != nil {
		maxTransfers = *sc.MaxTransfers
	}
	return search.Config{
		PopSize:         sc.PopSize,
		Generations:     sc.Generations,
		CxPb:            sc.CxPb,
		MutPb:           sc.MutPb,
		WalkPolicy:      search.WalkPolicy(sc.WalkPolicy),
		IncludeFare:     sc.IncludeFare,
		WalkTimeCapS:    sc.WalkTimeCapS,
		MaxTransfers:    maxTransfers,
		Lambdas:         search.Lambdas(sc.LambdaSteps),
		RandomWalkSteps: sc.RandomWalkSteps,
		Workers:         sc.Workers,
	}
}

// Plan resolves the endpoints, runs the baseline sweep and the
// evolutionary search and returns the feasible non-dominated solutions.
// A population with no feasible member yields an empty solution list,
// not an error.
func (p *Planner) Plan(rng *rand.Rand, originSpec, destSpec string) (*PlanResult, error) {
	origin, err := p.ResolveEndpoint("origin", originSpec)
	if err != nil {
		return nil, err
	}
	dest, err := p.ResolveEndpoint("dest", destSpec)
	if err != nil {
		return nil, err
	}
	if origin == dest {
		return nil, fmt.Errorf("origin and destination resolve to the same node %s", origin)
	}
	// A direct walking edge keeps the all-walk alternative in play even
	// when the endpoints are farther apart than the stop walk radius.
	p.g.AddDirectWalkEdge(origin, dest, p.cfg.Search.WalkTimeCapS)

	engine := search.NewEngine(p.g, p.eval, p.searchConfig(), origin, dest)
	baseline := search.ParetoFilter2D(engine.RunBaseline())

	front := search.ParetoFront(engine.Run(rng))
	solutions := make([]Solution, 0, len(front))
	for _, ind := range front {
		solutions = append(solutions, Solution{
			Path:    ind.Record.Path,
			Metrics: ind.Record,
			HasWalk: ind.Record.WalkTimeS() > 0,
		})
	}
	log.Infof("plan %s -> %s: %d pareto solutions, %d baseline solutions",
		origin, dest, len(solutions), len(baseline))
	return &PlanResult{
		Origin:      origin,
		Destination: dest,
		Solutions:   solutions,
		Baseline:    baseline,
	}, nil
}
