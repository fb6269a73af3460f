package search

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/urban-transit-lab/pareto-planner/graph"
	"github.com/urban-transit-lab/pareto-planner/metrics"
)

var log = logrus.WithField("module", "search")

// Config is the tunable surface of the search engine.
type Config struct {
	PopSize     int
	Generations int
	CxPb        float64 // per-pair crossover probability
	MutPb       float64 // per-individual mutation probability

	WalkPolicy   WalkPolicy
	IncludeFare  bool
	WalkTimeCapS float64 // 0 disables the walking-time cap
	MaxTransfers int     // negative disables the transfer cap

	TimeNormS     float64
	EmissionNormG float64
	Lambdas       []float64

	RandomWalkSteps int
	Workers         int // parallel fitness workers; 0 picks NumCPU
}

func (c Config) withDefaults() Config {
	if c.PopSize <= 0 {
		c.PopSize = 50
	}
	// Crowded tournament pairing needs the size divisible by 4.
	if r := c.PopSize % 4; r != 0 {
		c.PopSize += 4 - r
	}
	if c.Generations <= 0 {
		c.Generations = 30
	}
	if c.CxPb <= 0 {
		c.CxPb = 0.6
	}
	if c.MutPb <= 0 {
		c.MutPb = 0.3
	}
	if c.WalkPolicy == "" {
		c.WalkPolicy = WalkMaximize
	}
	if c.TimeNormS <= 0 {
		c.TimeNormS = 3600
	}
	if c.EmissionNormG <= 0 {
		c.EmissionNormG = 1000
	}
	if len(c.Lambdas) == 0 {
		c.Lambdas = Lambdas(21)
	}
	if c.RandomWalkSteps <= 0 {
		c.RandomWalkSteps = 100
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// Engine runs the NSGA-II search between a fixed origin and destination.
type Engine struct {
	g      *graph.Graph
	eval   *metrics.Evaluator
	cfg    Config
	origin string
	dest   string
}

// NewEngine prepares a search over the given graph. The configured
// population size is rounded up to a multiple of 4.
func NewEngine(g *graph.Graph, eval *metrics.Evaluator, cfg Config, origin, dest string) *Engine {
	return &Engine{g: g, eval: eval, cfg: cfg.withDefaults(), origin: origin, dest: dest}
}

// Config returns the effective configuration after defaulting.
func (e *Engine) Config() Config { return e.cfg }

// Run evolves the population for the configured number of generations
// and returns the final population. The search is stochastic; seed rng
// externally for reproducible runs.
func (e *Engine) Run(rng *rand.Rand) []Individual {
	pop := e.evaluateAll(e.seedPaths(rng))
	if len(pop) > e.cfg.PopSize {
		pop = selectNSGA2(pop, e.cfg.PopSize)
	}
	log.Infof("seeded population: %d individuals (%d feasible)", len(pop), countFeasible(pop))

	for gen := 1; gen <= e.cfg.Generations; gen++ {
		parents := selectNSGA2(pop, e.cfg.PopSize)
		offspring := make([][]string, len(parents))
		for i := range parents {
			offspring[i] = clonePath(parents[i].Path)
		}

		for i := 0; i+1 < len(offspring); i += 2 {
			if rng.Float64() < e.cfg.CxPb {
				offspring[i] = Crossover(rng, offspring[i], offspring[i+1])
			}
		}
		for i := range offspring {
			if rng.Float64() < e.cfg.MutPb {
				offspring[i] = e.mutatePath(rng, offspring[i])
			}
		}
		// Identical neighbors left over after crossover and mutation
		// would collapse diversity; force-mutate them apart.
		for i := 0; i+1 < len(offspring); i++ {
			if samePath(offspring[i], offspring[i+1]) {
				offspring[i+1] = e.mutatePath(rng, offspring[i+1])
			}
		}
		offspring = e.dedupRefill(rng, offspring)

		scored := e.evaluateAll(offspring)
		pop = selectNSGA2(append(pop, scored...), e.cfg.PopSize)
		log.Debugf("generation %d/%d: %d feasible", gen, e.cfg.Generations, countFeasible(pop))
	}
	return pop
}

// dedupRefill drops exact duplicate sequences and restores the
// population size with fresh random individuals; a duplicate survives
// only when randomization cannot produce anything new.
func (e *Engine) dedupRefill(rng *rand.Rand, offspring [][]string) [][]string {
	seen := make(map[string]struct{}, len(offspring))
	out := make([][]string, 0, len(offspring))
	dups := 0
	for _, p := range offspring {
		key := pathKey(p)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			out = append(out, p)
			continue
		}
		replaced := false
		for attempt := 0; attempt < 10; attempt++ {
			fresh := e.randomPath(rng)
			if len(fresh) == 0 {
				continue
			}
			freshKey := pathKey(fresh)
			if _, dup := seen[freshKey]; dup {
				continue
			}
			seen[freshKey] = struct{}{}
			out = append(out, fresh)
			replaced = true
			break
		}
		if !replaced {
			out = append(out, p)
			dups++
		}
	}
	if dups > 0 {
		log.Debugf("kept %d duplicate offspring after refill attempts", dups)
	}
	return out
}

// evaluateAll scores every path in parallel. Results are merged by index
// so the outcome is independent of worker scheduling.
func (e *Engine) evaluateAll(paths [][]string) []Individual {
	out := make([]Individual, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := e.cfg.Workers
	if workers > len(paths) {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rec := e.eval.Evaluate(paths[i])
				out[i] = Individual{
					Path:      paths[i],
					Objective: e.cfg.objectiveOf(&rec),
					Record:    rec,
				}
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}

func countFeasible(pop []Individual) int {
	n := 0
	for i := range pop {
		if pop[i].Feasible() {
			n++
		}
	}
	return n
}
