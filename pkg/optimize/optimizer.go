package optimize

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Rhoahndur/siteplanner/pkg/objective"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// ErrEmptyBuildableRegion signals that the constraint model leaves no
// room to place anything: no amount of iteration can produce a valid
// layout. Distinct from running out of time.
var ErrEmptyBuildableRegion = errors.New("buildable region is empty")

// topSnapshotSize bounds how many final-population members the result
// carries for diagnostics.
const topSnapshotSize = 5

// Optimizer drives the population-based layout search. It is
// single-threaded and owns its random source; two optimizers with the
// same seed, config, and inputs produce identical runs.
type Optimizer struct {
	cfg         Config
	constraints *site.ConstraintModel
	evaluator   *objective.Evaluator
	rng         *rand.Rand
	seed        *site.Solution
	diagonal    float64
	moveStep    float64
}

// New constructs an optimizer. Configuration errors fail here, before
// any search work starts.
func New(cfg Config, constraints *site.ConstraintModel, evaluator *objective.Evaluator) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	if constraints == nil {
		return nil, errors.New("optimizer: constraint model is required")
	}
	if evaluator == nil {
		return nil, errors.New("optimizer: evaluator is required")
	}
	minP, maxP := constraints.Boundary.BoundingBox()
	diag := maxP.Sub(minP).Length()
	if diag < 1 {
		diag = 1
	}
	step := diag * 0.05
	if step < 5 {
		step = 5
	}
	return &Optimizer{
		cfg:         cfg,
		constraints: constraints,
		evaluator:   evaluator,
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		diagonal:    diag,
		moveStep:    step,
	}, nil
}

// SetSeedSolution supplies a known layout (e.g. the user's current one)
// that replaces one slot of the initial population verbatim.
func (o *Optimizer) SetSeedSolution(s *site.Solution) {
	o.seed = s.Clone()
}

// Run executes the search over fresh copies of the template assets and
// returns the best solution, diverse alternatives, and telemetry.
// A degenerate buildable region still yields a result (with an invalid
// best solution) alongside ErrEmptyBuildableRegion.
func (o *Optimizer) Run(template []*site.Asset) (*Result, error) {
	start := time.Now()

	if o.constraints.Degenerate() {
		return o.degenerateResult(template, start), ErrEmptyBuildableRegion
	}

	population := o.initialize(template)
	for _, s := range population {
		o.evaluator.Evaluate(s)
	}
	sortByFitness(population)

	res := &Result{History: []float64{population[0].Fitness}}
	bestSoFar := population[0].Fitness
	stagnation := 0

	for gen := 0; gen < o.cfg.MaxGenerations; gen++ {
		// Cooperative time check, once per generation.
		if time.Since(start) > o.cfg.TimeLimit {
			res.TimedOut = true
			break
		}

		population = o.evolve(population)
		for _, s := range population {
			if s.Fitness == 0 {
				o.evaluator.Evaluate(s)
			}
		}
		sortByFitness(population)
		res.Generations++
		res.History = append(res.History, population[0].Fitness)

		if population[0].Fitness-bestSoFar < o.cfg.ConvergenceThreshold {
			stagnation++
		} else {
			stagnation = 0
		}
		if population[0].Fitness > bestSoFar {
			bestSoFar = population[0].Fitness
		}
		if stagnation >= o.cfg.ConvergencePatience {
			res.Converged = true
			break
		}
	}

	o.finalize(res, population, start)
	return res, nil
}

// evolve produces the next generation: elites carried unchanged, the
// remainder bred by tournament selection, crossover, and mutation.
func (o *Optimizer) evolve(population []*site.Solution) []*site.Solution {
	popSize := o.cfg.PopulationSize
	eliteCount := int(o.cfg.ElitismFraction * float64(popSize))
	if eliteCount < 1 {
		eliteCount = 1
	}
	if eliteCount > popSize {
		eliteCount = popSize
	}

	next := make([]*site.Solution, 0, popSize)
	for i := 0; i < eliteCount; i++ {
		next = append(next, population[i].Clone())
	}

	for len(next) < popSize {
		p1 := o.tournament(population)
		p2 := o.tournament(population)

		var child *site.Solution
		if o.rng.Float64() < o.cfg.CrossoverRate {
			child = o.crossover(p1, p2)
		} else {
			child = p1.Clone()
		}
		if o.rng.Float64() < o.cfg.MutationRate {
			o.mutate(child)
		}
		next = append(next, child)
	}
	return next
}

// tournament samples tournamentSize members uniformly and keeps the
// fittest.
func (o *Optimizer) tournament(population []*site.Solution) *site.Solution {
	best := population[o.rng.IntN(len(population))]
	for i := 1; i < o.cfg.TournamentSize; i++ {
		c := population[o.rng.IntN(len(population))]
		if c.Fitness > best.Fitness {
			best = c
		}
	}
	return best
}

// degenerateResult builds the terminal result for an empty buildable
// region: one evaluated (necessarily invalid) layout at the boundary
// centroid.
func (o *Optimizer) degenerateResult(template []*site.Asset, start time.Time) *Result {
	assets := cloneAssets(template)
	center := o.constraints.Boundary.Centroid()
	for _, a := range assets {
		a.SetPosition(center)
	}
	best := site.NewSolution(assets)
	o.evaluator.Evaluate(best)
	best.Valid = false
	return &Result{
		Best:       best,
		History:    []float64{best.Fitness},
		Elapsed:    time.Since(start),
		Degenerate: true,
	}
}

// finalize fills the result payload from the terminal population.
func (o *Optimizer) finalize(res *Result, population []*site.Solution, start time.Time) {
	res.Best = population[0].Clone()
	res.Alternatives = o.selectAlternatives(population)
	res.Elapsed = time.Since(start)

	n := topSnapshotSize
	if n > len(population) {
		n = len(population)
	}
	res.TopSnapshot = make([]*site.Solution, n)
	for i := 0; i < n; i++ {
		res.TopSnapshot[i] = population[i].Clone()
	}

	fitnesses := make([]float64, len(population))
	for i, s := range population {
		fitnesses[i] = s.Fitness
	}
	res.MeanFitness = stat.Mean(fitnesses, nil)
	res.StdDevFitness = stat.StdDev(fitnesses, nil)
}

func sortByFitness(population []*site.Solution) {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].Fitness > population[j].Fitness
	})
}

func cloneAssets(assets []*site.Asset) []*site.Asset {
	out := make([]*site.Asset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}
