package optimize

import (
	"fmt"
	"time"
)

// InitStrategy selects how the initial population is laid out.
type InitStrategy string

const (
	// InitRandom scatters assets at random collision-screened positions.
	InitRandom InitStrategy = "random"
	// InitGrid arranges assets on a jittered grid over the buildable bounds.
	InitGrid InitStrategy = "grid"
	// InitHeuristic places high-priority assets on inner rings around the
	// buildable center.
	InitHeuristic InitStrategy = "heuristic"
)

// Config holds the search parameters. Every rate and fraction is
// validated at construction; nothing is silently clamped.
type Config struct {
	PopulationSize       int
	MaxGenerations       int
	MutationRate         float64
	CrossoverRate        float64
	ElitismFraction      float64
	TournamentSize       int
	ConvergenceThreshold float64
	ConvergencePatience  int
	DiversityWeight      float64
	NumAlternatives      int
	TimeLimit            time.Duration
	Strategy             InitStrategy
	Seed                 uint64
}

// DefaultConfig returns a workable mid-size configuration.
func DefaultConfig() Config {
	return Config{
		PopulationSize:       40,
		MaxGenerations:       150,
		MutationRate:         0.3,
		CrossoverRate:        0.8,
		ElitismFraction:      0.1,
		TournamentSize:       3,
		ConvergenceThreshold: 0.01,
		ConvergencePatience:  15,
		DiversityWeight:      0.3,
		NumAlternatives:      2,
		TimeLimit:            30 * time.Second,
		Strategy:             InitRandom,
		Seed:                 1,
	}
}

// Validate checks every parameter against its documented range.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be >= 2, got %d", c.PopulationSize)
	}
	if c.MaxGenerations < 1 {
		return fmt.Errorf("generation cap must be >= 1, got %d", c.MaxGenerations)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0,1], got %g", c.MutationRate)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf("crossover rate must be in [0,1], got %g", c.CrossoverRate)
	}
	if c.ElitismFraction < 0 || c.ElitismFraction > 1 {
		return fmt.Errorf("elitism fraction must be in [0,1], got %g", c.ElitismFraction)
	}
	if c.TournamentSize < 2 {
		return fmt.Errorf("tournament size must be >= 2, got %d", c.TournamentSize)
	}
	if c.ConvergenceThreshold < 0 {
		return fmt.Errorf("convergence threshold must be non-negative, got %g", c.ConvergenceThreshold)
	}
	if c.ConvergencePatience < 1 {
		return fmt.Errorf("convergence patience must be >= 1, got %d", c.ConvergencePatience)
	}
	if c.DiversityWeight < 0 || c.DiversityWeight > 1 {
		return fmt.Errorf("diversity weight must be in [0,1], got %g", c.DiversityWeight)
	}
	if c.NumAlternatives < 0 {
		return fmt.Errorf("alternative count must be non-negative, got %d", c.NumAlternatives)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", c.TimeLimit)
	}
	switch c.Strategy {
	case InitRandom, InitGrid, InitHeuristic:
	default:
		return fmt.Errorf("unknown initialization strategy %q", c.Strategy)
	}
	return nil
}
