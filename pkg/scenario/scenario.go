package scenario

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/objective"
	"github.com/Rhoahndur/siteplanner/pkg/optimize"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// Load reads a scenario from a YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and shape-checks a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// check validates the document shape before any search work starts.
func (s *Scenario) check() error {
	if len(s.Site.Boundary) < 3 {
		return fmt.Errorf("scenario: site boundary needs at least 3 vertices, got %d", len(s.Site.Boundary))
	}
	if len(s.Catalog) == 0 {
		return fmt.Errorf("scenario: asset catalog is empty")
	}
	for i, def := range s.Catalog {
		if def.Width <= 0 || def.Length <= 0 {
			return fmt.Errorf("scenario: catalog entry %d (%s) has non-positive dimensions", i, def.Name)
		}
		if def.Quantity < 0 {
			return fmt.Errorf("scenario: catalog entry %d (%s) has negative quantity", i, def.Name)
		}
	}
	return nil
}

// Expand produces the individual unplaced assets from the catalog.
// Quantity defaults to 1. Each instance gets a uuid-suffixed id.
func (s *Scenario) Expand() ([]*site.Asset, error) {
	var assets []*site.Asset
	for _, def := range s.Catalog {
		qty := def.Quantity
		if qty == 0 {
			qty = 1
		}
		for i := 0; i < qty; i++ {
			id := fmt.Sprintf("%s-%d-%s", def.Type, i, uuid.NewString()[:8])
			name := def.Name
			if qty > 1 {
				name = fmt.Sprintf("%s %d", def.Name, i+1)
			}
			a, err := site.NewAsset(id, name, site.AssetType(def.Type), def.Width, def.Length, site.Overrides{
				MinSetback:      def.MinSetback,
				MinSpacing:      def.MinSpacing,
				MaxSlope:        def.MaxSlope,
				MinRoadDistance: def.MinRoadDistance,
				MaxRoadDistance: def.MaxRoadDistance,
				Priority:        def.Priority,
			})
			if err != nil {
				return nil, err
			}
			assets = append(assets, a)
		}
	}
	return assets, nil
}

// SeedSolution builds a seed layout by applying the scenario's placed
// entries positionally to clones of the expanded assets. Returns nil
// when the scenario carries no seed layout.
func (s *Scenario) SeedSolution(assets []*site.Asset) (*site.Solution, error) {
	if len(s.Seed) == 0 {
		return nil, nil
	}
	if len(s.Seed) != len(assets) {
		return nil, fmt.Errorf("scenario: seed layout has %d entries for %d assets", len(s.Seed), len(assets))
	}
	clones := make([]*site.Asset, len(assets))
	for i, a := range assets {
		c := a.Clone()
		c.SetPosition(geo.Pt(s.Seed[i].Position[0], s.Seed[i].Position[1]))
		c.SetRotation(s.Seed[i].Rotation)
		clones[i] = c
	}
	return site.NewSolution(clones), nil
}

// ObjectiveConfig rescales the percentage sliders into fractional
// weights and binds the road entry point.
func (s *Scenario) ObjectiveConfig() objective.Config {
	total := s.Weights.Cost + s.Weights.Accessibility + s.Weights.RoadLength +
		s.Weights.Compactness + s.Weights.SlopeVariance
	if total <= 0 {
		// No sliders set: weight everything equally.
		return objective.Config{
			CostWeight:          0.2,
			AccessibilityWeight: 0.2,
			RoadLengthWeight:    0.2,
			CompactnessWeight:   0.2,
			SlopeVarianceWeight: 0.2,
			RoadEntry:           geo.Pt(s.RoadEntry[0], s.RoadEntry[1]),
		}
	}
	return objective.Config{
		CostWeight:          s.Weights.Cost / total,
		AccessibilityWeight: s.Weights.Accessibility / total,
		RoadLengthWeight:    s.Weights.RoadLength / total,
		CompactnessWeight:   s.Weights.Compactness / total,
		SlopeVarianceWeight: s.Weights.SlopeVariance / total,
		RoadEntry:           geo.Pt(s.RoadEntry[0], s.RoadEntry[1]),
	}
}

// SearchConfig merges the scenario's search settings over the optimizer
// defaults. Zero-valued fields keep the default.
func (s *Scenario) SearchConfig() optimize.Config {
	cfg := optimize.DefaultConfig()
	d := s.Search
	if d.PopulationSize > 0 {
		cfg.PopulationSize = d.PopulationSize
	}
	if d.MaxGenerations > 0 {
		cfg.MaxGenerations = d.MaxGenerations
	}
	if d.MutationRate > 0 {
		cfg.MutationRate = d.MutationRate
	}
	if d.CrossoverRate > 0 {
		cfg.CrossoverRate = d.CrossoverRate
	}
	if d.ElitismFraction > 0 {
		cfg.ElitismFraction = d.ElitismFraction
	}
	if d.TournamentSize > 0 {
		cfg.TournamentSize = d.TournamentSize
	}
	if d.ConvergenceThreshold > 0 {
		cfg.ConvergenceThreshold = d.ConvergenceThreshold
	}
	if d.ConvergencePatience > 0 {
		cfg.ConvergencePatience = d.ConvergencePatience
	}
	if d.DiversityWeight > 0 {
		cfg.DiversityWeight = d.DiversityWeight
	}
	if d.NumAlternatives > 0 {
		cfg.NumAlternatives = d.NumAlternatives
	}
	if d.TimeLimitSeconds > 0 {
		cfg.TimeLimit = time.Duration(d.TimeLimitSeconds * float64(time.Second))
	}
	if d.Strategy != "" {
		cfg.Strategy = optimize.InitStrategy(d.Strategy)
	}
	if d.RandomSeed != 0 {
		cfg.Seed = d.RandomSeed
	}
	return cfg
}
