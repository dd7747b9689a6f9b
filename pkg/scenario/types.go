package scenario

import (
	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// Scenario is the top-level YAML document describing one optimization
// problem: the asset catalog, the site constraints, objective weights,
// and search settings.
type Scenario struct {
	Name      string       `yaml:"name" json:"name"`
	Catalog   []CatalogDef `yaml:"catalog" json:"catalog"`
	Site      SiteDef      `yaml:"site" json:"site"`
	Weights   WeightsDef   `yaml:"weights" json:"weights"`
	Search    SearchDef    `yaml:"search" json:"search"`
	Seed      []PlacedDef  `yaml:"seed_layout,omitempty" json:"seed_layout,omitempty"`
	RoadEntry [2]float64   `yaml:"road_entry" json:"road_entry"`
}

// CatalogDef is one asset specification, expanded into Quantity
// individual assets.
type CatalogDef struct {
	Type            string  `yaml:"type" json:"type"`
	Name            string  `yaml:"name" json:"name"`
	Width           float64 `yaml:"width" json:"width"`
	Length          float64 `yaml:"length" json:"length"`
	Quantity        int     `yaml:"quantity" json:"quantity"`
	MinSetback      float64 `yaml:"min_setback,omitempty" json:"min_setback,omitempty"`
	MinSpacing      float64 `yaml:"min_spacing,omitempty" json:"min_spacing,omitempty"`
	MaxSlope        float64 `yaml:"max_slope,omitempty" json:"max_slope,omitempty"`
	MinRoadDistance float64 `yaml:"min_road_distance,omitempty" json:"min_road_distance,omitempty"`
	MaxRoadDistance float64 `yaml:"max_road_distance,omitempty" json:"max_road_distance,omitempty"`
	Priority        int     `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// SiteDef holds the site geometry and numeric limits.
type SiteDef struct {
	Boundary           [][2]float64   `yaml:"boundary" json:"boundary"`
	BuildableZones     [][][2]float64 `yaml:"buildable_zones,omitempty" json:"buildable_zones,omitempty"`
	ExclusionZones     [][][2]float64 `yaml:"exclusion_zones,omitempty" json:"exclusion_zones,omitempty"`
	MinSetback         float64        `yaml:"min_setback" json:"min_setback"`
	MinSpacing         float64        `yaml:"min_spacing" json:"min_spacing"`
	MaxCoverage        float64        `yaml:"max_coverage" json:"max_coverage"`
	RoadAccessRequired bool           `yaml:"road_access_required" json:"road_access_required"`
	MaxRoadLength      float64        `yaml:"max_road_length" json:"max_road_length"`
}

// WeightsDef carries the user-facing percentage sliders. They are
// rescaled to fractions before reaching the evaluator.
type WeightsDef struct {
	Cost          float64 `yaml:"cost" json:"cost"`
	Accessibility float64 `yaml:"accessibility" json:"accessibility"`
	RoadLength    float64 `yaml:"road_length" json:"road_length"`
	Compactness   float64 `yaml:"compactness" json:"compactness"`
	SlopeVariance float64 `yaml:"slope_variance" json:"slope_variance"`
}

// SearchDef configures the genetic search. Zero values fall back to the
// optimizer defaults.
type SearchDef struct {
	PopulationSize       int     `yaml:"population_size" json:"population_size"`
	MaxGenerations       int     `yaml:"max_generations" json:"max_generations"`
	MutationRate         float64 `yaml:"mutation_rate" json:"mutation_rate"`
	CrossoverRate        float64 `yaml:"crossover_rate" json:"crossover_rate"`
	ElitismFraction      float64 `yaml:"elitism_fraction" json:"elitism_fraction"`
	TournamentSize       int     `yaml:"tournament_size" json:"tournament_size"`
	ConvergenceThreshold float64 `yaml:"convergence_threshold" json:"convergence_threshold"`
	ConvergencePatience  int     `yaml:"convergence_patience" json:"convergence_patience"`
	DiversityWeight      float64 `yaml:"diversity_weight" json:"diversity_weight"`
	NumAlternatives      int     `yaml:"num_alternatives" json:"num_alternatives"`
	TimeLimitSeconds     float64 `yaml:"time_limit_seconds" json:"time_limit_seconds"`
	Strategy             string  `yaml:"strategy" json:"strategy"`
	RandomSeed           uint64  `yaml:"random_seed" json:"random_seed"`
}

// PlacedDef is one already-placed asset in a seed layout.
type PlacedDef struct {
	ID       string     `yaml:"id" json:"id"`
	Position [2]float64 `yaml:"position" json:"position"`
	Rotation float64    `yaml:"rotation" json:"rotation"`
}

// polygon converts a vertex list into a geo.Polygon.
func polygon(verts [][2]float64) geo.Polygon {
	pts := make([]geo.Point2D, len(verts))
	for i, v := range verts {
		pts[i] = geo.Pt(v[0], v[1])
	}
	return geo.NewPolygon(pts...)
}

// ConstraintModel builds the immutable constraint model from the site
// definition.
func (s *Scenario) ConstraintModel() *site.ConstraintModel {
	c := &site.ConstraintModel{
		Boundary:           polygon(s.Site.Boundary),
		MinSetback:         s.Site.MinSetback,
		MinSpacing:         s.Site.MinSpacing,
		MaxCoverage:        s.Site.MaxCoverage,
		RoadAccessRequired: s.Site.RoadAccessRequired,
		MaxRoadLength:      s.Site.MaxRoadLength,
	}
	for _, z := range s.Site.BuildableZones {
		c.BuildableZones = append(c.BuildableZones, polygon(z))
	}
	for _, z := range s.Site.ExclusionZones {
		c.ExclusionZones = append(c.ExclusionZones, polygon(z))
	}
	return c
}
