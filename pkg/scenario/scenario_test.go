package scenario

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Rhoahndur/siteplanner/pkg/optimize"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

const sampleYAML = `
name: depot
road_entry: [0, 100]
catalog:
  - type: building
    name: Warehouse
    width: 40
    length: 60
    quantity: 2
    priority: 5
  - type: parking
    name: Lot
    width: 30
    length: 20
site:
  boundary: [[0, 0], [200, 0], [200, 200], [0, 200]]
  exclusion_zones:
    - [[80, 80], [120, 80], [120, 120], [80, 120]]
  min_setback: 10
  min_spacing: 5
  max_coverage: 0.4
weights:
  cost: 30
  accessibility: 20
  road_length: 20
  compactness: 20
  slope_variance: 10
search:
  population_size: 25
  max_generations: 60
  strategy: grid
  random_seed: 11
`

func TestParseSample(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "depot" {
		t.Errorf("expected name depot, got %q", s.Name)
	}
	if len(s.Catalog) != 2 {
		t.Fatalf("expected 2 catalog entries, got %d", len(s.Catalog))
	}
	if s.Site.MinSetback != 10 || s.Site.MinSpacing != 5 {
		t.Errorf("site limits not decoded: setback %g spacing %g", s.Site.MinSetback, s.Site.MinSpacing)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not yaml", "{{"},
		{"no boundary", "name: x\ncatalog:\n  - {type: building, name: a, width: 10, length: 10}\n"},
		{"empty catalog", "name: x\nsite:\n  boundary: [[0,0],[10,0],[10,10]]\n"},
		{"zero width", "name: x\nsite:\n  boundary: [[0,0],[10,0],[10,10]]\ncatalog:\n  - {type: building, name: a, width: 0, length: 10}\n"},
	}
	for _, tc := range cases {
		if _, err := Parse([]byte(tc.doc)); err == nil {
			t.Errorf("%s: expected parse error", tc.name)
		}
	}
}

func TestExpandCatalog(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assets, err := s.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets (2 warehouses + 1 lot), got %d", len(assets))
	}

	seen := make(map[string]bool)
	for _, a := range assets {
		if seen[a.ID] {
			t.Errorf("duplicate asset id %q", a.ID)
		}
		seen[a.ID] = true
	}
	if assets[0].Type != site.TypeBuilding || assets[2].Type != site.TypeParking {
		t.Error("expansion must preserve catalog order")
	}
	if assets[0].Name != "Warehouse 1" || assets[1].Name != "Warehouse 2" {
		t.Errorf("multi-quantity entries must get numbered names, got %q / %q", assets[0].Name, assets[1].Name)
	}
	if assets[2].Name != "Lot" {
		t.Errorf("single entries keep their plain name, got %q", assets[2].Name)
	}
	if assets[0].Priority != 5 {
		t.Errorf("priority not carried through, got %d", assets[0].Priority)
	}
}

func TestConstraintModelFromSite(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := s.ConstraintModel()
	if !approxEqual(c.Boundary.Area(), 40000, tolerance) {
		t.Errorf("expected boundary area 40000, got %f", c.Boundary.Area())
	}
	if len(c.ExclusionZones) != 1 {
		t.Fatalf("expected 1 exclusion zone, got %d", len(c.ExclusionZones))
	}
	if c.MaxCoverage != 0.4 {
		t.Errorf("expected max coverage 0.4, got %g", c.MaxCoverage)
	}
}

func TestObjectiveConfigRescalesWeights(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := s.ObjectiveConfig()
	if !approxEqual(cfg.CostWeight, 0.3, tolerance) {
		t.Errorf("expected cost weight 0.3, got %f", cfg.CostWeight)
	}
	total := cfg.CostWeight + cfg.AccessibilityWeight + cfg.RoadLengthWeight +
		cfg.CompactnessWeight + cfg.SlopeVarianceWeight
	if !approxEqual(total, 1.0, tolerance) {
		t.Errorf("rescaled weights must sum to 1, got %f", total)
	}
	if cfg.RoadEntry.X != 0 || cfg.RoadEntry.Y != 100 {
		t.Errorf("road entry not bound, got %v", cfg.RoadEntry)
	}
}

func TestObjectiveConfigDefaultsWhenUnset(t *testing.T) {
	s := &Scenario{}
	cfg := s.ObjectiveConfig()
	if !approxEqual(cfg.CostWeight, 0.2, tolerance) || !approxEqual(cfg.SlopeVarianceWeight, 0.2, tolerance) {
		t.Error("unset sliders must yield equal 0.2 weights")
	}
}

func TestSearchConfigMergesOverDefaults(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := s.SearchConfig()
	if cfg.PopulationSize != 25 || cfg.MaxGenerations != 60 {
		t.Errorf("explicit settings not applied: pop %d gens %d", cfg.PopulationSize, cfg.MaxGenerations)
	}
	if cfg.Strategy != optimize.InitGrid {
		t.Errorf("expected grid strategy, got %q", cfg.Strategy)
	}
	if cfg.Seed != 11 {
		t.Errorf("expected seed 11, got %d", cfg.Seed)
	}

	def := optimize.DefaultConfig()
	if cfg.MutationRate != def.MutationRate || cfg.TimeLimit != def.TimeLimit {
		t.Error("unset settings must keep the defaults")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("merged config must validate: %v", err)
	}
}

func TestSearchConfigTimeLimit(t *testing.T) {
	s := &Scenario{Search: SearchDef{TimeLimitSeconds: 2.5}}
	if got := s.SearchConfig().TimeLimit; got != 2500*time.Millisecond {
		t.Errorf("expected 2.5s time limit, got %s", got)
	}
}

func TestSeedSolution(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assets, err := s.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}

	// No seed layout in the document.
	sol, err := s.SeedSolution(assets)
	if err != nil || sol != nil {
		t.Fatalf("expected nil solution without a seed layout, got %v / %v", sol, err)
	}

	s.Seed = []PlacedDef{
		{Position: [2]float64{50, 50}, Rotation: 90},
		{Position: [2]float64{150, 50}},
		{Position: [2]float64{100, 150}},
	}
	sol, err = s.SeedSolution(assets)
	if err != nil {
		t.Fatalf("SeedSolution: %v", err)
	}
	if sol.Assets[0].Position.X != 50 || sol.Assets[0].Rotation != 90 {
		t.Error("seed entries must apply positionally")
	}
	if assets[0].Position.X == 50 {
		t.Error("seed solution must clone, not mutate, the expanded assets")
	}

	s.Seed = s.Seed[:2]
	if _, err := s.SeedSolution(assets); err == nil {
		t.Error("expected error for a seed layout shorter than the catalog")
	}
}

func TestExpandIDsCarryType(t *testing.T) {
	s, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	assets, err := s.Expand()
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	for _, a := range assets {
		if !strings.HasPrefix(a.ID, string(a.Type)) {
			t.Errorf("id %q does not start with its type %q", a.ID, a.Type)
		}
	}
}
