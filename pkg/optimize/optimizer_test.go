package optimize

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/objective"
	"github.com/Rhoahndur/siteplanner/pkg/site"
	"github.com/Rhoahndur/siteplanner/pkg/validation"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func square(x, y, side float64) geo.Polygon {
	return geo.NewPolygon(
		geo.Pt(x, y), geo.Pt(x+side, y), geo.Pt(x+side, y+side), geo.Pt(x, y+side),
	)
}

func testConstraints() *site.ConstraintModel {
	return &site.ConstraintModel{Boundary: square(0, 0, 200)}
}

func testEvaluator(t *testing.T, c *site.ConstraintModel) *objective.Evaluator {
	t.Helper()
	ev, err := objective.NewEvaluator(objective.Config{
		CostWeight:          0.2,
		AccessibilityWeight: 0.2,
		RoadLengthWeight:    0.2,
		CompactnessWeight:   0.2,
		SlopeVarianceWeight: 0.2,
	}, c)
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return ev
}

func testTemplate(t *testing.T, n int) []*site.Asset {
	t.Helper()
	assets := make([]*site.Asset, n)
	for i := range assets {
		a, err := site.NewAsset(
			string(rune('a'+i)), "building", site.TypeBuilding, 10, 10, site.Overrides{})
		if err != nil {
			t.Fatalf("NewAsset: %v", err)
		}
		assets[i] = a
	}
	return assets
}

func quickConfig() Config {
	cfg := DefaultConfig()
	cfg.PopulationSize = 20
	cfg.MaxGenerations = 30
	cfg.TimeLimit = time.Minute
	return cfg
}

func newTestOptimizer(t *testing.T, cfg Config, c *site.ConstraintModel) *Optimizer {
	t.Helper()
	o, err := New(cfg, c, testEvaluator(t, c))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"population too small", func(c *Config) { c.PopulationSize = 1 }},
		{"zero generations", func(c *Config) { c.MaxGenerations = 0 }},
		{"mutation rate above 1", func(c *Config) { c.MutationRate = 1.5 }},
		{"negative crossover rate", func(c *Config) { c.CrossoverRate = -0.1 }},
		{"elitism above 1", func(c *Config) { c.ElitismFraction = 1.1 }},
		{"tournament of one", func(c *Config) { c.TournamentSize = 1 }},
		{"negative threshold", func(c *Config) { c.ConvergenceThreshold = -1 }},
		{"zero patience", func(c *Config) { c.ConvergencePatience = 0 }},
		{"diversity above 1", func(c *Config) { c.DiversityWeight = 2 }},
		{"negative alternatives", func(c *Config) { c.NumAlternatives = -1 }},
		{"zero time limit", func(c *Config) { c.TimeLimit = 0 }},
		{"unknown strategy", func(c *Config) { c.Strategy = "annealing" }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	c := testConstraints()
	ev := testEvaluator(t, c)
	if _, err := New(quickConfig(), nil, ev); err == nil {
		t.Error("expected error for nil constraints")
	}
	if _, err := New(quickConfig(), c, nil); err == nil {
		t.Error("expected error for nil evaluator")
	}
	bad := quickConfig()
	bad.PopulationSize = 0
	if _, err := New(bad, c, ev); err == nil {
		t.Error("expected config validation to fail construction")
	}
}

func TestRunDeterministicForEqualSeeds(t *testing.T) {
	cfg := quickConfig()
	cfg.Seed = 7

	run := func() *Result {
		o := newTestOptimizer(t, cfg, testConstraints())
		res, err := o.Run(testTemplate(t, 3))
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}
	r1 := run()
	r2 := run()

	if len(r1.History) != len(r2.History) {
		t.Fatalf("history lengths differ: %d vs %d", len(r1.History), len(r2.History))
	}
	for i := range r1.History {
		if r1.History[i] != r2.History[i] {
			t.Fatalf("histories diverge at generation %d: %f vs %f", i, r1.History[i], r2.History[i])
		}
	}
	for i, a := range r1.Best.Assets {
		b := r2.Best.Assets[i]
		if a.Position != b.Position || a.Rotation != b.Rotation {
			t.Errorf("best layouts differ at asset %d", i)
		}
	}
}

func TestRunRespectsGenerationCap(t *testing.T) {
	cfg := quickConfig()
	cfg.MaxGenerations = 5
	cfg.ConvergencePatience = 100

	o := newTestOptimizer(t, cfg, testConstraints())
	res, err := o.Run(testTemplate(t, 2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Generations > 5 {
		t.Errorf("ran %d generations past the cap of 5", res.Generations)
	}
	if len(res.History) != res.Generations+1 {
		t.Errorf("history has %d entries for %d generations", len(res.History), res.Generations)
	}
}

func TestRunHistoryNeverWorsens(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	res, err := o.Run(testTemplate(t, 3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := 1; i < len(res.History); i++ {
		if res.History[i] < res.History[i-1]-1e-9 {
			t.Errorf("best fitness dropped at generation %d: %f -> %f",
				i, res.History[i-1], res.History[i])
		}
	}
}

func TestRunDegenerateSite(t *testing.T) {
	c := &site.ConstraintModel{Boundary: square(0, 0, 10), MinSetback: 20}
	cfg := quickConfig()
	o := newTestOptimizer(t, cfg, c)

	res, err := o.Run(testTemplate(t, 2))
	if !errors.Is(err, ErrEmptyBuildableRegion) {
		t.Fatalf("expected ErrEmptyBuildableRegion, got %v", err)
	}
	if res == nil || res.Best == nil {
		t.Fatal("degenerate run must still return a result with a best layout")
	}
	if !res.Degenerate {
		t.Error("result must carry the degenerate flag")
	}
	if res.Best.Valid {
		t.Error("no layout on a degenerate site can be valid")
	}
}

func TestRunSeparatesBuildings(t *testing.T) {
	cfg := quickConfig()
	cfg.PopulationSize = 60
	cfg.MaxGenerations = 80
	cfg.Seed = 3

	c := testConstraints()
	ev := testEvaluator(t, c)
	o, err := New(cfg, c, ev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := o.Run(testTemplate(t, 2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	report := ev.ValidateSolution(res.Best)
	if !report.Valid {
		t.Fatalf("expected a valid layout for two small buildings on a large site: %s", report.Summary)
	}
	a, b := res.Best.Assets[0], res.Best.Assets[1]
	gap := geo.PolygonDistance(a.Footprint(), b.Footprint())
	if gap < 30 {
		t.Errorf("buildings %0.2fm apart, spacing rule requires 30m", gap)
	}
	for _, x := range res.Best.Assets {
		if !c.Boundary.ContainsPolygon(x.Footprint()) {
			t.Errorf("asset %s extends beyond the boundary", x.ID)
		}
	}
}

func TestRunOversizedAssetStaysInvalid(t *testing.T) {
	cfg := quickConfig()
	cfg.MaxGenerations = 10

	c := testConstraints()
	ev := testEvaluator(t, c)
	o, err := New(cfg, c, ev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	big, err := site.NewAsset("big", "big", site.TypeBuilding, 300, 300, site.Overrides{})
	if err != nil {
		t.Fatalf("NewAsset: %v", err)
	}

	res, err := o.Run([]*site.Asset{big})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Best.Valid {
		t.Error("an asset larger than the site cannot yield a valid layout")
	}
	report := ev.ValidateSolution(res.Best)
	found := false
	for _, v := range report.Blocking {
		if v.Kind == validation.KindOutOfBounds {
			found = true
		}
	}
	if !found {
		t.Error("expected an out_of_bounds violation in the report")
	}
}

func TestRunKeepsSeedQuality(t *testing.T) {
	cfg := quickConfig()
	c := testConstraints()
	ev := testEvaluator(t, c)
	o, err := New(cfg, c, ev)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	template := testTemplate(t, 2)
	seeded := site.NewSolution([]*site.Asset{template[0].Clone(), template[1].Clone()})
	seeded.Assets[0].SetPosition(geo.Pt(60, 100))
	seeded.Assets[1].SetPosition(geo.Pt(140, 100))
	o.SetSeedSolution(seeded)

	baseline := seeded.Clone()
	ev.Evaluate(baseline)

	res, err := o.Run(template)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Best.Fitness < baseline.Fitness-1e-9 {
		t.Errorf("elitism lost the seed layout: best %f below seed %f", res.Best.Fitness, baseline.Fitness)
	}
}

func TestAlternativesAreDistinctLayouts(t *testing.T) {
	cfg := quickConfig()
	cfg.NumAlternatives = 2

	o := newTestOptimizer(t, cfg, testConstraints())
	res, err := o.Run(testTemplate(t, 3))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Alternatives) > 2 {
		t.Fatalf("asked for 2 alternatives, got %d", len(res.Alternatives))
	}
	for i, alt := range res.Alternatives {
		if o.diversity(alt, res.Best) < identicalEps {
			t.Errorf("alternative %d is identical to the best layout", i)
		}
		for j := i + 1; j < len(res.Alternatives); j++ {
			if o.diversity(alt, res.Alternatives[j]) < identicalEps {
				t.Errorf("alternatives %d and %d are identical", i, j)
			}
		}
	}
}

func TestCrossoverBlendsTowardFitterParent(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	template := testTemplate(t, 1)

	p1 := site.NewSolution([]*site.Asset{template[0].Clone()})
	p1.Assets[0].SetPosition(geo.Pt(100, 100))
	p1.Assets[0].SetRotation(90)
	p1.Fitness = 100

	p2 := site.NewSolution([]*site.Asset{template[0].Clone()})
	p2.Assets[0].SetPosition(geo.Pt(0, 0))
	p2.Fitness = 0

	// Full dominance is clamped to a 0.8 weight.
	child := o.crossover(p1, p2)
	pos := child.Assets[0].Position
	if !approxEqual(pos.X, 80, tolerance) || !approxEqual(pos.Y, 80, tolerance) {
		t.Errorf("expected clamped blend at (80,80), got (%f,%f)", pos.X, pos.Y)
	}
	if child.Assets[0].Rotation != 90 {
		t.Errorf("child must inherit the fitter parent's rotation, got %g", child.Assets[0].Rotation)
	}
	if child.Fitness != 0 {
		t.Error("crossover must reset the child's fitness")
	}

	// Argument order must not matter.
	child2 := o.crossover(p2, p1)
	if child2.Assets[0].Position != pos {
		t.Error("crossover must pick the fitter parent regardless of argument order")
	}
}

func TestCrossoverEqualParents(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	template := testTemplate(t, 1)

	p1 := site.NewSolution([]*site.Asset{template[0].Clone()})
	p1.Assets[0].SetPosition(geo.Pt(40, 0))
	p1.Fitness = 50
	p2 := site.NewSolution([]*site.Asset{template[0].Clone()})
	p2.Assets[0].SetPosition(geo.Pt(0, 0))
	p2.Fitness = 50

	child := o.crossover(p1, p2)
	if !approxEqual(child.Assets[0].Position.X, 20, tolerance) {
		t.Errorf("equal parents must blend at the midpoint, got x=%f", child.Assets[0].Position.X)
	}
}

func TestMutationHandlesSmallSolutions(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())

	empty := site.NewSolution(nil)
	o.mutateMove(empty)
	o.mutateRotate(empty)
	o.mutateSwap(empty)

	single := site.NewSolution([]*site.Asset{testTemplate(t, 1)[0]})
	single.Assets[0].SetPosition(geo.Pt(50, 50))
	o.mutateSwap(single)
	if single.Assets[0].Position != geo.Pt(50, 50) {
		t.Error("swap on a single asset must be a no-op")
	}
}

func TestMutateSwapExchangesPositions(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	template := testTemplate(t, 2)
	s := site.NewSolution([]*site.Asset{template[0].Clone(), template[1].Clone()})
	s.Assets[0].SetPosition(geo.Pt(10, 10))
	s.Assets[1].SetPosition(geo.Pt(90, 90))

	o.mutateSwap(s)
	if s.Assets[0].Position != geo.Pt(90, 90) || s.Assets[1].Position != geo.Pt(10, 10) {
		t.Error("swap must exchange the two assets' positions")
	}
}

func TestMutateResetsFitness(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	s := site.NewSolution([]*site.Asset{testTemplate(t, 1)[0]})
	s.Assets[0].SetPosition(geo.Pt(100, 100))
	s.Fitness = 75
	s.Valid = true

	o.mutate(s)
	if s.Fitness != 0 || s.Valid {
		t.Error("mutation must reset fitness and validity")
	}
}

func TestInitializeStrategies(t *testing.T) {
	for _, strategy := range []InitStrategy{InitRandom, InitGrid, InitHeuristic} {
		cfg := quickConfig()
		cfg.Strategy = strategy
		o := newTestOptimizer(t, cfg, testConstraints())

		population := o.initialize(testTemplate(t, 4))
		if len(population) != cfg.PopulationSize {
			t.Fatalf("%s: expected %d members, got %d", strategy, cfg.PopulationSize, len(population))
		}
		for _, s := range population {
			if len(s.Assets) != 4 {
				t.Fatalf("%s: member has %d assets, want 4", strategy, len(s.Assets))
			}
			for _, a := range s.Assets {
				switch a.Rotation {
				case 0, 90, 180, 270:
				default:
					t.Errorf("%s: non-cardinal initial rotation %g", strategy, a.Rotation)
				}
			}
		}
	}
}

func TestInitializeSeedReplacesFirstSlot(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	template := testTemplate(t, 2)

	seeded := site.NewSolution([]*site.Asset{template[0].Clone(), template[1].Clone()})
	seeded.Assets[0].SetPosition(geo.Pt(42, 42))
	seeded.Fitness = 99
	o.SetSeedSolution(seeded)

	population := o.initialize(template)
	if population[0].Assets[0].Position != geo.Pt(42, 42) {
		t.Error("seed solution must occupy slot 0")
	}
	if population[0].Fitness != 0 {
		t.Error("seed slot must be re-evaluated, not trusted")
	}
}

func TestDiversityOfIdenticalLayoutsIsZero(t *testing.T) {
	o := newTestOptimizer(t, quickConfig(), testConstraints())
	template := testTemplate(t, 2)
	s := site.NewSolution([]*site.Asset{template[0].Clone(), template[1].Clone()})
	s.Assets[0].SetPosition(geo.Pt(30, 30))
	s.Assets[1].SetPosition(geo.Pt(120, 120))

	if d := o.diversity(s, s.Clone()); d != 0 {
		t.Errorf("expected zero diversity for identical layouts, got %f", d)
	}

	moved := s.Clone()
	moved.Assets[0].SetPosition(geo.Pt(60, 30))
	if d := o.diversity(s, moved); d <= 0 {
		t.Errorf("expected positive diversity after moving an asset, got %f", d)
	}
}
