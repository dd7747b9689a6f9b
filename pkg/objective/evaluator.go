package objective

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Rhoahndur/siteplanner/pkg/collide"
	"github.com/Rhoahndur/siteplanner/pkg/site"
	"github.com/Rhoahndur/siteplanner/pkg/validation"
)

// neutralScore is used for sub-objectives whose auxiliary data is absent.
const neutralScore = 50.0

// Evaluator scores solutions against a constraint model. Evaluation is
// idempotent: the same solution content always yields the same fitness.
type Evaluator struct {
	cfg         Config
	constraints *site.ConstraintModel
	engine      *collide.Engine
	diagonal    float64
	siteMean    float64
}

// NewEvaluator builds an evaluator. The config is validated up front.
func NewEvaluator(cfg Config, constraints *site.ConstraintModel) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	engine := collide.NewEngine(constraints)
	if cfg.Slope != nil {
		engine.SetTerrain(cfg.Slope)
	}
	engine.SetRoadEntry(cfg.RoadEntry)

	minP, maxP := constraints.Boundary.BoundingBox()
	diag := maxP.Sub(minP).Length()
	if diag < 1e-9 {
		diag = 1
	}
	ev := &Evaluator{
		cfg:         cfg,
		constraints: constraints,
		engine:      engine,
		diagonal:    diag,
	}
	if cfg.Elevation != nil && len(cfg.Elevation.Values) > 0 {
		ev.siteMean = stat.Mean(cfg.Elevation.Values, nil)
	}
	return ev, nil
}

// Evaluate scores the solution in place, setting Fitness and Valid.
// Fitness is the weighted sum of 0-100 sub-objective scores minus a
// penalty that grows with the count and magnitude of blocking violations,
// so a slightly-overlapping layout still outscores a wildly-overlapping
// one.
func (ev *Evaluator) Evaluate(s *site.Solution) {
	score := ev.cfg.CostWeight*ev.costScore(s) +
		ev.cfg.AccessibilityWeight*ev.accessibilityScore(s) +
		ev.cfg.RoadLengthWeight*ev.roadLengthScore(s) +
		ev.cfg.CompactnessWeight*ev.compactnessScore(s) +
		ev.cfg.SlopeVarianceWeight*ev.slopeVarianceScore(s)

	penalty, blocking := ev.penalty(s)
	s.Fitness = score - penalty
	s.Valid = blocking == 0
}

// ValidateSolution returns the full validation report for a solution,
// including the site coverage check.
func (ev *Evaluator) ValidateSolution(s *site.Solution) *validation.Report {
	report := validation.NewReport()
	results := ev.engine.ValidateMultiplePlacements(s.Assets)
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	// Deterministic report ordering.
	sort.Strings(ids)
	for _, id := range ids {
		report.AddResult(results[id])
	}
	ev.checkCoverage(s, report)
	return report
}

func (ev *Evaluator) checkCoverage(s *site.Solution, report *validation.Report) {
	if ev.constraints.MaxCoverage <= 0 {
		return
	}
	siteArea := ev.constraints.Boundary.Area()
	if siteArea <= 0 {
		return
	}
	coverage := s.TotalArea() / siteArea
	if coverage > ev.constraints.MaxCoverage {
		report.Add(validation.Violation{
			Kind:     validation.KindCoverage,
			Message:  fmt.Sprintf("site coverage %.1f%% exceeds limit %.1f%%", coverage*100, ev.constraints.MaxCoverage*100),
			Severity: validation.SeverityAdvisory,
			Measured: coverage,
			Required: ev.constraints.MaxCoverage,
		})
	}
}

// penalty sums the violation penalty over all assets and counts blocking
// violations. Each pairwise violation is seen from both assets; the
// doubled contribution is deterministic and cancels out in comparisons.
func (ev *Evaluator) penalty(s *site.Solution) (float64, int) {
	results := ev.engine.ValidateMultiplePlacements(s.Assets)
	total := 0.0
	blocking := 0
	for _, a := range s.Assets {
		res := results[a.ID]
		if res == nil {
			continue
		}
		for _, v := range res.Violations {
			if !v.Blocking() {
				continue
			}
			blocking++
			total += violationPenalty(v)
		}
	}
	return total, blocking
}

func violationPenalty(v validation.Violation) float64 {
	const base = 50.0
	switch v.Kind {
	case validation.KindCollision:
		// Measured is the penetration depth.
		return base + 10*v.Measured
	case validation.KindSpacing:
		return base + 5*(v.Required-v.Measured)
	case validation.KindExclusionZone:
		// Measured is the overlap area.
		return base + 0.5*v.Measured
	case validation.KindSetback:
		return base + 5*(v.Required-v.Measured)
	case validation.KindOutOfBounds:
		return 2 * base
	default:
		return base
	}
}

// costScore approximates earthwork cost by how far asset pads sit from
// the site's mean elevation. Neutral without an elevation raster.
func (ev *Evaluator) costScore(s *site.Solution) float64 {
	if ev.cfg.Elevation == nil || len(s.Assets) == 0 {
		return neutralScore
	}
	dev := 0.0
	n := 0
	for _, a := range s.Assets {
		if v, ok := ev.cfg.Elevation.Sample(a.Position); ok {
			dev += math.Abs(v - ev.siteMean)
			n++
		}
	}
	if n == 0 {
		return neutralScore
	}
	return clampScore(100 - 10*dev/float64(n))
}

// accessibilityScore rewards layouts whose assets sit close to the road
// entry point, normalized by the site diagonal.
func (ev *Evaluator) accessibilityScore(s *site.Solution) float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	total := 0.0
	for _, a := range s.Assets {
		total += a.Position.Distance(ev.cfg.RoadEntry)
	}
	mean := total / float64(len(s.Assets))
	return clampScore(100 * (1 - mean/ev.diagonal))
}

// roadLengthScore proxies internal road length with a minimum spanning
// tree over asset centers plus the road entry.
func (ev *Evaluator) roadLengthScore(s *site.Solution) float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	length := RoadNetworkLength(ev.cfg.RoadEntry, s)
	return clampScore(100 * (1 - length/(ev.diagonal*float64(len(s.Assets)))))
}

// compactnessScore is the ratio of summed footprint area to the area of
// the layout's bounding box.
func (ev *Evaluator) compactnessScore(s *site.Solution) float64 {
	if len(s.Assets) == 0 {
		return 0
	}
	minP, maxP := s.Assets[0].BoundingBox()
	for _, a := range s.Assets[1:] {
		aMin, aMax := a.BoundingBox()
		minP.X = math.Min(minP.X, aMin.X)
		minP.Y = math.Min(minP.Y, aMin.Y)
		maxP.X = math.Max(maxP.X, aMax.X)
		maxP.Y = math.Max(maxP.Y, aMax.Y)
	}
	extent := (maxP.X - minP.X) * (maxP.Y - minP.Y)
	if extent < 1e-9 {
		return 100
	}
	ratio := s.TotalArea() / extent
	return clampScore(100 * ratio)
}

// slopeVarianceScore rewards placing assets on uniformly-sloped ground.
// Neutral without a slope raster.
func (ev *Evaluator) slopeVarianceScore(s *site.Solution) float64 {
	if ev.cfg.Slope == nil || len(s.Assets) < 2 {
		return neutralScore
	}
	samples := make([]float64, 0, len(s.Assets))
	for _, a := range s.Assets {
		if v, ok := ev.cfg.Slope.Sample(a.Position); ok {
			samples = append(samples, v)
		}
	}
	if len(samples) < 2 {
		return neutralScore
	}
	return clampScore(100 - stat.Variance(samples, nil))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
