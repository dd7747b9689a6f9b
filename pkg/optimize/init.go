package optimize

import (
	"math"
	"sort"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// placementAttempts bounds how many random positions each asset tries
// before being placed anyway at the last one. Overlaps left behind are
// surfaced as violations and resolved by later generations, not treated
// as errors.
const placementAttempts = 40

// positionSampleAttempts bounds how many bbox samples are drawn looking
// for a point inside the buildable region.
const positionSampleAttempts = 20

var cardinalRotations = [4]float64{0, 90, 180, 270}

// initialize builds the starting population using the configured
// strategy. A caller-supplied seed solution replaces slot 0 verbatim.
func (o *Optimizer) initialize(template []*site.Asset) []*site.Solution {
	population := make([]*site.Solution, o.cfg.PopulationSize)
	for i := range population {
		switch o.cfg.Strategy {
		case InitGrid:
			population[i] = o.initGridMember(template)
		case InitHeuristic:
			population[i] = o.initHeuristicMember(template)
		default:
			population[i] = o.initRandomMember(template)
		}
	}
	if o.seed != nil {
		population[0] = o.seed.Clone()
		population[0].Fitness = 0
	}
	return population
}

// initRandomMember scatters each asset at the first screened random
// position whose footprint and spacing zone keep clear of the assets
// already placed in the same member.
func (o *Optimizer) initRandomMember(template []*site.Asset) *site.Solution {
	assets := cloneAssets(template)
	for i, a := range assets {
		a.SetRotation(cardinalRotations[o.rng.IntN(4)])
		for attempt := 0; attempt < placementAttempts; attempt++ {
			a.SetPosition(o.randomBuildablePoint())
			if !zoneIntersectsAny(a.SpacingZone(), assets[:i]) {
				break
			}
		}
		// An exhausted budget leaves the asset at its last tried spot;
		// the search repairs the overlap over generations.
	}
	return site.NewSolution(assets)
}

// initGridMember arranges assets on a roughly-square grid spanning the
// buildable bounds, jittered within a quarter cell.
func (o *Optimizer) initGridMember(template []*site.Asset) *site.Solution {
	assets := cloneAssets(template)
	n := len(assets)
	if n == 0 {
		return site.NewSolution(assets)
	}
	minP, maxP := o.constraints.BuildableBounds()
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	cellW := (maxP.X - minP.X) / float64(cols)
	cellH := (maxP.Y - minP.Y) / float64(rows)

	for i, a := range assets {
		col := i % cols
		row := i / cols
		cx := minP.X + (float64(col)+0.5)*cellW
		cy := minP.Y + (float64(row)+0.5)*cellH
		jx := (o.rng.Float64() - 0.5) * cellW / 2
		jy := (o.rng.Float64() - 0.5) * cellH / 2
		a.SetPosition(geo.Pt(cx+jx, cy+jy))
		a.SetRotation(cardinalRotations[o.rng.IntN(4)])
	}
	return site.NewSolution(assets)
}

// initHeuristicMember places assets on concentric rings around the
// buildable center, higher priority closer in. Only the placement order
// follows priority; the solution's asset order stays aligned with the
// template.
func (o *Optimizer) initHeuristicMember(template []*site.Asset) *site.Solution {
	assets := cloneAssets(template)
	n := len(assets)
	if n == 0 {
		return site.NewSolution(assets)
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return assets[order[x]].Priority > assets[order[y]].Priority
	})

	minP, maxP := o.constraints.BuildableBounds()
	center := minP.Lerp(maxP, 0.5)
	ringStep := o.ringStep(assets)

	ring := 0
	posInRing := 0
	capacity := 1
	for _, idx := range order {
		a := assets[idx]
		if posInRing >= capacity {
			ring++
			posInRing = 0
			circumference := 2 * math.Pi * float64(ring) * ringStep
			capacity = int(circumference / ringStep)
			if capacity < 3 {
				capacity = 3
			}
		}
		radius := float64(ring) * ringStep
		angle := 2 * math.Pi * float64(posInRing) / float64(capacity)
		jitter := geo.Pt(
			(o.rng.Float64()-0.5)*ringStep*0.3,
			(o.rng.Float64()-0.5)*ringStep*0.3,
		)
		a.SetPosition(geo.Pt(
			center.X+radius*math.Cos(angle),
			center.Y+radius*math.Sin(angle),
		).Add(jitter))
		a.SetRotation(cardinalRotations[o.rng.IntN(4)])
		posInRing++
	}
	return site.NewSolution(assets)
}

// ringStep spaces heuristic rings by the largest asset extent plus the
// site spacing floor.
func (o *Optimizer) ringStep(assets []*site.Asset) float64 {
	maxDim := 0.0
	for _, a := range assets {
		d := math.Max(a.Width, a.Length)
		if d > maxDim {
			maxDim = d
		}
	}
	step := maxDim + o.constraints.MinSpacing
	if step < 10 {
		step = 10
	}
	return step
}

// randomBuildablePoint samples the buildable bounds until a point lands
// inside the buildable region, falling back to the last sample when the
// budget runs out.
func (o *Optimizer) randomBuildablePoint() geo.Point2D {
	minP, maxP := o.constraints.BuildableBounds()
	var pt geo.Point2D
	for i := 0; i < positionSampleAttempts; i++ {
		pt = geo.Pt(
			minP.X+o.rng.Float64()*(maxP.X-minP.X),
			minP.Y+o.rng.Float64()*(maxP.Y-minP.Y),
		)
		if o.constraints.ContainsPoint(pt) {
			return pt
		}
	}
	return pt
}

// zoneIntersectsAny reports whether the zone polygon overlaps any of the
// given assets' footprints, with a bounding-box prefilter.
func zoneIntersectsAny(zone geo.Polygon, placed []*site.Asset) bool {
	zMin, zMax := zone.BoundingBox()
	for _, b := range placed {
		bMin, bMax := b.BoundingBox()
		if !geo.BoundingBoxesOverlap(zMin, zMax, bMin, bMax) {
			continue
		}
		if hit, _ := geo.ConvexOverlap(zone, b.Footprint()); hit {
			return true
		}
	}
	return false
}
