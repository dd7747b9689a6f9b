package collide

import (
	"fmt"
	"sort"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
	"github.com/Rhoahndur/siteplanner/pkg/validation"
)

// Engine runs the two-tier collision checks for one optimization run.
// Its spatial index is mutable state scoped to the engine instance; one
// engine must not be shared across concurrent runs.
type Engine struct {
	constraints *site.ConstraintModel
	index       SpatialIndex
	assets      map[string]*site.Asset
	dirty       bool
	maxSpacing  float64

	slope     *site.Raster
	roadEntry *geo.Point2D
}

// NewEngine creates a collision engine over the given constraint model,
// using a grid-bucket spatial index.
func NewEngine(constraints *site.ConstraintModel) *Engine {
	return NewEngineWithIndex(constraints, NewGridIndex(50))
}

// NewEngineWithIndex creates a collision engine with a caller-supplied
// spatial index implementation.
func NewEngineWithIndex(constraints *site.ConstraintModel, index SpatialIndex) *Engine {
	return &Engine{
		constraints: constraints,
		index:       index,
		assets:      make(map[string]*site.Asset),
		maxSpacing:  maxDefaultSpacing(),
	}
}

// SetTerrain attaches a slope raster used for advisory max-slope checks.
func (e *Engine) SetTerrain(slope *site.Raster) {
	e.slope = slope
}

// SetRoadEntry attaches the road entry point used for advisory
// road-access distance checks.
func (e *Engine) SetRoadEntry(pt geo.Point2D) {
	e.roadEntry = &pt
}

// AddAsset registers an asset with the engine. The index is marked dirty
// and rebuilt lazily on the next query.
func (e *Engine) AddAsset(a *site.Asset) {
	e.assets[a.ID] = a
	if a.MinSpacing > e.maxSpacing {
		e.maxSpacing = a.MinSpacing
	}
	e.dirty = true
}

// RemoveAsset unregisters an asset.
func (e *Engine) RemoveAsset(id string) {
	delete(e.assets, id)
	e.dirty = true
}

// Clear removes every registered asset.
func (e *Engine) Clear() {
	e.assets = make(map[string]*site.Asset)
	e.index.Clear()
	e.maxSpacing = maxDefaultSpacing()
	e.dirty = false
}

// rebuild repopulates the index from the registered assets. Ids are
// iterated in sorted order so runs stay reproducible.
func (e *Engine) rebuild() {
	e.index.Clear()
	ids := make([]string, 0, len(e.assets))
	for id := range e.assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		minP, maxP := e.assets[id].BoundingBox()
		e.index.Insert(id, minP, maxP)
	}
	e.dirty = false
}

// BroadPhaseOverlap is the cheap axis-aligned bounding-box test. A false
// result rules out any overlap; a true result only nominates the pair for
// the narrow phase.
func (e *Engine) BroadPhaseOverlap(a, b *site.Asset) bool {
	minA, maxA := a.BoundingBox()
	minB, maxB := b.BoundingBox()
	return geo.BoundingBoxesOverlap(minA, maxA, minB, maxB)
}

// NarrowPhaseOverlap is the exact intersection test on the two rotated
// footprints. Also returns the penetration depth, which grades how badly
// the pair overlaps.
func (e *Engine) NarrowPhaseOverlap(a, b *site.Asset) (bool, float64) {
	return geo.ConvexOverlap(a.Footprint(), b.Footprint())
}

// CheckSpacing measures the true boundary-to-boundary separation between
// two footprints and compares it to the required spacing. The measurement
// is symmetric in its arguments.
func (e *Engine) CheckSpacing(a, b *site.Asset) (bool, float64, float64) {
	required := e.RequiredSpacing(a, b)
	measured := geo.PolygonDistance(a.Footprint(), b.Footprint())
	return measured >= required, measured, required
}

// FindCandidates returns ids of registered assets whose bounding region
// lies within a generous radius of the query asset. The radius covers the
// largest spacing rule in play, so no real conflict can be filtered out
// here.
func (e *Engine) FindCandidates(a *site.Asset) []string {
	if e.dirty {
		e.rebuild()
	}
	minP, maxP := a.BoundingBox()
	margin := e.maxSpacing
	if a.MinSpacing > margin {
		margin = a.MinSpacing
	}
	if e.constraints != nil && e.constraints.MinSpacing > margin {
		margin = e.constraints.MinSpacing
	}
	minP.X -= margin
	minP.Y -= margin
	maxP.X += margin
	maxP.Y += margin
	return e.index.Search(minP, maxP)
}

// CheckCollisions checks the asset against every candidate near it,
// returning a collision violation for each true overlap and a spacing
// violation for each non-overlapping pair that sits too close. The broad
// phase only gates the narrow phase; spacing is measured for every
// candidate, since a too-close pair usually has disjoint bounding boxes.
// Ids in exclude are skipped.
func (e *Engine) CheckCollisions(a *site.Asset, exclude map[string]bool) []validation.Violation {
	var violations []validation.Violation
	for _, id := range e.FindCandidates(a) {
		if id == a.ID || exclude[id] {
			continue
		}
		other := e.assets[id]
		if other == nil {
			continue
		}
		if e.BroadPhaseOverlap(a, other) {
			if hit, depth := e.NarrowPhaseOverlap(a, other); hit {
				violations = append(violations, validation.Violation{
					Kind:     validation.KindCollision,
					AssetIDs: []string{a.ID, id},
					Message:  fmt.Sprintf("%s overlaps %s by %.2fm", a.ID, id, depth),
					Severity: validation.SeverityBlocking,
					Measured: depth,
				})
				continue
			}
		}
		if ok, measured, required := e.CheckSpacing(a, other); !ok {
			violations = append(violations, validation.Violation{
				Kind:     validation.KindSpacing,
				AssetIDs: []string{a.ID, id},
				Message:  fmt.Sprintf("%s is %.2fm from %s, requires %.2fm", a.ID, measured, id, required),
				Severity: validation.SeverityBlocking,
				Measured: measured,
				Required: required,
			})
		}
	}
	return violations
}

// ValidatePlacement checks a single asset against the site geometry:
// boundary containment, setback, exclusion zones, and buildable zones.
// Advisory slope and road-access checks run when the engine carries the
// relevant data. Other assets are not consulted; see CheckCollisions.
func (e *Engine) ValidatePlacement(a *site.Asset) *validation.Result {
	res := validation.NewResult()
	c := e.constraints
	if c == nil {
		return res
	}
	fp := a.Footprint()

	if !c.Boundary.ContainsPolygon(fp) {
		msg := fmt.Sprintf("%s extends beyond the site boundary", a.ID)
		if !anyVertexInside(c.Boundary, fp) {
			msg = fmt.Sprintf("%s is completely outside the site boundary", a.ID)
		}
		res.Add(validation.Violation{
			Kind:     validation.KindOutOfBounds,
			AssetIDs: []string{a.ID},
			Message:  msg,
			Severity: validation.SeverityBlocking,
		})
	} else if setback := e.effectiveSetback(a); setback > 0 {
		closest := boundaryClearance(c.Boundary, fp)
		if closest < setback {
			res.Add(validation.Violation{
				Kind:     validation.KindSetback,
				AssetIDs: []string{a.ID},
				Message:  fmt.Sprintf("%s is %.2fm from the boundary, setback requires %.2fm", a.ID, closest, setback),
				Severity: validation.SeverityBlocking,
				Measured: closest,
				Required: setback,
			})
		}
	}

	for i, zone := range c.ExclusionZones {
		if !geo.PolygonsIntersect(fp, zone) {
			continue
		}
		overlap := geo.OverlapArea(zone, fp)
		msg := fmt.Sprintf("%s extends into exclusion zone %d (%.1f sq m)", a.ID, i, overlap)
		if zone.ContainsPolygon(fp) {
			msg = fmt.Sprintf("%s lies entirely within exclusion zone %d", a.ID, i)
		}
		res.Add(validation.Violation{
			Kind:     validation.KindExclusionZone,
			AssetIDs: []string{a.ID},
			Message:  msg,
			Severity: validation.SeverityBlocking,
			Measured: overlap,
		})
	}

	if len(c.BuildableZones) > 0 {
		inside := false
		for _, z := range c.BuildableZones {
			if z.ContainsPolygon(fp) {
				inside = true
				break
			}
		}
		if !inside {
			res.Add(validation.Violation{
				Kind:     validation.KindSetback,
				AssetIDs: []string{a.ID},
				Message:  fmt.Sprintf("%s is not fully within a buildable zone", a.ID),
				Severity: validation.SeverityBlocking,
			})
		}
	}

	e.checkSlope(a, res)
	e.checkRoadAccess(a, res)
	return res
}

// ValidateMultiplePlacements validates every asset in the slice, using the
// full set as mutual collision and spacing context. The engine's own
// spatial index is borrowed for the duration of the call; the registered
// asset set is restored before returning.
func (e *Engine) ValidateMultiplePlacements(assets []*site.Asset) map[string]*validation.Result {
	savedAssets, savedMax := e.assets, e.maxSpacing
	e.assets = make(map[string]*site.Asset, len(assets))
	for _, a := range assets {
		e.AddAsset(a)
	}

	results := make(map[string]*validation.Result, len(assets))
	for _, a := range assets {
		res := e.ValidatePlacement(a)
		for _, v := range e.CheckCollisions(a, nil) {
			res.Add(v)
		}
		results[a.ID] = res
	}

	e.assets, e.maxSpacing = savedAssets, savedMax
	e.dirty = true
	return results
}

// ClearanceZone returns the asset footprint expanded by the given
// distance, for callers pre-screening a candidate location.
func (e *Engine) ClearanceZone(a *site.Asset, distance float64) geo.Polygon {
	return geo.InflatedRectangle(a.Position, a.Width, a.Length, a.Rotation, distance)
}

// effectiveSetback returns the setback that applies to this asset: the
// per-asset override when present, else the site minimum.
func (e *Engine) effectiveSetback(a *site.Asset) float64 {
	if a.MinSetback > 0 {
		return a.MinSetback
	}
	return e.constraints.MinSetback
}

func (e *Engine) checkSlope(a *site.Asset, res *validation.Result) {
	if e.slope == nil || a.MaxSlope <= 0 {
		return
	}
	s, ok := e.slope.Sample(a.Position)
	if ok && s > a.MaxSlope {
		res.Add(validation.Violation{
			Kind:     validation.KindSlope,
			AssetIDs: []string{a.ID},
			Message:  fmt.Sprintf("%s sits on %.1f%% slope, tolerates %.1f%%", a.ID, s, a.MaxSlope),
			Severity: validation.SeverityAdvisory,
			Measured: s,
			Required: a.MaxSlope,
		})
	}
}

func (e *Engine) checkRoadAccess(a *site.Asset, res *validation.Result) {
	if e.roadEntry == nil || !e.constraints.RoadAccessRequired {
		return
	}
	d := a.Position.Distance(*e.roadEntry)
	if a.MaxRoadDistance > 0 && d > a.MaxRoadDistance {
		res.Add(validation.Violation{
			Kind:     validation.KindRoadAccess,
			AssetIDs: []string{a.ID},
			Message:  fmt.Sprintf("%s is %.0fm from road access, max is %.0fm", a.ID, d, a.MaxRoadDistance),
			Severity: validation.SeverityAdvisory,
			Measured: d,
			Required: a.MaxRoadDistance,
		})
	}
	if a.MinRoadDistance > 0 && d < a.MinRoadDistance {
		res.Add(validation.Violation{
			Kind:     validation.KindRoadAccess,
			AssetIDs: []string{a.ID},
			Message:  fmt.Sprintf("%s is %.0fm from road access, min is %.0fm", a.ID, d, a.MinRoadDistance),
			Severity: validation.SeverityAdvisory,
			Measured: d,
			Required: a.MinRoadDistance,
		})
	}
}

// anyVertexInside reports whether any vertex of fp is inside the polygon.
func anyVertexInside(p, fp geo.Polygon) bool {
	for _, v := range fp.Vertices {
		if p.Contains(v) {
			return true
		}
	}
	return false
}

// boundaryClearance returns the smallest distance from any footprint
// vertex to the boundary edge. Assumes the footprint is inside the
// boundary.
func boundaryClearance(boundary, fp geo.Polygon) float64 {
	closest := -1.0
	for _, v := range fp.Vertices {
		d := boundary.DistanceToPoint(v)
		if closest < 0 || d < closest {
			closest = d
		}
	}
	if closest < 0 {
		return 0
	}
	return closest
}
