package site

import "github.com/Rhoahndur/siteplanner/pkg/geo"

// ConstraintModel holds the site geometry and numeric limits a layout
// must respect. It is immutable for the duration of one optimization run.
type ConstraintModel struct {
	// Boundary is the outer development limit.
	Boundary geo.Polygon
	// BuildableZones, when present, restrict placement to their union
	// instead of the raw boundary.
	BuildableZones []geo.Polygon
	// ExclusionZones are always forbidden, regardless of buildable zones.
	ExclusionZones []geo.Polygon

	MinSetback         float64 // meters from the boundary
	MinSpacing         float64 // site-wide floor between any two assets
	MaxCoverage        float64 // fraction of boundary area, 0 = unlimited
	RoadAccessRequired bool
	MaxRoadLength      float64 // meters, 0 = unlimited
}

// BuildableBounds returns the axis-aligned window candidate positions are
// sampled from: the union bbox of the explicit buildable zones, or the
// boundary bbox inset by the setback.
func (c *ConstraintModel) BuildableBounds() (geo.Point2D, geo.Point2D) {
	if len(c.BuildableZones) > 0 {
		minP, maxP := c.BuildableZones[0].BoundingBox()
		for _, z := range c.BuildableZones[1:] {
			zMin, zMax := z.BoundingBox()
			if zMin.X < minP.X {
				minP.X = zMin.X
			}
			if zMin.Y < minP.Y {
				minP.Y = zMin.Y
			}
			if zMax.X > maxP.X {
				maxP.X = zMax.X
			}
			if zMax.Y > maxP.Y {
				maxP.Y = zMax.Y
			}
		}
		return minP, maxP
	}
	minP, maxP := c.Boundary.BoundingBox()
	minP.X += c.MinSetback
	minP.Y += c.MinSetback
	maxP.X -= c.MinSetback
	maxP.Y -= c.MinSetback
	return minP, maxP
}

// BuildableArea estimates the area available for placement: the summed
// area of explicit buildable zones, or the boundary area minus a setback
// ring along the perimeter.
func (c *ConstraintModel) BuildableArea() float64 {
	if len(c.BuildableZones) > 0 {
		total := 0.0
		for _, z := range c.BuildableZones {
			total += z.Area()
		}
		return total
	}
	area := c.Boundary.Area() - c.Boundary.Perimeter()*c.MinSetback
	if area < 0 {
		return 0
	}
	return area
}

// Degenerate reports whether no valid placement can exist: an empty or
// collapsed buildable region.
func (c *ConstraintModel) Degenerate() bool {
	if c.BuildableArea() <= 0 {
		return true
	}
	minP, maxP := c.BuildableBounds()
	return minP.X >= maxP.X || minP.Y >= maxP.Y
}

// ContainsPoint reports whether a point lies in the placement region:
// inside a buildable zone when zones are explicit, else inside the
// boundary and clear of the setback.
func (c *ConstraintModel) ContainsPoint(pt geo.Point2D) bool {
	if len(c.BuildableZones) > 0 {
		for _, z := range c.BuildableZones {
			if z.Contains(pt) {
				return true
			}
		}
		return false
	}
	if !c.Boundary.Contains(pt) {
		return false
	}
	return c.MinSetback <= 0 || c.Boundary.DistanceToPoint(pt) >= c.MinSetback
}

// InBuildableRegion reports whether the footprint is fully contained in
// the placement region: inside every constraint that applies. It does not
// check exclusion zones or other assets.
func (c *ConstraintModel) InBuildableRegion(footprint geo.Polygon) bool {
	if len(c.BuildableZones) > 0 {
		for _, z := range c.BuildableZones {
			if z.ContainsPolygon(footprint) {
				return true
			}
		}
		return false
	}
	if !c.Boundary.ContainsPolygon(footprint) {
		return false
	}
	if c.MinSetback > 0 {
		for _, v := range footprint.Vertices {
			if c.Boundary.DistanceToPoint(v) < c.MinSetback {
				return false
			}
		}
	}
	return true
}
