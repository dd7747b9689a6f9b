package geo

import "math"

// Rectangle returns the polygon footprint of a width×length rectangle
// centered at center and rotated by rotation degrees counterclockwise.
// Width spans the X axis at zero rotation, length spans Y.
func Rectangle(center Point2D, width, length, rotationDeg float64) Polygon {
	return InflatedRectangle(center, width, length, rotationDeg, 0)
}

// InflatedRectangle returns a rectangle footprint grown outward by margin
// on every side before rotation. A margin of zero yields the plain
// footprint. Corners are square, not rounded; the result slightly
// over-approximates a true buffer at the corners, which is the safe
// direction for spacing checks.
func InflatedRectangle(center Point2D, width, length, rotationDeg, margin float64) Polygon {
	hw := width/2 + margin
	hl := length/2 + margin
	rad := rotationDeg * math.Pi / 180
	corners := []Point2D{
		{-hw, -hl},
		{hw, -hl},
		{hw, hl},
		{-hw, hl},
	}
	pts := make([]Point2D, len(corners))
	for i, c := range corners {
		pts[i] = c.Rotate(rad).Add(center)
	}
	return Polygon{Vertices: pts}
}

// BoundingBoxesOverlap reports whether two axis-aligned boxes, given as
// (min, max) corner pairs, overlap.
func BoundingBoxesOverlap(minA, maxA, minB, maxB Point2D) bool {
	return minA.X <= maxB.X && maxA.X >= minB.X &&
		minA.Y <= maxB.Y && maxA.Y >= minB.Y
}

// NormalizeDegrees maps an angle in degrees to [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}
