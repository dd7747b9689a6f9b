package geo

import "math"

// orient returns the orientation of the triplet (a, b, c):
// >0 counterclockwise, <0 clockwise, 0 collinear.
func orient(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment reports whether point c lies on segment a-b, assuming the
// three points are collinear.
func onSegment(a, b, c Point2D) bool {
	return math.Min(a.X, b.X)-1e-12 <= c.X && c.X <= math.Max(a.X, b.X)+1e-12 &&
		math.Min(a.Y, b.Y)-1e-12 <= c.Y && c.Y <= math.Max(a.Y, b.Y)+1e-12
}

// segmentsIntersect reports whether segments a1-a2 and b1-b2 intersect,
// including touching endpoints and collinear overlap.
func segmentsIntersect(a1, a2, b1, b2 Point2D) bool {
	d1 := orient(b1, b2, a1)
	d2 := orient(b1, b2, a2)
	d3 := orient(a1, a2, b1)
	d4 := orient(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if math.Abs(d1) < 1e-12 && onSegment(b1, b2, a1) {
		return true
	}
	if math.Abs(d2) < 1e-12 && onSegment(b1, b2, a2) {
		return true
	}
	if math.Abs(d3) < 1e-12 && onSegment(a1, a2, b1) {
		return true
	}
	if math.Abs(d4) < 1e-12 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// pointSegmentDistance returns the distance from point p to segment a-b.
func pointSegmentDistance(p, a, b Point2D) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-12 {
		return p.Distance(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(d)/lenSq))
	return p.Distance(a.Lerp(b, t))
}

// segmentSegmentDistance returns the minimum distance between two segments.
// Zero if they intersect.
func segmentSegmentDistance(a1, a2, b1, b2 Point2D) float64 {
	if segmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	d := pointSegmentDistance(a1, b1, b2)
	d = math.Min(d, pointSegmentDistance(a2, b1, b2))
	d = math.Min(d, pointSegmentDistance(b1, a1, a2))
	d = math.Min(d, pointSegmentDistance(b2, a1, a2))
	return d
}

// PolygonsIntersect reports whether two simple polygons overlap, including
// full containment of one in the other. Valid for concave polygons.
func PolygonsIntersect(p, q Polygon) bool {
	if p.IsEmpty() || q.IsEmpty() {
		return false
	}
	np, nq := len(p.Vertices), len(q.Vertices)
	for i := 0; i < np; i++ {
		a1, a2 := p.Edge(i)
		for j := 0; j < nq; j++ {
			b1, b2 := q.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	// No edge crossings: one may still contain the other entirely.
	return p.Contains(q.Vertices[0]) || q.Contains(p.Vertices[0])
}

// PolygonDistance returns the minimum distance between the boundaries of
// two polygons. Zero if they intersect or one contains the other.
func PolygonDistance(p, q Polygon) float64 {
	if p.IsEmpty() || q.IsEmpty() {
		return 0
	}
	if PolygonsIntersect(p, q) {
		return 0
	}
	best := math.Inf(1)
	np, nq := len(p.Vertices), len(q.Vertices)
	for i := 0; i < np; i++ {
		a1, a2 := p.Edge(i)
		for j := 0; j < nq; j++ {
			b1, b2 := q.Edge(j)
			d := segmentSegmentDistance(a1, a2, b1, b2)
			if d < best {
				best = d
			}
		}
	}
	return best
}

// ConvexOverlap tests two convex polygons for overlap using the separating
// axis theorem. Returns the minimum penetration depth when they overlap,
// which callers use to grade how badly two footprints collide.
func ConvexOverlap(p, q Polygon) (bool, float64) {
	if p.IsEmpty() || q.IsEmpty() {
		return false, 0
	}
	minDepth := math.Inf(1)
	for _, poly := range []Polygon{p, q} {
		n := len(poly.Vertices)
		for i := 0; i < n; i++ {
			a, b := poly.Edge(i)
			axis := b.Sub(a)
			// Edge normal.
			axis = Point2D{-axis.Y, axis.X}.Normalize()
			if axis.Length() < 1e-12 {
				continue
			}
			pMin, pMax := projectOntoAxis(p, axis)
			qMin, qMax := projectOntoAxis(q, axis)
			if pMax <= qMin || qMax <= pMin {
				return false, 0
			}
			overlap := math.Min(pMax, qMax) - math.Max(pMin, qMin)
			if overlap < minDepth {
				minDepth = overlap
			}
		}
	}
	return true, minDepth
}

func projectOntoAxis(p Polygon, axis Point2D) (float64, float64) {
	minV := p.Vertices[0].Dot(axis)
	maxV := minV
	for _, v := range p.Vertices[1:] {
		d := v.Dot(axis)
		if d < minV {
			minV = d
		}
		if d > maxV {
			maxV = d
		}
	}
	return minV, maxV
}

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. Returns the intersection polygon.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	clipper = clipper.EnsureCCW()
	output := make([]Point2D, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		input := output
		output = make([]Point2D, 0, len(input))

		for j := 0; j < len(input); j++ {
			current := input[j]
			next := input[(j+1)%len(input)]
			curInside := isInsideEdge(current, edgeStart, edgeEnd)
			nextInside := isInsideEdge(next, edgeStart, edgeEnd)

			if curInside && nextInside {
				output = append(output, next)
			} else if curInside && !nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
			} else if !curInside && nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
				output = append(output, next)
			}
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// OverlapArea returns the area of the intersection of a simple polygon
// with a convex polygon.
func OverlapArea(subject, convexClipper Polygon) float64 {
	return ClipToConvex(subject, convexClipper).Area()
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Y-edgeStart.Y)-
		(edgeEnd.Y-edgeStart.Y)*(p.X-edgeStart.X) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
