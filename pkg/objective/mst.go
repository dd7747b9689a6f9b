package objective

import (
	"math"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// RoadNetworkLength returns the minimum-spanning-tree length over the
// road entry point and every asset center. This is the proxy for
// internal road length used by both scoring and cost estimation.
func RoadNetworkLength(entry geo.Point2D, s *site.Solution) float64 {
	pts := make([]geo.Point2D, 0, len(s.Assets)+1)
	pts = append(pts, entry)
	for _, a := range s.Assets {
		pts = append(pts, a.Position)
	}
	return mstLength(pts)
}

// mstLength returns the total edge length of a minimum spanning tree over
// the given points, built with Prim's algorithm. Fine for the asset
// counts this optimizer sees.
func mstLength(pts []geo.Point2D) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	inTree := make([]bool, n)
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	inTree[0] = true
	for i := 1; i < n; i++ {
		dist[i] = pts[0].Distance(pts[i])
	}

	total := 0.0
	for added := 1; added < n; added++ {
		best := -1
		for i := 0; i < n; i++ {
			if !inTree[i] && (best < 0 || dist[i] < dist[best]) {
				best = i
			}
		}
		inTree[best] = true
		total += dist[best]
		for i := 0; i < n; i++ {
			if !inTree[i] {
				if d := pts[best].Distance(pts[i]); d < dist[i] {
					dist[i] = d
				}
			}
		}
	}
	return total
}
