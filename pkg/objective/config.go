package objective

import (
	"fmt"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// Config holds the weighted sub-objectives and auxiliary inputs for
// scoring a solution. Weights are fractions; the host derives them from
// percentage sliders. Immutable per run.
type Config struct {
	CostWeight          float64 // earthwork/cost proxy
	AccessibilityWeight float64 // distance to road entry
	RoadLengthWeight    float64 // internal road network proxy
	CompactnessWeight   float64 // footprint area vs layout extent
	SlopeVarianceWeight float64 // terrain uniformity under assets

	Elevation *site.Raster
	Slope     *site.Raster
	RoadEntry geo.Point2D
}

// Validate checks that every weight is non-negative and at least one is
// positive.
func (c Config) Validate() error {
	weights := []struct {
		name string
		w    float64
	}{
		{"cost", c.CostWeight},
		{"accessibility", c.AccessibilityWeight},
		{"road_length", c.RoadLengthWeight},
		{"compactness", c.CompactnessWeight},
		{"slope_variance", c.SlopeVarianceWeight},
	}
	total := 0.0
	for _, w := range weights {
		if w.w < 0 {
			return fmt.Errorf("objective weight %s must be non-negative, got %g", w.name, w.w)
		}
		total += w.w
	}
	if total <= 0 {
		return fmt.Errorf("at least one objective weight must be positive")
	}
	return nil
}
