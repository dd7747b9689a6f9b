package site

// Solution is one candidate layout: an ordered sequence of assets with a
// scalar fitness. The asset order is fixed at construction and never
// changes afterwards; crossover relies on every solution in a population
// holding the same assets at the same indices.
type Solution struct {
	Assets  []*Asset `json:"assets"`
	Fitness float64  `json:"fitness"` // 0 means not yet evaluated
	Valid   bool     `json:"valid"`
}

// NewSolution creates a solution that takes ownership of the given assets.
func NewSolution(assets []*Asset) *Solution {
	return &Solution{Assets: assets}
}

// Clone returns a deep copy: new Asset instances with the same values.
// Mutating a clone's assets never affects the original.
func (s *Solution) Clone() *Solution {
	assets := make([]*Asset, len(s.Assets))
	for i, a := range s.Assets {
		assets[i] = a.Clone()
	}
	return &Solution{
		Assets:  assets,
		Fitness: s.Fitness,
		Valid:   s.Valid,
	}
}

// TotalArea returns the summed footprint area of all assets.
func (s *Solution) TotalArea() float64 {
	total := 0.0
	for _, a := range s.Assets {
		total += a.Area
	}
	return total
}
