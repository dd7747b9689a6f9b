package optimize

import (
	"math"

	"github.com/Rhoahndur/siteplanner/pkg/geo"
	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// moveAttempts bounds how many small translations the move mutation
// tries before reverting.
const moveAttempts = 6

// crossover blends two parents into a child: per asset index the child's
// position is a weighted average biased toward the fitter parent, and
// the fitter parent's rotation is inherited. The weight is confined to
// [0.2, 0.8] so neither parent dominates completely.
func (o *Optimizer) crossover(p1, p2 *site.Solution) *site.Solution {
	fitter, other := p1, p2
	if p2.Fitness > p1.Fitness {
		fitter, other = p2, p1
	}
	diff := fitter.Fitness - other.Fitness
	denom := math.Abs(fitter.Fitness) + math.Abs(other.Fitness) + 1e-9
	w := 0.5 + 0.5*diff/denom
	if w < 0.2 {
		w = 0.2
	}
	if w > 0.8 {
		w = 0.8
	}

	child := fitter.Clone()
	n := len(child.Assets)
	if len(other.Assets) < n {
		n = len(other.Assets)
	}
	for i := 0; i < n; i++ {
		fa := fitter.Assets[i]
		oa := other.Assets[i]
		child.Assets[i].SetPosition(fa.Position.Scale(w).Add(oa.Position.Scale(1 - w)))
		child.Assets[i].SetRotation(fa.Rotation)
	}
	child.Fitness = 0
	child.Valid = false
	return child
}

// mutate applies one operator chosen uniformly at random. All operators
// are no-ops on solutions too small for them.
func (o *Optimizer) mutate(s *site.Solution) {
	switch o.rng.IntN(3) {
	case 0:
		o.mutateMove(s)
	case 1:
		o.mutateRotate(s)
	default:
		o.mutateSwap(s)
	}
	s.Fitness = 0
	s.Valid = false
}

// mutateMove nudges one asset by bounded random translations, keeping
// the first that collides with nothing else in the solution, else
// reverting.
func (o *Optimizer) mutateMove(s *site.Solution) {
	if len(s.Assets) == 0 {
		return
	}
	idx := o.rng.IntN(len(s.Assets))
	a := s.Assets[idx]
	original := a.Position
	for attempt := 0; attempt < moveAttempts; attempt++ {
		dx := (o.rng.Float64() - 0.5) * 2 * o.moveStep
		dy := (o.rng.Float64() - 0.5) * 2 * o.moveStep
		a.SetPosition(original.Add(geo.Pt(dx, dy)))
		if !collidesWithin(s, idx) {
			return
		}
	}
	a.SetPosition(original)
}

// mutateRotate tries the other three cardinal rotations in random order,
// keeping the first collision-free one, else reverting.
func (o *Optimizer) mutateRotate(s *site.Solution) {
	if len(s.Assets) == 0 {
		return
	}
	idx := o.rng.IntN(len(s.Assets))
	a := s.Assets[idx]
	original := a.Rotation

	var options []float64
	for _, r := range cardinalRotations {
		if r != original {
			options = append(options, r)
		}
	}
	o.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	for _, r := range options {
		a.SetRotation(r)
		if !collidesWithin(s, idx) {
			return
		}
	}
	a.SetRotation(original)
}

// mutateSwap exchanges two assets' positions outright. Deliberately no
// collision check: swap is the disruptive operator, and later
// generations are relied on to resolve whatever it breaks.
func (o *Optimizer) mutateSwap(s *site.Solution) {
	if len(s.Assets) < 2 {
		return
	}
	i := o.rng.IntN(len(s.Assets))
	j := o.rng.IntN(len(s.Assets) - 1)
	if j >= i {
		j++
	}
	pi, pj := s.Assets[i].Position, s.Assets[j].Position
	s.Assets[i].SetPosition(pj)
	s.Assets[j].SetPosition(pi)
}

// collidesWithin reports whether the asset at idx overlaps any other
// asset in the same solution, with a bounding-box prefilter.
func collidesWithin(s *site.Solution, idx int) bool {
	a := s.Assets[idx]
	aMin, aMax := a.BoundingBox()
	fp := a.Footprint()
	for j, b := range s.Assets {
		if j == idx {
			continue
		}
		bMin, bMax := b.BoundingBox()
		if !geo.BoundingBoxesOverlap(aMin, aMax, bMin, bMax) {
			continue
		}
		if hit, _ := geo.ConvexOverlap(fp, b.Footprint()); hit {
			return true
		}
	}
	return false
}
