package optimize

import (
	"math"
	"sort"

	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// diversityScale puts the diversity term on the same footing as the
// 0-100 fitness scale.
const diversityScale = 100.0

// identicalEps is the diversity below which two layouts count as the
// same layout.
const identicalEps = 1e-9

// selectAlternatives picks up to NumAlternatives further solutions from
// the remaining population, scoring each by a blend of fitness and
// diversity from the best so the result set is good AND meaningfully
// different, not the runner-up near-duplicates of the winner.
func (o *Optimizer) selectAlternatives(population []*site.Solution) []*site.Solution {
	if o.cfg.NumAlternatives == 0 || len(population) < 2 {
		return nil
	}
	best := population[0]
	dw := o.cfg.DiversityWeight

	type candidate struct {
		s        *site.Solution
		div      float64
		combined float64
	}
	candidates := make([]candidate, 0, len(population)-1)
	for _, s := range population[1:] {
		div := o.diversity(s, best)
		candidates = append(candidates, candidate{
			s:        s,
			div:      div,
			combined: (1-dw)*s.Fitness + dw*div*diversityScale,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].combined > candidates[j].combined
	})

	var chosen []*site.Solution
	for _, c := range candidates {
		if len(chosen) >= o.cfg.NumAlternatives {
			break
		}
		if c.div < identicalEps {
			continue
		}
		duplicate := false
		for _, prev := range chosen {
			if o.diversity(c.s, prev) < identicalEps {
				duplicate = true
				break
			}
		}
		if !duplicate {
			chosen = append(chosen, c.s.Clone())
		}
	}
	return chosen
}

// diversity measures how different two layouts are: the mean, over
// shared asset indices, of normalized positional displacement plus a
// smaller normalized rotational displacement term.
func (o *Optimizer) diversity(a, b *site.Solution) float64 {
	n := len(a.Assets)
	if len(b.Assets) < n {
		n = len(b.Assets)
	}
	if n == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		posDisp := a.Assets[i].Position.Distance(b.Assets[i].Position) / o.diagonal
		rotDiff := math.Abs(a.Assets[i].Rotation - b.Assets[i].Rotation)
		if rotDiff > 180 {
			rotDiff = 360 - rotDiff
		}
		total += posDisp + 0.25*rotDiff/180
	}
	return total / float64(n)
}
