package optimize

import (
	"time"

	"github.com/Rhoahndur/siteplanner/pkg/site"
)

// Result is the payload of one optimization run. All solutions it carries
// are deep copies owned by the caller.
type Result struct {
	Best         *site.Solution   `json:"best"`
	Alternatives []*site.Solution `json:"alternatives"`
	Generations  int              `json:"generations"`
	Elapsed      time.Duration    `json:"elapsed"`
	// History holds the best fitness after each generation, including
	// the initial population at index 0.
	History     []float64        `json:"history"`
	TopSnapshot []*site.Solution `json:"top_snapshot"`
	Converged   bool             `json:"converged"`
	TimedOut    bool             `json:"timed_out"`
	Degenerate  bool             `json:"degenerate"`
	// MeanFitness and StdDevFitness describe the final population.
	MeanFitness   float64 `json:"mean_fitness"`
	StdDevFitness float64 `json:"stddev_fitness"`
}
