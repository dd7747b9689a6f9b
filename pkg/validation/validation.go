package validation

import "fmt"

// Kind categorizes a single failed placement check.
type Kind string

const (
	KindCollision     Kind = "collision"
	KindSpacing       Kind = "spacing"
	KindOutOfBounds   Kind = "out_of_bounds"
	KindExclusionZone Kind = "exclusion_zone"
	KindSetback       Kind = "setback"
	KindCoverage      Kind = "coverage"
	KindSlope         Kind = "slope"
	KindRoadAccess    Kind = "road_access"
)

// Severity indicates whether a violation invalidates a layout or merely
// flags it for review.
type Severity string

const (
	SeverityBlocking Severity = "blocking"
	SeverityAdvisory Severity = "advisory"
)

// Violation is a single failed check against an asset or asset pair.
// Measured and Required carry distances for spacing violations and are
// zero otherwise.
type Violation struct {
	Kind     Kind     `json:"kind"`
	AssetIDs []string `json:"asset_ids"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Measured float64  `json:"measured,omitempty"`
	Required float64  `json:"required,omitempty"`
}

// Blocking reports whether the violation invalidates its layout.
func (v Violation) Blocking() bool {
	return v.Severity == SeverityBlocking
}

// Result is the outcome of validating one asset placement.
type Result struct {
	IsValid    bool        `json:"is_valid"`
	Violations []Violation `json:"violations"`
}

// NewResult creates an empty valid result.
func NewResult() *Result {
	return &Result{IsValid: true, Violations: []Violation{}}
}

// Add records a violation; blocking violations mark the result invalid.
func (r *Result) Add(v Violation) {
	r.Violations = append(r.Violations, v)
	if v.Blocking() {
		r.IsValid = false
	}
}

// Report is the aggregate validation output for a whole layout.
type Report struct {
	Valid    bool        `json:"valid"`
	Blocking []Violation `json:"blocking"`
	Advisory []Violation `json:"advisory"`
	Summary  string      `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Blocking: []Violation{},
		Advisory: []Violation{},
	}
}

// Add records a violation at its own severity.
func (r *Report) Add(v Violation) {
	if v.Blocking() {
		r.Blocking = append(r.Blocking, v)
		r.Valid = false
	} else {
		r.Advisory = append(r.Advisory, v)
	}
	r.updateSummary()
}

// AddResult folds one asset's validation result into the report.
func (r *Report) AddResult(res *Result) {
	for _, v := range res.Violations {
		r.Add(v)
	}
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Blocking = append(r.Blocking, other.Blocking...)
	r.Advisory = append(r.Advisory, other.Advisory...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d blocking, %d advisory",
		len(r.Blocking), len(r.Advisory))
}
