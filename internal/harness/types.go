package harness

import "github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Report is the deterministic classification report of the run.
	Report Report `json:"report"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Report summarises a run for golden comparison.
type Report struct {
	Scenario    string                     `json:"scenario"`
	RunID       string                     `json:"run_id"`
	Seed        int64                      `json:"seed"`
	Ticks       int64                      `json:"ticks"`
	Activations int                        `json:"activations"`
	Passes      []PassReport               `json:"passes"`
	Failures    []FailureReport            `json:"failures"`
	Messages    map[ir.MessageKind]int64   `json:"messages"`
	Summary     map[ir.Label]int           `json:"summary"`
	Labels      map[ir.EntityID][]ir.Label `json:"labels"`
}

// PassReport is one rule engine pass.
type PassReport struct {
	Tick     int64 `json:"tick"`
	Asserted int   `json:"asserted"`
}

// FailureReport is one isolated activation failure.
type FailureReport struct {
	Tick     int64       `json:"tick"`
	Entity   ir.EntityID `json:"entity"`
	Error    string      `json:"error"`
	Panicked bool        `json:"panicked,omitempty"`
}
