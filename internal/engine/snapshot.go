package engine

import (
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/bus"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Snapshot is the immutable per-tick report handed to a Sink.
// Every map and slice in it is a fresh copy owned by the receiver.
type Snapshot struct {
	RunID string `json:"run_id"`
	Tick  int64  `json:"tick"`

	// Evaluated is true when a rule pass ran in this tick.
	Evaluated bool `json:"evaluated"`

	// Asserted is the label count of this tick's pass, if any.
	Asserted int `json:"asserted"`

	// Labels counts entities per label as of the latest pass.
	Labels map[ir.Label]int `json:"labels"`

	Aggregates facts.Aggregates `json:"aggregates"`
	Messages   bus.Stats        `json:"messages"`

	// Activations and Failures count this tick only.
	Activations int `json:"activations"`
	Failures    int `json:"failures"`

	// Kernel counters since the run began.
	RulePasses    int   `json:"rule_passes"`
	TotalFailures int64 `json:"total_failures"`

	// Published holds the messages published during this tick that are
	// still retained.
	Published []ir.Message `json:"published,omitempty"`

	// Derived is the full label set after this tick's pass. It is nil
	// when no pass ran.
	Derived map[ir.EntityID][]ir.Label `json:"derived,omitempty"`
}

// Sink receives one snapshot per completed tick, on the Run goroutine.
type Sink interface {
	Emit(s Snapshot)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Snapshot)

// Emit calls f.
func (f SinkFunc) Emit(s Snapshot) {
	f(s)
}

// MultiSink fans a snapshot out to several sinks in order.
type MultiSink []Sink

// Emit forwards s to every sink.
func (m MultiSink) Emit(s Snapshot) {
	for _, sink := range m {
		sink.Emit(s)
	}
}
