package testutil

import (
	"sync"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
)

// RecordingSink collects every snapshot it receives.
//
// The scheduler emits on its Run goroutine while tests read from theirs,
// so all methods are safe for concurrent use.
type RecordingSink struct {
	mu    sync.Mutex
	snaps []engine.Snapshot
}

// NewRecordingSink creates an empty sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// Emit implements engine.Sink.
func (r *RecordingSink) Emit(s engine.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

// Snapshots returns a copy of everything recorded so far.
func (r *RecordingSink) Snapshots() []engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Snapshot(nil), r.snaps...)
}

// Len returns the number of recorded snapshots.
func (r *RecordingSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

// Last returns the most recent snapshot.
func (r *RecordingSink) Last() (engine.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return engine.Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}

// EvaluatedTicks returns the ticks whose snapshot reports a rule pass.
func (r *RecordingSink) EvaluatedTicks() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticks := []int64{}
	for _, s := range r.snaps {
		if s.Evaluated {
			ticks = append(ticks, s.Tick)
		}
	}
	return ticks
}

// Reset discards recorded snapshots.
func (r *RecordingSink) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = nil
}
