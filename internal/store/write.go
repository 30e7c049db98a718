package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// RunInfo describes one recorded run.
type RunInfo struct {
	ID        string    `json:"id"`
	Seed      int64     `json:"seed"`
	Config    string    `json:"config"`
	StartedAt time.Time `json:"started_at"`
}

// BeginRun inserts the run row. Config is stored as JSON.
// Uses ON CONFLICT(id) DO NOTHING so re-registering a run is harmless.
func (s *Store) BeginRun(ctx context.Context, id string, seed int64, cfg any) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("begin run: marshal config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, config, started_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, seed, string(cfgJSON), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// Record writes one snapshot, the messages it carries, and its derived
// label set if a rule pass ran, in a single transaction.
//
// The run must have been registered with BeginRun (foreign key).
// Re-recording a tick is silently ignored.
func (s *Store) Record(ctx context.Context, snap engine.Snapshot) error {
	body := snap
	body.Published = nil
	body.Derived = nil
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("record tick %d: marshal snapshot: %w", snap.Tick, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record tick %d: begin tx: %w", snap.Tick, err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots
		(run_id, tick, evaluated, asserted, rule_passes, activations, failures, messages_total, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, tick) DO NOTHING
	`,
		snap.RunID,
		snap.Tick,
		snap.Evaluated,
		snap.Asserted,
		snap.RulePasses,
		snap.Activations,
		snap.Failures,
		snap.Messages.Total,
		string(bodyJSON),
	)
	if err != nil {
		return fmt.Errorf("record tick %d: %w", snap.Tick, err)
	}

	if err := writeMessages(ctx, tx, snap.RunID, snap.Published); err != nil {
		return fmt.Errorf("record tick %d: %w", snap.Tick, err)
	}
	if snap.Derived != nil {
		if err := writeLabels(ctx, tx, snap.RunID, snap.Tick, snap.Derived); err != nil {
			return fmt.Errorf("record tick %d: %w", snap.Tick, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record tick %d: commit: %w", snap.Tick, err)
	}
	return nil
}

func writeMessages(ctx context.Context, tx *sql.Tx, runID string, msgs []ir.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (run_id, seq, tick, sender, receiver, kind, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare messages: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		payload, err := ir.MarshalCanonical(m.Payload)
		if err != nil {
			return fmt.Errorf("message %d payload: %w", m.Seq, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, m.Seq, m.Tick, string(m.Sender), string(m.Receiver), string(m.Kind), string(payload)); err != nil {
			return fmt.Errorf("write message %d: %w", m.Seq, err)
		}
	}
	return nil
}

func writeLabels(ctx context.Context, tx *sql.Tx, runID string, tick int64, derived map[ir.EntityID][]ir.Label) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO labels (run_id, tick, entity, label)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("prepare labels: %w", err)
	}
	defer stmt.Close()

	ids := make([]ir.EntityID, 0, len(derived))
	for id := range derived {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		for _, l := range derived[id] {
			if _, err := stmt.ExecContext(ctx, runID, tick, string(id), string(l)); err != nil {
				return fmt.Errorf("write label %s/%s: %w", id, l, err)
			}
		}
	}
	return nil
}

// Sink returns an engine.Sink that records each snapshot synchronously.
// Record errors are passed to onErr; they never stop the scheduler.
// Use it where journal latency on the tick loop is acceptable, such as
// tests and scenario runs.
func (s *Store) Sink(ctx context.Context, onErr func(error)) engine.Sink {
	return engine.SinkFunc(func(snap engine.Snapshot) {
		if err := s.Record(ctx, snap); err != nil && onErr != nil {
			onErr(err)
		}
	})
}
