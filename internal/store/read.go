package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Run is a recorded run read back from the journal.
type Run struct {
	Info      RunInfo
	Snapshots []engine.Snapshot
	Messages  []ir.Message

	// Labels maps each evaluated tick to its derived label set.
	Labels map[int64]map[ir.EntityID][]ir.Label
}

// ErrRunNotFound is returned by ReadRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// ReadRun reads a run back. Snapshots are ordered by tick and messages by
// seq. Each snapshot's Published and Derived fields are restored from the
// messages and labels tables.
func (s *Store) ReadRun(ctx context.Context, runID string) (*Run, error) {
	info, err := s.readRunInfo(ctx, runID)
	if err != nil {
		return nil, err
	}

	run := &Run{Info: info}
	if run.Messages, err = s.readMessages(ctx, runID); err != nil {
		return nil, err
	}
	if run.Labels, err = s.readLabels(ctx, runID); err != nil {
		return nil, err
	}
	if run.Snapshots, err = s.readSnapshots(ctx, runID); err != nil {
		return nil, err
	}

	byTick := make(map[int64][]ir.Message)
	for _, m := range run.Messages {
		byTick[m.Tick] = append(byTick[m.Tick], m)
	}
	for i := range run.Snapshots {
		snap := &run.Snapshots[i]
		snap.Published = byTick[snap.Tick]
		if snap.Evaluated {
			snap.Derived = run.Labels[snap.Tick]
			if snap.Derived == nil {
				snap.Derived = map[ir.EntityID][]ir.Label{}
			}
		}
	}
	return run, nil
}

// ListRuns returns every recorded run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seed, config, started_at
		FROM runs
		ORDER BY started_at ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		info, err := scanRunInfo(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRunInfo(row scanner) (RunInfo, error) {
	var info RunInfo
	var started string
	if err := row.Scan(&info.ID, &info.Seed, &info.Config, &started); err != nil {
		return RunInfo{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return RunInfo{}, fmt.Errorf("parse started_at: %w", err)
	}
	info.StartedAt = t
	return info, nil
}

func (s *Store) readRunInfo(ctx context.Context, runID string) (RunInfo, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seed, config, started_at FROM runs WHERE id = ?
	`, runID)
	info, err := scanRunInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("read run: %w", err)
	}
	return info, nil
}

func (s *Store) readSnapshots(ctx context.Context, runID string) ([]engine.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT body FROM snapshots WHERE run_id = ? ORDER BY tick ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []engine.Snapshot{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		var snap engine.Snapshot
		if err := json.Unmarshal([]byte(body), &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

func (s *Store) readMessages(ctx context.Context, runID string) ([]ir.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, tick, sender, receiver, kind, payload
		FROM messages
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	msgs := []ir.Message{}
	for rows.Next() {
		var m ir.Message
		var sender, receiver, kind, payload string
		if err := rows.Scan(&m.Seq, &m.Tick, &sender, &receiver, &kind, &payload); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Sender = ir.EntityID(sender)
		m.Receiver = ir.EntityID(receiver)
		m.Kind = ir.MessageKind(kind)
		if m.Payload, err = ir.UnmarshalObject([]byte(payload)); err != nil {
			return nil, fmt.Errorf("decode message %d payload: %w", m.Seq, err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

func (s *Store) readLabels(ctx context.Context, runID string) (map[int64]map[ir.EntityID][]ir.Label, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, entity, label
		FROM labels
		WHERE run_id = ?
		ORDER BY tick ASC, entity COLLATE BINARY ASC, label COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]map[ir.EntityID][]ir.Label)
	for rows.Next() {
		var tick int64
		var entity, label string
		if err := rows.Scan(&tick, &entity, &label); err != nil {
			return nil, fmt.Errorf("scan label: %w", err)
		}
		if out[tick] == nil {
			out[tick] = make(map[ir.EntityID][]ir.Label)
		}
		out[tick][ir.EntityID(entity)] = append(out[tick][ir.EntityID(entity)], ir.Label(label))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate labels: %w", err)
	}
	return out, nil
}
