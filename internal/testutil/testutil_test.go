package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

func newStore(t *testing.T) *facts.Store {
	t.Helper()
	st := facts.New(nil)
	require.NoError(t, st.Add(ir.Entity{ID: "c1", Type: ir.Customer}, map[string]ir.Value{
		ir.AttrBudget: ir.Number(100),
	}))
	return st
}

func newScheduler(t *testing.T, ticks int, actors ...engine.Actor) (*engine.Scheduler, *RecordingSink) {
	t.Helper()
	cfg := config.Default()
	cfg.Schedule.Ticks = ticks
	cfg.Schedule.RuleCadence = 2
	cfg.Schedule.Seed = Seed

	sink := NewRecordingSink()
	s, err := engine.New(cfg, newStore(t), actors,
		engine.WithSink(sink),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(RunID)),
		engine.WithLogger(DiscardLogger()))
	require.NoError(t, err)
	return s, sink
}

func TestScriptedActor_RunsStepsAtTick(t *testing.T) {
	a := NewScriptedActor("c1").
		Every(Add("c1", ir.AttrBudget, 1)).
		At(2, Set("c1", ir.AttrSatisfaction, ir.Number(0.5)))
	s, sink := newScheduler(t, 4, a)

	require.NoError(t, s.Run(context.Background()))

	assert.Equal(t, []int64{0, 1, 2, 3}, a.Ticks())
	budget, _, err := s.Facts().Number("c1", ir.AttrBudget)
	require.NoError(t, err)
	assert.Equal(t, 104.0, budget)
	sat, ok, err := s.Facts().Number("c1", ir.AttrSatisfaction)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.5, sat)

	assert.Equal(t, 4, sink.Len())
	assert.Equal(t, []int64{2}, sink.EvaluatedTicks())
	last, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, int64(3), last.Tick)
	assert.Equal(t, RunID, last.RunID)
}

func TestScriptedActor_FirstErrorEndsActivation(t *testing.T) {
	a := NewScriptedActor("c1").
		At(0, Fail("boom"), Set("c1", ir.AttrBudget, ir.Number(1)))
	s, sink := newScheduler(t, 1, a)

	require.NoError(t, s.Run(context.Background()))

	budget, _, err := s.Facts().Number("c1", ir.AttrBudget)
	require.NoError(t, err)
	assert.Equal(t, 100.0, budget, "steps after the failure are skipped")
	assert.Equal(t, int64(1), s.FailureCount())
	snaps := sink.Snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].Failures)
}

func TestScriptedActor_PanicIsIsolated(t *testing.T) {
	p := NewScriptedActor("c1").At(0, Panic("kaboom"))
	s, _ := newScheduler(t, 1, p)

	require.NoError(t, s.Run(context.Background()))

	failures := s.Failures()
	require.Len(t, failures, 1)
	assert.True(t, failures[0].Panicked)
}

func TestScriptedActor_Publish(t *testing.T) {
	a := NewScriptedActor("c1").
		At(1, Publish("c1", "", ir.KindPurchaseComplete, ir.Object{"price": ir.Number(10)}))
	s, sink := newScheduler(t, 2, a)

	require.NoError(t, s.Run(context.Background()))

	snaps := sink.Snapshots()
	require.Len(t, snaps, 2)
	assert.Empty(t, snaps[0].Published)
	require.Len(t, snaps[1].Published, 1)
	assert.Equal(t, ir.KindPurchaseComplete, snaps[1].Published[0].Kind)
	assert.Equal(t, int64(1), s.Bus().Statistics().Total)
}

func TestRecordingSink_Concurrent(t *testing.T) {
	sink := NewRecordingSink()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Emit(engine.Snapshot{Tick: int64(i)})
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, sink.Len())
	sink.Reset()
	_, ok := sink.Last()
	assert.False(t, ok)
}
