package harness

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/testutil"
)

// Harness holds the pieces of one scenario run.
type Harness struct {
	cfg       config.Config
	store     *facts.Store
	scheduler *engine.Scheduler
	sink      *testutil.RecordingSink
	logger    *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs on a fresh fact store and bus. Execution flow:
//  1. Resolve config overrides over the defaults
//  2. Register entities with their initial attributes
//  3. Build one scripted actor per entity from the actions
//  4. Run the scheduler to completion
//  5. Build the report and evaluate assertions
//
// An error is returned only when the scenario cannot be run; failed
// assertions are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}

	if err := h.scheduler.Run(ctx); err != nil {
		return nil, fmt.Errorf("run scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Report = h.report(scenario.Name)

	actx := &AssertionContext{
		Facts:     h.store,
		Scheduler: h.scheduler,
	}
	for _, msg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(msg)
	}
	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	cfg, err := scenario.ResolveConfig()
	if err != nil {
		return nil, fmt.Errorf("scenario %s config: %w", scenario.Name, err)
	}
	if cfg.Schedule.Seed == 0 {
		cfg.Schedule.Seed = testutil.Seed
	}

	store := facts.New(nil)
	actors := make(map[ir.EntityID]*testutil.ScriptedActor, len(scenario.Entities))
	order := make([]engine.Actor, 0, len(scenario.Entities))
	for _, def := range scenario.Entities {
		e, attrs, err := entityFromDef(def)
		if err != nil {
			return nil, err
		}
		if err := store.Add(e, attrs); err != nil {
			return nil, fmt.Errorf("entity %s: %w", def.ID, err)
		}
		a := testutil.NewScriptedActor(e.ID)
		actors[e.ID] = a
		order = append(order, a)
	}

	for i, action := range scenario.Actions {
		if action.Tick >= int64(cfg.Schedule.Ticks) {
			return nil, fmt.Errorf("actions[%d]: tick %d is beyond the run (%d ticks)", i, action.Tick, cfg.Schedule.Ticks)
		}
		step, err := stepFromAction(action)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		actors[ir.EntityID(action.Actor)].At(action.Tick, step)
	}

	runID := scenario.RunID
	if runID == "" {
		runID = testutil.RunID
	}

	h := &Harness{
		cfg:    cfg,
		store:  store,
		sink:   testutil.NewRecordingSink(),
		logger: testutil.DiscardLogger(), // Suppress logs in tests
	}
	h.scheduler, err = engine.New(cfg, store, order,
		engine.WithSink(h.sink),
		engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)),
		engine.WithLogger(h.logger))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return h, nil
}

func entityFromDef(def EntityDef) (ir.Entity, map[string]ir.Value, error) {
	t, err := ir.ParseEntityType(def.Type)
	if err != nil {
		return ir.Entity{}, nil, fmt.Errorf("entity %s: %w", def.ID, err)
	}
	attrs := make(map[string]ir.Value, len(def.Attrs))
	for name, raw := range def.Attrs {
		v, err := ir.FromAny(raw)
		if err != nil {
			return ir.Entity{}, nil, fmt.Errorf("entity %s attribute %s: %w", def.ID, name, err)
		}
		attrs[name] = v
	}
	return ir.Entity{ID: ir.EntityID(def.ID), Type: t}, attrs, nil
}

func stepFromAction(a Action) (testutil.Step, error) {
	switch {
	case a.Set != nil:
		v, err := ir.FromAny(a.Set.Value)
		if err != nil {
			return nil, fmt.Errorf("set %s.%s: %w", a.Set.Entity, a.Set.Attr, err)
		}
		return testutil.Set(ir.EntityID(a.Set.Entity), a.Set.Attr, v), nil
	case a.Publish != nil:
		payload, err := ir.ObjectFromMap(a.Publish.Payload)
		if err != nil {
			return nil, fmt.Errorf("publish %s: %w", a.Publish.Kind, err)
		}
		return testutil.Publish(ir.EntityID(a.Actor), ir.EntityID(a.Publish.To), ir.MessageKind(a.Publish.Kind), payload), nil
	default:
		return testutil.Fail(a.Fail), nil
	}
}

// report builds the classification report from the finished run.
func (h *Harness) report(name string) Report {
	r := Report{
		Scenario: name,
		RunID:    h.scheduler.RunID(),
		Seed:     h.scheduler.Seed(),
		Ticks:    h.scheduler.Tick(),
		Passes:   []PassReport{},
		Failures: []FailureReport{},
		Messages: make(map[ir.MessageKind]int64),
		Summary:  h.scheduler.Rules().Summary(h.store),
		Labels:   h.store.LabelSet(),
	}

	for _, snap := range h.sink.Snapshots() {
		r.Activations += snap.Activations
		if snap.Evaluated {
			r.Passes = append(r.Passes, PassReport{Tick: snap.Tick, Asserted: snap.Asserted})
		}
	}
	for _, f := range h.scheduler.Failures() {
		r.Failures = append(r.Failures, FailureReport{
			Tick:     f.Tick,
			Entity:   f.Entity,
			Error:    f.Err.Error(),
			Panicked: f.Panicked,
		})
	}
	stats := h.scheduler.Bus().Statistics()
	maps.Copy(r.Messages, stats.PerKind)
	maps.DeleteFunc(r.Messages, func(_ ir.MessageKind, n int64) bool { return n == 0 })
	return r
}
