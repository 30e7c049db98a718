package testutil

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Step is one scripted action performed during an activation.
type Step func(ctx context.Context, act engine.Activation) error

// ScriptedActor replays a fixed per-tick script instead of a policy.
//
// Steps registered for a tick run in order; the first error ends the
// activation. Ticks without steps are no-ops but still counted.
type ScriptedActor struct {
	entity ir.EntityID
	script map[int64][]Step
	every  []Step

	mu   sync.Mutex
	seen []int64
}

// NewScriptedActor creates an actor with an empty script.
func NewScriptedActor(id ir.EntityID) *ScriptedActor {
	return &ScriptedActor{entity: id, script: make(map[int64][]Step)}
}

// At appends steps to run at tick.
func (a *ScriptedActor) At(tick int64, steps ...Step) *ScriptedActor {
	a.script[tick] = append(a.script[tick], steps...)
	return a
}

// Every appends steps that run at every tick, before tick-specific ones.
func (a *ScriptedActor) Every(steps ...Step) *ScriptedActor {
	a.every = append(a.every, steps...)
	return a
}

// ID implements engine.Actor.
func (a *ScriptedActor) ID() ir.EntityID {
	return a.entity
}

// Activate implements engine.Actor.
func (a *ScriptedActor) Activate(ctx context.Context, act engine.Activation) error {
	a.mu.Lock()
	a.seen = append(a.seen, act.Tick)
	a.mu.Unlock()

	for _, step := range slices.Concat(a.every, a.script[act.Tick]) {
		if err := step(ctx, act); err != nil {
			return err
		}
	}
	return nil
}

// Ticks returns the ticks this actor was activated in.
func (a *ScriptedActor) Ticks() []int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.seen)
}

// Set writes an attribute on entity.
func Set(entity ir.EntityID, attr string, v ir.Value) Step {
	return func(_ context.Context, act engine.Activation) error {
		return act.Facts.Set(entity, attr, v)
	}
}

// Add adds delta to a numeric attribute, treating an unset value as 0.
func Add(entity ir.EntityID, attr string, delta float64) Step {
	return func(_ context.Context, act engine.Activation) error {
		n, _, err := act.Facts.Number(entity, attr)
		if err != nil {
			return err
		}
		return act.Facts.Set(entity, attr, ir.Number(n+delta))
	}
}

// Publish sends a message from sender. An empty receiver broadcasts.
func Publish(sender, receiver ir.EntityID, kind ir.MessageKind, payload ir.Object) Step {
	return func(_ context.Context, act engine.Activation) error {
		_, err := act.Bus.PublishTo(sender, receiver, kind, payload)
		return err
	}
}

// Fail returns an error with msg.
func Fail(msg string) Step {
	return func(context.Context, engine.Activation) error {
		return errors.New(msg)
	}
}

// Panic panics with msg.
func Panic(msg string) Step {
	return func(context.Context, engine.Activation) error {
		panic(msg)
	}
}
