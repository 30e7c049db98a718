package engine

import (
	"context"
	"math/rand/v2"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/bus"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/facts"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Activation is what an actor sees during its turn.
type Activation struct {
	// Tick is the current tick number, starting at 0.
	Tick int64

	// Facts reads and writes attributes. Labels are read-only.
	Facts facts.ReadWriter

	// Bus publishes and reads messages.
	Bus bus.Participant

	// Rand is the scheduler's seeded source. Actors that draw from it
	// keep the whole run reproducible for a given seed.
	Rand *rand.Rand
}

// Actor is a steppable entity. Activate is called exactly once per tick.
type Actor interface {
	ID() ir.EntityID
	Activate(ctx context.Context, act Activation) error
}

// ActorFunc adapts a function to the Actor interface.
type ActorFunc struct {
	Entity ir.EntityID
	Fn     func(ctx context.Context, act Activation) error
}

// ID returns the actor's entity id.
func (a ActorFunc) ID() ir.EntityID {
	return a.Entity
}

// Activate calls Fn.
func (a ActorFunc) Activate(ctx context.Context, act Activation) error {
	return a.Fn(ctx, act)
}
