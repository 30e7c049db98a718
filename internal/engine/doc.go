// Package engine implements the simulation scheduler.
//
// The Scheduler owns the tick loop. Each tick it:
//
//  1. Draws a fresh uniform permutation of all actors from its seeded RNG
//  2. Activates every actor exactly once, in that order, synchronously
//  3. Runs a rule engine pass when the tick is a positive multiple of the cadence
//  4. Emits an immutable Snapshot to the registered Sink
//  5. Increments the tick counter
//
// Single-Writer Loop:
// Activations, rule passes and snapshot construction all happen on the
// goroutine that called Run. They never overlap, so the fact store needs
// no locking and aggregate outcomes depend only on the seed.
//
// Control:
// Start, Pause, Resume, Stop and Reset are safe from any goroutine.
// Pause takes effect at the next tick boundary. Stop takes effect before
// the next activation; activations that already ran in the tick stand.
//
// Failure Isolation:
// An actor that returns an error or panics is recorded as an
// ActivationError and the tick carries on with the next actor.
package engine
