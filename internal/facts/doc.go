// Package facts provides the in-memory fact store shared by actors and rules.
//
// The store maps (entity, attribute) to a typed ir.Value under a closed
// schema: every attribute is declared per entity type, and reads or writes
// of undeclared or mistyped attributes fail loudly with typed errors.
//
// # Single Writer
//
// The store does no locking. The scheduler activates exactly one actor at a
// time and runs the rule engine between activations, so there is only ever
// one logical writer. External readers never see the store directly; they
// receive immutable Aggregates copies inside snapshots.
//
// # Derived Labels
//
// Labels are boolean classifications kept apart from attributes. Actors see
// the store through ReadWriter, which can read labels but not write them.
// Only a Deriver (held by the rule engine) can clear and assert labels.
package facts
