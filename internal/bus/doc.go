// Package bus implements the simulation message bus.
//
// Actors publish immutable, sequenced messages; metrics and log collectors
// read them back with Since. Senders never hold references to receivers.
//
// # Retention
//
// The bus keeps the most recent N messages in a ring buffer. Once capacity
// is exceeded the oldest message is dropped silently. Statistics counters
// are cumulative and are never decremented by eviction, so Total always
// equals the sum of PerKind even after raw messages are gone.
//
// # Concurrency
//
// Publish is called from the scheduler's single tick goroutine. Statistics,
// Since and For may be called concurrently from external readers; every
// result is a copy that shares no memory with the bus.
package bus
