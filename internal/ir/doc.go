// Package ir provides the shared data model for the simulation kernel.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the data model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed interface: Number, String, Bool and Refs only
//   - Absent attributes are represented by absence, never by a nil Value
//   - Refs values are copied on construction so callers cannot mutate stored lists
//   - Message sequence numbers are logical (monotonic), never wall-clock timestamps
package ir
