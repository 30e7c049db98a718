// Package agents provides the reference bookstore population and the
// actor policies the CLI driver runs: customers browse and buy,
// employees restock and hand out discount offers, books reprice
// themselves by stock level.
//
// All randomness is drawn from the scheduler's seeded source, so a run is
// reproducible from its seed.
package agents
