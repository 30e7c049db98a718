package agents

import (
	"math/rand/v2"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/config"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/engine"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/rules"
)

// Actors builds one actor per entity of the reference population, sharing
// ledger. Per-actor traits such as employee efficiency come from seed.
func Actors(pop config.PopulationConfig, th rules.Thresholds, ledger *Ledger, seed int64) []engine.Actor {
	rng := rand.New(rand.NewPCG(uint64(seed), 0xac7))

	actors := make([]engine.Actor, 0, pop.Customers+pop.Employees+pop.Books)
	for i := 0; i < pop.Customers; i++ {
		actors = append(actors, &Customer{id: CustomerID(i), ledger: ledger})
	}
	for i := 0; i < pop.Employees; i++ {
		actors = append(actors, &Employee{
			id:            EmployeeID(i),
			ledger:        ledger,
			restockAmount: float64(15 + rng.IntN(11)),
			efficiency:    0.7 + rng.Float64()*0.25,
			threshold:     th.Restock,
		})
	}
	for i := 0; i < pop.Books; i++ {
		actors = append(actors, &Book{id: BookID(i), ledger: ledger})
	}
	return actors
}

// inbox returns the messages for id after *cursor and advances it.
func inbox(act engine.Activation, id ir.EntityID, cursor *int64) []ir.Message {
	msgs := act.Bus.For(id, *cursor)
	if n := len(msgs); n > 0 {
		*cursor = msgs[n-1].Seq
	}
	return msgs
}

// adjust adds delta to a numeric attribute, clamped to [lo, hi].
// An absent attribute counts as zero.
func adjust(act engine.Activation, id ir.EntityID, attr string, delta, lo, hi float64) error {
	v, _, err := act.Facts.Number(id, attr)
	if err != nil {
		return err
	}
	return act.Facts.Set(id, attr, ir.Number(min(hi, max(lo, v+delta))))
}
