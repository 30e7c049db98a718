package facts

import (
	"maps"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Aggregates is a point-in-time summary of the store. It shares no memory
// with the store and is safe to hand to concurrent readers.
type Aggregates struct {
	// EntityCounts is the number of entities per type.
	EntityCounts map[ir.EntityType]int `json:"entity_counts"`

	// LabelCounts is the number of entities carrying each label.
	LabelCounts map[ir.Label]int `json:"label_counts"`

	// Totals sums aggregated numeric attributes, keyed "Type.attr".
	Totals map[string]float64 `json:"totals"`

	// Averages is Totals divided by the number of entities carrying the attribute.
	Averages map[string]float64 `json:"averages"`
}

// Aggregate computes Aggregates over the current store contents.
func (s *Store) Aggregate() Aggregates {
	agg := Aggregates{
		EntityCounts: make(map[ir.EntityType]int),
		LabelCounts:  make(map[ir.Label]int),
		Totals:       make(map[string]float64),
		Averages:     make(map[string]float64),
	}
	seen := make(map[string]int)

	for _, id := range s.order {
		e := s.entities[id]
		agg.EntityCounts[e.Type]++
		for label := range s.labels[id] {
			agg.LabelCounts[label]++
		}
		for name, spec := range s.schema[e.Type] {
			if !spec.Aggregate {
				continue
			}
			v, ok := s.attrs[id][name]
			if !ok {
				continue
			}
			key := string(e.Type) + "." + name
			agg.Totals[key] += float64(v.(ir.Number))
			seen[key]++
		}
	}
	for key, total := range agg.Totals {
		agg.Averages[key] = total / float64(seen[key])
	}
	return agg
}

// Clone returns a deep copy.
func (a Aggregates) Clone() Aggregates {
	return Aggregates{
		EntityCounts: maps.Clone(a.EntityCounts),
		LabelCounts:  maps.Clone(a.LabelCounts),
		Totals:       maps.Clone(a.Totals),
		Averages:     maps.Clone(a.Averages),
	}
}
