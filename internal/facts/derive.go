package facts

import (
	"slices"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Deriver is the only writer of derived labels. The rule engine obtains
// one per evaluation pass; actors never see it.
type Deriver struct {
	s *Store
}

// Deriver returns a label writer bound to the store.
func (s *Store) Deriver() *Deriver {
	return &Deriver{s: s}
}

// Clear removes every label from entities whose type is in scope and
// returns how many labels were removed. An empty scope clears all entities.
func (d *Deriver) Clear(scope ...ir.EntityType) int {
	removed := 0
	for id, set := range d.s.labels {
		if len(scope) > 0 && !slices.Contains(scope, d.s.entities[id].Type) {
			continue
		}
		removed += len(set)
		delete(d.s.labels, id)
	}
	return removed
}

// Assert derives label for id. It returns false when the entity is unknown
// or already carries the label, so a pass never double counts.
func (d *Deriver) Assert(id ir.EntityID, label ir.Label) bool {
	if _, ok := d.s.entities[id]; !ok {
		return false
	}
	set, ok := d.s.labels[id]
	if !ok {
		set = make(map[ir.Label]struct{})
		d.s.labels[id] = set
	}
	if _, exists := set[label]; exists {
		return false
	}
	set[label] = struct{}{}
	return true
}
