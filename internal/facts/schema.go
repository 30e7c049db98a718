package facts

import (
	"fmt"
	"slices"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// AttrSpec declares one attribute of an entity type.
type AttrSpec struct {
	Name string
	Type ir.AttrType

	// Aggregate marks numeric attributes summed into snapshot aggregates.
	Aggregate bool
}

// Schema is the closed attribute schema per entity type.
type Schema map[ir.EntityType]map[string]AttrSpec

// DefaultSchema returns the bookstore schema.
func DefaultSchema() Schema {
	s := Schema{}
	s.declare(ir.Customer,
		AttrSpec{Name: ir.AttrName, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrBudget, Type: ir.TypeNumber, Aggregate: true},
		AttrSpec{Name: ir.AttrPurchases, Type: ir.TypeRefs},
		AttrSpec{Name: ir.AttrSatisfaction, Type: ir.TypeNumber, Aggregate: true},
	)
	s.declare(ir.Employee,
		AttrSpec{Name: ir.AttrName, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrRole, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrManages, Type: ir.TypeRefs},
		AttrSpec{Name: ir.AttrPerformance, Type: ir.TypeNumber, Aggregate: true},
		AttrSpec{Name: ir.AttrRestocks, Type: ir.TypeNumber, Aggregate: true},
	)
	s.declare(ir.Book,
		AttrSpec{Name: ir.AttrTitle, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrAuthor, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrGenre, Type: ir.TypeString},
		AttrSpec{Name: ir.AttrPrice, Type: ir.TypeNumber},
		AttrSpec{Name: ir.AttrBasePrice, Type: ir.TypeNumber},
		AttrSpec{Name: ir.AttrQuantity, Type: ir.TypeNumber, Aggregate: true},
		AttrSpec{Name: ir.AttrRestockThreshold, Type: ir.TypeNumber},
	)
	return s
}

func (s Schema) declare(t ir.EntityType, specs ...AttrSpec) {
	attrs := make(map[string]AttrSpec, len(specs))
	for _, spec := range specs {
		attrs[spec.Name] = spec
	}
	s[t] = attrs
}

// Lookup returns the declaration of attr on entity type t.
func (s Schema) Lookup(t ir.EntityType, attr string) (AttrSpec, bool) {
	attrs, ok := s[t]
	if !ok {
		return AttrSpec{}, false
	}
	spec, ok := attrs[attr]
	return spec, ok
}

// Attributes returns the declared attribute names of t in sorted order.
func (s Schema) Attributes(t ir.EntityType) []string {
	names := make([]string, 0, len(s[t]))
	for name := range s[t] {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks that every declaration is well-formed.
func (s Schema) Validate() error {
	for t, attrs := range s {
		for name, spec := range attrs {
			if name == "" || name != spec.Name {
				return fmt.Errorf("schema %s: attribute key %q does not match name %q", t, name, spec.Name)
			}
			if spec.Type < ir.TypeNumber || spec.Type > ir.TypeRefs {
				return fmt.Errorf("schema %s.%s: invalid type %v", t, name, spec.Type)
			}
			if spec.Aggregate && spec.Type != ir.TypeNumber {
				return fmt.Errorf("schema %s.%s: only number attributes can be aggregated", t, name)
			}
		}
	}
	return nil
}
