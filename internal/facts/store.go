package facts

import (
	"fmt"
	"iter"
	"slices"

	"github.com/damiru003/Bookstore-Management-System-with-Ontology-and-Multi-Agent--Simulation/internal/ir"
)

// Reader is the read-only view of the store used by rules.
type Reader interface {
	Entity(id ir.EntityID) (ir.Entity, bool)
	Get(id ir.EntityID, attr string) (ir.Value, bool, error)
	Number(id ir.EntityID, attr string) (float64, bool, error)
	Text(id ir.EntityID, attr string) (string, bool, error)
	Bool(id ir.EntityID, attr string) (bool, bool, error)
	Refs(id ir.EntityID, attr string) (ir.Refs, bool, error)
	Query(t ir.EntityType, pred func(ir.Entity) bool) iter.Seq[ir.Entity]
	HasLabel(id ir.EntityID, label ir.Label) bool
}

// ReadWriter is the view handed to actors during their activation.
// It can mutate attributes but never derived labels.
type ReadWriter interface {
	Reader
	Set(id ir.EntityID, attr string, v ir.Value) error
	Unset(id ir.EntityID, attr string) error
}

// Store is the mutable per-entity attribute database.
//
// Entities are iterated in registration order so that queries, and anything
// derived from them, are reproducible for a given seed.
type Store struct {
	schema   Schema
	order    []ir.EntityID
	entities map[ir.EntityID]ir.Entity
	attrs    map[ir.EntityID]map[string]ir.Value
	labels   map[ir.EntityID]map[ir.Label]struct{}
}

// New creates an empty store over schema. A nil schema selects DefaultSchema.
func New(schema Schema) *Store {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Store{
		schema:   schema,
		entities: make(map[ir.EntityID]ir.Entity),
		attrs:    make(map[ir.EntityID]map[string]ir.Value),
		labels:   make(map[ir.EntityID]map[ir.Label]struct{}),
	}
}

// Schema returns the store's schema.
func (s *Store) Schema() Schema {
	return s.schema
}

// Add registers an entity with its base attributes.
// Every attribute must be declared for the entity type with a matching type.
func (s *Store) Add(e ir.Entity, attrs map[string]ir.Value) error {
	if e.ID == "" {
		return fmt.Errorf("add entity: empty id")
	}
	if _, ok := s.schema[e.Type]; !ok {
		return fmt.Errorf("add entity %s: entity type %q is not in the schema", e.ID, e.Type)
	}
	if _, exists := s.entities[e.ID]; exists {
		return &DuplicateEntityError{Entity: e.ID}
	}
	values := make(map[string]ir.Value, len(attrs))
	for name, v := range attrs {
		if err := s.check(e, name, v); err != nil {
			return fmt.Errorf("add entity %s: %w", e.ID, err)
		}
		values[name] = ir.Clone(v)
	}
	s.entities[e.ID] = e
	s.attrs[e.ID] = values
	s.order = append(s.order, e.ID)
	return nil
}

// Len returns the number of registered entities.
func (s *Store) Len() int {
	return len(s.order)
}

// Entity returns the entity registered under id.
func (s *Store) Entity(id ir.EntityID) (ir.Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns all entities in registration order.
func (s *Store) Entities() []ir.Entity {
	out := make([]ir.Entity, len(s.order))
	for i, id := range s.order {
		out[i] = s.entities[id]
	}
	return out
}

// Get returns the value of attr on id. The bool is false when the
// attribute is declared but currently unset.
func (s *Store) Get(id ir.EntityID, attr string) (ir.Value, bool, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false, &UnknownEntityError{Entity: id}
	}
	if _, ok := s.schema.Lookup(e.Type, attr); !ok {
		return nil, false, &UnknownAttributeError{Type: e.Type, Attribute: attr}
	}
	v, ok := s.attrs[id][attr]
	if !ok {
		return nil, false, nil
	}
	return ir.Clone(v), true, nil
}

// GetAs is Get with an expected type. A stored or declared type that
// differs from expected yields a TypeMismatchError.
func (s *Store) GetAs(id ir.EntityID, attr string, expected ir.AttrType) (ir.Value, bool, error) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false, &UnknownEntityError{Entity: id}
	}
	spec, ok := s.schema.Lookup(e.Type, attr)
	if !ok {
		return nil, false, &UnknownAttributeError{Type: e.Type, Attribute: attr}
	}
	if spec.Type != expected {
		return nil, false, &TypeMismatchError{Entity: id, Attribute: attr, Expected: expected, Actual: spec.Type}
	}
	v, ok := s.attrs[id][attr]
	if !ok {
		return nil, false, nil
	}
	return ir.Clone(v), true, nil
}

// Number reads a numeric attribute.
func (s *Store) Number(id ir.EntityID, attr string) (float64, bool, error) {
	v, ok, err := s.GetAs(id, attr, ir.TypeNumber)
	if err != nil || !ok {
		return 0, ok, err
	}
	return float64(v.(ir.Number)), true, nil
}

// Text reads a string attribute.
func (s *Store) Text(id ir.EntityID, attr string) (string, bool, error) {
	v, ok, err := s.GetAs(id, attr, ir.TypeString)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(v.(ir.String)), true, nil
}

// Bool reads a boolean attribute.
func (s *Store) Bool(id ir.EntityID, attr string) (bool, bool, error) {
	v, ok, err := s.GetAs(id, attr, ir.TypeBool)
	if err != nil || !ok {
		return false, ok, err
	}
	return bool(v.(ir.Bool)), true, nil
}

// Refs reads a reference-list attribute. The returned list is a copy.
func (s *Store) Refs(id ir.EntityID, attr string) (ir.Refs, bool, error) {
	v, ok, err := s.GetAs(id, attr, ir.TypeRefs)
	if err != nil || !ok {
		return nil, ok, err
	}
	return v.(ir.Refs), true, nil
}

// Set replaces the whole value of attr on id.
// It fails only for unknown entities, undeclared attributes, or a value
// whose type differs from the declaration.
func (s *Store) Set(id ir.EntityID, attr string, v ir.Value) error {
	e, ok := s.entities[id]
	if !ok {
		return &UnknownEntityError{Entity: id}
	}
	if err := s.check(e, attr, v); err != nil {
		return err
	}
	s.attrs[id][attr] = ir.Clone(v)
	return nil
}

// Unset removes attr from id, making it absent.
func (s *Store) Unset(id ir.EntityID, attr string) error {
	e, ok := s.entities[id]
	if !ok {
		return &UnknownEntityError{Entity: id}
	}
	if _, ok := s.schema.Lookup(e.Type, attr); !ok {
		return &UnknownAttributeError{Type: e.Type, Attribute: attr}
	}
	delete(s.attrs[id], attr)
	return nil
}

// Query lazily yields entities of type t for which pred returns true.
// A nil pred matches every entity. Each iteration re-reads the store, so
// the sequence never serves a stale view.
func (s *Store) Query(t ir.EntityType, pred func(ir.Entity) bool) iter.Seq[ir.Entity] {
	return func(yield func(ir.Entity) bool) {
		for _, id := range s.order {
			e := s.entities[id]
			if e.Type != t {
				continue
			}
			if pred != nil && !pred(e) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// HasLabel reports whether the rule engine derived label for id.
func (s *Store) HasLabel(id ir.EntityID, label ir.Label) bool {
	_, ok := s.labels[id][label]
	return ok
}

// Labels returns the labels currently derived for id, sorted.
func (s *Store) Labels(id ir.EntityID) []ir.Label {
	set := s.labels[id]
	out := make([]ir.Label, 0, len(set))
	for l := range set {
		out = append(out, l)
	}
	slices.Sort(out)
	return out
}

// LabelSet returns every (entity, label) pair as a fresh map.
func (s *Store) LabelSet() map[ir.EntityID][]ir.Label {
	out := make(map[ir.EntityID][]ir.Label, len(s.labels))
	for id := range s.labels {
		if labels := s.Labels(id); len(labels) > 0 {
			out[id] = labels
		}
	}
	return out
}

// check validates attr and v against the schema for e.
func (s *Store) check(e ir.Entity, attr string, v ir.Value) error {
	spec, ok := s.schema.Lookup(e.Type, attr)
	if !ok {
		return &UnknownAttributeError{Type: e.Type, Attribute: attr}
	}
	if v == nil {
		return fmt.Errorf("set %s.%s: nil value (use Unset)", e.ID, attr)
	}
	if v.Type() != spec.Type {
		return &TypeMismatchError{Entity: e.ID, Attribute: attr, Expected: spec.Type, Actual: v.Type()}
	}
	return nil
}
