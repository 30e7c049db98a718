package ir

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// AttrType is the declared type of an attribute.
type AttrType int

const (
	// TypeNumber is a float64 attribute (budgets, prices, quantities).
	TypeNumber AttrType = iota + 1
	// TypeString is a text attribute.
	TypeString
	// TypeBool is a boolean attribute.
	TypeBool
	// TypeRefs is an ordered list of entity references.
	TypeRefs
)

// String returns the lowercase type name used in schemas and error messages.
func (t AttrType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeRefs:
		return "refs"
	default:
		return fmt.Sprintf("AttrType(%d)", int(t))
	}
}

// ParseAttrType parses a type name produced by AttrType.String.
func ParseAttrType(s string) (AttrType, error) {
	switch strings.ToLower(s) {
	case "number":
		return TypeNumber, nil
	case "string":
		return TypeString, nil
	case "bool":
		return TypeBool, nil
	case "refs":
		return TypeRefs, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// Value is a sealed interface representing typed attribute values.
// Only Number, String, Bool and Refs implement this.
type Value interface {
	Type() AttrType
	value() // Sealed
}

// Number is a numeric attribute value.
type Number float64

func (Number) value() {}

// Type implements Value.
func (Number) Type() AttrType { return TypeNumber }

// String is a text attribute value.
type String string

func (String) value() {}

// Type implements Value.
func (String) Type() AttrType { return TypeString }

// Bool is a boolean attribute value.
type Bool bool

func (Bool) value() {}

// Type implements Value.
func (Bool) Type() AttrType { return TypeBool }

// Refs is an ordered list of entity references.
// Treat Refs as immutable: use With to derive a new list.
type Refs []EntityID

func (Refs) value() {}

// Type implements Value.
func (Refs) Type() AttrType { return TypeRefs }

// NewRefs copies ids into a new Refs value.
func NewRefs(ids ...EntityID) Refs {
	return Refs(slices.Clone(ids))
}

// With returns a new Refs with id appended. The receiver is not modified.
func (r Refs) With(id EntityID) Refs {
	out := make(Refs, len(r), len(r)+1)
	copy(out, r)
	return append(out, id)
}

// Contains reports whether id is referenced.
func (r Refs) Contains(id EntityID) bool {
	return slices.Contains(r, id)
}

// Clone returns an independent copy of v. Scalars are returned as-is.
func Clone(v Value) Value {
	if refs, ok := v.(Refs); ok {
		return NewRefs(refs...)
	}
	return v
}

// Equal reports whether two values have the same type and content.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	if ra, ok := a.(Refs); ok {
		return slices.Equal(ra, b.(Refs))
	}
	return a == b
}

// Format renders a value for logs and reports.
func Format(v Value) string {
	switch val := v.(type) {
	case Number:
		return strconv.FormatFloat(float64(val), 'f', -1, 64)
	case String:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	case Refs:
		parts := make([]string, len(val))
		for i, id := range val {
			parts[i] = string(id)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FromAny converts a decoded YAML/JSON value into a Value.
//
// Integers and floats become Number, strings String, booleans Bool, and
// lists of strings Refs. Anything else, including nil, is rejected.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is not a valid attribute value")
	case Value:
		return Clone(val), nil
	case int:
		return Number(val), nil
	case int64:
		return Number(val), nil
	case uint64:
		return Number(val), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("non-finite number %v", val)
		}
		return Number(val), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case []string:
		refs := make(Refs, len(val))
		for i, s := range val {
			refs[i] = EntityID(s)
		}
		return refs, nil
	case []any:
		refs := make(Refs, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list element %d: expected entity id string, got %T", i, elem)
			}
			refs[i] = EntityID(s)
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// Object is a free-form structured message payload.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

// SortedKeys returns keys in byte order.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clone returns a deep copy of the payload.
func (o Object) Clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = Clone(v)
	}
	return out
}

// ObjectFromMap converts a decoded YAML/JSON map into an Object.
func ObjectFromMap(m map[string]any) (Object, error) {
	obj := make(Object, len(m))
	for k, v := range m {
		val, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("payload key %q: %w", k, err)
		}
		obj[k] = val
	}
	return obj, nil
}
