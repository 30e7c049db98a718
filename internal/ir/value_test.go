package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Types(t *testing.T) {
	assert.Equal(t, TypeNumber, Number(1).Type())
	assert.Equal(t, TypeString, String("x").Type())
	assert.Equal(t, TypeBool, Bool(true).Type())
	assert.Equal(t, TypeRefs, NewRefs("a").Type())
}

func TestParseAttrType_RoundTrip(t *testing.T) {
	for _, typ := range []AttrType{TypeNumber, TypeString, TypeBool, TypeRefs} {
		parsed, err := ParseAttrType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := ParseAttrType("float")
	assert.Error(t, err)
}

func TestRefs_WithDoesNotAlias(t *testing.T) {
	base := NewRefs("book_1")
	next := base.With("book_2")

	assert.Equal(t, Refs{"book_1"}, base)
	assert.Equal(t, Refs{"book_1", "book_2"}, next)
	assert.True(t, next.Contains("book_2"))
	assert.False(t, base.Contains("book_2"))
}

func TestNewRefs_Copies(t *testing.T) {
	ids := []EntityID{"a", "b"}
	refs := NewRefs(ids...)
	ids[0] = "mutated"

	assert.Equal(t, EntityID("a"), refs[0])
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same number", Number(2), Number(2), true},
		{"different number", Number(2), Number(3), false},
		{"number vs string", Number(2), String("2"), false},
		{"same refs", NewRefs("a", "b"), NewRefs("a", "b"), true},
		{"refs order matters", NewRefs("a", "b"), NewRefs("b", "a"), false},
		{"both nil", nil, nil, true},
		{"one nil", Bool(true), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    Value
		wantErr bool
	}{
		{"int", 300, Number(300), false},
		{"float", 24.99, Number(24.99), false},
		{"string", "Alice", String("Alice"), false},
		{"bool", true, Bool(true), false},
		{"refs", []any{"book_1", "book_2"}, Refs{"book_1", "book_2"}, false},
		{"empty refs", []any{}, Refs{}, false},
		{"nil", nil, nil, true},
		{"mixed list", []any{"book_1", 3}, nil, true},
		{"map", map[string]any{}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Equal(tt.want, got), "got %v", got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "24.99", Format(Number(24.99)))
	assert.Equal(t, "300", Format(Number(300)))
	assert.Equal(t, "[a,b]", Format(NewRefs("a", "b")))
	assert.Equal(t, "false", Format(Bool(false)))
}

func TestParseEntityType(t *testing.T) {
	typ, err := ParseEntityType("Book")
	require.NoError(t, err)
	assert.Equal(t, Book, typ)

	_, err = ParseEntityType("Inventory")
	assert.Error(t, err)
}
