package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	obj := Object{
		"price":    Number(24.99),
		"book":     String("The Great Adventure"),
		"customer": String("Alice"),
	}

	got, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"book":"The Great Adventure","customer":"Alice","price":24.99}`, string(got))
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	got, err := MarshalCanonical(Object{"note": String("a<b&c>")})
	require.NoError(t, err)
	assert.Equal(t, `{"note":"a<b&c>"}`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to a single code point.
	decomposed := Object{"name": String("Jose\u0301")}
	composed := Object{"name": String("Jos\u00e9")}

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonical_Refs(t *testing.T) {
	got, err := MarshalCanonical(Object{"books": NewRefs("book_1", "book_2")})
	require.NoError(t, err)
	assert.Equal(t, `{"books":["book_1","book_2"]}`, string(got))
}

func TestMarshalCanonical_RejectsNil(t *testing.T) {
	_, err := MarshalCanonical(Object{"x": nil})
	assert.Error(t, err)
}

func TestMarshalCanonical_Empty(t *testing.T) {
	got, err := MarshalCanonical(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestUnmarshalObject_RoundTrip(t *testing.T) {
	obj := Object{
		"amount": Number(18),
		"book":   String("Fantasy Realms"),
		"ok":     Bool(true),
		"refs":   NewRefs("book_4"),
	}
	data, err := MarshalCanonical(obj)
	require.NoError(t, err)

	back, err := UnmarshalObject(data)
	require.NoError(t, err)
	require.Len(t, back, len(obj))
	for k, v := range obj {
		assert.True(t, Equal(v, back[k]), "key %s: got %v", k, back[k])
	}
}
