package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic JSON for a message payload.
// This is the serialization used by the run journal and golden reports.
//
// Differences from json.Marshal:
//  1. Object keys sorted by byte order
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Numbers use the shortest round-trip form; NaN and Inf are rejected
func MarshalCanonical(obj Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonicalObject(&buf, obj); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCanonicalValue produces deterministic JSON for a single value.
func MarshalCanonicalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonicalValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonicalObject(buf *bytes.Buffer, obj Object) error {
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := writeCanonicalValue(buf, obj[k]); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case Number:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite number %v", f)
		}
		buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	case String:
		return writeCanonicalString(buf, string(val))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
		return nil
	case Refs:
		buf.WriteByte('[')
		for i, id := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, string(id)); err != nil {
				return fmt.Errorf("refs[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return fmt.Errorf("unsupported value type for canonical JSON: %T", v)
	}
}

// writeCanonicalString writes s as a JSON string after NFC normalization.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	// json.Encoder adds trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalObject decodes canonical payload JSON back into an Object.
// Numbers become Number, arrays of strings become Refs.
func UnmarshalObject(data []byte) (Object, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	obj := make(Object, len(raw))
	for k, v := range raw {
		if n, ok := v.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("payload key %q: %w", k, err)
			}
			obj[k] = Number(f)
			continue
		}
		val, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("payload key %q: %w", k, err)
		}
		obj[k] = val
	}
	return obj, nil
}
