package task

import (
	"bytes"
	"encoding/json"
	"iter"
	"reflect"
	"slices"
	"strconv"
)

type udaKind uint8

const (
	udaString udaKind = iota
	udaNumber
	udaBool
	udaRaw
)

// UDAValue is the value of one user defined attribute. It is a tagged
// variant over string, number, boolean and arbitrary structured JSON, and
// preserves the exact shape it was decoded from: numbers keep their
// original literal, structured values keep their raw JSON. Nothing is
// coerced between kinds.
type UDAValue struct {
	kind udaKind
	s    string
	num  json.Number
	b    bool
	raw  json.RawMessage
}

// StringValue creates a string-kinded UDA value.
func StringValue(s string) UDAValue {
	return UDAValue{kind: udaString, s: s}
}

// FloatValue creates a number-kinded UDA value from a float.
func FloatValue(f float64) UDAValue {
	return UDAValue{kind: udaNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// IntValue creates a number-kinded UDA value from an integer.
func IntValue(i int64) UDAValue {
	return UDAValue{kind: udaNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// BoolValue creates a boolean-kinded UDA value.
func BoolValue(b bool) UDAValue {
	return UDAValue{kind: udaBool, b: b}
}

// RawValue creates a UDA value holding arbitrary JSON (object, array or
// null) verbatim. The caller must pass valid JSON.
func RawValue(raw json.RawMessage) UDAValue {
	return UDAValue{kind: udaRaw, raw: slices.Clone(raw)}
}

// String returns the string content, and whether the value is a string.
func (v UDAValue) String() (string, bool) {
	return v.s, v.kind == udaString
}

// Float64 returns the numeric content as a float, and whether the value is
// a number. Both integral and fractional literals convert.
func (v UDAValue) Float64() (float64, bool) {
	if v.kind != udaNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool returns the boolean content, and whether the value is a boolean.
func (v UDAValue) Bool() (bool, bool) {
	return v.b, v.kind == udaBool
}

// Raw returns the structured JSON content, and whether the value holds
// structured JSON.
func (v UDAValue) Raw() (json.RawMessage, bool) {
	if v.kind != udaRaw {
		return nil, false
	}
	return slices.Clone(v.raw), true
}

// Equal reports whether two values have the same kind and content.
// Structured JSON compares by value, not by byte representation.
func (v UDAValue) Equal(other UDAValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case udaString:
		return v.s == other.s
	case udaNumber:
		return v.num == other.num
	case udaBool:
		return v.b == other.b
	default:
		var a, b any
		if json.Unmarshal(v.raw, &a) != nil || json.Unmarshal(other.raw, &b) != nil {
			return bytes.Equal(v.raw, other.raw)
		}
		return reflect.DeepEqual(a, b)
	}
}

// MarshalJSON emits the value in its original shape.
func (v UDAValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case udaString:
		return json.Marshal(v.s)
	case udaNumber:
		return []byte(v.num), nil
	case udaBool:
		return json.Marshal(v.b)
	default:
		if len(v.raw) == 0 {
			return []byte("null"), nil
		}
		return slices.Clone(v.raw), nil
	}
}

// UnmarshalJSON decodes any JSON value, keeping its shape.
func (v *UDAValue) UnmarshalJSON(data []byte) error {
	*v = decodeUDAValue(data)
	return nil
}

// decodeUDAValue classifies a raw JSON value by its leading byte. The raw
// bytes are assumed to be valid JSON (they come out of a json.Decoder).
func decodeUDAValue(raw json.RawMessage) UDAValue {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return RawValue(json.RawMessage("null"))
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return StringValue(s)
		}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err == nil {
			return BoolValue(b)
		}
	case '{', '[', 'n':
		return RawValue(trimmed)
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err == nil {
			return UDAValue{kind: udaNumber, num: n}
		}
	}
	return RawValue(trimmed)
}

// UDA is an insertion-ordered registry of user defined attributes. Decoding
// preserves the source order of unknown keys; Set of a new name appends.
// The registry is schema-agnostic: the rule that names must not collide
// with fixed-schema fields is enforced by the codec and the builder.
type UDA struct {
	names  []string
	values map[string]UDAValue
}

// Get returns the value stored under name.
func (u *UDA) Get(name string) (UDAValue, bool) {
	v, ok := u.values[name]
	return v, ok
}

// Set stores value under name, overwriting an existing entry in place or
// appending a new one.
func (u *UDA) Set(name string, value UDAValue) {
	if u.values == nil {
		u.values = make(map[string]UDAValue)
	}
	if _, ok := u.values[name]; !ok {
		u.names = append(u.names, name)
	}
	u.values[name] = value
}

// Remove deletes the entry under name and reports whether it was present.
func (u *UDA) Remove(name string) bool {
	if _, ok := u.values[name]; !ok {
		return false
	}
	delete(u.values, name)
	if i := slices.Index(u.names, name); i >= 0 {
		u.names = slices.Delete(u.names, i, i+1)
	}
	return true
}

// Len returns the number of entries.
func (u *UDA) Len() int {
	return len(u.names)
}

// Names returns a snapshot of the attribute names in registry order.
func (u *UDA) Names() []string {
	return slices.Clone(u.names)
}

// All iterates over (name, value) pairs in registry order. The sequence is
// restartable.
func (u *UDA) All() iter.Seq2[string, UDAValue] {
	return func(yield func(string, UDAValue) bool) {
		for _, name := range u.names {
			if !yield(name, u.values[name]) {
				return
			}
		}
	}
}

// Equal reports whether two registries hold the same entries in the same
// order.
func (u *UDA) Equal(other *UDA) bool {
	if len(u.names) != len(other.names) {
		return false
	}
	for i, name := range u.names {
		if other.names[i] != name {
			return false
		}
		if !u.values[name].Equal(other.values[name]) {
			return false
		}
	}
	return true
}

// clone returns an independent copy of the registry.
func (u *UDA) clone() UDA {
	out := UDA{names: slices.Clone(u.names)}
	if u.values != nil {
		out.values = make(map[string]UDAValue, len(u.values))
		for k, v := range u.values {
			out.values[k] = v
		}
	}
	return out
}
