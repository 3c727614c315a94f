package haggis

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the runtime type held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a tagged value produced by Cast or held by a template/result field.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

// Null returns the null value
func Null() Value { return Value{} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integral number
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a fractional number
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a text value
func String(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list holding a copy of items
func List(items ...Value) Value {
	return Value{kind: KindList, list: cloneValues(items)}
}

// Kind reports the kind of v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer held by v
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// AsFloat returns v as a float64. Integers are widened.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the text held by v
func (v Value) AsString() (string, bool) {
	return v.s, v.kind == KindString
}

// AsList returns a copy of the items held by v
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return cloneValues(v.list), true
}

// Len returns the number of items of a list value, 0 otherwise
func (v Value) Len() int {
	return len(v.list)
}

// String renders v as command-line text. Feeding the text back into Cast
// yields an equal value for bool and number kinds.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return ""
	}
}

// Interface returns v as a plain Go value: nil, bool, int64, float64,
// string or []any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same kind and content.
// NaN floats compare equal to each other.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		if math.IsNaN(v.f) && math.IsNaN(o.f) {
			return true
		}
		return v.f == o.f
	case KindString:
		return v.s == o.s
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalJSON encodes v. Non-finite floats encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindList:
		buf := make([]byte, 0, 2+8*len(v.list))
		buf = append(buf, '[')
		for i, item := range v.list {
			if i > 0 {
				buf = append(buf, ',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
		}
		return append(buf, ']'), nil
	default:
		return []byte("null"), nil
	}
}

// clone returns a deep copy of v
func (v Value) clone() Value {
	if v.kind == KindList {
		v.list = cloneValues(v.list)
	}
	return v
}

// cloneValues deep-copies a slice of values
func cloneValues(items []Value) []Value {
	if items == nil {
		return nil
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = item.clone()
	}
	return out
}

// formatFloat prints f in the shortest form Cast reads back
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
