package haggis

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Result is the template with the parsed arguments bound to it. It shares no
// memory with the template or parser that produced it.
type Result struct {
	fields      []Field
	index       map[string]int
	diagnostics []Diagnostic
}

// newResult deep-copies the schema defaults
func newResult(s *schema) *Result {
	r := &Result{
		fields: make([]Field, len(s.fields)),
		index:  make(map[string]int, len(s.fields)),
	}
	for i, f := range s.fields {
		f.Value = f.Value.clone()
		r.fields[i] = f
		r.index[f.Name] = i
	}
	return r
}

// add appends a field that is not part of the template
func (r *Result) add(name string, v Value, kind FieldKind) int {
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, Field{Name: name, Kind: kind, Value: v})
	return len(r.fields) - 1
}

// Keys returns field names: template order first, then fields added in
// non-strict mode in order of first assignment
func (r *Result) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

// Len returns the number of fields
func (r *Result) Len() int { return len(r.fields) }

// Has reports whether the result holds the named field
func (r *Result) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns a copy of the named value
func (r *Result) Get(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.fields[i].Value.clone(), true
}

// Kind returns the binding policy of the named field
func (r *Result) Kind(name string) (FieldKind, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.fields[i].Kind, true
}

// Diagnostics returns what the parser tolerated while binding
func (r *Result) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.diagnostics...)
}

// Typed getters. Each reports false when the field is missing or holds a
// different kind.

// GetString retrieves a string value
func (r *Result) GetString(name string) (string, bool) {
	v, ok := r.Get(name)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetBool retrieves a boolean value
func (r *Result) GetBool(name string) (bool, bool) {
	v, ok := r.Get(name)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetInt retrieves an integral value
func (r *Result) GetInt(name string) (int, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	i, ok := v.AsInt()
	return int(i), ok
}

// GetFloat retrieves a number, widening integers
func (r *Result) GetFloat(name string) (float64, bool) {
	v, ok := r.Get(name)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

// GetList retrieves the items of a list field
func (r *Result) GetList(name string) ([]Value, bool) {
	v, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return v.AsList()
}

// GetStrings retrieves a list field rendered as text, so `-s 1 a.txt`
// yields ["1", "a.txt"]
func (r *Result) GetStrings(name string) ([]string, bool) {
	items, ok := r.GetList(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out, true
}

// MustGetString returns the string value or defaultValue
func (r *Result) MustGetString(name, defaultValue string) string {
	if v, ok := r.GetString(name); ok {
		return v
	}
	return defaultValue
}

// MustGetBool returns the boolean value or defaultValue
func (r *Result) MustGetBool(name string, defaultValue bool) bool {
	if v, ok := r.GetBool(name); ok {
		return v
	}
	return defaultValue
}

// MustGetInt returns the integral value or defaultValue
func (r *Result) MustGetInt(name string, defaultValue int) int {
	if v, ok := r.GetInt(name); ok {
		return v
	}
	return defaultValue
}

// MustGetFloat returns the number or defaultValue
func (r *Result) MustGetFloat(name string, defaultValue float64) float64 {
	if v, ok := r.GetFloat(name); ok {
		return v
	}
	return defaultValue
}

// MustGetStrings returns the list rendered as text or defaultValue
func (r *Result) MustGetStrings(name string, defaultValue []string) []string {
	if v, ok := r.GetStrings(name); ok {
		return v
	}
	return defaultValue
}

// Map returns the result as plain Go values
func (r *Result) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = f.Value.Interface()
	}
	return m
}

// Fields returns a deep copy of the bound fields in order
func (r *Result) Fields() []Field {
	out := make([]Field, len(r.fields))
	for i, f := range r.fields {
		f.Value = f.Value.clone()
		out[i] = f
	}
	return out
}

// MarshalJSON encodes the result as an object in field order
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the result as {name:value ...}
func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.Name)
		sb.WriteByte(':')
		sb.WriteString(f.Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
