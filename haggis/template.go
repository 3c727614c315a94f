package haggis

import "fmt"

// FieldKind is the binding policy a template field derives from its shape
type FieldKind string

const (
	FieldFlag    FieldKind = "flag"    // bool: receives an implicit true
	FieldCounter FieldKind = "counter" // integral number
	FieldNumber  FieldKind = "number"  // fractional number
	FieldText    FieldKind = "text"    // string
	FieldList    FieldKind = "list"    // array: accumulates values
	FieldAny     FieldKind = "any"     // null shape: plain overwrite
)

// kindOf maps a shape value to its field kind
func kindOf(v Value) FieldKind {
	switch v.kind {
	case KindBool:
		return FieldFlag
	case KindInt:
		return FieldCounter
	case KindFloat:
		return FieldNumber
	case KindString:
		return FieldText
	case KindList:
		return FieldList
	case KindNull:
		return FieldAny
	default:
		return FieldAny
	}
}

// Field is a single template entry
type Field struct {
	Name  string
	Kind  FieldKind
	Value Value
}

// Template is an ordered set of named shape values. Field order matters:
// a short flag letter resolves to the first field whose name starts with it.
type Template struct {
	fields []Field
	index  map[string]int
}

// NewTemplate creates an empty template
func NewTemplate() *Template {
	return &Template{index: make(map[string]int)}
}

// Set adds or replaces a field. A replaced field keeps its position.
func (t *Template) Set(name string, v Value) *Template {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	f := Field{Name: name, Kind: kindOf(v), Value: v.clone()}
	if i, ok := t.index[name]; ok {
		t.fields[i] = f
		return t
	}
	t.index[name] = len(t.fields)
	t.fields = append(t.fields, f)
	return t
}

// Flag adds a boolean field
func (t *Template) Flag(name string, def bool) *Template { return t.Set(name, Bool(def)) }

// Counter adds an integral number field
func (t *Template) Counter(name string, def int64) *Template { return t.Set(name, Int(def)) }

// Number adds a fractional number field
func (t *Template) Number(name string, def float64) *Template { return t.Set(name, Float(def)) }

// Text adds a string field
func (t *Template) Text(name, def string) *Template { return t.Set(name, String(def)) }

// List adds an accumulating field, optionally pre-filled
func (t *Template) List(name string, items ...Value) *Template {
	return t.Set(name, List(items...))
}

// Strings adds an accumulating field pre-filled with text values
func (t *Template) Strings(name string, items ...string) *Template {
	values := make([]Value, len(items))
	for i, s := range items {
		values[i] = String(s)
	}
	return t.Set(name, Value{kind: KindList, list: values})
}

// Len returns the number of fields
func (t *Template) Len() int {
	if t == nil {
		return 0
	}
	return len(t.fields)
}

// Keys returns field names in definition order
func (t *Template) Keys() []string {
	if t == nil {
		return nil
	}
	keys := make([]string, len(t.fields))
	for i, f := range t.fields {
		keys[i] = f.Name
	}
	return keys
}

// Lookup returns a copy of the named field
func (t *Template) Lookup(name string) (Field, bool) {
	if t == nil {
		return Field{}, false
	}
	i, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	f := t.fields[i]
	f.Value = f.Value.clone()
	return f, true
}

// Fields returns a deep copy of all fields in order
func (t *Template) Fields() []Field {
	if t == nil {
		return nil
	}
	out := make([]Field, len(t.fields))
	for i, f := range t.fields {
		f.Value = f.Value.clone()
		out[i] = f
	}
	return out
}

// Clone returns an independent copy of t
func (t *Template) Clone() *Template {
	c := NewTemplate()
	if t == nil {
		return c
	}
	for _, f := range t.fields {
		c.Set(f.Name, f.Value)
	}
	return c
}

// String renders the template as {name:kind=value ...}
func (t *Template) String() string {
	s := "{"
	for i, f := range t.Fields() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s:%s=%s", f.Name, f.Kind, f.Value)
	}
	return s + "}"
}

// Ambiguity records several fields sharing a leading letter; Winner is the
// one short flags resolve to.
type Ambiguity struct {
	Letter  rune
	Winner  string
	Shadows []string
}

// schema is the immutable, pre-computed view of a template used while parsing
type schema struct {
	fields      []Field
	index       map[string]int
	short       map[rune]int // leading letter -> first field
	ambiguities []Ambiguity
}

// buildSchema snapshots t. Later changes to t do not reach the schema.
func buildSchema(t *Template) *schema {
	fields := t.Fields()
	s := &schema{
		fields: fields,
		index:  make(map[string]int, len(fields)),
		short:  make(map[rune]int, len(fields)),
	}

	shadowed := make(map[rune][]string)
	var order []rune
	for i, f := range fields {
		s.index[f.Name] = i
		if f.Name == "" {
			continue
		}
		letter := []rune(f.Name)[0]
		if _, taken := s.short[letter]; taken {
			if len(shadowed[letter]) == 0 {
				order = append(order, letter)
			}
			shadowed[letter] = append(shadowed[letter], f.Name)
			continue
		}
		s.short[letter] = i
	}

	for _, letter := range order {
		s.ambiguities = append(s.ambiguities, Ambiguity{
			Letter:  letter,
			Winner:  fields[s.short[letter]].Name,
			Shadows: shadowed[letter],
		})
	}

	return s
}

// field returns the named field
func (s *schema) field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// isFlag reports whether name is a boolean template field
func (s *schema) isFlag(name string) bool {
	f, ok := s.field(name)
	return ok && f.Kind == FieldFlag
}

// names lists field names in order
func (s *schema) names() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}
