package haggis

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// tagName is the struct tag overriding a field's template name. "-" skips
// the field.
const tagName = "haggis"

// structField describes one exported struct field usable as template field
type structField struct {
	name  string
	index int
}

// TemplateOf builds a template from a struct or pointer to struct. Fields
// keep their declaration order and their current values become defaults.
// The template name is the `haggis` tag, or the lower-cased field name.
//
// Supported field types: bool, signed and unsigned integers, floats, string,
// and slices of those.
func TemplateOf(v any) (*Template, error) {
	rv, err := unwrapStruct(v, false)
	if err != nil {
		return nil, err
	}

	fields, err := analyzeStruct(rv.Type())
	if err != nil {
		return nil, err
	}

	t := NewTemplate()
	for _, f := range fields {
		t.Set(f.name, valueOf(rv.Field(f.index)))
	}
	return t, nil
}

// Decode writes the bound values into dst, which must be a pointer to a
// struct following the TemplateOf naming rules. Fields absent from the
// result are left untouched; null values reset fields to their zero value.
func (r *Result) Decode(dst any) error {
	rv, err := unwrapStruct(dst, true)
	if err != nil {
		return err
	}

	fields, err := analyzeStruct(rv.Type())
	if err != nil {
		return err
	}

	for _, f := range fields {
		v, ok := r.Get(f.name)
		if !ok {
			continue
		}
		if err := assign(rv.Field(f.index), v); err != nil {
			return err.WithField(f.name)
		}
	}
	return nil
}

// unwrapStruct returns the struct behind v. With needPointer, v must be a
// non-nil pointer so the struct is settable.
func unwrapStruct(v any, needPointer bool) (reflect.Value, error) {
	rv := reflect.ValueOf(v)

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, NewError(ErrorTypeInvalidTemplate, "nil pointer")
		}
		rv = rv.Elem()
	} else if needPointer {
		return reflect.Value{}, NewError(ErrorTypeInvalidTemplate,
			fmt.Sprintf("arg must be ptr to struct, got %T", v))
	}

	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, NewError(ErrorTypeInvalidTemplate,
			fmt.Sprintf("arg must be struct or ptr to struct, got %T", v))
	}
	return rv, nil
}

// analyzeStruct lists the template fields of a struct type in order
func analyzeStruct(typ reflect.Type) ([]structField, error) {
	fields := make([]structField, 0, typ.NumField())
	seen := make(map[string]string, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.ToLower(field.Name)
		if tag, ok := field.Tag.Lookup(tagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		if !supportedType(field.Type) {
			return nil, NewError(ErrorTypeUnsupportedType,
				fmt.Sprintf("type %s not supported", field.Type)).WithField(field.Name)
		}

		if prev, dup := seen[name]; dup {
			return nil, NewError(ErrorTypeInvalidTemplate,
				fmt.Sprintf("name %q already used by %s", name, prev)).WithField(field.Name)
		}
		seen[name] = field.Name

		fields = append(fields, structField{name: name, index: i})
	}

	return fields, nil
}

// supportedType reports whether values of typ can be expressed as a Value
func supportedType(typ reflect.Type) bool {
	if typ.Kind() == reflect.Slice {
		return supportedScalar(typ.Elem())
	}
	return supportedScalar(typ)
}

func supportedScalar(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// valueOf converts a supported struct field value
func valueOf(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Float(float64(u))
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = valueOf(rv.Index(i))
		}
		return Value{kind: KindList, list: items}
	default:
		return Null()
	}
}

// assign stores v into dst, converting between number kinds where no
// precision is lost
func assign(dst reflect.Value, v Value) *Error {
	if v.IsNull() {
		dst.SetZero()
		return nil
	}

	switch dst.Kind() {
	case reflect.Bool:
		b, ok := v.AsBool()
		if !ok {
			return mismatch(dst, v)
		}
		dst.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := integral(v)
		if !ok || dst.OverflowInt(i) {
			return mismatch(dst, v)
		}
		dst.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		i, ok := integral(v)
		if !ok || i < 0 || dst.OverflowUint(uint64(i)) {
			return mismatch(dst, v)
		}
		dst.SetUint(uint64(i))

	case reflect.Float32, reflect.Float64:
		f, ok := v.AsFloat()
		if !ok || dst.OverflowFloat(f) {
			return mismatch(dst, v)
		}
		dst.SetFloat(f)

	case reflect.String:
		if v.Kind() == KindList {
			return mismatch(dst, v)
		}
		dst.SetString(v.String())

	case reflect.Slice:
		items, ok := v.AsList()
		if !ok {
			return mismatch(dst, v)
		}
		out := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), item); err != nil {
				return err
			}
		}
		dst.Set(out)

	default:
		return mismatch(dst, v)
	}

	return nil
}

// integral returns v as an int64 when it holds a whole number
func integral(v Value) (int64, bool) {
	switch v.Kind() {
	case KindInt:
		return v.i, true
	case KindFloat:
		if v.f != math.Trunc(v.f) || math.IsInf(v.f, 0) || v.f < math.MinInt64 || v.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(v.f), true
	default:
		return 0, false
	}
}

func mismatch(dst reflect.Value, v Value) *Error {
	return NewError(ErrorTypeDecode, fmt.Sprintf("cannot assign %s %q to %s", v.Kind(), v.String(), dst.Type()))
}
