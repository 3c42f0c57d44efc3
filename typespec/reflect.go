package typespec

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TagName is the struct tag consulted by FromStruct, e.g.
//
//	Password string `inverter:"required,widget=password"`
//
// Recognized items: "-", "required", "optional", "date", "pk", "unique",
// "index", "autoincrement", "searchable", and key=value pairs (widget, format,
// length, title, description, validate, enum=a|b|c). Unknown key=value pairs
// are kept as opaque metadata.
const TagName = "inverter"

// Of derives a record type from a Go struct type parameter.
func Of[T any]() (*RecordType, error) {
	return FromStruct(reflect.TypeOf((*T)(nil)).Elem())
}

// FromStruct derives a record type from a Go struct via reflection. Exported
// fields become FieldSpecs in declaration order; pointer fields map to
// Optional; nested structs map to nested records. Self-referential struct
// types are a definition error, same as hand-built records.
func FromStruct(t reflect.Type) (*RecordType, error) {
	return fromStruct(t, map[reflect.Type]struct{}{})
}

func fromStruct(t reflect.Type, stack map[reflect.Type]struct{}) (*RecordType, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &UnsupportedTypeError{Expr: typeName(t), Reason: "not a struct type"}
	}

	if _, onStack := stack[t]; onStack {
		return nil, fmt.Errorf("struct %s references itself", typeName(t))
	}
	stack[t] = struct{}{}
	defer delete(stack, t)

	var fields []FieldSpec

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		flags, meta := parseTag(sf.Tag.Get(TagName))
		if flags.skip {
			continue
		}

		expr, err := fromGoType(sf.Type, flags, stack)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", typeName(t), sf.Name, err)
		}

		if flags.required {
			meta["required"] = true
		}
		if flags.optional {
			if _, wrapped := expr.(Optional); !wrapped {
				expr = Optional{Inner: expr}
			}
		}

		fields = append(fields, FieldSpec{Name: fieldName(sf), Type: expr, Metadata: meta})
	}

	return New(t.Name(), fields)
}

type tagFlags struct {
	skip     bool
	required bool
	optional bool
	date     bool
	enum     []string
}

func parseTag(tag string) (tagFlags, map[string]any) {
	meta := map[string]any{}

	var flags tagFlags
	if tag == "" {
		return flags, meta
	}

	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		key = strings.TrimSpace(key)

		if !hasValue {
			switch key {
			case "-":
				flags.skip = true
			case "required":
				flags.required = true
			case "optional":
				flags.optional = true
			case "date":
				flags.date = true
			case "pk":
				meta["primary_key"] = true
			case "unique", "index", "autoincrement", "searchable":
				meta[key] = true
			}
			continue
		}

		switch key {
		case "enum":
			flags.enum = strings.Split(value, "|")
		case "length":
			if n, err := strconv.Atoi(value); err == nil {
				meta["length"] = n
			}
		default:
			meta[key] = value
		}
	}

	return flags, meta
}

func fromGoType(t reflect.Type, flags tagFlags, stack map[reflect.Type]struct{}) (TypeExpr, error) {
	if t.Kind() == reflect.Ptr {
		inner, err := fromGoType(t.Elem(), flags, stack)
		if err != nil {
			return nil, err
		}
		return Optional{Inner: inner}, nil
	}

	switch t {
	case reflect.TypeOf((*time.Time)(nil)).Elem():
		if flags.date {
			return Scalar{Of: ScalarDate}, nil
		}
		return Scalar{Of: ScalarDatetime}, nil
	case reflect.TypeOf((*[]byte)(nil)).Elem():
		return Scalar{Of: ScalarBinary}, nil
	case reflect.TypeOf((*map[string]any)(nil)).Elem():
		return Scalar{Of: ScalarJSON}, nil
	}

	switch t.Kind() {
	case reflect.String:
		if len(flags.enum) > 0 {
			return Choice{Values: flags.enum}, nil
		}
		return Scalar{Of: ScalarString}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Scalar{Of: ScalarInteger}, nil
	case reflect.Float32, reflect.Float64:
		return Scalar{Of: ScalarFloat}, nil
	case reflect.Bool:
		return Scalar{Of: ScalarBoolean}, nil
	case reflect.Slice, reflect.Array:
		elem, err := fromGoType(t.Elem(), tagFlags{}, stack)
		if err != nil {
			return nil, err
		}
		return Sequence{Elem: elem}, nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Expr: typeName(t), Reason: "mapping keys must be strings"}
		}
		value, err := fromGoType(t.Elem(), tagFlags{}, stack)
		if err != nil {
			return nil, err
		}
		return Mapping{Value: value}, nil
	case reflect.Struct:
		rec, err := fromStruct(t, stack)
		if err != nil {
			return nil, err
		}
		return Nested{Record: rec}, nil
	}

	return nil, &UnsupportedTypeError{Expr: typeName(t), Reason: "no schema equivalent for Go kind " + t.Kind().String()}
}

// fieldName prefers the json tag name, matching how mapped structs are
// usually wired to their wire form.
func fieldName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "" || tag == "-" {
		return sf.Name
	}
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return sf.Name
	}
	return tag
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
