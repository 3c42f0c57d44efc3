// Package options resolves per-field metadata into a typed bag of recognized
// settings plus an opaque pass-through map. Resolution never fails and never
// mutates the input: unknown keys are forward-compatible, not errors.
package options

import (
	"inverter/typespec"
)

// Resolved is the options record consumed by target converters. The typed
// fields cover every key the built-in targets recognize; Extra carries the
// rest verbatim for targets with their own conventions.
type Resolved struct {
	// Required defaults to the absence of an Optional wrapper on the declared
	// type and is overridden by explicit "required" metadata either way.
	Required bool

	// Default is the value used when the field is absent. HasDefault
	// distinguishes an explicit default from the kind-derived empty value
	// (empty list for sequences, empty map for mappings).
	Default    any
	HasDefault bool

	// Display hints, passed through to targets without interpretation here.
	Widget      string
	Title       string
	Description string

	// Serialization hints.
	Format string // "uuid", "text", "bigint", "numeric", "fulltextindex", ...

	// Validation rules in go-playground/validator syntax, appended to the
	// rules a target derives on its own.
	Validate string

	// Relational flags. IndexSet records that the "index" key was present at
	// all; an explicit false is meaningful to search mappings.
	PrimaryKey    bool
	Index         bool
	IndexSet      bool
	Unique        bool
	AutoIncrement bool
	Searchable    bool
	Length        int

	// Extra holds every metadata key not recognized above, untouched.
	Extra map[string]any
}

// Resolve merges field metadata with defaults derived from the classified
// kind. required is the classifier's verdict (false iff the declared type was
// Optional); explicit metadata wins over it.
func Resolve(meta map[string]any, kind typespec.KindEnum, required bool) Resolved {
	res := Resolved{Required: required}

	switch kind {
	case typespec.KindSequence:
		res.Default = []any{}
	case typespec.KindMapping:
		res.Default = map[string]any{}
	}

	for key, value := range meta {
		switch key {
		case "required":
			res.Required = boolVal(value, res.Required)
		case "default":
			res.Default = value
			res.HasDefault = true
		case "widget":
			res.Widget = strVal(value)
		case "title":
			res.Title = strVal(value)
		case "description":
			res.Description = strVal(value)
		case "format":
			res.Format = strVal(value)
		case "validate":
			res.Validate = strVal(value)
		case "primary_key":
			res.PrimaryKey = boolVal(value, false)
		case "index":
			res.Index = boolVal(value, false)
			res.IndexSet = true
		case "unique":
			res.Unique = boolVal(value, false)
		case "autoincrement":
			res.AutoIncrement = boolVal(value, false)
		case "searchable":
			res.Searchable = boolVal(value, false)
		case "length":
			res.Length = intVal(value)
		default:
			if res.Extra == nil {
				res.Extra = make(map[string]any)
			}
			res.Extra[key] = value
		}
	}

	return res
}

func boolVal(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

func strVal(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func intVal(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
