// Package avro converts record types to Avro JSON schemas. Optionality maps
// to a union with "null"; dates and datetimes use Avro logical types.
package avro

import (
	"encoding/json"

	"github.com/linkedin/goavro/v2"

	"inverter/convert"
	"inverter/options"
	"inverter/typespec"
)

// Target is this package's identifier in the converter registry.
const Target convert.Target = "avro"

// DefaultNamespace qualifies records when the caller supplies none.
const DefaultNamespace = "inverter"

// Schema is an Avro record schema document.
type Schema struct {
	Namespace string  `json:"namespace,omitempty"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Fields    []Field `json:"fields"`
}

// Field is one Avro record field. Type is either a union array, a logical
// type object, or a nested *Schema.
type Field struct {
	Name    string `json:"name"`
	Type    any    `json:"type"`
	Default any    `json:"default,omitempty"`
}

type config struct {
	namespace      string
	ignoreRequired bool
	include        []string
	exclude        []string
}

type Option func(*config)

// WithNamespace sets the schema namespace.
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithRequired honors required flags instead of forcing every field nullable.
// The default matches consumers that evolve schemas freely: all unions carry
// "null".
func WithRequired() Option {
	return func(c *config) { c.ignoreRequired = false }
}

// WithFields limits the schema to the named top-level fields, in declaration
// order. Nested records keep all of their fields.
func WithFields(names ...string) Option {
	return func(c *config) { c.include = names }
}

// WithoutFields drops the named top-level fields.
func WithoutFields(names ...string) Option {
	return func(c *config) { c.exclude = names }
}

// Convert produces the Avro schema document for a record type.
func Convert(rec *typespec.RecordType, request any, opts ...Option) (*Schema, error) {
	cfg := config{namespace: DefaultNamespace, ignoreRequired: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	cx := &convert.Context{
		Target:    Target,
		Request:   request,
		Namespace: cfg.namespace,
		Settings:  cfg,
	}

	return assemble(rec.Restrict(cfg.include, cfg.exclude), cx)
}

func assemble(rec *typespec.RecordType, cx *convert.Context) (*Schema, error) {
	cfg := cx.Settings.(config)

	doc := &Schema{
		Namespace: cx.Namespace,
		Type:      "record",
		Name:      rec.Name(),
		Fields:    []Field{},
	}

	descs, err := convert.Fields(registry, rec, cx.Child(rec.Name()))
	if err != nil {
		return nil, err
	}

	for _, fd := range descs {
		field := Field{Name: fd.Name}

		switch desc := fd.Desc.(type) {
		case *Schema:
			// nested records are carried whole, no union
			field.Type = desc
		default:
			union := []any{nameEnums(desc, fd.Name)}
			if cfg.ignoreRequired || !fd.Opts.Required {
				union = append(union, "null")
			}
			field.Type = union
		}

		if fd.Opts.HasDefault {
			field.Default = fd.Opts.Default
		}

		doc.Fields = append(doc.Fields, field)
	}

	return doc, nil
}

// Compile parses the produced document with goavro, yielding a codec ready
// for binary or textual Avro encoding. It doubles as a structural check that
// the schema is valid Avro.
func Compile(s *Schema) (*goavro.Codec, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return goavro.NewCodec(string(data))
}

type enumSpec struct {
	symbols []string
}

// nameEnums replaces enum placeholders with named Avro enum schemas. Names
// derive from the owning field so two enum-bearing fields in one record
// never collide on the type name.
func nameEnums(desc any, name string) any {
	switch d := desc.(type) {
	case enumSpec:
		return map[string]any{"type": "enum", "name": name + "_enum", "symbols": d.symbols}
	case map[string]any:
		if items, ok := d["items"]; ok {
			d["items"] = nameEnums(items, name+"_item")
		}
		if values, ok := d["values"]; ok {
			d["values"] = nameEnums(values, name+"_value")
		}
	}
	return desc
}

var registry *convert.Registry

func init() {
	registry = newRegistry()
}

func newRegistry() *convert.Registry {
	reg := convert.NewRegistry()

	reg.Register(Target, typespec.KindPrimitive, convertPrimitive)
	reg.Register(Target, typespec.KindChoice, convertChoice)
	reg.Register(Target, typespec.KindSequence, convertSequence)
	reg.Register(Target, typespec.KindMapping, convertMapping)
	reg.Register(Target, typespec.KindRecord, convertRecord)

	return reg
}

func convertPrimitive(cls typespec.Class, opts options.Resolved, cx *convert.Context) (any, error) {
	switch cls.Scalar {
	case typespec.ScalarString:
		if opts.Format == "uuid" {
			return map[string]any{"type": "string", "logicalType": "uuid"}, nil
		}
		return "string", nil
	case typespec.ScalarInteger:
		if opts.Format == "bigint" {
			return "long", nil
		}
		return "int", nil
	case typespec.ScalarFloat:
		return "double", nil
	case typespec.ScalarBoolean:
		return "boolean", nil
	case typespec.ScalarDate:
		return map[string]any{"type": "int", "logicalType": "date"}, nil
	case typespec.ScalarDatetime:
		return map[string]any{"type": "long", "logicalType": "timestamp-millis"}, nil
	case typespec.ScalarBinary:
		return "bytes", nil
	case typespec.ScalarJSON:
		// Avro has no schemaless object type; JSON blobs travel as strings.
		return "string", nil
	}

	return nil, &convert.UnsupportedConversionError{Target: Target, Kind: cls.Kind}
}

func convertChoice(cls typespec.Class, _ options.Resolved, _ *convert.Context) (any, error) {
	return enumSpec{symbols: cls.Choices}, nil
}

func convertSequence(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	items, err := convert.Element(registry, cls.Elem, cx)
	if err != nil {
		return nil, err
	}
	// enum elements stay as placeholders until assemble knows the field name
	return map[string]any{"type": "array", "items": items}, nil
}

func convertMapping(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	values, err := convert.Element(registry, cls.Elem, cx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "map", "values": values}, nil
}

func convertRecord(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	return assemble(cls.Record, cx)
}
