// Package jsonschema converts record types to JSON Schema documents, built
// on the invopop schema model so property order survives marshaling.
package jsonschema

import (
	js "github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"inverter/convert"
	"inverter/options"
	"inverter/typespec"
)

// Target is this package's identifier in the converter registry.
const Target convert.Target = "jsonschema"

type config struct {
	additionalProperties bool
	nullable             bool
	ignoreRequired       bool
	include              []string
	exclude              []string
}

type Option func(*config)

// WithAdditionalProperties lets instances carry properties beyond the record
// fields. Default is to forbid them.
func WithAdditionalProperties() Option {
	return func(c *config) { c.additionalProperties = true }
}

// WithNullable wraps every non-required property in oneOf [schema, null], for
// consumers that serialize absent values as explicit nulls.
func WithNullable() Option {
	return func(c *config) { c.nullable = true }
}

// WithoutRequired omits the required list, the edit-form case.
func WithoutRequired() Option {
	return func(c *config) { c.ignoreRequired = true }
}

// WithFields limits the document to the named top-level properties.
func WithFields(names ...string) Option {
	return func(c *config) { c.include = names }
}

// WithoutFields drops the named top-level properties.
func WithoutFields(names ...string) Option {
	return func(c *config) { c.exclude = names }
}

// Convert produces a draft 2020-12 JSON Schema document for a record type.
func Convert(rec *typespec.RecordType, request any, opts ...Option) (*js.Schema, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	cx := &convert.Context{Target: Target, Request: request, Settings: cfg}

	doc, err := assemble(rec.Restrict(cfg.include, cfg.exclude), cx)
	if err != nil {
		return nil, err
	}

	doc.Version = js.Version
	return doc, nil
}

func assemble(rec *typespec.RecordType, cx *convert.Context) (*js.Schema, error) {
	cfg := cx.Settings.(config)

	doc := &js.Schema{
		Type:       "object",
		Title:      rec.Name(),
		Properties: orderedmap.New[string, *js.Schema](),
	}
	if !cfg.additionalProperties {
		doc.AdditionalProperties = js.FalseSchema
	}

	descs, err := convert.Fields(registry, rec, cx.Child(rec.Name()))
	if err != nil {
		return nil, err
	}

	for _, fd := range descs {
		prop := fd.Desc.(*js.Schema)

		if fd.Opts.Title != "" {
			prop.Title = fd.Opts.Title
		}
		if fd.Opts.Description != "" {
			prop.Description = fd.Opts.Description
		}
		if fd.Opts.HasDefault {
			prop.Default = fd.Opts.Default
		}

		if fd.Opts.Required && !cfg.ignoreRequired {
			// bare strings must not validate as present-but-empty
			if prop.Type == "string" && prop.Pattern == "" && prop.Format == "" && len(prop.Enum) == 0 {
				prop.Pattern = ".+"
			}
			doc.Required = append(doc.Required, fd.Name)
		} else if cfg.nullable {
			prop = &js.Schema{OneOf: []*js.Schema{prop, {Type: "null"}}}
		}

		doc.Properties.Set(fd.Name, prop)
	}

	return doc, nil
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

func convertPrimitive(cls typespec.Class, opts options.Resolved, _ *convert.Context) (any, error) {
	switch cls.Scalar {
	case typespec.ScalarString:
		s := &js.Schema{Type: "string"}
		if opts.Format == "uuid" {
			s.Format = "uuid"
		}
		return s, nil
	case typespec.ScalarInteger:
		return &js.Schema{Type: "integer"}, nil
	case typespec.ScalarFloat:
		return &js.Schema{Type: "number"}, nil
	case typespec.ScalarBoolean:
		return &js.Schema{Type: "boolean"}, nil
	case typespec.ScalarDate:
		return &js.Schema{Type: "string", Format: "date"}, nil
	case typespec.ScalarDatetime:
		return &js.Schema{Type: "string", Format: "date-time"}, nil
	case typespec.ScalarBinary:
		return &js.Schema{Type: "string", ContentEncoding: "base64"}, nil
	case typespec.ScalarJSON:
		return &js.Schema{Type: "object"}, nil
	}

	return nil, &convert.UnsupportedConversionError{Target: Target, Kind: cls.Kind}
}

func convertChoice(cls typespec.Class, _ options.Resolved, _ *convert.Context) (any, error) {
	values := make([]any, len(cls.Choices))
	for i, v := range cls.Choices {
		values[i] = v
	}
	return &js.Schema{Type: "string", Enum: values}, nil
}

func convertSequence(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	items, err := convert.Element(registry, cls.Elem, cx)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "array", Items: items.(*js.Schema)}, nil
}

func convertMapping(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	values, err := convert.Element(registry, cls.Elem, cx)
	if err != nil {
		return nil, err
	}
	return &js.Schema{Type: "object", AdditionalProperties: values.(*js.Schema)}, nil
}

func convertRecord(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	return assemble(cls.Record, cx)
}
