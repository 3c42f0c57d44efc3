// Package esmapping converts record types to search-engine index mappings
// (the classic mappings/properties document). Property order follows field
// declaration order.
package esmapping

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"inverter/convert"
	"inverter/options"
	"inverter/typespec"
)

// Target is this package's identifier in the converter registry.
const Target convert.Target = "esmapping"

// Properties maps field names to mapping fragments, preserving order.
type Properties = orderedmap.OrderedMap[string, any]

// Document is the index mapping envelope.
type Document struct {
	Mappings Mappings `json:"mappings"`
}

type Mappings struct {
	Properties *Properties `json:"properties"`
}

type config struct {
	include []string
	exclude []string
}

type Option func(*config)

// WithFields limits the mapping to the named top-level fields.
func WithFields(names ...string) Option {
	return func(c *config) { c.include = names }
}

// WithoutFields drops the named top-level fields.
func WithoutFields(names ...string) Option {
	return func(c *config) { c.exclude = names }
}

// Convert produces the index mapping for a record type.
func Convert(rec *typespec.RecordType, request any, opts ...Option) (*Document, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	cx := &convert.Context{Target: Target, Request: request}

	props, err := assemble(rec.Restrict(cfg.include, cfg.exclude), cx)
	if err != nil {
		return nil, err
	}

	return &Document{Mappings: Mappings{Properties: props}}, nil
}

func assemble(rec *typespec.RecordType, cx *convert.Context) (*Properties, error) {
	descs, err := convert.Fields(registry, rec, cx.Child(rec.Name()))
	if err != nil {
		return nil, err
	}

	props := orderedmap.New[string, any]()

	for _, fd := range descs {
		fragment := fd.Desc.(map[string]any)

		// index: false disables indexing, so presence matters, not truth
		if fd.Opts.IndexSet {
			if _, set := fragment["index"]; !set {
				fragment["index"] = fd.Opts.Index
			}
		}

		// target-namespaced overrides merge last, verbatim
		if extra, ok := fd.Opts.Extra["es.mapping_options"].(map[string]any); ok {
			for k, v := range extra {
				fragment[k] = v
			}
		}

		props.Set(fd.Name, fragment)
	}

	return props, nil
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
		if f := opts.Format; f == "text" || len(f) > 5 && f[:5] == "text/" {
			return map[string]any{
				"type":   "text",
				"fields": map[string]any{"raw": map[string]any{"type": "keyword"}},
			}, nil
		}
		return map[string]any{"type": "keyword"}, nil
	case typespec.ScalarInteger:
		return map[string]any{"type": "long"}, nil
	case typespec.ScalarFloat:
		return map[string]any{"type": "double"}, nil
	case typespec.ScalarBoolean:
		return map[string]any{"type": "boolean"}, nil
	case typespec.ScalarDate, typespec.ScalarDatetime:
		return map[string]any{"type": "date"}, nil
	case typespec.ScalarBinary:
		return map[string]any{"type": "binary"}, nil
	case typespec.ScalarJSON:
		return map[string]any{"type": "object"}, nil
	}

	return nil, &convert.UnsupportedConversionError{Target: Target, Kind: cls.Kind}
}

func convertChoice(typespec.Class, options.Resolved, *convert.Context) (any, error) {
	return map[string]any{"type": "keyword"}, nil
}

func convertSequence(typespec.Class, options.Resolved, *convert.Context) (any, error) {
	return map[string]any{"type": "nested"}, nil
}

func convertMapping(typespec.Class, options.Resolved, *convert.Context) (any, error) {
	return map[string]any{"type": "object"}, nil
}

func convertRecord(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	props, err := assemble(cls.Record, cx)
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": "object", "properties": props}, nil
}
