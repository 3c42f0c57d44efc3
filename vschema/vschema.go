// Package vschema converts record types to validation schemas: per-field
// type tokens, requiredness, display hints and validation rules, plus
// serialize/deserialize codecs selected by a serialization policy.
//
// The four policies share one engine; only the scalar codec table differs:
//
//	PolicyNative      dates/datetimes/json stay native values
//	PolicyJSONSafe    date -> days since epoch, datetime -> epoch millis
//	PolicyAvroSafe    as JSONSafe, plus json blobs encoded as strings
//	PolicySearchSafe  date -> "YYYY-MM-DD", datetime -> ISO-8601
package vschema

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"inverter/convert"
	"inverter/options"
	"inverter/typespec"
)

//go:generate go tool stringer -type=Policy -output=policy_string.go

// Policy selects the scalar serialization table.
type Policy int

const (
	_ Policy = iota

	PolicyNative
	PolicyJSONSafe
	PolicyAvroSafe
	PolicySearchSafe

	// PolicyTotal is a constant that represents the total number of policies defined
	PolicyTotal = int(iota)
)

// Each policy is its own conversion target; the engine dispatches on the
// pair, so the tables never leak across policies.
const (
	Target           convert.Target = "vschema"
	TargetJSONSafe   convert.Target = "vschema+json"
	TargetAvroSafe   convert.Target = "vschema+avro"
	TargetSearchSafe convert.Target = "vschema+search"
)

// ParsePolicy resolves a policy name ("native", "json", "avro", "search").
func ParsePolicy(name string) (Policy, bool) {
	switch name {
	case "native":
		return PolicyNative, true
	case "json":
		return PolicyJSONSafe, true
	case "avro":
		return PolicyAvroSafe, true
	case "search":
		return PolicySearchSafe, true
	}
	return 0, false
}

func (p Policy) target() convert.Target {
	switch p {
	case PolicyJSONSafe:
		return TargetJSONSafe
	case PolicyAvroSafe:
		return TargetAvroSafe
	case PolicySearchSafe:
		return TargetSearchSafe
	default:
		return Target
	}
}

// Schema is the produced validation schema document.
type Schema struct {
	Name   string
	Policy Policy
	Fields []Field
}

// Field describes one field: a type token, requiredness, hints, rules in
// go-playground/validator syntax, and the recursion points for nested
// records (Children) and collections (Item).
type Field struct {
	Name        string
	Type        string
	Format      string // serialized form, e.g. "days-since-epoch"
	Required    bool
	Readonly    bool
	Default     any
	Widget      string
	Title       string
	Description string
	Rules       string
	Values      []string // choice symbols
	Children    *Schema  // nested record
	Item        *Field   // sequence element / mapping value

	codec codec
}

// Widget tokens form a closed set; anything else is an InvalidMetadataError.
var knownWidgets = map[string]struct{}{
	"text": {}, "textarea": {}, "password": {}, "hidden": {}, "checkbox": {},
	"select": {}, "email": {}, "number": {}, "date": {}, "datetime": {},
}

type config struct {
	policy         Policy
	ignoreRequired bool
	include        []string
	exclude        []string
	hidden         []string
	readonly       []string
}

type Option func(*config)

// WithPolicy selects the serialization policy; the default is PolicyNative.
func WithPolicy(p Policy) Option {
	return func(c *config) { c.policy = p }
}

// WithoutRequired forces every field optional, the edit-form case.
func WithoutRequired() Option {
	return func(c *config) { c.ignoreRequired = true }
}

// WithFields limits the schema to the named top-level fields.
func WithFields(names ...string) Option {
	return func(c *config) { c.include = names }
}

// WithoutFields drops the named top-level fields.
func WithoutFields(names ...string) Option {
	return func(c *config) { c.exclude = names }
}

// WithHiddenFields forces the hidden widget on the named top-level fields.
func WithHiddenFields(names ...string) Option {
	return func(c *config) { c.hidden = names }
}

// WithReadonlyFields marks the named top-level fields read-only and drops
// their validation rules, since their values never come from input.
func WithReadonlyFields(names ...string) Option {
	return func(c *config) { c.readonly = names }
}

// Convert produces the validation schema for a record type.
func Convert(rec *typespec.RecordType, request any, opts ...Option) (*Schema, error) {
	cfg := config{policy: PolicyNative}
	for _, opt := range opts {
		opt(&cfg)
	}

	cx := &convert.Context{Target: cfg.policy.target(), Request: request, Settings: cfg}

	doc, err := assemble(rec.Restrict(cfg.include, cfg.exclude), cx)
	if err != nil {
		return nil, err
	}

	for i := range doc.Fields {
		f := &doc.Fields[i]
		if slices.Contains(cfg.hidden, f.Name) {
			f.Widget = "hidden"
		}
		if slices.Contains(cfg.readonly, f.Name) {
			f.Readonly = true
			f.Required = false
			f.Rules = ""
		}
	}

	return doc, nil
}

func assemble(rec *typespec.RecordType, cx *convert.Context) (*Schema, error) {
	cfg := cx.Settings.(config)

	doc := &Schema{Name: rec.Name(), Policy: cfg.policy}

	descs, err := convert.Fields(registry, rec, cx.Child(rec.Name()))
	if err != nil {
		return nil, err
	}

	for _, fd := range descs {
		field := fd.Desc.(*Field)
		field.Name = fd.Name

		if err := applyOptions(field, fd.Opts, cfg); err != nil {
			return nil, withFieldPath(err, cx.Child(rec.Name()).Path(fd.Name))
		}

		doc.Fields = append(doc.Fields, *field)
	}

	return doc, nil
}

func applyOptions(field *Field, opts options.Resolved, cfg config) error {
	field.Required = opts.Required && !cfg.ignoreRequired
	field.Default = opts.Default
	field.Title = opts.Title
	field.Description = opts.Description

	if opts.Widget != "" {
		if _, ok := knownWidgets[opts.Widget]; !ok {
			return &convert.InvalidMetadataError{Key: "widget", Value: opts.Widget,
				Reason: "unrecognized widget token"}
		}
		field.Widget = opts.Widget
	}

	if opts.Format == "uuid" && opts.HasDefault {
		s, ok := opts.Default.(string)
		if !ok {
			return &convert.InvalidMetadataError{Key: "default", Value: opts.Default,
				Reason: "uuid-format default must be a string"}
		}
		if _, err := uuid.Parse(s); err != nil {
			return &convert.InvalidMetadataError{Key: "default", Value: opts.Default,
				Reason: "not a valid UUID"}
		}
	}

	field.Rules = buildRules(field, opts)
	return nil
}

// buildRules derives go-playground/validator rules from requiredness, format
// and choice symbols, then appends any caller-supplied rules verbatim.
func buildRules(field *Field, opts options.Resolved) string {
	var rules []string

	if field.Required {
		rules = append(rules, "required")
	}
	if opts.Format == "uuid" {
		rules = append(rules, "uuid")
	}
	if field.Widget == "email" {
		rules = append(rules, "email")
	}
	if len(field.Values) > 0 {
		rules = append(rules, "oneof="+joinOneOf(field.Values))
	}
	if opts.Validate != "" {
		rules = append(rules, opts.Validate)
	}

	return strings.Join(rules, ",")
}

// joinOneOf renders choice symbols as a oneof parameter list. The validator
// splits parameters on spaces, so symbols containing one are single-quoted.
func joinOneOf(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		if strings.ContainsRune(v, ' ') {
			quoted[i] = "'" + v + "'"
		} else {
			quoted[i] = v
		}
	}
	return strings.Join(quoted, " ")
}

func withFieldPath(err error, path string) error {
	type pathSetter interface{ SetPath(string) }
	if ps, ok := err.(pathSetter); ok {
		ps.SetPath(path)
	}
	return err
}

var registry *convert.Registry

func init() {
	registry = newRegistry()
}

func newRegistry() *convert.Registry {
	reg := convert.NewRegistry()

	for p := Policy(1); int(p) < PolicyTotal; p++ {
		target := p.target()
		table := profiles[p]

		reg.Register(target, typespec.KindPrimitive, primitiveConverter(table))
		reg.Register(target, typespec.KindChoice, convertChoice)
		reg.Register(target, typespec.KindSequence, collectionConverter("list"))
		reg.Register(target, typespec.KindMapping, collectionConverter("map"))
		reg.Register(target, typespec.KindRecord, convertRecord)
	}

	return reg
}

func primitiveConverter(table profile) convert.Converter {
	return func(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
		c, ok := table[cls.Scalar]
		if !ok {
			return nil, &convert.UnsupportedConversionError{Target: cx.Target, Kind: cls.Kind}
		}
		return &Field{Type: c.token, Format: c.format, codec: c}, nil
	}
}

func convertChoice(cls typespec.Class, _ options.Resolved, _ *convert.Context) (any, error) {
	return &Field{Type: "string", Values: cls.Choices, codec: identityCodec("string")}, nil
}

func collectionConverter(token string) convert.Converter {
	return func(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
		inner, err := convert.Element(registry, cls.Elem, cx)
		if err != nil {
			return nil, err
		}
		return &Field{Type: token, Item: inner.(*Field)}, nil
	}
}

func convertRecord(cls typespec.Class, _ options.Resolved, cx *convert.Context) (any, error) {
	sub, err := assemble(cls.Record, cx)
	if err != nil {
		return nil, err
	}
	return &Field{Type: "record", Children: sub}, nil
}
