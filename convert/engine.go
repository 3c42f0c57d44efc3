package convert

import (
	"inverter/options"
	"inverter/typespec"
)

// FieldDescriptor pairs a field's name and resolved options with the
// target-specific descriptor its converter produced. Envelope code attaches
// required/default in the target's idiomatic form.
type FieldDescriptor struct {
	Name string
	Opts options.Resolved
	Desc any
}

// Fields walks every field of a record type in declaration order and produces
// exactly one descriptor per field: classify, unwrap optionality, resolve
// metadata, look up the (target, kind) converter, invoke it. Any failure
// aborts the whole walk; no partial result is returned. Errors carry the
// namespace-qualified path of the failing field.
func Fields(reg *Registry, rec *typespec.RecordType, cx *Context) ([]FieldDescriptor, error) {
	specs := rec.Fields()
	descs := make([]FieldDescriptor, 0, len(specs))

	for _, f := range specs {
		cls, err := typespec.Classify(f.Type)
		if err != nil {
			return nil, withPath(err, cx.Path(f.Name))
		}

		opts := options.Resolve(f.Metadata, cls.Kind, cls.Required)

		fn, err := reg.Lookup(cx.Target, cls.Kind)
		if err != nil {
			return nil, withPath(err, cx.Path(f.Name))
		}

		desc, err := fn(cls, opts, cx)
		if err != nil {
			return nil, withPath(err, cx.Path(f.Name))
		}

		descs = append(descs, FieldDescriptor{Name: f.Name, Opts: opts, Desc: desc})
	}

	return descs, nil
}

// Element converts an unnamed inner type, the recursion point for sequence
// elements and mapping values. The element carries no metadata of its own,
// so options reduce to the classifier's required verdict.
func Element(reg *Registry, expr typespec.TypeExpr, cx *Context) (any, error) {
	cls, err := typespec.Classify(expr)
	if err != nil {
		return nil, err
	}

	fn, err := reg.Lookup(cx.Target, cls.Kind)
	if err != nil {
		return nil, err
	}

	return fn(cls, options.Resolve(nil, cls.Kind, cls.Required), cx)
}
