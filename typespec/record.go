package typespec

import (
	"errors"
	"fmt"
)

// FieldSpec declares one field of a record type: a name, a declared type and
// free-form metadata. Metadata keys recognized by the options resolver get
// typed handling; everything else passes through to targets untouched.
type FieldSpec struct {
	Name     string
	Type     TypeExpr
	Metadata map[string]any
}

// RecordType is a named, ordered, immutable set of typed fields. Build one
// with New; the engine never mutates it.
type RecordType struct {
	name   string
	fields []FieldSpec
}

// New builds a record type, rejecting definition errors up front: empty or
// duplicate field names, missing types, and any record reachable from itself.
// Conversion relies on record types being tree-shaped, so cycles are refused
// here rather than tracked during conversion.
func New(name string, fields []FieldSpec) (*RecordType, error) {
	if name == "" {
		return nil, errors.New("record type needs a name")
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("record %q: field with empty name", name)
		}

		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("record %q: duplicate field %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.Type == nil {
			return nil, fmt.Errorf("record %q: field %q has no type", name, f.Name)
		}
	}

	rec := &RecordType{name: name, fields: append([]FieldSpec(nil), fields...)}

	if err := checkAcyclic(rec, map[*RecordType]struct{}{}); err != nil {
		return nil, err
	}

	return rec, nil
}

// MustNew is New for statically known definitions; it panics on error.
func MustNew(name string, fields []FieldSpec) *RecordType {
	rec, err := New(name, fields)
	if err != nil {
		panic(err)
	}
	return rec
}

func (r *RecordType) Name() string { return r.name }

// Fields returns the fields in declaration order. Callers must not mutate
// the returned slice.
func (r *RecordType) Fields() []FieldSpec { return r.fields }

func (r *RecordType) String() string { return r.name }

// Restrict derives a record type limited to the selected fields: with a
// non-empty include list only those names survive, then exclude names are
// dropped. Declaration order is preserved and unknown names are ignored.
// Subsetting cannot introduce duplicates or cycles, so no revalidation runs.
func (r *RecordType) Restrict(include, exclude []string) *RecordType {
	if len(include) == 0 && len(exclude) == 0 {
		return r
	}

	keep := make(map[string]struct{}, len(include))
	for _, name := range include {
		keep[name] = struct{}{}
	}
	drop := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		drop[name] = struct{}{}
	}

	fields := make([]FieldSpec, 0, len(r.fields))
	for _, f := range r.fields {
		if len(include) > 0 {
			if _, ok := keep[f.Name]; !ok {
				continue
			}
		}
		if _, ok := drop[f.Name]; ok {
			continue
		}
		fields = append(fields, f)
	}

	return &RecordType{name: r.name, fields: fields}
}

func checkAcyclic(rec *RecordType, stack map[*RecordType]struct{}) error {
	if _, onStack := stack[rec]; onStack {
		return fmt.Errorf("record %q references itself", rec.name)
	}

	stack[rec] = struct{}{}
	defer delete(stack, rec)

	for _, f := range rec.fields {
		for _, sub := range nestedRecords(f.Type) {
			if err := checkAcyclic(sub, stack); err != nil {
				return fmt.Errorf("record %q, field %q: %w", rec.name, f.Name, err)
			}
		}
	}

	return nil
}

func nestedRecords(t TypeExpr) []*RecordType {
	switch bt := t.(type) {
	case Optional:
		return nestedRecords(bt.Inner)
	case Sequence:
		return nestedRecords(bt.Elem)
	case Mapping:
		return nestedRecords(bt.Value)
	case Nested:
		if bt.Record != nil {
			return []*RecordType{bt.Record}
		}
	}

	return nil
}
