package define

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"inverter/typespec"
)

// Diagnostic codes emitted while resolving a definition file.
const (
	CodeEmptyName     = "empty_name"
	CodeDuplicateName = "duplicate_name"
	CodeNoFields      = "no_fields"
	CodeBadType       = "bad_type"
	CodeBadRecord     = "bad_record"
)

// Set holds the record types resolved from one definition file, in
// declaration order.
type Set struct {
	order  []string
	byName map[string]*typespec.RecordType
}

// Names returns the record names in declaration order.
func (s *Set) Names() []string { return s.order }

// Get looks a record up by name.
func (s *Set) Get(name string) (*typespec.RecordType, bool) {
	rec, ok := s.byName[name]
	return rec, ok
}

// Load reads and resolves a definition file from disk.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}

	set, diags, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := diags.Err(); err != nil {
		return nil, err
	}

	return set, nil
}

// Parse decodes a definition document and resolves it into record types.
// YAML syntax errors return directly; structural problems accumulate in the
// returned Diagnostics so all of them surface in one run.
func Parse(data []byte) (*Set, *Diagnostics, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse definitions: %w", err)
	}

	set, diags := Resolve(&file)

	return set, diags, nil
}

// Resolve turns a decoded File into record types. Records resolve in
// declaration order, so a record may only reference records above it; that
// ordering rule is what keeps definition files acyclic by construction.
func Resolve(file *File) (*Set, *Diagnostics) {
	diags := &Diagnostics{}
	set := &Set{byName: make(map[string]*typespec.RecordType, len(file.Records))}
	seen := make(map[string]struct{}, len(file.Records))

	for _, rd := range file.Records {
		if rd.Name == "" {
			diags.AddError(CodeEmptyName, "record without a name", "", "")
			continue
		}

		if _, dup := seen[rd.Name]; dup {
			diags.AddError(CodeDuplicateName, "record defined twice", rd.Name, "")
			continue
		}
		seen[rd.Name] = struct{}{}

		if len(rd.Fields) == 0 {
			diags.AddError(CodeNoFields, "record has no fields", rd.Name, "")
			continue
		}

		fields := make([]typespec.FieldSpec, 0, len(rd.Fields))
		ok := true
		for _, fd := range rd.Fields {
			expr, err := parseType(fd.Type, set.byName)
			if err != nil {
				diags.AddError(CodeBadType, err.Error(), rd.Name, fd.Name)
				ok = false
				continue
			}

			fields = append(fields, typespec.FieldSpec{
				Name:     fd.Name,
				Type:     expr,
				Metadata: fd.Metadata,
			})
		}
		if !ok {
			continue
		}

		rec, err := typespec.New(rd.Name, fields)
		if err != nil {
			diags.AddError(CodeBadRecord, err.Error(), rd.Name, "")
			continue
		}

		set.order = append(set.order, rd.Name)
		set.byName[rd.Name] = rec
	}

	return set, diags
}
