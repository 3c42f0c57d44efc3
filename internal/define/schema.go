package define

import "errors"

// File is the top-level shape of a record-definition document.
//
//	records:
//	  - name: LoginForm
//	    fields:
//	      - username: string
//	      - name: password
//	        type: string
//	        widget: password
type File struct {
	Records []RecordDef `yaml:"records"`
}

// RecordDef declares one named record. Records may reference records
// declared earlier in the same file by name.
type RecordDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field. Two YAML forms are accepted: the shorthand
// single-pair form `fieldname: typestring`, and the full form with explicit
// name and type keys where every other key becomes field metadata.
type FieldDef struct {
	Name     string
	Type     string
	Metadata map[string]any
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *FieldDef) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	// Shorthand: exactly one pair, key is the field name, value the type.
	if len(raw) == 1 {
		if _, full := raw["name"]; !full {
			for k, v := range raw {
				s, ok := v.(string)
				if !ok {
					return errors.New("field shorthand expects a type string value")
				}
				f.Name = k
				f.Type = s
			}
			return nil
		}
	}

	meta := make(map[string]any)
	for k, v := range raw {
		switch k {
		case "name":
			s, ok := v.(string)
			if !ok {
				return errors.New("field name must be a string")
			}
			f.Name = s
		case "type":
			s, ok := v.(string)
			if !ok {
				return errors.New("field type must be a string")
			}
			f.Type = s
		default:
			meta[k] = v
		}
	}

	if len(meta) > 0 {
		f.Metadata = meta
	}

	return nil
}
