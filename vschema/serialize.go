package vschema

import "fmt"

// Serialize applies the policy codecs field by field, producing the wire
// form of an appstruct. Absent or nil values fall back to the field default
// (which may itself be nil) without encoding.
func (s *Schema) Serialize(appstruct map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))

	for i := range s.Fields {
		f := &s.Fields[i]

		v, ok := appstruct[f.Name]
		if !ok || v == nil {
			out[f.Name] = f.Default
			continue
		}

		enc, err := encodeValue(f, v)
		if err != nil {
			return nil, fmt.Errorf("serialize %s: %w", f.Name, err)
		}
		out[f.Name] = enc
	}

	return out, nil
}

// Deserialize is the inverse of Serialize.
func (s *Schema) Deserialize(cstruct map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(s.Fields))

	for i := range s.Fields {
		f := &s.Fields[i]

		v, ok := cstruct[f.Name]
		if !ok || v == nil {
			out[f.Name] = f.Default
			continue
		}

		dec, err := decodeValue(f, v)
		if err != nil {
			return nil, fmt.Errorf("deserialize %s: %w", f.Name, err)
		}
		out[f.Name] = dec
	}

	return out, nil
}

func encodeValue(f *Field, v any) (any, error) {
	switch {
	case f.Children != nil:
		sub, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected nested map, got %T", v)
		}
		return f.Children.Serialize(sub)
	case f.Type == "list":
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected list, got %T", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			enc, err := encodeValue(f.Item, item)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case f.Type == "map":
		entries, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected map, got %T", v)
		}
		out := make(map[string]any, len(entries))
		for k, item := range entries {
			enc, err := encodeValue(f.Item, item)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	default:
		return f.codec.encode(v)
	}
}

func decodeValue(f *Field, v any) (any, error) {
	switch {
	case f.Children != nil:
		sub, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected nested map, got %T", v)
		}
		return f.Children.Deserialize(sub)
	case f.Type == "list":
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected list, got %T", v)
		}
		out := make([]any, len(items))
		for i, item := range items {
			dec, err := decodeValue(f.Item, item)
			if err != nil {
				return nil, err
			}
			out[i] = dec
		}
		return out, nil
	case f.Type == "map":
		entries, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected map, got %T", v)
		}
		out := make(map[string]any, len(entries))
		for k, item := range entries {
			dec, err := decodeValue(f.Item, item)
			if err != nil {
				return nil, err
			}
			out[k] = dec
		}
		return out, nil
	default:
		return f.codec.decode(v)
	}
}
