package define

import (
	"fmt"
	"strings"

	"inverter/typespec"
)

// parseType turns a definition-file type string into a TypeExpr. Record
// references resolve against records declared earlier in the same file.
func parseType(s string, known map[string]*typespec.RecordType) (typespec.TypeExpr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type")
	}

	if inner, ok := wrapped(s, "optional"); ok {
		elem, err := parseType(inner, known)
		if err != nil {
			return nil, err
		}
		return typespec.Optional{Inner: elem}, nil
	}

	if inner, ok := wrapped(s, "list"); ok {
		elem, err := parseType(inner, known)
		if err != nil {
			return nil, err
		}
		return typespec.Sequence{Elem: elem}, nil
	}

	if inner, ok := wrapped(s, "map"); ok {
		elem, err := parseType(inner, known)
		if err != nil {
			return nil, err
		}
		return typespec.Mapping{Value: elem}, nil
	}

	if strings.HasPrefix(s, "enum(") && strings.HasSuffix(s, ")") {
		body := s[len("enum(") : len(s)-1]
		if strings.TrimSpace(body) == "" {
			return nil, fmt.Errorf("enum needs at least one value")
		}
		parts := strings.Split(body, "|")
		values := make([]string, len(parts))
		for i, p := range parts {
			values[i] = strings.TrimSpace(p)
			if values[i] == "" {
				return nil, fmt.Errorf("enum value %d is empty", i)
			}
		}
		return typespec.Choice{Values: values}, nil
	}

	if scalar, ok := typespec.ParseScalarToken(s); ok {
		return typespec.Scalar{Of: scalar}, nil
	}

	if rec, ok := known[s]; ok {
		return typespec.Nested{Record: rec}, nil
	}

	return nil, fmt.Errorf("unknown type %q", s)
}

// wrapped matches "prefix<inner>" and returns inner. The angle brackets must
// balance so nested forms like optional<list<string>> split correctly.
func wrapped(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix+"<") || !strings.HasSuffix(s, ">") {
		return "", false
	}

	inner := s[len(prefix)+1 : len(s)-1]
	depth := 0
	for _, r := range inner {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return "", false
			}
		}
	}

	return inner, depth == 0
}
