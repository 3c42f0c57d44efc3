package vschema

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// one instance for the package; validator instances are safe for concurrent
// use and cache compiled rules
var ruleEngine = validator.New()

// Validate checks an appstruct against the schema: required fields must be
// present, and each present value must satisfy its field rules. All failures
// are reported, joined.
func (s *Schema) Validate(data map[string]any) error {
	var errs []error

	for i := range s.Fields {
		f := &s.Fields[i]

		v, ok := data[f.Name]
		if !ok || v == nil {
			if f.Required {
				errs = append(errs, fmt.Errorf("field %q is required", f.Name))
			}
			continue
		}

		if f.Children != nil {
			sub, isMap := v.(map[string]any)
			if !isMap {
				errs = append(errs, fmt.Errorf("field %q: expected nested map, got %T", f.Name, v))
				continue
			}
			if err := f.Children.Validate(sub); err != nil {
				errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
			}
			continue
		}

		if f.Rules == "" {
			continue
		}

		if err := ruleEngine.Var(v, f.Rules); err != nil {
			errs = append(errs, fmt.Errorf("field %q: %w", f.Name, err))
		}
	}

	return errors.Join(errs...)
}
