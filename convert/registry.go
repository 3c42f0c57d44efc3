package convert

import (
	"fmt"

	"inverter/options"
	"inverter/typespec"
)

// Converter turns one classified field into a target-specific descriptor.
// The descriptor shape is owned by the target package that registered it.
type Converter func(cls typespec.Class, opts options.Resolved, cx *Context) (any, error)

type registryKey struct {
	target Target
	kind   typespec.KindEnum
}

// Registry maps (target, semantic kind) pairs to converters. Registration is
// additive: a new target or kind is a new entry, never an edit to an existing
// converter. Registries are populated once at initialization and must be
// treated as read-only while conversions run.
type Registry struct {
	converters map[registryKey]Converter
}

func NewRegistry() *Registry {
	return &Registry{converters: make(map[registryKey]Converter)}
}

// Register adds one entry. Overwriting an existing entry or registering a nil
// converter is a wiring bug, so it panics rather than returning an error.
func (r *Registry) Register(target Target, kind typespec.KindEnum, fn Converter) {
	if fn == nil {
		panic(fmt.Sprintf("nil converter for (%s, %s)", target, kind))
	}

	key := registryKey{target: target, kind: kind}
	if _, dup := r.converters[key]; dup {
		panic(fmt.Sprintf("duplicate converter for (%s, %s)", target, kind))
	}

	r.converters[key] = fn
}

// Lookup finds the converter for the pair, or reports the coverage gap.
func (r *Registry) Lookup(target Target, kind typespec.KindEnum) (Converter, error) {
	fn, ok := r.converters[registryKey{target: target, kind: kind}]
	if !ok {
		return nil, &UnsupportedConversionError{Target: target, Kind: kind}
	}
	return fn, nil
}
