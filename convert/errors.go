package convert

import (
	"errors"
	"fmt"

	"inverter/typespec"
)

// UnsupportedConversionError means the declared type is recognized but the
// active target has no registered converter for it: a target-coverage gap,
// not a malformed schema definition.
type UnsupportedConversionError struct {
	Target Target
	Kind   typespec.KindEnum
	Path   string
}

func (e *UnsupportedConversionError) Error() string {
	msg := fmt.Sprintf("target %q cannot express %s", e.Target, e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("field %s: %s", e.Path, msg)
	}
	return msg
}

func (e *UnsupportedConversionError) SetPath(path string) {
	if e.Path == "" {
		e.Path = path
	}
}

// InvalidMetadataError reports a target-specific hint value that failed the
// target's own validation, e.g. an unrecognized widget token. Metadata is
// otherwise passed through permissively.
type InvalidMetadataError struct {
	Key    string
	Value  any
	Reason string
	Path   string
}

func (e *InvalidMetadataError) Error() string {
	msg := fmt.Sprintf("metadata %q=%v: %s", e.Key, e.Value, e.Reason)
	if e.Path != "" {
		msg = fmt.Sprintf("field %s: %s", e.Path, msg)
	}
	return msg
}

func (e *InvalidMetadataError) SetPath(path string) {
	if e.Path == "" {
		e.Path = path
	}
}

// pathSetter is implemented by every engine error so the walk can stamp the
// innermost failing field path exactly once while propagating unchanged.
type pathSetter interface {
	SetPath(string)
}

func withPath(err error, path string) error {
	var ps pathSetter
	if errors.As(err, &ps) {
		ps.SetPath(path)
	}
	return err
}
