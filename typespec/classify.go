package typespec

import "fmt"

// UnsupportedTypeError reports a declared type outside the closed TypeExpr
// set. It aborts the whole conversion; there is no recovery.
type UnsupportedTypeError struct {
	Expr   string // rendered type expression, best effort
	Path   string // namespace-qualified field path, filled in by the engine
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	msg := fmt.Sprintf("unsupported type %q: %s", e.Expr, e.Reason)
	if e.Path != "" {
		msg = fmt.Sprintf("field %s: %s", e.Path, msg)
	}
	return msg
}

// SetPath records the failing field path once, keeping the innermost location.
func (e *UnsupportedTypeError) SetPath(path string) {
	if e.Path == "" {
		e.Path = path
	}
}

// Class is the result of classifying one declared type: the base semantic
// kind after unwrapping at most one Optional layer, plus the inner type
// information composite kinds need for recursion.
type Class struct {
	Kind     KindEnum
	Required bool // false iff the declared type was Optional

	Scalar  ScalarEnum  // set for KindPrimitive
	Elem    TypeExpr    // set for KindSequence (element) and KindMapping (value)
	Record  *RecordType // set for KindRecord
	Choices []string    // set for KindChoice
}

// Classify reduces a declared type to its base semantic kind. It unwraps a
// single Optional wrapper and does not recurse into nested record internals;
// that is the caller's job. Pure function.
func Classify(t TypeExpr) (Class, error) {
	cls := Class{Required: true}

	if opt, ok := t.(Optional); ok {
		cls.Required = false
		t = opt.Inner
	}

	switch bt := t.(type) {
	case nil:
		return Class{}, &UnsupportedTypeError{Expr: "nil", Reason: "missing type expression"}
	case Optional:
		return Class{}, &UnsupportedTypeError{Expr: "optional<" + exprStr(bt.Inner) + ">",
			Reason: "optional wrappers cannot nest"}
	case Scalar:
		if !bt.Of.IsValid() {
			return Class{}, &UnsupportedTypeError{Expr: bt.Of.String(), Reason: "unknown scalar"}
		}
		cls.Kind = KindPrimitive
		cls.Scalar = bt.Of
	case Sequence:
		if bt.Elem == nil {
			return Class{}, &UnsupportedTypeError{Expr: bt.String(), Reason: "sequence without element type"}
		}
		cls.Kind = KindSequence
		cls.Elem = bt.Elem
	case Mapping:
		if bt.Value == nil {
			return Class{}, &UnsupportedTypeError{Expr: bt.String(), Reason: "mapping without value type"}
		}
		cls.Kind = KindMapping
		cls.Elem = bt.Value
	case Nested:
		if bt.Record == nil {
			return Class{}, &UnsupportedTypeError{Expr: bt.String(), Reason: "nested record is nil"}
		}
		cls.Kind = KindRecord
		cls.Record = bt.Record
	case Choice:
		if len(bt.Values) == 0 {
			return Class{}, &UnsupportedTypeError{Expr: bt.String(), Reason: "enum without values"}
		}
		cls.Kind = KindChoice
		cls.Choices = bt.Values
	default:
		return Class{}, &UnsupportedTypeError{Expr: fmt.Sprintf("%T", t), Reason: "not a member of the closed type set"}
	}

	return cls, nil
}
