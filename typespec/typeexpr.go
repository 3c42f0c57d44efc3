package typespec

import "strings"

// TypeExpr is the closed union of declarable field types. The only
// implementations are the types in this package; converters must never see
// anything else.
type TypeExpr interface {
	Kind() KindEnum

	// String renders the type in the definition-file syntax, e.g.
	// "optional<list<string>>" or "enum(draft|published)".
	String() string
}

// Scalar is a primitive scalar type.
type Scalar struct {
	Of ScalarEnum
}

// Optional wraps another type and marks the field as not required by default.
// Optionality is layered on top of the base type, never part of it.
type Optional struct {
	Inner TypeExpr
}

// Sequence is an ordered list with a single element type.
type Sequence struct {
	Elem TypeExpr
}

// Mapping is a string-keyed map with a single value type.
type Mapping struct {
	Value TypeExpr
}

// Nested embeds another record type as a sub-document.
type Nested struct {
	Record *RecordType
}

// Choice is an enumeration of string literals in declaration order.
type Choice struct {
	Values []string
}

func (s Scalar) Kind() KindEnum   { return KindPrimitive }
func (o Optional) Kind() KindEnum { return KindOptional }
func (q Sequence) Kind() KindEnum { return KindSequence }
func (m Mapping) Kind() KindEnum  { return KindMapping }
func (n Nested) Kind() KindEnum   { return KindRecord }
func (c Choice) Kind() KindEnum   { return KindChoice }

func (s Scalar) String() string   { return s.Of.Token() }
func (o Optional) String() string { return "optional<" + exprStr(o.Inner) + ">" }
func (q Sequence) String() string { return "list<" + exprStr(q.Elem) + ">" }
func (m Mapping) String() string  { return "map<" + exprStr(m.Value) + ">" }

func (n Nested) String() string {
	if n.Record == nil {
		return "record(?)"
	}
	return n.Record.Name()
}

func (c Choice) String() string { return "enum(" + strings.Join(c.Values, "|") + ")" }

func exprStr(t TypeExpr) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

var scalarTokens = map[ScalarEnum]string{
	ScalarString:   "string",
	ScalarInteger:  "integer",
	ScalarFloat:    "float",
	ScalarBoolean:  "boolean",
	ScalarDate:     "date",
	ScalarDatetime: "datetime",
	ScalarBinary:   "binary",
	ScalarJSON:     "json",
}

// Token returns the definition-file name of the scalar, e.g. "datetime".
func (s ScalarEnum) Token() string {
	if tok, ok := scalarTokens[s]; ok {
		return tok
	}
	return s.String()
}

// ParseScalarToken resolves a definition-file scalar name back to its enum.
func ParseScalarToken(tok string) (ScalarEnum, bool) {
	for s, t := range scalarTokens {
		if t == tok {
			return s, true
		}
	}
	return 0, false
}
