package typespec

//go:generate go tool stringer -type=KindEnum -output=kind_string.go
//go:generate go tool stringer -type=ScalarEnum -output=scalar_string.go

// KindEnum is the closed semantic classification of a declared field type.
type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindPrimitive
	KindOptional
	KindSequence
	KindMapping
	KindRecord
	KindChoice

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// ScalarEnum identifies one of the closed set of primitive scalar types.
type ScalarEnum int

const (
	_ ScalarEnum = iota // skip zero value, use it as a default (invalid) value for ScalarEnum

	ScalarString
	ScalarInteger
	ScalarFloat
	ScalarBoolean
	ScalarDate
	ScalarDatetime
	ScalarBinary
	ScalarJSON

	// ScalarTotal is a constant that represents the total number of scalars defined
	ScalarTotal = int(iota)
)

func (s ScalarEnum) IsValid() bool {
	return s > 0 && int(s) < ScalarTotal
}

// IsTemporal reports whether the scalar carries date or time information,
// which is where target serialization policies diverge.
func (s ScalarEnum) IsTemporal() bool {
	return s == ScalarDate || s == ScalarDatetime
}
