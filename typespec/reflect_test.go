package typespec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inverter/typespec"
)

type account struct {
	Username string `json:"username"`
	Password string `inverter:"widget=password"`
	Secret   string `inverter:"-"`
	Age      *int
	Born     time.Time `inverter:"date"`
	Seen     time.Time
	Avatar   []byte
	Profile  map[string]any
	Tags     []string
	Scores   map[string]float64
	Status   string `inverter:"enum=active|banned"`
	Balance  float64
	Admin    bool

	internal string //nolint:unused
}

func TestOf(t *testing.T) {
	t.Parallel()

	rec, err := typespec.Of[account]()
	require.NoError(t, err)

	assert.Equal(t, "account", rec.Name())

	byName := map[string]typespec.FieldSpec{}
	for _, f := range rec.Fields() {
		byName[f.Name] = f
	}

	// json tag wins over the Go field name; skipped and unexported fields are gone
	assert.Contains(t, byName, "username")
	assert.NotContains(t, byName, "Secret")
	assert.NotContains(t, byName, "internal")
	require.Len(t, rec.Fields(), 12)

	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarString}, byName["username"].Type)
	assert.Equal(t, "password", byName["Password"].Metadata["widget"])

	assert.Equal(t, typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarInteger}}, byName["Age"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarDate}, byName["Born"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarDatetime}, byName["Seen"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarBinary}, byName["Avatar"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarJSON}, byName["Profile"].Type)
	assert.Equal(t, typespec.Sequence{Elem: typespec.Scalar{Of: typespec.ScalarString}}, byName["Tags"].Type)
	assert.Equal(t, typespec.Mapping{Value: typespec.Scalar{Of: typespec.ScalarFloat}}, byName["Scores"].Type)
	assert.Equal(t, typespec.Choice{Values: []string{"active", "banned"}}, byName["Status"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarFloat}, byName["Balance"].Type)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarBoolean}, byName["Admin"].Type)
}

func TestOfNestedStruct(t *testing.T) {
	t.Parallel()

	type address struct {
		City string
	}
	type customer struct {
		Name     string
		Address  address
		Shipping *address
	}

	rec, err := typespec.Of[customer]()
	require.NoError(t, err)

	fields := rec.Fields()
	require.Len(t, fields, 3)

	nested, ok := fields[1].Type.(typespec.Nested)
	require.True(t, ok)
	assert.Equal(t, "address", nested.Record.Name())

	opt, ok := fields[2].Type.(typespec.Optional)
	require.True(t, ok)
	_, ok = opt.Inner.(typespec.Nested)
	assert.True(t, ok)
}

func TestOfRejectsCycle(t *testing.T) {
	t.Parallel()

	type node struct {
		Next *node
	}

	_, err := typespec.Of[node]()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "references itself")
}

func TestOfRejectsNonStringMapKeys(t *testing.T) {
	t.Parallel()

	type bad struct {
		Counts map[int]string
	}

	_, err := typespec.Of[bad]()
	require.Error(t, err)

	var ute *typespec.UnsupportedTypeError
	assert.ErrorAs(t, err, &ute)
}

func TestOfRequiredOptionalFlags(t *testing.T) {
	t.Parallel()

	type form struct {
		Email   *string `inverter:"required"`
		Comment string  `inverter:"optional"`
	}

	rec, err := typespec.Of[form]()
	require.NoError(t, err)

	fields := rec.Fields()
	assert.Equal(t, true, fields[0].Metadata["required"])

	_, wrapped := fields[1].Type.(typespec.Optional)
	assert.True(t, wrapped, "optional flag wraps non-pointer fields")
}
