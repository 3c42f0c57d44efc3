package vschema_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inverter/typespec"
	"inverter/vschema"
)

func eventRecord(t *testing.T) *typespec.RecordType {
	t.Helper()

	rec, err := typespec.New("Event", []typespec.FieldSpec{
		{Name: "day", Type: typespec.Scalar{Of: typespec.ScalarDate}},
		{Name: "at", Type: typespec.Scalar{Of: typespec.ScalarDatetime}},
		{Name: "note", Type: typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarString}}},
	})
	require.NoError(t, err)
	return rec
}

func TestSerializeJSONSafe(t *testing.T) {
	t.Parallel()

	schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	day := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC)

	out, err := schema.Serialize(map[string]any{"day": day, "at": at})
	require.NoError(t, err)

	assert.Equal(t, 18262, out["day"], "2020-01-01 is day 18262 of the epoch")
	assert.Equal(t, at.UnixMilli(), out["at"])
	assert.Nil(t, out["note"], "absent optionals fall back to the default")
}

func TestDeserializeJSONSafe(t *testing.T) {
	t.Parallel()

	schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	in := map[string]any{"day": 18262, "at": int64(1615734566000), "note": "hello"}

	out, err := schema.Deserialize(in)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), out["day"])
	assert.Equal(t, time.UnixMilli(1615734566000).UTC(), out["at"])
	assert.Equal(t, "hello", out["note"])
}

func TestSerializeRoundTrip(t *testing.T) {
	t.Parallel()

	day := time.Date(1999, time.December, 31, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, time.June, 1, 12, 30, 0, 0, time.UTC)

	for _, policy := range []vschema.Policy{
		vschema.PolicyJSONSafe, vschema.PolicyAvroSafe, vschema.PolicySearchSafe,
	} {
		schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(policy))
		require.NoError(t, err, policy.String())

		wire, err := schema.Serialize(map[string]any{"day": day, "at": at, "note": "x"})
		require.NoError(t, err, policy.String())

		back, err := schema.Deserialize(wire)
		require.NoError(t, err, policy.String())

		assert.Equal(t, day, back["day"].(time.Time).UTC(), policy.String())
		assert.Equal(t, at, back["at"].(time.Time).UTC(), policy.String())
		assert.Equal(t, "x", back["note"], policy.String())
	}
}

func TestSerializeSearchSafe(t *testing.T) {
	t.Parallel()

	schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(vschema.PolicySearchSafe))
	require.NoError(t, err)

	out, err := schema.Serialize(map[string]any{
		"day": time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		"at":  time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "2020-01-01", out["day"])
	assert.Equal(t, "2021-03-14T15:09:26Z", out["at"])
}

func TestSerializeAvroSafeJSONBlob(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Payload", []typespec.FieldSpec{
		{Name: "data", Type: typespec.Scalar{Of: typespec.ScalarJSON}},
	})

	schema, err := vschema.Convert(rec, nil, vschema.WithPolicy(vschema.PolicyAvroSafe))
	require.NoError(t, err)

	out, err := schema.Serialize(map[string]any{"data": map[string]any{"k": "v"}})
	require.NoError(t, err)
	assert.Equal(t, `{"k":"v"}`, out["data"])

	back, err := schema.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, back["data"])
}

func TestSerializeCollections(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Calendar", []typespec.FieldSpec{
		{Name: "days", Type: typespec.Sequence{Elem: typespec.Scalar{Of: typespec.ScalarDate}}},
		{Name: "marks", Type: typespec.Mapping{Value: typespec.Scalar{Of: typespec.ScalarDate}}},
	})

	schema, err := vschema.Convert(rec, nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	day := time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)

	out, err := schema.Serialize(map[string]any{
		"days":  []any{day},
		"marks": map[string]any{"start": day},
	})
	require.NoError(t, err)

	assert.Equal(t, []any{18263}, out["days"])
	assert.Equal(t, map[string]any{"start": 18263}, out["marks"])

	back, err := schema.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, []any{day}, back["days"])
	assert.Equal(t, map[string]any{"start": day}, back["marks"])
}

func TestSerializeNested(t *testing.T) {
	t.Parallel()

	inner := typespec.MustNew("Window", []typespec.FieldSpec{
		{Name: "from", Type: typespec.Scalar{Of: typespec.ScalarDate}},
	})
	outer := typespec.MustNew("Booking", []typespec.FieldSpec{
		{Name: "window", Type: typespec.Nested{Record: inner}},
	})

	schema, err := vschema.Convert(outer, nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	day := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	out, err := schema.Serialize(map[string]any{"window": map[string]any{"from": day}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"from": 18262}, out["window"])

	back, err := schema.Deserialize(out)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"from": day}, back["window"])
}

func TestSerializeTypeErrors(t *testing.T) {
	t.Parallel()

	schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	_, err = schema.Serialize(map[string]any{"day": "2020-01-01"})
	assert.Error(t, err, "encoding expects time.Time values")

	_, err = schema.Deserialize(map[string]any{"day": true})
	assert.Error(t, err)
}

func TestDeserializePermissiveStrings(t *testing.T) {
	t.Parallel()

	schema, err := vschema.Convert(eventRecord(t), nil, vschema.WithPolicy(vschema.PolicyJSONSafe))
	require.NoError(t, err)

	out, err := schema.Deserialize(map[string]any{
		"day": "2020-01-01",
		"at":  "2021-03-14T15:09:26Z",
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), out["day"])
	assert.Equal(t, time.Date(2021, time.March, 14, 15, 9, 26, 0, time.UTC), out["at"].(time.Time).UTC())
}
