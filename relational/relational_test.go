package relational_test

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inverter/convert"
	"inverter/relational"
	"inverter/typespec"
)

func productRecord(t *testing.T) *typespec.RecordType {
	t.Helper()

	rec, err := typespec.New("Product", []typespec.FieldSpec{
		{Name: "sku", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"primary_key": true, "length": 32}},
		{Name: "title", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"format": "text", "searchable": true}},
		{Name: "status", Type: typespec.Choice{Values: []string{"draft", "published", "retired"}},
			Metadata: map[string]any{"default": "draft"}},
		{Name: "price", Type: typespec.Scalar{Of: typespec.ScalarFloat}},
		{Name: "released", Type: typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarDate}}},
		{Name: "tags", Type: typespec.Sequence{Elem: typespec.Scalar{Of: typespec.ScalarString}}},
		{Name: "attrs", Type: typespec.Mapping{Value: typespec.Scalar{Of: typespec.ScalarString}}},
	})
	require.NoError(t, err)
	return rec
}

func TestConvertColumns(t *testing.T) {
	t.Parallel()

	table, err := relational.Convert(productRecord(t), nil)
	require.NoError(t, err)

	assert.Equal(t, "product", table.Name, "default table name is the record name lowercased")
	require.Len(t, table.Columns, 7)

	sku := table.Columns[0]
	assert.Equal(t, "VARCHAR(32)", sku.Type)
	assert.True(t, sku.PrimaryKey)
	assert.True(t, sku.NotNull)

	title := table.Columns[1]
	assert.Equal(t, "TEXT", title.Type)

	status := table.Columns[2]
	assert.Equal(t, "VARCHAR(9)", status.Type, "width of the longest symbol")
	assert.Equal(t, `"status" IN ('draft', 'published', 'retired')`, status.Check)
	assert.Equal(t, "draft", status.Default)

	assert.Equal(t, "DOUBLE PRECISION", table.Columns[3].Type)

	released := table.Columns[4]
	assert.Equal(t, "DATE", released.Type)
	assert.False(t, released.NotNull)

	assert.Equal(t, "JSONB", table.Columns[5].Type)
	assert.Equal(t, "JSONB", table.Columns[6].Type)
}

func TestConvertIndexes(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Supplier", []typespec.FieldSpec{
		{Name: "company", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"format": "text", "searchable": true}},
		{Name: "region", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"index": true}},
	})

	table, err := relational.Convert(rec, nil, relational.WithTableName("suppliers"))
	require.NoError(t, err)
	require.Len(t, table.Indexes, 2)

	trgm := table.Indexes[0]
	assert.Equal(t, "ix_suppliers_company_trgm_search", trgm.Name)
	assert.Equal(t, "gin", trgm.Using)
	assert.Equal(t, "gin_trgm_ops", trgm.Ops)

	plain := table.Indexes[1]
	assert.Equal(t, "ix_suppliers_region", plain.Name)
	assert.Empty(t, plain.Using)

	stmts := table.IndexStatements()
	require.Len(t, stmts, 2)
	assert.Equal(t, `CREATE INDEX "ix_suppliers_company_trgm_search" ON "suppliers" USING gin ("company" gin_trgm_ops);`, stmts[0])
	assert.Equal(t, `CREATE INDEX "ix_suppliers_region" ON "suppliers" ("region");`, stmts[1])
}

func TestCreateStatement(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Login", []typespec.FieldSpec{
		{Name: "id", Type: typespec.Scalar{Of: typespec.ScalarInteger},
			Metadata: map[string]any{"primary_key": true, "autoincrement": true, "format": "bigint"}},
		{Name: "username", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"unique": true}},
	})

	table, err := relational.Convert(rec, nil)
	require.NoError(t, err)

	want := `CREATE TABLE "login" (
    "id" BIGINT GENERATED BY DEFAULT AS IDENTITY NOT NULL,
    "username" VARCHAR(256) NOT NULL UNIQUE,
    PRIMARY KEY ("id")
);`
	assert.Equal(t, want, table.CreateStatement())
}

func TestConvertFieldSelection(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Account", []typespec.FieldSpec{
		{Name: "id", Type: typespec.Scalar{Of: typespec.ScalarString}},
		{Name: "email", Type: typespec.Scalar{Of: typespec.ScalarString}},
		{Name: "secret", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"index": true}},
	})

	table, err := relational.Convert(rec, nil, relational.WithoutFields("secret"))
	require.NoError(t, err)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "id", table.Columns[0].Name)
	assert.Equal(t, "email", table.Columns[1].Name)
	assert.Empty(t, table.Indexes, "dropped columns take their indexes with them")

	table, err = relational.Convert(rec, nil, relational.WithFields("email"))
	require.NoError(t, err)
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "email", table.Columns[0].Name)
}

func TestConvertNestedRecordRefused(t *testing.T) {
	t.Parallel()

	inner := typespec.MustNew("Address", []typespec.FieldSpec{
		{Name: "city", Type: typespec.Scalar{Of: typespec.ScalarString}},
	})
	rec := typespec.MustNew("Customer", []typespec.FieldSpec{
		{Name: "name", Type: typespec.Scalar{Of: typespec.ScalarString}},
		{Name: "address", Type: typespec.Nested{Record: inner}},
	})

	_, err := relational.Convert(rec, nil)
	require.Error(t, err)

	var uce *convert.UnsupportedConversionError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, typespec.KindRecord, uce.Kind)
	assert.Equal(t, "Customer.address", uce.Path)
}

// The generated DDL must at least be executable SQL. SQLite parses the
// portable subset (no identity columns, no gin indexes), which covers the
// statement structure, quoting and CHECK clauses.
func TestDDLExecutes(t *testing.T) {
	t.Parallel()

	rec := typespec.MustNew("Session", []typespec.FieldSpec{
		{Name: "token", Type: typespec.Scalar{Of: typespec.ScalarString},
			Metadata: map[string]any{"primary_key": true, "length": 64}},
		{Name: "user_id", Type: typespec.Scalar{Of: typespec.ScalarInteger},
			Metadata: map[string]any{"index": true}},
		{Name: "state", Type: typespec.Choice{Values: []string{"open", "expired"}},
			Metadata: map[string]any{"default": "open"}},
		{Name: "expires", Type: typespec.Scalar{Of: typespec.ScalarDatetime}},
		{Name: "payload", Type: typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarJSON}}},
	})

	table, err := relational.Convert(rec, nil)
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(table.CreateStatement())
	require.NoError(t, err)

	for _, stmt := range table.IndexStatements() {
		_, err = db.Exec(stmt)
		require.NoError(t, err, stmt)
	}

	_, err = db.Exec(`INSERT INTO "session" ("token", "user_id", "state", "expires") VALUES ('t1', 7, 'open', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO "session" ("token", "user_id", "state", "expires") VALUES ('t2', 7, 'bogus', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "CHECK constraint must reject symbols outside the enum")
}
