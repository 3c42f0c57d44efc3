package define

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inverter/typespec"
)

const catalogYAML = `
records:
  - name: Supplier
    fields:
      - name: id
        type: string
        format: uuid
        primary_key: true
      - company: string
      - contact: optional<string>

  - name: Product
    fields:
      - sku: string
      - name: status
        type: enum(draft|published)
        default: draft
      - tags: list<string>
      - attrs: map<integer>
      - name: supplier
        type: Supplier
      - aliases: optional<list<string>>
`

func TestParse(t *testing.T) {
	t.Parallel()

	set, diags, err := Parse([]byte(catalogYAML))
	require.NoError(t, err)
	require.True(t, diags.IsValid(), diags.Err())

	assert.Equal(t, []string{"Supplier", "Product"}, set.Names())

	supplier, ok := set.Get("Supplier")
	require.True(t, ok)
	fields := supplier.Fields()
	require.Len(t, fields, 3)

	// full form: extra keys become metadata
	assert.Equal(t, "id", fields[0].Name)
	assert.Equal(t, typespec.Scalar{Of: typespec.ScalarString}, fields[0].Type)
	assert.Equal(t, "uuid", fields[0].Metadata["format"])
	assert.Equal(t, true, fields[0].Metadata["primary_key"])

	// shorthand form carries no metadata
	assert.Equal(t, "company", fields[1].Name)
	assert.Nil(t, fields[1].Metadata)

	assert.Equal(t, typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarString}}, fields[2].Type)

	product, ok := set.Get("Product")
	require.True(t, ok)
	fields = product.Fields()
	require.Len(t, fields, 6)

	assert.Equal(t, typespec.Choice{Values: []string{"draft", "published"}}, fields[1].Type)
	assert.Equal(t, typespec.Sequence{Elem: typespec.Scalar{Of: typespec.ScalarString}}, fields[2].Type)
	assert.Equal(t, typespec.Mapping{Value: typespec.Scalar{Of: typespec.ScalarInteger}}, fields[3].Type)

	nested, ok := fields[4].Type.(typespec.Nested)
	require.True(t, ok)
	assert.Same(t, supplier, nested.Record)

	assert.Equal(t,
		typespec.Optional{Inner: typespec.Sequence{Elem: typespec.Scalar{Of: typespec.ScalarString}}},
		fields[5].Type)
}

func TestParseCollectsDiagnostics(t *testing.T) {
	t.Parallel()

	src := `
records:
  - name: A
    fields:
      - x: strnig
      - y: B
  - name: A
    fields:
      - x: string
  - name: C
    fields: []
`

	set, diags, err := Parse([]byte(src))
	require.NoError(t, err, "structural problems are diagnostics, not parse errors")
	require.False(t, diags.IsValid())

	codes := make([]string, len(diags.Errors))
	for i, d := range diags.Errors {
		codes[i] = d.Code
	}

	// A: bad scalar and a forward/unknown reference; second A: duplicate; C: empty
	assert.Equal(t, []string{CodeBadType, CodeBadType, CodeDuplicateName, CodeNoFields}, codes)
	assert.Equal(t, "A", diags.Errors[0].Record)
	assert.Equal(t, "x", diags.Errors[0].Field)

	assert.Empty(t, set.Names(), "no record without its fields resolving")
	assert.Error(t, diags.Err())
}

func TestParseForwardReference(t *testing.T) {
	t.Parallel()

	// B is declared after A, so A cannot reference it; declaration order is
	// what keeps definition files acyclic.
	src := `
records:
  - name: A
    fields:
      - b: B
  - name: B
    fields:
      - x: string
`

	set, diags, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.False(t, diags.IsValid())
	assert.Equal(t, []string{"B"}, set.Names())
}

func TestParseTypeExpressions(t *testing.T) {
	t.Parallel()

	known := map[string]*typespec.RecordType{}

	cases := map[string]typespec.TypeExpr{
		"string":                 typespec.Scalar{Of: typespec.ScalarString},
		"datetime":               typespec.Scalar{Of: typespec.ScalarDatetime},
		" binary ":               typespec.Scalar{Of: typespec.ScalarBinary},
		"optional<date>":         typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarDate}},
		"list<map<float>>":       typespec.Sequence{Elem: typespec.Mapping{Value: typespec.Scalar{Of: typespec.ScalarFloat}}},
		"enum(a|b|c)":            typespec.Choice{Values: []string{"a", "b", "c"}},
		"enum( yes | no )":       typespec.Choice{Values: []string{"yes", "no"}},
		"map<optional<integer>>": typespec.Mapping{Value: typespec.Optional{Inner: typespec.Scalar{Of: typespec.ScalarInteger}}},
	}

	for src, want := range cases {
		got, err := parseType(src, known)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}

	for _, src := range []string{"", "strnig", "list<>", "list<string", "enum()", "enum(a||b)", "optional<list<string>"} {
		_, err := parseType(src, known)
		assert.Error(t, err, "%q must not parse", src)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	set, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Supplier", "Product"}, set.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("records:\n  - name: A\n    fields:\n      - x: nope\n"), 0o644))

	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad_type")
}
