// Package relational converts record types to a relational table model and
// renders it as PostgreSQL DDL. Nested records are not expressible as
// columns and are refused.
package relational

import (
	"fmt"
	"strings"

	"inverter/convert"
	"inverter/options"
	"inverter/typespec"
)

// Target is this package's identifier in the converter registry.
const Target convert.Target = "relational"

// Table is the produced relational model.
type Table struct {
	Name    string
	Columns []Column
	Indexes []Index
}

// Column is one table column.
type Column struct {
	Name          string
	Type          string
	NotNull       bool
	Default       any
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Check         string // inline CHECK expression, without the keyword
}

// Index is a secondary index; Using/Ops cover the trigram search case.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Using   string // e.g. "gin"
	Ops     string // e.g. "gin_trgm_ops"
}

type config struct {
	name    string
	include []string
	exclude []string
}

type Option func(*config)

// WithTableName overrides the default table name (the record name lowercased).
func WithTableName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithFields limits the table to columns for the named fields.
func WithFields(names ...string) Option {
	return func(c *config) { c.include = names }
}

// WithoutFields drops columns for the named fields.
func WithoutFields(names ...string) Option {
	return func(c *config) { c.exclude = names }
}

// Convert produces the table model for a record type.
func Convert(rec *typespec.RecordType, request any, opts ...Option) (*Table, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = strings.ToLower(rec.Name())
	}

	cx := &convert.Context{Target: Target, Request: request, Settings: cfg}

	rec = rec.Restrict(cfg.include, cfg.exclude)

	descs, err := convert.Fields(registry, rec, cx.Child(rec.Name()))
	if err != nil {
		return nil, err
	}

	table := &Table{Name: cfg.name}

	for _, fd := range descs {
		spec := fd.Desc.(colSpec)

		col := Column{
			Name:          fd.Name,
			Type:          spec.typ,
			NotNull:       fd.Opts.Required,
			PrimaryKey:    fd.Opts.PrimaryKey,
			Unique:        fd.Opts.Unique,
			AutoIncrement: fd.Opts.AutoIncrement,
		}
		if fd.Opts.HasDefault {
			col.Default = fd.Opts.Default
		}
		if spec.choices != nil {
			col.Check = checkExpr(fd.Name, spec.choices)
		}

		table.Columns = append(table.Columns, col)

		if fd.Opts.Index {
			table.Indexes = append(table.Indexes, Index{
				Name:    fmt.Sprintf("ix_%s_%s", cfg.name, fd.Name),
				Columns: []string{fd.Name},
			})
		}

		if fd.Opts.Searchable && spec.trigram {
			table.Indexes = append(table.Indexes, Index{
				Name:    fmt.Sprintf("ix_%s_%s_trgm_search", cfg.name, fd.Name),
				Columns: []string{fd.Name},
				Using:   "gin",
				Ops:     "gin_trgm_ops",
			})
		}
	}

	return table, nil
}

// CreateStatement renders the CREATE TABLE statement.
func (t *Table) CreateStatement() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %q (\n", t.Name)

	var pk []string
	for _, col := range t.Columns {
		if col.PrimaryKey {
			pk = append(pk, fmt.Sprintf("%q", col.Name))
		}
	}

	for i, col := range t.Columns {
		fmt.Fprintf(&b, "    %q %s", col.Name, col.Type)
		if col.AutoIncrement {
			b.WriteString(" GENERATED BY DEFAULT AS IDENTITY")
		}
		if col.NotNull {
			b.WriteString(" NOT NULL")
		}
		if col.Unique {
			b.WriteString(" UNIQUE")
		}
		if col.Default != nil {
			fmt.Fprintf(&b, " DEFAULT %s", sqlLiteral(col.Default))
		}
		if col.Check != "" {
			fmt.Fprintf(&b, " CHECK (%s)", col.Check)
		}
		if i < len(t.Columns)-1 || len(pk) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	if len(pk) > 0 {
		fmt.Fprintf(&b, "    PRIMARY KEY (%s)\n", strings.Join(pk, ", "))
	}

	b.WriteString(");")
	return b.String()
}

// IndexStatements renders one CREATE INDEX statement per secondary index.
func (t *Table) IndexStatements() []string {
	stmts := make([]string, 0, len(t.Indexes))

	for _, ix := range t.Indexes {
		cols := make([]string, len(ix.Columns))
		for i, c := range ix.Columns {
			cols[i] = fmt.Sprintf("%q", c)
			if ix.Ops != "" {
				cols[i] += " " + ix.Ops
			}
		}

		stmt := "CREATE INDEX"
		if ix.Unique {
			stmt = "CREATE UNIQUE INDEX"
		}
		stmt += fmt.Sprintf(" %q ON %q", ix.Name, t.Name)
		if ix.Using != "" {
			stmt += " USING " + ix.Using
		}
		stmt += fmt.Sprintf(" (%s);", strings.Join(cols, ", "))

		stmts = append(stmts, stmt)
	}

	return stmts
}

// DDL renders the full script: table plus indexes.
func (t *Table) DDL() string {
	parts := append([]string{t.CreateStatement()}, t.IndexStatements()...)
	return strings.Join(parts, "\n")
}

type colSpec struct {
	typ     string
	choices []string
	trigram bool // eligible for trigram search indexing
}

var registry = newRegistry()

func newRegistry() *convert.Registry {
	reg := convert.NewRegistry()

	reg.Register(Target, typespec.KindPrimitive, convertPrimitive)
	reg.Register(Target, typespec.KindChoice, convertChoice)
	reg.Register(Target, typespec.KindSequence, convertCollection)
	reg.Register(Target, typespec.KindMapping, convertCollection)

	// KindRecord stays unregistered: a nested record has no column form, and
	// the resulting UnsupportedConversionError is the contract.

	return reg
}

func convertPrimitive(cls typespec.Class, opts options.Resolved, _ *convert.Context) (any, error) {
	switch cls.Scalar {
	case typespec.ScalarString:
		switch format(opts) {
		case "text":
			return colSpec{typ: "TEXT", trigram: true}, nil
		case "uuid":
			return colSpec{typ: "UUID"}, nil
		case "fulltextindex":
			return colSpec{typ: "TSVECTOR"}, nil
		}
		length := opts.Length
		if length == 0 {
			length = 256
		}
		return colSpec{typ: fmt.Sprintf("VARCHAR(%d)", length), trigram: true}, nil
	case typespec.ScalarInteger:
		if opts.Format == "bigint" {
			return colSpec{typ: "BIGINT"}, nil
		}
		return colSpec{typ: "INTEGER"}, nil
	case typespec.ScalarFloat:
		if opts.Format == "numeric" {
			return colSpec{typ: "NUMERIC"}, nil
		}
		return colSpec{typ: "DOUBLE PRECISION"}, nil
	case typespec.ScalarBoolean:
		return colSpec{typ: "BOOLEAN"}, nil
	case typespec.ScalarDate:
		return colSpec{typ: "DATE"}, nil
	case typespec.ScalarDatetime:
		return colSpec{typ: "TIMESTAMP WITH TIME ZONE"}, nil
	case typespec.ScalarBinary:
		return colSpec{typ: "BYTEA"}, nil
	case typespec.ScalarJSON:
		return colSpec{typ: "JSONB"}, nil
	}

	return nil, &convert.UnsupportedConversionError{Target: Target, Kind: cls.Kind}
}

func convertChoice(cls typespec.Class, _ options.Resolved, _ *convert.Context) (any, error) {
	longest := 1
	for _, v := range cls.Choices {
		if len(v) > longest {
			longest = len(v)
		}
	}
	return colSpec{typ: fmt.Sprintf("VARCHAR(%d)", longest), choices: cls.Choices}, nil
}

// convertCollection stores lists and maps as JSONB documents.
func convertCollection(_ typespec.Class, _ options.Resolved, _ *convert.Context) (any, error) {
	return colSpec{typ: "JSONB"}, nil
}

// format splits media-type style hints ("text/markdown" -> "text").
func format(opts options.Resolved) string {
	f := opts.Format
	if idx := strings.IndexByte(f, '/'); idx >= 0 {
		f = f[:idx]
	}
	return f
}

func checkExpr(col string, choices []string) string {
	quoted := make([]string, len(choices))
	for i, v := range choices {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return fmt.Sprintf("%q IN (%s)", col, strings.Join(quoted, ", "))
}

func sqlLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}
