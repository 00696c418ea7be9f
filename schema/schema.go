// Package schema describes tables and columns known ahead of time. The
// metadata feeds column enumeration in the builder and the CLI.
package schema

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Table represents a database table
type Table struct {
	Name        string       `mapstructure:"name" yaml:"name"`
	Schema      string       `mapstructure:"schema" yaml:"schema,omitempty"`
	Comment     string       `mapstructure:"comment" yaml:"comment,omitempty"`
	Columns     []Column     `mapstructure:"columns" yaml:"columns"`
	ForeignKeys []ForeignKey `mapstructure:"foreign_keys" yaml:"foreign_keys,omitempty"`

	// Parent is the table this one inherits from, if any.
	Parent *ast.TableName `mapstructure:"-" yaml:"-"`
	// SubTables are the tables inheriting from this one.
	SubTables []ast.TableName `mapstructure:"-" yaml:"-"`
}

// Column represents a table column
type Column struct {
	Name          string  `mapstructure:"name" yaml:"name"`
	Type          string  `mapstructure:"type" yaml:"type,omitempty"`
	Nullable      bool    `mapstructure:"nullable" yaml:"nullable,omitempty"`
	Primary       bool    `mapstructure:"primary" yaml:"primary,omitempty"`
	Unique        bool    `mapstructure:"unique" yaml:"unique,omitempty"`
	AutoIncrement bool    `mapstructure:"auto_increment" yaml:"auto_increment,omitempty"`
	Default       *string `mapstructure:"default" yaml:"default,omitempty"`
	Comment       string  `mapstructure:"comment" yaml:"comment,omitempty"`
}

// ForeignKey represents a foreign key constraint
type ForeignKey struct {
	Name              string   `mapstructure:"name" yaml:"name,omitempty"`
	Columns           []string `mapstructure:"columns" yaml:"columns"`
	ReferencedTable   string   `mapstructure:"referenced_table" yaml:"referenced_table"`
	ReferencedColumns []string `mapstructure:"referenced_columns" yaml:"referenced_columns"`
	OnDelete          string   `mapstructure:"on_delete" yaml:"on_delete,omitempty"`
	OnUpdate          string   `mapstructure:"on_update" yaml:"on_update,omitempty"`
}

// Complete returns the schema qualified table name.
func (t *Table) Complete() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// TableName converts t to an AST table carrying every column, so that
// SelectAllColumns can enumerate it.
func (t *Table) TableName() ast.TableName {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return ast.TableName{Schema: t.Schema, Name: t.Name}.WithColumns(names...)
}

// Column returns the column called name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// ColumnName returns the qualified column called name. It panics when the
// table has no such column.
func (t *Table) ColumnName(name string) ast.ColumnName {
	if _, ok := t.Column(name); !ok {
		panic(fmt.Sprintf("schema: table %s has no column %q", t.Complete(), name))
	}
	return ast.ColumnName{Name: name, Table: t.Name, Schema: t.Schema}
}

// PrimaryKey returns the primary key columns in declaration order.
func (t *Table) PrimaryKey() []ast.ColumnName {
	var out []ast.ColumnName
	for _, c := range t.Columns {
		if c.Primary {
			out = append(out, t.ColumnName(c.Name))
		}
	}
	return out
}

// Insertable returns the columns an INSERT must or may provide: everything
// but auto-increment columns.
func (t *Table) Insertable() []ast.ColumnName {
	var out []ast.ColumnName
	for _, c := range t.Columns {
		if !c.AutoIncrement {
			out = append(out, t.ColumnName(c.Name))
		}
	}
	return out
}

// Reference returns the foreign key covering column, if any.
func (t *Table) Reference(column string) (*ForeignKey, bool) {
	for i, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			if c == column {
				return &t.ForeignKeys[i], true
			}
		}
	}
	return nil, false
}

// Inherit links child as a sub-table of t.
func (t *Table) Inherit(child *Table) {
	parent := ast.TableName{Schema: t.Schema, Name: t.Name}
	child.Parent = &parent
	t.SubTables = append(t.SubTables, ast.TableName{Schema: child.Schema, Name: child.Name})
}

// Validate checks that column names are unique and that foreign keys only
// name existing columns.
func (t *Table) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("schema: table name is required")
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("schema: table %s has a column without a name", t.Complete())
		}
		if seen[c.Name] {
			return fmt.Errorf("schema: table %s declares column %q twice", t.Complete(), c.Name)
		}
		seen[c.Name] = true
	}
	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) != len(fk.ReferencedColumns) {
			return fmt.Errorf("schema: foreign key %s of %s references %d columns with %d",
				fk.Name, t.Complete(), len(fk.ReferencedColumns), len(fk.Columns))
		}
		for _, c := range fk.Columns {
			if !seen[c] {
				return fmt.Errorf("schema: foreign key %s of %s names unknown column %q", fk.Name, t.Complete(), c)
			}
		}
	}
	return nil
}

// Kind guesses the value tag of a declared SQL type. It is only a hint;
// adapters decode using the type reported by the driver.
func (c Column) Kind() types.Kind {
	t := strings.ToUpper(c.Type)
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	switch strings.TrimSpace(t) {
	case "BOOL", "BOOLEAN":
		return types.KindBool
	case "SMALLINT", "INT2":
		return types.KindInt16
	case "INT", "INTEGER", "INT4", "SERIAL":
		return types.KindInt32
	case "BIGINT", "INT8", "BIGSERIAL":
		return types.KindInt64
	case "REAL", "FLOAT4":
		return types.KindFloat32
	case "DOUBLE", "DOUBLE PRECISION", "FLOAT8", "FLOAT":
		return types.KindFloat64
	case "NUMERIC", "DECIMAL":
		return types.KindDecimal
	case "TEXT", "VARCHAR", "CHAR", "CHARACTER VARYING":
		return types.KindText
	case "BYTEA", "BLOB":
		return types.KindBlob
	case "UUID":
		return types.KindUUID
	case "DATE":
		return types.KindDate
	case "TIME":
		return types.KindTime
	case "TIMESTAMP", "TIMESTAMPTZ", "DATETIME":
		return types.KindTimestamp
	case "JSON", "JSONB":
		return types.KindJSON
	}
	return types.KindNull
}

// Registry indexes tables by their qualified and bare names.
type Registry struct {
	tables []*Table
	byName map[string]*Table
}

// NewRegistry validates and indexes tables.
func NewRegistry(tables ...Table) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Table)}
	for i := range tables {
		if err := r.Add(tables[i]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add validates and indexes t.
func (r *Registry) Add(t Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, dup := r.byName[t.Complete()]; dup {
		return fmt.Errorf("schema: table %s declared twice", t.Complete())
	}
	tp := &t
	r.tables = append(r.tables, tp)
	r.byName[t.Complete()] = tp
	if _, ok := r.byName[t.Name]; !ok {
		r.byName[t.Name] = tp
	}
	return nil
}

// Lookup finds a table by "schema.name" or by bare name.
func (r *Registry) Lookup(name string) (*Table, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.byName[name]
	return t, ok
}

// Tables returns every table in declaration order.
func (r *Registry) Tables() []*Table {
	return append([]*Table(nil), r.tables...)
}
