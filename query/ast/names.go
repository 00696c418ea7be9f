// Package ast defines the statement tree built by the query builder and
// consumed by the SQL renderers.
package ast

import (
	"slices"
	"strings"
)

// ColumnName references a column, optionally qualified by table and schema.
type ColumnName struct {
	Name   string
	Table  string
	Schema string
}

// ParseColumnName parses "column", "table.column" or "schema.table.column".
func ParseColumnName(s string) ColumnName {
	parts := strings.Split(s, ".")
	switch len(parts) {
	case 1:
		return ColumnName{Name: parts[0]}
	case 2:
		return ColumnName{Table: parts[0], Name: parts[1]}
	default:
		n := len(parts)
		return ColumnName{
			Schema: strings.Join(parts[:n-2], "."),
			Table:  parts[n-2],
			Name:   parts[n-1],
		}
	}
}

// Col is shorthand for ParseColumnName.
func Col(s string) ColumnName { return ParseColumnName(s) }

// Cols parses every name with ParseColumnName.
func Cols(names ...string) []ColumnName {
	out := make([]ColumnName, len(names))
	for i, n := range names {
		out[i] = ParseColumnName(n)
	}
	return out
}

// Complete returns the dotted, fully qualified form of the column.
func (c ColumnName) Complete() string {
	parts := make([]string, 0, 3)
	if c.Schema != "" {
		parts = append(parts, c.Schema)
	}
	if c.Table != "" {
		parts = append(parts, c.Table)
	}
	return strings.Join(append(parts, c.Name), ".")
}

// ConflictsWith reports whether both columns share the same bare name,
// regardless of the table they belong to.
func (c ColumnName) ConflictsWith(o ColumnName) bool {
	return c.Name == o.Name
}

func (c ColumnName) String() string { return c.Complete() }

// TableName references a table, optionally qualified by schema. Columns lists
// the known columns of the table and is used to enumerate projections.
type TableName struct {
	Schema  string
	Name    string
	Columns []ColumnName
}

// ParseTableName parses "table" or "schema.table".
func ParseTableName(s string) TableName {
	i := strings.LastIndexByte(s, '.')
	if i < 0 {
		return TableName{Name: s}
	}
	return TableName{Schema: s[:i], Name: s[i+1:]}
}

// Table is shorthand for ParseTableName.
func Table(s string) TableName { return ParseTableName(s) }

// Complete returns the dotted, fully qualified form of the table.
func (t TableName) Complete() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Equal compares schema and name and ignores Columns.
func (t TableName) Equal(o TableName) bool {
	return t.Schema == o.Schema && t.Name == o.Name
}

// C returns the column name qualified by t.
func (t TableName) C(name string) ColumnName {
	return ColumnName{Name: name, Table: t.Name, Schema: t.Schema}
}

// WithColumns returns a copy of t whose Columns are the given bare names
// qualified by t.
func (t TableName) WithColumns(names ...string) TableName {
	c := t.Clone()
	c.Columns = make([]ColumnName, len(names))
	for i, n := range names {
		c.Columns[i] = t.C(n)
	}
	return c
}

// Clone returns a deep copy of t.
func (t TableName) Clone() TableName {
	t.Columns = slices.Clone(t.Columns)
	return t
}

func (t TableName) String() string { return t.Complete() }
