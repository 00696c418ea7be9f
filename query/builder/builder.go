// Package builder provides the chainable statement builder. A Builder
// accumulates one Select, Insert, Update or Delete statement; misuse is
// recorded and reported by the terminal operations, before any I/O.
package builder

import (
	"fmt"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Builder builds a single statement.
type Builder struct {
	q          ast.Query
	started    bool
	allColumns bool
	err        error
}

// New creates an empty builder. The first statement method decides its kind;
// a builder left untouched renders as a Select and fails for lack of a source.
func New() *Builder {
	return &Builder{}
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = dberr.Build(format, args...)
	}
	return b
}

// kind switches the builder to k. Switching to another kind after a
// statement method has run is an error.
func (b *Builder) kind(k ast.Kind) *Builder {
	if b.started && b.q.Kind != k {
		return b.fail("builder already holds a %s statement, cannot start %s", b.q.Kind, k)
	}
	b.started = true
	b.q.Kind = k
	return b
}

// Clone returns an independent copy of the builder.
func (b *Builder) Clone() *Builder {
	return &Builder{
		q:          *b.q.Clone(),
		started:    b.started,
		allColumns: b.allColumns,
		err:        b.err,
	}
}

// Query returns a render-ready deep copy of the statement. For
// SelectAllColumns the projection is enumerated here from the column
// metadata of every source and joined table.
func (b *Builder) Query() (*ast.Query, error) {
	if b.err != nil {
		return nil, b.err
	}
	q := b.q.Clone()
	if b.allColumns {
		fields, err := enumerate(q)
		if err != nil {
			return nil, err
		}
		q.Fields = append(fields, q.Fields...)
	}
	return q, nil
}

func enumerate(q *ast.Query) ([]ast.Field, error) {
	var fields []ast.Field
	add := func(src ast.SourceField) error {
		cols := src.Columns()
		if len(cols) == 0 {
			return dberr.Build("cannot enumerate columns of %s: no column metadata", describe(src))
		}
		for _, c := range cols {
			fields = append(fields, ast.F(c))
		}
		return nil
	}
	for _, src := range q.From {
		if err := add(src); err != nil {
			return nil, err
		}
	}
	for _, j := range q.Joins {
		src := ast.Source(j.Table)
		if j.Alias != "" {
			src = src.As(j.Alias)
		}
		if err := add(src); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func describe(src ast.SourceField) string {
	if t, ok := src.Source.(ast.TableName); ok {
		return t.Complete()
	}
	return fmt.Sprintf("%T source", src.Source)
}

// Build renders the statement for d.
func (b *Builder) Build(d sqlgen.Dialect) (string, []types.Value, error) {
	q, err := b.Query()
	if err != nil {
		return "", nil, err
	}
	return sqlgen.Build(q, d)
}

// DebugBuild renders the statement with literals inlined. The result is for
// logs and diagnostics only and must never be executed.
func (b *Builder) DebugBuild(d sqlgen.Dialect) (string, error) {
	q, err := b.Query()
	if err != nil {
		return "", err
	}
	return sqlgen.DebugBuild(q, d)
}

// SubQuery wraps the statement as an operand for IN filters, projections and
// FROM entries.
func (b *Builder) SubQuery() (*ast.SubQuery, error) {
	q, err := b.Query()
	if err != nil {
		return nil, err
	}
	return ast.Sub(q), nil
}

func toColumn(x any) (ast.ColumnName, bool) {
	switch c := x.(type) {
	case ast.ColumnName:
		return c, true
	case string:
		return ast.Col(c), true
	case interface{ Col() ast.ColumnName }:
		return c.Col(), true
	}
	return ast.ColumnName{}, false
}

func toTable(x any) (ast.TableName, bool) {
	switch t := x.(type) {
	case ast.TableName:
		return t, true
	case string:
		return ast.Table(t), true
	case interface{ TableName() ast.TableName }:
		return t.TableName(), true
	}
	return ast.TableName{}, false
}
