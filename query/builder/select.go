package builder

import (
	"github.com/satishbabariya/sqlforge/query/ast"
)

// Select starts a Select projecting fields.
func Select(fields ...any) *Builder {
	return New().Select(fields...)
}

// SelectAll starts a "SELECT *".
func SelectAll() *Builder {
	return New().SelectAll()
}

// SelectAllColumns starts a Select projecting every known column of its
// sources and joins.
func SelectAllColumns() *Builder {
	return New().SelectAllColumns()
}

// Select adds fields to the projection. A field may be an ast.Field, a
// column name, an ast.Operand or a typed column.
func (b *Builder) Select(fields ...any) *Builder {
	b.kind(ast.Select)
	for _, f := range fields {
		switch v := f.(type) {
		case ast.Field:
			b.q.Fields = append(b.q.Fields, v)
		case []ast.Field:
			b.q.Fields = append(b.q.Fields, v...)
		case ast.Operand:
			b.q.Fields = append(b.q.Fields, ast.F(v))
		default:
			c, ok := toColumn(f)
			if !ok {
				return b.fail("cannot project %T", f)
			}
			b.q.Fields = append(b.q.Fields, ast.F(c))
		}
	}
	return b
}

// SelectAll projects "*". Column renaming does not apply.
func (b *Builder) SelectAll() *Builder {
	b.kind(ast.Select)
	b.q.Fields = nil
	b.allColumns = false
	return b
}

// SelectAllColumns projects the columns of every source and joined table,
// renaming conflicting bare names to their qualified form.
func (b *Builder) SelectAllColumns() *Builder {
	b.kind(ast.Select)
	b.allColumns = true
	return b
}

// Distinct makes the Select return distinct rows.
func (b *Builder) Distinct() *Builder {
	b.q.Distinct = true
	return b
}

// From adds sources. A source may be a table name, an ast.SourceField, a
// sub-query or a Builder, which is embedded as a sub-query.
func (b *Builder) From(sources ...any) *Builder {
	for _, s := range sources {
		switch v := s.(type) {
		case ast.SourceField:
			b.q.From = append(b.q.From, v)
		case *ast.SubQuery:
			b.q.From = append(b.q.From, ast.Source(v))
		case *Builder:
			sub, err := v.SubQuery()
			if err != nil {
				if b.err == nil {
					b.err = err
				}
				return b
			}
			b.q.From = append(b.q.From, ast.Source(sub))
		case ast.Function:
			b.q.From = append(b.q.From, ast.Source(v))
		default:
			t, ok := toTable(s)
			if !ok {
				return b.fail("cannot use %T as a source", s)
			}
			b.q.From = append(b.q.From, ast.Source(t))
		}
	}
	return b
}

// FromAs adds a renamed source.
func (b *Builder) FromAs(source any, rename string) *Builder {
	n := len(b.q.From)
	b.From(source)
	if len(b.q.From) > n {
		b.q.From[n] = b.q.From[n].As(rename)
	}
	return b
}

// Join adds a prepared join.
func (b *Builder) Join(joins ...ast.Join) *Builder {
	b.q.Joins = append(b.q.Joins, joins...)
	return b
}

// InnerJoin adds "INNER JOIN table ON on".
func (b *Builder) InnerJoin(table any, on ast.Filter) *Builder {
	return b.join(table, on, ast.InnerJoin)
}

// LeftJoin adds "LEFT JOIN table ON on".
func (b *Builder) LeftJoin(table any, on ast.Filter) *Builder {
	return b.join(table, on, ast.LeftJoin)
}

// RightJoin adds "RIGHT JOIN table ON on".
func (b *Builder) RightJoin(table any, on ast.Filter) *Builder {
	return b.join(table, on, ast.RightJoin)
}

// FullJoin adds "FULL JOIN table ON on".
func (b *Builder) FullJoin(table any, on ast.Filter) *Builder {
	return b.join(table, on, ast.FullJoin)
}

// CrossJoin adds "CROSS JOIN table".
func (b *Builder) CrossJoin(table any) *Builder {
	t, ok := toTable(table)
	if !ok {
		return b.fail("cannot join %T", table)
	}
	return b.Join(ast.CrossJoin(t))
}

func (b *Builder) join(table any, on ast.Filter, mk func(ast.TableName, ast.Filter) ast.Join) *Builder {
	t, ok := toTable(table)
	if !ok {
		return b.fail("cannot join %T", table)
	}
	return b.Join(mk(t, on))
}

// Where adds filters joined with AND.
func (b *Builder) Where(filters ...ast.Filter) *Builder {
	b.q.Filters = append(b.q.Filters, filters...)
	return b
}

// GroupBy adds grouping expressions: column names or operands.
func (b *Builder) GroupBy(exprs ...any) *Builder {
	for _, e := range exprs {
		if op, ok := e.(ast.Operand); ok {
			b.q.GroupBy = append(b.q.GroupBy, op)
			continue
		}
		c, ok := toColumn(e)
		if !ok {
			return b.fail("cannot group by %T", e)
		}
		b.q.GroupBy = append(b.q.GroupBy, c)
	}
	return b
}

// Having adds HAVING filters joined with AND.
func (b *Builder) Having(filters ...ast.Filter) *Builder {
	b.q.Having = append(b.q.Having, filters...)
	return b
}

// OrderBy adds ordering terms.
func (b *Builder) OrderBy(orders ...ast.Order) *Builder {
	b.q.OrderBy = append(b.q.OrderBy, orders...)
	return b
}

// Asc orders by the given columns ascending.
func (b *Builder) Asc(cols ...string) *Builder {
	for _, c := range cols {
		b.q.OrderBy = append(b.q.OrderBy, ast.Col(c).Asc())
	}
	return b
}

// Desc orders by the given columns descending.
func (b *Builder) Desc(cols ...string) *Builder {
	for _, c := range cols {
		b.q.OrderBy = append(b.q.OrderBy, ast.Col(c).Desc())
	}
	return b
}

// Limit caps the number of returned rows.
func (b *Builder) Limit(n int64) *Builder {
	b.q.Limit = &n
	return b
}

// Offset skips the first n rows.
func (b *Builder) Offset(n int64) *Builder {
	b.q.Offset = &n
	return b
}
