package builder

import (
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/runtime/dao"
)

// Insert starts an INSERT into table.
func Insert(table any) *Builder {
	return New().Insert(table)
}

// Update starts an UPDATE of table.
func Update(table any) *Builder {
	return New().Update(table)
}

// DeleteFrom starts a DELETE from table.
func DeleteFrom(table any) *Builder {
	return New().DeleteFrom(table)
}

// Insert makes the builder an INSERT into table.
func (b *Builder) Insert(table any) *Builder {
	return b.kind(ast.Insert).target(table)
}

// Into is Insert.
func (b *Builder) Into(table any) *Builder {
	return b.Insert(table)
}

// Update makes the builder an UPDATE of table.
func (b *Builder) Update(table any) *Builder {
	return b.kind(ast.Update).target(table)
}

// DeleteFrom makes the builder a DELETE from table.
func (b *Builder) DeleteFrom(table any) *Builder {
	return b.kind(ast.Delete).target(table)
}

func (b *Builder) target(table any) *Builder {
	if len(b.q.From) > 0 {
		return b.fail("%s target already set", b.q.Kind)
	}
	return b.From(table)
}

// Set assigns value to column. For an UPDATE it adds "column = value"; for
// an INSERT it adds the column and its value to the single inserted row.
// Call order defines parameter order.
func (b *Builder) Set(column any, value any) *Builder {
	c, ok := toColumn(column)
	if !ok {
		return b.fail("cannot assign to %T", column)
	}
	b.q.Assignments = append(b.q.Assignments, ast.Assignment{Column: c, Value: ast.ToOperand(value)})
	return b
}

// Columns sets the INSERT column list.
func (b *Builder) Columns(cols ...any) *Builder {
	for _, col := range cols {
		c, ok := toColumn(col)
		if !ok {
			return b.fail("cannot use %T as a column", col)
		}
		b.q.Columns = append(b.q.Columns, c)
	}
	return b
}

// Values adds one row of values, in column order.
func (b *Builder) Values(vals ...any) *Builder {
	row := make([]ast.Operand, len(vals))
	for i, v := range vals {
		row[i] = ast.ToOperand(v)
	}
	b.q.Values = append(b.q.Values, row)
	return b
}

// Records adds one row per record. Without an explicit column list the
// columns of the first record are used; every record must provide exactly
// those columns.
func (b *Builder) Records(records ...dao.ToRow) *Builder {
	for i, r := range records {
		d := r.ToDao()
		if len(b.q.Columns) == 0 {
			for _, c := range d.Columns() {
				b.q.Columns = append(b.q.Columns, ast.Col(c))
			}
		}
		if d.Len() != len(b.q.Columns) {
			return b.fail("record %d has %d columns, expected %d", i+1, d.Len(), len(b.q.Columns))
		}
		row := make([]ast.Operand, len(b.q.Columns))
		for j, c := range b.q.Columns {
			v, ok := d.Value(c.Name)
			if !ok {
				return b.fail("record %d has no column %q", i+1, c.Name)
			}
			row[j] = ast.Literal{Value: v}
		}
		b.q.Values = append(b.q.Values, row)
	}
	return b
}

// Returning adds columns to the RETURNING clause.
func (b *Builder) Returning(cols ...any) *Builder {
	for _, col := range cols {
		c, ok := toColumn(col)
		if !ok {
			return b.fail("cannot return %T", col)
		}
		b.q.Returning = append(b.q.Returning, c)
	}
	return b
}

// ReturnAll requests "RETURNING *".
func (b *Builder) ReturnAll() *Builder {
	b.q.ReturnAll = true
	return b
}
