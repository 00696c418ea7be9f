package ast

import (
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Column is a typed column descriptor. Comparisons only accept values of the
// column's Go type, and Get/Set read and write rows with the same type.
//
//	var ProductName = ast.NewColumn[string]("bazaar.product.name")
//	q.Where(ProductName.EQ("GoPro"))
type Column[T any] struct {
	name ColumnName
}

// NewColumn parses name with ParseColumnName.
func NewColumn[T any](name string) Column[T] {
	return Column[T]{name: ParseColumnName(name)}
}

// TypedColumn binds a column of t to the Go type T.
func TypedColumn[T any](t TableName, name string) Column[T] {
	return Column[T]{name: t.C(name)}
}

// Col returns the untyped column name, usable as an Operand.
func (c Column[T]) Col() ColumnName { return c.name }

// Name returns the bare column name, which is the key of the column in a row.
func (c Column[T]) Name() string { return c.name.Name }

func (c Column[T]) lit(v T) Literal { return Literal{Value: types.ToValue(v)} }

func (c Column[T]) EQ(v T) Filter  { return NewFilter(c.name, EQ, c.lit(v)) }
func (c Column[T]) NEQ(v T) Filter { return NewFilter(c.name, NEQ, c.lit(v)) }
func (c Column[T]) LT(v T) Filter  { return NewFilter(c.name, LT, c.lit(v)) }
func (c Column[T]) LTE(v T) Filter { return NewFilter(c.name, LTE, c.lit(v)) }
func (c Column[T]) GT(v T) Filter  { return NewFilter(c.name, GT, c.lit(v)) }
func (c Column[T]) GTE(v T) Filter { return NewFilter(c.name, GTE, c.lit(v)) }

// In builds "c IN (...)".
func (c Column[T]) In(vs ...T) Filter {
	l := make(List, len(vs))
	for i, v := range vs {
		l[i] = c.lit(v)
	}
	return NewFilter(c.name, IN, l)
}

// NotIn builds "c NOT IN (...)".
func (c Column[T]) NotIn(vs ...T) Filter {
	l := make(List, len(vs))
	for i, v := range vs {
		l[i] = c.lit(v)
	}
	return NewFilter(c.name, NOT_IN, l)
}

// Matches compares the column against another column.
func (c Column[T]) Matches(eq Equality, o Column[T]) Filter {
	return NewFilter(c.name, eq, o.name)
}

func (c Column[T]) IsNull() Filter    { return c.name.IsNull() }
func (c Column[T]) IsNotNull() Filter { return c.name.IsNotNull() }
func (c Column[T]) Asc() Order        { return c.name.Asc() }
func (c Column[T]) Desc() Order       { return c.name.Desc() }
func (c Column[T]) As(name string) Field {
	return c.name.As(name)
}

// Get reads the column from a row.
func (c Column[T]) Get(d *dao.Dao) (T, error) {
	return dao.Get[T](d, c.name.Name)
}

// GetOpt reads a nullable column from a row.
func (c Column[T]) GetOpt(d *dao.Dao) (*T, error) {
	return dao.GetOpt[T](d, c.name.Name)
}

// Set writes v into a row.
func (c Column[T]) Set(d *dao.Dao, v T) *dao.Dao {
	return d.SetValue(c.name.Name, types.ToValue(v))
}
