package ast

// Direction is the sort direction of an Order.
type Direction int

const (
	NoDirection Direction = iota
	Asc
	Desc
)

func (d Direction) String() string {
	switch d {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	}
	return ""
}

// NullsWhere places NULLs first or last.
type NullsWhere int

const (
	NullsDefault NullsWhere = iota
	NullsFirst
	NullsLast
)

func (n NullsWhere) String() string {
	switch n {
	case NullsFirst:
		return "NULLS FIRST"
	case NullsLast:
		return "NULLS LAST"
	}
	return ""
}

// Order is an ORDER BY item.
type Order struct {
	Operand   Operand
	Direction Direction
	Nulls     NullsWhere
}

// OrderOf orders by op in the backend's default direction.
func OrderOf(op Operand) Order { return Order{Operand: op} }

// Asc orders by c ascending.
func (c ColumnName) Asc() Order { return Order{Operand: c, Direction: Asc} }

// Desc orders by c descending.
func (c ColumnName) Desc() Order { return Order{Operand: c, Direction: Desc} }

// NullsFirst returns a copy of o with NULLS FIRST.
func (o Order) NullsFirst() Order {
	o.Operand = CloneOperand(o.Operand)
	o.Nulls = NullsFirst
	return o
}

// NullsLast returns a copy of o with NULLS LAST.
func (o Order) NullsLast() Order {
	o.Operand = CloneOperand(o.Operand)
	o.Nulls = NullsLast
	return o
}
