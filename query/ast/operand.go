package ast

import (
	"slices"
	"strings"

	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Operand is anything that can appear where an SQL expression is expected. A
// nil Operand means no operand.
type Operand interface {
	operand()
}

func (ColumnName) operand() {}
func (TableName) operand()  {}
func (Literal) operand()    {}
func (*SubQuery) operand()  {}
func (Function) operand()   {}
func (List) operand()       {}
func (Star) operand()       {}

// Literal is a bound value. Renderers emit it as a placeholder.
type Literal struct {
	Value types.Value
}

// Lit wraps x as a Literal.
func Lit(x any) Literal {
	return Literal{Value: types.ToValue(x)}
}

// SubQuery nests a query as an operand or source.
type SubQuery struct {
	Query *Query
}

// Sub wraps q as a SubQuery.
func Sub(q *Query) *SubQuery {
	return &SubQuery{Query: q}
}

// Function is a function call such as COUNT(*).
type Function struct {
	Name string
	Args []Operand
}

// Fn builds a function call. Arguments are converted with ToOperand.
func Fn(name string, args ...any) Function {
	ops := make([]Operand, len(args))
	for i, a := range args {
		ops[i] = ToOperand(a)
	}
	return Function{Name: strings.ToUpper(name), Args: ops}
}

// Count returns COUNT(arg).
func Count(arg Operand) Function { return Function{Name: "COUNT", Args: []Operand{arg}} }

// CountAll returns COUNT(*).
func CountAll() Function { return Count(Star{}) }

// Sum returns SUM(arg).
func Sum(arg Operand) Function { return Function{Name: "SUM", Args: []Operand{arg}} }

// Avg returns AVG(arg).
func Avg(arg Operand) Function { return Function{Name: "AVG", Args: []Operand{arg}} }

// Min returns MIN(arg).
func Min(arg Operand) Function { return Function{Name: "MIN", Args: []Operand{arg}} }

// Max returns MAX(arg).
func Max(arg Operand) Function { return Function{Name: "MAX", Args: []Operand{arg}} }

// Lower returns LOWER(arg).
func Lower(arg Operand) Function { return Function{Name: "LOWER", Args: []Operand{arg}} }

// Upper returns UPPER(arg).
func Upper(arg Operand) Function { return Function{Name: "UPPER", Args: []Operand{arg}} }

// List is a parenthesized, comma separated list of operands.
type List []Operand

// ListOf converts every element with ToOperand.
func ListOf(xs ...any) List {
	out := make(List, len(xs))
	for i, x := range xs {
		out[i] = ToOperand(x)
	}
	return out
}

// Star is the * wildcard.
type Star struct{}

// ToOperand returns x unchanged when it already is an Operand and wraps it as
// a Literal otherwise.
func ToOperand(x any) Operand {
	switch v := x.(type) {
	case Operand:
		return v
	case types.Value:
		return Literal{Value: v}
	}
	return Lit(x)
}

// CloneOperand returns a deep copy of op.
func CloneOperand(op Operand) Operand {
	switch v := op.(type) {
	case TableName:
		return v.Clone()
	case *SubQuery:
		if v == nil {
			return v
		}
		return &SubQuery{Query: v.Query.Clone()}
	case Function:
		return Function{Name: v.Name, Args: cloneOperands(v.Args)}
	case List:
		return List(cloneOperands(v))
	}
	return op
}

func cloneOperands(ops []Operand) []Operand {
	if ops == nil {
		return nil
	}
	out := slices.Clone(ops)
	for i, op := range out {
		out[i] = CloneOperand(op)
	}
	return out
}
