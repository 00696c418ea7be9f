package ast

import (
	"reflect"
	"slices"
)

// Equality is the comparison of a Condition.
type Equality int

const (
	EQ Equality = iota
	NEQ
	LT
	LTE
	GT
	GTE
	IN
	NOT_IN
	LIKE
	ILIKE
	IS_NULL
	IS_NOT_NULL
)

var equalityNames = [...]string{
	EQ:          "=",
	NEQ:         "!=",
	LT:          "<",
	LTE:         "<=",
	GT:          ">",
	GTE:         ">=",
	IN:          "IN",
	NOT_IN:      "NOT IN",
	LIKE:        "LIKE",
	ILIKE:       "ILIKE",
	IS_NULL:     "IS NULL",
	IS_NOT_NULL: "IS NOT NULL",
}

func (e Equality) String() string {
	if e >= 0 && int(e) < len(equalityNames) {
		return equalityNames[e]
	}
	return "?"
}

// Unary reports whether the equality takes no right operand.
func (e Equality) Unary() bool {
	return e == IS_NULL || e == IS_NOT_NULL
}

// Connector joins a sub-filter to its parent condition.
type Connector int

const (
	AND Connector = iota
	OR
)

func (c Connector) String() string {
	if c == OR {
		return "OR"
	}
	return "AND"
}

// Condition is a single comparison.
type Condition struct {
	Left     Operand
	Equality Equality
	Right    Operand
}

// Filter is a condition with optional sub-filters. The Connector of a
// sub-filter states how it attaches to its parent.
type Filter struct {
	Connector  Connector
	Condition  Condition
	SubFilters []Filter
}

// NewFilter builds a leaf filter. right is converted with ToOperand; it is
// ignored for IS_NULL and IS_NOT_NULL.
func NewFilter(left Operand, eq Equality, right any) Filter {
	var r Operand
	if !eq.Unary() {
		r = ToOperand(right)
	}
	return Filter{Condition: Condition{Left: left, Equality: eq, Right: r}}
}

// And returns a copy of f with o attached by AND.
func (f Filter) And(o Filter) Filter {
	return f.attach(AND, o)
}

// Or returns a copy of f with o attached by OR.
func (f Filter) Or(o Filter) Filter {
	return f.attach(OR, o)
}

func (f Filter) attach(c Connector, o Filter) Filter {
	out := f.Clone()
	sub := o.Clone()
	sub.Connector = c
	out.SubFilters = append(out.SubFilters, sub)
	return out
}

// Clone returns a deep copy of f.
func (f Filter) Clone() Filter {
	out := Filter{
		Connector: f.Connector,
		Condition: Condition{
			Left:     CloneOperand(f.Condition.Left),
			Equality: f.Condition.Equality,
			Right:    CloneOperand(f.Condition.Right),
		},
	}
	if f.SubFilters != nil {
		out.SubFilters = make([]Filter, len(f.SubFilters))
		for i, s := range f.SubFilters {
			out.SubFilters[i] = s.Clone()
		}
	}
	return out
}

func cloneFilters(fs []Filter) []Filter {
	if fs == nil {
		return nil
	}
	out := slices.Clone(fs)
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// EQ builds "c = v".
func (c ColumnName) EQ(v any) Filter { return NewFilter(c, EQ, v) }

// NEQ builds "c != v".
func (c ColumnName) NEQ(v any) Filter { return NewFilter(c, NEQ, v) }

// LT builds "c < v".
func (c ColumnName) LT(v any) Filter { return NewFilter(c, LT, v) }

// LTE builds "c <= v".
func (c ColumnName) LTE(v any) Filter { return NewFilter(c, LTE, v) }

// GT builds "c > v".
func (c ColumnName) GT(v any) Filter { return NewFilter(c, GT, v) }

// GTE builds "c >= v".
func (c ColumnName) GTE(v any) Filter { return NewFilter(c, GTE, v) }

// In builds "c IN (...)". A single *SubQuery or List argument is used as is
// and a single slice argument is expanded into its elements.
func (c ColumnName) In(vs ...any) Filter { return NewFilter(c, IN, inOperand(vs)) }

// NotIn builds "c NOT IN (...)".
func (c ColumnName) NotIn(vs ...any) Filter { return NewFilter(c, NOT_IN, inOperand(vs)) }

// Like builds "c LIKE pattern".
func (c ColumnName) Like(pattern any) Filter { return NewFilter(c, LIKE, pattern) }

// ILike builds a case insensitive LIKE.
func (c ColumnName) ILike(pattern any) Filter { return NewFilter(c, ILIKE, pattern) }

// IsNull builds "c IS NULL".
func (c ColumnName) IsNull() Filter { return NewFilter(c, IS_NULL, nil) }

// IsNotNull builds "c IS NOT NULL".
func (c ColumnName) IsNotNull() Filter { return NewFilter(c, IS_NOT_NULL, nil) }

// Cmp builds a filter on an arbitrary left operand, typically a Function in a
// HAVING clause.
func Cmp(left Operand, eq Equality, right any) Filter { return NewFilter(left, eq, right) }

func inOperand(vs []any) Operand {
	if len(vs) == 1 {
		switch v := vs[0].(type) {
		case *SubQuery, List:
			return v.(Operand)
		}
		if xs, ok := expand(vs[0]); ok {
			return ListOf(xs...)
		}
	}
	return ListOf(vs...)
}

// expand unpacks a slice or array argument. Byte slices and byte arrays
// (uuid.UUID among them) are single values.
func expand(x any) ([]any, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
