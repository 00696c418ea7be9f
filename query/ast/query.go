package ast

import "slices"

// Kind is the statement kind of a Query.
type Kind int

const (
	Select Kind = iota
	Insert
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Select:
		return "SELECT"
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	}
	return "UNKNOWN"
}

// Assignment is a "column = value" pair of an UPDATE, or a column and value
// of a single row INSERT.
type Assignment struct {
	Column ColumnName
	Value  Operand
}

// Query is a complete statement. Only the clauses relevant to Kind may be
// set; renderers reject the others.
type Query struct {
	Kind     Kind
	Distinct bool

	// Select.
	Fields  []Field
	From    []SourceField
	Joins   []Join
	Filters []Filter
	GroupBy []Operand
	Having  []Filter
	OrderBy []Order
	Limit   *int64
	Offset  *int64

	// Insert and Update.
	Assignments []Assignment
	Columns     []ColumnName
	Values      [][]Operand
	Returning   []ColumnName
	ReturnAll   bool
}

// Target returns the table of an INSERT, UPDATE or DELETE.
func (q *Query) Target() (TableName, bool) {
	if len(q.From) == 0 {
		return TableName{}, false
	}
	t, ok := q.From[0].Source.(TableName)
	return t, ok
}

// Clone returns a deep copy of q.
func (q *Query) Clone() *Query {
	if q == nil {
		return nil
	}
	out := &Query{
		Kind:      q.Kind,
		Distinct:  q.Distinct,
		Filters:   cloneFilters(q.Filters),
		Having:    cloneFilters(q.Having),
		GroupBy:   cloneOperands(q.GroupBy),
		Columns:   slices.Clone(q.Columns),
		Returning: slices.Clone(q.Returning),
		ReturnAll: q.ReturnAll,
	}
	if q.Fields != nil {
		out.Fields = make([]Field, len(q.Fields))
		for i, f := range q.Fields {
			out.Fields[i] = Field{Operand: CloneOperand(f.Operand), Name: f.Name}
		}
	}
	if q.From != nil {
		out.From = make([]SourceField, len(q.From))
		for i, s := range q.From {
			out.From[i] = SourceField{Source: CloneOperand(s.Source), Rename: s.Rename}
		}
	}
	if q.Joins != nil {
		out.Joins = make([]Join, len(q.Joins))
		for i, j := range q.Joins {
			out.Joins[i] = j.Clone()
		}
	}
	if q.OrderBy != nil {
		out.OrderBy = make([]Order, len(q.OrderBy))
		for i, o := range q.OrderBy {
			out.OrderBy[i] = Order{Operand: CloneOperand(o.Operand), Direction: o.Direction, Nulls: o.Nulls}
		}
	}
	if q.Limit != nil {
		n := *q.Limit
		out.Limit = &n
	}
	if q.Offset != nil {
		n := *q.Offset
		out.Offset = &n
	}
	if q.Assignments != nil {
		out.Assignments = make([]Assignment, len(q.Assignments))
		for i, a := range q.Assignments {
			out.Assignments[i] = Assignment{Column: a.Column, Value: CloneOperand(a.Value)}
		}
	}
	if q.Values != nil {
		out.Values = make([][]Operand, len(q.Values))
		for i, row := range q.Values {
			out.Values[i] = cloneOperands(row)
		}
	}
	return out
}
