package ast

// JoinModifier is the outer join side.
type JoinModifier int

const (
	NoModifier JoinModifier = iota
	LeftModifier
	RightModifier
	FullModifier
)

func (m JoinModifier) String() string {
	switch m {
	case LeftModifier:
		return "LEFT"
	case RightModifier:
		return "RIGHT"
	case FullModifier:
		return "FULL"
	}
	return ""
}

// JoinType is the join kind when no modifier applies, or NATURAL.
type JoinType int

const (
	NoJoinType JoinType = iota
	InnerJoinType
	CrossJoinType
	NaturalJoinType
)

func (t JoinType) String() string {
	switch t {
	case InnerJoinType:
		return "INNER"
	case CrossJoinType:
		return "CROSS"
	case NaturalJoinType:
		return "NATURAL"
	}
	return ""
}

// Join attaches Table to the query's sources.
type Join struct {
	Modifier JoinModifier
	Type     JoinType
	Table    TableName
	Alias    string
	On       *Filter
}

// NewJoin builds a plain JOIN of table on the given condition.
func NewJoin(table TableName, on Filter) Join {
	return Join{Table: table, On: &on}
}

// LeftJoin builds a LEFT JOIN.
func LeftJoin(table TableName, on Filter) Join { return NewJoin(table, on).Left() }

// RightJoin builds a RIGHT JOIN.
func RightJoin(table TableName, on Filter) Join { return NewJoin(table, on).Right() }

// FullJoin builds a FULL JOIN.
func FullJoin(table TableName, on Filter) Join { return NewJoin(table, on).Full() }

// InnerJoin builds an INNER JOIN.
func InnerJoin(table TableName, on Filter) Join { return NewJoin(table, on).Inner() }

// CrossJoin builds a CROSS JOIN, which takes no condition.
func CrossJoin(table TableName) Join {
	return Join{Type: CrossJoinType, Table: table}
}

// NaturalJoin builds a NATURAL JOIN, which takes no condition.
func NaturalJoin(table TableName) Join {
	return Join{Type: NaturalJoinType, Table: table}
}

// Left returns a copy of j as a LEFT join.
func (j Join) Left() Join { return j.with(LeftModifier, j.Type) }

// Right returns a copy of j as a RIGHT join.
func (j Join) Right() Join { return j.with(RightModifier, j.Type) }

// Full returns a copy of j as a FULL join.
func (j Join) Full() Join { return j.with(FullModifier, j.Type) }

// Inner returns a copy of j as an INNER join.
func (j Join) Inner() Join { return j.with(NoModifier, InnerJoinType) }

// As returns a copy of j with the joined table aliased.
func (j Join) As(alias string) Join {
	out := j.Clone()
	out.Alias = alias
	return out
}

func (j Join) with(m JoinModifier, t JoinType) Join {
	out := j.Clone()
	out.Modifier = m
	out.Type = t
	return out
}

// Clone returns a deep copy of j.
func (j Join) Clone() Join {
	out := j
	out.Table = j.Table.Clone()
	if j.On != nil {
		on := j.On.Clone()
		out.On = &on
	}
	return out
}
