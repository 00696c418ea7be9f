package ast

// Field is a projected expression with an optional output name.
type Field struct {
	Operand Operand
	Name    string
}

// F projects op without renaming it.
func F(op Operand) Field { return Field{Operand: op} }

// FieldAs projects op under name.
func FieldAs(op Operand, name string) Field { return Field{Operand: op, Name: name} }

// As projects c under name.
func (c ColumnName) As(name string) Field { return Field{Operand: c, Name: name} }

// As projects the function result under name.
func (f Function) As(name string) Field { return Field{Operand: f, Name: name} }

// Fields projects every column without renaming.
func Fields(cols ...ColumnName) []Field {
	out := make([]Field, len(cols))
	for i, c := range cols {
		out[i] = Field{Operand: c}
	}
	return out
}

// SourceField is a FROM entry: a table, a sub-query or a table function,
// optionally renamed.
type SourceField struct {
	Source Operand
	Rename string
}

// Source wraps a table, sub-query or function as a FROM entry.
func Source(op Operand) SourceField { return SourceField{Source: op} }

// As returns a copy of s renamed.
func (s SourceField) As(rename string) SourceField {
	s.Source = CloneOperand(s.Source)
	s.Rename = rename
	return s
}

// As returns t as a renamed FROM entry.
func (t TableName) As(rename string) SourceField {
	return SourceField{Source: t.Clone(), Rename: rename}
}

// Columns returns the column names a source exposes for enumeration. Renamed
// tables expose their columns qualified by the new name.
func (s SourceField) Columns() []ColumnName {
	t, ok := s.Source.(TableName)
	if !ok {
		return nil
	}
	if s.Rename == "" {
		return t.Columns
	}
	out := make([]ColumnName, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = ColumnName{Name: c.Name, Table: s.Rename}
	}
	return out
}

// ResolveFieldNames returns a copy of fields in which every unnamed column
// whose bare name conflicts with another unnamed, differently qualified column
// is renamed to its fully qualified form.
func ResolveFieldNames(fields []Field) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	for i, f := range out {
		c, ok := f.Operand.(ColumnName)
		if !ok || f.Name != "" {
			continue
		}
		for j, g := range fields {
			if i == j || g.Name != "" {
				continue
			}
			o, ok := g.Operand.(ColumnName)
			if ok && c.ConflictsWith(o) && c.Complete() != o.Complete() {
				out[i].Name = c.Complete()
				break
			}
		}
	}
	return out
}
