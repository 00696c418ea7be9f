// Package sqlgen renders query ASTs into dialect specific SQL.
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Build renders q for d. Every literal becomes a placeholder and is returned
// in params, in the order the placeholders appear in the text.
func Build(q *ast.Query, d Dialect) (string, []types.Value, error) {
	r := &renderer{d: d}
	sql, err := r.statement(q)
	if err != nil {
		return "", nil, err
	}
	return sql, r.params, nil
}

// DebugBuild renders q for d with every literal inlined. The output is meant
// for humans and must never be executed.
func DebugBuild(q *ast.Query, d Dialect) (string, error) {
	r := &renderer{d: d, debug: true}
	return r.statement(q)
}

// Args converts params into database/sql arguments.
func Args(params []types.Value) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = p
	}
	return args
}

type renderer struct {
	d      Dialect
	debug  bool
	params []types.Value
}

func (r *renderer) statement(q *ast.Query) (string, error) {
	if q == nil {
		return "", dberr.Build("nil query")
	}
	if err := validate(q, r.d); err != nil {
		return "", err
	}
	switch q.Kind {
	case ast.Select:
		return r.selectStmt(q)
	case ast.Insert:
		return r.insertStmt(q)
	case ast.Update:
		return r.updateStmt(q)
	case ast.Delete:
		return r.deleteStmt(q)
	}
	return "", dberr.Build("unknown statement kind %d", q.Kind)
}

func (r *renderer) selectStmt(q *ast.Query) (string, error) {
	var parts []string

	head := "SELECT"
	if q.Distinct {
		head += " DISTINCT"
	}
	fields, err := r.fields(q.Fields)
	if err != nil {
		return "", err
	}
	parts = append(parts, head+" "+fields)

	sources := make([]string, len(q.From))
	for i, s := range q.From {
		if sources[i], err = r.source(s); err != nil {
			return "", err
		}
	}
	parts = append(parts, "FROM "+strings.Join(sources, ", "))

	for _, j := range q.Joins {
		join, err := r.join(j)
		if err != nil {
			return "", err
		}
		parts = append(parts, join)
	}

	if len(q.Filters) > 0 {
		where, err := r.filters(q.Filters)
		if err != nil {
			return "", err
		}
		parts = append(parts, "WHERE "+where)
	}

	if len(q.GroupBy) > 0 {
		group, err := r.operands(q.GroupBy)
		if err != nil {
			return "", err
		}
		parts = append(parts, "GROUP BY "+group)
	}

	if len(q.Having) > 0 {
		having, err := r.filters(q.Having)
		if err != nil {
			return "", err
		}
		parts = append(parts, "HAVING "+having)
	}

	if len(q.OrderBy) > 0 {
		orders := make([]string, len(q.OrderBy))
		for i, o := range q.OrderBy {
			if orders[i], err = r.order(o); err != nil {
				return "", err
			}
		}
		parts = append(parts, "ORDER BY "+strings.Join(orders, ", "))
	}

	switch {
	case q.Limit != nil:
		parts = append(parts, "LIMIT "+strconv.FormatInt(*q.Limit, 10))
	case q.Offset != nil && r.d.LimitAll() != "":
		parts = append(parts, "LIMIT "+r.d.LimitAll())
	}
	if q.Offset != nil {
		parts = append(parts, "OFFSET "+strconv.FormatInt(*q.Offset, 10))
	}

	return strings.Join(parts, " "), nil
}

func (r *renderer) insertStmt(q *ast.Query) (string, error) {
	var parts []string

	target, _ := q.Target()
	parts = append(parts, "INSERT INTO "+r.table(target))

	columns := q.Columns
	rows := q.Values
	if len(q.Assignments) > 0 {
		columns = make([]ast.ColumnName, len(q.Assignments))
		row := make([]ast.Operand, len(q.Assignments))
		for i, a := range q.Assignments {
			columns[i] = a.Column
			row[i] = a.Value
		}
		rows = [][]ast.Operand{row}
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = r.d.QuoteIdentifier(c.Name)
	}
	parts = append(parts, "("+strings.Join(names, ", ")+")")

	tuples := make([]string, len(rows))
	for i, row := range rows {
		values, err := r.operands(row)
		if err != nil {
			return "", err
		}
		tuples[i] = "(" + values + ")"
	}
	parts = append(parts, "VALUES "+strings.Join(tuples, ", "))

	if ret := r.returning(q); ret != "" {
		parts = append(parts, ret)
	}
	return strings.Join(parts, " "), nil
}

func (r *renderer) updateStmt(q *ast.Query) (string, error) {
	var parts []string

	target, _ := q.Target()
	parts = append(parts, "UPDATE "+r.table(target))

	sets := make([]string, len(q.Assignments))
	for i, a := range q.Assignments {
		value, err := r.operand(a.Value)
		if err != nil {
			return "", err
		}
		sets[i] = r.d.QuoteIdentifier(a.Column.Name) + " = " + value
	}
	parts = append(parts, "SET "+strings.Join(sets, ", "))

	if len(q.Filters) > 0 {
		where, err := r.filters(q.Filters)
		if err != nil {
			return "", err
		}
		parts = append(parts, "WHERE "+where)
	}

	if ret := r.returning(q); ret != "" {
		parts = append(parts, ret)
	}
	return strings.Join(parts, " "), nil
}

func (r *renderer) deleteStmt(q *ast.Query) (string, error) {
	var parts []string

	target, _ := q.Target()
	parts = append(parts, "DELETE FROM "+r.table(target))

	if len(q.Filters) > 0 {
		where, err := r.filters(q.Filters)
		if err != nil {
			return "", err
		}
		parts = append(parts, "WHERE "+where)
	}
	return strings.Join(parts, " "), nil
}

func (r *renderer) returning(q *ast.Query) string {
	if q.ReturnAll {
		return "RETURNING *"
	}
	if len(q.Returning) == 0 {
		return ""
	}
	cols := make([]string, len(q.Returning))
	for i, c := range q.Returning {
		cols[i] = r.column(c)
	}
	return "RETURNING " + strings.Join(cols, ", ")
}

func (r *renderer) fields(fields []ast.Field) (string, error) {
	if len(fields) == 0 {
		return "*", nil
	}
	fields = ast.ResolveFieldNames(fields)
	out := make([]string, len(fields))
	for i, f := range fields {
		s, err := r.operand(f.Operand)
		if err != nil {
			return "", err
		}
		if f.Name != "" {
			s += " AS " + r.d.QuoteIdentifier(f.Name)
		}
		out[i] = s
	}
	return strings.Join(out, ", "), nil
}

func (r *renderer) order(o ast.Order) (string, error) {
	s, err := r.operand(o.Operand)
	if err != nil {
		return "", err
	}
	if o.Direction != ast.NoDirection {
		s += " " + o.Direction.String()
	}
	if o.Nulls != ast.NullsDefault {
		if !r.d.Supports(NullsOrder) {
			return "", dberr.Unsupported(r.d.Name(), NullsOrder.String())
		}
		s += " " + o.Nulls.String()
	}
	return s, nil
}
