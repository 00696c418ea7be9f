package sqlgen

import (
	"strings"
	"time"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// filters joins top level filters with AND.
func (r *renderer) filters(fs []ast.Filter) (string, error) {
	out := make([]string, len(fs))
	for i, f := range fs {
		s, err := r.filter(f)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, " AND "), nil
}

// filter renders the condition followed by each sub-filter. The node is
// parenthesized only when it has sub-filters.
func (r *renderer) filter(f ast.Filter) (string, error) {
	cond, err := r.condition(f.Condition)
	if err != nil {
		return "", err
	}
	if len(f.SubFilters) == 0 {
		return cond, nil
	}

	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(cond)
	for _, sub := range f.SubFilters {
		s, err := r.filter(sub)
		if err != nil {
			return "", err
		}
		sb.WriteString(" " + sub.Connector.String() + " ")
		sb.WriteString(s)
	}
	sb.WriteString(")")
	return sb.String(), nil
}

func (r *renderer) condition(c ast.Condition) (string, error) {
	left, err := r.operand(c.Left)
	if err != nil {
		return "", err
	}
	if c.Equality.Unary() {
		return left + " " + c.Equality.String(), nil
	}
	if c.Right == nil {
		return "", dberr.Build("%s requires a right operand", c.Equality)
	}

	switch c.Equality {
	case ast.IN, ast.NOT_IN:
		right, err := r.inOperand(c.Right)
		if err != nil {
			return "", err
		}
		return left + " " + c.Equality.String() + " " + right, nil
	case ast.ILIKE:
		right, err := r.operand(c.Right)
		if err != nil {
			return "", err
		}
		if r.d.Supports(ILike) {
			return left + " ILIKE " + right, nil
		}
		return "LOWER(" + left + ") LIKE LOWER(" + right + ")", nil
	}

	right, err := r.operand(c.Right)
	if err != nil {
		return "", err
	}
	return left + " " + c.Equality.String() + " " + right, nil
}

func (r *renderer) inOperand(op ast.Operand) (string, error) {
	switch v := op.(type) {
	case ast.List:
		if len(v) == 0 {
			return "", dberr.Build("IN requires at least one value")
		}
		return r.operand(v)
	case *ast.SubQuery:
		return r.operand(v)
	}
	s, err := r.operand(op)
	if err != nil {
		return "", err
	}
	return "(" + s + ")", nil
}

func (r *renderer) operands(ops []ast.Operand) (string, error) {
	out := make([]string, len(ops))
	for i, op := range ops {
		s, err := r.operand(op)
		if err != nil {
			return "", err
		}
		out[i] = s
	}
	return strings.Join(out, ", "), nil
}

func (r *renderer) operand(op ast.Operand) (string, error) {
	switch v := op.(type) {
	case nil:
		return "", dberr.Build("missing operand")
	case ast.ColumnName:
		return r.column(v), nil
	case ast.TableName:
		return r.table(v), nil
	case ast.Literal:
		return r.literal(v.Value), nil
	case ast.Star:
		return "*", nil
	case ast.List:
		s, err := r.operands(v)
		if err != nil {
			return "", err
		}
		return "(" + s + ")", nil
	case ast.Function:
		args, err := r.operands(v.Args)
		if err != nil {
			return "", err
		}
		return v.Name + "(" + args + ")", nil
	case *ast.SubQuery:
		if v == nil || v.Query == nil {
			return "", dberr.Build("empty sub-query")
		}
		if v.Query.Kind != ast.Select {
			return "", dberr.Build("sub-query must be a SELECT, got %s", v.Query.Kind)
		}
		s, err := r.statement(v.Query)
		if err != nil {
			return "", err
		}
		return "(" + s + ")", nil
	}
	return "", dberr.Build("unsupported operand %T", op)
}

func (r *renderer) column(c ast.ColumnName) string {
	var sb strings.Builder
	if c.Schema != "" {
		sb.WriteString(r.d.QuoteIdentifier(c.Schema) + ".")
	}
	if c.Table != "" {
		sb.WriteString(r.d.QuoteIdentifier(c.Table) + ".")
	}
	sb.WriteString(r.d.QuoteIdentifier(c.Name))
	return sb.String()
}

func (r *renderer) table(t ast.TableName) string {
	if t.Schema == "" {
		return r.d.QuoteIdentifier(t.Name)
	}
	return r.d.QuoteIdentifier(t.Schema) + "." + r.d.QuoteIdentifier(t.Name)
}

// literal emits a placeholder, or the inlined value in debug mode.
func (r *renderer) literal(v types.Value) string {
	if !r.debug {
		r.params = append(r.params, v)
		return r.d.Placeholder(len(r.params))
	}
	return inline(v, r.d)
}

func inline(v types.Value, d Dialect) string {
	switch v.Kind() {
	case types.KindNull:
		return "NULL"
	case types.KindBool:
		if v.Interface().(bool) {
			return "TRUE"
		}
		return "FALSE"
	case types.KindInt8, types.KindInt16, types.KindInt32, types.KindInt64,
		types.KindUint8, types.KindUint16, types.KindUint32, types.KindUint64,
		types.KindFloat32, types.KindFloat64, types.KindDecimal:
		return v.String()
	case types.KindBlob:
		return d.QuoteBytes(v.Interface().([]byte))
	case types.KindTimestamp:
		return d.QuoteString(v.Interface().(time.Time).Format("2006-01-02 15:04:05.999999999-07:00"))
	}
	return d.QuoteString(v.String())
}
