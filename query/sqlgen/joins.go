package sqlgen

import (
	"strings"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
)

// join renders [NATURAL ][LEFT|RIGHT|FULL|INNER|CROSS] JOIN table[ AS alias][ ON cond].
func (r *renderer) join(j ast.Join) (string, error) {
	var kw []string
	if j.Type == ast.NaturalJoinType {
		kw = append(kw, "NATURAL")
	}
	if j.Modifier != ast.NoModifier {
		if j.Type == ast.InnerJoinType || j.Type == ast.CrossJoinType {
			return "", dberr.Build("%s JOIN cannot be %s", j.Type, j.Modifier)
		}
		if j.Modifier == ast.FullModifier && !r.d.Supports(FullJoin) {
			return "", dberr.Unsupported(r.d.Name(), FullJoin.String())
		}
		kw = append(kw, j.Modifier.String())
	}
	if j.Type == ast.InnerJoinType || j.Type == ast.CrossJoinType {
		kw = append(kw, j.Type.String())
	}
	kw = append(kw, "JOIN", r.table(j.Table))
	if j.Alias != "" {
		kw = append(kw, "AS", r.d.QuoteIdentifier(j.Alias))
	}

	conditionless := j.Type == ast.CrossJoinType || j.Type == ast.NaturalJoinType
	switch {
	case j.On != nil && conditionless:
		return "", dberr.Build("%s JOIN of %s takes no ON condition", j.Type, j.Table.Complete())
	case j.On == nil && !conditionless:
		return "", dberr.Build("JOIN of %s requires an ON condition", j.Table.Complete())
	case j.On != nil:
		on, err := r.filter(*j.On)
		if err != nil {
			return "", err
		}
		kw = append(kw, "ON", on)
	}
	return strings.Join(kw, " "), nil
}

func (r *renderer) source(s ast.SourceField) (string, error) {
	var out string
	switch v := s.Source.(type) {
	case ast.TableName:
		out = r.table(v)
	case *ast.SubQuery, ast.Function:
		var err error
		if out, err = r.operand(v); err != nil {
			return "", err
		}
	default:
		return "", dberr.Build("unsupported source %T", s.Source)
	}
	if s.Rename != "" {
		out += " AS " + r.d.QuoteIdentifier(s.Rename)
	}
	return out, nil
}
