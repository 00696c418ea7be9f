package sqlgen

import (
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
)

// validate rejects statements that are malformed or use clauses that do not
// belong to their kind, before anything is rendered.
func validate(q *ast.Query, d Dialect) error {
	if q.Limit != nil && *q.Limit < 0 {
		return dberr.Build("negative LIMIT %d", *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		return dberr.Build("negative OFFSET %d", *q.Offset)
	}

	switch q.Kind {
	case ast.Select:
		if len(q.From) == 0 {
			return dberr.Build("SELECT requires a source")
		}
		return reject(q.Kind,
			clause{"SET", len(q.Assignments) > 0},
			clause{"column list", len(q.Columns) > 0},
			clause{"VALUES", len(q.Values) > 0},
			clause{"RETURNING", q.ReturnAll || len(q.Returning) > 0},
		)
	case ast.Insert, ast.Update, ast.Delete:
	default:
		return dberr.Build("unknown statement kind %d", q.Kind)
	}

	if len(q.From) == 0 {
		return dberr.Build("%s requires a target table", q.Kind)
	}
	if len(q.From) > 1 {
		return dberr.Build("%s takes a single target table, got %d", q.Kind, len(q.From))
	}
	if _, ok := q.Target(); !ok {
		return dberr.Build("%s target must be a table", q.Kind)
	}
	if q.From[0].Rename != "" {
		return dberr.Build("%s target cannot be renamed", q.Kind)
	}
	if err := reject(q.Kind,
		clause{"DISTINCT", q.Distinct},
		clause{"projection", len(q.Fields) > 0},
		clause{"JOIN", len(q.Joins) > 0},
		clause{"GROUP BY", len(q.GroupBy) > 0},
		clause{"HAVING", len(q.Having) > 0},
		clause{"ORDER BY", len(q.OrderBy) > 0},
		clause{"LIMIT", q.Limit != nil},
		clause{"OFFSET", q.Offset != nil},
	); err != nil {
		return err
	}

	switch q.Kind {
	case ast.Insert:
		if err := reject(q.Kind, clause{"WHERE", len(q.Filters) > 0}); err != nil {
			return err
		}
		if err := validateInsertShape(q); err != nil {
			return err
		}
	case ast.Update:
		if err := reject(q.Kind,
			clause{"column list", len(q.Columns) > 0},
			clause{"VALUES", len(q.Values) > 0},
		); err != nil {
			return err
		}
		if len(q.Assignments) == 0 {
			return dberr.Build("UPDATE requires at least one SET assignment")
		}
	case ast.Delete:
		return reject(q.Kind,
			clause{"SET", len(q.Assignments) > 0},
			clause{"column list", len(q.Columns) > 0},
			clause{"VALUES", len(q.Values) > 0},
			clause{"RETURNING", q.ReturnAll || len(q.Returning) > 0},
		)
	}

	if (q.ReturnAll || len(q.Returning) > 0) && !d.Supports(Returning) {
		return dberr.Unsupported(d.Name(), Returning.String())
	}
	return nil
}

func validateInsertShape(q *ast.Query) error {
	if len(q.Assignments) > 0 {
		if len(q.Columns) > 0 || len(q.Values) > 0 {
			return dberr.Build("INSERT cannot mix SET assignments with a column list")
		}
		return nil
	}
	if len(q.Columns) == 0 {
		return dberr.Build("INSERT requires at least one column")
	}
	if len(q.Values) == 0 {
		return dberr.Build("INSERT requires at least one row of values")
	}
	for i, row := range q.Values {
		if len(row) != len(q.Columns) {
			return dberr.Build("INSERT has %d columns but row %d has %d values", len(q.Columns), i+1, len(row))
		}
	}
	return nil
}

type clause struct {
	name    string
	present bool
}

func reject(kind ast.Kind, clauses ...clause) error {
	for _, c := range clauses {
		if c.present {
			return dberr.Build("%s does not accept %s", kind, c.name)
		}
	}
	return nil
}
