// Package filterexpr parses the small expression language accepted by the
// CLI's --where and --order flags.
//
//	price >= 10 AND (name ILIKE '%pro%' OR category_id IN (1, 2)) AND deleted_at IS NULL
//	price DESC NULLS LAST, name
package filterexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/satishbabariya/sqlforge/query/ast"
)

var (
	filterParser = participle.MustBuild[expression](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
		participle.UseLookahead(2),
	)
	orderParser = participle.MustBuild[orderList](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
	)
)

// ErrUnsupported is returned for expressions the filter tree cannot express.
var ErrUnsupported = errors.New("filterexpr: unsupported expression")

// Parse parses a boolean filter expression. Top level AND terms are returned
// as separate filters, which a query joins with AND.
func Parse(input string) ([]ast.Filter, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	expr, err := filterParser.ParseString("where", input)
	if err != nil {
		return nil, fmt.Errorf("filterexpr: %w", err)
	}

	if len(expr.Or) == 1 {
		out := make([]ast.Filter, 0, len(expr.Or[0].And))
		for _, t := range expr.Or[0].And {
			f, err := t.filter()
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	f, err := expr.filter()
	if err != nil {
		return nil, err
	}
	return []ast.Filter{f}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) []ast.Filter {
	fs, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return fs
}

// ParseOrder parses a comma separated ORDER BY list.
func ParseOrder(input string) ([]ast.Order, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	list, err := orderParser.ParseString("order", input)
	if err != nil {
		return nil, fmt.Errorf("filterexpr: %w", err)
	}
	out := make([]ast.Order, len(list.Items))
	for i, it := range list.Items {
		o, err := it.order()
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// order reads "[ASC|DESC] [NULLS FIRST|LAST]" from the trailing words.
func (it *orderItem) order() (ast.Order, error) {
	o := ast.OrderOf(it.Column.name())
	mods := it.Modifiers
	if len(mods) > 0 {
		switch strings.ToUpper(mods[0]) {
		case "ASC":
			o.Direction = ast.Asc
			mods = mods[1:]
		case "DESC":
			o.Direction = ast.Desc
			mods = mods[1:]
		}
	}
	if len(mods) == 2 && strings.EqualFold(mods[0], "NULLS") {
		switch strings.ToUpper(mods[1]) {
		case "FIRST":
			return o.NullsFirst(), nil
		case "LAST":
			return o.NullsLast(), nil
		}
	}
	if len(mods) > 0 {
		return ast.Order{}, fmt.Errorf("filterexpr: %s: unexpected %q in order item", it.Pos, strings.Join(mods, " "))
	}
	return o, nil
}

// name builds the column from its parts, unquoting quoted ones.
func (c *columnRef) name() ast.ColumnName {
	parts := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		if len(p) >= 2 && p[0] == '"' {
			p = strings.ReplaceAll(p[1:len(p)-1], `""`, `"`)
		}
		parts[i] = p
	}
	n := len(parts)
	switch n {
	case 1:
		return ast.ColumnName{Name: parts[0]}
	case 2:
		return ast.ColumnName{Table: parts[0], Name: parts[1]}
	}
	return ast.ColumnName{
		Schema: strings.Join(parts[:n-2], "."),
		Table:  parts[n-2],
		Name:   parts[n-1],
	}
}

// filter chains the disjuncts with OR. Appending "OR x" to any rendered
// group keeps its meaning since OR binds loosest.
func (e *expression) filter() (ast.Filter, error) {
	out, err := e.Or[0].filter()
	if err != nil {
		return ast.Filter{}, err
	}
	for _, c := range e.Or[1:] {
		f, err := c.filter()
		if err != nil {
			return ast.Filter{}, err
		}
		out = out.Or(f)
	}
	return out, nil
}

// filter chains the conjuncts with AND. The head must not carry an OR
// sub-filter, otherwise the appended AND would bind to its last disjunct.
func (c *conjunction) filter() (ast.Filter, error) {
	factors := make([]ast.Filter, len(c.And))
	for i, t := range c.And {
		f, err := t.filter()
		if err != nil {
			return ast.Filter{}, err
		}
		factors[i] = f
	}
	if len(factors) == 1 {
		return factors[0], nil
	}

	head := -1
	for i, f := range factors {
		if conjunctive(f) {
			head = i
			break
		}
	}
	if head < 0 {
		return ast.Filter{}, fmt.Errorf("%w: nested AND of OR groups; move one group to the top level", ErrUnsupported)
	}

	out := factors[head]
	for i, f := range factors {
		if i != head {
			out = out.And(f)
		}
	}
	return out, nil
}

func conjunctive(f ast.Filter) bool {
	for _, s := range f.SubFilters {
		if s.Connector == ast.OR {
			return false
		}
	}
	return true
}

func (t *term) filter() (ast.Filter, error) {
	if t.Group != nil {
		return t.Group.filter()
	}
	return t.Comparison.filter()
}

func (c *comparison) filter() (ast.Filter, error) {
	col := c.Column.name()

	switch {
	case c.Null != nil:
		if c.Null.Not {
			return col.IsNotNull(), nil
		}
		return col.IsNull(), nil

	case c.In != nil:
		vals := make([]any, len(c.In.Values))
		for i, v := range c.In.Values {
			x, err := v.literal()
			if err != nil {
				return ast.Filter{}, err
			}
			vals[i] = x
		}
		if c.In.Not {
			return col.NotIn(vals...), nil
		}
		return col.In(vals...), nil

	case c.Like != nil:
		x, err := c.Like.Value.literal()
		if err != nil {
			return ast.Filter{}, err
		}
		if strings.EqualFold(c.Like.Op, "ILIKE") {
			return col.ILike(x), nil
		}
		return col.Like(x), nil
	}

	b := c.Binary
	if b.Value.Null {
		switch b.Op {
		case "=":
			return col.IsNull(), nil
		case "!=", "<>":
			return col.IsNotNull(), nil
		}
		return ast.Filter{}, fmt.Errorf("%w: %s NULL at %s", ErrUnsupported, b.Op, c.Pos)
	}
	x, err := b.Value.literal()
	if err != nil {
		return ast.Filter{}, err
	}
	eq, ok := operators[b.Op]
	if !ok {
		return ast.Filter{}, fmt.Errorf("%w: operator %q", ErrUnsupported, b.Op)
	}
	return ast.NewFilter(col, eq, x), nil
}

var operators = map[string]ast.Equality{
	"=":  ast.EQ,
	"!=": ast.NEQ,
	"<>": ast.NEQ,
	"<":  ast.LT,
	"<=": ast.LTE,
	">":  ast.GT,
	">=": ast.GTE,
}

// literal converts a parsed value to the Go value bound as a parameter.
// Integers become int64, other numbers float64.
func (v *value) literal() (any, error) {
	switch {
	case v.String != nil:
		s := *v.String
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), nil
	case v.Number != nil:
		if n, err := strconv.ParseInt(*v.Number, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(*v.Number, 64)
		if err != nil {
			return nil, fmt.Errorf("filterexpr: number %s at %s: %w", *v.Number, v.Pos, err)
		}
		return f, nil
	case v.Bool != nil:
		return strings.EqualFold(*v.Bool, "TRUE"), nil
	}
	return nil, fmt.Errorf("%w: NULL is only valid with =, != and IS at %s", ErrUnsupported, v.Pos)
}
