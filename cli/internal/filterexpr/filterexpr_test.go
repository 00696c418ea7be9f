package filterexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

func render(t *testing.T, filters []ast.Filter) (string, []types.Value) {
	t.Helper()
	q := &ast.Query{
		Kind:    ast.Select,
		From:    []ast.SourceField{ast.Source(ast.Table("t"))},
		Filters: filters,
	}
	sql, params, err := sqlgen.Build(q, sqlgen.Postgres)
	require.NoError(t, err)
	return sql, params
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		params []types.Value
	}{
		{
			name:   "comparison",
			input:  "price >= 10",
			want:   "price >= $1",
			params: types.Values(int64(10)),
		},
		{
			name:   "top level and",
			input:  "price > 9.5 and name = 'O''Neil'",
			want:   "price > $1 AND name = $2",
			params: types.Values(9.5, "O'Neil"),
		},
		{
			name:   "or",
			input:  "a = 1 OR b = 2 AND c = 3",
			want:   "(a = $1 OR (b = $2 AND c = $3))",
			params: types.Values(int64(1), int64(2), int64(3)),
		},
		{
			name:   "group",
			input:  "(a = 1 OR b = 2) AND c <> 'x'",
			want:   "(a = $1 OR b = $2) AND c != $3",
			params: types.Values(int64(1), int64(2), "x"),
		},
		{
			name:   "nested group reordered",
			input:  "x = 1 OR ((a = 1 OR b = 2) AND c = 3)",
			want:   "(x = $1 OR (c = $2 AND (a = $3 OR b = $4)))",
			params: types.Values(int64(1), int64(3), int64(1), int64(2)),
		},
		{
			name:  "null tests",
			input: "deleted_at IS NULL AND owner IS NOT NULL AND parent = NULL",
			want:  "deleted_at IS NULL AND owner IS NOT NULL AND parent IS NULL",
		},
		{
			name:   "in lists",
			input:  "id IN (1, 2) AND state NOT IN ('gone')",
			want:   "id IN ($1, $2) AND state NOT IN ($3)",
			params: types.Values(int64(1), int64(2), "gone"),
		},
		{
			name:   "like",
			input:  "name ILIKE '%pro%' OR name LIKE 'Go%'",
			want:   "(name ILIKE $1 OR name LIKE $2)",
			params: types.Values("%pro%", "Go%"),
		},
		{
			name:   "qualified column and bool",
			input:  "product.active = TRUE",
			want:   "product.active = $1",
			params: types.Values(true),
		},
		{
			name:   "ordering words as columns",
			input:  "last = 'x' AND first IS NULL AND desc > 1",
			want:   `last = $1 AND first IS NULL AND "desc" > $2`,
			params: types.Values("x", int64(1)),
		},
		{
			name:   "quoted identifiers",
			input:  `"order" = 1 AND t."null" IS NOT NULL`,
			want:   `"order" = $1 AND t."null" IS NOT NULL`,
			params: types.Values(int64(1)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters, err := Parse(tt.input)
			require.NoError(t, err)
			sql, params := render(t, filters)
			assert.Equal(t, "SELECT * FROM t WHERE "+tt.want, sql)
			require.Len(t, params, len(tt.params))
			for i := range params {
				assert.True(t, tt.params[i].Equal(params[i]), "param %d: want %s got %s", i, tt.params[i], params[i])
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	fs, err := Parse("   ")
	require.NoError(t, err)
	assert.Empty(t, fs)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		unsupported bool
	}{
		{"dangling operator", "price >=", false},
		{"unbalanced", "(a = 1", false},
		{"empty in", "id IN ()", false},
		{"null ordering", "a < NULL", true},
		{"null in list", "a IN (NULL)", true},
		{"and of or groups", "x = 1 OR ((a = 1 OR b = 2) AND (c = 3 OR d = 4))", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupported))
		})
	}
}

func TestParseOrder(t *testing.T) {
	orders, err := ParseOrder("price desc nulls last, name, t.id ASC")
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, ast.Col("price"), orders[0].Operand)
	assert.Equal(t, ast.Desc, orders[0].Direction)
	assert.Equal(t, ast.NullsLast, orders[0].Nulls)

	assert.Equal(t, ast.NoDirection, orders[1].Direction)
	assert.Equal(t, ast.Col("t.id"), orders[2].Operand)
	assert.Equal(t, ast.Asc, orders[2].Direction)

	_, err = ParseOrder("price sideways")
	assert.Error(t, err)

	_, err = ParseOrder("price desc nulls")
	assert.Error(t, err)
}

func TestParseOrder_OrderingWordsAsColumns(t *testing.T) {
	orders, err := ParseOrder(`last DESC, first, asc nulls first, "nulls"`)
	require.NoError(t, err)
	require.Len(t, orders, 4)

	assert.Equal(t, ast.Col("last"), orders[0].Operand)
	assert.Equal(t, ast.Desc, orders[0].Direction)
	assert.Equal(t, ast.Col("first"), orders[1].Operand)
	assert.Equal(t, ast.NoDirection, orders[1].Direction)
	assert.Equal(t, ast.Col("asc"), orders[2].Operand)
	assert.Equal(t, ast.NoDirection, orders[2].Direction)
	assert.Equal(t, ast.NullsFirst, orders[2].Nulls)
	assert.Equal(t, ast.Col("nulls"), orders[3].Operand)
}
