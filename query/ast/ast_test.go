package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

func TestParseColumnName(t *testing.T) {
	tests := []struct {
		in   string
		want ast.ColumnName
	}{
		{"name", ast.ColumnName{Name: "name"}},
		{"product.name", ast.ColumnName{Table: "product", Name: "name"}},
		{"bazaar.product.name", ast.ColumnName{Schema: "bazaar", Table: "product", Name: "name"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ast.ParseColumnName(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.Complete())
		})
	}
}

func TestColumnName_ConflictsWith(t *testing.T) {
	a := ast.Col("bazaar.product.name")
	b := ast.Col("bazaar.category.name")
	c := ast.Col("bazaar.category.category_id")

	assert.True(t, a.ConflictsWith(b))
	assert.False(t, a.ConflictsWith(c))
}

func TestTableName(t *testing.T) {
	product := ast.Table("bazaar.product").WithColumns("product_id", "name")

	assert.Equal(t, "bazaar", product.Schema)
	assert.Equal(t, "product", product.Name)
	assert.Equal(t, "bazaar.product", product.Complete())
	assert.True(t, product.Equal(ast.Table("bazaar.product")))
	assert.False(t, product.Equal(ast.Table("public.product")))
	require.Len(t, product.Columns, 2)
	assert.Equal(t, "bazaar.product.name", product.Columns[1].Complete())
	assert.Equal(t, ast.Table("users"), ast.TableName{Name: "users"})
}

func TestFilter_AndOr(t *testing.T) {
	base := ast.Col("name").EQ("GoPro")
	combined := base.And(ast.Col("active").EQ(true)).Or(ast.Col("price").LT(10))

	assert.Empty(t, base.SubFilters, "And/Or must not mutate the receiver")
	require.Len(t, combined.SubFilters, 2)
	assert.Equal(t, ast.AND, combined.SubFilters[0].Connector)
	assert.Equal(t, ast.OR, combined.SubFilters[1].Connector)

	lit, ok := combined.Condition.Right.(ast.Literal)
	require.True(t, ok)
	assert.True(t, types.Text("GoPro").Equal(lit.Value))
}

func TestFilter_OperandPassthrough(t *testing.T) {
	f := ast.Col("product_category.product_id").EQ(ast.Col("product.product_id"))
	right, ok := f.Condition.Right.(ast.ColumnName)
	require.True(t, ok)
	assert.Equal(t, "product.product_id", right.Complete())

	f = ast.Col("deleted").IsNull()
	assert.Nil(t, f.Condition.Right)

	f = ast.Col("id").In(1, 2, 3)
	list, ok := f.Condition.Right.(ast.List)
	require.True(t, ok)
	assert.Len(t, list, 3)

	f = ast.Col("id").In([]int64{4, 5, 6})
	list, ok = f.Condition.Right.(ast.List)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.True(t, types.Int64(6).Equal(list[2].(ast.Literal).Value))

	f = ast.Col("checksum").In([]byte{1, 2})
	list, ok = f.Condition.Right.(ast.List)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, types.KindBlob, list[0].(ast.Literal).Value.Kind())

	sub := ast.Sub(&ast.Query{Kind: ast.Select})
	f = ast.Col("id").In(sub)
	assert.Same(t, sub, f.Condition.Right)
}

func TestFilter_Clone(t *testing.T) {
	f := ast.Col("a").EQ(1).And(ast.Col("b").In(1, 2))
	c := f.Clone()
	c.SubFilters[0].Condition.Right.(ast.List)[0] = ast.Lit(99)

	orig := f.SubFilters[0].Condition.Right.(ast.List)[0].(ast.Literal)
	assert.True(t, types.Int64(1).Equal(orig.Value))
}

func TestJoin_Constructors(t *testing.T) {
	on := ast.Col("product_category.product_id").EQ(ast.Col("product.product_id"))
	base := ast.NewJoin(ast.Table("bazaar.product_category"), on)

	left := base.Left()
	assert.Equal(t, ast.NoModifier, base.Modifier)
	assert.Equal(t, ast.LeftModifier, left.Modifier)

	inner := ast.InnerJoin(ast.Table("bazaar.category"), on)
	assert.Equal(t, ast.InnerJoinType, inner.Type)

	cross := ast.CrossJoin(ast.Table("bazaar.users"))
	assert.Nil(t, cross.On)

	aliased := left.As("pc")
	assert.Equal(t, "pc", aliased.Alias)
	assert.Empty(t, left.Alias)
}

func TestResolveFieldNames(t *testing.T) {
	fields := ast.Fields(
		ast.Col("bazaar.product.name"),
		ast.Col("bazaar.category.name"),
		ast.Col("bazaar.product.price"),
	)

	got := ast.ResolveFieldNames(fields)
	assert.Equal(t, "bazaar.product.name", got[0].Name)
	assert.Equal(t, "bazaar.category.name", got[1].Name)
	assert.Empty(t, got[2].Name)
	assert.Empty(t, fields[0].Name, "input must be left untouched")

	star := ast.ResolveFieldNames([]ast.Field{ast.F(ast.Star{})})
	assert.Empty(t, star[0].Name)

	dup := ast.ResolveFieldNames(ast.Fields(ast.Col("name"), ast.Col("name")))
	assert.Empty(t, dup[0].Name)
}

func TestSourceField_Columns(t *testing.T) {
	product := ast.Table("bazaar.product").WithColumns("product_id", "name")

	assert.Equal(t, product.Columns, ast.Source(product).Columns())

	renamed := product.As("b_prod").Columns()
	require.Len(t, renamed, 2)
	assert.Equal(t, "b_prod.name", renamed[1].Complete())
}

func TestQuery_Clone(t *testing.T) {
	limit := int64(10)
	q := &ast.Query{
		Kind:    ast.Select,
		Fields:  ast.Fields(ast.Col("name")),
		From:    []ast.SourceField{ast.Source(ast.Table("bazaar.product"))},
		Filters: []ast.Filter{ast.Col("name").EQ("x")},
		Limit:   &limit,
	}

	c := q.Clone()
	require.Equal(t, q, c)

	*c.Limit = 20
	c.Fields[0].Name = "renamed"
	c.Filters[0] = ast.Col("other").EQ("y")

	assert.Equal(t, int64(10), *q.Limit)
	assert.Empty(t, q.Fields[0].Name)
	assert.Equal(t, "name", q.Filters[0].Condition.Left.(ast.ColumnName).Name)

	target, ok := q.Target()
	require.True(t, ok)
	assert.Equal(t, "product", target.Name)
}

func TestTypedColumn(t *testing.T) {
	product := ast.Table("bazaar.product")
	name := ast.TypedColumn[string](product, "name")
	active := ast.NewColumn[bool]("bazaar.product.active")

	f := name.EQ("GoPro")
	assert.Equal(t, "bazaar.product.name", f.Condition.Left.(ast.ColumnName).Complete())

	row := dao.New()
	name.Set(row, "GoPro")
	active.Set(row, true)

	got, err := name.Get(row)
	require.NoError(t, err)
	assert.Equal(t, "GoPro", got)

	ok, err := active.GetOpt(row)
	require.NoError(t, err)
	assert.True(t, *ok)

	in := name.In("a", "b")
	assert.Len(t, in.Condition.Right.(ast.List), 2)
}
