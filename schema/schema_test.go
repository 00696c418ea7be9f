package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/query/builder"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
	"github.com/satishbabariya/sqlforge/schema"
)

func productTable() schema.Table {
	return schema.Table{
		Name:   "product",
		Schema: "bazaar",
		Columns: []schema.Column{
			{Name: "product_id", Type: "bigserial", Primary: true, AutoIncrement: true},
			{Name: "name", Type: "varchar(255)", Unique: true},
			{Name: "price", Type: "numeric(10,2)", Nullable: true},
			{Name: "category_id", Type: "int"},
		},
		ForeignKeys: []schema.ForeignKey{{
			Name:              "product_category_fk",
			Columns:           []string{"category_id"},
			ReferencedTable:   "bazaar.category",
			ReferencedColumns: []string{"category_id"},
		}},
	}
}

func TestTable_Conversions(t *testing.T) {
	tbl := productTable()
	require.NoError(t, tbl.Validate())

	tn := tbl.TableName()
	assert.Equal(t, "bazaar.product", tn.Complete())
	require.Len(t, tn.Columns, 4)
	assert.Equal(t, "bazaar.product.price", tn.Columns[2].Complete())

	assert.Equal(t, "bazaar.product.name", tbl.ColumnName("name").Complete())
	assert.Panics(t, func() { tbl.ColumnName("nope") })

	pk := tbl.PrimaryKey()
	require.Len(t, pk, 1)
	assert.Equal(t, "product_id", pk[0].Name)
	assert.Len(t, tbl.Insertable(), 3)

	fk, ok := tbl.Reference("category_id")
	require.True(t, ok)
	assert.Equal(t, "bazaar.category", fk.ReferencedTable)
}

func TestColumn_Kind(t *testing.T) {
	tbl := productTable()
	c, _ := tbl.Column("price")
	assert.Equal(t, types.KindDecimal, c.Kind())
	c, _ = tbl.Column("name")
	assert.Equal(t, types.KindText, c.Kind())
	c, _ = tbl.Column("product_id")
	assert.Equal(t, types.KindInt64, c.Kind())
}

func TestTable_Validate(t *testing.T) {
	dup := productTable()
	dup.Columns = append(dup.Columns, schema.Column{Name: "name"})
	assert.Error(t, dup.Validate())

	badFK := productTable()
	badFK.ForeignKeys[0].Columns = []string{"missing"}
	assert.Error(t, badFK.Validate())

	assert.Error(t, (&schema.Table{}).Validate())
}

func TestTable_Inherit(t *testing.T) {
	parent := productTable()
	child := schema.Table{Name: "digital_product", Schema: "bazaar"}
	parent.Inherit(&child)

	require.NotNil(t, child.Parent)
	assert.Equal(t, "bazaar.product", child.Parent.Complete())
	require.Len(t, parent.SubTables, 1)
	assert.Equal(t, "digital_product", parent.SubTables[0].Name)
}

func TestRegistry(t *testing.T) {
	r, err := schema.NewRegistry(productTable())
	require.NoError(t, err)

	_, ok := r.Lookup("bazaar.product")
	assert.True(t, ok)
	_, ok = r.Lookup("product")
	assert.True(t, ok)
	_, ok = r.Lookup("category")
	assert.False(t, ok)

	assert.Error(t, r.Add(productTable()))
	assert.Len(t, r.Tables(), 1)
}

func TestTable_WithBuilder(t *testing.T) {
	tbl := productTable()
	sql, _, err := builder.SelectAllColumns().From(&tbl).Build(sqlgen.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT bazaar.product.product_id, bazaar.product.name, bazaar.product.price, bazaar.product.category_id FROM bazaar.product", sql)
}
