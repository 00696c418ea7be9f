package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/sqlite"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestDSN(t *testing.T) {
	dsn, err := sqlite.Default.DSN(database.Config{Scheme: "sqlite", Database: "data/app.db"})
	require.NoError(t, err)
	assert.Equal(t, "data/app.db?_foreign_keys=on", dsn)

	dsn, err = sqlite.Default.DSN(database.Config{
		Scheme:   "sqlite",
		Database: ":memory:",
		Params:   map[string]string{"_foreign_keys": "off", "cache": "shared"},
	})
	require.NoError(t, err)
	assert.Equal(t, ":memory:?_foreign_keys=off&cache=shared", dsn)
}

func TestDialect_FeaturesByVersion(t *testing.T) {
	tests := []struct {
		version                         string
		returning, nullsOrder, fullJoin bool
	}{
		{"", true, true, true},
		{"garbage", true, true, true},
		{"3.45.1", true, true, true},
		{"3.39.0", true, true, true},
		{"3.38.5", true, true, false},
		{"3.35.0", true, true, false},
		{"3.34.1", false, true, false},
		{"3.30.0", false, true, false},
		{"3.29.0", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d := sqlite.Default.Dialect(tt.version)
			assert.Equal(t, tt.returning, d.Supports(sqlgen.Returning))
			assert.Equal(t, tt.nullsOrder, d.Supports(sqlgen.NullsOrder))
			assert.Equal(t, tt.fullJoin, d.Supports(sqlgen.FullJoin))
			assert.False(t, d.Supports(sqlgen.ILike))
		})
	}
}

func TestDialect_OldServerRejectsNewSyntax(t *testing.T) {
	d := sqlite.Default.Dialect("3.29.0")

	q := &ast.Query{
		Kind:    ast.Select,
		From:    []ast.SourceField{ast.Source(ast.Table("product"))},
		OrderBy: []ast.Order{ast.Col("price").Desc().NullsLast()},
	}
	_, _, err := sqlgen.Build(q, d)
	assert.True(t, errors.Is(err, dberr.ErrUnsupported))

	q.OrderBy = nil
	q.Joins = []ast.Join{ast.FullJoin(ast.Table("category"), ast.Col("category.id").EQ(ast.Col("product.category_id")))}
	_, _, err = sqlgen.Build(q, d)
	assert.True(t, errors.Is(err, dberr.ErrUnsupported))

	_, _, err = sqlgen.Build(q, sqlgen.SQLite)
	assert.NoError(t, err)
}

func TestKind(t *testing.T) {
	tests := map[string]types.Kind{
		"INTEGER":      types.KindInt64,
		"BIGINT":       types.KindInt64,
		"BOOLEAN":      types.KindBool,
		"VARCHAR(255)": types.KindText,
		"BLOB":         types.KindBlob,
		"REAL":         types.KindFloat64,
		"DATETIME":     types.KindTimestamp,
		"DATE":         types.KindDate,
		"TIME":         types.KindTime,
		"NUMERIC":      types.KindDecimal,
		"":             types.KindNull,
	}
	for name, want := range tests {
		assert.Equal(t, want, sqlite.Default.Kind(name), name)
	}
}

func TestArg_Date(t *testing.T) {
	arg, err := sqlite.Default.Arg(types.DateValue(types.Date{Year: 2024, Month: time.March, Day: 9}))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09", arg)

	arg, err = sqlite.Default.Arg(types.Int32(5))
	require.NoError(t, err)
	assert.Equal(t, int64(5), arg)
}

func TestClassify(t *testing.T) {
	err := sqlite.Default.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique})
	assert.True(t, errors.Is(err, dberr.ErrUniqueConstraint))

	err = sqlite.Default.Classify(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey})
	assert.True(t, errors.Is(err, dberr.ErrForeignKeyConstraint))

	err = sqlite.Default.Classify(errors.New("NOT NULL constraint failed: product.name"))
	assert.True(t, errors.Is(err, dberr.ErrNullConstraint))
}

func TestAdapter_SelectInferred(t *testing.T) {
	db, mock := newMock(t)
	a := sqlite.NewAdapter(db)

	rows := mock.NewRowsWithColumnDefinition(
		mock.NewColumn("category").OfType("TEXT", ""),
		mock.NewColumn("total").OfType("", int64(0)),
	).AddRow([]byte("Electronic"), int64(3))
	mock.ExpectQuery("SELECT category, COUNT(*) AS total FROM items GROUP BY category LIMIT 10").
		WillReturnRows(rows)

	got, err := a.Select(context.Background(), &ast.Query{
		Kind:    ast.Select,
		Fields:  []ast.Field{ast.F(ast.Col("category")), ast.CountAll().As("total")},
		From:    []ast.SourceField{ast.Source(ast.Table("items"))},
		GroupBy: []ast.Operand{ast.Col("category")},
		Limit:   func() *int64 { n := int64(10); return &n }(),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), dao.MustGet[int64](got[0], "total"))
	assert.Equal(t, "Electronic", dao.MustGet[string](got[0], "category"))
}

func TestAdapter_UpdateReturning(t *testing.T) {
	db, mock := newMock(t)
	a := sqlite.NewAdapter(db)

	rows := mock.NewRowsWithColumnDefinition(
		mock.NewColumn("product_id").OfType("INTEGER", int64(0)),
	).AddRow(int64(1)).AddRow(int64(2))
	mock.ExpectQuery("UPDATE product SET active = ? WHERE price < ? RETURNING product_id").
		WithArgs(false, int64(10)).
		WillReturnRows(rows)

	got, n, err := a.Update(context.Background(), &ast.Query{
		Kind:        ast.Update,
		From:        []ast.SourceField{ast.Source(ast.Table("product"))},
		Assignments: []ast.Assignment{{Column: ast.Col("active"), Value: ast.Lit(false)}},
		Filters:     []ast.Filter{ast.Col("price").LT(10)},
		Returning:   ast.Cols("product_id"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), dao.MustGet[int64](got[1], "product_id"))
}

func TestAdapter_VersionGatesDialect(t *testing.T) {
	db, _ := newMock(t)
	a := sqlite.NewAdapter(db, database.WithDialect(sqlite.Default.Dialect("3.31.1")))
	assert.False(t, a.Capabilities().Returning)
}
