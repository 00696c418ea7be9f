package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/mysql"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
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
	dsn, err := mysql.Default.DSN(database.Config{
		Scheme:   "mysql",
		User:     "app",
		Password: "secret",
		Host:     "db",
		Database: "bazaar",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "app:secret@tcp(db:3306)/bazaar?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")

	cfg, err := gomysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "bazaar", cfg.DBName)
	assert.True(t, cfg.ParseTime)
}

func TestKind(t *testing.T) {
	tests := map[string]types.Kind{
		"TINYINT":         types.KindInt8,
		"UNSIGNED BIGINT": types.KindUint64,
		"INT":             types.KindInt32,
		"DECIMAL":         types.KindDecimal,
		"VARCHAR":         types.KindText,
		"BLOB":            types.KindBlob,
		"DATETIME":        types.KindTimestamp,
		"DATE":            types.KindDate,
		"JSON":            types.KindJSON,
	}
	for name, want := range tests {
		assert.Equal(t, want, mysql.Default.Kind(name), name)
	}
}

func TestArg_TimestampUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)

	arg, err := mysql.Default.Arg(types.Timestamp(ts))
	require.NoError(t, err)
	got, ok := arg.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, got.Equal(ts))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		number uint16
		want   error
	}{
		{1062, dberr.ErrUniqueConstraint},
		{1452, dberr.ErrForeignKeyConstraint},
		{1451, dberr.ErrForeignKeyConstraint},
		{1048, dberr.ErrNullConstraint},
		{3819, dberr.ErrCheckConstraint},
	}
	for _, tt := range tests {
		err := mysql.Default.Classify(&gomysql.MySQLError{Number: tt.number, Message: "x"})
		assert.True(t, errors.Is(err, tt.want), "error %d", tt.number)
	}

	err := mysql.Default.Classify(&gomysql.MySQLError{Number: 1146})
	assert.False(t, errors.Is(err, dberr.ErrExecution))
}

func TestAdapter_InsertLastInsertID(t *testing.T) {
	db, mock := newMock(t)
	a := mysql.NewAdapter(db)

	mock.ExpectExec("INSERT INTO bazaar.product (name, price) VALUES (?, ?)").
		WithArgs("GoPro", int64(299)).
		WillReturnResult(sqlmock.NewResult(42, 1))

	row, err := a.Insert(context.Background(), &ast.Query{
		Kind:    ast.Insert,
		From:    []ast.SourceField{ast.Source(ast.Table("bazaar.product"))},
		Columns: ast.Cols("name", "price"),
		Values:  [][]ast.Operand{{ast.Lit("GoPro"), ast.Lit(299)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"rows_affected", "last_insert_id"}, row.Columns())
	assert.Equal(t, int64(1), dao.MustGet[int64](row, "rows_affected"))
	assert.Equal(t, int64(42), dao.MustGet[int64](row, "last_insert_id"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ReturningUnsupported(t *testing.T) {
	db, mock := newMock(t)
	a := mysql.NewAdapter(db)

	_, err := a.Insert(context.Background(), &ast.Query{
		Kind:        ast.Insert,
		From:        []ast.SourceField{ast.Source(ast.Table("bazaar.product"))},
		Assignments: []ast.Assignment{{Column: ast.Col("name"), Value: ast.Lit("GoPro")}},
		ReturnAll:   true,
	})
	assert.True(t, errors.Is(err, dberr.ErrUnsupported))
	assert.False(t, a.Capabilities().Returning)
	assert.True(t, a.Capabilities().LastInsertID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SelectILike(t *testing.T) {
	db, mock := newMock(t)
	a := mysql.NewAdapter(db)

	rows := mock.NewRowsWithColumnDefinition(
		mock.NewColumn("name").OfType("VARCHAR", ""),
		mock.NewColumn("stock").OfType("UNSIGNED INT", uint64(0)),
	).AddRow("GoPro Hero", int64(12))
	mock.ExpectQuery("SELECT name, stock FROM product WHERE LOWER(name) LIKE LOWER(?)").
		WithArgs("gopro%").
		WillReturnRows(rows)

	got, err := a.Select(context.Background(), &ast.Query{
		Kind:    ast.Select,
		Fields:  ast.Fields(ast.Cols("name", "stock")...),
		From:    []ast.SourceField{ast.Source(ast.Table("product"))},
		Filters: []ast.Filter{ast.Col("name").ILike("gopro%")},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	stock, err := dao.Get[uint32](got[0], "stock")
	require.NoError(t, err)
	assert.Equal(t, uint32(12), stock)
}
