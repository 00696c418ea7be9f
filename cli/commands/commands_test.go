package commands

import (
	"bytes"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/cli/internal/config"
	"github.com/satishbabariya/sqlforge/database"
	_ "github.com/satishbabariya/sqlforge/database/postgres"
	"github.com/satishbabariya/sqlforge/database/sqlite"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// mockBackend is SQLite over go-sqlmock; the configured database name is
// the sqlmock DSN.
type mockBackend struct{ *sqlite.Backend }

func (mockBackend) DriverName() string { return "sqlmock" }

func (mockBackend) DSN(cfg database.Config) (string, error) { return cfg.Database, nil }

func init() {
	database.Register(mockBackend{sqlite.Default}, "mock")
}

const postgresConfig = `
database:
  scheme: postgres
  database: bazaar
tables:
  - name: product
    columns:
      - name: product_id
        primary: true
      - name: name
      - name: price
`

func mockConfig(dsn string) string {
	return "database:\n  scheme: mock\n  database: " + dsn + "\n"
}

// run executes the root command against an in-memory filesystem holding
// the given configuration.
func run(t *testing.T, yaml string, files map[string]string, args ...string) (string, error) {
	t.Helper()

	selectFlags, renderFlags = queryFlags{}, queryFlags{}
	selectDebug, renderDebug, renderPretty = false, false, false
	renderDialect = ""
	execParams, execWatch = nil, false

	prev := config.AppFs
	fs := afero.NewMemMapFs()
	config.AppFs = fs
	t.Cleanup(func() { config.AppFs = prev })

	require.NoError(t, afero.WriteFile(fs, "/etc/sqlforge.yaml", []byte(yaml), 0o644))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", "/etc/sqlforge.yaml"))
	err := rootCmd.Execute()
	return out.String(), err
}

func newMock(t *testing.T, dsn string) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock
}

func expectVersion(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT sqlite_version()").WillReturnRows(
		mock.NewRowsWithColumnDefinition(mock.NewColumn("sqlite_version()").OfType("TEXT", "")).AddRow("3.45.1"),
	)
}

func TestRender_DeclaredTable(t *testing.T) {
	out, err := run(t, postgresConfig, nil,
		"render", "product",
		"--where", "price >= 10 AND name ILIKE '%pro%'",
		"--order", "price DESC",
		"--limit", "5",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT product.product_id, product.name, product.price FROM product WHERE price >= $1 AND name ILIKE $2 ORDER BY price DESC LIMIT 5\n")
	assert.Contains(t, out, "$1")
	assert.Contains(t, out, "%pro%")
}

func TestRender_ColumnsDialectDebug(t *testing.T) {
	out, err := run(t, postgresConfig, nil,
		"render", "product",
		"--columns", "name,price",
		"--where", "price > 10 AND name = 'O''Neil'",
		"--dialect", "mysql",
		"--debug",
	)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, price FROM product WHERE price > 10 AND name = 'O''Neil'\n", out)
}

func TestRender_UndeclaredTable(t *testing.T) {
	out, err := run(t, postgresConfig, nil, "render", "orders", "--offset", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "SELECT * FROM orders OFFSET 20\n")
}

func TestRender_BadFilter(t *testing.T) {
	_, err := run(t, postgresConfig, nil, "render", "product", "--where", "price >=")
	assert.Error(t, err)

	_, err = run(t, postgresConfig, nil, "render", "product", "--dialect", "oracle")
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	mock := newMock(t, "sqlforge_select")
	expectVersion(mock)
	mock.ExpectQuery("SELECT product_id, name FROM product WHERE product_id IN (?, ?) LIMIT 2").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(mock.NewRowsWithColumnDefinition(
			mock.NewColumn("product_id").OfType("INTEGER", int64(0)),
			mock.NewColumn("name").OfType("TEXT", ""),
		).AddRow(int64(1), "GoPro").AddRow(int64(2), "GTX660 Ti"))

	out, err := run(t, mockConfig("sqlforge_select"), nil,
		"select", "product",
		"--columns", "product_id,name",
		"--where", "product_id IN (1, 2)",
		"--limit", "2",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "GoPro")
	assert.Contains(t, out, "GTX660 Ti")
	assert.Contains(t, out, "(2 rows)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_Statement(t *testing.T) {
	mock := newMock(t, "sqlforge_exec")
	expectVersion(mock)
	mock.ExpectExec("UPDATE product SET price = ? WHERE product_id = ?").
		WithArgs(12.5, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	out, err := run(t, mockConfig("sqlforge_exec"), nil,
		"exec", "UPDATE product SET price = ? WHERE product_id = ?",
		"-p", "12.5", "-p", "7",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "1 row(s) affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_File(t *testing.T) {
	mock := newMock(t, "sqlforge_exec_file")
	expectVersion(mock)
	mock.ExpectQuery("SELECT COUNT(*) AS n FROM product").
		WillReturnRows(mock.NewRowsWithColumnDefinition(
			mock.NewColumn("n").OfType("INTEGER", int64(0)),
		).AddRow(int64(3)))

	out, err := run(t, mockConfig("sqlforge_exec_file"),
		map[string]string{"/reports/count.sql": "SELECT COUNT(*) AS n FROM product\n"},
		"exec", "/reports/count.sql",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "(1 rows)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExec_WatchNeedsFile(t *testing.T) {
	_, err := run(t, mockConfig("unused"), nil, "exec", "SELECT 1", "--watch")
	assert.ErrorContains(t, err, "--watch needs a file")
}

func TestVersion_ClientOnly(t *testing.T) {
	out, err := run(t, postgresConfig, nil, "version", "--client")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlforge version")
}

func TestReturnsRows(t *testing.T) {
	tests := map[string]bool{
		"SELECT 1":                              true,
		"  with x as (select 1) select":         true,
		"PRAGMA table_info(product)":            true,
		"INSERT INTO t (a) VALUES (1)":          false,
		"insert into t values (1) returning id": true,
		"DELETE FROM t":                         false,
		"":                                      false,
	}
	for sql, want := range tests {
		assert.Equal(t, want, returnsRows(sql), sql)
	}
}

func TestParseParam(t *testing.T) {
	assert.True(t, types.Int64(7).Equal(parseParam("7")))
	assert.True(t, types.Float64(12.5).Equal(parseParam("12.5")))
	assert.True(t, types.Bool(true).Equal(parseParam("TRUE")))
	assert.True(t, parseParam("null").IsNull())
	assert.True(t, types.Text("GoPro").Equal(parseParam("GoPro")))
}
