// Package mysql implements the MySQL backend on top of go-sql-driver/mysql.
package mysql

import (
	"errors"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// DefaultPort is the MySQL server port.
const DefaultPort = 3306

// MySQL error numbers for constraint violations.
const (
	errDuplicateEntry   = 1062
	errBadNull          = 1048
	errRowIsReferenced  = 1451
	errNoReferencedRow  = 1452
	errCheckConstraint  = 3819
	errRowIsReferenced2 = 1217
	errNoReferencedRow2 = 1216
)

// Backend talks to MySQL and MariaDB.
type Backend struct{}

// Default is the registered MySQL backend.
var Default = &Backend{}

func init() {
	database.Register(Default, "mysql", "mariadb")
}

// NewAdapter returns an adapter for a MySQL connection.
func NewAdapter(conn database.Querier, opts ...database.Option) *database.Adapter {
	return database.NewAdapter(conn, Default, opts...)
}

func (*Backend) Name() string { return "mysql" }

func (*Backend) DriverName() string { return "mysql" }

func (*Backend) VersionQuery() string { return "SELECT VERSION()" }

func (*Backend) LastInsertID() bool { return true }

func (*Backend) Dialect(string) sqlgen.Dialect { return sqlgen.MySQL }

// DSN formats a go-sql-driver DSN. Time values are parsed into time.Time.
func (*Backend) DSN(cfg database.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	c := gomysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = cfg.Address(DefaultPort)
	c.DBName = cfg.Database
	c.ParseTime = true
	if len(cfg.Params) > 0 {
		c.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			c.Params[k] = v
		}
	}
	return c.FormatDSN(), nil
}

// Kind maps the type names reported by go-sql-driver/mysql.
func (*Backend) Kind(databaseType string) types.Kind {
	switch strings.ToUpper(databaseType) {
	case "TINYINT":
		return types.KindInt8
	case "UNSIGNED TINYINT":
		return types.KindUint8
	case "SMALLINT", "YEAR":
		return types.KindInt16
	case "UNSIGNED SMALLINT":
		return types.KindUint16
	case "MEDIUMINT", "INT":
		return types.KindInt32
	case "UNSIGNED MEDIUMINT", "UNSIGNED INT":
		return types.KindUint32
	case "BIGINT":
		return types.KindInt64
	case "UNSIGNED BIGINT":
		return types.KindUint64
	case "FLOAT":
		return types.KindFloat32
	case "DOUBLE":
		return types.KindFloat64
	case "DECIMAL":
		return types.KindDecimal
	case "CHAR", "VARCHAR", "TEXT", "TINYTEXT", "MEDIUMTEXT", "LONGTEXT", "ENUM", "SET":
		return types.KindText
	case "BINARY", "VARBINARY", "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BIT", "GEOMETRY":
		return types.KindBlob
	case "DATE":
		return types.KindDate
	case "TIME":
		return types.KindTime
	case "DATETIME", "TIMESTAMP":
		return types.KindTimestamp
	case "JSON":
		return types.KindJSON
	}
	return types.KindNull
}

// Arg converts a parameter. Timestamps are sent in UTC since DATETIME has no
// zone.
func (*Backend) Arg(v types.Value) (any, error) {
	if v.Kind() == types.KindTimestamp {
		t, err := types.From[time.Time](v)
		if err != nil {
			return nil, err
		}
		return t.UTC(), nil
	}
	return v.Value()
}

// Classify recognizes *mysql.MySQLError constraint numbers.
func (*Backend) Classify(err error) error {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			return database.Wrap(dberr.ErrUniqueConstraint, err)
		case errRowIsReferenced, errNoReferencedRow, errRowIsReferenced2, errNoReferencedRow2:
			return database.Wrap(dberr.ErrForeignKeyConstraint, err)
		case errBadNull:
			return database.Wrap(dberr.ErrNullConstraint, err)
		case errCheckConstraint:
			return database.Wrap(dberr.ErrCheckConstraint, err)
		}
		return err
	}
	return database.ClassifyGeneric(err)
}

var _ database.Backend = (*Backend)(nil)
