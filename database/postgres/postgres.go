// Package postgres implements the PostgreSQL backend on top of lib/pq, or
// pgx through its database/sql driver.
package postgres

import (
	"errors"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/lib/pq"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// DefaultPort is the PostgreSQL server port.
const DefaultPort = 5432

// Backend talks to PostgreSQL through a database/sql driver.
type Backend struct {
	driver string
}

var (
	// PQ uses github.com/lib/pq.
	PQ = &Backend{driver: "postgres"}
	// PGX uses github.com/jackc/pgx/v5/stdlib.
	PGX = &Backend{driver: "pgx"}
)

func init() {
	database.Register(PQ, "postgres", "postgresql")
	database.Register(PGX, "pgx")
}

// NewAdapter returns an adapter for a lib/pq connection.
func NewAdapter(conn database.Querier, opts ...database.Option) *database.Adapter {
	return database.NewAdapter(conn, PQ, opts...)
}

func (b *Backend) Name() string { return "postgres" }

func (b *Backend) DriverName() string { return b.driver }

func (b *Backend) VersionQuery() string { return "SHOW server_version" }

// LastInsertID is false: PostgreSQL drivers report ids through RETURNING.
func (b *Backend) LastInsertID() bool { return false }

// Dialect is the same for every server version.
func (b *Backend) Dialect(string) sqlgen.Dialect { return sqlgen.Postgres }

// DSN builds a postgres:// URL understood by both drivers.
func (b *Backend) DSN(cfg database.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   cfg.Address(DefaultPort),
		Path:   "/" + cfg.Database,
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	if len(cfg.Params) > 0 {
		q := url.Values{}
		for k, v := range cfg.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Kind maps PostgreSQL type names as reported by pq and pgx.
func (b *Backend) Kind(databaseType string) types.Kind {
	switch strings.ToUpper(databaseType) {
	case "BOOL":
		return types.KindBool
	case "INT2":
		return types.KindInt16
	case "INT4":
		return types.KindInt32
	case "INT8", "OID":
		return types.KindInt64
	case "FLOAT4":
		return types.KindFloat32
	case "FLOAT8":
		return types.KindFloat64
	case "NUMERIC", "MONEY":
		return types.KindDecimal
	case "TEXT", "VARCHAR", "BPCHAR", "CHAR", "NAME", "CITEXT":
		return types.KindText
	case "BYTEA":
		return types.KindBlob
	case "UUID":
		return types.KindUUID
	case "DATE":
		return types.KindDate
	case "TIME":
		return types.KindTime
	case "TIMESTAMP", "TIMESTAMPTZ":
		return types.KindTimestamp
	case "JSON", "JSONB":
		return types.KindJSON
	}
	return types.KindNull
}

// Arg passes values through their driver.Valuer form.
func (b *Backend) Arg(v types.Value) (any, error) {
	return v.Value()
}

// Classify recognizes *pq.Error and *pgconn.PgError constraint codes.
func (b *Backend) Classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if sentinel := database.ConstraintForSQLState(string(pqErr.Code)); sentinel != nil {
			return database.Wrap(sentinel, err)
		}
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel := database.ConstraintForSQLState(pgErr.Code); sentinel != nil {
			return database.Wrap(sentinel, err)
		}
		return err
	}
	return database.ClassifyGeneric(err)
}

var _ database.Backend = (*Backend)(nil)
