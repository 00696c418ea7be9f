// Package database defines the backend contract used to execute rendered
// statements, plus the shared adapter every backend package builds on.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Database is the uniform execution contract implemented for every backend.
type Database interface {
	// Dialect returns the dialect statements must be rendered with.
	Dialect() sqlgen.Dialect

	// ExecuteWithReturn runs a statement that produces rows.
	ExecuteWithReturn(ctx context.Context, sql string, params []types.Value) ([]*dao.Dao, error)

	// Execute runs a statement and returns the number of affected rows.
	Execute(ctx context.Context, sql string, params []types.Value) (int64, error)

	// Select renders and runs a SELECT.
	Select(ctx context.Context, q *ast.Query) ([]*dao.Dao, error)

	// Insert renders and runs an INSERT. With RETURNING the first returned
	// row is the result; otherwise the row holds rows_affected and, where the
	// backend reports it, last_insert_id.
	Insert(ctx context.Context, q *ast.Query) (*dao.Dao, error)

	// Update renders and runs an UPDATE, returning the RETURNING rows if any
	// and the number of affected rows.
	Update(ctx context.Context, q *ast.Query) ([]*dao.Dao, int64, error)

	// Delete renders and runs a DELETE and returns the number of affected rows.
	Delete(ctx context.Context, q *ast.Query) (int64, error)

	// Version returns the server version string.
	Version(ctx context.Context) (string, error)

	// Begin starts a transaction on the underlying connection.
	Begin(ctx context.Context) error

	// Commit commits the open transaction.
	Commit() error

	// Rollback rolls back the open transaction.
	Rollback() error

	// Capabilities reports the optional features of the backend.
	Capabilities() Capabilities
}

// Capabilities lists optional backend features.
type Capabilities struct {
	Returning    bool
	ILike        bool
	NullsOrder   bool
	FullJoin     bool
	LastInsertID bool
}

// CapabilitiesOf derives the capabilities of b when rendering with d.
func CapabilitiesOf(b Backend, d sqlgen.Dialect) Capabilities {
	return Capabilities{
		Returning:    d.Supports(sqlgen.Returning),
		ILike:        d.Supports(sqlgen.ILike),
		NullsOrder:   d.Supports(sqlgen.NullsOrder),
		FullJoin:     d.Supports(sqlgen.FullJoin),
		LastInsertID: b.LastInsertID(),
	}
}

// Config is a structured connection configuration.
type Config struct {
	Scheme   string            `mapstructure:"scheme" yaml:"scheme"`
	User     string            `mapstructure:"user" yaml:"user"`
	Password string            `mapstructure:"password" yaml:"password"`
	Host     string            `mapstructure:"host" yaml:"host"`
	Port     int               `mapstructure:"port" yaml:"port"`
	Database string            `mapstructure:"database" yaml:"database"`
	Params   map[string]string `mapstructure:"params" yaml:"params"`
}

// Address returns host:port, falling back to def when Port is unset.
func (c Config) Address(def int) string {
	port := c.Port
	if port == 0 {
		port = def
	}
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Validate checks the fields every backend requires.
func (c Config) Validate() error {
	if c.Scheme == "" {
		return fmt.Errorf("database: scheme is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database: database name is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("database: invalid port %d", c.Port)
	}
	return nil
}

// String returns the configuration with the password masked.
func (c Config) String() string {
	user := c.User
	if c.Password != "" {
		user += ":****"
	}
	if user != "" {
		user += "@"
	}
	host := c.Host
	if c.Port != 0 {
		host = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	}
	return fmt.Sprintf("%s://%s%s/%s", c.Scheme, user, host, c.Database)
}

// Querier is satisfied by *sql.DB and *sql.Conn.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Backend is the product specific part of an adapter.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// DriverName is the database/sql driver to open.
	DriverName() string
	// DSN builds the driver connection string.
	DSN(cfg Config) (string, error)
	// VersionQuery returns the server version as a single text column.
	VersionQuery() string
	// Dialect returns the dialect for a server version; "" means unknown.
	Dialect(serverVersion string) sqlgen.Dialect
	// Kind maps a column's database type name to a value tag, or
	// types.KindNull when the type is unknown.
	Kind(databaseType string) types.Kind
	// Arg converts a parameter into a native driver argument.
	Arg(v types.Value) (any, error)
	// Classify wraps err with the matching constraint sentinel.
	Classify(err error) error
	// LastInsertID reports whether sql.Result.LastInsertId is supported.
	LastInsertID() bool
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

// Register makes a backend available under one or more URL schemes.
func Register(b Backend, schemes ...string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, s := range schemes {
		registry[strings.ToLower(s)] = b
	}
}

// Lookup returns the backend registered for scheme.
func Lookup(scheme string) (Backend, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	b, ok := registry[strings.ToLower(scheme)]
	if !ok {
		return nil, dberr.Unsupported(scheme, "backend")
	}
	return b, nil
}

// Schemes lists the registered schemes.
func Schemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
