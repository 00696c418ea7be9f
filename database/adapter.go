package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/internal/debug"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// DefaultSlowThreshold is the duration above which a statement is logged as
// slow.
const DefaultSlowThreshold = 100 * time.Millisecond

// Adapter implements Database for one connection. It is not safe for
// concurrent use: a connection runs one statement at a time.
type Adapter struct {
	conn    Querier
	tx      *sql.Tx
	backend Backend
	dialect sqlgen.Dialect
	stats   *QueryStats
	slow    time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithDialect overrides the dialect derived from the backend.
func WithDialect(d sqlgen.Dialect) Option {
	return func(a *Adapter) { a.dialect = d }
}

// WithStats records statement counters into s.
func WithStats(s *QueryStats) Option {
	return func(a *Adapter) { a.stats = s }
}

// WithSlowThreshold sets the slow statement threshold. Zero disables it.
func WithSlowThreshold(d time.Duration) Option {
	return func(a *Adapter) { a.slow = d }
}

// NewAdapter returns an adapter running statements on conn.
func NewAdapter(conn Querier, b Backend, opts ...Option) *Adapter {
	a := &Adapter{
		conn:    conn,
		backend: b,
		dialect: b.Dialect(""),
		stats:   &QueryStats{},
		slow:    DefaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ Database = (*Adapter)(nil)

// Dialect returns the dialect statements are rendered with.
func (a *Adapter) Dialect() sqlgen.Dialect { return a.dialect }

// Backend returns the backend of the adapter.
func (a *Adapter) Backend() Backend { return a.backend }

// Stats returns the statement counters.
func (a *Adapter) Stats() *QueryStats { return a.stats }

// Capabilities reports the optional features of the backend.
func (a *Adapter) Capabilities() Capabilities { return CapabilitiesOf(a.backend, a.dialect) }

// InTx reports whether a transaction is open.
func (a *Adapter) InTx() bool { return a.tx != nil }

type runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (a *Adapter) runner() runner {
	if a.tx != nil {
		return a.tx
	}
	return a.conn
}

func (a *Adapter) args(params []types.Value) ([]any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		arg, err := a.backend.Arg(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i+1, err)
		}
		args[i] = arg
	}
	return args, nil
}

// ExecuteWithReturn runs a statement that produces rows and returns them as
// Daos in result order.
func (a *Adapter) ExecuteWithReturn(ctx context.Context, query string, params []types.Value) ([]*dao.Dao, error) {
	args, err := a.args(params)
	if err != nil {
		return nil, dberr.Execution("query", query, err)
	}

	start := time.Now()
	rows, err := a.runner().QueryContext(ctx, query, args...)
	if err != nil {
		a.observe(false, query, len(args), start, err)
		return nil, a.wrap("query", query, err)
	}
	defer rows.Close()

	out, err := ScanRows(rows, a.backend.Kind)
	a.observe(false, query, len(args), start, err)
	if err != nil {
		return nil, a.wrap("scan", query, err)
	}
	return out, nil
}

// Execute runs a statement and returns the number of affected rows.
func (a *Adapter) Execute(ctx context.Context, query string, params []types.Value) (int64, error) {
	res, err := a.exec(ctx, query, params)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dberr.Execution("rows affected", query, err)
	}
	return n, nil
}

func (a *Adapter) exec(ctx context.Context, query string, params []types.Value) (sql.Result, error) {
	args, err := a.args(params)
	if err != nil {
		return nil, dberr.Execution("exec", query, err)
	}

	start := time.Now()
	res, err := a.runner().ExecContext(ctx, query, args...)
	a.observe(true, query, len(args), start, err)
	if err != nil {
		return nil, a.wrap("exec", query, err)
	}
	return res, nil
}

func (a *Adapter) render(q *ast.Query, kind ast.Kind) (string, []types.Value, error) {
	if q == nil {
		return "", nil, dberr.Build("nil query")
	}
	if q.Kind != kind {
		return "", nil, dberr.Build("%s called with a %s statement", kind, q.Kind)
	}
	return sqlgen.Build(q, a.dialect)
}

// Select renders and runs a SELECT.
func (a *Adapter) Select(ctx context.Context, q *ast.Query) ([]*dao.Dao, error) {
	query, params, err := a.render(q, ast.Select)
	if err != nil {
		return nil, err
	}
	return a.ExecuteWithReturn(ctx, query, params)
}

// Insert renders and runs an INSERT.
func (a *Adapter) Insert(ctx context.Context, q *ast.Query) (*dao.Dao, error) {
	query, params, err := a.render(q, ast.Insert)
	if err != nil {
		return nil, err
	}

	if q.ReturnAll || len(q.Returning) > 0 {
		rows, err := a.ExecuteWithReturn(ctx, query, params)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return dao.New(), nil
		}
		return rows[0], nil
	}

	res, err := a.exec(ctx, query, params)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, dberr.Execution("rows affected", query, err)
	}
	row := dao.New().Set("rows_affected", n)
	if a.backend.LastInsertID() {
		id, err := res.LastInsertId()
		if err != nil {
			return nil, dberr.Execution("last insert id", query, err)
		}
		row.Set("last_insert_id", id)
	}
	return row, nil
}

// Update renders and runs an UPDATE.
func (a *Adapter) Update(ctx context.Context, q *ast.Query) ([]*dao.Dao, int64, error) {
	query, params, err := a.render(q, ast.Update)
	if err != nil {
		return nil, 0, err
	}
	if q.ReturnAll || len(q.Returning) > 0 {
		rows, err := a.ExecuteWithReturn(ctx, query, params)
		if err != nil {
			return nil, 0, err
		}
		return rows, int64(len(rows)), nil
	}
	n, err := a.Execute(ctx, query, params)
	return nil, n, err
}

// Delete renders and runs a DELETE.
func (a *Adapter) Delete(ctx context.Context, q *ast.Query) (int64, error) {
	query, params, err := a.render(q, ast.Delete)
	if err != nil {
		return 0, err
	}
	return a.Execute(ctx, query, params)
}

// Version returns the server version.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	query := a.backend.VersionQuery()
	rows, err := a.ExecuteWithReturn(ctx, query, nil)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 || rows[0].Len() == 0 {
		return "", dberr.Execution("version", query, dberr.ErrNotFound)
	}
	return rows[0].Values()[0].String(), nil
}

// Begin starts a transaction.
func (a *Adapter) Begin(ctx context.Context) error {
	if a.tx != nil {
		return dberr.Execution("begin", "", fmt.Errorf("%w: transaction already open", dberr.ErrTransaction))
	}
	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return a.wrap("begin", "", err)
	}
	a.tx = tx
	debug.Debug("transaction started", "backend", a.backend.Name())
	return nil
}

// Commit commits the open transaction.
func (a *Adapter) Commit() error {
	if a.tx == nil {
		return dberr.Execution("commit", "", fmt.Errorf("%w: no transaction open", dberr.ErrTransaction))
	}
	err := a.tx.Commit()
	a.tx = nil
	if err != nil {
		return a.wrap("commit", "", err)
	}
	debug.Debug("transaction committed", "backend", a.backend.Name())
	return nil
}

// Rollback rolls back the open transaction.
func (a *Adapter) Rollback() error {
	if a.tx == nil {
		return dberr.Execution("rollback", "", fmt.Errorf("%w: no transaction open", dberr.ErrTransaction))
	}
	err := a.tx.Rollback()
	a.tx = nil
	if err != nil {
		return a.wrap("rollback", "", err)
	}
	debug.Debug("transaction rolled back", "backend", a.backend.Name())
	return nil
}

func (a *Adapter) wrap(op, query string, err error) error {
	if isConnectionError(err) {
		return dberr.Connection(op, err)
	}
	return dberr.Execution(op, query, a.backend.Classify(err))
}

func (a *Adapter) observe(exec bool, query string, nargs int, start time.Time, err error) {
	d := time.Since(start)
	if a.stats != nil {
		a.stats.record(exec, d, a.slow, err)
	}
	attrs := []any{"backend", a.backend.Name(), "sql", query, "params", nargs, "duration", d}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	debug.Debug("statement", attrs...)
	if a.slow > 0 && d >= a.slow {
		debug.Warn("slow statement", attrs...)
	}
}
