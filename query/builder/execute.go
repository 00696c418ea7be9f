package builder

import (
	"context"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/ast"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/dao"
)

// Result is the outcome of Execute. Rows holds the selected or returned
// rows; RowsAffected counts them for Select and RETURNING statements.
type Result struct {
	RowsAffected int64
	LastInsertID *int64
	Rows         []*dao.Dao
}

// Execute renders the statement with the dialect of db and runs it.
func (b *Builder) Execute(ctx context.Context, db database.Database) (*Result, error) {
	q, err := b.Query()
	if err != nil {
		return nil, err
	}

	returning := q.ReturnAll || len(q.Returning) > 0
	switch {
	case q.Kind == ast.Select:
		rows, err := db.Select(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: int64(len(rows)), Rows: rows}, nil

	case q.Kind == ast.Insert && returning:
		// Every returned row, not just the first one Database.Insert keeps.
		sql, params, err := sqlgen.Build(q, db.Dialect())
		if err != nil {
			return nil, err
		}
		rows, err := db.ExecuteWithReturn(ctx, sql, params)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: int64(len(rows)), Rows: rows}, nil

	case q.Kind == ast.Insert:
		row, err := db.Insert(ctx, q)
		if err != nil {
			return nil, err
		}
		res := &Result{}
		if n, err := dao.Get[int64](row, "rows_affected"); err == nil {
			res.RowsAffected = n
		}
		if id, err := dao.Get[int64](row, "last_insert_id"); err == nil {
			res.LastInsertID = &id
		}
		return res, nil

	case q.Kind == ast.Update:
		rows, n, err := db.Update(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: n, Rows: rows}, nil

	case q.Kind == ast.Delete:
		n, err := db.Delete(ctx, q)
		if err != nil {
			return nil, err
		}
		return &Result{RowsAffected: n}, nil
	}
	return nil, dberr.Build("unknown statement kind %d", q.Kind)
}

// Collect executes b and decodes every row into T.
func Collect[T any, PT interface {
	*T
	dao.FromRow
}](ctx context.Context, b *Builder, db database.Database) ([]T, error) {
	res, err := b.Execute(ctx, db)
	if err != nil {
		return nil, err
	}
	return dao.FromDaos[T, PT](res.Rows)
}

// CollectOne executes b and decodes the first row into T. It fails with
// dberr.ErrNotFound when there is no row.
func CollectOne[T any, PT interface {
	*T
	dao.FromRow
}](ctx context.Context, b *Builder, db database.Database) (T, error) {
	var zero T
	res, err := b.Execute(ctx, db)
	if err != nil {
		return zero, err
	}
	if len(res.Rows) == 0 {
		return zero, dberr.ErrNotFound
	}
	var out T
	if err := PT(&out).ScanDao(res.Rows[0]); err != nil {
		return zero, err
	}
	return out, nil
}
