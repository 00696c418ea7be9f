package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlforge/cli/internal/filterexpr"
	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/pool"
	"github.com/satishbabariya/sqlforge/query/builder"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// openPool connects using the loaded configuration.
func openPool(ctx context.Context) (*pool.Pool, error) {
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("%w (run \"sqlforge init\" or set SQLFORGE_DATABASE_*)", err)
	}
	return pool.Open(ctx, cfg.Database, cfg.PoolOptions()...)
}

// offlineDialect picks the dialect for the configured backend without
// connecting. An explicit name wins over the configuration.
func offlineDialect(name string) (sqlgen.Dialect, error) {
	if name != "" {
		return sqlgen.DialectFor(name)
	}
	b, err := database.Lookup(cfg.Database.Scheme)
	if err != nil {
		return nil, err
	}
	return b.Dialect(""), nil
}

// queryFlags are shared by select and render.
type queryFlags struct {
	columns  []string
	where    string
	order    string
	limit    int64
	offset   int64
	distinct bool
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.columns, "columns", "c", nil, "columns to project (default: all)")
	cmd.Flags().StringVarP(&f.where, "where", "w", "", `filter, e.g. "price >= 10 AND name ILIKE '%pro%'"`)
	cmd.Flags().StringVarP(&f.order, "order", "o", "", `ordering, e.g. "price DESC NULLS LAST, name"`)
	cmd.Flags().Int64VarP(&f.limit, "limit", "l", 0, "maximum number of rows (0 = no limit)")
	cmd.Flags().Int64Var(&f.offset, "offset", 0, "rows to skip")
	cmd.Flags().BoolVar(&f.distinct, "distinct", false, "SELECT DISTINCT")
}

// build turns the flags into a SELECT over table. Tables declared in the
// configuration have their columns enumerated instead of "*".
func (f *queryFlags) build(table string) (*builder.Builder, error) {
	filters, err := filterexpr.Parse(f.where)
	if err != nil {
		return nil, err
	}
	orders, err := filterexpr.ParseOrder(f.order)
	if err != nil {
		return nil, err
	}

	var b *builder.Builder
	switch {
	case len(f.columns) > 0:
		fields := make([]any, len(f.columns))
		for i, c := range f.columns {
			fields[i] = strings.TrimSpace(c)
		}
		b = builder.Select(fields...).From(table)
	default:
		reg, err := cfg.Registry()
		if err != nil {
			return nil, err
		}
		if t, ok := reg.Lookup(table); ok {
			b = builder.SelectAllColumns().From(t)
		} else {
			b = builder.SelectAll().From(table)
		}
	}

	if f.distinct {
		b = b.Distinct()
	}
	if len(filters) > 0 {
		b = b.Where(filters...)
	}
	if len(orders) > 0 {
		b = b.OrderBy(orders...)
	}
	if f.limit > 0 {
		b = b.Limit(f.limit)
	}
	if f.offset > 0 {
		b = b.Offset(f.offset)
	}
	return b, b.Err()
}

// parseParam guesses the type of a positional parameter given on the
// command line.
func parseParam(s string) types.Value {
	switch strings.ToLower(s) {
	case "null":
		return types.Null()
	case "true", "false":
		return types.Bool(strings.EqualFold(s, "true"))
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int64(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.Float64(f)
	}
	return types.Text(s)
}

// returnsRows reports whether a raw statement should be run as a query.
func returnsRows(sql string) bool {
	fields := strings.Fields(strings.ToUpper(sql))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "SHOW", "VALUES", "EXPLAIN", "PRAGMA", "TABLE", "DESCRIBE":
		return true
	}
	for _, f := range fields {
		if f == "RETURNING" {
			return true
		}
	}
	return false
}
