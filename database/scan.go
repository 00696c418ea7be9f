package database

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/satishbabariya/sqlforge/internal/debug"
	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// ScanRows reads every remaining row into a Dao. kind maps each column's
// database type name to the tag used to decode it. It does not close rows.
func ScanRows(rows *sql.Rows, kind func(databaseType string) types.Kind) ([]*dao.Dao, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	names := make([]string, len(cols))
	hints := make([]types.Kind, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		if kind != nil {
			hints[i] = kind(c.DatabaseTypeName())
		}
	}
	names = uniqueNames(names)

	var out []*dao.Dao
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := dao.New()
		for i, src := range raw {
			v, err := types.Decode(src, hints[i])
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", names[i], err)
			}
			row.SetValue(names[i], v)
			raw[i] = nil
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// uniqueNames renames repeated result columns, as produced by "SELECT *" over
// joined tables, to name_2, name_3 and so on. database/sql does not report
// the source table of a column, so the first occurrence keeps the bare name.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	out := make([]string, len(names))
	first := make(map[string]bool, len(names))
	for i, n := range names {
		if !first[n] {
			first[n] = true
			out[i] = n
			continue
		}
		for k := 2; ; k++ {
			alt := n + "_" + strconv.Itoa(k)
			if !seen[alt] {
				seen[alt] = true
				out[i] = alt
				debug.Debug("duplicate result column renamed", "column", n, "as", alt)
				break
			}
		}
	}
	return out
}
