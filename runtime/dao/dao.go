// Package dao holds the ordered row container returned by query execution.
package dao

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// Dao is an ordered column to value mapping. The order in which columns are
// first set is preserved and drives projection and RETURNING order.
type Dao struct {
	columns []string
	values  map[string]types.Value
}

// FromRow is implemented by caller types that can be populated from a row.
type FromRow interface {
	ScanDao(d *Dao) error
}

// ToRow is implemented by caller types that can be turned into a row.
type ToRow interface {
	ToDao() *Dao
}

// New creates an empty Dao.
func New() *Dao {
	return &Dao{values: make(map[string]types.Value)}
}

// Set stores x under column, converting it with types.ToValue.
func (d *Dao) Set(column string, x any) *Dao {
	return d.SetValue(column, types.ToValue(x))
}

// SetValue stores v under column. Overwriting keeps the original position.
func (d *Dao) SetValue(column string, v types.Value) *Dao {
	if d.values == nil {
		d.values = make(map[string]types.Value)
	}
	if _, ok := d.values[column]; !ok {
		d.columns = append(d.columns, column)
	}
	d.values[column] = v
	return d
}

// Value returns the value stored under column.
func (d *Dao) Value(column string) (types.Value, bool) {
	v, ok := d.values[column]
	return v, ok
}

// Has reports whether column is present.
func (d *Dao) Has(column string) bool {
	_, ok := d.values[column]
	return ok
}

// Columns returns the column names in insertion order.
func (d *Dao) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Values returns the values in column order.
func (d *Dao) Values() []types.Value {
	out := make([]types.Value, len(d.columns))
	for i, c := range d.columns {
		out[i] = d.values[c]
	}
	return out
}

// Len returns the number of columns.
func (d *Dao) Len() int {
	return len(d.columns)
}

// Remove deletes column and reports whether it was present.
func (d *Dao) Remove(column string) bool {
	if _, ok := d.values[column]; !ok {
		return false
	}
	delete(d.values, column)
	for i, c := range d.columns {
		if c == column {
			d.columns = append(d.columns[:i], d.columns[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of d.
func (d *Dao) Clone() *Dao {
	c := &Dao{
		columns: make([]string, len(d.columns)),
		values:  make(map[string]types.Value, len(d.values)),
	}
	copy(c.columns, d.columns)
	for k, v := range d.values {
		c.values[k] = v
	}
	return c
}

// Equal reports whether both rows hold the same columns in the same order with
// equal values.
func (d *Dao) Equal(o *Dao) bool {
	if d.Len() != o.Len() {
		return false
	}
	for i, c := range d.columns {
		if o.columns[i] != c || !d.values[c].Equal(o.values[c]) {
			return false
		}
	}
	return true
}

func (d *Dao) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, c := range d.columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", c, d.values[c])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Get returns the value of column converted to T. It fails with
// dberr.ErrMissing when the column is absent, dberr.ErrNull when it is NULL
// and dberr.ErrTypeMismatch when the stored tag cannot convert to T.
func Get[T any](d *Dao, column string) (T, error) {
	var zero T
	v, ok := d.values[column]
	if !ok {
		return zero, &dberr.ConversionError{Kind: dberr.Missing, Column: column}
	}
	out, err := types.From[T](v)
	if err != nil {
		return zero, attribute(err, column)
	}
	return out, nil
}

// GetOpt is like Get but returns nil for NULL. A missing column is still an
// error.
func GetOpt[T any](d *Dao, column string) (*T, error) {
	v, ok := d.values[column]
	if !ok {
		return nil, &dberr.ConversionError{Kind: dberr.Missing, Column: column}
	}
	out, err := types.FromOpt[T](v)
	if err != nil {
		return nil, attribute(err, column)
	}
	return out, nil
}

// MustGet is like Get but panics on error. Use it only for columns the query
// is known to project.
func MustGet[T any](d *Dao, column string) T {
	out, err := Get[T](d, column)
	if err != nil {
		panic(err)
	}
	return out
}

func attribute(err error, column string) error {
	if ce, ok := err.(*dberr.ConversionError); ok {
		return ce.WithColumn(column)
	}
	return fmt.Errorf("column %q: %w", column, err)
}

// FromDaos decodes every row into a fresh T.
func FromDaos[T any, PT interface {
	*T
	FromRow
}](rows []*Dao) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		var item T
		if err := PT(&item).ScanDao(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// ToDaos converts every record into a row.
func ToDaos[R ToRow](records ...R) []*Dao {
	out := make([]*Dao, len(records))
	for i, r := range records {
		out[i] = r.ToDao()
	}
	return out
}
