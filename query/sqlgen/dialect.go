package sqlgen

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Feature is an optional SQL capability.
type Feature int

const (
	// Returning is the RETURNING clause on INSERT and UPDATE.
	Returning Feature = iota
	// ILike is a native case insensitive LIKE.
	ILike
	// NullsOrder is NULLS FIRST / NULLS LAST in ORDER BY.
	NullsOrder
	// FullJoin is FULL [OUTER] JOIN.
	FullJoin
)

func (f Feature) String() string {
	switch f {
	case Returning:
		return "RETURNING"
	case ILike:
		return "ILIKE"
	case NullsOrder:
		return "NULLS FIRST/LAST"
	case FullJoin:
		return "FULL JOIN"
	}
	return "feature(" + strconv.Itoa(int(f)) + ")"
}

// Dialect describes how a backend spells SQL.
type Dialect interface {
	// Name is the dialect name used in errors and logs.
	Name() string
	// Placeholder returns the placeholder of the n-th parameter, counting from 1.
	Placeholder(n int) string
	// QuoteIdentifier quotes a single identifier part when it needs quoting.
	QuoteIdentifier(name string) string
	// QuoteString returns s as a string literal.
	QuoteString(s string) string
	// QuoteBytes returns b as a binary literal.
	QuoteBytes(b []byte) string
	// LimitAll is the LIMIT emitted when OFFSET is used without LIMIT, or ""
	// when the dialect accepts a bare OFFSET.
	LimitAll() string
	// Supports reports whether the dialect implements f.
	Supports(f Feature) bool
}

type postgresDialect struct{}

func (postgresDialect) Name() string                    { return "postgres" }
func (postgresDialect) Placeholder(n int) string        { return "$" + strconv.Itoa(n) }
func (postgresDialect) QuoteIdentifier(s string) string { return quoteIdentifier(s, '"') }
func (postgresDialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
func (postgresDialect) QuoteBytes(b []byte) string { return `'\x` + hex.EncodeToString(b) + "'" }
func (postgresDialect) LimitAll() string           { return "" }
func (postgresDialect) Supports(Feature) bool      { return true }

type mysqlDialect struct{}

func (mysqlDialect) Name() string                    { return "mysql" }
func (mysqlDialect) Placeholder(int) string          { return "?" }
func (mysqlDialect) QuoteIdentifier(s string) string { return quoteIdentifier(s, '`') }
func (mysqlDialect) QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
func (mysqlDialect) QuoteBytes(b []byte) string { return "X'" + hex.EncodeToString(b) + "'" }
func (mysqlDialect) LimitAll() string           { return "18446744073709551615" }
func (mysqlDialect) Supports(Feature) bool      { return false }

type sqliteDialect struct {
	returning  bool
	nullsOrder bool
	fullJoin   bool
}

func (sqliteDialect) Name() string                    { return "sqlite" }
func (sqliteDialect) Placeholder(int) string          { return "?" }
func (sqliteDialect) QuoteIdentifier(s string) string { return quoteIdentifier(s, '"') }
func (sqliteDialect) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
func (sqliteDialect) QuoteBytes(b []byte) string { return "X'" + hex.EncodeToString(b) + "'" }
func (sqliteDialect) LimitAll() string           { return "-1" }
func (d sqliteDialect) Supports(f Feature) bool {
	switch f {
	case Returning:
		return d.returning
	case NullsOrder:
		return d.nullsOrder
	case FullJoin:
		return d.fullJoin
	}
	return false
}

var (
	// Postgres renders PostgreSQL: $n placeholders and every feature.
	Postgres Dialect = postgresDialect{}
	// MySQL renders MySQL: ? placeholders, backtick quoting, no RETURNING,
	// no NULLS ordering, no FULL JOIN and an emulated ILIKE.
	MySQL Dialect = mysqlDialect{}
	// SQLite renders SQLite 3.39 or later.
	SQLite Dialect = sqliteDialect{returning: true, nullsOrder: true, fullJoin: true}
)

// NewSQLite returns the SQLite dialect for an older server supporting only
// the listed features. ILike is always emulated.
func NewSQLite(supported ...Feature) Dialect {
	var d sqliteDialect
	for _, f := range supported {
		switch f {
		case Returning:
			d.returning = true
		case NullsOrder:
			d.nullsOrder = true
		case FullJoin:
			d.fullJoin = true
		}
	}
	return d
}

// DialectFor returns the dialect of a backend name or URL scheme.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgresql", "postgres", "pgx":
		return Postgres, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return nil, fmt.Errorf("sqlgen: unknown dialect %q", name)
}

// quoteIdentifier leaves plain lower case identifiers alone and quotes
// everything else, including reserved words.
func quoteIdentifier(name string, q byte) string {
	if isPlainIdentifier(name) && !reserved[name] {
		return name
	}
	quote := string(q)
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

var reserved = map[string]bool{
	"all": true, "alter": true, "and": true, "any": true, "as": true, "asc": true,
	"between": true, "by": true, "case": true, "check": true, "column": true,
	"constraint": true, "create": true, "cross": true, "current_date": true,
	"current_time": true, "current_timestamp": true, "current_user": true,
	"default": true, "delete": true, "desc": true, "distinct": true, "drop": true,
	"else": true, "end": true, "exists": true, "false": true, "fetch": true,
	"for": true, "foreign": true, "from": true, "full": true, "grant": true,
	"group": true, "having": true, "in": true, "index": true, "inner": true,
	"insert": true, "intersect": true, "into": true, "is": true, "join": true,
	"key": true, "left": true, "like": true, "limit": true, "natural": true,
	"not": true, "null": true, "offset": true, "on": true, "or": true,
	"order": true, "outer": true, "primary": true, "references": true,
	"returning": true, "right": true, "select": true, "set": true, "table": true,
	"then": true, "to": true, "true": true, "union": true, "unique": true,
	"update": true, "user": true, "using": true, "values": true, "when": true,
	"where": true, "with": true,
}
