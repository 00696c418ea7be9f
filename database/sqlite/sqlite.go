// Package sqlite implements the SQLite backend on top of mattn/go-sqlite3.
package sqlite

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"github.com/mattn/go-sqlite3"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

// First SQLite releases with each optional feature.
var featuresSince = []struct {
	feature sqlgen.Feature
	since   *goversion.Version
}{
	{sqlgen.NullsOrder, goversion.Must(goversion.NewVersion("3.30.0"))},
	{sqlgen.Returning, goversion.Must(goversion.NewVersion("3.35.0"))},
	{sqlgen.FullJoin, goversion.Must(goversion.NewVersion("3.39.0"))},
}

// Backend talks to an embedded SQLite database.
type Backend struct{}

// Default is the registered SQLite backend.
var Default = &Backend{}

func init() {
	database.Register(Default, "sqlite", "sqlite3", "file")
}

// NewAdapter returns an adapter for a SQLite connection.
func NewAdapter(conn database.Querier, opts ...database.Option) *database.Adapter {
	return database.NewAdapter(conn, Default, opts...)
}

func (*Backend) Name() string { return "sqlite" }

func (*Backend) DriverName() string { return "sqlite3" }

func (*Backend) VersionQuery() string { return "SELECT sqlite_version()" }

func (*Backend) LastInsertID() bool { return true }

// Dialect enables NULLS FIRST/LAST from 3.30.0, RETURNING from 3.35.0 and
// FULL JOIN from 3.39.0. An unknown version is assumed to be recent.
func (*Backend) Dialect(serverVersion string) sqlgen.Dialect {
	if serverVersion == "" {
		return sqlgen.SQLite
	}
	v, err := goversion.NewVersion(strings.TrimSpace(serverVersion))
	if err != nil {
		return sqlgen.SQLite
	}
	var supported []sqlgen.Feature
	for _, fs := range featuresSince {
		if !v.LessThan(fs.since) {
			supported = append(supported, fs.feature)
		}
	}
	return sqlgen.NewSQLite(supported...)
}

// DSN returns the database path followed by driver parameters. Foreign keys
// are enforced unless the configuration says otherwise.
func (*Backend) DSN(cfg database.Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	params := map[string]string{"_foreign_keys": "on"}
	for k, v := range cfg.Params {
		params[k] = v
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(cfg.Database)
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params[k]))
	}
	return b.String(), nil
}

// Kind applies SQLite's type affinity rules to a declared column type.
func (*Backend) Kind(databaseType string) types.Kind {
	t := strings.ToUpper(databaseType)
	switch {
	case t == "":
		return types.KindNull
	case strings.Contains(t, "BOOL"):
		return types.KindBool
	case t == "UUID":
		return types.KindUUID
	case strings.Contains(t, "JSON"):
		return types.KindJSON
	case strings.Contains(t, "DATETIME"), strings.Contains(t, "TIMESTAMP"):
		return types.KindTimestamp
	case strings.Contains(t, "DATE"):
		return types.KindDate
	case strings.Contains(t, "TIME"):
		return types.KindTime
	case strings.Contains(t, "INT"):
		return types.KindInt64
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return types.KindText
	case strings.Contains(t, "BLOB"):
		return types.KindBlob
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return types.KindFloat64
	case strings.Contains(t, "DECIMAL"), strings.Contains(t, "NUMERIC"):
		return types.KindDecimal
	}
	return types.KindNull
}

// Arg stores dates as "2006-01-02" text so they compare as dates.
func (*Backend) Arg(v types.Value) (any, error) {
	if v.Kind() == types.KindDate {
		return v.String(), nil
	}
	return v.Value()
}

// Classify recognizes sqlite3.Error extended constraint codes.
func (*Backend) Classify(err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return database.Wrap(dberr.ErrUniqueConstraint, err)
		case sqlite3.ErrConstraintForeignKey:
			return database.Wrap(dberr.ErrForeignKeyConstraint, err)
		case sqlite3.ErrConstraintNotNull:
			return database.Wrap(dberr.ErrNullConstraint, err)
		case sqlite3.ErrConstraintCheck:
			return database.Wrap(dberr.ErrCheckConstraint, err)
		}
	}
	return database.ClassifyGeneric(err)
}

var _ database.Backend = (*Backend)(nil)
