package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/schema"
)

func memFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	fs := afero.NewMemMapFs()
	AppFs = fs
	t.Cleanup(func() { AppFs = prev })
	return fs
}

const sample = `
database:
  scheme: mysql
  host: db.internal
  port: 3307
  user: app
  database: bazaar
  params:
    tls: "false"
pool:
  size: 4
  acquire_timeout: 2s
debug: true
tables:
  - name: product
    schema: bazaar
    columns:
      - name: product_id
        primary: true
      - name: name
`

func TestLoad_File(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/etc/sqlforge/.sqlforge.yaml", []byte(sample), 0o644))

	cfg, err := Load("/etc/sqlforge/.sqlforge.yaml")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Scheme)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "bazaar", cfg.Database.Database)
	assert.Equal(t, "false", cfg.Database.Params["tls"])
	assert.Equal(t, 4, cfg.Pool.Size)
	assert.Equal(t, 2*time.Second, cfg.Pool.AcquireTimeout)
	assert.Equal(t, database.DefaultSlowThreshold, cfg.SlowThreshold)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/etc/sqlforge/.sqlforge.yaml", cfg.File)

	reg, err := cfg.Registry()
	require.NoError(t, err)
	tbl, ok := reg.Lookup("bazaar.product")
	require.True(t, ok)
	assert.Len(t, tbl.Columns, 2)
	assert.True(t, tbl.Columns[0].Primary)
}

func TestLoad_EnvOverrides(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(sample), 0o644))
	t.Setenv("SQLFORGE_DATABASE_HOST", "env-host")
	t.Setenv("SQLFORGE_POOL_SIZE", "9")

	cfg, err := Load("/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Database.Host)
	assert.Equal(t, 9, cfg.Pool.Size)
}

func TestLoad_DotEnv(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(sample), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("SQLFORGE_DATABASE_PASSWORD=from-dotenv\nSQLFORGE_DATABASE_USER=dotenv-user\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("SQLFORGE_DATABASE_PASSWORD=from-local\n"), 0o644))
	t.Setenv("SQLFORGE_DATABASE_USER", "shell-user")
	t.Cleanup(func() { os.Unsetenv("SQLFORGE_DATABASE_PASSWORD") })

	cfg, err := Load("/cfg.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-local", cfg.Database.Password)
	assert.Equal(t, "shell-user", cfg.Database.User)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	memFs(t)
	_, err := Load("/nope.yaml")
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	memFs(t)
	in := &Config{
		Database: database.Config{
			Scheme:   "postgres",
			Host:     "localhost",
			Port:     5432,
			User:     "app",
			Database: "bazaar",
		},
		LogFormat:     "json",
		SlowThreshold: 250 * time.Millisecond,
		Tables: []schema.Table{{
			Name:    "category",
			Columns: []schema.Column{{Name: "category_id", Primary: true}, {Name: "name"}},
		}},
	}
	in.Pool.Size = 3

	require.NoError(t, Save(in, "/home/me/.sqlforge.yaml"))

	out, err := Load("/home/me/.sqlforge.yaml")
	require.NoError(t, err)
	assert.Equal(t, in.Database.Scheme, out.Database.Scheme)
	assert.Equal(t, in.Database.Port, out.Database.Port)
	assert.Equal(t, "json", out.LogFormat)
	assert.Equal(t, 250*time.Millisecond, out.SlowThreshold)
	assert.Equal(t, 3, out.Pool.Size)
	require.Len(t, out.Tables, 1)
	assert.Equal(t, "category", out.Tables[0].Name)
	assert.Len(t, out.PoolOptions(), 2)
}
