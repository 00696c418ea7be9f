// Package config loads the sqlforge CLI configuration from .sqlforge.yaml,
// SQLFORGE_* environment variables and .env files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/pool"
	"github.com/satishbabariya/sqlforge/internal/debug"
	"github.com/satishbabariya/sqlforge/schema"
)

// AppFs is the filesystem configuration is read from and written to.
var AppFs = afero.NewOsFs()

const (
	// FileName is the configuration file name without extension.
	FileName = ".sqlforge"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SQLFORGE"
)

// Config holds the application configuration
type Config struct {
	Database      database.Config `mapstructure:"database"`
	Pool          pool.Config     `mapstructure:"pool"`
	Debug         bool            `mapstructure:"debug"`
	LogFormat     string          `mapstructure:"log_format"`
	SlowThreshold time.Duration   `mapstructure:"slow_threshold"`
	Tables        []schema.Table  `mapstructure:"tables"`

	// File is the configuration file that was read, if any.
	File string `mapstructure:"-"`
}

func defaults(v *viper.Viper) {
	p := pool.DefaultConfig()
	v.SetDefault("database.scheme", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("pool.size", p.Size)
	v.SetDefault("pool.acquire_timeout", p.AcquireTimeout)
	v.SetDefault("pool.conn_max_lifetime", p.ConnMaxLifetime)
	v.SetDefault("pool.conn_max_idle_time", p.ConnMaxIdleTime)
	v.SetDefault("pool.health_check_interval", p.HealthCheckInterval)
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("slow_threshold", database.DefaultSlowThreshold)
}

// Load loads configuration from various sources. With an empty path the
// file is searched in ".", $HOME and $HOME/.config/sqlforge and may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetFs(AppFs)
	defaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "sqlforge"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return cfg, nil
}

// loadDotEnv reads .env and then .env.local, which takes precedence. Neither
// overrides variables already set in the environment by the shell.
func loadDotEnv() error {
	shell := map[string]bool{}
	for _, kv := range os.Environ() {
		if k, _, ok := strings.Cut(kv, "="); ok {
			shell[k] = true
		}
	}
	for _, name := range []string{".env", ".env.local"} {
		data, err := afero.ReadFile(AppFs, name)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read %s: %w", name, err)
		}
		vars, err := godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k, val := range vars {
			if shell[k] {
				continue
			}
			if err := os.Setenv(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Save writes cfg to path, or to ./.sqlforge.yaml when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = FileName + ".yaml"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := AppFs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.Set("database.scheme", cfg.Database.Scheme)
	v.Set("database.host", cfg.Database.Host)
	v.Set("database.port", cfg.Database.Port)
	v.Set("database.user", cfg.Database.User)
	v.Set("database.password", cfg.Database.Password)
	v.Set("database.database", cfg.Database.Database)
	if len(cfg.Database.Params) > 0 {
		v.Set("database.params", cfg.Database.Params)
	}
	v.Set("pool.size", cfg.Pool.Size)
	v.Set("pool.acquire_timeout", cfg.Pool.AcquireTimeout.String())
	v.Set("debug", cfg.Debug)
	v.Set("log_format", cfg.LogFormat)
	v.Set("slow_threshold", cfg.SlowThreshold.String())
	if len(cfg.Tables) > 0 {
		v.Set("tables", cfg.Tables)
	}
	return v.WriteConfigAs(path)
}

// ApplyLogging configures the process logger from cfg.
func (c *Config) ApplyLogging() {
	debug.Configure(debug.Options{Enable: c.Debug, Format: c.LogFormat})
}

// PoolOptions returns the pool options described by cfg.
func (c *Config) PoolOptions() []pool.Option {
	return []pool.Option{
		pool.WithConfig(c.Pool),
		pool.WithAdapterOptions(database.WithSlowThreshold(c.SlowThreshold)),
	}
}

// Registry indexes the declared tables.
func (c *Config) Registry() (*schema.Registry, error) {
	return schema.NewRegistry(c.Tables...)
}
