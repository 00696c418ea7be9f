// Package pool provides bounded connection pooling on top of database/sql.
// Each acquired connection comes with its own database.Adapter, so a
// transaction begun on it stays on that connection until release.
package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/internal/debug"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
)

// ErrClosed is returned when acquiring from a closed pool.
var ErrClosed = fmt.Errorf("%w: pool closed", dberr.ErrConnection)

// Config holds connection pool configuration.
type Config struct {
	// Size is the maximum number of connections handed out at once.
	Size int `mapstructure:"size" yaml:"size"`
	// AcquireTimeout bounds how long Acquire waits (0 = until ctx is done).
	AcquireTimeout time.Duration `mapstructure:"acquire_timeout" yaml:"acquire_timeout"`
	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	// ConnMaxIdleTime is the maximum idle time of a connection.
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	// HealthCheckInterval is how often to ping the database (0 = never).
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval" yaml:"health_check_interval"`
}

// DefaultConfig returns sensible default pool configuration.
func DefaultConfig() Config {
	return Config{
		Size:            10,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// Option configures a Pool.
type Option func(*Pool)

// WithConfig replaces the pool configuration.
func WithConfig(c Config) Option {
	return func(p *Pool) { p.config = c }
}

// WithSize sets the maximum number of concurrently acquired connections.
func WithSize(n int) Option {
	return func(p *Pool) { p.config.Size = n }
}

// WithAcquireTimeout makes Acquire fail with dberr.ErrPoolExhausted after d.
func WithAcquireTimeout(d time.Duration) Option {
	return func(p *Pool) { p.config.AcquireTimeout = d }
}

// WithAdapterOptions passes options to every adapter created by the pool.
func WithAdapterOptions(opts ...database.Option) Option {
	return func(p *Pool) { p.adapterOpts = append(p.adapterOpts, opts...) }
}

// Pool hands out at most Config.Size connections at a time.
type Pool struct {
	db          *sql.DB
	ownsDB      bool
	backend     database.Backend
	dialect     sqlgen.Dialect
	config      Config
	sem         *semaphore.Weighted
	stats       *database.QueryStats
	adapterOpts []database.Option

	closed   atomic.Bool
	inUse    atomic.Int64
	acquired atomic.Int64
	timeouts atomic.Int64

	mu              sync.RWMutex
	failedChecks    int64
	lastHealthCheck time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Open looks up the backend registered for cfg.Scheme, opens and pings the
// database, and selects the dialect matching the server version.
func Open(ctx context.Context, cfg database.Config, opts ...Option) (*Pool, error) {
	b, err := database.Lookup(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	dsn, err := b.DSN(cfg)
	if err != nil {
		return nil, dberr.Connection("open", err)
	}
	db, err := sql.Open(b.DriverName(), dsn)
	if err != nil {
		return nil, dberr.Connection("open", err)
	}

	p := New(db, b, opts...)
	p.ownsDB = true
	if err := p.Ping(ctx); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := p.detectDialect(ctx); err != nil {
		debug.Warn("server version unavailable, using default dialect", "backend", b.Name(), "error", err)
	}
	debug.Info("pool opened", "database", cfg.String(), "size", p.config.Size, "dialect", p.dialect.Name())
	return p, nil
}

// New wraps an open *sql.DB. The caller keeps ownership of db.
func New(db *sql.DB, b database.Backend, opts ...Option) *Pool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		db:      db,
		backend: b,
		dialect: b.Dialect(""),
		config:  DefaultConfig(),
		stats:   &database.QueryStats{},
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.config.Size <= 0 {
		p.config.Size = 1
	}
	p.sem = semaphore.NewWeighted(int64(p.config.Size))

	db.SetMaxOpenConns(p.config.Size)
	db.SetMaxIdleConns(p.config.Size)
	db.SetConnMaxLifetime(p.config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(p.config.ConnMaxIdleTime)

	if p.config.HealthCheckInterval > 0 {
		p.wg.Add(1)
		go p.healthCheckLoop()
	}
	return p
}

func (p *Pool) detectDialect(ctx context.Context) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()
	v, err := c.Version(ctx)
	if err != nil {
		return err
	}
	p.dialect = p.backend.Dialect(v)
	return nil
}

// DB returns the underlying *sql.DB.
func (p *Pool) DB() *sql.DB { return p.db }

// Backend returns the backend of the pool.
func (p *Pool) Backend() database.Backend { return p.backend }

// Dialect returns the dialect adapters of this pool render with.
func (p *Pool) Dialect() sqlgen.Dialect { return p.dialect }

// Size returns the maximum number of concurrently acquired connections.
func (p *Pool) Size() int { return p.config.Size }

// Conn is an acquired connection. It must be released exactly once; further
// calls to Release are no-ops.
type Conn struct {
	*database.Adapter
	conn     *sql.Conn
	pool     *Pool
	released atomic.Bool
}

// Acquire waits for a free slot and returns a connection. It fails with
// dberr.ErrPoolExhausted when AcquireTimeout elapses first.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	if p.closed.Load() {
		return nil, dberr.Connection("acquire", ErrClosed)
	}

	wait := ctx
	if p.config.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		wait, cancel = context.WithTimeout(ctx, p.config.AcquireTimeout)
		defer cancel()
	}
	if err := p.sem.Acquire(wait, 1); err != nil {
		if ctx.Err() != nil {
			return nil, dberr.Connection("acquire", ctx.Err())
		}
		p.timeouts.Add(1)
		debug.Warn("pool exhausted", "size", p.config.Size, "timeout", p.config.AcquireTimeout)
		return nil, dberr.Connection("acquire", dberr.ErrPoolExhausted)
	}
	return p.checkout(ctx)
}

// TryAcquire returns a connection if a slot is free right now.
func (p *Pool) TryAcquire(ctx context.Context) (*Conn, error) {
	if p.closed.Load() {
		return nil, dberr.Connection("acquire", ErrClosed)
	}
	if !p.sem.TryAcquire(1) {
		return nil, dberr.Connection("acquire", dberr.ErrPoolExhausted)
	}
	return p.checkout(ctx)
}

func (p *Pool) checkout(ctx context.Context) (*Conn, error) {
	sc, err := p.db.Conn(ctx)
	if err != nil {
		p.sem.Release(1)
		return nil, dberr.Connection("acquire", err)
	}

	opts := append([]database.Option{
		database.WithDialect(p.dialect),
		database.WithStats(p.stats),
	}, p.adapterOpts...)

	p.inUse.Add(1)
	p.acquired.Add(1)
	debug.Debug("connection acquired", "backend", p.backend.Name(), "in_use", p.inUse.Load())
	return &Conn{
		Adapter: database.NewAdapter(sc, p.backend, opts...),
		conn:    sc,
		pool:    p,
	}, nil
}

// Release returns the connection to the pool. An open transaction is
// rolled back first.
func (c *Conn) Release() {
	if !c.released.CompareAndSwap(false, true) {
		return
	}
	if c.InTx() {
		if err := c.Rollback(); err != nil {
			debug.Warn("rollback on release failed", "error", err)
		} else {
			debug.Warn("open transaction rolled back on release")
		}
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		debug.Warn("closing connection failed", "error", err)
	}
	c.pool.inUse.Add(-1)
	c.pool.sem.Release(1)
	debug.Debug("connection released", "backend", c.pool.backend.Name(), "in_use", c.pool.inUse.Load())
}

// With runs fn on an acquired connection and releases it afterwards.
func (p *Pool) With(ctx context.Context, fn func(*Conn) error) error {
	c, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer c.Release()
	return fn(c)
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func (p *Pool) WithTx(ctx context.Context, fn func(*Conn) error) error {
	return p.With(ctx, func(c *Conn) error {
		if err := c.Begin(ctx); err != nil {
			return err
		}
		if err := fn(c); err != nil {
			if rerr := c.Rollback(); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
		return c.Commit()
	})
}

// Stats represents pool statistics.
type Stats struct {
	Size               int
	InUse              int64
	Acquired           int64
	Timeouts           int64
	OpenConnections    int
	Idle               int
	WaitCount          int64
	WaitDuration       time.Duration
	FailedHealthChecks int64
	LastHealthCheck    time.Time
	Statements         database.StatsSnapshot
}

// Stats returns current pool statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	dbStats := p.db.Stats()
	return Stats{
		Size:               p.config.Size,
		InUse:              p.inUse.Load(),
		Acquired:           p.acquired.Load(),
		Timeouts:           p.timeouts.Load(),
		OpenConnections:    dbStats.OpenConnections,
		Idle:               dbStats.Idle,
		WaitCount:          dbStats.WaitCount,
		WaitDuration:       dbStats.WaitDuration,
		FailedHealthChecks: p.failedChecks,
		LastHealthCheck:    p.lastHealthCheck,
		Statements:         p.stats.Snapshot(),
	}
}

// Ping verifies the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	p.mu.Lock()
	p.lastHealthCheck = time.Now()
	p.mu.Unlock()

	if err := p.db.PingContext(ctx); err != nil {
		p.mu.Lock()
		p.failedChecks++
		p.mu.Unlock()
		return dberr.Connection("ping", err)
	}
	return nil
}

func (p *Pool) healthCheckLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
			if err := p.Ping(ctx); err != nil {
				debug.Warn("health check failed", "backend", p.backend.Name(), "error", err)
			}
			cancel()
		}
	}
}

// Close stops the health check and, for pools created by Open, closes the
// database. Connections still acquired keep working until released.
func (p *Pool) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.cancel()
	p.wg.Wait()
	if p.ownsDB {
		return p.db.Close()
	}
	return nil
}
