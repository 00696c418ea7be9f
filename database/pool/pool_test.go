package pool_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/database"
	"github.com/satishbabariya/sqlforge/database/pool"
	"github.com/satishbabariya/sqlforge/dberr"
	"github.com/satishbabariya/sqlforge/query/sqlgen"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

type testBackend struct{}

func (testBackend) Name() string                            { return "test" }
func (testBackend) DriverName() string                      { return "sqlmock" }
func (testBackend) DSN(cfg database.Config) (string, error) { return cfg.Database, nil }
func (testBackend) VersionQuery() string                    { return "SELECT version()" }
func (testBackend) Dialect(string) sqlgen.Dialect           { return sqlgen.Postgres }
func (testBackend) Kind(string) types.Kind                  { return types.KindNull }
func (testBackend) Arg(v types.Value) (any, error)          { return v.Value() }
func (testBackend) Classify(err error) error                { return err }
func (testBackend) LastInsertID() bool                      { return false }

func newPool(t *testing.T, opts ...pool.Option) (*pool.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	p := pool.New(db, testBackend{}, opts...)
	t.Cleanup(func() {
		_ = p.Close()
		_ = db.Close()
	})
	return p, mock
}

func TestPool_Bound(t *testing.T) {
	p, _ := newPool(t, pool.WithSize(2))
	ctx := context.Background()

	c1, err := p.Acquire(ctx)
	require.NoError(t, err)
	c2, err := p.Acquire(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Stats().InUse)

	_, err = p.TryAcquire(ctx)
	assert.True(t, errors.Is(err, dberr.ErrPoolExhausted))

	got := make(chan *pool.Conn)
	go func() {
		c, err := p.Acquire(ctx)
		if err != nil {
			close(got)
			return
		}
		got <- c
	}()

	select {
	case <-got:
		t.Fatal("third acquisition must wait for a release")
	case <-time.After(50 * time.Millisecond):
	}

	c1.Release()
	select {
	case c3, ok := <-got:
		require.True(t, ok)
		c3.Release()
	case <-time.After(time.Second):
		t.Fatal("acquisition did not proceed after release")
	}

	c2.Release()
	c2.Release()
	assert.Equal(t, int64(0), p.Stats().InUse)
	assert.Equal(t, int64(3), p.Stats().Acquired)
}

func TestPool_AcquireTimeout(t *testing.T) {
	p, _ := newPool(t, pool.WithSize(1), pool.WithAcquireTimeout(20*time.Millisecond))
	ctx := context.Background()

	c, err := p.Acquire(ctx)
	require.NoError(t, err)
	defer c.Release()

	_, err = p.Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dberr.ErrPoolExhausted))
	assert.True(t, errors.Is(err, dberr.ErrConnection))
	assert.Equal(t, int64(1), p.Stats().Timeouts)
}

func TestPool_AcquireCanceled(t *testing.T) {
	p, _ := newPool(t, pool.WithSize(1))

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	defer c.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Acquire(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, dberr.ErrPoolExhausted))
}

func TestPool_ReleaseRollsBack(t *testing.T) {
	p, mock := newPool(t, pool.WithSize(1))
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectRollback()

	c, err := p.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, c.Begin(ctx))
	c.Release()

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPool_WithTx(t *testing.T) {
	p, mock := newPool(t, pool.WithSize(1))
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM cart").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	err := p.WithTx(ctx, func(c *pool.Conn) error {
		n, err := c.Execute(ctx, "DELETE FROM cart", nil)
		assert.Equal(t, int64(4), n)
		return err
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	boom := errors.New("boom")
	err = p.WithTx(ctx, func(*pool.Conn) error { return boom })
	assert.ErrorIs(t, err, boom)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, int64(1), p.Stats().Statements.Execs)
}

func TestPool_Closed(t *testing.T) {
	p, _ := newPool(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Acquire(context.Background())
	assert.True(t, errors.Is(err, pool.ErrClosed))
	assert.True(t, errors.Is(err, dberr.ErrConnection))
}

func TestPool_Dialect(t *testing.T) {
	p, _ := newPool(t)
	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	defer c.Release()
	assert.Equal(t, "postgres", c.Dialect().Name())
	assert.Equal(t, pool.DefaultConfig().Size, p.Size())
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := pool.Open(context.Background(), database.Config{Scheme: "oracle", Database: "x"})
	assert.True(t, errors.Is(err, dberr.ErrUnsupported))
}
