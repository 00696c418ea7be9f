package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlforge/cli/internal/retry"
	"github.com/satishbabariya/sqlforge/dberr"
)

func fast() []retry.Option {
	return []retry.Option{
		retry.WithInitialDelay(time.Millisecond),
		retry.WithMaxDelay(2 * time.Millisecond),
		retry.WithoutJitter(),
	}
}

func TestDo_RecoversFromConnectionErrors(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return dberr.Connection("ping", errors.New("connection refused"))
		}
		return nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	calls := 0
	boom := dberr.Execution("select", "SELECT 1", errors.New("syntax error"))
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	}, fast()...)

	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_Exhausted(t *testing.T) {
	calls := 0
	opts := append(fast(), retry.WithMaxAttempts(4))
	err := retry.Do(context.Background(), func(context.Context) error {
		calls++
		return dberr.Connection("ping", errors.New("no route to host"))
	}, opts...)

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.True(t, errors.Is(err, dberr.ErrConnection))
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestDo_ContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retry.Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return dberr.Connection("ping", errors.New("refused"))
	}, retry.WithInitialDelay(time.Hour))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	v, err := retry.DoWithResult(context.Background(), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", dberr.ErrPoolExhausted
		}
		return "16.2", nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, "16.2", v)
	assert.False(t, retry.Retryable(dberr.Connection("acquire", context.Canceled)))
}
