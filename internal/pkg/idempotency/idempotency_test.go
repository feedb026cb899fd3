package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTracker(t *testing.T) (*StateTracker, *redis.Client) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return New(client), client
}

func TestStateTracker_ExecReleases(t *testing.T) {
	s, _ := newTracker(t)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error { calls++; return nil }

	require.NoError(t, s.Exec(ctx, "register:jhi", fn))
	require.NoError(t, s.Exec(ctx, "register:jhi", fn))
	assert.Equal(t, 2, calls)
}

func TestStateTracker_ExecInProgress(t *testing.T) {
	s, _ := newTracker(t)
	ctx := context.Background()

	inside := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Exec(ctx, "register:jhi", func(context.Context) error {
			close(inside)
			time.Sleep(200 * time.Millisecond)
			return nil
		})
	}()

	<-inside
	err := s.Exec(ctx, "register:jhi", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
	<-done
}

func TestStateTracker_ExecReturnsFnResult(t *testing.T) {
	s, _ := newTracker(t)
	ctx := context.Background()

	boom := errors.New("boom")
	assert.ErrorIs(t, s.Exec(ctx, "k1", func(context.Context) error { return boom }), boom)

	// released after a failure, so the key is free again
	state, err := s.Acquire(ctx, "k1", time.Second)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)
}

func TestStateTracker_ExecIgnoresReleaseFailure(t *testing.T) {
	s, client := newTracker(t)
	ctx := context.Background()

	err := s.Exec(ctx, "register:jhi", func(context.Context) error {
		// the work is done, then redis goes away before the release
		return client.Close()
	}, WithLockDuration(time.Second))
	assert.NoError(t, err)
}

func TestStateTracker_AcquireInvalidState(t *testing.T) {
	s, client := newTracker(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "idempotency:k", "garbage", time.Minute).Err())

	state, err := s.Acquire(ctx, "k", time.Second)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StateError, state)
}
