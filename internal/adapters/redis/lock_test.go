package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_ExclusiveUntilUnlocked(t *testing.T) {
	store, mr := newStore(t)
	locker := store.Locker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "app-state", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("hololoop:state:lock:app-state"))

	// A second holder waits and gives up with its context.
	waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(waitCtx, "app-state", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("hololoop:state:lock:app-state"))

	unlock, err = locker.Lock(ctx, "app-state", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}

func TestLocker_UnlockKeepsForeignLock(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	unlock, err := store.Locker().Lock(ctx, "app-state", time.Second)
	require.NoError(t, err)

	// The lock expired and someone else took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("hololoop:state:lock:app-state", "other-owner"))

	require.NoError(t, unlock(ctx))
	got, err := mr.Get("hololoop:state:lock:app-state")
	require.NoError(t, err)
	assert.Equal(t, "other-owner", got)
}

func TestLocker_ExpiresAfterTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, err := store.Locker().Lock(ctx, "app-state", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	unlock, err := store.Locker().Lock(ctx, "app-state", time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
