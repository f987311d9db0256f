package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Write and Read", func(t *testing.T) {
		blob := []byte(`{"version":1,"state":{"reposition_pending":true}}`)

		err := store.Write(ctx, key, blob)
		require.NoError(t, err, "Write should not return error")

		loaded, err := store.Read(ctx, key)
		require.NoError(t, err, "Read should not return error")
		assert.Equal(t, blob, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, key, []byte("first")))
		require.NoError(t, store.Write(ctx, key, []byte("second")))

		loaded, err := store.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Read Non-Existent", func(t *testing.T) {
		_, err := store.Read(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
	})

	t.Run("Isolation", func(t *testing.T) {
		blob := []byte("mutable")
		require.NoError(t, store.Write(ctx, key, blob))
		blob[0] = 'X'

		loaded, err := store.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("mutable"), loaded, "store must not alias the caller's buffer")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, key, []byte("x")))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Read(ctx, key)
		assert.ErrorIs(t, err, domain.ErrStateNotFound, "Read after Delete should return ErrStateNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Delete of a missing key should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Write(ctx, id1, []byte("1"))
		_ = store.Write(ctx, id2, []byte("2"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, id1)
		assert.Contains(t, keys, id2)
	})
}
