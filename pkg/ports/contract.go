package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/drilldown/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	key := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession()
		session.Descend("root")
		session.Save("foo", "bar")
		session.KeyboardID = 7

		err := store.Save(ctx, key, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.Breadcrumb, loaded.Breadcrumb)
		assert.Equal(t, "bar", loaded.Frames[0]["foo"])
		assert.Equal(t, 7, loaded.KeyboardID)
	})

	t.Run("Load Isolation", func(t *testing.T) {
		session := domain.NewSession()
		session.Descend("root")
		require.NoError(t, store.Save(ctx, key, session))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Save("mutated", true)

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.NotContains(t, again.Frames[0], "mutated", "loads must not share frame maps")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, key, domain.NewSession())
		require.NoError(t, err)

		err = store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := key + "-1"
		id2 := key + "-2"
		_ = store.Save(ctx, id1, domain.NewSession())
		_ = store.Save(ctx, id2, domain.NewSession())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
