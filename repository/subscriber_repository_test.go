package repository

import (
	"context"
	"testing"

	"auctioneer/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriberRepository_Register(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSubscriberRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first registration inserts", func(t *testing.T) {
		err := repo.Register(ctx, 42, "alice")
		require.NoError(t, err)

		subs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, int64(42), subs[0].TelegramID)
		assert.Equal(t, "alice", subs[0].DisplayName)
	})

	t.Run("duplicate registration is idempotent", func(t *testing.T) {
		err := repo.Register(ctx, 42, "alice")
		require.NoError(t, err)

		subs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("re-registration refreshes display name", func(t *testing.T) {
		err := repo.Register(ctx, 42, "alice-renamed")
		require.NoError(t, err)

		subs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "alice-renamed", subs[0].DisplayName)
	})
}

func TestSubscriberRepository_ListAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSubscriberRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty registry", func(t *testing.T) {
		subs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("returns every subscriber", func(t *testing.T) {
		require.NoError(t, repo.Register(ctx, 1, "one"))
		require.NoError(t, repo.Register(ctx, 2, "two"))
		require.NoError(t, repo.Register(ctx, 3, "three"))

		subs, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, subs, 3)

		ids := make(map[int64]bool)
		for _, sub := range subs {
			ids[sub.TelegramID] = true
		}
		assert.True(t, ids[1] && ids[2] && ids[3])
	})
}
