package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badgehub/internal/domain"
)

func TestInMemoryUserStore(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential ids", func(t *testing.T) {
		store := NewInMemoryUserStore()
		first, err := store.Create(ctx, domain.User{Email: "alice@example.com"})
		require.NoError(t, err)
		second, err := store.Create(ctx, domain.User{Email: "bob@example.com"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.ID)
		assert.Equal(t, int64(2), second.ID)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		store := NewInMemoryUserStore()
		_, err := store.Create(ctx, domain.User{Email: "alice@example.com"})
		require.NoError(t, err)
		_, err = store.Create(ctx, domain.User{Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing user reports not found", func(t *testing.T) {
		store := NewInMemoryUserStore()
		_, err := store.FindByID(ctx, 42)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("update to another user's email conflicts", func(t *testing.T) {
		store := NewInMemoryUserStore()
		alice, err := store.Create(ctx, domain.User{Email: "alice@example.com"})
		require.NoError(t, err)
		_, err = store.Create(ctx, domain.User{Email: "bob@example.com"})
		require.NoError(t, err)

		err = store.UpdateEmail(ctx, alice.ID, "bob@example.com")
		assert.ErrorIs(t, err, ErrConflict)

		// Failed update must not partially apply.
		got, err := store.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("update to the current email is a no-op", func(t *testing.T) {
		store := NewInMemoryUserStore()
		alice, err := store.Create(ctx, domain.User{Email: "alice@example.com"})
		require.NoError(t, err)

		assert.NoError(t, store.UpdateEmail(ctx, alice.ID, "alice@example.com"))
	})

	t.Run("update email is visible to both lookups", func(t *testing.T) {
		store := NewInMemoryUserStore()
		user, err := store.Create(ctx, domain.User{Email: "alice@example.com"})
		require.NoError(t, err)

		require.NoError(t, store.UpdateEmail(ctx, user.ID, "alice@new.example.com"))

		byID, err := store.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@new.example.com", byID.Email)

		_, err = store.FindByEmail(ctx, "alice@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryBadgeStore(t *testing.T) {
	ctx := context.Background()

	t.Run("slug and title are both unique", func(t *testing.T) {
		store := NewInMemoryBadgeStore()
		_, err := store.Create(ctx, domain.Badge{Slug: "python-master", Title: "Python Master"})
		require.NoError(t, err)

		_, err = store.Create(ctx, domain.Badge{Slug: "python-master", Title: "Other"})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = store.Create(ctx, domain.Badge{Slug: "other", Title: "Python Master"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing slug reports not found", func(t *testing.T) {
		store := NewInMemoryBadgeStore()
		_, err := store.FindBySlug(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryAwardStore(t *testing.T) {
	ctx := context.Background()
	award := domain.Award{
		UID:       "uid-1",
		UserID:    1,
		BadgeSlug: "python-master",
		Awarded:   time.Now().UTC(),
	}

	t.Run("duplicate user badge pair conflicts", func(t *testing.T) {
		store := NewInMemoryAwardStore()
		require.NoError(t, store.Create(ctx, award))

		dup := award
		dup.UID = "uid-2"
		assert.ErrorIs(t, store.Create(ctx, dup), ErrConflict)
	})

	t.Run("lookup by uid and by pair agree", func(t *testing.T) {
		store := NewInMemoryAwardStore()
		require.NoError(t, store.Create(ctx, award))

		byUID, err := store.FindByUID(ctx, award.UID)
		require.NoError(t, err)
		byPair, err := store.FindByUserAndBadge(ctx, award.UserID, award.BadgeSlug)
		require.NoError(t, err)
		assert.Equal(t, byUID, byPair)
	})

	t.Run("list by user filters other recipients", func(t *testing.T) {
		store := NewInMemoryAwardStore()
		require.NoError(t, store.Create(ctx, award))
		require.NoError(t, store.Create(ctx, domain.Award{UID: "uid-3", UserID: 2, BadgeSlug: "python-master"}))

		awards, err := store.ListByUser(ctx, 1)
		require.NoError(t, err)
		require.Len(t, awards, 1)
		assert.Equal(t, "uid-1", awards[0].UID)
	})

	t.Run("missing uid reports not found", func(t *testing.T) {
		store := NewInMemoryAwardStore()
		_, err := store.FindByUID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.FindByUserAndBadge(ctx, 9, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestInMemoryAwardStore_ConcurrentCreate(t *testing.T) {
	store := NewInMemoryAwardStore()
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	wg.Add(attempts)
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		go func(n int) {
			defer wg.Done()
			results <- store.Create(ctx, domain.Award{
				UID:       string(rune('a' + n%26)),
				UserID:    7,
				BadgeSlug: "python-master",
			})
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one create should win the race")
}

func TestInMemoryIssuerStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryIssuerStore()

	t.Run("empty store reports not found", func(t *testing.T) {
		_, err := store.First(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save replaces the singleton", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.Issuer{Name: "First Org"}))
		require.NoError(t, store.Save(ctx, domain.Issuer{Name: "Second Org"}))

		got, err := store.First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Second Org", got.Name)
	})
}

func TestInMemoryRevocationStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryRevocationStore()

	exists, err := store.Exists(ctx, "uid-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Add(ctx, domain.Revocation{AwardUID: "uid-1", Reason: "policy violation"}))

	exists, err = store.Exists(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, exists)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.Revocation{AwardUID: "uid-1", Reason: "policy violation"}, list[0])
}

func TestInMemoryMediaStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryMediaStore()

	t.Run("get returns stored bytes", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "badges/python-master.png", []byte{1, 2, 3}))
		data, err := store.Get(ctx, "badges/python-master.png")
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, data)
	})

	t.Run("put copies the input slice", func(t *testing.T) {
		src := []byte{9, 9, 9}
		require.NoError(t, store.Put(ctx, "copy.png", src))
		src[0] = 0
		data, err := store.Get(ctx, "copy.png")
		require.NoError(t, err)
		assert.Equal(t, []byte{9, 9, 9}, data)
	})

	t.Run("delete removes the blob", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "gone.png", []byte{1}))
		require.NoError(t, store.Delete(ctx, "gone.png"))
		_, err := store.Get(ctx, "gone.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
