package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestMemoryUserRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "a@b.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "A@B.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	err = repo.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "other"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "a@b.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	loaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	loaded.PasswordHash = "mutated"
	loaded.IsSuperuser = true

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", again.PasswordHash)
	assert.False(t, again.IsSuperuser)
}

func TestMemoryUserRepositoryMissingRows(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.UpdatePasswordHash(ctx, "missing", "a", "b"), pgx.ErrNoRows)
	assert.ErrorIs(t, repo.UpdateLastAuthenticated(ctx, "missing", time.Now()), pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, "missing"), pgx.ErrNoRows)
}

func TestMemoryUserRepositoryUpdatePasswordHashCompareAndSwap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "a@b.com", PasswordHash: "v1"}
	require.NoError(t, repo.Create(ctx, user))

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = repo.UpdatePasswordHash(ctx, user.ID, "v1", "v2")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrHashChanged)
	}
	assert.Equal(t, 1, wins)

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", stored.PasswordHash)
}

func TestMemoryUserRepositoryLastAuthenticatedAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &domain.User{Email: "a@b.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastAuthenticated(ctx, user.ID, at))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastAuthenticatedAt)
	assert.True(t, at.Equal(*stored.LastAuthenticatedAt))

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByEmail(ctx, "a@b.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	// Email is free again after deletion.
	require.NoError(t, repo.Create(ctx, &domain.User{Email: "a@b.com", PasswordHash: "hash"}))
}

func TestMemoryUserRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		require.NoError(t, repo.Create(ctx, &domain.User{Email: email, PasswordHash: "hash"}))
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "c@x.com", users[0].Email)
	assert.Equal(t, "a@x.com", users[1].Email)
	assert.Equal(t, "b@x.com", users[2].Email)

	users[0].Email = "mutated@x.com"
	again, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", again[0].Email)
}
