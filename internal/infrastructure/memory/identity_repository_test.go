package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/internal/domain/repository"
)

func TestIdentityRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()

	avail, err := repo.EmailAvailable(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, avail)

	m := entity.NewMember("a@x.com", "hash", "Alice", "p1.jpg")
	require.NoError(t, repo.CreateMember(ctx, m))
	assert.False(t, m.CreatedAt.IsZero())

	avail, err = repo.EmailAvailable(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, avail)

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMember, got.Role)
	assert.Equal(t, "p1.jpg", got.PhotoURL)

	// exact-match keys, no normalization
	_, err = repo.GetByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestIdentityRepository_DuplicateEmailAcrossRoles(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()
	repo.Seed(entity.NewAdmin("boss@x.com", "hash", "Boss"))

	err := repo.CreateMember(ctx, entity.NewMember("boss@x.com", "hash", "Imposter", "p.jpg"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	avail, err := repo.EmailAvailable(ctx, "boss@x.com")
	require.NoError(t, err)
	assert.False(t, avail)
}

func TestIdentityRepository_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()

	const writers = 32
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for n := 0; n < writers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = repo.CreateMember(ctx, entity.NewMember("race@x.com", "hash", "Racer", "p.jpg"))
		}(n)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestIdentityRepository_UpdateHash(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()

	assert.ErrorIs(t, repo.UpdateHash(ctx, "ghost@x.com", "h2"), repository.ErrNotFound)

	require.NoError(t, repo.CreateMember(ctx, entity.NewMember("a@x.com", "h1", "Alice", "p.jpg")))
	require.NoError(t, repo.UpdateHash(ctx, "a@x.com", "h2"))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
}

func TestIdentityRepository_UpdateMemberProfile(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()
	repo.Seed(entity.NewAdmin("boss@x.com", "h", "Boss"))
	require.NoError(t, repo.CreateMember(ctx, entity.NewMember("a@x.com", "h", "Alice", "p1.jpg")))

	// nil photo keeps the current one
	require.NoError(t, repo.UpdateMemberProfile(ctx, "a@x.com", "Alicia", nil))
	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Name)
	assert.Equal(t, "p1.jpg", got.PhotoURL)

	newURL := "p2.jpg"
	require.NoError(t, repo.UpdateMemberProfile(ctx, "a@x.com", "Alicia", &newURL))
	got, err = repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "p2.jpg", got.PhotoURL)

	// admins have no profile to update through this path
	assert.ErrorIs(t, repo.UpdateMemberProfile(ctx, "boss@x.com", "X", nil), repository.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateMemberProfile(ctx, "ghost@x.com", "X", nil), repository.ErrNotFound)
}

func TestIdentityRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewIdentityRepository()
	require.NoError(t, repo.CreateMember(ctx, entity.NewMember("a@x.com", "h", "Alice", "p.jpg")))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}
