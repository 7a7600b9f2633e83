package owner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusframe-server/internal/domain/item"
	"focusframe-server/internal/domain/owner"
	"focusframe-server/internal/infrastructure/changefeed"
	"focusframe-server/internal/infrastructure/repository/itemrepo"
	"focusframe-server/internal/infrastructure/repository/ownerrepo"
	"focusframe-server/internal/utils/platformerrors"
)

func newOwnerFixture() (*owner.Service, item.Store, *ownerrepo.InMemoryRepository) {
	repo := ownerrepo.NewInMemoryRepository()
	store := item.NewStore(itemrepo.NewInMemoryRepository(), changefeed.NewMemoryFeed(), zerolog.Nop())
	return owner.NewService(repo, store, zerolog.Nop()), store, repo
}

func TestTouchCreatesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newOwnerFixture()

	first, err := svc.Touch(ctx, owner.Identity{ID: "owner-1", Email: "a@example.com", DisplayName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "owner-1", first.ID)
	assert.Equal(t, "a@example.com", first.Email)
	assert.False(t, first.CreatedAt.IsZero())

	second, err := svc.Touch(ctx, owner.Identity{ID: "owner-1"})
	require.NoError(t, err)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "Ada", second.DisplayName, "empty claims keep the stored name")
	assert.False(t, second.LastSignInAt.Before(first.LastSignInAt))
}

func TestTouchRejectsAnonymous(t *testing.T) {
	svc, _, _ := newOwnerFixture()
	_, err := svc.Touch(context.Background(), owner.Identity{ID: "  "})
	assert.True(t, item.IsValidationError(err))
}

func TestProfileCountsItems(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newOwnerFixture()

	_, err := svc.Profile(ctx, "owner-1")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	_, err = svc.Touch(ctx, owner.Identity{ID: "owner-1"})
	require.NoError(t, err)
	for _, content := range []string{"Finish report", "Call plumber"} {
		_, err := store.Create(ctx, "owner-1", item.Draft{Content: content, Bucket: item.BucketControl})
		require.NoError(t, err)
	}

	profile, err := svc.Profile(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", profile.Owner.ID)
	assert.Equal(t, int64(2), profile.ItemCount)
}

func TestForgetRemovesItemsThenOwner(t *testing.T) {
	ctx := context.Background()
	svc, store, repo := newOwnerFixture()

	_, err := svc.Touch(ctx, owner.Identity{ID: "owner-1"})
	require.NoError(t, err)
	_, err = store.Create(ctx, "owner-1", item.Draft{Content: "Finish report", Bucket: item.BucketControl})
	require.NoError(t, err)

	require.NoError(t, svc.Forget(ctx, "owner-1"))

	n, err := store.Count(ctx, "owner-1")
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = repo.Get(ctx, "owner-1")
	assert.ErrorIs(t, err, owner.ErrNotFound)
}

type failingEraser struct{}

func (failingEraser) DeleteAll(context.Context, string) error { return errors.New("batch aborted") }

func (failingEraser) Count(context.Context, string) (int64, error) { return 0, nil }

func TestForgetKeepsOwnerWhenItemsRemain(t *testing.T) {
	ctx := context.Background()
	repo := ownerrepo.NewInMemoryRepository()
	svc := owner.NewService(repo, failingEraser{}, zerolog.Nop())

	_, err := svc.Touch(ctx, owner.Identity{ID: "owner-1"})
	require.NoError(t, err)

	require.Error(t, svc.Forget(ctx, "owner-1"))
	_, err = repo.Get(ctx, "owner-1")
	assert.NoError(t, err)
}
