package relation_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"foodgram/domain"
	"foodgram/internal/storage/memory"
	"foodgram/pkg/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipe struct {
	ID   uint
	Name string
}

func resolver(known ...uint) func(context.Context, uint) (recipe, error) {
	set := make(map[uint]bool, len(known))
	for _, id := range known {
		set[id] = true
	}
	return func(_ context.Context, id uint) (recipe, error) {
		if !set[id] {
			return recipe{}, domain.ErrRecipeNotFound
		}
		return recipe{ID: id, Name: fmt.Sprintf("recipe %d", id)}, nil
	}
}

func favorites(store relation.Store, known ...uint) *relation.Toggler[recipe] {
	return relation.NewToggler(store, relation.Config[recipe]{
		Kind:     relation.KindFavorite,
		Resolve:  resolver(known...),
		Messages: relation.FavoriteMessages,
	})
}

func subscriptions(store relation.Store, known ...uint) *relation.Toggler[recipe] {
	return relation.NewToggler(store, relation.Config[recipe]{
		Kind:       relation.KindSubscription,
		Resolve:    resolver(known...),
		Messages:   relation.SubscriptionMessages,
		ForbidSelf: true,
	})
}

// staleStore never sees an existing row, so a duplicate only surfaces at
// insert time, as it does when two requests race.
type staleStore struct {
	*memory.Store
}

func (s staleStore) RelationExists(context.Context, relation.Kind, uint, uint) (bool, error) {
	return false, nil
}

func (s staleStore) WithinTx(ctx context.Context, fn func(tx relation.Store) error) error {
	return s.Store.WithinTx(ctx, func(relation.Store) error { return fn(s) })
}

func TestToggler_AddReturnsTarget(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)

	got, err := toggler.Add(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, recipe{ID: 7, Name: "recipe 7"}, got)
	assert.Equal(t, 1, store.Count(relation.KindFavorite))
}

func TestToggler_AddTwice(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)
	ctx := context.Background()

	_, err := toggler.Add(ctx, 1, 7)
	require.NoError(t, err)

	_, err = toggler.Add(ctx, 1, 7)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	var relErr *relation.Error
	require.True(t, errors.As(err, &relErr))
	assert.Equal(t, relation.KindFavorite, relErr.Kind)
	assert.Equal(t, relation.FavoriteMessages.AlreadyExists, relErr.Error())
	assert.Equal(t, 1, store.Count(relation.KindFavorite))
}

func TestToggler_KindsAreIndependent(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	cart := relation.NewToggler(store, relation.Config[recipe]{
		Kind:     relation.KindShoppingCart,
		Resolve:  resolver(7),
		Messages: relation.ShoppingCartMessages,
	})

	_, err := favorites(store, 7).Add(ctx, 1, 7)
	require.NoError(t, err)
	_, err = cart.Add(ctx, 1, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, store.Count(relation.KindFavorite))
	assert.Equal(t, 1, store.Count(relation.KindShoppingCart))
}

func TestToggler_RemoveMissing(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)

	err := toggler.Remove(context.Background(), 1, 7)
	require.ErrorIs(t, err, domain.ErrRelationNotFound)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.EqualError(t, err, relation.FavoriteMessages.Missing)
}

func TestToggler_AddThenRemove(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)
	ctx := context.Background()

	_, err := toggler.Add(ctx, 1, 7)
	require.NoError(t, err)
	require.NoError(t, toggler.Remove(ctx, 1, 7))
	assert.Zero(t, store.Count(relation.KindFavorite))

	// a removed relation can be added again
	_, err = toggler.Add(ctx, 1, 7)
	require.NoError(t, err)
}

func TestToggler_MissingTarget(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)
	ctx := context.Background()

	_, err := toggler.Add(ctx, 1, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = toggler.Remove(ctx, 1, 99)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, store.Count(relation.KindFavorite))
}

func TestToggler_SelfSubscription(t *testing.T) {
	store := memory.New()
	toggler := subscriptions(store, 3, 4)
	ctx := context.Background()

	_, err := toggler.Add(ctx, 3, 3)
	require.ErrorIs(t, err, domain.ErrSelfReference)
	assert.EqualError(t, err, relation.SubscriptionMessages.SelfReference)

	// self check runs before the existence check
	require.NoError(t, store.CreateRelation(ctx, relation.KindSubscription, 3, 3))
	_, err = toggler.Add(ctx, 3, 3)
	require.ErrorIs(t, err, domain.ErrSelfReference)

	_, err = toggler.Add(ctx, 3, 4)
	require.NoError(t, err)
}

func TestToggler_SelfAllowedForRecipes(t *testing.T) {
	toggler := favorites(memory.New(), 5)

	_, err := toggler.Add(context.Background(), 5, 5)
	require.NoError(t, err)
}

func TestToggler_DuplicateInsertBecomesAlreadyExists(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.CreateRelation(ctx, relation.KindFavorite, 1, 7))

	_, err := favorites(staleStore{store}, 7).Add(ctx, 1, 7)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, 1, store.Count(relation.KindFavorite))
}

func TestToggler_ConcurrentAdds(t *testing.T) {
	store := memory.New()
	toggler := favorites(store, 7)
	ctx := context.Background()

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, dups int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := toggler.Add(ctx, 1, 7)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrAlreadyExists):
				dups++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, dups)
	assert.Equal(t, 1, store.Count(relation.KindFavorite))
}

func TestToggler_FailedTxRollsBack(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(tx relation.Store) error {
		require.NoError(t, tx.CreateRelation(ctx, relation.KindFavorite, 1, 7))
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Zero(t, store.Count(relation.KindFavorite))
}
