package relation_test

import (
	"context"
	"errors"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/storage/dbtest"
	"foodgram/pkg/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blindStore hides existing rows from RelationExists so the unique index is
// the only thing that can reject a repeated insert.
type blindStore struct {
	relation.Store
}

func (s blindStore) RelationExists(context.Context, relation.Kind, uint, uint) (bool, error) {
	return false, nil
}

func (s blindStore) WithinTx(ctx context.Context, fn func(tx relation.Store) error) error {
	return s.Store.WithinTx(ctx, func(tx relation.Store) error { return fn(blindStore{tx}) })
}

func TestRelationRepository_KindsUseTheirColumns(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	bob := dbtest.User(t, db, "bob")
	pie := dbtest.Recipe(t, db, bob, "pie", nil)
	require.NotEqual(t, pie.ID, bob.ID)

	repo := relation.NewRelationRepository(db)
	require.NoError(t, repo.CreateRelation(ctx, relation.KindFavorite, alice.ID, pie.ID))
	require.NoError(t, repo.CreateRelation(ctx, relation.KindShoppingCart, alice.ID, pie.ID))
	require.NoError(t, repo.CreateRelation(ctx, relation.KindSubscription, alice.ID, bob.ID))

	var fav entities.Favorite
	require.NoError(t, db.First(&fav).Error)
	assert.Equal(t, alice.ID, fav.UserID)
	assert.Equal(t, pie.ID, fav.RecipeID)

	var sub entities.Subscription
	require.NoError(t, db.First(&sub).Error)
	assert.Equal(t, bob.ID, sub.AuthorID)

	cases := []struct {
		kind   relation.Kind
		target uint
		want   bool
	}{
		{relation.KindFavorite, pie.ID, true},
		{relation.KindFavorite, bob.ID, false},
		{relation.KindShoppingCart, pie.ID, true},
		{relation.KindSubscription, bob.ID, true},
		{relation.KindSubscription, pie.ID, false},
	}
	for _, tc := range cases {
		ok, err := repo.RelationExists(ctx, tc.kind, alice.ID, tc.target)
		require.NoError(t, err)
		assert.Equal(t, tc.want, ok, "%s -> %d", tc.kind, tc.target)
	}
}

func TestRelationRepository_DuplicateInsert(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	pie := dbtest.Recipe(t, db, alice, "pie", nil)

	repo := relation.NewRelationRepository(db)
	require.NoError(t, repo.CreateRelation(ctx, relation.KindShoppingCart, alice.ID, pie.ID))

	err := repo.CreateRelation(ctx, relation.KindShoppingCart, alice.ID, pie.ID)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRelationRepository_UniqueViolationBecomesAlreadyExists(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	pie := dbtest.Recipe(t, db, alice, "pie", nil)

	repo := relation.NewRelationRepository(db)
	toggler := favorites(blindStore{repo}, pie.ID)

	_, err := toggler.Add(ctx, alice.ID, pie.ID)
	require.NoError(t, err)

	_, err = toggler.Add(ctx, alice.ID, pie.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.EqualError(t, err, relation.FavoriteMessages.AlreadyExists)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRelationRepository_DeleteAndRollback(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	bob := dbtest.User(t, db, "bob")

	repo := relation.NewRelationRepository(db)
	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(tx relation.Store) error {
		require.NoError(t, tx.CreateRelation(ctx, relation.KindSubscription, alice.ID, bob.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	ok, err := repo.RelationExists(ctx, relation.KindSubscription, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.CreateRelation(ctx, relation.KindSubscription, alice.ID, bob.ID))
	n, err := repo.DeleteRelation(ctx, relation.KindSubscription, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.DeleteRelation(ctx, relation.KindSubscription, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
