package recipe

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/storage/dbtest"
	"foodgram/pkg/relation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countRows(t *testing.T, repo *recipeRepository, table string, recipeID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, repo.db.Table(table).Where("recipe_id = ?", recipeID).Count(&n).Error)
	return n
}

func TestRecipeRepository_CreateAndLoad(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	flour := dbtest.Ingredient(t, db, "Flour", "g")
	salt := dbtest.Ingredient(t, db, "Salt", "g")
	breakfast := dbtest.Tag(t, db, "breakfast")
	lunch := dbtest.Tag(t, db, "lunch")

	repo := NewRecipeRepository(db)
	recipe := &entities.Recipe{
		AuthorID:    alice.ID,
		Name:        "bread",
		Image:       "bread.png",
		Text:        "bake it",
		CookingTime: 40,
		Ingredients: []*entities.RecipeIngredient{
			{IngredientID: flour.ID, Amount: 300},
			{IngredientID: salt.ID, Amount: 5},
		},
	}
	require.NoError(t, repo.CreateRecipe(ctx, recipe, []uint{lunch.ID, breakfast.ID}))
	require.NotZero(t, recipe.ID)

	got, err := repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "Flour", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 300, got.Ingredients[0].Amount)

	got.Name = "rye bread"
	got.Ingredients = []*entities.RecipeIngredient{{IngredientID: salt.ID, Amount: 7}}
	require.NoError(t, repo.UpdateRecipe(ctx, got, []uint{lunch.ID}))

	got, err = repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "rye bread", got.Name)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 7, got.Ingredients[0].Amount)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Slug)

	_, err = repo.GetRecipeByID(ctx, recipe.ID+100)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestRecipeRepository_DeleteCascades(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	flour := dbtest.Ingredient(t, db, "Flour", "g")
	tag := dbtest.Tag(t, db, "dinner")

	repo := NewRecipeRepository(db).(*recipeRepository)
	recipe := &entities.Recipe{
		AuthorID: alice.ID, Name: "pie", Image: "pie.png", Text: "t", CookingTime: 5,
		Ingredients: []*entities.RecipeIngredient{{IngredientID: flour.ID, Amount: 100}},
	}
	require.NoError(t, repo.CreateRecipe(ctx, recipe, []uint{tag.ID}))

	relations := relation.NewRelationRepository(db)
	require.NoError(t, relations.CreateRelation(ctx, relation.KindFavorite, alice.ID, recipe.ID))
	require.NoError(t, relations.CreateRelation(ctx, relation.KindShoppingCart, alice.ID, recipe.ID))

	require.NoError(t, repo.DeleteRecipe(ctx, recipe.ID))

	for _, table := range []string{"recipe_ingredients", "recipe_tags", "favorites", "shopping_carts"} {
		assert.Zero(t, countRows(t, repo, table, recipe.ID), table)
	}
	assert.ErrorIs(t, repo.DeleteRecipe(ctx, recipe.ID), domain.ErrRecipeNotFound)
}

func TestRecipeRepository_Filters(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	alice := dbtest.User(t, db, "alice")
	bob := dbtest.User(t, db, "bob")
	breakfast := dbtest.Tag(t, db, "breakfast")
	dinner := dbtest.Tag(t, db, "dinner")

	repo := NewRecipeRepository(db)
	create := func(author *entities.User, name string, tag *entities.Tag) uint {
		r := &entities.Recipe{AuthorID: author.ID, Name: name, Image: "x.png", Text: "t", CookingTime: 1}
		require.NoError(t, repo.CreateRecipe(ctx, r, []uint{tag.ID}))
		return r.ID
	}
	eggs := create(alice, "eggs", breakfast)
	steak := create(bob, "steak", dinner)
	toast := create(bob, "toast", breakfast)

	relations := relation.NewRelationRepository(db)
	require.NoError(t, relations.CreateRelation(ctx, relation.KindFavorite, alice.ID, toast))
	require.NoError(t, relations.CreateRelation(ctx, relation.KindShoppingCart, alice.ID, steak))
	require.NoError(t, relations.CreateRelation(ctx, relation.KindSubscription, alice.ID, bob.ID))

	ids := func(filter domain.RecipeFilter) []uint {
		recipes, total, err := repo.GetRecipes(ctx, filter, domain.PageRequest{Page: 1, Limit: 10})
		require.NoError(t, err)
		out := make([]uint, len(recipes))
		for i, r := range recipes {
			out[i] = r.ID
		}
		assert.EqualValues(t, len(out), total)
		return out
	}

	yes, no := true, false
	assert.Equal(t, []uint{toast, steak, eggs}, ids(domain.RecipeFilter{}))
	assert.Equal(t, []uint{toast, eggs}, ids(domain.RecipeFilter{Tags: []string{"breakfast"}}))
	assert.Equal(t, []uint{toast, steak}, ids(domain.RecipeFilter{AuthorID: bob.ID}))
	assert.Equal(t, []uint{toast}, ids(domain.RecipeFilter{ViewerID: alice.ID, IsFavorited: &yes}))
	assert.Equal(t, []uint{toast, eggs}, ids(domain.RecipeFilter{ViewerID: alice.ID, IsInShoppingCart: &no}))

	recipes, total, err := repo.GetRecipes(ctx, domain.RecipeFilter{}, domain.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, recipes, 1)
	assert.Equal(t, eggs, recipes[0].ID)

	flags, err := repo.GetViewerFlags(ctx, alice.ID, []uint{eggs, steak, toast}, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{toast: true}, flags.Favorited)
	assert.Equal(t, map[uint]bool{steak: true}, flags.InCart)
	assert.Equal(t, map[uint]bool{bob.ID: true}, flags.Subscribed)

	count, err := repo.CountTags(ctx, []uint{breakfast.ID, dinner.ID, 99})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
