package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// ViewerFlags holds, for one viewer, which of a page's recipes are
	// favorited or in the cart and which authors are followed.
	ViewerFlags struct {
		Favorited  map[uint]bool
		InCart     map[uint]bool
		Subscribed map[uint]bool
	}

	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uint) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uint) error
		DeleteRecipe(ctx context.Context, id uint) error
		GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipeShort(ctx context.Context, id uint) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest) ([]*entities.Recipe, int64, error)
		GetViewerFlags(ctx context.Context, viewerID uint, recipeIDs, authorIDs []uint) (ViewerFlags, error)
		CountIngredients(ctx context.Context, ids []uint) (int64, error)
		CountTags(ctx context.Context, ids []uint) (int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := recipe.Ingredients
		recipe.Ingredients = nil
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		recipe.Ingredients = lines
		return writeRelations(tx, recipe, tagIDs)
	})
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Recipe{ID: recipe.ID}).
			Omit(clause.Associations).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image":        recipe.Image,
				"cooking_time": recipe.CookingTime,
			}).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe ingredients: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipe.ID).Error; err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		return writeRelations(tx, recipe, tagIDs)
	})
}

func writeRelations(tx *gorm.DB, recipe *entities.Recipe, tagIDs []uint) error {
	for _, line := range recipe.Ingredients {
		line.ID = 0
		line.RecipeID = recipe.ID
	}
	if len(recipe.Ingredients) > 0 {
		if err := tx.Omit(clause.Associations).Create(&recipe.Ingredients).Error; err != nil {
			return fmt.Errorf("failed to save recipe ingredients: %w", err)
		}
	}

	rows := make([]map[string]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, map[string]any{"recipe_id": recipe.ID, "tag_id": id})
	}
	if len(rows) > 0 {
		if err := tx.Table("recipe_tags").Create(rows).Error; err != nil {
			return fmt.Errorf("failed to save recipe tags: %w", err)
		}
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Recipe{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipeShort(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Select("id", "author_id", "name", "image", "cooking_time").
		First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// filtered builds a fresh query per call; gorm chains are not reusable
// between Count and Find.
func (r *recipeRepository) filtered(ctx context.Context, filter domain.RecipeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&entities.Recipe{})

	if len(filter.Tags) > 0 {
		q = q.Where("recipes.id IN (?)", r.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags))
	}
	if filter.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.IsFavorited != nil {
		q = membership(q, *filter.IsFavorited, r.db.
			Model(&entities.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", filter.ViewerID))
	}
	if filter.IsInShoppingCart != nil {
		q = membership(q, *filter.IsInShoppingCart, r.db.
			Model(&entities.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", filter.ViewerID))
	}
	return q
}

func membership(q *gorm.DB, in bool, sub *gorm.DB) *gorm.DB {
	if in {
		return q.Where("recipes.id IN (?)", sub)
	}
	return q.Where("recipes.id NOT IN (?)", sub)
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest) ([]*entities.Recipe, int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []*entities.Recipe
	if err := r.withDetails(r.filtered(ctx, filter)).
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get recipes: %w", err)
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetViewerFlags(ctx context.Context, viewerID uint, recipeIDs, authorIDs []uint) (ViewerFlags, error) {
	flags := ViewerFlags{
		Favorited:  map[uint]bool{},
		InCart:     map[uint]bool{},
		Subscribed: map[uint]bool{},
	}
	if viewerID == 0 {
		return flags, nil
	}

	db := r.db.WithContext(ctx)
	lookups := []struct {
		model  any
		column string
		ids    []uint
		into   map[uint]bool
	}{
		{&entities.Favorite{}, "recipe_id", recipeIDs, flags.Favorited},
		{&entities.ShoppingCart{}, "recipe_id", recipeIDs, flags.InCart},
		{&entities.Subscription{}, "author_id", authorIDs, flags.Subscribed},
	}
	for _, l := range lookups {
		if len(l.ids) == 0 {
			continue
		}
		var found []uint
		if err := db.Model(l.model).
			Where("user_id = ? AND "+l.column+" IN ?", viewerID, l.ids).
			Pluck(l.column, &found).Error; err != nil {
			return flags, fmt.Errorf("failed to get viewer flags: %w", err)
		}
		for _, id := range found {
			l.into[id] = true
		}
	}
	return flags, nil
}

func (r *recipeRepository) CountIngredients(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

func (r *recipeRepository) CountTags(ctx context.Context, ids []uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return count, nil
}
