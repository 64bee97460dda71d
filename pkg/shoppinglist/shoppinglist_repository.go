package shoppinglist

import (
	"context"
	"database/sql"
	"fmt"

	"foodgram/entities"

	"gorm.io/gorm"
)

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) Store {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) CartRecipeIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ?", userID).
		Order("recipe_id").
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart recipes: %w", err)
	}
	return ids, nil
}

func (r *shoppingListRepository) IngredientLinesForRecipes(ctx context.Context, recipeIDs []uint) ([]Line, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	var lines []Line
	if err := r.db.WithContext(ctx).
		Table("recipe_ingredients AS ri").
		Select("i.name AS name, i.measurement_unit AS unit, ri.amount AS amount").
		Joins("JOIN ingredients AS i ON i.id = ri.ingredient_id").
		Where("ri.recipe_id IN ?", recipeIDs).
		Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredient lines: %w", err)
	}
	return lines, nil
}

func (r *shoppingListRepository) WithinReadTx(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&shoppingListRepository{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
}
