package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	IngredientRepository interface {
		// GetIngredients returns ingredients whose name starts with prefix,
		// ignoring case. An empty prefix matches everything.
		GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error)
		// FirstOrCreateIngredient matches on name and reports whether a row was inserted.
		FirstOrCreateIngredient(ctx context.Context, ingredient *entities.Ingredient) (bool, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ingredientRepository) GetIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error) {
	q := r.db.WithContext(ctx).Order("name")
	if prefix != "" {
		q = q.Where("name ILIKE ?", likeEscaper.Replace(prefix)+"%")
	}

	var ingredients []*entities.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uint) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FirstOrCreateIngredient(ctx context.Context, ingredient *entities.Ingredient) (bool, error) {
	result := r.db.WithContext(ctx).
		Where(entities.Ingredient{Name: ingredient.Name}).
		Attrs(entities.Ingredient{MeasurementUnit: ingredient.MeasurementUnit}).
		FirstOrCreate(ingredient)
	if result.Error != nil {
		return false, fmt.Errorf("failed to save ingredient %q: %w", ingredient.Name, result.Error)
	}
	return result.RowsAffected > 0, nil
}
