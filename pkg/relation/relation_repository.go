package relation

import (
	"context"
	"fmt"

	"foodgram/entities"
	"foodgram/internal/utils/pgerror"

	"gorm.io/gorm"
)

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) Store {
	return &relationRepository{db: db}
}

// row returns an empty model for kind and the column holding the target id.
func row(kind Kind) (any, string, error) {
	switch kind {
	case KindFavorite:
		return &entities.Favorite{}, "recipe_id", nil
	case KindShoppingCart:
		return &entities.ShoppingCart{}, "recipe_id", nil
	case KindSubscription:
		return &entities.Subscription{}, "author_id", nil
	default:
		return nil, "", fmt.Errorf("unknown relation kind %q", kind)
	}
}

func (r *relationRepository) RelationExists(ctx context.Context, kind Kind, userID, targetID uint) (bool, error) {
	model, column, err := row(kind)
	if err != nil {
		return false, err
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND "+column+" = ?", userID, targetID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s: %w", kind, err)
	}
	return count > 0, nil
}

func (r *relationRepository) CreateRelation(ctx context.Context, kind Kind, userID, targetID uint) error {
	var record any
	switch kind {
	case KindFavorite:
		record = &entities.Favorite{UserID: userID, RecipeID: targetID}
	case KindShoppingCart:
		record = &entities.ShoppingCart{UserID: userID, RecipeID: targetID}
	case KindSubscription:
		record = &entities.Subscription{UserID: userID, AuthorID: targetID}
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", kind, pgerror.Translate(err))
	}
	return nil
}

func (r *relationRepository) DeleteRelation(ctx context.Context, kind Kind, userID, targetID uint) (int64, error) {
	model, column, err := row(kind)
	if err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", userID, targetID).
		Delete(model)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", kind, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *relationRepository) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&relationRepository{db: tx})
	})
}
