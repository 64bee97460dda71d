package tag

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	TagRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id uint) (*entities.Tag, error)
		// FirstOrCreateTag matches on slug and reports whether a row was inserted.
		FirstOrCreateTag(ctx context.Context, tag *entities.Tag) (bool, error)
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	return tags, nil
}

func (r *tagRepository) GetTagByID(ctx context.Context, id uint) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}
	return &tag, nil
}

func (r *tagRepository) FirstOrCreateTag(ctx context.Context, tag *entities.Tag) (bool, error) {
	result := r.db.WithContext(ctx).
		Where(entities.Tag{Slug: tag.Slug}).
		Attrs(entities.Tag{Name: tag.Name}).
		FirstOrCreate(tag)
	if result.Error != nil {
		return false, fmt.Errorf("failed to save tag %q: %w", tag.Slug, result.Error)
	}
	return result.RowsAffected > 0, nil
}
