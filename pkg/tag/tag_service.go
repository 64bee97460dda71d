package tag

import (
	"context"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id uint) (domain.Tag, error)
		// ImportTags stores tags not seen before and returns how many were new.
		ImportTags(ctx context.Context, tags []domain.Tag) (int, error)
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func toDomain(t *entities.Tag) domain.Tag {
	return domain.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Tag, len(tags))
	for i, t := range tags {
		out[i] = toDomain(t)
	}
	return out, nil
}

func (s *tagService) GetTag(ctx context.Context, id uint) (domain.Tag, error) {
	t, err := s.tagRepository.GetTagByID(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	return toDomain(t), nil
}

func (s *tagService) ImportTags(ctx context.Context, tags []domain.Tag) (int, error) {
	created := 0
	for i, t := range tags {
		name, slug := strings.TrimSpace(t.Name), strings.TrimSpace(t.Slug)
		if name == "" || slug == "" {
			return created, fmt.Errorf("%w: tag %d needs a name and a slug", domain.ErrValidation, i+1)
		}

		isNew, err := s.tagRepository.FirstOrCreateTag(ctx, &entities.Tag{Name: name, Slug: slug})
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}
