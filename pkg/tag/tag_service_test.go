package tag

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTagRepo struct {
	tags []*entities.Tag
}

func (f *fakeTagRepo) GetTags(context.Context) ([]*entities.Tag, error) {
	return f.tags, nil
}

func (f *fakeTagRepo) GetTagByID(_ context.Context, id uint) (*entities.Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrTagNotFound
}

func (f *fakeTagRepo) FirstOrCreateTag(_ context.Context, tag *entities.Tag) (bool, error) {
	for _, t := range f.tags {
		if t.Slug == tag.Slug {
			*tag = *t
			return false, nil
		}
	}
	tag.ID = uint(len(f.tags) + 1)
	f.tags = append(f.tags, tag)
	return true, nil
}

func TestTagService_GetTag(t *testing.T) {
	svc := NewTagService(&fakeTagRepo{tags: []*entities.Tag{{ID: 1, Name: "Lunch", Slug: "lunch"}}})

	got, err := svc.GetTag(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{ID: 1, Name: "Lunch", Slug: "lunch"}, got)

	_, err = svc.GetTag(context.Background(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagService_ImportIsIdempotent(t *testing.T) {
	repo := &fakeTagRepo{}
	svc := NewTagService(repo)
	ctx := context.Background()
	input := []domain.Tag{{Name: "Breakfast", Slug: "breakfast"}, {Name: " Dinner ", Slug: "dinner"}}

	n, err := svc.ImportTags(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.ImportTags(ctx, input)
	require.NoError(t, err)
	assert.Zero(t, n)

	tags, err := svc.GetTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", tags[1].Name)
}

func TestTagService_ImportRejectsBlank(t *testing.T) {
	_, err := NewTagService(&fakeTagRepo{}).ImportTags(context.Background(), []domain.Tag{{Name: "x"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
