package ingredient

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIngredientRepo struct {
	items      []*entities.Ingredient
	lastPrefix string
}

func (f *fakeIngredientRepo) GetIngredients(_ context.Context, prefix string) ([]*entities.Ingredient, error) {
	f.lastPrefix = prefix
	var out []*entities.Ingredient
	for _, in := range f.items {
		if strings.HasPrefix(strings.ToLower(in.Name), strings.ToLower(prefix)) {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeIngredientRepo) GetIngredientByID(_ context.Context, id uint) (*entities.Ingredient, error) {
	for _, in := range f.items {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, domain.ErrIngredientNotFound
}

func (f *fakeIngredientRepo) FirstOrCreateIngredient(_ context.Context, in *entities.Ingredient) (bool, error) {
	for _, existing := range f.items {
		if existing.Name == in.Name {
			*in = *existing
			return false, nil
		}
	}
	in.ID = uint(len(f.items) + 1)
	f.items = append(f.items, in)
	return true, nil
}

func TestIngredientService_PrefixSearch(t *testing.T) {
	repo := &fakeIngredientRepo{items: []*entities.Ingredient{
		{ID: 1, Name: "Flour", MeasurementUnit: "g"},
		{ID: 2, Name: "flaxseed", MeasurementUnit: "g"},
		{ID: 3, Name: "Salt", MeasurementUnit: "g"},
	}}
	svc := NewIngredientService(repo)

	got, err := svc.GetIngredients(context.Background(), "  FL ")
	require.NoError(t, err)
	assert.Equal(t, "FL", repo.lastPrefix)
	assert.Len(t, got, 2)
}

func TestIngredientService_GetIngredient(t *testing.T) {
	svc := NewIngredientService(&fakeIngredientRepo{})

	_, err := svc.GetIngredient(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngredientService_Import(t *testing.T) {
	svc := NewIngredientService(&fakeIngredientRepo{})
	ctx := context.Background()
	input := []domain.Ingredient{{Name: "Flour", MeasurementUnit: "g"}, {Name: "Milk", MeasurementUnit: "ml"}}

	n, err := svc.ImportIngredients(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.ImportIngredients(ctx, append(input, domain.Ingredient{Name: "Egg", MeasurementUnit: "pcs"}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.ImportIngredients(ctx, []domain.Ingredient{{Name: "Sugar"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
