package ingredient

import (
	"context"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error)
		ImportIngredients(ctx context.Context, ingredients []domain.Ingredient) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{ingredientRepository: ingredientRepository}
}

func toDomain(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (s *ingredientService) GetIngredients(ctx context.Context, name string) ([]domain.Ingredient, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Ingredient, len(ingredients))
	for i, in := range ingredients {
		out[i] = toDomain(in)
	}
	return out, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id uint) (domain.Ingredient, error) {
	in, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return toDomain(in), nil
}

func (s *ingredientService) ImportIngredients(ctx context.Context, ingredients []domain.Ingredient) (int, error) {
	created := 0
	for i, in := range ingredients {
		name, unit := strings.TrimSpace(in.Name), strings.TrimSpace(in.MeasurementUnit)
		if name == "" || unit == "" {
			return created, fmt.Errorf("%w: ingredient %d needs a name and a measurement unit", domain.ErrValidation, i+1)
		}

		isNew, err := s.ingredientRepository.FirstOrCreateIngredient(ctx, &entities.Ingredient{Name: name, MeasurementUnit: unit})
		if err != nil {
			return created, err
		}
		if isNew {
			created++
		}
	}
	return created, nil
}
