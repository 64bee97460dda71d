package recipe

import (
	"foodgram/domain"
	"foodgram/entities"
)

func ToRecipeShort(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func ToRecipe(r *entities.Recipe, flags ViewerFlags) domain.Recipe {
	out := domain.Recipe{
		ID:               r.ID,
		Tags:             make([]domain.Tag, 0, len(r.Tags)),
		Ingredients:      make([]domain.RecipeIngredient, 0, len(r.Ingredients)),
		IsFavorited:      flags.Favorited[r.ID],
		IsInShoppingCart: flags.InCart[r.ID],
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}

	if r.Author != nil {
		out.Author = domain.UserProfile{
			ID:           r.Author.ID,
			Email:        r.Author.Email,
			Username:     r.Author.Username,
			FirstName:    r.Author.FirstName,
			LastName:     r.Author.LastName,
			Avatar:       r.Author.Avatar,
			IsSubscribed: flags.Subscribed[r.Author.ID],
		}
	}
	for _, t := range r.Tags {
		out.Tags = append(out.Tags, domain.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	for _, line := range r.Ingredients {
		item := domain.RecipeIngredient{ID: line.IngredientID, Amount: line.Amount}
		if line.Ingredient != nil {
			item.Name = line.Ingredient.Name
			item.MeasurementUnit = line.Ingredient.MeasurementUnit
		}
		out.Ingredients = append(out.Ingredients, item)
	}
	return out
}
