package recipe

import (
	"context"
	"errors"
	"fmt"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/relation"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/shortlink"

	"github.com/gofiber/fiber/v2/log"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest) (domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID, viewerID uint) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uint) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID uint) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, recipeID, userID uint) error

		AddFavorite(ctx context.Context, recipeID, userID uint) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, recipeID, userID uint) error
		GetFavorites(ctx context.Context, userID uint, page domain.PageRequest) (domain.RecipeListResponse, error)

		AddToShoppingCart(ctx context.Context, recipeID, userID uint) (domain.RecipeShort, error)
		RemoveFromShoppingCart(ctx context.Context, recipeID, userID uint) error
		GetShoppingCart(ctx context.Context, userID uint, page domain.PageRequest) (domain.RecipeListResponse, error)
		DownloadShoppingList(ctx context.Context, userID uint) (string, error)

		GetShortLink(ctx context.Context, recipeID uint) (domain.ShortLinkResponse, error)
		// ResolveShortLink returns the recipe id behind code. Malformed codes
		// fail with shortlink.ErrInvalidCharacter or shortlink.ErrOverflow.
		ResolveShortLink(ctx context.Context, code string) (uint, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		shoppingList     shoppinglist.ShoppingListService
		images           storage.ImageStorage
		links            *shortlink.Builder
		favorites        *relation.Toggler[domain.RecipeShort]
		cart             *relation.Toggler[domain.RecipeShort]
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	relations relation.Store,
	shoppingList shoppinglist.ShoppingListService,
	images storage.ImageStorage,
	links *shortlink.Builder,
) RecipeService {
	s := &recipeService{
		recipeRepository: recipeRepository,
		shoppingList:     shoppingList,
		images:           images,
		links:            links,
	}
	s.favorites = relation.NewToggler(relations, relation.Config[domain.RecipeShort]{
		Kind:     relation.KindFavorite,
		Resolve:  s.resolveShort,
		Messages: relation.FavoriteMessages,
	})
	s.cart = relation.NewToggler(relations, relation.Config[domain.RecipeShort]{
		Kind:     relation.KindShoppingCart,
		Resolve:  s.resolveShort,
		Messages: relation.ShoppingCartMessages,
	})
	return s
}

func (s *recipeService) resolveShort(ctx context.Context, id uint) (domain.RecipeShort, error) {
	recipe, err := s.recipeRepository.GetRecipeShort(ctx, id)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	return ToRecipeShort(recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest) (domain.RecipeListResponse, error) {
	// anonymous viewers have no favorites or cart
	if filter.ViewerID == 0 {
		if isTrue(filter.IsFavorited) || isTrue(filter.IsInShoppingCart) {
			return domain.RecipeListResponse{
				Recipes:    []domain.Recipe{},
				Pagination: domain.NewPagination(page, 0),
			}, nil
		}
		filter.IsFavorited = nil
		filter.IsInShoppingCart = nil
	}

	recipes, total, err := s.recipeRepository.GetRecipes(ctx, filter, page)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	out, err := s.present(ctx, filter.ViewerID, recipes...)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	return domain.RecipeListResponse{
		Recipes:    out,
		Pagination: domain.NewPagination(page, total),
	}, nil
}

func isTrue(b *bool) bool {
	return b != nil && *b
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, viewerID uint) (domain.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}

	out, err := s.present(ctx, viewerID, recipe)
	if err != nil {
		return domain.Recipe{}, err
	}
	return out[0], nil
}

func (s *recipeService) present(ctx context.Context, viewerID uint, recipes ...*entities.Recipe) ([]domain.Recipe, error) {
	recipeIDs := make([]uint, len(recipes))
	authorIDs := make([]uint, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		authorIDs[i] = r.AuthorID
	}

	flags, err := s.recipeRepository.GetViewerFlags(ctx, viewerID, recipeIDs, authorIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = ToRecipe(r, flags)
	}
	return out, nil
}

func (s *recipeService) validateRelations(ctx context.Context, ingredients []domain.RecipeIngredientRequest, tags []uint) error {
	if len(ingredients) == 0 {
		return domain.ErrNoIngredients
	}
	ingredientIDs := make([]uint, 0, len(ingredients))
	seen := make(map[uint]bool, len(ingredients))
	for _, in := range ingredients {
		if in.Amount < 1 {
			return domain.ErrInvalidAmount
		}
		if seen[in.ID] {
			return domain.ErrDuplicateIngredient
		}
		seen[in.ID] = true
		ingredientIDs = append(ingredientIDs, in.ID)
	}

	if len(tags) == 0 {
		return domain.ErrNoTags
	}
	seenTags := make(map[uint]bool, len(tags))
	for _, id := range tags {
		if seenTags[id] {
			return domain.ErrDuplicateTag
		}
		seenTags[id] = true
	}

	count, err := s.recipeRepository.CountIngredients(ctx, ingredientIDs)
	if err != nil {
		return err
	}
	if count != int64(len(ingredientIDs)) {
		return domain.ErrUnknownIngredient
	}

	count, err = s.recipeRepository.CountTags(ctx, tags)
	if err != nil {
		return err
	}
	if count != int64(len(tags)) {
		return domain.ErrUnknownTag
	}
	return nil
}

func toLines(ingredients []domain.RecipeIngredientRequest) []*entities.RecipeIngredient {
	lines := make([]*entities.RecipeIngredient, len(ingredients))
	for i, in := range ingredients {
		lines[i] = &entities.RecipeIngredient{IngredientID: in.ID, Amount: in.Amount}
	}
	return lines
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, authorID uint) (domain.Recipe, error) {
	if req.CookingTime < 1 {
		return domain.Recipe{}, domain.ErrInvalidCookingTime
	}
	if req.Image == "" {
		return domain.Recipe{}, domain.ErrImageRequired
	}
	if err := s.validateRelations(ctx, req.Ingredients, req.Tags); err != nil {
		return domain.Recipe{}, err
	}

	imageURL, err := s.images.SaveBase64(ctx, imageFolder, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Image:       imageURL,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: toLines(req.Ingredients),
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, req.Tags); err != nil {
		s.discardImage(ctx, imageURL)
		return domain.Recipe{}, err
	}

	log.Infow("recipe created", "recipe_id", recipe.ID, "author_id", authorID)
	return s.GetRecipeDetail(ctx, recipe.ID, authorID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID uint, req domain.UpdateRecipeRequest, userID uint) (domain.Recipe, error) {
	current, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	if current.AuthorID != userID {
		return domain.Recipe{}, domain.ErrUnauthorizedRecipeAccess
	}

	if req.CookingTime < 0 {
		return domain.Recipe{}, domain.ErrInvalidCookingTime
	}
	if err := s.validateRelations(ctx, req.Ingredients, req.Tags); err != nil {
		return domain.Recipe{}, err
	}

	updated := &entities.Recipe{
		ID:          recipeID,
		AuthorID:    current.AuthorID,
		Name:        firstNonEmpty(req.Name, current.Name),
		Text:        firstNonEmpty(req.Text, current.Text),
		Image:       current.Image,
		CookingTime: current.CookingTime,
		Ingredients: toLines(req.Ingredients),
	}
	if req.CookingTime > 0 {
		updated.CookingTime = req.CookingTime
	}

	oldImage := ""
	if req.Image != "" {
		imageURL, err := s.images.SaveBase64(ctx, imageFolder, req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
		oldImage, updated.Image = current.Image, imageURL
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, updated, req.Tags); err != nil {
		if oldImage != "" {
			s.discardImage(ctx, updated.Image)
		}
		return domain.Recipe{}, err
	}
	if oldImage != "" {
		s.discardImage(ctx, oldImage)
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func (s *recipeService) discardImage(ctx context.Context, url string) {
	if err := s.images.Delete(ctx, url); err != nil {
		log.Warnw("failed to delete recipe image", "url", url, "error", err)
	}
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID uint) error {
	recipe, err := s.recipeRepository.GetRecipeShort(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.discardImage(ctx, recipe.Image)
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, recipeID, userID uint) (domain.RecipeShort, error) {
	return s.favorites.Add(ctx, userID, recipeID)
}

func (s *recipeService) RemoveFavorite(ctx context.Context, recipeID, userID uint) error {
	return s.favorites.Remove(ctx, userID, recipeID)
}

func (s *recipeService) GetFavorites(ctx context.Context, userID uint, page domain.PageRequest) (domain.RecipeListResponse, error) {
	favorited := true
	return s.GetRecipes(ctx, domain.RecipeFilter{ViewerID: userID, IsFavorited: &favorited}, page)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, recipeID, userID uint) (domain.RecipeShort, error) {
	return s.cart.Add(ctx, userID, recipeID)
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, recipeID, userID uint) error {
	return s.cart.Remove(ctx, userID, recipeID)
}

func (s *recipeService) GetShoppingCart(ctx context.Context, userID uint, page domain.PageRequest) (domain.RecipeListResponse, error) {
	inCart := true
	return s.GetRecipes(ctx, domain.RecipeFilter{ViewerID: userID, IsInShoppingCart: &inCart}, page)
}

func (s *recipeService) DownloadShoppingList(ctx context.Context, userID uint) (string, error) {
	return s.shoppingList.Build(ctx, userID)
}

func (s *recipeService) GetShortLink(ctx context.Context, recipeID uint) (domain.ShortLinkResponse, error) {
	if _, err := s.recipeRepository.GetRecipeShort(ctx, recipeID); err != nil {
		return domain.ShortLinkResponse{}, err
	}
	return domain.ShortLinkResponse{ShortLink: s.links.Link(recipeID)}, nil
}

func (s *recipeService) ResolveShortLink(ctx context.Context, code string) (uint, error) {
	id, err := shortlink.Decode(code)
	if err != nil {
		return 0, err
	}
	if id == 0 || uint64(uint(id)) != id {
		return 0, domain.ErrRecipeNotFound
	}

	if _, err := s.recipeRepository.GetRecipeShort(ctx, uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("short link %q: %w", code, err)
		}
		return 0, err
	}
	return uint(id), nil
}
