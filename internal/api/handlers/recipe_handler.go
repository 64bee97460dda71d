package handlers

import (
	"fmt"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const shoppingListFilename = "shopping_list.txt"

type (
	RecipeHandler interface {
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		CreateRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error

		AddFavorite(c *fiber.Ctx) error
		RemoveFavorite(c *fiber.Ctx) error
		GetFavorites(c *fiber.Ctx) error

		AddToShoppingCart(c *fiber.Ctx) error
		RemoveFromShoppingCart(c *fiber.Ctx) error
		GetShoppingCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error

		GetShortLink(c *fiber.Ctx) error
		RedirectShortLink(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
		pageSize      int
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate, pageSize int) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
		pageSize:      pageSize,
	}
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	filter := domain.RecipeFilter{
		Tags:             queryAll(c, "tags"),
		AuthorID:         uint(max(c.QueryInt("author", 0), 0)),
		IsFavorited:      optionalBool(c, "is_favorited"),
		IsInShoppingCart: optionalBool(c, "is_in_shopping_cart"),
		ViewerID:         middleware.UserID(c),
	}

	res, err := h.recipeService.GetRecipes(c.Context(), filter, pageRequest(c, h.pageSize))
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipeDetail, err)
	}

	res, err := h.recipeService.GetRecipeDetail(c.Context(), recipeID, middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.CreateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req, middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedUpdateRecipe, err)
	}

	req := new(domain.UpdateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req, middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedDeleteRecipe, err)
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), recipeID, middleware.UserID(c)); err != nil {
		return failed(c, domain.MessageFailedDeleteRecipe, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) AddFavorite(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedAddFavorite, err)
	}

	res, err := h.recipeService.AddFavorite(c.Context(), recipeID, middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedAddFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddFavorite)
}

func (h *recipeHandler) RemoveFavorite(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedRemoveFavorite, err)
	}

	if err := h.recipeService.RemoveFavorite(c.Context(), recipeID, middleware.UserID(c)); err != nil {
		return failed(c, domain.MessageFailedRemoveFavorite, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) GetFavorites(c *fiber.Ctx) error {
	res, err := h.recipeService.GetFavorites(c.Context(), middleware.UserID(c), pageRequest(c, h.pageSize))
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) AddToShoppingCart(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedAddShoppingCart, err)
	}

	res, err := h.recipeService.AddToShoppingCart(c.Context(), recipeID, middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedAddShoppingCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingCart)
}

func (h *recipeHandler) RemoveFromShoppingCart(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedRemoveShoppingCart, err)
	}

	if err := h.recipeService.RemoveFromShoppingCart(c.Context(), recipeID, middleware.UserID(c)); err != nil {
		return failed(c, domain.MessageFailedRemoveShoppingCart, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *recipeHandler) GetShoppingCart(c *fiber.Ctx) error {
	res, err := h.recipeService.GetShoppingCart(c.Context(), middleware.UserID(c), pageRequest(c, h.pageSize))
	if err != nil {
		return failed(c, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	doc, err := h.recipeService.DownloadShoppingList(c.Context(), middleware.UserID(c))
	if err != nil {
		return failed(c, domain.MessageFailedDownloadShoppingList, err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, shoppingListFilename))
	return c.Status(fiber.StatusOK).SendString(doc)
}

func (h *recipeHandler) GetShortLink(c *fiber.Ctx) error {
	recipeID, err := parseID(c, "id")
	if err != nil {
		return failed(c, domain.MessageFailedGetShortLink, err)
	}

	res, err := h.recipeService.GetShortLink(c.Context(), recipeID)
	if err != nil {
		return failed(c, domain.MessageFailedGetShortLink, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShortLink)
}

func (h *recipeHandler) RedirectShortLink(c *fiber.Ctx) error {
	recipeID, err := h.recipeService.ResolveShortLink(c.Context(), c.Params("code"))
	if err != nil {
		return failed(c, domain.MessageFailedResolveShortLink, err)
	}

	return c.Redirect(fmt.Sprintf("/recipes/%d/", recipeID), fiber.StatusFound)
}
