package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"foodgram/domain"
	"foodgram/internal/api/presenters"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"
	"foodgram/pkg/shortlink"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRecipeService implements only what the tests below call.
type fakeRecipeService struct {
	recipe.RecipeService

	lastFilter domain.RecipeFilter
	lastPage   domain.PageRequest
	favorites  map[uint]bool
}

func (f *fakeRecipeService) GetRecipes(_ context.Context, filter domain.RecipeFilter, page domain.PageRequest) (domain.RecipeListResponse, error) {
	f.lastFilter, f.lastPage = filter, page
	return domain.RecipeListResponse{Recipes: []domain.Recipe{}, Pagination: domain.NewPagination(page, 0)}, nil
}

func (f *fakeRecipeService) AddFavorite(_ context.Context, recipeID, _ uint) (domain.RecipeShort, error) {
	if recipeID != 10 {
		return domain.RecipeShort{}, domain.ErrRecipeNotFound
	}
	if f.favorites[recipeID] {
		return domain.RecipeShort{}, &relation.Error{Kind: relation.KindFavorite, Message: relation.FavoriteMessages.AlreadyExists, Err: domain.ErrAlreadyExists}
	}
	f.favorites[recipeID] = true
	return domain.RecipeShort{ID: 10, Name: "Bread", CookingTime: 60}, nil
}

func (f *fakeRecipeService) DeleteRecipe(_ context.Context, recipeID, userID uint) error {
	if userID != 1 {
		return domain.ErrUnauthorizedRecipeAccess
	}
	return nil
}

func (f *fakeRecipeService) DownloadShoppingList(context.Context, uint) (string, error) {
	return "Flour (g) — 300\nSalt (g) — 5", nil
}

func (f *fakeRecipeService) ResolveShortLink(_ context.Context, code string) (uint, error) {
	id, err := shortlink.Decode(code)
	if err != nil {
		return 0, err
	}
	if id != 10 {
		return 0, domain.ErrRecipeNotFound
	}
	return uint(id), nil
}

// asUser stands in for the auth middleware.
func asUser(id uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id != 0 {
			c.Locals(middleware.LocalsUserID, id)
		}
		return c.Next()
	}
}

func newRecipeApp(svc *fakeRecipeService, userID uint) *fiber.App {
	utils.InitValidator()
	h := NewRecipeHandler(svc, utils.Validate, domain.DefaultPageSize)

	app := fiber.New()
	app.Get("/r/:code", h.RedirectShortLink)
	api := app.Group("/api/recipes", asUser(userID))
	api.Get("/", h.GetRecipes)
	api.Get("/download_shopping_cart", h.DownloadShoppingCart)
	api.Delete("/:id", h.DeleteRecipe)
	api.Post("/:id/favorite", h.AddFavorite)
	return app
}

func decode(t *testing.T, body io.Reader) presenters.Response {
	t.Helper()
	var res presenters.Response
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestRecipeHandler_GetRecipesParsesFilters(t *testing.T) {
	svc := &fakeRecipeService{}
	app := newRecipeApp(svc, 5)

	req := httptest.NewRequest(fiber.MethodGet, "/api/recipes?tags=breakfast&tags=dinner&author=3&is_favorited=1&is_in_shopping_cart=false&page=2&limit=500", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, []string{"breakfast", "dinner"}, svc.lastFilter.Tags)
	assert.Equal(t, uint(3), svc.lastFilter.AuthorID)
	assert.Equal(t, uint(5), svc.lastFilter.ViewerID)
	require.NotNil(t, svc.lastFilter.IsFavorited)
	assert.True(t, *svc.lastFilter.IsFavorited)
	require.NotNil(t, svc.lastFilter.IsInShoppingCart)
	assert.False(t, *svc.lastFilter.IsInShoppingCart)
	assert.Equal(t, domain.PageRequest{Page: 2, Limit: domain.MaxPageSize}, svc.lastPage)
}

func TestRecipeHandler_DefaultPage(t *testing.T) {
	svc := &fakeRecipeService{}
	app := newRecipeApp(svc, 0)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/recipes", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, domain.PageRequest{Page: 1, Limit: domain.DefaultPageSize}, svc.lastPage)
	assert.Nil(t, svc.lastFilter.IsFavorited)
	assert.Zero(t, svc.lastFilter.ViewerID)
}

func TestRecipeHandler_AddFavorite(t *testing.T) {
	svc := &fakeRecipeService{favorites: map[uint]bool{}}
	app := newRecipeApp(svc, 5)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/recipes/10/favorite", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/recipes/10/favorite", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp.Body)
	assert.Equal(t, relation.FavoriteMessages.AlreadyExists, body.Error)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/recipes/11/favorite", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/recipes/abc/favorite", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecipeHandler_DeleteRecipe(t *testing.T) {
	resp, err := newRecipeApp(&fakeRecipeService{}, 1).Test(httptest.NewRequest(fiber.MethodDelete, "/api/recipes/10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = newRecipeApp(&fakeRecipeService{}, 2).Test(httptest.NewRequest(fiber.MethodDelete, "/api/recipes/10", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRecipeHandler_DownloadShoppingCart(t *testing.T) {
	app := newRecipeApp(&fakeRecipeService{}, 5)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/recipes/download_shopping_cart", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get(fiber.HeaderContentType))
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, resp.Header.Get(fiber.HeaderContentDisposition))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Flour (g) — 300\nSalt (g) — 5", string(body))
}

func TestRecipeHandler_RedirectShortLink(t *testing.T) {
	app := newRecipeApp(&fakeRecipeService{}, 0)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/r/a/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/recipes/10/", resp.Header.Get(fiber.HeaderLocation))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/r/a-b", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/r/b", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
