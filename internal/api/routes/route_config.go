package routes

import (
	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Catalog()
	c.Recipe()
	c.ShortLink()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) optionalAuth() fiber.Handler {
	return c.Middleware.OptionalAuthMiddleware(c.JWTService)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
	})
}

func (c *Config) Auth() {
	token := c.App.Group("/api/auth/token")
	token.Post("/login", c.UserHandler.Login)
	token.Post("/logout", c.auth(), c.UserHandler.Logout)
}

func (c *Config) User() {
	user := c.App.Group("/api/users")
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", c.optionalAuth(), c.UserHandler.GetUsers)
		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Put("/me/avatar", c.auth(), c.UserHandler.UpdateAvatar)
		user.Delete("/me/avatar", c.auth(), c.UserHandler.DeleteAvatar)
		user.Post("/set_password", c.auth(), c.UserHandler.SetPassword)
		user.Get("/subscriptions", c.auth(), c.UserHandler.GetSubscriptions)
		user.Get("/:id", c.optionalAuth(), c.UserHandler.GetUser)
		user.Post("/:id/subscribe", c.auth(), c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", c.auth(), c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.CatalogHandler.GetTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipe() {
	c.App.Get("/api/favorites", c.auth(), c.RecipeHandler.GetFavorites)
	c.App.Get("/api/shopping_cart", c.auth(), c.RecipeHandler.GetShoppingCart)

	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("/", c.optionalAuth(), c.RecipeHandler.GetRecipes)
		recipes.Post("/", c.auth(), c.RecipeHandler.CreateRecipe)
		// must precede /:id
		recipes.Get("/download_shopping_cart", c.auth(), c.RecipeHandler.DownloadShoppingCart)

		recipes.Get("/:id", c.optionalAuth(), c.RecipeHandler.GetRecipeDetail)
		recipes.Patch("/:id", c.auth(), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.auth(), c.RecipeHandler.DeleteRecipe)
		recipes.Get("/:id/get-link", c.RecipeHandler.GetShortLink)
		recipes.Post("/:id/favorite", c.auth(), c.RecipeHandler.AddFavorite)
		recipes.Delete("/:id/favorite", c.auth(), c.RecipeHandler.RemoveFavorite)
		recipes.Post("/:id/shopping_cart", c.auth(), c.RecipeHandler.AddToShoppingCart)
		recipes.Delete("/:id/shopping_cart", c.auth(), c.RecipeHandler.RemoveFromShoppingCart)
	}
}

func (c *Config) ShortLink() {
	c.App.Get("/r/:code", c.RecipeHandler.RedirectShortLink)
}
