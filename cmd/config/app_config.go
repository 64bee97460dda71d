package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/shortlink"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code == fiber.StatusInternalServerError {
		log.Errorw("unhandled error", "path", c.Path(), "error", err)
	}
	return presenters.ErrorResponse(c, code, domain.MessageFailedProcessRequest, err)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
}

func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	secret := utils.GetConfig("JWT_SECRET")
	if secret == "" {
		return nil, jwt.ErrMissingSecret
	}

	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:      "foodgram",
		ErrorHandler: errorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(utils.GetConfig("CORS_ALLOW_ORIGINS"))
	validator := utils.Validate
	pageSize := utils.GetConfigInt("PAGE_SIZE", 6)

	// setting up logging and limiter
	file, err := openLogFile(utils.GetConfig("LOG_FILE"))
	if err != nil {
		return nil, err
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	storageCfg := storage.Config{
		Driver:    utils.GetConfig("STORAGE_DRIVER"),
		MediaRoot: utils.GetConfig("MEDIA_ROOT"),
		MediaURL:  utils.GetConfig("MEDIA_URL"),
		S3: storage.S3Config{
			Bucket:    utils.GetConfig("AWS_S3_BUCKET"),
			Region:    utils.GetConfig("AWS_S3_REGION"),
			AccessKey: utils.GetConfig("AWS_ACCESS_KEY"),
			SecretKey: utils.GetConfig("AWS_SECRET_KEY"),
		},
	}
	images, err := storage.New(ctx, storageCfg)
	if err != nil {
		return nil, err
	}
	if storageCfg.Driver != "s3" {
		app.Static(storageCfg.MediaURL, storageCfg.MediaRoot)
	}
	mailer := mailing.NewMailer(mailing.LoadMailConfig())
	links := shortlink.NewBuilder(utils.GetConfig("APP_URL"))

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	relationRepository := relation.NewRelationRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)

	// Service
	jwtService := jwt.NewJWTService(
		secret,
		time.Duration(utils.GetConfigInt("JWT_TTL_MINUTES", 1440))*time.Minute,
		jwt.NewMemoryDenylist(),
	)
	userService := user.NewUserService(userRepository, relationRepository, jwtService, images, mailer, utils.GetConfig("APP_URL"))
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, relationRepository, shoppingListService, images, links)
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator, pageSize)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator, pageSize)
	catalogHandler := handlers.NewCatalogHandler(tagService, ingredientService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
