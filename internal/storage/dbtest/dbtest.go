// Package dbtest opens a migrated in-memory SQLite database for repository
// tests.
package dbtest

import (
	"fmt"
	"sync/atomic"
	"testing"

	migration "foodgram/cmd/database/migrate"
	"foodgram/entities"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq atomic.Int64

// Open returns a fresh database with every table migrated and foreign keys
// enforced. Each call gets its own database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:foodgram_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// the in-memory database lives as long as one connection holds it
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func User(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	u := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  username,
		Password:  "hash",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Ingredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	i := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(i).Error)
	return i
}

func Tag(t *testing.T, db *gorm.DB, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: slug, Slug: slug}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

// Recipe stores a recipe by author with the given ingredient amounts.
func Recipe(t *testing.T, db *gorm.DB, author *entities.User, name string, amounts map[*entities.Ingredient]int) *entities.Recipe {
	t.Helper()
	r := &entities.Recipe{AuthorID: author.ID, Name: name, Image: "img.png", Text: "text", CookingTime: 10}
	require.NoError(t, db.Omit("Tags", "Ingredients", "Author").Create(r).Error)
	for ing, amount := range amounts {
		require.NoError(t, db.Omit("Ingredient").Create(&entities.RecipeIngredient{
			RecipeID:     r.ID,
			IngredientID: ing.ID,
			Amount:       amount,
		}).Error)
	}
	return r
}
