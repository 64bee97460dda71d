// Package shoppinglist builds the plain-text shopping list for the recipes
// in a user's cart.
package shoppinglist

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Line is one ingredient row of a recipe, or the summed total of a group.
type Line struct {
	Name   string
	Unit   string
	Amount int
}

// Store reads the cart and the ingredient lines. WithinReadTx gives fn a
// Store bound to one read-only snapshot.
type Store interface {
	CartRecipeIDs(ctx context.Context, userID uint) ([]uint, error)
	IngredientLinesForRecipes(ctx context.Context, recipeIDs []uint) ([]Line, error)
	WithinReadTx(ctx context.Context, fn func(tx Store) error) error
}

type (
	ShoppingListService interface {
		Build(ctx context.Context, userID uint) (string, error)
	}

	shoppingListService struct {
		store Store
	}
)

func NewShoppingListService(store Store) ShoppingListService {
	return &shoppingListService{store: store}
}

func (s *shoppingListService) Build(ctx context.Context, userID uint) (string, error) {
	var lines []Line
	err := s.store.WithinReadTx(ctx, func(tx Store) error {
		ids, err := tx.CartRecipeIDs(ctx, userID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		lines, err = tx.IngredientLinesForRecipes(ctx, ids)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to read shopping cart: %w", err)
	}

	return Render(Aggregate(lines)), nil
}

type groupKey struct {
	name string
	unit string
}

// Aggregate sums amounts per (name, unit) and returns the totals ordered by
// name, then unit. Ingredients sharing a name but not a unit stay separate.
func Aggregate(lines []Line) []Line {
	totals := make(map[groupKey]int, len(lines))
	for _, l := range lines {
		totals[groupKey{name: l.Name, unit: l.Unit}] += l.Amount
	}

	out := make([]Line, 0, len(totals))
	for k, amount := range totals {
		out = append(out, Line{Name: k.name, Unit: k.unit, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Render joins totals as "<name> (<unit>) — <amount>" lines without a
// trailing newline.
func Render(totals []Line) string {
	rows := make([]string, len(totals))
	for i, l := range totals {
		rows[i] = fmt.Sprintf("%s (%s) — %d", l.Name, l.Unit, l.Amount)
	}
	return strings.Join(rows, "\n")
}
