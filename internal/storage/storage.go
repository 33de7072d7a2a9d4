package storage

import (
	"context"
	"errors"

	"github.com/costcraft/recipecost-be/internal/models"
)

// ErrNotFound indicates a record does not exist or is not owned by the caller.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// Store captures persistence operations needed by handlers. Every
// ingredient and recipe operation is scoped to the owning user id; a row
// owned by someone else behaves exactly like a missing row.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	// DeleteUser removes the user and all owned recipes and ingredients
	// in a single transaction.
	DeleteUser(ctx context.Context, id int64) error

	CreateIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error)
	ListIngredients(ctx context.Context, ownerID int64) ([]models.Ingredient, error)
	DeleteIngredient(ctx context.Context, ownerID, id int64) error

	CreateRecipe(ctx context.Context, rec models.Recipe) (models.Recipe, error)
	ListRecipes(ctx context.Context, ownerID int64) ([]models.Recipe, error)
	DeleteRecipe(ctx context.Context, ownerID, id int64) error

	Close()
}
