package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costcraft/recipecost-be/internal/models"
	"github.com/costcraft/recipecost-be/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func createTestUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), username, "hash")
	require.NoError(t, err)
	return user
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "maria", "bcrypt-hash")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "maria", created.Username)

	_, err = s.CreateUser(ctx, "maria", "other-hash")
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byName, err := s.FindUserByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "bcrypt-hash", byName.PasswordHash)

	byID, err := s.FindUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "maria", byID.Username)

	_, err = s.FindUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngredientRoundTripAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "ana")

	banana, err := s.CreateIngredient(ctx, models.Ingredient{Name: "banana", Cost: 0.5, Unit: "kg", UserID: user.ID})
	require.NoError(t, err)
	apple, err := s.CreateIngredient(ctx, models.Ingredient{Name: "apple", Cost: 1.2, Unit: "kg", UserID: user.ID})
	require.NoError(t, err)

	list, err := s.ListIngredients(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Ordered by name ascending.
	assert.Equal(t, apple, list[0])
	assert.Equal(t, banana, list[1])

	require.NoError(t, s.DeleteIngredient(ctx, user.ID, banana.ID))
	list, err = s.ListIngredients(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "apple", list[0].Name)

	assert.ErrorIs(t, s.DeleteIngredient(ctx, user.ID, banana.ID), storage.ErrNotFound)
}

func TestIngredientUniquenessPerUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")
	bia := createTestUser(t, s, "bia")

	_, err := s.CreateIngredient(ctx, models.Ingredient{Name: "sugar", Cost: 1, Unit: "kg", UserID: ana.ID})
	require.NoError(t, err)

	_, err = s.CreateIngredient(ctx, models.Ingredient{Name: "sugar", Cost: 2, Unit: "kg", UserID: ana.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	// The same name under a different owner is fine.
	_, err = s.CreateIngredient(ctx, models.Ingredient{Name: "sugar", Cost: 3, Unit: "kg", UserID: bia.ID})
	assert.NoError(t, err)
}

func TestIngredientOwnershipScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")
	bia := createTestUser(t, s, "bia")

	ing, err := s.CreateIngredient(ctx, models.Ingredient{Name: "salt", Cost: 0.8, Unit: "kg", UserID: ana.ID})
	require.NoError(t, err)

	// Another user's existing id behaves like a missing row.
	assert.ErrorIs(t, s.DeleteIngredient(ctx, bia.ID, ing.ID), storage.ErrNotFound)

	list, err := s.ListIngredients(ctx, bia.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecipeRoundTripAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "ana")

	first, err := s.CreateRecipe(ctx, models.Recipe{
		ProductName:   "Bolo",
		Ingredients:   []models.LineItem{{Name: "flour", Cost: 2}, {Name: "eggs", Cost: 3}},
		FixedCosts:    []models.LineItem{{Name: "gas", Cost: 1}},
		TotalQuantity: 10,
		ProfitMargin:  25,
		UserID:        user.ID,
	})
	require.NoError(t, err)
	second, err := s.CreateRecipe(ctx, models.Recipe{
		ProductName:   "Torta",
		TotalQuantity: 4,
		ProfitMargin:  10,
		UserID:        user.ID,
	})
	require.NoError(t, err)

	list, err := s.ListRecipes(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Most recent first.
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	assert.Equal(t, []models.LineItem{{Name: "flour", Cost: 2}, {Name: "eggs", Cost: 3}}, list[1].Ingredients)
	assert.Equal(t, []models.LineItem{{Name: "gas", Cost: 1}}, list[1].FixedCosts)
	assert.Equal(t, 10, list[1].TotalQuantity)
	assert.Equal(t, 25.0, list[1].ProfitMargin)

	require.NoError(t, s.DeleteRecipe(ctx, user.ID, first.ID))
	assert.ErrorIs(t, s.DeleteRecipe(ctx, user.ID, first.ID), storage.ErrNotFound)
}

func TestRecipeOwnershipScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")
	bia := createTestUser(t, s, "bia")

	rec, err := s.CreateRecipe(ctx, models.Recipe{ProductName: "Pudim", TotalQuantity: 1, UserID: ana.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteRecipe(ctx, bia.ID, rec.ID), storage.ErrNotFound)

	list, err := s.ListRecipes(ctx, bia.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	ana := createTestUser(t, s, "ana")
	bia := createTestUser(t, s, "bia")

	_, err := s.CreateIngredient(ctx, models.Ingredient{Name: "sugar", Cost: 1, Unit: "kg", UserID: ana.ID})
	require.NoError(t, err)
	_, err = s.CreateRecipe(ctx, models.Recipe{ProductName: "Bolo", TotalQuantity: 1, UserID: ana.ID})
	require.NoError(t, err)
	kept, err := s.CreateIngredient(ctx, models.Ingredient{Name: "sugar", Cost: 2, Unit: "kg", UserID: bia.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, ana.ID))

	_, err = s.FindUserByID(ctx, ana.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ingredients, err := s.ListIngredients(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, ingredients)
	recipes, err := s.ListRecipes(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	// Other users' rows are untouched.
	biaIngredients, err := s.ListIngredients(ctx, bia.ID)
	require.NoError(t, err)
	require.Len(t, biaIngredients, 1)
	assert.Equal(t, kept.ID, biaIngredients[0].ID)

	assert.ErrorIs(t, s.DeleteUser(ctx, ana.ID), storage.ErrNotFound)
}

func TestCorruptLineItemsDecodeToNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "ana")

	// Plant a legacy row whose line-item columns are not valid documents;
	// such rows predate write-time validation.
	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO recipes (product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"Legacy", "not-json", `{"cost": 5}`, 8, 40, user.ID,
	)
	require.NoError(t, err)

	list, err := s.ListRecipes(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Ingredients)
	assert.Nil(t, list[0].FixedCosts)
	assert.Equal(t, "Legacy", list[0].ProductName)
}

func TestPartiallyCorruptLineItemsZeroBothLists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, s, "ana")

	// Only one column is corrupt; the valid fixed-cost list must not
	// survive on its own, or the row would render half its financials.
	_, err := s.DB().ExecContext(ctx,
		`INSERT INTO recipes (product_name, ingredients, fixed_costs, total_quantity, profit_margin, user_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		"Legacy", "corrupted blob", `[{"name":"rent","cost":30}]`, 10, 20, user.ID,
	)
	require.NoError(t, err)

	list, err := s.ListRecipes(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Ingredients)
	assert.Nil(t, list[0].FixedCosts)
}
