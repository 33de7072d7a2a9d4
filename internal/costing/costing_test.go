package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costcraft/recipecost-be/internal/models"
)

func TestCalculateDerivesAllFigures(t *testing.T) {
	r := models.Recipe{
		ProductName: "Brigadeiro",
		Ingredients: []models.LineItem{
			{Name: "condensed milk", Cost: 2.5},
			{Name: "cocoa", Cost: 1.5},
		},
		FixedCosts: []models.LineItem{
			{Name: "gas", Cost: 1.0},
		},
		TotalQuantity: 10,
		ProfitMargin:  20,
	}

	b := Calculate(r)
	assert.InDelta(t, 5.0, b.TotalCost, 1e-9)
	assert.InDelta(t, 0.5, b.UnitCost, 1e-9)
	assert.InDelta(t, 0.1, b.UnitProfit, 1e-9)
	assert.InDelta(t, 0.6, b.UnitPrice, 1e-9)
	assert.InDelta(t, 6.0, b.TotalRevenue, 1e-9)
	assert.InDelta(t, 1.0, b.TotalProfit, 1e-9)
}

func TestCalculateZeroQuantityYieldsAllZeros(t *testing.T) {
	r := models.Recipe{
		Ingredients:   []models.LineItem{{Name: "flour", Cost: 3}},
		FixedCosts:    []models.LineItem{{Name: "packaging", Cost: 2}},
		TotalQuantity: 0,
		ProfitMargin:  50,
	}
	assert.Equal(t, Breakdown{}, Calculate(r))
}

func TestCalculateTotalCostIsSumOfBothLists(t *testing.T) {
	r := models.Recipe{
		Ingredients: []models.LineItem{
			{Name: "a", Cost: 1.25},
			{Name: "b", Cost: 2.75},
		},
		FixedCosts: []models.LineItem{
			{Name: "c", Cost: 0.5},
			{Name: "d", Cost: 1.5},
		},
		TotalQuantity: 2,
		ProfitMargin:  0,
	}

	b := Calculate(r)
	var ingredientTotal, fixedTotal float64
	for _, item := range r.Ingredients {
		ingredientTotal += item.Cost
	}
	for _, item := range r.FixedCosts {
		fixedTotal += item.Cost
	}
	assert.Equal(t, ingredientTotal+fixedTotal, b.TotalCost)
	// Zero margin: price equals cost, profit is zero.
	assert.Equal(t, b.UnitCost, b.UnitPrice)
	assert.Zero(t, b.UnitProfit)
}

func TestCalculateEmptyListsFromCorruptRow(t *testing.T) {
	// Storage decodes malformed line-item documents to nil; the
	// breakdown must come out all zeros even with a positive quantity.
	ingredients, fixedCosts := models.DecodeRecipeLineItems(
		[]byte("not json at all"), []byte(`{"cost": 5}`))
	r := models.Recipe{
		Ingredients:   ingredients,
		FixedCosts:    fixedCosts,
		TotalQuantity: 12,
		ProfitMargin:  30,
	}
	require.Nil(t, r.Ingredients)
	require.Nil(t, r.FixedCosts)
	assert.Equal(t, Breakdown{}, Calculate(r))
}

func TestDecodeRecipeLineItemsIsAllOrNothing(t *testing.T) {
	valid := []byte(`[{"name":"rent","cost":30}]`)
	corrupt := []byte("corrupted blob")

	// One malformed document poisons both lists.
	ingredients, fixedCosts := models.DecodeRecipeLineItems(corrupt, valid)
	assert.Nil(t, ingredients)
	assert.Nil(t, fixedCosts)

	ingredients, fixedCosts = models.DecodeRecipeLineItems(valid, corrupt)
	assert.Nil(t, ingredients)
	assert.Nil(t, fixedCosts)

	ingredients, fixedCosts = models.DecodeRecipeLineItems(valid, valid)
	assert.Equal(t, []models.LineItem{{Name: "rent", Cost: 30}}, ingredients)
	assert.Equal(t, []models.LineItem{{Name: "rent", Cost: 30}}, fixedCosts)
}

func TestRoundedAppliesTwoDecimalsOnly(t *testing.T) {
	r := models.Recipe{
		Ingredients:   []models.LineItem{{Name: "a", Cost: 1}},
		TotalQuantity: 3,
		ProfitMargin:  10,
	}
	b := Calculate(r)
	// Exact value stays unrounded until presentation.
	assert.InDelta(t, 1.0/3.0, b.UnitCost, 1e-12)

	rounded := b.Rounded()
	assert.Equal(t, 0.33, rounded.UnitCost)
	assert.Equal(t, 0.03, rounded.UnitProfit)
	assert.Equal(t, 0.37, rounded.UnitPrice)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 16.67, Round2(50.0/3.0))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -1.23, Round2(-1.2349))
}
