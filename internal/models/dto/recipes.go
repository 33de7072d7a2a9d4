package dto

import (
	"github.com/costcraft/recipecost-be/internal/costing"
	"github.com/costcraft/recipecost-be/internal/models"
)

type CreateIngredientRequest struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
	Unit string  `json:"unit"`
}

type CreateRecipeRequest struct {
	ProductName   string            `json:"productName"`
	Ingredients   []models.LineItem `json:"ingredients"`
	FixedCosts    []models.LineItem `json:"fixedCosts"`
	TotalQuantity int               `json:"totalQuantity"`
	ProfitMargin  float64           `json:"profitMargin"`
}

// RecipeResponse is a stored recipe plus its derived costing figures,
// rounded for presentation.
type RecipeResponse struct {
	models.Recipe
	Calculated costing.Breakdown `json:"calculated"`
}
