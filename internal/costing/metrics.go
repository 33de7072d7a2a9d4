package costing

import "github.com/costcraft/recipecost-be/internal/models"

// Metrics is the dashboard summary over one user's recipe set.
type Metrics struct {
	TotalRecipes         int     `json:"totalRecipes"`
	MostLucrativeProduct *string `json:"mostLucrativeProduct"`
	AverageProfitMargin  float64 `json:"averageProfitMargin"`
}

// Summarize aggregates a user's recipes into dashboard metrics. Recipes
// are visited in input order and unit profits are compared at the same
// 2-decimal precision the API renders, with strict greater-than against a
// running maximum starting at -1: the first recipe reaching the maximum
// wins ties. Callers pass the id-descending list from storage, so ties
// resolve to the most recently created recipe.
func Summarize(recipes []models.Recipe) Metrics {
	m := Metrics{TotalRecipes: len(recipes)}
	if len(recipes) == 0 {
		return m
	}

	highest := -1.0
	var marginSum float64
	for i := range recipes {
		unitProfit := Calculate(recipes[i]).Rounded().UnitProfit
		if unitProfit > highest {
			highest = unitProfit
			m.MostLucrativeProduct = &recipes[i].ProductName
		}
		marginSum += recipes[i].ProfitMargin
	}
	m.AverageProfitMargin = Round2(marginSum / float64(len(recipes)))
	return m
}
