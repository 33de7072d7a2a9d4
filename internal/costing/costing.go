// Package costing turns stored recipe records into derived cost, price,
// and profit figures, and aggregates them into dashboard metrics. All
// functions are pure; nothing here touches storage.
package costing

import (
	"math"

	"github.com/costcraft/recipecost-be/internal/models"
)

// Breakdown holds the derived figures for one recipe. Values are exact
// (unrounded); call Rounded before serializing.
type Breakdown struct {
	TotalCost    float64 `json:"totalCost"`
	UnitCost     float64 `json:"unitCost"`
	UnitProfit   float64 `json:"unitProfit"`
	UnitPrice    float64 `json:"unitPrice"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalProfit  float64 `json:"totalProfit"`
}

// Calculate derives the six costing figures from a recipe's line items.
// A recipe producing zero units yields an all-zero breakdown, total cost
// included.
func Calculate(r models.Recipe) Breakdown {
	var b Breakdown
	for _, item := range r.Ingredients {
		b.TotalCost += item.Cost
	}
	for _, item := range r.FixedCosts {
		b.TotalCost += item.Cost
	}
	if r.TotalQuantity <= 0 {
		return Breakdown{}
	}
	b.UnitCost = b.TotalCost / float64(r.TotalQuantity)
	b.UnitProfit = b.UnitCost * (r.ProfitMargin / 100)
	b.UnitPrice = b.UnitCost + b.UnitProfit
	b.TotalRevenue = b.UnitPrice * float64(r.TotalQuantity)
	b.TotalProfit = b.UnitProfit * float64(r.TotalQuantity)
	return b
}

// Rounded returns a copy with every figure rounded to 2 decimal places.
// Rounding happens only at the response boundary.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		TotalCost:    Round2(b.TotalCost),
		UnitCost:     Round2(b.UnitCost),
		UnitProfit:   Round2(b.UnitProfit),
		UnitPrice:    Round2(b.UnitPrice),
		TotalRevenue: Round2(b.TotalRevenue),
		TotalProfit:  Round2(b.TotalProfit),
	}
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
