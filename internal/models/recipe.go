package models

import "encoding/json"

// LineItem is a single cost-bearing entry contributing to a recipe's total
// cost: an ingredient usage or a fixed cost such as packaging or labor.
type LineItem struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// Recipe is a costed product owned by a single user. The two line-item
// lists are stored as JSON documents; legacy rows may hold arbitrary text.
type Recipe struct {
	ID            int64      `json:"id"`
	ProductName   string     `json:"productName"`
	Ingredients   []LineItem `json:"ingredients"`
	FixedCosts    []LineItem `json:"fixedCosts"`
	TotalQuantity int        `json:"totalQuantity"`
	ProfitMargin  float64    `json:"profitMargin"`
	UserID        int64      `json:"-"`
}

// DecodeRecipeLineItems parses a recipe's two stored line-item documents
// as a unit. Rows written before the schema was structured may hold text
// that is not a line-item array; if either document is malformed, both
// lists come back nil so the whole row renders with zeroed totals rather
// than mixing one valid list into the financials.
func DecodeRecipeLineItems(rawIngredients, rawFixedCosts []byte) (ingredients, fixedCosts []LineItem) {
	ingredients, err := decodeLineItems(rawIngredients)
	if err != nil {
		return nil, nil
	}
	fixedCosts, err = decodeLineItems(rawFixedCosts)
	if err != nil {
		return nil, nil
	}
	return ingredients, fixedCosts
}

func decodeLineItems(raw []byte) ([]LineItem, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// EncodeLineItems serializes line items for storage. A nil list is stored
// as an empty array rather than JSON null.
func EncodeLineItems(items []LineItem) []byte {
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return []byte("[]")
	}
	return raw
}
