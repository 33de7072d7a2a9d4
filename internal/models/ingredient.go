package models

// Ingredient is a reusable priced ingredient owned by a single user.
// (Name, UserID) is unique per the storage schema.
type Ingredient struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Cost   float64 `json:"cost"`
	Unit   string  `json:"unit"`
	UserID int64   `json:"-"`
}
