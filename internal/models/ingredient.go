package models

import "time"

// Ingredient is a catalog entry: a name plus the unit its amounts are
// measured in (e.g. "g", "ml"). Reference data, shared by many recipes.
type Ingredient struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Unit      string    `json:"unit" db:"unit"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
