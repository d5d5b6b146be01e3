package models

// Tag categorizes recipes. Name, color and slug are all unique.
type Tag struct {
	ID    int64  `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color" db:"color"`
	Slug  string `json:"slug" db:"slug"`
}
