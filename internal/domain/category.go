package domain

import "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"

// Category groups products. Categories may nest through ParentID.
type Category struct {
	docstore.Model `bson:",inline"`
	Name           string `json:"name" bson:"name"`
	Slug           string `json:"slug" bson:"slug"`
	Description    string `json:"description" bson:"description"`
	Image          string `json:"image" bson:"image"`
	Icon           string `json:"icon" bson:"icon"`
	Color          string `json:"color" bson:"color"`
	ParentID       string `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	SortOrder      int    `json:"sort_order" bson:"sort_order"`
	IsActive       bool   `json:"is_active" bson:"is_active"`
	IsDelete       bool   `json:"is_delete" bson:"is_delete"`
}

// Summary returns the fields attached to products that reference c.
func (c *Category) Summary() *CategorySummary {
	return &CategorySummary{ID: c.ID, Name: c.Name, Description: c.Description}
}
