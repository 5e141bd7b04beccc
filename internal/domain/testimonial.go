package domain

import "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Testimonial is a customer quote shown on the storefront.
type Testimonial struct {
	docstore.Model `bson:",inline"`
	Name           string `json:"name" bson:"name"`
	Content        string `json:"content" bson:"content"`
	Rating         int    `json:"rating" bson:"rating"`
	Avatar         string `json:"avatar" bson:"avatar"`
	Position       string `json:"position" bson:"position"`
	Company        string `json:"company" bson:"company"`
	SortOrder      int    `json:"sort_order" bson:"sort_order"`
	IsActive       bool   `json:"is_active" bson:"is_active"`
	IsDelete       bool   `json:"is_delete" bson:"is_delete"`
}
