package domain

import "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"

// FeaturedBox is a curated gift box promoted on the home page.
type FeaturedBox struct {
	docstore.Model `bson:",inline"`
	Name           string   `json:"name" bson:"name"`
	Slug           string   `json:"slug" bson:"slug"`
	Description    string   `json:"description" bson:"description"`
	Price          string   `json:"price" bson:"price"`
	Color          string   `json:"color" bson:"color"`
	GiftImage      string   `json:"gift_image" bson:"gift_image"`
	ProductImage   string   `json:"product_image" bson:"product_image"`
	GiftIcon       string   `json:"gift_icon" bson:"gift_icon"`
	Stock          int      `json:"stock" bson:"stock"`
	Tags           []string `json:"tags" bson:"tags"`
	Category       string   `json:"category" bson:"category"`
	IsFeatured     bool     `json:"is_featured" bson:"is_featured"`
	SortOrder      int      `json:"sort_order" bson:"sort_order"`
	IsActive       bool     `json:"is_active" bson:"is_active"`
	IsDelete       bool     `json:"is_delete" bson:"is_delete"`
}
