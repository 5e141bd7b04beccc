package domain

import "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"

// Product types.
const (
	ProductTypeIndividual = "individual"
	ProductTypeBox        = "box"
)

// ValidProductTypes returns the accepted product types.
func ValidProductTypes() []string {
	return []string{ProductTypeIndividual, ProductTypeBox}
}

// IsValidProductType reports whether t is an accepted product type.
func IsValidProductType(t string) bool {
	for _, v := range ValidProductTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// Product is a sellable item or gift box.
type Product struct {
	docstore.Model `bson:",inline"`
	Name           string `json:"name" bson:"name"`
	Slug           string `json:"slug" bson:"slug"`
	Price          string `json:"price" bson:"price"`
	Category       string `json:"category" bson:"category"`
	CategoryID     string `json:"category_id,omitempty" bson:"category_id,omitempty"`
	GiftImage      string `json:"gift_image" bson:"gift_image"`
	ProductImage   string `json:"product_image" bson:"product_image"`
	GiftIcon       string `json:"gift_icon" bson:"gift_icon"`
	Description    string `json:"description" bson:"description"`
	Stock          int    `json:"stock" bson:"stock"`
	ProductType    string `json:"product_type" bson:"product_type"`
	IsFeatured     bool   `json:"is_featured" bson:"is_featured"`
	SortOrder      int    `json:"sort_order" bson:"sort_order"`
	IsActive       bool   `json:"is_active" bson:"is_active"`
	IsDelete       bool   `json:"is_delete" bson:"is_delete"`

	// CategoryInfo is attached at query time from CategoryID.
	CategoryInfo *CategorySummary `json:"category_info,omitempty" bson:"-"`
}

// CategorySummary is the part of a category attached to products.
type CategorySummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
