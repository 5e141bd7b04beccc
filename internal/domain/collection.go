// Package domain holds the documents stored by the catalog API.
package domain

import (
	"fmt"
	"strings"
)

// Collection names shared by every storage backend.
const (
	CollectionUsers         = "Users"
	CollectionProducts      = "Products"
	CollectionCategories    = "Categories"
	CollectionPartners      = "Partners"
	CollectionBlog          = "Blog"
	CollectionTestimonials  = "Testimonials"
	CollectionFeaturedBoxes = "FeaturedBoxes"
)

// Entity names used for events and delete policy configuration.
const (
	EntityProduct     = "product"
	EntityCategory    = "category"
	EntityPartner     = "partner"
	EntityBlogPost    = "blog"
	EntityTestimonial = "testimonial"
	EntityFeaturedBox = "featured_box"
	EntityUser        = "user"
)

// Common field names used in filters and updates.
const (
	FieldIsActive  = "is_active"
	FieldIsDelete  = "is_delete"
	FieldSlug      = "slug"
	FieldSortOrder = "sort_order"
)

// DeletePolicy selects how Remove treats a document.
type DeletePolicy string

const (
	// DeleteSoft sets is_delete and keeps the document.
	DeleteSoft DeletePolicy = "soft"
	// DeleteHard removes the document.
	DeleteHard DeletePolicy = "hard"
)

// ParseDeletePolicy parses "soft" or "hard", case-insensitively.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DeleteSoft, DeleteHard:
		return p, nil
	default:
		return "", fmt.Errorf("invalid delete policy %q: must be soft or hard", s)
	}
}

// DefaultDeletePolicies returns the delete policy of each catalog entity.
func DefaultDeletePolicies() map[string]DeletePolicy {
	return map[string]DeletePolicy{
		EntityProduct:     DeleteHard,
		EntityCategory:    DeleteSoft,
		EntityPartner:     DeleteSoft,
		EntityBlogPost:    DeleteHard,
		EntityTestimonial: DeleteSoft,
		EntityFeaturedBox: DeleteHard,
	}
}
