package domain

import (
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
)

// Blog field names.
const (
	BlogFieldContent       = "content"
	BlogFieldViewCount     = "view_count"
	BlogFieldLikeCount     = "like_count"
	BlogFieldPublishedDate = "published_date"
	BlogFieldIsPublished   = "is_published"
)

// PopularPostsLimit bounds the popular posts listing.
const PopularPostsLimit = 10

// BlogPost is an article of the blog.
type BlogPost struct {
	docstore.Model  `bson:",inline"`
	Title           string     `json:"title" bson:"title"`
	Slug            string     `json:"slug" bson:"slug"`
	Excerpt         string     `json:"excerpt" bson:"excerpt"`
	Content         string     `json:"content,omitempty" bson:"content"`
	Author          string     `json:"author" bson:"author"`
	Image           string     `json:"image" bson:"image"`
	Tags            []string   `json:"tags" bson:"tags"`
	Category        string     `json:"category" bson:"category"`
	PublishedDate   *time.Time `json:"published_date,omitempty" bson:"published_date,omitempty"`
	IsPublished     bool       `json:"is_published" bson:"is_published"`
	IsFeatured      bool       `json:"is_featured" bson:"is_featured"`
	MetaTitle       string     `json:"meta_title" bson:"meta_title"`
	MetaDescription string     `json:"meta_description" bson:"meta_description"`
	MetaKeywords    []string   `json:"meta_keywords" bson:"meta_keywords"`
	ViewCount       int64      `json:"view_count" bson:"view_count"`
	LikeCount       int64      `json:"like_count" bson:"like_count"`
	SortOrder       int        `json:"sort_order" bson:"sort_order"`
	IsActive        bool       `json:"is_active" bson:"is_active"`
	IsDelete        bool       `json:"is_delete" bson:"is_delete"`
}
