package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// BlogHandler handles HTTP requests for blog post endpoints.
type BlogHandler struct {
	service *service.BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog HTTP handler.
func NewBlogHandler(svc *service.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{service: svc, logger: logger}
}

// CreateBlogPostRequest is the JSON request body for creating a post.
type CreateBlogPostRequest struct {
	Title           string     `json:"title" validate:"required,max=500"`
	Slug            string     `json:"slug" validate:"max=500"`
	Excerpt         string     `json:"excerpt" validate:"max=2000"`
	Content         string     `json:"content"`
	Author          string     `json:"author" validate:"max=200"`
	Image           string     `json:"image"`
	Tags            []string   `json:"tags" validate:"dive,max=100"`
	Category        string     `json:"category" validate:"max=200"`
	PublishedDate   *time.Time `json:"published_date"`
	IsPublished     bool       `json:"is_published"`
	IsFeatured      bool       `json:"is_featured"`
	MetaTitle       string     `json:"meta_title" validate:"max=300"`
	MetaDescription string     `json:"meta_description" validate:"max=1000"`
	MetaKeywords    []string   `json:"meta_keywords"`
	SortOrder       int        `json:"sort_order"`
	IsActive        *bool      `json:"is_active"`
}

// UpdateBlogPostRequest is the JSON request body for updating a post.
type UpdateBlogPostRequest struct {
	Title           *string    `json:"title" validate:"omitempty,min=1,max=500"`
	Slug            *string    `json:"slug" validate:"omitempty,max=500"`
	Excerpt         *string    `json:"excerpt" validate:"omitempty,max=2000"`
	Content         *string    `json:"content"`
	Author          *string    `json:"author" validate:"omitempty,max=200"`
	Image           *string    `json:"image"`
	Tags            *[]string  `json:"tags"`
	Category        *string    `json:"category" validate:"omitempty,max=200"`
	PublishedDate   *time.Time `json:"published_date"`
	IsPublished     *bool      `json:"is_published"`
	IsFeatured      *bool      `json:"is_featured"`
	MetaTitle       *string    `json:"meta_title" validate:"omitempty,max=300"`
	MetaDescription *string    `json:"meta_description" validate:"omitempty,max=1000"`
	MetaKeywords    *[]string  `json:"meta_keywords"`
	SortOrder       *int       `json:"sort_order"`
	IsActive        *bool      `json:"is_active"`
}

// Create handles POST /api/blog
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBlogPostRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	post, err := h.service.Create(r.Context(), service.CreateBlogPostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Author:          req.Author,
		Image:           req.Image,
		Tags:            req.Tags,
		Category:        req.Category,
		PublishedDate:   req.PublishedDate,
		IsPublished:     req.IsPublished,
		IsFeatured:      req.IsFeatured,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, post)
}

// List handles GET /api/blog. Post bodies are left out of the listing.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.BlogFilter{
		ListParams: listParams(r),
		Category:   q.Get("category"),
		Author:     q.Get("author"),
		Tags:       tagsQuery(r),
	}
	var err error
	if filter.IsPublished, err = boolQuery(r, "is_published"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if filter.IsFeatured, err = boolQuery(r, "is_featured"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// Get handles GET /api/blog/{id}. Each read counts as a view.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// GetBySlug handles GET /api/blog/slug/{slug}
func (h *BlogHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// Like handles POST /api/blog/{id}/like
func (h *BlogHandler) Like(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// ByCategory handles GET /api/blog/category/{category}
func (h *BlogHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// ByAuthor handles GET /api/blog/author/{author}
func (h *BlogHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ByAuthor(r.Context(), chi.URLParam(r, "author"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// ByTags handles GET /api/blog/tags?tags=a,b
func (h *BlogHandler) ByTags(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ByTags(r.Context(), tagsQuery(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Featured handles GET /api/blog/featured
func (h *BlogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.Featured(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Popular handles GET /api/blog/popular
func (h *BlogHandler) Popular(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.Popular(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

// Update handles PATCH /api/blog/{id}
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateBlogPostRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	post, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateBlogPostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Excerpt:         req.Excerpt,
		Content:         req.Content,
		Author:          req.Author,
		Image:           req.Image,
		Tags:            req.Tags,
		Category:        req.Category,
		PublishedDate:   req.PublishedDate,
		IsPublished:     req.IsPublished,
		IsFeatured:      req.IsFeatured,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/blog/{id}
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
