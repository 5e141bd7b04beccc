package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// FeaturedBoxHandler handles HTTP requests for featured box endpoints.
type FeaturedBoxHandler struct {
	service *service.FeaturedBoxService
	logger  *slog.Logger
}

// NewFeaturedBoxHandler creates a new featured box HTTP handler.
func NewFeaturedBoxHandler(svc *service.FeaturedBoxService, logger *slog.Logger) *FeaturedBoxHandler {
	return &FeaturedBoxHandler{service: svc, logger: logger}
}

// CreateFeaturedBoxRequest is the JSON request body for creating a box.
type CreateFeaturedBoxRequest struct {
	Name         string   `json:"name" validate:"required,max=500"`
	Slug         string   `json:"slug" validate:"max=500"`
	Description  string   `json:"description"`
	Price        string   `json:"price" validate:"max=50"`
	Color        string   `json:"color" validate:"max=50"`
	GiftImage    string   `json:"gift_image"`
	ProductImage string   `json:"product_image"`
	GiftIcon     string   `json:"gift_icon"`
	Stock        int      `json:"stock" validate:"gte=0"`
	Tags         []string `json:"tags" validate:"dive,max=100"`
	Category     string   `json:"category" validate:"max=200"`
	IsFeatured   bool     `json:"is_featured"`
	SortOrder    int      `json:"sort_order"`
	IsActive     *bool    `json:"is_active"`
}

// UpdateFeaturedBoxRequest is the JSON request body for updating a box.
type UpdateFeaturedBoxRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=1,max=500"`
	Slug         *string   `json:"slug" validate:"omitempty,max=500"`
	Description  *string   `json:"description"`
	Price        *string   `json:"price" validate:"omitempty,max=50"`
	Color        *string   `json:"color" validate:"omitempty,max=50"`
	GiftImage    *string   `json:"gift_image"`
	ProductImage *string   `json:"product_image"`
	GiftIcon     *string   `json:"gift_icon"`
	Stock        *int      `json:"stock" validate:"omitempty,gte=0"`
	Tags         *[]string `json:"tags"`
	Category     *string   `json:"category" validate:"omitempty,max=200"`
	IsFeatured   *bool     `json:"is_featured"`
	SortOrder    *int      `json:"sort_order"`
	IsActive     *bool     `json:"is_active"`
}

// Create handles POST /api/featured-boxes
func (h *FeaturedBoxHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeaturedBoxRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	box, err := h.service.Create(r.Context(), service.CreateFeaturedBoxInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		Color:        req.Color,
		GiftImage:    req.GiftImage,
		ProductImage: req.ProductImage,
		GiftIcon:     req.GiftIcon,
		Stock:        req.Stock,
		Tags:         req.Tags,
		Category:     req.Category,
		IsFeatured:   req.IsFeatured,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, box)
}

// List handles GET /api/featured-boxes
func (h *FeaturedBoxHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.FeaturedBoxFilter{
		ListParams: listParams(r),
		Category:   r.URL.Query().Get("category"),
		Tags:       tagsQuery(r),
	}
	var err error
	if filter.IsFeatured, err = boolQuery(r, "is_featured"); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if filter.IsActive, err = boolQuery(r, "is_active"); err != nil {
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

// Get handles GET /api/featured-boxes/{id}
func (h *FeaturedBoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	box, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, box)
}

// GetBySlug handles GET /api/featured-boxes/slug/{slug}
func (h *FeaturedBoxHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	box, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, box)
}

// ByCategory handles GET /api/featured-boxes/category/{category}
func (h *FeaturedBoxHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, boxes)
}

// ByTags handles GET /api/featured-boxes/tags?tags=a,b
func (h *FeaturedBoxHandler) ByTags(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.service.ByTags(r.Context(), tagsQuery(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, boxes)
}

// Featured handles GET /api/featured-boxes/featured
func (h *FeaturedBoxHandler) Featured(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.service.Featured(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, boxes)
}

// Active handles GET /api/featured-boxes/active
func (h *FeaturedBoxHandler) Active(w http.ResponseWriter, r *http.Request) {
	boxes, err := h.service.Active(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, boxes)
}

// Update handles PATCH /api/featured-boxes/{id}
func (h *FeaturedBoxHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateFeaturedBoxRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	box, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateFeaturedBoxInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		Price:        req.Price,
		Color:        req.Color,
		GiftImage:    req.GiftImage,
		ProductImage: req.ProductImage,
		GiftIcon:     req.GiftIcon,
		Stock:        req.Stock,
		Tags:         req.Tags,
		Category:     req.Category,
		IsFeatured:   req.IsFeatured,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, box)
}

// Delete handles DELETE /api/featured-boxes/{id}
func (h *FeaturedBoxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
