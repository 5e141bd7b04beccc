package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name         string `json:"name" validate:"required,max=500"`
	Slug         string `json:"slug" validate:"max=500"`
	Price        string `json:"price" validate:"max=50"`
	Category     string `json:"category" validate:"max=200"`
	CategoryID   string `json:"category_id"`
	GiftImage    string `json:"gift_image"`
	ProductImage string `json:"product_image"`
	GiftIcon     string `json:"gift_icon"`
	Description  string `json:"description"`
	Stock        int    `json:"stock" validate:"gte=0"`
	ProductType  string `json:"product_type" validate:"omitempty,oneof=individual box"`
	IsFeatured   bool   `json:"is_featured"`
	SortOrder    int    `json:"sort_order"`
	IsActive     *bool  `json:"is_active"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=500"`
	Slug         *string `json:"slug" validate:"omitempty,max=500"`
	Price        *string `json:"price" validate:"omitempty,max=50"`
	Category     *string `json:"category" validate:"omitempty,max=200"`
	CategoryID   *string `json:"category_id"`
	GiftImage    *string `json:"gift_image"`
	ProductImage *string `json:"product_image"`
	GiftIcon     *string `json:"gift_icon"`
	Description  *string `json:"description"`
	Stock        *int    `json:"stock" validate:"omitempty,gte=0"`
	ProductType  *string `json:"product_type" validate:"omitempty,oneof=individual box"`
	IsFeatured   *bool   `json:"is_featured"`
	SortOrder    *int    `json:"sort_order"`
	IsActive     *bool   `json:"is_active"`
}

// --- Handlers ---

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), service.CreateProductInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Price:        req.Price,
		Category:     req.Category,
		CategoryID:   req.CategoryID,
		GiftImage:    req.GiftImage,
		ProductImage: req.ProductImage,
		GiftIcon:     req.GiftIcon,
		Description:  req.Description,
		Stock:        req.Stock,
		ProductType:  req.ProductType,
		IsFeatured:   req.IsFeatured,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, product)
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := service.ProductFilter{
		ListParams:  listParams(r),
		Category:    q.Get("category"),
		CategoryID:  q.Get("category_id"),
		ProductType: q.Get("product_type"),
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

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// GetBySlug handles GET /api/products/slug/{slug}
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, product)
}

// ByCategory handles GET /api/products/category/{category}
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// ByCategoryID handles GET /api/products/category-id/{id}
func (h *ProductHandler) ByCategoryID(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ByCategoryID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// ByType handles GET /api/products/type/{type}
func (h *ProductHandler) ByType(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// Featured handles GET /api/products/featured
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}

// Update handles PATCH /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateProductInput{
		Name:         req.Name,
		Slug:         req.Slug,
		Price:        req.Price,
		Category:     req.Category,
		CategoryID:   req.CategoryID,
		GiftImage:    req.GiftImage,
		ProductImage: req.ProductImage,
		GiftIcon:     req.GiftIcon,
		Description:  req.Description,
		Stock:        req.Stock,
		ProductType:  req.ProductType,
		IsFeatured:   req.IsFeatured,
		SortOrder:    req.SortOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
