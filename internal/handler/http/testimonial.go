package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// TestimonialHandler handles HTTP requests for testimonial endpoints.
type TestimonialHandler struct {
	service *service.TestimonialService
	logger  *slog.Logger
}

// NewTestimonialHandler creates a new testimonial HTTP handler.
func NewTestimonialHandler(svc *service.TestimonialService, logger *slog.Logger) *TestimonialHandler {
	return &TestimonialHandler{service: svc, logger: logger}
}

// CreateTestimonialRequest is the JSON request body for creating a
// testimonial. A missing rating defaults to five stars.
type CreateTestimonialRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Content   string `json:"content" validate:"required,max=5000"`
	Rating    int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Avatar    string `json:"avatar"`
	Position  string `json:"position" validate:"max=200"`
	Company   string `json:"company" validate:"max=200"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateTestimonialRequest is the JSON request body for updating a
// testimonial.
type UpdateTestimonialRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content" validate:"omitempty,max=5000"`
	Rating    *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Avatar    *string `json:"avatar"`
	Position  *string `json:"position" validate:"omitempty,max=200"`
	Company   *string `json:"company" validate:"omitempty,max=200"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

// Create handles POST /api/testimonials
func (h *TestimonialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTestimonialRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	testimonial, err := h.service.Create(r.Context(), service.CreateTestimonialInput{
		Name:      req.Name,
		Content:   req.Content,
		Rating:    req.Rating,
		Avatar:    req.Avatar,
		Position:  req.Position,
		Company:   req.Company,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, testimonial)
}

// List handles GET /api/testimonials
func (h *TestimonialHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.TestimonialFilter{ListParams: listParams(r)}
	var err error
	if filter.Rating, err = intQuery(r, "rating"); err != nil {
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

// Get handles GET /api/testimonials/{id}
func (h *TestimonialHandler) Get(w http.ResponseWriter, r *http.Request) {
	testimonial, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, testimonial)
}

// Active handles GET /api/testimonials/active
func (h *TestimonialHandler) Active(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.service.Active(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, testimonials)
}

// Update handles PATCH /api/testimonials/{id}
func (h *TestimonialHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTestimonialRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	testimonial, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateTestimonialInput{
		Name:      req.Name,
		Content:   req.Content,
		Rating:    req.Rating,
		Avatar:    req.Avatar,
		Position:  req.Position,
		Company:   req.Company,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, testimonial)
}

// Delete handles DELETE /api/testimonials/{id}
func (h *TestimonialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
