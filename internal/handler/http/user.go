package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// UserHandler handles HTTP requests for user administration endpoints.
type UserHandler struct {
	service *service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateUserRequest is the JSON request body for creating a user.
type CreateUserRequest struct {
	BusinessID string `json:"business_id"`
	UserName   string `json:"user_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Fullname   string `json:"fullname" validate:"max=200"`
	Phone      string `json:"phone" validate:"max=30"`
	Address    string `json:"address" validate:"max=500"`
	Avatar     string `json:"avatar"`
	IsAdmin    bool   `json:"is_admin"`
	IsActive   *bool  `json:"is_active"`
	DefaultPW  bool   `json:"default_pw"`
}

// UpdateUserRequest is the JSON request body for updating a user.
type UpdateUserRequest struct {
	BusinessID *string `json:"business_id"`
	UserName   *string `json:"user_name" validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Phone      *string `json:"phone" validate:"omitempty,max=30"`
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Fullname   *string `json:"fullname" validate:"omitempty,max=200"`
	Address    *string `json:"address" validate:"omitempty,max=500"`
	Avatar     *string `json:"avatar"`
	Password   *string `json:"password" validate:"omitempty,min=6,max=72"`
	IsAdmin    *bool   `json:"is_admin"`
	IsActive   *bool   `json:"is_active"`
}

// Create handles POST /api/users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Create(r.Context(), service.CreateUserInput{
		RegisterInput: service.RegisterInput{
			BusinessID: req.BusinessID,
			UserName:   req.UserName,
			Email:      req.Email,
			Password:   req.Password,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Phone:      req.Phone,
			Address:    req.Address,
		},
		Fullname:  req.Fullname,
		Avatar:    req.Avatar,
		IsAdmin:   req.IsAdmin,
		IsActive:  req.IsActive,
		DefaultPW: req.DefaultPW,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.UserFilter{
		ListParams: listParams(r),
		BusinessID: r.URL.Query().Get("business_id"),
	}
	var err error
	if filter.IsAdmin, err = boolQuery(r, "is_admin"); err != nil {
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

// Admins handles GET /api/users/admins
func (h *UserHandler) Admins(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Admins(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// Active handles GET /api/users/active
func (h *UserHandler) Active(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Active(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

// Update handles PATCH /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdateUserInput{
		BusinessID: req.BusinessID,
		UserName:   req.UserName,
		Email:      req.Email,
		Phone:      req.Phone,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Fullname:   req.Fullname,
		Address:    req.Address,
		Avatar:     req.Avatar,
		Password:   req.Password,
		IsAdmin:    req.IsAdmin,
		IsActive:   req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}. Users are only ever soft deleted.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
