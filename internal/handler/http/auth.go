package http

import (
	"context"
	"log/slog"
	"net/http"

	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/middleware"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// TokenValidator adapts AuthService.ValidateToken to the Auth middleware.
// The stored token is consulted, so a logged out or superseded token is
// rejected even while its signature is still valid.
func TokenValidator(svc *service.AuthService) middleware.TokenValidator {
	return func(ctx context.Context, token string) (*middleware.Claims, error) {
		user, err := svc.ValidateToken(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID:   user.ID,
			Email:    user.Email,
			UserName: user.UserName,
			IsAdmin:  user.IsAdmin,
		}, nil
	}
}

// AuthHandler handles HTTP requests for authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	BusinessID string `json:"business_id"`
	UserName   string `json:"user_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FirstName  string `json:"first_name" validate:"max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=30"`
	Address    string `json:"address" validate:"max=500"`
}

// LoginRequest is the JSON request body for login. The identifier may be
// sent as login, username or email; it matches a user name or an email.
type LoginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) identifier() string {
	switch {
	case r.Login != "":
		return r.Login
	case r.Username != "":
		return r.Username
	default:
		return r.Email
	}
}

// RefreshTokenRequest is the JSON request body for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest is the JSON request body for changing a password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// ForgotPasswordRequest is the JSON request body for requesting a reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the JSON request body for completing a reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

// --- Response DTOs ---

// AuthUser is the user summary embedded in an AuthResponse.
type AuthUser struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	UserName  string `json:"user_name"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	TokenType    string   `json:"tokenType"`
	ExpiresIn    int64    `json:"expiresIn"`
	User         AuthUser `json:"user"`
}

// ValidateResponse is returned by GET /api/auth/validate.
type ValidateResponse struct {
	Valid bool     `json:"valid"`
	User  AuthUser `json:"user"`
}

func toAuthUser(u *domain.User) AuthUser {
	return AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
	}
}

func toAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    res.Tokens.ExpiresIn,
		User:         toAuthUser(res.User),
	}
}

// --- Handlers ---

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.Register(r.Context(), service.RegisterInput{
		BusinessID: req.BusinessID,
		UserName:   req.UserName,
		Email:      req.Email,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAuthResponse(res))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	if req.identifier() == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("login is required"), h.logger)
		return
	}

	res, err := h.service.Login(r.Context(), service.LoginInput{
		Login:    req.identifier(),
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	res, err := h.service.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toAuthResponse(res))
}

// ForgotPassword handles POST /api/auth/forgot-password. The response does
// not reveal whether the email is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	msg, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, msg)
}

// ResetPassword handles POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password has been reset successfully")
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req ChangePasswordRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Password changed successfully")
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), middleware.UserIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Profile handles GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

// Validate handles GET /api/auth/validate. Reaching the handler means the
// Auth middleware already accepted the token.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("invalid token"), h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid: true,
		User: AuthUser{
			ID:       claims.UserID,
			Email:    claims.Email,
			UserName: claims.UserName,
			IsAdmin:  claims.IsAdmin,
		},
	})
}
