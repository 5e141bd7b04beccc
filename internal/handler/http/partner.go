package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httputil"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/validator"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// PartnerHandler handles HTTP requests for partner endpoints.
type PartnerHandler struct {
	service *service.PartnerService
	logger  *slog.Logger
}

// NewPartnerHandler creates a new partner HTTP handler.
func NewPartnerHandler(svc *service.PartnerService, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{service: svc, logger: logger}
}

// CreatePartnerRequest is the JSON request body for creating a partner.
type CreatePartnerRequest struct {
	PartnerID      int64                 `json:"partner_id" validate:"required,gt=0"`
	CompanyName    string                `json:"company_name" validate:"required,max=300"`
	ShortName      string                `json:"short_name" validate:"max=100"`
	Website        string                `json:"website" validate:"omitempty,url"`
	Fanpage        string                `json:"fanpage" validate:"omitempty,url"`
	Sponsorship    domain.Sponsorship    `json:"sponsorship"`
	Package        string                `json:"package" validate:"max=100"`
	Logo           string                `json:"logo"`
	Representative domain.Representative `json:"representative"`
	SortOrder      int                   `json:"sort_order"`
	IsActive       *bool                 `json:"is_active"`
}

// UpdatePartnerRequest is the JSON request body for updating a partner.
type UpdatePartnerRequest struct {
	PartnerID      *int64                 `json:"partner_id" validate:"omitempty,gt=0"`
	CompanyName    *string                `json:"company_name" validate:"omitempty,min=1,max=300"`
	ShortName      *string                `json:"short_name" validate:"omitempty,max=100"`
	Website        *string                `json:"website" validate:"omitempty,url"`
	Fanpage        *string                `json:"fanpage" validate:"omitempty,url"`
	Sponsorship    *domain.Sponsorship    `json:"sponsorship"`
	Package        *string                `json:"package" validate:"omitempty,max=100"`
	Logo           *string                `json:"logo"`
	Representative *domain.Representative `json:"representative"`
	SortOrder      *int                   `json:"sort_order"`
	IsActive       *bool                  `json:"is_active"`
}

// Create handles POST /api/partners
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartnerRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	partner, err := h.service.Create(r.Context(), service.CreatePartnerInput{
		PartnerID:      req.PartnerID,
		CompanyName:    req.CompanyName,
		ShortName:      req.ShortName,
		Website:        req.Website,
		Fanpage:        req.Fanpage,
		Sponsorship:    req.Sponsorship,
		Package:        req.Package,
		Logo:           req.Logo,
		Representative: req.Representative,
		SortOrder:      req.SortOrder,
		IsActive:       req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, partner)
}

// List handles GET /api/partners
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := service.PartnerFilter{
		ListParams: listParams(r),
		Package:    r.URL.Query().Get("package"),
	}
	var err error
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

// Get handles GET /api/partners/{id}
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	partner, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, partner)
}

// Active handles GET /api/partners/active
func (h *PartnerHandler) Active(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.Active(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, partners)
}

// Update handles PATCH /api/partners/{id}
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePartnerRequest
	if err := validator.DecodeAndValidate(w, r, &req); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	partner, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), service.UpdatePartnerInput{
		PartnerID:      req.PartnerID,
		CompanyName:    req.CompanyName,
		ShortName:      req.ShortName,
		Website:        req.Website,
		Fanpage:        req.Fanpage,
		Sponsorship:    req.Sponsorship,
		Package:        req.Package,
		Logo:           req.Logo,
		Representative: req.Representative,
		SortOrder:      req.SortOrder,
		IsActive:       req.IsActive,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, partner)
}

// Delete handles DELETE /api/partners/{id}
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Remove(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deletedResponse{ID: id, Status: "deleted"})
}
