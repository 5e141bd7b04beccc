package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// PartnerService implements the business logic for partners.
type PartnerService struct {
	resource[domain.Partner]
}

// NewPartnerService creates a new partner service.
func NewPartnerService(store docstore.Store[domain.Partner], policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) *PartnerService {
	return &PartnerService{resource: newResource(store, domain.EntityPartner, policy, producer, logger)}
}

// CreatePartnerInput holds the parameters for creating a partner.
type CreatePartnerInput struct {
	PartnerID      int64
	CompanyName    string
	ShortName      string
	Website        string
	Fanpage        string
	Sponsorship    domain.Sponsorship
	Package        string
	Logo           string
	Representative domain.Representative
	SortOrder      int
	IsActive       *bool
}

// UpdatePartnerInput holds the parameters for updating a partner.
type UpdatePartnerInput struct {
	PartnerID      *int64
	CompanyName    *string
	ShortName      *string
	Website        *string
	Fanpage        *string
	Sponsorship    *domain.Sponsorship
	Package        *string
	Logo           *string
	Representative *domain.Representative
	SortOrder      *int
	IsActive       *bool
}

// PartnerFilter holds the list parameters for partners.
type PartnerFilter struct {
	ListParams
	Package  string
	IsActive *bool
}

func (f PartnerFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, "company_name", "short_name"),
		eqIf("package", f.Package),
		flag(domain.FieldIsActive, f.IsActive),
	)
}

// Create stores a new partner. partner_id is unique among partners that
// were not removed.
func (s *PartnerService) Create(ctx context.Context, input CreatePartnerInput) (*domain.Partner, error) {
	name := strings.TrimSpace(input.CompanyName)
	if name == "" {
		return nil, apperrors.InvalidInput("company_name is required")
	}
	if input.PartnerID <= 0 {
		return nil, apperrors.InvalidInput("partner_id must be a positive number")
	}
	if err := s.checkPartnerIDFree(ctx, input.PartnerID, ""); err != nil {
		return nil, err
	}

	return s.create(ctx, &domain.Partner{
		PartnerID:      input.PartnerID,
		CompanyName:    name,
		ShortName:      input.ShortName,
		Website:        input.Website,
		Fanpage:        input.Fanpage,
		Sponsorship:    input.Sponsorship,
		Package:        input.Package,
		Logo:           input.Logo,
		Representative: input.Representative,
		SortOrder:      input.SortOrder,
		IsActive:       boolOr(input.IsActive, true),
	})
}

func (s *PartnerService) checkPartnerIDFree(ctx context.Context, partnerID int64, exceptID string) error {
	f := docstore.Eq("partner_id", partnerID)
	if exceptID != "" {
		f = docstore.And(f, docstore.Ne(docstore.FieldID, exceptID))
	}
	taken, err := s.exists(ctx, f)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.AlreadyExists(domain.EntityPartner, "partner_id", strconv.FormatInt(partnerID, 10))
	}
	return nil
}

// List returns a page of partners.
func (s *PartnerService) List(ctx context.Context, filter PartnerFilter) (*pagination.Result[domain.Partner], error) {
	return s.page(ctx, filter.compile(), filter.ListParams, orderedSort, docstore.Projection{})
}

// Get returns a partner by id.
func (s *PartnerService) Get(ctx context.Context, id string) (*domain.Partner, error) {
	return s.byID(ctx, id)
}

// Active returns the active partners in display order.
func (s *PartnerService) Active(ctx context.Context) ([]domain.Partner, error) {
	return s.all(ctx, activeOnly(), orderedSort)
}

// Update applies a partial update.
func (s *PartnerService) Update(ctx context.Context, id string, input UpdatePartnerInput) (*domain.Partner, error) {
	var p patch
	if input.CompanyName != nil {
		name := strings.TrimSpace(*input.CompanyName)
		if name == "" {
			return nil, apperrors.InvalidInput("company_name must not be empty")
		}
		p.set("company_name", name)
	}
	if input.PartnerID != nil {
		if *input.PartnerID <= 0 {
			return nil, apperrors.InvalidInput("partner_id must be a positive number")
		}
		if err := s.checkPartnerIDFree(ctx, *input.PartnerID, id); err != nil {
			return nil, err
		}
		p.set("partner_id", *input.PartnerID)
	}
	if input.Sponsorship != nil {
		p.set("sponsorship", *input.Sponsorship)
	}
	if input.Representative != nil {
		p.set("representative", *input.Representative)
	}
	p.str("short_name", input.ShortName)
	p.str("website", input.Website)
	p.str("fanpage", input.Fanpage)
	p.str("package", input.Package)
	p.str("logo", input.Logo)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a partner according to its delete policy.
func (s *PartnerService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}
