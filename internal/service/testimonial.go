package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// TestimonialService implements the business logic for testimonials.
type TestimonialService struct {
	resource[domain.Testimonial]
}

// NewTestimonialService creates a new testimonial service.
func NewTestimonialService(store docstore.Store[domain.Testimonial], policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) *TestimonialService {
	return &TestimonialService{resource: newResource(store, domain.EntityTestimonial, policy, producer, logger)}
}

// CreateTestimonialInput holds the parameters for creating a testimonial.
type CreateTestimonialInput struct {
	Name      string
	Content   string
	Rating    int
	Avatar    string
	Position  string
	Company   string
	SortOrder int
	IsActive  *bool
}

// UpdateTestimonialInput holds the parameters for updating a testimonial.
type UpdateTestimonialInput struct {
	Name      *string
	Content   *string
	Rating    *int
	Avatar    *string
	Position  *string
	Company   *string
	SortOrder *int
	IsActive  *bool
}

// TestimonialFilter holds the list parameters for testimonials.
type TestimonialFilter struct {
	ListParams
	Rating   int
	IsActive *bool
}

func (f TestimonialFilter) compile() docstore.Filter {
	var rating docstore.Filter
	if f.Rating > 0 {
		rating = docstore.Eq("rating", f.Rating)
	}
	return docstore.And(
		docstore.Search(f.Search, "name", "content"),
		rating,
		flag(domain.FieldIsActive, f.IsActive),
	)
}

func validateRating(r int) error {
	if r < domain.MinRating || r > domain.MaxRating {
		return apperrors.InvalidInput(fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return nil
}

// Create stores a new testimonial. A zero rating defaults to the maximum.
func (s *TestimonialService) Create(ctx context.Context, input CreateTestimonialInput) (*domain.Testimonial, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.InvalidInput("content is required")
	}
	if input.Rating == 0 {
		input.Rating = domain.MaxRating
	}
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	return s.create(ctx, &domain.Testimonial{
		Name:      name,
		Content:   input.Content,
		Rating:    input.Rating,
		Avatar:    input.Avatar,
		Position:  input.Position,
		Company:   input.Company,
		SortOrder: input.SortOrder,
		IsActive:  boolOr(input.IsActive, true),
	})
}

// List returns a page of testimonials.
func (s *TestimonialService) List(ctx context.Context, filter TestimonialFilter) (*pagination.Result[domain.Testimonial], error) {
	return s.page(ctx, filter.compile(), filter.ListParams, orderedSort, docstore.Projection{})
}

// Get returns a testimonial by id.
func (s *TestimonialService) Get(ctx context.Context, id string) (*domain.Testimonial, error) {
	return s.byID(ctx, id)
}

// Active returns the active testimonials in display order.
func (s *TestimonialService) Active(ctx context.Context) ([]domain.Testimonial, error) {
	return s.all(ctx, activeOnly(), orderedSort)
}

// Update applies a partial update.
func (s *TestimonialService) Update(ctx context.Context, id string, input UpdateTestimonialInput) (*domain.Testimonial, error) {
	var p patch
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		p.set("name", name)
	}
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
	}
	p.str("content", input.Content)
	p.num("rating", input.Rating)
	p.str("avatar", input.Avatar)
	p.str("position", input.Position)
	p.str("company", input.Company)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a testimonial according to its delete policy.
func (s *TestimonialService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}
