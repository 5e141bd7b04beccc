package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/slug"
)

const orderedSort = "sort_order created_at"

// CategoryService implements the business logic for categories.
type CategoryService struct {
	resource[domain.Category]
}

// NewCategoryService creates a new category service.
func NewCategoryService(store docstore.Store[domain.Category], policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) *CategoryService {
	return &CategoryService{resource: newResource(store, domain.EntityCategory, policy, producer, logger)}
}

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	Icon        string
	Color       string
	ParentID    string
	SortOrder   int
	IsActive    *bool
}

// UpdateCategoryInput holds the parameters for updating a category.
type UpdateCategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Image       *string
	Icon        *string
	Color       *string
	ParentID    *string
	SortOrder   *int
	IsActive    *bool
}

// CategoryFilter holds the list parameters for categories.
type CategoryFilter struct {
	ListParams
	ParentID string
	IsActive *bool
}

func (f CategoryFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, "name"),
		eqIf("parent_id", f.ParentID),
		flag(domain.FieldIsActive, f.IsActive),
	)
}

// Create stores a new category. Names are unique among categories that were
// not removed.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if err := s.checkNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	return s.create(ctx, &domain.Category{
		Name:        name,
		Slug:        slug.Resolve(input.Slug, name),
		Description: input.Description,
		Image:       input.Image,
		Icon:        input.Icon,
		Color:       input.Color,
		ParentID:    strings.TrimSpace(input.ParentID),
		SortOrder:   input.SortOrder,
		IsActive:    boolOr(input.IsActive, true),
	})
}

func (s *CategoryService) checkNameFree(ctx context.Context, name, exceptID string) error {
	f := docstore.Eq("name", name)
	if exceptID != "" {
		f = docstore.And(f, docstore.Ne(docstore.FieldID, exceptID))
	}
	taken, err := s.exists(ctx, f)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.AlreadyExists(domain.EntityCategory, "name", name)
	}
	return nil
}

// List returns a page of categories.
func (s *CategoryService) List(ctx context.Context, filter CategoryFilter) (*pagination.Result[domain.Category], error) {
	return s.page(ctx, filter.compile(), filter.ListParams, orderedSort, docstore.Projection{})
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.byID(ctx, id)
}

// GetBySlug returns a category by slug.
func (s *CategoryService) GetBySlug(ctx context.Context, value string) (*domain.Category, error) {
	return s.one(ctx, docstore.Eq(domain.FieldSlug, value), value)
}

// Children returns the active direct children of a category.
func (s *CategoryService) Children(ctx context.Context, parentID string) ([]domain.Category, error) {
	return s.all(ctx, docstore.And(docstore.Eq("parent_id", parentID), activeOnly()), orderedSort)
}

// Roots returns the active categories without a parent.
func (s *CategoryService) Roots(ctx context.Context) ([]domain.Category, error) {
	return s.all(ctx, docstore.And(docstore.Eq("parent_id", nil), activeOnly()), orderedSort)
}

// Update applies a partial update.
func (s *CategoryService) Update(ctx context.Context, id string, input UpdateCategoryInput) (*domain.Category, error) {
	var (
		p    patch
		name string
	)
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		if err := s.checkNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		p.set("name", name)
	}
	stored := s.nameOf(ctx, id, func(d *domain.Category) string { return d.Name })
	if err := p.slugFrom(input.Slug, name, stored); err != nil {
		return nil, err
	}
	if input.ParentID != nil {
		switch parent := strings.TrimSpace(*input.ParentID); parent {
		case id:
			return nil, apperrors.InvalidInput("a category cannot be its own parent")
		case "":
			// A blank parent detaches the category; roots match a null parent.
			p.set("parent_id", nil)
		default:
			p.set("parent_id", parent)
		}
	}
	p.str("description", input.Description)
	p.str("image", input.Image)
	p.str("icon", input.Icon)
	p.str("color", input.Color)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a category according to its delete policy.
func (s *CategoryService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}
