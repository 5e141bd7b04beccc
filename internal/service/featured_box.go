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

const boxDefaultSort = "sort_order"

// FeaturedBoxService implements the business logic for featured boxes.
type FeaturedBoxService struct {
	resource[domain.FeaturedBox]
}

// NewFeaturedBoxService creates a new featured box service.
func NewFeaturedBoxService(store docstore.Store[domain.FeaturedBox], policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) *FeaturedBoxService {
	return &FeaturedBoxService{resource: newResource(store, domain.EntityFeaturedBox, policy, producer, logger)}
}

// CreateFeaturedBoxInput holds the parameters for creating a featured box.
type CreateFeaturedBoxInput struct {
	Name         string
	Slug         string
	Description  string
	Price        string
	Color        string
	GiftImage    string
	ProductImage string
	GiftIcon     string
	Stock        int
	Tags         []string
	Category     string
	IsFeatured   bool
	SortOrder    int
	IsActive     *bool
}

// UpdateFeaturedBoxInput holds the parameters for updating a featured box.
type UpdateFeaturedBoxInput struct {
	Name         *string
	Slug         *string
	Description  *string
	Price        *string
	Color        *string
	GiftImage    *string
	ProductImage *string
	GiftIcon     *string
	Stock        *int
	Tags         *[]string
	Category     *string
	IsFeatured   *bool
	SortOrder    *int
	IsActive     *bool
}

// FeaturedBoxFilter holds the list parameters for featured boxes.
type FeaturedBoxFilter struct {
	ListParams
	Category   string
	Tags       []string
	IsFeatured *bool
	IsActive   *bool
}

func (f FeaturedBoxFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, "name", "description"),
		eqIf("category", f.Category),
		anyOf("tags", f.Tags),
		flag("is_featured", f.IsFeatured),
		flag(domain.FieldIsActive, f.IsActive),
	)
}

// Create stores a new featured box.
func (s *FeaturedBoxService) Create(ctx context.Context, input CreateFeaturedBoxInput) (*domain.FeaturedBox, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	return s.create(ctx, &domain.FeaturedBox{
		Name:         name,
		Slug:         slug.Resolve(input.Slug, name),
		Description:  input.Description,
		Price:        input.Price,
		Color:        input.Color,
		GiftImage:    input.GiftImage,
		ProductImage: input.ProductImage,
		GiftIcon:     input.GiftIcon,
		Stock:        input.Stock,
		Tags:         nonNil(input.Tags),
		Category:     input.Category,
		IsFeatured:   input.IsFeatured,
		SortOrder:    input.SortOrder,
		IsActive:     boolOr(input.IsActive, true),
	})
}

// List returns a page of featured boxes.
func (s *FeaturedBoxService) List(ctx context.Context, filter FeaturedBoxFilter) (*pagination.Result[domain.FeaturedBox], error) {
	return s.page(ctx, filter.compile(), filter.ListParams, boxDefaultSort, docstore.Projection{})
}

// Get returns a featured box by id.
func (s *FeaturedBoxService) Get(ctx context.Context, id string) (*domain.FeaturedBox, error) {
	return s.byID(ctx, id)
}

// GetBySlug returns a featured box by slug.
func (s *FeaturedBoxService) GetBySlug(ctx context.Context, value string) (*domain.FeaturedBox, error) {
	return s.one(ctx, docstore.Eq(domain.FieldSlug, value), value)
}

// ByCategory returns the active boxes of a category.
func (s *FeaturedBoxService) ByCategory(ctx context.Context, category string) ([]domain.FeaturedBox, error) {
	return s.all(ctx, docstore.And(docstore.Eq("category", category), activeOnly()), boxDefaultSort)
}

// ByTags returns the active boxes carrying any of tags.
func (s *FeaturedBoxService) ByTags(ctx context.Context, tags []string) ([]domain.FeaturedBox, error) {
	f := anyOf("tags", tags)
	if f == nil {
		return nil, apperrors.InvalidInput("at least one tag is required")
	}
	return s.all(ctx, docstore.And(f, activeOnly()), boxDefaultSort)
}

// Featured returns the active featured boxes.
func (s *FeaturedBoxService) Featured(ctx context.Context) ([]domain.FeaturedBox, error) {
	return s.all(ctx, docstore.And(docstore.Eq("is_featured", true), activeOnly()), boxDefaultSort)
}

// Active returns every active box.
func (s *FeaturedBoxService) Active(ctx context.Context) ([]domain.FeaturedBox, error) {
	return s.all(ctx, activeOnly(), boxDefaultSort)
}

// Update applies a partial update.
func (s *FeaturedBoxService) Update(ctx context.Context, id string, input UpdateFeaturedBoxInput) (*domain.FeaturedBox, error) {
	var (
		p    patch
		name string
	)
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		p.set("name", name)
	}
	stored := s.nameOf(ctx, id, func(d *domain.FeaturedBox) string { return d.Name })
	if err := p.slugFrom(input.Slug, name, stored); err != nil {
		return nil, err
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}
	p.str("description", input.Description)
	p.str("price", input.Price)
	p.str("color", input.Color)
	p.str("gift_image", input.GiftImage)
	p.str("product_image", input.ProductImage)
	p.str("gift_icon", input.GiftIcon)
	p.num("stock", input.Stock)
	p.list("tags", input.Tags)
	p.str("category", input.Category)
	p.boolean("is_featured", input.IsFeatured)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a featured box according to its delete policy.
func (s *FeaturedBoxService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}
