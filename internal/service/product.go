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

const productDefaultSort = "-created_at"

// ProductService implements the business logic for products.
type ProductService struct {
	resource[domain.Product]
	categories docstore.Store[domain.Category]
}

// NewProductService creates a new product service. categories is used to
// attach category details to listed products.
func NewProductService(
	products docstore.Store[domain.Product],
	categories docstore.Store[domain.Category],
	policy domain.DeletePolicy,
	producer event.Publisher,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		resource:   newResource(products, domain.EntityProduct, policy, producer, logger),
		categories: categories,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name         string
	Slug         string
	Price        string
	Category     string
	CategoryID   string
	GiftImage    string
	ProductImage string
	GiftIcon     string
	Description  string
	Stock        int
	ProductType  string
	IsFeatured   bool
	SortOrder    int
	IsActive     *bool
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left unchanged.
type UpdateProductInput struct {
	Name         *string
	Slug         *string
	Price        *string
	Category     *string
	CategoryID   *string
	GiftImage    *string
	ProductImage *string
	GiftIcon     *string
	Description  *string
	Stock        *int
	ProductType  *string
	IsFeatured   *bool
	SortOrder    *int
	IsActive     *bool
}

// ProductFilter holds the list parameters for products.
type ProductFilter struct {
	ListParams
	Category    string
	CategoryID  string
	ProductType string
	IsFeatured  *bool
	IsActive    *bool
}

func (f ProductFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, "name", "description", "category"),
		eqIf("category", f.Category),
		eqIf("category_id", f.CategoryID),
		eqIf("product_type", f.ProductType),
		flag("is_featured", f.IsFeatured),
		flag(domain.FieldIsActive, f.IsActive),
	)
}

// Create validates and stores a new product.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.ProductType == "" {
		input.ProductType = domain.ProductTypeIndividual
	}
	if !domain.IsValidProductType(input.ProductType) {
		return nil, apperrors.InvalidInput("product_type must be one of " + strings.Join(domain.ValidProductTypes(), ", "))
	}
	if input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}

	return s.create(ctx, &domain.Product{
		Name:         name,
		Slug:         slug.Resolve(input.Slug, name),
		Price:        input.Price,
		Category:     input.Category,
		CategoryID:   input.CategoryID,
		GiftImage:    input.GiftImage,
		ProductImage: input.ProductImage,
		GiftIcon:     input.GiftIcon,
		Description:  input.Description,
		Stock:        input.Stock,
		ProductType:  input.ProductType,
		IsFeatured:   input.IsFeatured,
		SortOrder:    input.SortOrder,
		IsActive:     boolOr(input.IsActive, true),
	})
}

// List returns a page of products with their category attached.
func (s *ProductService) List(ctx context.Context, filter ProductFilter) (*pagination.Result[domain.Product], error) {
	res, err := s.page(ctx, filter.compile(), filter.ListParams, productDefaultSort, docstore.Projection{})
	if err != nil {
		return nil, err
	}
	s.populate(ctx, res.List)
	return res, nil
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	one := []domain.Product{*p}
	s.populate(ctx, one)
	return &one[0], nil
}

// GetBySlug returns a product by slug.
func (s *ProductService) GetBySlug(ctx context.Context, value string) (*domain.Product, error) {
	return s.one(ctx, docstore.Eq(domain.FieldSlug, value), value)
}

// ByCategory returns the active products of a category name.
func (s *ProductService) ByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.all(ctx, docstore.And(docstore.Eq("category", category), activeOnly()), productDefaultSort)
}

// ByCategoryID returns the active products referencing a category, with the
// category attached.
func (s *ProductService) ByCategoryID(ctx context.Context, categoryID string) ([]domain.Product, error) {
	list, err := s.all(ctx, docstore.And(docstore.Eq("category_id", categoryID), activeOnly()), productDefaultSort)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, list)
	return list, nil
}

// ByType returns the active products of a product type.
func (s *ProductService) ByType(ctx context.Context, productType string) ([]domain.Product, error) {
	if !domain.IsValidProductType(productType) {
		return nil, apperrors.InvalidInput("product_type must be one of " + strings.Join(domain.ValidProductTypes(), ", "))
	}
	return s.all(ctx, docstore.And(docstore.Eq("product_type", productType), activeOnly()), productDefaultSort)
}

// Featured returns the active featured products, newest first.
func (s *ProductService) Featured(ctx context.Context) ([]domain.Product, error) {
	return s.all(ctx, docstore.And(docstore.Eq("is_featured", true), activeOnly()), productDefaultSort)
}

// Update applies a partial update. The slug follows a changed name unless
// one is given.
func (s *ProductService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
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
	stored := s.nameOf(ctx, id, func(d *domain.Product) string { return d.Name })
	if err := p.slugFrom(input.Slug, name, stored); err != nil {
		return nil, err
	}
	if input.ProductType != nil && !domain.IsValidProductType(*input.ProductType) {
		return nil, apperrors.InvalidInput("product_type must be one of " + strings.Join(domain.ValidProductTypes(), ", "))
	}
	if input.Stock != nil && *input.Stock < 0 {
		return nil, apperrors.InvalidInput("stock must not be negative")
	}
	p.str("price", input.Price)
	p.str("category", input.Category)
	p.str("category_id", input.CategoryID)
	p.str("gift_image", input.GiftImage)
	p.str("product_image", input.ProductImage)
	p.str("gift_icon", input.GiftIcon)
	p.str("description", input.Description)
	p.num("stock", input.Stock)
	p.str("product_type", input.ProductType)
	p.boolean("is_featured", input.IsFeatured)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a product according to its delete policy.
func (s *ProductService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}

// populate attaches the referenced category to each product. Lookup
// failures leave the products without category details.
func (s *ProductService) populate(ctx context.Context, products []domain.Product) {
	if s.categories == nil || len(products) == 0 {
		return
	}
	seen := make(map[string]bool)
	var ids []string
	for _, p := range products {
		if p.CategoryID != "" && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	if len(ids) == 0 {
		return
	}

	res, err := s.categories.FindAll(ctx, docstore.In(docstore.FieldID, ids...),
		docstore.WithProjection(docstore.Include("name", "description")))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to populate product categories", slog.String("error", err.Error()))
		return
	}
	byID := make(map[string]*domain.CategorySummary, len(res.List))
	for i := range res.List {
		byID[res.List[i].ID] = res.List[i].Summary()
	}
	for i := range products {
		products[i].CategoryInfo = byID[products[i].CategoryID]
	}
}

// activeOnly matches documents flagged active.
func activeOnly() docstore.Filter {
	return docstore.Eq(domain.FieldIsActive, true)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
