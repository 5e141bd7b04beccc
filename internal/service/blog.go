package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/slug"
)

const blogDefaultSort = "-published_date"

// BlogService implements the business logic for blog posts.
type BlogService struct {
	resource[domain.BlogPost]
	now func() time.Time
}

// NewBlogService creates a new blog service.
func NewBlogService(store docstore.Store[domain.BlogPost], policy domain.DeletePolicy, producer event.Publisher, logger *slog.Logger) *BlogService {
	return &BlogService{
		resource: newResource(store, domain.EntityBlogPost, policy, producer, logger),
		now:      docstore.Now,
	}
}

// CreateBlogPostInput holds the parameters for creating a blog post.
type CreateBlogPostInput struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	Author          string
	Image           string
	Tags            []string
	Category        string
	PublishedDate   *time.Time
	IsPublished     bool
	IsFeatured      bool
	MetaTitle       string
	MetaDescription string
	MetaKeywords    []string
	SortOrder       int
	IsActive        *bool
}

// UpdateBlogPostInput holds the parameters for updating a blog post.
type UpdateBlogPostInput struct {
	Title           *string
	Slug            *string
	Excerpt         *string
	Content         *string
	Author          *string
	Image           *string
	Tags            *[]string
	Category        *string
	PublishedDate   *time.Time
	IsPublished     *bool
	IsFeatured      *bool
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *[]string
	SortOrder       *int
	IsActive        *bool
}

// BlogFilter holds the list parameters for blog posts.
type BlogFilter struct {
	ListParams
	Category    string
	Author      string
	Tags        []string
	IsPublished *bool
	IsFeatured  *bool
}

func (f BlogFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, "title", "excerpt", domain.BlogFieldContent),
		eqIf("category", f.Category),
		eqIf("author", f.Author),
		anyOf("tags", f.Tags),
		flag(domain.BlogFieldIsPublished, f.IsPublished),
		flag("is_featured", f.IsFeatured),
	)
}

func published() docstore.Filter {
	return docstore.Eq(domain.BlogFieldIsPublished, true)
}

// Create stores a new post. A published post without a date is dated now.
func (s *BlogService) Create(ctx context.Context, input CreateBlogPostInput) (*domain.BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	post := &domain.BlogPost{
		Title:           title,
		Slug:            slug.Resolve(input.Slug, title),
		Excerpt:         input.Excerpt,
		Content:         input.Content,
		Author:          input.Author,
		Image:           input.Image,
		Tags:            nonNil(input.Tags),
		Category:        input.Category,
		PublishedDate:   input.PublishedDate,
		IsPublished:     input.IsPublished,
		IsFeatured:      input.IsFeatured,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
		MetaKeywords:    nonNil(input.MetaKeywords),
		SortOrder:       input.SortOrder,
		IsActive:        boolOr(input.IsActive, true),
	}
	if post.IsPublished && post.PublishedDate == nil {
		now := s.now()
		post.PublishedDate = &now
	}
	return s.create(ctx, post)
}

// List returns a page of posts without their content.
func (s *BlogService) List(ctx context.Context, filter BlogFilter) (*pagination.Result[domain.BlogPost], error) {
	return s.page(ctx, filter.compile(), filter.ListParams, blogDefaultSort, docstore.Exclude(domain.BlogFieldContent))
}

// Get returns a post by id and counts the view.
func (s *BlogService) Get(ctx context.Context, id string) (*domain.BlogPost, error) {
	post, err := s.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post), nil
}

// GetBySlug returns a published post by slug and counts the view.
func (s *BlogService) GetBySlug(ctx context.Context, value string) (*domain.BlogPost, error) {
	post, err := s.one(ctx, docstore.And(docstore.Eq(domain.FieldSlug, value), published()), value)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, post), nil
}

// view increments view_count. The fetched post is returned unchanged when
// the increment fails.
func (s *BlogService) view(ctx context.Context, post *domain.BlogPost) *domain.BlogPost {
	viewed, err := s.increment(ctx, post.ID, domain.BlogFieldViewCount, 1)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count blog view",
			slog.String("id", post.ID),
			slog.String("error", err.Error()),
		)
		return post
	}
	return viewed
}

// Like increments like_count.
func (s *BlogService) Like(ctx context.Context, id string) (*domain.BlogPost, error) {
	return s.increment(ctx, id, domain.BlogFieldLikeCount, 1)
}

// ByCategory returns the published posts of a category, newest first.
func (s *BlogService) ByCategory(ctx context.Context, category string) ([]domain.BlogPost, error) {
	return s.listing(ctx, docstore.Eq("category", category))
}

// ByAuthor returns the published posts of an author, newest first.
func (s *BlogService) ByAuthor(ctx context.Context, author string) ([]domain.BlogPost, error) {
	return s.listing(ctx, docstore.Eq("author", author))
}

// ByTags returns the published posts carrying any of tags.
func (s *BlogService) ByTags(ctx context.Context, tags []string) ([]domain.BlogPost, error) {
	f := anyOf("tags", tags)
	if f == nil {
		return nil, apperrors.InvalidInput("at least one tag is required")
	}
	return s.listing(ctx, f)
}

// Featured returns the newest featured posts.
func (s *BlogService) Featured(ctx context.Context) ([]domain.BlogPost, error) {
	return s.listing(ctx, docstore.Eq("is_featured", true), docstore.WithLimit(domain.PopularPostsLimit))
}

// Popular returns the most viewed published posts.
func (s *BlogService) Popular(ctx context.Context) ([]domain.BlogPost, error) {
	return s.all(ctx, published(), "-"+domain.BlogFieldViewCount,
		docstore.WithLimit(domain.PopularPostsLimit),
		docstore.WithProjection(docstore.Exclude(domain.BlogFieldContent)),
	)
}

func (s *BlogService) listing(ctx context.Context, f docstore.Filter, opts ...docstore.FindOption) ([]domain.BlogPost, error) {
	opts = append(opts, docstore.WithProjection(docstore.Exclude(domain.BlogFieldContent)))
	return s.all(ctx, docstore.And(f, published()), blogDefaultSort, opts...)
}

// Update applies a partial update. A post becoming published without a date
// is dated now.
func (s *BlogService) Update(ctx context.Context, id string, input UpdateBlogPostInput) (*domain.BlogPost, error) {
	var (
		p     patch
		title string
	)
	if input.Title != nil {
		title = strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		p.set("title", title)
	}
	stored := s.nameOf(ctx, id, func(d *domain.BlogPost) string { return d.Title })
	if err := p.slugFrom(input.Slug, title, stored); err != nil {
		return nil, err
	}
	if input.PublishedDate != nil {
		p.set(domain.BlogFieldPublishedDate, *input.PublishedDate)
	} else if input.IsPublished != nil && *input.IsPublished {
		current, err := s.byID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.PublishedDate == nil {
			p.set(domain.BlogFieldPublishedDate, s.now())
		}
	}
	p.str("excerpt", input.Excerpt)
	p.str(domain.BlogFieldContent, input.Content)
	p.str("author", input.Author)
	p.str("image", input.Image)
	p.list("tags", input.Tags)
	p.str("category", input.Category)
	p.boolean(domain.BlogFieldIsPublished, input.IsPublished)
	p.boolean("is_featured", input.IsFeatured)
	p.str("meta_title", input.MetaTitle)
	p.str("meta_description", input.MetaDescription)
	p.list("meta_keywords", input.MetaKeywords)
	p.num(domain.FieldSortOrder, input.SortOrder)
	p.boolean(domain.FieldIsActive, input.IsActive)

	return s.update(ctx, id, p.u)
}

// Remove deletes a post according to its delete policy.
func (s *BlogService) Remove(ctx context.Context, id string) error {
	return s.remove(ctx, id)
}

func nonNil(vs []string) []string {
	if vs == nil {
		return []string{}
	}
	return vs
}
