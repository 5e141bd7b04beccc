package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/config"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/cache"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/memory"
	mongostore "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/mongo"
	pgstore "github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/postgres"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
)

// backend opens collections on the configured storage driver.
type backend struct {
	driver   string
	mongoDB  *mongo.Database
	pool     *pgxpool.Pool
	rdb      redis.UniversalClient
	cacheTTL time.Duration
	logger   *slog.Logger
}

// system is the db.system span attribute for the driver.
func (b *backend) system() string {
	switch b.driver {
	case config.DriverMongo:
		return "mongodb"
	case config.DriverPostgres:
		return "postgresql"
	default:
		return "memory"
	}
}

// openStore returns the store for collection, instrumented and, when
// cacheable and Redis is configured, behind the read-through cache.
func openStore[T any](b *backend, collection string, cacheable bool) (docstore.Store[T], error) {
	var store docstore.Store[T]
	switch b.driver {
	case config.DriverMongo:
		store = mongostore.New[T](b.mongoDB, collection)
	case config.DriverPostgres:
		s, err := pgstore.New[T](b.pool, collection)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", collection, err)
		}
		store = s
	default:
		store = memory.New[T](collection)
	}

	store = docstore.Observe(store, b.system(), collection, b.logger)
	if cacheable && b.rdb != nil {
		store = cache.New(store, b.rdb, collection, b.cacheTTL, b.logger)
	}
	return store, nil
}

// stores holds one store per collection.
type stores struct {
	users         docstore.Store[domain.User]
	products      docstore.Store[domain.Product]
	categories    docstore.Store[domain.Category]
	partners      docstore.Store[domain.Partner]
	blog          docstore.Store[domain.BlogPost]
	testimonials  docstore.Store[domain.Testimonial]
	featuredBoxes docstore.Store[domain.FeaturedBox]
}

func openStores(b *backend) (*stores, error) {
	var (
		s   stores
		err error
	)
	// Users hold secrets that never reach the JSON cache encoding.
	if s.users, err = openStore[domain.User](b, domain.CollectionUsers, false); err != nil {
		return nil, err
	}
	if s.products, err = openStore[domain.Product](b, domain.CollectionProducts, true); err != nil {
		return nil, err
	}
	if s.categories, err = openStore[domain.Category](b, domain.CollectionCategories, true); err != nil {
		return nil, err
	}
	if s.partners, err = openStore[domain.Partner](b, domain.CollectionPartners, true); err != nil {
		return nil, err
	}
	if s.blog, err = openStore[domain.BlogPost](b, domain.CollectionBlog, true); err != nil {
		return nil, err
	}
	if s.testimonials, err = openStore[domain.Testimonial](b, domain.CollectionTestimonials, true); err != nil {
		return nil, err
	}
	if s.featuredBoxes, err = openStore[domain.FeaturedBox](b, domain.CollectionFeaturedBoxes, true); err != nil {
		return nil, err
	}
	return &s, nil
}

// mongoIndexes lists the lookup indexes created at startup. Uniqueness is
// enforced by the services, so none of them are unique.
var mongoIndexes = map[string][]mongostore.Index{
	domain.CollectionUsers: {
		{Fields: []string{"user_name"}},
		{Fields: []string{"email"}},
		{Fields: []string{"reset_password_token"}},
	},
	domain.CollectionProducts:      {{Fields: []string{domain.FieldSlug}}, {Fields: []string{"category_id"}}},
	domain.CollectionCategories:    {{Fields: []string{domain.FieldSlug}}, {Fields: []string{"parent_id"}}},
	domain.CollectionPartners:      {{Fields: []string{"partner_id"}}},
	domain.CollectionBlog:          {{Fields: []string{domain.FieldSlug}}, {Fields: []string{"tags"}}},
	domain.CollectionTestimonials:  {{Fields: []string{domain.FieldSortOrder}}},
	domain.CollectionFeaturedBoxes: {{Fields: []string{domain.FieldSlug}}, {Fields: []string{"tags"}}},
}

func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for collection, indexes := range mongoIndexes {
		if err := mongostore.EnsureIndexes(ctx, db, collection, indexes...); err != nil {
			return err
		}
	}
	return nil
}
