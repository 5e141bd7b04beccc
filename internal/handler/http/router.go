// Package http exposes the catalog API over HTTP.
package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vinhhoang-1312/apiskylarbox/pkg/health"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/middleware"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
)

// Services bundles the business services the router dispatches to.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Products      *service.ProductService
	Categories    *service.CategoryService
	Partners      *service.PartnerService
	Blog          *service.BlogService
	Testimonials  *service.TestimonialService
	FeaturedBoxes *service.FeaturedBoxService
}

// RouterConfig holds the HTTP concerns configured per deployment.
type RouterConfig struct {
	ServiceName string
	CORS        middleware.CORSConfig

	// AuthRateLimitRPS and AuthRateLimitBurst bound /api/auth per client IP.
	// A zero RPS disables the limiter.
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	// PublicCacheMaxAge is the Cache-Control max-age of catalog reads. Blog
	// reads are never cached since they count views.
	PublicCacheMaxAge int

	PprofAllowedCIDRs []string
}

// NewRouter creates a chi router with every catalog route registered. ctx
// bounds the background cleanup of the rate limiter.
func NewRouter(
	ctx context.Context,
	cfg RouterConfig,
	svc Services,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracer(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	if len(cfg.PprofAllowedCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)
	}

	authenticate := middleware.Auth(TokenValidator(svc.Auth))
	noStore := middleware.CacheControl(0)
	catalogCache := middleware.CacheControl(cfg.PublicCacheMaxAge)

	authHandler := NewAuthHandler(svc.Auth, logger)
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(noStore)
		if cfg.AuthRateLimitRPS > 0 {
			r.Use(middleware.RateLimit(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, logger))
		}

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
		r.Post("/forgot-password", authHandler.ForgotPassword)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/change-password", authHandler.ChangePassword)
			r.Post("/logout", authHandler.Logout)
			r.Get("/profile", authHandler.Profile)
			r.Get("/validate", authHandler.Validate)
		})
	})

	userHandler := NewUserHandler(svc.Users, logger)
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireAdmin)
		r.Use(noStore)

		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Get("/admins", userHandler.Admins)
		r.Get("/active", userHandler.Active)
		r.Get("/{id}", userHandler.Get)
		r.Patch("/{id}", userHandler.Update)
		r.Delete("/{id}", userHandler.Delete)
	})

	admin := func(r chi.Router) chi.Router {
		return r.With(authenticate, middleware.RequireAdmin)
	}

	productHandler := NewProductHandler(svc.Products, logger)
	r.Route("/api/products", func(r chi.Router) {
		r.Use(catalogCache)

		r.Get("/", productHandler.List)
		r.Get("/featured", productHandler.Featured)
		r.Get("/slug/{slug}", productHandler.GetBySlug)
		r.Get("/category/{category}", productHandler.ByCategory)
		r.Get("/category-id/{id}", productHandler.ByCategoryID)
		r.Get("/type/{type}", productHandler.ByType)
		r.Get("/{id}", productHandler.Get)

		admin(r).Post("/", productHandler.Create)
		admin(r).Patch("/{id}", productHandler.Update)
		admin(r).Delete("/{id}", productHandler.Delete)
	})

	categoryHandler := NewCategoryHandler(svc.Categories, logger)
	r.Route("/api/categories", func(r chi.Router) {
		r.Use(catalogCache)

		r.Get("/", categoryHandler.List)
		r.Get("/roots", categoryHandler.Roots)
		r.Get("/slug/{slug}", categoryHandler.GetBySlug)
		r.Get("/{id}/children", categoryHandler.Children)
		r.Get("/{id}", categoryHandler.Get)

		admin(r).Post("/", categoryHandler.Create)
		admin(r).Patch("/{id}", categoryHandler.Update)
		admin(r).Delete("/{id}", categoryHandler.Delete)
	})

	partnerHandler := NewPartnerHandler(svc.Partners, logger)
	r.Route("/api/partners", func(r chi.Router) {
		r.Use(catalogCache)

		r.Get("/", partnerHandler.List)
		r.Get("/active", partnerHandler.Active)
		r.Get("/{id}", partnerHandler.Get)

		admin(r).Post("/", partnerHandler.Create)
		admin(r).Patch("/{id}", partnerHandler.Update)
		admin(r).Delete("/{id}", partnerHandler.Delete)
	})

	blogHandler := NewBlogHandler(svc.Blog, logger)
	r.Route("/api/blog", func(r chi.Router) {
		r.Use(noStore)

		r.Get("/", blogHandler.List)
		r.Get("/featured", blogHandler.Featured)
		r.Get("/popular", blogHandler.Popular)
		r.Get("/tags", blogHandler.ByTags)
		r.Get("/slug/{slug}", blogHandler.GetBySlug)
		r.Get("/category/{category}", blogHandler.ByCategory)
		r.Get("/author/{author}", blogHandler.ByAuthor)
		r.Get("/{id}", blogHandler.Get)
		r.Post("/{id}/like", blogHandler.Like)

		admin(r).Post("/", blogHandler.Create)
		admin(r).Patch("/{id}", blogHandler.Update)
		admin(r).Delete("/{id}", blogHandler.Delete)
	})

	testimonialHandler := NewTestimonialHandler(svc.Testimonials, logger)
	r.Route("/api/testimonials", func(r chi.Router) {
		r.Use(catalogCache)

		r.Get("/", testimonialHandler.List)
		r.Get("/active", testimonialHandler.Active)
		r.Get("/{id}", testimonialHandler.Get)

		admin(r).Post("/", testimonialHandler.Create)
		admin(r).Patch("/{id}", testimonialHandler.Update)
		admin(r).Delete("/{id}", testimonialHandler.Delete)
	})

	featuredBoxHandler := NewFeaturedBoxHandler(svc.FeaturedBoxes, logger)
	r.Route("/api/featured-boxes", func(r chi.Router) {
		r.Use(catalogCache)

		r.Get("/", featuredBoxHandler.List)
		r.Get("/featured", featuredBoxHandler.Featured)
		r.Get("/active", featuredBoxHandler.Active)
		r.Get("/tags", featuredBoxHandler.ByTags)
		r.Get("/slug/{slug}", featuredBoxHandler.GetBySlug)
		r.Get("/category/{category}", featuredBoxHandler.ByCategory)
		r.Get("/{id}", featuredBoxHandler.Get)

		admin(r).Post("/", featuredBoxHandler.Create)
		admin(r).Patch("/{id}", featuredBoxHandler.Update)
		admin(r).Delete("/{id}", featuredBoxHandler.Delete)
	})

	return r
}
