package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/auth"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/config"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/postgres/migrations"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	handler "github.com/Vinhhoang-1312/apiskylarbox/internal/handler/http"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/notify"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/service"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/database"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/health"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/httpclient"
	pkgkafka "github.com/Vinhhoang-1312/apiskylarbox/pkg/kafka"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/middleware"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/tracing"
)

// Version is reported to the tracing backend.
const Version = "0.1.0"

// App wires together all dependencies and runs the catalog API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	mongoClient    *mongo.Client
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
	stop           context.CancelFunc
}

// NewApp creates a new application instance, initializing all dependencies.
// Connections opened before a failure are closed again.
func NewApp(cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.closeResources()
		}
	}()

	// Initialize OpenTelemetry tracing.
	a.tracerShutdown, err = tracing.InitTracer(ctx, cfg.TracingConfig(Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	healthHandler := health.NewHandler()
	b := &backend{driver: cfg.StoreDriver, cacheTTL: cfg.CacheTTL, logger: logger}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		mongoCfg := cfg.MongoConfig()
		a.mongoClient, err = database.NewMongoClient(ctx, mongoCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		logger.Info("connected to MongoDB", slog.String("database", mongoCfg.Database))
		b.mongoDB = a.mongoClient.Database(mongoCfg.Database)
		if err = ensureMongoIndexes(ctx, b.mongoDB); err != nil {
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		healthHandler.RegisterCritical("mongo", database.MongoPing(a.mongoClient))

	case config.DriverPostgres:
		pgCfg := cfg.PostgresConfig()
		a.pool, err = database.NewPostgresPool(ctx, &pgCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		logger.Info("connected to PostgreSQL",
			slog.String("host", pgCfg.Host),
			slog.Int("port", pgCfg.Port),
			slog.String("database", pgCfg.DBName),
		)
		database.RegisterPoolMetrics(a.pool, cfg.ServiceName)

		if err = database.RunMigrations(ctx, a.pool, migrations.FS, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations completed")

		if cfg.SlowQueryThresholdMs > 0 {
			database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
		}
		b.pool = a.pool
		healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
			return a.pool.Ping(ctx)
		})

	default:
		logger.Warn("using in-memory store, data is lost on restart")
	}

	if cfg.CacheEnabled {
		a.redis, err = database.NewRedisClient(ctx, cfg.RedisConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		b.rdb = a.redis
		healthHandler.RegisterNonCritical("redis", database.RedisPing(a.redis))
		logger.Info("redis cache enabled", slog.Duration("ttl", cfg.CacheTTL))
	}

	st, err := openStores(b)
	if err != nil {
		return nil, err
	}

	// Kafka is optional. Without brokers, events are dropped.
	var publisher event.Publisher = event.Nop{}
	var eventProducer *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		eventProducer = event.NewProducer(a.producer, logger)
		publisher = eventProducer
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	notifier, err := newNotifier(cfg, eventProducer, logger)
	if err != nil {
		return nil, err
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	authService := service.NewAuthService(st.users, jwtManager, publisher, notifier, logger)
	svc := handler.Services{
		Auth:          authService,
		Users:         service.NewUserService(st.users, publisher, logger),
		Products:      service.NewProductService(st.products, st.categories, cfg.DeletePolicy(domain.EntityProduct), publisher, logger),
		Categories:    service.NewCategoryService(st.categories, cfg.DeletePolicy(domain.EntityCategory), publisher, logger),
		Partners:      service.NewPartnerService(st.partners, cfg.DeletePolicy(domain.EntityPartner), publisher, logger),
		Blog:          service.NewBlogService(st.blog, cfg.DeletePolicy(domain.EntityBlogPost), publisher, logger),
		Testimonials:  service.NewTestimonialService(st.testimonials, cfg.DeletePolicy(domain.EntityTestimonial), publisher, logger),
		FeaturedBoxes: service.NewFeaturedBoxService(st.featuredBoxes, cfg.DeletePolicy(domain.EntityFeaturedBox), publisher, logger),
	}

	if cfg.AdminUserName != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.AdminUserName, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
		if created {
			logger.Info("admin account created", slog.String("user_name", cfg.AdminUserName))
		}
	}

	// The router context outlives NewApp and is cancelled on shutdown.
	routerCtx, stop := context.WithCancel(context.Background())
	a.stop = stop

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	router := handler.NewRouter(routerCtx, handler.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORS:               cors,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
		PublicCacheMaxAge:  cfg.PublicCacheMaxAge,
		PprofAllowedCIDRs:  cfg.PprofAllowedCIDRs,
	}, svc, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// newNotifier selects how password reset tokens are delivered.
func newNotifier(cfg *config.Config, producer *event.Producer, logger *slog.Logger) (notify.Notifier, error) {
	switch cfg.Notifier {
	case notify.KindKafka:
		if producer == nil {
			return nil, errors.New("kafka notifier requires KAFKA_BROKERS")
		}
		return notify.NewKafkaNotifier(producer), nil
	case notify.KindWebhook:
		client := httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("password-reset-webhook"),
			logger,
		)
		return notify.NewWebhookNotifier(client, cfg.NotifierWebhookURL), nil
	default:
		return notify.NewLogNotifier(logger), nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		a.closeResources()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: the HTTP server
// drains first, then pending spans are flushed, then the Kafka producer
// and the storage connections are closed.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeResources releases everything NewApp opened. Nil members are skipped.
func (a *App) closeResources() error {
	var errs []error

	if a.stop != nil {
		a.stop()
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.mongoClient != nil {
		mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer mongoCancel()
		if err := a.mongoClient.Disconnect(mongoCtx); err != nil {
			a.logger.Error("mongo disconnect error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	return errors.Join(errs...)
}
