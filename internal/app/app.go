package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/UTarts/cardiff-healthcare/internal/assets"
	"github.com/UTarts/cardiff-healthcare/internal/auth"
	"github.com/UTarts/cardiff-healthcare/internal/catalog"
	"github.com/UTarts/cardiff-healthcare/internal/config"
	"github.com/UTarts/cardiff-healthcare/internal/event"
	"github.com/UTarts/cardiff-healthcare/internal/gateway"
	handler "github.com/UTarts/cardiff-healthcare/internal/handler/http"
	"github.com/UTarts/cardiff-healthcare/internal/notify"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	"github.com/UTarts/cardiff-healthcare/internal/repository/memory"
	"github.com/UTarts/cardiff-healthcare/internal/repository/postgres"
	"github.com/UTarts/cardiff-healthcare/internal/repository/rest"
	"github.com/UTarts/cardiff-healthcare/internal/service"
	"github.com/UTarts/cardiff-healthcare/internal/storage"
	storagemem "github.com/UTarts/cardiff-healthcare/internal/storage/memory"
	storagerest "github.com/UTarts/cardiff-healthcare/internal/storage/rest"
	"github.com/UTarts/cardiff-healthcare/pkg/database"
	"github.com/UTarts/cardiff-healthcare/pkg/health"
	"github.com/UTarts/cardiff-healthcare/pkg/httpclient"
	pkgkafka "github.com/UTarts/cardiff-healthcare/pkg/kafka"
	"github.com/UTarts/cardiff-healthcare/pkg/tracing"
)

// Backend is the data side of the storefront: repositories, object
// storage and the account authenticator for one gateway driver.
type Backend struct {
	Products      repository.ProductRepository
	Inquiries     repository.InquiryRepository
	Storage       storage.Storage
	Authenticator auth.Authenticator
	Tokens        *auth.JWTManager

	pool *pgxpool.Pool
}

// Close releases the database pool, if any.
func (b *Backend) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	backend        *Backend
	redis          *redis.Client
	producer       *pkgkafka.Producer
	worker         *notify.Worker
	tracerShutdown tracing.Shutdown
	stopMiddleware context.CancelFunc
	httpServer     *http.Server
}

// NewGatewayClient builds the gateway client behind retries and a circuit
// breaker.
func NewGatewayClient(cfg *config.Config, logger *slog.Logger) (*gateway.Client, error) {
	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.GatewayTimeout
	doer := httpclient.NewCircuitBreakerClient(httpclient.New(hc), httpclient.DefaultCircuitBreakerConfig("gateway"), logger)

	return gateway.New(gateway.Config{
		URL:        cfg.GatewayURL,
		AnonKey:    cfg.GatewayAnonKey,
		ServiceKey: cfg.GatewayServiceKey,
	}, doer)
}

// NewBackend opens the data side selected by GATEWAY_DRIVER and registers
// its health checks.
func NewBackend(ctx context.Context, cfg *config.Config, healthHandler *health.Handler, logger *slog.Logger) (*Backend, error) {
	secret := cfg.GatewayJWTSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("GATEWAY_JWT_SECRET not set; admin tokens will not survive a restart")
	}
	b := &Backend{Tokens: auth.NewJWTManager(secret, cfg.AuthTokenTTL)}

	var static auth.Authenticator
	if cfg.GatewayDriver != config.DriverREST {
		if cfg.AdminPassword == "" {
			logger.Warn("ADMIN_PASSWORD not set; admin sign-in is disabled")
		}
		a, err := auth.NewStaticAuthenticator(cfg.AdminEmail, cfg.AdminPassword, b.Tokens)
		if err != nil {
			return nil, err
		}
		static = a
	}

	switch cfg.GatewayDriver {
	case config.DriverREST:
		client, err := NewGatewayClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create gateway client: %w", err)
		}
		b.Products = rest.NewProductRepository(client)
		b.Inquiries = rest.NewInquiryRepository(client)
		b.Storage = storagerest.New(client, cfg.StorageBucket)
		b.Authenticator = auth.NewGatewayAuthenticator(client)
		healthHandler.Register("gateway", client.Ping)
		logger.Info("using gateway", slog.String("url", cfg.GatewayURL))

	case config.DriverPostgres:
		pg := cfg.Postgres()
		pool, err := database.NewPostgresPool(ctx, &pg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		b.pool = pool
		logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if cfg.PostgresMigrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
			logger.Info("database migrations completed")
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, handler.Component); err != nil {
			logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}

		b.Products = postgres.NewProductRepository(pool)
		b.Inquiries = postgres.NewInquiryRepository(pool)
		b.Authenticator = static
		healthHandler.Register("postgres", pool.Ping)

		// Images still go to the gateway bucket when one is configured.
		if cfg.GatewayURL != "" {
			client, err := NewGatewayClient(cfg, logger)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("create gateway client: %w", err)
			}
			b.Storage = storagerest.New(client, cfg.StorageBucket)
		} else {
			b.Storage = storagemem.New(cfg.StoragePublicURL)
		}

	default:
		b.Products = memory.NewProductRepository(memory.SeedProducts())
		b.Inquiries = memory.NewInquiryRepository()
		b.Storage = storagemem.New(cfg.StoragePublicURL)
		b.Authenticator = static
		logger.Info("using in-memory catalog with the sample products")
	}

	return b, nil
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(handler.Component))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdownTracer
	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)

	healthHandler := health.NewHandler()

	backend, err := NewBackend(ctx, cfg, healthHandler, logger)
	if err != nil {
		_ = a.tracerShutdown(context.Background())
		return nil, err
	}
	a.backend = backend

	// Redis backs the asset cache and notification dedup when enabled.
	var assetCache assets.Cache = assets.NewMemoryCache(cfg.AssetCacheMaxEntries, cfg.AssetCacheTTL)
	if cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, cfg.Redis())
		if err != nil {
			a.closeDependencies()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		assetCache = assets.NewRedisCache(client, "", cfg.AssetCacheTTL)
		healthHandler.RegisterOptional("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("connected to Redis", slog.String("addr", cfg.Redis().Addr()))
	}

	var publisher event.Publisher = event.Discard{}
	if cfg.KafkaEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	if cfg.NotifyEnabled {
		a.worker = a.newNotifyWorker()
	}

	// Build the dependency graph.
	engine := catalog.NewEngine(cfg.Locale())
	catalogService := service.NewCatalogService(backend.Products, engine, cfg.CatalogPlaceholder, logger)
	inquiryService := service.NewInquiryService(backend.Inquiries, backend.Products, publisher, cfg.WhatsAppNumber, logger)
	productService := service.NewProductService(backend.Products, backend.Storage, publisher, logger)
	authService := service.NewAuthService(backend.Authenticator, logger)

	assetClient := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("assets"),
		logger,
	)
	proxy := assets.NewProxy(assetClient, assetCache, cfg.AssetAllowedHosts, logger)

	middlewareCtx, stop := context.WithCancel(context.Background())
	a.stopMiddleware = stop

	router := handler.NewRouter(middlewareCtx, handler.RouterDeps{
		Catalog:             catalogService,
		Inquiries:           inquiryService,
		Products:            productService,
		Auth:                authService,
		Assets:              proxy,
		Health:              healthHandler,
		ValidateToken:       backend.Tokens.Validator(),
		AssetMaxAge:         cfg.AssetCacheTTL,
		CORSOrigins:         cfg.CORSAllowedOrigins,
		InquiryRateLimitRPS: cfg.InquiryRateLimitRPS,
		InquiryBurst:        cfg.InquiryRateBurst,
		TrustedProxies:      cfg.ProxyPrefixes(),
		Logger:              logger,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return a, nil
}

func (a *App) newNotifyWorker() *notify.Worker {
	emailCfg := notify.EmailConfig{
		APIURL:     a.cfg.NotifyEmailAPI,
		ServiceID:  a.cfg.NotifyServiceID,
		TemplateID: a.cfg.NotifyTemplateID,
		PublicKey:  a.cfg.NotifyPublicKey,
	}

	var sender notify.Sender = notify.NewLogSender(a.logger)
	if emailCfg.Configured() {
		sender = notify.NewEmailSender(httpclient.New(httpclient.DefaultConfig()), emailCfg)
	} else {
		a.logger.Warn("email credentials not set; inquiry notifications are only logged")
	}

	// A nil *redis.Client must not reach the store as a non-nil interface.
	var dedup redis.Cmdable
	if a.redis != nil {
		dedup = a.redis
	}

	return notify.NewWorker(notify.WorkerConfig{
		Brokers:    a.cfg.KafkaBrokers,
		GroupID:    a.cfg.NotifyGroupID,
		MaxRetries: a.cfg.NotifyMaxRetries,
		DedupTTL:   a.cfg.NotifyDedupTTL,
	}, notify.NewHandler(sender, a.cfg.NotifyToName, a.logger),
		notify.NewIdempotencyStore(dedup, a.cfg.NotifyDedupTTL),
		a.logger,
	)
}

// Run starts the HTTP server and the notification worker and blocks until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if a.worker != nil {
		go a.worker.Run(ctx)
		a.logger.Info("inquiry notification worker started", slog.String("group", a.cfg.NotifyGroupID))
	}

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("driver", a.cfg.GatewayDriver),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopMiddleware()

	a.closeDependencies()

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeDependencies() {
	if a.worker != nil {
		if err := a.worker.Close(); err != nil {
			a.logger.Error("notification worker close error", slog.String("error", err.Error()))
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}
	if a.backend != nil {
		a.backend.Close()
	}
}
