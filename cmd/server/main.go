// @title           Social Feed Comments API
// @version         1.0
// @description     Threaded comments, reactions and mention notifications for feed posts.

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialfeed/internal/cache"
	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/events"
	"socialfeed/internal/middleware"
	"socialfeed/internal/monitoring"
	"socialfeed/internal/repositories"
	"socialfeed/internal/response"
	"socialfeed/internal/router"
	"socialfeed/internal/services"
	"socialfeed/internal/utils"
	"socialfeed/internal/utils/appinfo"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCMD = &cobra.Command{
	Use:           "socialfeed-comments",
	Short:         "Comment and reaction engine for the social feed",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCMD.AddCommand(serveCMD)
}

func main() {
	if err := rootCMD.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// backend holds the storage handles the server has to close on exit
type backend struct {
	repos *repositories.Collection
	db    *database.Manager
	mongo *database.MongoStore
	cache cache.Cache
}

func (b *backend) Close(ctx context.Context, logger *zap.Logger) {
	if b.cache != nil {
		if err := b.cache.Close(); err != nil {
			logger.Warn("Failed to close cache", zap.Error(err))
		}
	}
	if b.mongo != nil {
		if err := b.mongo.Close(ctx); err != nil {
			logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting comment engine",
		zap.String("service", appinfo.Name),
		zap.String("version", appinfo.GetVersion()),
		zap.String("environment", cfg.Server.Environment),
		zap.String("store", cfg.Store.Provider),
	)

	authMiddleware, err := middleware.NewAuthMiddleware(&middleware.AuthConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		JWTIssuer: cfg.Auth.JWTIssuer,
		Leeway:    30 * time.Second,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	store, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}

	// Notification delivery
	busConfig := events.DefaultEventBusConfig()
	busConfig.WorkerCount = cfg.Notifications.Workers
	busConfig.BufferSize = cfg.Notifications.BufferSize
	bus := events.NewEventBus(busConfig, logger)

	var avatarResolver services.AvatarResolver
	if avatars, err := utils.NewAvatarService(cfg.Cloudinary, logger); err != nil {
		logger.Warn("Cloudinary initialization failed, avatars are served unchanged", zap.Error(err))
	} else {
		avatarResolver = avatars
	}

	serviceCollection, err := services.NewServiceCollection(store.repos, bus, avatarResolver, cfg, logger)
	if err != nil {
		store.Close(context.Background(), logger)
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	if err := serviceCollection.Start(context.Background()); err != nil {
		store.Close(context.Background(), logger)
		return err
	}

	responseConfig := response.DefaultConfig()
	responseConfig.PrettyJSON = !cfg.IsProduction()
	responseBuilder := response.NewBuilder(responseConfig, logger)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.SlowRequestThreshold = cfg.Logging.SlowRequestThreshold

	recoveryConfig := middleware.DefaultRecoveryConfig()
	recoveryConfig.EnableStackTrace = !cfg.IsProduction()

	swaggerConfig := middleware.DefaultSwaggerConfig()
	swaggerConfig.Username = cfg.Server.SwaggerUser
	swaggerConfig.Password = cfg.Server.SwaggerPassword

	dashboardOpts := []monitoring.Option{monitoring.WithEventBus(bus)}
	if store.db != nil {
		dashboardOpts = append(dashboardOpts, monitoring.WithDatabase(store.db))
	}
	dashboard := monitoring.NewDashboard(serviceCollection, logger, appinfo.Name, appinfo.GetVersion(), cfg.Server.Environment, dashboardOpts...)

	handler := router.SetupRouter(router.Options{
		Services:        serviceCollection,
		Auth:            authMiddleware,
		ResponseBuilder: responseBuilder,
		Dashboard:       dashboard,
		Logging:         loggingConfig,
		Recovery:        recoveryConfig,
		Swagger:         swaggerConfig,
		CORSOrigin:      cfg.Server.CORSOrigin,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("address", server.Addr),
			zap.String("health_check", "/health"),
			zap.String("swagger_ui", "/swagger/index.html"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("Shutting down application...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	// Drain queued notifications before the stores go away
	if err := serviceCollection.Shutdown(shutdownCtx); err != nil {
		logger.Error("Notification queue did not drain", zap.Error(err))
	}
	store.Close(shutdownCtx, logger)

	logger.Info("Application stopped")
	return nil
}

// openBackend connects the configured comment store and the handle cache
func openBackend(cfg *config.Config, logger *zap.Logger) (*backend, error) {
	b := &backend{}

	cacheConfig := cache.DefaultConfig()
	cacheConfig.Provider = cfg.Cache.Provider
	cacheConfig.RedisURL = cfg.Cache.RedisURL
	cacheConfig.RedisDB = cfg.Cache.RedisDB
	cacheConfig.PoolSize = cfg.Cache.PoolSize
	cacheConfig.TTL = cfg.Cache.HandleCacheTTL

	handleCache, err := cache.NewCache(cacheConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	b.cache = handleCache

	repoConfig := &repositories.RepositoryConfig{
		HandleCache:    handleCache,
		HandleCacheTTL: cfg.Cache.HandleCacheTTL,
	}

	switch cfg.Store.Provider {
	case "postgres":
		b.db, err = database.NewManager(&cfg.Database, logger)
		if err != nil {
			b.Close(context.Background(), logger)
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := b.db.Migrate(cfg.Database.MigrationsPath); err != nil {
				b.Close(context.Background(), logger)
				return nil, err
			}
		}
		b.repos, err = repositories.NewPostgresCollection(b.db, logger, repoConfig)

	case "mongo":
		b.mongo, err = database.NewMongoStore(&cfg.Store, logger)
		if err != nil {
			b.Close(context.Background(), logger)
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Store.MongoTimeout)
		err = b.mongo.EnsureIndexes(ctx)
		cancel()
		if err != nil {
			b.Close(context.Background(), logger)
			return nil, err
		}
		b.repos, err = repositories.NewMongoCollection(b.mongo, logger, repoConfig)

	default:
		logger.Warn("Using the in-memory comment store; data is lost on restart")
		b.repos = repositories.NewMemoryCollection(
			repositories.NewMemoryDirectory(),
			repositories.NewMemoryNotificationSink(),
			logger,
			repoConfig,
		)
	}
	if err != nil {
		b.Close(context.Background(), logger)
		return nil, err
	}
	return b, nil
}

// initLogger initializes the structured logger based on environment
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	switch cfg.Server.Environment {
	case "production", "staging":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.With(zap.String("service", appinfo.Name)), nil
}
