package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	cloudstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/sakisou/api/internal/ai"
	"github.com/sakisou/api/internal/handlers"
	"github.com/sakisou/api/internal/platform/config"
	pfirestore "github.com/sakisou/api/internal/platform/firestore"
	"github.com/sakisou/api/internal/platform/observability"
	platformstorage "github.com/sakisou/api/internal/platform/storage"
	"github.com/sakisou/api/internal/repositories"
	firestoreRepo "github.com/sakisou/api/internal/repositories/firestore"
	"github.com/sakisou/api/internal/services"
)

func main() {
	ctx := context.Background()
	startedAt := time.Now().UTC()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("invalid configuration", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	buildInfo := buildInfoFromEnv(cfg, startedAt)

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	imagesBucket := strings.TrimSpace(cfg.Storage.ImagesBucket)
	if imagesBucket == "" {
		logger.Fatal("storage images bucket is required")
	}
	uploader, err := platformstorage.NewUploader(ctx, imagesBucket)
	if err != nil {
		logger.Fatal("failed to initialise storage uploader", zap.Error(err))
	}
	defer func() {
		if err := uploader.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	storageClient, err := cloudstorage.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialise storage client", zap.Error(err))
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	healthRepo, err := newHealthRepository(firestoreClient, storageClient, imagesBucket)
	if err != nil {
		logger.Fatal("failed to initialise health checks", zap.Error(err))
	}

	registry, err := firestoreRepo.NewRegistry(firestoreProvider, healthRepo)
	if err != nil {
		logger.Fatal("failed to initialise repositories", zap.Error(err))
	}

	var classifier ai.Classifier
	if strings.TrimSpace(cfg.AI.APIKey) != "" {
		geminiClassifier, err := ai.NewGeminiClassifier(ctx, cfg.AI.APIKey, cfg.AI.TextModel, cfg.AI.TextTimeout)
		if err != nil {
			logger.Fatal("failed to initialise emotion classifier", zap.Error(err))
		}
		classifier = geminiClassifier
	} else {
		logger.Warn("no AI api key configured; emotion analysis falls back to the default classification")
	}

	var imageGenerator ai.ImageGenerator
	if strings.TrimSpace(cfg.AI.APIKey) != "" && !cfg.AI.DisableImage {
		generator, err := ai.NewGeminiImageGenerator(ctx, cfg.AI.APIKey, cfg.AI.ImageModel, "1:1", cfg.AI.ImageTimeout)
		if err != nil {
			logger.Fatal("failed to initialise image generator", zap.Error(err))
		}
		imageGenerator = generator
	} else {
		logger.Warn("image generation disabled; bouquets receive placeholder imagery")
	}

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	emotionService, err := services.NewEmotionService(services.EmotionServiceDeps{
		Emotions:   registry.Emotions(),
		Users:      registry.Users(),
		Catalog:    catalogService,
		Classifier: classifier,
		Clock:      time.Now,
		Logger:     serviceEventLogger(logger.Named("emotions")),
	})
	if err != nil {
		logger.Fatal("failed to initialise emotion service", zap.Error(err))
	}

	bouquetService, err := services.NewBouquetService(services.BouquetServiceDeps{
		Bouquets: registry.Bouquets(),
		Emotions: registry.Emotions(),
		Users:    registry.Users(),
		Catalog:  catalogService,
		Images:   imageGenerator,
		Store:    uploader,
		Clock:    time.Now,
		Logger:   serviceEventLogger(logger.Named("bouquets")),
	})
	if err != nil {
		logger.Fatal("failed to initialise bouquet service", zap.Error(err))
	}

	galleryService, err := services.NewGalleryService(services.GalleryServiceDeps{
		Bouquets:           registry.Bouquets(),
		Clock:              time.Now,
		TrendingWindowDays: cfg.Gallery.TrendingWindowDays,
	})
	if err != nil {
		logger.Fatal("failed to initialise gallery service", zap.Error(err))
	}

	systemService, err := services.NewSystemService(services.SystemServiceDeps{
		HealthRepository: registry.Health(),
		Clock:            time.Now,
		Build:            buildInfo,
	})
	if err != nil {
		logger.Fatal("failed to initialise system service", zap.Error(err))
	}

	limiter := handlers.NewRateLimiter(cfg.RateLimits.MaxRequests, cfg.RateLimits.Window, nil)
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	var sweepWG sync.WaitGroup
	if limiter != nil {
		sweepWG.Add(1)
		go func() {
			defer sweepWG.Done()
			limiter.Sweep(sweepCtx, cfg.RateLimits.SweepInterval)
		}()
	}

	projectID := cfg.Firestore.ProjectID
	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(projectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(projectID),
	}

	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(buildInfo),
		handlers.WithHealthSystemService(systemService),
	)

	emotionHandlers := handlers.NewEmotionHandlers(emotionService)
	bouquetHandlers := handlers.NewBouquetHandlers(bouquetService)
	userHandlers := handlers.NewUserHandlers(emotionService, bouquetService)
	galleryHandlers := handlers.NewGalleryHandlers(galleryService)

	var opts []handlers.Option
	opts = append(opts, handlers.WithMiddlewares(middlewares...))
	opts = append(opts, handlers.WithAPIMiddlewares(limiter.Middleware))
	opts = append(opts, handlers.WithHealthHandlers(healthHandlers))
	opts = append(opts, handlers.WithEmotionRoutes(emotionHandlers.Routes))
	opts = append(opts, handlers.WithBouquetRoutes(bouquetHandlers.Routes))
	opts = append(opts, handlers.WithUserRoutes(userHandlers.Routes))
	opts = append(opts, handlers.WithGalleryRoutes(galleryHandlers.Routes))

	router := handlers.NewRouter(opts...)
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("sakisou api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	sweepCancel()
	sweepWG.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildInfoFromEnv(cfg config.Config, started time.Time) services.BuildInfo {
	version := strings.TrimSpace(os.Getenv("API_BUILD_VERSION"))
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(os.Getenv("API_BUILD_COMMIT_SHA"))
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(os.Getenv("API_ENVIRONMENT"))
	if environment == "" {
		if cfg.Firestore.EmulatorHost != "" {
			environment = "local"
		} else {
			environment = "production"
		}
	}
	return services.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
		StartedAt:   started,
	}
}

func newHealthRepository(client *firestore.Client, storageClient *cloudstorage.Client, bucket string) (repositories.HealthRepository, error) {
	checks := make([]repositories.DependencyCheck, 0, 2)
	if client != nil {
		c := client
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				iter := c.Collections(ctx)
				_, err := iter.Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		})
	}
	if storageClient != nil && bucket != "" {
		handle := storageClient.Bucket(bucket)
		checks = append(checks, repositories.DependencyCheck{
			Name:    "storage",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				_, err := handle.Attrs(ctx)
				return err
			},
		})
	}
	if len(checks) == 0 {
		return nil, errors.New("health: no dependency checks configured")
	}
	return repositories.NewDependencyHealthRepository(checks)
}

// serviceEventLogger adapts a zap logger to the event callback the services accept.
func serviceEventLogger(logger *zap.Logger) func(context.Context, string, map[string]any) {
	return func(_ context.Context, event string, fields map[string]any) {
		zFields := make([]zap.Field, 0, len(fields))
		for k, v := range fields {
			zFields = append(zFields, zap.Any(k, v))
		}
		logger.Info(event, zFields...)
	}
}
