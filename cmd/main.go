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

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weiawesome/wes-furniture/internal/cache"
	"github.com/weiawesome/wes-furniture/internal/config"
	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/handler"
	"github.com/weiawesome/wes-furniture/internal/imageproc"
	"github.com/weiawesome/wes-furniture/internal/repository"
	"github.com/weiawesome/wes-furniture/internal/search"
	"github.com/weiawesome/wes-furniture/internal/service"
	"github.com/weiawesome/wes-furniture/pkg/database"
	pkglog "github.com/weiawesome/wes-furniture/pkg/log"
	"github.com/weiawesome/wes-furniture/pkg/storage"
)

var defaultRooms = []string{"Living Room", "Dining Room", "Bedroom", "Office", "Showpieces"}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "furniture",
	})
	logger := pkglog.L()
	ctx := pkglog.WithLogger(context.Background(), logger)

	// Connect to database using GORM
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, repository.Models()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto-migrate")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database ready")

	catalogRepo := repository.NewGormCatalogRepository(db)
	if err := seedRooms(ctx, catalogRepo); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed rooms")
	}

	// Initialize Redis cache; an unreachable store only degrades to direct reads
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure redis")
	}
	pageCache := cache.New(redisClient, cache.Options{
		WriteTimeout: cfg.Cache.WriteTimeout,
		FetchTimeout: cfg.Cache.FetchTimeout,
		ScanCount:    cfg.Cache.ScanCount,
	})
	if !pageCache.Enabled() {
		logger.Warn().Msg("redis url not set, caching disabled")
	} else if err := pageCache.Ping(ctx); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable, serving from database")
	} else {
		logger.Info().Msg("redis connected")
	}

	// Initialize search backend
	searcher, indexer, err := newSearchBackend(ctx, cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize search backend")
	}
	if indexer != nil {
		if err := syncIndex(ctx, catalogRepo, indexer); err != nil {
			logger.Warn().Err(err).Msg("search index sync incomplete")
		}
	}
	ranker := search.NewRanker(searcher, search.Options{
		FetchLimit:     cfg.Search.FetchLimit,
		ResultLimit:    cfg.Search.ResultLimit,
		MinQueryLength: cfg.Search.MinQueryLength,
	})

	// Initialize image storage
	store, err := storage.New(ctx, cfg.Storage.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	images := imageproc.NewProcessor(store, imageproc.Options{
		MaxBytes:    cfg.Storage.MaxImageBytes,
		ThumbSize:   cfg.Storage.ThumbnailSize,
		JpegQuality: cfg.Storage.JpegQuality,
	})

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, pageCache, cfg.Cache.TTL)
	adminService := service.NewAdminService(catalogRepo, pageCache, indexer, images)
	searchService := service.NewSearchService(ranker)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger, "/health", cfg.Storage.Local.URLPrefix))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		r.Static(cfg.Storage.Local.URLPrefix, cfg.Storage.Local.BasePath)
	}

	// Register routes
	handler.NewHandler(catalogService, searchService).RegisterRoutes(r)
	handler.NewAdminHandler(adminService, images.MaxBytes()).RegisterRoutes(r, cfg.Admin.RoutePrefix)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Str("search_backend", cfg.Search.Backend).Msg("furniture server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := pageCache.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close redis client")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info().Msg("furniture server stopped")
}

// newSearchBackend returns the searcher named by search.backend. Only the
// elasticsearch backend needs an indexer; the database backend reads the
// tables directly.
func newSearchBackend(ctx context.Context, cfg *config.Config, db *gorm.DB) (search.Searcher, repository.Indexer, error) {
	switch cfg.Search.Backend {
	case "", "database":
		return repository.NewGormSearcher(db), nil, nil

	case "elasticsearch":
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.Elasticsearch.Addresses,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}

		res, err := esClient.Info()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
		}
		res.Body.Close()

		es := repository.NewESSearcher(esClient, cfg.Elasticsearch.IndexItems, cfg.Elasticsearch.IndexSets)
		if err := es.EnsureIndices(ctx); err != nil {
			return nil, nil, err
		}
		l := pkglog.Ctx(ctx)
		l.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")
		return es, es, nil

	default:
		return nil, nil, fmt.Errorf("unsupported search backend: %s", cfg.Search.Backend)
	}
}

// seedRooms creates the fixed room list on an empty database.
func seedRooms(ctx context.Context, repo repository.RoomRepository) error {
	rooms, err := repo.ListRooms(ctx)
	if err != nil {
		return err
	}
	if len(rooms) > 0 {
		return nil
	}

	for _, name := range defaultRooms {
		if err := repo.CreateRoom(ctx, &domain.Room{Name: name}); err != nil {
			return fmt.Errorf("failed to create room %s: %w", name, err)
		}
	}
	l := pkglog.Ctx(ctx)
	l.Info().Int("rooms", len(defaultRooms)).Msg("seeded default rooms")
	return nil
}

// syncIndex mirrors every item and set into the search index.
func syncIndex(ctx context.Context, repo repository.CatalogRepository, indexer repository.Indexer) error {
	items, err := repo.ListItems(ctx, domain.ItemFilter{})
	if err != nil {
		return err
	}
	for i := range items {
		if err := indexer.IndexItem(ctx, &items[i]); err != nil {
			return fmt.Errorf("failed to index item %s: %w", items[i].Code, err)
		}
	}

	sets, err := repo.ListSets(ctx, domain.SetFilter{})
	if err != nil {
		return err
	}
	for i := range sets {
		if err := indexer.IndexSet(ctx, &sets[i]); err != nil {
			return fmt.Errorf("failed to index set %s: %w", sets[i].Code, err)
		}
	}

	l := pkglog.Ctx(ctx)
	l.Info().Int("items", len(items)).Int("sets", len(sets)).Msg("search index synced")
	return nil
}
