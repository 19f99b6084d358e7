package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/moviegraph-backend/internal/data/db"
	"github.com/yungbote/moviegraph-backend/internal/data/graph"
	"github.com/yungbote/moviegraph-backend/internal/data/repos/catalog"
	runsrepo "github.com/yungbote/moviegraph-backend/internal/data/repos/runs"
	"github.com/yungbote/moviegraph-backend/internal/http/handlers"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/neo4jdb"
	"github.com/yungbote/moviegraph-backend/internal/platform/rediscache"
	"github.com/yungbote/moviegraph-backend/internal/platform/scrape"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
	"github.com/yungbote/moviegraph-backend/internal/server"
)

type App struct {
	Log    *logger.Logger
	DB     *gorm.DB
	Router *gin.Engine
	Cfg    Config
	Batch  *ingest.Batch
	Runs   runsrepo.IngestRunRepo

	neo4j *neo4jdb.Client
	cache *rediscache.Cache
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	pg, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init relational store: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("relational automigrate: %w", err)
	}
	theDB := pg.DB()

	neoClient, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init graph store: %w", err)
	}
	if neoClient == nil {
		log.Warn("NEO4J_URI unset, running relational-only")
	}

	cache, err := rediscache.NewFromEnv(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init presence cache: %w", err)
	}
	if cache == nil {
		log.Warn("REDIS_ADDR unset, gate probes always hit the store")
	}

	tmdbClient, err := tmdb.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	batch, runRepo, err := wireIngest(theDB, neoClient, cache, tmdbClient, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	healthHandler := handlers.NewHealthHandler()
	ingestHandler := handlers.NewIngestHandler(batch, runRepo, log)
	router := server.NewRouter(server.RouterConfig{
		Log:           log,
		HealthHandler: healthHandler,
		IngestHandler: ingestHandler,
	})

	return &App{
		Log:    log,
		DB:     theDB,
		Router: router,
		Cfg:    cfg,
		Batch:  batch,
		Runs:   runRepo,
		neo4j:  neoClient,
		cache:  cache,
	}, nil
}

// wireIngest assembles the pipeline out of its parts, in dependency order.
func wireIngest(theDB *gorm.DB, neoClient *neo4jdb.Client, cache *rediscache.Cache, tmdbClient tmdb.Client, cfg Config, log *logger.Logger) (*ingest.Batch, runsrepo.IngestRunRepo, error) {
	var store ingest.Store = catalog.NewStore(theDB, log)
	if neoClient != nil {
		graphStore := graph.NewStore(neoClient, log)
		if err := graphStore.EnsureSchema(context.Background()); err != nil {
			return nil, nil, fmt.Errorf("graph schema: %w", err)
		}
		store = ingest.NewMultiStore(store, graphStore)
	}

	gate := ingest.NewGate(store, cache, log)
	loader := ingest.NewLoader(store, gate, log)
	fetcher := ingest.NewFetcher(tmdbClient, log, ingest.FetcherOptions{
		MaxAttempts: cfg.FetchMaxAttempts,
		BaseBackoff: cfg.FetchBaseBackoff,
	})
	chains := ingest.NewChainResolver(fetcher, gate, loader, log)

	var ratings *ingest.RatingsFlow
	if cfg.RatingsEnabled {
		scraper, err := scrape.NewScraper(log)
		if err != nil {
			return nil, nil, err
		}
		sink := catalog.NewRatingsSink(catalog.NewRatingsRepo(theDB, log))
		ratings = ingest.NewRatingsFlow(scraper, sink, log)
	}

	pipeline := ingest.NewPipeline(fetcher, gate, loader, chains, ratings, log, ingest.PipelineOptions{
		PersonConcurrency: cfg.PersonConcurrency,
		AllOrNothing:      cfg.AllOrNothing,
	})

	runRepo := runsrepo.NewIngestRunRepo(theDB, log)
	batch := ingest.NewBatch(fetcher, pipeline, runsrepo.NewRunRecorder(runRepo), log)
	return batch, runRepo, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.neo4j != nil {
		_ = a.neo4j.Close(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
