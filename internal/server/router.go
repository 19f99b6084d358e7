package server

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/moviegraph-backend/internal/http/handlers"
	"github.com/yungbote/moviegraph-backend/internal/http/middleware"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log           *logger.Logger
	HealthHandler *handlers.HealthHandler
	IngestHandler *handlers.IngestHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.POST("/ingest/runs", cfg.IngestHandler.StartRun)
		v1.GET("/ingest/runs", cfg.IngestHandler.ListRuns)
		v1.GET("/ingest/runs/:id", cfg.IngestHandler.GetRun)
	}

	return router
}
