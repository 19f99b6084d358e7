package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/moviegraph-backend/internal/data/repos/runs"
	"github.com/yungbote/moviegraph-backend/internal/http/response"
	"github.com/yungbote/moviegraph-backend/internal/ingest"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
)

// IngestHandler exposes the batch driver over HTTP. A started batch runs in
// the background; callers poll the run id for progress.
type IngestHandler struct {
	batch *ingest.Batch
	runs  runs.IngestRunRepo
	log   *logger.Logger
}

func NewIngestHandler(batch *ingest.Batch, runRepo runs.IngestRunRepo, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		batch: batch,
		runs:  runRepo,
		log:   log.With("handler", "IngestHandler"),
	}
}

type startRunRequest struct {
	StartDate        string `json:"start_date" binding:"required"`
	EndDate          string `json:"end_date" binding:"required"`
	VoteCountMinimum int    `json:"vote_count_minimum"`
	OriginalLanguage string `json:"original_language"`
	MovieConcurrency int    `json:"movie_concurrency"`
}

func (h *IngestHandler) StartRun(c *gin.Context) {
	var req startRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := validateWindow(req.StartDate, req.EndDate); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_window", err)
		return
	}

	opts := ingest.BatchOptions{
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		VoteCountMinimum: req.VoteCountMinimum,
		OriginalLanguage: req.OriginalLanguage,
		MovieConcurrency: req.MovieConcurrency,
	}

	// The row is created before the 202 so an immediate poll finds it.
	run, err := h.batch.StartRun(c.Request.Context(), &opts)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "run_create_failed", err)
		return
	}

	// The batch outlives the request; it gets its own context.
	go func() {
		if _, err := h.batch.Run(context.Background(), opts); err != nil {
			h.log.Error("batch run failed", "run_id", opts.RunID, "error", err)
		}
	}()

	response.RespondAccepted(c, gin.H{"run_id": run.ID})
}

func (h *IngestHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_run_id", err)
		return
	}
	run, err := h.runs.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "run_not_found", err)
		return
	}
	response.RespondOK(c, run)
}

func (h *IngestHandler) ListRuns(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	list, err := h.runs.List(c.Request.Context(), nil, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": list})
}

func validateWindow(start, end string) error {
	from, err := time.Parse("2006-01-02", start)
	if err != nil {
		return fmt.Errorf("start_date: %w", err)
	}
	to, err := time.Parse("2006-01-02", end)
	if err != nil {
		return fmt.Errorf("end_date: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("end_date %s precedes start_date %s", end, start)
	}
	return nil
}
