package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gorm.io/datatypes"

	types "github.com/yungbote/moviegraph-backend/internal/domain"
	"github.com/yungbote/moviegraph-backend/internal/platform/logger"
	"github.com/yungbote/moviegraph-backend/internal/platform/tmdb"
)

// RunRecorder persists batch bookkeeping. Implemented by the ingest-run repo.
type RunRecorder interface {
	Create(ctx context.Context, run *types.IngestRun) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	MarkFinished(ctx context.Context, id uuid.UUID, status string, fields map[string]any) error
}

type BatchOptions struct {
	StartDate        string
	EndDate          string
	VoteCountMinimum int
	OriginalLanguage string
	// MovieConcurrency bounds how many movie pipelines run at once. Zero
	// means 4.
	MovieConcurrency int
	// RunID, when set, names a bookkeeping row the caller already created
	// via StartRun. Zero means Run creates its own row.
	RunID uuid.UUID
}

type MovieFailure struct {
	MovieID int64  `json:"movie_id"`
	State   State  `json:"state"`
	Error   string `json:"error"`
}

type BatchReport struct {
	RunID      uuid.UUID      `json:"run_id"`
	Discovered int            `json:"discovered"`
	Completed  int            `json:"completed"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	Failures   []MovieFailure `json:"failures,omitempty"`
}

// Batch drives a discovery window through the movie pipeline: page through
// the catalog's discovery feed, then run one pipeline per candidate under a
// concurrency ceiling. Every discovered id is accounted for in the report as
// completed, skipped, or failed.
type Batch struct {
	fetcher  *Fetcher
	pipeline *Pipeline
	runs     RunRecorder
	log      *logger.Logger
}

func NewBatch(fetcher *Fetcher, pipeline *Pipeline, runs RunRecorder, log *logger.Logger) *Batch {
	return &Batch{
		fetcher:  fetcher,
		pipeline: pipeline,
		runs:     runs,
		log:      log.With("component", "Batch"),
	}
}

// StartRun creates the bookkeeping row before the batch executes so an
// asynchronous caller can hand out the run id and have polls find the row
// immediately. It fills opts.RunID and the concurrency default in place.
func (b *Batch) StartRun(ctx context.Context, opts *BatchOptions) (*types.IngestRun, error) {
	if opts.MovieConcurrency <= 0 {
		opts.MovieConcurrency = 4
	}
	if opts.RunID == uuid.Nil {
		opts.RunID = uuid.New()
	}
	run := &types.IngestRun{
		ID:                opts.RunID,
		StartDate:         opts.StartDate,
		EndDate:           opts.EndDate,
		VoteCountMinimum:  opts.VoteCountMinimum,
		MovieConcurrency:  opts.MovieConcurrency,
		PersonConcurrency: b.pipeline.opts.PersonConcurrency,
		Status:            types.RunStatusRunning,
	}
	if err := b.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

func (b *Batch) Run(ctx context.Context, opts BatchOptions) (*BatchReport, error) {
	if opts.RunID == uuid.Nil {
		if _, err := b.StartRun(ctx, &opts); err != nil {
			return nil, err
		}
	}
	if opts.MovieConcurrency <= 0 {
		opts.MovieConcurrency = 4
	}
	report := &BatchReport{RunID: opts.RunID}
	log := b.log.With("run_id", opts.RunID)

	ids, err := b.discover(ctx, opts)
	if err != nil {
		b.finish(ctx, opts.RunID, types.RunStatusFailed, report, err)
		return report, err
	}
	report.Discovered = len(ids)
	if err := b.runs.UpdateFields(ctx, opts.RunID, map[string]any{"movies_discovered": len(ids)}); err != nil {
		log.Warn("run bookkeeping update failed", "error", err)
	}
	log.Info("discovery complete", "movies", len(ids),
		"window", fmt.Sprintf("%s..%s", opts.StartDate, opts.EndDate))

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(int64(opts.MovieConcurrency))
	)
	for _, movieID := range ids {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context gone; the remaining candidates are recorded as failed
			// rather than dropped.
			mu.Lock()
			report.Failed++
			report.Failures = append(report.Failures, MovieFailure{
				MovieID: movieID, Error: err.Error(),
			})
			mu.Unlock()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			result, err := b.pipeline.Run(ctx, movieID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed++
				state := State("")
				if result != nil {
					state = result.State
				}
				report.Failures = append(report.Failures, MovieFailure{
					MovieID: movieID, State: state, Error: err.Error(),
				})
			case result.Skipped:
				report.Skipped++
			default:
				report.Completed++
			}
		}()
	}
	wg.Wait()

	status := types.RunStatusCompleted
	b.finish(ctx, opts.RunID, status, report, nil)
	log.Info("batch finished",
		"completed", report.Completed, "skipped", report.Skipped, "failed", report.Failed)
	return report, nil
}

// discover pages through the feed until the last page, deduplicating ids
// that shift between pages while the window is being read.
func (b *Batch) discover(ctx context.Context, opts BatchOptions) ([]int64, error) {
	query := tmdb.DiscoverQuery{
		StartDate:        opts.StartDate,
		EndDate:          opts.EndDate,
		VoteCountMinimum: opts.VoteCountMinimum,
		OriginalLanguage: opts.OriginalLanguage,
	}

	seen := map[int64]bool{}
	var ids []int64
	page := 1
	for {
		pageIDs, totalPages, err := b.fetcher.Discover(ctx, query, page)
		if err != nil {
			return nil, fmt.Errorf("discovery page %d: %w", page, err)
		}
		for _, id := range pageIDs {
			if id == 0 || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		if page >= totalPages {
			return ids, nil
		}
		page++
	}
}

func (b *Batch) finish(ctx context.Context, runID uuid.UUID, status string, report *BatchReport, cause error) {
	fields := map[string]any{
		"movies_discovered": report.Discovered,
		"movies_completed":  report.Completed,
		"movies_skipped":    report.Skipped,
		"movies_failed":     report.Failed,
	}
	if len(report.Failures) > 0 {
		if raw, err := json.Marshal(report.Failures); err == nil {
			fields["failures"] = datatypes.JSON(raw)
		}
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	if err := b.runs.MarkFinished(ctx, runID, status, fields); err != nil {
		b.log.Warn("run bookkeeping finish failed", "run_id", runID, "error", err)
	}
}
